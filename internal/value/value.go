// Package value implements CEL's runtime value representation: one
// concrete Go type per CEL type, all satisfying the Value interface,
// mirroring the teacher interpreter's per-kind Value implementations
// (IntegerValue, StringValue, ...) rather than a single tagged struct.
package value

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cwbudde/go-cel/internal/types"
)

// Value is a runtime CEL value. Every concrete type in this package
// implements it.
type Value interface {
	// Type returns the value's CEL type descriptor.
	Type() *types.Type
	// String renders the value's canonical form (spec.md §4.A / SPEC_FULL.md).
	String() string
	// Equal reports CEL equality with another value, per spec.md's
	// numeric cross-kind comparison rules.
	Equal(other Value) bool
}

// NullValue is CEL's single null value.
type NullValue struct{}

func (NullValue) Type() *types.Type { return types.Null }
func (NullValue) String() string    { return "null" }
func (NullValue) Equal(other Value) bool {
	_, ok := other.(NullValue)
	return ok
}

// Null is the shared null instance.
var Null = NullValue{}

// BoolValue wraps a CEL bool.
type BoolValue bool

func (b BoolValue) Type() *types.Type { return types.Bool }
func (b BoolValue) String() string {
	if b {
		return "true"
	}
	return "false"
}
func (b BoolValue) Equal(other Value) bool {
	o, ok := other.(BoolValue)
	return ok && b == o
}

// IntValue wraps a CEL signed 64-bit integer.
type IntValue int64

func (i IntValue) Type() *types.Type { return types.Int }
func (i IntValue) String() string    { return strconv.FormatInt(int64(i), 10) }
func (i IntValue) Equal(other Value) bool {
	switch o := other.(type) {
	case IntValue:
		return i == o
	case UintValue:
		return int64(i) >= 0 && uint64(i) == uint64(o)
	case DoubleValue:
		return float64(i) == float64(o)
	}
	return false
}

// UintValue wraps a CEL unsigned 64-bit integer.
type UintValue uint64

func (u UintValue) Type() *types.Type { return types.Uint }
func (u UintValue) String() string    { return strconv.FormatUint(uint64(u), 10) }
func (u UintValue) Equal(other Value) bool {
	switch o := other.(type) {
	case UintValue:
		return u == o
	case IntValue:
		return o.Equal(u)
	case DoubleValue:
		return float64(u) == float64(o)
	}
	return false
}

// DoubleValue wraps a CEL double.
type DoubleValue float64

func (d DoubleValue) Type() *types.Type { return types.Double }
func (d DoubleValue) String() string    { return strconv.FormatFloat(float64(d), 'g', -1, 64) }
func (d DoubleValue) Equal(other Value) bool {
	switch o := other.(type) {
	case DoubleValue:
		return d == o
	case IntValue:
		return float64(d) == float64(o)
	case UintValue:
		return float64(d) == float64(o)
	}
	return false
}

// StringValue wraps a CEL string (a sequence of Unicode codepoints).
type StringValue string

func (s StringValue) Type() *types.Type { return types.String }
func (s StringValue) String() string    { return string(s) }
func (s StringValue) Equal(other Value) bool {
	o, ok := other.(StringValue)
	return ok && s == o
}

// BytesValue wraps a CEL byte string.
type BytesValue []byte

func (b BytesValue) Type() *types.Type { return types.Bytes }
func (b BytesValue) String() string {
	var sb strings.Builder
	for _, c := range b {
		fmt.Fprintf(&sb, "%02x", c)
	}
	return sb.String()
}
func (b BytesValue) Equal(other Value) bool {
	o, ok := other.(BytesValue)
	if !ok || len(b) != len(o) {
		return false
	}
	for i := range b {
		if b[i] != o[i] {
			return false
		}
	}
	return true
}

// TimestampValue wraps a CEL timestamp (absolute instant, UTC-based).
type TimestampValue time.Time

func (t TimestampValue) Type() *types.Type { return types.Timestamp }
func (t TimestampValue) String() string    { return time.Time(t).UTC().Format(time.RFC3339Nano) }
func (t TimestampValue) Equal(other Value) bool {
	o, ok := other.(TimestampValue)
	return ok && time.Time(t).Equal(time.Time(o))
}

// DurationValue wraps a CEL duration.
type DurationValue time.Duration

func (d DurationValue) Type() *types.Type { return types.Duration }
func (d DurationValue) String() string    { return time.Duration(d).String() }
func (d DurationValue) Equal(other Value) bool {
	o, ok := other.(DurationValue)
	return ok && d == o
}

// ListValue wraps an ordered CEL list.
type ListValue struct {
	ElemType *types.Type
	Elems    []Value
}

func NewList(elemType *types.Type, elems []Value) *ListValue {
	return &ListValue{ElemType: elemType, Elems: elems}
}

func (l *ListValue) Type() *types.Type { return types.NewList(l.ElemType) }
func (l *ListValue) String() string {
	parts := make([]string, len(l.Elems))
	for i, e := range l.Elems {
		parts[i] = debugString(e)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}
func (l *ListValue) Equal(other Value) bool {
	o, ok := other.(*ListValue)
	if !ok || len(l.Elems) != len(o.Elems) {
		return false
	}
	for i := range l.Elems {
		if !l.Elems[i].Equal(o.Elems[i]) {
			return false
		}
	}
	return true
}

// MapEntry is a single key/value pair of a MapValue, kept in insertion
// order for deterministic iteration (spec.md §4.A).
type MapEntry struct {
	Key   Value
	Value Value
}

// MapValue wraps a CEL map. Lookup is by canonical key string to allow
// int/uint/bool/string keys to hash uniformly.
type MapValue struct {
	KeyType   *types.Type
	ValueType *types.Type
	entries   []MapEntry
	index     map[string]int
}

func NewMap(keyType, valueType *types.Type) *MapValue {
	return &MapValue{KeyType: keyType, ValueType: valueType, index: map[string]int{}}
}

// mapKey canonicalizes a key value for lookup: int and uint keys that
// compare equal (1, 1u) share one key. Double keys are not unified
// with them; 1.0 and 1 are distinct keys.
func mapKey(v Value) string {
	switch k := v.(type) {
	case IntValue:
		return "n:" + strconv.FormatInt(int64(k), 10)
	case UintValue:
		return "n:" + strconv.FormatUint(uint64(k), 10)
	case BoolValue:
		return "b:" + strconv.FormatBool(bool(k))
	case StringValue:
		return "s:" + string(k)
	default:
		return "?:" + v.String()
	}
}

// Set inserts or overwrites a key/value pair, preserving first-insertion
// order for existing keys (matching map literal construction order).
func (m *MapValue) Set(key, val Value) {
	k := mapKey(key)
	if i, ok := m.index[k]; ok {
		m.entries[i].Value = val
		return
	}
	m.index[k] = len(m.entries)
	m.entries = append(m.entries, MapEntry{Key: key, Value: val})
}

// Get looks up a key, returning (value, true) if present.
func (m *MapValue) Get(key Value) (Value, bool) {
	i, ok := m.index[mapKey(key)]
	if !ok {
		return nil, false
	}
	return m.entries[i].Value, true
}

// Has reports whether key is present.
func (m *MapValue) Has(key Value) bool {
	_, ok := m.index[mapKey(key)]
	return ok
}

// Len returns the number of entries.
func (m *MapValue) Len() int { return len(m.entries) }

// Entries returns entries in insertion order.
func (m *MapValue) Entries() []MapEntry { return m.entries }

func (m *MapValue) Type() *types.Type { return types.NewMap(m.KeyType, m.ValueType) }
func (m *MapValue) String() string {
	parts := make([]string, len(m.entries))
	for i, e := range m.entries {
		parts[i] = fmt.Sprintf("%s: %s", debugString(e.Key), debugString(e.Value))
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
func (m *MapValue) Equal(other Value) bool {
	o, ok := other.(*MapValue)
	if !ok || m.Len() != o.Len() {
		return false
	}
	for _, e := range m.entries {
		ov, ok := o.Get(e.Key)
		if !ok || !e.Value.Equal(ov) {
			return false
		}
	}
	return true
}

// SortedEntries returns entries sorted by canonical key string, for
// reproducible output independent of insertion order.
func (m *MapValue) SortedEntries() []MapEntry {
	out := make([]MapEntry, len(m.entries))
	copy(out, m.entries)
	sort.Slice(out, func(i, j int) bool { return mapKey(out[i].Key) < mapKey(out[j].Key) })
	return out
}

// OptionalValue wraps CEL's optional<T>: either present with an inner
// Value, or absent.
type OptionalValue struct {
	ElemType *types.Type
	Inner    Value // nil when absent
}

func NewOptionalOf(v Value) *OptionalValue {
	return &OptionalValue{ElemType: v.Type(), Inner: v}
}

func NewOptionalNone(elemType *types.Type) *OptionalValue {
	return &OptionalValue{ElemType: elemType}
}

func (o *OptionalValue) HasValue() bool { return o.Inner != nil }
func (o *OptionalValue) Type() *types.Type { return types.NewOptional(o.ElemType) }
func (o *OptionalValue) String() string {
	if o.Inner == nil {
		return "optional.none()"
	}
	return fmt.Sprintf("optional.of(%s)", debugString(o.Inner))
}
func (o *OptionalValue) Equal(other Value) bool {
	oo, ok := other.(*OptionalValue)
	if !ok {
		return false
	}
	if o.Inner == nil || oo.Inner == nil {
		return o.Inner == nil && oo.Inner == nil
	}
	return o.Inner.Equal(oo.Inner)
}

// TypeValue wraps a CEL type descriptor used as a first-class runtime
// value, the result of the `type()` builtin.
type TypeValue struct {
	Descriptor *types.Type
}

func (t *TypeValue) Type() *types.Type { return types.TypeType }
func (t *TypeValue) String() string    { return t.Descriptor.String() }
func (t *TypeValue) Equal(other Value) bool {
	o, ok := other.(*TypeValue)
	return ok && types.Equal(t.Descriptor, o.Descriptor)
}

// ObjectValue wraps an instance of a registered opaque user type
// (spec.md §3's "object" value kind): a fixed set of named fields, each
// holding a Value, identified by the type's registered name so the
// checker/interpreter can enforce declared field types at access.
type ObjectValue struct {
	TypeName string
	Fields   map[string]Value
}

func NewObject(typeName string, fields map[string]Value) *ObjectValue {
	return &ObjectValue{TypeName: typeName, Fields: fields}
}

func (o *ObjectValue) Type() *types.Type { return types.NewObject(o.TypeName) }
func (o *ObjectValue) String() string {
	names := make([]string, 0, len(o.Fields))
	for name := range o.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	parts := make([]string, len(names))
	for i, name := range names {
		parts[i] = fmt.Sprintf("%s: %s", name, debugString(o.Fields[name]))
	}
	return fmt.Sprintf("%s{%s}", o.TypeName, strings.Join(parts, ", "))
}
func (o *ObjectValue) Equal(other Value) bool {
	oo, ok := other.(*ObjectValue)
	if !ok || o.TypeName != oo.TypeName || len(o.Fields) != len(oo.Fields) {
		return false
	}
	for name, v := range o.Fields {
		ov, ok := oo.Fields[name]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// debugString quotes strings for composite debug dumps (list/map
// String()) while leaving other kinds in their plain canonical form,
// per SPEC_FULL.md's Value Model section.
func debugString(v Value) string {
	if s, ok := v.(StringValue); ok {
		return strconv.Quote(string(s))
	}
	return v.String()
}
