// Package types implements the CEL type lattice: primitive types, the
// dyn top type, and the parameterized list/map/optional type
// constructors, along with assignability and overlap rules used by
// internal/checker and internal/registry.
package types

import "fmt"

// Kind identifies a type's shape.
type Kind int

const (
	KindDyn Kind = iota
	KindNull
	KindBool
	KindInt
	KindUint
	KindDouble
	KindString
	KindBytes
	KindList
	KindMap
	KindOptional
	KindTimestamp
	KindDuration
	KindType   // the type of a type value, e.g. the value produced by `type(x)`
	KindObject // a registered opaque user type, identified by Name
)

var kindNames = map[Kind]string{
	KindDyn:       "dyn",
	KindNull:      "null_type",
	KindBool:      "bool",
	KindInt:       "int",
	KindUint:      "uint",
	KindDouble:    "double",
	KindString:    "string",
	KindBytes:     "bytes",
	KindList:      "list",
	KindMap:       "map",
	KindOptional:  "optional",
	KindTimestamp: "timestamp",
	KindDuration:  "duration",
	KindType:      "type",
	KindObject:    "object",
}

// Type is a CEL type descriptor. Primitive types are represented by
// Kind alone; list/map/optional carry parameter types; object carries
// the registered type Name.
type Type struct {
	Kind  Kind
	Elem  *Type // list<Elem>, optional<Elem>
	Key   *Type // map<Key, Value>
	Value *Type // map<Key, Value>
	Name  string // KindObject: the registered type name
}

var (
	Dyn       = &Type{Kind: KindDyn}
	Null      = &Type{Kind: KindNull}
	Bool      = &Type{Kind: KindBool}
	Int       = &Type{Kind: KindInt}
	Uint      = &Type{Kind: KindUint}
	Double    = &Type{Kind: KindDouble}
	String    = &Type{Kind: KindString}
	Bytes     = &Type{Kind: KindBytes}
	Timestamp = &Type{Kind: KindTimestamp}
	Duration  = &Type{Kind: KindDuration}
	TypeType  = &Type{Kind: KindType}
)

// NewList builds a list<elem> type. A nil elem normalizes to list<dyn>.
func NewList(elem *Type) *Type {
	if elem == nil {
		elem = Dyn
	}
	return &Type{Kind: KindList, Elem: elem}
}

// NewMap builds a map<key, value> type. Nil key/value normalize to dyn.
func NewMap(key, value *Type) *Type {
	if key == nil {
		key = Dyn
	}
	if value == nil {
		value = Dyn
	}
	return &Type{Kind: KindMap, Key: key, Value: value}
}

// NewOptional builds an optional<elem> type.
func NewOptional(elem *Type) *Type {
	if elem == nil {
		elem = Dyn
	}
	return &Type{Kind: KindOptional, Elem: elem}
}

// NewObject builds a reference to a registered opaque user type by name.
func NewObject(name string) *Type {
	return &Type{Kind: KindObject, Name: name}
}

// String renders the type in CEL's own generic-type syntax, e.g.
// "list<map<string, dyn>>".
func (t *Type) String() string {
	if t == nil {
		return "<nil>"
	}
	switch t.Kind {
	case KindList:
		return fmt.Sprintf("list<%s>", t.Elem.String())
	case KindMap:
		return fmt.Sprintf("map<%s, %s>", t.Key.String(), t.Value.String())
	case KindOptional:
		return fmt.Sprintf("optional<%s>", t.Elem.String())
	case KindObject:
		return t.Name
	default:
		return kindNames[t.Kind]
	}
}

// Equal reports structural equality between two type descriptors,
// treating dyn as equal only to dyn (use IsAssignable for lattice
// comparisons that should treat dyn as a wildcard).
func Equal(a, b *Type) bool {
	if a == nil || b == nil {
		return a == b
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindList, KindOptional:
		return Equal(a.Elem, b.Elem)
	case KindMap:
		return Equal(a.Key, b.Key) && Equal(a.Value, b.Value)
	case KindObject:
		return a.Name == b.Name
	default:
		return true
	}
}

// IsAssignable reports whether a value of type `from` may be used where
// `to` is expected. dyn absorbs and is absorbed by anything; list/map/
// optional are assignable when their parameters are (recursively)
// assignable, per spec.md §4.E's lattice described around `dyn`.
func IsAssignable(from, to *Type) bool {
	if from == nil || to == nil {
		return false
	}
	if from.Kind == KindDyn || to.Kind == KindDyn {
		return true
	}
	if from.Kind != to.Kind {
		return false
	}
	switch from.Kind {
	case KindList, KindOptional:
		return IsAssignable(from.Elem, to.Elem)
	case KindMap:
		return IsAssignable(from.Key, to.Key) && IsAssignable(from.Value, to.Value)
	case KindObject:
		return from.Name == to.Name
	default:
		return true
	}
}

// Overlaps reports whether two types could describe the same runtime
// value — used by internal/registry to detect ambiguous overloads.
// Two types overlap when each is assignable to the other under dyn's
// wildcard rule, i.e. neither is provably disjoint from the other.
func Overlaps(a, b *Type) bool {
	if a == nil || b == nil {
		return false
	}
	if a.Kind == KindDyn || b.Kind == KindDyn {
		return true
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindList, KindOptional:
		return Overlaps(a.Elem, b.Elem)
	case KindMap:
		return Overlaps(a.Key, b.Key) && Overlaps(a.Value, b.Value)
	case KindObject:
		return a.Name == b.Name
	default:
		return true
	}
}

// IsNumeric reports whether t is one of CEL's three numeric kinds.
func IsNumeric(t *Type) bool {
	if t == nil {
		return false
	}
	return t.Kind == KindInt || t.Kind == KindUint || t.Kind == KindDouble
}

// Normalize collapses list<dyn>/map<dyn,dyn> parameter defaults and
// returns a canonical pointer-shared form so Equal callers relying on
// pointer identity for primitives still work for constructed types.
func Normalize(t *Type) *Type {
	if t == nil {
		return Dyn
	}
	switch t.Kind {
	case KindList:
		return NewList(Normalize(t.Elem))
	case KindMap:
		return NewMap(Normalize(t.Key), Normalize(t.Value))
	case KindOptional:
		return NewOptional(Normalize(t.Elem))
	default:
		return t
	}
}
