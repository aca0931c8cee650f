package cel

import (
	"fmt"
	"time"

	"github.com/cwbudde/go-cel/internal/types"
	"github.com/cwbudde/go-cel/internal/value"
)

// toValue converts a native Go value into the internal value model so
// it can be bound as a runtime context variable or passed to a native
// function overload, matching spec.md §6's "runtime context, a mapping
// from variable name to value" at the facade boundary. The internal
// engine never sees `any` itself — only this conversion layer does.
func toValue(v any) (value.Value, error) {
	switch t := v.(type) {
	case nil:
		return value.NullValue{}, nil
	case value.Value:
		return t, nil
	case bool:
		return value.BoolValue(t), nil
	case int:
		return value.IntValue(t), nil
	case int32:
		return value.IntValue(t), nil
	case int64:
		return value.IntValue(t), nil
	case uint:
		return value.UintValue(t), nil
	case uint32:
		return value.UintValue(t), nil
	case uint64:
		return value.UintValue(t), nil
	case float32:
		return value.DoubleValue(t), nil
	case float64:
		return value.DoubleValue(t), nil
	case string:
		return value.StringValue(t), nil
	case []byte:
		return value.BytesValue(t), nil
	case time.Time:
		return value.TimestampValue(t), nil
	case time.Duration:
		return value.DurationValue(t), nil
	case []any:
		elems := make([]value.Value, len(t))
		elemType := types.Dyn
		for i, e := range t {
			cv, err := toValue(e)
			if err != nil {
				return nil, err
			}
			elems[i] = cv
			if i == 0 {
				elemType = cv.Type()
			}
		}
		return value.NewList(elemType, elems), nil
	case map[string]any:
		m := value.NewMap(types.String, types.Dyn)
		for _, k := range sortedKeys(t) {
			cv, err := toValue(t[k])
			if err != nil {
				return nil, err
			}
			m.Set(value.StringValue(k), cv)
		}
		return m, nil
	default:
		return nil, fmt.Errorf("cel: cannot convert %T to a CEL value", v)
	}
}

// fromValue converts an internal value back into a native Go value for
// callers of the public facade, the inverse of toValue.
func fromValue(v value.Value) (any, error) {
	switch t := v.(type) {
	case value.NullValue:
		return nil, nil
	case value.BoolValue:
		return bool(t), nil
	case value.IntValue:
		return int64(t), nil
	case value.UintValue:
		return uint64(t), nil
	case value.DoubleValue:
		return float64(t), nil
	case value.StringValue:
		return string(t), nil
	case value.BytesValue:
		return []byte(t), nil
	case value.TimestampValue:
		return time.Time(t), nil
	case value.DurationValue:
		return time.Duration(t), nil
	case *value.ListValue:
		out := make([]any, len(t.Elems))
		for i, e := range t.Elems {
			cv, err := fromValue(e)
			if err != nil {
				return nil, err
			}
			out[i] = cv
		}
		return out, nil
	case *value.MapValue:
		out := make(map[string]any, t.Len())
		for _, e := range t.Entries() {
			key, err := fromValue(e.Key)
			if err != nil {
				return nil, err
			}
			ks, ok := key.(string)
			if !ok {
				ks = fmt.Sprint(key)
			}
			val, err := fromValue(e.Value)
			if err != nil {
				return nil, err
			}
			out[ks] = val
		}
		return out, nil
	case *value.OptionalValue:
		if !t.HasValue() {
			return nil, nil
		}
		return fromValue(t.Inner)
	case *value.ObjectValue:
		out := make(map[string]any, len(t.Fields))
		for k, fv := range t.Fields {
			cv, err := fromValue(fv)
			if err != nil {
				return nil, err
			}
			out[k] = cv
		}
		return out, nil
	default:
		return nil, fmt.Errorf("cel: cannot convert %T to a native value", v)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	for i := 1; i < len(keys); i++ {
		for j := i; j > 0 && keys[j-1] > keys[j]; j-- {
			keys[j-1], keys[j] = keys[j], keys[j-1]
		}
	}
	return keys
}

// nativeActivation adapts a map[string]any context into
// interpreter.Activation, converting each variable lazily when it is
// referenced. A context value that toValue cannot convert resolves as
// absent, exactly like a name missing from the map; the conversion
// error itself is not reported.
type nativeActivation struct {
	vars map[string]any
}

func (a nativeActivation) ResolveName(name string) (value.Value, bool) {
	raw, ok := a.vars[name]
	if !ok {
		return nil, false
	}
	v, err := toValue(raw)
	if err != nil {
		return nil, false
	}
	return v, true
}

// wrapNativeFunc adapts a native-typed function overload handler into
// the registry's Func shape, converting arguments in and the result
// (or error) back out, so env.RegisterFunction/RegisterOperator callers
// never need to import internal/value.
func wrapNativeFunc(fn func([]any) (any, error)) func(args []value.Value) (value.Value, error) {
	return func(args []value.Value) (value.Value, error) {
		native := make([]any, len(args))
		for i, a := range args {
			nv, err := fromValue(a)
			if err != nil {
				return nil, err
			}
			native[i] = nv
		}
		result, err := fn(native)
		if err != nil {
			return nil, err
		}
		return toValue(result)
	}
}
