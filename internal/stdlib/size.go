package stdlib

import (
	"fmt"
	"unicode/utf8"

	"github.com/cwbudde/go-cel/internal/registry"
	"github.com/cwbudde/go-cel/internal/types"
	"github.com/cwbudde/go-cel/internal/value"
)

// sizeOf implements spec.md §4.G's polymorphic size computation: Unicode
// scalar count for string, byte count for bytes (SPEC_FULL.md's
// canonical Open-Question resolution), and element/entry count for
// list/map. Shared by both the receiver (`x.size()`) and global
// (`size(x)`) overload forms registerSize wires below.
func sizeOf(v value.Value) (value.Value, error) {
	switch t := v.(type) {
	case value.StringValue:
		return value.IntValue(utf8.RuneCountInString(string(t))), nil
	case value.BytesValue:
		return value.IntValue(len(t)), nil
	case *value.ListValue:
		return value.IntValue(len(t.Elems)), nil
	case *value.MapValue:
		return value.IntValue(t.Len()), nil
	default:
		return nil, fmt.Errorf("size(): unsupported operand type %s", v.Type())
	}
}

// registerSize wires `size()` both as a receiver method on
// string/bytes/list<dyn>/map<dyn, dyn> and, the way typefn.go's type(x)
// is globally callable, as a dyn-erased global function: both
// `x.size()` and `size(x)` resolve, matching spec.md §8's
// `size("hello 😄")` call form.
func registerSize(reg *registry.Registry) error {
	receiverTypes := []*types.Type{types.String, types.Bytes, types.NewList(types.Dyn), types.NewMap(types.Dyn, types.Dyn)}
	for _, recv := range receiverTypes {
		if err := reg.RegisterOverload(&registry.Overload{
			Name: "size", ReceiverType: recv, ResultType: types.Int,
			Func: func(args []value.Value) (value.Value, error) {
				return sizeOf(args[0])
			},
		}); err != nil {
			return err
		}
	}

	return reg.RegisterOverload(&registry.Overload{
		Name: "size", ArgTypes: []*types.Type{types.Dyn}, ResultType: types.Int,
		Func: func(args []value.Value) (value.Value, error) {
			return sizeOf(args[0])
		},
	})
}
