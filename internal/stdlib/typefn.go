package stdlib

import (
	"github.com/cwbudde/go-cel/internal/registry"
	"github.com/cwbudde/go-cel/internal/types"
	"github.com/cwbudde/go-cel/internal/value"
)

// registerTypeFn wires the global `type(x)` function of spec.md §4.G.
// Equality between two type values is registered in comparison.go
// (registerComparison's eqOnly pass); ordering is deliberately not
// registered anywhere, per spec.md's "ordering forbidden" for type.
func registerTypeFn(reg *registry.Registry) error {
	return reg.RegisterOverload(&registry.Overload{
		Name: "type", ArgTypes: []*types.Type{types.Dyn}, ResultType: types.TypeType,
		Func: func(args []value.Value) (value.Value, error) {
			return &value.TypeValue{Descriptor: args[0].Type()}, nil
		},
	})
}
