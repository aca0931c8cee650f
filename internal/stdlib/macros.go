package stdlib

import (
	"errors"

	"github.com/cwbudde/go-cel/internal/registry"
	"github.com/cwbudde/go-cel/internal/types"
	"github.com/cwbudde/go-cel/internal/value"
)

var errOptionalEmpty = errors.New("optional.value() called on an empty optional")

// registerOptional wires the `optional<dyn>` receiver methods of
// spec.md §4.G: hasValue, value, orValue, or. The `optional.of` /
// `optional.none` / `optional.ofNonZeroValue` constructors are a
// separate special form handled directly in internal/checker and
// internal/interpreter (their receiver is the reserved `optional`
// namespace, not an evaluated value, so they don't fit the registry's
// receiver-call shape). Comprehension macros (all/exists/exists_one/
// filter/map) and has() are likewise special forms, not registry
// entries; this file's scope is the optional namespace only.
func registerOptional(reg *registry.Registry) error {
	optT := types.NewOptional(types.Dyn)

	if err := reg.RegisterOverload(&registry.Overload{
		Name: "hasValue", ReceiverType: optT, ResultType: types.Bool,
		Func: func(args []value.Value) (value.Value, error) {
			return value.BoolValue(args[0].(*value.OptionalValue).HasValue()), nil
		},
	}); err != nil {
		return err
	}

	if err := reg.RegisterOverload(&registry.Overload{
		Name: "value", ReceiverType: optT, ResultType: types.Dyn,
		Func: func(args []value.Value) (value.Value, error) {
			o := args[0].(*value.OptionalValue)
			if !o.HasValue() {
				return nil, errOptionalEmpty
			}
			return o.Inner, nil
		},
	}); err != nil {
		return err
	}

	if err := reg.RegisterOverload(&registry.Overload{
		Name: "orValue", ReceiverType: optT, ArgTypes: []*types.Type{types.Dyn}, ResultType: types.Dyn,
		Func: func(args []value.Value) (value.Value, error) {
			o := args[0].(*value.OptionalValue)
			if o.HasValue() {
				return o.Inner, nil
			}
			return args[1], nil
		},
	}); err != nil {
		return err
	}

	return reg.RegisterOverload(&registry.Overload{
		Name: "or", ReceiverType: optT, ArgTypes: []*types.Type{optT}, ResultType: optT,
		Func: func(args []value.Value) (value.Value, error) {
			o := args[0].(*value.OptionalValue)
			if o.HasValue() {
				return o, nil
			}
			return args[1].(*value.OptionalValue), nil
		},
	})
}
