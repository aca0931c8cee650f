package stdlib

import (
	"github.com/cwbudde/go-cel/internal/registry"
	"github.com/cwbudde/go-cel/internal/types"
	"github.com/cwbudde/go-cel/internal/value"
)

// registerComparison wires equality for every primitive type and for
// list<dyn>/map<dyn, dyn> (spec.md §8 Testable Property 6: same-type
// equality is fine, cross-numeric equality is a type error), and ordering
// for every orderable type plus cross-numeric pairs (int<->uint,
// int<->double, uint<->double) per spec.md §4.G. No dyn/dyn equality
// overload is registered: the registry rejects it as overlapping every
// typed one. A dyn operand therefore checks against the same-type
// overloads, and at runtime `==`/`!=` between values of two different
// types finds no overload and is an evaluation error.
func registerComparison(reg *registry.Registry) error {
	eqOnly := []*types.Type{types.Bool, types.Null, types.TypeType}
	for _, t := range eqOnly {
		if err := registerEquality(reg, t, t); err != nil {
			return err
		}
	}

	orderable := []*types.Type{types.Int, types.Uint, types.Double, types.String, types.Bytes, types.Timestamp, types.Duration}
	for _, t := range orderable {
		if err := registerEquality(reg, t, t); err != nil {
			return err
		}
		if err := registerOrdering(reg, t, t, sameTypeLess(t)); err != nil {
			return err
		}
	}

	numPairs := [][2]*types.Type{
		{types.Int, types.Uint}, {types.Uint, types.Int},
		{types.Int, types.Double}, {types.Double, types.Int},
		{types.Uint, types.Double}, {types.Double, types.Uint},
	}
	for _, p := range numPairs {
		if err := registerOrdering(reg, p[0], p[1], crossNumericLess); err != nil {
			return err
		}
	}

	listT, mapT := types.NewList(types.Dyn), types.NewMap(types.Dyn, types.Dyn)
	if err := registerEquality(reg, listT, listT); err != nil {
		return err
	}
	if err := registerEquality(reg, mapT, mapT); err != nil {
		return err
	}

	return registerMembership(reg, listT, mapT)
}

// registerMembership wires `e in list` and `e in map` (spec.md §4.G).
// `string in string` is deliberately NOT registered: per SPEC_FULL.md's
// canonical Open-Question resolution it is a type error, with
// `.contains` as the intended substring test.
func registerMembership(reg *registry.Registry, listT, mapT *types.Type) error {
	if err := reg.RegisterOverload(&registry.Overload{
		Name: "_in_", ArgTypes: []*types.Type{types.Dyn, listT}, ResultType: types.Bool,
		Func: func(args []value.Value) (value.Value, error) {
			l := args[1].(*value.ListValue)
			for _, e := range l.Elems {
				if args[0].Equal(e) {
					return value.BoolValue(true), nil
				}
			}
			return value.BoolValue(false), nil
		},
	}); err != nil {
		return err
	}
	return reg.RegisterOverload(&registry.Overload{
		Name: "_in_", ArgTypes: []*types.Type{types.Dyn, mapT}, ResultType: types.Bool,
		Func: func(args []value.Value) (value.Value, error) {
			m := args[1].(*value.MapValue)
			return value.BoolValue(m.Has(args[0])), nil
		},
	})
}

func registerEquality(reg *registry.Registry, a, b *types.Type) error {
	if err := reg.RegisterOverload(&registry.Overload{
		Name: "_==_", ArgTypes: []*types.Type{a, b}, ResultType: types.Bool,
		Func: func(args []value.Value) (value.Value, error) {
			return value.BoolValue(args[0].Equal(args[1])), nil
		},
	}); err != nil {
		return err
	}
	return reg.RegisterOverload(&registry.Overload{
		Name: "_!=_", ArgTypes: []*types.Type{a, b}, ResultType: types.Bool,
		Func: func(args []value.Value) (value.Value, error) {
			return value.BoolValue(!args[0].Equal(args[1])), nil
		},
	})
}

// registerOrdering wires `<`, `<=`, `>`, `>=` for an (a, b) argument pair
// given a three-way-free strict-less predicate.
func registerOrdering(reg *registry.Registry, a, b *types.Type, less func(x, y value.Value) bool) error {
	variants := []struct {
		op string
		f  func(x, y value.Value) bool
	}{
		{"_<_", func(x, y value.Value) bool { return less(x, y) }},
		{"_>_", func(x, y value.Value) bool { return less(y, x) }},
		{"_<=_", func(x, y value.Value) bool { return !less(y, x) }},
		{"_>=_", func(x, y value.Value) bool { return !less(x, y) }},
	}
	for _, v := range variants {
		f := v.f
		if err := reg.RegisterOverload(&registry.Overload{
			Name: v.op, ArgTypes: []*types.Type{a, b}, ResultType: types.Bool,
			Func: func(args []value.Value) (value.Value, error) {
				return value.BoolValue(f(args[0], args[1])), nil
			},
		}); err != nil {
			return err
		}
	}
	return nil
}

// sameTypeLess returns a strict-less predicate for two values already
// known to share type t.
func sameTypeLess(t *types.Type) func(a, b value.Value) bool {
	switch t.Kind {
	case types.KindInt:
		return func(a, b value.Value) bool { return a.(value.IntValue) < b.(value.IntValue) }
	case types.KindUint:
		return func(a, b value.Value) bool { return a.(value.UintValue) < b.(value.UintValue) }
	case types.KindDouble:
		return func(a, b value.Value) bool { return a.(value.DoubleValue) < b.(value.DoubleValue) }
	case types.KindString:
		return func(a, b value.Value) bool { return a.(value.StringValue) < b.(value.StringValue) }
	case types.KindBytes:
		return func(a, b value.Value) bool { return string(a.(value.BytesValue)) < string(b.(value.BytesValue)) }
	case types.KindTimestamp:
		return func(a, b value.Value) bool {
			return timeOf(a.(value.TimestampValue)).Before(timeOf(b.(value.TimestampValue)))
		}
	case types.KindDuration:
		return func(a, b value.Value) bool {
			return durationOf(a.(value.DurationValue)) < durationOf(b.(value.DurationValue))
		}
	}
	return func(value.Value, value.Value) bool { return false }
}

// crossNumericLess widens either operand to float64 for comparison,
// matching spec.md §4.G's "cross-numeric ordering (int < double, etc.)".
func crossNumericLess(a, b value.Value) bool {
	return numericFloat(a) < numericFloat(b)
}

func numericFloat(v value.Value) float64 {
	switch n := v.(type) {
	case value.IntValue:
		return float64(n)
	case value.UintValue:
		return float64(n)
	case value.DoubleValue:
		return float64(n)
	}
	return 0
}
