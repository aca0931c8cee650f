package stdlib

import (
	"errors"
	"math"

	"github.com/cwbudde/go-cel/internal/registry"
	"github.com/cwbudde/go-cel/internal/types"
	"github.com/cwbudde/go-cel/internal/value"
)

var errIntOverflow = errors.New("integer overflow")
var errDivByZero = errors.New("division by zero")
var errModByZero = errors.New("modulus by zero")

// checkedAddInt detects signed 64-bit overflow explicitly rather than
// relying on Go's wrapping semantics (spec.md §9: "implementations
// should use explicit checked arithmetic rather than wrapping").
func checkedAddInt(a, b int64) (int64, error) {
	r := a + b
	if (b > 0 && a > math.MaxInt64-b) || (b < 0 && a < math.MinInt64-b) {
		return 0, errIntOverflow
	}
	return r, nil
}

func checkedSubInt(a, b int64) (int64, error) {
	if (b < 0 && a > math.MaxInt64+b) || (b > 0 && a < math.MinInt64+b) {
		return 0, errIntOverflow
	}
	return a - b, nil
}

func checkedMulInt(a, b int64) (int64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	r := a * b
	if r/b != a || (a == -1 && b == math.MinInt64) || (b == -1 && a == math.MinInt64) {
		return 0, errIntOverflow
	}
	return r, nil
}

func checkedNegInt(a int64) (int64, error) {
	if a == math.MinInt64 {
		return 0, errIntOverflow
	}
	return -a, nil
}

func checkedAddUint(a, b uint64) (uint64, error) {
	r := a + b
	if r < a {
		return 0, errIntOverflow
	}
	return r, nil
}

func checkedSubUint(a, b uint64) (uint64, error) {
	if b > a {
		return 0, errIntOverflow
	}
	return a - b, nil
}

func checkedMulUint(a, b uint64) (uint64, error) {
	if a == 0 || b == 0 {
		return 0, nil
	}
	r := a * b
	if r/a != b {
		return 0, errIntOverflow
	}
	return r, nil
}

func registerArithmetic(reg *registry.Registry) error {
	type op struct {
		name string
		fn   func(args []value.Value) (value.Value, error)
	}

	intOps := []op{
		{"_+_", func(args []value.Value) (value.Value, error) {
			r, err := checkedAddInt(int64(args[0].(value.IntValue)), int64(args[1].(value.IntValue)))
			return value.IntValue(r), err
		}},
		{"_-_", func(args []value.Value) (value.Value, error) {
			r, err := checkedSubInt(int64(args[0].(value.IntValue)), int64(args[1].(value.IntValue)))
			return value.IntValue(r), err
		}},
		{"_*_", func(args []value.Value) (value.Value, error) {
			r, err := checkedMulInt(int64(args[0].(value.IntValue)), int64(args[1].(value.IntValue)))
			return value.IntValue(r), err
		}},
		{"_/_", func(args []value.Value) (value.Value, error) {
			a, b := int64(args[0].(value.IntValue)), int64(args[1].(value.IntValue))
			if b == 0 {
				return nil, errDivByZero
			}
			if a == math.MinInt64 && b == -1 {
				return nil, errIntOverflow
			}
			return value.IntValue(a / b), nil
		}},
		{"_%_", func(args []value.Value) (value.Value, error) {
			a, b := int64(args[0].(value.IntValue)), int64(args[1].(value.IntValue))
			if b == 0 {
				return nil, errModByZero
			}
			if a == math.MinInt64 && b == -1 {
				return value.IntValue(0), nil
			}
			return value.IntValue(a % b), nil
		}},
	}
	for _, o := range intOps {
		if err := reg.RegisterOverload(&registry.Overload{
			Name: o.name, ArgTypes: []*types.Type{types.Int, types.Int}, ResultType: types.Int, Func: o.fn,
		}); err != nil {
			return err
		}
	}
	if err := reg.RegisterOverload(&registry.Overload{
		Name: "-_", ArgTypes: []*types.Type{types.Int}, ResultType: types.Int,
		Func: func(args []value.Value) (value.Value, error) {
			r, err := checkedNegInt(int64(args[0].(value.IntValue)))
			return value.IntValue(r), err
		},
	}); err != nil {
		return err
	}

	uintOps := []op{
		{"_+_", func(args []value.Value) (value.Value, error) {
			r, err := checkedAddUint(uint64(args[0].(value.UintValue)), uint64(args[1].(value.UintValue)))
			return value.UintValue(r), err
		}},
		{"_-_", func(args []value.Value) (value.Value, error) {
			r, err := checkedSubUint(uint64(args[0].(value.UintValue)), uint64(args[1].(value.UintValue)))
			return value.UintValue(r), err
		}},
		{"_*_", func(args []value.Value) (value.Value, error) {
			r, err := checkedMulUint(uint64(args[0].(value.UintValue)), uint64(args[1].(value.UintValue)))
			return value.UintValue(r), err
		}},
		{"_/_", func(args []value.Value) (value.Value, error) {
			a, b := uint64(args[0].(value.UintValue)), uint64(args[1].(value.UintValue))
			if b == 0 {
				return nil, errDivByZero
			}
			return value.UintValue(a / b), nil
		}},
		{"_%_", func(args []value.Value) (value.Value, error) {
			a, b := uint64(args[0].(value.UintValue)), uint64(args[1].(value.UintValue))
			if b == 0 {
				return nil, errModByZero
			}
			return value.UintValue(a % b), nil
		}},
	}
	for _, o := range uintOps {
		if err := reg.RegisterOverload(&registry.Overload{
			Name: o.name, ArgTypes: []*types.Type{types.Uint, types.Uint}, ResultType: types.Uint, Func: o.fn,
		}); err != nil {
			return err
		}
	}

	doubleOps := []op{
		{"_+_", func(args []value.Value) (value.Value, error) {
			return args[0].(value.DoubleValue) + args[1].(value.DoubleValue), nil
		}},
		{"_-_", func(args []value.Value) (value.Value, error) {
			return args[0].(value.DoubleValue) - args[1].(value.DoubleValue), nil
		}},
		{"_*_", func(args []value.Value) (value.Value, error) {
			return args[0].(value.DoubleValue) * args[1].(value.DoubleValue), nil
		}},
		{"_/_", func(args []value.Value) (value.Value, error) {
			// Doubles follow IEEE-754: division by zero yields ±Inf/NaN,
			// not a fatal error (spec.md §4.F).
			return args[0].(value.DoubleValue) / args[1].(value.DoubleValue), nil
		}},
	}
	for _, o := range doubleOps {
		if err := reg.RegisterOverload(&registry.Overload{
			Name: o.name, ArgTypes: []*types.Type{types.Double, types.Double}, ResultType: types.Double, Func: o.fn,
		}); err != nil {
			return err
		}
	}
	if err := reg.RegisterOverload(&registry.Overload{
		Name: "-_", ArgTypes: []*types.Type{types.Double}, ResultType: types.Double,
		Func: func(args []value.Value) (value.Value, error) {
			return -args[0].(value.DoubleValue), nil
		},
	}); err != nil {
		return err
	}

	if err := reg.RegisterOverload(&registry.Overload{
		Name: "_+_", ArgTypes: []*types.Type{types.String, types.String}, ResultType: types.String,
		Func: func(args []value.Value) (value.Value, error) {
			return args[0].(value.StringValue) + args[1].(value.StringValue), nil
		},
	}); err != nil {
		return err
	}
	if err := reg.RegisterOverload(&registry.Overload{
		Name: "_+_", ArgTypes: []*types.Type{types.Bytes, types.Bytes}, ResultType: types.Bytes,
		Func: func(args []value.Value) (value.Value, error) {
			a, b := args[0].(value.BytesValue), args[1].(value.BytesValue)
			out := make(value.BytesValue, 0, len(a)+len(b))
			out = append(out, a...)
			out = append(out, b...)
			return out, nil
		},
	}); err != nil {
		return err
	}

	listT := types.NewList(types.Dyn)
	if err := reg.RegisterOverload(&registry.Overload{
		Name: "_+_", ArgTypes: []*types.Type{listT, listT}, ResultType: listT,
		Func: func(args []value.Value) (value.Value, error) {
			a, b := args[0].(*value.ListValue), args[1].(*value.ListValue)
			out := make([]value.Value, 0, len(a.Elems)+len(b.Elems))
			out = append(out, a.Elems...)
			out = append(out, b.Elems...)
			elemType := types.Dyn
			if len(out) > 0 {
				elemType = out[0].Type()
			}
			return value.NewList(elemType, out), nil
		},
	}); err != nil {
		return err
	}

	if err := reg.RegisterOverload(&registry.Overload{
		Name: "_+_", ArgTypes: []*types.Type{types.Duration, types.Duration}, ResultType: types.Duration,
		Func: func(args []value.Value) (value.Value, error) {
			return args[0].(value.DurationValue) + args[1].(value.DurationValue), nil
		},
	}); err != nil {
		return err
	}
	if err := reg.RegisterOverload(&registry.Overload{
		Name: "-_", ArgTypes: []*types.Type{types.Duration}, ResultType: types.Duration,
		Func: func(args []value.Value) (value.Value, error) {
			return -args[0].(value.DurationValue), nil
		},
	}); err != nil {
		return err
	}
	if err := reg.RegisterOverload(&registry.Overload{
		Name: "_-_", ArgTypes: []*types.Type{types.Duration, types.Duration}, ResultType: types.Duration,
		Func: func(args []value.Value) (value.Value, error) {
			return args[0].(value.DurationValue) - args[1].(value.DurationValue), nil
		},
	}); err != nil {
		return err
	}
	if err := reg.RegisterOverload(&registry.Overload{
		Name: "_+_", ArgTypes: []*types.Type{types.Timestamp, types.Duration}, ResultType: types.Timestamp,
		Func: func(args []value.Value) (value.Value, error) {
			ts := timeOf(args[0].(value.TimestampValue))
			return value.TimestampValue(ts.Add(durationOf(args[1].(value.DurationValue)))), nil
		},
	}); err != nil {
		return err
	}
	if err := reg.RegisterOverload(&registry.Overload{
		Name: "_-_", ArgTypes: []*types.Type{types.Timestamp, types.Duration}, ResultType: types.Timestamp,
		Func: func(args []value.Value) (value.Value, error) {
			ts := timeOf(args[0].(value.TimestampValue))
			return value.TimestampValue(ts.Add(-durationOf(args[1].(value.DurationValue)))), nil
		},
	}); err != nil {
		return err
	}
	if err := reg.RegisterOverload(&registry.Overload{
		Name: "_-_", ArgTypes: []*types.Type{types.Timestamp, types.Timestamp}, ResultType: types.Duration,
		Func: func(args []value.Value) (value.Value, error) {
			a := timeOf(args[0].(value.TimestampValue))
			b := timeOf(args[1].(value.TimestampValue))
			return value.DurationValue(a.Sub(b)), nil
		},
	}); err != nil {
		return err
	}

	return reg.RegisterOverload(&registry.Overload{
		Name: "!_", ArgTypes: []*types.Type{types.Bool}, ResultType: types.Bool,
		Func: func(args []value.Value) (value.Value, error) {
			return !args[0].(value.BoolValue), nil
		},
	})
}
