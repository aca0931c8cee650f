package stdlib

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/cwbudde/go-cel/internal/registry"
	"github.com/cwbudde/go-cel/internal/types"
	"github.com/cwbudde/go-cel/internal/value"
)

var errConversion = errors.New("conversion error")

// registerConversion wires the explicit `int(...)`, `uint(...)`,
// `double(...)`, `string(...)`, `bool(...)`, `bytes(...)`,
// `timestamp(...)`, `duration(...)` global functions of spec.md §4.G.
// Conversions never happen implicitly; coercion only occurs here and at
// comparison (spec.md's "no floating/integer coercion outside explicit
// conversion or comparison" non-goal).
func registerConversion(reg *registry.Registry) error {
	conv := func(name string, from *types.Type, to *types.Type, fn func(value.Value) (value.Value, error)) error {
		return reg.RegisterOverload(&registry.Overload{
			Name: name, ArgTypes: []*types.Type{from}, ResultType: to,
			Func: func(args []value.Value) (value.Value, error) { return fn(args[0]) },
		})
	}

	if err := conv("int", types.Int, types.Int, func(v value.Value) (value.Value, error) { return v, nil }); err != nil {
		return err
	}
	if err := conv("int", types.Uint, types.Int, func(v value.Value) (value.Value, error) {
		u := uint64(v.(value.UintValue))
		if u > math.MaxInt64 {
			return nil, errIntOverflow
		}
		return value.IntValue(u), nil
	}); err != nil {
		return err
	}
	if err := conv("int", types.Double, types.Int, func(v value.Value) (value.Value, error) {
		d := float64(v.(value.DoubleValue))
		if d < math.MinInt64 || d > math.MaxInt64 {
			return nil, errIntOverflow
		}
		return value.IntValue(int64(d)), nil
	}); err != nil {
		return err
	}
	if err := conv("int", types.String, types.Int, func(v value.Value) (value.Value, error) {
		n, err := strconv.ParseInt(string(v.(value.StringValue)), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not an int", errConversion, v.String())
		}
		return value.IntValue(n), nil
	}); err != nil {
		return err
	}

	if err := conv("uint", types.Uint, types.Uint, func(v value.Value) (value.Value, error) { return v, nil }); err != nil {
		return err
	}
	if err := conv("uint", types.Int, types.Uint, func(v value.Value) (value.Value, error) {
		n := int64(v.(value.IntValue))
		if n < 0 {
			return nil, errIntOverflow
		}
		return value.UintValue(n), nil
	}); err != nil {
		return err
	}
	if err := conv("uint", types.Double, types.Uint, func(v value.Value) (value.Value, error) {
		d := float64(v.(value.DoubleValue))
		if d < 0 || d > math.MaxUint64 {
			return nil, errIntOverflow
		}
		return value.UintValue(uint64(d)), nil
	}); err != nil {
		return err
	}
	if err := conv("uint", types.String, types.Uint, func(v value.Value) (value.Value, error) {
		n, err := strconv.ParseUint(string(v.(value.StringValue)), 10, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a uint", errConversion, v.String())
		}
		return value.UintValue(n), nil
	}); err != nil {
		return err
	}

	if err := conv("double", types.Double, types.Double, func(v value.Value) (value.Value, error) { return v, nil }); err != nil {
		return err
	}
	if err := conv("double", types.Int, types.Double, func(v value.Value) (value.Value, error) {
		return value.DoubleValue(v.(value.IntValue)), nil
	}); err != nil {
		return err
	}
	if err := conv("double", types.Uint, types.Double, func(v value.Value) (value.Value, error) {
		return value.DoubleValue(v.(value.UintValue)), nil
	}); err != nil {
		return err
	}
	if err := conv("double", types.String, types.Double, func(v value.Value) (value.Value, error) {
		f, err := strconv.ParseFloat(string(v.(value.StringValue)), 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a double", errConversion, v.String())
		}
		return value.DoubleValue(f), nil
	}); err != nil {
		return err
	}

	if err := conv("string", types.String, types.String, func(v value.Value) (value.Value, error) { return v, nil }); err != nil {
		return err
	}
	if err := conv("string", types.Int, types.String, func(v value.Value) (value.Value, error) {
		return value.StringValue(v.String()), nil
	}); err != nil {
		return err
	}
	if err := conv("string", types.Uint, types.String, func(v value.Value) (value.Value, error) {
		return value.StringValue(v.String()), nil
	}); err != nil {
		return err
	}
	if err := conv("string", types.Double, types.String, func(v value.Value) (value.Value, error) {
		return value.StringValue(v.String()), nil
	}); err != nil {
		return err
	}
	if err := conv("string", types.Bool, types.String, func(v value.Value) (value.Value, error) {
		return value.StringValue(v.String()), nil
	}); err != nil {
		return err
	}
	if err := conv("string", types.Bytes, types.String, func(v value.Value) (value.Value, error) {
		return value.StringValue(string(v.(value.BytesValue))), nil
	}); err != nil {
		return err
	}
	if err := conv("string", types.Timestamp, types.String, func(v value.Value) (value.Value, error) {
		return value.StringValue(v.String()), nil
	}); err != nil {
		return err
	}
	if err := conv("string", types.Duration, types.String, func(v value.Value) (value.Value, error) {
		return value.StringValue(v.String()), nil
	}); err != nil {
		return err
	}

	if err := conv("bool", types.Bool, types.Bool, func(v value.Value) (value.Value, error) { return v, nil }); err != nil {
		return err
	}
	if err := conv("bool", types.String, types.Bool, func(v value.Value) (value.Value, error) {
		return parseBoolString(string(v.(value.StringValue)))
	}); err != nil {
		return err
	}

	if err := conv("bytes", types.Bytes, types.Bytes, func(v value.Value) (value.Value, error) { return v, nil }); err != nil {
		return err
	}
	if err := conv("bytes", types.String, types.Bytes, func(v value.Value) (value.Value, error) {
		return value.BytesValue(string(v.(value.StringValue))), nil
	}); err != nil {
		return err
	}

	if err := conv("timestamp", types.Timestamp, types.Timestamp, func(v value.Value) (value.Value, error) { return v, nil }); err != nil {
		return err
	}
	if err := conv("timestamp", types.Int, types.Timestamp, func(v value.Value) (value.Value, error) {
		return value.TimestampValue(time.Unix(int64(v.(value.IntValue)), 0).UTC()), nil
	}); err != nil {
		return err
	}
	if err := conv("timestamp", types.String, types.Timestamp, func(v value.Value) (value.Value, error) {
		s := string(v.(value.StringValue))
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a valid RFC3339 timestamp", errConversion, s)
		}
		return value.TimestampValue(t.UTC()), nil
	}); err != nil {
		return err
	}

	if err := conv("duration", types.Duration, types.Duration, func(v value.Value) (value.Value, error) { return v, nil }); err != nil {
		return err
	}
	return conv("duration", types.String, types.Duration, func(v value.Value) (value.Value, error) {
		s := string(v.(value.StringValue))
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("%w: %q is not a valid duration", errConversion, s)
		}
		return value.DurationValue(d), nil
	})
}

// parseBoolString implements the canonical accepted-values list decided
// for the bool(string) conversion (SPEC_FULL.md's Built-in library
// section): anything outside these two lists is an evaluation error.
func parseBoolString(s string) (value.Value, error) {
	switch s {
	case "1", "t", "T", "true", "TRUE", "True":
		return value.BoolValue(true), nil
	case "0", "f", "F", "false", "FALSE", "False":
		return value.BoolValue(false), nil
	}
	return nil, fmt.Errorf("%w: %q is not a valid bool", errConversion, s)
}
