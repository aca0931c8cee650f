package stdlib

import (
	"github.com/cwbudde/go-cel/internal/registry"
	"github.com/cwbudde/go-cel/internal/types"
	"github.com/cwbudde/go-cel/internal/value"
)

// registerDuration wires `duration` accessor methods — not enumerated
// in spec.md's minimum built-in set, but the natural counterpart to the
// timestamp accessors it does require, and standard in CEL
// implementations.
func registerDuration(reg *registry.Registry) error {
	accessors := map[string]func(d value.DurationValue) int64{
		"getHours":        func(d value.DurationValue) int64 { return int64(durationOf(d).Hours()) },
		"getMinutes":      func(d value.DurationValue) int64 { return int64(durationOf(d).Minutes()) },
		"getSeconds":      func(d value.DurationValue) int64 { return int64(durationOf(d).Seconds()) },
		"getMilliseconds": func(d value.DurationValue) int64 { return durationOf(d).Milliseconds() },
	}
	for name, extract := range accessors {
		extract := extract
		if err := reg.RegisterOverload(&registry.Overload{
			Name: name, ReceiverType: types.Duration, ResultType: types.Int,
			Func: func(args []value.Value) (value.Value, error) {
				return value.IntValue(extract(args[0].(value.DurationValue))), nil
			},
		}); err != nil {
			return err
		}
	}
	return nil
}
