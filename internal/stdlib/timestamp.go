package stdlib

import (
	"fmt"
	"time"

	"github.com/cwbudde/go-cel/internal/registry"
	"github.com/cwbudde/go-cel/internal/types"
	"github.com/cwbudde/go-cel/internal/value"
)

// registerTimestamp wires the `timestamp` accessor methods of spec.md
// §4.G, each optionally taking an IANA timezone name as its only
// argument (defaulting to UTC).
func registerTimestamp(reg *registry.Registry) error {
	accessors := map[string]func(t time.Time) int64{
		"getFullYear":     func(t time.Time) int64 { return int64(t.Year()) },
		"getMonth":        func(t time.Time) int64 { return int64(t.Month()) - 1 },
		"getDate":         func(t time.Time) int64 { return int64(t.Day()) },
		"getDayOfMonth":   func(t time.Time) int64 { return int64(t.Day()) - 1 },
		"getDayOfWeek":    func(t time.Time) int64 { return int64(t.Weekday()) },
		"getDayOfYear":    func(t time.Time) int64 { return int64(t.YearDay()) - 1 },
		"getHours":        func(t time.Time) int64 { return int64(t.Hour()) },
		"getMinutes":      func(t time.Time) int64 { return int64(t.Minute()) },
		"getSeconds":      func(t time.Time) int64 { return int64(t.Second()) },
		"getMilliseconds": func(t time.Time) int64 { return int64(t.Nanosecond() / 1e6) },
	}

	for name, extract := range accessors {
		extract := extract
		if err := reg.RegisterOverload(&registry.Overload{
			Name: name, ReceiverType: types.Timestamp, ResultType: types.Int,
			Func: func(args []value.Value) (value.Value, error) {
				t, err := applyZone(timeOf(args[0].(value.TimestampValue)), "")
				if err != nil {
					return nil, err
				}
				return value.IntValue(extract(t)), nil
			},
		}); err != nil {
			return err
		}
		if err := reg.RegisterOverload(&registry.Overload{
			Name: name, ReceiverType: types.Timestamp, ArgTypes: []*types.Type{types.String}, ResultType: types.Int,
			Func: func(args []value.Value) (value.Value, error) {
				t, err := applyZone(timeOf(args[0].(value.TimestampValue)), string(args[1].(value.StringValue)))
				if err != nil {
					return nil, err
				}
				return value.IntValue(extract(t)), nil
			},
		}); err != nil {
			return err
		}
	}
	return nil
}

func applyZone(t time.Time, tz string) (time.Time, error) {
	if tz == "" {
		return t.UTC(), nil
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return time.Time{}, fmt.Errorf("unrecognized timezone %q: %w", tz, err)
	}
	return t.In(loc), nil
}
