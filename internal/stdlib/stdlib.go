// Package stdlib populates a registry.Registry with every overload of
// spec.md §4.G's built-in library, split one file per concern
// (arithmetic, comparison, conversion, strings, bytes, timestamp,
// duration, size, type, macros) the way CWBudde-go-dws splits its
// builtin set across internal/interp/builtins_*.go.
package stdlib

import "github.com/cwbudde/go-cel/internal/registry"

// Options gates the optional-types overloads (the optional<dyn> receiver
// methods hasValue, value, orValue and or; the `optional.*` namespace
// functions are handled by the checker and interpreter, not registered
// here), mirroring internal/checker.Options.EnableOptionalTypes and
// internal/interpreter.Options.EnableOptionalTypes.
type Options struct {
	EnableOptionalTypes bool
}

var DefaultOptions = Options{EnableOptionalTypes: false}

// Register adds every built-in overload to reg. Call this once per
// Environment at construction time, before any parse/check/evaluate.
func Register(reg *registry.Registry, opts Options) error {
	registrars := []func(*registry.Registry) error{
		registerArithmetic,
		registerComparison,
		registerConversion,
		registerStrings,
		registerBytes,
		registerTimestamp,
		registerDuration,
		registerSize,
		registerTypeFn,
	}
	for _, fn := range registrars {
		if err := fn(reg); err != nil {
			return err
		}
	}
	if opts.EnableOptionalTypes {
		if err := registerOptional(reg); err != nil {
			return err
		}
	}
	return nil
}
