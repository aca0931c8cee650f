// Package cel is the public facade over the engine implemented in
// internal/*: Environment, the parse/check/evaluate/serialize entry
// points named in spec.md §6, and a package-level default Environment
// for the free-function form. Only this package and cmd/cel are meant
// to be imported outside this module, mirroring the teacher's `pkg` vs
// `internal` split (CWBudde-go-dws/pkg/dwscript sits over
// CWBudde-go-dws/internal/* the same way).
package cel

import (
	"github.com/cwbudde/go-cel/internal/checker"
	"github.com/cwbudde/go-cel/internal/interpreter"
	"github.com/cwbudde/go-cel/internal/parser"
	"github.com/cwbudde/go-cel/internal/stdlib"
	"github.com/cwbudde/go-cel/internal/types"
)

// Options collects every knob spec.md §6's `Environment.new(options)`
// enumerates. Zero value is not valid on its own — use NewEnvironment's
// defaults plus EnvOptions to build one.
type Options struct {
	UnlistedVariablesAreDyn      bool
	HomogeneousAggregateLiterals bool
	EnableOptionalTypes          bool
	Limits                       parser.Limits

	pendingDecls []Declaration
}

// defaultOptions matches the defaults spec.md §6 names: free variables
// are rejected unless declared (UnlistedVariablesAreDyn=false),
// aggregate literals must be homogeneously typed, and optional types
// are off unless requested.
func defaultOptions() Options {
	return Options{
		UnlistedVariablesAreDyn:      false,
		HomogeneousAggregateLiterals: true,
		EnableOptionalTypes:          false,
		Limits:                       parser.DefaultLimits,
	}
}

// EnvOption configures an Environment at construction time, mirroring
// the functional-option pattern internal/lexer and internal/parser
// already use (LexerOption / parser.Option).
type EnvOption func(*Options)

// UnlistedVariablesAreDyn controls whether an identifier with no
// registered declaration types as dyn (true) or is a TypeError (false).
func UnlistedVariablesAreDyn(v bool) EnvOption {
	return func(o *Options) { o.UnlistedVariablesAreDyn = v }
}

// HomogeneousAggregateLiterals controls whether list/map literals
// require all their elements/entries to share one element type.
func HomogeneousAggregateLiterals(v bool) EnvOption {
	return func(o *Options) { o.HomogeneousAggregateLiterals = v }
}

// EnableOptionalTypes gates `?.`, `[?`, and the `optional` namespace.
func EnableOptionalTypes() EnvOption {
	return func(o *Options) { o.EnableOptionalTypes = true }
}

// WithLimits overrides the parser's structural resource limits.
func WithLimits(l parser.Limits) EnvOption {
	return func(o *Options) { o.Limits = l }
}

// Declaration names one variable registered into a new Environment, the
// `cel.Declarations(...)` form named in SPEC_FULL.md's Configuration
// section.
type Declaration struct {
	Name string
	Type *types.Type
}

// Declarations registers a batch of variables at construction time.
func Declarations(decls ...Declaration) EnvOption {
	return func(o *Options) { o.pendingDecls = append(o.pendingDecls, decls...) }
}

func (o *Options) checkerOptions() checker.Options {
	return checker.Options{
		UnlistedVariablesAreDyn:      o.UnlistedVariablesAreDyn,
		HomogeneousAggregateLiterals: o.HomogeneousAggregateLiterals,
		EnableOptionalTypes:          o.EnableOptionalTypes,
	}
}

func (o *Options) interpreterOptions() interpreter.Options {
	return interpreter.Options{EnableOptionalTypes: o.EnableOptionalTypes}
}

func (o *Options) stdlibOptions() stdlib.Options {
	return stdlib.Options{EnableOptionalTypes: o.EnableOptionalTypes}
}
