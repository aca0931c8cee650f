package cel

import (
	"fmt"

	"github.com/cwbudde/go-cel/internal/checker"
	"github.com/cwbudde/go-cel/internal/parser"
	"github.com/cwbudde/go-cel/internal/registry"
	"github.com/cwbudde/go-cel/internal/stdlib"
	"github.com/cwbudde/go-cel/internal/types"
)

// Environment is an immutable-after-use handle owning a Registry,
// variable declarations, and an options record — spec.md §4's
// "Environment — immutable-after-use handle owning a Registry...". It
// is the facade every one of parse/check/evaluate/serialize hangs off.
//
// An Environment is safe for concurrent use by multiple goroutines
// calling Parse/Check/Evaluate, provided none of them registers new
// declarations concurrently with those calls (spec.md §5: "registry
// mutations ... are not safe against concurrent evaluation and must be
// guarded externally or performed before first use").
type Environment struct {
	reg  *registry.Registry
	opts Options
}

// NewEnvironment builds an Environment from defaultOptions() plus the
// given EnvOptions applied in order, then registers the built-in
// library, matching lexer.New(input, opts...)'s apply-over-defaults
// pattern.
func NewEnvironment(opts ...EnvOption) (*Environment, error) {
	o := defaultOptions()
	for _, apply := range opts {
		apply(&o)
	}

	reg := registry.New()
	if err := stdlib.Register(reg, o.stdlibOptions()); err != nil {
		return nil, fmt.Errorf("cel: registering built-ins: %w", err)
	}

	env := &Environment{reg: reg, opts: o}
	for _, d := range o.pendingDecls {
		if err := env.RegisterVariable(d.Name, d.Type); err != nil {
			return nil, err
		}
	}
	o.pendingDecls = nil
	return env, nil
}

// RegisterVariable declares name as a variable of type t, visible to
// every Program subsequently parsed against this Environment.
func (e *Environment) RegisterVariable(name string, t *types.Type) error {
	if err := e.reg.RegisterVariable(name, t); err != nil {
		return fmt.Errorf("cel: %w", err)
	}
	return nil
}

// RegisterType declares name as an object type. A nil fieldDecls means
// any field name may be read on instances of this type; a non-nil
// (possibly empty) map restricts field access to the declared names
// (spec.md §4.B's "only declared fields are readable").
func (e *Environment) RegisterType(name string, fieldDecls map[string]*types.Type) error {
	if err := e.reg.RegisterType(name, fieldDecls); err != nil {
		return fmt.Errorf("cel: %w", err)
	}
	return nil
}

// RegisterFunction adds a global (non-receiver) function overload.
func (e *Environment) RegisterFunction(name string, argTypes []*types.Type, resultType *types.Type, fn func([]any) (any, error)) error {
	return e.registerOverload(name, nil, argTypes, resultType, false, fn)
}

// RegisterOperator adds a receiver-style ("a.op(b)") overload, callable
// as a member function `a.name(b)`. It does not add an operator
// overload: operator expressions such as `a + b` resolve only global
// overloads named like `_+_` with no receiver type, and this method
// always registers under receiverType.
func (e *Environment) RegisterOperator(name string, receiverType *types.Type, argTypes []*types.Type, resultType *types.Type, fn func([]any) (any, error)) error {
	return e.registerOverload(name, receiverType, argTypes, resultType, false, fn)
}

func (e *Environment) registerOverload(name string, receiverType *types.Type, argTypes []*types.Type, resultType *types.Type, variadic bool, fn func([]any) (any, error)) error {
	o := &registry.Overload{
		Name:         name,
		ReceiverType: receiverType,
		ArgTypes:     argTypes,
		ResultType:   resultType,
		IsVariadic:   variadic,
		Func:         wrapNativeFunc(fn),
	}
	if err := e.reg.RegisterOverload(o); err != nil {
		return fmt.Errorf("cel: %w", err)
	}
	return nil
}

// registryForEval exposes the Environment's registry to Program.Evaluate
// without making it part of the public API.
func (e *Environment) registryForEval() *registry.Registry { return e.reg }

// Clone returns an independent Environment sharing no mutable state
// with the receiver, per spec.md §4's "Cloning produces an independent
// Environment."
func (e *Environment) Clone() *Environment {
	return &Environment{reg: e.reg.Clone(), opts: e.opts}
}

// Parse parses source and type-checks it against this Environment's
// declarations, returning a Program ready to Evaluate. Matching
// spec.md §6's `env.parse(source) → {evaluate(context?), ast}`, the
// returned Program carries both the checked type and the AST.
func (e *Environment) Parse(source string) (*Program, error) {
	expr, perrs := parser.Parse(source, parser.WithLimits(e.opts.Limits))
	if len(perrs) != 0 {
		return nil, &Issues{ParseErrors: perrs}
	}

	c := checker.New(e.reg, e.opts.checkerOptions(), source)
	t, cerr := c.Check(expr)
	if cerr != nil {
		return nil, &Issues{CheckError: cerr}
	}

	return &Program{env: e, source: source, ast: expr, resultType: t}, nil
}

// Check parses and type-checks source without building a Program,
// matching spec.md §6's `env.check(source) → {valid, type} |
// {valid:false, error}`.
func (e *Environment) Check(source string) (*types.Type, error) {
	p, err := e.Parse(source)
	if err != nil {
		return nil, err
	}
	return p.resultType, nil
}

// Evaluate parses, checks, and evaluates source in one call against
// vars, matching spec.md §6's `env.evaluate(source, context?)`.
func (e *Environment) Evaluate(source string, vars map[string]any) (any, error) {
	p, err := e.Parse(source)
	if err != nil {
		return nil, err
	}
	return p.Evaluate(vars)
}

// Serialize walks a Program's AST back into canonical CEL source,
// matching spec.md §6's `env.serialize(ast) → source`.
func (e *Environment) Serialize(p *Program) string {
	return serializeProgram(p)
}

