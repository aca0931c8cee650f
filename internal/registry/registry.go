// Package registry implements the overload-resolution tables shared by
// internal/checker (static resolution) and internal/interpreter (runtime
// re-resolution when dyn types flow through): variables, named types,
// and function/operator overloads, keyed the way
// CWBudde-go-dws/internal/interp/types.TypeSystem keys its operator and
// conversion registries, but returning errors on conflict instead of
// panicking.
package registry

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/cwbudde/go-cel/internal/types"
	"github.com/cwbudde/go-cel/internal/value"
)

// Sentinel errors returned by the Register* methods on conflict. Callers
// building an Environment at init time typically wrap these with
// context and propagate, rather than panic, per SPEC_FULL.md's
// Registry section.
var (
	ErrRedeclaredVariable = errors.New("registry: variable already declared")
	ErrRedeclaredType     = errors.New("registry: type already declared")
	ErrOverloadOverlap    = errors.New("registry: overload overlaps an existing one")
)

// Overload is one resolvable signature of a function or operator name.
// ReceiverType is non-nil for member-call-style overloads (`x.f(...)`);
// nil means the overload is only callable in global form (`f(x, ...)`).
type Overload struct {
	ID           string // stable identifier, e.g. "add_int_int"
	Name         string
	ReceiverType *types.Type
	ArgTypes     []*types.Type
	ResultType   *types.Type
	IsVariadic   bool // last ArgTypes entry repeats zero or more times
	// Func is invoked by internal/interpreter with the evaluated call
	// arguments. ArgTypes never includes the receiver; Func's args slice
	// follows the same convention for global overloads, but for a
	// receiver-style overload (ReceiverType != nil) the interpreter
	// prepends the receiver value as args[0].
	Func func(args []value.Value) (value.Value, error)
}

// signature renders the overload's argument shape for error messages
// and overlap diagnostics, e.g. "(int, string)" or "Recv.(int, ...)".
func (o *Overload) signature() string {
	parts := make([]string, len(o.ArgTypes))
	for i, t := range o.ArgTypes {
		parts[i] = t.String()
	}
	sig := "(" + strings.Join(parts, ", ")
	if o.IsVariadic {
		sig += ", ..."
	}
	sig += ")"
	if o.ReceiverType != nil {
		return o.ReceiverType.String() + "." + sig
	}
	return sig
}

// key groups overloads for lookup: receiver-qualified names are stored
// as "Recv.name", matching SPEC_FULL.md's Registry section.
func overloadKey(name string, recv *types.Type) string {
	if recv == nil {
		return strings.ToLower(name)
	}
	return recv.String() + "." + strings.ToLower(name)
}

// Registry holds variables, named types, and function/operator
// overloads visible to a checked/evaluated CEL program.
type Registry struct {
	variables  map[string]*types.Type
	varOrder   []string
	namedTypes map[string]*types.Type
	fieldDecls map[string]map[string]*types.Type
	overloads  map[string][]*Overload
}

// New creates an empty Registry.
func New() *Registry {
	return &Registry{
		variables:  map[string]*types.Type{},
		namedTypes: map[string]*types.Type{},
		fieldDecls: map[string]map[string]*types.Type{},
		overloads:  map[string][]*Overload{},
	}
}

// RegisterVariable declares a variable of the given type, visible to
// the checker as an identifier and to the interpreter via Activation.
func (r *Registry) RegisterVariable(name string, t *types.Type) error {
	if _, ok := r.variables[name]; ok {
		return fmt.Errorf("%w: %s", ErrRedeclaredVariable, name)
	}
	r.variables[name] = t
	r.varOrder = append(r.varOrder, name)
	return nil
}

// LookupVariable returns a declared variable's type.
func (r *Registry) LookupVariable(name string) (*types.Type, bool) {
	t, ok := r.variables[name]
	return t, ok
}

// Variables returns declared variable names in registration order.
func (r *Registry) Variables() []string {
	out := make([]string, len(r.varOrder))
	copy(out, r.varOrder)
	return out
}

// RegisterType declares a named object type, optionally with a set of
// declared fields. When fieldDecls is non-nil, only those fields are
// readable on instances of the type (spec.md §4.B's "only declared
// fields are readable; undeclared access produces an error").
func (r *Registry) RegisterType(name string, fieldDecls map[string]*types.Type) error {
	if _, ok := r.namedTypes[name]; ok {
		return fmt.Errorf("%w: %s", ErrRedeclaredType, name)
	}
	r.namedTypes[name] = types.NewObject(name)
	if fieldDecls != nil {
		r.fieldDecls[name] = fieldDecls
	}
	return nil
}

// LookupType returns a named type by its registered name.
func (r *Registry) LookupType(name string) (*types.Type, bool) {
	t, ok := r.namedTypes[name]
	return t, ok
}

// LookupFieldType returns the declared type of field on a registered
// object type, or (nil, false) if the type has no field declarations
// (i.e. any field read is accepted) or the field isn't declared.
func (r *Registry) LookupFieldType(typeName, field string) (*types.Type, bool) {
	decls, ok := r.fieldDecls[typeName]
	if !ok {
		return nil, false
	}
	t, ok := decls[field]
	return t, ok
}

// HasFieldDecls reports whether typeName was registered with an
// explicit (possibly empty) set of field declarations.
func (r *Registry) HasFieldDecls(typeName string) bool {
	_, ok := r.fieldDecls[typeName]
	return ok
}

// RegisterOverload adds a function or operator overload. It returns
// ErrOverloadOverlap if an existing overload with the same name/receiver
// and an overlapping argument-type tuple (per types.Overlaps) is already
// registered — an ambiguous call the checker could never disambiguate.
func (r *Registry) RegisterOverload(o *Overload) error {
	key := overloadKey(o.Name, o.ReceiverType)
	for _, existing := range r.overloads[key] {
		if overlapsSignature(existing, o) {
			return fmt.Errorf("%w: %s%s conflicts with %s%s",
				ErrOverloadOverlap, o.Name, o.signature(), existing.Name, existing.signature())
		}
	}
	r.overloads[key] = append(r.overloads[key], o)
	return nil
}

func overlapsSignature(a, b *Overload) bool {
	if a.IsVariadic != b.IsVariadic {
		// A fixed-arity overload can still collide with a variadic one
		// at the arities the variadic covers; only a mismatched fixed
		// prefix counts as disjoint.
	}
	n := len(a.ArgTypes)
	if len(b.ArgTypes) < n {
		n = len(b.ArgTypes)
	}
	if !a.IsVariadic && !b.IsVariadic && len(a.ArgTypes) != len(b.ArgTypes) {
		return false
	}
	for i := 0; i < n; i++ {
		if !types.Overlaps(a.ArgTypes[i], b.ArgTypes[i]) {
			return false
		}
	}
	return true
}

// Lookup returns every overload registered under name/receiver, in
// registration order (tie-breaking order for the checker/interpreter).
func (r *Registry) Lookup(name string, recv *types.Type) []*Overload {
	return r.overloads[overloadKey(name, recv)]
}

// candidateOverloads returns what Lookup(name, recv) would, except when
// recv is itself statically dyn or has no overload registered under its
// exact type: then every receiver overload of name whose receiver type
// recv is assignable to (types.IsAssignable) is a candidate, sorted by
// receiver type name for a deterministic tie-break order. A dyn receiver
// may hold any concrete value at runtime, so it sees every receiver
// overload of name; a list<int> receiver sees the list<dyn> ones.
// Without this, a call like `x.startsWith("y")` on an unlisted (dyn)
// variable would statically fail to resolve even though
// internal/interpreter's runtime re-resolution against the actual
// receiver value succeeds.
func (r *Registry) candidateOverloads(name string, recv *types.Type) []*Overload {
	if recv == nil {
		return r.Lookup(name, recv)
	}
	if recv.Kind != types.KindDyn {
		if exact := r.Lookup(name, recv); len(exact) > 0 {
			return exact
		}
	}

	suffix := "." + strings.ToLower(name)
	var keys []string
	for key := range r.overloads {
		if strings.HasSuffix(key, suffix) {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	var out []*Overload
	for _, key := range keys {
		for _, o := range r.overloads[key] {
			if o.ReceiverType != nil && types.IsAssignable(recv, o.ReceiverType) {
				out = append(out, o)
			}
		}
	}
	return out
}

// ResolveStatic picks the overload matching argTypes exactly under
// types.IsAssignable, the way internal/checker resolves a call
// statically. It returns the first matching candidate (see
// candidateOverloads); callers that need to apply spec.md §4.B's dyn
// tie-break across every match, rather than just the first, should use
// ResolveAllStatic instead.
func (r *Registry) ResolveStatic(name string, recv *types.Type, argTypes []*types.Type) (*Overload, bool) {
	for _, o := range r.candidateOverloads(name, recv) {
		if matches(o, argTypes) {
			return o, true
		}
	}
	return nil, false
}

// ResolveAllStatic returns every overload matching name/recv/argTypes,
// in the same candidate order ResolveStatic searches. Used by
// internal/checker wherever a dyn operand (or, per candidateOverloads,
// a dyn receiver) could statically match more than one overload, so the
// caller can apply spec.md §4.B's tie-break: dyn if the matches
// disagree on result type, otherwise their common type.
func (r *Registry) ResolveAllStatic(name string, recv *types.Type, argTypes []*types.Type) []*Overload {
	var out []*Overload
	for _, o := range r.candidateOverloads(name, recv) {
		if matches(o, argTypes) {
			out = append(out, o)
		}
	}
	return out
}

func matches(o *Overload, argTypes []*types.Type) bool {
	if o.IsVariadic {
		if len(argTypes) < len(o.ArgTypes)-1 {
			return false
		}
	} else if len(argTypes) != len(o.ArgTypes) {
		return false
	}
	for i, at := range argTypes {
		var want *types.Type
		if o.IsVariadic && i >= len(o.ArgTypes)-1 {
			want = o.ArgTypes[len(o.ArgTypes)-1]
		} else {
			want = o.ArgTypes[i]
		}
		if !types.IsAssignable(at, want) {
			return false
		}
	}
	return true
}

// Clone returns a deep-enough copy of the registry so a derived
// environment (spec.md §6's Environment composition) can add
// declarations without mutating the parent, mirroring
// OperatorRegistry.Clone in the teacher's type system.
func (r *Registry) Clone() *Registry {
	out := New()
	for k, v := range r.variables {
		out.variables[k] = v
	}
	out.varOrder = append(out.varOrder, r.varOrder...)
	for k, v := range r.namedTypes {
		out.namedTypes[k] = v
	}
	for k, decls := range r.fieldDecls {
		copied := make(map[string]*types.Type, len(decls))
		for f, t := range decls {
			copied[f] = t
		}
		out.fieldDecls[k] = copied
	}
	for k, overloads := range r.overloads {
		out.overloads[k] = append([]*Overload(nil), overloads...)
	}
	return out
}

// OverloadNames returns every distinct registered function/operator
// name, sorted, for diagnostics and documentation generation.
func (r *Registry) OverloadNames() []string {
	seen := map[string]bool{}
	for _, overloads := range r.overloads {
		for _, o := range overloads {
			seen[o.Name] = true
		}
	}
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
