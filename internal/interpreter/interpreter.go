// Package interpreter implements CEL's tree-walking evaluator: a
// recursive Eval over internal/ast producing runtime internal/value
// values, re-resolving overloads through internal/registry against
// actual argument types when the checker left them as dyn, grounded on
// CWBudde-go-dws/internal/interp's Interpreter.Eval type-switch shape
// but returning (value.Value, error) pairs instead of the teacher's
// in-language exception value, since CEL has no catchable exceptions
// (spec.md §7: every evaluation error is fatal to the call).
package interpreter

import (
	"fmt"

	"github.com/cwbudde/go-cel/internal/ast"
	"github.com/cwbudde/go-cel/internal/errutil"
	"github.com/cwbudde/go-cel/internal/lexer"
	"github.com/cwbudde/go-cel/internal/registry"
	"github.com/cwbudde/go-cel/internal/types"
	"github.com/cwbudde/go-cel/internal/value"
)

// Activation resolves a variable name to its runtime value for one
// evaluation, the CEL term for what spec.md §6 calls the "runtime
// context (a mapping from variable name to value)".
type Activation interface {
	ResolveName(name string) (value.Value, bool)
}

// MapActivation is the common case: a flat map of bindings.
type MapActivation map[string]value.Value

func (m MapActivation) ResolveName(name string) (value.Value, bool) {
	v, ok := m[name]
	return v, ok
}

// Options mirrors the subset of Environment options that affect
// evaluation rather than checking.
type Options struct {
	EnableOptionalTypes bool
}

var DefaultOptions = Options{EnableOptionalTypes: true}

// EvaluationError is raised for any runtime failure (spec.md §7):
// missing field access, overflow, division by zero, conversion
// failure, a macro predicate that doesn't return bool, and so on.
type EvaluationError struct {
	errutil.Base
}

func (e *EvaluationError) Error() string            { return e.Base.Message }
func (e *EvaluationError) Format(color bool) string { return e.Base.Format(color) }

// Interpreter walks a checked or unchecked expression tree, consulting
// a Registry for operator/function overloads and an Activation for
// variable bindings. One Interpreter instance is good for exactly one
// Eval call: locals is reset at the start of Eval.
type Interpreter struct {
	reg    *registry.Registry
	opts   Options
	source string
	act    Activation
	locals []map[string]value.Value // comprehension-bound locals, innermost last
}

// New creates an Interpreter. source is used only for error-excerpt
// rendering.
func New(reg *registry.Registry, opts Options, source string) *Interpreter {
	return &Interpreter{reg: reg, opts: opts, source: source}
}

// Eval evaluates expr under act, the entry point mirroring the
// teacher's Interpreter.Eval(node) but parameterized on the runtime
// context per spec.md §6's evaluate(source, context?).
func (i *Interpreter) Eval(expr ast.Expression, act Activation) (value.Value, error) {
	i.act = act
	i.locals = nil
	return i.eval(expr)
}

func (i *Interpreter) newErr(pos lexer.Position, format string, args ...any) error {
	return &EvaluationError{Base: errutil.Base{
		Message: fmt.Sprintf(format, args...),
		Source:  i.source,
		Pos:     pos,
	}}
}

func (i *Interpreter) fail(pos lexer.Position, format string, args ...any) (value.Value, error) {
	return nil, i.newErr(pos, format, args...)
}

func (i *Interpreter) pushScope() { i.locals = append(i.locals, map[string]value.Value{}) }
func (i *Interpreter) popScope()  { i.locals = i.locals[:len(i.locals)-1] }
func (i *Interpreter) bind(name string, v value.Value) {
	i.locals[len(i.locals)-1][name] = v
}

func (i *Interpreter) lookupVar(name string) (value.Value, bool) {
	for s := len(i.locals) - 1; s >= 0; s-- {
		if v, ok := i.locals[s][name]; ok {
			return v, true
		}
	}
	return i.act.ResolveName(name)
}

// eval dispatches on expr's concrete type, mirroring the teacher's
// Eval type switch.
func (i *Interpreter) eval(expr ast.Expression) (value.Value, error) {
	switch e := expr.(type) {
	case *ast.NullLiteral:
		return value.Null, nil
	case *ast.BoolLiteral:
		return value.BoolValue(e.Value), nil
	case *ast.IntLiteral:
		return value.IntValue(e.Value), nil
	case *ast.UintLiteral:
		return value.UintValue(e.Value), nil
	case *ast.DoubleLiteral:
		return value.DoubleValue(e.Value), nil
	case *ast.StringLiteral:
		if e.IsBytes {
			return value.BytesValue(e.Value), nil
		}
		return value.StringValue(e.Value), nil
	case *ast.Identifier:
		return i.evalIdentifier(e)
	case *ast.ListLiteral:
		return i.evalListLiteral(e)
	case *ast.MapLiteral:
		return i.evalMapLiteral(e)
	case *ast.UnaryExpr:
		return i.evalUnary(e)
	case *ast.BinaryExpr:
		return i.evalBinary(e)
	case *ast.TernaryExpr:
		return i.evalTernary(e)
	case *ast.MemberExpr:
		return i.evalMember(e)
	case *ast.IndexExpr:
		return i.evalIndex(e)
	case *ast.CallExpr:
		return i.evalCall(e)
	default:
		return i.fail(expr.Pos(), "unknown expression type %T", expr)
	}
}

func (i *Interpreter) evalIdentifier(id *ast.Identifier) (value.Value, error) {
	if lexer.ReservedIdentifiers[id.Name] {
		return i.fail(id.Pos(), "'%s' is a reserved identifier and cannot be used as a variable", id.Name)
	}
	if v, ok := i.lookupVar(id.Name); ok {
		return v, nil
	}
	return i.fail(id.Pos(), "Unknown variable '%s'", id.Name)
}

func (i *Interpreter) evalListLiteral(lit *ast.ListLiteral) (value.Value, error) {
	elems := make([]value.Value, len(lit.Elements))
	for idx, e := range lit.Elements {
		v, err := i.eval(e)
		if err != nil {
			return nil, err
		}
		elems[idx] = v
	}
	elemType := types.Dyn
	if len(elems) > 0 {
		elemType = elems[0].Type()
	}
	return value.NewList(elemType, elems), nil
}

func (i *Interpreter) evalMapLiteral(lit *ast.MapLiteral) (value.Value, error) {
	keyType, valueType := types.Dyn, types.Dyn
	m := value.NewMap(keyType, valueType)
	for idx, entry := range lit.Entries {
		k, err := i.eval(entry.Key)
		if err != nil {
			return nil, err
		}
		v, err := i.eval(entry.Value)
		if err != nil {
			return nil, err
		}
		if idx == 0 {
			m.KeyType, m.ValueType = k.Type(), v.Type()
		}
		m.Set(k, v)
	}
	return m, nil
}
