// Package checker implements CEL's static type checker: recursive
// post-order type inference over internal/ast, resolving overloads
// through internal/registry and producing a typed AST (every node's
// ResolvedType populated) or a single TypeError, grounded on
// CWBudde-go-dws/internal/semantic's Analyzer shape (a struct holding
// declarations plus recursive analyzeX methods per node kind) but with
// none of the teacher's class/record/interface/enum passes, which have
// no counterpart in CEL's data model.
package checker

import (
	"fmt"

	"github.com/cwbudde/go-cel/internal/ast"
	"github.com/cwbudde/go-cel/internal/errutil"
	"github.com/cwbudde/go-cel/internal/lexer"
	"github.com/cwbudde/go-cel/internal/registry"
	"github.com/cwbudde/go-cel/internal/types"
)

// Options mirrors the Environment options record of spec.md §3's
// Environment entry that bear on checking.
type Options struct {
	UnlistedVariablesAreDyn      bool
	HomogeneousAggregateLiterals bool
	EnableOptionalTypes          bool
}

// DefaultOptions matches the permissive defaults implied by spec.md §9.
var DefaultOptions = Options{
	UnlistedVariablesAreDyn:      true,
	HomogeneousAggregateLiterals: true,
	EnableOptionalTypes:          true,
}

// TypeError is raised when an expression is syntactically well-formed
// but violates CEL's type discipline (spec.md §7).
type TypeError struct {
	errutil.Base
}

func (e *TypeError) Error() string            { return e.Base.Message }
func (e *TypeError) Format(color bool) string { return e.Base.Format(color) }

// Checker performs recursive post-order type inference over a parsed
// expression against a Registry of declared variables/types/overloads.
type Checker struct {
	reg    *registry.Registry
	opts   Options
	source string
	scopes []map[string]*types.Type // comprehension-bound locals, innermost last
	err    *TypeError
}

// New creates a Checker. source is used only for error-excerpt
// rendering (empty is fine for programmatic callers).
func New(reg *registry.Registry, opts Options, source string) *Checker {
	return &Checker{reg: reg, opts: opts, source: source}
}

// Check type-checks expr, returning its inferred type or the single
// first-encountered TypeError (spec.md §7: "the checker surfaces at
// most one error per call").
func (c *Checker) Check(expr ast.Expression) (*types.Type, *TypeError) {
	t := c.infer(expr)
	if c.err != nil {
		return nil, c.err
	}
	return t, nil
}

func (c *Checker) fail(pos lexer.Position, format string, args ...any) *types.Type {
	if c.err == nil {
		c.err = &TypeError{Base: errutil.Base{
			Message: fmt.Sprintf(format, args...),
			Source:  c.source,
			Pos:     pos,
		}}
	}
	return types.Dyn
}

func (c *Checker) failed() bool { return c.err != nil }

func (c *Checker) pushScope() { c.scopes = append(c.scopes, map[string]*types.Type{}) }
func (c *Checker) popScope()  { c.scopes = c.scopes[:len(c.scopes)-1] }
func (c *Checker) bind(name string, t *types.Type) {
	c.scopes[len(c.scopes)-1][name] = t
}

func (c *Checker) lookupVar(name string) (*types.Type, bool) {
	for i := len(c.scopes) - 1; i >= 0; i-- {
		if t, ok := c.scopes[i][name]; ok {
			return t, true
		}
	}
	return c.reg.LookupVariable(name)
}

// infer dispatches on expr's concrete type, mirroring the teacher's
// analyzeExpression type switch, and records the resolved type on the
// node before returning it.
func (c *Checker) infer(expr ast.Expression) *types.Type {
	if expr == nil || c.failed() {
		return types.Dyn
	}

	var t *types.Type
	switch e := expr.(type) {
	case *ast.NullLiteral:
		t = types.Null
	case *ast.BoolLiteral:
		t = types.Bool
	case *ast.IntLiteral:
		t = types.Int
	case *ast.UintLiteral:
		t = types.Uint
	case *ast.DoubleLiteral:
		t = types.Double
	case *ast.StringLiteral:
		if e.IsBytes {
			t = types.Bytes
		} else {
			t = types.String
		}
	case *ast.Identifier:
		t = c.inferIdentifier(e)
	case *ast.ListLiteral:
		t = c.inferListLiteral(e)
	case *ast.MapLiteral:
		t = c.inferMapLiteral(e)
	case *ast.UnaryExpr:
		t = c.inferUnary(e)
	case *ast.BinaryExpr:
		t = c.inferBinary(e)
	case *ast.TernaryExpr:
		t = c.inferTernary(e)
	case *ast.MemberExpr:
		t = c.inferMember(e)
	case *ast.IndexExpr:
		t = c.inferIndex(e)
	case *ast.CallExpr:
		t = c.inferCall(e)
	default:
		t = c.fail(expr.Pos(), "unknown expression type %T", expr)
	}

	expr.SetResolvedType(t)
	return t
}

func (c *Checker) inferIdentifier(id *ast.Identifier) *types.Type {
	if lexer.ReservedIdentifiers[id.Name] {
		return c.fail(id.Pos(), "'%s' is a reserved identifier and cannot be used as a variable", id.Name)
	}
	if t, ok := c.lookupVar(id.Name); ok {
		return t
	}
	if c.opts.UnlistedVariablesAreDyn {
		return types.Dyn
	}
	return c.fail(id.Pos(), "Unknown variable '%s'", id.Name)
}

// isDynWrap reports whether expr is a literal `dyn(x)` call, which
// exempts the element from homogeneous-aggregate-literal checking
// (spec.md §4.E).
func isDynWrap(expr ast.Expression) bool {
	call, ok := expr.(*ast.CallExpr)
	return ok && call.Receiver == nil && call.Function == "dyn"
}

func (c *Checker) inferListLiteral(lit *ast.ListLiteral) *types.Type {
	var expected *types.Type
	for _, elem := range lit.Elements {
		et := c.infer(elem)
		if c.failed() {
			return types.Dyn
		}
		if isDynWrap(elem) {
			continue
		}
		if expected == nil {
			expected = et
			continue
		}
		if c.opts.HomogeneousAggregateLiterals && !types.Equal(expected, et) {
			return c.fail(elem.Pos(), "heterogeneous list literal: elements of type '%s' and '%s'", expected, et)
		}
	}
	if expected == nil {
		expected = types.Dyn
	}
	return types.NewList(expected)
}

func (c *Checker) inferMapLiteral(lit *ast.MapLiteral) *types.Type {
	var expectedKey, expectedVal *types.Type
	for _, entry := range lit.Entries {
		kt := c.infer(entry.Key)
		if c.failed() {
			return types.Dyn
		}
		if !isDynWrap(entry.Key) {
			if expectedKey == nil {
				expectedKey = kt
			} else if c.opts.HomogeneousAggregateLiterals && !types.Equal(expectedKey, kt) {
				return c.fail(entry.Key.Pos(), "heterogeneous map literal keys: '%s' and '%s'", expectedKey, kt)
			}
		}
		vt := c.infer(entry.Value)
		if c.failed() {
			return types.Dyn
		}
		if !isDynWrap(entry.Value) {
			if expectedVal == nil {
				expectedVal = vt
			} else if c.opts.HomogeneousAggregateLiterals && !types.Equal(expectedVal, vt) {
				return c.fail(entry.Value.Pos(), "heterogeneous map literal values: '%s' and '%s'", expectedVal, vt)
			}
		}
	}
	if expectedKey == nil {
		expectedKey = types.Dyn
	}
	if expectedVal == nil {
		expectedVal = types.Dyn
	}
	return types.NewMap(expectedKey, expectedVal)
}
