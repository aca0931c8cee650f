package checker

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-cel/internal/ast"
	"github.com/cwbudde/go-cel/internal/types"
)

// inferCall dispatches a call expression to one of three shapes: a
// recognized comprehension macro (tagged by the parser on
// ast.CallExpr.Macro), the `has()`/`dyn()` special forms, or an
// ordinary function/member call resolved through the registry.
func (c *Checker) inferCall(call *ast.CallExpr) *types.Type {
	switch call.Macro {
	case "has":
		return c.inferHas(call)
	case "all", "exists", "exists_one":
		return c.inferPredicateMacro(call)
	case "filter":
		return c.inferFilterMacro(call)
	case "map":
		return c.inferMapMacro(call)
	}

	if call.Receiver == nil && call.Function == "dyn" {
		// dyn(x) always widens to dyn, but x must still itself be
		// checked so its own errors surface (spec.md §4.G).
		if len(call.Args) == 1 {
			c.infer(call.Args[0])
		}
		return types.Dyn
	}

	if id, ok := call.Receiver.(*ast.Identifier); ok && id.Name == "optional" {
		return c.inferOptionalNamespaceCall(call)
	}

	return c.inferOrdinaryCall(call)
}

// inferOptionalNamespaceCall checks the `optional.of`/`optional.none`/
// `optional.ofNonZeroValue` constructors. `optional` is a reserved
// namespace, not a bindable identifier, so this is handled as a special
// form rather than through the registry's receiver-call machinery
// (spec.md §4.G's optional.* constructors).
func (c *Checker) inferOptionalNamespaceCall(call *ast.CallExpr) *types.Type {
	if !c.opts.EnableOptionalTypes {
		return c.fail(call.Pos(), "optional types are not enabled")
	}
	switch call.Function {
	case "of", "ofNonZeroValue":
		if len(call.Args) != 1 {
			return c.fail(call.Pos(), "optional.%s() takes exactly one argument", call.Function)
		}
		argType := c.infer(call.Args[0])
		if c.failed() {
			return types.Dyn
		}
		return types.NewOptional(argType)
	case "none":
		if len(call.Args) != 0 {
			return c.fail(call.Pos(), "optional.none() takes no arguments")
		}
		return types.NewOptional(types.Dyn)
	default:
		return c.fail(call.Pos(), "unknown optional function 'optional.%s'", call.Function)
	}
}

// inferHas validates `has(e.f)`: the sole argument must itself be a
// selection expression, a MemberExpr or an IndexExpr (the index may be
// any expression; it is not required to be a string literal); has()
// always yields bool (spec.md §4.G).
func (c *Checker) inferHas(call *ast.CallExpr) *types.Type {
	if len(call.Args) != 1 {
		return c.fail(call.Pos(), "has() takes exactly one field-selection argument")
	}
	switch sel := call.Args[0].(type) {
	case *ast.MemberExpr:
		c.infer(sel.Operand)
	case *ast.IndexExpr:
		c.infer(sel.Operand)
		c.infer(sel.Index)
	default:
		return c.fail(call.Args[0].Pos(), "has() argument must be a field or index selection")
	}
	if c.failed() {
		return types.Dyn
	}
	return types.Bool
}

// elementType returns the per-iteration type a comprehension macro's
// receiver yields: a list's Elem, or a map's Key (CEL comprehensions
// over maps iterate keys, per spec.md §4.G).
func (c *Checker) elementType(recv ast.Expression) (*types.Type, bool) {
	recvType := c.infer(recv)
	if c.failed() {
		return types.Dyn, true
	}
	switch recvType.Kind {
	case types.KindDyn:
		return types.Dyn, true
	case types.KindList:
		return recvType.Elem, true
	case types.KindMap:
		return recvType.Key, true
	default:
		c.fail(recv.Pos(), "comprehension macros require a list or map receiver, got '%s'", recvType)
		return types.Dyn, false
	}
}

// inferPredicateMacro checks `recv.all(x, pred)`, `recv.exists(x, pred)`,
// and `recv.exists_one(x, pred)`: all three bind x to the receiver's
// element type over the predicate and require a strictly bool result.
func (c *Checker) inferPredicateMacro(call *ast.CallExpr) *types.Type {
	if call.Receiver == nil || len(call.Args) != 2 {
		return c.fail(call.Pos(), "%s() requires a receiver and (var, predicate) arguments", call.Macro)
	}
	elemType, ok := c.elementType(call.Receiver)
	if !ok || c.failed() {
		return types.Dyn
	}
	iterVar, predErr := macroIterVar(call.Args[0])
	if predErr != "" {
		return c.fail(call.Args[0].Pos(), "%s", predErr)
	}

	c.pushScope()
	c.bind(iterVar, elemType)
	predType := c.infer(call.Args[1])
	c.popScope()
	if c.failed() {
		return types.Dyn
	}
	if !types.Equal(predType, types.Bool) && predType.Kind != types.KindDyn {
		return c.fail(call.Args[1].Pos(), "%s() predicate must be bool, got '%s'", call.Macro, predType)
	}
	return types.Bool
}

// inferFilterMacro checks `recv.filter(x, pred)`: same shape as the
// predicate macros but the result is a list of the receiver's element
// type (spec.md §4.G).
func (c *Checker) inferFilterMacro(call *ast.CallExpr) *types.Type {
	if call.Receiver == nil || len(call.Args) != 2 {
		return c.fail(call.Pos(), "filter() requires a receiver and (var, predicate) arguments")
	}
	elemType, ok := c.elementType(call.Receiver)
	if !ok || c.failed() {
		return types.Dyn
	}
	iterVar, predErr := macroIterVar(call.Args[0])
	if predErr != "" {
		return c.fail(call.Args[0].Pos(), "%s", predErr)
	}

	c.pushScope()
	c.bind(iterVar, elemType)
	predType := c.infer(call.Args[1])
	c.popScope()
	if c.failed() {
		return types.Dyn
	}
	if !types.Equal(predType, types.Bool) && predType.Kind != types.KindDyn {
		return c.fail(call.Args[1].Pos(), "filter() predicate must be bool, got '%s'", predType)
	}
	return types.NewList(elemType)
}

// inferMapMacro checks both forms of `map`: the 2-arg transform-only
// form `recv.map(x, transform)` and the 3-arg filter+transform form
// `recv.map(x, pred, transform)`, whose middle argument must be bool
// (spec.md §4.G). The result is always a list of the transform's type.
func (c *Checker) inferMapMacro(call *ast.CallExpr) *types.Type {
	if call.Receiver == nil || (len(call.Args) != 2 && len(call.Args) != 3) {
		return c.fail(call.Pos(), "map() requires a receiver and (var, transform) or (var, predicate, transform) arguments")
	}
	elemType, ok := c.elementType(call.Receiver)
	if !ok || c.failed() {
		return types.Dyn
	}
	iterVar, predErr := macroIterVar(call.Args[0])
	if predErr != "" {
		return c.fail(call.Args[0].Pos(), "%s", predErr)
	}

	c.pushScope()
	c.bind(iterVar, elemType)
	var transformExpr ast.Expression
	if len(call.Args) == 3 {
		predType := c.infer(call.Args[1])
		if c.failed() {
			c.popScope()
			return types.Dyn
		}
		if !types.Equal(predType, types.Bool) && predType.Kind != types.KindDyn {
			c.popScope()
			return c.fail(call.Args[1].Pos(), "map() filter predicate must be bool, got '%s'", predType)
		}
		transformExpr = call.Args[2]
	} else {
		transformExpr = call.Args[1]
	}
	transformType := c.infer(transformExpr)
	c.popScope()
	if c.failed() {
		return types.Dyn
	}
	return types.NewList(transformType)
}

// macroIterVar extracts the bound-variable name from a comprehension
// macro's first argument, which the parser always leaves as a bare
// Identifier.
func macroIterVar(arg ast.Expression) (string, string) {
	id, ok := arg.(*ast.Identifier)
	if !ok {
		return "", "comprehension variable must be a bare identifier"
	}
	return id.Name, ""
}

// inferOrdinaryCall resolves a non-macro call (global or receiver
// form) against the registry, requiring an exact statically-resolvable
// overload (spec.md §4.E); dyn arguments may match more than one
// overload, left for internal/interpreter to re-resolve at runtime.
func (c *Checker) inferOrdinaryCall(call *ast.CallExpr) *types.Type {
	var recvType *types.Type
	if call.Receiver != nil {
		recvType = c.infer(call.Receiver)
		if c.failed() {
			return types.Dyn
		}
	}

	argTypes := make([]*types.Type, len(call.Args))
	for i, a := range call.Args {
		argTypes[i] = c.infer(a)
		if c.failed() {
			return types.Dyn
		}
	}

	resultType, ok := c.resolveDynAware(call.Function, recvType, argTypes)
	if !ok {
		return c.fail(call.Pos(), "found no matching overload for '%s'", callSignature(call, recvType, argTypes))
	}
	if resultType != nil {
		return resultType
	}
	return types.Dyn
}

func callSignature(call *ast.CallExpr, recvType *types.Type, argTypes []*types.Type) string {
	parts := make([]string, len(argTypes))
	for i, t := range argTypes {
		parts[i] = t.String()
	}
	sig := fmt.Sprintf("%s(%s)", call.Function, strings.Join(parts, ", "))
	if recvType != nil {
		return recvType.String() + "." + sig
	}
	return sig
}
