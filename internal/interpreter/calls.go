package interpreter

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-cel/internal/ast"
	"github.com/cwbudde/go-cel/internal/lexer"
	"github.com/cwbudde/go-cel/internal/types"
	"github.com/cwbudde/go-cel/internal/value"
)

// evalCall dispatches a call expression the same way internal/checker
// does: has()/comprehension macros/dyn() as special forms, everything
// else through the registry.
func (i *Interpreter) evalCall(call *ast.CallExpr) (value.Value, error) {
	switch call.Macro {
	case "has":
		return i.evalHas(call)
	case "all":
		return i.evalAll(call)
	case "exists":
		return i.evalExists(call)
	case "exists_one":
		return i.evalExistsOne(call)
	case "filter":
		return i.evalFilter(call)
	case "map":
		return i.evalMap(call)
	}

	if call.Receiver == nil && call.Function == "dyn" {
		return i.eval(call.Args[0])
	}

	if id, ok := call.Receiver.(*ast.Identifier); ok && id.Name == "optional" {
		return i.evalOptionalNamespaceCall(call)
	}

	return i.evalOrdinaryCall(call)
}

// evalOptionalNamespaceCall evaluates the `optional.of`/`optional.none`/
// `optional.ofNonZeroValue` constructors as a special form, mirroring
// internal/checker's inferOptionalNamespaceCall.
func (i *Interpreter) evalOptionalNamespaceCall(call *ast.CallExpr) (value.Value, error) {
	switch call.Function {
	case "of":
		v, err := i.eval(call.Args[0])
		if err != nil {
			return nil, err
		}
		return value.NewOptionalOf(v), nil
	case "ofNonZeroValue":
		v, err := i.eval(call.Args[0])
		if err != nil {
			return nil, err
		}
		if isZeroValue(v) {
			return value.NewOptionalNone(v.Type()), nil
		}
		return value.NewOptionalOf(v), nil
	case "none":
		return value.NewOptionalNone(types.Dyn), nil
	default:
		return i.fail(call.Pos(), "unknown optional function 'optional.%s'", call.Function)
	}
}

// isZeroValue reports whether v is the CEL "zero value" for its type,
// used by optional.ofNonZeroValue (spec.md §4.G): null, 0, 0u, 0.0, "",
// b"", false, and empty list/map are all zero; everything else is not.
func isZeroValue(v value.Value) bool {
	switch t := v.(type) {
	case value.NullValue:
		return true
	case value.BoolValue:
		return !bool(t)
	case value.IntValue:
		return t == 0
	case value.UintValue:
		return t == 0
	case value.DoubleValue:
		return t == 0
	case value.StringValue:
		return t == ""
	case value.BytesValue:
		return len(t) == 0
	case *value.ListValue:
		return len(t.Elems) == 0
	case *value.MapValue:
		return t.Len() == 0
	default:
		return false
	}
}

func (i *Interpreter) evalHas(call *ast.CallExpr) (value.Value, error) {
	switch sel := call.Args[0].(type) {
	case *ast.MemberExpr:
		operand, err := i.eval(sel.Operand)
		if err != nil {
			return nil, err
		}
		present, err := i.hasField(call.Pos(), operand, sel.Field)
		if err != nil {
			return nil, err
		}
		return value.BoolValue(present), nil
	case *ast.IndexExpr:
		operand, err := i.eval(sel.Operand)
		if err != nil {
			return nil, err
		}
		index, err := i.eval(sel.Index)
		if err != nil {
			return nil, err
		}
		present, err := i.hasIndex(operand, index)
		if err != nil {
			return nil, err
		}
		return value.BoolValue(present), nil
	default:
		return i.fail(call.Pos(), "has() invalid argument")
	}
}

func (i *Interpreter) hasField(pos lexer.Position, operand value.Value, field string) (bool, error) {
	switch op := operand.(type) {
	case *value.MapValue:
		return op.Has(value.StringValue(field)), nil
	case *value.ObjectValue:
		_, ok := op.Fields[field]
		return ok, nil
	default:
		return false, i.newErr(pos, "type '%s' does not support field access", operand.Type())
	}
}

func (i *Interpreter) hasIndex(operand, index value.Value) (bool, error) {
	switch op := operand.(type) {
	case *value.MapValue:
		return op.Has(index), nil
	case *value.ListValue:
		idx, err := listIndex(index)
		return err == nil && idx >= 0 && idx < len(op.Elems), nil
	default:
		return false, nil
	}
}

// iterElems returns the sequence a comprehension macro iterates: a
// list's elements, or a map's keys in insertion order (spec.md §4.F).
func (i *Interpreter) iterElems(pos lexer.Position, recv value.Value) ([]value.Value, error) {
	switch r := recv.(type) {
	case *value.ListValue:
		return r.Elems, nil
	case *value.MapValue:
		keys := make([]value.Value, r.Len())
		for idx, e := range r.Entries() {
			keys[idx] = e.Key
		}
		return keys, nil
	default:
		return nil, i.newErr(pos, "comprehension macros require a list or map receiver, got '%s'", recv.Type())
	}
}

func macroIterVar(arg ast.Expression) string {
	return arg.(*ast.Identifier).Name
}

func (i *Interpreter) evalPredicate(pos lexer.Position, macro, iterVar string, elem value.Value, predExpr ast.Expression) (bool, error) {
	i.pushScope()
	i.bind(iterVar, elem)
	v, err := i.eval(predExpr)
	i.popScope()
	if err != nil {
		return false, err
	}
	b, ok := v.(value.BoolValue)
	if !ok {
		return false, i.newErr(pos, "%s(var, predicate) predicate must return bool, got '%s'", macro, v.Type())
	}
	return bool(b), nil
}

func (i *Interpreter) evalAll(call *ast.CallExpr) (value.Value, error) {
	recv, err := i.eval(call.Receiver)
	if err != nil {
		return nil, err
	}
	elems, err := i.iterElems(call.Pos(), recv)
	if err != nil {
		return nil, err
	}
	iterVar := macroIterVar(call.Args[0])
	for _, e := range elems {
		ok, err := i.evalPredicate(call.Pos(), "all", iterVar, e, call.Args[1])
		if err != nil {
			return nil, err
		}
		if !ok {
			return value.BoolValue(false), nil
		}
	}
	return value.BoolValue(true), nil
}

func (i *Interpreter) evalExists(call *ast.CallExpr) (value.Value, error) {
	recv, err := i.eval(call.Receiver)
	if err != nil {
		return nil, err
	}
	elems, err := i.iterElems(call.Pos(), recv)
	if err != nil {
		return nil, err
	}
	iterVar := macroIterVar(call.Args[0])
	for _, e := range elems {
		ok, err := i.evalPredicate(call.Pos(), "exists", iterVar, e, call.Args[1])
		if err != nil {
			return nil, err
		}
		if ok {
			return value.BoolValue(true), nil
		}
	}
	return value.BoolValue(false), nil
}

func (i *Interpreter) evalExistsOne(call *ast.CallExpr) (value.Value, error) {
	recv, err := i.eval(call.Receiver)
	if err != nil {
		return nil, err
	}
	elems, err := i.iterElems(call.Pos(), recv)
	if err != nil {
		return nil, err
	}
	iterVar := macroIterVar(call.Args[0])
	count := 0
	for _, e := range elems {
		ok, err := i.evalPredicate(call.Pos(), "exists_one", iterVar, e, call.Args[1])
		if err != nil {
			return nil, err
		}
		if ok {
			count++
		}
	}
	return value.BoolValue(count == 1), nil
}

func (i *Interpreter) evalFilter(call *ast.CallExpr) (value.Value, error) {
	recv, err := i.eval(call.Receiver)
	if err != nil {
		return nil, err
	}
	elems, err := i.iterElems(call.Pos(), recv)
	if err != nil {
		return nil, err
	}
	iterVar := macroIterVar(call.Args[0])
	var out []value.Value
	for _, e := range elems {
		ok, err := i.evalPredicate(call.Pos(), "filter", iterVar, e, call.Args[1])
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, e)
		}
	}
	elemType := types.Dyn
	if len(out) > 0 {
		elemType = out[0].Type()
	}
	return value.NewList(elemType, out), nil
}

// evalMap implements both the two-arg transform form and the three-arg
// filter+transform form (spec.md §4.F).
func (i *Interpreter) evalMap(call *ast.CallExpr) (value.Value, error) {
	recv, err := i.eval(call.Receiver)
	if err != nil {
		return nil, err
	}
	elems, err := i.iterElems(call.Pos(), recv)
	if err != nil {
		return nil, err
	}
	iterVar := macroIterVar(call.Args[0])

	var filterExpr, transformExpr ast.Expression
	if len(call.Args) == 3 {
		filterExpr, transformExpr = call.Args[1], call.Args[2]
	} else {
		transformExpr = call.Args[1]
	}

	var out []value.Value
	for _, e := range elems {
		if filterExpr != nil {
			ok, err := i.evalPredicate(call.Pos(), "map", iterVar, e, filterExpr)
			if err != nil {
				return nil, err
			}
			if !ok {
				continue
			}
		}
		i.pushScope()
		i.bind(iterVar, e)
		tv, err := i.eval(transformExpr)
		i.popScope()
		if err != nil {
			return nil, err
		}
		out = append(out, tv)
	}
	elemType := types.Dyn
	if len(out) > 0 {
		elemType = out[0].Type()
	}
	return value.NewList(elemType, out), nil
}

func (i *Interpreter) evalOrdinaryCall(call *ast.CallExpr) (value.Value, error) {
	var recv value.Value
	var recvType *types.Type
	if call.Receiver != nil {
		var err error
		recv, err = i.eval(call.Receiver)
		if err != nil {
			return nil, err
		}
		recvType = recv.Type()
	}

	args := make([]value.Value, len(call.Args))
	for idx, a := range call.Args {
		v, err := i.eval(a)
		if err != nil {
			return nil, err
		}
		args[idx] = v
	}

	callArgs := args
	if recv != nil {
		callArgs = append([]value.Value{recv}, args...)
	}

	o, ok := i.reg.ResolveStatic(call.Function, recvType, argTypesOf(args))
	if !ok {
		return i.fail(call.Pos(), "found no matching overload for '%s'", callSignature(call.Function, recvType, args))
	}
	if o.Func == nil {
		return i.fail(call.Pos(), "overload '%s' has no runtime handler", call.Function)
	}
	fnArgs := args
	if o.ReceiverType != nil {
		fnArgs = callArgs
	}
	v, err := o.Func(fnArgs)
	if err != nil {
		return i.fail(call.Pos(), "%s", err.Error())
	}
	return v, nil
}

func argTypesOf(args []value.Value) []*types.Type {
	out := make([]*types.Type, len(args))
	for idx, a := range args {
		out[idx] = a.Type()
	}
	return out
}

func callSignature(name string, recvType *types.Type, args []value.Value) string {
	parts := make([]string, len(args))
	for idx, a := range args {
		parts[idx] = a.Type().String()
	}
	sig := fmt.Sprintf("%s(%s)", name, strings.Join(parts, ", "))
	if recvType != nil {
		return recvType.String() + "." + sig
	}
	return sig
}
