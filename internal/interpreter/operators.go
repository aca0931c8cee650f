package interpreter

import (
	"github.com/cwbudde/go-cel/internal/ast"
	"github.com/cwbudde/go-cel/internal/lexer"
	"github.com/cwbudde/go-cel/internal/types"
	"github.com/cwbudde/go-cel/internal/value"
)

func unaryOverloadName(op string) string {
	switch op {
	case "!":
		return "!_"
	case "-":
		return "-_"
	}
	return op
}

func binaryOverloadName(op string) string {
	return "_" + op + "_"
}

// resolveAndCall re-resolves name against the runtime types of args
// (spec.md §4.F's "re-resolve the overload given the actual runtime
// types when operands were typed as dyn") and invokes its handler.
func (i *Interpreter) resolveAndCall(pos lexer.Position, name string, recv *types.Type, args []value.Value) (value.Value, error) {
	argTypes := make([]*types.Type, len(args))
	for idx, a := range args {
		argTypes[idx] = a.Type()
	}
	o, ok := i.reg.ResolveStatic(name, recv, argTypes)
	if !ok {
		return i.fail(pos, "found no matching overload for '%s'", name)
	}
	if o.Func == nil {
		return i.fail(pos, "overload '%s' has no runtime handler", name)
	}
	v, err := o.Func(args)
	if err != nil {
		return i.fail(pos, "%s", err.Error())
	}
	return v, nil
}

func (i *Interpreter) evalUnary(u *ast.UnaryExpr) (value.Value, error) {
	operand, err := i.eval(u.Operand)
	if err != nil {
		return nil, err
	}
	return i.resolveAndCall(u.Pos(), unaryOverloadName(u.Operator), nil, []value.Value{operand})
}

// evalBinary special-cases `&&`/`||` for short-circuit evaluation
// (spec.md §4.F, §8 Testable Property 5); every other operator
// evaluates both operands and dispatches through the registry.
func (i *Interpreter) evalBinary(b *ast.BinaryExpr) (value.Value, error) {
	switch b.Operator {
	case "&&":
		return i.evalLogicalAnd(b)
	case "||":
		return i.evalLogicalOr(b)
	}

	left, err := i.eval(b.Left)
	if err != nil {
		return nil, err
	}
	right, err := i.eval(b.Right)
	if err != nil {
		return nil, err
	}
	return i.resolveAndCall(b.Pos(), binaryOverloadName(b.Operator), nil, []value.Value{left, right})
}

func (i *Interpreter) evalLogicalAnd(b *ast.BinaryExpr) (value.Value, error) {
	left, err := i.eval(b.Left)
	if err != nil {
		return nil, err
	}
	lb, ok := left.(value.BoolValue)
	if !ok {
		return i.fail(b.Left.Pos(), "&& operand must be bool, got '%s'", left.Type())
	}
	if !bool(lb) {
		return value.BoolValue(false), nil
	}
	right, err := i.eval(b.Right)
	if err != nil {
		return nil, err
	}
	rb, ok := right.(value.BoolValue)
	if !ok {
		return i.fail(b.Right.Pos(), "&& operand must be bool, got '%s'", right.Type())
	}
	return rb, nil
}

func (i *Interpreter) evalLogicalOr(b *ast.BinaryExpr) (value.Value, error) {
	left, err := i.eval(b.Left)
	if err != nil {
		return nil, err
	}
	lb, ok := left.(value.BoolValue)
	if !ok {
		return i.fail(b.Left.Pos(), "|| operand must be bool, got '%s'", left.Type())
	}
	if bool(lb) {
		return value.BoolValue(true), nil
	}
	right, err := i.eval(b.Right)
	if err != nil {
		return nil, err
	}
	rb, ok := right.(value.BoolValue)
	if !ok {
		return i.fail(b.Right.Pos(), "|| operand must be bool, got '%s'", right.Type())
	}
	return rb, nil
}

// evalTernary evaluates only the chosen branch (spec.md §8 Testable
// Property 5).
func (i *Interpreter) evalTernary(t *ast.TernaryExpr) (value.Value, error) {
	cond, err := i.eval(t.Condition)
	if err != nil {
		return nil, err
	}
	cb, ok := cond.(value.BoolValue)
	if !ok {
		return i.fail(t.Condition.Pos(), "ternary condition must be bool, got '%s'", cond.Type())
	}
	if bool(cb) {
		return i.eval(t.Then)
	}
	return i.eval(t.Else)
}
