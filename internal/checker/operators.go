package checker

import (
	"github.com/cwbudde/go-cel/internal/ast"
	"github.com/cwbudde/go-cel/internal/lexer"
	"github.com/cwbudde/go-cel/internal/types"
)

// unaryOverloadName and binaryOverloadName translate an AST operator
// symbol into the registry name its overload is registered under,
// spec.md §4.B's `_op_(LHS,RHS):R` sugar generalized to unary `!_`/`-_`.
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

// resolveDynAware resolves name/recv/argTypes against the registry,
// collecting every matching overload rather than just the first: when a
// dyn operand (or, for receiver calls, a dyn receiver) makes more than
// one overload assignable, spec.md §4.B's tie-break applies, so the
// result is the common type if every match agrees, or dyn if they
// disagree, instead of silently picking whichever overload happened to
// register first.
func (c *Checker) resolveDynAware(name string, recv *types.Type, argTypes []*types.Type) (*types.Type, bool) {
	matches := c.reg.ResolveAllStatic(name, recv, argTypes)
	if len(matches) == 0 {
		return nil, false
	}
	result := matches[0].ResultType
	for _, o := range matches[1:] {
		if !types.Equal(o.ResultType, result) {
			return types.Dyn, true
		}
	}
	return result, true
}

func (c *Checker) inferUnary(u *ast.UnaryExpr) *types.Type {
	operandType := c.infer(u.Operand)
	if c.failed() {
		return types.Dyn
	}
	name := unaryOverloadName(u.Operator)
	resultType, ok := c.resolveDynAware(name, nil, []*types.Type{operandType})
	if !ok {
		return c.fail(u.Pos(), "no such overload: %s%s", u.Operator, operandType)
	}
	if resultType != nil {
		return resultType
	}
	return operandType
}

func (c *Checker) inferBinary(b *ast.BinaryExpr) *types.Type {
	leftType := c.infer(b.Left)
	if c.failed() {
		return types.Dyn
	}
	rightType := c.infer(b.Right)
	if c.failed() {
		return types.Dyn
	}
	name := binaryOverloadName(b.Operator)
	resultType, ok := c.resolveDynAware(name, nil, []*types.Type{leftType, rightType})
	if !ok {
		return c.fail(b.Pos(), "no such overload: %s %s %s", leftType, b.Operator, rightType)
	}
	if resultType != nil {
		return resultType
	}
	return leftType
}

// inferTernary implements spec.md §4.E's ternary special form: the
// condition must be strictly bool; if both branches agree the result
// is that type, else dyn only when at least one branch is already dyn,
// else a type error.
func (c *Checker) inferTernary(t *ast.TernaryExpr) *types.Type {
	condType := c.infer(t.Condition)
	if c.failed() {
		return types.Dyn
	}
	if !types.Equal(condType, types.Bool) {
		return c.fail(t.Condition.Pos(), "ternary condition must be bool, got '%s'", condType)
	}
	thenType := c.infer(t.Then)
	if c.failed() {
		return types.Dyn
	}
	elseType := c.infer(t.Else)
	if c.failed() {
		return types.Dyn
	}
	if types.Equal(thenType, elseType) {
		return thenType
	}
	if thenType.Kind == types.KindDyn || elseType.Kind == types.KindDyn {
		return types.Dyn
	}
	return c.fail(t.Pos(), "ternary branches have incompatible types '%s' and '%s'", thenType, elseType)
}

// inferMember resolves `operand.field`: dyn propagates; maps read
// through to their declared value type; registered object types with
// field declarations enforce the declared field's type, rejecting
// undeclared fields; any other operand kind is a type error (CEL has
// no structural field access outside maps and registered objects).
func (c *Checker) inferMember(m *ast.MemberExpr) *types.Type {
	operandType := c.infer(m.Operand)
	if c.failed() {
		return types.Dyn
	}
	resultType := c.fieldType(m.Pos(), operandType, m.Field)
	if c.failed() {
		return types.Dyn
	}
	// An already-optional operand wraps inside fieldType's KindOptional
	// case; only wrap again here for an explicit `?.` against a
	// non-optional operand, matching internal/interpreter/access.go's
	// evalMember.
	if operandType.Kind != types.KindOptional && m.Optional && c.opts.EnableOptionalTypes {
		return types.NewOptional(resultType)
	}
	return resultType
}

// fieldType resolves `operandType.field`: dyn propagates unchanged; a
// map's value type is returned regardless of field name (the field
// name is only statically known for object types); registered object
// types with field declarations enforce the declared field's type,
// rejecting undeclared fields, while undeclared (decl-less) object
// types accept any field name as dyn.
func (c *Checker) fieldType(pos lexer.Position, operandType *types.Type, field string) *types.Type {
	switch operandType.Kind {
	case types.KindDyn:
		return types.Dyn
	case types.KindOptional:
		inner := c.fieldType(pos, operandType.Elem, field)
		if c.failed() {
			return types.Dyn
		}
		return types.NewOptional(inner)
	case types.KindMap:
		return operandType.Value
	case types.KindObject:
		if !c.reg.HasFieldDecls(operandType.Name) {
			return types.Dyn
		}
		ft, ok := c.reg.LookupFieldType(operandType.Name, field)
		if !ok {
			return c.fail(pos, "'%s' has no declared field '%s'", operandType.Name, field)
		}
		return ft
	default:
		return c.fail(pos, "type '%s' does not support field access", operandType)
	}
}

func (c *Checker) inferIndex(ix *ast.IndexExpr) *types.Type {
	operandType := c.infer(ix.Operand)
	if c.failed() {
		return types.Dyn
	}
	indexType := c.infer(ix.Index)
	if c.failed() {
		return types.Dyn
	}

	resultType := c.indexResultType(ix, operandType, indexType)
	if c.failed() {
		return types.Dyn
	}

	// An already-optional operand wraps inside indexResultType's
	// KindOptional case; only wrap again here for an explicit `[?`
	// against a non-optional operand, matching
	// internal/interpreter/access.go's evalIndex (which only consults
	// ix.Optional once the operand itself isn't already optional).
	if operandType.Kind != types.KindOptional && ix.Optional && c.opts.EnableOptionalTypes {
		return types.NewOptional(resultType)
	}
	return resultType
}

// indexResultType resolves `operandType[indexType]`: dyn propagates
// unchanged; an optional operand propagates virally, wrapping the
// element-type result the same way fieldType does for `.field` after
// `?.` (spec.md §4.F); list/map index the usual way.
func (c *Checker) indexResultType(ix *ast.IndexExpr, operandType, indexType *types.Type) *types.Type {
	switch operandType.Kind {
	case types.KindDyn:
		return types.Dyn
	case types.KindOptional:
		inner := c.indexResultType(ix, operandType.Elem, indexType)
		if c.failed() {
			return types.Dyn
		}
		return types.NewOptional(inner)
	case types.KindList:
		if !types.IsNumeric(indexType) {
			return c.fail(ix.Index.Pos(), "list index must be numeric, got '%s'", indexType)
		}
		return operandType.Elem
	case types.KindMap:
		if !types.IsAssignable(indexType, operandType.Key) {
			return c.fail(ix.Index.Pos(), "map key type '%s' does not match declared key type '%s'", indexType, operandType.Key)
		}
		return operandType.Value
	default:
		return c.fail(ix.Pos(), "type '%s' does not support indexing", operandType)
	}
}
