package interpreter

import (
	"fmt"

	"github.com/cwbudde/go-cel/internal/ast"
	"github.com/cwbudde/go-cel/internal/lexer"
	"github.com/cwbudde/go-cel/internal/types"
	"github.com/cwbudde/go-cel/internal/value"
)

// evalMember implements `operand.field` and, with EnableOptionalTypes,
// `operand?.field` plus "viral" optional propagation: once the operand
// is itself an optional value, a plain `.field` continues to propagate
// optionally (spec.md §4.F).
func (i *Interpreter) evalMember(m *ast.MemberExpr) (value.Value, error) {
	operand, err := i.eval(m.Operand)
	if err != nil {
		return nil, err
	}

	if opt, ok := operand.(*value.OptionalValue); ok {
		if !opt.HasValue() {
			return value.NewOptionalNone(types.Dyn), nil
		}
		fv, ferr := i.fieldValue(m.Pos(), opt.Inner, m.Field)
		if ferr != nil {
			return value.NewOptionalNone(types.Dyn), nil
		}
		return value.NewOptionalOf(fv), nil
	}

	if m.Optional && i.opts.EnableOptionalTypes {
		fv, ferr := i.fieldValue(m.Pos(), operand, m.Field)
		if ferr != nil {
			return value.NewOptionalNone(types.Dyn), nil
		}
		return value.NewOptionalOf(fv), nil
	}

	return i.fieldValue(m.Pos(), operand, m.Field)
}

// fieldValue reads field off operand: a map is read by string key; a
// registered object enforces declared-field presence and the declared
// field's runtime type (spec.md §8 Testable Property 8); any other
// operand kind is a fatal "missing field access" error.
func (i *Interpreter) fieldValue(pos lexer.Position, operand value.Value, field string) (value.Value, error) {
	switch op := operand.(type) {
	case *value.MapValue:
		v, ok := op.Get(value.StringValue(field))
		if !ok {
			return i.fail(pos, "No such key: %s", field)
		}
		return v, nil
	case *value.ObjectValue:
		if i.reg.HasFieldDecls(op.TypeName) {
			declared, ok := i.reg.LookupFieldType(op.TypeName, field)
			if !ok {
				return i.fail(pos, "No such key: %s", field)
			}
			v, ok := op.Fields[field]
			if !ok {
				return i.fail(pos, "No such key: %s", field)
			}
			if !types.IsAssignable(v.Type(), declared) {
				return i.fail(pos, "Field '%s' is not of type '%s'", field, declared)
			}
			return v, nil
		}
		v, ok := op.Fields[field]
		if !ok {
			return i.fail(pos, "No such key: %s", field)
		}
		return v, nil
	default:
		return i.fail(pos, "type '%s' does not support field access", operand.Type())
	}
}

// evalIndex implements `operand[index]` and, with EnableOptionalTypes,
// `operand[?index]` / viral optional propagation on an already-optional
// operand.
func (i *Interpreter) evalIndex(ix *ast.IndexExpr) (value.Value, error) {
	operand, err := i.eval(ix.Operand)
	if err != nil {
		return nil, err
	}
	index, err := i.eval(ix.Index)
	if err != nil {
		return nil, err
	}

	if opt, ok := operand.(*value.OptionalValue); ok {
		if !opt.HasValue() {
			return value.NewOptionalNone(types.Dyn), nil
		}
		v, ierr := i.indexValue(ix.Pos(), opt.Inner, index)
		if ierr != nil {
			return value.NewOptionalNone(types.Dyn), nil
		}
		return value.NewOptionalOf(v), nil
	}

	if ix.Optional && i.opts.EnableOptionalTypes {
		v, ierr := i.indexValue(ix.Pos(), operand, index)
		if ierr != nil {
			return value.NewOptionalNone(types.Dyn), nil
		}
		return value.NewOptionalOf(v), nil
	}

	return i.indexValue(ix.Pos(), operand, index)
}

func (i *Interpreter) indexValue(pos lexer.Position, operand, index value.Value) (value.Value, error) {
	switch op := operand.(type) {
	case *value.ListValue:
		idx, err := listIndex(index)
		if err != nil {
			return i.fail(pos, "%s", err.Error())
		}
		if idx < 0 || idx >= len(op.Elems) {
			return i.fail(pos, "index out of range: %d", idx)
		}
		return op.Elems[idx], nil
	case *value.MapValue:
		v, ok := op.Get(index)
		if !ok {
			return i.fail(pos, "No such key: %s", index.String())
		}
		return v, nil
	default:
		return i.fail(pos, "type '%s' does not support indexing", operand.Type())
	}
}

func listIndex(index value.Value) (int, error) {
	switch v := index.(type) {
	case value.IntValue:
		return int(v), nil
	case value.UintValue:
		return int(v), nil
	default:
		return 0, fmt.Errorf("list index must be an integer, got '%s'", index.Type())
	}
}
