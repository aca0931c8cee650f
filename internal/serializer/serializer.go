// Package serializer walks a checked or unchecked AST back into
// canonical CEL source, grounded on CWBudde-go-dws/ast's per-node
// String() method (the teacher unconditionally parenthesizes every
// binary/unary node). This package instead tracks each node's
// precedence against the parser's own ladder (internal/parser's
// LOWEST..POSTFIX constants) and only parenthesizes a child when
// omitting the parens would let it re-associate differently, giving
// the round-trip property of spec.md §4.H:
// parse(serialize(parse(s))) ≡ parse(s).
package serializer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/go-cel/internal/ast"
)

// Precedence levels, mirroring internal/parser's ladder exactly (kept
// as a separate constant set rather than imported, since the two
// packages reason about precedence independently: the parser climbs it
// to decide when to stop consuming tokens, this package climbs it to
// decide when to insert parentheses).
const (
	precLowest int = iota
	precTernary
	precOr
	precAnd
	precEquality
	precRelational
	precAdditive
	precMultiplicative
	precUnary
	precPostfix
	precAtom
)

var binaryPrec = map[string]int{
	"||": precOr,
	"&&": precAnd,
	"==": precEquality, "!=": precEquality,
	"<": precRelational, "<=": precRelational, ">": precRelational, ">=": precRelational, "in": precRelational,
	"+": precAdditive, "-": precAdditive,
	"*": precMultiplicative, "/": precMultiplicative, "%": precMultiplicative,
}

// Serialize renders n as canonical CEL source.
func Serialize(n ast.Expression) string {
	return Write(n, precLowest)
}

// Write renders n, wrapping it in parentheses if its own precedence is
// lower than prec — the precedence the caller requires of whatever sits
// in this position for the result to re-parse identically.
func Write(n ast.Expression, prec int) string {
	own, body := render(n)
	if own < prec {
		return "(" + body + ")"
	}
	return body
}

func render(n ast.Expression) (int, string) {
	switch v := n.(type) {
	case *ast.NullLiteral:
		return precAtom, "null"
	case *ast.BoolLiteral:
		if v.Value {
			return precAtom, "true"
		}
		return precAtom, "false"
	case *ast.IntLiteral:
		return precAtom, strconv.FormatInt(v.Value, 10)
	case *ast.UintLiteral:
		return precAtom, strconv.FormatUint(v.Value, 10) + "u"
	case *ast.DoubleLiteral:
		return precAtom, strconv.FormatFloat(v.Value, 'g', -1, 64)
	case *ast.StringLiteral:
		if v.IsBytes {
			return precAtom, fmt.Sprintf("b%q", v.Value)
		}
		return precAtom, fmt.Sprintf("%q", v.Value)
	case *ast.Identifier:
		return precAtom, v.Name
	case *ast.ListLiteral:
		return precAtom, renderList(v)
	case *ast.MapLiteral:
		return precAtom, renderMap(v)
	case *ast.UnaryExpr:
		return renderUnary(v)
	case *ast.BinaryExpr:
		return renderBinary(v)
	case *ast.TernaryExpr:
		return renderTernary(v)
	case *ast.MemberExpr:
		return renderMember(v)
	case *ast.IndexExpr:
		return renderIndex(v)
	case *ast.CallExpr:
		return renderCall(v)
	default:
		return precAtom, n.String()
	}
}

func renderList(l *ast.ListLiteral) string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = Write(e, precLowest)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

func renderMap(m *ast.MapLiteral) string {
	parts := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		parts[i] = Write(e.Key, precLowest) + ": " + Write(e.Value, precLowest)
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// renderUnary mirrors parseUnary's `ParseExpression(UNARY)` operand
// parse: the operand needs precedence ≥ precUnary to avoid parens, so a
// nested unary or postfix chain renders bare while a binary/ternary
// operand gets wrapped.
func renderUnary(u *ast.UnaryExpr) (int, string) {
	operand := Write(u.Operand, precUnary)
	if u.Operator == "-" && strings.HasPrefix(operand, "-") {
		operand = " " + operand // avoid the source re-lexing "--" as one token
	}
	return precUnary, u.Operator + operand
}

// renderBinary mirrors parseBinary: all binary operators are
// left-associative, so the left operand only needs precedence equal to
// the operator's own, while the right operand needs strictly higher
// precedence to keep `a op b op c` grouping as `(a op b) op c` on
// re-parse.
func renderBinary(b *ast.BinaryExpr) (int, string) {
	p, ok := binaryPrec[b.Operator]
	if !ok {
		p = precLowest
	}
	left := Write(b.Left, p)
	right := Write(b.Right, p+1)
	return p, left + " " + b.Operator + " " + right
}

// renderTernary mirrors parseTernary: `then` is delimited by `?`/`:` so
// it never needs parens; `else` is right-associative so a nested
// ternary there renders bare; `cond` binds tighter than the ternary
// itself (it's built before `?` is ever seen as an infix), so a
// ternary-valued condition needs explicit parens to round-trip.
func renderTernary(t *ast.TernaryExpr) (int, string) {
	cond := Write(t.Condition, precTernary+1)
	then := Write(t.Then, precLowest)
	els := Write(t.Else, precLowest)
	return precTernary, cond + " ? " + then + " : " + els
}

func renderMember(m *ast.MemberExpr) (int, string) {
	op := "."
	if m.Optional {
		op = "?."
	}
	return precPostfix, Write(m.Operand, precPostfix) + op + m.Field
}

func renderIndex(ix *ast.IndexExpr) (int, string) {
	open := "["
	if ix.Optional {
		open = "[?"
	}
	return precPostfix, Write(ix.Operand, precPostfix) + open + Write(ix.Index, precLowest) + "]"
}

func renderCall(c *ast.CallExpr) (int, string) {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = Write(a, precLowest)
	}
	args := strings.Join(parts, ", ")
	if c.Receiver != nil {
		return precPostfix, Write(c.Receiver, precPostfix) + "." + c.Function + "(" + args + ")"
	}
	return precAtom, c.Function + "(" + args + ")"
}
