// Package ast defines CEL's abstract syntax tree node types, grounded
// on CWBudde-go-dws/internal/ast's Node/Expression interface shape but
// flattened to CEL's pure-expression grammar: there are no statements,
// declarations, or blocks, only a single Expression per parsed program
// (spec.md §4.D).
package ast

import (
	"fmt"
	"strings"

	"github.com/cwbudde/go-cel/internal/lexer"
	"github.com/cwbudde/go-cel/internal/types"
)

// Node is the base interface for every AST node.
type Node interface {
	// TokenLiteral returns the literal text of the node's leading token.
	TokenLiteral() string
	// String renders the node for debugging (not canonical source; see
	// internal/serializer for that).
	String() string
	// Pos returns the node's source position.
	Pos() lexer.Position
}

// Expression is any node that evaluates to a value. CEL has no
// statement kind: every construct, including macros, is an expression.
type Expression interface {
	Node
	expressionNode()
	// ResolvedType returns the type assigned by internal/checker, or
	// nil if the node has not been checked (parse-only mode).
	ResolvedType() *types.Type
	// SetResolvedType is called by internal/checker once inference
	// completes for this node.
	SetResolvedType(t *types.Type)
}

// Base factors the position/type bookkeeping every concrete expression
// node embeds, mirroring the teacher's per-node Token/Type-annotation
// pair without repeating it on every struct.
type Base struct {
	NodePos lexer.Position
	Typ     *types.Type
}

// NewBase builds a Base anchored at tok's position, for use by
// internal/parser when constructing nodes.
func NewBase(tok lexer.Token) Base { return Base{NodePos: tok.Pos} }

func (b *Base) Pos() lexer.Position           { return b.NodePos }
func (b *Base) ResolvedType() *types.Type     { return b.Typ }
func (b *Base) SetResolvedType(t *types.Type) { b.Typ = t }

// Literal kinds.

type NullLiteral struct {
	Base
	Token lexer.Token
}

func NewNullLiteral(tok lexer.Token) *NullLiteral {
	return &NullLiteral{Base: NewBase(tok), Token: tok}
}

func (n *NullLiteral) expressionNode()      {}
func (n *NullLiteral) TokenLiteral() string { return n.Token.Literal }
func (n *NullLiteral) String() string       { return "null" }

type BoolLiteral struct {
	Base
	Token lexer.Token
	Value bool
}

func NewBoolLiteral(tok lexer.Token, value bool) *BoolLiteral {
	return &BoolLiteral{Base: NewBase(tok), Token: tok, Value: value}
}

func (b *BoolLiteral) expressionNode()      {}
func (b *BoolLiteral) TokenLiteral() string { return b.Token.Literal }
func (b *BoolLiteral) String() string {
	if b.Value {
		return "true"
	}
	return "false"
}

type IntLiteral struct {
	Base
	Token lexer.Token
	Value int64
}

func NewIntLiteral(tok lexer.Token, value int64) *IntLiteral {
	return &IntLiteral{Base: NewBase(tok), Token: tok, Value: value}
}

func (i *IntLiteral) expressionNode()      {}
func (i *IntLiteral) TokenLiteral() string { return i.Token.Literal }
func (i *IntLiteral) String() string       { return i.Token.Literal }

type UintLiteral struct {
	Base
	Token lexer.Token
	Value uint64
}

func NewUintLiteral(tok lexer.Token, value uint64) *UintLiteral {
	return &UintLiteral{Base: NewBase(tok), Token: tok, Value: value}
}

func (u *UintLiteral) expressionNode()      {}
func (u *UintLiteral) TokenLiteral() string { return u.Token.Literal }
func (u *UintLiteral) String() string       { return u.Token.Literal }

type DoubleLiteral struct {
	Base
	Token lexer.Token
	Value float64
}

func NewDoubleLiteral(tok lexer.Token, value float64) *DoubleLiteral {
	return &DoubleLiteral{Base: NewBase(tok), Token: tok, Value: value}
}

func (d *DoubleLiteral) expressionNode()      {}
func (d *DoubleLiteral) TokenLiteral() string { return d.Token.Literal }
func (d *DoubleLiteral) String() string       { return d.Token.Literal }

type StringLiteral struct {
	Base
	Token   lexer.Token
	Value   string
	IsBytes bool
}

func NewStringLiteral(tok lexer.Token, value string, isBytes bool) *StringLiteral {
	return &StringLiteral{Base: NewBase(tok), Token: tok, Value: value, IsBytes: isBytes}
}

func (s *StringLiteral) expressionNode()      {}
func (s *StringLiteral) TokenLiteral() string { return s.Token.Literal }
func (s *StringLiteral) String() string {
	if s.IsBytes {
		return fmt.Sprintf("b%q", s.Value)
	}
	return fmt.Sprintf("%q", s.Value)
}

// Identifier is a bare name reference, resolved against the activation
// or registry at check/eval time.
type Identifier struct {
	Base
	Token lexer.Token
	Name  string
}

func NewIdentifier(tok lexer.Token, name string) *Identifier {
	return &Identifier{Base: NewBase(tok), Token: tok, Name: name}
}

func (i *Identifier) expressionNode()      {}
func (i *Identifier) TokenLiteral() string { return i.Token.Literal }
func (i *Identifier) String() string       { return i.Name }

// ListLiteral is a `[e1, e2, ...]` expression.
type ListLiteral struct {
	Base
	Token    lexer.Token // '['
	Elements []Expression
}

func NewListLiteral(tok lexer.Token, elements []Expression) *ListLiteral {
	return &ListLiteral{Base: NewBase(tok), Token: tok, Elements: elements}
}

func (l *ListLiteral) expressionNode()      {}
func (l *ListLiteral) TokenLiteral() string { return l.Token.Literal }
func (l *ListLiteral) String() string {
	parts := make([]string, len(l.Elements))
	for i, e := range l.Elements {
		parts[i] = e.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// MapEntryNode is one `key: value` pair of a MapLiteral.
type MapEntryNode struct {
	Key   Expression
	Value Expression
}

// MapLiteral is a `{k1: v1, k2: v2, ...}` expression.
type MapLiteral struct {
	Base
	Token   lexer.Token // '{'
	Entries []MapEntryNode
}

func NewMapLiteral(tok lexer.Token, entries []MapEntryNode) *MapLiteral {
	return &MapLiteral{Base: NewBase(tok), Token: tok, Entries: entries}
}

func (m *MapLiteral) expressionNode()      {}
func (m *MapLiteral) TokenLiteral() string { return m.Token.Literal }
func (m *MapLiteral) String() string {
	parts := make([]string, len(m.Entries))
	for i, e := range m.Entries {
		parts[i] = e.Key.String() + ": " + e.Value.String()
	}
	return "{" + strings.Join(parts, ", ") + "}"
}

// UnaryExpr is `!operand` or `-operand`.
type UnaryExpr struct {
	Base
	Token    lexer.Token
	Operator string // "!" or "-"
	Operand  Expression
}

func NewUnaryExpr(tok lexer.Token, operator string, operand Expression) *UnaryExpr {
	return &UnaryExpr{Base: NewBase(tok), Token: tok, Operator: operator, Operand: operand}
}

func (u *UnaryExpr) expressionNode()      {}
func (u *UnaryExpr) TokenLiteral() string { return u.Token.Literal }
func (u *UnaryExpr) String() string       { return "(" + u.Operator + u.Operand.String() + ")" }

// BinaryExpr covers arithmetic, comparison, `in`, `&&`, `||`.
type BinaryExpr struct {
	Base
	Token    lexer.Token
	Operator string
	Left     Expression
	Right    Expression
}

func NewBinaryExpr(tok lexer.Token, operator string, left, right Expression) *BinaryExpr {
	return &BinaryExpr{Base: NewBase(tok), Token: tok, Operator: operator, Left: left, Right: right}
}

func (b *BinaryExpr) expressionNode()      {}
func (b *BinaryExpr) TokenLiteral() string { return b.Token.Literal }
func (b *BinaryExpr) String() string {
	return "(" + b.Left.String() + " " + b.Operator + " " + b.Right.String() + ")"
}

// TernaryExpr is `cond ? then : els`.
type TernaryExpr struct {
	Base
	Token     lexer.Token // '?'
	Condition Expression
	Then      Expression
	Else      Expression
}

func NewTernaryExpr(tok lexer.Token, cond, then, els Expression) *TernaryExpr {
	return &TernaryExpr{Base: NewBase(tok), Token: tok, Condition: cond, Then: then, Else: els}
}

func (t *TernaryExpr) expressionNode()      {}
func (t *TernaryExpr) TokenLiteral() string { return t.Token.Literal }
func (t *TernaryExpr) String() string {
	return "(" + t.Condition.String() + " ? " + t.Then.String() + " : " + t.Else.String() + ")"
}

// MemberExpr is `operand.field` or, when Optional is true, `operand?.field`.
type MemberExpr struct {
	Base
	Token    lexer.Token // '.' or '?.'
	Operand  Expression
	Field    string
	Optional bool
}

func NewMemberExpr(tok lexer.Token, operand Expression, field string, optional bool) *MemberExpr {
	return &MemberExpr{Base: NewBase(tok), Token: tok, Operand: operand, Field: field, Optional: optional}
}

func (m *MemberExpr) expressionNode()      {}
func (m *MemberExpr) TokenLiteral() string { return m.Token.Literal }
func (m *MemberExpr) String() string {
	if m.Optional {
		return m.Operand.String() + "?." + m.Field
	}
	return m.Operand.String() + "." + m.Field
}

// IndexExpr is `operand[index]`, or `operand[?index]` when Optional.
type IndexExpr struct {
	Base
	Token    lexer.Token // '[' or '[?'
	Operand  Expression
	Index    Expression
	Optional bool
}

func NewIndexExpr(tok lexer.Token, operand, index Expression, optional bool) *IndexExpr {
	return &IndexExpr{Base: NewBase(tok), Token: tok, Operand: operand, Index: index, Optional: optional}
}

func (ix *IndexExpr) expressionNode()      {}
func (ix *IndexExpr) TokenLiteral() string { return ix.Token.Literal }
func (ix *IndexExpr) String() string {
	if ix.Optional {
		return ix.Operand.String() + "[?" + ix.Index.String() + "]"
	}
	return ix.Operand.String() + "[" + ix.Index.String() + "]"
}

// CallExpr is a function call `name(args...)`, or a receiver call
// `recv.name(args...)` when Receiver is non-nil.
type CallExpr struct {
	Base
	Token    lexer.Token // '('
	Receiver Expression  // nil for global calls
	Function string
	Args     []Expression
	// Macro names the comprehension macro this call was recognized as
	// (e.g. "exists", "map"), or "" for an ordinary function call.
	// internal/checker and internal/interpreter special-case non-empty
	// Macro instead of resolving it through the registry.
	Macro string
}

func NewCallExpr(tok lexer.Token, receiver Expression, function string, args []Expression, macro string) *CallExpr {
	return &CallExpr{Base: NewBase(tok), Token: tok, Receiver: receiver, Function: function, Args: args, Macro: macro}
}

func (c *CallExpr) expressionNode()      {}
func (c *CallExpr) TokenLiteral() string { return c.Token.Literal }
func (c *CallExpr) String() string {
	parts := make([]string, len(c.Args))
	for i, a := range c.Args {
		parts[i] = a.String()
	}
	args := strings.Join(parts, ", ")
	if c.Receiver != nil {
		return fmt.Sprintf("%s.%s(%s)", c.Receiver.String(), c.Function, args)
	}
	return fmt.Sprintf("%s(%s)", c.Function, args)
}
