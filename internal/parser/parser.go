// Package parser implements CEL's Pratt-style precedence-climbing
// expression parser, grounded on CWBudde-go-dws/internal/parser's
// prefixParseFn/infixParseFn registry and precedences table, generalized
// to spec.md §4.D's ladder and structural resource limits.
package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cwbudde/go-cel/internal/ast"
	"github.com/cwbudde/go-cel/internal/errutil"
	"github.com/cwbudde/go-cel/internal/lexer"
)

// Precedence levels, lowest to highest, matching spec.md §4.D's ladder.
const (
	_ int = iota
	LOWEST
	TERNARY // ?:
	OR      // ||
	AND     // &&
	EQUALITY
	RELATIONAL // < <= > >= in
	ADDITIVE
	MULTIPLICATIVE
	UNARY
	POSTFIX // . ?. [ ] [? ] ( )
)

var precedences = map[lexer.TokenType]int{
	lexer.QUESTION:        TERNARY,
	lexer.OR_OR:           OR,
	lexer.AND_AND:         AND,
	lexer.EQ_EQ:           EQUALITY,
	lexer.BANG_EQ:         EQUALITY,
	lexer.LT:              RELATIONAL,
	lexer.LT_EQ:           RELATIONAL,
	lexer.GT:              RELATIONAL,
	lexer.GT_EQ:           RELATIONAL,
	lexer.IN:              RELATIONAL,
	lexer.PLUS:            ADDITIVE,
	lexer.MINUS:           ADDITIVE,
	lexer.STAR:            MULTIPLICATIVE,
	lexer.SLASH:           MULTIPLICATIVE,
	lexer.PERCENT:         MULTIPLICATIVE,
	lexer.DOT:             POSTFIX,
	lexer.QUESTION_DOT:    POSTFIX,
	lexer.LBRACK:          POSTFIX,
	lexer.QUESTION_LBRACK: POSTFIX,
	lexer.LPAREN:          POSTFIX,
}

// macroNames is the set of receiver-style comprehension macros recognized
// at parse time; their call arguments are kept as raw AST (spec.md §3's
// "macro overload" / §4.E-F special forms).
var macroNames = map[string]bool{
	"all": true, "exists": true, "exists_one": true, "filter": true, "map": true,
}

// Limits bounds the structural size of a parsed AST (spec.md §4.D).
type Limits struct {
	MaxAstNodes      int
	MaxDepth         int
	MaxListElements  int
	MaxMapEntries    int
	MaxCallArguments int
}

// DefaultLimits matches the defaults named in spec.md §6.
var DefaultLimits = Limits{
	MaxAstNodes:      100000,
	MaxDepth:         250,
	MaxListElements:  1000,
	MaxMapEntries:    1000,
	MaxCallArguments: 32,
}

// ParseError is raised for syntactically invalid source or a limit
// violation; it carries the name of the exceeded limit when applicable.
type ParseError struct {
	errutil.Base
	LimitName string // "" unless this error is a resource-limit violation
}

func (e *ParseError) Error() string { return e.Base.Message }

// Format renders the error with a source-excerpt caret, per
// internal/errutil.
func (e *ParseError) Format(color bool) string { return e.Base.Format(color) }

type prefixParseFn func() ast.Expression
type infixParseFn func(left ast.Expression) ast.Expression

// Parser scans CEL source into an Expression AST.
type Parser struct {
	l      *lexer.Lexer
	source string
	limits Limits

	curTok  lexer.Token
	peekTok lexer.Token

	prefixFns map[lexer.TokenType]prefixParseFn
	infixFns  map[lexer.TokenType]infixParseFn

	errors    []*ParseError
	nodeCount int
	depth     int
}

// Option configures a Parser, mirroring the teacher's functional-option
// builder pattern (LexerOption / ParserBuilder).
type Option func(*Parser)

// WithLimits overrides the default resource limits.
func WithLimits(l Limits) Option {
	return func(p *Parser) { p.limits = l }
}

// New creates a Parser over source.
func New(source string, opts ...Option) *Parser {
	p := &Parser{
		l:      lexer.New(source),
		source: source,
		limits: DefaultLimits,
	}
	for _, opt := range opts {
		opt(p)
	}

	p.prefixFns = map[lexer.TokenType]prefixParseFn{
		lexer.NULL:     p.parseNullLiteral,
		lexer.TRUE:     p.parseBoolLiteral,
		lexer.FALSE:    p.parseBoolLiteral,
		lexer.INT:      p.parseIntLiteral,
		lexer.UINT:     p.parseUintLiteral,
		lexer.DOUBLE:   p.parseDoubleLiteral,
		lexer.STRING:   p.parseStringLiteral,
		lexer.IDENT:    p.parseIdentifier,
		lexer.MINUS:    p.parseUnary,
		lexer.BANG:     p.parseUnary,
		lexer.LPAREN:   p.parseGroupedExpr,
		lexer.LBRACK:   p.parseListLiteral,
		lexer.LBRACE:   p.parseMapLiteral,
	}
	p.infixFns = map[lexer.TokenType]infixParseFn{
		lexer.PLUS:            p.parseBinary,
		lexer.MINUS:           p.parseBinary,
		lexer.STAR:            p.parseBinary,
		lexer.SLASH:           p.parseBinary,
		lexer.PERCENT:         p.parseBinary,
		lexer.EQ_EQ:           p.parseBinary,
		lexer.BANG_EQ:         p.parseBinary,
		lexer.LT:              p.parseBinary,
		lexer.LT_EQ:           p.parseBinary,
		lexer.GT:              p.parseBinary,
		lexer.GT_EQ:           p.parseBinary,
		lexer.IN:              p.parseBinary,
		lexer.AND_AND:         p.parseBinary,
		lexer.OR_OR:           p.parseBinary,
		lexer.QUESTION:        p.parseTernary,
		lexer.DOT:             p.parseMember,
		lexer.QUESTION_DOT:    p.parseMember,
		lexer.LBRACK:          p.parseIndex,
		lexer.QUESTION_LBRACK: p.parseIndex,
		lexer.LPAREN:          p.parseCall,
	}

	p.nextToken()
	p.nextToken()
	return p
}

// Errors returns all parse errors accumulated so far.
func (p *Parser) Errors() []*ParseError { return p.errors }

func (p *Parser) nextToken() {
	p.curTok = p.peekTok
	p.peekTok = p.l.NextToken()
}

func (p *Parser) addError(msg string, pos lexer.Position) {
	p.errors = append(p.errors, &ParseError{Base: errutil.Base{Message: msg, Source: p.source, Pos: pos}})
}

func (p *Parser) addLimitError(limitName, msg string, pos lexer.Position) {
	p.errors = append(p.errors, &ParseError{
		Base:      errutil.Base{Message: msg, Source: p.source, Pos: pos},
		LimitName: limitName,
	})
}

// countNode enforces maxAstNodes at every node allocation.
func (p *Parser) countNode(pos lexer.Position) bool {
	p.nodeCount++
	if p.nodeCount > p.limits.MaxAstNodes {
		p.addLimitError("maxAstNodes", fmt.Sprintf("expression exceeds maxAstNodes (%d)", p.limits.MaxAstNodes), pos)
		return false
	}
	return true
}

// enterDepth/leaveDepth bound nesting across aggregate literals, member
// chains, index chains, and call nesting, per spec.md §4.D.
func (p *Parser) enterDepth(pos lexer.Position) bool {
	p.depth++
	if p.depth > p.limits.MaxDepth {
		p.addLimitError("maxDepth", fmt.Sprintf("expression exceeds maxDepth (%d)", p.limits.MaxDepth), pos)
		return false
	}
	return true
}

func (p *Parser) leaveDepth() { p.depth-- }

func (p *Parser) peekPrecedence() int {
	if pr, ok := precedences[p.peekTok.Type]; ok {
		return pr
	}
	return LOWEST
}

// Parse consumes the entire token stream and returns the root
// expression, or nil with accumulated errors on failure.
func Parse(source string, opts ...Option) (ast.Expression, []*ParseError) {
	p := New(source, opts...)
	expr := p.ParseExpression(LOWEST)
	if p.peekTok.Type != lexer.EOF {
		p.addError(fmt.Sprintf("unexpected trailing token %s", p.peekTok.Type), p.peekTok.Pos)
	}
	for _, le := range p.l.Errors() {
		p.addError(le.Message, le.Pos)
	}
	if len(p.errors) > 0 {
		return nil, p.errors
	}
	return expr, nil
}

// ParseExpression implements the Pratt climb: a prefix parse followed
// by zero or more infix continuations while the peeked operator binds
// tighter than precedence.
func (p *Parser) ParseExpression(precedence int) ast.Expression {
	prefix, ok := p.prefixFns[p.curTok.Type]
	if !ok {
		p.addError(fmt.Sprintf("unexpected token %s", p.curTok.Type), p.curTok.Pos)
		return nil
	}
	left := prefix()

	for p.peekTok.Type != lexer.EOF && precedence < p.peekPrecedence() {
		infix, ok := p.infixFns[p.peekTok.Type]
		if !ok {
			return left
		}
		p.nextToken()
		left = infix(left)
		if left == nil {
			return nil
		}
	}
	return left
}

func (p *Parser) parseNullLiteral() ast.Expression {
	tok := p.curTok
	if !p.countNode(tok.Pos) {
		return nil
	}
	return ast.NewNullLiteral(tok)
}

func (p *Parser) parseBoolLiteral() ast.Expression {
	tok := p.curTok
	if !p.countNode(tok.Pos) {
		return nil
	}
	return ast.NewBoolLiteral(tok, tok.Type == lexer.TRUE)
}

func (p *Parser) parseIntLiteral() ast.Expression {
	tok := p.curTok
	if !p.countNode(tok.Pos) {
		return nil
	}
	v, err := parseIntLiteralValue(tok.Literal)
	if err != nil {
		p.addError(fmt.Sprintf("invalid integer literal %q: %v", tok.Literal, err), tok.Pos)
		return nil
	}
	return ast.NewIntLiteral(tok, v)
}

func (p *Parser) parseUintLiteral() ast.Expression {
	tok := p.curTok
	if !p.countNode(tok.Pos) {
		return nil
	}
	lit := strings.TrimSuffix(strings.TrimSuffix(tok.Literal, "u"), "U")
	v, err := parseUintLiteralValue(lit)
	if err != nil {
		p.addError(fmt.Sprintf("invalid unsigned integer literal %q: %v", tok.Literal, err), tok.Pos)
		return nil
	}
	return ast.NewUintLiteral(tok, v)
}

func parseIntLiteralValue(lit string) (int64, error) {
	if strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X") {
		v, err := strconv.ParseUint(lit[2:], 16, 64)
		return int64(v), err
	}
	return strconv.ParseInt(lit, 10, 64)
}

func parseUintLiteralValue(lit string) (uint64, error) {
	if strings.HasPrefix(lit, "0x") || strings.HasPrefix(lit, "0X") {
		return strconv.ParseUint(lit[2:], 16, 64)
	}
	return strconv.ParseUint(lit, 10, 64)
}

func (p *Parser) parseDoubleLiteral() ast.Expression {
	tok := p.curTok
	if !p.countNode(tok.Pos) {
		return nil
	}
	v, err := strconv.ParseFloat(tok.Literal, 64)
	if err != nil {
		p.addError(fmt.Sprintf("invalid double literal %q: %v", tok.Literal, err), tok.Pos)
		return nil
	}
	return ast.NewDoubleLiteral(tok, v)
}

func (p *Parser) parseStringLiteral() ast.Expression {
	tok := p.curTok
	if !p.countNode(tok.Pos) {
		return nil
	}
	return ast.NewStringLiteral(tok, tok.Literal, tok.IsBytes)
}

func (p *Parser) parseIdentifier() ast.Expression {
	tok := p.curTok
	if !p.countNode(tok.Pos) {
		return nil
	}
	return ast.NewIdentifier(tok, tok.Literal)
}

func (p *Parser) parseUnary() ast.Expression {
	tok := p.curTok
	if !p.countNode(tok.Pos) {
		return nil
	}
	p.nextToken()
	operand := p.ParseExpression(UNARY)
	if operand == nil {
		return nil
	}
	return ast.NewUnaryExpr(tok, tok.Literal, operand)
}

func (p *Parser) parseGroupedExpr() ast.Expression {
	if !p.enterDepth(p.curTok.Pos) {
		return nil
	}
	defer p.leaveDepth()
	p.nextToken()
	expr := p.ParseExpression(LOWEST)
	if !p.expectPeek(lexer.RPAREN) {
		return nil
	}
	return expr
}

func (p *Parser) expectPeek(t lexer.TokenType) bool {
	if p.peekTok.Type == t {
		p.nextToken()
		return true
	}
	p.addError(fmt.Sprintf("expected %s, got %s", t, p.peekTok.Type), p.peekTok.Pos)
	return false
}

func (p *Parser) parseListLiteral() ast.Expression {
	tok := p.curTok
	if !p.countNode(tok.Pos) || !p.enterDepth(tok.Pos) {
		return nil
	}
	defer p.leaveDepth()

	var elems []ast.Expression
	if p.peekTok.Type == lexer.RBRACK {
		p.nextToken()
		return ast.NewListLiteral(tok, elems)
	}

	p.nextToken()
	for {
		elem := p.ParseExpression(LOWEST)
		if elem == nil {
			return nil
		}
		elems = append(elems, elem)
		if len(elems) > p.limits.MaxListElements {
			p.addLimitError("maxListElements", fmt.Sprintf("list literal exceeds maxListElements (%d)", p.limits.MaxListElements), tok.Pos)
			return nil
		}
		if p.peekTok.Type == lexer.RBRACK {
			p.nextToken()
			break
		}
		if !p.expectPeek(lexer.COMMA) {
			return nil
		}
		if p.peekTok.Type == lexer.RBRACK { // trailing comma
			p.nextToken()
			break
		}
		p.nextToken()
	}
	return ast.NewListLiteral(tok, elems)
}

func (p *Parser) parseMapLiteral() ast.Expression {
	tok := p.curTok
	if !p.countNode(tok.Pos) || !p.enterDepth(tok.Pos) {
		return nil
	}
	defer p.leaveDepth()

	var entries []ast.MapEntryNode
	if p.peekTok.Type == lexer.RBRACE {
		p.nextToken()
		return ast.NewMapLiteral(tok, entries)
	}

	p.nextToken()
	for {
		key := p.ParseExpression(LOWEST)
		if key == nil {
			return nil
		}
		if !p.expectPeek(lexer.COLON) {
			return nil
		}
		p.nextToken()
		val := p.ParseExpression(LOWEST)
		if val == nil {
			return nil
		}
		entries = append(entries, ast.MapEntryNode{Key: key, Value: val})
		if len(entries) > p.limits.MaxMapEntries {
			p.addLimitError("maxMapEntries", fmt.Sprintf("map literal exceeds maxMapEntries (%d)", p.limits.MaxMapEntries), tok.Pos)
			return nil
		}
		if p.peekTok.Type == lexer.RBRACE {
			p.nextToken()
			break
		}
		if !p.expectPeek(lexer.COMMA) {
			return nil
		}
		if p.peekTok.Type == lexer.RBRACE { // trailing comma
			p.nextToken()
			break
		}
		p.nextToken()
	}
	return ast.NewMapLiteral(tok, entries)
}

func (p *Parser) parseBinary(left ast.Expression) ast.Expression {
	tok := p.curTok
	if !p.countNode(tok.Pos) {
		return nil
	}
	precedence := precedences[tok.Type]
	p.nextToken()
	right := p.ParseExpression(precedence)
	if right == nil {
		return nil
	}
	return ast.NewBinaryExpr(tok, tok.Literal, left, right)
}

// parseTernary implements `cond ? then : else`, right-associative
// (the else branch is parsed at TERNARY-1 so a nested ternary in else
// position binds as a unit), per spec.md §4.D.
func (p *Parser) parseTernary(cond ast.Expression) ast.Expression {
	tok := p.curTok
	if !p.countNode(tok.Pos) {
		return nil
	}
	p.nextToken()
	then := p.ParseExpression(LOWEST)
	if then == nil {
		return nil
	}
	if !p.expectPeek(lexer.COLON) {
		return nil
	}
	p.nextToken()
	els := p.ParseExpression(TERNARY - 1)
	if els == nil {
		return nil
	}
	return ast.NewTernaryExpr(tok, cond, then, els)
}

func (p *Parser) parseMember(left ast.Expression) ast.Expression {
	tok := p.curTok
	if !p.countNode(tok.Pos) || !p.enterDepth(tok.Pos) {
		return nil
	}
	defer p.leaveDepth()
	if !p.expectPeek(lexer.IDENT) {
		return nil
	}
	field := p.curTok.Literal
	return ast.NewMemberExpr(tok, left, field, tok.Type == lexer.QUESTION_DOT)
}

func (p *Parser) parseIndex(left ast.Expression) ast.Expression {
	tok := p.curTok
	if !p.countNode(tok.Pos) || !p.enterDepth(tok.Pos) {
		return nil
	}
	defer p.leaveDepth()
	p.nextToken()
	idx := p.ParseExpression(LOWEST)
	if idx == nil {
		return nil
	}
	if !p.expectPeek(lexer.RBRACK) {
		return nil
	}
	return ast.NewIndexExpr(tok, left, idx, tok.Type == lexer.QUESTION_LBRACK)
}

// parseCall handles both global calls (left is an Identifier) and
// receiver calls (left is a MemberExpr, whose Operand becomes the
// receiver and Field becomes the function name). It tags Macro when
// the call shape matches a comprehension macro or `has`.
func (p *Parser) parseCall(left ast.Expression) ast.Expression {
	tok := p.curTok
	if !p.countNode(tok.Pos) || !p.enterDepth(tok.Pos) {
		return nil
	}
	defer p.leaveDepth()

	var receiver ast.Expression
	var funcName string
	switch l := left.(type) {
	case *ast.Identifier:
		funcName = l.Name
	case *ast.MemberExpr:
		receiver = l.Operand
		funcName = l.Field
	default:
		p.addError("expression is not callable", tok.Pos)
		return nil
	}

	args, ok := p.parseCallArgs(tok)
	if !ok {
		return nil
	}

	macro := ""
	if receiver != nil && macroNames[funcName] {
		macro = funcName
	} else if receiver == nil && funcName == "has" {
		macro = "has"
	}

	return ast.NewCallExpr(tok, receiver, funcName, args, macro)
}

func (p *Parser) parseCallArgs(tok lexer.Token) ([]ast.Expression, bool) {
	var args []ast.Expression
	if p.peekTok.Type == lexer.RPAREN {
		p.nextToken()
		return args, true
	}
	p.nextToken()
	for {
		arg := p.ParseExpression(LOWEST)
		if arg == nil {
			return nil, false
		}
		args = append(args, arg)
		if len(args) > p.limits.MaxCallArguments {
			p.addLimitError("maxCallArguments", fmt.Sprintf("call exceeds maxCallArguments (%d)", p.limits.MaxCallArguments), tok.Pos)
			return nil, false
		}
		if p.peekTok.Type == lexer.RPAREN {
			p.nextToken()
			break
		}
		if !p.expectPeek(lexer.COMMA) {
			return nil, false
		}
		p.nextToken()
	}
	return args, true
}
