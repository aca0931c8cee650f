package parser

import (
	"testing"

	"github.com/cwbudde/go-cel/internal/ast"
)

func mustParse(t *testing.T, src string) ast.Expression {
	t.Helper()
	expr, errs := Parse(src)
	if len(errs) != 0 {
		t.Fatalf("Parse(%q) errors: %v", src, errs)
	}
	return expr
}

func TestParsePrecedence(t *testing.T) {
	expr := mustParse(t, "1 + 2 * 3")
	if got := expr.String(); got != "(1 + (2 * 3))" {
		t.Errorf("got %q", got)
	}
}

func TestParseLeftAssociativity(t *testing.T) {
	expr := mustParse(t, "1 - 2 - 3")
	if got := expr.String(); got != "((1 - 2) - 3)" {
		t.Errorf("got %q", got)
	}
}

func TestParseTernaryRightAssociative(t *testing.T) {
	expr := mustParse(t, "a ? b : c ? d : e")
	if got := expr.String(); got != "(a ? b : (c ? d : e))" {
		t.Errorf("got %q", got)
	}
}

func TestParseLogicalPrecedence(t *testing.T) {
	expr := mustParse(t, "a || b && c")
	if got := expr.String(); got != "(a || (b && c))" {
		t.Errorf("got %q", got)
	}
}

func TestParseUnaryAndMemberChain(t *testing.T) {
	expr := mustParse(t, "!a.b.c")
	if got := expr.String(); got != "(!a.b.c)" {
		t.Errorf("got %q", got)
	}
}

func TestParseOptionalChain(t *testing.T) {
	expr := mustParse(t, "a?.b[?0]")
	if got := expr.String(); got != "a?.b[?0]" {
		t.Errorf("got %q", got)
	}
}

func TestParseListAndMapLiterals(t *testing.T) {
	expr := mustParse(t, "[1, 2, 3]")
	if got := expr.String(); got != "[1, 2, 3]" {
		t.Errorf("got %q", got)
	}
	expr = mustParse(t, `{"a": 1, "b": 2}`)
	if got := expr.String(); got != `{"a": 1, "b": 2}` {
		t.Errorf("got %q", got)
	}
}

func TestParseTrailingComma(t *testing.T) {
	expr := mustParse(t, "[1, 2,]")
	if got := expr.String(); got != "[1, 2]" {
		t.Errorf("got %q", got)
	}
}

func TestParseGlobalCall(t *testing.T) {
	expr := mustParse(t, "size(x)")
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected *ast.CallExpr, got %T", expr)
	}
	if call.Function != "size" || call.Receiver != nil {
		t.Errorf("got %+v", call)
	}
}

func TestParseReceiverCallAndMacroTag(t *testing.T) {
	expr := mustParse(t, "x.exists(r, r == 1)")
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected *ast.CallExpr, got %T", expr)
	}
	if call.Macro != "exists" {
		t.Errorf("expected Macro=exists, got %q", call.Macro)
	}
	if call.Receiver == nil {
		t.Fatal("expected non-nil receiver")
	}
}

func TestParseHasMacro(t *testing.T) {
	expr := mustParse(t, "has(x.y)")
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected *ast.CallExpr, got %T", expr)
	}
	if call.Macro != "has" {
		t.Errorf("expected Macro=has, got %q", call.Macro)
	}
}

func TestParseOrdinaryMemberCallIsNotAMacro(t *testing.T) {
	expr := mustParse(t, "x.size()")
	call, ok := expr.(*ast.CallExpr)
	if !ok {
		t.Fatalf("expected *ast.CallExpr, got %T", expr)
	}
	if call.Macro != "" {
		t.Errorf("expected no macro tag, got %q", call.Macro)
	}
}

func TestParseIntAndUintAndHexLiterals(t *testing.T) {
	expr := mustParse(t, "0x1F")
	lit, ok := expr.(*ast.IntLiteral)
	if !ok || lit.Value != 31 {
		t.Fatalf("got %#v, %v", expr, ok)
	}
	expr = mustParse(t, "5u")
	ulit, ok := expr.(*ast.UintLiteral)
	if !ok || ulit.Value != 5 {
		t.Fatalf("got %#v, %v", expr, ok)
	}
}

func TestParseErrorUnexpectedToken(t *testing.T) {
	_, errs := Parse("1 +")
	if len(errs) == 0 {
		t.Fatal("expected a parse error")
	}
}

func TestParseErrorUncallable(t *testing.T) {
	_, errs := Parse("1(2)")
	if len(errs) == 0 {
		t.Fatal("expected an error for calling a non-callable expression")
	}
}

func TestMaxListElementsLimit(t *testing.T) {
	src := "[" + "1," + "1," // not enough, build a larger one below
	_ = src
	elems := make([]byte, 0, 4096)
	for i := 0; i < 5; i++ {
		elems = append(elems, []byte("1,")...)
	}
	full := "[" + string(elems) + "1]"
	_, errs := Parse(full, WithLimits(Limits{
		MaxAstNodes: 100000, MaxDepth: 250, MaxListElements: 3, MaxMapEntries: 1000, MaxCallArguments: 32,
	}))
	if len(errs) == 0 {
		t.Fatal("expected maxListElements violation")
	}
	found := false
	for _, e := range errs {
		if e.LimitName == "maxListElements" {
			found = true
		}
	}
	if !found {
		t.Errorf("expected a maxListElements error, got %v", errs)
	}
}

func TestMaxDepthLimit(t *testing.T) {
	src := ""
	for i := 0; i < 10; i++ {
		src += "("
	}
	src += "1"
	for i := 0; i < 10; i++ {
		src += ")"
	}
	_, errs := Parse(src, WithLimits(Limits{
		MaxAstNodes: 100000, MaxDepth: 5, MaxListElements: 1000, MaxMapEntries: 1000, MaxCallArguments: 32,
	}))
	if len(errs) == 0 {
		t.Fatal("expected maxDepth violation")
	}
}
