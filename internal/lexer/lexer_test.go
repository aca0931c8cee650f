package lexer

import "testing"

func collectTypes(src string) []TokenType {
	l := New(src)
	var types []TokenType
	for {
		tok := l.NextToken()
		types = append(types, tok.Type)
		if tok.Type == EOF {
			break
		}
	}
	return types
}

func TestNextToken_Operators(t *testing.T) {
	src := `+ - * / % ! ? : . , ?. [? && || == != < <= > >= ( ) [ ] { }`
	want := []TokenType{
		PLUS, MINUS, STAR, SLASH, PERCENT, BANG, QUESTION, COLON, DOT, COMMA,
		QUESTION_DOT, QUESTION_LBRACK, AND_AND, OR_OR, EQ_EQ, BANG_EQ,
		LT, LT_EQ, GT, GT_EQ, LPAREN, RPAREN, LBRACK, RBRACK, LBRACE, RBRACE, EOF,
	}
	got := collectTypes(src)
	if len(got) != len(want) {
		t.Fatalf("got %d tokens, want %d: %v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("token %d: got %s, want %s", i, got[i], want[i])
		}
	}
}

func TestNextToken_Keywords(t *testing.T) {
	l := New("true false null in foo")
	types := []TokenType{TRUE, FALSE, NULL, IN, IDENT, EOF}
	for i, want := range types {
		tok := l.NextToken()
		if tok.Type != want {
			t.Errorf("token %d: got %s, want %s", i, tok.Type, want)
		}
	}
}

func TestNextToken_ReservedIdentsLexAsIdent(t *testing.T) {
	for _, word := range []string{"if", "else", "for", "let", "var", "function"} {
		l := New(word)
		tok := l.NextToken()
		if tok.Type != IDENT {
			t.Errorf("%q: got %s, want IDENT", word, tok.Type)
		}
		if !ReservedIdentifiers[word] {
			t.Errorf("%q missing from ReservedIdentifiers", word)
		}
	}
}

func TestNextToken_Numbers(t *testing.T) {
	tests := []struct {
		src  string
		typ  TokenType
		lit  string
	}{
		{"123", INT, "123"},
		{"0x1F", INT, "0x1F"},
		{"123u", UINT, "123u"},
		{"0x1Fu", UINT, "0x1Fu"},
		{"1.5", DOUBLE, "1.5"},
		{"1e10", DOUBLE, "1e10"},
		{"1.5e-3", DOUBLE, "1.5e-3"},
		{"6.02214076e23", DOUBLE, "6.02214076e23"},
	}
	for _, tt := range tests {
		l := New(tt.src)
		tok := l.NextToken()
		if tok.Type != tt.typ {
			t.Errorf("%q: got type %s, want %s", tt.src, tok.Type, tt.typ)
		}
		if tok.Literal != tt.lit {
			t.Errorf("%q: got literal %q, want %q", tt.src, tok.Literal, tt.lit)
		}
	}
}

func TestNextToken_Strings(t *testing.T) {
	tests := []struct {
		src     string
		value   string
		isBytes bool
	}{
		{`"hello"`, "hello", false},
		{`'hello'`, "hello", false},
		{`"a\nb"`, "a\nb", false},
		{`"\x41"`, "A", false},
		{`"A"`, "A", false},
		{`b"abc"`, "abc", true},
		{`r"a\nb"`, `a\nb`, false},
		{`"""triple
quoted"""`, "triple\nquoted", false},
	}
	for _, tt := range tests {
		l := New(tt.src)
		tok := l.NextToken()
		if tok.Type != STRING {
			t.Fatalf("%q: got type %s, want STRING", tt.src, tok.Type)
		}
		if tok.Literal != tt.value {
			t.Errorf("%q: got value %q, want %q", tt.src, tok.Literal, tt.value)
		}
		if tok.IsBytes != tt.isBytes {
			t.Errorf("%q: got IsBytes %v, want %v", tt.src, tok.IsBytes, tt.isBytes)
		}
	}
}

func TestNextToken_UnterminatedString(t *testing.T) {
	l := New(`"unterminated`)
	l.NextToken()
	if len(l.Errors()) == 0 {
		t.Fatal("expected a lexer error for unterminated string")
	}
}

func TestPeekAndSaveRestore(t *testing.T) {
	l := New("a + b")
	first := l.Peek(0)
	if first.Type != IDENT || first.Literal != "a" {
		t.Fatalf("Peek(0) = %+v", first)
	}
	second := l.Peek(1)
	if second.Type != PLUS {
		t.Fatalf("Peek(1) = %+v", second)
	}

	state := l.SaveState()
	tok := l.NextToken()
	if tok.Literal != "a" {
		t.Fatalf("NextToken after peek = %+v", tok)
	}
	l.RestoreState(state)
	tok2 := l.NextToken()
	if tok2.Literal != "a" {
		t.Fatalf("NextToken after restore = %+v", tok2)
	}
}

func TestSkipsLineComments(t *testing.T) {
	l := New("1 // a comment\n+ 2")
	types := []TokenType{INT, PLUS, INT, EOF}
	for i, want := range types {
		tok := l.NextToken()
		if tok.Type != want {
			t.Errorf("token %d: got %s, want %s", i, tok.Type, want)
		}
	}
}

func TestPositionTracking(t *testing.T) {
	l := New("a\nbb c")
	tok := l.NextToken() // a
	if tok.Pos.Line != 1 || tok.Pos.Column != 1 {
		t.Errorf("got pos %+v, want line 1 col 1", tok.Pos)
	}
	tok = l.NextToken() // bb
	if tok.Pos.Line != 2 || tok.Pos.Column != 1 {
		t.Errorf("got pos %+v, want line 2 col 1", tok.Pos)
	}
	tok = l.NextToken() // c
	if tok.Pos.Line != 2 || tok.Pos.Column != 4 {
		t.Errorf("got pos %+v, want line 2 col 4", tok.Pos)
	}
}

func TestBOMStripped(t *testing.T) {
	src := "\xEF\xBB\xBF1 + 2"
	l := New(src)
	tok := l.NextToken()
	if tok.Type != INT || tok.Literal != "1" {
		t.Fatalf("got %+v", tok)
	}
}
