package errutil

import (
	"strings"
	"testing"

	"github.com/cwbudde/go-cel/internal/lexer"
)

func TestFormatPointsCaretAtColumn(t *testing.T) {
	b := Base{Message: "unexpected token", Source: "1 + @", Pos: lexer.Position{Line: 1, Column: 5, Offset: 4}}
	out := b.Format(false)
	lines := strings.Split(out, "\n")
	if len(lines) < 3 {
		t.Fatalf("expected at least 3 lines, got %d: %q", len(lines), out)
	}
	caretLine := lines[2]
	if !strings.HasSuffix(caretLine, "^") {
		t.Errorf("caret line %q does not end in ^", caretLine)
	}
}

func TestFormatNoSourceFallsBackToMessage(t *testing.T) {
	b := Base{Message: "boom", Pos: lexer.Position{Line: 1, Column: 1}}
	out := b.Format(false)
	if !strings.Contains(out, "boom") {
		t.Errorf("expected message in output, got %q", out)
	}
}

func TestFormatAllSingle(t *testing.T) {
	errs := []Base{{Message: "only one", Pos: lexer.Position{Line: 1, Column: 1}}}
	out := FormatAll(errs, false)
	if strings.Contains(out, "errors:") {
		t.Errorf("single error should not show a banner: %q", out)
	}
}

func TestFormatAllMultiple(t *testing.T) {
	errs := []Base{
		{Message: "first", Pos: lexer.Position{Line: 1, Column: 1}},
		{Message: "second", Pos: lexer.Position{Line: 2, Column: 1}},
	}
	out := FormatAll(errs, false)
	if !strings.Contains(out, "2 errors:") {
		t.Errorf("expected banner for multiple errors, got %q", out)
	}
	if !strings.Contains(out, "first") || !strings.Contains(out, "second") {
		t.Errorf("expected both messages present: %q", out)
	}
}
