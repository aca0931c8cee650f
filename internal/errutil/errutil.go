// Package errutil provides the shared caret-pointing error formatter
// used by internal/parser.ParseError, internal/checker.TypeError, and
// internal/interpreter.EvaluationError, grounded on
// CWBudde-go-dws/internal/errors.CompilerError.Format.
package errutil

import (
	"fmt"
	"strings"

	"golang.org/x/text/width"

	"github.com/cwbudde/go-cel/internal/lexer"
)

// Base is embedded by each concrete error type to share position,
// source, and formatting behavior. It does not itself implement error;
// each concrete type wraps Base with a Kind-specific Error() string.
type Base struct {
	Message string
	Source  string
	Pos     lexer.Position
}

// Format renders a one-line source excerpt with a caret under the
// offending column. When color is true, ANSI codes highlight the caret
// and message, matching CompilerError.Format's color-flag behavior.
func (b Base) Format(color bool) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "line %d, column %d: %s\n", b.Pos.Line, b.Pos.Column, b.Message)

	line := sourceLine(b.Source, b.Pos.Line)
	if line == "" {
		return strings.TrimRight(sb.String(), "\n")
	}

	prefix := fmt.Sprintf("%4d | ", b.Pos.Line)
	sb.WriteString(prefix)
	sb.WriteString(line)
	sb.WriteString("\n")

	sb.WriteString(strings.Repeat(" ", len(prefix)+caretOffset(line, b.Pos.Column)))
	if color {
		sb.WriteString("\033[1;31m")
	}
	sb.WriteString("^")
	if color {
		sb.WriteString("\033[0m")
	}

	return sb.String()
}

// caretOffset computes the number of display columns preceding the
// 1-based rune column on line, widening for East-Asian wide/fullwidth
// runes so the caret lines up visually in a terminal. This is the one
// place this port diverges from the teacher's rune-count-only column
// policy (see DESIGN.md).
func caretOffset(line string, column int) int {
	offset := 0
	col := 1
	for _, r := range line {
		if col >= column {
			break
		}
		switch width.LookupRune(r).Kind() {
		case width.EastAsianWide, width.EastAsianFullwidth:
			offset += 2
		default:
			offset++
		}
		col++
	}
	return offset
}

func sourceLine(source string, lineNum int) string {
	if source == "" || lineNum < 1 {
		return ""
	}
	lines := strings.Split(source, "\n")
	if lineNum > len(lines) {
		return ""
	}
	return lines[lineNum-1]
}

// FormatAll renders multiple errors with a "N of M" banner, matching
// CompilerError's FormatErrors helper.
func FormatAll[E interface{ Format(bool) string }](errs []E, color bool) string {
	if len(errs) == 0 {
		return ""
	}
	if len(errs) == 1 {
		return errs[0].Format(color)
	}
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d errors:\n\n", len(errs))
	for i, e := range errs {
		fmt.Fprintf(&sb, "[%d of %d]\n", i+1, len(errs))
		sb.WriteString(e.Format(color))
		if i < len(errs)-1 {
			sb.WriteString("\n\n")
		}
	}
	return sb.String()
}
