package stdlib

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/cwbudde/go-cel/internal/registry"
	"github.com/cwbudde/go-cel/internal/types"
	"github.com/cwbudde/go-cel/internal/value"
)

// registerStrings wires the receiver-style string methods of spec.md
// §4.G: startsWith, endsWith, contains, matches, trim, lowerAscii,
// upperAscii, split(delim), split(delim, limit).
func registerStrings(reg *registry.Registry) error {
	strMethod := func(name string, fn func(recv string, args []value.Value) (value.Value, error), extra ...*types.Type) error {
		return reg.RegisterOverload(&registry.Overload{
			Name: name, ReceiverType: types.String, ArgTypes: extra, ResultType: resultTypeFor(name),
			Func: func(args []value.Value) (value.Value, error) {
				return fn(string(args[0].(value.StringValue)), args[1:])
			},
		})
	}

	if err := strMethod("startsWith", func(recv string, args []value.Value) (value.Value, error) {
		return value.BoolValue(strings.HasPrefix(recv, string(args[0].(value.StringValue)))), nil
	}, types.String); err != nil {
		return err
	}
	if err := strMethod("endsWith", func(recv string, args []value.Value) (value.Value, error) {
		return value.BoolValue(strings.HasSuffix(recv, string(args[0].(value.StringValue)))), nil
	}, types.String); err != nil {
		return err
	}
	if err := strMethod("contains", func(recv string, args []value.Value) (value.Value, error) {
		return value.BoolValue(strings.Contains(recv, string(args[0].(value.StringValue)))), nil
	}, types.String); err != nil {
		return err
	}
	if err := strMethod("matches", func(recv string, args []value.Value) (value.Value, error) {
		pattern := string(args[0].(value.StringValue))
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid regular expression %q: %w", pattern, err)
		}
		return value.BoolValue(re.MatchString(recv)), nil
	}, types.String); err != nil {
		return err
	}
	if err := strMethod("trim", func(recv string, args []value.Value) (value.Value, error) {
		return value.StringValue(strings.TrimSpace(recv)), nil
	}); err != nil {
		return err
	}
	if err := strMethod("lowerAscii", func(recv string, args []value.Value) (value.Value, error) {
		return value.StringValue(asciiMap(recv, toAsciiLower)), nil
	}); err != nil {
		return err
	}
	if err := strMethod("upperAscii", func(recv string, args []value.Value) (value.Value, error) {
		return value.StringValue(asciiMap(recv, toAsciiUpper)), nil
	}); err != nil {
		return err
	}
	if err := strMethod("split", func(recv string, args []value.Value) (value.Value, error) {
		return splitResult(strings.Split(recv, string(args[0].(value.StringValue)))), nil
	}, types.String); err != nil {
		return err
	}
	return strMethod("split", func(recv string, args []value.Value) (value.Value, error) {
		delim := string(args[0].(value.StringValue))
		limit := int(args[1].(value.IntValue))
		return splitResult(splitWithLimit(recv, delim, limit)), nil
	}, types.String, types.Int)
}

// resultTypeFor is a small lookup table since strMethod's registrar is
// shared across boolean predicates and string-returning methods.
func resultTypeFor(name string) *types.Type {
	switch name {
	case "trim", "lowerAscii", "upperAscii":
		return types.String
	case "split":
		return types.NewList(types.String)
	default:
		return types.Bool
	}
}

func splitResult(parts []string) *value.ListValue {
	elems := make([]value.Value, len(parts))
	for i, p := range parts {
		elems[i] = value.StringValue(p)
	}
	return value.NewList(types.String, elems)
}

// splitWithLimit implements CEL's split(delim, limit) semantics: limit 0
// returns an empty list, -1 means no cap, and N>0 yields N-1 splits
// followed by the unsplit remainder (spec.md §4.G).
func splitWithLimit(s, delim string, limit int) []string {
	switch {
	case limit == 0:
		return nil
	case limit < 0:
		return strings.Split(s, delim)
	default:
		return strings.SplitN(s, delim, limit)
	}
}

func toAsciiLower(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

func toAsciiUpper(r rune) rune {
	if r >= 'a' && r <= 'z' {
		return r - ('a' - 'A')
	}
	return r
}

// asciiMap applies fn only to runes in the ASCII range, leaving every
// other codepoint untouched — CEL's lowerAscii/upperAscii are explicitly
// not full-Unicode case folding.
func asciiMap(s string, fn func(rune) rune) string {
	runes := []rune(s)
	for i, r := range runes {
		if r < 128 {
			runes[i] = fn(r)
		}
	}
	return string(runes)
}
