package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"
	"github.com/tidwall/sjson"
)

var (
	evalContextFile string
	evalSetValues   []string
	evalFormat      string
)

var evalCmd = &cobra.Command{
	Use:   "eval <expression>",
	Short: "Parse, check, and evaluate a CEL expression",
	Long: `eval parses and type-checks an expression, then evaluates it against
a context of bound variables.

The context is a JSON object: each top-level field becomes a variable
the expression can reference. Use --context to load it from a file (or
"-" for stdin), and --set to patch individual fields on top of it.

Examples:
  cel eval '1 + 2 * 3'
  cel eval 'user.roles.exists(r, r == "admin")' --context user.json
  cel eval 'age >= 18' --set age=21
  cel eval 'user.name' --context user.json --set user.name=Ada --format json`,
	Args: cobra.ExactArgs(1),
	RunE: runEval,
}

func init() {
	rootCmd.AddCommand(evalCmd)

	evalCmd.Flags().StringVarP(&evalContextFile, "context", "c", "", "JSON file to load the evaluation context from (\"-\" for stdin)")
	evalCmd.Flags().StringArrayVar(&evalSetValues, "set", nil, "patch a context field, as path=value (repeatable)")
	evalCmd.Flags().StringVar(&evalFormat, "format", "text", "output format: text or json")
}

func runEval(cmd *cobra.Command, args []string) error {
	vars, err := loadContext(evalContextFile, evalSetValues)
	if err != nil {
		return err
	}

	env, err := buildEnvironment(cmd)
	if err != nil {
		return fmt.Errorf("building environment: %w", err)
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	if verbose {
		fmt.Fprintf(os.Stderr, "context: %d variable(s)\n", len(vars))
	}

	result, err := env.Evaluate(args[0], vars)
	if err != nil {
		return err
	}

	return printResult(result)
}

// loadContext builds the variable map eval evaluates against: the
// JSON object loaded from contextFile (if any), with each "path=value"
// of setValues patched on top via sjson before the whole thing is
// parsed back into native Go values with gjson.
func loadContext(contextFile string, setValues []string) (map[string]any, error) {
	raw := "{}"

	if contextFile != "" {
		data, err := readContextFile(contextFile)
		if err != nil {
			return nil, err
		}
		raw = string(data)
	}

	for _, kv := range setValues {
		path, value, ok := strings.Cut(kv, "=")
		if !ok {
			return nil, fmt.Errorf("invalid --set value %q, expected path=value", kv)
		}

		// A value that already parses as JSON (42, true, null, "quoted",
		// [1,2]) is patched verbatim; anything else is treated as a bare
		// string, the way Helm's --set does.
		var patched string
		var err error
		if gjson.Valid(value) {
			patched, err = sjson.SetRaw(raw, path, value)
		} else {
			patched, err = sjson.Set(raw, path, value)
		}
		if err != nil {
			return nil, fmt.Errorf("--set %q: %w", kv, err)
		}
		raw = patched
	}

	parsed := gjson.Parse(raw)
	if !parsed.IsObject() {
		return nil, fmt.Errorf("context must be a JSON object, got %s", parsed.Type)
	}

	m, _ := parsed.Value().(map[string]any)
	return normalizeNumbers(m).(map[string]any), nil
}

// normalizeNumbers rewrites every whole-valued float64 gjson.Value()
// produces (JSON has no separate integer literal) back into an int64,
// so a context field like {"age": 21} binds as CEL's int rather than
// double. Fractional values are left as float64/double.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case float64:
		if i := int64(t); float64(i) == t {
			return i
		}
		return t
	case map[string]any:
		for k, e := range t {
			t[k] = normalizeNumbers(e)
		}
		return t
	case []any:
		for i, e := range t {
			t[i] = normalizeNumbers(e)
		}
		return t
	default:
		return v
	}
}

func readContextFile(path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(os.Stdin)
	}
	return os.ReadFile(path)
}

func printResult(result any) error {
	switch evalFormat {
	case "text":
		fmt.Println(formatText(result))
		return nil
	case "json":
		data, err := json.Marshal(result)
		if err != nil {
			return fmt.Errorf("encoding result as JSON: %w", err)
		}
		os.Stdout.Write(pretty.Pretty(data))
		return nil
	default:
		return fmt.Errorf("unknown --format %q, want text or json", evalFormat)
	}
}

func formatText(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return "null"
	default:
		return fmt.Sprintf("%v", t)
	}
}
