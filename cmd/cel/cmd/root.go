package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "cel",
	Short: "A Common Expression Language evaluator",
	Long: `cel parses, type-checks, and evaluates Common Expression Language
(CEL) expressions: a small, side-effect-free expression language for
embedding user-supplied logic in Go programs (policy rules, request
filters, feature flags).

  - check    statically type the expression, print the inferred type
  - eval     parse, check and evaluate the expression against a context
  - parse    parse the expression and print its AST
  - serialize parse, check and re-render the expression as canonical source`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().Bool("strict", false, "reject unlisted variables instead of treating them as dyn")
	rootCmd.PersistentFlags().Bool("optional-types", false, "enable optional<T> and the ?./[? operators")
}
