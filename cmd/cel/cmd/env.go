package cmd

import (
	"github.com/spf13/cobra"

	"github.com/cwbudde/go-cel/cel"
)

// buildEnvironment constructs the Environment every subcommand evaluates
// against, from the --strict/--optional-types persistent flags. The CLI
// defaults to UnlistedVariablesAreDyn(true) (--strict turns it off)
// since a command-line caller rarely wants to pre-declare every variable
// a one-off expression touches.
func buildEnvironment(cmd *cobra.Command) (*cel.Environment, error) {
	strict, _ := cmd.Flags().GetBool("strict")
	optionalTypes, _ := cmd.Flags().GetBool("optional-types")

	opts := []cel.EnvOption{cel.UnlistedVariablesAreDyn(!strict)}
	if optionalTypes {
		opts = append(opts, cel.EnableOptionalTypes())
	}
	return cel.NewEnvironment(opts...)
}
