package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check <expression>",
	Short: "Parse and type-check a CEL expression",
	Long: `check parses an expression and runs static type inference over it,
without evaluating it. On success it prints the inferred result type;
on failure it reports the parse or type error and exits non-zero.`,
	Args: cobra.ExactArgs(1),
	RunE: runCheck,
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	env, err := buildEnvironment(cmd)
	if err != nil {
		return fmt.Errorf("building environment: %w", err)
	}

	t, err := env.Check(args[0])
	if err != nil {
		return err
	}
	fmt.Println(t)
	return nil
}
