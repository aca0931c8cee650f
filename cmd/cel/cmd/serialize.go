package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var serializeCmd = &cobra.Command{
	Use:   "serialize <expression>",
	Short: "Parse, check, and re-render an expression as canonical source",
	Long: `serialize parses and type-checks an expression, then renders its AST
back into CEL source through the same serializer env.Serialize uses.

It exists to exercise and demonstrate the parse(serialize(parse(s))) ≡
parse(s) round-trip property: whitespace is normalized and only the
parentheses the grammar actually requires are kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runSerialize,
}

func init() {
	rootCmd.AddCommand(serializeCmd)
}

func runSerialize(cmd *cobra.Command, args []string) error {
	env, err := buildEnvironment(cmd)
	if err != nil {
		return fmt.Errorf("building environment: %w", err)
	}

	p, err := env.Parse(args[0])
	if err != nil {
		return err
	}
	fmt.Println(env.Serialize(p))
	return nil
}
