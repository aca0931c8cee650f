package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/cwbudde/go-cel/internal/ast"
	"github.com/cwbudde/go-cel/internal/parser"
)

var parseDumpAST bool

var parseCmd = &cobra.Command{
	Use:   "parse <expression>",
	Short: "Parse a CEL expression and print its AST",
	Long: `parse parses an expression without type-checking it and prints the
resulting abstract syntax tree.

By default it prints the tree's String() debug rendering; use
--dump-ast for an indented, node-by-node structural dump.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)

	parseCmd.Flags().BoolVar(&parseDumpAST, "dump-ast", false, "dump the full AST structure")
}

func runParse(cmd *cobra.Command, args []string) error {
	expr, errs := parser.Parse(args[0])
	if len(errs) != 0 {
		var sb strings.Builder
		for i, e := range errs {
			if i > 0 {
				sb.WriteString("\n")
			}
			sb.WriteString(e.Error())
		}
		return fmt.Errorf("%s", sb.String())
	}

	if parseDumpAST {
		dumpASTNode(expr, 0)
	} else {
		fmt.Println(expr.String())
	}
	return nil
}

func dumpASTNode(node ast.Expression, indent int) {
	pad := strings.Repeat("  ", indent)

	switch n := node.(type) {
	case *ast.NullLiteral:
		fmt.Printf("%sNullLiteral\n", pad)
	case *ast.BoolLiteral:
		fmt.Printf("%sBoolLiteral: %v\n", pad, n.Value)
	case *ast.IntLiteral:
		fmt.Printf("%sIntLiteral: %d\n", pad, n.Value)
	case *ast.UintLiteral:
		fmt.Printf("%sUintLiteral: %d\n", pad, n.Value)
	case *ast.DoubleLiteral:
		fmt.Printf("%sDoubleLiteral: %g\n", pad, n.Value)
	case *ast.StringLiteral:
		if n.IsBytes {
			fmt.Printf("%sBytesLiteral: %q\n", pad, n.Value)
		} else {
			fmt.Printf("%sStringLiteral: %q\n", pad, n.Value)
		}
	case *ast.Identifier:
		fmt.Printf("%sIdentifier: %s\n", pad, n.Name)
	case *ast.ListLiteral:
		fmt.Printf("%sListLiteral (%d elements)\n", pad, len(n.Elements))
		for _, e := range n.Elements {
			dumpASTNode(e, indent+1)
		}
	case *ast.MapLiteral:
		fmt.Printf("%sMapLiteral (%d entries)\n", pad, len(n.Entries))
		for _, e := range n.Entries {
			fmt.Printf("%s  Key:\n", pad)
			dumpASTNode(e.Key, indent+2)
			fmt.Printf("%s  Value:\n", pad)
			dumpASTNode(e.Value, indent+2)
		}
	case *ast.UnaryExpr:
		fmt.Printf("%sUnaryExpr (%s)\n", pad, n.Operator)
		dumpASTNode(n.Operand, indent+1)
	case *ast.BinaryExpr:
		fmt.Printf("%sBinaryExpr (%s)\n", pad, n.Operator)
		fmt.Printf("%s  Left:\n", pad)
		dumpASTNode(n.Left, indent+2)
		fmt.Printf("%s  Right:\n", pad)
		dumpASTNode(n.Right, indent+2)
	case *ast.TernaryExpr:
		fmt.Printf("%sTernaryExpr\n", pad)
		fmt.Printf("%s  Condition:\n", pad)
		dumpASTNode(n.Condition, indent+2)
		fmt.Printf("%s  Then:\n", pad)
		dumpASTNode(n.Then, indent+2)
		fmt.Printf("%s  Else:\n", pad)
		dumpASTNode(n.Else, indent+2)
	case *ast.MemberExpr:
		if n.Optional {
			fmt.Printf("%sMemberExpr (?.%s)\n", pad, n.Field)
		} else {
			fmt.Printf("%sMemberExpr (.%s)\n", pad, n.Field)
		}
		dumpASTNode(n.Operand, indent+1)
	case *ast.IndexExpr:
		if n.Optional {
			fmt.Printf("%sIndexExpr ([?])\n", pad)
		} else {
			fmt.Printf("%sIndexExpr ([])\n", pad)
		}
		fmt.Printf("%s  Operand:\n", pad)
		dumpASTNode(n.Operand, indent+2)
		fmt.Printf("%s  Index:\n", pad)
		dumpASTNode(n.Index, indent+2)
	case *ast.CallExpr:
		if n.Macro != "" {
			fmt.Printf("%sCallExpr macro=%s %s(%d args)\n", pad, n.Macro, n.Function, len(n.Args))
		} else {
			fmt.Printf("%sCallExpr %s (%d args)\n", pad, n.Function, len(n.Args))
		}
		if n.Receiver != nil {
			fmt.Printf("%s  Receiver:\n", pad)
			dumpASTNode(n.Receiver, indent+2)
		}
		for _, a := range n.Args {
			dumpASTNode(a, indent+1)
		}
	default:
		fmt.Printf("%s%T: %s\n", pad, node, node.String())
	}
}
