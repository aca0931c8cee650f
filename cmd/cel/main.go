// Command cel is a command-line front end for the go-cel Environment:
// parse, type-check, serialize, and evaluate CEL expressions without
// writing any Go code.
package main

import (
	"os"

	"github.com/cwbudde/go-cel/cmd/cel/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
