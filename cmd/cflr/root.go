package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/go-cflr/cflr/cflrerr"
)

var rootCmd = &cobra.Command{
	Use:   "cflr",
	Short: "Build and drive canonical LR(1) parsers from a declarative grammar",
	Long: `cflr provides three features:
- Compiles a grammar file into a portable action table.
- Parses a text stream against a table freshly built from a grammar file.
- Describes the states and conflicts of a compiled table for debugging.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		return err
	}
	return nil
}

// exitCodeFor implements §6.5's exit-code contract for every CLI
// subcommand in this package.
func exitCodeFor(err error) int {
	return cflrerr.ExitCode(err)
}
