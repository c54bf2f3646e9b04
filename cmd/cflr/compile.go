package main

import (
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/go-cflr/cflr"
)

var compileFlags = struct {
	root   *string
	end    *[]string
	output *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "compile",
		Short:   "Compile a grammar file into an action table",
		Example: `  cflr compile grammar.grm -o grammar.cflrtab`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runCompile,
	}
	compileFlags.root = cmd.Flags().String("root", "", "root nonterminal (default \"Start\" or .cflr.toml)")
	compileFlags.end = cmd.Flags().StringSlice("end", nil, "end-lookahead terminals (default {$} or .cflr.toml)")
	compileFlags.output = cmd.Flags().StringP("output", "o", "", "output .cflrtab path (default stdout)")
	rootCmd.AddCommand(cmd)
}

func runCompile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	root := *compileFlags.root
	if root == "" {
		root = cfg.Root
	}
	end := *compileFlags.end
	if len(end) == 0 {
		end = cfg.EndLookahead
	}

	var grmPath string
	if len(args) > 0 {
		grmPath = args[0]
	}

	text, err := readGrammarSource(grmPath)
	if err != nil {
		return err
	}

	// runID correlates this compilation's stderr diagnostics with the
	// artifact it produced, useful once several .cflrtab files for
	// different grammar revisions are floating around a build directory.
	runID := uuid.New()

	gen, err := cflr.Build(text, root, end)
	if err != nil {
		fmt.Fprintf(os.Stderr, "cflr compile [%s]: build failed\n", runID)
		return err
	}

	if err := writeArtifact(gen, *compileFlags.output); err != nil {
		return fmt.Errorf("cannot write output: %w", err)
	}

	fmt.Fprintf(os.Stderr, "cflr compile [%s]: %d states, %d productions\n", runID, gen.Table.StateCount, len(gen.Rules.Productions()))
	return nil
}

func readGrammarSource(path string) (string, error) {
	if path == "" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", err
		}
		return string(b), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("cannot open grammar file %s: %w", path, err)
	}
	return string(b), nil
}
