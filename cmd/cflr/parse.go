package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/go-cflr/cflr"
)

var parseFlags = struct {
	root *string
	end  *[]string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "parse <grammar.grm> <source>",
		Short:   "Parse source text against a grammar, printing the parse forest",
		Example: `  cflr parse grammar.grm input.txt`,
		Args:    cobra.RangeArgs(0, 2),
		RunE:    runParse,
	}
	parseFlags.root = cmd.Flags().String("root", "", "root nonterminal (default \"Start\" or .cflr.toml)")
	parseFlags.end = cmd.Flags().StringSlice("end", nil, "end-lookahead terminals (default {$} or .cflr.toml)")
	rootCmd.AddCommand(cmd)
}

func runParse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	var grmPath, srcPath string
	if len(args) > 0 {
		grmPath = args[0]
	}
	if len(args) > 1 {
		srcPath = args[1]
	} else if grmPath == "" {
		return fmt.Errorf("cflr parse: source text required when reading the grammar from stdin")
	}

	rootSym := *parseFlags.root
	if rootSym == "" {
		rootSym = cfg.Root
	}
	end := *parseFlags.end
	if len(end) == 0 {
		end = cfg.EndLookahead
	}

	grammarText, err := readGrammarSource(grmPath)
	if err != nil {
		return err
	}
	gen, err := cflr.Build(grammarText, rootSym, end)
	if err != nil {
		return err
	}

	src, err := readGrammarSource(srcPath)
	if err != nil {
		return err
	}

	root, err := gen.ParseString(src)
	if err != nil {
		runID := uuid.New()
		fmt.Fprintf(os.Stderr, "cflr parse [%s]: %v\n", runID, err)
		return err
	}

	fmt.Println(root.String())
	return nil
}
