package main

import (
	"fmt"
	"io"

	"github.com/chzyer/readline"
	"github.com/google/uuid"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/go-cflr/cflr"
	"github.com/go-cflr/cflr/driver"
)

var replFlags = struct {
	root *string
	end  *[]string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "repl <grammar.grm>",
		Short:   "Interactively parse lines of input against a grammar",
		Example: `  cflr repl grammar.grm`,
		Args:    cobra.ExactArgs(1),
		RunE:    runRepl,
	}
	replFlags.root = cmd.Flags().String("root", "", "root nonterminal (default \"Start\" or .cflr.toml)")
	replFlags.end = cmd.Flags().StringSlice("end", nil, "end-lookahead terminals (default {$} or .cflr.toml)")
	rootCmd.AddCommand(cmd)
}

func runRepl(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	root := *replFlags.root
	if root == "" {
		root = cfg.Root
	}
	end := *replFlags.end
	if len(end) == 0 {
		end = cfg.EndLookahead
	}

	text, err := readGrammarSource(args[0])
	if err != nil {
		return err
	}
	gen, err := cflr.Build(text, root, end)
	if err != nil {
		return err
	}

	runID := uuid.New()
	pterm.Info.Printfln("cflr repl [%s]: %d states compiled from %s", runID, gen.Table.StateCount, args[0])

	rl, err := readline.New("cflr> ")
	if err != nil {
		return err
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err == readline.ErrInterrupt {
			continue
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if line == "" {
			continue
		}

		tree, err := gen.ParseString(line)
		if err != nil {
			printReplError(runID, err)
			continue
		}
		fmt.Println(tree.String())
	}
}

func printReplError(runID uuid.UUID, err error) {
	switch e := err.(type) {
	case *driver.SyntaxError:
		pterm.Error.Printfln("[%s] %v", runID, e)
	default:
		pterm.Error.Printfln("[%s] %v", runID, err)
	}
}
