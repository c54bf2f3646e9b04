package main

import (
	"fmt"
	"sort"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/go-cflr/cflr"
	"github.com/go-cflr/cflr/grammar"
)

var describeFlags = struct {
	root  *string
	end   *[]string
	table *string
}{}

func init() {
	cmd := &cobra.Command{
		Use:     "describe <grammar.grm>",
		Short:   "Print the states, transitions and conflicts of a compiled table",
		Example: `  cflr describe grammar.grm`,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runDescribe,
	}
	describeFlags.root = cmd.Flags().String("root", "", "root nonterminal (default \"Start\" or .cflr.toml)")
	describeFlags.end = cmd.Flags().StringSlice("end", nil, "end-lookahead terminals (default {$} or .cflr.toml)")
	describeFlags.table = cmd.Flags().String("table", "", "describe a previously compiled .cflrtab instead of a grammar file")
	rootCmd.AddCommand(cmd)
}

func runDescribe(cmd *cobra.Command, args []string) error {
	var table *grammar.ActionTable
	var names map[grammar.Symbol]string

	var reduceInfo map[int]map[grammar.Symbol]reduceLabel

	if *describeFlags.table != "" {
		a, err := readArtifact(*describeFlags.table)
		if err != nil {
			return err
		}
		table, names = toActionTable(a)
		reduceInfo = reduceInfoFromArtifact(a)
	} else {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		root := *describeFlags.root
		if root == "" {
			root = cfg.Root
		}
		end := *describeFlags.end
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
		gen, err := cflr.Build(text, root, end)
		if err != nil {
			return err
		}
		table = gen.Table
		names = map[grammar.Symbol]string{}
		for sym, text := range namesOf(gen) {
			names[sym] = text
		}
		reduceInfo = reduceInfoFromTable(table)
	}

	printTableDescription(table, names, reduceInfo)
	return nil
}

// reduceLabel is the display-only shape of a reduce action's production:
// just enough (lhs name, rhs length) to render "reduce X (arity N)"
// without needing a live *grammar.Production, which a reloaded artifact
// can't reconstruct (productions aren't persisted 1:1, see artifact.go).
type reduceLabel struct {
	LHS   grammar.Symbol
	Arity int
}

func reduceInfoFromTable(table *grammar.ActionTable) map[int]map[grammar.Symbol]reduceLabel {
	info := make(map[int]map[grammar.Symbol]reduceLabel, table.StateCount)
	for state, row := range table.Action {
		for sym, act := range row {
			if act.Kind != grammar.ActionReduce {
				continue
			}
			if info[state] == nil {
				info[state] = map[grammar.Symbol]reduceLabel{}
			}
			info[state][sym] = reduceLabel{LHS: act.Prod.LHS(), Arity: act.Prod.Arity()}
		}
	}
	return info
}

func reduceInfoFromArtifact(a *artifact) map[int]map[grammar.Symbol]reduceLabel {
	info := make(map[int]map[grammar.Symbol]reduceLabel, len(a.Rows))
	for _, row := range a.Rows {
		for i, symNum := range row.Symbols {
			if grammar.ActionKind(row.Kinds[i]) != grammar.ActionReduce {
				continue
			}
			if info[row.State] == nil {
				info[row.State] = map[grammar.Symbol]reduceLabel{}
			}
			info[row.State][grammar.Symbol(symNum)] = reduceLabel{
				LHS:   grammar.Symbol(row.ProdLHS[i]),
				Arity: len(row.ProdRHS[i]),
			}
		}
	}
	return info
}

func symbolLabel(names map[grammar.Symbol]string, sym grammar.Symbol) string {
	if name, ok := names[sym]; ok {
		return name
	}
	return sym.String()
}

func actionLabel(act grammar.Action, label reduceLabel, hasLabel bool, names map[grammar.Symbol]string) string {
	switch act.Kind {
	case grammar.ActionShift:
		return fmt.Sprintf("shift %d", act.State)
	case grammar.ActionReduce:
		if !hasLabel {
			return "reduce (unknown production)"
		}
		return fmt.Sprintf("reduce %s (arity %d)", symbolLabel(names, label.LHS), label.Arity)
	case grammar.ActionAccept:
		return "accept"
	default:
		return "error"
	}
}

// printTableDescription renders a state-by-state summary using pterm's
// section headers and bullet lists, the idiom the example repos reach
// for instead of a hand-rolled plain-text table dumper (grounded on
// trepl's pterm.Info/pterm.DefaultSection usage). reduceInfo supplies the
// (lhs, arity) pair for every reduce action, since a table loaded back
// from a .cflrtab artifact carries no live *grammar.Production to read it
// from directly.
func printTableDescription(table *grammar.ActionTable, names map[grammar.Symbol]string, reduceInfo map[int]map[grammar.Symbol]reduceLabel) {
	pterm.DefaultSection.Println("action table")
	pterm.Info.Printfln("%d states, initial state %d", table.StateCount, table.Initial)

	for state := 0; state < table.StateCount; state++ {
		row, ok := table.Action[state]
		if !ok {
			continue
		}

		syms := make([]grammar.Symbol, 0, len(row))
		for sym := range row {
			syms = append(syms, sym)
		}
		sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })

		var entries []pterm.BulletListItem
		for _, sym := range syms {
			label, hasLabel := reduceInfo[state][sym]
			entries = append(entries, pterm.BulletListItem{
				Level: 0,
				Text:  fmt.Sprintf("%s -> %s", symbolLabel(names, sym), actionLabel(row[sym], label, hasLabel, names)),
			})
		}

		pterm.DefaultSection.WithLevel(2).Println(fmt.Sprintf("state %d", state))
		pterm.DefaultBulletList.WithItems(entries).Render()
	}
}
