package main

import (
	"fmt"
	"os"

	"github.com/dekarrin/rezi"

	"github.com/go-cflr/cflr"
	"github.com/go-cflr/cflr/grammar"
)

// artifact is the binary-serializable projection of a built Generator:
// enough of the action table and symbol names to drive a parse without
// re-running the generator (§6.2's ActionTable output, persisted).
// rezi's reflective binary codec (used the same way the teacher's own
// storage layer serializes game state) avoids hand-rolling a wire format
// for what is, structurally, just nested maps of small integers.
type artifact struct {
	StateCount int
	Initial    int
	Rows       []artifactRow
	Names      map[uint16]string
}

type artifactRow struct {
	State   int
	Symbols []uint16
	Kinds   []int
	Targets []int
	ProdLHS []uint16
	ProdRHS [][]uint16
}

func toArtifact(gen *cflr.Generator) *artifact {
	a := &artifact{
		StateCount: gen.Table.StateCount,
		Initial:    gen.Table.Initial,
		Names:      map[uint16]string{},
	}
	for sym, text := range namesOf(gen) {
		a.Names[uint16(sym)] = text
	}
	for state := 0; state < gen.Table.StateCount; state++ {
		row := artifactRow{State: state}
		for _, sym := range allSymbols(gen) {
			act, ok := gen.Table.Lookup(state, sym)
			if !ok {
				continue
			}
			row.Symbols = append(row.Symbols, uint16(sym))
			row.Kinds = append(row.Kinds, int(act.Kind))
			row.Targets = append(row.Targets, act.State)
			if act.Prod != nil {
				row.ProdLHS = append(row.ProdLHS, uint16(act.Prod.LHS()))
				rhs := make([]uint16, 0, act.Prod.Arity())
				for _, s := range act.Prod.RHS() {
					rhs = append(rhs, uint16(s))
				}
				row.ProdRHS = append(row.ProdRHS, rhs)
			} else {
				row.ProdLHS = append(row.ProdLHS, 0)
				row.ProdRHS = append(row.ProdRHS, nil)
			}
		}
		a.Rows = append(a.Rows, row)
	}
	return a
}

func namesOf(gen *cflr.Generator) map[grammar.Symbol]string {
	names := map[grammar.Symbol]string{}
	for _, sym := range gen.Rules.Nonterminals() {
		if text, ok := gen.Rules.Text(sym); ok {
			names[sym] = text
		}
	}
	for _, sym := range gen.Rules.Terminals() {
		if text, ok := gen.Rules.Text(sym); ok {
			names[sym] = text
		}
	}
	return names
}

func allSymbols(gen *cflr.Generator) []grammar.Symbol {
	syms := append([]grammar.Symbol{}, gen.Rules.Nonterminals()...)
	syms = append(syms, gen.Rules.Terminals()...)
	return syms
}

// writeArtifact serializes gen's table via rezi's binary encoding and
// writes it to path, or to stdout when path is empty.
func writeArtifact(gen *cflr.Generator, path string) error {
	data := rezi.EncBinary(toArtifact(gen))

	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// readArtifact loads a previously compiled table back from disk.
func readArtifact(path string) (*artifact, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot open compiled table %s: %w", path, err)
	}
	var a artifact
	if _, err := rezi.DecBinary(data, &a); err != nil {
		return nil, fmt.Errorf("cannot decode compiled table %s: %w", path, err)
	}
	return &a, nil
}

// toActionTable reconstructs a grammar.ActionTable from a persisted
// artifact, for describe output. It does not reconstruct a usable
// grammar.RuleSet (productions can't be recovered 1:1 from the flattened
// rows), only a symbol-name lookup good enough for printing. Reduce
// actions come back with Prod left nil: the flattened (lhs, rhs) pair for
// a reduce cell lives in the artifact's rows, not in a reconstructed
// *grammar.Production (Production has no exported constructor, and
// reduceInfoFromArtifact reads the same rows directly for display).
func toActionTable(a *artifact) (*grammar.ActionTable, map[grammar.Symbol]string) {
	table := &grammar.ActionTable{
		StateCount: a.StateCount,
		Initial:    a.Initial,
		Action:     map[int]map[grammar.Symbol]grammar.Action{},
	}
	for _, row := range a.Rows {
		actionRow := map[grammar.Symbol]grammar.Action{}
		for i, symNum := range row.Symbols {
			act := grammar.Action{Kind: grammar.ActionKind(row.Kinds[i]), State: row.Targets[i]}
			actionRow[grammar.Symbol(symNum)] = act
		}
		table.Action[row.State] = actionRow
	}

	names := make(map[grammar.Symbol]string, len(a.Names))
	for symNum, text := range a.Names {
		names[grammar.Symbol(symNum)] = text
	}
	return table, names
}
