// Package cflr is the harness glue of component G: it connects the
// grammar loader, the canonical LR(1) generator, the tokenizer, and the
// driver into the two entry points external callers actually use —
// build a parser from grammar text, then run it over source text.
package cflr

import (
	"fmt"

	"github.com/go-cflr/cflr/driver"
	"github.com/go-cflr/cflr/grammar"
	"github.com/go-cflr/cflr/loader"
	"github.com/go-cflr/cflr/token"
)

// DefaultRoot and DefaultEndLookahead match §6.2's build() defaults:
// root="Start", end_lookahead={"$"}.
const DefaultRoot = "Start"

var DefaultEndLookahead = []string{"$"}

// Generator holds everything produced once at build time and reused
// read-only across parses (§3 "Lifecycle"): the compiled action table,
// the rule set (for symbol name lookups), and the declared token
// classes.
type Generator struct {
	Rules   *grammar.RuleSet
	Table   *grammar.ActionTable
	Classes []token.Class
	names   map[grammar.Symbol]string
}

// Build implements §6.2: build(grammar_text, root, end_lookahead) →
// (ActionTable, TokenClasses). Errors are one of
// *grammar.UndefinedSymbolError, grammar.ConflictErrors, or a
// *loader.FormatError surfaced from parsing the grammar text itself.
// Build does not check the token classes for overlapping first-character
// sets: a *token.AmbiguityError is reported only by ParseString, when an
// ambiguous character is actually read.
func Build(grammarText string, root string, endLookahead []string) (*Generator, error) {
	if root == "" {
		root = DefaultRoot
	}
	if endLookahead == nil {
		endLookahead = DefaultEndLookahead
	}

	res, err := loader.Load(grammarText)
	if err != nil {
		return nil, err
	}

	table, err := grammar.Build(res.Rules, root, endLookahead)
	if err != nil {
		return nil, err
	}

	names := map[grammar.Symbol]string{}
	for _, sym := range res.Rules.Nonterminals() {
		if text, ok := res.Rules.Text(sym); ok {
			names[sym] = text
		}
	}
	for _, sym := range res.Rules.Terminals() {
		if text, ok := res.Rules.Text(sym); ok {
			names[sym] = text
		}
	}

	return &Generator{
		Rules:   res.Rules,
		Table:   table,
		Classes: allClasses(res),
		names:   names,
	}, nil
}

// whitespaceCharset matches Python's string.whitespace, the charset
// general_tokenizer.py's make_nulling_state folds into an unconditional
// whitespace-absorbing state whenever a grammar doesn't declare its own.
const whitespaceCharset = " \t\n\r\v\f"

// allClasses adds single-character literal classes for every unnamed
// terminal the loader found on some rhs, so the tokenizer has a class for
// every terminal the grammar actually uses, not just the named ones
// (§4.A "Symbols appearing on rhs that are neither nonterminals nor named
// tokens are treated as single-character literal tokens"). It also adds a
// nulling whitespace class (§4.E) unless the grammar already declares its
// own Skip class, mirroring general_tokenizer.py's
// states_from_grammar(..., include_whitespace=True) always appending one.
func allClasses(res *loader.Result) []token.Class {
	classes := make([]token.Class, 0, len(res.NamedClasses)+len(res.UnnamedLiterals)+1)
	classes = append(classes, res.NamedClasses...)
	for _, lit := range res.UnnamedLiterals {
		classes = append(classes, token.Class{
			Name:             lit,
			CharsetFirst:     lit,
			CharsetRemainder: "",
		})
	}

	hasSkip := false
	for _, c := range classes {
		if c.Skip {
			hasSkip = true
			break
		}
	}
	if !hasSkip {
		classes = append(classes, token.Class{
			Name:             "$ws",
			CharsetFirst:     whitespaceCharset,
			CharsetRemainder: whitespaceCharset,
			Skip:             true,
		})
	}
	return classes
}

// Session pairs a Generator with a tokenizer over one source text. It has
// no parse method of its own; ParseString runs a complete parse, building
// a fresh driver.Parser (with its own stacks, §3 "Lifecycle") on every
// call, while the Generator and its table stay read-only.
type Session struct {
	gen    *Generator
	tokens *token.Tokenizer
}

// NewSession starts a parse of src against gen's compiled table.
func (g *Generator) NewSession(src string) *Session {
	return &Session{gen: g, tokens: token.New(src, g.Classes)}
}

// ParseString implements §6.3's parse(action_table, tokens) entry point
// end to end: tokenize src and drive it through the action table to a
// parse forest node, or fail with a *token.AmbiguityError or a
// *driver.SyntaxError.
func (g *Generator) ParseString(src string) (*driver.Node, error) {
	toks, err := token.All(token.New(src, g.Classes))
	if err != nil {
		return nil, err
	}

	driverToks := make([]driver.Token, 0, len(toks))
	for _, t := range toks {
		sym, ok := g.symbolFor(t.Class)
		if !ok {
			return nil, fmt.Errorf("cflr: token class %q has no corresponding grammar symbol", t.Class)
		}
		driverToks = append(driverToks, driver.Token{
			Symbol:   sym,
			Name:     t.Class,
			Text:     t.Text,
			Position: t.Start,
		})
	}

	p := driver.NewParser(g.Table, g.names)
	root, err := p.Parse(driverToks)
	if err != nil {
		return nil, err
	}
	return root, nil
}

func (g *Generator) symbolFor(className string) (grammar.Symbol, bool) {
	if className == token.EOFClassName {
		return grammar.SymbolEOF, true
	}
	return g.Rules.Symbol(className)
}
