// Package driver implements component F (§4.F): a shift/reduce stack
// machine that consumes a finite token stream, consults a compiled
// grammar.ActionTable, and assembles a parse forest.
package driver

import (
	"fmt"
	"strings"

	"github.com/go-cflr/cflr/grammar"
)

// Node is a parse forest node (§3, §6.4). A terminal leaf has Label ==
// "" and Text set to the token's text; a nonterminal node has Label ==
// ":"+lhs and Children set, Text unused. A leaf keeps only the token's
// text, not its type, so the forest shape is text for a terminal and
// "(\":\"+lhs, child…)" for a nonterminal.
type Node struct {
	Label    string
	Text     string
	Children []*Node
}

func (n *Node) IsTerminal() bool { return n.Label == "" }

// String renders a node as an s-expression, handy for tests and the
// parse/repl CLI surfaces.
func (n *Node) String() string {
	if n.IsTerminal() {
		return n.Text
	}
	parts := make([]string, 0, len(n.Children)+1)
	parts = append(parts, n.Label)
	for _, c := range n.Children {
		parts = append(parts, c.String())
	}
	return "(" + strings.Join(parts, " ") + ")"
}

// SyntaxError reports the driver's one failure mode (§6.3, §7): an
// unrecognized symbol in a given state at a given position. The stacks
// are left exactly as they stood at failure, per §7, so Dump can describe
// them.
type SyntaxError struct {
	State    int
	Symbol   string
	Position fmt.Stringer
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("syntax error: unexpected %q in state %d at %v", e.Symbol, e.State, e.Position)
}

// Token is the minimal shape the driver needs from a lexeme: its grammar
// symbol, its text, and a position for error reporting (§6.3's
// (symbol, text) pairs, terminated by ("$", "")).
type Token struct {
	Symbol   grammar.Symbol
	Name     string
	Text     string
	Position fmt.Stringer
}

// Parser holds the two stacks and the current state (§4.F). It is built
// fresh per parse; once it fails or accepts it is not reused.
type Parser struct {
	table *grammar.ActionTable
	names map[grammar.Symbol]string

	stateStack  []int
	forestStack []*Node
	top         int

	accepted []*Node
	failed   *SyntaxError
}

// NewParser wires a compiled table to the symbol-name lookup a caller
// uses to label forest nodes (the rule set's own Text method works here).
func NewParser(table *grammar.ActionTable, names map[grammar.Symbol]string) *Parser {
	return &Parser{
		table: table,
		names: names,
		top:   table.Initial,
	}
}

func (p *Parser) push(state int, node *Node) {
	p.stateStack = append(p.stateStack, p.top)
	p.forestStack = append(p.forestStack, node)
	p.top = state
}

// pop removes the top n frames of both stacks (§4.F "pop arity state IDs
// ... the last popped becomes the new top-before-goto") and returns their
// forest nodes in original left-to-right order. For n == 0 the current
// top state is left untouched, matching an empty-rhs reduction.
func (p *Parser) pop(n int) []*Node {
	nodes := make([]*Node, n)
	copy(nodes, p.forestStack[len(p.forestStack)-n:])

	if n > 0 {
		p.top = p.stateStack[len(p.stateStack)-n]
	}
	p.stateStack = p.stateStack[:len(p.stateStack)-n]
	p.forestStack = p.forestStack[:len(p.forestStack)-n]
	return nodes
}

// Parse drives tokens to completion per §6.3: parse(action_table, tokens)
// → forest_node. tokens must end with a Symbol for "$". Reductions never
// consume a token (§4.F); the loop advances to the next token only after
// a shift or accept.
func (p *Parser) Parse(tokens []Token) (*Node, error) {
	i := 0
	for {
		if i >= len(tokens) {
			return nil, fmt.Errorf("driver: token stream ended without a %v terminator", grammar.SymbolEOF)
		}
		tok := tokens[i]

		act, ok := p.table.Lookup(p.top, tok.Symbol)
		if !ok || act.Kind == grammar.ActionError {
			p.failed = &SyntaxError{State: p.top, Symbol: tok.Name, Position: tok.Position}
			return nil, p.failed
		}

		switch act.Kind {
		case grammar.ActionShift:
			p.push(act.State, &Node{Text: tok.Text})
			i++

		case grammar.ActionReduce:
			prod := act.Prod
			arity := prod.Arity()
			children := p.pop(arity)
			label := ":" + p.symbolName(prod.LHS())
			node := &Node{Label: label, Children: children}

			gotoAct, ok := p.table.Lookup(p.top, prod.LHS())
			if !ok || gotoAct.Kind != grammar.ActionShift {
				return nil, fmt.Errorf("driver: missing goto for %v in state %d", prod.LHS(), p.top)
			}
			p.push(gotoAct.State, node)

		case grammar.ActionAccept:
			if len(p.forestStack) != 1 {
				return nil, fmt.Errorf("driver: accept reached with %d forest nodes on the stack, want 1", len(p.forestStack))
			}
			root := p.forestStack[0]
			p.accepted = append(p.accepted, root)
			return root, nil

		default:
			return nil, fmt.Errorf("driver: unknown action kind %v", act.Kind)
		}
	}
}

func (p *Parser) symbolName(sym grammar.Symbol) string {
	if name, ok := p.names[sym]; ok {
		return name
	}
	return sym.String()
}

// Dump describes the parser's stacks as they stood at failure, the
// "supplemented feature" grounded on manual_tables.py's State object
// exposing `stack`/`forest` for post-mortem inspection.
func (p *Parser) Dump() string {
	var b strings.Builder
	fmt.Fprintf(&b, "top state: %d\n", p.top)
	fmt.Fprintf(&b, "state stack: %v\n", p.stateStack)
	fmt.Fprint(&b, "forest stack:\n")
	for _, n := range p.forestStack {
		fmt.Fprintf(&b, "  %s\n", n.String())
	}
	if p.failed != nil {
		fmt.Fprintf(&b, "failure: %v\n", p.failed)
	}
	return b.String()
}
