// Package grammar implements components B, C and D of the toolkit: the
// nullable/FIRST fixpoints, the canonical LR(1) item-set builder, and the
// action table compiler. It knows nothing about grammar-file syntax (that
// is the loader package's job) or tokenization; it consumes an already
// parsed RuleSet and produces an ActionTable.
package grammar

import "sort"

// RuleSet is the loader's output handed to this package: every production
// of the grammar, keyed by LHS, in declaration order (§3 "Rule set").
type RuleSet struct {
	symbols *symbolTable
	prods   *productionSet
}

// NewRuleSet starts an empty rule set. Nonterminals and terminals are
// interned lazily as productions are declared.
func NewRuleSet() *RuleSet {
	return &RuleSet{
		symbols: newSymbolTable(),
		prods:   newProductionSet(),
	}
}

// Nonterminal interns text as a nonterminal symbol, returning the existing
// symbol if text is already interned. No symbol is marked as a start
// symbol; the root is chosen by name when Build is called.
func (rs *RuleSet) Nonterminal(text string) (Symbol, error) {
	return rs.symbols.registerNonTerminal(text)
}

// Terminal interns text as a terminal symbol.
func (rs *RuleSet) Terminal(text string) (Symbol, error) {
	return rs.symbols.registerTerminal(text)
}

// Declare adds one production lhs → rhs to the rule set.
func (rs *RuleSet) Declare(lhs Symbol, rhs []Symbol) (*Production, error) {
	prod, err := newProduction(lhs, rhs)
	if err != nil {
		return nil, err
	}
	return rs.prods.append(prod), nil
}

// Symbol looks up an already-interned symbol by its source text.
func (rs *RuleSet) Symbol(text string) (Symbol, bool) {
	return rs.symbols.toSymbol(text)
}

// Text returns the source spelling of an interned symbol.
func (rs *RuleSet) Text(sym Symbol) (string, bool) {
	return rs.symbols.toText(sym)
}

// Build is the generator entry point (§6.2): given a rule set, a root
// nonterminal's name, and the lookahead set to seed the root productions
// with (typically {"$"}), compute nullable and FIRST, construct the
// canonical LR(1) automaton, and compile it into a strict action table.
//
// Build never merges states the way LALR(1)/SLR(1) construction would
// (Design Note, §7): two states with identical cores but different
// lookaheads remain distinct, so grammars the teacher's lalr1.go would
// accept via lookahead merging may legitimately report ConflictError here
// instead.
func Build(rs *RuleSet, rootName string, endLookaheadNames []string) (*ActionTable, error) {
	root, ok := rs.symbols.toSymbol(rootName)
	if !ok {
		return nil, &UndefinedSymbolError{Name: rootName}
	}

	rootFollow := map[Symbol]struct{}{}
	for _, name := range endLookaheadNames {
		sym, ok := rs.symbols.toSymbol(name)
		if !ok {
			return nil, &UndefinedSymbolError{Name: name}
		}
		rootFollow[sym] = struct{}{}
	}

	nullable := computeNullable(rs.prods)
	fst, err := computeFirst(rs.prods, nullable)
	if err != nil {
		return nil, err
	}

	aut, err := buildAutomaton(rs.prods, fst, nullable, root, rootFollow)
	if err != nil {
		return nil, err
	}

	return compileActionTable(aut)
}

// Terminals lists every interned terminal symbol, in ascending numeric
// order (used by description/debugging output).
func (rs *RuleSet) Terminals() []Symbol {
	return rs.symbols.terminalSymbols()
}

// Nonterminals lists every interned nonterminal symbol, in ascending
// numeric order.
func (rs *RuleSet) Nonterminals() []Symbol {
	return rs.symbols.nonTerminalSymbols()
}

// Productions lists every production in declaration order.
func (rs *RuleSet) Productions() []*Production {
	return rs.prods.all()
}

// ProductionsFor lists the productions of a nonterminal in declaration
// order, for description output and for I1 validation by a caller.
func (rs *RuleSet) ProductionsFor(lhs Symbol) []*Production {
	prods, _ := rs.prods.findByLHS(lhs)
	out := make([]*Production, len(prods))
	copy(out, prods)
	sort.Slice(out, func(i, j int) bool { return out[i].num < out[j].num })
	return out
}
