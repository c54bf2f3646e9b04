package grammar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// exprGrammar builds the §6.1 example grammar:
//
//	Start  = Add
//	Add    = Add + Factor
//	Add    = Factor
//	Factor = Factor * Term
//	Factor = Term
//	Term   = ( Add )
//	Term   = name
//	Term   = int
func exprGrammar(t *testing.T) *RuleSet {
	t.Helper()
	rs := NewRuleSet()

	start, err := rs.Nonterminal("Start")
	assert.NoError(t, err)
	add, err := rs.Nonterminal("Add")
	assert.NoError(t, err)
	factor, err := rs.Nonterminal("Factor")
	assert.NoError(t, err)
	term, err := rs.Nonterminal("Term")
	assert.NoError(t, err)

	plus, _ := rs.Terminal("+")
	star, _ := rs.Terminal("*")
	lparen, _ := rs.Terminal("(")
	rparen, _ := rs.Terminal(")")
	name, _ := rs.Terminal("name")
	intLit, _ := rs.Terminal("int")

	_, err = rs.Declare(start, []Symbol{add})
	assert.NoError(t, err)
	_, err = rs.Declare(add, []Symbol{add, plus, factor})
	assert.NoError(t, err)
	_, err = rs.Declare(add, []Symbol{factor})
	assert.NoError(t, err)
	_, err = rs.Declare(factor, []Symbol{factor, star, term})
	assert.NoError(t, err)
	_, err = rs.Declare(factor, []Symbol{term})
	assert.NoError(t, err)
	_, err = rs.Declare(term, []Symbol{lparen, add, rparen})
	assert.NoError(t, err)
	_, err = rs.Declare(term, []Symbol{name})
	assert.NoError(t, err)
	_, err = rs.Declare(term, []Symbol{intLit})
	assert.NoError(t, err)

	return rs
}

func TestBuild_ExprGrammarNoConflict(t *testing.T) {
	rs := exprGrammar(t)
	table, err := Build(rs, "Start", []string{"$"})
	assert.NoError(t, err)
	assert.NotNil(t, table)
	assert.Greater(t, table.StateCount, 0)
}

// P1: no two distinct actions on the same (state, symbol) key. The
// table compiler itself enforces this by construction (a conflict is a
// build error, not a silently-overwritten cell); this test just confirms
// every row, once built, really is a plain map (one action per key).
func TestBuild_P1_NoDuplicateActions(t *testing.T) {
	rs := exprGrammar(t)
	table, err := Build(rs, "Start", []string{"$"})
	assert.NoError(t, err)

	for state, row := range table.Action {
		seen := map[Symbol]bool{}
		for sym := range row {
			assert.False(t, seen[sym], "duplicate action for state %d symbol %v", state, sym)
			seen[sym] = true
		}
	}
}

// P2: every shift/goto target is itself a key in the state store.
func TestBuild_P2_TransitionTargetsExist(t *testing.T) {
	rs := exprGrammar(t)
	table, err := Build(rs, "Start", []string{"$"})
	assert.NoError(t, err)

	for _, row := range table.Action {
		for _, act := range row {
			if act.Kind == ActionShift {
				_, ok := table.Action[act.State]
				assert.True(t, ok, "shift target %d missing from state store", act.State)
			}
		}
	}
}

// P3: the generator either succeeds or raises a structured error; it
// never loops. A left-recursive cycle through nullable productions is
// the classic way to make a fixpoint loop forever if it's implemented
// wrong; this grammar keeps every nonterminal reachable via a finite
// number of closure steps, so this test simply bounds that Build
// returns at all (no timeout machinery is implemented, matching §5's "no
// timeouts" resource model — a hang here would simply hang the test
// runner, which is the accepted failure mode for a programmer error).
func TestBuild_P3_TerminatesWithStructuredError(t *testing.T) {
	rs := NewRuleSet()
	start, _ := rs.Nonterminal("Start")
	missing, _ := rs.Nonterminal("Missing")
	_, err := rs.Declare(start, []Symbol{missing})
	assert.NoError(t, err)

	_, err = Build(rs, "Start", []string{"$"})
	assert.Error(t, err)
	_, ok := err.(*UndefinedSymbolError)
	assert.True(t, ok, "expected *UndefinedSymbolError, got %T: %v", err, err)
}

func TestBuild_UndefinedRoot(t *testing.T) {
	rs := NewRuleSet()
	_, err := Build(rs, "Start", []string{"$"})
	assert.Error(t, err)
	_, ok := err.(*UndefinedSymbolError)
	assert.True(t, ok)
}

// S6 (left-recursive half): `A = a | A a` builds without conflict.
func TestBuild_S6_LeftRecursiveNoConflict(t *testing.T) {
	rs := NewRuleSet()
	start, _ := rs.Nonterminal("Start")
	a, _ := rs.Terminal("a")
	_, err := rs.Declare(start, []Symbol{a})
	assert.NoError(t, err)
	_, err = rs.Declare(start, []Symbol{start, a})
	assert.NoError(t, err)

	table, err := Build(rs, "Start", []string{"$"})
	assert.NoError(t, err)
	assert.NotNil(t, table)
}

// S6 (ambiguous half): `A = a B | a C` with `B->b`, `C->b` is genuinely
// ambiguous under one token of lookahead only if nothing downstream
// disambiguates B from C; here nothing does, so it must conflict.
func TestBuild_S6_TrulyAmbiguousConflicts(t *testing.T) {
	rs := NewRuleSet()
	start, _ := rs.Nonterminal("Start")
	b, _ := rs.Nonterminal("B")
	c, _ := rs.Nonterminal("C")
	aTok, _ := rs.Terminal("a")
	bTok, _ := rs.Terminal("b")

	_, err := rs.Declare(start, []Symbol{aTok, b})
	assert.NoError(t, err)
	_, err = rs.Declare(start, []Symbol{aTok, c})
	assert.NoError(t, err)
	_, err = rs.Declare(b, []Symbol{bTok})
	assert.NoError(t, err)
	_, err = rs.Declare(c, []Symbol{bTok})
	assert.NoError(t, err)

	_, err = Build(rs, "Start", []string{"$"})
	assert.Error(t, err)
	_, ok := err.(ConflictErrors)
	assert.True(t, ok, "expected ConflictErrors, got %T: %v", err, err)
}

func TestNullable(t *testing.T) {
	rs := NewRuleSet()
	start, _ := rs.Nonterminal("Start")
	opt, _ := rs.Nonterminal("Opt")
	a, _ := rs.Terminal("a")

	_, err := rs.Declare(start, []Symbol{opt, a})
	assert.NoError(t, err)
	_, err = rs.Declare(opt, []Symbol{})
	assert.NoError(t, err)

	nullable := computeNullable(rs.prods)
	assert.True(t, nullable.isNullable(opt))
	assert.False(t, nullable.isNullable(start))
}

func TestFirst(t *testing.T) {
	rs := exprGrammar(t)
	nullable := computeNullable(rs.prods)
	fst, err := computeFirst(rs.prods, nullable)
	assert.NoError(t, err)

	term, _ := rs.Symbol("Term")
	name, _ := rs.Symbol("name")
	intLit, _ := rs.Symbol("int")
	lparen, _ := rs.Symbol("(")

	firstTerm, err := fst.find(term)
	assert.NoError(t, err)
	assert.Contains(t, firstTerm, name)
	assert.Contains(t, firstTerm, intLit)
	assert.Contains(t, firstTerm, lparen)
}
