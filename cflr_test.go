package cflr

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/go-cflr/cflr/driver"
	"github.com/go-cflr/cflr/grammar"
	"github.com/go-cflr/cflr/token"
)

const exampleGrammar = `
// arithmetic expressions, per the grammar-file format example
Start  = Add
Add    = Add + Factor
Add    = Factor
Factor = Factor * Term
Factor = Term
Term   = ( Add )
Term   = name
Term   = int

name  := abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_ abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_0123456789
int   := 0123456789 0123456789
`

func TestBuild_ExampleGrammar(t *testing.T) {
	gen, err := Build(exampleGrammar, "", nil)
	assert.NoError(t, err)
	assert.NotNil(t, gen)
	assert.Greater(t, gen.Table.StateCount, 0)

	// A nulling whitespace class is always added on top of the grammar's
	// own terminals (§4.E), since this grammar declares none itself.
	var hasWS bool
	for _, c := range gen.Classes {
		switch c.Name {
		case "name", "int", "+", "*", "(", ")":
			continue
		}
		assert.True(t, c.Skip, "unexpected non-skip extra class %q", c.Name)
		hasWS = true
	}
	assert.True(t, hasWS, "expected a default whitespace-skip class")
}

// S1: a simple valid program parses to completion with a well-formed
// forest (P4's |rhs| child-count/order invariant, spot-checked).
func TestParseString_S1_Accept(t *testing.T) {
	gen, err := Build(exampleGrammar, "", nil)
	assert.NoError(t, err)

	root, err := gen.ParseString("1 + 2 * (3 + x)")
	assert.NoError(t, err)
	assert.Equal(t, ":Add", root.Label)
	assert.Len(t, root.Children, 3) // Add + Factor

	add := root.Children[0]
	assert.Equal(t, ":Add", add.Label)
	assert.Len(t, add.Children, 1) // Factor
}

// S2: a structurally invalid program is rejected with a driver syntax
// error that names the offending symbol and position.
func TestParseString_S2_SyntaxError(t *testing.T) {
	gen, err := Build(exampleGrammar, "", nil)
	assert.NoError(t, err)

	_, err = gen.ParseString("1 + + 2")
	assert.Error(t, err)
	se, ok := err.(*driver.SyntaxError)
	assert.True(t, ok, "expected *driver.SyntaxError, got %T: %v", err, err)
	assert.Equal(t, "+", se.Symbol)
}

// S3: two token classes sharing a first character force the tokenizer to
// raise an ambiguity error rather than guess.
func TestParseString_S3_TokenizerAmbiguity(t *testing.T) {
	grammarText := `
Start = A
Start = B
A = aTok
B = aTok2

aTok  := a a
aTok2 := a b
`
	gen, err := Build(grammarText, "", nil)
	assert.NoError(t, err)

	_, err = gen.ParseString("a")
	assert.Error(t, err)
	_, ok := err.(*token.AmbiguityError)
	assert.True(t, ok, "expected *token.AmbiguityError, got %T: %v", err, err)
}

// S4: a grammar with a genuine reduce/reduce conflict fails to build at
// all — callers never get a table with an ambiguous cell.
func TestBuild_S4_ConflictFailsAtBuildTime(t *testing.T) {
	grammarText := `
Start = a B
Start = a C
B = b
C = b
`
	_, err := Build(grammarText, "", nil)
	assert.Error(t, err)
	_, ok := err.(grammar.ConflictErrors)
	assert.True(t, ok, "expected grammar.ConflictErrors, got %T: %v", err, err)
}

// S5: undefined root/end-lookahead names are rejected before any table
// work happens.
func TestBuild_S5_UndefinedRoot(t *testing.T) {
	_, err := Build("Start = a\n", "NoSuchRoot", nil)
	assert.Error(t, err)
	_, ok := err.(*grammar.UndefinedSymbolError)
	assert.True(t, ok)
}

// Defaults: an omitted root/end_lookahead falls back to "Start"/{"$"}
// per §6.2.
func TestBuild_DefaultsApplied(t *testing.T) {
	gen, err := Build("Start = a\n", "", nil)
	assert.NoError(t, err)
	root, err := gen.ParseString("a")
	assert.NoError(t, err)
	assert.Equal(t, "a", root.Text)
}

// Successive parses share one Generator/table read-only.
func TestGenerator_SuccessiveParsesShareTable(t *testing.T) {
	gen, err := Build(exampleGrammar, "", nil)
	assert.NoError(t, err)

	root1, err := gen.ParseString("1")
	assert.NoError(t, err)
	root2, err := gen.ParseString("2 * 3")
	assert.NoError(t, err)

	assert.Equal(t, ":Add", root1.Label)
	assert.Equal(t, ":Add", root2.Label)
}
