package loader

import (
	"testing"

	"github.com/stretchr/testify/assert"
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

func TestLoad_ExampleGrammar(t *testing.T) {
	res, err := Load(exampleGrammar)
	assert.NoError(t, err)
	assert.NotNil(t, res)

	assert.Len(t, res.NamedClasses, 2)
	assert.ElementsMatch(t, res.UnnamedLiterals, []string{"+", "*", "(", ")"})

	start, ok := res.Rules.Symbol("Start")
	assert.True(t, ok)
	prods := res.Rules.ProductionsFor(start)
	assert.Len(t, prods, 1)
	assert.Equal(t, 1, prods[0].Arity())
}

func TestLoad_CommentsAndBlankLinesIgnored(t *testing.T) {
	text := `
// a leading comment

Start = a

// trailing comment
`
	res, err := Load(text)
	assert.NoError(t, err)
	start, ok := res.Rules.Symbol("Start")
	assert.True(t, ok)
	prods := res.Rules.ProductionsFor(start)
	assert.Len(t, prods, 1)
}

func TestLoad_EmptyRHSAllowed(t *testing.T) {
	text := "Start = Opt a\nOpt = \n"
	res, err := Load(text)
	assert.NoError(t, err)
	opt, ok := res.Rules.Symbol("Opt")
	assert.True(t, ok)
	prods := res.Rules.ProductionsFor(opt)
	assert.Len(t, prods, 1)
	assert.Equal(t, 0, prods[0].Arity())
}

func TestLoad_MalformedLineIsFormatError(t *testing.T) {
	_, err := Load("this is not a declaration")
	assert.Error(t, err)
	fe, ok := err.(*FormatError)
	assert.True(t, ok)
	assert.Equal(t, 1, fe.Line)
}

func TestLoad_DuplicateNamedTokenRejected(t *testing.T) {
	text := "Start = name\nname := a a\nname := b b\n"
	_, err := Load(text)
	assert.Error(t, err)
}
