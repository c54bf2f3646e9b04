package token

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func testClasses() []Class {
	return []Class{
		{Name: "ws", CharsetFirst: " \t\n", CharsetRemainder: " \t\n", Skip: true},
		{Name: "name", CharsetFirst: "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_", CharsetRemainder: "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ_0123456789"},
		{Name: "int", CharsetFirst: "0123456789", CharsetRemainder: "0123456789"},
		{Name: "+", CharsetFirst: "+", CharsetRemainder: ""},
		{Name: "(", CharsetFirst: "(", CharsetRemainder: ""},
		{Name: ")", CharsetFirst: ")", CharsetRemainder: ""},
	}
}

func TestTokenizer_BasicSequence(t *testing.T) {
	tz := New("foo + 12", testClasses())
	toks, err := All(tz)
	assert.NoError(t, err)

	var names []string
	for _, tok := range toks {
		names = append(names, tok.Class)
	}
	assert.Equal(t, []string{"name", "+", "int", "$"}, names)
	assert.Equal(t, "foo", toks[0].Text)
	assert.Equal(t, "12", toks[2].Text)
}

func TestTokenizer_PositionTracking(t *testing.T) {
	tz := New("a\nbb", testClasses())
	toks, err := All(tz)
	assert.NoError(t, err)
	assert.Equal(t, Position{Line: 1, Column: 1}, toks[0].Start)
	assert.Equal(t, Position{Line: 2, Column: 1}, toks[1].Start)
}

func TestTokenizer_EOFAlwaysEmitted(t *testing.T) {
	tz := New("", testClasses())
	toks, err := All(tz)
	assert.NoError(t, err)
	assert.Len(t, toks, 1)
	assert.Equal(t, EOFClassName, toks[0].Class)
}

func TestTokenizer_Ambiguity(t *testing.T) {
	classes := []Class{
		{Name: "a", CharsetFirst: "x", CharsetRemainder: "x"},
		{Name: "b", CharsetFirst: "x", CharsetRemainder: "y"},
	}
	tz := New("x", classes)
	_, err := tz.Next()
	assert.Error(t, err)
	_, ok := err.(*AmbiguityError)
	assert.True(t, ok, "expected *AmbiguityError, got %T: %v", err, err)
}

func TestTokenizer_NoMatchingClass(t *testing.T) {
	tz := New("#", testClasses())
	_, err := tz.Next()
	assert.Error(t, err)
}
