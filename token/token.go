// Package token implements the char-driven tokenizer of §4.E: a
// one-character-of-lookahead finite state machine over a set of declared
// token classes, each identified by a first-character set and a
// remainder-character set.
package token

import (
	"fmt"
	"strings"
)

// Position is a (line, column) pair, both 1-based, advanced per character
// with the usual newline-resets-column rule (§4.E).
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Class is a declared token class: a name plus the two character sets
// that drive the FSM (§4.E). A class with an empty Skip=false Name of ""
// is never produced; the "null" class that silently consumes whitespace
// is just a class whose Skip field is true.
type Class struct {
	Name            string
	CharsetFirst    string
	CharsetRemainder string
	Skip            bool // whitespace/comment class: recognized but not emitted
}

func (c Class) hasFirst(r rune) bool {
	return strings.ContainsRune(c.CharsetFirst, r)
}

func (c Class) hasRemainder(r rune) bool {
	return strings.ContainsRune(c.CharsetRemainder, r)
}

// AmbiguityError reports that a character belongs to the charset_first of
// more than one class (§4.E, §7) — a configuration error in the grammar's
// token declarations, not a property of any particular input.
type AmbiguityError struct {
	Char    rune
	Classes []string
}

func (e *AmbiguityError) Error() string {
	return fmt.Sprintf("tokenizer: character %q matches more than one class's first-set: %s", e.Char, strings.Join(e.Classes, ", "))
}

// Token is one emitted lexeme: a class name, its accumulated text, and
// the source span it occupies.
type Token struct {
	Class string
	Text  string
	Start Position
	End   Position
}

// EOFClassName is the class name synthesized for the end-of-input token
// (§4.E, matching the grammar file's "$" sentinel, §6.1).
const EOFClassName = "$"

// Tokenizer drives the FSM defined by §4.E over an input string, one
// character at a time, with no lookahead beyond the character just read.
type Tokenizer struct {
	classes []Class
	input   []rune
	pos     int

	line, col int

	curClass *Class
	buf      strings.Builder
	startPos Position

	done bool
}

// New builds a Tokenizer over input, classified according to classes.
// classes must satisfy the declared invariants of §4.E: unique names, and
// no two classes sharing a charset_first character — this is checked
// lazily, the first time an ambiguous character is actually encountered,
// matching the original tokenizer's choose_state_for behavior.
func New(input string, classes []Class) *Tokenizer {
	return &Tokenizer{
		classes: classes,
		input:   []rune(input),
		line:    1,
		col:     1,
	}
}

func (t *Tokenizer) pos_() Position {
	return Position{Line: t.line, Column: t.col}
}

func (t *Tokenizer) advance() rune {
	r := t.input[t.pos]
	t.pos++
	if r == '\n' {
		t.line++
		t.col = 1
	} else {
		t.col++
	}
	return r
}

func (t *Tokenizer) peek() (rune, bool) {
	if t.pos >= len(t.input) {
		return 0, false
	}
	return t.input[t.pos], true
}

// chooseClassFor returns the unique class whose charset_first contains r,
// failing with AmbiguityError if more than one does, and returning a nil
// class with a nil error if none does.
func (t *Tokenizer) chooseClassFor(r rune) (*Class, error) {
	var matches []*Class
	for i := range t.classes {
		if t.classes[i].hasFirst(r) {
			matches = append(matches, &t.classes[i])
		}
	}
	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		names := make([]string, len(matches))
		for i, c := range matches {
			names[i] = c.Name
		}
		return nil, &AmbiguityError{Char: r, Classes: names}
	}
}

// Next returns the next token, emitting synthetic EOF exactly once when
// the input is exhausted, per §4.E ("On end-of-input, flush the current
// buffer and emit a synthetic $ token").
func (t *Tokenizer) Next() (Token, error) {
	if t.done {
		return Token{}, fmt.Errorf("token: Next called after EOF already emitted")
	}

	for {
		r, ok := t.peek()
		if !ok {
			return t.flush()
		}

		if t.curClass == nil {
			cls, err := t.chooseClassFor(r)
			if err != nil {
				return Token{}, err
			}
			if cls == nil {
				return Token{}, fmt.Errorf("token: no class matches character %q at %v", r, t.pos_())
			}
			t.curClass = cls
			t.startPos = t.pos_()
			t.buf.Reset()
			t.buf.WriteRune(t.advance())
			continue
		}

		if t.curClass.hasRemainder(r) {
			t.buf.WriteRune(t.advance())
			continue
		}

		tok := Token{Class: t.curClass.Name, Text: t.buf.String(), Start: t.startPos, End: t.pos_()}
		t.curClass = nil
		if tok.Class == "" || isSkipClassByName(t.classes, tok.Class) {
			continue
		}
		return tok, nil
	}
}

func isSkipClassByName(classes []Class, name string) bool {
	for _, c := range classes {
		if c.Name == name {
			return c.Skip
		}
	}
	return false
}

func (t *Tokenizer) flush() (Token, error) {
	if t.curClass != nil {
		tok := Token{Class: t.curClass.Name, Text: t.buf.String(), Start: t.startPos, End: t.pos_()}
		t.curClass = nil
		if isSkipClassByName(t.classes, tok.Class) {
			return t.eofToken(), nil
		}
		return tok, nil
	}
	return t.eofToken(), nil
}

func (t *Tokenizer) eofToken() Token {
	t.done = true
	p := t.pos_()
	return Token{Class: EOFClassName, Text: "", Start: p, End: p}
}

// All drains the tokenizer to completion, including the terminating EOF
// token, convenient for harness glue that wants a finite slice rather
// than pulling one token at a time.
func All(t *Tokenizer) ([]Token, error) {
	var out []Token
	for {
		tok, err := t.Next()
		if err != nil {
			return out, err
		}
		out = append(out, tok)
		if tok.Class == EOFClassName {
			return out, nil
		}
	}
}
