// Package loader implements component A (§4.A, §6.1): parsing a ".grm"
// text blob into a grammar.RuleSet plus the declared token classes,
// leaving lexical boilerplate — nothing here does any tokenizing itself,
// it only reads declaration lines.
package loader

import (
	"fmt"
	"strings"

	"github.com/go-cflr/cflr/grammar"
	"github.com/go-cflr/cflr/token"
)

// FormatError reports a malformed declaration line, with the 1-based
// source line number for a readable diagnostic (grounded on the
// teacher's error.SpecError{Cause, Row} shape).
type FormatError struct {
	Line  int
	Cause error
}

func (e *FormatError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("grammar: %v", e.Cause)
	}
	return fmt.Sprintf("grammar:%d: %v", e.Line, e.Cause)
}

func (e *FormatError) Unwrap() error { return e.Cause }

// Result is the loader's full output (§4.A): the rule set, the named
// token classes, and the unnamed single-character literal terminals
// referenced on some rhs.
type Result struct {
	Rules          *grammar.RuleSet
	NamedClasses   []token.Class
	UnnamedLiterals []string
}

// Load parses text per §4.A/§6.1: one declaration per line, "//" line
// comments, blank lines ignored. A production line is "LHS = SYM SYM …"
// (rhs may be empty); a named-token line is "NAME := FIRSTCHARS
// REMAINDERCHARS". Any rhs symbol that is neither a declared nonterminal
// nor a named token becomes a single-character literal terminal.
func Load(text string) (*Result, error) {
	rs := grammar.NewRuleSet()

	type namedToken struct {
		first, remainder string
		row              int
	}
	named := map[string]namedToken{}
	namedOrder := []string{}

	type ruleLine struct {
		lhs string
		rhs []string
		row int
	}
	var ruleLines []ruleLine
	lhsSet := map[string]bool{}
	lhsFirstRow := map[string]int{}
	allRHSTokens := map[string]bool{}
	rhsFirstRow := map[string]int{}

	for i, raw := range strings.Split(text, "\n") {
		row := i + 1
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		switch {
		case isTokenLine(line):
			name, first, remainder, err := parseTokenLine(line)
			if err != nil {
				return nil, &FormatError{Line: row, Cause: err}
			}
			if _, dup := named[name]; dup {
				return nil, &FormatError{Line: row, Cause: fmt.Errorf("token %q declared more than once", name)}
			}
			named[name] = namedToken{first: first, remainder: remainder, row: row}
			namedOrder = append(namedOrder, name)

		case isRuleLine(line):
			lhs, rhs, err := parseRuleLine(line)
			if err != nil {
				return nil, &FormatError{Line: row, Cause: err}
			}
			lhsSet[lhs] = true
			if _, ok := lhsFirstRow[lhs]; !ok {
				lhsFirstRow[lhs] = row
			}
			for _, sym := range rhs {
				allRHSTokens[sym] = true
				if _, ok := rhsFirstRow[sym]; !ok {
					rhsFirstRow[sym] = row
				}
			}
			ruleLines = append(ruleLines, ruleLine{lhs: lhs, rhs: rhs, row: row})

		default:
			return nil, &FormatError{Line: row, Cause: fmt.Errorf("line is neither a production nor a token declaration: %q", line)}
		}
	}

	for name, nt := range named {
		if !allRHSTokens[name] {
			return nil, &FormatError{Line: nt.row, Cause: fmt.Errorf("named token %q is never referenced on any production rhs", name)}
		}
	}
	for sym := range allRHSTokens {
		if len(sym) > 1 {
			if _, isNamed := named[sym]; !isNamed {
				if !lhsSet[sym] {
					return nil, &FormatError{Line: rhsFirstRow[sym], Cause: fmt.Errorf("multi-character symbol %q is neither a nonterminal nor a named token", sym)}
				}
			}
		}
	}

	for lhs := range lhsSet {
		if _, err := rs.Nonterminal(lhs); err != nil {
			return nil, &FormatError{Line: lhsFirstRow[lhs], Cause: err}
		}
	}

	var unnamed []string
	for sym := range allRHSTokens {
		if lhsSet[sym] {
			continue
		}
		if _, isNamed := named[sym]; isNamed {
			continue
		}
		unnamed = append(unnamed, sym)
	}

	for _, rl := range ruleLines {
		lhsSym, ok := rs.Symbol(rl.lhs)
		if !ok {
			return nil, &FormatError{Line: rl.row, Cause: fmt.Errorf("undefined nonterminal %q", rl.lhs)}
		}
		rhsSyms := make([]grammar.Symbol, 0, len(rl.rhs))
		for _, sym := range rl.rhs {
			if lhsSet[sym] {
				s, _ := rs.Symbol(sym)
				rhsSyms = append(rhsSyms, s)
				continue
			}
			s, err := rs.Terminal(sym)
			if err != nil {
				return nil, &FormatError{Line: rl.row, Cause: err}
			}
			rhsSyms = append(rhsSyms, s)
		}
		if _, err := rs.Declare(lhsSym, rhsSyms); err != nil {
			return nil, &FormatError{Line: rl.row, Cause: err}
		}
	}

	classes := make([]token.Class, 0, len(namedOrder))
	for _, name := range namedOrder {
		nt := named[name]
		classes = append(classes, token.Class{
			Name:             name,
			CharsetFirst:     nt.first,
			CharsetRemainder: nt.remainder,
		})
	}

	return &Result{Rules: rs, NamedClasses: classes, UnnamedLiterals: unnamed}, nil
}

func isRuleLine(line string) bool {
	idx := strings.Index(line, "=")
	if idx < 0 {
		return false
	}
	if strings.Contains(line[:idx], ":") {
		return false
	}
	return len(strings.TrimSpace(line[:idx])) > 0
}

func isTokenLine(line string) bool {
	return strings.Contains(line, ":=")
}

func parseRuleLine(line string) (string, []string, error) {
	parts := strings.SplitN(line, "=", 2)
	if len(parts) != 2 {
		return "", nil, fmt.Errorf("malformed production: %q", line)
	}
	lhs := strings.TrimSpace(parts[0])
	if lhs == "" {
		return "", nil, fmt.Errorf("production has no lhs: %q", line)
	}
	rhs := strings.Fields(parts[1])
	return lhs, rhs, nil
}

func parseTokenLine(line string) (name, first, remainder string, err error) {
	parts := strings.SplitN(line, ":=", 2)
	if len(parts) != 2 {
		return "", "", "", fmt.Errorf("malformed token declaration: %q", line)
	}
	name = strings.TrimSpace(parts[0])
	if name == "" {
		return "", "", "", fmt.Errorf("token declaration has no name: %q", line)
	}
	fields := strings.Fields(parts[1])
	if len(fields) != 2 {
		return "", "", "", fmt.Errorf("token declaration %q must have exactly two charset fields", name)
	}
	return name, fields[0], fields[1], nil
}
