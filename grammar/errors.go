package grammar

import (
	"fmt"
	"sort"
	"strings"
)

// UndefinedSymbolError reports a reference to a nonterminal with no
// productions, or a terminal never declared in the token set (§7, fatal
// error kind 1).
type UndefinedSymbolError struct {
	Name string
}

func (e *UndefinedSymbolError) Error() string {
	return fmt.Sprintf("undefined symbol: %s", e.Name)
}

// ConflictKind distinguishes the three ways canonical LR(1) construction
// can fail to produce a deterministic table (shift/reduce, reduce/reduce,
// and an accept overlapping another action) (§7, fatal error kind 2). Unlike
// the teacher's precedence/associativity resolution, this package never
// picks a winner: any conflict is fatal and reported in full.
type ConflictKind int

const (
	ShiftReduceConflict ConflictKind = iota
	ReduceReduceConflict
	AcceptOverlapConflict
)

func (k ConflictKind) String() string {
	switch k {
	case ShiftReduceConflict:
		return "shift/reduce"
	case ReduceReduceConflict:
		return "reduce/reduce"
	case AcceptOverlapConflict:
		return "accept-overlap"
	default:
		return "unknown"
	}
}

// ConflictError reports that a state has more than one viable action for
// some lookahead terminal. State/terminal/productions are enough for a
// caller to print the offending item set via a description writer.
type ConflictError struct {
	Kind       ConflictKind
	State      int
	Lookahead  Symbol
	Productions []*Production
}

func (e *ConflictError) Error() string {
	nums := make([]string, 0, len(e.Productions))
	for _, p := range e.Productions {
		nums = append(nums, fmt.Sprintf("%d", p.num.Int()))
	}
	sort.Strings(nums)
	return fmt.Sprintf("%s conflict in state %d on lookahead %v among productions {%s}",
		e.Kind, e.State, e.Lookahead, strings.Join(nums, ", "))
}

// ConflictErrors aggregates every conflict found while compiling the
// action table, so a caller sees the whole grammar's problems in one pass
// instead of fixing them one at a time.
type ConflictErrors []*ConflictError

func (es ConflictErrors) Error() string {
	lines := make([]string, 0, len(es))
	for _, e := range es {
		lines = append(lines, e.Error())
	}
	return strings.Join(lines, "\n")
}
