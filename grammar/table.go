package grammar

import "sort"

// ActionKind is the tagged union discriminant for a table cell (Design
// Note "Variant actions"): unlike the teacher's packed-int encoding
// (negative for shift, positive for reduce), each cell here is an
// explicit struct so Accept is representable as its own kind rather than
// overloading reduce-to-the-start-production.
type ActionKind int

const (
	ActionError ActionKind = iota
	ActionShift
	ActionReduce
	ActionAccept
)

// Action is one cell of the action table: what the driver does when it
// sees a given lookahead terminal in a given state (§3 "Action table").
type Action struct {
	Kind  ActionKind
	State int         // valid when Kind == ActionShift; the target state ID
	Prod  *Production // valid when Kind == ActionReduce
}

// ActionTable is the compiled table, dense over (state, symbol). Gotos
// share the same map as shifts (§4.D): T[k][A] for a nonterminal A is a
// Shift to the goto target, so the driver's post-reduction goto lookup is
// just another action-table read. State IDs are plain ints (§3 "State
// store": contiguous non-negative integers, 0 being initial) so a caller
// outside this package never needs an unexported state type.
type ActionTable struct {
	StateCount int
	Action     map[int]map[Symbol]Action
	Initial    int
}

// Lookup returns the action for (state, sym), or the zero Action
// (Kind == ActionError) if none is defined.
func (t *ActionTable) Lookup(state int, sym Symbol) (Action, bool) {
	row, ok := t.Action[state]
	if !ok {
		return Action{}, false
	}
	act, ok := row[sym]
	return act, ok
}

// ExpectedTerminals lists, for a state, every terminal with a non-error
// action, in ascending symbol order (grounded on driver/parser.go's
// expectedKinds). The driver does not call it: a SyntaxError message
// names only the unexpected symbol, not the expected ones.
func (t *ActionTable) ExpectedTerminals(s int) []Symbol {
	row, ok := t.Action[s]
	if !ok {
		return nil
	}
	syms := make([]Symbol, 0, len(row))
	for sym, act := range row {
		if act.Kind != ActionError && sym.isTerminal() {
			syms = append(syms, sym)
		}
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}

// compileActionTable walks every state of the automaton once, turning its
// shift transitions, goto transitions, reductions and accepts into dense
// table rows. It is strict: if two actions ever compete for the same
// (state, terminal) cell, compilation fails with every such conflict
// rather than silently keeping one (§4.D, §7 fatal error kind 2 — the
// deliberate divergence from the teacher's
// parsing_table_builder.go, which resolves via precedence/associativity
// directives this grammar format does not have).
func compileActionTable(aut *Automaton) (*ActionTable, error) {
	table := &ActionTable{
		StateCount: len(aut.order),
		Action:     map[int]map[Symbol]Action{},
		Initial:    aut.states[aut.initial].num.Int(),
	}

	var conflicts ConflictErrors

	for _, state := range aut.order {
		actionRow := map[Symbol]Action{}

		for sym, succID := range state.next {
			succ := aut.states[succID]
			actionRow[sym] = Action{Kind: ActionShift, State: succ.num.Int()}
		}

		for term := range state.accept {
			if existing, ok := actionRow[term]; ok && existing.Kind != ActionError {
				conflicts = append(conflicts, conflictFor(state.num, term, existing, Action{Kind: ActionAccept}, nil))
				continue
			}
			actionRow[term] = Action{Kind: ActionAccept}
		}

		prods := make([]*Production, 0, len(state.reducible))
		for p := range state.reducible {
			prods = append(prods, p)
		}
		sort.Slice(prods, func(i, j int) bool { return prods[i].num < prods[j].num })

		for _, prod := range prods {
			terms := make([]Symbol, 0, len(state.reducible[prod]))
			for t := range state.reducible[prod] {
				terms = append(terms, t)
			}
			sort.Slice(terms, func(i, j int) bool { return terms[i] < terms[j] })

			for _, term := range terms {
				existing, ok := actionRow[term]
				if ok && existing.Kind != ActionError {
					conflicts = append(conflicts, conflictFor(state.num, term, existing, Action{Kind: ActionReduce, Prod: prod}, prod))
					continue
				}
				actionRow[term] = Action{Kind: ActionReduce, Prod: prod}
			}
		}

		table.Action[state.num.Int()] = actionRow
	}

	if len(conflicts) > 0 {
		return nil, conflicts
	}
	return table, nil
}

// conflictFor classifies a newly discovered collision against the action
// already occupying the cell.
func conflictFor(s stateNum, term Symbol, existing, incoming Action, newProd *Production) *ConflictError {
	kind := ReduceReduceConflict
	var prods []*Production
	switch {
	case existing.Kind == ActionAccept || incoming.Kind == ActionAccept:
		kind = AcceptOverlapConflict
	case existing.Kind == ActionShift || incoming.Kind == ActionShift:
		kind = ShiftReduceConflict
	}
	if existing.Prod != nil {
		prods = append(prods, existing.Prod)
	}
	if newProd != nil {
		prods = append(prods, newProd)
	}
	return &ConflictError{Kind: kind, State: s.Int(), Lookahead: term, Productions: prods}
}
