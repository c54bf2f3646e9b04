package grammar

import (
	"fmt"
	"sort"
)

// Automaton is the canonical collection of LR(1) item sets (§3 "State
// store"): a bijection between item sets and contiguous state IDs, state
// 0 being the initial state.
type Automaton struct {
	initial itemSetID
	states  map[itemSetID]*lrState
	order   []*lrState // index == state.num
}

// buildAutomaton constructs the canonical LR(1) automaton for prods,
// rooted at root with the externally supplied initial lookahead set
// rootFollow (§4.C). It implements the worklist in the Data Model: start
// with the closed kernel of root's productions, then repeatedly shift
// each state's items across every dotted symbol to discover successor
// kernels, until no new states appear.
func buildAutomaton(prods *productionSet, fst firstSet, nullable nullableSet, root Symbol, rootFollow map[Symbol]struct{}) (*Automaton, error) {
	rootProds, ok := prods.findByLHS(root)
	if !ok || len(rootProds) == 0 {
		return nil, fmt.Errorf("root symbol has no productions: %v", root)
	}

	var kernel []*item
	for _, p := range rootProds {
		la := map[Symbol]struct{}{}
		for t := range rootFollow {
			la[t] = struct{}{}
		}
		kernel = append(kernel, newItem(p, 0, la))
	}

	closed, err := closeItemSet(kernel, prods, fst, nullable)
	if err != nil {
		return nil, err
	}

	initialID := computeItemSetID(closed)
	aut := &Automaton{
		initial: initialID,
		states:  map[itemSetID]*lrState{},
	}

	type pending struct {
		id    itemSetID
		items []*item
	}

	counter := stateNumInitial
	seen := map[itemSetID]bool{initialID: true}
	queue := []pending{{id: initialID, items: closed}}

	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]

		state, successors, err := genStateAndSuccessors(cur.id, cur.items, prods, fst, nullable, root)
		if err != nil {
			return nil, err
		}
		state.num = counter
		counter = counter.next()
		aut.states[cur.id] = state
		aut.order = append(aut.order, state)

		for id, items := range successors {
			if seen[id] {
				continue
			}
			seen[id] = true
			queue = append(queue, pending{id: id, items: items})
		}
	}

	return aut, nil
}

// genStateAndSuccessors partitions a closed item set's items by the
// symbol after the dot, builds the successor kernel (and its closure) for
// each such symbol, and collects this state's reductions/accepts.
func genStateAndSuccessors(id itemSetID, items []*item, prods *productionSet, fst firstSet, nullable nullableSet, root Symbol) (*lrState, map[itemSetID][]*item, error) {
	bySymbol := map[Symbol][]*item{}
	for _, it := range items {
		sym := it.dottedSymbol()
		if sym.isNil() {
			continue
		}
		bySymbol[sym] = append(bySymbol[sym], it.shifted())
	}

	next := map[Symbol]itemSetID{}
	successors := map[itemSetID][]*item{}

	syms := make([]Symbol, 0, len(bySymbol))
	for sym := range bySymbol {
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })

	for _, sym := range syms {
		kernel := dedupItems(bySymbol[sym])
		closed, err := closeItemSet(kernel, prods, fst, nullable)
		if err != nil {
			return nil, nil, err
		}
		sid := computeItemSetID(closed)
		next[sym] = sid
		if _, ok := successors[sid]; !ok {
			successors[sid] = closed
		}
	}

	reducible := map[*Production]map[Symbol]struct{}{}
	accept := map[Symbol]struct{}{}
	for _, it := range items {
		if !it.isReducible() {
			continue
		}
		if it.prod.lhs == root {
			for t := range it.lookahead {
				accept[t] = struct{}{}
			}
			continue
		}
		if _, ok := reducible[it.prod]; !ok {
			reducible[it.prod] = map[Symbol]struct{}{}
		}
		for t := range it.lookahead {
			reducible[it.prod][t] = struct{}{}
		}
	}

	return &lrState{
		id:        id,
		items:     items,
		next:      next,
		reducible: reducible,
		accept:    accept,
	}, successors, nil
}

func dedupItems(items []*item) []*item {
	seen := map[itemID]*item{}
	for _, it := range items {
		if existing, ok := seen[it.id]; ok {
			for t := range it.lookahead {
				existing.lookahead[t] = struct{}{}
			}
			continue
		}
		seen[it.id] = it
	}
	out := make([]*item, 0, len(seen))
	for _, it := range seen {
		out = append(out, it)
	}
	return out
}

// closeItemSet implements §4.C's closure, named there "extend predictions"
// followed by "update follows":
//
//  1. Extend predictions: transitively add, for every nonterminal B
//     appearing immediately after a dot among the kernel's items, every
//     production B→γ with the dot at 0.
//  2. Update follows: items predicted for the same nonterminal B always
//     share one lookahead set (they differ only in which production of B
//     they predict), so this pass accumulates a lookahead set per
//     predicted nonterminal rather than per item. For every item
//     A→α・Xβ in the kernel-plus-predictions with X a nonterminal, FIRST(βL)
//     — L being the item's own lookahead, frozen for kernel items and the
//     being-computed accumulator for predicted ones — is folded into
//     X's accumulator. Because a predicted item's own lookahead can in
//     turn depend on another prediction introduced in the same closure
//     (the "depends-on edge" the Design Notes call out), this step
//     repeats to a fixpoint rather than running once.
func closeItemSet(kernel []*item, prods *productionSet, fst firstSet, nullable nullableSet) ([]*item, error) {
	predicted := map[Symbol][]*Production{}
	seenPredicted := map[Symbol]bool{}

	var toExpand []Symbol
	for _, it := range kernel {
		if sym := it.dottedSymbol(); sym.isNonTerminal() {
			toExpand = append(toExpand, sym)
		}
	}
	for len(toExpand) > 0 {
		sym := toExpand[0]
		toExpand = toExpand[1:]
		if seenPredicted[sym] {
			continue
		}
		seenPredicted[sym] = true
		prodsOfSym, ok := prods.findByLHS(sym)
		if !ok || len(prodsOfSym) == 0 {
			return nil, fmt.Errorf("undefined symbol: %v", sym)
		}
		predicted[sym] = prodsOfSym
		for _, p := range prodsOfSym {
			if p.rhsLen > 0 {
				if next := p.rhs[0]; next.isNonTerminal() && !seenPredicted[next] {
					toExpand = append(toExpand, next)
				}
			}
		}
	}

	closureLA := map[Symbol]map[Symbol]struct{}{}
	for sym := range predicted {
		closureLA[sym] = map[Symbol]struct{}{}
	}

	lookaheadOf := func(it *item) map[Symbol]struct{} {
		return it.lookahead
	}

	allPredictedItems := func() []*item {
		out := make([]*item, 0, len(predicted))
		for sym, prodsOfSym := range predicted {
			for _, p := range prodsOfSym {
				out = append(out, newItem(p, 0, closureLA[sym]))
			}
		}
		return out
	}

	for {
		changed := false
		all := append(append([]*item{}, kernel...), allPredictedItems()...)
		for _, it := range all {
			sym := it.dottedSymbol()
			if !sym.isNonTerminal() {
				continue
			}
			acc, ok := closureLA[sym]
			if !ok {
				continue
			}
			terms, err := firstOfSequence(fst, nullable, it.beyondDot(), lookaheadOf(it))
			if err != nil {
				return nil, err
			}
			for t := range terms {
				if _, ok := acc[t]; !ok {
					acc[t] = struct{}{}
					changed = true
				}
			}
		}
		if !changed {
			break
		}
	}

	result := make([]*item, 0, len(kernel)+len(predicted))
	result = append(result, kernel...)
	for sym, prodsOfSym := range predicted {
		la := closureLA[sym]
		for _, p := range prodsOfSym {
			result = append(result, newItem(p, 0, la))
		}
	}
	return dedupItems(result), nil
}
