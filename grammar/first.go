package grammar

import "fmt"

// firstSet holds FIRST(A) for every nonterminal A: the terminals that can
// appear at the left of some derivation from A (§4.B). FIRST never
// contains the empty indicator; nullability is tracked separately via
// nullableSet.
type firstSet map[Symbol]map[Symbol]struct{}

func newFirstSet(prods *productionSet) firstSet {
	fst := firstSet{}
	for _, prod := range prods.all() {
		if _, ok := fst[prod.lhs]; !ok {
			fst[prod.lhs] = map[Symbol]struct{}{}
		}
	}
	return fst
}

func (fst firstSet) find(sym Symbol) (map[Symbol]struct{}, error) {
	e, ok := fst[sym]
	if !ok {
		return nil, fmt.Errorf("undefined symbol in FIRST: %v", sym)
	}
	return e, nil
}

func (fst firstSet) add(sym, term Symbol) bool {
	e := fst[sym]
	if _, ok := e[term]; ok {
		return false
	}
	e[term] = struct{}{}
	return true
}

func (fst firstSet) merge(dst, src Symbol) bool {
	changed := false
	for t := range fst[src] {
		if fst.add(dst, t) {
			changed = true
		}
	}
	return changed
}

// computeFirst runs the fixpoint of §4.B: seed FIRST(A) with every
// terminal reachable through a nullable prefix of some A-production, then
// propagate FIRST(B) into FIRST(A) wherever B occupies an analogous
// nullable-prefix position. Fails only with UndefinedSymbol if a
// production references a nonterminal with no productions of its own.
func computeFirst(prods *productionSet, nullable nullableSet) (firstSet, error) {
	fst := newFirstSet(prods)
	for {
		changed := false
		for _, prod := range prods.all() {
			c, err := firstStep(fst, nullable, prod)
			if err != nil {
				return nil, err
			}
			if c {
				changed = true
			}
		}
		if !changed {
			break
		}
	}
	return fst, nil
}

// firstStep folds one production into the accumulator and reports whether
// it changed FIRST(prod.lhs). It is a pure function of its arguments, as
// the Design Notes ask for: no captured rule-set state.
func firstStep(fst firstSet, nullable nullableSet, prod *Production) (bool, error) {
	changed := false
	for _, sym := range prod.rhs {
		if sym.isTerminal() {
			if fst.add(prod.lhs, sym) {
				changed = true
			}
			return changed, nil
		}
		if _, ok := fst[sym]; !ok {
			return false, &UndefinedSymbolError{Name: sym.String()}
		}
		if fst.merge(prod.lhs, sym) {
			changed = true
		}
		if !nullable.isNullable(sym) {
			return changed, nil
		}
	}
	return changed, nil
}

// firstOfSequence computes FIRST(syms · trailing) per the Design Notes'
// left-to-right scan: union FIRST of each symbol and stop at the first
// non-nullable symbol; if the whole sequence is nullable, the trailing
// lookahead set is included too (§4.C "update follows").
func firstOfSequence(fst firstSet, nullable nullableSet, syms []Symbol, trailing map[Symbol]struct{}) (map[Symbol]struct{}, error) {
	result := map[Symbol]struct{}{}
	for _, sym := range syms {
		if sym.isTerminal() {
			result[sym] = struct{}{}
			return result, nil
		}
		e, ok := fst[sym]
		if !ok {
			return nil, fmt.Errorf("undefined symbol: %v", sym)
		}
		for t := range e {
			result[t] = struct{}{}
		}
		if !nullable.isNullable(sym) {
			return result, nil
		}
	}
	for t := range trailing {
		result[t] = struct{}{}
	}
	return result, nil
}
