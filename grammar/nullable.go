package grammar

// nullableSet records, for each nonterminal, whether it can derive the
// empty string (§4.B, invariant I2).
type nullableSet map[Symbol]bool

func (n nullableSet) isNullable(sym Symbol) bool {
	if sym.isTerminal() {
		return false
	}
	return n[sym]
}

// symsNullable reports whether every symbol in syms is nullable (vacuously
// true for an empty slice).
func (n nullableSet) symsNullable(syms []Symbol) bool {
	for _, s := range syms {
		if !n.isNullable(s) {
			return false
		}
	}
	return true
}

// computeNullable runs the monotone fixpoint of §4.B: nullable(A) holds
// iff some production A→X1…Xn has every Xi already known nullable
// (vacuously true when n=0). Each sweep is a pure function of the rule
// set and the current accumulator (Design Note "Closures and fixpoints"),
// so there is no hidden mutable closure driving the loop.
func computeNullable(prods *productionSet) nullableSet {
	nullable := nullableSet{}
	for {
		if !nullableStep(prods, nullable) {
			break
		}
	}
	return nullable
}

// nullableStep performs one full sweep over every production, adding any
// newly-discovered nullable nonterminal to the accumulator. It returns
// whether the sweep changed anything, so the caller can iterate to a
// fixpoint.
func nullableStep(prods *productionSet, nullable nullableSet) bool {
	changed := false
	for _, prod := range prods.all() {
		if nullable[prod.lhs] {
			continue
		}
		if prod.isEmpty() || nullable.symsNullable(prod.rhs) {
			nullable[prod.lhs] = true
			changed = true
		}
	}
	return changed
}
