package grammar

import (
	"fmt"
	"sort"
)

type symbolNum uint16

func (n symbolNum) Int() int {
	return int(n)
}

// Symbol is an interned grammar symbol: a nonterminal or a terminal.
// Representing symbols as a packed uint16 rather than a string makes
// item-set membership and table lookups cheap; string names live only in
// the symbolTable. Unlike a grammar with a separate lexical-symbol tier,
// CFLR has exactly two symbol kinds, so one bit picks the kind and the
// rest is a plain per-kind counter — number 0 is reserved for "no
// symbol" and number 1 for $ within the terminal namespace.
type Symbol uint16

func (s Symbol) String() string {
	if s.isNil() {
		return "?0"
	}
	if s == SymbolEOF {
		return "$"
	}
	prefix := "n"
	if s.isTerminal() {
		prefix = "t"
	}
	return fmt.Sprintf("%s%d", prefix, s.num())
}

const (
	maskKind        = uint16(0x8000) // 1000 0000 0000 0000: 0 = nonterminal, 1 = terminal
	maskNum         = uint16(0x7fff) // 0111 1111 1111 1111
	numNil          = uint16(0)
	numEOF          = uint16(1) // reserved within the terminal namespace

	SymbolNil = Symbol(0)
	SymbolEOF = Symbol(maskKind | numEOF)

	// symbolNameEOF matches the grammar-file sentinel terminal `$` (§6.1).
	symbolNameEOF = "$"

	nonTerminalNumMin = symbolNum(1)
	terminalNumMin    = symbolNum(2) // 1 is reserved for EOF.
	symbolNumMax      = symbolNum(maskNum)
)

func newSymbol(isTerminal bool, num symbolNum) (Symbol, error) {
	if num > symbolNumMax {
		return SymbolNil, fmt.Errorf("a symbol number exceeds the limit; limit: %v, passed: %v", symbolNumMax, num)
	}
	kindMask := uint16(0)
	if isTerminal {
		kindMask = maskKind
	}
	return Symbol(kindMask | uint16(num)), nil
}

func (s Symbol) num() symbolNum {
	return symbolNum(uint16(s) & maskNum)
}

func (s Symbol) isNil() bool {
	return s.num() == symbolNum(numNil)
}

func (s Symbol) isNonTerminal() bool {
	return !s.isNil() && uint16(s)&maskKind == 0
}

func (s Symbol) isTerminal() bool {
	return !s.isNil() && uint16(s)&maskKind != 0
}

// symbolTable interns symbol text, assigning each new nonterminal or
// terminal the next free symbolNum in its kind.
type symbolTable struct {
	text2Sym   map[string]Symbol
	sym2Text   map[Symbol]string
	nonTermNum symbolNum
	termNum    symbolNum
}

func newSymbolTable() *symbolTable {
	return &symbolTable{
		text2Sym: map[string]Symbol{
			symbolNameEOF: SymbolEOF,
		},
		sym2Text: map[Symbol]string{
			SymbolEOF: symbolNameEOF,
		},
		nonTermNum: nonTerminalNumMin,
		termNum:    terminalNumMin,
	}
}

func (t *symbolTable) registerNonTerminal(text string) (Symbol, error) {
	if sym, ok := t.text2Sym[text]; ok {
		return sym, nil
	}
	sym, err := newSymbol(false, t.nonTermNum)
	if err != nil {
		return SymbolNil, err
	}
	t.nonTermNum++
	t.text2Sym[text] = sym
	t.sym2Text[sym] = text
	return sym, nil
}

func (t *symbolTable) registerTerminal(text string) (Symbol, error) {
	if sym, ok := t.text2Sym[text]; ok {
		return sym, nil
	}
	sym, err := newSymbol(true, t.termNum)
	if err != nil {
		return SymbolNil, err
	}
	t.termNum++
	t.text2Sym[text] = sym
	t.sym2Text[sym] = text
	return sym, nil
}

func (t *symbolTable) toSymbol(text string) (Symbol, bool) {
	sym, ok := t.text2Sym[text]
	return sym, ok
}

func (t *symbolTable) toText(sym Symbol) (string, bool) {
	text, ok := t.sym2Text[sym]
	return text, ok
}

func (t *symbolTable) terminalSymbols() []Symbol {
	syms := make([]Symbol, 0, t.termNum.Int()-terminalNumMin.Int()+1)
	for sym := range t.sym2Text {
		if !sym.isTerminal() || sym.isNil() {
			continue
		}
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}

func (t *symbolTable) nonTerminalSymbols() []Symbol {
	syms := make([]Symbol, 0, t.nonTermNum.Int()-nonTerminalNumMin.Int()+1)
	for sym := range t.sym2Text {
		if !sym.isNonTerminal() || sym.isNil() {
			continue
		}
		syms = append(syms, sym)
	}
	sort.Slice(syms, func(i, j int) bool { return syms[i] < syms[j] })
	return syms
}
