// internal/bitap/alphabet.go
package bitap

// Alphabet is the set of symbols allowed in a haystack. It is a value type:
// a Matcher keeps its own copy, so callers can reuse or modify theirs freely.
type Alphabet struct {
	set [256]bool
	n   int
}

// Predefined nucleotide alphabets.
var (
	DNA  = AlphabetOf("ACGT")
	DNAN = AlphabetOf("ACGTN")
)

// NewAlphabet builds an alphabet from symbols; duplicates are ignored.
func NewAlphabet(symbols []byte) Alphabet {
	var a Alphabet
	for _, c := range symbols {
		if !a.set[c] {
			a.set[c] = true
			a.n++
		}
	}
	return a
}

// AlphabetOf is NewAlphabet for a string of symbols.
func AlphabetOf(symbols string) Alphabet { return NewAlphabet([]byte(symbols)) }

// Contains reports whether c is a member.
func (a Alphabet) Contains(c byte) bool { return a.set[c] }

// Len is the number of distinct symbols.
func (a Alphabet) Len() int { return a.n }

// Symbols returns the members in byte order.
func (a Alphabet) Symbols() []byte {
	out := make([]byte, 0, a.n)
	for c := 0; c < len(a.set); c++ {
		if a.set[c] {
			out = append(out, byte(c))
		}
	}
	return out
}

func (a Alphabet) String() string { return string(a.Symbols()) }

/* ---------------------------- mask table ---------------------------- */

// maskTable holds one state-word mask per alphabet symbol, plus the mask of
// the hidden sentinel that primes every scan.
//
// For symbol c, bit p (before the final shift) is 0 when the mirrored needle
// position L-1-p accepts c. The shift leaves bit 0 clear, so the empty-prefix
// bit of the state word is never set by a mask.
type maskTable struct {
	masks    [256]uint64
	defined  [256]bool
	sentinel uint64
}

func buildMasks(needle []byte, alpha Alphabet, match func(hay, pat byte) bool) maskTable {
	var t maskTable
	l := len(needle)
	for c := 0; c < 256; c++ {
		if !alpha.set[c] {
			continue
		}
		m := ^uint64(0)
		for p := 0; p < l; p++ {
			if match(byte(c), needle[l-1-p]) {
				m &^= uint64(1) << uint(p)
			}
		}
		t.masks[c] = m << 1
		t.defined[c] = true
	}
	// No needle position accepts the sentinel.
	t.sentinel = ^uint64(1)
	return t
}

// at returns the mask for haystack index i; i == len(hay) is the sentinel.
func (t *maskTable) at(hay []byte, i int) (uint64, error) {
	if i == len(hay) {
		return t.sentinel, nil
	}
	c := hay[i]
	if !t.defined[c] {
		return 0, &UndefinedSymbolError{Symbol: c, Pos: i}
	}
	return t.masks[c], nil
}

func equalSymbols(hay, pat byte) bool { return hay == pat }
