// internal/iupac/iupac.go
package iupac

// One bit per concrete base.
const (
	A uint8 = 1 << iota
	C
	G
	T
)

// codes maps each IUPAC nucleotide code to the bases it stands for.
var codes = [256]uint8{
	'A': A, 'C': C, 'G': G, 'T': T,
	'R': A | G, 'Y': C | T, 'S': G | C, 'W': A | T,
	'K': G | T, 'M': A | C, 'B': C | G | T, 'D': A | G | T,
	'H': A | C | T, 'V': A | C | G, 'N': A | C | G | T,
}

// Mask returns the base set of code c (0 if c is not an IUPAC code).
func Mask(c byte) uint8 { return codes[c] }

// Valid reports whether every byte of seq is an IUPAC nucleotide code.
func Valid(seq []byte) bool {
	for _, c := range seq {
		if codes[c] == 0 {
			return false
		}
	}
	return true
}

// BaseMatch reports whether read base g satisfies pattern code p.
// An 'N' in the read only satisfies an 'N' in the pattern: an unknown
// base is never evidence for a specific one.
//
// Example: BaseMatch('G','R') == true because R = {A,G}
func BaseMatch(g, p byte) bool {
	if g == 'N' {
		return p == 'N'
	}
	gm := codes[g]
	return gm != 0 && gm&^codes[p] == 0
}
