package bitap

// WordBits is the width of the state words and masks.
const WordBits = 64

const (
	// MaxNeedleLen leaves one bit of the word for the empty-prefix state.
	MaxNeedleLen = WordBits - 1
	// MaxDistance bounds the number of edit-budget rows per scan.
	MaxDistance = MaxNeedleLen
)

// initialState has every bit set except bit 0: only the empty prefix matches.
const initialState = ^uint64(1)

// Matcher binds a needle and alphabet to a haystack. The mask table is built
// once in New and reused across Rebind calls.
type Matcher struct {
	needle []byte
	alpha  Alphabet
	masks  maskTable
	hay    []byte
}

type options struct {
	haystack []byte
	match    func(hay, pat byte) bool
}

// Option configures New.
type Option func(*options)

// WithHaystack binds an initial haystack.
func WithHaystack(h []byte) Option {
	return func(o *options) { o.haystack = h }
}

// WithSymbolMatch replaces byte equality when deciding whether a haystack
// symbol satisfies a needle symbol (e.g. iupac.BaseMatch for degenerate
// needles). Needle symbols are then not required to be alphabet members.
func WithSymbolMatch(fn func(hay, pat byte) bool) Option {
	return func(o *options) { o.match = fn }
}

// New validates needle and builds its mask table.
func New(needle []byte, alphabet Alphabet, opts ...Option) (*Matcher, error) {
	var o options
	for _, fn := range opts {
		fn(&o)
	}

	if len(needle) > MaxNeedleLen {
		return nil, &NeedleTooLongError{Len: len(needle)}
	}
	match := o.match
	if match == nil {
		// Plain equality: a needle symbol outside the alphabet could never match.
		for i, c := range needle {
			if !alphabet.Contains(c) {
				return nil, &UndefinedSymbolError{Symbol: c, Pos: i, InNeedle: true}
			}
		}
		match = equalSymbols
	}

	n := append([]byte(nil), needle...)
	return &Matcher{
		needle: n,
		alpha:  alphabet,
		masks:  buildMasks(n, alphabet, match),
		hay:    o.haystack,
	}, nil
}

// Rebind replaces the haystack. The slice is not copied and must not be
// modified while a scan runs.
func (m *Matcher) Rebind(haystack []byte) { m.hay = haystack }

// Haystack returns the bound haystack (the sentinel is never part of it).
func (m *Matcher) Haystack() []byte { return m.hay }

// Needle returns the Matcher's private copy of the needle.
func (m *Matcher) Needle() []byte { return m.needle }

// Alphabet returns the alphabet the masks were built from.
func (m *Matcher) Alphabet() Alphabet { return m.alpha }

// hitBit is the state bit that is 0 when the whole needle has been consumed.
func (m *Matcher) hitBit() uint64 { return uint64(1) << uint(len(m.needle)) }

// CheckDistance reports whether k is an acceptable edit budget.
func CheckDistance(k int) error {
	if k < 0 || k > MaxDistance {
		return &InvalidDistanceError{K: k}
	}
	return nil
}

// Search is a one-shot Approximate(k) for needle in haystack.
func Search(needle, haystack []byte, alphabet Alphabet, k int) ([]int, error) {
	m, err := New(needle, alphabet, WithHaystack(haystack))
	if err != nil {
		return nil, err
	}
	return m.Approximate(k)
}
