package bitap

import "slices"

// Exact reports, in ascending order, every start position at which the
// needle occurs in the bound haystack without edits.
//
// The scan runs from the sentinel (index len(haystack)) down to index 0;
// with the mirrored masks, bit L of the state word is 0 exactly when the
// needle starts at the current index.
func (m *Matcher) Exact() ([]int, error) {
	var (
		hit = m.hitBit()
		n   = len(m.hay)
		r   = initialState
		out []int
	)
	for i := n; i >= 0; i-- {
		mask, err := m.masks.at(m.hay, i)
		if err != nil {
			return nil, err
		}
		r = (r << 1) | mask
		if r&hit == 0 && i < n {
			out = append(out, i)
		}
	}
	slices.Reverse(out)
	return out, nil
}
