package bitap

import "slices"

// Approximate reports, in ascending order, every start position at which
// the needle occurs within k unit-cost edits (insertion, deletion,
// substitution). Approximate(0) returns the same positions as Exact.
//
// Several adjacent starts may be reported for one occurrence when leading
// symbols can be absorbed by the edit budget; every such start is kept.
func (m *Matcher) Approximate(k int) ([]int, error) {
	if err := CheckDistance(k); err != nil {
		return nil, err
	}

	// row[j] holds the alignments alive with at most j edits; old is the
	// previous position's rows.
	row := make([]uint64, k+1)
	old := make([]uint64, k+1)
	for j := range row {
		row[j] = initialState
	}

	var (
		hit = m.hitBit()
		n   = len(m.hay)
		out []int
	)
	for i := n; i >= 0; i-- {
		mask, err := m.masks.at(m.hay, i)
		if err != nil {
			return nil, err
		}
		old, row = row, old

		row[0] = (old[0] << 1) | mask
		for j := 1; j <= k; j++ {
			ins := old[j-1]              // haystack symbol skipped
			sub := old[j-1] << 1         // symbol replaced
			del := row[j-1] << 1         // needle symbol skipped
			keep := (old[j] << 1) | mask // no edit here
			row[j] = ins & sub & del & keep
		}

		if row[k]&hit == 0 && i < n {
			out = append(out, i)
		}
	}
	slices.Reverse(out)
	return out, nil
}
