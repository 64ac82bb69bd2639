package engine

import "github.com/nathoo/permutemmo/engine/advance"

// WaveIndex counts the wave clears on the result's path.
func (r Result) WaveIndex() int {
	n := 0
	for _, a := range r.Advances {
		if a.Type == advance.CR {
			n++
		}
	}
	return n
}

// IsBonus reports whether the result spawned after at least one wave clear.
func (r Result) IsBonus() bool {
	return r.WaveIndex() != 0
}

// NearestParent returns the closest earlier result whose path is a
// strict prefix of result i.
func (m *Meta) NearestParent(i int) (Result, bool) {
	child := m.Results[i].Advances
	for j := i - 1; j >= 0; j-- {
		if advance.IsPrefix(m.Results[j].Advances, child) {
			return m.Results[j], true
		}
	}
	return Result{}, false
}

// HasChildChain reports whether the following result extends result i.
func (m *Meta) HasChildChain(i int) bool {
	if i+1 >= len(m.Results) {
		return false
	}
	return advance.IsPrefix(m.Results[i].Advances, m.Results[i+1].Advances)
}

// IsMultiResult reports whether a neighbouring result shares the exact
// advance sequence of result i.
func (m *Meta) IsMultiResult(i int) bool {
	path := m.Results[i].Advances
	if i > 0 && advance.SequenceEqual(m.Results[i-1].Advances, path) {
		return true
	}
	return i+1 < len(m.Results) && advance.SequenceEqual(m.Results[i+1].Advances, path)
}

// GroupByDepth buckets results by path length, in ascending order.
func (m *Meta) GroupByDepth() [][]Result {
	maxLen := -1
	for _, r := range m.Results {
		maxLen = max(maxLen, len(r.Advances))
	}
	var groups [][]Result
	for n := 0; n <= maxLen; n++ {
		var g []Result
		for _, r := range m.Results {
			if len(r.Advances) == n {
				g = append(g, r)
			}
		}
		if len(g) != 0 {
			groups = append(groups, g)
		}
	}
	return groups
}
