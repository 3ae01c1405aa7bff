// Package rank converts economic values into percentile ranks and map colors.
package rank

import (
	"math"
	"sort"
)

// Table maps a value to its percentile rank in [0,1] within one year's
// cross-section. Tied values share a single rank.
type Table map[float64]float64

// Build constructs a rank table from the given values. Non-finite values are
// filtered out. Each distinct value is assigned the mean of the 0-indexed
// sorted positions of its occurrences, normalized by (n-1); a lone value
// ranks 0.5. Ties therefore render identically and the rank is stable under
// value repetition.
func Build(values []float64) Table {
	finite := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) && !math.IsInf(v, 0) {
			finite = append(finite, v)
		}
	}
	sort.Float64s(finite)

	t := make(Table, len(finite))
	n := len(finite)
	if n == 0 {
		return t
	}

	for i := 0; i < n; {
		j := i
		for j < n && finite[j] == finite[i] {
			j++
		}
		// Mean of positions i..j-1.
		mean := float64(i+j-1) / 2
		r := 0.5
		if n > 1 {
			r = mean / float64(n-1)
		}
		t[finite[i]] = r
		i = j
	}

	return t
}

// Rank looks up the percentile rank of a value. ok is false when the value
// was not part of the distribution (including non-finite queries).
func (t Table) Rank(v float64) (float64, bool) {
	r, ok := t[v]
	return r, ok
}
