package stress

import (
	"slices"

	"golang.org/x/exp/constraints"
)

// Tally is a multiset of integers. Each consumer keeps its own tally so the
// hot loop never shares a map; tallies are merged once the run is over.
type Tally[T constraints.Integer] struct {
	counts map[T]int
	total  int
}

// NewTally creates an empty tally.
func NewTally[T constraints.Integer]() *Tally[T] {
	return &Tally[T]{counts: make(map[T]int)}
}

// Sequence creates a tally holding every value in [0, n) once.
func Sequence[T constraints.Integer](n T) *Tally[T] {
	t := &Tally[T]{counts: make(map[T]int, int(n))}
	for v := T(0); v < n; v++ {
		t.Add(v)
	}
	return t
}

// Add records one occurrence of v.
func (t *Tally[T]) Add(v T) {
	t.counts[v]++
	t.total++
}

// Merge adds every occurrence recorded in o.
func (t *Tally[T]) Merge(o *Tally[T]) {
	for v, n := range o.counts {
		t.counts[v] += n
	}
	t.total += o.total
}

// Count returns how often v was recorded.
func (t *Tally[T]) Count(v T) int {
	return t.counts[v]
}

// Total returns the number of recorded occurrences.
func (t *Tally[T]) Total() int {
	return t.total
}

// Diff compares t against want. missing lists values t holds fewer times
// than want, extra lists values t holds more times; a value appears once per
// occurrence of difference. Both are sorted.
func (t *Tally[T]) Diff(want *Tally[T]) (missing, extra []T) {
	for v, w := range want.counts {
		for n := t.counts[v]; n < w; n++ {
			missing = append(missing, v)
		}
	}
	for v, n := range t.counts {
		for w := want.counts[v]; w < n; w++ {
			extra = append(extra, v)
		}
	}
	slices.Sort(missing)
	slices.Sort(extra)
	return missing, extra
}
