// Package intervals provides the ordered interval-set backbone of the pixel
// sorter: per-row collections of disjoint half-open column ranges supporting
// point splits and region removal, plus the partitioning functions that carve
// the sets according to image content.
package intervals

import (
	"fmt"
	"iter"
	"slices"
)

// Range is a half-open range [Start, End) of column indices within one row.
type Range struct {
	Start int
	End   int
}

// Len returns the number of columns the range covers.
func (r Range) Len() int {
	return r.End - r.Start
}

// Contains reports whether the column lies inside the range.
func (r Range) Contains(at int) bool {
	return r.Start <= at && at < r.End
}

// String renders the range in half-open notation.
func (r Range) String() string {
	return fmt.Sprintf("[%d,%d)", r.Start, r.End)
}

// Set is an ordered collection of disjoint, non-empty half-open ranges over
// one row's columns. Ranges stay sorted by start ascending and no stored range
// is ever empty. Adjacent ranges may legally remain un-merged after a removal;
// no operation depends on merging.
//
// A Set is owned by a single row's processing step and is not safe for
// concurrent mutation.
type Set struct {
	ranges []Range
}

// New creates a set holding the single range [0, size). A non-positive size
// yields an empty set.
func New(size int) *Set {
	if size <= 0 {
		return &Set{}
	}

	return &Set{ranges: []Range{{Start: 0, End: size}}}
}

// FromRanges creates a set from pre-built ranges without validation. Callers
// must guarantee the ranges are non-empty, pairwise disjoint, and ordered by
// start ascending; behavior is undefined otherwise.
func FromRanges(ranges []Range) *Set {
	return &Set{ranges: slices.Clone(ranges)}
}

// RowsFor creates the row collection for an image: one full-width set per row.
func RowsFor(width, height int) []*Set {
	if height < 0 {
		height = 0
	}

	rows := make([]*Set, height)
	for i := range rows {
		rows[i] = New(width)
	}

	return rows
}

// SplitAt divides the range containing the given column at that column.
//
// When the column lies strictly inside a range, the range becomes
// [start, at) and [at, end) and the indices of the two halves are returned
// with right == left+1. When the column coincides with a range's start no
// structural change occurs and left == right; repeated identical splits are
// idempotent. When no stored range covers the column, ok is false: the point
// lies in a gap or outside the set's extent.
//
// No empty range is ever produced: a boundary hit returns the existing index
// pair instead of inserting a degenerate entry.
func (s *Set) SplitAt(at int) (left, right int, ok bool) {
	idx := -1

	for i, r := range s.ranges {
		if r.Start > at {
			break
		}

		idx = i
	}

	if idx < 0 || at >= s.ranges[idx].End {
		return 0, 0, false
	}

	if s.ranges[idx].Start == at {
		return idx, idx, true
	}

	end := s.ranges[idx].End
	s.ranges[idx].End = at
	s.ranges = slices.Insert(s.ranges, idx+1, Range{Start: at, End: end})

	return idx, idx + 1, true
}

// PopAt removes and returns the range at the given position. Out-of-bounds
// positions report ok false and leave the set unchanged.
func (s *Set) PopAt(idx int) (Range, bool) {
	if idx < 0 || idx >= len(s.ranges) {
		return Range{}, false
	}

	popped := s.ranges[idx]
	s.ranges = slices.Delete(s.ranges, idx, idx+1)

	return popped, true
}

// Remove drops every covered column in [start, end) from the set.
//
// Both endpoints are first turned into boundaries via SplitAt, after which
// every stored range is either fully inside or fully outside the removal
// region; the inside ones are dropped. This also handles regions that begin
// or end inside a gap: stored ranges fully contained in the region are still
// removed even when neither split lands.
func (s *Set) Remove(start, end int) {
	if end <= start {
		return
	}

	s.SplitAt(start)
	s.SplitAt(end)

	s.ranges = slices.DeleteFunc(s.ranges, func(r Range) bool {
		return start <= r.Start && r.End <= end
	})
}

// RemoveFrom drops every covered column from start to the set's current end.
func (s *Set) RemoveFrom(start int) {
	s.Remove(start, s.End())
}

// RemoveTo drops every covered column from the set's current start up to end.
func (s *Set) RemoveTo(end int) {
	s.Remove(s.Start(), end)
}

// Clear drops every range.
func (s *Set) Clear() {
	s.ranges = s.ranges[:0]
}

// Start returns the smallest covered column, or 0 for an empty set.
func (s *Set) Start() int {
	if len(s.ranges) == 0 {
		return 0
	}

	return s.ranges[0].Start
}

// End returns one past the largest covered column, or 0 for an empty set.
func (s *Set) End() int {
	if len(s.ranges) == 0 {
		return 0
	}

	return s.ranges[len(s.ranges)-1].End
}

// FullRange returns the set's current extent [Start, End).
func (s *Set) FullRange() Range {
	return Range{Start: s.Start(), End: s.End()}
}

// Len returns the number of stored ranges.
func (s *Set) Len() int {
	return len(s.ranges)
}

// All returns a restartable iterator over the stored ranges in ascending
// order. The set must not be mutated while iterating.
func (s *Set) All() iter.Seq[Range] {
	return func(yield func(Range) bool) {
		for _, r := range s.ranges {
			if !yield(r) {
				return
			}
		}
	}
}

// Ranges returns a copy of the stored ranges in ascending order.
func (s *Set) Ranges() []Range {
	return slices.Clone(s.ranges)
}
