// Package timeline provides a boolean step function over the integer time axis.
//
// A Timeline starts out constant at its default value. SetRange overwrites a
// half-open range and DoesCompleteRangeEqual answers whether a range is uniform.
// Values are stored as sorted breakpoints: each breakpoint holds the value in
// effect from its position up to the next breakpoint.
package timeline

import (
	"errors"
	"sort"
)

// ErrInvalidRange is returned when a range ends before it starts.
var ErrInvalidRange = errors.New("timeline: range end precedes start")

type breakpoint struct {
	at    int64
	value bool
}

// Range is a half-open interval [Start, End).
type Range struct {
	Start int64
	End   int64
}

// Timeline is not safe for concurrent use.
type Timeline struct {
	def    bool
	points []breakpoint
}

// New returns a timeline that maps every point to defaultValue.
func New(defaultValue bool) *Timeline {
	return &Timeline{def: defaultValue}
}

// Default reports the value used before the first breakpoint.
func (t *Timeline) Default() bool {
	return t.def
}

// Len returns the number of stored breakpoints.
func (t *Timeline) Len() int {
	return len(t.points)
}

// ValueAt returns the value in effect at point at.
func (t *Timeline) ValueAt(at int64) bool {
	i := t.upperBound(at)
	if i == 0 {
		return t.def
	}
	return t.points[i-1].value
}

// SetRange sets every point of [start, end) to value. Zero-length ranges are
// ignored.
func (t *Timeline) SetRange(start, end int64, value bool) error {
	if start > end {
		return ErrInvalidRange
	}
	if start == end {
		return nil
	}

	endValue := t.ValueAt(end)
	lo := t.lowerBound(start)
	hi := t.upperBound(end)

	before := t.def
	if lo > 0 {
		before = t.points[lo-1].value
	}

	replacement := make([]breakpoint, 0, 2)
	if value != before {
		replacement = append(replacement, breakpoint{at: start, value: value})
	}
	if endValue != value {
		replacement = append(replacement, breakpoint{at: end, value: endValue})
	}

	tail := t.points[hi:]
	merged := make([]breakpoint, 0, lo+len(replacement)+len(tail))
	merged = append(merged, t.points[:lo]...)
	merged = append(merged, replacement...)
	merged = append(merged, tail...)
	t.points = merged
	return nil
}

// DoesCompleteRangeEqual reports whether every point of [start, end) maps to
// value. Empty ranges are vacuously uniform.
func (t *Timeline) DoesCompleteRangeEqual(start, end int64, value bool) bool {
	if start >= end {
		return true
	}
	if t.ValueAt(start) != value {
		return false
	}
	for i := t.upperBound(start); i < len(t.points) && t.points[i].at < end; i++ {
		if t.points[i].value != value {
			return false
		}
	}
	return true
}

// Runs returns the maximal sub-ranges of [from, to) that map to value, in
// ascending order.
func (t *Timeline) Runs(from, to int64, value bool) []Range {
	if from >= to {
		return nil
	}

	var runs []Range
	cursor := from
	current := t.ValueAt(from)
	for i := t.upperBound(from); i < len(t.points) && t.points[i].at < to; i++ {
		p := t.points[i]
		if p.value == current {
			continue
		}
		if current == value {
			runs = append(runs, Range{Start: cursor, End: p.at})
		}
		cursor = p.at
		current = p.value
	}
	if current == value {
		runs = append(runs, Range{Start: cursor, End: to})
	}
	return runs
}

// lowerBound returns the index of the first breakpoint at or after at.
func (t *Timeline) lowerBound(at int64) int {
	return sort.Search(len(t.points), func(i int) bool { return t.points[i].at >= at })
}

// upperBound returns the index of the first breakpoint strictly after at.
func (t *Timeline) upperBound(at int64) int {
	return sort.Search(len(t.points), func(i int) bool { return t.points[i].at > at })
}
