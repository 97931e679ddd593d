// Package intervals answers whether genomic positions overlap any of a set
// of BED intervals.
package intervals

import (
	"sort"
)

// Interval is a 0-based, half-open range [Start, End) on one chromosome.
type Interval struct {
	Start, End int64
}

// SortByStart orders ivals by their start coordinate, keeping the input
// order of equal starts.
func SortByStart(ivals []Interval) {
	sort.SliceStable(ivals, func(i, j int) bool {
		return ivals[i].Start < ivals[j].Start
	})
}

// Extend grows ival to cover next when the two overlap or are adjacent and
// reports whether it did. next may not start before ival.
func (ival *Interval) Extend(next Interval) bool {
	if next.Start > ival.End {
		return false
	}
	if next.End > ival.End {
		ival.End = next.End
	}
	return true
}

// Flatten merges the overlapping and adjacent intervals of a slice sorted by
// start. The merged intervals reuse the backing array of ivals.
func Flatten(ivals []Interval) []Interval {
	if len(ivals) == 0 {
		return ivals
	}
	last := 0
	for i := 1; i < len(ivals); i++ {
		if !ivals[last].Extend(ivals[i]) {
			last++
			ivals[last] = ivals[i]
		}
	}
	return ivals[:last+1]
}

// Overlap reports whether the 0-based position falls inside one of ivals,
// which must be flattened.
func Overlap(ivals []Interval, position int64) bool {
	for left, right := 0, len(ivals)-1; left <= right; {
		mid := (left + right) / 2
		if ivals[mid].Start > position {
			right = mid - 1
		} else if ivals[mid].End <= position {
			left = mid + 1
		} else {
			return true
		}
	}
	return false
}
