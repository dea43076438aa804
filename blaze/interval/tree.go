// Copyright (C) 2019-2025, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package interval

import (
	"github.com/google/btree"

	"github.com/ava-labs/blazesync/database"
)

const (
	treeDegree     = 2
	clearWriteSize = 64 * 1024
)

// Tree tracks which block heights are known. Adjacent heights are merged into
// a single interval, and every change is mirrored into the backing database
// so a tree can be rebuilt with NewTree.
//
// Tree is not safe for concurrent use.
type Tree struct {
	db           database.Database
	knownHeights *btree.BTreeG[*Interval]
	// If knownHeights is non-empty, numKnownHeights is the sum of the lengths
	// of every interval in knownHeights.
	numKnownHeights uint64
}

func NewTree(db database.Database) (*Tree, error) {
	intervals, err := GetIntervals(db)
	if err != nil {
		return nil, err
	}

	var (
		knownHeights    = btree.NewG(treeDegree, (*Interval).Less)
		numKnownHeights uint64
	)
	for _, i := range intervals {
		knownHeights.ReplaceOrInsert(i)
		numKnownHeights += i.Len()
	}
	return &Tree{
		db:              db,
		knownHeights:    knownHeights,
		numKnownHeights: numKnownHeights,
	}, nil
}

func (t *Tree) Add(height uint64) error {
	var (
		newInterval = &Interval{
			LowerBound: height,
			UpperBound: height,
		}
		upper *Interval
		lower *Interval
	)
	t.knownHeights.AscendGreaterOrEqual(newInterval, func(item *Interval) bool {
		upper = item
		return false
	})
	if upper.Contains(height) {
		// height is already in the tree
		return nil
	}

	t.knownHeights.DescendLessOrEqual(newInterval, func(item *Interval) bool {
		lower = item
		return false
	})

	t.numKnownHeights++

	var (
		adjacentToLowerBound = upper.AdjacentToLowerBound(height)
		adjacentToUpperBound = lower.AdjacentToUpperBound(height)
	)
	switch {
	case adjacentToLowerBound && adjacentToUpperBound:
		// the upper and lower ranges should be merged
		if err := DeleteInterval(t.db, lower.UpperBound); err != nil {
			return err
		}
		upper.LowerBound = lower.LowerBound
		t.knownHeights.Delete(lower)
		return PutInterval(t.db, upper.UpperBound, lower.LowerBound)
	case adjacentToLowerBound:
		// the upper range should be extended by one on the lower side
		upper.LowerBound = height
		return PutInterval(t.db, upper.UpperBound, height)
	case adjacentToUpperBound:
		// the lower range should be extended by one on the upper side
		if err := DeleteInterval(t.db, lower.UpperBound); err != nil {
			return err
		}
		t.knownHeights.Delete(lower)
		lower.UpperBound = height
		t.knownHeights.ReplaceOrInsert(lower)
		return PutInterval(t.db, height, lower.LowerBound)
	default:
		t.knownHeights.ReplaceOrInsert(newInterval)
		return PutInterval(t.db, height, height)
	}
}

func (t *Tree) Contains(height uint64) bool {
	var (
		i = &Interval{
			LowerBound: height,
			UpperBound: height,
		}
		higher *Interval
	)
	t.knownHeights.AscendGreaterOrEqual(i, func(item *Interval) bool {
		higher = item
		return false
	})
	return higher.Contains(height)
}

// Flatten returns the known intervals in ascending order.
func (t *Tree) Flatten() []*Interval {
	intervals := make([]*Interval, 0, t.knownHeights.Len())
	t.knownHeights.Ascend(func(item *Interval) bool {
		intervals = append(intervals, &Interval{
			LowerBound: item.LowerBound,
			UpperBound: item.UpperBound,
		})
		return true
	})
	return intervals
}

// Missing returns the gaps in [lower, upper] that are not known, ordered from
// the highest gap to the lowest. upper must be >= lower.
func (t *Tree) Missing(upper, lower uint64) []Interval {
	// The lowest interval ending at or above upper is the only one above the
	// range that may still overlap it.
	pivot := &Interval{
		LowerBound: upper,
		UpperBound: upper,
	}
	t.knownHeights.AscendGreaterOrEqual(pivot, func(item *Interval) bool {
		pivot = item
		return false
	})

	var (
		gaps    []Interval
		next    = upper
		covered bool
	)
	t.knownHeights.DescendLessOrEqual(pivot, func(item *Interval) bool {
		if item.LowerBound > upper {
			return true
		}
		if item.UpperBound < lower {
			return false
		}
		if item.UpperBound < next {
			gaps = append(gaps, Interval{
				LowerBound: item.UpperBound + 1,
				UpperBound: next,
			})
		}
		if item.LowerBound <= lower {
			covered = true
			return false
		}
		next = item.LowerBound - 1
		return true
	})
	if !covered {
		gaps = append(gaps, Interval{
			LowerBound: lower,
			UpperBound: next,
		})
	}
	return gaps
}

// Len returns the number of known heights.
func (t *Tree) Len() uint64 {
	return t.numKnownHeights
}

// Reset forgets every known height, both in memory and in the database.
func (t *Tree) Reset() error {
	t.knownHeights.Clear(false)
	t.numKnownHeights = 0
	return ClearIntervals(t.db)
}
