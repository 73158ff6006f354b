// Package bitset implements SparseBitset: a compact, range-compressed set of
// non-negative integers. It is the leaf-level "present" marker used by
// idlist but has no knowledge of leaves, bunches, or identifiers — it is a
// plain ordered set of uint64.
//
// Internally the set is stored as an ordered list of disjoint (start,
// length) runs keyed by start, held in a github.com/google/btree BTreeG.
// That gives O(log k) lookups for k runs rather than O(n) over individual
// members, and its Clone is itself copy-on-write, so cloning a Set is cheap
// even for a densely populated range.
package bitset

import (
	"iter"

	"github.com/google/btree"
)

const treeDegree = 32

type run struct {
	start  uint64
	length uint64
}

func (r run) end() uint64 { return r.start + r.length }

func lessRun(a, b run) bool { return a.start < b.start }

// Run is a present range [Start, Start+Length) returned by Runs.
type Run struct {
	Start  uint64
	Length uint64
}

// Set is a mutable, range-compressed set of non-negative integers: Set and
// Unset modify the receiver, and Clone gives an independent copy.
// The zero value is not usable; construct one with New.
type Set struct {
	tree  *btree.BTreeG[run]
	count uint64
}

// New returns an empty Set.
func New() *Set {
	return &Set{tree: btree.NewG(treeDegree, lessRun)}
}

func newFromRuns(runs []run, count uint64) *Set {
	t := btree.NewG(treeDegree, lessRun)
	for _, r := range runs {
		t.ReplaceOrInsert(r)
	}
	return &Set{tree: t, count: count}
}

// Clone returns a copy of the set. The underlying btree shares structure
// with the original until one of the two is mutated (copy-on-write).
func (s *Set) Clone() *Set {
	return &Set{tree: s.tree.Clone(), count: s.count}
}

// Count returns |S|, the number of present members.
func (s *Set) Count() uint64 {
	return s.count
}

// Has reports whether i is a member of S.
func (s *Set) Has(i uint64) bool {
	found := false
	s.tree.DescendLessOrEqual(run{start: i}, func(r run) bool {
		found = r.start <= i && i < r.end()
		return false
	})
	return found
}

// Set adds [i, i+n) to S, merging with adjacent or overlapping runs. It is a
// no-op when n == 0.
func (s *Set) Set(i, n uint64) {
	if n == 0 {
		return
	}
	end := i + n
	newStart, newEnd := i, end

	var removed []run
	var removedLen uint64

	// The single closest run that starts strictly before i, if it reaches
	// into [i, end).
	s.tree.DescendLessOrEqual(run{start: i}, func(r run) bool {
		if r.start == i {
			// Handled by the ascending pass below.
			return true
		}
		if r.end() >= i {
			removed = append(removed, r)
			removedLen += r.length
			if r.start < newStart {
				newStart = r.start
			}
			if r.end() > newEnd {
				newEnd = r.end()
			}
		}
		return false
	})

	// Every run starting at or after i that still touches or overlaps
	// [i, end) once newEnd may have grown from the left neighbor.
	s.tree.AscendGreaterOrEqual(run{start: i}, func(r run) bool {
		if r.start > newEnd {
			return false
		}
		removed = append(removed, r)
		removedLen += r.length
		if r.end() > newEnd {
			newEnd = r.end()
		}
		return true
	})

	for _, r := range removed {
		s.tree.Delete(r)
	}
	s.tree.ReplaceOrInsert(run{start: newStart, length: newEnd - newStart})
	s.count += (newEnd - newStart) - removedLen
}

// Unset removes i from S, splitting the enclosing run if necessary. It is a
// no-op if i is not a member.
func (s *Set) Unset(i uint64) {
	var enclosing run
	found := false
	s.tree.DescendLessOrEqual(run{start: i}, func(r run) bool {
		if r.start <= i && i < r.end() {
			enclosing = r
			found = true
		}
		return false
	})
	if !found {
		return
	}

	s.tree.Delete(enclosing)
	if leftLen := i - enclosing.start; leftLen > 0 {
		s.tree.ReplaceOrInsert(run{start: enclosing.start, length: leftLen})
	}
	if rightStart := i + 1; rightStart < enclosing.end() {
		s.tree.ReplaceOrInsert(run{start: rightStart, length: enclosing.end() - rightStart})
	}
	s.count--
}

// IndexOfNth returns the (n+1)-th smallest member of S (0-indexed). ok is
// false if n >= Count().
func (s *Set) IndexOfNth(n uint64) (idx uint64, ok bool) {
	if n >= s.count {
		return 0, false
	}
	var seen uint64
	s.tree.Ascend(func(r run) bool {
		if n < seen+r.length {
			idx = r.start + (n - seen)
			ok = true
			return false
		}
		seen += r.length
		return true
	})
	return idx, ok
}

// CountLessThan returns the number of members of S strictly less than i, and
// whether i itself is a member.
func (s *Set) CountLessThan(i uint64) (count uint64, present bool) {
	s.tree.Ascend(func(r run) bool {
		if r.end() <= i {
			count += r.length
			return true
		}
		if r.start <= i && i < r.end() {
			count += i - r.start
			present = true
		}
		return false
	})
	return count, present
}

// Runs returns present ranges in ascending order.
func (s *Set) Runs() iter.Seq[Run] {
	return func(yield func(Run) bool) {
		s.tree.Ascend(func(r run) bool {
			return yield(Run{Start: r.start, Length: r.length})
		})
	}
}

// Keys returns individual present members in ascending order.
func (s *Set) Keys() iter.Seq[uint64] {
	return func(yield func(uint64) bool) {
		stop := false
		s.tree.Ascend(func(r run) bool {
			for i := uint64(0); i < r.length; i++ {
				if !yield(r.start + i) {
					stop = true
					return false
				}
			}
			return true
		})
		_ = stop
	}
}

// Shifted returns a copy of s with every member offset by delta, used when a
// leaf's StartCounter moves backward during insertBefore's extend-backward
// case.
func (s *Set) Shifted(delta uint64) *Set {
	out := New()
	for r := range s.Runs() {
		out.Set(r.Start+delta, r.Length)
	}
	return out
}

// Slicer partitions a Set's members into consecutive windows, used to split
// a leaf's present-set around a counter boundary.
type Slicer struct {
	set    *Set
	cursor uint64
}

// NewSlicer returns a Slicer positioned at the start of s.
func (s *Set) NewSlicer() *Slicer {
	return &Slicer{set: s}
}

// NextSlice returns the members of the underlying set in
// [cursor, endExclusive), or [cursor, +inf) when endExclusive is nil, as a
// fresh Set re-indexed to start at 0, and advances the cursor to
// endExclusive (or leaves it past the end of the set when endExclusive is
// nil).
func (sl *Slicer) NextSlice(endExclusive *uint64) *Set {
	start := sl.cursor
	var runs []run
	var count uint64

	sl.set.tree.AscendGreaterOrEqual(run{start: 0}, func(r run) bool {
		if r.end() <= start {
			return true
		}
		if endExclusive != nil && r.start >= *endExclusive {
			return false
		}
		clippedStart := r.start
		if clippedStart < start {
			clippedStart = start
		}
		clippedEnd := r.end()
		if endExclusive != nil && clippedEnd > *endExclusive {
			clippedEnd = *endExclusive
		}
		if clippedEnd <= clippedStart {
			return true
		}
		runs = append(runs, run{start: clippedStart - start, length: clippedEnd - clippedStart})
		count += clippedEnd - clippedStart
		return true
	})

	if endExclusive != nil {
		sl.cursor = *endExclusive
	} else {
		sl.cursor = ^uint64(0)
	}

	return newFromRuns(runs, count)
}
