// Package reference implements the same public contract as idlist with a
// flat, unbalanced, wholly unoptimized representation — an ordered slice of
// entries. It exists only as a fuzz-testing oracle: every operation is
// O(n) or worse, deliberately, since the point is obvious correctness
// rather than performance.
//
// Unlike idlist, InsertAfter and InsertBefore here do not reject
// identifiers that are already known, and counters are not range-checked.
package reference

import "fmt"

// Entry is one slot of a List: a known identifier and its tombstone state.
type Entry struct {
	BunchID   string
	Counter   uint64
	IsDeleted bool
}

// List is the flat oracle: every known identifier in list order.
type List struct {
	entries []Entry
}

// Empty returns a List with no known identifiers.
func Empty() *List {
	return &List{}
}

// Clone returns an independent copy, so mutating the result never affects
// the receiver (mirroring idlist's persistence contract for the oracle).
func (l *List) Clone() *List {
	out := &List{entries: make([]Entry, len(l.entries))}
	copy(out.entries, l.entries)
	return out
}

func (l *List) find(bunchID string, counter uint64) int {
	for i, e := range l.entries {
		if e.BunchID == bunchID && e.Counter == counter {
			return i
		}
	}
	return -1
}

// InsertAfter inserts count sequential identifiers after the entry
// matching before (or at the head if before is nil).
func (l *List) InsertAfter(before *string, beforeCounter uint64, hasBefore bool, bunchID string, counter, count uint64) (*List, error) {
	out := l.Clone()
	at := 0
	if hasBefore {
		idx := out.find(*before, beforeCounter)
		if idx < 0 {
			return nil, fmt.Errorf("reference: %s@%d not known", *before, beforeCounter)
		}
		at = idx + 1
	}
	fresh := make([]Entry, count)
	for i := uint64(0); i < count; i++ {
		fresh[i] = Entry{BunchID: bunchID, Counter: counter + i}
	}
	out.entries = append(out.entries[:at:at], append(fresh, out.entries[at:]...)...)
	return out, nil
}

// InsertBefore inserts count sequential identifiers before the entry
// matching after (or at the tail if after is nil).
func (l *List) InsertBefore(after *string, afterCounter uint64, hasAfter bool, bunchID string, counter, count uint64) (*List, error) {
	out := l.Clone()
	at := len(out.entries)
	if hasAfter {
		idx := out.find(*after, afterCounter)
		if idx < 0 {
			return nil, fmt.Errorf("reference: %s@%d not known", *after, afterCounter)
		}
		at = idx
	}
	fresh := make([]Entry, count)
	for i := uint64(0); i < count; i++ {
		fresh[i] = Entry{BunchID: bunchID, Counter: counter + i}
	}
	out.entries = append(out.entries[:at:at], append(fresh, out.entries[at:]...)...)
	return out, nil
}

// Delete tombstones the entry matching bunchID/counter, if known.
func (l *List) Delete(bunchID string, counter uint64) *List {
	out := l.Clone()
	if idx := out.find(bunchID, counter); idx >= 0 {
		out.entries[idx].IsDeleted = true
	}
	return out
}

// Undelete clears the tombstone on the entry matching bunchID/counter.
func (l *List) Undelete(bunchID string, counter uint64) (*List, error) {
	out := l.Clone()
	idx := out.find(bunchID, counter)
	if idx < 0 {
		return nil, fmt.Errorf("reference: %s@%d not known", bunchID, counter)
	}
	out.entries[idx].IsDeleted = false
	return out, nil
}

// Uninsert physically removes count identifiers starting at
// (bunchID, counter), skipping any not currently known.
func (l *List) Uninsert(bunchID string, counter, count uint64) *List {
	out := l.Clone()
	var kept []Entry
	for _, e := range out.entries {
		if e.BunchID == bunchID && e.Counter >= counter && e.Counter < counter+count {
			continue
		}
		kept = append(kept, e)
	}
	out.entries = kept
	return out
}

// Length returns the number of present (non-tombstoned) entries.
func (l *List) Length() uint64 {
	var n uint64
	for _, e := range l.entries {
		if !e.IsDeleted {
			n++
		}
	}
	return n
}

// Has reports whether bunchID/counter is known and present.
func (l *List) Has(bunchID string, counter uint64) bool {
	idx := l.find(bunchID, counter)
	return idx >= 0 && !l.entries[idx].IsDeleted
}

// IsKnown reports whether bunchID/counter has ever been inserted and not
// uninserted.
func (l *List) IsKnown(bunchID string, counter uint64) bool {
	return l.find(bunchID, counter) >= 0
}

// At returns the (bunchID, counter) at the given 0-based position among
// present entries.
func (l *List) At(index uint64) (string, uint64, error) {
	var seen uint64
	for _, e := range l.entries {
		if e.IsDeleted {
			continue
		}
		if seen == index {
			return e.BunchID, e.Counter, nil
		}
		seen++
	}
	return "", 0, fmt.Errorf("reference: index %d out of bounds", index)
}

// IndexOf returns bunchID/counter's 0-based position among present
// entries, biased per idlist's Bias contract when known-but-tombstoned:
// bias 0 (none) yields -1, 1 (left) yields position-1, 2 (right) yields
// position.
func (l *List) IndexOf(bunchID string, counter uint64, bias int) (int64, error) {
	idx := l.find(bunchID, counter)
	if idx < 0 {
		return 0, fmt.Errorf("reference: %s@%d not known", bunchID, counter)
	}
	var pos int64
	for _, e := range l.entries[:idx] {
		if !e.IsDeleted {
			pos++
		}
	}
	if !l.entries[idx].IsDeleted {
		return pos, nil
	}
	switch bias {
	case 1:
		return pos - 1, nil
	case 2:
		return pos, nil
	default:
		return -1, nil
	}
}

// Values returns every known entry in list order, present or tombstoned.
func (l *List) Values() []Entry {
	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}
