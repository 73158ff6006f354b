package idlist

import (
	"fmt"
	"iter"

	"github.com/orbitcollective/idlist/bitset"
)

// IdentifierList is the persistent façade over the B+Tree of run-length
// compressed leaves. Every mutator returns a new list; the receiver is
// never modified, and unaffected subtrees are shared between old and new
// versions.
type IdentifierList struct {
	root node
}

// KnownEntry pairs an identifier with whether it is currently tombstoned.
type KnownEntry struct {
	ID        Identifier
	IsDeleted bool
}

// Bias selects the fallback direction for IndexOf when an identifier is
// known but currently tombstoned.
type Bias int

const (
	BiasNone Bias = iota
	BiasLeft
	BiasRight
)

// Empty returns a list with no known identifiers.
func Empty() *IdentifierList {
	return &IdentifierList{root: newInnerLeaf(nil)}
}

// FromIds builds a list in which every identifier in ids is known and
// present, in the given order.
func FromIds(ids []Identifier) (*IdentifierList, error) {
	records := make([]SavedRecord, len(ids))
	for i, id := range ids {
		records[i] = SavedRecord{BunchID: id.BunchID, StartCounter: id.Counter, Count: 1, IsDeleted: false}
	}
	root, err := buildFromRecords(records)
	if err != nil {
		return nil, err
	}
	return &IdentifierList{root: root}, nil
}

// From builds a list from known entries, each carrying its own tombstone
// state, in the given order.
func From(entries []KnownEntry) (*IdentifierList, error) {
	records := make([]SavedRecord, len(entries))
	for i, e := range entries {
		records[i] = SavedRecord{BunchID: e.ID.BunchID, StartCounter: e.ID.Counter, Count: 1, IsDeleted: e.IsDeleted}
	}
	root, err := buildFromRecords(records)
	if err != nil {
		return nil, err
	}
	return &IdentifierList{root: root}, nil
}

func newLeafFromIDs(newID Identifier, count uint64) *Leaf {
	present := bitset.New()
	present.Set(0, count)
	return &Leaf{BunchID: newID.BunchID, StartCounter: newID.Counter, Count: count, Present: present}
}

// splitLeafAt divides leaf at the absolute counter splitCounter into a left
// remainder [leaf.StartCounter, splitCounter) and a right remainder
// [splitCounter, leaf.endCounter()), each carrying its own slice of the
// present bitset, re-indexed to start at 0.
func splitLeafAt(leaf *Leaf, splitCounter uint64) (left, right *Leaf) {
	relSplit := splitCounter - leaf.StartCounter
	slicer := leaf.Present.NewSlicer()
	leftPresent := slicer.NextSlice(&relSplit)
	rightPresent := slicer.NextSlice(nil)
	left = &Leaf{BunchID: leaf.BunchID, StartCounter: leaf.StartCounter, Count: relSplit, Present: leftPresent}
	right = &Leaf{BunchID: leaf.BunchID, StartCounter: splitCounter, Count: leaf.Count - relSplit, Present: rightPresent}
	return left, right
}

// validateNewRange checks the preconditions shared by InsertAfter and
// InsertBefore: counters in range, and none of the count new identifiers
// already known.
func (l *IdentifierList) validateNewRange(newID Identifier, count uint64) error {
	if !validCounter(newID.Counter) {
		return fmt.Errorf("%w: counter %d out of range", ErrInvalidArgument, newID.Counter)
	}
	ids, err := expand(newID, count)
	if err != nil {
		return err
	}
	for _, id := range ids {
		if l.IsKnown(id) {
			return fmt.Errorf("%w: %s", ErrAlreadyKnown, id)
		}
	}
	return nil
}

// InsertAfter inserts count sequential identifiers starting at newID
// immediately to the right of before. before == nil inserts at the head.
// Fails NotKnown if before is not known, InvalidArgument if the new counter
// range exceeds maxSafeCounter, and AlreadyKnown if any new identifier is
// already known.
func (l *IdentifierList) InsertAfter(before *Identifier, newID Identifier, count uint64) (*IdentifierList, error) {
	var path []pathEntry
	var leaf *Leaf
	if before != nil {
		p, lf, found := locate(l.root, *before)
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrNotKnown, *before)
		}
		path, leaf = p, lf
	}
	if count == 0 {
		return l, nil
	}
	if err := l.validateNewRange(newID, count); err != nil {
		return nil, err
	}

	if before == nil {
		first, ok := firstIdOf(l.root)
		if !ok {
			return &IdentifierList{root: newInnerLeaf([]*Leaf{newLeafFromIDs(newID, count)})}, nil
		}
		return l.InsertBefore(&first, newID, count)
	}

	c := before.Counter
	var newLeaves []*Leaf
	switch {
	case c == leaf.StartCounter+leaf.Count-1:
		if newID.BunchID == leaf.BunchID && newID.Counter == leaf.StartCounter+leaf.Count {
			extended := &Leaf{
				BunchID:      leaf.BunchID,
				StartCounter: leaf.StartCounter,
				Count:        leaf.Count + count,
				Present:      leaf.Present.Clone(),
			}
			extended.Present.Set(leaf.Count, count)
			newLeaves = []*Leaf{extended}
		} else {
			newLeaves = []*Leaf{leaf, newLeafFromIDs(newID, count)}
		}
	default:
		left, right := splitLeafAt(leaf, c+1)
		newLeaves = []*Leaf{left, newLeafFromIDs(newID, count), right}
	}
	return &IdentifierList{root: replaceLeaf(path, newLeaves)}, nil
}

// InsertBefore inserts count sequential identifiers starting at newID
// immediately to the left of after. after == nil inserts at the tail.
// Fails NotKnown if after is not known, InvalidArgument if the new counter
// range exceeds maxSafeCounter, and AlreadyKnown if any new identifier is
// already known.
func (l *IdentifierList) InsertBefore(after *Identifier, newID Identifier, count uint64) (*IdentifierList, error) {
	var path []pathEntry
	var leaf *Leaf
	if after != nil {
		p, lf, found := locate(l.root, *after)
		if !found {
			return nil, fmt.Errorf("%w: %s", ErrNotKnown, *after)
		}
		path, leaf = p, lf
	}
	if count == 0 {
		return l, nil
	}
	if err := l.validateNewRange(newID, count); err != nil {
		return nil, err
	}

	if after == nil {
		last, ok := lastIdOf(l.root)
		if !ok {
			return &IdentifierList{root: newInnerLeaf([]*Leaf{newLeafFromIDs(newID, count)})}, nil
		}
		return l.InsertAfter(&last, newID, count)
	}

	c := after.Counter
	var newLeaves []*Leaf
	switch {
	case c == leaf.StartCounter:
		if newID.BunchID == leaf.BunchID && newID.Counter+count == leaf.StartCounter {
			extended := &Leaf{
				BunchID:      leaf.BunchID,
				StartCounter: newID.Counter,
				Count:        leaf.Count + count,
				Present:      leaf.Present.Shifted(count),
			}
			extended.Present.Set(0, count)
			newLeaves = []*Leaf{extended}
		} else {
			newLeaves = []*Leaf{newLeafFromIDs(newID, count), leaf}
		}
	default:
		left, right := splitLeafAt(leaf, c)
		newLeaves = []*Leaf{left, newLeafFromIDs(newID, count), right}
	}
	return &IdentifierList{root: replaceLeaf(path, newLeaves)}, nil
}

// Delete tombstones id. A no-op if id is not known or already deleted.
func (l *IdentifierList) Delete(id Identifier) *IdentifierList {
	path, leaf, found := locate(l.root, id)
	if !found {
		return l
	}
	rel := id.Counter - leaf.StartCounter
	if !leaf.Present.Has(rel) {
		return l
	}
	newLeaf := &Leaf{BunchID: leaf.BunchID, StartCounter: leaf.StartCounter, Count: leaf.Count, Present: leaf.Present.Clone()}
	newLeaf.Present.Unset(rel)
	return &IdentifierList{root: replaceLeaf(path, []*Leaf{newLeaf})}
}

// Undelete clears id's tombstone. Fails NotKnown if id was never inserted;
// a no-op if id is already present.
func (l *IdentifierList) Undelete(id Identifier) (*IdentifierList, error) {
	path, leaf, found := locate(l.root, id)
	if !found {
		return nil, fmt.Errorf("%w: %s", ErrNotKnown, id)
	}
	rel := id.Counter - leaf.StartCounter
	if leaf.Present.Has(rel) {
		return l, nil
	}
	newLeaf := &Leaf{BunchID: leaf.BunchID, StartCounter: leaf.StartCounter, Count: leaf.Count, Present: leaf.Present.Clone()}
	newLeaf.Present.Set(rel, 1)
	return &IdentifierList{root: replaceLeaf(path, []*Leaf{newLeaf})}, nil
}

// Uninsert physically removes the count identifiers starting at id,
// skipping any that are not currently known. Unlike Delete, a tombstone
// is not left behind: the identifier may later be reused by a caller
// that tracks allocation externally.
func (l *IdentifierList) Uninsert(id Identifier, count uint64) *IdentifierList {
	cur := l
	for i := uint64(0); i < count; i++ {
		cur = cur.uninsertOne(Identifier{BunchID: id.BunchID, Counter: id.Counter + i})
	}
	return cur
}

func (l *IdentifierList) uninsertOne(id Identifier) *IdentifierList {
	path, leaf, found := locate(l.root, id)
	if !found {
		return l
	}
	rel := id.Counter - leaf.StartCounter

	slicer := leaf.Present.NewSlicer()
	leftEnd := rel
	leftPresent := slicer.NextSlice(&leftEnd)
	holeEnd := rel + 1
	_ = slicer.NextSlice(&holeEnd)
	rightPresent := slicer.NextSlice(nil)

	var newLeaves []*Leaf
	if rel > 0 {
		newLeaves = append(newLeaves, &Leaf{BunchID: leaf.BunchID, StartCounter: leaf.StartCounter, Count: rel, Present: leftPresent})
	}
	if rel+1 < leaf.Count {
		newLeaves = append(newLeaves, &Leaf{BunchID: leaf.BunchID, StartCounter: leaf.StartCounter + rel + 1, Count: leaf.Count - rel - 1, Present: rightPresent})
	}
	return &IdentifierList{root: replaceLeaf(path, newLeaves)}
}

// Length returns the number of present (non-tombstoned) identifiers.
func (l *IdentifierList) Length() uint64 { return l.root.size() }

// Has reports whether id is known and present.
func (l *IdentifierList) Has(id Identifier) bool {
	_, leaf, found := locate(l.root, id)
	if !found {
		return false
	}
	return leaf.Present.Has(id.Counter - leaf.StartCounter)
}

// IsKnown reports whether id has ever been inserted and not uninserted.
func (l *IdentifierList) IsKnown(id Identifier) bool {
	_, _, found := locate(l.root, id)
	return found
}

// MaxCounter returns the largest counter among known identifiers with the
// given bunch, or ok == false if none exist.
func (l *IdentifierList) MaxCounter(bunchID string) (counter uint64, ok bool) {
	for leaf := range allLeaves(l.root) {
		if leaf.BunchID != bunchID {
			continue
		}
		end := leaf.StartCounter + leaf.Count - 1
		if !ok || end > counter {
			counter, ok = end, true
		}
	}
	return counter, ok
}

// At returns the identifier at the given 0-based position among present
// identifiers. Fails OutOfBounds if index is not in [0, Length()).
func (l *IdentifierList) At(index uint64) (Identifier, error) {
	if index >= l.root.size() {
		return Identifier{}, fmt.Errorf("%w: index %d", ErrOutOfBounds, index)
	}
	n := l.root
	remainder := index
	for {
		inner, ok := n.(*InnerInner)
		if !ok {
			break
		}
		advanced := false
		for _, c := range inner.Children {
			sz := c.size()
			if remainder < sz {
				n, advanced = c, true
				break
			}
			remainder -= sz
		}
		if !advanced {
			return Identifier{}, fmt.Errorf("%w: index %d", ErrOutOfBounds, index)
		}
	}
	leafParent := n.(*InnerLeaf)
	for _, c := range leafParent.Children {
		sz := c.size()
		if remainder < sz {
			rel, ok := c.Present.IndexOfNth(remainder)
			if !ok {
				return Identifier{}, fmt.Errorf("%w: index %d", ErrOutOfBounds, index)
			}
			return Identifier{BunchID: c.BunchID, Counter: c.StartCounter + rel}, nil
		}
		remainder -= sz
	}
	return Identifier{}, fmt.Errorf("%w: index %d", ErrOutOfBounds, index)
}

// IndexOf returns id's 0-based position among present identifiers. If id is
// known but tombstoned, bias selects the result: BiasNone yields -1,
// BiasLeft yields the position just before where it would be if present,
// BiasRight yields the position it would occupy if present. Fails NotKnown
// if id was never inserted or has been uninserted.
func (l *IdentifierList) IndexOf(id Identifier, bias Bias) (int64, error) {
	path, leaf, found := locate(l.root, id)
	if !found {
		return 0, fmt.Errorf("%w: %s", ErrNotKnown, id)
	}
	var sum uint64
	for _, entry := range path {
		switch t := entry.n.(type) {
		case *InnerLeaf:
			for i := 0; i < entry.index; i++ {
				sum += t.Children[i].size()
			}
		case *InnerInner:
			for i := 0; i < entry.index; i++ {
				sum += t.Children[i].size()
			}
		}
	}
	rel := id.Counter - leaf.StartCounter
	lessCount, present := leaf.Present.CountLessThan(rel)
	sum += lessCount
	if present {
		return int64(sum), nil
	}
	switch bias {
	case BiasLeft:
		return int64(sum) - 1, nil
	case BiasRight:
		return int64(sum), nil
	default:
		return -1, nil
	}
}

// Values iterates present identifiers in list order.
func (l *IdentifierList) Values() iter.Seq[Identifier] {
	return func(yield func(Identifier) bool) {
		for leaf := range allLeaves(l.root) {
			for rel := range leaf.Present.Keys() {
				if !yield(Identifier{BunchID: leaf.BunchID, Counter: leaf.StartCounter + rel}) {
					return
				}
			}
		}
	}
}

// ValuesWithDeleted iterates every known identifier in list order, present
// or tombstoned.
func (l *IdentifierList) ValuesWithDeleted() iter.Seq[KnownEntry] {
	return func(yield func(KnownEntry) bool) {
		for leaf := range allLeaves(l.root) {
			for rel := uint64(0); rel < leaf.Count; rel++ {
				entry := KnownEntry{
					ID:        Identifier{BunchID: leaf.BunchID, Counter: leaf.StartCounter + rel},
					IsDeleted: !leaf.Present.Has(rel),
				}
				if !yield(entry) {
					return
				}
			}
		}
	}
}

// Known returns a view over this list that ignores tombstones entirely.
func (l *IdentifierList) Known() *KnownView {
	return &KnownView{root: l.root}
}

// Save returns l's contents as a run-length compressed, maximally merged
// sequence of records in list order.
func (l *IdentifierList) Save() []SavedRecord {
	return save(l.root)
}

// allLeaves walks every leaf of the tree rooted at n, in list order.
func allLeaves(n node) iter.Seq[*Leaf] {
	return func(yield func(*Leaf) bool) {
		var walk func(node) bool
		walk = func(n node) bool {
			switch t := n.(type) {
			case *Leaf:
				return yield(t)
			case *InnerLeaf:
				for _, c := range t.Children {
					if !yield(c) {
						return false
					}
				}
				return true
			case *InnerInner:
				for _, c := range t.Children {
					if !walk(c) {
						return false
					}
				}
				return true
			}
			return true
		}
		walk(n)
	}
}
