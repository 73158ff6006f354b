package idlist

import (
	"fmt"
	"iter"
)

// KnownView is an accessor view over an IdentifierList that treats every
// known identifier — present or tombstoned — as part of the sequence. Its
// At, IndexOf, and Length use knownSize and leaf.Count instead of the
// present bitset.
type KnownView struct {
	root node
}

// Length returns the number of known identifiers, present or tombstoned.
func (v *KnownView) Length() uint64 { return v.root.knownSize() }

// At returns the identifier at the given 0-based position among known
// identifiers. Fails OutOfBounds if index is not in [0, Length()).
func (v *KnownView) At(index uint64) (Identifier, error) {
	if index >= v.root.knownSize() {
		return Identifier{}, fmt.Errorf("%w: index %d", ErrOutOfBounds, index)
	}
	n := v.root
	remainder := index
	for {
		inner, ok := n.(*InnerInner)
		if !ok {
			break
		}
		advanced := false
		for _, c := range inner.Children {
			sz := c.knownSize()
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
		sz := c.knownSize()
		if remainder < sz {
			return Identifier{BunchID: c.BunchID, Counter: c.StartCounter + remainder}, nil
		}
		remainder -= sz
	}
	return Identifier{}, fmt.Errorf("%w: index %d", ErrOutOfBounds, index)
}

// IndexOf returns id's 0-based position among known identifiers, ignoring
// tombstone state entirely. Fails NotKnown if id was never inserted or has
// been uninserted.
func (v *KnownView) IndexOf(id Identifier) (uint64, error) {
	path, leaf, found := locate(v.root, id)
	if !found {
		return 0, fmt.Errorf("%w: %s", ErrNotKnown, id)
	}
	var sum uint64
	for _, entry := range path {
		switch t := entry.n.(type) {
		case *InnerLeaf:
			for i := 0; i < entry.index; i++ {
				sum += t.Children[i].knownSize()
			}
		case *InnerInner:
			for i := 0; i < entry.index; i++ {
				sum += t.Children[i].knownSize()
			}
		}
	}
	sum += id.Counter - leaf.StartCounter
	return sum, nil
}

// Values iterates every known identifier in list order, present or
// tombstoned.
func (v *KnownView) Values() iter.Seq[KnownEntry] {
	return func(yield func(KnownEntry) bool) {
		for leaf := range allLeaves(v.root) {
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
