package idlist

import "github.com/orbitcollective/idlist/bitset"

// branchFactor is the fixed maximum number of children of any inner node.
// Fanout is not adaptive: every inner node at a given level has the same
// child height, which keeps split propagation in replace.go simple
// at the cost of not packing sparse subtrees as tightly as a variable-width
// node would.
const branchFactor = 8

// Leaf is a run of identifiers sharing a bunchId with consecutive counters
// [StartCounter, StartCounter+Count), plus a SparseBitset recording which of
// those counters are present (not tombstoned). Leaves are never empty
// (Count >= 1); an empty leaf must be removed during mutation.
type Leaf struct {
	BunchID      string
	StartCounter uint64
	Count        uint64
	Present      *bitset.Set
}

func (l *Leaf) size() uint64      { return l.Present.Count() }
func (l *Leaf) knownSize() uint64 { return l.Count }
func (l *Leaf) height() int       { return 0 }

// endCounter returns the exclusive upper bound of l's counter range.
func (l *Leaf) endCounter() uint64 { return l.StartCounter + l.Count }

// covers reports whether counter c falls within l's known range.
func (l *Leaf) covers(c uint64) bool {
	return c >= l.StartCounter && c < l.endCounter()
}

// node is any tree node: a Leaf, an InnerLeaf, or an InnerInner.
type node interface {
	size() uint64
	knownSize() uint64
	height() int
}

// InnerLeaf is an inner node whose children are Leaves.
type InnerLeaf struct {
	Children   []*Leaf
	sizeCache  uint64
	knownCache uint64
}

func newInnerLeaf(children []*Leaf) *InnerLeaf {
	n := &InnerLeaf{Children: children}
	n.recompute()
	return n
}

func (n *InnerLeaf) recompute() {
	var size, known uint64
	for _, c := range n.Children {
		size += c.size()
		known += c.knownSize()
	}
	n.sizeCache, n.knownCache = size, known
}

func (n *InnerLeaf) size() uint64      { return n.sizeCache }
func (n *InnerLeaf) knownSize() uint64 { return n.knownCache }
func (n *InnerLeaf) height() int       { return 1 }

// InnerInner is an inner node whose children are inner nodes of uniform
// height (either all InnerLeaf or all InnerInner at one shallower height).
type InnerInner struct {
	Children   []node
	sizeCache  uint64
	knownCache uint64
	childHt    int
}

func newInnerInner(children []node) *InnerInner {
	n := &InnerInner{Children: children}
	if len(children) > 0 {
		n.childHt = children[0].height()
	}
	n.recompute()
	return n
}

func (n *InnerInner) recompute() {
	var size, known uint64
	for _, c := range n.Children {
		size += c.size()
		known += c.knownSize()
	}
	n.sizeCache, n.knownCache = size, known
}

func (n *InnerInner) size() uint64      { return n.sizeCache }
func (n *InnerInner) knownSize() uint64 { return n.knownCache }
func (n *InnerInner) height() int       { return n.childHt + 1 }

// firstIdOf descends to the leftmost leaf of n and returns its first id.
// Returns (Identifier{}, false) if n has no leaves at all.
func firstIdOf(n node) (Identifier, bool) {
	switch t := n.(type) {
	case *Leaf:
		return Identifier{BunchID: t.BunchID, Counter: t.StartCounter}, true
	case *InnerLeaf:
		if len(t.Children) == 0 {
			return Identifier{}, false
		}
		return firstIdOf(t.Children[0])
	case *InnerInner:
		if len(t.Children) == 0 {
			return Identifier{}, false
		}
		return firstIdOf(t.Children[0])
	}
	return Identifier{}, false
}

// lastIdOf descends to the rightmost leaf of n and returns its last id.
func lastIdOf(n node) (Identifier, bool) {
	switch t := n.(type) {
	case *Leaf:
		return Identifier{BunchID: t.BunchID, Counter: t.StartCounter + t.Count - 1}, true
	case *InnerLeaf:
		if len(t.Children) == 0 {
			return Identifier{}, false
		}
		return lastIdOf(t.Children[len(t.Children)-1])
	case *InnerInner:
		if len(t.Children) == 0 {
			return Identifier{}, false
		}
		return lastIdOf(t.Children[len(t.Children)-1])
	}
	return Identifier{}, false
}
