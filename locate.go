package idlist

// pathEntry is one step of a root-to-leaf path: the inner node at that level
// and the index of the child (towards the leaf) within it.
type pathEntry struct {
	n     node
	index int
}

// locate searches the tree rooted at root for the unique leaf whose BunchID
// matches id.BunchID and whose counter range contains id.Counter. It returns
// the root-to-parent path (path[len(path)-1] is the leaf's immediate
// parent) and the leaf itself. found is false if no such leaf exists.
//
// This is a depth-first, left-to-right search: every child of an InnerInner
// is searched in turn, with no pruning by bunch or counter range, and only
// at an InnerLeaf is each leaf's bunch and range compared. Its cost is
// linear in the number of leaves before the match, and a lookup of an
// identifier that is not known visits every leaf; it is not an O(M·h)
// descent.
func locate(root node, id Identifier) (path []pathEntry, leaf *Leaf, found bool) {
	return locateIn(root, id, nil)
}

func locateIn(n node, id Identifier, path []pathEntry) ([]pathEntry, *Leaf, bool) {
	switch t := n.(type) {
	case *Leaf:
		if t.BunchID == id.BunchID && t.covers(id.Counter) {
			return path, t, true
		}
		return path, nil, false
	case *InnerLeaf:
		for i, child := range t.Children {
			if child.BunchID != id.BunchID || !child.covers(id.Counter) {
				continue
			}
			return append(path, pathEntry{n: t, index: i}), child, true
		}
		return path, nil, false
	case *InnerInner:
		for i, child := range t.Children {
			p, leaf, ok := locateIn(child, id, append(path, pathEntry{n: t, index: i}))
			if ok {
				return p, leaf, true
			}
		}
		return path, nil, false
	}
	return path, nil, false
}
