package idlist

import (
	"fmt"

	"github.com/orbitcollective/idlist/bitset"
)

// SavedRecord is one entry of the external Saved format: a run of
// consecutive counters under one bunch, all present or all deleted.
type SavedRecord struct {
	BunchID      string
	StartCounter uint64
	Count        uint64
	IsDeleted    bool
}

// save walks root's leaves in list order, emitting present runs and deleted
// gaps, coalescing adjacent records that share a bunch, tombstone state,
// and abutting counter range.
func save(root node) []SavedRecord {
	var out []SavedRecord
	for leaf := range allLeaves(root) {
		emitLeaf(leaf, &out)
	}
	return out
}

func emitLeaf(leaf *Leaf, out *[]SavedRecord) {
	var cursor uint64
	for r := range leaf.Present.Runs() {
		if r.Start > cursor {
			appendCoalesced(out, SavedRecord{
				BunchID:      leaf.BunchID,
				StartCounter: leaf.StartCounter + cursor,
				Count:        r.Start - cursor,
				IsDeleted:    true,
			})
		}
		appendCoalesced(out, SavedRecord{
			BunchID:      leaf.BunchID,
			StartCounter: leaf.StartCounter + r.Start,
			Count:        r.Length,
			IsDeleted:    false,
		})
		cursor = r.Start + r.Length
	}
	if cursor < leaf.Count {
		appendCoalesced(out, SavedRecord{
			BunchID:      leaf.BunchID,
			StartCounter: leaf.StartCounter + cursor,
			Count:        leaf.Count - cursor,
			IsDeleted:    true,
		})
	}
}

func appendCoalesced(out *[]SavedRecord, rec SavedRecord) {
	if rec.Count == 0 {
		return
	}
	if n := len(*out); n > 0 {
		prev := &(*out)[n-1]
		if prev.BunchID == rec.BunchID && prev.IsDeleted == rec.IsDeleted && prev.StartCounter+prev.Count == rec.StartCounter {
			prev.Count += rec.Count
			return
		}
	}
	*out = append(*out, rec)
}

// pendingLeaf accumulates consecutive records belonging to the same leaf
// while buildFromRecords walks the input.
type pendingLeaf struct {
	bunchID string
	start   uint64
	count   uint64
	present *bitset.Set
}

// buildFromRecords validates records, greedily coalesces them into leaves,
// and assembles a balanced M-ary tree from the result.
//
// Overlapping or duplicate ranges for the same bunch fail with
// ErrInvalidArgument rather than silently producing a tree that violates
// the one-leaf-per-identifier invariant.
func buildFromRecords(records []SavedRecord) (node, error) {
	var leaves []*Leaf
	var pend *pendingLeaf

	flush := func() {
		if pend == nil {
			return
		}
		leaves = append(leaves, &Leaf{BunchID: pend.bunchID, StartCounter: pend.start, Count: pend.count, Present: pend.present})
		pend = nil
	}

	for _, rec := range records {
		if rec.Count == 0 {
			continue
		}
		if !validCounter(rec.StartCounter) || rec.StartCounter+rec.Count-1 > maxSafeCounter {
			return nil, fmt.Errorf("%w: counter range [%d,%d) exceeds safe range", ErrInvalidArgument, rec.StartCounter, rec.StartCounter+rec.Count)
		}

		extendsPend := pend != nil && pend.bunchID == rec.BunchID && pend.start+pend.count == rec.StartCounter
		if !extendsPend {
			flush()
		}

		recEnd := rec.StartCounter + rec.Count
		for _, existing := range leaves {
			if existing.BunchID != rec.BunchID {
				continue
			}
			existingEnd := existing.StartCounter + existing.Count
			if rec.StartCounter < existingEnd && existing.StartCounter < recEnd {
				return nil, fmt.Errorf("%w: overlapping range for bunch %q", ErrInvalidArgument, rec.BunchID)
			}
		}

		if extendsPend {
			if !rec.IsDeleted {
				pend.present.Set(pend.count, rec.Count)
			}
			pend.count += rec.Count
			continue
		}

		present := bitset.New()
		if !rec.IsDeleted {
			present.Set(0, rec.Count)
		}
		pend = &pendingLeaf{bunchID: rec.BunchID, start: rec.StartCounter, count: rec.Count, present: present}
	}
	flush()

	return buildBalanced(leaves), nil
}

// buildBalanced groups leaves into a near-perfect M-ary tree by recursive
// chunking: only the rightmost branch at any level may be underfull.
func buildBalanced(leaves []*Leaf) node {
	if len(leaves) == 0 {
		return newInnerLeaf(nil)
	}

	var level []node
	for i := 0; i < len(leaves); i += branchFactor {
		end := min(i+branchFactor, len(leaves))
		level = append(level, newInnerLeaf(leaves[i:end]))
	}
	for len(level) > 1 {
		var next []node
		for i := 0; i < len(level); i += branchFactor {
			end := min(i+branchFactor, len(level))
			next = append(next, newInnerInner(append([]node(nil), level[i:end]...)))
		}
		level = next
	}
	return level[0]
}

// Load rebuilds a list from a Saved sequence produced by Save (or an
// equivalent external encoding). The result is always balanced and its
// leaves maximally merged, even if the original list was not.
func Load(records []SavedRecord) (*IdentifierList, error) {
	root, err := buildFromRecords(records)
	if err != nil {
		return nil, err
	}
	return &IdentifierList{root: root}, nil
}
