package idlist

import (
	"testing"

	"github.com/orbitcollective/idlist/bitset"
	"github.com/stretchr/testify/require"
)

func mkLeaf(bunchID string, start, count uint64, presentCount uint64) *Leaf {
	present := bitset.New()
	present.Set(0, presentCount)
	return &Leaf{BunchID: bunchID, StartCounter: start, Count: count, Present: present}
}

func TestInnerLeafCachedSizes(t *testing.T) {
	l1 := mkLeaf("a", 0, 5, 5)
	l2 := mkLeaf("b", 0, 3, 2) // one tombstoned

	inner := newInnerLeaf([]*Leaf{l1, l2})
	require.Equal(t, uint64(7), inner.size())
	require.Equal(t, uint64(8), inner.knownSize())
	require.Equal(t, 1, inner.height())
}

func TestInnerInnerCachedSizes(t *testing.T) {
	a := newInnerLeaf([]*Leaf{mkLeaf("a", 0, 4, 4)})
	b := newInnerLeaf([]*Leaf{mkLeaf("b", 0, 6, 3)})

	outer := newInnerInner([]node{a, b})
	require.Equal(t, uint64(7), outer.size())
	require.Equal(t, uint64(10), outer.knownSize())
	require.Equal(t, 2, outer.height())
}

func TestFirstAndLastIdOf(t *testing.T) {
	a := mkLeaf("a", 10, 4, 4)
	b := mkLeaf("b", 0, 6, 6)
	inner := newInnerLeaf([]*Leaf{a, b})

	first, ok := firstIdOf(inner)
	require.True(t, ok)
	require.Equal(t, Identifier{BunchID: "a", Counter: 10}, first)

	last, ok := lastIdOf(inner)
	require.True(t, ok)
	require.Equal(t, Identifier{BunchID: "b", Counter: 5}, last)
}

func TestFirstIdOfEmpty(t *testing.T) {
	_, ok := firstIdOf(newInnerLeaf(nil))
	require.False(t, ok)
}

func TestLeafCoversAndEndCounter(t *testing.T) {
	l := mkLeaf("a", 10, 5, 5)
	require.Equal(t, uint64(15), l.endCounter())
	require.True(t, l.covers(10))
	require.True(t, l.covers(14))
	require.False(t, l.covers(15))
	require.False(t, l.covers(9))
}
