package reference

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBasicInsertDeleteUninsert(t *testing.T) {
	l := Empty()

	l, err := l.InsertAfter(nil, 0, false, "a", 0, 3)
	require.NoError(t, err)
	require.Equal(t, uint64(3), l.Length())

	l = l.Delete("a", 1)
	require.Equal(t, uint64(2), l.Length())
	require.False(t, l.Has("a", 1))
	require.True(t, l.IsKnown("a", 1))

	l, err = l.Undelete("a", 1)
	require.NoError(t, err)
	require.True(t, l.Has("a", 1))

	l = l.Uninsert("a", 1, 1)
	require.Equal(t, uint64(2), l.Length())
	require.False(t, l.IsKnown("a", 1))
}

func TestCloneIndependence(t *testing.T) {
	l := Empty()
	l, err := l.InsertAfter(nil, 0, false, "a", 0, 1)
	require.NoError(t, err)

	clone := l.Clone()
	clone, err = clone.InsertAfter(nil, 0, false, "b", 0, 1)
	require.NoError(t, err)

	require.Equal(t, uint64(1), l.Length())
	require.Equal(t, uint64(2), clone.Length())
	require.False(t, l.IsKnown("b", 0))
}

func TestIndexOfBias(t *testing.T) {
	l := Empty()
	l, err := l.InsertAfter(nil, 0, false, "a", 0, 3)
	require.NoError(t, err)
	l = l.Delete("a", 1)

	none, err := l.IndexOf("a", 1, 0)
	require.NoError(t, err)
	require.Equal(t, int64(-1), none)

	left, err := l.IndexOf("a", 1, 1)
	require.NoError(t, err)
	require.Equal(t, int64(0), left)

	right, err := l.IndexOf("a", 1, 2)
	require.NoError(t, err)
	require.Equal(t, int64(1), right)
}
