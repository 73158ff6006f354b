package bitset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func keysOf(s *Set) []uint64 {
	var out []uint64
	for k := range s.Keys() {
		out = append(out, k)
	}
	return out
}

func TestSetBasic(t *testing.T) {
	s := New()
	require.Equal(t, uint64(0), s.Count())
	require.False(t, s.Has(0))

	s.Set(5, 3) // [5,8)
	require.Equal(t, uint64(3), s.Count())
	require.True(t, s.Has(5))
	require.True(t, s.Has(7))
	require.False(t, s.Has(8))
	require.Equal(t, []uint64{5, 6, 7}, keysOf(s))
}

func TestSetMergesAdjacentRuns(t *testing.T) {
	s := New()
	s.Set(0, 2)  // [0,2)
	s.Set(5, 2)  // [5,7)
	s.Set(2, 3)  // [2,5) bridges the two into [0,7)
	require.Equal(t, uint64(7), s.Count())
	require.Equal(t, []uint64{0, 1, 2, 3, 4, 5, 6}, keysOf(s))

	var runs []Run
	for r := range s.Runs() {
		runs = append(runs, r)
	}
	require.Equal(t, []Run{{Start: 0, Length: 7}}, runs)
}

func TestUnsetSplitsRun(t *testing.T) {
	s := New()
	s.Set(0, 5) // [0,5)
	s.Unset(2)
	require.Equal(t, uint64(4), s.Count())
	require.False(t, s.Has(2))
	require.Equal(t, []uint64{0, 1, 3, 4}, keysOf(s))

	s.Unset(2) // no-op, already absent
	require.Equal(t, uint64(4), s.Count())
}

func TestIndexOfNth(t *testing.T) {
	s := New()
	s.Set(10, 3) // 10,11,12
	s.Set(20, 2) // 20,21

	idx, ok := s.IndexOfNth(0)
	require.True(t, ok)
	require.Equal(t, uint64(10), idx)

	idx, ok = s.IndexOfNth(4)
	require.True(t, ok)
	require.Equal(t, uint64(21), idx)

	_, ok = s.IndexOfNth(5)
	require.False(t, ok)
}

func TestCountLessThan(t *testing.T) {
	s := New()
	s.Set(0, 5) // [0,5)

	count, present := s.CountLessThan(3)
	require.Equal(t, uint64(3), count)
	require.True(t, present)

	count, present = s.CountLessThan(10)
	require.Equal(t, uint64(5), count)
	require.False(t, present)
}

func TestCloneIsIndependent(t *testing.T) {
	s := New()
	s.Set(0, 3)
	clone := s.Clone()
	clone.Set(10, 1)

	require.Equal(t, uint64(3), s.Count())
	require.Equal(t, uint64(4), clone.Count())
	require.False(t, s.Has(10))
	require.True(t, clone.Has(10))
}

func TestShifted(t *testing.T) {
	s := New()
	s.Set(0, 3)
	shifted := s.Shifted(5)
	require.Equal(t, uint64(3), shifted.Count())
	require.False(t, shifted.Has(0))
	require.True(t, shifted.Has(5))
	require.True(t, shifted.Has(7))
}

func TestSlicer(t *testing.T) {
	s := New()
	s.Set(0, 10) // [0,10)
	s.Unset(4)   // remove one member -> [0,4) U [5,10)

	slicer := s.NewSlicer()
	boundary := uint64(5)
	left := slicer.NextSlice(&boundary)
	right := slicer.NextSlice(nil)

	require.Equal(t, uint64(4), left.Count())
	require.Equal(t, []uint64{0, 1, 2, 3}, keysOf(left))

	require.Equal(t, uint64(5), right.Count())
	require.Equal(t, []uint64{0, 1, 2, 3, 4}, keysOf(right))
}
