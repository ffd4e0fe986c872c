package bitset_test

import (
	"testing"

	"github.com/boundedmc/bmc/util/bitset"
	"github.com/stretchr/testify/require"
)

func TestAddTestRemove(t *testing.T) {
	t.Parallel()
	s := bitset.New(0)
	s.Add(3)
	s.Add(130)
	require.True(t, s.Test(3))
	require.True(t, s.Test(130))
	require.False(t, s.Test(4))
	require.Equal(t, 2, s.Len())

	s.Remove(3)
	require.False(t, s.Test(3))
	require.Equal(t, 1, s.Len())
}

func TestUnionAndIntersect(t *testing.T) {
	t.Parallel()
	a := bitset.New(0)
	a.Add(1)
	a.Add(64)
	b := bitset.New(0)
	b.Add(64)
	b.Add(200)

	union := a.Clone()
	union.Union(b)
	require.ElementsMatch(t, []int{1, 64, 200}, union.Elements())

	inter := a.Clone()
	inter.Intersect(b)
	require.ElementsMatch(t, []int{64}, inter.Elements())
}

func TestElementsAscending(t *testing.T) {
	t.Parallel()
	s := bitset.New(0)
	for _, i := range []int{300, 5, 64, 0, 63} {
		s.Add(i)
	}
	require.Equal(t, []int{0, 5, 63, 64, 300}, s.Elements())
}

func TestCloneIsIndependent(t *testing.T) {
	t.Parallel()
	s := bitset.New(0)
	s.Add(1)
	c := s.Clone()
	c.Add(2)
	require.False(t, s.Test(2))
	require.True(t, c.Test(2))
}
