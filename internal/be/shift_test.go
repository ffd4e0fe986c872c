package be_test

import (
	"testing"

	"github.com/boundedmc/bmc/internal/be"
	"github.com/stretchr/testify/require"
)

func TestSubstituteRelocatesVariables(t *testing.T) {
	t.Parallel()

	m := be.NewManager()
	m.Reserve(4)
	a, b := m.MkVar(0), m.MkVar(1)
	e := m.And(a, be.Not(b))

	shifted := m.Substitute(e, func(idx int32) (int32, bool) { return idx + 2, true })

	want := m.And(m.MkVar(2), be.Not(m.MkVar(3)))
	require.Equal(t, want, shifted)
}

func TestSubstituteInvalidSentinelPanics(t *testing.T) {
	t.Parallel()

	m := be.NewManager()
	m.Reserve(2)
	a := m.MkVar(0)

	require.Panics(t, func() {
		m.Substitute(a, func(int32) (int32, bool) { return 0, false })
	})
}

func TestVarIndices(t *testing.T) {
	t.Parallel()

	m := be.NewManager()
	m.Reserve(3)
	a, b, c := m.MkVar(0), m.MkVar(1), m.MkVar(2)
	e := m.And(m.Or(a, b), be.Not(c))

	idx := m.VarIndices(e)
	require.ElementsMatch(t, []int32{0, 1, 2}, idx)
}
