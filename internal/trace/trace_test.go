package trace_test

import (
	"testing"

	"github.com/boundedmc/bmc/internal/be"
	"github.com/boundedmc/bmc/internal/encoder"
	"github.com/boundedmc/bmc/internal/model"
	"github.com/boundedmc/bmc/internal/symtab"
	"github.com/boundedmc/bmc/internal/trace"
	"github.com/stretchr/testify/require"
)

func TestBuildReadsStateInputAndFrozenAtEveryStep(t *testing.T) {
	t.Parallel()
	m := be.NewManager()
	e := encoder.New(m)
	e.CommitLayer([]symtab.Var{
		{Name: "x", Class: symtab.ClassState, Boolean: true},
		{Name: "h", Class: symtab.ClassFrozen, Boolean: true},
		{Name: "in", Class: symtab.ClassInput, Boolean: true},
	})

	assignment := map[int32]bool{}
	for t := int32(0); t <= 2; t++ {
		xr, _ := e.IndexCurrTime("x", t)
		xi, _ := m.VarIndex(xr)
		assignment[xi] = t%2 == 0

		ir, _ := e.IndexInputTime("in", t)
		ii, _ := m.VarIndex(ir)
		assignment[ii] = t == 1
	}
	hr, _ := e.IndexFrozen("h")
	hi, _ := m.VarIndex(hr)
	assignment[hi] = true

	tr := trace.Build(e, 2, model.NoLoop, func(idx int32) bool { return assignment[idx] })

	require.Len(t, tr.Steps, 3)
	require.Equal(t, trace.KindInitial, tr.Steps[0].Kind)
	require.Equal(t, trace.KindTransition, tr.Steps[1].Kind)
	require.True(t, tr.Steps[0].State.Value("x"))
	require.False(t, tr.Steps[1].State.Value("x"))
	require.True(t, tr.Steps[1].Input.Value("in"))
	require.True(t, tr.Steps[0].Frozen.Value("h"))
	require.True(t, tr.Steps[2].Frozen.Value("h"))
	require.False(t, tr.HasLoop())
}

func TestHasLoopTrueForExplicitLoopback(t *testing.T) {
	t.Parallel()
	tr := &trace.Trace{Loop: 0}
	require.True(t, tr.HasLoop())
}
