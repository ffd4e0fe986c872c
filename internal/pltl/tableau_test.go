package pltl_test

import (
	"testing"

	"github.com/boundedmc/bmc/internal/be"
	"github.com/boundedmc/bmc/internal/encoder"
	"github.com/boundedmc/bmc/internal/model"
	"github.com/boundedmc/bmc/internal/pltl"
	"github.com/boundedmc/bmc/internal/symtab"
	"github.com/stretchr/testify/require"
)

func fixture(t *testing.T) (*be.Manager, *encoder.Encoder, be.Ref, be.Ref) {
	t.Helper()
	m := be.NewManager()
	e := encoder.New(m)
	e.CommitLayer([]symtab.Var{
		{Name: "p", Class: symtab.ClassState, Boolean: true},
		{Name: "q", Class: symtab.ClassState, Boolean: true},
	})
	p, _ := e.NameToUntimed("p")
	q, _ := e.NameToUntimed("q")
	return m, e, p, q
}

func TestYesterdayIsFalseAtTimeZero(t *testing.T) {
	t.Parallel()
	_, e, p, _ := fixture(t)
	tb := pltl.New(e)

	got := tb.Eval(pltl.Yesterday(pltl.AtomF(p)), 0, model.NoLoop)
	require.Equal(t, be.RefFalse, got)
}

func TestYesterdayAtTRefersToTMinusOne(t *testing.T) {
	t.Parallel()
	_, e, p, _ := fixture(t)
	tb := pltl.New(e)

	// Eval evaluates at time 0; the Next moves the Y node to time 1.
	got := tb.Eval(pltl.Next(pltl.Yesterday(pltl.AtomF(p))), 1, model.NoLoop)
	p0, _ := e.IndexCurrTime("p", 0)
	require.Equal(t, p0, got)
}

func TestZYesterdayIsTrueAtTimeZero(t *testing.T) {
	t.Parallel()
	_, e, p, _ := fixture(t)
	tb := pltl.New(e)

	got := tb.Eval(pltl.ZYesterday(pltl.AtomF(p)), 0, model.NoLoop)
	require.Equal(t, be.RefTrue, got)
}

func TestOnceDisjoinsOverPrefix(t *testing.T) {
	t.Parallel()
	m, e, p, _ := fixture(t)
	tb := pltl.New(e)

	// Eval evaluates at time 0; the two Nexts move the O node to time 2.
	got := tb.Eval(pltl.Next(pltl.Next(pltl.Once(pltl.AtomF(p)))), 2, model.NoLoop)
	p0, _ := e.IndexCurrTime("p", 0)
	p1, _ := e.IndexCurrTime("p", 1)
	p2, _ := e.IndexCurrTime("p", 2)
	want := m.Or(m.Or(p0, p1), p2)
	require.Equal(t, want, got)
}

func TestHistoricallyConjoinsOverPrefix(t *testing.T) {
	t.Parallel()
	m, e, p, _ := fixture(t)
	tb := pltl.New(e)

	// Eval evaluates at time 0; the two Nexts move the H node to time 2.
	got := tb.Eval(pltl.Next(pltl.Next(pltl.Historically(pltl.AtomF(p)))), 2, model.NoLoop)
	p0, _ := e.IndexCurrTime("p", 0)
	p1, _ := e.IndexCurrTime("p", 1)
	p2, _ := e.IndexCurrTime("p", 2)
	want := m.And(m.And(p0, p1), p2)
	require.Equal(t, want, got)
}

func TestSinceAtBaseDegeneratesToRightOperand(t *testing.T) {
	t.Parallel()
	_, e, p, q := fixture(t)
	tb := pltl.New(e)

	got := tb.Eval(pltl.Since(pltl.AtomF(p), pltl.AtomF(q)), 0, model.NoLoop)
	q0, _ := e.IndexCurrTime("q", 0)
	require.Equal(t, q0, got)
}

func TestSinceUnfoldsAscendingFromZero(t *testing.T) {
	t.Parallel()
	m, e, p, q := fixture(t)
	tb := pltl.New(e)

	// Eval evaluates at time 0; the Next moves the S node to time 1.
	got := tb.Eval(pltl.Next(pltl.Since(pltl.AtomF(p), pltl.AtomF(q))), 1, model.NoLoop)
	p1, _ := e.IndexCurrTime("p", 1)
	q0, _ := e.IndexCurrTime("q", 0)
	q1, _ := e.IndexCurrTime("q", 1)
	want := m.Or(q1, m.And(p1, q0))
	require.Equal(t, want, got)
}

func TestTriggeredAtBaseDegeneratesToRightOperand(t *testing.T) {
	t.Parallel()
	_, e, p, q := fixture(t)
	tb := pltl.New(e)

	got := tb.Eval(pltl.Triggered(pltl.AtomF(p), pltl.AtomF(q)), 0, model.NoLoop)
	q0, _ := e.IndexCurrTime("q", 0)
	require.Equal(t, q0, got)
}

func TestHistoricallyEqualsTriggeredWithFalse(t *testing.T) {
	t.Parallel()
	_, e, p, _ := fixture(t)
	tb := pltl.New(e)

	h := tb.Eval(pltl.Historically(pltl.AtomF(p)), 2, model.NoLoop)
	falseF := pltl.AtomF(be.RefFalse)
	tr := tb.Eval(pltl.Triggered(falseF, pltl.AtomF(p)), 2, model.NoLoop)
	require.Equal(t, h, tr)
}
