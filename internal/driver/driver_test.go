package driver_test

import (
	"context"
	"testing"

	"github.com/boundedmc/bmc/internal/be"
	"github.com/boundedmc/bmc/internal/driver"
	"github.com/boundedmc/bmc/internal/encoder"
	"github.com/boundedmc/bmc/internal/ltl"
	"github.com/boundedmc/bmc/internal/model"
	"github.com/boundedmc/bmc/internal/symtab"
	"github.com/stretchr/testify/require"
)

// toggleFixture builds a one-bit toggling counter: Init: ¬x, Trans: x' = ¬x, Invar: ⊤.
func toggleFixture(t *testing.T) (*encoder.Encoder, *model.Unroller, be.Ref) {
	t.Helper()
	m := be.NewManager()
	e := encoder.New(m)
	e.CommitLayer([]symtab.Var{{Name: "x", Class: symtab.ClassState, Boolean: true}})

	x, _ := e.NameToUntimed("x")
	xNext := e.VarCurrToNext(x)
	sys := model.System{
		Init:  be.Not(x),
		Trans: m.Iff(xNext, be.Not(x)),
		Invar: be.RefTrue,
	}
	return e, model.NewUnroller(e, sys), x
}

// frozenFixture builds a one-bit toggling counter alongside a frozen variable h held false by
// Init, so a property over h alone has an empty cone of influence (enc.COI only ever returns
// current-state indices).
func frozenFixture(t *testing.T) (*encoder.Encoder, *model.Unroller, be.Ref) {
	t.Helper()
	m := be.NewManager()
	e := encoder.New(m)
	e.CommitLayer([]symtab.Var{
		{Name: "x", Class: symtab.ClassState, Boolean: true},
		{Name: "h", Class: symtab.ClassFrozen, Boolean: true},
	})

	x, _ := e.NameToUntimed("x")
	h, _ := e.NameToUntimed("h")
	xNext := e.VarCurrToNext(x)
	sys := model.System{
		Init:  m.And(be.Not(x), be.Not(h)),
		Trans: m.Iff(xNext, be.Not(x)),
		Invar: be.RefTrue,
	}
	return e, model.NewUnroller(e, sys), h
}

func TestEenSorenssonFalsifiesEmptyCOIProperty(t *testing.T) {
	t.Parallel()
	e, u, h := frozenFixture(t)
	prop := driver.NewProperty(e, h) // h is frozen false, so this invariant is false from step 0
	require.Empty(t, prop.COI, "a frozen-only formula must have an empty current-state COI")

	res, err := driver.EenSorensson{KMax: 2}.Run(context.Background(), e, u, prop)
	require.NoError(t, err)
	require.Equal(t, driver.False, res.Verdict, "an empty COI must not make uniqueness() force a spurious UNSAT step case")
}

func TestClassicProvesTrivialInvariantTrue(t *testing.T) {
	t.Parallel()
	e, u, _ := toggleFixture(t)
	prop := driver.NewProperty(e, be.RefTrue)

	res, err := driver.Classic(context.Background(), e, u, prop)
	require.NoError(t, err)
	require.Equal(t, driver.True, res.Verdict)
}

func TestClassicFalsifiesWhenStepCaseFails(t *testing.T) {
	t.Parallel()
	e, u, x := toggleFixture(t)
	prop := driver.NewProperty(e, be.Not(x)) // ¬x does not hold at time 1

	res, err := driver.Classic(context.Background(), e, u, prop)
	require.NoError(t, err)
	require.Equal(t, driver.False, res.Verdict)
	require.NotNil(t, res.Trace)
	require.False(t, res.Trace.Steps[0].State.Value("x"))
	require.True(t, res.Trace.Steps[1].State.Value("x"))
}

func TestEenSorenssonProvesTrivialInvariantTrue(t *testing.T) {
	t.Parallel()
	e, u, _ := toggleFixture(t)
	prop := driver.NewProperty(e, be.RefTrue)

	res, err := driver.EenSorensson{KMax: 3}.Run(context.Background(), e, u, prop)
	require.NoError(t, err)
	require.Equal(t, driver.True, res.Verdict)
}

func TestFalsificationFindsCounterexample(t *testing.T) {
	t.Parallel()
	e, u, x := toggleFixture(t)
	prop := driver.NewProperty(e, be.Not(x))

	res, err := driver.Falsification(context.Background(), e, u, prop, 3)
	require.NoError(t, err)
	require.Equal(t, driver.False, res.Verdict)
	require.LessOrEqual(t, res.K, int32(3))
}

func TestFalsificationNeverProvesTrue(t *testing.T) {
	t.Parallel()
	e, u, _ := toggleFixture(t)
	prop := driver.NewProperty(e, be.RefTrue)

	res, err := driver.Falsification(context.Background(), e, u, prop, 2)
	require.NoError(t, err)
	require.Equal(t, driver.Unknown, res.Verdict, "Falsification must never return True")
}

func TestDualForwardProvesTrivialInvariantTrue(t *testing.T) {
	t.Parallel()
	e, u, _ := toggleFixture(t)
	prop := driver.NewProperty(e, be.RefTrue)

	res, err := driver.Dual{KMax: 3, Direction: driver.DualForward}.Run(context.Background(), e, u, prop)
	require.NoError(t, err)
	require.Equal(t, driver.True, res.Verdict)
}

func TestDualBackwardRejectsModelsWithInputs(t *testing.T) {
	t.Parallel()
	m := be.NewManager()
	e := encoder.New(m)
	e.CommitLayer([]symtab.Var{
		{Name: "x", Class: symtab.ClassState, Boolean: true},
		{Name: "in", Class: symtab.ClassInput, Boolean: true},
	})
	x, _ := e.NameToUntimed("x")
	sys := model.System{Init: be.Not(x), Trans: m.Iff(e.VarCurrToNext(x), be.Not(x)), Invar: be.RefTrue}
	u := model.NewUnroller(e, sys)
	prop := driver.NewProperty(e, be.RefTrue)

	_, err := driver.Dual{KMax: 1, Direction: driver.DualBackward}.Run(context.Background(), e, u, prop)
	require.Error(t, err)
}

func TestZigZagProvesTrivialInvariantTrue(t *testing.T) {
	t.Parallel()
	e, u, _ := toggleFixture(t)
	prop := driver.NewProperty(e, be.RefTrue)

	res, err := driver.ZigZag(context.Background(), e, u, prop, 3)
	require.NoError(t, err)
	require.Equal(t, driver.True, res.Verdict)
}

func TestZigZagFindsCounterexample(t *testing.T) {
	t.Parallel()
	e, u, x := toggleFixture(t)
	prop := driver.NewProperty(e, be.Not(x))

	res, err := driver.ZigZag(context.Background(), e, u, prop, 3)
	require.NoError(t, err)
	require.Equal(t, driver.False, res.Verdict)
}

func TestCheckLTLFindsCounterexampleWithGrowLength(t *testing.T) {
	t.Parallel()
	e, u, x := toggleFixture(t)
	// phi = G(x); negPhi = F(¬x), which is witnessed at time 0 since Init asserts ¬x.
	negPhi := ltl.Finally(ltl.AtomF(be.Not(x)))

	res, err := driver.CheckLTL(context.Background(), e, u, negPhi, "X", 3, true)
	require.NoError(t, err)
	require.Equal(t, driver.False, res.Verdict)
	require.EqualValues(t, 0, res.K, "grow_length should stop at the smallest falsifying bound")
}
