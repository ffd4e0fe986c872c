package driver_test

import (
	"context"
	"testing"

	"github.com/boundedmc/bmc/internal/be"
	"github.com/boundedmc/bmc/internal/driver"
	"github.com/boundedmc/bmc/internal/encoder"
	"github.com/boundedmc/bmc/internal/ltl"
	"github.com/boundedmc/bmc/internal/model"
	"github.com/boundedmc/bmc/internal/pltl"
	"github.com/boundedmc/bmc/internal/symtab"
	"github.com/stretchr/testify/require"
)

// pastOperatorFixture builds a variant of spec.md §8's S3/S4 system: Init: ¬s ∧ (c ⇔ cVal),
// Trans: s' (unconditionally true next state), with a frozen variable c whose value never
// changes (same untimed physical index at every time, per internal/encoder's frozen handling)
// and a state variable s that becomes true from time 1 onward regardless of c -- decoupling s's
// truth from c's is what lets G(s -> O c) genuinely depend on c's history rather than on c's
// current value alone.
func pastOperatorFixture(t *testing.T, cVal bool) (*encoder.Encoder, *model.Unroller) {
	t.Helper()
	m := be.NewManager()
	e := encoder.New(m)
	e.CommitLayer([]symtab.Var{
		{Name: "s", Class: symtab.ClassState, Boolean: true},
		{Name: "c", Class: symtab.ClassFrozen, Boolean: true},
	})

	s, _ := e.NameToUntimed("s")
	c, _ := e.NameToUntimed("c")
	sNext := e.VarCurrToNext(s)
	cConstraint := c
	if !cVal {
		cConstraint = be.Not(c)
	}
	sys := model.System{
		Init:  m.And(be.Not(s), cConstraint),
		Trans: sNext,
		Invar: be.RefTrue,
	}
	return e, model.NewUnroller(e, sys)
}

// globallyImpliesOnce builds G(s -> O c), spec.md §8's S3/S4 property, directly against the
// pltl package rather than through internal/parse, so these tests exercise driver.CheckPLTL in
// isolation from the parser.
func globallyImpliesOnce(e *encoder.Encoder) *pltl.Formula {
	s, _ := e.NameToUntimed("s")
	c, _ := e.NameToUntimed("c")
	return pltl.Globally(pltl.Or(pltl.AtomF(e.Manager().Not(s)), pltl.Once(pltl.AtomF(c))))
}

// TestCheckPLTLFindsCounterexampleWhenFrozenVarFalse is scenario S3 routed through the PLTL
// tableau (G(s -> O c) is false whenever c never held, since s becoming true then has no witness
// in its own past).
func TestCheckPLTLFindsCounterexampleWhenFrozenVarFalse(t *testing.T) {
	t.Parallel()
	e, u := pastOperatorFixture(t, false)
	negPhi := negatePLTLForTest(e, globallyImpliesOnce(e))

	res, err := driver.CheckPLTL(context.Background(), e, u, negPhi, "*", 3, false)
	require.NoError(t, err)
	require.Equal(t, driver.False, res.Verdict, "c never holds, so G(s -> O c) must be falsifiable once s becomes true")
}

// TestCheckPLTLUnsatWhenFrozenVarTrue is scenario S4: the same property at k=3, l=1 is UNSAT
// (driver.Unknown -- CheckPLTL, like CheckLTL, never itself returns True) because c holds from
// the start, so O c is witnessed at every time s could become true.
func TestCheckPLTLUnsatWhenFrozenVarTrue(t *testing.T) {
	t.Parallel()
	e, u := pastOperatorFixture(t, true)
	negPhi := negatePLTLForTest(e, globallyImpliesOnce(e))

	res, err := driver.CheckPLTL(context.Background(), e, u, negPhi, "1", 3, false)
	require.NoError(t, err)
	require.Equal(t, driver.Unknown, res.Verdict, "property holds on the loop, so no counterexample exists at k=3,l=1")
}

// negatePLTLForTest pushes ¬ down through f, mirroring internal/parse's negatePLTL (not exported
// to this package) for the one dual this test needs: ¬G = F¬.
func negatePLTLForTest(e *encoder.Encoder, f *pltl.Formula) *pltl.Formula {
	mgr := e.Manager()
	var neg func(f *pltl.Formula) *pltl.Formula
	neg = func(f *pltl.Formula) *pltl.Formula {
		switch f.Kind {
		case pltl.KindAtom:
			return pltl.AtomF(mgr.Not(f.Atom))
		case pltl.KindAnd:
			return pltl.Or(neg(f.L), neg(f.R))
		case pltl.KindOr:
			return pltl.And(neg(f.L), neg(f.R))
		case pltl.KindGlobally:
			return pltl.Finally(neg(f.L))
		case pltl.KindOnce:
			return pltl.Historically(neg(f.L))
		default:
			panic("negatePLTLForTest: unhandled kind for this fixture")
		}
	}
	return neg(f)
}

func TestCheckSBMCFindsCounterexampleWithGrowLength(t *testing.T) {
	t.Parallel()
	m := be.NewManager()
	e := encoder.New(m)
	e.CommitLayer([]symtab.Var{{Name: "x", Class: symtab.ClassState, Boolean: true}})
	x, _ := e.NameToUntimed("x")
	xNext := e.VarCurrToNext(x)
	sys := model.System{Init: be.Not(x), Trans: m.Iff(xNext, be.Not(x)), Invar: be.RefTrue}
	u := model.NewUnroller(e, sys)

	// negPhi = F(¬x), witnessed at time 0 since Init asserts ¬x -- same counterexample as
	// TestCheckLTLFindsCounterexampleWithGrowLength, to confirm the el_i tableau agrees with
	// internal/ltl's per-position one.
	negPhi := ltl.Finally(ltl.AtomF(be.Not(x)))

	res, err := driver.CheckSBMC(context.Background(), e, u, negPhi, "*", 3, true)
	require.NoError(t, err)
	require.Equal(t, driver.False, res.Verdict)
	require.EqualValues(t, 0, res.K)
}
