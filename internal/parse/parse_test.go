package parse_test

import (
	"testing"

	"github.com/boundedmc/bmc/internal/be"
	"github.com/boundedmc/bmc/internal/ltl"
	"github.com/boundedmc/bmc/internal/parse"
	"github.com/boundedmc/bmc/internal/pltl"
	"github.com/stretchr/testify/require"
)

func TestParseReadsNestedLists(t *testing.T) {
	t.Parallel()
	forms, err := parse.Parse(`(vars (state x y)) ; a comment
	(init (not x))`)
	require.NoError(t, err)
	require.Len(t, forms, 2)
	require.Equal(t, "(vars (state x y))", parse.String(forms[0]))
	require.Equal(t, "(init (not x))", parse.String(forms[1]))
}

func TestParseRejectsUnterminatedList(t *testing.T) {
	t.Parallel()
	_, err := parse.Parse("(vars (state x)")
	require.Error(t, err)
}

func TestBuildToggleInvariantFile(t *testing.T) {
	t.Parallel()
	mgr := be.NewManager()
	src := `
		(vars (state x))
		(init (not x))
		(trans (iff x' (not x)))
		(invarspec x)
		(bound 4)
		(loop X)
		(algorithm classic)
	`
	sys, err := parse.Build(mgr, src)
	require.NoError(t, err)
	require.Equal(t, parse.PropertyInvar, sys.PropertyKind)
	require.Equal(t, int32(4), sys.K)
	require.Equal(t, "X", sys.LoopSpec)
	require.Equal(t, parse.AlgoClassic, sys.Algorithm)

	x, ok := sys.Enc.NameToUntimed("x")
	require.True(t, ok)
	require.Equal(t, x, sys.Invar)
}

func TestBuildLTLSpecCompilesFormula(t *testing.T) {
	t.Parallel()
	mgr := be.NewManager()
	src := `
		(vars (state x))
		(init (not x))
		(trans (iff x' (not x)))
		(ltlspec (G x))
		(bound 8)
		(algorithm ltl)
	`
	sys, err := parse.Build(mgr, src)
	require.NoError(t, err)
	require.Equal(t, parse.PropertyLTL, sys.PropertyKind)
	require.Equal(t, ltl.KindGlobally, sys.LTL.Kind)
	require.Equal(t, "X", sys.LoopSpec, "loop defaults to no-loop when omitted")
}

func TestBuildRejectsMissingTrans(t *testing.T) {
	t.Parallel()
	mgr := be.NewManager()
	src := `
		(vars (state x))
		(init (not x))
		(invarspec x)
		(bound 1)
		(algorithm classic)
	`
	_, err := parse.Build(mgr, src)
	require.Error(t, err)
}

func TestBuildRejectsUnknownAlgorithm(t *testing.T) {
	t.Parallel()
	mgr := be.NewManager()
	src := `
		(vars (state x))
		(init (not x))
		(trans (iff x' (not x)))
		(invarspec x)
		(bound 1)
		(algorithm bogus)
	`
	_, err := parse.Build(mgr, src)
	require.Error(t, err)
}

func TestBooleanCompilesConnectives(t *testing.T) {
	t.Parallel()
	mgr := be.NewManager()
	src := `
		(vars (state x) (frozen y) (input z))
		(init (and (not x) y))
		(trans (iff x' (ite z (not x) x)))
		(invarspec (or x (xor y z)))
		(bound 2)
		(algorithm een-sorensson)
	`
	_, err := parse.Build(mgr, src)
	require.NoError(t, err)
}

// TestBuildLTLSpecWithPastOperatorRoutesToPLTL is scenario S4 of spec.md §8: the same frozen/state
// pair as S3, but the property is G(s -> O c), which needs the PLTL tableau rather than internal/ltl
// since O has no future-only encoding.
func TestBuildLTLSpecWithPastOperatorRoutesToPLTL(t *testing.T) {
	t.Parallel()
	mgr := be.NewManager()
	src := `
		(vars (state s) (frozen c))
		(init (not s))
		(trans (iff s' c))
		(ltlspec (G (or (not s) (O c))))
		(bound 3)
		(loop 1)
		(algorithm ltl)
	`
	sys, err := parse.Build(mgr, src)
	require.NoError(t, err)
	require.Equal(t, parse.PropertyLTL, sys.PropertyKind)
	require.Nil(t, sys.LTL, "a past-operator property must not be compiled as a future-only ltl.Formula")
	require.NotNil(t, sys.PLTL)
	require.Equal(t, pltl.KindGlobally, sys.PLTL.Kind)
}

func TestHasPastOperatorDetectsNestedOperator(t *testing.T) {
	t.Parallel()
	forms, err := parse.Parse(`(G (or (not s) (O c)))`)
	require.NoError(t, err)
	require.True(t, parse.HasPastOperator(forms[0]))

	forms2, err := parse.Parse(`(G (U s c))`)
	require.NoError(t, err)
	require.False(t, parse.HasPastOperator(forms2[0]))
}

func TestLTLNotPushesNegationToNNF(t *testing.T) {
	t.Parallel()
	mgr := be.NewManager()
	src := `
		(vars (state x))
		(init (not x))
		(trans (iff x' (not x)))
		(ltlspec (not (U x (G x))))
		(bound 2)
		(algorithm ltl)
	`
	sys, err := parse.Build(mgr, src)
	require.NoError(t, err)
	require.Equal(t, ltl.KindRelease, sys.LTL.Kind, "not-of-Until becomes Release in NNF")
	require.Equal(t, ltl.KindFinally, sys.LTL.R.Kind, "not-of-Globally becomes Finally")
}
