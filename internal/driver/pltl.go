package driver

import (
	"context"

	"github.com/boundedmc/bmc/internal/encoder"
	"github.com/boundedmc/bmc/internal/model"
	"github.com/boundedmc/bmc/internal/pltl"
)

// CheckPLTL is CheckLTL's counterpart for properties that reference the past operators of
// spec.md §4.5 (Y/Z/O/H/S/T): same grow_length loop and Path_with_init construction, but
// negPhi is evaluated by a pltl.Tableau instead of internal/ltl's, since the past fragment needs
// the (φ,t,k,l) recursion pltl.Tableau implements.
func CheckPLTL(ctx context.Context, enc *encoder.Encoder, u *model.Unroller, negPhi *pltl.Formula, loopSpec string, k int32, growLength bool) (Result, error) {
	mgr := enc.Manager()
	tb := pltl.New(enc)

	lo := k
	if growLength {
		lo = 0
	}
	for i := lo; i <= k; i++ {
		l, err := model.ParseLoop(loopSpec, i)
		if err != nil {
			continue
		}
		root := mgr.And(u.PathWithInit(i), tb.Eval(negPhi, i, l))
		_, m, err := solveCNF(ctx, enc, root, i)
		if r, e := unknownOnErr(err); e != nil {
			return r, e
		}
		if m != nil {
			return Result{Verdict: False, K: i, Loop: l, Trace: traceFromModel(enc, i, l, m)}, nil
		}
	}
	return Result{Verdict: Unknown, K: k}, nil
}
