package driver

import (
	"context"

	"github.com/boundedmc/bmc/internal/encoder"
	"github.com/boundedmc/bmc/internal/ltl"
	"github.com/boundedmc/bmc/internal/model"
	"github.com/boundedmc/bmc/internal/sbmc"
)

// CheckSBMC is the SBMC-tableau alternative to CheckLTL (spec.md §4.6): rather than building one
// BE per candidate loop position l like internal/ltl, it encodes the choice of loop position
// itself into a family of auxiliary el_i variables, so AllLoops ("*") is answered by a single SAT
// query per bound instead of CheckLTL's one query per candidate loop. An explicit numeric or
// NoLoop loopSpec still runs correctly here (sbmc.New degenerates to the same per-position
// encoding CheckLTL already builds), it just gains nothing from the el_i machinery.
func CheckSBMC(ctx context.Context, enc *encoder.Encoder, u *model.Unroller, negPhi *ltl.Formula, loopSpec string, k int32, growLength bool) (Result, error) {
	mgr := enc.Manager()

	lo := k
	if growLength {
		lo = 0
	}
	for i := lo; i <= k; i++ {
		l, err := model.ParseLoop(loopSpec, i)
		if err != nil {
			continue
		}
		tb := sbmc.New(enc, i, l)
		root := mgr.And(mgr.And(u.PathWithInit(i), tb.Eval(negPhi)), tb.Constraints())
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
