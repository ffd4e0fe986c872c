// Package driver implements the algorithmic driver of spec.md §4.7: the LTL grow-length loop and
// the five bounded-invariant algorithms, each producing a three-valued verdict plus, on a
// falsifying result, a concrete trace built from the winning SAT model.
package driver

import (
	"context"

	"github.com/boundedmc/bmc/internal/be"
	"github.com/boundedmc/bmc/internal/encoder"
	"github.com/boundedmc/bmc/internal/sat"
	"github.com/boundedmc/bmc/internal/trace"
)

// Verdict is the three-valued result common to every algorithm in this package (spec.md §4.7.2's
// "common contract").
type Verdict int

const (
	Unknown Verdict = iota
	True
	False
)

func (v Verdict) String() string {
	switch v {
	case True:
		return "true"
	case False:
		return "false"
	default:
		return "unknown"
	}
}

// Result bundles a Verdict with the bound/loop it was reached at and, on False, the falsifying
// trace.
type Result struct {
	Verdict Verdict
	K       int32
	Loop    int32
	Trace   *trace.Trace
}

// solveCNF is the shared non-incremental entry point every algorithm in this package that builds
// a whole fresh formula per bound funnels through: convert root to CNF, solve once, and -- on
// Sat -- read back every state/input/frozen variable the trace needs.
func solveCNF(ctx context.Context, enc *encoder.Encoder, root be.Ref, k int32) (sat.Result, *sat.Model, error) {
	mgr := enc.Manager()
	cnf, rootLit := mgr.ToCNF(root, be.PolarityPositive)
	clauses := make([][]int32, 0, len(cnf.Clauses)+1)
	for _, c := range cnf.Clauses {
		clauses = append(clauses, []int32(c))
	}
	clauses = append(clauses, []int32{rootLit})
	interesting := interestingVars(enc, k)
	return sat.SolveOnce(ctx, clauses, nil, interesting)
}

// interestingVars lists every physical variable a trace.Build call over [0,k] will want to read
// back: state/input at every time 0..k, plus every frozen variable once.
func interestingVars(enc *encoder.Encoder, k int32) []int32 {
	mgr := enc.Manager()
	var out []int32
	for t := int32(0); t <= k; t++ {
		for _, name := range enc.StateVars() {
			r, _ := enc.IndexCurrTime(name, t)
			idx, _ := mgr.VarIndex(r)
			out = append(out, idx)
		}
		for _, name := range enc.InputVars() {
			r, _ := enc.IndexInputTime(name, t)
			idx, _ := mgr.VarIndex(r)
			out = append(out, idx)
		}
	}
	for _, name := range enc.FrozenVars() {
		r, _ := enc.IndexFrozen(name)
		idx, _ := mgr.VarIndex(r)
		out = append(out, idx)
	}
	return out
}

func traceFromModel(enc *encoder.Encoder, k, loop int32, m *sat.Model) *trace.Trace {
	return trace.Build(enc, k, loop, func(idx int32) bool { return m.Value(idx) })
}
