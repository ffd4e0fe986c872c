package ltl

import (
	"github.com/boundedmc/bmc/internal/be"
	"github.com/boundedmc/bmc/internal/encoder"
	"github.com/boundedmc/bmc/internal/model"
)

type memoKey struct {
	f       *Formula
	t, k, l int32
}

// Tableau builds T_k,l(φ) formulas over a shared encoder, memoizing by (φ,t,k,l) per spec.md
// §4.4.3. The cache is flushed whenever the encoder's variable set changes.
type Tableau struct {
	enc  *encoder.Encoder
	mgr  *be.Manager
	memo map[memoKey]be.Ref
}

// New creates a Tableau over enc.
func New(enc *encoder.Encoder) *Tableau {
	tb := &Tableau{enc: enc, mgr: enc.Manager(), memo: map[memoKey]be.Ref{}}
	enc.OnLayerChange(func() { tb.memo = map[memoKey]be.Ref{} })
	return tb
}

// Eval returns T_k,l(f): a BE witnessing "some (k,l)-path of the underlying system satisfies f".
// l must be model.NoLoop, model.AllLoops, or an explicit loopback position in [0,k).
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

// succ is the wrap-around successor of spec.md §4.4.1: t+1 while t<k, else l in loop mode, or "no
// successor" in no-loop mode (Xφ's boundary rule).
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
	}
	tb.memo[key] = result
	return result
}

// evalAtom instantiates an untimed atom BE at time t, applying the special rule that an input
// variable at the open right end (t = k) evaluates to ⊥.
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

// futureTimes returns the (order-independent) set of times Fφ/Gφ range over at (t,k,l).
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

// stepsFor is the unfolding depth for U/R: k-t+1 with no loop, (k-1)-min(t,l)+1 with a loop.
func (tb *Tableau) stepsFor(t, k, l int32) int32 {
	if l == model.NoLoop {
		return k - t + 1
	}
	return (k - 1) - minI32(t, l) + 1
}

// chase walks succ for up to steps positions starting at t, stopping early if it runs off the end
// of a no-loop path.
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
