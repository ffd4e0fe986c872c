package model

import (
	"github.com/boundedmc/bmc/internal/be"
	"github.com/boundedmc/bmc/internal/encoder"
)

// Unroller builds the timed path formulas of a System over a shared encoder, per spec.md §4.3.
type Unroller struct {
	enc *encoder.Encoder
	sys System
}

// NewUnroller creates an Unroller for sys, instantiated through enc.
func NewUnroller(enc *encoder.Encoder, sys System) *Unroller {
	return &Unroller{enc: enc, sys: sys}
}

// System returns the transition system this unroller was built from.
func (u *Unroller) System() System { return u.sys }

// Init0 returns (Init ∧ Invar) @ 0.
func (u *Unroller) Init0() be.Ref {
	mgr := u.enc.Manager()
	return u.enc.UntimedExprToTimed(mgr.And(u.sys.Init, u.sys.Invar), 0)
}

// InvarAt returns Invar @ t.
func (u *Unroller) InvarAt(t int32) be.Ref {
	return u.enc.UntimedExprToTimed(u.sys.Invar, t)
}

// TransAt returns Trans @ t, using current-state variables at t and next-state variables at t+1.
func (u *Unroller) TransAt(t int32) be.Ref {
	return u.enc.UntimedExprToTimed(u.sys.Trans, t)
}

// UnrollRange returns ⋀_{i=j..k-1} (Invar@i ∧ Trans@i ∧ Invar@{i+1}); conjoining the invariant on
// both endpoints of every transition so that, in a dual/backward algorithm, the last state on a
// k-path still satisfies Invar (spec.md §4.3's side-condition).
func (u *Unroller) UnrollRange(j, k int32) be.Ref {
	mgr := u.enc.Manager()
	acc := be.RefTrue
	for i := j; i < k; i++ {
		acc = mgr.And(acc, mgr.And(u.InvarAt(i), mgr.And(u.TransAt(i), u.InvarAt(i+1))))
	}
	return acc
}

// PathNoInit returns Unroll[0..k].
func (u *Unroller) PathNoInit(k int32) be.Ref { return u.UnrollRange(0, k) }

// PathWithInit returns Init_0 ∧ Path_no_init[0..k].
func (u *Unroller) PathWithInit(k int32) be.Ref {
	mgr := u.enc.Manager()
	return mgr.And(u.Init0(), u.PathNoInit(k))
}

// FairnessAt returns Fairness(k,l): ⊥ if l = NoLoop, else ⋀_{f∈Fairness} ⋁_{t=l..k-1} f@t.
func (u *Unroller) FairnessAt(k, l int32) be.Ref {
	mgr := u.enc.Manager()
	if l == NoLoop {
		return be.RefFalse
	}
	acc := be.RefTrue
	for _, f := range u.sys.Fairness {
		disj := be.RefFalse
		for t := l; t < k; t++ {
			disj = mgr.Or(disj, u.enc.UntimedExprToTimed(f, t))
		}
		acc = mgr.And(acc, disj)
	}
	return acc
}
