// Package pltl implements the past-extended LTL tableau of spec.md §4.5: the same (k,l)-path
// semantics as internal/ltl, extended with the six past operators (Y, Z, O, H, S, T).
package pltl

import "github.com/boundedmc/bmc/internal/be"

type Kind uint8

const (
	KindAtom Kind = iota
	KindAnd
	KindOr
	// Future operators, identical semantics to internal/ltl.
	KindNext
	KindFinally
	KindGlobally
	KindUntil
	KindRelease
	// Past operators.
	KindYesterday  // Y: true at t iff the formula held at t-1; false at t=0 (strong yesterday).
	KindZYesterday // Z: dual of Y; true at t=0 (weak yesterday).
	KindOnce       // O: held at some point in [0,t].
	KindHistorically
	KindSince
	KindTriggered
)

// Formula is a past-extended LTL formula in negation normal form. As in internal/ltl, Formula
// pointers are reused across Tableau.Eval calls and memoization keys on pointer identity.
type Formula struct {
	Kind Kind
	Atom be.Ref
	L, R *Formula
}

func AtomF(r be.Ref) *Formula        { return &Formula{Kind: KindAtom, Atom: r} }
func And(l, r *Formula) *Formula     { return &Formula{Kind: KindAnd, L: l, R: r} }
func Or(l, r *Formula) *Formula      { return &Formula{Kind: KindOr, L: l, R: r} }
func Next(f *Formula) *Formula       { return &Formula{Kind: KindNext, L: f} }
func Finally(f *Formula) *Formula    { return &Formula{Kind: KindFinally, L: f} }
func Globally(f *Formula) *Formula   { return &Formula{Kind: KindGlobally, L: f} }
func Until(l, r *Formula) *Formula   { return &Formula{Kind: KindUntil, L: l, R: r} }
func Release(l, r *Formula) *Formula { return &Formula{Kind: KindRelease, L: l, R: r} }

func Yesterday(f *Formula) *Formula  { return &Formula{Kind: KindYesterday, L: f} }
func ZYesterday(f *Formula) *Formula { return &Formula{Kind: KindZYesterday, L: f} }
func Once(f *Formula) *Formula       { return &Formula{Kind: KindOnce, L: f} }
func Historically(f *Formula) *Formula { return &Formula{Kind: KindHistorically, L: f} }
func Since(l, r *Formula) *Formula    { return &Formula{Kind: KindSince, L: l, R: r} }
func Triggered(l, r *Formula) *Formula { return &Formula{Kind: KindTriggered, L: l, R: r} }
