// Package ltl implements the pure-future LTL tableau of spec.md §4.4: given a formula in negation
// normal form whose atoms are untimed BEs, it produces a BE whose models correspond exactly to the
// (k,l)-paths of the underlying transition system that satisfy the formula.
package ltl

import "github.com/boundedmc/bmc/internal/be"

// Kind tags the node kind of a Formula.
type Kind uint8

const (
	KindAtom Kind = iota
	KindAnd
	KindOr
	KindNext
	KindFinally
	KindGlobally
	KindUntil
	KindRelease
)

// Formula is an LTL formula in negation normal form: negation is already pushed down onto atoms
// (an atom's BE carries its own polarity), so Formula itself never represents ¬. Every Formula
// node is expected to be a distinct, reused *Formula pointer across calls into Tableau.Eval:
// memoization keys on pointer identity, not structural equality.
type Formula struct {
	Kind Kind
	Atom be.Ref
	L, R *Formula
}

func AtomF(r be.Ref) *Formula       { return &Formula{Kind: KindAtom, Atom: r} }
func And(l, r *Formula) *Formula    { return &Formula{Kind: KindAnd, L: l, R: r} }
func Or(l, r *Formula) *Formula     { return &Formula{Kind: KindOr, L: l, R: r} }
func Next(f *Formula) *Formula      { return &Formula{Kind: KindNext, L: f} }
func Finally(f *Formula) *Formula   { return &Formula{Kind: KindFinally, L: f} }
func Globally(f *Formula) *Formula  { return &Formula{Kind: KindGlobally, L: f} }
func Until(l, r *Formula) *Formula  { return &Formula{Kind: KindUntil, L: l, R: r} }
func Release(l, r *Formula) *Formula { return &Formula{Kind: KindRelease, L: l, R: r} }
