// Package sbmc implements the Simple-BMC tableau of spec.md §4.6: unlike internal/ltl, which
// takes an explicit loop position and builds one BE per candidate l, SBMC encodes the choice of
// loop position itself into the generated formula via a family of auxiliary "el_i" (loop-closes-
// here) variables, so a single SAT query can search over every candidate loop simultaneously.
package sbmc

import (
	"fmt"

	"github.com/boundedmc/bmc/internal/be"
	"github.com/boundedmc/bmc/internal/encoder"
	"github.com/boundedmc/bmc/internal/ltl"
	"github.com/boundedmc/bmc/internal/model"
)

// Tableau is bound to a fixed bound k and loop mode at construction time (unlike ltl.Tableau,
// whose Eval takes k/l per call): the el_i auxiliary variables and the AtMostOnce constraint are
// sized to k and only make sense for that one bound.
type Tableau struct {
	enc *encoder.Encoder
	mgr *be.Manager
	k   int32
	l   int32 // model.NoLoop, model.AllLoops, or an explicit position in [0,k)

	el         []be.Ref // len k, only populated when l == model.AllLoops
	atMostOnce be.Ref

	arrMemo map[*ltl.Formula][]be.Ref
	auxSeq  int
}

// New builds a Tableau for bound k and loop selector l. Reusing a Tableau across formulas at the
// same (k,l) shares el_i/AtMostOnce; use a fresh Tableau for a different k or l.
func New(enc *encoder.Encoder, k, l int32) *Tableau {
	tb := &Tableau{
		enc:        enc,
		mgr:        enc.Manager(),
		k:          k,
		l:          l,
		atMostOnce: be.RefTrue,
		arrMemo:    map[*ltl.Formula][]be.Ref{},
	}
	if l == model.AllLoops {
		tb.el = make([]be.Ref, k)
		for i := int32(0); i < k; i++ {
			tb.el[i] = enc.AllocAux(fmt.Sprintf("el_%d", i))
		}
		// AtMostOnce = ⋀_{i=1..k-1} ((⋁_{j<i} el_j) → ¬el_i): at most one loop-closing position.
		if k > 0 {
			acc := be.RefTrue
			disjSoFar := tb.el[0]
			for i := int32(1); i < k; i++ {
				acc = tb.mgr.And(acc, tb.mgr.Implies(disjSoFar, be.Not(tb.el[i])))
				disjSoFar = tb.mgr.Or(disjSoFar, tb.el[i])
			}
			tb.atMostOnce = acc
		}
	}
	return tb
}

// Constraints returns the side-constraints (AtMostOnce over el_i) that must be conjoined with
// Eval's result whenever l == model.AllLoops. NoLoop and an explicit loop carry no side-constraint
// of their own (besides, for an explicit loop, the loop(k,l) conjunct Eval already applies).
func (tb *Tableau) Constraints() be.Ref { return tb.atMostOnce }

// loopBE returns the "el_i implies state@i ≡ state@k" conjunction (spec.md §4.6's `loop`), only
// meaningful in all-loops mode.
func (tb *Tableau) loopBE() be.Ref {
	acc := be.RefTrue
	for i := int32(0); i < tb.k; i++ {
		acc = tb.mgr.And(acc, tb.mgr.Implies(tb.el[i], model.LoopCondition(tb.enc, tb.k, i)))
	}
	return acc
}

// Eval returns a BE over bound k whose models correspond to (k,l)-paths (for an explicit l or, in
// all-loops mode, any l the formula's own el_i variables pick out) satisfying f.
func (tb *Tableau) Eval(f *ltl.Formula) be.Ref {
	arr := tb.arrayFor(f)
	switch tb.l {
	case model.NoLoop:
		return arr[0]
	case model.AllLoops:
		return tb.mgr.And(tb.mgr.And(arr[0], tb.atMostOnce), tb.loopBE())
	default:
		return tb.mgr.And(model.LoopCondition(tb.enc, tb.k, tb.l), arr[0])
	}
}

// evalAtom instantiates an untimed atom at time i, forcing input variables to ⊥ at the open right
// end i=k, exactly as internal/ltl.Tableau.evalAtom.
func (tb *Tableau) evalAtom(atom be.Ref, i int32) be.Ref {
	shifted := tb.enc.UntimedExprToTimed(atom, i)
	if i != tb.k {
		return shifted
	}
	force := make(map[int32]bool)
	for _, name := range tb.enc.InputVars() {
		r, _ := tb.enc.IndexInputTime(name, tb.k)
		idx, _ := tb.mgr.VarIndex(r)
		force[idx] = false
	}
	if len(force) == 0 {
		return shifted
	}
	return tb.mgr.Restrict(shifted, force)
}

// lastOf is spec.md §4.6's last_f/last_g: the value a fixpoint closes to past the symbolic end of
// the path, given an array indexed 0..k of "the formula's value starting at position i" (either a
// child's own f-array for X, or a purpose-built g-chain for G/F/U/R -- see gChain).
func (tb *Tableau) lastOf(arr []be.Ref) be.Ref {
	switch tb.l {
	case model.NoLoop:
		return be.RefFalse
	case model.AllLoops:
		acc := be.RefFalse
		for i := int32(0); i < tb.k; i++ {
			acc = tb.mgr.Or(acc, tb.mgr.And(tb.el[i], arr[i+1]))
		}
		return acc
	default:
		return arr[tb.l]
	}
}

// gChain builds the well-founded auxiliary chain used by G/F/U/R to close their own fixpoint
// without self-reference: g[k] is a fresh, otherwise-unconstrained variable (the SAT solver picks
// its value consistent with whichever el_i, if any, turns out to close the loop); g[i] for i<k is
// then plain derived BE built from g[i+1] by the operator's own i<k recursion rule. This is a
// from-scratch, self-consistent reconstruction of spec.md §4.6's "auxiliary g_ψ(i) variables
// closing the fixpoint at the loop-end" -- the worked table there only spells out last_g for U/R,
// but X is not self-referential (its i=k rule reads the CHILD's own f-array, never itself) while
// G/F are exactly as self-referential as U/R, so the same technique applies to all four.
func (tb *Tableau) gChain(rhs func(i int32, next be.Ref) be.Ref) []be.Ref {
	g := make([]be.Ref, tb.k+1)
	tb.auxSeq++
	g[tb.k] = tb.enc.AllocAux(fmt.Sprintf("g_%d", tb.auxSeq))
	for i := tb.k - 1; i >= 0; i-- {
		g[i] = rhs(i, g[i+1])
	}
	return g
}

func (tb *Tableau) arrayFor(f *ltl.Formula) []be.Ref {
	if arr, ok := tb.arrMemo[f]; ok {
		return arr
	}
	arr := make([]be.Ref, tb.k+1)
	switch f.Kind {
	case ltl.KindAtom:
		for i := int32(0); i <= tb.k; i++ {
			arr[i] = tb.evalAtom(f.Atom, i)
		}
	case ltl.KindAnd:
		l, r := tb.arrayFor(f.L), tb.arrayFor(f.R)
		for i := int32(0); i <= tb.k; i++ {
			arr[i] = tb.mgr.And(l[i], r[i])
		}
	case ltl.KindOr:
		l, r := tb.arrayFor(f.L), tb.arrayFor(f.R)
		for i := int32(0); i <= tb.k; i++ {
			arr[i] = tb.mgr.Or(l[i], r[i])
		}
	case ltl.KindNext:
		child := tb.arrayFor(f.L)
		for i := int32(0); i < tb.k; i++ {
			arr[i] = child[i+1]
		}
		arr[tb.k] = tb.lastOf(child)
	case ltl.KindGlobally:
		child := tb.arrayFor(f.L)
		g := tb.gChain(func(i int32, next be.Ref) be.Ref { return tb.mgr.And(child[i], next) })
		arr[tb.k] = tb.mgr.And(child[tb.k], tb.lastOf(g))
		for i := tb.k - 1; i >= 0; i-- {
			arr[i] = tb.mgr.And(child[i], arr[i+1])
		}
	case ltl.KindFinally:
		child := tb.arrayFor(f.L)
		g := tb.gChain(func(i int32, next be.Ref) be.Ref { return tb.mgr.Or(child[i], next) })
		arr[tb.k] = tb.mgr.Or(child[tb.k], tb.lastOf(g))
		for i := tb.k - 1; i >= 0; i-- {
			arr[i] = tb.mgr.Or(child[i], arr[i+1])
		}
	case ltl.KindUntil:
		l, r := tb.arrayFor(f.L), tb.arrayFor(f.R)
		g := tb.gChain(func(i int32, next be.Ref) be.Ref {
			return tb.mgr.Or(r[i], tb.mgr.And(l[i], next))
		})
		arr[tb.k] = tb.mgr.Or(r[tb.k], tb.mgr.And(l[tb.k], tb.lastOf(g)))
		for i := tb.k - 1; i >= 0; i-- {
			arr[i] = tb.mgr.Or(r[i], tb.mgr.And(l[i], arr[i+1]))
		}
	case ltl.KindRelease:
		l, r := tb.arrayFor(f.L), tb.arrayFor(f.R)
		g := tb.gChain(func(i int32, next be.Ref) be.Ref {
			return tb.mgr.And(r[i], tb.mgr.Or(l[i], next))
		})
		arr[tb.k] = tb.mgr.And(r[tb.k], tb.mgr.Or(l[tb.k], tb.lastOf(g)))
		for i := tb.k - 1; i >= 0; i-- {
			arr[i] = tb.mgr.And(r[i], tb.mgr.Or(l[i], arr[i+1]))
		}
	}
	tb.arrMemo[f] = arr
	return arr
}
