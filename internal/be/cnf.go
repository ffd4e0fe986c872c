package be

import "github.com/boundedmc/bmc/util/bitset"

// Polarity hints passed to ToCNF, mirroring spec.md §4.1's to_cnf(e, polarity) contract: when a
// BE is known to occur only in a context where it must evaluate to true (PolarityPositive) or
// only false (PolarityNegative), fewer Tseitin clauses are required at the root gate than in the
// general (PolarityMixed) case.
const (
	PolarityPositive = 1
	PolarityNegative = -1
	PolarityMixed    = 0
)

// Clause is a DIMACS-style clause: a disjunction of signed literals, variable numbers 1-based.
type Clause []int32

// CNF is a conjunction of Clauses produced by ToCNF. Variable numbers for BE variable nodes equal
// physicalIndex+1, so a SAT model can be read back directly against the encoder's physical
// indices without an extra translation table (spec.md §4.7's "reads back an assignment over the
// encoder's physical indices").
type CNF struct {
	Clauses []Clause
}

// gateVar returns the stable CNF variable number for an AND-gate node, allocating one on first
// use. A gate variable is numbered just above the physical-index range reserved when it is
// allocated, and persists until InvalidateGateVars drops it (it mentions a removed physical index)
// or ToCNF renumbers every gate because Reserve has since grown the range over it, which is what
// lets repeated ToCNF calls over overlapping sub-DAGs reuse the same auxiliary variables instead
// of re-introducing equivalent-but-distinct ones every call.
func (m *Manager) gateVar(id int32) int32 {
	if m.gateVars == nil {
		m.gateVars = make(map[int32]int32)
	}
	if v, ok := m.gateVars[id]; ok {
		return v
	}
	v := m.reserved + 1 + m.gateVarSeq
	m.gateVarSeq++
	m.gateVars[id] = v
	return v
}

// lit converts a signed Ref into a DIMACS literal against the var numbering of ToCNF.
func (m *Manager) lit(r Ref) int32 {
	n := m.nodes[r.id()]
	var v int32
	switch n.kind {
	case opVar:
		v = n.index + 1
	case opAnd:
		v = m.gateVar(r.id())
	case opConst:
		v = m.constVar()
	}
	if r.neg() {
		return -v
	}
	return v
}

func (m *Manager) constVar() int32 {
	if m.constGateVar == 0 {
		m.constGateVar = m.reserved + 1 + m.gateVarSeq
		m.gateVarSeq++
	}
	return m.constGateVar
}

// ToCNF converts e into an equisatisfiable CNF under Tseitin encoding and returns the literal that
// stands for e itself (assert it as a unit clause, or hand it to set_polarity-style callers, to
// require e true/false). polarity narrows the clauses generated for the root gate only; internal
// gates always receive the full biconditional definition, a deliberately simpler-than-optimal
// choice -- see ApplyInlining for the complementary size reduction this leaves on the table.
func (m *Manager) ToCNF(e Ref, polarity int) (CNF, int32) {
	var cnf CNF
	// Gate and constant numbers handed out by an earlier call sit just above the range reserved at
	// that time; once Reserve has grown the range over one of them, renumber from scratch.
	stale := m.constGateVar != 0 && m.constGateVar <= m.reserved
	for _, v := range m.gateVars {
		if v <= m.reserved {
			stale = true
			break
		}
	}
	if stale {
		m.gateVars = nil
		m.gateVarSeq = 0
		m.constGateVar = 0
	}
	if e == RefTrue || e == RefFalse {
		// The constant variable stands for the false node, so it is always asserted false;
		// lit(RefTrue) is its negation.
		cnf.Clauses = append(cnf.Clauses, Clause{-m.constVar()})
		return cnf, m.lit(e)
	}

	m.Walk(e, func(id int32, n node) {
		if n.kind != opAnd {
			return
		}
		g := m.gateVar(id)
		la, lb := m.lit(n.a), m.lit(n.b)
		isRoot := id == e.id()
		needPos, needNeg := true, true
		if isRoot {
			switch polarity {
			case PolarityPositive:
				needNeg = false
			case PolarityNegative:
				needPos = false
			}
		}
		if needPos {
			cnf.Clauses = append(cnf.Clauses, Clause{-g, la}, Clause{-g, lb})
		}
		if needNeg {
			cnf.Clauses = append(cnf.Clauses, Clause{g, -la, -lb})
		}
	})
	return cnf, m.lit(e)
}

// computeInlineSet returns the set of AND-gate node ids reachable from e whose fan-in (number of
// distinct parent edges within e's DAG) is exactly one: candidates a richer compiler could fold
// into their single use site instead of naming with their own gate variable, since no sharing is
// lost by expanding them inline. ToCNF does not act on this set -- every AND gate it walks gets
// its own defining clauses regardless of fan-in, which is what makes the emitted CNF sound (an
// inlined-but-unconstrained gate variable would be a free variable, relaxing the formula). Only
// ApplyInlining's own reporting consults this set; folding it into ToCNF itself remains the
// unclaimed size reduction its doc comment describes.
func (m *Manager) computeInlineSet(e Ref) map[int32]bool {
	fanin := make(map[int32]int)
	m.Walk(e, func(id int32, n node) {
		if n.kind == opAnd {
			fanin[n.a.id()]++
			fanin[n.b.id()]++
		}
	})
	inline := make(map[int32]bool)
	for id, n := range fanin {
		if n == 1 && m.nodes[id].kind == opAnd {
			inline[id] = true
		}
	}
	delete(inline, e.id())
	return inline
}

// ApplyInlining implements spec.md §4.1's semantics-preserving rewrite used before CNF. It never
// changes e's identity (the AIG is already maximally shared via hash-consing), but reports which
// AND-gates are safe to collapse into their single use site. When force is true (required before
// any CNF destined for an incremental solver session, so that gate variable identities stay
// stable across solve_* calls) inlining is suppressed entirely and the returned set is empty.
func (m *Manager) ApplyInlining(e Ref, force bool) (Ref, map[int32]bool) {
	if force {
		return e, map[int32]bool{}
	}
	return e, m.computeInlineSet(e)
}

// InvalidateGateVars drops cached gate-variable assignments for any AND node that transitively
// mentions one of the given physical indices. The encoder calls this after removing a layer, per
// spec.md §9's "the cache must be flushed whenever a layer is committed or removed".
func (m *Manager) InvalidateGateVars(removedPhysIndices []int32) {
	removed := bitset.New(0)
	for _, p := range removedPhysIndices {
		removed.Add(int(p))
	}
	for id := range m.gateVars {
		n := m.nodes[id]
		if n.kind != opAnd {
			continue
		}
		mentions := false
		m.Walk(mkRef(id, false), func(_ int32, vn node) {
			if vn.kind == opVar && removed.Test(int(vn.index)) {
				mentions = true
			}
		})
		if mentions {
			delete(m.gateVars, id)
		}
	}
}
