package be

// Substitute rebuilds e with every variable's physical index passed through remap. remap returns
// (newIndex, true) to relocate a variable, or (_, false) to signal that the variable must not
// occur in e at all -- the INVALID_SUBST contract of spec.md §4.1's logical_subst: hitting it is
// a fatal contract violation, not a recoverable error, since it means a caller asked to shift an
// expression into a time/class it was never written against (e.g. shifting an expression
// containing an input variable with shift_curr_to_next).
//
// This is the single primitive both of the encoder's bulk operators (logical_shift_var,
// logical_subst) are built from: they differ only in how they compute remap from the encoder's
// log2phy/phy2log arrays and a delta or substitution table, which is encoder-level bookkeeping
// the manager itself stays agnostic to.
func (m *Manager) Substitute(e Ref, remap func(physIndex int32) (int32, bool)) Ref {
	memo := make(map[int32]Ref)
	var rec func(id int32) Ref
	rec = func(id int32) Ref {
		if r, ok := memo[id]; ok {
			return r
		}
		n := m.nodes[id]
		var result Ref
		switch n.kind {
		case opConst:
			result = RefFalse
		case opVar:
			newIdx, ok := remap(n.index)
			if !ok {
				violate("be: substitution hit INVALID_SUBST on variable with physical index %d", n.index)
			}
			result = m.MkVar(newIdx)
		case opAnd:
			a := applyPol(rec(n.a.id()), n.a.neg())
			b := applyPol(rec(n.b.id()), n.b.neg())
			result = m.And(a, b)
		}
		memo[id] = result
		return result
	}
	return applyPol(rec(e.id()), e.neg())
}

func applyPol(r Ref, negated bool) Ref {
	if negated {
		return Not(r)
	}
	return r
}

// VarIndices returns the set of physical variable indices occurring (with either polarity) in e,
// used by shifting memoization invalidation and by cone-of-influence computation.
func (m *Manager) VarIndices(e Ref) []int32 {
	var out []int32
	m.Walk(e, func(id int32, n node) {
		if n.kind == opVar {
			out = append(out, n.index)
		}
	})
	return out
}
