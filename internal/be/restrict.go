package be

// Restrict returns e with every variable whose physical index is a key of values replaced by the
// corresponding Boolean constant (cofactoring), rebuilding ancestor gates through the ordinary
// hash-consed And/Not so constant propagation folds away as usual. Used by the LTL tableau to
// force input variables to ⊥ at the open right end of a bounded path (spec.md §4.4.1).
func (m *Manager) Restrict(e Ref, values map[int32]bool) Ref {
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
			if v, ok := values[n.index]; ok {
				if v {
					result = RefTrue
				} else {
					result = RefFalse
				}
			} else {
				result = m.MkVar(n.index)
			}
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
