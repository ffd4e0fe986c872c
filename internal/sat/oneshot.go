package sat

import "context"

// Model is a read-only snapshot of a Sat result's variable assignment, taken once so the solver
// backing it can be discarded immediately afterward (the non-incremental algorithms of spec.md
// §4.7.2 build a whole fresh CNF per k and never need the solver again after one verdict).
type Model struct {
	vals map[int32]bool
}

// Value reports the assignment of variable v (1-based, positive), or false if v was never
// mentioned in the clauses that produced this Model (e.g. it simplified away).
func (m *Model) Value(v int32) bool { return m.vals[v] }

// SolveOnce builds a fresh Solver, asserts clauses and assumptions, and solves exactly once. It is
// the non-incremental entry point used by driver.CheckLTL's non-incremental path and by Classic/
// Een-Sørensson/Falsification, each of which re-derives the whole CNF for its current k rather
// than reusing solver state across steps.
func SolveOnce(ctx context.Context, clauses [][]int32, assumptions []int32, interesting []int32) (Result, *Model, error) {
	s := NewIncremental()
	for _, c := range clauses {
		s.AddClause(c)
	}
	if len(assumptions) > 0 {
		s.Assume(assumptions...)
	}
	result, err := s.Solve(ctx)
	if result != Sat {
		return result, nil, err
	}
	vals := make(map[int32]bool, len(interesting))
	for _, v := range interesting {
		vals[v] = s.Value(v)
	}
	return result, &Model{vals: vals}, err
}
