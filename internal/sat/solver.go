// Package sat wraps a SAT back-end behind spec.md §6.3's Solver contract: add clauses, push
// assumptions, solve under a context deadline/cancellation, and read back a model.
package sat

import "context"

// Result is the three-valued outcome of a bounded Solve call.
type Result int

const (
	Unknown Result = iota
	Sat
	Unsat
)

func (r Result) String() string {
	switch r {
	case Sat:
		return "sat"
	case Unsat:
		return "unsat"
	default:
		return "unknown"
	}
}

// Solver is a DIMACS-numbered (1-based, positive/negative signed int32) incremental SAT solver.
// Literal/variable numbering matches be.CNF's convention, so a CNF produced by be.Manager.ToCNF
// can be fed to AddClause without translation.
type Solver interface {
	// AddClause asserts the disjunction of lits permanently.
	AddClause(lits []int32)
	// Assume sets the literal assumptions for the next Solve call only.
	Assume(lits ...int32)
	// Solve runs until a definite result, ctx is done, or the solver is otherwise interrupted.
	// Unknown is returned (with ctx.Err()) when ctx ends the call before a verdict is reached.
	Solve(ctx context.Context) (Result, error)
	// Value reads back the model value of variable v (1-based, positive) after a Sat result.
	Value(v int32) bool
}
