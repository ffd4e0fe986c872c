package sat

import (
	"context"
	"time"

	"github.com/irifrance/gini"
	"github.com/irifrance/gini/z"
)

// pollInterval bounds how often Solve checks ctx between calls into the underlying solver's own
// bounded-duration Try, so cancellation/timeout is observed promptly without spawning a goroutine
// (an un-canceled background solve would otherwise leak for the lifetime of the process).
const pollInterval = 50 * time.Millisecond

// giniSolver is the Solver backend behind NewIncremental. The driver reaches it only through
// SolveOnce, which builds a fresh instance per query; no algorithm keeps one live across steps.
type giniSolver struct {
	g *gini.Gini
}

// NewIncremental returns a fresh incremental Solver.
func NewIncremental() Solver {
	return &giniSolver{g: gini.New()}
}

func toLit(v int32) z.Lit {
	if v < 0 {
		return z.Var(-v).Neg()
	}
	return z.Var(v).Pos()
}

func (s *giniSolver) AddClause(lits []int32) {
	for _, l := range lits {
		s.g.Add(toLit(l))
	}
	s.g.Add(z.LitNull)
}

func (s *giniSolver) Assume(lits ...int32) {
	ls := make([]z.Lit, len(lits))
	for i, l := range lits {
		ls[i] = toLit(l)
	}
	s.g.Assume(ls...)
}

func (s *giniSolver) Solve(ctx context.Context) (Result, error) {
	for {
		select {
		case <-ctx.Done():
			return Unknown, ctx.Err()
		default:
		}
		switch s.g.Try(pollInterval) {
		case 1:
			return Sat, nil
		case -1:
			return Unsat, nil
		}
	}
}

func (s *giniSolver) Value(v int32) bool {
	return s.g.Value(toLit(v))
}
