// Package diagnostic accumulates and renders the verdict/diagnostic lines of spec.md §7: Conflict
// values are collected during a run (here, per property/bound/loop instead of per nil-flow path)
// and rendered at the end rather than printed as they occur.
package diagnostic

import "fmt"

// Kind classifies why a Conflict was recorded.
type Kind uint8

const (
	// KindFalse: the property was disproved; a trace is available.
	KindFalse Kind = iota
	// KindTrue: the property was proved (an invariant algorithm's step case held, or the bound
	// was exhausted with no counterexample under bounded-complete semantics).
	KindTrue
	// KindNoCounterexample: no counterexample was found within the bound, but the property was
	// not proved true either (e.g. Falsification, or Een-Sørensson without a step-case success).
	KindNoCounterexample
	// KindInductionFailed: an invariant algorithm's step case did not close.
	KindInductionFailed
	// KindSkipped: a user-input error caused one (property,k,l) combination to be skipped.
	KindSkipped
	// KindBackendFailure: the SAT back-end returned TIMEOUT, MEMOUT, or an internal error.
	KindBackendFailure
)

// Conflict is one diagnostic record: what happened, for which property, at what bound/loop.
type Conflict struct {
	Kind     Kind
	Property string
	K        int32
	Loop     string // already-rendered loop string ("" for no loop, "*", or a decimal), for display only
	Detail   string // extra context: a SAT back-end error, an induction-failure reason, etc.
}

// Line renders the single §7 verdict line for this Conflict.
func (c Conflict) Line() string {
	switch c.Kind {
	case KindFalse:
		return fmt.Sprintf("-- %s is false", c.Property)
	case KindTrue:
		return fmt.Sprintf("-- %s is true", c.Property)
	case KindNoCounterexample:
		if c.Loop != "" {
			return fmt.Sprintf("-- no counterexample found with bound %d and loop %s", c.K, c.Loop)
		}
		return fmt.Sprintf("-- no counterexample found with bound %d", c.K)
	case KindInductionFailed:
		return fmt.Sprintf("-- cannot prove %s: induction fails at bound %d%s", c.Property, c.K, detailSuffix(c.Detail))
	case KindSkipped:
		return fmt.Sprintf("-- skipped %s at bound %d%s", c.Property, c.K, detailSuffix(c.Detail))
	case KindBackendFailure:
		return fmt.Sprintf("-- SAT back-end failure for %s at bound %d%s", c.Property, c.K, detailSuffix(c.Detail))
	default:
		return fmt.Sprintf("-- unknown result for %s", c.Property)
	}
}

func detailSuffix(detail string) string {
	if detail == "" {
		return ""
	}
	return ": " + detail
}

// Log accumulates Conflicts for one driver run and renders them in recording order.
type Log struct {
	conflicts []Conflict
}

// Record appends c to the log.
func (l *Log) Record(c Conflict) { l.conflicts = append(l.conflicts, c) }

// Conflicts returns every recorded Conflict, in recording order.
func (l *Log) Conflicts() []Conflict {
	out := make([]Conflict, len(l.conflicts))
	copy(out, l.conflicts)
	return out
}

// Render returns every recorded Conflict's verdict line, one per line, in recording order.
func (l *Log) Render() []string {
	lines := make([]string, len(l.conflicts))
	for i, c := range l.conflicts {
		lines[i] = c.Line()
	}
	return lines
}
