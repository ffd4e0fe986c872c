// Package trace builds the counterexample format of spec.md §6.2 by reading a SAT model back
// against the BE encoder's physical-index bookkeeping.
package trace

import (
	"github.com/boundedmc/bmc/internal/encoder"
	"github.com/boundedmc/bmc/internal/model"
	"github.com/boundedmc/bmc/util/orderedmap"
)

// StepKind classifies a trace step, carried from the original's SATPartialTraceExecutor.c
// step-kind distinction (SPEC_FULL.md's supplemented feature 6).
type StepKind uint8

const (
	// KindInitial is step 0: its state assignment must satisfy Init, not just Trans.
	KindInitial StepKind = iota
	// KindTransition is an ordinary step reached from its predecessor via Trans.
	KindTransition
	// KindCombinatorial marks a step whose input and landing-state assignment were solved
	// together as one combinational block rather than via a separate prior transition step.
	KindCombinatorial
)

func (k StepKind) String() string {
	switch k {
	case KindInitial:
		return "initial"
	case KindCombinatorial:
		return "combinatorial"
	default:
		return "transition"
	}
}

// Step is one time point of a trace: assignments to state variables (always present), input
// variables (present at every step in this implementation -- spec.md §6.2 allows omitting step 0
// under an "initial input" convention this core does not need to distinguish), and frozen
// variables (constant across all steps by the encoder's own frozen-aliasing contract). Each
// assignment is an OrderedMap rather than a plain map so that printing and gob-encoding a trace
// (internal/cnfio) sees variables in declaration order instead of Go's randomized map order.
type Step struct {
	Kind   StepKind
	State  *orderedmap.OrderedMap[string, bool]
	Input  *orderedmap.OrderedMap[string, bool]
	Frozen *orderedmap.OrderedMap[string, bool]
}

// Trace is a finite counterexample or witness path of k+1 steps, with an optional loopback marker
// (model.NoLoop when the path has none).
type Trace struct {
	Steps []Step
	Loop  int32
}

// ValueFunc reads a SAT model's assignment to the BE variable at the given physical index.
type ValueFunc func(physIndex int32) bool

// Build reads off every encoded state/input/frozen variable at every time 0..k from val and
// assembles a Trace, per spec.md §4.7.2's "common contract" closing paragraph.
func Build(enc *encoder.Encoder, k, loop int32, val ValueFunc) *Trace {
	mgr := enc.Manager()

	frozen := orderedmap.New[string, bool]()
	for _, name := range enc.FrozenVars() {
		r, _ := enc.IndexFrozen(name)
		idx, _ := mgr.VarIndex(r)
		frozen.Store(name, val(idx))
	}

	steps := make([]Step, k+1)
	for t := int32(0); t <= k; t++ {
		kind := KindTransition
		if t == 0 {
			kind = KindInitial
		}
		state := orderedmap.New[string, bool]()
		for _, name := range enc.StateVars() {
			r, _ := enc.IndexCurrTime(name, t)
			idx, _ := mgr.VarIndex(r)
			state.Store(name, val(idx))
		}
		input := orderedmap.New[string, bool]()
		for _, name := range enc.InputVars() {
			r, _ := enc.IndexInputTime(name, t)
			idx, _ := mgr.VarIndex(r)
			input.Store(name, val(idx))
		}
		steps[t] = Step{Kind: kind, State: state, Input: input, Frozen: frozen}
	}
	return &Trace{Steps: steps, Loop: loop}
}

// HasLoop reports whether the trace carries a loopback marker.
func (tr *Trace) HasLoop() bool { return tr.Loop != model.NoLoop && tr.Loop != model.AllLoops }
