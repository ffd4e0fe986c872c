package encoder

import (
	"fmt"

	"github.com/boundedmc/bmc/internal/be"
)

// StateVars, FrozenVars, InputVars return the variable names of each class, in untimed-block
// layout order.
func (e *Encoder) StateVars() []string  { return append([]string(nil), e.stateVars...) }
func (e *Encoder) FrozenVars() []string { return append([]string(nil), e.frozenVars...) }
func (e *Encoder) InputVars() []string  { return append([]string(nil), e.inputVars...) }

// IsIndexCurr, IsIndexFrozen, IsIndexInput, IsIndexNext classify an untimed BE variable occurrence
// (positive or negated literal over a single encoder variable) by class, per spec.md §4.2's
// iteration-by-type-mask contract. They report false for anything that is not a single untimed
// variable occurrence known to this encoder.
func (e *Encoder) IsIndexCurr(v be.Ref) bool  { return e.classOfRef(v) == tagCurrent }
func (e *Encoder) IsIndexFrozen(v be.Ref) bool { return e.classOfRef(v) == tagFrozen }
func (e *Encoder) IsIndexInput(v be.Ref) bool  { return e.classOfRef(v) == tagInput }
func (e *Encoder) IsIndexNext(v be.Ref) bool   { return e.classOfRef(v) == tagNext }

func (e *Encoder) classOfRef(v be.Ref) classTag {
	idx, ok := e.mgr.VarIndex(v)
	if !ok {
		return 255
	}
	info, ok := e.physInfo[idx]
	if !ok {
		return 255
	}
	return info.tag
}

// CurrUntimed, FrozenUntimed, InputUntimed, NextUntimed return the untimed BE for every variable of
// the respective class, in declaration order.
func (e *Encoder) CurrUntimed() []be.Ref {
	out := make([]be.Ref, len(e.stateVars))
	for i, n := range e.stateVars {
		out[i] = e.mgr.MkVar(e.untimedCurrentPhys[n])
	}
	return out
}

func (e *Encoder) FrozenUntimed() []be.Ref {
	out := make([]be.Ref, len(e.frozenVars))
	for i, n := range e.frozenVars {
		out[i] = e.mgr.MkVar(e.frozenPhys[n])
	}
	return out
}

func (e *Encoder) InputUntimed() []be.Ref {
	out := make([]be.Ref, len(e.inputVars))
	for i, n := range e.inputVars {
		out[i] = e.mgr.MkVar(e.untimedInputPhys[n])
	}
	return out
}

func (e *Encoder) NextUntimed() []be.Ref {
	out := make([]be.Ref, len(e.stateVars))
	for i, n := range e.stateVars {
		out[i] = e.mgr.MkVar(e.untimedNextPhys[n])
	}
	return out
}

// UntimedIndex names an untimed current-state variable's permanent physical index, stable across
// layer commits/removals (unlike the logical index, which rebuild can renumber). driver.uniqueness
// (spec.md §4.7.2's COI-restricted uniqueness) takes a cone-of-influence set typed this way so it
// can read a state variable's bit back at any time t without re-resolving it by name.
type UntimedIndex int32

// COI returns the cone-of-influence of expr: the physical indices of every current-state variable
// expr depends on, in the order a walk of expr first reaches them. Frozen and input variables are never included, since
// uniqueness constraints only ever compare state bits across time (spec.md §4.7.2).
func (e *Encoder) COI(expr be.Ref) []UntimedIndex {
	var out []UntimedIndex
	for _, idx := range e.mgr.VarIndices(expr) {
		if info, ok := e.physInfo[idx]; ok && info.tag == tagCurrent {
			out = append(out, UntimedIndex(idx))
		}
	}
	return out
}

// CurrTimeOf returns the timed BE for the current-state variable whose untimed physical index is
// idx, at time t. It panics (a contract violation) if idx does not name a current-state variable
// known to this encoder, mirroring IndexCurrTime's own by-name contract.
func (e *Encoder) CurrTimeOf(idx UntimedIndex, t int32) be.Ref {
	info, ok := e.physInfo[int32(idx)]
	if !ok || info.tag != tagCurrent {
		panic(fmt.Sprintf("encoder: %d is not a current-state untimed index", idx))
	}
	r, _ := e.IndexCurrTime(info.name, t)
	return r
}

// Log2Phy and Phy2Log expose the derived logical-index bookkeeping directly, for tests that assert
// spec.md §8's bijection and frozen-aliasing invariants.
func (e *Encoder) Log2Phy() []int32 { return append([]int32(nil), e.log2phy...) }

func (e *Encoder) Phy2Log(phys int32) (int32, bool) {
	pos, ok := e.phy2log[phys]
	return pos, ok
}

func (e *Encoder) UntimedBlockSize() int32 { return e.untimedBlockSize }
func (e *Encoder) TimedBlockSize() int32   { return e.timedBlockSize }
