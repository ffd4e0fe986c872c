package encoder

import "github.com/boundedmc/bmc/internal/be"

// ensureTime grows the encoder's timed blocks up to and including time t, allocating fresh
// physical indices for every current-state and input variable at each newly covered time. Frozen
// variables never get new physical indices: their timed occurrence always aliases the untimed one.
func (e *Encoder) ensureTime(t int32) {
	if t <= e.tmax {
		return
	}
	for tt := e.tmax + 1; tt <= t; tt++ {
		for _, n := range e.stateVars {
			e.timedCurrentPhys[timeVar{n, tt}] = e.allocPhys(tagCurrent, n)
		}
		for _, n := range e.inputVars {
			e.timedInputPhys[timeVar{n, tt}] = e.allocPhys(tagInput, n)
		}
	}
	e.tmax = t
	e.rebuild()
}

// IndexCurrTime returns the physical variable backing state variable name at time t, extending the
// encoder's timed blocks if t has not been reached yet.
func (e *Encoder) IndexCurrTime(name string, t int32) (be.Ref, bool) {
	if !e.stateSet[name] {
		return be.RefFalse, false
	}
	e.ensureTime(t)
	return e.mgr.MkVar(e.timedCurrentPhys[timeVar{name, t}]), true
}

// IndexInputTime returns the physical variable backing input variable name at time t, extending
// the encoder's timed blocks if needed.
func (e *Encoder) IndexInputTime(name string, t int32) (be.Ref, bool) {
	if !e.inputSet[name] {
		return be.RefFalse, false
	}
	e.ensureTime(t)
	return e.mgr.MkVar(e.timedInputPhys[timeVar{name, t}]), true
}

// IndexFrozen returns the (time-independent) physical variable backing frozen variable name.
func (e *Encoder) IndexFrozen(name string) (be.Ref, bool) {
	p, ok := e.frozenPhys[name]
	if !ok {
		return be.RefFalse, false
	}
	return e.mgr.MkVar(p), true
}

// VarCurrToNext maps a single untimed current-state literal to its untimed next-state
// counterpart. v must be an untimed current-state variable occurrence (possibly negated).
func (e *Encoder) VarCurrToNext(v be.Ref) be.Ref {
	r, ok := e.permuteUntimedVar(v, tagNext)
	if !ok {
		panic("encoder: VarCurrToNext called on a non-current-state variable")
	}
	return r
}

// VarNextToCurr is VarCurrToNext's inverse.
func (e *Encoder) VarNextToCurr(v be.Ref) be.Ref {
	r, ok := e.permuteUntimedVar(v, tagCurrent)
	if !ok {
		panic("encoder: VarNextToCurr called on a non-next-state variable")
	}
	return r
}

func (e *Encoder) permuteUntimedVar(v be.Ref, want classTag) (be.Ref, bool) {
	idx, ok := e.mgr.VarIndex(v)
	if !ok {
		return be.RefFalse, false
	}
	info, ok := e.physInfo[idx]
	if !ok {
		return be.RefFalse, false
	}
	neg := isNeg(v)
	switch want {
	case tagNext:
		if info.tag != tagCurrent {
			return be.RefFalse, false
		}
		r := e.mgr.MkVar(e.untimedNextPhys[info.name])
		return applyNeg(r, neg), true
	case tagCurrent:
		if info.tag != tagNext {
			return be.RefFalse, false
		}
		r := e.mgr.MkVar(e.untimedCurrentPhys[info.name])
		return applyNeg(r, neg), true
	}
	return be.RefFalse, false
}

func isNeg(r be.Ref) bool { return int32(r)&1 != 0 }

func applyNeg(r be.Ref, neg bool) be.Ref {
	if neg {
		return be.Not(r)
	}
	return r
}

// untimedClassOf classifies the physical index backing an untimed BE variable occurrence.
func (e *Encoder) untimedClassOf(phys int32) (classTag, string, bool) {
	info, ok := e.physInfo[phys]
	if !ok {
		return 0, "", false
	}
	return info.tag, info.name, true
}

// UntimedExprToTimes shifts every variable occurring in the untimed expression e into the
// corresponding timed physical variable, per spec.md §4.2.3's general four-way shift:
// current-state variables move to cTime, frozen variables stay put (fTime is accepted only as
// TimeUntimed, any concrete value is equivalent), input variables move to iTime, and next-state
// variables move to the current-state slot at nTime. Passing TimeInvalid for a class that does
// occur in e is a contract violation; passing TimeUntimed leaves that class's variables as their
// untimed physical selves.
func (e *Encoder) UntimedExprToTimes(expr be.Ref, cTime, fTime, iTime, nTime int32) be.Ref {
	key := shiftKey{expr, cTime, fTime, iTime, nTime}
	if cached, ok := e.shiftMemo[key]; ok {
		return cached
	}
	if cTime >= 0 {
		e.ensureTime(cTime)
	}
	if iTime >= 0 {
		e.ensureTime(iTime)
	}
	if nTime >= 0 {
		e.ensureTime(nTime)
	}
	result := e.mgr.Substitute(expr, func(phys int32) (int32, bool) {
		tag, name, ok := e.untimedClassOf(phys)
		if !ok {
			return 0, false
		}
		switch tag {
		case tagCurrent:
			if cTime == TimeInvalid {
				return 0, false
			}
			if cTime == TimeUntimed {
				return phys, true
			}
			return e.timedCurrentPhys[timeVar{name, cTime}], true
		case tagFrozen:
			if fTime == TimeInvalid {
				return 0, false
			}
			return e.frozenPhys[name], true
		case tagInput:
			if iTime == TimeInvalid {
				return 0, false
			}
			if iTime == TimeUntimed {
				return phys, true
			}
			return e.timedInputPhys[timeVar{name, iTime}], true
		case tagNext:
			if nTime == TimeInvalid {
				return 0, false
			}
			if nTime == TimeUntimed {
				return phys, true
			}
			return e.timedCurrentPhys[timeVar{name, nTime}], true
		}
		return 0, false
	})
	e.shiftMemo[key] = result
	return result
}

// UntimedExprToTimed is the common case of UntimedExprToTimes: current and input variables move to
// t, next-state variables move to t+1 (their natural successor-state meaning), frozen variables
// stay put. This realizes spec.md §4.2.3's untimed_expr_to_timed.
func (e *Encoder) UntimedExprToTimed(expr be.Ref, t int32) be.Ref {
	return e.UntimedExprToTimes(expr, t, TimeUntimed, t, t+1)
}

// ShiftCurrToNext rewrites every current-state variable occurring in the untimed expression e into
// its next-state counterpart; frozen variables pass through unchanged, and an input or next-state
// variable in expr is a contract violation (Substitute's INVALID_SUBST panic). Used to build
// Trans's "primed" half from a state-predicate template (spec.md §4.2.3's shift_curr_to_next).
func (e *Encoder) ShiftCurrToNext(expr be.Ref) be.Ref {
	return e.mgr.Substitute(expr, func(phys int32) (int32, bool) {
		tag, name, ok := e.untimedClassOf(phys)
		if !ok {
			return 0, false
		}
		switch tag {
		case tagCurrent:
			return e.untimedNextPhys[name], true
		case tagFrozen:
			return phys, true
		}
		return 0, false
	})
}

// ShiftNextToCurr is ShiftCurrToNext's inverse: it rewrites next-state variable occurrences back
// into their current-state counterparts.
func (e *Encoder) ShiftNextToCurr(expr be.Ref) be.Ref {
	return e.mgr.Substitute(expr, func(phys int32) (int32, bool) {
		tag, name, ok := e.untimedClassOf(phys)
		if !ok {
			return 0, false
		}
		switch tag {
		case tagNext:
			return e.untimedCurrentPhys[name], true
		case tagFrozen, tagInput:
			return phys, true
		}
		return 0, false
	})
}
