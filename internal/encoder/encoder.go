// Package encoder implements the BE encoder of spec.md §4.2: the bijection between symbolic
// finite-state-machine variables (current-state, next-state, input, frozen) and the BE manager's
// physical variable indices, the untimed/timed logical index blocks built on top of that
// bijection, and the time-shifting service the model unroller and tableau constructors use to
// instantiate an untimed formula at a concrete step.
package encoder

import (
	"fmt"

	"github.com/boundedmc/bmc/internal/be"
	"github.com/boundedmc/bmc/internal/symtab"
)

// Sentinel time values accepted wherever a per-class target time is expected (e.g.
// UntimedExprToTimes). TimeUntimed requests that the class be left untouched (its variables stay
// the untimed physical ones); TimeInvalid marks a class that must not occur at all in the
// expression being shifted -- hitting it is spec.md §4.1's INVALID_SUBST contract violation.
const (
	TimeUntimed int32 = -1
	TimeInvalid int32 = -2
)

type classTag uint8

const (
	tagCurrent classTag = iota
	tagFrozen
	tagInput
	tagNext
	tagAux
)

type physInfo struct {
	tag  classTag
	name string
}

type timeVar struct {
	name string
	t    int32
}

type shiftKey struct {
	e                  be.Ref
	cTime, fTime, iTime, nTime int32
}

// Encoder is the BE encoder. The zero value is not usable; use New.
type Encoder struct {
	mgr *be.Manager

	stateVars  []string
	frozenVars []string
	inputVars  []string
	stateSet   map[string]bool
	frozenSet  map[string]bool
	inputSet   map[string]bool

	untimedCurrentPhys map[string]int32
	untimedNextPhys    map[string]int32
	frozenPhys         map[string]int32
	untimedInputPhys   map[string]int32
	timedCurrentPhys   map[timeVar]int32
	timedInputPhys     map[timeVar]int32

	physInfo map[int32]physInfo
	freelist []int32
	nextPhys int32

	untimedBlockSize int32
	timedBlockSize   int32
	tmax             int32 // -1 means no timed block exists yet

	log2phy []int32
	phy2log map[int32]int32

	nameToUntimedPos map[string]int32 // name -> its untimed-block logical position (current/frozen/input)

	shiftMemo map[shiftKey]be.Ref

	onLayerChange []func()
}

// New creates an empty Encoder backed by mgr.
func New(mgr *be.Manager) *Encoder {
	e := &Encoder{
		mgr:                mgr,
		stateSet:           map[string]bool{},
		frozenSet:          map[string]bool{},
		inputSet:           map[string]bool{},
		untimedCurrentPhys: map[string]int32{},
		untimedNextPhys:    map[string]int32{},
		frozenPhys:         map[string]int32{},
		untimedInputPhys:   map[string]int32{},
		timedCurrentPhys:   map[timeVar]int32{},
		timedInputPhys:     map[timeVar]int32{},
		physInfo:           map[int32]physInfo{},
		tmax:               -1,
		shiftMemo:          map[shiftKey]be.Ref{},
	}
	e.rebuild()
	return e
}

// Manager returns the BE manager this encoder draws physical indices from.
func (e *Encoder) Manager() *be.Manager { return e.mgr }

// OnLayerChange registers a callback invoked every time a layer is committed or removed, i.e.
// whenever logical indices may have moved. Tableau packages use this to flush their own
// (φ,t,k,l)→BE memoization caches, per spec.md §4.4.3 and §9.
func (e *Encoder) OnLayerChange(f func()) { e.onLayerChange = append(e.onLayerChange, f) }

func (e *Encoder) allocPhys(tag classTag, name string) int32 {
	var idx int32
	if len(e.freelist) > 0 {
		idx = e.freelist[0]
		e.freelist = e.freelist[1:]
	} else {
		idx = e.nextPhys
		e.nextPhys++
		e.mgr.Reserve(int(e.nextPhys))
	}
	e.physInfo[idx] = physInfo{tag: tag, name: name}
	return idx
}

func (e *Encoder) freePhys(idx int32) {
	delete(e.physInfo, idx)
	e.freelist = append(e.freelist, idx)
}

// CommitLayer extends the encoder with a set of new symbolic variables, per spec.md §4.2.1.
// Adding a name that already exists anywhere in the encoder is a contract violation.
func (e *Encoder) CommitLayer(vars []symtab.Var) {
	for _, v := range vars {
		if e.stateSet[v.Name] || e.frozenSet[v.Name] || e.inputSet[v.Name] {
			panic(fmt.Sprintf("encoder: variable %q added twice", v.Name))
		}
	}
	for _, v := range vars {
		switch v.Class {
		case symtab.ClassState:
			e.stateVars = append(e.stateVars, v.Name)
			e.stateSet[v.Name] = true
			e.untimedCurrentPhys[v.Name] = e.allocPhys(tagCurrent, v.Name)
			e.untimedNextPhys[v.Name] = e.allocPhys(tagNext, v.Name)
			for t := int32(0); t <= e.tmax; t++ {
				e.timedCurrentPhys[timeVar{v.Name, t}] = e.allocPhys(tagCurrent, v.Name)
			}
		case symtab.ClassFrozen:
			e.frozenVars = append(e.frozenVars, v.Name)
			e.frozenSet[v.Name] = true
			e.frozenPhys[v.Name] = e.allocPhys(tagFrozen, v.Name)
		case symtab.ClassInput:
			e.inputVars = append(e.inputVars, v.Name)
			e.inputSet[v.Name] = true
			e.untimedInputPhys[v.Name] = e.allocPhys(tagInput, v.Name)
			for t := int32(0); t <= e.tmax; t++ {
				e.timedInputPhys[timeVar{v.Name, t}] = e.allocPhys(tagInput, v.Name)
			}
		}
	}
	e.rebuild()
}

// RemoveLayer removes the named variables and all their timed instances, reclaiming their
// physical indices onto the free-list and compacting the logical index space, per spec.md §4.2.2.
func (e *Encoder) RemoveLayer(names []string) {
	removedPhys := make([]int32, 0, len(names)*2)
	remove := func(name string) bool {
		switch {
		case e.stateSet[name]:
			removedPhys = append(removedPhys, e.untimedCurrentPhys[name], e.untimedNextPhys[name])
			e.freePhys(e.untimedCurrentPhys[name])
			e.freePhys(e.untimedNextPhys[name])
			delete(e.untimedCurrentPhys, name)
			delete(e.untimedNextPhys, name)
			for t := int32(0); t <= e.tmax; t++ {
				k := timeVar{name, t}
				removedPhys = append(removedPhys, e.timedCurrentPhys[k])
				e.freePhys(e.timedCurrentPhys[k])
				delete(e.timedCurrentPhys, k)
			}
			delete(e.stateSet, name)
			e.stateVars = removeName(e.stateVars, name)
			return true
		case e.frozenSet[name]:
			removedPhys = append(removedPhys, e.frozenPhys[name])
			e.freePhys(e.frozenPhys[name])
			delete(e.frozenPhys, name)
			delete(e.frozenSet, name)
			e.frozenVars = removeName(e.frozenVars, name)
			return true
		case e.inputSet[name]:
			removedPhys = append(removedPhys, e.untimedInputPhys[name])
			e.freePhys(e.untimedInputPhys[name])
			delete(e.untimedInputPhys, name)
			for t := int32(0); t <= e.tmax; t++ {
				k := timeVar{name, t}
				removedPhys = append(removedPhys, e.timedInputPhys[k])
				e.freePhys(e.timedInputPhys[k])
				delete(e.timedInputPhys, k)
			}
			delete(e.inputSet, name)
			e.inputVars = removeName(e.inputVars, name)
			return true
		}
		return false
	}
	for _, n := range names {
		remove(n)
	}
	e.mgr.InvalidateGateVars(removedPhys)
	e.rebuild()
}

func removeName(names []string, target string) []string {
	out := names[:0]
	for _, n := range names {
		if n != target {
			out = append(out, n)
		}
	}
	return out
}

// rebuild recomputes the derived logical index bookkeeping (log2phy, phy2log, block sizes) from
// the current variable sets and tmax, and flushes every cache that depends on logical positions.
// Physical index identities themselves are never touched here -- they are permanent for the
// lifetime of a variable, assigned once in allocPhys and only reclaimed by RemoveLayer.
func (e *Encoder) rebuild() {
	nS, nF, nI := int32(len(e.stateVars)), int32(len(e.frozenVars)), int32(len(e.inputVars))
	e.untimedBlockSize = 2*nS + nF + nI
	e.timedBlockSize = nS + nF + nI

	total := e.untimedBlockSize
	if e.tmax >= 0 {
		total += (e.tmax + 1) * e.timedBlockSize
	}
	e.log2phy = make([]int32, total)
	e.nameToUntimedPos = make(map[string]int32, nS+nF+nI)

	pos := int32(0)
	for _, n := range e.stateVars {
		e.log2phy[pos] = e.untimedCurrentPhys[n]
		e.nameToUntimedPos[n] = pos
		pos++
	}
	for _, n := range e.frozenVars {
		e.log2phy[pos] = e.frozenPhys[n]
		e.nameToUntimedPos[n] = pos
		pos++
	}
	for _, n := range e.inputVars {
		e.log2phy[pos] = e.untimedInputPhys[n]
		e.nameToUntimedPos[n] = pos
		pos++
	}
	nextBase := pos
	for _, n := range e.stateVars {
		e.log2phy[pos] = e.untimedNextPhys[n]
		pos++
	}
	_ = nextBase

	for t := int32(0); t <= e.tmax; t++ {
		base := e.untimedBlockSize + t*e.timedBlockSize
		p := base
		for _, n := range e.stateVars {
			e.log2phy[p] = e.timedCurrentPhys[timeVar{n, t}]
			p++
		}
		for _, n := range e.frozenVars {
			e.log2phy[p] = e.frozenPhys[n]
			p++
		}
		for _, n := range e.inputVars {
			e.log2phy[p] = e.timedInputPhys[timeVar{n, t}]
			p++
		}
	}

	e.phy2log = make(map[int32]int32, e.untimedBlockSize)
	for i := int32(0); i < e.untimedBlockSize; i++ {
		if _, ok := e.phy2log[e.log2phy[i]]; !ok {
			e.phy2log[e.log2phy[i]] = i
		}
	}

	e.shiftMemo = map[shiftKey]be.Ref{}
	for _, cb := range e.onLayerChange {
		cb()
	}
}

// NS, NF, NI return the current counts of state, frozen, and input variables.
func (e *Encoder) NS() int { return len(e.stateVars) }
func (e *Encoder) NF() int { return len(e.frozenVars) }
func (e *Encoder) NI() int { return len(e.inputVars) }

// Tmax returns the greatest time index for which a timed block has been allocated, or -1.
func (e *Encoder) Tmax() int32 { return e.tmax }

// AllocAux reserves a fresh physical variable outside the state/frozen/input/next bookkeeping,
// for tableaux (e.g. internal/sbmc) that need their own propositional variables -- el_i, il_i,
// g_ψ(i) auxiliaries -- which never occupy a logical position and are never touched by rebuild.
// name is purely diagnostic; it need not be unique.
func (e *Encoder) AllocAux(name string) be.Ref {
	idx := e.allocPhys(tagAux, name)
	return e.mgr.MkVar(idx)
}

// NameToUntimed returns the untimed current/frozen/input BE for name.
func (e *Encoder) NameToUntimed(name string) (be.Ref, bool) {
	pos, ok := e.nameToUntimedPos[name]
	if !ok {
		return be.RefFalse, false
	}
	return e.mgr.MkVar(e.log2phy[pos]), true
}
