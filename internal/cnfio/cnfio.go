// Package cnfio persists a CNF (and, alongside it, a falsifying trace) to a compact on-disk form:
// gob encoding under s2 compression, here applied to dumping a bound's CNF for offline replay
// against an external SAT solver or for later trace inspection without re-running the whole BMC
// pipeline.
package cnfio

import (
	"bytes"
	"encoding/gob"
	"errors"

	"github.com/klauspost/compress/s2"

	"github.com/boundedmc/bmc/internal/be"
	"github.com/boundedmc/bmc/internal/trace"
)

// Dump is the on-disk unit: one CNF plus the root literal asserting the checked formula, and
// (once a run has finished) the trace it produced, if any.
type Dump struct {
	Clauses [][]int32
	RootLit int32
	NumVars int32
	Trace   *trace.Trace
}

// FromCNF builds a Dump from a be.CNF, its root literal, and the highest variable number it
// mentions (the caller already knows this from its own encoder/manager bookkeeping).
func FromCNF(cnf be.CNF, rootLit, numVars int32) Dump {
	clauses := make([][]int32, len(cnf.Clauses))
	for i, c := range cnf.Clauses {
		clauses[i] = []int32(c)
	}
	return Dump{Clauses: clauses, RootLit: rootLit, NumVars: numVars}
}

// Encode gob-encodes d under s2 compression, mirroring InferredMap.GobEncode's close-then-return
// pattern so a partial write never produces a truncated-but-apparently-valid buffer.
func Encode(d Dump) (b []byte, err error) {
	var buf bytes.Buffer
	w := s2.NewWriter(&buf)
	defer func() {
		if cerr := w.Close(); cerr != nil {
			err = errors.Join(err, cerr)
		}
	}()
	if err := gob.NewEncoder(w).Encode(d); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Decode reverses Encode.
func Decode(input []byte) (Dump, error) {
	var d Dump
	buf := bytes.NewBuffer(input)
	if err := gob.NewDecoder(s2.NewReader(buf)).Decode(&d); err != nil {
		return Dump{}, err
	}
	return d, nil
}
