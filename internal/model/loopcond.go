package model

import (
	"github.com/boundedmc/bmc/internal/be"
	"github.com/boundedmc/bmc/internal/encoder"
)

// LoopCondition returns loop(k,l): the conjunction, over every (non-frozen, non-input) state bit,
// of the equivalence between its value at time k and at time l. A (k,l)-path is only a faithful
// encoding of an infinite path when this holds (spec.md §8 invariant 5).
func LoopCondition(enc *encoder.Encoder, k, l int32) be.Ref {
	mgr := enc.Manager()
	acc := be.RefTrue
	for _, name := range enc.StateVars() {
		sk, _ := enc.IndexCurrTime(name, k)
		sl, _ := enc.IndexCurrTime(name, l)
		acc = mgr.And(acc, mgr.Iff(sk, sl))
	}
	return acc
}
