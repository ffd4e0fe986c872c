package driver

import (
	"github.com/boundedmc/bmc/internal/be"
	"github.com/boundedmc/bmc/internal/encoder"
)

// uniqueness builds the pairwise-distinctness constraint of spec.md §4.7.2: for every pair of
// times i < j in [from,to], at least one COI state bit differs between step i and step j. When
// coi is empty (no state variable reaches the property), uniqueness degenerates to the always-true
// constraint -- the Een-Sørensson/Dual/ZigZag step cases still run, just without excluding any
// repeated state, matching the original's behavior when a property's COI is itself empty.
//
// This realizes the original's bmcUtils.c restriction of the uniqueness constraint to a property's
// cone of influence (SUPPLEMENTED FEATURES item 3) rather than every state bit in the model.
func uniqueness(enc *encoder.Encoder, coi []encoder.UntimedIndex, from, to int32) be.Ref {
	if len(coi) == 0 {
		return be.RefTrue
	}
	mgr := enc.Manager()
	acc := be.RefTrue
	for i := from; i < to; i++ {
		for j := i + 1; j <= to; j++ {
			acc = mgr.And(acc, mgr.Not(statesEqual(enc, coi, i, j)))
		}
	}
	return acc
}

// statesEqual returns equal(i,j): the conjunction, over every COI state bit, of its equivalence
// between time i and time j. Never called with an empty coi -- uniqueness short-circuits first --
// so the empty-conjunction RefTrue base case below is unreachable in practice, not a second place
// the degenerate case is decided.
func statesEqual(enc *encoder.Encoder, coi []encoder.UntimedIndex, i, j int32) be.Ref {
	mgr := enc.Manager()
	acc := be.RefTrue
	for _, idx := range coi {
		acc = mgr.And(acc, mgr.Iff(enc.CurrTimeOf(idx, i), enc.CurrTimeOf(idx, j)))
	}
	return acc
}
