// Package model builds the symbolic transition system's path formulas (Init_0, Trans@t, Invar@t,
// Unroll[j..k], Fairness(k,l)) over an encoder.Encoder, per spec.md §4.3, and parses the
// user-facing loop encoding of spec.md §6.1.
package model

import (
	"fmt"
	"strconv"
)

// NoLoop and AllLoops are the two reserved loop values outside the [0,k-1] absolute range; every
// other int32 in that range names an explicit loopback position.
const (
	NoLoop   int32 = -1 << 30
	AllLoops int32 = -1<<30 + 1
)

// ParseLoop converts the user-facing loop string ("X" for no-loop, "*" for all-loops, or a signed
// decimal integer) into the absolute encoding ParseLoop's callers use everywhere else, resolving a
// negative integer relative to k (l_abs = k + l_rel) as spec.md §6.1 specifies. Mirrors
// bmcUtils.c's Bmc_Utils_ConvertLoopFromString.
func ParseLoop(s string, k int32) (int32, error) {
	switch s {
	case "X":
		return NoLoop, nil
	case "*":
		return AllLoops, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("model: invalid loop string %q: %w", s, err)
	}
	l := int32(n)
	if l < 0 {
		l += k
	}
	if l < 0 || l >= k {
		return 0, fmt.Errorf("model: loop value %d out of range [0,%d)", n, k)
	}
	return l, nil
}
