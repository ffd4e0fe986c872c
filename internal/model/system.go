package model

import "github.com/boundedmc/bmc/internal/be"

// System is a symbolic finite-state transition system, spec.md §3: each field is an untimed BE.
// Trans may mention both current- and next-state variables; Init and Invar use only current and
// frozen variables; every Fairness BE uses only current and frozen variables.
type System struct {
	Init      be.Ref
	Trans     be.Ref
	Invar     be.Ref
	Fairness  []be.Ref
}
