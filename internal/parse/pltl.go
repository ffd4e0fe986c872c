package parse

import (
	"fmt"

	"github.com/boundedmc/bmc/internal/be"
	"github.com/boundedmc/bmc/internal/encoder"
	"github.com/boundedmc/bmc/internal/pltl"
)

// HasPastOperator reports whether e's s-expression tree contains a past-operator form (Y, Z, O,
// H, S, T), the signal Build uses to route an (ltlspec ...) section through PLTL instead of LTL.
func HasPastOperator(e Expr) bool {
	list, ok := e.(List)
	if !ok || len(list) == 0 {
		return false
	}
	if head, ok := list[0].(Atom); ok {
		switch string(head) {
		case "Y", "Z", "O", "H", "S", "T":
			return true
		}
	}
	for _, a := range list {
		if HasPastOperator(a) {
			return true
		}
	}
	return false
}

// PLTL compiles a past-extended temporal s-expression into a pltl.Formula against enc, reusing
// Boolean for leaf atoms exactly as LTL does. Grammar is LTL's plus:
//
//	(Y f) (Z f) (O f) (H f)
//	(S f g) (T f g)
func PLTL(enc *encoder.Encoder, e Expr) (*pltl.Formula, error) {
	if list, ok := e.(List); ok && len(list) > 0 {
		if head, ok := list[0].(Atom); ok {
			args := list[1:]
			switch string(head) {
			case "X":
				return unaryP(enc, args, pltl.Next, e)
			case "F":
				return unaryP(enc, args, pltl.Finally, e)
			case "G":
				return unaryP(enc, args, pltl.Globally, e)
			case "U":
				return binaryP(enc, args, pltl.Until, e)
			case "R":
				return binaryP(enc, args, pltl.Release, e)
			case "Y":
				return unaryP(enc, args, pltl.Yesterday, e)
			case "Z":
				return unaryP(enc, args, pltl.ZYesterday, e)
			case "O":
				return unaryP(enc, args, pltl.Once, e)
			case "H":
				return unaryP(enc, args, pltl.Historically, e)
			case "S":
				return binaryP(enc, args, pltl.Since, e)
			case "T":
				return binaryP(enc, args, pltl.Triggered, e)
			case "not":
				if len(args) != 1 {
					return nil, fmt.Errorf("parse: %s takes exactly one argument", String(e))
				}
				f, err := PLTL(enc, args[0])
				if err != nil {
					return nil, err
				}
				return negatePLTL(enc.Manager(), f), nil
			case "and":
				return foldPLTL(enc, args, pltl.And, e)
			case "or":
				return foldPLTL(enc, args, pltl.Or, e)
			}
		}
	}
	b, err := Boolean(enc, e)
	if err != nil {
		return nil, err
	}
	return pltl.AtomF(b), nil
}

// NegatePLTL returns the negation of f in negation normal form, for callers (cmd/bmc) that need
// ¬φ to hand to driver.CheckPLTL rather than φ itself.
func NegatePLTL(enc *encoder.Encoder, f *pltl.Formula) *pltl.Formula {
	return negatePLTL(enc.Manager(), f)
}

// negatePLTL pushes ¬ down through f via De Morgan's laws, the future-operator duals LTL's
// negate already uses, and the past-operator duals: ¬Y = Z¬ (strong/weak yesterday), ¬O = H¬
// (some/always), ¬S = T (¬·, ¬·) (since/triggered).
func negatePLTL(mgr *be.Manager, f *pltl.Formula) *pltl.Formula {
	switch f.Kind {
	case pltl.KindAtom:
		return pltl.AtomF(mgr.Not(f.Atom))
	case pltl.KindAnd:
		return pltl.Or(negatePLTL(mgr, f.L), negatePLTL(mgr, f.R))
	case pltl.KindOr:
		return pltl.And(negatePLTL(mgr, f.L), negatePLTL(mgr, f.R))
	case pltl.KindNext:
		return pltl.Next(negatePLTL(mgr, f.L))
	case pltl.KindFinally:
		return pltl.Globally(negatePLTL(mgr, f.L))
	case pltl.KindGlobally:
		return pltl.Finally(negatePLTL(mgr, f.L))
	case pltl.KindUntil:
		return pltl.Release(negatePLTL(mgr, f.L), negatePLTL(mgr, f.R))
	case pltl.KindRelease:
		return pltl.Until(negatePLTL(mgr, f.L), negatePLTL(mgr, f.R))
	case pltl.KindYesterday:
		return pltl.ZYesterday(negatePLTL(mgr, f.L))
	case pltl.KindZYesterday:
		return pltl.Yesterday(negatePLTL(mgr, f.L))
	case pltl.KindOnce:
		return pltl.Historically(negatePLTL(mgr, f.L))
	case pltl.KindHistorically:
		return pltl.Once(negatePLTL(mgr, f.L))
	case pltl.KindSince:
		return pltl.Triggered(negatePLTL(mgr, f.L), negatePLTL(mgr, f.R))
	case pltl.KindTriggered:
		return pltl.Since(negatePLTL(mgr, f.L), negatePLTL(mgr, f.R))
	default:
		panic("parse: unhandled pltl.Kind in negatePLTL")
	}
}

func unaryP(enc *encoder.Encoder, args []Expr, ctor func(*pltl.Formula) *pltl.Formula, whole Expr) (*pltl.Formula, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("parse: %s takes exactly one argument", String(whole))
	}
	f, err := PLTL(enc, args[0])
	if err != nil {
		return nil, err
	}
	return ctor(f), nil
}

func binaryP(enc *encoder.Encoder, args []Expr, ctor func(l, r *pltl.Formula) *pltl.Formula, whole Expr) (*pltl.Formula, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("parse: %s takes exactly two arguments", String(whole))
	}
	l, err := PLTL(enc, args[0])
	if err != nil {
		return nil, err
	}
	r, err := PLTL(enc, args[1])
	if err != nil {
		return nil, err
	}
	return ctor(l, r), nil
}

func foldPLTL(enc *encoder.Encoder, args []Expr, op func(l, r *pltl.Formula) *pltl.Formula, whole Expr) (*pltl.Formula, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("parse: %s needs at least one argument", String(whole))
	}
	acc, err := PLTL(enc, args[0])
	if err != nil {
		return nil, err
	}
	for _, a := range args[1:] {
		f, err := PLTL(enc, a)
		if err != nil {
			return nil, err
		}
		acc = op(acc, f)
	}
	return acc, nil
}
