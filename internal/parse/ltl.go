package parse

import (
	"fmt"

	"github.com/boundedmc/bmc/internal/be"
	"github.com/boundedmc/bmc/internal/encoder"
	"github.com/boundedmc/bmc/internal/ltl"
)

// LTL compiles a temporal s-expression into an ltl.Formula against enc, reusing Boolean for leaf
// atoms (Boolean's name' next-state form is accepted in a leaf too; nothing here rejects it).
// Grammar, in addition to Boolean's:
//
//	(X f) (F f) (G f)
//	(U f g) (R f g)
//	(and f...) | (or f...) | (not f)
func LTL(enc *encoder.Encoder, e Expr) (*ltl.Formula, error) {
	if list, ok := e.(List); ok && len(list) > 0 {
		if head, ok := list[0].(Atom); ok {
			args := list[1:]
			switch string(head) {
			case "X":
				return unary(enc, args, ltl.Next, e)
			case "F":
				return unary(enc, args, ltl.Finally, e)
			case "G":
				return unary(enc, args, ltl.Globally, e)
			case "U":
				return binary(enc, args, ltl.Until, e)
			case "R":
				return binary(enc, args, ltl.Release, e)
			case "not":
				if len(args) != 1 {
					return nil, fmt.Errorf("parse: %s takes exactly one argument", String(e))
				}
				f, err := LTL(enc, args[0])
				if err != nil {
					return nil, err
				}
				return negate(enc.Manager(), f), nil
			case "and":
				return foldLTL(enc, args, ltl.And, e)
			case "or":
				return foldLTL(enc, args, ltl.Or, e)
			}
		}
	}
	// Anything else is a boolean atom evaluated at the current step.
	b, err := Boolean(enc, e)
	if err != nil {
		return nil, err
	}
	return ltl.AtomF(b), nil
}

// Negate returns the negation of f in negation normal form, for callers (cmd/bmc) that need ¬φ
// to hand to driver.CheckLTL rather than φ itself.
func Negate(enc *encoder.Encoder, f *ltl.Formula) *ltl.Formula {
	return negate(enc.Manager(), f)
}

// negate pushes ¬ down through f via De Morgan's laws and the future-operator duals, since
// ltl.Formula is always in negation normal form and carries no Not node of its own.
func negate(mgr *be.Manager, f *ltl.Formula) *ltl.Formula {
	switch f.Kind {
	case ltl.KindAtom:
		return ltl.AtomF(mgr.Not(f.Atom))
	case ltl.KindAnd:
		return ltl.Or(negate(mgr, f.L), negate(mgr, f.R))
	case ltl.KindOr:
		return ltl.And(negate(mgr, f.L), negate(mgr, f.R))
	case ltl.KindNext:
		return ltl.Next(negate(mgr, f.L))
	case ltl.KindFinally:
		return ltl.Globally(negate(mgr, f.L))
	case ltl.KindGlobally:
		return ltl.Finally(negate(mgr, f.L))
	case ltl.KindUntil:
		return ltl.Release(negate(mgr, f.L), negate(mgr, f.R))
	case ltl.KindRelease:
		return ltl.Until(negate(mgr, f.L), negate(mgr, f.R))
	default:
		panic("parse: unhandled ltl.Kind in negate")
	}
}

func unary(enc *encoder.Encoder, args []Expr, ctor func(*ltl.Formula) *ltl.Formula, whole Expr) (*ltl.Formula, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("parse: %s takes exactly one argument", String(whole))
	}
	f, err := LTL(enc, args[0])
	if err != nil {
		return nil, err
	}
	return ctor(f), nil
}

func binary(enc *encoder.Encoder, args []Expr, ctor func(l, r *ltl.Formula) *ltl.Formula, whole Expr) (*ltl.Formula, error) {
	if len(args) != 2 {
		return nil, fmt.Errorf("parse: %s takes exactly two arguments", String(whole))
	}
	l, err := LTL(enc, args[0])
	if err != nil {
		return nil, err
	}
	r, err := LTL(enc, args[1])
	if err != nil {
		return nil, err
	}
	return ctor(l, r), nil
}

func foldLTL(enc *encoder.Encoder, args []Expr, op func(l, r *ltl.Formula) *ltl.Formula, whole Expr) (*ltl.Formula, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("parse: %s needs at least one argument", String(whole))
	}
	acc, err := LTL(enc, args[0])
	if err != nil {
		return nil, err
	}
	for _, a := range args[1:] {
		f, err := LTL(enc, a)
		if err != nil {
			return nil, err
		}
		acc = op(acc, f)
	}
	return acc, nil
}
