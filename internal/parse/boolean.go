package parse

import (
	"fmt"
	"strings"

	"github.com/boundedmc/bmc/internal/be"
	"github.com/boundedmc/bmc/internal/encoder"
)

// Boolean compiles a boolean s-expression over already-committed variable names into a BE,
// against enc. Grammar:
//
//	true | false
//	name          -- current-state/frozen/input variable
//	name'         -- next-state occurrence of a state variable
//	(not e)
//	(and e...) | (or e...)
//	(xor e1 e2) | (iff e1 e2) | (implies e1 e2)
//	(ite c t e)
func Boolean(enc *encoder.Encoder, e Expr) (be.Ref, error) {
	mgr := enc.Manager()
	switch v := e.(type) {
	case Atom:
		s := string(v)
		switch s {
		case "true":
			return be.RefTrue, nil
		case "false":
			return be.RefFalse, nil
		}
		if strings.HasSuffix(s, "'") {
			name := strings.TrimSuffix(s, "'")
			cur, ok := enc.NameToUntimed(name)
			if !ok || !enc.IsIndexCurr(cur) {
				return be.RefFalse, fmt.Errorf("parse: %q is not a state variable, cannot take next-state form", name)
			}
			return enc.VarCurrToNext(cur), nil
		}
		r, ok := enc.NameToUntimed(s)
		if !ok {
			return be.RefFalse, fmt.Errorf("parse: undeclared variable %q", s)
		}
		return r, nil
	case List:
		if len(v) == 0 {
			return be.RefFalse, fmt.Errorf("parse: empty list is not a boolean expression")
		}
		head, ok := v[0].(Atom)
		if !ok {
			return be.RefFalse, fmt.Errorf("parse: %s does not start with an operator", String(e))
		}
		args := v[1:]
		switch string(head) {
		case "not":
			if len(args) != 1 {
				return be.RefFalse, fmt.Errorf("parse: (not e) takes exactly one argument, got %s", String(e))
			}
			a, err := Boolean(enc, args[0])
			if err != nil {
				return be.RefFalse, err
			}
			return mgr.Not(a), nil
		case "and":
			return foldBoolean(enc, args, mgr.And, e)
		case "or":
			return foldBoolean(enc, args, mgr.Or, e)
		case "xor", "iff", "implies":
			if len(args) != 2 {
				return be.RefFalse, fmt.Errorf("parse: (%s a b) takes exactly two arguments, got %s", head, String(e))
			}
			a, err := Boolean(enc, args[0])
			if err != nil {
				return be.RefFalse, err
			}
			b, err := Boolean(enc, args[1])
			if err != nil {
				return be.RefFalse, err
			}
			switch string(head) {
			case "xor":
				return mgr.Xor(a, b), nil
			case "iff":
				return mgr.Iff(a, b), nil
			default:
				return mgr.Implies(a, b), nil
			}
		case "ite":
			if len(args) != 3 {
				return be.RefFalse, fmt.Errorf("parse: (ite c t e) takes exactly three arguments, got %s", String(e))
			}
			c, err := Boolean(enc, args[0])
			if err != nil {
				return be.RefFalse, err
			}
			th, err := Boolean(enc, args[1])
			if err != nil {
				return be.RefFalse, err
			}
			el, err := Boolean(enc, args[2])
			if err != nil {
				return be.RefFalse, err
			}
			return mgr.Ite(c, th, el), nil
		default:
			return be.RefFalse, fmt.Errorf("parse: unknown boolean operator %q in %s", head, String(e))
		}
	default:
		return be.RefFalse, fmt.Errorf("parse: unrecognized expression")
	}
}

func foldBoolean(enc *encoder.Encoder, args []Expr, op func(a, b be.Ref) be.Ref, whole Expr) (be.Ref, error) {
	if len(args) == 0 {
		return be.RefFalse, fmt.Errorf("parse: %s needs at least one argument", String(whole))
	}
	acc, err := Boolean(enc, args[0])
	if err != nil {
		return be.RefFalse, err
	}
	for _, a := range args[1:] {
		r, err := Boolean(enc, a)
		if err != nil {
			return be.RefFalse, err
		}
		acc = op(acc, r)
	}
	return acc, nil
}
