package parse

import (
	"fmt"

	"github.com/boundedmc/bmc/internal/be"
	"github.com/boundedmc/bmc/internal/encoder"
	"github.com/boundedmc/bmc/internal/ltl"
	"github.com/boundedmc/bmc/internal/model"
	"github.com/boundedmc/bmc/internal/pltl"
	"github.com/boundedmc/bmc/internal/symtab"
)

// Algorithm names cmd/bmc accepts for the (algorithm ...) section, per SPEC_FULL.md §6, plus
// "sbmc" for the el_i-based alternative tableau of §4.6 (internal/sbmc).
const (
	AlgoClassic       = "classic"
	AlgoEenSorensson  = "een-sorensson"
	AlgoZigZag        = "zigzag"
	AlgoDualForward   = "dual-forward"
	AlgoDualBackward  = "dual-backward"
	AlgoFalsification = "falsification"
	AlgoLTL           = "ltl"
	AlgoSBMC          = "sbmc"
)

// PropertyKind distinguishes the two property sections a file may carry.
type PropertyKind int

const (
	PropertyInvar PropertyKind = iota
	PropertyLTL
)

// System is everything a transition-system file yields: the committed encoder, the symbolic
// System, the property (either an invariant BE or an LTL formula), and the run parameters that
// selected the algorithm and its bound/loop.
type System struct {
	Enc          *encoder.Encoder
	Sys          model.System
	PropertyKind PropertyKind
	Invar        be.Ref         // set when PropertyKind == PropertyInvar
	LTL          *ltl.Formula   // set when PropertyKind == PropertyLTL and the formula is future-only
	PLTL         *pltl.Formula  // set when PropertyKind == PropertyLTL and the formula uses a past operator
	K            int32
	LoopSpec     string
	Algorithm    string
}

// Build parses src -- a whole transition-system file -- into a System. The file is a sequence of
// top-level forms:
//
//	(vars (state x y ...) (frozen ...) (input ...))
//	(init expr) (trans expr) (invar expr)
//	(fairness expr)          -- zero or more
//	(invarspec expr) | (ltlspec expr)
//	(bound k) (loop spec) (algorithm name)
//
// Order among these forms does not matter except that (vars ...) must appear before any form
// referencing a variable name.
func Build(mgr *be.Manager, src string) (*System, error) {
	forms, err := Parse(src)
	if err != nil {
		return nil, err
	}

	enc := encoder.New(mgr)
	sys := &System{Enc: enc, K: -1}
	haveInit, haveTrans, haveInvar := false, false, false
	haveProperty := false

	for _, f := range forms {
		list, ok := f.(List)
		if !ok || len(list) == 0 {
			return nil, fmt.Errorf("parse: top-level form must be a non-empty list, got %s", String(f))
		}
		head, ok := list[0].(Atom)
		if !ok {
			return nil, fmt.Errorf("parse: top-level form must start with a keyword, got %s", String(f))
		}
		args := list[1:]
		switch string(head) {
		case "vars":
			if err := buildVars(enc, args); err != nil {
				return nil, err
			}
		case "init":
			r, err := oneExpr(enc, args, "init")
			if err != nil {
				return nil, err
			}
			sys.Sys.Init = r
			haveInit = true
		case "trans":
			r, err := oneExpr(enc, args, "trans")
			if err != nil {
				return nil, err
			}
			sys.Sys.Trans = r
			haveTrans = true
		case "invar":
			r, err := oneExpr(enc, args, "invar")
			if err != nil {
				return nil, err
			}
			sys.Sys.Invar = r
			haveInvar = true
		case "fairness":
			r, err := oneExpr(enc, args, "fairness")
			if err != nil {
				return nil, err
			}
			sys.Sys.Fairness = append(sys.Sys.Fairness, r)
		case "invarspec":
			r, err := oneExpr(enc, args, "invarspec")
			if err != nil {
				return nil, err
			}
			sys.PropertyKind = PropertyInvar
			sys.Invar = r
			haveProperty = true
		case "ltlspec":
			if len(args) != 1 {
				return nil, fmt.Errorf("parse: (ltlspec f) takes exactly one argument, got %s", String(f))
			}
			sys.PropertyKind = PropertyLTL
			if HasPastOperator(args[0]) {
				formula, err := PLTL(enc, args[0])
				if err != nil {
					return nil, err
				}
				sys.PLTL = formula
			} else {
				formula, err := LTL(enc, args[0])
				if err != nil {
					return nil, err
				}
				sys.LTL = formula
			}
			haveProperty = true
		case "bound":
			k, err := oneInt(args, "bound")
			if err != nil {
				return nil, err
			}
			sys.K = k
		case "loop":
			s, err := oneAtom(args, "loop")
			if err != nil {
				return nil, err
			}
			sys.LoopSpec = s
		case "algorithm":
			s, err := oneAtom(args, "algorithm")
			if err != nil {
				return nil, err
			}
			if !validAlgorithm(s) {
				return nil, fmt.Errorf("parse: unknown algorithm %q", s)
			}
			sys.Algorithm = s
		default:
			return nil, fmt.Errorf("parse: unknown top-level form %q", head)
		}
	}

	if !haveInit {
		return nil, fmt.Errorf("parse: file has no (init ...) form")
	}
	if !haveTrans {
		return nil, fmt.Errorf("parse: file has no (trans ...) form")
	}
	if !haveInvar {
		sys.Sys.Invar = be.RefTrue
	}
	if !haveProperty {
		return nil, fmt.Errorf("parse: file has no (invarspec ...) or (ltlspec ...) form")
	}
	if sys.K < 0 {
		return nil, fmt.Errorf("parse: file has no (bound k) form")
	}
	if sys.LoopSpec == "" {
		sys.LoopSpec = "X"
	}
	if sys.Algorithm == "" {
		return nil, fmt.Errorf("parse: file has no (algorithm name) form")
	}
	return sys, nil
}

func validAlgorithm(s string) bool {
	switch s {
	case AlgoClassic, AlgoEenSorensson, AlgoZigZag, AlgoDualForward, AlgoDualBackward, AlgoFalsification, AlgoLTL, AlgoSBMC:
		return true
	default:
		return false
	}
}

func buildVars(enc *encoder.Encoder, args []Expr) error {
	var vars []symtab.Var
	for _, section := range args {
		list, ok := section.(List)
		if !ok || len(list) == 0 {
			return fmt.Errorf("parse: (vars ...) sections must be non-empty lists, got %s", String(section))
		}
		kind, ok := list[0].(Atom)
		if !ok {
			return fmt.Errorf("parse: vars section must start with state/frozen/input, got %s", String(section))
		}
		var class symtab.Class
		switch string(kind) {
		case "state":
			class = symtab.ClassState
		case "frozen":
			class = symtab.ClassFrozen
		case "input":
			class = symtab.ClassInput
		default:
			return fmt.Errorf("parse: unknown vars section %q", kind)
		}
		for _, nameExpr := range list[1:] {
			name, ok := nameExpr.(Atom)
			if !ok {
				return fmt.Errorf("parse: variable name must be an atom, got %s", String(nameExpr))
			}
			vars = append(vars, symtab.Var{Name: string(name), Class: class, Boolean: true})
		}
	}
	enc.CommitLayer(vars)
	return nil
}

func oneExpr(enc *encoder.Encoder, args []Expr, form string) (be.Ref, error) {
	if len(args) != 1 {
		return be.RefFalse, fmt.Errorf("parse: (%s e) takes exactly one argument", form)
	}
	return Boolean(enc, args[0])
}

func oneAtom(args []Expr, form string) (string, error) {
	if len(args) != 1 {
		return "", fmt.Errorf("parse: (%s v) takes exactly one argument", form)
	}
	a, ok := args[0].(Atom)
	if !ok {
		return "", fmt.Errorf("parse: (%s v) argument must be an atom", form)
	}
	return string(a), nil
}

func oneInt(args []Expr, form string) (int32, error) {
	s, err := oneAtom(args, form)
	if err != nil {
		return 0, err
	}
	var n int32
	if _, err := fmt.Sscanf(s, "%d", &n); err != nil {
		return 0, fmt.Errorf("parse: (%s v) argument must be an integer, got %q", form, s)
	}
	return n, nil
}
