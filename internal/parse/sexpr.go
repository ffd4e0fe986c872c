// Package parse implements the tiny s-expression reader for cmd/bmc's transition-system input
// format (SPEC_FULL.md §6), standing in for the "out of scope" command interpreter/booleanizer:
// it exists only far enough to name state/frozen/input variables, write Init/Trans/Invar/Fairness
// and a property as boolean or LTL s-expressions, and drive the core end-to-end.
package parse

import (
	"fmt"
	"strings"
	"unicode"
)

// Expr is either an Atom (a bare token) or a List of sub-expressions. Callers type-switch on it.
type Expr interface {
	isExpr()
}

// Atom is a single token: an identifier, a quoted-prime next-state name ("x'"), or a literal.
type Atom string

func (Atom) isExpr() {}

// List is a parenthesized sequence of Exprs.
type List []Expr

func (List) isExpr() {}

type tokenizer struct {
	src []rune
	pos int
}

func (tz *tokenizer) peek() (rune, bool) {
	if tz.pos >= len(tz.src) {
		return 0, false
	}
	return tz.src[tz.pos], true
}

func (tz *tokenizer) skipSpaceAndComments() {
	for {
		r, ok := tz.peek()
		if !ok {
			return
		}
		if unicode.IsSpace(r) {
			tz.pos++
			continue
		}
		if r == ';' {
			for {
				r, ok := tz.peek()
				if !ok || r == '\n' {
					break
				}
				tz.pos++
			}
			continue
		}
		return
	}
}

func isDelim(r rune) bool {
	return unicode.IsSpace(r) || r == '(' || r == ')' || r == ';'
}

// next returns the next token: "(", ")", or a bare atom string.
func (tz *tokenizer) next() (string, bool) {
	tz.skipSpaceAndComments()
	r, ok := tz.peek()
	if !ok {
		return "", false
	}
	if r == '(' || r == ')' {
		tz.pos++
		return string(r), true
	}
	start := tz.pos
	for {
		r, ok := tz.peek()
		if !ok || isDelim(r) {
			break
		}
		tz.pos++
	}
	return string(tz.src[start:tz.pos]), true
}

// Parse reads every top-level form in src and returns them as a List (so a file containing
// several sections parses as one List of Lists).
func Parse(src string) (List, error) {
	tz := &tokenizer{src: []rune(src)}
	var forms List
	for {
		tz.skipSpaceAndComments()
		if _, ok := tz.peek(); !ok {
			break
		}
		e, err := parseOne(tz)
		if err != nil {
			return nil, err
		}
		forms = append(forms, e)
	}
	return forms, nil
}

func parseOne(tz *tokenizer) (Expr, error) {
	tok, ok := tz.next()
	if !ok {
		return nil, fmt.Errorf("parse: unexpected end of input")
	}
	switch tok {
	case "(":
		var list List
		for {
			tz.skipSpaceAndComments()
			r, ok := tz.peek()
			if !ok {
				return nil, fmt.Errorf("parse: unterminated list")
			}
			if r == ')' {
				tz.pos++
				return list, nil
			}
			e, err := parseOne(tz)
			if err != nil {
				return nil, err
			}
			list = append(list, e)
		}
	case ")":
		return nil, fmt.Errorf("parse: unexpected )")
	default:
		return Atom(tok), nil
	}
}

// String renders e back to s-expression text, used by error messages that need to show the
// offending subform.
func String(e Expr) string {
	switch v := e.(type) {
	case Atom:
		return string(v)
	case List:
		parts := make([]string, len(v))
		for i, s := range v {
			parts[i] = String(s)
		}
		return "(" + strings.Join(parts, " ") + ")"
	default:
		return "?"
	}
}
