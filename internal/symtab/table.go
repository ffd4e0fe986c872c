// Package symtab implements the symbol-table contract the BE encoder consumes (spec.md §6.4):
// enumeration of variables by class, a boolean-ness predicate, and creatable/removable variable
// layers for internal temporaries such as the LTL tableau's loop-closing variables. Everything
// beyond this -- parsing declarations, scalar-to-boolean bit encoding, tilde/macro expansion -- is
// the "out of scope" booleanizer and command interpreter spec.md §1 treats as an external
// collaborator; symtab only needs to honor the narrow contract the core actually calls.
package symtab

import "fmt"

// Class classifies a symbolic variable exactly as spec.md §3 requires.
type Class uint8

const (
	// ClassState is a current-state variable.
	ClassState Class = iota
	// ClassFrozen is a frozen variable: x' = x holds across every transition.
	ClassFrozen
	// ClassInput is an input variable.
	ClassInput
)

func (c Class) String() string {
	switch c {
	case ClassState:
		return "state"
	case ClassFrozen:
		return "frozen"
	case ClassInput:
		return "input"
	default:
		return "unknown"
	}
}

// Var is an opaque symbolic name classified into exactly one of ClassState/ClassFrozen/ClassInput.
// A next-state occurrence is never represented as a distinct Var here: it is the encoder's
// derived notion (spec.md §3), not the symbol table's.
type Var struct {
	Name  string
	Class Class
	// Boolean is false for scalar (non-propositional) variables. The core never computes their
	// bit-encoding itself (that is the booleanizer's job, out of scope per spec.md §1); asking
	// BitWidth on such a variable without an external encoding already installed is a contract
	// violation, matching the source's "scalar array variable detected where boolean expected"
	// fatal error (spec.md §9, Open Questions).
	Boolean  bool
	BitWidth int // only meaningful when !Boolean and an external encoding was supplied.
}

// LayerID identifies a group of variables added together, so the group can later be removed as a
// unit.
type LayerID int

// Table holds the variables known to a BMC session, grouped into layers in creation order.
type Table struct {
	layers    []layer
	byName    map[string]int // name -> layer index
	nextLayer LayerID
}

type layer struct {
	id   LayerID
	vars []Var
}

// New creates an empty symbol table.
func New() *Table {
	return &Table{byName: make(map[string]int)}
}

// AddLayer creates a new layer containing vars and returns its id. Adding a name that already
// exists anywhere in the table is a contract violation (spec.md §4.2's "Adding the same name
// twice to the encoder is also fatal" applies transitively: the encoder only ever sees names the
// symbol table first accepted).
func (t *Table) AddLayer(vars []Var) LayerID {
	for _, v := range vars {
		if _, exists := t.byName[v.Name]; exists {
			panic(fmt.Sprintf("symtab: variable %q added twice", v.Name))
		}
	}
	id := t.nextLayer
	t.nextLayer++
	idx := len(t.layers)
	t.layers = append(t.layers, layer{id: id, vars: vars})
	for _, v := range vars {
		t.byName[v.Name] = idx
	}
	return id
}

// RemoveLayer deletes a previously-added layer and all its variables from the table.
func (t *Table) RemoveLayer(id LayerID) {
	for i, l := range t.layers {
		if l.id == id {
			for _, v := range l.vars {
				delete(t.byName, v.Name)
			}
			t.layers = append(t.layers[:i], t.layers[i+1:]...)
			return
		}
	}
}

// Lookup returns the Var registered under name, if any.
func (t *Table) Lookup(name string) (Var, bool) {
	idx, ok := t.byName[name]
	if !ok {
		return Var{}, false
	}
	for _, v := range t.layers[idx].vars {
		if v.Name == name {
			return v, true
		}
	}
	return Var{}, false
}

// IsBoolean reports whether name is a boolean variable. Unknown names report false.
func (t *Table) IsBoolean(name string) bool {
	v, ok := t.Lookup(name)
	return ok && v.Boolean
}

// ByClass returns every variable of the given class, in the order layers were added and, within a
// layer, the order variables were listed -- the deterministic order spec.md's untimed block
// layout (§3: "[S current | F | I | S next]") depends on.
func (t *Table) ByClass(class Class) []Var {
	var out []Var
	for _, l := range t.layers {
		for _, v := range l.vars {
			if v.Class == class {
				out = append(out, v)
			}
		}
	}
	return out
}

// All returns every variable currently registered, in insertion order.
func (t *Table) All() []Var {
	var out []Var
	for _, l := range t.layers {
		out = append(out, l.vars...)
	}
	return out
}
