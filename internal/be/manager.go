// Package be implements the Boolean-Expression manager: a hash-consed and-inverter graph (AIG)
// over constants, propositional variables identified by physical index, and the connectives
// negation and conjunction, with disjunction/iff/xor/implies/ite built as cached rewrites on top.
// All BE nodes are owned by a single Manager; a Ref is a non-owning handle whose lifetime equals
// the Manager's, matching the ownership model of spec.md's data model.
package be

import "github.com/boundedmc/bmc/util/bitset"

// Ref is a non-owning handle to a BE node. The zero value is RefFalse. Negation is encoded in the
// low bit so that Not is a pure, allocation-free flip; And is the only connective that allocates
// and hash-conses a new node.
type Ref int32

const (
	// RefFalse is the canonical BE for the constant false.
	RefFalse Ref = 0
	// RefTrue is the canonical BE for the constant true.
	RefTrue Ref = 1
)

func (r Ref) id() int32  { return int32(r) >> 1 }
func (r Ref) neg() bool  { return int32(r)&1 != 0 }
func mkRef(id int32, negated bool) Ref {
	b := int32(0)
	if negated {
		b = 1
	}
	return Ref(id<<1 | b)
}

// Not returns the negation of r. It never allocates.
func Not(r Ref) Ref { return r ^ 1 }

// Not is the method form of the package-level Not.
func (m *Manager) Not(r Ref) Ref { return Not(r) }

// op tags the kind of a node in the arena. opConst only ever occupies id 0.
type op uint8

const (
	opConst op = iota
	opVar
	opAnd
)

type node struct {
	kind op
	// for opVar: a.id() is unused, index holds the physical variable index.
	// for opAnd: a, b are the (already polarity-encoded) operands, canonically ordered a <= b.
	a, b  Ref
	index int32
}

// Manager owns the BE node arena, the hash-consing unique-tables, and the physical-index
// reservation the encoder draws from. The zero value is not usable; use NewManager.
type Manager struct {
	nodes    []node          // nodes[0] is the constant node.
	andTable map[[2]Ref]int32
	varOf    map[int32]int32 // physical index -> node id
	reserved int32           // number of physical indices reserved so far

	// CNF variable numbering state, see cnf.go.
	gateVars     map[int32]int32 // AND-gate node id -> stable CNF var number
	gateVarSeq   int32
	constGateVar int32
}

// NewManager creates an empty Manager.
func NewManager() *Manager {
	m := &Manager{
		nodes:    make([]node, 1, 256),
		andTable: make(map[[2]Ref]int32, 256),
		varOf:    make(map[int32]int32, 256),
	}
	m.nodes[0] = node{kind: opConst}
	return m
}

// Reserve ensures the manager is prepared to accept variables with physical index up to n-1.
// It is legal to call Reserve repeatedly with non-decreasing n; the manager itself does not
// allocate node storage for unused indices (only MkVar does), so Reserve is purely bookkeeping
// consumed by the encoder's amortized-growth contract (spec.md §4.2.1).
func (m *Manager) Reserve(n int) {
	if int32(n) > m.reserved {
		m.reserved = int32(n)
	}
}

// Reserved returns the number of physical indices reserved so far.
func (m *Manager) Reserved() int { return int(m.reserved) }

// MkTrue returns the constant true.
func (m *Manager) MkTrue() Ref { return RefTrue }

// MkFalse returns the constant false.
func (m *Manager) MkFalse() Ref { return RefFalse }

// MkVar returns the BE for the variable at the given physical index, creating its node on first
// use. index must be within the reserved range; violating this is a contract violation, since
// spec.md's encoder invariant requires 0 <= index < reserved for every variable used in a BE.
func (m *Manager) MkVar(index int32) Ref {
	if index < 0 || index >= m.reserved {
		violate("be: variable index %d out of reserved range [0,%d)", index, m.reserved)
	}
	if id, ok := m.varOf[index]; ok {
		return mkRef(id, false)
	}
	id := int32(len(m.nodes))
	m.nodes = append(m.nodes, node{kind: opVar, index: index})
	m.varOf[index] = id
	return mkRef(id, false)
}

// VarIndex returns the physical index of r, which must be a (possibly negated) variable BE.
func (m *Manager) VarIndex(r Ref) (int32, bool) {
	n := m.nodes[r.id()]
	if n.kind != opVar {
		return 0, false
	}
	return n.index, true
}

// IsVar reports whether r is a (possibly negated) variable BE.
func (m *Manager) IsVar(r Ref) bool { return m.nodes[r.id()].kind == opVar }

// And returns the hash-consed conjunction of a and b, applying the standard AIG simplifications
// (constant absorption, idempotence, complementation) before allocating.
func (m *Manager) And(a, b Ref) Ref {
	if a == RefFalse || b == RefFalse {
		return RefFalse
	}
	if a == RefTrue {
		return b
	}
	if b == RefTrue {
		return a
	}
	if a == b {
		return a
	}
	if a == Not(b) {
		return RefFalse
	}
	if a > b {
		a, b = b, a
	}
	key := [2]Ref{a, b}
	if id, ok := m.andTable[key]; ok {
		return mkRef(id, false)
	}
	id := int32(len(m.nodes))
	m.nodes = append(m.nodes, node{kind: opAnd, a: a, b: b})
	m.andTable[key] = id
	return mkRef(id, false)
}

// Or returns a ∨ b, built as ¬(¬a ∧ ¬b).
func (m *Manager) Or(a, b Ref) Ref { return Not(m.And(Not(a), Not(b))) }

// Xor returns a ⊕ b.
func (m *Manager) Xor(a, b Ref) Ref { return m.Or(m.And(a, Not(b)), m.And(Not(a), b)) }

// Iff returns a ⇔ b, i.e. ¬(a ⊕ b).
func (m *Manager) Iff(a, b Ref) Ref { return Not(m.Xor(a, b)) }

// Implies returns a → b, i.e. ¬a ∨ b.
func (m *Manager) Implies(a, b Ref) Ref { return m.Or(Not(a), b) }

// Ite returns if c then t else e.
func (m *Manager) Ite(c, t, e Ref) Ref { return m.Or(m.And(c, t), m.And(Not(c), e)) }

// AndMany conjoins a slice of BEs, returning RefTrue for the empty slice.
func (m *Manager) AndMany(rs []Ref) Ref {
	acc := RefTrue
	for _, r := range rs {
		acc = m.And(acc, r)
	}
	return acc
}

// OrMany disjoins a slice of BEs, returning RefFalse for the empty slice.
func (m *Manager) OrMany(rs []Ref) Ref {
	acc := RefFalse
	for _, r := range rs {
		acc = m.Or(acc, r)
	}
	return acc
}

// Walk calls visit once for every distinct node reachable from r (in post-order, children before
// parents), each identified by its unsigned Ref (polarity stripped). It is the single traversal
// primitive used by shifting, substitution, inlining and CNF conversion to avoid re-walking
// shared sub-DAGs.
func (m *Manager) Walk(r Ref, visit func(id int32, n node)) {
	// Node ids are dense, small, non-negative integers (slice indices into m.nodes), exactly the
	// shape bitset.Set is for -- a membership map here would box every id through an interface{}-
	// sized bucket for no benefit, since there is no associated value to store.
	seen := bitset.New(len(m.nodes))
	var rec func(id int32)
	rec = func(id int32) {
		if seen.Test(int(id)) {
			return
		}
		seen.Add(int(id))
		n := m.nodes[id]
		if n.kind == opAnd {
			rec(n.a.id())
			rec(n.b.id())
		}
		visit(id, n)
	}
	rec(r.id())
}
