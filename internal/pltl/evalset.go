package pltl

// evalSet is the iteration plan for folding a past operator over a time range, named and shaped
// per spec.md §9 (from, direction, steps, backJumpFrom, backJumpTo). In the general §4.5 scheme
// these fields describe a walk that can jump between lapped copies of a loop; here, because every
// time reaching a past operator is already confined to [0,k] by succ's wraparound (see the
// Tableau doc comment), a walk never needs to jump laps, so backJumpFrom/backJumpTo are always
// sentinel (-1) and the set degenerates to a single ascending run from 0 to t. The type is kept
// so a caller reading this package against §9 finds the prescribed shape, not a different one.
type evalSet struct {
	from         int32
	direction    int32 // +1: ascending (the only direction this package ever produces)
	steps        int32
	backJumpFrom int32
	backJumpTo   int32
}

func newEvalSet(t int32) evalSet {
	return evalSet{from: 0, direction: 1, steps: t + 1, backJumpFrom: -1, backJumpTo: -1}
}

// evalCursor walks one evalSet, one time step per Next call.
type evalCursor struct {
	set evalSet
	at  int32
	n   int32
}

func (s evalSet) cursor() *evalCursor {
	return &evalCursor{set: s, at: s.from, n: 0}
}

// Next returns the next time in the walk and true, or (0, false) once the set is exhausted.
func (c *evalCursor) Next() (int32, bool) {
	if c.n >= c.set.steps {
		return 0, false
	}
	t := c.at
	if c.set.backJumpFrom >= 0 && c.at == c.set.backJumpFrom {
		c.at = c.set.backJumpTo
	} else {
		c.at += c.set.direction
	}
	c.n++
	return t, true
}

// times drains an evalSet into a plain slice, in walk order (ascending, 0..t).
func (s evalSet) times() []int32 {
	out := make([]int32, 0, s.steps)
	cur := s.cursor()
	for {
		t, ok := cur.Next()
		if !ok {
			return out
		}
		out = append(out, t)
	}
}
