package pltl

import "testing"

func TestEvalSetTimesAscendingFromZero(t *testing.T) {
	got := newEvalSet(3).times()
	want := []int32{0, 1, 2, 3}
	if len(got) != len(want) {
		t.Fatalf("len(got) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

func TestEvalCursorExhausted(t *testing.T) {
	cur := newEvalSet(0).cursor()
	if _, ok := cur.Next(); !ok {
		t.Fatalf("expected one step for t=0")
	}
	if _, ok := cur.Next(); ok {
		t.Fatalf("expected cursor to be exhausted")
	}
}
