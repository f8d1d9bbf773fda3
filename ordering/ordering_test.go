package ordering

import (
	"math"
	"reflect"
	"testing"
)

func TestNext(t *testing.T) {
	if got := Next(nil); got != 1 {
		t.Fatalf("expected 1 for empty set, got %d", got)
	}
	if got := Next([]int{3, 9, 2}); got != 10 {
		t.Fatalf("expected 10, got %d", got)
	}
	// reorder accepts any value, including negatives
	if got := Next([]int{-4, -7}); got != -3 {
		t.Fatalf("expected -3, got %d", got)
	}
}

func TestSortGlobalUsesIDTieBreak(t *testing.T) {
	entries := []Entry{
		{ID: 3, Global: 2, Category: 1},
		{ID: 1, Global: 2, Category: 9},
		{ID: 2, Global: 1, Category: 5},
	}
	Sort(entries, false)
	got := ids(entries)
	want := []int64{2, 1, 3}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestSortScoped(t *testing.T) {
	entries := []Entry{
		{ID: 1, Global: 5, Category: 2},
		{ID: 2, Global: 4, Category: 1},
		{ID: 3, Global: 1, Category: 2},
		{ID: 4, Global: 1, Category: 2},
	}
	Sort(entries, true)
	got := ids(entries)
	want := []int64{2, 3, 4, 1}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestWindow(t *testing.T) {
	cases := []struct {
		total, offset, limit int
		start, end           int
	}{
		{10, 0, 3, 0, 3},
		{10, 9, 3, 9, 10},
		{10, 12, 3, 10, 10},
		{0, 0, 10, 0, 0},
		{10, -4, 3, 0, 3},
		{10, 2, math.MaxInt, 2, 10},
		{10, math.MaxInt, 3, 10, 10},
	}
	for _, c := range cases {
		s, e := Window(c.total, c.offset, c.limit)
		if s != c.start || e != c.end {
			t.Fatalf("Window(%d,%d,%d) = %d,%d want %d,%d", c.total, c.offset, c.limit, s, e, c.start, c.end)
		}
	}
}

func TestOffset(t *testing.T) {
	if got := Offset(3, 20); got != 40 {
		t.Fatalf("expected 40, got %d", got)
	}
	if got := Offset(math.MaxInt64/2, 4); got != math.MaxInt {
		t.Fatalf("expected overflowing offset to saturate, got %d", got)
	}
	if got := Offset(math.MaxInt/10+1, 10); got < 0 {
		t.Fatalf("offset went negative: %d", got)
	}
}

func TestMove(t *testing.T) {
	items := []int64{1, 2, 3, 4, 5}
	Move(items, 0, 3)
	if want := []int64{2, 3, 4, 1, 5}; !reflect.DeepEqual(items, want) {
		t.Fatalf("move down: expected %v, got %v", want, items)
	}

	Move(items, 4, 0)
	if want := []int64{5, 2, 3, 4, 1}; !reflect.DeepEqual(items, want) {
		t.Fatalf("move up: expected %v, got %v", want, items)
	}

	// out of range indexes are clamped
	Move(items, -3, 99)
	if want := []int64{2, 3, 4, 1, 5}; !reflect.DeepEqual(items, want) {
		t.Fatalf("clamped move: expected %v, got %v", want, items)
	}
}

func TestDeltaOnlyChangedPositions(t *testing.T) {
	seq := []int64{10, 30, 20}
	current := map[int64]int{10: 1, 20: 2, 30: 3}

	got := Delta(seq, current)
	want := []Change{{ProductID: 30, Order: 2}, {ProductID: 20, Order: 3}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	// gaps left by deletes are closed for every row that does not sit on its position
	got = Delta([]int64{10, 20}, map[int64]int{10: 1, 20: 7})
	want = []Change{{ProductID: 20, Order: 2}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func ids(entries []Entry) []int64 {
	out := make([]int64, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.ID)
	}
	return out
}
