package timeline

import (
	"errors"
	"math/rand"
	"reflect"
	"testing"
)

func TestTimeline_DefaultValue(t *testing.T) {
	tl := New(false)
	if tl.ValueAt(-1 << 40) {
		t.Fatalf("expected default false far in the past")
	}
	if !tl.DoesCompleteRangeEqual(-100, 100, false) {
		t.Fatalf("expected empty timeline to equal default everywhere")
	}
	if tl.DoesCompleteRangeEqual(-100, 100, true) {
		t.Fatalf("expected empty timeline not to equal the opposite value")
	}

	open := New(true)
	if !open.DoesCompleteRangeEqual(0, 10, true) {
		t.Fatalf("expected default true to be honoured")
	}
}

func TestTimeline_OverwriteInsideRange(t *testing.T) {
	tl := New(false)
	mustSet(t, tl, 0, 100, true)
	mustSet(t, tl, 40, 60, false)

	cases := []struct {
		start, end int64
		value      bool
		want       bool
	}{
		{0, 40, true, true},
		{40, 60, false, true},
		{60, 100, true, true},
		{0, 100, true, false},
		{39, 41, true, false},
		{-10, 0, false, true},
		{100, 200, false, true},
	}
	for _, tc := range cases {
		if got := tl.DoesCompleteRangeEqual(tc.start, tc.end, tc.value); got != tc.want {
			t.Errorf("DoesCompleteRangeEqual(%d, %d, %v) = %v, want %v", tc.start, tc.end, tc.value, got, tc.want)
		}
	}
}

func TestTimeline_ZeroLengthAndInvalidRanges(t *testing.T) {
	tl := New(false)
	if err := tl.SetRange(10, 10, true); err != nil {
		t.Fatalf("zero-length range should be a no-op, got %v", err)
	}
	if tl.Len() != 0 {
		t.Fatalf("zero-length range must not add breakpoints, got %d", tl.Len())
	}

	mustSet(t, tl, 0, 10, true)
	before := append([]breakpoint(nil), tl.points...)
	if err := tl.SetRange(20, 5, false); !errors.Is(err, ErrInvalidRange) {
		t.Fatalf("expected ErrInvalidRange, got %v", err)
	}
	if !reflect.DeepEqual(before, tl.points) {
		t.Fatalf("rejected range mutated the timeline: %v -> %v", before, tl.points)
	}

	if !tl.DoesCompleteRangeEqual(5, 5, false) {
		t.Fatalf("empty query range must be vacuously true")
	}
}

func TestTimeline_SetRangeIsIdempotent(t *testing.T) {
	once := New(false)
	mustSet(t, once, 0, 100, true)
	mustSet(t, once, 30, 50, false)

	twice := New(false)
	mustSet(t, twice, 0, 100, true)
	mustSet(t, twice, 30, 50, false)
	mustSet(t, twice, 30, 50, false)

	if !reflect.DeepEqual(once.points, twice.points) {
		t.Fatalf("repeated SetRange changed breakpoints: %v vs %v", once.points, twice.points)
	}
}

func TestTimeline_CoalescesAdjacentWrites(t *testing.T) {
	tl := New(false)
	mustSet(t, tl, 0, 10, true)
	mustSet(t, tl, 10, 20, true)
	mustSet(t, tl, 20, 30, true)
	if tl.Len() != 2 {
		t.Fatalf("expected two breakpoints after adjacent writes, got %d: %v", tl.Len(), tl.points)
	}

	mustSet(t, tl, 0, 30, false)
	if tl.Len() != 0 {
		t.Fatalf("expected timeline to collapse back to default, got %v", tl.points)
	}
}

func TestTimeline_OrderMatters(t *testing.T) {
	slotsThenBlockers := New(false)
	mustSet(t, slotsThenBlockers, 0, 100, true)
	mustSet(t, slotsThenBlockers, 20, 80, true)
	mustSet(t, slotsThenBlockers, 30, 50, false)
	if !slotsThenBlockers.DoesCompleteRangeEqual(30, 50, false) {
		t.Fatalf("blocker applied last must stay closed")
	}

	blockerFirst := New(false)
	mustSet(t, blockerFirst, 0, 100, true)
	mustSet(t, blockerFirst, 30, 50, false)
	mustSet(t, blockerFirst, 20, 80, true)
	if !blockerFirst.DoesCompleteRangeEqual(30, 50, true) {
		t.Fatalf("a later open must win over an earlier close")
	}
}

func TestTimeline_Runs(t *testing.T) {
	tl := New(false)
	mustSet(t, tl, 0, 100, true)
	mustSet(t, tl, 40, 60, false)

	got := tl.Runs(-50, 150, true)
	want := []Range{{Start: 0, End: 40}, {Start: 60, End: 100}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Runs(true) = %v, want %v", got, want)
	}

	clipped := tl.Runs(10, 70, true)
	wantClipped := []Range{{Start: 10, End: 40}, {Start: 60, End: 70}}
	if !reflect.DeepEqual(clipped, wantClipped) {
		t.Fatalf("Runs clipped = %v, want %v", clipped, wantClipped)
	}

	if runs := tl.Runs(5, 5, true); runs != nil {
		t.Fatalf("expected no runs for an empty window, got %v", runs)
	}
}

// TestTimeline_MatchesNaiveModel replays random writes against a dense slice
// and compares every query.
func TestTimeline_MatchesNaiveModel(t *testing.T) {
	const size = 120
	rng := rand.New(rand.NewSource(42))

	for round := 0; round < 50; round++ {
		tl := New(false)
		model := make([]bool, size)

		for op := 0; op < 25; op++ {
			a := rng.Int63n(size)
			b := rng.Int63n(size)
			if a > b {
				a, b = b, a
			}
			value := rng.Intn(2) == 0
			mustSet(t, tl, a, b, value)
			for i := a; i < b; i++ {
				model[i] = value
			}
		}

		for i := int64(0); i < size; i++ {
			if tl.ValueAt(i) != model[i] {
				t.Fatalf("round %d: ValueAt(%d) = %v, want %v", round, i, tl.ValueAt(i), model[i])
			}
		}

		for q := 0; q < 100; q++ {
			a := rng.Int63n(size)
			b := rng.Int63n(size)
			if a > b {
				a, b = b, a
			}
			value := rng.Intn(2) == 0
			want := true
			for i := a; i < b; i++ {
				if model[i] != value {
					want = false
					break
				}
			}
			if got := tl.DoesCompleteRangeEqual(a, b, value); got != want {
				t.Fatalf("round %d: DoesCompleteRangeEqual(%d, %d, %v) = %v, want %v", round, a, b, value, got, want)
			}
		}

		for i := 1; i < len(tl.points); i++ {
			if tl.points[i].value == tl.points[i-1].value {
				t.Fatalf("round %d: uncoalesced breakpoints %v", round, tl.points)
			}
			if tl.points[i].at <= tl.points[i-1].at {
				t.Fatalf("round %d: breakpoints out of order %v", round, tl.points)
			}
		}
		if len(tl.points) > 0 && tl.points[0].value == tl.def {
			t.Fatalf("round %d: first breakpoint repeats the default %v", round, tl.points)
		}
	}
}

func mustSet(t *testing.T, tl *Timeline, start, end int64, value bool) {
	t.Helper()
	if err := tl.SetRange(start, end, value); err != nil {
		t.Fatalf("SetRange(%d, %d, %v) failed: %v", start, end, value, err)
	}
}
