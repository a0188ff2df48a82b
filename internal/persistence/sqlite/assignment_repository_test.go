package sqlite_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/persistence"
	"github.com/melanietreitinger/mod-bookit-sub001/internal/testfixtures"
)

func day(n int) time.Time {
	return testfixtures.ReferenceTime().AddDate(0, 0, n)
}

func TestAssignmentRepository_RejectsOverlaps(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	room := h.MustCreateRoom(t, testfixtures.NewRoom())
	other := h.MustCreateRoom(t, testfixtures.NewRoom())
	plan := h.MustCreateWeekPlan(t, testfixtures.NewWeekPlan(testfixtures.WithWorkWeek()))

	h.MustCreateAssignment(t, testfixtures.Until(testfixtures.NewAssignment(room.ID, plan.ID, day(0)), day(9)))

	cases := []struct {
		name    string
		input   persistence.WeekPlanAssignment
		wantErr error
	}{
		{"overlapping", testfixtures.Until(testfixtures.NewAssignment(room.ID, plan.ID, day(5)), day(20)), persistence.ErrConflict},
		{"touching end is inclusive", testfixtures.NewAssignment(room.ID, plan.ID, day(9)), persistence.ErrConflict},
		{"open ended before", testfixtures.Until(testfixtures.NewAssignment(room.ID, plan.ID, day(-30)), day(0)), persistence.ErrConflict},
		{"after", testfixtures.Until(testfixtures.NewAssignment(room.ID, plan.ID, day(10)), day(20)), nil},
		{"other room", testfixtures.NewAssignment(other.ID, plan.ID, day(0)), nil},
		{"unknown plan", testfixtures.NewAssignment(room.ID, plan.ID+100, day(400)), persistence.ErrConstraintViolation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := h.Assignments.CreateAssignment(ctx, tc.input)
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestAssignmentRepository_UpdateSkipsItself(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	room := h.MustCreateRoom(t, testfixtures.NewRoom())
	plan := h.MustCreateWeekPlan(t, testfixtures.NewWeekPlan(testfixtures.WithWorkWeek()))
	first := h.MustCreateAssignment(t, testfixtures.Until(testfixtures.NewAssignment(room.ID, plan.ID, day(0)), day(9)))
	h.MustCreateAssignment(t, testfixtures.NewAssignment(room.ID, plan.ID, day(20)))

	extended := testfixtures.Until(first, day(15))
	updated, err := h.Assignments.UpdateAssignment(ctx, extended)
	if err != nil {
		t.Fatalf("extending into free time should succeed: %v", err)
	}
	if updated.End == nil || !updated.End.Equal(day(15)) {
		t.Fatalf("unexpected end %v", updated.End)
	}

	if _, err := h.Assignments.UpdateAssignment(ctx, testfixtures.Until(first, day(25))); !errors.Is(err, persistence.ErrConflict) {
		t.Fatalf("expected ErrConflict when reaching the next assignment, got %v", err)
	}

	missing := first
	missing.ID = 9999
	if _, err := h.Assignments.UpdateAssignment(ctx, missing); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestAssignmentRepository_AssignmentsAt(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	room := h.MustCreateRoom(t, testfixtures.NewRoom())
	plan := h.MustCreateWeekPlan(t, testfixtures.NewWeekPlan(testfixtures.WithWorkWeek()))
	first := h.MustCreateAssignment(t, testfixtures.Until(testfixtures.NewAssignment(room.ID, plan.ID, day(0)), day(6)))
	second := h.MustCreateAssignment(t, testfixtures.NewAssignment(room.ID, plan.ID, day(7)))

	cases := []struct {
		at   time.Time
		want int64
	}{
		{day(0), first.ID},
		{day(6), first.ID},
		{day(6).Add(12 * time.Hour), 0},
		{day(7), second.ID},
		{day(3000), second.ID},
		{day(-1), 0},
	}
	for _, tc := range cases {
		got, err := h.Assignments.AssignmentsAt(ctx, room.ID, tc.at)
		if err != nil {
			t.Fatalf("AssignmentsAt(%v) failed: %v", tc.at, err)
		}
		switch {
		case tc.want == 0 && len(got) != 0:
			t.Errorf("AssignmentsAt(%v) = %+v, want none", tc.at, got)
		case tc.want != 0 && (len(got) != 1 || got[0].ID != tc.want):
			t.Errorf("AssignmentsAt(%v) = %+v, want id %d", tc.at, got, tc.want)
		}
	}
}

func TestAssignmentRepository_ConcurrentWritersCannotBothWin(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	room := h.MustCreateRoom(t, testfixtures.NewRoom())
	plan := h.MustCreateWeekPlan(t, testfixtures.NewWeekPlan(testfixtures.WithWorkWeek()))

	const writers = 4
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		successes int
	)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := h.Assignments.CreateAssignment(ctx, testfixtures.NewAssignment(room.ID, plan.ID, day(0)))
			if err == nil {
				mu.Lock()
				successes++
				mu.Unlock()
			} else if !errors.Is(err, persistence.ErrConflict) {
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	if successes != 1 {
		t.Fatalf("expected exactly one writer to succeed, got %d", successes)
	}
}
