package testfixtures

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/persistence"
	"github.com/melanietreitinger/mod-bookit-sub001/internal/persistence/sqlite"
)

// SQLiteHarness provides repository access backed by a migrated SQLite
// database in a temporary file.
type SQLiteHarness struct {
	Storage     *sqlite.Storage
	Rooms       persistence.RoomRepository
	WeekPlans   persistence.WeekPlanRepository
	Assignments persistence.AssignmentRepository
	Blockers    persistence.BlockerRepository
	Clock       *Clock

	cleanup func()
}

// Close releases resources associated with the harness.
func (h *SQLiteHarness) Close() {
	if h != nil && h.cleanup != nil {
		h.cleanup()
		h.cleanup = nil
	}
}

// NewSQLiteHarness opens and migrates a fresh database. Timestamps come from
// the harness clock. Close is registered with tb.Cleanup.
func NewSQLiteHarness(tb testing.TB) *SQLiteHarness {
	tb.Helper()

	clock := NewClock(ReferenceTime())
	cfg := sqlite.DefaultConfig(filepath.Join(tb.TempDir(), "bookit.db"))
	cfg.Now = clock.NowFunc()

	storage, err := sqlite.Open(cfg, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		tb.Fatalf("failed to open storage: %v", err)
	}
	if err := storage.Migrate(context.Background()); err != nil {
		_ = storage.Close()
		tb.Fatalf("failed to migrate storage: %v", err)
	}

	harness := &SQLiteHarness{
		Storage:     storage,
		Rooms:       storage,
		WeekPlans:   storage,
		Assignments: storage,
		Blockers:    storage,
		Clock:       clock,
		cleanup: func() {
			_ = storage.Close()
		},
	}
	tb.Cleanup(harness.Close)
	return harness
}

// MustCreateRoom stores room or fails the test.
func (h *SQLiteHarness) MustCreateRoom(tb testing.TB, room persistence.Room) persistence.Room {
	tb.Helper()
	created, err := h.Rooms.CreateRoom(context.Background(), room)
	if err != nil {
		tb.Fatalf("create room %q: %v", room.Name, err)
	}
	return created
}

// MustCreateWeekPlan stores plan or fails the test.
func (h *SQLiteHarness) MustCreateWeekPlan(tb testing.TB, plan persistence.WeekPlan) persistence.WeekPlan {
	tb.Helper()
	created, err := h.WeekPlans.CreateWeekPlan(context.Background(), plan)
	if err != nil {
		tb.Fatalf("create week plan %q: %v", plan.Name, err)
	}
	return created
}

// MustCreateAssignment stores assignment or fails the test.
func (h *SQLiteHarness) MustCreateAssignment(tb testing.TB, assignment persistence.WeekPlanAssignment) persistence.WeekPlanAssignment {
	tb.Helper()
	created, err := h.Assignments.CreateAssignment(context.Background(), assignment)
	if err != nil {
		tb.Fatalf("create assignment: %v", err)
	}
	return created
}

// MustCreateBlocker stores blocker or fails the test.
func (h *SQLiteHarness) MustCreateBlocker(tb testing.TB, blocker persistence.Blocker) persistence.Blocker {
	tb.Helper()
	created, err := h.Blockers.CreateBlocker(context.Background(), blocker)
	if err != nil {
		tb.Fatalf("create blocker: %v", err)
	}
	return created
}
