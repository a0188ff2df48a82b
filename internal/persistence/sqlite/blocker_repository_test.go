package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/persistence"
	"github.com/melanietreitinger/mod-bookit-sub001/internal/testfixtures"
)

func TestBlockerRepository_BlockersForRoom(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()

	room := h.MustCreateRoom(t, testfixtures.NewRoom())
	other := h.MustCreateRoom(t, testfixtures.NewRoom())
	base := testfixtures.ReferenceTime()

	global := h.MustCreateBlocker(t, testfixtures.NewBlocker(base.Add(9*time.Hour), base.Add(10*time.Hour)))
	own := h.MustCreateBlocker(t, testfixtures.NewBlocker(base.Add(11*time.Hour), base.Add(12*time.Hour), testfixtures.ForRoom(room.ID)))
	h.MustCreateBlocker(t, testfixtures.NewBlocker(base.Add(9*time.Hour), base.Add(17*time.Hour), testfixtures.ForRoom(other.ID)))
	h.MustCreateBlocker(t, testfixtures.NewBlocker(base.Add(48*time.Hour), base.Add(49*time.Hour)))

	got, err := h.Blockers.BlockersForRoom(ctx, room.ID, base.Add(8*time.Hour), base.Add(18*time.Hour))
	if err != nil {
		t.Fatalf("BlockersForRoom failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != global.ID || got[1].ID != own.ID {
		t.Fatalf("expected global and own blocker, got %+v", got)
	}
	if got[0].RoomID != nil || got[1].RoomID == nil || *got[1].RoomID != room.ID {
		t.Fatalf("room ids not preserved: %+v", got)
	}

	// Bounds are inclusive on both sides.
	touching, err := h.Blockers.BlockersForRoom(ctx, room.ID, base.Add(12*time.Hour), base.Add(13*time.Hour))
	if err != nil || len(touching) != 1 || touching[0].ID != own.ID {
		t.Fatalf("expected blocker ending at from to match, got %+v, %v", touching, err)
	}
}

func TestBlockerRepository_CRUD(t *testing.T) {
	h := testfixtures.NewSQLiteHarness(t)
	ctx := context.Background()
	base := testfixtures.ReferenceTime()

	blocker := h.MustCreateBlocker(t, testfixtures.NewBlocker(base, base.Add(time.Hour), testfixtures.Unnamed()))
	if blocker.Name != nil {
		t.Fatalf("expected unnamed blocker, got %q", *blocker.Name)
	}

	name := "Holiday"
	blocker.Name = &name
	blocker.End = base.Add(24 * time.Hour)
	updated, err := h.Blockers.UpdateBlocker(ctx, blocker)
	if err != nil {
		t.Fatalf("UpdateBlocker failed: %v", err)
	}
	if updated.Name == nil || *updated.Name != "Holiday" || !updated.End.Equal(base.Add(24*time.Hour)) {
		t.Fatalf("unexpected blocker %+v", updated)
	}

	from := base.Add(2 * time.Hour)
	listed, err := h.Blockers.ListBlockers(ctx, persistence.BlockerFilter{From: &from})
	if err != nil || len(listed) != 1 {
		t.Fatalf("expected one blocker after %v, got %+v, %v", from, listed, err)
	}

	reversed := testfixtures.NewBlocker(base.Add(time.Hour), base)
	if _, err := h.Blockers.CreateBlocker(ctx, reversed); !errors.Is(err, persistence.ErrConstraintViolation) {
		t.Fatalf("expected ErrConstraintViolation for reversed blocker, got %v", err)
	}

	if err := h.Blockers.DeleteBlocker(ctx, blocker.ID); err != nil {
		t.Fatalf("DeleteBlocker failed: %v", err)
	}
	if _, err := h.Blockers.GetBlocker(ctx, blocker.ID); !errors.Is(err, persistence.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
