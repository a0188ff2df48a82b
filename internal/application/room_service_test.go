package application

import (
	"context"
	"errors"
	"testing"
	"time"
)

func validRoomInput() RoomInput {
	return RoomInput{Name: "Seminar 1", Seats: 12, Mode: RoomModeFree}
}

func TestRoomService_CreateRoom(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	t.Run("stores trimmed room and defaults to active", func(t *testing.T) {
		repo := newRoomRepoStub()
		svc := NewRoomService(repo, quietLogger())

		before := int64(900)
		input := validRoomInput()
		input.Name = "  Seminar 1  "
		input.ExtraTimeBefore = &before

		room, err := svc.CreateRoom(ctx, input)
		if err != nil {
			t.Fatalf("CreateRoom failed: %v", err)
		}
		if room.ID == 0 || room.Name != "Seminar 1" || !room.Active {
			t.Fatalf("unexpected room %+v", room)
		}
		if room.ExtraTimeBefore == nil || *room.ExtraTimeBefore != 15*time.Minute || room.ExtraTimeAfter != nil {
			t.Fatalf("unexpected extra times %v %v", room.ExtraTimeBefore, room.ExtraTimeAfter)
		}
	})

	t.Run("rejects invalid input per field", func(t *testing.T) {
		svc := NewRoomService(newRoomRepoStub(), quietLogger())
		negative := int64(-5)

		_, err := svc.CreateRoom(ctx, RoomInput{Name: "   ", Seats: 0, Mode: "anytime", ExtraTimeAfter: &negative})
		var vErr *ValidationError
		if !errors.As(err, &vErr) {
			t.Fatalf("expected ValidationError, got %v", err)
		}
		for _, field := range []string{"name", "seats", "mode", "extra_time_after"} {
			if vErr.FieldErrors[field] == "" {
				t.Errorf("expected error for %s, got %v", field, vErr.FieldErrors)
			}
		}
	})

	t.Run("maps duplicate names", func(t *testing.T) {
		svc := NewRoomService(newRoomRepoStub(), quietLogger())
		if _, err := svc.CreateRoom(ctx, validRoomInput()); err != nil {
			t.Fatalf("first create failed: %v", err)
		}
		if _, err := svc.CreateRoom(ctx, validRoomInput()); !errors.Is(err, ErrAlreadyExists) {
			t.Fatalf("expected ErrAlreadyExists, got %v", err)
		}
	})
}

func TestRoomService_UpdateAndDelete(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	repo := newRoomRepoStub()
	svc := NewRoomService(repo, quietLogger())

	room, err := svc.CreateRoom(ctx, validRoomInput())
	if err != nil {
		t.Fatalf("CreateRoom failed: %v", err)
	}

	inactive := false
	input := validRoomInput()
	input.Mode = RoomModeSlotAligned
	input.Active = &inactive
	updated, err := svc.UpdateRoom(ctx, room.ID, input)
	if err != nil {
		t.Fatalf("UpdateRoom failed: %v", err)
	}
	if updated.Active || updated.Mode != RoomModeSlotAligned || updated.CreatedAt != room.CreatedAt {
		t.Fatalf("unexpected updated room %+v", updated)
	}

	if _, err := svc.UpdateRoom(ctx, 99, input); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound updating unknown room, got %v", err)
	}

	rooms, err := svc.ListRooms(ctx)
	if err != nil || len(rooms) != 1 {
		t.Fatalf("unexpected list %+v, %v", rooms, err)
	}

	if err := svc.DeleteRoom(ctx, room.ID); err != nil {
		t.Fatalf("DeleteRoom failed: %v", err)
	}
	if _, err := svc.GetRoom(ctx, room.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
}

func TestRoomService_NotConfigured(t *testing.T) {
	t.Parallel()

	var svc *RoomService
	if _, err := svc.CreateRoom(context.Background(), validRoomInput()); err == nil {
		t.Fatal("expected error from nil service")
	}
}
