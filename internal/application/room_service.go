package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// RoomService orchestrates validation and persistence for rooms.
type RoomService struct {
	rooms  RoomRepository
	logger *slog.Logger
}

// NewRoomService constructs a room service.
func NewRoomService(rooms RoomRepository, logger *slog.Logger) *RoomService {
	return &RoomService{rooms: rooms, logger: defaultLogger(logger)}
}

func (s *RoomService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "RoomService", operation, attrs...)
}

// CreateRoom validates input and persists a new room. Rooms are active
// unless input.Active says otherwise.
func (s *RoomService) CreateRoom(ctx context.Context, input RoomInput) (room Room, err error) {
	if s == nil || s.rooms == nil {
		return Room{}, fmt.Errorf("room repository not configured")
	}

	logger := s.loggerWith(ctx, "CreateRoom", "name", input.Name)
	defer func() { logOutcome(ctx, logger, err, "room created", "room_id", room.ID) }()

	if vErr := validateRoomInput(input); vErr.HasErrors() {
		return Room{}, vErr
	}

	room = applyRoomInput(Room{Active: true}, input)
	room, err = s.rooms.CreateRoom(ctx, room)
	if err != nil {
		return Room{}, mapRepoError(err, "name")
	}
	return room, nil
}

// UpdateRoom replaces the attributes of an existing room.
func (s *RoomService) UpdateRoom(ctx context.Context, id int64, input RoomInput) (room Room, err error) {
	if s == nil || s.rooms == nil {
		return Room{}, fmt.Errorf("room repository not configured")
	}

	logger := s.loggerWith(ctx, "UpdateRoom", "room_id", id)
	defer func() { logOutcome(ctx, logger, err, "room updated") }()

	existing, err := s.rooms.GetRoom(ctx, id)
	if err != nil {
		return Room{}, mapRepoError(err, "")
	}
	if vErr := validateRoomInput(input); vErr.HasErrors() {
		return Room{}, vErr
	}

	room, err = s.rooms.UpdateRoom(ctx, applyRoomInput(existing, input))
	if err != nil {
		return Room{}, mapRepoError(err, "name")
	}
	return room, nil
}

// GetRoom returns a room by id.
func (s *RoomService) GetRoom(ctx context.Context, id int64) (Room, error) {
	if s == nil || s.rooms == nil {
		return Room{}, fmt.Errorf("room repository not configured")
	}
	room, err := s.rooms.GetRoom(ctx, id)
	if err != nil {
		err = mapRepoError(err, "")
		s.loggerWith(ctx, "GetRoom", "room_id", id).
			ErrorContext(ctx, "failed to get room", "error", err, "error_kind", ErrorKind(err))
		return Room{}, err
	}
	return room, nil
}

// ListRooms returns all rooms ordered by name.
func (s *RoomService) ListRooms(ctx context.Context) (rooms []Room, err error) {
	if s == nil || s.rooms == nil {
		return nil, fmt.Errorf("room repository not configured")
	}

	logger := s.loggerWith(ctx, "ListRooms")
	defer func() { logOutcome(ctx, logger, err, "rooms listed", "result_count", len(rooms)) }()

	rooms, err = s.rooms.ListRooms(ctx)
	if err != nil {
		return nil, mapRepoError(err, "")
	}
	return rooms, nil
}

// DeleteRoom removes a room together with its assignments and room specific
// blockers.
func (s *RoomService) DeleteRoom(ctx context.Context, id int64) (err error) {
	if s == nil || s.rooms == nil {
		return fmt.Errorf("room repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteRoom", "room_id", id)
	defer func() { logOutcome(ctx, logger, err, "room deleted") }()

	return mapRepoError(s.rooms.DeleteRoom(ctx, id), "")
}

func validateRoomInput(input RoomInput) *ValidationError {
	vErr := validateStruct(input)
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	return vErr
}

func applyRoomInput(room Room, input RoomInput) Room {
	room.Name = strings.TrimSpace(input.Name)
	room.Seats = input.Seats
	room.Mode = input.Mode
	room.ExtraTimeBefore = secondsPtr(input.ExtraTimeBefore)
	room.ExtraTimeAfter = secondsPtr(input.ExtraTimeAfter)
	if input.Active != nil {
		room.Active = *input.Active
	}
	return room
}

func secondsPtr(v *int64) *time.Duration {
	if v == nil {
		return nil
	}
	d := time.Duration(*v) * time.Second
	return &d
}
