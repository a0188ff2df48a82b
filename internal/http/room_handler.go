package http

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/application"
)

type roomService interface {
	CreateRoom(ctx context.Context, input application.RoomInput) (application.Room, error)
	UpdateRoom(ctx context.Context, id int64, input application.RoomInput) (application.Room, error)
	GetRoom(ctx context.Context, id int64) (application.Room, error)
	ListRooms(ctx context.Context) ([]application.Room, error)
	DeleteRoom(ctx context.Context, id int64) error
}

// RoomHandler serves the room catalog.
type RoomHandler struct {
	handlerBase
	service roomService
}

func NewRoomHandler(service roomService, logger *slog.Logger) *RoomHandler {
	return &RoomHandler{handlerBase: newHandlerBase("RoomHandler", logger), service: service}
}

func (h *RoomHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var input application.RoomInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.badRequest(ctx, w, "Create", errBadRequestBody, err)
		return
	}

	room, err := h.service.CreateRoom(ctx, input)
	if err != nil {
		h.serviceFailed(ctx, w, "Create", err)
		return
	}

	h.log(ctx, "Create", "room_id", room.ID).InfoContext(ctx, "room created")
	h.responder.writeJSON(ctx, w, http.StatusCreated, roomResponse{Room: toRoomDTO(room)})
}

func (h *RoomHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		h.badRequest(ctx, w, "Update", err, err)
		return
	}
	var input application.RoomInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.badRequest(ctx, w, "Update", errBadRequestBody, err)
		return
	}

	room, err := h.service.UpdateRoom(ctx, id, input)
	if err != nil {
		h.serviceFailed(ctx, w, "Update", err, "room_id", id)
		return
	}

	h.log(ctx, "Update", "room_id", id).InfoContext(ctx, "room updated")
	h.responder.writeJSON(ctx, w, http.StatusOK, roomResponse{Room: toRoomDTO(room)})
}

func (h *RoomHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		h.badRequest(ctx, w, "Get", err, err)
		return
	}

	room, err := h.service.GetRoom(ctx, id)
	if err != nil {
		h.serviceFailed(ctx, w, "Get", err, "room_id", id)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, roomResponse{Room: toRoomDTO(room)})
}

func (h *RoomHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	rooms, err := h.service.ListRooms(ctx)
	if err != nil {
		h.serviceFailed(ctx, w, "List", err)
		return
	}

	resp := listRoomsResponse{Rooms: make([]roomDTO, 0, len(rooms))}
	for _, room := range rooms {
		resp.Rooms = append(resp.Rooms, toRoomDTO(room))
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, resp)
}

func (h *RoomHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		h.badRequest(ctx, w, "Delete", err, err)
		return
	}

	if err := h.service.DeleteRoom(ctx, id); err != nil {
		h.serviceFailed(ctx, w, "Delete", err, "room_id", id)
		return
	}

	h.log(ctx, "Delete", "room_id", id).InfoContext(ctx, "room deleted")
	w.WriteHeader(http.StatusNoContent)
}

type roomResponse struct {
	Room roomDTO `json:"room"`
}

type listRoomsResponse struct {
	Rooms []roomDTO `json:"rooms"`
}

type roomDTO struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Seats           int    `json:"seats"`
	Mode            string `json:"mode"`
	ExtraTimeBefore *int64 `json:"extra_time_before"`
	ExtraTimeAfter  *int64 `json:"extra_time_after"`
	Active          bool   `json:"active"`
	CreatedAt       string `json:"created_at"`
	UpdatedAt       string `json:"updated_at"`
}

func toRoomDTO(room application.Room) roomDTO {
	return roomDTO{
		ID:              room.ID,
		Name:            room.Name,
		Seats:           room.Seats,
		Mode:            room.Mode,
		ExtraTimeBefore: durationSeconds(room.ExtraTimeBefore),
		ExtraTimeAfter:  durationSeconds(room.ExtraTimeAfter),
		Active:          room.Active,
		CreatedAt:       formatTime(room.CreatedAt),
		UpdatedAt:       formatTime(room.UpdatedAt),
	}
}

func durationSeconds(d *time.Duration) *int64 {
	if d == nil {
		return nil
	}
	s := int64(*d / time.Second)
	return &s
}
