package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/application"
)

type blockerService interface {
	CreateBlocker(ctx context.Context, input application.BlockerInput) (application.Blocker, error)
	UpdateBlocker(ctx context.Context, id int64, input application.BlockerInput) (application.Blocker, error)
	GetBlocker(ctx context.Context, id int64) (application.Blocker, error)
	ListBlockers(ctx context.Context, filter application.BlockerFilter) ([]application.Blocker, error)
	DeleteBlocker(ctx context.Context, id int64) error
}

// BlockerHandler serves forced-closed intervals.
type BlockerHandler struct {
	handlerBase
	service blockerService
}

func NewBlockerHandler(service blockerService, logger *slog.Logger) *BlockerHandler {
	return &BlockerHandler{handlerBase: newHandlerBase("BlockerHandler", logger), service: service}
}

func (h *BlockerHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var input application.BlockerInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.badRequest(ctx, w, "Create", errBadRequestBody, err)
		return
	}

	blocker, err := h.service.CreateBlocker(ctx, input)
	if err != nil {
		h.serviceFailed(ctx, w, "Create", err)
		return
	}

	h.log(ctx, "Create", "blocker_id", blocker.ID).InfoContext(ctx, "blocker created", "global", blocker.RoomID == nil)
	h.responder.writeJSON(ctx, w, http.StatusCreated, blockerResponse{Blocker: toBlockerDTO(blocker)})
}

func (h *BlockerHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		h.badRequest(ctx, w, "Update", err, err)
		return
	}
	var input application.BlockerInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.badRequest(ctx, w, "Update", errBadRequestBody, err)
		return
	}

	blocker, err := h.service.UpdateBlocker(ctx, id, input)
	if err != nil {
		h.serviceFailed(ctx, w, "Update", err, "blocker_id", id)
		return
	}

	h.log(ctx, "Update", "blocker_id", id).InfoContext(ctx, "blocker updated")
	h.responder.writeJSON(ctx, w, http.StatusOK, blockerResponse{Blocker: toBlockerDTO(blocker)})
}

func (h *BlockerHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		h.badRequest(ctx, w, "Get", err, err)
		return
	}

	blocker, err := h.service.GetBlocker(ctx, id)
	if err != nil {
		h.serviceFailed(ctx, w, "Get", err, "blocker_id", id)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, blockerResponse{Blocker: toBlockerDTO(blocker)})
}

// List accepts optional room_id, from and to query filters. A room filter
// includes global blockers.
func (h *BlockerHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		filter application.BlockerFilter
		err    error
	)
	if filter.RoomID, err = queryInt64(r, "room_id"); err != nil {
		h.badRequest(ctx, w, "List", err, err)
		return
	}
	if filter.From, err = queryTime(r, "from"); err != nil {
		h.badRequest(ctx, w, "List", err, err)
		return
	}
	if filter.To, err = queryTime(r, "to"); err != nil {
		h.badRequest(ctx, w, "List", err, err)
		return
	}

	blockers, err := h.service.ListBlockers(ctx, filter)
	if err != nil {
		h.serviceFailed(ctx, w, "List", err)
		return
	}

	resp := listBlockersResponse{Blockers: make([]blockerDTO, 0, len(blockers))}
	for _, b := range blockers {
		resp.Blockers = append(resp.Blockers, toBlockerDTO(b))
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, resp)
}

func (h *BlockerHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		h.badRequest(ctx, w, "Delete", err, err)
		return
	}

	if err := h.service.DeleteBlocker(ctx, id); err != nil {
		h.serviceFailed(ctx, w, "Delete", err, "blocker_id", id)
		return
	}

	h.log(ctx, "Delete", "blocker_id", id).InfoContext(ctx, "blocker deleted")
	w.WriteHeader(http.StatusNoContent)
}

type blockerResponse struct {
	Blocker blockerDTO `json:"blocker"`
}

type listBlockersResponse struct {
	Blockers []blockerDTO `json:"blockers"`
}

type blockerDTO struct {
	ID        int64   `json:"id"`
	Name      *string `json:"name"`
	Start     string  `json:"start"`
	End       string  `json:"end"`
	RoomID    *int64  `json:"room_id"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

func toBlockerDTO(b application.Blocker) blockerDTO {
	return blockerDTO{
		ID:        b.ID,
		Name:      b.Name,
		Start:     formatTime(b.Start),
		End:       formatTime(b.End),
		RoomID:    b.RoomID,
		CreatedAt: formatTime(b.CreatedAt),
		UpdatedAt: formatTime(b.UpdatedAt),
	}
}
