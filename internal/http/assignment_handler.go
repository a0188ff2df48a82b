package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/application"
)

type assignmentService interface {
	CreateAssignment(ctx context.Context, input application.AssignmentInput) (application.Assignment, error)
	UpdateAssignment(ctx context.Context, id int64, input application.AssignmentInput) (application.Assignment, error)
	GetAssignment(ctx context.Context, id int64) (application.Assignment, error)
	ListAssignments(ctx context.Context, filter application.AssignmentFilter) ([]application.Assignment, error)
	DeleteAssignment(ctx context.Context, id int64) error
}

// AssignmentHandler serves the binding of week plans to rooms.
type AssignmentHandler struct {
	handlerBase
	service assignmentService
}

func NewAssignmentHandler(service assignmentService, logger *slog.Logger) *AssignmentHandler {
	return &AssignmentHandler{handlerBase: newHandlerBase("AssignmentHandler", logger), service: service}
}

func (h *AssignmentHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var input application.AssignmentInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.badRequest(ctx, w, "Create", errBadRequestBody, err)
		return
	}

	assignment, err := h.service.CreateAssignment(ctx, input)
	if err != nil {
		h.serviceFailed(ctx, w, "Create", err, "room_id", input.RoomID, "week_plan_id", input.WeekPlanID)
		return
	}

	h.log(ctx, "Create", "assignment_id", assignment.ID, "room_id", assignment.RoomID).InfoContext(ctx, "assignment created")
	h.responder.writeJSON(ctx, w, http.StatusCreated, assignmentResponse{Assignment: toAssignmentDTO(assignment)})
}

func (h *AssignmentHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		h.badRequest(ctx, w, "Update", err, err)
		return
	}
	var input application.AssignmentInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.badRequest(ctx, w, "Update", errBadRequestBody, err)
		return
	}

	assignment, err := h.service.UpdateAssignment(ctx, id, input)
	if err != nil {
		h.serviceFailed(ctx, w, "Update", err, "assignment_id", id)
		return
	}

	h.log(ctx, "Update", "assignment_id", id).InfoContext(ctx, "assignment updated")
	h.responder.writeJSON(ctx, w, http.StatusOK, assignmentResponse{Assignment: toAssignmentDTO(assignment)})
}

func (h *AssignmentHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		h.badRequest(ctx, w, "Get", err, err)
		return
	}

	assignment, err := h.service.GetAssignment(ctx, id)
	if err != nil {
		h.serviceFailed(ctx, w, "Get", err, "assignment_id", id)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, assignmentResponse{Assignment: toAssignmentDTO(assignment)})
}

// List accepts optional room_id and week_plan_id query filters.
func (h *AssignmentHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var (
		filter application.AssignmentFilter
		err    error
	)
	if filter.RoomID, err = queryInt64(r, "room_id"); err != nil {
		h.badRequest(ctx, w, "List", err, err)
		return
	}
	if filter.WeekPlanID, err = queryInt64(r, "week_plan_id"); err != nil {
		h.badRequest(ctx, w, "List", err, err)
		return
	}

	assignments, err := h.service.ListAssignments(ctx, filter)
	if err != nil {
		h.serviceFailed(ctx, w, "List", err)
		return
	}

	resp := listAssignmentsResponse{Assignments: make([]assignmentDTO, 0, len(assignments))}
	for _, a := range assignments {
		resp.Assignments = append(resp.Assignments, toAssignmentDTO(a))
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, resp)
}

func (h *AssignmentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		h.badRequest(ctx, w, "Delete", err, err)
		return
	}

	if err := h.service.DeleteAssignment(ctx, id); err != nil {
		h.serviceFailed(ctx, w, "Delete", err, "assignment_id", id)
		return
	}

	h.log(ctx, "Delete", "assignment_id", id).InfoContext(ctx, "assignment deleted")
	w.WriteHeader(http.StatusNoContent)
}

type assignmentResponse struct {
	Assignment assignmentDTO `json:"assignment"`
}

type listAssignmentsResponse struct {
	Assignments []assignmentDTO `json:"assignments"`
}

type assignmentDTO struct {
	ID         int64   `json:"id"`
	RoomID     int64   `json:"room_id"`
	WeekPlanID int64   `json:"week_plan_id"`
	Start      string  `json:"start"`
	End        *string `json:"end"`
	CreatedAt  string  `json:"created_at"`
	UpdatedAt  string  `json:"updated_at"`
}

func toAssignmentDTO(a application.Assignment) assignmentDTO {
	return assignmentDTO{
		ID:         a.ID,
		RoomID:     a.RoomID,
		WeekPlanID: a.WeekPlanID,
		Start:      formatTime(a.Start),
		End:        formatTimePtr(a.End),
		CreatedAt:  formatTime(a.CreatedAt),
		UpdatedAt:  formatTime(a.UpdatedAt),
	}
}
