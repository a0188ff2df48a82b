package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/application"
	"github.com/melanietreitinger/mod-bookit-sub001/internal/weekplan"
)

type weekPlanService interface {
	CreateWeekPlan(ctx context.Context, input application.WeekPlanInput) (application.WeekPlan, error)
	UpdateWeekPlan(ctx context.Context, id int64, input application.WeekPlanInput) (application.WeekPlan, error)
	GetWeekPlan(ctx context.Context, id int64) (application.WeekPlan, error)
	ListWeekPlans(ctx context.Context) ([]application.WeekPlan, error)
	DeleteWeekPlan(ctx context.Context, id int64) error
}

// WeekPlanHandler serves week plans and their slots.
type WeekPlanHandler struct {
	handlerBase
	service weekPlanService
}

func NewWeekPlanHandler(service weekPlanService, logger *slog.Logger) *WeekPlanHandler {
	return &WeekPlanHandler{handlerBase: newHandlerBase("WeekPlanHandler", logger), service: service}
}

func (h *WeekPlanHandler) Create(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var input application.WeekPlanInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.badRequest(ctx, w, "Create", errBadRequestBody, err)
		return
	}

	plan, err := h.service.CreateWeekPlan(ctx, input)
	if err != nil {
		h.serviceFailed(ctx, w, "Create", err)
		return
	}

	h.log(ctx, "Create", "week_plan_id", plan.ID).InfoContext(ctx, "week plan created", "slot_count", len(plan.Slots))
	h.responder.writeJSON(ctx, w, http.StatusCreated, weekPlanResponse{WeekPlan: toWeekPlanDTO(plan)})
}

func (h *WeekPlanHandler) Update(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		h.badRequest(ctx, w, "Update", err, err)
		return
	}
	var input application.WeekPlanInput
	if err := decodeJSON(w, r, &input); err != nil {
		h.badRequest(ctx, w, "Update", errBadRequestBody, err)
		return
	}

	plan, err := h.service.UpdateWeekPlan(ctx, id, input)
	if err != nil {
		h.serviceFailed(ctx, w, "Update", err, "week_plan_id", id)
		return
	}

	h.log(ctx, "Update", "week_plan_id", id).InfoContext(ctx, "week plan updated", "slot_count", len(plan.Slots))
	h.responder.writeJSON(ctx, w, http.StatusOK, weekPlanResponse{WeekPlan: toWeekPlanDTO(plan)})
}

func (h *WeekPlanHandler) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		h.badRequest(ctx, w, "Get", err, err)
		return
	}

	plan, err := h.service.GetWeekPlan(ctx, id)
	if err != nil {
		h.serviceFailed(ctx, w, "Get", err, "week_plan_id", id)
		return
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, weekPlanResponse{WeekPlan: toWeekPlanDTO(plan)})
}

func (h *WeekPlanHandler) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	plans, err := h.service.ListWeekPlans(ctx)
	if err != nil {
		h.serviceFailed(ctx, w, "List", err)
		return
	}

	resp := listWeekPlansResponse{WeekPlans: make([]weekPlanDTO, 0, len(plans))}
	for _, plan := range plans {
		resp.WeekPlans = append(resp.WeekPlans, toWeekPlanDTO(plan))
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, resp)
}

func (h *WeekPlanHandler) Delete(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id, err := pathID(r)
	if err != nil {
		h.badRequest(ctx, w, "Delete", err, err)
		return
	}

	if err := h.service.DeleteWeekPlan(ctx, id); err != nil {
		h.serviceFailed(ctx, w, "Delete", err, "week_plan_id", id)
		return
	}

	h.log(ctx, "Delete", "week_plan_id", id).InfoContext(ctx, "week plan deleted")
	w.WriteHeader(http.StatusNoContent)
}

type weekPlanResponse struct {
	WeekPlan weekPlanDTO `json:"week_plan"`
}

type listWeekPlansResponse struct {
	WeekPlans []weekPlanDTO `json:"week_plans"`
}

// weekPlanDTO carries the slots both as a list and in the textual form
// accepted by the "text" input field.
type weekPlanDTO struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Slots       []slotDTO `json:"slots"`
	Text        string    `json:"text"`
	CreatedAt   string    `json:"created_at"`
	UpdatedAt   string    `json:"updated_at"`
}

type slotDTO struct {
	Weekday string `json:"weekday"`
	Start   string `json:"start"`
	End     string `json:"end"`
}

func toWeekPlanDTO(plan application.WeekPlan) weekPlanDTO {
	slots := make([]slotDTO, 0, len(plan.Slots))
	for _, s := range plan.Slots {
		slots = append(slots, slotDTO{
			Weekday: s.Weekday.Short(),
			Start:   weekplan.FormatClock(s.Start),
			End:     weekplan.FormatClock(s.End),
		})
	}
	return weekPlanDTO{
		ID:          plan.ID,
		Name:        plan.Name,
		Description: plan.Description,
		Slots:       slots,
		Text:        weekplan.Format(plan.Slots),
		CreatedAt:   formatTime(plan.CreatedAt),
		UpdatedAt:   formatTime(plan.UpdatedAt),
	}
}
