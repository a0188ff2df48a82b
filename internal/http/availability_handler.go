package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/application"
)

type availabilityService interface {
	PossibleStartTimes(ctx context.Context, query application.AvailabilityQuery) ([]application.StartTime, error)
	OpenWindows(ctx context.Context, query application.WindowQuery) ([]application.Window, error)
}

// AvailabilityHandler answers start time and open window queries for a room.
type AvailabilityHandler struct {
	handlerBase
	service availabilityService
}

func NewAvailabilityHandler(service availabilityService, logger *slog.Logger) *AvailabilityHandler {
	return &AvailabilityHandler{handlerBase: newHandlerBase("AvailabilityHandler", logger), service: service}
}

// StartTimes serves GET /rooms/:id/starttimes?year=&month=&day=&duration=.
// The body is a bare array of {"timestamp", "display"} objects.
func (h *AvailabilityHandler) StartTimes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query, err := startTimesQuery(r)
	if err != nil {
		h.badRequest(ctx, w, "StartTimes", err, err)
		return
	}

	starts, err := h.service.PossibleStartTimes(ctx, query)
	if err != nil {
		h.serviceFailed(ctx, w, "StartTimes", err, "room_id", query.RoomID)
		return
	}

	resp := make([]startTimeDTO, 0, len(starts))
	for _, s := range starts {
		resp = append(resp, startTimeDTO{Timestamp: s.Start.Unix(), Display: s.Display})
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, resp)
}

// Windows serves GET /rooms/:id/windows?year=&month=&day=.
func (h *AvailabilityHandler) Windows(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	query, err := windowQuery(r)
	if err != nil {
		h.badRequest(ctx, w, "Windows", err, err)
		return
	}

	windows, err := h.service.OpenWindows(ctx, query)
	if err != nil {
		h.serviceFailed(ctx, w, "Windows", err, "room_id", query.RoomID)
		return
	}

	resp := listWindowsResponse{Windows: make([]windowDTO, 0, len(windows))}
	for _, win := range windows {
		resp.Windows = append(resp.Windows, windowDTO{
			Start:     formatTime(win.Start),
			End:       formatTime(win.End),
			StartUnix: win.Start.Unix(),
			EndUnix:   win.End.Unix(),
		})
	}
	h.responder.writeJSON(ctx, w, http.StatusOK, resp)
}

func windowQuery(r *http.Request) (application.WindowQuery, error) {
	var (
		q   application.WindowQuery
		err error
	)
	if q.RoomID, err = pathID(r); err != nil {
		return q, err
	}
	if q.Year, err = queryInt(r, "year"); err != nil {
		return q, err
	}
	if q.Month, err = queryInt(r, "month"); err != nil {
		return q, err
	}
	if q.Day, err = queryInt(r, "day"); err != nil {
		return q, err
	}
	return q, nil
}

func startTimesQuery(r *http.Request) (application.AvailabilityQuery, error) {
	day, err := windowQuery(r)
	if err != nil {
		return application.AvailabilityQuery{}, err
	}
	q := application.AvailabilityQuery{RoomID: day.RoomID, Year: day.Year, Month: day.Month, Day: day.Day}
	if q.DurationMinutes, err = queryInt(r, "duration"); err != nil {
		return q, err
	}
	return q, nil
}

type startTimeDTO struct {
	Timestamp int64  `json:"timestamp"`
	Display   string `json:"display"`
}

type listWindowsResponse struct {
	Windows []windowDTO `json:"windows"`
}

type windowDTO struct {
	Start     string `json:"start"`
	End       string `json:"end"`
	StartUnix int64  `json:"start_timestamp"`
	EndUnix   int64  `json:"end_timestamp"`
}
