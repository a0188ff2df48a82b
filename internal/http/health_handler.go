package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// Pinger reports whether a backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the liveness probe.
type HealthHandler struct {
	handlerBase
	db      Pinger
	timeout time.Duration
}

func NewHealthHandler(db Pinger, logger *slog.Logger) *HealthHandler {
	return &HealthHandler{handlerBase: newHandlerBase("HealthHandler", logger), db: db, timeout: 2 * time.Second}
}

func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.timeout)
	defer cancel()

	if h.db == nil {
		h.responder.writeJSON(r.Context(), w, http.StatusOK, healthResponse{Status: "ok"})
		return
	}
	if err := h.db.Ping(ctx); err != nil {
		h.log(r.Context(), "Check", "error_kind", "unavailable").ErrorContext(r.Context(), "database ping failed", "error", err)
		h.responder.writeError(r.Context(), w, http.StatusServiceUnavailable, errors.New("database unavailable"))
		return
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, healthResponse{Status: "ok"})
}

type healthResponse struct {
	Status string `json:"status"`
}
