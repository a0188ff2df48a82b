package http

import (
	"errors"
	"net/http"

	"github.com/julienschmidt/httprouter"
)

// RouterConfig lists the handlers to mount. Nil handlers are skipped.
type RouterConfig struct {
	Rooms        *RoomHandler
	WeekPlans    *WeekPlanHandler
	Assignments  *AssignmentHandler
	Blockers     *BlockerHandler
	Availability *AvailabilityHandler
	Health       *HealthHandler
	Middleware   []func(http.Handler) http.Handler
}

func NewRouter(cfg RouterConfig) http.Handler {
	router := httprouter.New()
	notFound := newResponder(nil)
	router.NotFound = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		notFound.writeError(r.Context(), w, http.StatusNotFound, errors.New(statusMessage(http.StatusNotFound)))
	})
	router.MethodNotAllowed = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		notFound.writeError(r.Context(), w, http.StatusMethodNotAllowed, errors.New(statusMessage(http.StatusMethodNotAllowed)))
	})

	if cfg.Health != nil {
		router.HandlerFunc(http.MethodGet, "/healthz", cfg.Health.Check)
	}

	if cfg.Rooms != nil {
		router.HandlerFunc(http.MethodGet, "/rooms", cfg.Rooms.List)
		router.HandlerFunc(http.MethodPost, "/rooms", cfg.Rooms.Create)
		router.HandlerFunc(http.MethodGet, "/rooms/:id", cfg.Rooms.Get)
		router.HandlerFunc(http.MethodPut, "/rooms/:id", cfg.Rooms.Update)
		router.HandlerFunc(http.MethodDelete, "/rooms/:id", cfg.Rooms.Delete)
	}

	if cfg.Availability != nil {
		router.HandlerFunc(http.MethodGet, "/rooms/:id/starttimes", cfg.Availability.StartTimes)
		router.HandlerFunc(http.MethodGet, "/rooms/:id/windows", cfg.Availability.Windows)
	}

	if cfg.WeekPlans != nil {
		router.HandlerFunc(http.MethodGet, "/weekplans", cfg.WeekPlans.List)
		router.HandlerFunc(http.MethodPost, "/weekplans", cfg.WeekPlans.Create)
		router.HandlerFunc(http.MethodGet, "/weekplans/:id", cfg.WeekPlans.Get)
		router.HandlerFunc(http.MethodPut, "/weekplans/:id", cfg.WeekPlans.Update)
		router.HandlerFunc(http.MethodDelete, "/weekplans/:id", cfg.WeekPlans.Delete)
	}

	if cfg.Assignments != nil {
		router.HandlerFunc(http.MethodGet, "/assignments", cfg.Assignments.List)
		router.HandlerFunc(http.MethodPost, "/assignments", cfg.Assignments.Create)
		router.HandlerFunc(http.MethodGet, "/assignments/:id", cfg.Assignments.Get)
		router.HandlerFunc(http.MethodPut, "/assignments/:id", cfg.Assignments.Update)
		router.HandlerFunc(http.MethodDelete, "/assignments/:id", cfg.Assignments.Delete)
	}

	if cfg.Blockers != nil {
		router.HandlerFunc(http.MethodGet, "/blockers", cfg.Blockers.List)
		router.HandlerFunc(http.MethodPost, "/blockers", cfg.Blockers.Create)
		router.HandlerFunc(http.MethodGet, "/blockers/:id", cfg.Blockers.Get)
		router.HandlerFunc(http.MethodPut, "/blockers/:id", cfg.Blockers.Update)
		router.HandlerFunc(http.MethodDelete, "/blockers/:id", cfg.Blockers.Delete)
	}

	var handler http.Handler = router
	for i := len(cfg.Middleware) - 1; i >= 0; i-- {
		if cfg.Middleware[i] != nil {
			handler = cfg.Middleware[i](handler)
		}
	}
	return handler
}
