package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/availability"
)

// AvailabilityEngine computes availability for one room and day.
type AvailabilityEngine interface {
	PossibleStartTimes(ctx context.Context, req availability.Request) ([]availability.Candidate, error)
	OpenWindows(ctx context.Context, req availability.Request) ([]availability.Window, error)
}

// AvailabilityService answers "when can this room be booked" queries.
type AvailabilityService struct {
	engine AvailabilityEngine
	logger *slog.Logger
}

// NewAvailabilityService constructs an availability service.
func NewAvailabilityService(engine AvailabilityEngine, logger *slog.Logger) *AvailabilityService {
	return &AvailabilityService{engine: engine, logger: defaultLogger(logger)}
}

func (s *AvailabilityService) loggerWith(ctx context.Context, operation string, query WindowQuery, attrs ...any) *slog.Logger {
	attrs = append([]any{
		"room_id", query.RoomID,
		"date", fmt.Sprintf("%04d-%02d-%02d", query.Year, query.Month, query.Day),
	}, attrs...)
	return serviceLogger(ctx, s.logger, "AvailabilityService", operation, attrs...)
}

// PossibleStartTimes lists the times at which a booking of the requested
// duration may start in the room on the requested day. An inactive room, a
// day without a week plan or a fully blocked day yields an empty list.
func (s *AvailabilityService) PossibleStartTimes(ctx context.Context, query AvailabilityQuery) (starts []StartTime, err error) {
	if s == nil || s.engine == nil {
		return nil, fmt.Errorf("availability engine not configured")
	}

	logger := s.loggerWith(ctx, "PossibleStartTimes", query.window(), "duration_minutes", query.DurationMinutes)
	defer func() { logOutcome(ctx, logger, err, "start times computed", "result_count", len(starts)) }()

	req, vErr := availabilityRequest(query)
	if vErr.HasErrors() {
		return nil, vErr
	}

	candidates, err := s.engine.PossibleStartTimes(ctx, req)
	if err != nil {
		return nil, mapAvailabilityError(err)
	}

	starts = make([]StartTime, 0, len(candidates))
	for _, c := range candidates {
		starts = append(starts, StartTime{Start: c.Start, Display: c.Display})
	}
	return starts, nil
}

// OpenWindows returns the open intervals of the room on the requested day,
// including padding and with blockers removed.
func (s *AvailabilityService) OpenWindows(ctx context.Context, query WindowQuery) (windows []Window, err error) {
	if s == nil || s.engine == nil {
		return nil, fmt.Errorf("availability engine not configured")
	}

	logger := s.loggerWith(ctx, "OpenWindows", query)
	defer func() { logOutcome(ctx, logger, err, "open windows computed", "result_count", len(windows)) }()

	req, vErr := dayRequest(query, validateStruct(query))
	if vErr.HasErrors() {
		return nil, vErr
	}

	open, err := s.engine.OpenWindows(ctx, req)
	if err != nil {
		return nil, mapAvailabilityError(err)
	}

	windows = make([]Window, 0, len(open))
	for _, w := range open {
		windows = append(windows, Window{Start: w.Start, End: w.End})
	}
	return windows, nil
}

func availabilityRequest(query AvailabilityQuery) (availability.Request, *ValidationError) {
	req, vErr := dayRequest(query.window(), validateStruct(query))
	if vErr.HasErrors() {
		return availability.Request{}, vErr
	}
	req.Duration = time.Duration(query.DurationMinutes) * time.Minute
	return req, vErr
}

// dayRequest checks that the queried date exists once the struct level
// validation in vErr has passed.
func dayRequest(query WindowQuery, vErr *ValidationError) (availability.Request, *ValidationError) {
	if vErr.HasErrors() {
		return availability.Request{}, vErr
	}
	date := time.Date(query.Year, time.Month(query.Month), query.Day, 0, 0, 0, 0, time.UTC)
	if date.Day() != query.Day {
		vErr.add("day", fmt.Sprintf("day %d does not exist in %04d-%02d", query.Day, query.Year, query.Month))
		return availability.Request{}, vErr
	}
	return availability.Request{
		Year:   query.Year,
		Month:  time.Month(query.Month),
		Day:    query.Day,
		RoomID: query.RoomID,
	}, vErr
}

func mapAvailabilityError(err error) error {
	if errors.Is(err, availability.ErrInvalidRequest) {
		return fieldError("_", err.Error())
	}
	return mapRepoError(err, "")
}
