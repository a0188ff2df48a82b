package application

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// BlockerService manages forced-closed intervals.
type BlockerService struct {
	blockers BlockerRepository
	logger   *slog.Logger
}

// NewBlockerService constructs a blocker service.
func NewBlockerService(blockers BlockerRepository, logger *slog.Logger) *BlockerService {
	return &BlockerService{blockers: blockers, logger: defaultLogger(logger)}
}

func (s *BlockerService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "BlockerService", operation, attrs...)
}

// CreateBlocker stores a new blocker. Without a room it applies to all rooms.
func (s *BlockerService) CreateBlocker(ctx context.Context, input BlockerInput) (blocker Blocker, err error) {
	if s == nil || s.blockers == nil {
		return Blocker{}, fmt.Errorf("blocker repository not configured")
	}

	logger := s.loggerWith(ctx, "CreateBlocker", "global", input.RoomID == nil)
	defer func() { logOutcome(ctx, logger, err, "blocker created", "blocker_id", blocker.ID) }()

	if vErr := validateStruct(input); vErr.HasErrors() {
		return Blocker{}, vErr
	}

	blocker, err = s.blockers.CreateBlocker(ctx, blockerFromInput(input))
	if err != nil {
		return Blocker{}, mapRepoError(err, "room_id")
	}
	return blocker, nil
}

// UpdateBlocker replaces an existing blocker.
func (s *BlockerService) UpdateBlocker(ctx context.Context, id int64, input BlockerInput) (blocker Blocker, err error) {
	if s == nil || s.blockers == nil {
		return Blocker{}, fmt.Errorf("blocker repository not configured")
	}

	logger := s.loggerWith(ctx, "UpdateBlocker", "blocker_id", id)
	defer func() { logOutcome(ctx, logger, err, "blocker updated") }()

	if vErr := validateStruct(input); vErr.HasErrors() {
		return Blocker{}, vErr
	}

	candidate := blockerFromInput(input)
	candidate.ID = id
	blocker, err = s.blockers.UpdateBlocker(ctx, candidate)
	if err != nil {
		return Blocker{}, mapRepoError(err, "room_id")
	}
	return blocker, nil
}

// GetBlocker returns a blocker by id.
func (s *BlockerService) GetBlocker(ctx context.Context, id int64) (Blocker, error) {
	if s == nil || s.blockers == nil {
		return Blocker{}, fmt.Errorf("blocker repository not configured")
	}
	blocker, err := s.blockers.GetBlocker(ctx, id)
	if err != nil {
		return Blocker{}, mapRepoError(err, "")
	}
	return blocker, nil
}

// ListBlockers returns blockers matching filter ordered by start.
func (s *BlockerService) ListBlockers(ctx context.Context, filter BlockerFilter) (blockers []Blocker, err error) {
	if s == nil || s.blockers == nil {
		return nil, fmt.Errorf("blocker repository not configured")
	}

	logger := s.loggerWith(ctx, "ListBlockers")
	defer func() { logOutcome(ctx, logger, err, "blockers listed", "result_count", len(blockers)) }()

	if filter.From != nil && filter.To != nil && filter.To.Before(*filter.From) {
		return nil, fieldError("to", "to must not be before from")
	}
	blockers, err = s.blockers.ListBlockers(ctx, filter)
	return blockers, mapRepoError(err, "")
}

// DeleteBlocker removes a blocker.
func (s *BlockerService) DeleteBlocker(ctx context.Context, id int64) (err error) {
	if s == nil || s.blockers == nil {
		return fmt.Errorf("blocker repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteBlocker", "blocker_id", id)
	defer func() { logOutcome(ctx, logger, err, "blocker deleted") }()

	return mapRepoError(s.blockers.DeleteBlocker(ctx, id), "")
}

func blockerFromInput(input BlockerInput) Blocker {
	b := Blocker{
		Start:  input.Start.UTC(),
		End:    input.End.UTC(),
		RoomID: input.RoomID,
	}
	if input.Name != nil {
		if name := strings.TrimSpace(*input.Name); name != "" {
			b.Name = &name
		}
	}
	return b
}
