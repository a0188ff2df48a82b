package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/availability"
	"github.com/melanietreitinger/mod-bookit-sub001/internal/persistence"
	"github.com/melanietreitinger/mod-bookit-sub001/internal/weekplan"
)

// RoomRepository captures the persistence operations needed by RoomService.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) (Room, error)
	GetRoom(ctx context.Context, id int64) (Room, error)
	UpdateRoom(ctx context.Context, room Room) (Room, error)
	DeleteRoom(ctx context.Context, id int64) error
	ListRooms(ctx context.Context) ([]Room, error)
}

// WeekPlanRepository captures the persistence operations needed by
// WeekPlanService.
type WeekPlanRepository interface {
	CreateWeekPlan(ctx context.Context, plan WeekPlan) (WeekPlan, error)
	GetWeekPlan(ctx context.Context, id int64) (WeekPlan, error)
	UpdateWeekPlan(ctx context.Context, plan WeekPlan) (WeekPlan, error)
	DeleteWeekPlan(ctx context.Context, id int64) error
	ListWeekPlans(ctx context.Context) ([]WeekPlan, error)
}

// AssignmentRepository captures the persistence operations needed by
// AssignmentService. Create and Update report overlaps with
// persistence.ErrConflict.
type AssignmentRepository interface {
	CreateAssignment(ctx context.Context, assignment Assignment) (Assignment, error)
	GetAssignment(ctx context.Context, id int64) (Assignment, error)
	UpdateAssignment(ctx context.Context, assignment Assignment) (Assignment, error)
	DeleteAssignment(ctx context.Context, id int64) error
	ListAssignments(ctx context.Context, filter AssignmentFilter) ([]Assignment, error)
}

// BlockerRepository captures the persistence operations needed by
// BlockerService.
type BlockerRepository interface {
	CreateBlocker(ctx context.Context, blocker Blocker) (Blocker, error)
	GetBlocker(ctx context.Context, id int64) (Blocker, error)
	UpdateBlocker(ctx context.Context, blocker Blocker) (Blocker, error)
	DeleteBlocker(ctx context.Context, id int64) error
	ListBlockers(ctx context.Context, filter BlockerFilter) ([]Blocker, error)
}

// mapRepoError translates persistence and engine errors into application
// errors. Constraint violations are attributed to field.
func mapRepoError(err error, field string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, persistence.ErrNotFound), errors.Is(err, weekplan.ErrNotFound):
		return fmt.Errorf("%w: %v", ErrNotFound, err)
	case errors.Is(err, persistence.ErrDuplicate):
		return fmt.Errorf("%w: %v", ErrAlreadyExists, err)
	case errors.Is(err, persistence.ErrConstraintViolation):
		if field == "" {
			field = "_"
		}
		return fieldError(field, "value violates a storage constraint or references an unknown record")
	case errors.Is(err, availability.ErrDataIntegrity):
		return fmt.Errorf("%w: %v", ErrDataIntegrity, err)
	}
	return err
}
