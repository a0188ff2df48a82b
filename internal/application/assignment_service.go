package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/persistence"
)

// AssignmentService manages which week plan applies to a room when.
type AssignmentService struct {
	assignments AssignmentRepository
	logger      *slog.Logger
}

// NewAssignmentService constructs an assignment service.
func NewAssignmentService(assignments AssignmentRepository, logger *slog.Logger) *AssignmentService {
	return &AssignmentService{assignments: assignments, logger: defaultLogger(logger)}
}

func (s *AssignmentService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AssignmentService", operation, attrs...)
}

// CreateAssignment stores a new assignment. Windows overlapping another
// assignment of the same room are rejected with a validation error on start.
func (s *AssignmentService) CreateAssignment(ctx context.Context, input AssignmentInput) (assignment Assignment, err error) {
	if s == nil || s.assignments == nil {
		return Assignment{}, fmt.Errorf("assignment repository not configured")
	}

	logger := s.loggerWith(ctx, "CreateAssignment", "room_id", input.RoomID, "week_plan_id", input.WeekPlanID)
	defer func() { logOutcome(ctx, logger, err, "assignment created", "assignment_id", assignment.ID) }()

	if vErr := validateStruct(input); vErr.HasErrors() {
		return Assignment{}, vErr
	}

	assignment, err = s.assignments.CreateAssignment(ctx, assignmentFromInput(input))
	if err != nil {
		return Assignment{}, mapAssignmentError(err)
	}
	return assignment, nil
}

// UpdateAssignment moves an existing assignment.
func (s *AssignmentService) UpdateAssignment(ctx context.Context, id int64, input AssignmentInput) (assignment Assignment, err error) {
	if s == nil || s.assignments == nil {
		return Assignment{}, fmt.Errorf("assignment repository not configured")
	}

	logger := s.loggerWith(ctx, "UpdateAssignment", "assignment_id", id)
	defer func() { logOutcome(ctx, logger, err, "assignment updated") }()

	if vErr := validateStruct(input); vErr.HasErrors() {
		return Assignment{}, vErr
	}

	candidate := assignmentFromInput(input)
	candidate.ID = id
	assignment, err = s.assignments.UpdateAssignment(ctx, candidate)
	if err != nil {
		return Assignment{}, mapAssignmentError(err)
	}
	return assignment, nil
}

// GetAssignment returns an assignment by id.
func (s *AssignmentService) GetAssignment(ctx context.Context, id int64) (Assignment, error) {
	if s == nil || s.assignments == nil {
		return Assignment{}, fmt.Errorf("assignment repository not configured")
	}
	assignment, err := s.assignments.GetAssignment(ctx, id)
	if err != nil {
		return Assignment{}, mapRepoError(err, "")
	}
	return assignment, nil
}

// ListAssignments returns assignments matching filter.
func (s *AssignmentService) ListAssignments(ctx context.Context, filter AssignmentFilter) (assignments []Assignment, err error) {
	if s == nil || s.assignments == nil {
		return nil, fmt.Errorf("assignment repository not configured")
	}

	logger := s.loggerWith(ctx, "ListAssignments")
	defer func() { logOutcome(ctx, logger, err, "assignments listed", "result_count", len(assignments)) }()

	assignments, err = s.assignments.ListAssignments(ctx, filter)
	return assignments, mapRepoError(err, "")
}

// DeleteAssignment removes an assignment.
func (s *AssignmentService) DeleteAssignment(ctx context.Context, id int64) (err error) {
	if s == nil || s.assignments == nil {
		return fmt.Errorf("assignment repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteAssignment", "assignment_id", id)
	defer func() { logOutcome(ctx, logger, err, "assignment deleted") }()

	return mapRepoError(s.assignments.DeleteAssignment(ctx, id), "")
}

func assignmentFromInput(input AssignmentInput) Assignment {
	a := Assignment{
		RoomID:     input.RoomID,
		WeekPlanID: input.WeekPlanID,
		Start:      input.Start.UTC(),
	}
	if input.End != nil {
		end := input.End.UTC()
		a.End = &end
	}
	return a
}

func mapAssignmentError(err error) error {
	if errors.Is(err, persistence.ErrConflict) {
		return fieldError("start", "the room already has a week plan assigned in this period")
	}
	return mapRepoError(err, "room_id")
}
