package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/persistence"
	"github.com/melanietreitinger/mod-bookit-sub001/internal/scheduler"
)

const assignmentColumns = `id, weekplan_id, room_id, start_time, end_time, created_at, updated_at`

// AssignmentRepository implements persistence.AssignmentRepository using
// SQLite. Writes run the collision check and the write in one BEGIN IMMEDIATE
// transaction, so two writers cannot both commit overlapping windows.
type AssignmentRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
	retry  *RetryHelper
	now    func() time.Time
}

// NewAssignmentRepository creates a new SQLite assignment repository.
func NewAssignmentRepository(pool *ConnectionPool, now func() time.Time) *AssignmentRepository {
	return &AssignmentRepository{
		pool:   pool,
		mapper: NewErrorMapper(),
		retry:  NewRetryHelper(DefaultRetryConfig()),
		now:    now,
	}
}

// CreateAssignment stores a new assignment unless it overlaps another
// assignment of the same room.
func (r *AssignmentRepository) CreateAssignment(ctx context.Context, assignment persistence.WeekPlanAssignment) (persistence.WeekPlanAssignment, error) {
	now := r.now().UTC()
	assignment.ID = 0
	assignment.CreatedAt = now
	assignment.UpdatedAt = now

	err := r.retry.WithRetry(ctx, func() error {
		return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			if err := r.ensureNoCollision(ctx, tx, assignment); err != nil {
				return err
			}
			result, err := tx.ExecContext(ctx, `
				INSERT INTO weekplan_rooms (weekplan_id, room_id, start_time, end_time, created_at, updated_at)
				VALUES (?, ?, ?, ?, ?, ?)`,
				assignment.WeekPlanID,
				assignment.RoomID,
				assignment.Start.Unix(),
				unixPtr(assignment.End),
				formatTimestamp(assignment.CreatedAt),
				formatTimestamp(assignment.UpdatedAt),
			)
			if err != nil {
				return r.mapper.MapError(err)
			}
			assignment.ID, err = result.LastInsertId()
			if err != nil {
				return fmt.Errorf("failed to read assignment id: %w", err)
			}
			return nil
		})
	})
	if err != nil {
		return persistence.WeekPlanAssignment{}, err
	}
	return r.GetAssignment(ctx, assignment.ID)
}

// UpdateAssignment moves an assignment to a new plan, room or window. The
// record itself is excluded from the collision check.
func (r *AssignmentRepository) UpdateAssignment(ctx context.Context, assignment persistence.WeekPlanAssignment) (persistence.WeekPlanAssignment, error) {
	assignment.UpdatedAt = r.now().UTC()

	err := r.retry.WithRetry(ctx, func() error {
		return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
			if _, err := getAssignment(ctx, tx, assignment.ID); err != nil {
				return r.mapper.MapError(err)
			}
			if err := r.ensureNoCollision(ctx, tx, assignment); err != nil {
				return err
			}
			result, err := tx.ExecContext(ctx, `
				UPDATE weekplan_rooms
				SET weekplan_id = ?, room_id = ?, start_time = ?, end_time = ?, updated_at = ?
				WHERE id = ?`,
				assignment.WeekPlanID,
				assignment.RoomID,
				assignment.Start.Unix(),
				unixPtr(assignment.End),
				formatTimestamp(assignment.UpdatedAt),
				assignment.ID,
			)
			if err != nil {
				return r.mapper.MapError(err)
			}
			return checkAffected(result)
		})
	})
	if err != nil {
		return persistence.WeekPlanAssignment{}, err
	}
	return r.GetAssignment(ctx, assignment.ID)
}

func (r *AssignmentRepository) ensureNoCollision(ctx context.Context, tx *sql.Tx, candidate persistence.WeekPlanAssignment) error {
	existing, err := queryAssignments(ctx, tx, `WHERE room_id = ?`, candidate.RoomID)
	if err != nil {
		return r.mapper.MapError(err)
	}

	rules := make([]scheduler.Assignment, 0, len(existing))
	for _, a := range existing {
		rules = append(rules, ToSchedulerAssignment(a))
	}
	collisions := scheduler.DetectAssignmentCollisions(rules, ToSchedulerAssignment(candidate))
	if len(collisions) == 0 {
		return nil
	}

	ids := make([]string, 0, len(collisions))
	for _, c := range collisions {
		ids = append(ids, fmt.Sprint(c.ID))
	}
	return fmt.Errorf("%w: room %d already has assignment %s in that window",
		persistence.ErrConflict, candidate.RoomID, strings.Join(ids, ", "))
}

// GetAssignment retrieves an assignment by id.
func (r *AssignmentRepository) GetAssignment(ctx context.Context, id int64) (persistence.WeekPlanAssignment, error) {
	assignment, err := getAssignment(ctx, r.pool.DB(), id)
	if err != nil {
		return persistence.WeekPlanAssignment{}, r.mapper.MapError(err)
	}
	return assignment, nil
}

// ListAssignments returns assignments matching filter ordered by room and start.
func (r *AssignmentRepository) ListAssignments(ctx context.Context, filter persistence.AssignmentFilter) ([]persistence.WeekPlanAssignment, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.RoomID != nil {
		clauses = append(clauses, "room_id = ?")
		args = append(args, *filter.RoomID)
	}
	if filter.WeekPlanID != nil {
		clauses = append(clauses, "weekplan_id = ?")
		args = append(args, *filter.WeekPlanID)
	}
	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}

	assignments, err := queryAssignments(ctx, r.pool.DB(), where, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	return assignments, nil
}

// DeleteAssignment removes an assignment by id.
func (r *AssignmentRepository) DeleteAssignment(ctx context.Context, id int64) error {
	result, err := r.pool.DB().ExecContext(ctx, `DELETE FROM weekplan_rooms WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return checkAffected(result)
}

// AssignmentsAt returns the assignments of the room whose inclusive window
// contains at.
func (r *AssignmentRepository) AssignmentsAt(ctx context.Context, roomID int64, at time.Time) ([]persistence.WeekPlanAssignment, error) {
	assignments, err := queryAssignments(ctx, r.pool.DB(),
		`WHERE room_id = ? AND start_time <= ? AND (end_time IS NULL OR end_time >= ?)`,
		roomID, at.Unix(), at.Unix())
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	return assignments, nil
}

// ToSchedulerAssignment converts a stored assignment into the form used by
// the collision rule and the schedule resolver.
func ToSchedulerAssignment(a persistence.WeekPlanAssignment) scheduler.Assignment {
	return scheduler.Assignment{
		ID:         a.ID,
		RoomID:     a.RoomID,
		WeekPlanID: a.WeekPlanID,
		Start:      a.Start,
		End:        a.End,
	}
}

func getAssignment(ctx context.Context, q querier, id int64) (persistence.WeekPlanAssignment, error) {
	row := q.QueryRowContext(ctx, `SELECT `+assignmentColumns+` FROM weekplan_rooms WHERE id = ?`, id)
	return scanAssignment(row)
}

func queryAssignments(ctx context.Context, q querier, where string, args ...any) ([]persistence.WeekPlanAssignment, error) {
	rows, err := q.QueryContext(ctx, `SELECT `+assignmentColumns+` FROM weekplan_rooms `+where+` ORDER BY room_id, start_time, id`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var assignments []persistence.WeekPlanAssignment
	for rows.Next() {
		a, err := scanAssignment(rows)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, rows.Err()
}

func scanAssignment(row rowScanner) (persistence.WeekPlanAssignment, error) {
	var (
		a                    persistence.WeekPlanAssignment
		start                int64
		end                  sql.NullInt64
		createdAt, updatedAt string
	)
	if err := row.Scan(&a.ID, &a.WeekPlanID, &a.RoomID, &start, &end, &createdAt, &updatedAt); err != nil {
		return persistence.WeekPlanAssignment{}, err
	}
	a.Start = time.Unix(start, 0).UTC()
	a.End = timePtr(end)

	var err error
	if a.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.WeekPlanAssignment{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if a.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.WeekPlanAssignment{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return a, nil
}
