package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/persistence"
)

// WeekPlanRepository implements persistence.WeekPlanRepository using SQLite.
// Slots are owned by their plan and replaced as a whole on update.
type WeekPlanRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
	now    func() time.Time
}

// NewWeekPlanRepository creates a new SQLite week plan repository.
func NewWeekPlanRepository(pool *ConnectionPool, now func() time.Time) *WeekPlanRepository {
	return &WeekPlanRepository{pool: pool, mapper: NewErrorMapper(), now: now}
}

// CreateWeekPlan stores a plan together with its slots.
func (r *WeekPlanRepository) CreateWeekPlan(ctx context.Context, plan persistence.WeekPlan) (persistence.WeekPlan, error) {
	now := r.now().UTC()
	plan.CreatedAt = now
	plan.UpdatedAt = now

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO weekplans (name, description, created_at, updated_at)
			VALUES (?, ?, ?, ?)`,
			plan.Name, plan.Description, formatTimestamp(plan.CreatedAt), formatTimestamp(plan.UpdatedAt),
		)
		if err != nil {
			return r.mapper.MapError(err)
		}
		if plan.ID, err = result.LastInsertId(); err != nil {
			return fmt.Errorf("failed to read week plan id: %w", err)
		}
		plan.Slots, err = r.insertSlots(ctx, tx, plan.ID, plan.Slots)
		return err
	})
	if err != nil {
		return persistence.WeekPlan{}, err
	}
	return plan, nil
}

// UpdateWeekPlan overwrites name, description and the full slot list.
func (r *WeekPlanRepository) UpdateWeekPlan(ctx context.Context, plan persistence.WeekPlan) (persistence.WeekPlan, error) {
	plan.UpdatedAt = r.now().UTC()

	err := r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE weekplans SET name = ?, description = ?, updated_at = ? WHERE id = ?`,
			plan.Name, plan.Description, formatTimestamp(plan.UpdatedAt), plan.ID,
		)
		if err != nil {
			return r.mapper.MapError(err)
		}
		if err := checkAffected(result); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM weekplan_slots WHERE weekplan_id = ?`, plan.ID); err != nil {
			return r.mapper.MapError(err)
		}
		_, err = r.insertSlots(ctx, tx, plan.ID, plan.Slots)
		return err
	})
	if err != nil {
		return persistence.WeekPlan{}, err
	}
	return r.GetWeekPlan(ctx, plan.ID)
}

func (r *WeekPlanRepository) insertSlots(ctx context.Context, tx *sql.Tx, planID int64, slots []persistence.WeekPlanSlot) ([]persistence.WeekPlanSlot, error) {
	stored := make([]persistence.WeekPlanSlot, 0, len(slots))
	for _, slot := range slots {
		result, err := tx.ExecContext(ctx, `
			INSERT INTO weekplan_slots (weekplan_id, weekday, start_time, end_time)
			VALUES (?, ?, ?, ?)`,
			planID, slot.Weekday, slot.Start, slot.End,
		)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		if slot.ID, err = result.LastInsertId(); err != nil {
			return nil, fmt.Errorf("failed to read slot id: %w", err)
		}
		slot.WeekPlanID = planID
		stored = append(stored, slot)
	}
	return stored, nil
}

// GetWeekPlan retrieves a plan with all of its slots.
func (r *WeekPlanRepository) GetWeekPlan(ctx context.Context, id int64) (persistence.WeekPlan, error) {
	row := r.pool.DB().QueryRowContext(ctx, `
		SELECT id, name, description, created_at, updated_at FROM weekplans WHERE id = ?`, id)
	plan, err := scanWeekPlan(row)
	if err != nil {
		return persistence.WeekPlan{}, r.mapper.MapError(err)
	}

	plan.Slots, err = r.querySlots(ctx, `
		SELECT id, weekplan_id, weekday, start_time, end_time
		FROM weekplan_slots
		WHERE weekplan_id = ?
		ORDER BY weekday, start_time, end_time, id`, id)
	if err != nil {
		return persistence.WeekPlan{}, err
	}
	return plan, nil
}

// ListWeekPlans returns all plans ordered by name, each with its slots.
func (r *WeekPlanRepository) ListWeekPlans(ctx context.Context) ([]persistence.WeekPlan, error) {
	rows, err := r.pool.DB().QueryContext(ctx, `
		SELECT id, name, description, created_at, updated_at FROM weekplans ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}

	var plans []persistence.WeekPlan
	for rows.Next() {
		plan, err := scanWeekPlan(rows)
		if err != nil {
			rows.Close()
			return nil, r.mapper.MapError(err)
		}
		plans = append(plans, plan)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, r.mapper.MapError(err)
	}
	rows.Close()

	slots, err := r.querySlots(ctx, `
		SELECT id, weekplan_id, weekday, start_time, end_time
		FROM weekplan_slots
		ORDER BY weekplan_id, weekday, start_time, end_time, id`)
	if err != nil {
		return nil, err
	}
	byPlan := make(map[int64][]persistence.WeekPlanSlot)
	for _, slot := range slots {
		byPlan[slot.WeekPlanID] = append(byPlan[slot.WeekPlanID], slot)
	}
	for i := range plans {
		plans[i].Slots = byPlan[plans[i].ID]
	}
	return plans, nil
}

// DeleteWeekPlan removes a plan, its slots and its assignments.
func (r *WeekPlanRepository) DeleteWeekPlan(ctx context.Context, id int64) error {
	result, err := r.pool.DB().ExecContext(ctx, `DELETE FROM weekplans WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return checkAffected(result)
}

// ListSlots returns the slots of a plan on one weekday ordered by start time.
func (r *WeekPlanRepository) ListSlots(ctx context.Context, weekPlanID int64, weekday int) ([]persistence.WeekPlanSlot, error) {
	var exists int
	err := r.pool.DB().QueryRowContext(ctx, `SELECT 1 FROM weekplans WHERE id = ?`, weekPlanID).Scan(&exists)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, persistence.ErrNotFound
		}
		return nil, r.mapper.MapError(err)
	}

	return r.querySlots(ctx, `
		SELECT id, weekplan_id, weekday, start_time, end_time
		FROM weekplan_slots
		WHERE weekplan_id = ? AND weekday = ?
		ORDER BY start_time, end_time, id`, weekPlanID, weekday)
}

func (r *WeekPlanRepository) querySlots(ctx context.Context, query string, args ...any) ([]persistence.WeekPlanSlot, error) {
	rows, err := r.pool.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var slots []persistence.WeekPlanSlot
	for rows.Next() {
		var slot persistence.WeekPlanSlot
		if err := rows.Scan(&slot.ID, &slot.WeekPlanID, &slot.Weekday, &slot.Start, &slot.End); err != nil {
			return nil, r.mapper.MapError(err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return slots, nil
}

func scanWeekPlan(row rowScanner) (persistence.WeekPlan, error) {
	var (
		plan                 persistence.WeekPlan
		createdAt, updatedAt string
	)
	if err := row.Scan(&plan.ID, &plan.Name, &plan.Description, &createdAt, &updatedAt); err != nil {
		return persistence.WeekPlan{}, err
	}
	var err error
	if plan.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.WeekPlan{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if plan.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.WeekPlan{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return plan, nil
}
