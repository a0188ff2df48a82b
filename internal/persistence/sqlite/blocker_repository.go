package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/persistence"
)

const blockerColumns = `id, name, start_time, end_time, room_id, created_at, updated_at`

// BlockerRepository implements persistence.BlockerRepository using SQLite.
type BlockerRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
	now    func() time.Time
}

// NewBlockerRepository creates a new SQLite blocker repository.
func NewBlockerRepository(pool *ConnectionPool, now func() time.Time) *BlockerRepository {
	return &BlockerRepository{pool: pool, mapper: NewErrorMapper(), now: now}
}

// CreateBlocker stores a new blocker.
func (r *BlockerRepository) CreateBlocker(ctx context.Context, blocker persistence.Blocker) (persistence.Blocker, error) {
	now := r.now().UTC()
	blocker.CreatedAt = now
	blocker.UpdatedAt = now

	result, err := r.pool.DB().ExecContext(ctx, `
		INSERT INTO blockers (name, start_time, end_time, room_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		nullString(blocker.Name),
		blocker.Start.Unix(),
		blocker.End.Unix(),
		nullInt64(blocker.RoomID),
		formatTimestamp(blocker.CreatedAt),
		formatTimestamp(blocker.UpdatedAt),
	)
	if err != nil {
		return persistence.Blocker{}, r.mapper.MapError(err)
	}
	if blocker.ID, err = result.LastInsertId(); err != nil {
		return persistence.Blocker{}, fmt.Errorf("failed to read blocker id: %w", err)
	}
	return r.GetBlocker(ctx, blocker.ID)
}

// UpdateBlocker overwrites an existing blocker.
func (r *BlockerRepository) UpdateBlocker(ctx context.Context, blocker persistence.Blocker) (persistence.Blocker, error) {
	result, err := r.pool.DB().ExecContext(ctx, `
		UPDATE blockers SET name = ?, start_time = ?, end_time = ?, room_id = ?, updated_at = ?
		WHERE id = ?`,
		nullString(blocker.Name),
		blocker.Start.Unix(),
		blocker.End.Unix(),
		nullInt64(blocker.RoomID),
		formatTimestamp(r.now()),
		blocker.ID,
	)
	if err != nil {
		return persistence.Blocker{}, r.mapper.MapError(err)
	}
	if err := checkAffected(result); err != nil {
		return persistence.Blocker{}, err
	}
	return r.GetBlocker(ctx, blocker.ID)
}

// GetBlocker retrieves a blocker by id.
func (r *BlockerRepository) GetBlocker(ctx context.Context, id int64) (persistence.Blocker, error) {
	row := r.pool.DB().QueryRowContext(ctx, `SELECT `+blockerColumns+` FROM blockers WHERE id = ?`, id)
	blocker, err := scanBlocker(row)
	if err != nil {
		return persistence.Blocker{}, r.mapper.MapError(err)
	}
	return blocker, nil
}

// ListBlockers returns blockers matching filter ordered by start time. A
// room filter also matches global blockers.
func (r *BlockerRepository) ListBlockers(ctx context.Context, filter persistence.BlockerFilter) ([]persistence.Blocker, error) {
	var (
		clauses []string
		args    []any
	)
	if filter.RoomID != nil {
		clauses = append(clauses, "(room_id = ? OR room_id IS NULL)")
		args = append(args, *filter.RoomID)
	}
	if filter.From != nil {
		clauses = append(clauses, "end_time >= ?")
		args = append(args, filter.From.Unix())
	}
	if filter.To != nil {
		clauses = append(clauses, "start_time <= ?")
		args = append(args, filter.To.Unix())
	}
	where := ""
	if len(clauses) > 0 {
		where = "WHERE " + strings.Join(clauses, " AND ")
	}
	return r.query(ctx, where, args...)
}

// DeleteBlocker removes a blocker by id.
func (r *BlockerRepository) DeleteBlocker(ctx context.Context, id int64) error {
	result, err := r.pool.DB().ExecContext(ctx, `DELETE FROM blockers WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return checkAffected(result)
}

// BlockersForRoom returns the room's own and the global blockers that
// overlap [from, to].
func (r *BlockerRepository) BlockersForRoom(ctx context.Context, roomID int64, from, to time.Time) ([]persistence.Blocker, error) {
	return r.query(ctx,
		`WHERE (room_id = ? OR room_id IS NULL) AND end_time >= ? AND start_time <= ?`,
		roomID, from.Unix(), to.Unix())
}

func (r *BlockerRepository) query(ctx context.Context, where string, args ...any) ([]persistence.Blocker, error) {
	rows, err := r.pool.DB().QueryContext(ctx, `SELECT `+blockerColumns+` FROM blockers `+where+` ORDER BY start_time, id`, args...)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var blockers []persistence.Blocker
	for rows.Next() {
		blocker, err := scanBlocker(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		blockers = append(blockers, blocker)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return blockers, nil
}

func scanBlocker(row rowScanner) (persistence.Blocker, error) {
	var (
		b                    persistence.Blocker
		name                 sql.NullString
		start, end           int64
		roomID               sql.NullInt64
		createdAt, updatedAt string
	)
	if err := row.Scan(&b.ID, &name, &start, &end, &roomID, &createdAt, &updatedAt); err != nil {
		return persistence.Blocker{}, err
	}
	if name.Valid {
		b.Name = &name.String
	}
	b.Start = time.Unix(start, 0).UTC()
	b.End = time.Unix(end, 0).UTC()
	b.RoomID = int64Ptr(roomID)

	var err error
	if b.CreatedAt, err = parseTimestamp(createdAt); err != nil {
		return persistence.Blocker{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if b.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Blocker{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return b, nil
}

func nullString(v *string) sql.NullString {
	if v == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *v, Valid: true}
}
