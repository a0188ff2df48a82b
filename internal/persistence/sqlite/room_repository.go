package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/persistence"
)

const roomColumns = `id, name, seats, mode, extra_time_before, extra_time_after, active, created_at, updated_at`

// RoomRepository implements persistence.RoomRepository using SQLite.
type RoomRepository struct {
	pool   *ConnectionPool
	mapper *ErrorMapper
	now    func() time.Time
}

// NewRoomRepository creates a new SQLite room repository.
func NewRoomRepository(pool *ConnectionPool, now func() time.Time) *RoomRepository {
	return &RoomRepository{pool: pool, mapper: NewErrorMapper(), now: now}
}

// CreateRoom inserts a new room and returns it with its generated id.
func (r *RoomRepository) CreateRoom(ctx context.Context, room persistence.Room) (persistence.Room, error) {
	now := r.now().UTC()
	room.CreatedAt = now
	room.UpdatedAt = now

	result, err := r.pool.DB().ExecContext(ctx, `
		INSERT INTO rooms (name, seats, mode, extra_time_before, extra_time_after, active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		room.Name,
		room.Seats,
		room.Mode,
		nullInt64(room.ExtraTimeBefore),
		nullInt64(room.ExtraTimeAfter),
		room.Active,
		formatTimestamp(room.CreatedAt),
		formatTimestamp(room.UpdatedAt),
	)
	if err != nil {
		return persistence.Room{}, r.mapper.MapError(err)
	}

	room.ID, err = result.LastInsertId()
	if err != nil {
		return persistence.Room{}, fmt.Errorf("failed to read room id: %w", err)
	}
	return room, nil
}

// UpdateRoom overwrites the mutable fields of an existing room.
func (r *RoomRepository) UpdateRoom(ctx context.Context, room persistence.Room) (persistence.Room, error) {
	room.UpdatedAt = r.now().UTC()

	result, err := r.pool.DB().ExecContext(ctx, `
		UPDATE rooms
		SET name = ?, seats = ?, mode = ?, extra_time_before = ?, extra_time_after = ?, active = ?, updated_at = ?
		WHERE id = ?`,
		room.Name,
		room.Seats,
		room.Mode,
		nullInt64(room.ExtraTimeBefore),
		nullInt64(room.ExtraTimeAfter),
		room.Active,
		formatTimestamp(room.UpdatedAt),
		room.ID,
	)
	if err != nil {
		return persistence.Room{}, r.mapper.MapError(err)
	}
	if err := checkAffected(result); err != nil {
		return persistence.Room{}, err
	}

	return r.GetRoom(ctx, room.ID)
}

// GetRoom retrieves a room by id.
func (r *RoomRepository) GetRoom(ctx context.Context, id int64) (persistence.Room, error) {
	row := r.pool.DB().QueryRowContext(ctx, `SELECT `+roomColumns+` FROM rooms WHERE id = ?`, id)
	room, err := scanRoom(row)
	if err != nil {
		return persistence.Room{}, r.mapper.MapError(err)
	}
	return room, nil
}

// ListRooms returns all rooms ordered by name then id.
func (r *RoomRepository) ListRooms(ctx context.Context) ([]persistence.Room, error) {
	rows, err := r.pool.DB().QueryContext(ctx, `SELECT `+roomColumns+` FROM rooms ORDER BY name ASC, id ASC`)
	if err != nil {
		return nil, r.mapper.MapError(err)
	}
	defer rows.Close()

	var rooms []persistence.Room
	for rows.Next() {
		room, err := scanRoom(rows)
		if err != nil {
			return nil, r.mapper.MapError(err)
		}
		rooms = append(rooms, room)
	}
	if err := rows.Err(); err != nil {
		return nil, r.mapper.MapError(err)
	}
	return rooms, nil
}

// DeleteRoom removes a room. Its assignments and room specific blockers are
// removed by the foreign key cascade.
func (r *RoomRepository) DeleteRoom(ctx context.Context, id int64) error {
	result, err := r.pool.DB().ExecContext(ctx, `DELETE FROM rooms WHERE id = ?`, id)
	if err != nil {
		return r.mapper.MapError(err)
	}
	return checkAffected(result)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRoom(row rowScanner) (persistence.Room, error) {
	var (
		room                    persistence.Room
		before, after           sql.NullInt64
		createdAtStr, updatedAt string
	)
	err := row.Scan(
		&room.ID,
		&room.Name,
		&room.Seats,
		&room.Mode,
		&before,
		&after,
		&room.Active,
		&createdAtStr,
		&updatedAt,
	)
	if err != nil {
		return persistence.Room{}, err
	}

	room.ExtraTimeBefore = int64Ptr(before)
	room.ExtraTimeAfter = int64Ptr(after)
	if room.CreatedAt, err = parseTimestamp(createdAtStr); err != nil {
		return persistence.Room{}, fmt.Errorf("failed to parse created_at: %w", err)
	}
	if room.UpdatedAt, err = parseTimestamp(updatedAt); err != nil {
		return persistence.Room{}, fmt.Errorf("failed to parse updated_at: %w", err)
	}
	return room, nil
}
