package persistence

import (
	"context"
	"time"
)

// RoomRepository exposes CRUD operations for rooms.
type RoomRepository interface {
	CreateRoom(ctx context.Context, room Room) (Room, error)
	UpdateRoom(ctx context.Context, room Room) (Room, error)
	GetRoom(ctx context.Context, id int64) (Room, error)
	ListRooms(ctx context.Context) ([]Room, error)
	DeleteRoom(ctx context.Context, id int64) error
}

// WeekPlanRepository stores week plans together with their slots.
type WeekPlanRepository interface {
	CreateWeekPlan(ctx context.Context, plan WeekPlan) (WeekPlan, error)
	UpdateWeekPlan(ctx context.Context, plan WeekPlan) (WeekPlan, error)
	GetWeekPlan(ctx context.Context, id int64) (WeekPlan, error)
	ListWeekPlans(ctx context.Context) ([]WeekPlan, error)
	DeleteWeekPlan(ctx context.Context, id int64) error
	// ListSlots returns the slots of a plan on one weekday ordered by start.
	// Unknown plans yield ErrNotFound.
	ListSlots(ctx context.Context, weekPlanID int64, weekday int) ([]WeekPlanSlot, error)
}

// AssignmentFilter narrows assignment listings.
type AssignmentFilter struct {
	RoomID     *int64
	WeekPlanID *int64
}

// AssignmentRepository stores week plan assignments. Create and Update reject
// windows that overlap another assignment of the same room with ErrConflict;
// the check and the write happen in one transaction.
type AssignmentRepository interface {
	CreateAssignment(ctx context.Context, assignment WeekPlanAssignment) (WeekPlanAssignment, error)
	UpdateAssignment(ctx context.Context, assignment WeekPlanAssignment) (WeekPlanAssignment, error)
	GetAssignment(ctx context.Context, id int64) (WeekPlanAssignment, error)
	ListAssignments(ctx context.Context, filter AssignmentFilter) ([]WeekPlanAssignment, error)
	DeleteAssignment(ctx context.Context, id int64) error
	// AssignmentsAt returns every assignment of the room whose window
	// contains at.
	AssignmentsAt(ctx context.Context, roomID int64, at time.Time) ([]WeekPlanAssignment, error)
}

// BlockerFilter narrows blocker listings. A nil bound is open.
type BlockerFilter struct {
	RoomID *int64
	From   *time.Time
	To     *time.Time
}

// BlockerRepository stores blockers.
type BlockerRepository interface {
	CreateBlocker(ctx context.Context, blocker Blocker) (Blocker, error)
	UpdateBlocker(ctx context.Context, blocker Blocker) (Blocker, error)
	GetBlocker(ctx context.Context, id int64) (Blocker, error)
	ListBlockers(ctx context.Context, filter BlockerFilter) ([]Blocker, error)
	DeleteBlocker(ctx context.Context, id int64) error
	// BlockersForRoom returns room specific and global blockers that overlap
	// [from, to]: (room_id = room OR room_id IS NULL) AND end >= from AND start <= to.
	BlockersForRoom(ctx context.Context, roomID int64, from, to time.Time) ([]Blocker, error)
}
