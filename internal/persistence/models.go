package persistence

import "time"

// RoomMode values as stored in the rooms table.
const (
	RoomModeFree        = "free"
	RoomModeSlotAligned = "slot_aligned"
)

// Room represents a bookable room.
type Room struct {
	ID              int64
	Name            string
	Seats           int
	Mode            string
	ExtraTimeBefore *int64 // seconds, nil inherits the global default
	ExtraTimeAfter  *int64 // seconds, nil inherits the global default
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// WeekPlan is a named weekly opening plan.
type WeekPlan struct {
	ID          int64
	Name        string
	Description string
	Slots       []WeekPlanSlot
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// WeekPlanSlot is one open interval of a week plan. Start and End are seconds
// after midnight of Weekday (0=Monday).
type WeekPlanSlot struct {
	ID         int64
	WeekPlanID int64
	Weekday    int
	Start      int64
	End        int64
}

// WeekPlanAssignment binds a week plan to a room. Both bounds are inclusive;
// a nil End never expires.
type WeekPlanAssignment struct {
	ID         int64
	WeekPlanID int64
	RoomID     int64
	Start      time.Time
	End        *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// Blocker is a forced-closed interval. A nil RoomID blocks every room.
type Blocker struct {
	ID        int64
	Name      *string
	Start     time.Time
	End       time.Time
	RoomID    *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}
