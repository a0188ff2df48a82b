package application

import (
	"time"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/weekplan"
)

// Room booking modes.
const (
	RoomModeFree        = "free"
	RoomModeSlotAligned = "slot_aligned"
)

// RoomInput captures caller provided room fields. Extra times are seconds;
// nil inherits the service wide default.
type RoomInput struct {
	Name            string `json:"name" validate:"required,max=120"`
	Seats           int    `json:"seats" validate:"gt=0"`
	Mode            string `json:"mode" validate:"required,room_mode"`
	ExtraTimeBefore *int64 `json:"extra_time_before" validate:"omitempty,gte=0,lte=86400"`
	ExtraTimeAfter  *int64 `json:"extra_time_after" validate:"omitempty,gte=0,lte=86400"`
	Active          *bool  `json:"active"`
}

// Room represents a bookable room.
type Room struct {
	ID              int64
	Name            string
	Seats           int
	Mode            string
	ExtraTimeBefore *time.Duration
	ExtraTimeAfter  *time.Duration
	Active          bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SlotInput is one opening interval given as weekday and HH:MM bounds.
type SlotInput struct {
	Weekday string `json:"weekday" validate:"required,weekday"`
	Start   string `json:"start" validate:"required,clock"`
	End     string `json:"end" validate:"required,clock"`
}

// WeekPlanInput captures a week plan. Slots may be given either as a list or
// in the textual form understood by weekplan.Parse, not both.
type WeekPlanInput struct {
	Name        string      `json:"name" validate:"required,max=120"`
	Description string      `json:"description" validate:"max=2000"`
	Slots       []SlotInput `json:"slots" validate:"omitempty,dive"`
	Text        string      `json:"text"`
}

// WeekPlan is a named weekly opening plan.
type WeekPlan struct {
	ID          int64
	Name        string
	Description string
	Slots       []weekplan.Slot
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AssignmentInput binds a week plan to a room. Both bounds are inclusive and
// a nil End never expires.
type AssignmentInput struct {
	RoomID     int64      `json:"room_id" validate:"gt=0"`
	WeekPlanID int64      `json:"week_plan_id" validate:"gt=0"`
	Start      time.Time  `json:"start" validate:"required"`
	End        *time.Time `json:"end" validate:"omitempty,gtefield=Start"`
}

// Assignment is a stored week plan assignment.
type Assignment struct {
	ID         int64
	RoomID     int64
	WeekPlanID int64
	Start      time.Time
	End        *time.Time
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// AssignmentFilter narrows assignment listings.
type AssignmentFilter struct {
	RoomID     *int64
	WeekPlanID *int64
}

// BlockerInput captures a forced-closed interval. A nil RoomID blocks every
// room.
type BlockerInput struct {
	Name   *string   `json:"name" validate:"omitempty,max=120"`
	Start  time.Time `json:"start" validate:"required"`
	End    time.Time `json:"end" validate:"required,gtfield=Start"`
	RoomID *int64    `json:"room_id" validate:"omitempty,gt=0"`
}

// Blocker is a stored forced-closed interval.
type Blocker struct {
	ID        int64
	Name      *string
	Start     time.Time
	End       time.Time
	RoomID    *int64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// BlockerFilter narrows blocker listings. A room filter includes global
// blockers.
type BlockerFilter struct {
	RoomID *int64
	From   *time.Time
	To     *time.Time
}

// WindowQuery asks for the open windows of a room on one calendar day.
type WindowQuery struct {
	RoomID int64 `json:"room_id" validate:"gt=0"`
	Year   int   `json:"year" validate:"gte=1970,lte=9999"`
	Month  int   `json:"month" validate:"gte=1,lte=12"`
	Day    int   `json:"day" validate:"gte=1,lte=31"`
}

// AvailabilityQuery asks for the start times of a booking of the given
// duration in a room on one calendar day.
type AvailabilityQuery struct {
	RoomID          int64 `json:"room_id" validate:"gt=0"`
	Year            int   `json:"year" validate:"gte=1970,lte=9999"`
	Month           int   `json:"month" validate:"gte=1,lte=12"`
	Day             int   `json:"day" validate:"gte=1,lte=31"`
	DurationMinutes int   `json:"duration" validate:"gt=0,lte=10080"`
}

func (q AvailabilityQuery) window() WindowQuery {
	return WindowQuery{RoomID: q.RoomID, Year: q.Year, Month: q.Month, Day: q.Day}
}

// StartTime is a possible booking start.
type StartTime struct {
	Start   time.Time
	Display string
}

// Window is an open interval of a room on the queried day.
type Window struct {
	Start time.Time
	End   time.Time
}
