package testfixtures

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/persistence"
)

var (
	roomCounter     uint64
	weekPlanCounter uint64
	blockerCounter  uint64
)

// referenceTime is a Monday so week based fixtures line up with it.
var referenceTime = time.Date(2024, time.January, 8, 0, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ClockSeconds returns the wall-clock offset hh:mm as seconds after midnight, the
// unit week plan slots are stored in.
func ClockSeconds(hour, minute int) int64 {
	return int64(hour*3600 + minute*60)
}

// ----------------------------- Room fixtures -----------------------------

// RoomOption configures the generated room record.
type RoomOption func(*persistence.Room)

// NewRoom returns a deterministic, active FREE mode room with a unique name.
func NewRoom(opts ...RoomOption) persistence.Room {
	idx := atomic.AddUint64(&roomCounter, 1)
	room := persistence.Room{
		Name:   fmt.Sprintf("Room %03d", idx),
		Seats:  int(4 + idx%4),
		Mode:   persistence.RoomModeFree,
		Active: true,
	}
	for _, opt := range opts {
		opt(&room)
	}
	return room
}

// WithRoomName overrides the generated room name.
func WithRoomName(name string) RoomOption {
	return func(r *persistence.Room) {
		r.Name = name
	}
}

// WithRoomMode sets the booking mode.
func WithRoomMode(mode string) RoomOption {
	return func(r *persistence.Room) {
		r.Mode = mode
	}
}

// WithRoomExtraTime sets both per-room padding values in seconds.
func WithRoomExtraTime(before, after int64) RoomOption {
	return func(r *persistence.Room) {
		r.ExtraTimeBefore = &before
		r.ExtraTimeAfter = &after
	}
}

// Inactive marks the room as not bookable.
func Inactive() RoomOption {
	return func(r *persistence.Room) {
		r.Active = false
	}
}

// --------------------------- Week plan fixtures ---------------------------

// WeekPlanOption configures the generated week plan.
type WeekPlanOption func(*persistence.WeekPlan)

// NewWeekPlan returns a plan with a unique name and no slots.
func NewWeekPlan(opts ...WeekPlanOption) persistence.WeekPlan {
	idx := atomic.AddUint64(&weekPlanCounter, 1)
	plan := persistence.WeekPlan{
		Name:        fmt.Sprintf("Plan %03d", idx),
		Description: "fixture plan",
	}
	for _, opt := range opts {
		opt(&plan)
	}
	return plan
}

// WithSlot appends a slot given as weekday (0=Monday) and hh:mm bounds.
func WithSlot(weekday, startHour, startMinute, endHour, endMinute int) WeekPlanOption {
	return func(p *persistence.WeekPlan) {
		p.Slots = append(p.Slots, persistence.WeekPlanSlot{
			Weekday: weekday,
			Start:   ClockSeconds(startHour, startMinute),
			End:     ClockSeconds(endHour, endMinute),
		})
	}
}

// WithWorkWeek adds 08:00-18:00 slots from Monday to Friday.
func WithWorkWeek() WeekPlanOption {
	return func(p *persistence.WeekPlan) {
		for day := 0; day < 5; day++ {
			WithSlot(day, 8, 0, 18, 0)(p)
		}
	}
}

// -------------------------- Assignment fixtures ---------------------------

// NewAssignment binds plan to room from start on, without an end.
func NewAssignment(roomID, weekPlanID int64, start time.Time) persistence.WeekPlanAssignment {
	return persistence.WeekPlanAssignment{
		RoomID:     roomID,
		WeekPlanID: weekPlanID,
		Start:      start.UTC().Truncate(time.Second),
	}
}

// Until returns a copy of the assignment ending at end (inclusive).
func Until(a persistence.WeekPlanAssignment, end time.Time) persistence.WeekPlanAssignment {
	e := end.UTC().Truncate(time.Second)
	a.End = &e
	return a
}

// ---------------------------- Blocker fixtures ----------------------------

// BlockerOption configures the generated blocker.
type BlockerOption func(*persistence.Blocker)

// NewBlocker returns a global blocker covering [start, end).
func NewBlocker(start, end time.Time, opts ...BlockerOption) persistence.Blocker {
	idx := atomic.AddUint64(&blockerCounter, 1)
	name := fmt.Sprintf("Blocker %03d", idx)
	blocker := persistence.Blocker{
		Name:  &name,
		Start: start.UTC().Truncate(time.Second),
		End:   end.UTC().Truncate(time.Second),
	}
	for _, opt := range opts {
		opt(&blocker)
	}
	return blocker
}

// ForRoom restricts the blocker to one room.
func ForRoom(roomID int64) BlockerOption {
	return func(b *persistence.Blocker) {
		b.RoomID = &roomID
	}
}

// Unnamed clears the blocker's name.
func Unnamed() BlockerOption {
	return func(b *persistence.Blocker) {
		b.Name = nil
	}
}
