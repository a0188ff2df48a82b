// Package availability computes when a room can be booked. It composes a
// room's weekly opening slots and its blockers into a timeline and walks that
// timeline to find valid booking start times.
package availability

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/timeline"
	"github.com/melanietreitinger/mod-bookit-sub001/internal/weekplan"
)

// DefaultStartStepWidth is used when Config.StartStepWidth is not positive.
const DefaultStartStepWidth = 15 * time.Minute

// ErrInvalidRequest is returned for malformed availability requests.
var ErrInvalidRequest = errors.New("availability: invalid request")

// Mode controls where bookings may start inside an open slot.
type Mode string

const (
	// ModeFree allows any grid aligned start inside an open slot.
	ModeFree Mode = "free"
	// ModeSlotAligned only allows starting exactly at a slot's start.
	ModeSlotAligned Mode = "slot_aligned"
)

// Valid reports whether m is a known mode.
func (m Mode) Valid() bool {
	return m == ModeFree || m == ModeSlotAligned
}

// Room carries the room attributes the engine needs. Nil extra times inherit
// the configured defaults.
type Room struct {
	ID              int64
	Active          bool
	Mode            Mode
	ExtraTimeBefore *time.Duration
	ExtraTimeAfter  *time.Duration
}

// Blocker is a forced-closed interval. A nil RoomID applies to every room.
type Blocker struct {
	ID     int64
	Start  time.Time
	End    time.Time
	RoomID *int64
}

// RoomSource loads rooms by id and reports unknown ids with a not-found error.
type RoomSource interface {
	AvailabilityRoom(ctx context.Context, id int64) (Room, error)
}

// WeekPlanSource returns the slots of a week plan on one weekday.
type WeekPlanSource interface {
	WeekPlanSlots(ctx context.Context, weekPlanID int64, day weekplan.Weekday) ([]weekplan.Slot, error)
}

// BlockerSource returns the blockers of a room, including global ones, that
// overlap [from, to].
type BlockerSource interface {
	BlockersBetween(ctx context.Context, roomID int64, from, to time.Time) ([]Blocker, error)
}

// Sources groups the read-only collaborators of the engine.
type Sources struct {
	Rooms       RoomSource
	Assignments AssignmentSource
	WeekPlans   WeekPlanSource
	Blockers    BlockerSource
}

// Config holds the global defaults used by the engine.
type Config struct {
	ExtraTimeBefore time.Duration
	ExtraTimeAfter  time.Duration
	StartStepWidth  time.Duration
	Location        *time.Location
}

// Request asks for the start times of a booking on one calendar day.
type Request struct {
	Year     int
	Month    time.Month
	Day      int
	Duration time.Duration
	RoomID   int64
}

// Candidate is a possible booking start.
type Candidate struct {
	Start   time.Time
	Display string
}

// Window is an open interval of the composed timeline.
type Window struct {
	Start time.Time
	End   time.Time
}

// Engine computes availability. It holds no per-request state and may be
// shared between goroutines.
type Engine struct {
	sources  Sources
	resolver *Resolver
	config   Config
}

// NewEngine constructs an engine. A nil location means UTC.
func NewEngine(sources Sources, cfg Config) *Engine {
	if cfg.Location == nil {
		cfg.Location = time.UTC
	}
	if cfg.StartStepWidth <= 0 {
		cfg.StartStepWidth = DefaultStartStepWidth
	}
	return &Engine{sources: sources, resolver: NewResolver(sources.Assignments), config: cfg}
}

// Config returns the effective engine configuration.
func (e *Engine) Config() Config {
	return e.config
}

// openSlot is a plan slot projected onto the requested week.
type openSlot struct {
	nominalStart int64
	openStart    int64
	openEnd      int64
}

type composition struct {
	room  Room
	slots []openSlot
	tl    *timeline.Timeline
}

// PossibleStartTimes lists the valid start times, ordered by time, for a
// booking of req.Duration on the requested day. Inactive rooms, days without
// a week plan and fully blocked days yield an empty result.
func (e *Engine) PossibleStartTimes(ctx context.Context, req Request) ([]Candidate, error) {
	if req.Duration <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive", ErrInvalidRequest)
	}
	comp, err := e.compose(ctx, req)
	if err != nil || comp == nil {
		return nil, err
	}

	duration := int64(req.Duration / time.Second)
	seen := make(map[int64]struct{})
	var starts []int64
	record := func(start int64) {
		if _, ok := seen[start]; ok {
			return
		}
		if comp.tl.DoesCompleteRangeEqual(start, start+duration, true) {
			seen[start] = struct{}{}
			starts = append(starts, start)
		}
	}

	switch comp.room.Mode {
	case ModeSlotAligned:
		for _, slot := range comp.slots {
			record(slot.nominalStart)
		}
	default:
		grid := int64(e.config.StartStepWidth / time.Second)
		if grid <= 0 {
			grid = 1
		}
		for _, slot := range comp.slots {
			for start := snapUp(slot.openStart, grid); start <= slot.openEnd; start += grid {
				record(start)
			}
		}
	}

	sort.Slice(starts, func(i, j int) bool { return starts[i] < starts[j] })
	candidates := make([]Candidate, 0, len(starts))
	for _, start := range starts {
		at := time.Unix(start, 0).In(e.config.Location)
		candidates = append(candidates, Candidate{Start: at, Display: at.Format("15:04")})
	}
	return candidates, nil
}

// OpenWindows returns the open intervals of the composed timeline for the
// requested day, including padding and with blockers removed.
func (e *Engine) OpenWindows(ctx context.Context, req Request) ([]Window, error) {
	comp, err := e.compose(ctx, req)
	if err != nil || comp == nil {
		return nil, err
	}

	from, to := comp.bounds()
	var windows []Window
	for _, run := range comp.tl.Runs(from, to, true) {
		windows = append(windows, Window{
			Start: time.Unix(run.Start, 0).In(e.config.Location),
			End:   time.Unix(run.End, 0).In(e.config.Location),
		})
	}
	return windows, nil
}

// compose builds the day's timeline. A nil composition without error means
// the room has nothing to offer on that day.
func (e *Engine) compose(ctx context.Context, req Request) (*composition, error) {
	date, err := e.validate(req)
	if err != nil {
		return nil, err
	}

	room, err := e.sources.Rooms.AvailabilityRoom(ctx, req.RoomID)
	if err != nil {
		return nil, fmt.Errorf("availability: load room %d: %w", req.RoomID, err)
	}
	if !room.Active {
		return nil, nil
	}

	assignment, err := e.resolver.Resolve(ctx, room.ID, date)
	if err != nil {
		return nil, err
	}
	if assignment == nil {
		return nil, nil
	}

	day := weekplan.FromTime(date.Weekday())
	slots, err := e.sources.WeekPlans.WeekPlanSlots(ctx, assignment.WeekPlanID, day)
	if err != nil {
		return nil, fmt.Errorf("availability: load week plan %d: %w", assignment.WeekPlanID, err)
	}
	if len(slots) == 0 {
		return nil, nil
	}

	before, after := e.config.ExtraTimeBefore, e.config.ExtraTimeAfter
	if room.ExtraTimeBefore != nil {
		before = *room.ExtraTimeBefore
	}
	if room.ExtraTimeAfter != nil {
		after = *room.ExtraTimeAfter
	}

	weekStart := weekplan.WeekStart(date)
	comp := &composition{room: room, tl: timeline.New(false)}
	for _, slot := range slots {
		open := openSlot{
			nominalStart: weekplan.PlaceWeeklyTimeIntoWeek(slot.WeeklyStart(), weekStart).Unix(),
			openStart:    weekplan.PlaceWeeklyTimeIntoWeek(slot.WeeklyStart()-before, weekStart).Unix(),
			openEnd:      weekplan.PlaceWeeklyTimeIntoWeek(slot.WeeklyEnd()+after, weekStart).Unix(),
		}
		if err := comp.tl.SetRange(open.openStart, open.openEnd, true); err != nil {
			return nil, fmt.Errorf("%w: slot %s of week plan %d: %v", ErrDataIntegrity, slot, assignment.WeekPlanID, err)
		}
		comp.slots = append(comp.slots, open)
	}

	// Blockers override slots, so they are applied only after every slot.
	from, to := comp.bounds()
	blockers, err := e.sources.Blockers.BlockersBetween(ctx, room.ID, time.Unix(from, 0), time.Unix(to, 0))
	if err != nil {
		return nil, fmt.Errorf("availability: load blockers for room %d: %w", room.ID, err)
	}
	for _, b := range blockers {
		if err := comp.tl.SetRange(b.Start.Unix(), b.End.Unix(), false); err != nil {
			return nil, fmt.Errorf("%w: blocker %d: %v", ErrDataIntegrity, b.ID, err)
		}
	}

	return comp, nil
}

func (e *Engine) validate(req Request) (time.Time, error) {
	date := time.Date(req.Year, req.Month, req.Day, 0, 0, 0, 0, e.config.Location)
	if date.Year() != req.Year || date.Month() != req.Month || date.Day() != req.Day {
		return time.Time{}, fmt.Errorf("%w: %04d-%02d-%02d is not a calendar date", ErrInvalidRequest, req.Year, int(req.Month), req.Day)
	}
	return date, nil
}

// bounds returns the smallest interval covering every padded slot.
func (c *composition) bounds() (int64, int64) {
	from, to := c.slots[0].openStart, c.slots[0].openEnd
	for _, s := range c.slots[1:] {
		if s.openStart < from {
			from = s.openStart
		}
		if s.openEnd > to {
			to = s.openEnd
		}
	}
	return from, to
}

// snapUp rounds value up to the next multiple of grid.
func snapUp(value, grid int64) int64 {
	offset := value % grid
	if offset < 0 {
		offset += grid
	}
	if offset != 0 {
		value += grid - offset
	}
	return value
}
