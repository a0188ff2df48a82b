// Package weekplan models recurring weekly opening plans and projects their
// slots onto concrete calendar weeks.
package weekplan

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"
)

// Day is the length of a weekday used for weekly offsets.
const Day = 24 * time.Hour

// Week is the length of a plan week.
const Week = 7 * Day

// ErrNotFound is returned when a week plan id is unknown.
var ErrNotFound = errors.New("weekplan: not found")

// Weekday indexes the days of a plan week starting at Monday.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
	Saturday
	Sunday
)

var weekdayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// FromTime converts a time.Weekday (Sunday=0) into a plan weekday (Monday=0).
func FromTime(day time.Weekday) Weekday {
	return Weekday((int(day) + 6) % 7)
}

// Valid reports whether the weekday lies within Monday..Sunday.
func (d Weekday) Valid() bool {
	return d >= Monday && d <= Sunday
}

func (d Weekday) String() string {
	if !d.Valid() {
		return fmt.Sprintf("Weekday(%d)", int(d))
	}
	return weekdayNames[d]
}

// Short returns the two letter abbreviation used in textual plans.
func (d Weekday) Short() string {
	if !d.Valid() {
		return "??"
	}
	return weekdayNames[d][:2]
}

// ParseWeekday accepts full English day names or their two or three letter
// prefixes, case-insensitively.
func ParseWeekday(value string) (Weekday, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if len(v) >= 2 {
		for i, name := range weekdayNames {
			lower := strings.ToLower(name)
			if v == lower || (len(v) <= 3 && strings.HasPrefix(lower, v)) {
				return Weekday(i), nil
			}
		}
	}
	return 0, fmt.Errorf("weekplan: unknown weekday %q", value)
}

// Slot is an open interval on one weekday, expressed as offsets from that
// weekday's midnight.
type Slot struct {
	Weekday Weekday
	Start   time.Duration
	End     time.Duration
}

// Validate checks the slot invariants for stored plans.
func (s Slot) Validate() error {
	switch {
	case !s.Weekday.Valid():
		return fmt.Errorf("weekplan: invalid weekday %d", int(s.Weekday))
	case s.Start < 0 || s.End > Day:
		return fmt.Errorf("weekplan: slot %s must lie within one day", s)
	case s.Start >= s.End:
		return fmt.Errorf("weekplan: slot %s must start before it ends", s)
	}
	return nil
}

// WeeklyStart returns the slot start as an offset from the start of the week.
func (s Slot) WeeklyStart() time.Duration {
	return time.Duration(s.Weekday)*Day + s.Start
}

// WeeklyEnd returns the slot end as an offset from the start of the week.
func (s Slot) WeeklyEnd() time.Duration {
	return time.Duration(s.Weekday)*Day + s.End
}

func (s Slot) String() string {
	return fmt.Sprintf("%s %s-%s", s.Weekday.Short(), FormatClock(s.Start), FormatClock(s.End))
}

// Plan is a named collection of slots.
type Plan struct {
	ID          int64
	Name        string
	Description string
	Slots       []Slot
}

// SlotsFor returns the plan's slots on day ordered by start, then end.
func (p Plan) SlotsFor(day Weekday) []Slot {
	return FilterWeekday(p.Slots, day)
}

// FilterWeekday returns the slots on day ordered by start, then end.
func FilterWeekday(slots []Slot, day Weekday) []Slot {
	var out []Slot
	for _, slot := range slots {
		if slot.Weekday == day {
			out = append(out, slot)
		}
	}
	SortSlots(out)
	return out
}

// SortSlots orders slots by weekday, start and end.
func SortSlots(slots []Slot) {
	sort.SliceStable(slots, func(i, j int) bool {
		a, b := slots[i], slots[j]
		if a.Weekday != b.Weekday {
			return a.Weekday < b.Weekday
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.End < b.End
	})
}

// WeekStart returns midnight of the Monday of the week containing date, in
// date's location.
func WeekStart(date time.Time) time.Time {
	y, m, d := date.Date()
	return time.Date(y, m, d-int(FromTime(date.Weekday())), 0, 0, 0, 0, date.Location())
}

// PlaceWeeklyTimeIntoWeek maps an offset from the start of a plan week onto an
// absolute instant of the week starting at weekStart. Offsets may be negative
// or exceed one week; whole days are added on the calendar and the remainder
// as wall-clock time, so slots keep their local times across DST changes.
func PlaceWeeklyTimeIntoWeek(offset time.Duration, weekStart time.Time) time.Time {
	days := offset / Day
	rem := offset % Day
	if rem < 0 {
		days--
		rem += Day
	}
	y, m, d := weekStart.Date()
	return time.Date(y, m, d+int(days), 0, 0, 0, int(rem), weekStart.Location())
}
