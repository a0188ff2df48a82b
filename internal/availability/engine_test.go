package availability

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/scheduler"
	"github.com/melanietreitinger/mod-bookit-sub001/internal/weekplan"
)

var errStubNotFound = errors.New("stub: not found")

type stubSources struct {
	rooms       map[int64]Room
	assignments []scheduler.Assignment
	slots       map[int64][]weekplan.Slot
	blockers    []Blocker

	blockerFrom, blockerTo time.Time
}

func (s *stubSources) AvailabilityRoom(ctx context.Context, id int64) (Room, error) {
	room, ok := s.rooms[id]
	if !ok {
		return Room{}, errStubNotFound
	}
	return room, nil
}

func (s *stubSources) AssignmentsAt(ctx context.Context, roomID int64, at time.Time) ([]scheduler.Assignment, error) {
	var out []scheduler.Assignment
	for _, a := range s.assignments {
		if a.RoomID == roomID && a.Contains(at) {
			out = append(out, a)
		}
	}
	return out, nil
}

func (s *stubSources) WeekPlanSlots(ctx context.Context, id int64, day weekplan.Weekday) ([]weekplan.Slot, error) {
	slots, ok := s.slots[id]
	if !ok {
		return nil, weekplan.ErrNotFound
	}
	return weekplan.FilterWeekday(slots, day), nil
}

func (s *stubSources) BlockersBetween(ctx context.Context, roomID int64, from, to time.Time) ([]Blocker, error) {
	s.blockerFrom, s.blockerTo = from, to
	var out []Blocker
	for _, b := range s.blockers {
		if b.RoomID != nil && *b.RoomID != roomID {
			continue
		}
		if b.End.Before(from) || b.Start.After(to) {
			continue
		}
		out = append(out, b)
	}
	return out, nil
}

func (s *stubSources) sources() Sources {
	return Sources{Rooms: s, Assignments: s, WeekPlans: s, Blockers: s}
}

// 2024-01-10 is a Wednesday.
var testDay = time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)

func newStub(mode Mode, slots ...weekplan.Slot) *stubSources {
	return &stubSources{
		rooms: map[int64]Room{
			1: {ID: 1, Active: true, Mode: mode},
			2: {ID: 2, Active: true, Mode: mode},
		},
		assignments: []scheduler.Assignment{
			{ID: 100, RoomID: 1, WeekPlanID: 7, Start: testDay.AddDate(0, -1, 0)},
			{ID: 101, RoomID: 2, WeekPlanID: 7, Start: testDay.AddDate(0, -1, 0)},
		},
		slots: map[int64][]weekplan.Slot{7: slots},
	}
}

func wednesday(start, end string) weekplan.Slot {
	s, err := weekplan.ParseClock(start)
	if err != nil {
		panic(err)
	}
	e, err := weekplan.ParseClock(end)
	if err != nil {
		panic(err)
	}
	return weekplan.Slot{Weekday: weekplan.Wednesday, Start: s, End: e}
}

func at(clock string) time.Time {
	offset, err := weekplan.ParseClock(clock)
	if err != nil {
		panic(err)
	}
	return testDay.Add(offset)
}

func request(roomID int64, duration time.Duration) Request {
	return Request{Year: 2024, Month: time.January, Day: 10, Duration: duration, RoomID: roomID}
}

func displays(candidates []Candidate) []string {
	out := make([]string, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, c.Display)
	}
	return out
}

func clockRange(from, to string, step time.Duration) []string {
	var out []string
	for t := at(from); !t.After(at(to)); t = t.Add(step) {
		out = append(out, t.Format("15:04"))
	}
	return out
}

func TestEngine_SlotAlignedOnlySlotStart(t *testing.T) {
	stub := newStub(ModeSlotAligned, wednesday("09:00", "10:00"))
	engine := NewEngine(stub.sources(), Config{StartStepWidth: 15 * time.Minute})

	got, err := engine.PossibleStartTimes(context.Background(), request(1, time.Hour))
	if err != nil {
		t.Fatalf("PossibleStartTimes failed: %v", err)
	}
	if !reflect.DeepEqual(displays(got), []string{"09:00"}) {
		t.Fatalf("expected only 09:00, got %v", displays(got))
	}
	if got[0].Start.Unix() != at("09:00").Unix() {
		t.Fatalf("unexpected timestamp %v", got[0].Start)
	}
}

func TestEngine_SlotAlignedTooLongBooking(t *testing.T) {
	stub := newStub(ModeSlotAligned, wednesday("09:00", "10:00"))
	engine := NewEngine(stub.sources(), Config{})

	got, err := engine.PossibleStartTimes(context.Background(), request(1, 90*time.Minute))
	if err != nil {
		t.Fatalf("PossibleStartTimes failed: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no candidates for a booking longer than the slot, got %v", displays(got))
	}
}

func TestEngine_FreeGridCandidates(t *testing.T) {
	stub := newStub(ModeFree, wednesday("09:00", "12:00"))
	engine := NewEngine(stub.sources(), Config{StartStepWidth: 15 * time.Minute})

	got, err := engine.PossibleStartTimes(context.Background(), request(1, 30*time.Minute))
	if err != nil {
		t.Fatalf("PossibleStartTimes failed: %v", err)
	}
	want := clockRange("09:00", "11:30", 15*time.Minute)
	if !reflect.DeepEqual(displays(got), want) {
		t.Fatalf("got %v, want %v", displays(got), want)
	}
	for i := 1; i < len(got); i++ {
		if !got[i].Start.After(got[i-1].Start) {
			t.Fatalf("candidates not ordered: %v", displays(got))
		}
	}
}

func TestEngine_FreeSnapsToGrid(t *testing.T) {
	stub := newStub(ModeFree, wednesday("09:10", "10:30"))
	engine := NewEngine(stub.sources(), Config{StartStepWidth: 15 * time.Minute})

	got, err := engine.PossibleStartTimes(context.Background(), request(1, 30*time.Minute))
	if err != nil {
		t.Fatalf("PossibleStartTimes failed: %v", err)
	}
	want := []string{"09:15", "09:30", "09:45", "10:00"}
	if !reflect.DeepEqual(displays(got), want) {
		t.Fatalf("got %v, want %v", displays(got), want)
	}
}

func TestEngine_InactiveRoomIsEmpty(t *testing.T) {
	stub := newStub(ModeFree, wednesday("09:00", "12:00"))
	room := stub.rooms[1]
	room.Active = false
	stub.rooms[1] = room
	engine := NewEngine(stub.sources(), Config{})

	got, err := engine.PossibleStartTimes(context.Background(), request(1, 30*time.Minute))
	if err != nil {
		t.Fatalf("inactive room must not error, got %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no candidates for inactive room, got %v", displays(got))
	}
}

func TestEngine_GlobalBlockerAffectsEveryRoom(t *testing.T) {
	stub := newStub(ModeFree, wednesday("09:00", "12:00"))
	stub.blockers = []Blocker{{ID: 1, Start: at("09:00"), End: at("10:00")}}
	engine := NewEngine(stub.sources(), Config{StartStepWidth: 15 * time.Minute})

	want := clockRange("10:00", "11:30", 15*time.Minute)
	for _, roomID := range []int64{1, 2} {
		got, err := engine.PossibleStartTimes(context.Background(), request(roomID, 30*time.Minute))
		if err != nil {
			t.Fatalf("room %d: %v", roomID, err)
		}
		if !reflect.DeepEqual(displays(got), want) {
			t.Fatalf("room %d: got %v, want %v", roomID, displays(got), want)
		}
	}
}

func TestEngine_RoomBlockerOnlyAffectsItsRoom(t *testing.T) {
	stub := newStub(ModeSlotAligned, wednesday("09:00", "10:00"))
	roomID := int64(1)
	stub.blockers = []Blocker{{ID: 1, Start: at("09:30"), End: at("09:45"), RoomID: &roomID}}
	engine := NewEngine(stub.sources(), Config{})

	blocked, err := engine.PossibleStartTimes(context.Background(), request(1, time.Hour))
	if err != nil || len(blocked) != 0 {
		t.Fatalf("expected room 1 to be blocked, got %v, %v", displays(blocked), err)
	}
	free, err := engine.PossibleStartTimes(context.Background(), request(2, time.Hour))
	if err != nil || len(free) != 1 {
		t.Fatalf("expected room 2 to stay free, got %v, %v", displays(free), err)
	}
}

func TestEngine_BlockersOverrideOverlappingSlots(t *testing.T) {
	// The second slot reopens the blocked range if blockers were not applied last.
	stub := newStub(ModeFree, wednesday("09:00", "11:00"), wednesday("09:30", "10:30"))
	stub.blockers = []Blocker{{ID: 1, Start: at("09:45"), End: at("10:15")}}
	engine := NewEngine(stub.sources(), Config{StartStepWidth: 15 * time.Minute})

	got, err := engine.PossibleStartTimes(context.Background(), request(1, 15*time.Minute))
	if err != nil {
		t.Fatalf("PossibleStartTimes failed: %v", err)
	}
	want := []string{"09:00", "09:15", "09:30", "10:15", "10:30", "10:45"}
	if !reflect.DeepEqual(displays(got), want) {
		t.Fatalf("got %v, want %v", displays(got), want)
	}
}

func TestEngine_PaddingWidensSlots(t *testing.T) {
	stub := newStub(ModeFree, wednesday("09:00", "10:00"))
	before := 30 * time.Minute
	room := stub.rooms[1]
	room.ExtraTimeBefore = &before
	stub.rooms[1] = room
	engine := NewEngine(stub.sources(), Config{StartStepWidth: 15 * time.Minute, ExtraTimeAfter: 15 * time.Minute})

	got, err := engine.PossibleStartTimes(context.Background(), request(1, time.Hour))
	if err != nil {
		t.Fatalf("PossibleStartTimes failed: %v", err)
	}
	want := []string{"08:30", "08:45", "09:00", "09:15"}
	if !reflect.DeepEqual(displays(got), want) {
		t.Fatalf("got %v, want %v", displays(got), want)
	}
	if !stub.blockerFrom.Equal(at("08:30")) || !stub.blockerTo.Equal(at("10:15")) {
		t.Fatalf("blockers queried for [%v, %v]", stub.blockerFrom, stub.blockerTo)
	}
}

func TestEngine_ZeroRoomPaddingOverridesDefaults(t *testing.T) {
	stub := newStub(ModeFree, wednesday("09:00", "10:00"))
	zero := time.Duration(0)
	room := stub.rooms[1]
	room.ExtraTimeBefore, room.ExtraTimeAfter = &zero, &zero
	stub.rooms[1] = room
	engine := NewEngine(stub.sources(), Config{StartStepWidth: 30 * time.Minute, ExtraTimeBefore: time.Hour, ExtraTimeAfter: time.Hour})

	got, err := engine.PossibleStartTimes(context.Background(), request(1, 30*time.Minute))
	if err != nil {
		t.Fatalf("PossibleStartTimes failed: %v", err)
	}
	if want := []string{"09:00", "09:30"}; !reflect.DeepEqual(displays(got), want) {
		t.Fatalf("got %v, want %v", displays(got), want)
	}
}

func TestEngine_NoAssignmentIsEmpty(t *testing.T) {
	stub := newStub(ModeFree, wednesday("09:00", "12:00"))
	stub.assignments = nil
	engine := NewEngine(stub.sources(), Config{})

	got, err := engine.PossibleStartTimes(context.Background(), request(1, 30*time.Minute))
	if err != nil || len(got) != 0 {
		t.Fatalf("expected empty result without assignment, got %v, %v", displays(got), err)
	}
}

func TestEngine_Errors(t *testing.T) {
	t.Run("unknown room", func(t *testing.T) {
		stub := newStub(ModeFree, wednesday("09:00", "12:00"))
		engine := NewEngine(stub.sources(), Config{})
		_, err := engine.PossibleStartTimes(context.Background(), request(99, 30*time.Minute))
		if !errors.Is(err, errStubNotFound) {
			t.Fatalf("expected not-found error, got %v", err)
		}
	})

	t.Run("unknown week plan", func(t *testing.T) {
		stub := newStub(ModeFree, wednesday("09:00", "12:00"))
		stub.assignments[0].WeekPlanID = 8
		engine := NewEngine(stub.sources(), Config{})
		_, err := engine.PossibleStartTimes(context.Background(), request(1, 30*time.Minute))
		if !errors.Is(err, weekplan.ErrNotFound) {
			t.Fatalf("expected weekplan.ErrNotFound, got %v", err)
		}
	})

	t.Run("overlapping assignments", func(t *testing.T) {
		stub := newStub(ModeFree, wednesday("09:00", "12:00"))
		stub.assignments = append(stub.assignments, scheduler.Assignment{ID: 102, RoomID: 1, WeekPlanID: 7, Start: testDay.AddDate(0, 0, -1)})
		engine := NewEngine(stub.sources(), Config{})
		_, err := engine.PossibleStartTimes(context.Background(), request(1, 30*time.Minute))
		if !errors.Is(err, ErrDataIntegrity) {
			t.Fatalf("expected ErrDataIntegrity, got %v", err)
		}
	})

	t.Run("invalid requests", func(t *testing.T) {
		stub := newStub(ModeFree, wednesday("09:00", "12:00"))
		engine := NewEngine(stub.sources(), Config{})
		bad := []Request{
			request(1, 0),
			{Year: 2024, Month: time.February, Day: 30, Duration: time.Hour, RoomID: 1},
		}
		for _, req := range bad {
			if _, err := engine.PossibleStartTimes(context.Background(), req); !errors.Is(err, ErrInvalidRequest) {
				t.Fatalf("request %+v: expected ErrInvalidRequest, got %v", req, err)
			}
		}
	})
}

func TestEngine_DeduplicatesOverlappingSlots(t *testing.T) {
	stub := newStub(ModeSlotAligned, wednesday("09:00", "10:00"), wednesday("09:00", "11:00"))
	engine := NewEngine(stub.sources(), Config{})

	got, err := engine.PossibleStartTimes(context.Background(), request(1, time.Hour))
	if err != nil {
		t.Fatalf("PossibleStartTimes failed: %v", err)
	}
	if !reflect.DeepEqual(displays(got), []string{"09:00"}) {
		t.Fatalf("expected a single 09:00 candidate, got %v", displays(got))
	}
}

func TestEngine_UsesConfiguredLocation(t *testing.T) {
	zone := time.FixedZone("UTC+2", 2*60*60)
	stub := newStub(ModeSlotAligned, wednesday("09:00", "10:00"))
	engine := NewEngine(stub.sources(), Config{Location: zone})

	got, err := engine.PossibleStartTimes(context.Background(), request(1, time.Hour))
	if err != nil || len(got) != 1 {
		t.Fatalf("expected one candidate, got %v, %v", displays(got), err)
	}
	want := time.Date(2024, time.January, 10, 9, 0, 0, 0, zone)
	if got[0].Display != "09:00" || got[0].Start.Unix() != want.Unix() {
		t.Fatalf("expected local 09:00 (%d), got %s (%d)", want.Unix(), got[0].Display, got[0].Start.Unix())
	}
}

func TestEngine_OpenWindows(t *testing.T) {
	stub := newStub(ModeFree, wednesday("09:00", "12:00"), wednesday("14:00", "16:00"))
	stub.blockers = []Blocker{{ID: 1, Start: at("10:00"), End: at("10:30")}}
	engine := NewEngine(stub.sources(), Config{})

	windows, err := engine.OpenWindows(context.Background(), request(1, 0))
	if err != nil {
		t.Fatalf("OpenWindows failed: %v", err)
	}
	var got []string
	for _, w := range windows {
		got = append(got, fmt.Sprintf("%s-%s", w.Start.Format("15:04"), w.End.Format("15:04")))
	}
	want := []string{"09:00-10:00", "10:30-12:00", "14:00-16:00"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestResolver(t *testing.T) {
	end := testDay.AddDate(0, 0, -1)
	stub := &stubSources{assignments: []scheduler.Assignment{
		{ID: 1, RoomID: 1, WeekPlanID: 3, Start: testDay.AddDate(0, -2, 0), End: &end},
		{ID: 2, RoomID: 1, WeekPlanID: 4, Start: testDay},
	}}
	resolver := NewResolver(stub)

	got, err := resolver.Resolve(context.Background(), 1, testDay.Add(time.Hour))
	if err != nil || got == nil || got.ID != 2 {
		t.Fatalf("expected assignment 2, got %+v, %v", got, err)
	}
	got, err = resolver.Resolve(context.Background(), 1, end)
	if err != nil || got == nil || got.ID != 1 {
		t.Fatalf("expected assignment 1 on its inclusive end, got %+v, %v", got, err)
	}
	got, err = resolver.Resolve(context.Background(), 1, testDay.AddDate(-1, 0, 0))
	if err != nil || got != nil {
		t.Fatalf("expected no assignment before any window, got %+v, %v", got, err)
	}
}
