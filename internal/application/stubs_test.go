package application

import (
	"context"
	"io"
	"log/slog"
	"sort"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/availability"
	"github.com/melanietreitinger/mod-bookit-sub001/internal/persistence"
)

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type roomRepoStub struct {
	rooms  map[int64]Room
	nextID int64
	err    error
}

func newRoomRepoStub() *roomRepoStub {
	return &roomRepoStub{rooms: make(map[int64]Room)}
}

func (r *roomRepoStub) CreateRoom(ctx context.Context, room Room) (Room, error) {
	if r.err != nil {
		return Room{}, r.err
	}
	for _, existing := range r.rooms {
		if existing.Name == room.Name {
			return Room{}, persistence.ErrDuplicate
		}
	}
	r.nextID++
	room.ID = r.nextID
	r.rooms[room.ID] = room
	return room, nil
}

func (r *roomRepoStub) GetRoom(ctx context.Context, id int64) (Room, error) {
	room, ok := r.rooms[id]
	if !ok {
		return Room{}, persistence.ErrNotFound
	}
	return room, nil
}

func (r *roomRepoStub) UpdateRoom(ctx context.Context, room Room) (Room, error) {
	if r.err != nil {
		return Room{}, r.err
	}
	if _, ok := r.rooms[room.ID]; !ok {
		return Room{}, persistence.ErrNotFound
	}
	r.rooms[room.ID] = room
	return room, nil
}

func (r *roomRepoStub) DeleteRoom(ctx context.Context, id int64) error {
	if _, ok := r.rooms[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.rooms, id)
	return nil
}

func (r *roomRepoStub) ListRooms(ctx context.Context) ([]Room, error) {
	out := make([]Room, 0, len(r.rooms))
	for _, room := range r.rooms {
		out = append(out, room)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

type weekPlanRepoStub struct {
	plans   map[int64]WeekPlan
	nextID  int64
	updated WeekPlan
}

func newWeekPlanRepoStub() *weekPlanRepoStub {
	return &weekPlanRepoStub{plans: make(map[int64]WeekPlan)}
}

func (r *weekPlanRepoStub) CreateWeekPlan(ctx context.Context, plan WeekPlan) (WeekPlan, error) {
	r.nextID++
	plan.ID = r.nextID
	r.plans[plan.ID] = plan
	return plan, nil
}

func (r *weekPlanRepoStub) GetWeekPlan(ctx context.Context, id int64) (WeekPlan, error) {
	plan, ok := r.plans[id]
	if !ok {
		return WeekPlan{}, persistence.ErrNotFound
	}
	return plan, nil
}

func (r *weekPlanRepoStub) UpdateWeekPlan(ctx context.Context, plan WeekPlan) (WeekPlan, error) {
	r.updated = plan
	r.plans[plan.ID] = plan
	return plan, nil
}

func (r *weekPlanRepoStub) DeleteWeekPlan(ctx context.Context, id int64) error {
	if _, ok := r.plans[id]; !ok {
		return persistence.ErrNotFound
	}
	delete(r.plans, id)
	return nil
}

func (r *weekPlanRepoStub) ListWeekPlans(ctx context.Context) ([]WeekPlan, error) {
	var out []WeekPlan
	for _, plan := range r.plans {
		out = append(out, plan)
	}
	return out, nil
}

type assignmentRepoStub struct {
	created Assignment
	updated Assignment
	err     error
}

func (r *assignmentRepoStub) CreateAssignment(ctx context.Context, a Assignment) (Assignment, error) {
	if r.err != nil {
		return Assignment{}, r.err
	}
	a.ID = 1
	r.created = a
	return a, nil
}

func (r *assignmentRepoStub) GetAssignment(ctx context.Context, id int64) (Assignment, error) {
	if r.created.ID != id {
		return Assignment{}, persistence.ErrNotFound
	}
	return r.created, nil
}

func (r *assignmentRepoStub) UpdateAssignment(ctx context.Context, a Assignment) (Assignment, error) {
	if r.err != nil {
		return Assignment{}, r.err
	}
	r.updated = a
	return a, nil
}

func (r *assignmentRepoStub) DeleteAssignment(ctx context.Context, id int64) error {
	return r.err
}

func (r *assignmentRepoStub) ListAssignments(ctx context.Context, filter AssignmentFilter) ([]Assignment, error) {
	if r.created.ID == 0 {
		return nil, nil
	}
	return []Assignment{r.created}, nil
}

type blockerRepoStub struct {
	created Blocker
	filter  BlockerFilter
	err     error
}

func (r *blockerRepoStub) CreateBlocker(ctx context.Context, b Blocker) (Blocker, error) {
	if r.err != nil {
		return Blocker{}, r.err
	}
	b.ID = 1
	r.created = b
	return b, nil
}

func (r *blockerRepoStub) GetBlocker(ctx context.Context, id int64) (Blocker, error) {
	if r.created.ID != id {
		return Blocker{}, persistence.ErrNotFound
	}
	return r.created, nil
}

func (r *blockerRepoStub) UpdateBlocker(ctx context.Context, b Blocker) (Blocker, error) {
	if r.created.ID != b.ID {
		return Blocker{}, persistence.ErrNotFound
	}
	r.created = b
	return b, nil
}

func (r *blockerRepoStub) DeleteBlocker(ctx context.Context, id int64) error {
	return r.err
}

func (r *blockerRepoStub) ListBlockers(ctx context.Context, filter BlockerFilter) ([]Blocker, error) {
	r.filter = filter
	if r.created.ID == 0 {
		return nil, nil
	}
	return []Blocker{r.created}, nil
}

type engineStub struct {
	request    availability.Request
	candidates []availability.Candidate
	windows    []availability.Window
	err        error
}

func (e *engineStub) PossibleStartTimes(ctx context.Context, req availability.Request) ([]availability.Candidate, error) {
	e.request = req
	return e.candidates, e.err
}

func (e *engineStub) OpenWindows(ctx context.Context, req availability.Request) ([]availability.Window, error) {
	e.request = req
	return e.windows, e.err
}
