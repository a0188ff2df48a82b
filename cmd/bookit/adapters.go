package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/application"
	"github.com/melanietreitinger/mod-bookit-sub001/internal/availability"
	"github.com/melanietreitinger/mod-bookit-sub001/internal/persistence"
	"github.com/melanietreitinger/mod-bookit-sub001/internal/persistence/sqlite"
	"github.com/melanietreitinger/mod-bookit-sub001/internal/scheduler"
	"github.com/melanietreitinger/mod-bookit-sub001/internal/weekplan"
)

type roomRepositoryAdapter struct {
	repo persistence.RoomRepository
}

func newRoomRepositoryAdapter(repo persistence.RoomRepository) *roomRepositoryAdapter {
	return &roomRepositoryAdapter{repo: repo}
}

func (a *roomRepositoryAdapter) CreateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	stored, err := a.repo.CreateRoom(ctx, toPersistenceRoom(room))
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRepositoryAdapter) GetRoom(ctx context.Context, id int64) (application.Room, error) {
	stored, err := a.repo.GetRoom(ctx, id)
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRepositoryAdapter) UpdateRoom(ctx context.Context, room application.Room) (application.Room, error) {
	stored, err := a.repo.UpdateRoom(ctx, toPersistenceRoom(room))
	if err != nil {
		return application.Room{}, err
	}
	return toApplicationRoom(stored), nil
}

func (a *roomRepositoryAdapter) DeleteRoom(ctx context.Context, id int64) error {
	return a.repo.DeleteRoom(ctx, id)
}

func (a *roomRepositoryAdapter) ListRooms(ctx context.Context) ([]application.Room, error) {
	models, err := a.repo.ListRooms(ctx)
	if err != nil {
		return nil, err
	}
	rooms := make([]application.Room, 0, len(models))
	for _, model := range models {
		rooms = append(rooms, toApplicationRoom(model))
	}
	return rooms, nil
}

type weekPlanRepositoryAdapter struct {
	repo persistence.WeekPlanRepository
}

func newWeekPlanRepositoryAdapter(repo persistence.WeekPlanRepository) *weekPlanRepositoryAdapter {
	return &weekPlanRepositoryAdapter{repo: repo}
}

func (a *weekPlanRepositoryAdapter) CreateWeekPlan(ctx context.Context, plan application.WeekPlan) (application.WeekPlan, error) {
	stored, err := a.repo.CreateWeekPlan(ctx, toPersistenceWeekPlan(plan))
	if err != nil {
		return application.WeekPlan{}, err
	}
	return toApplicationWeekPlan(stored), nil
}

func (a *weekPlanRepositoryAdapter) GetWeekPlan(ctx context.Context, id int64) (application.WeekPlan, error) {
	stored, err := a.repo.GetWeekPlan(ctx, id)
	if err != nil {
		return application.WeekPlan{}, err
	}
	return toApplicationWeekPlan(stored), nil
}

func (a *weekPlanRepositoryAdapter) UpdateWeekPlan(ctx context.Context, plan application.WeekPlan) (application.WeekPlan, error) {
	stored, err := a.repo.UpdateWeekPlan(ctx, toPersistenceWeekPlan(plan))
	if err != nil {
		return application.WeekPlan{}, err
	}
	return toApplicationWeekPlan(stored), nil
}

func (a *weekPlanRepositoryAdapter) DeleteWeekPlan(ctx context.Context, id int64) error {
	return a.repo.DeleteWeekPlan(ctx, id)
}

func (a *weekPlanRepositoryAdapter) ListWeekPlans(ctx context.Context) ([]application.WeekPlan, error) {
	models, err := a.repo.ListWeekPlans(ctx)
	if err != nil {
		return nil, err
	}
	plans := make([]application.WeekPlan, 0, len(models))
	for _, model := range models {
		plans = append(plans, toApplicationWeekPlan(model))
	}
	return plans, nil
}

type assignmentRepositoryAdapter struct {
	repo persistence.AssignmentRepository
}

func newAssignmentRepositoryAdapter(repo persistence.AssignmentRepository) *assignmentRepositoryAdapter {
	return &assignmentRepositoryAdapter{repo: repo}
}

func (a *assignmentRepositoryAdapter) CreateAssignment(ctx context.Context, assignment application.Assignment) (application.Assignment, error) {
	stored, err := a.repo.CreateAssignment(ctx, toPersistenceAssignment(assignment))
	if err != nil {
		return application.Assignment{}, err
	}
	return toApplicationAssignment(stored), nil
}

func (a *assignmentRepositoryAdapter) GetAssignment(ctx context.Context, id int64) (application.Assignment, error) {
	stored, err := a.repo.GetAssignment(ctx, id)
	if err != nil {
		return application.Assignment{}, err
	}
	return toApplicationAssignment(stored), nil
}

func (a *assignmentRepositoryAdapter) UpdateAssignment(ctx context.Context, assignment application.Assignment) (application.Assignment, error) {
	stored, err := a.repo.UpdateAssignment(ctx, toPersistenceAssignment(assignment))
	if err != nil {
		return application.Assignment{}, err
	}
	return toApplicationAssignment(stored), nil
}

func (a *assignmentRepositoryAdapter) DeleteAssignment(ctx context.Context, id int64) error {
	return a.repo.DeleteAssignment(ctx, id)
}

func (a *assignmentRepositoryAdapter) ListAssignments(ctx context.Context, filter application.AssignmentFilter) ([]application.Assignment, error) {
	models, err := a.repo.ListAssignments(ctx, persistence.AssignmentFilter{
		RoomID:     filter.RoomID,
		WeekPlanID: filter.WeekPlanID,
	})
	if err != nil {
		return nil, err
	}
	assignments := make([]application.Assignment, 0, len(models))
	for _, model := range models {
		assignments = append(assignments, toApplicationAssignment(model))
	}
	return assignments, nil
}

type blockerRepositoryAdapter struct {
	repo persistence.BlockerRepository
}

func newBlockerRepositoryAdapter(repo persistence.BlockerRepository) *blockerRepositoryAdapter {
	return &blockerRepositoryAdapter{repo: repo}
}

func (a *blockerRepositoryAdapter) CreateBlocker(ctx context.Context, blocker application.Blocker) (application.Blocker, error) {
	stored, err := a.repo.CreateBlocker(ctx, toPersistenceBlocker(blocker))
	if err != nil {
		return application.Blocker{}, err
	}
	return toApplicationBlocker(stored), nil
}

func (a *blockerRepositoryAdapter) GetBlocker(ctx context.Context, id int64) (application.Blocker, error) {
	stored, err := a.repo.GetBlocker(ctx, id)
	if err != nil {
		return application.Blocker{}, err
	}
	return toApplicationBlocker(stored), nil
}

func (a *blockerRepositoryAdapter) UpdateBlocker(ctx context.Context, blocker application.Blocker) (application.Blocker, error) {
	stored, err := a.repo.UpdateBlocker(ctx, toPersistenceBlocker(blocker))
	if err != nil {
		return application.Blocker{}, err
	}
	return toApplicationBlocker(stored), nil
}

func (a *blockerRepositoryAdapter) DeleteBlocker(ctx context.Context, id int64) error {
	return a.repo.DeleteBlocker(ctx, id)
}

func (a *blockerRepositoryAdapter) ListBlockers(ctx context.Context, filter application.BlockerFilter) ([]application.Blocker, error) {
	models, err := a.repo.ListBlockers(ctx, persistence.BlockerFilter{
		RoomID: filter.RoomID,
		From:   filter.From,
		To:     filter.To,
	})
	if err != nil {
		return nil, err
	}
	blockers := make([]application.Blocker, 0, len(models))
	for _, model := range models {
		blockers = append(blockers, toApplicationBlocker(model))
	}
	return blockers, nil
}

// availabilitySources feeds the availability engine from storage.
type availabilitySources struct {
	rooms       persistence.RoomRepository
	weekPlans   persistence.WeekPlanRepository
	assignments persistence.AssignmentRepository
	blockers    persistence.BlockerRepository
}

func newAvailabilitySources(rooms persistence.RoomRepository, weekPlans persistence.WeekPlanRepository, assignments persistence.AssignmentRepository, blockers persistence.BlockerRepository) availability.Sources {
	src := &availabilitySources{rooms: rooms, weekPlans: weekPlans, assignments: assignments, blockers: blockers}
	return availability.Sources{Rooms: src, Assignments: src, WeekPlans: src, Blockers: src}
}

func (s *availabilitySources) AvailabilityRoom(ctx context.Context, id int64) (availability.Room, error) {
	room, err := s.rooms.GetRoom(ctx, id)
	if err != nil {
		return availability.Room{}, err
	}
	return availability.Room{
		ID:              room.ID,
		Active:          room.Active,
		Mode:            availability.Mode(room.Mode),
		ExtraTimeBefore: secondsToDuration(room.ExtraTimeBefore),
		ExtraTimeAfter:  secondsToDuration(room.ExtraTimeAfter),
	}, nil
}

func (s *availabilitySources) AssignmentsAt(ctx context.Context, roomID int64, at time.Time) ([]scheduler.Assignment, error) {
	models, err := s.assignments.AssignmentsAt(ctx, roomID, at)
	if err != nil {
		return nil, err
	}
	assignments := make([]scheduler.Assignment, 0, len(models))
	for _, model := range models {
		assignments = append(assignments, sqlite.ToSchedulerAssignment(model))
	}
	return assignments, nil
}

// WeekPlanSlots reports a plan that vanished between resolution and lookup
// as weekplan.ErrNotFound.
func (s *availabilitySources) WeekPlanSlots(ctx context.Context, weekPlanID int64, day weekplan.Weekday) ([]weekplan.Slot, error) {
	models, err := s.weekPlans.ListSlots(ctx, weekPlanID, int(day))
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			return nil, fmt.Errorf("%w: week plan %d", weekplan.ErrNotFound, weekPlanID)
		}
		return nil, err
	}
	slots := make([]weekplan.Slot, 0, len(models))
	for _, model := range models {
		slots = append(slots, toWeekPlanSlot(model))
	}
	return slots, nil
}

func (s *availabilitySources) BlockersBetween(ctx context.Context, roomID int64, from, to time.Time) ([]availability.Blocker, error) {
	models, err := s.blockers.BlockersForRoom(ctx, roomID, from, to)
	if err != nil {
		return nil, err
	}
	blockers := make([]availability.Blocker, 0, len(models))
	for _, model := range models {
		blockers = append(blockers, availability.Blocker{
			ID:     model.ID,
			Start:  model.Start,
			End:    model.End,
			RoomID: cloneInt64(model.RoomID),
		})
	}
	return blockers, nil
}

func toApplicationRoom(model persistence.Room) application.Room {
	return application.Room{
		ID:              model.ID,
		Name:            model.Name,
		Seats:           model.Seats,
		Mode:            model.Mode,
		ExtraTimeBefore: secondsToDuration(model.ExtraTimeBefore),
		ExtraTimeAfter:  secondsToDuration(model.ExtraTimeAfter),
		Active:          model.Active,
		CreatedAt:       model.CreatedAt,
		UpdatedAt:       model.UpdatedAt,
	}
}

func toPersistenceRoom(room application.Room) persistence.Room {
	return persistence.Room{
		ID:              room.ID,
		Name:            room.Name,
		Seats:           room.Seats,
		Mode:            room.Mode,
		ExtraTimeBefore: durationToSeconds(room.ExtraTimeBefore),
		ExtraTimeAfter:  durationToSeconds(room.ExtraTimeAfter),
		Active:          room.Active,
		CreatedAt:       room.CreatedAt,
		UpdatedAt:       room.UpdatedAt,
	}
}

func toApplicationWeekPlan(model persistence.WeekPlan) application.WeekPlan {
	slots := make([]weekplan.Slot, 0, len(model.Slots))
	for _, s := range model.Slots {
		slots = append(slots, toWeekPlanSlot(s))
	}
	return application.WeekPlan{
		ID:          model.ID,
		Name:        model.Name,
		Description: model.Description,
		Slots:       slots,
		CreatedAt:   model.CreatedAt,
		UpdatedAt:   model.UpdatedAt,
	}
}

func toPersistenceWeekPlan(plan application.WeekPlan) persistence.WeekPlan {
	slots := make([]persistence.WeekPlanSlot, 0, len(plan.Slots))
	for _, s := range plan.Slots {
		slots = append(slots, persistence.WeekPlanSlot{
			WeekPlanID: plan.ID,
			Weekday:    int(s.Weekday),
			Start:      int64(s.Start / time.Second),
			End:        int64(s.End / time.Second),
		})
	}
	return persistence.WeekPlan{
		ID:          plan.ID,
		Name:        plan.Name,
		Description: plan.Description,
		Slots:       slots,
		CreatedAt:   plan.CreatedAt,
		UpdatedAt:   plan.UpdatedAt,
	}
}

func toWeekPlanSlot(model persistence.WeekPlanSlot) weekplan.Slot {
	return weekplan.Slot{
		Weekday: weekplan.Weekday(model.Weekday),
		Start:   time.Duration(model.Start) * time.Second,
		End:     time.Duration(model.End) * time.Second,
	}
}

func toApplicationAssignment(model persistence.WeekPlanAssignment) application.Assignment {
	return application.Assignment{
		ID:         model.ID,
		RoomID:     model.RoomID,
		WeekPlanID: model.WeekPlanID,
		Start:      model.Start,
		End:        cloneTime(model.End),
		CreatedAt:  model.CreatedAt,
		UpdatedAt:  model.UpdatedAt,
	}
}

func toPersistenceAssignment(assignment application.Assignment) persistence.WeekPlanAssignment {
	return persistence.WeekPlanAssignment{
		ID:         assignment.ID,
		WeekPlanID: assignment.WeekPlanID,
		RoomID:     assignment.RoomID,
		Start:      assignment.Start,
		End:        cloneTime(assignment.End),
		CreatedAt:  assignment.CreatedAt,
		UpdatedAt:  assignment.UpdatedAt,
	}
}

func toApplicationBlocker(model persistence.Blocker) application.Blocker {
	return application.Blocker{
		ID:        model.ID,
		Name:      cloneString(model.Name),
		Start:     model.Start,
		End:       model.End,
		RoomID:    cloneInt64(model.RoomID),
		CreatedAt: model.CreatedAt,
		UpdatedAt: model.UpdatedAt,
	}
}

func toPersistenceBlocker(blocker application.Blocker) persistence.Blocker {
	return persistence.Blocker{
		ID:        blocker.ID,
		Name:      cloneString(blocker.Name),
		Start:     blocker.Start,
		End:       blocker.End,
		RoomID:    cloneInt64(blocker.RoomID),
		CreatedAt: blocker.CreatedAt,
		UpdatedAt: blocker.UpdatedAt,
	}
}

func secondsToDuration(seconds *int64) *time.Duration {
	if seconds == nil {
		return nil
	}
	d := time.Duration(*seconds) * time.Second
	return &d
}

func durationToSeconds(d *time.Duration) *int64 {
	if d == nil {
		return nil
	}
	s := int64(*d / time.Second)
	return &s
}

func cloneString(value *string) *string {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}

func cloneInt64(value *int64) *int64 {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}

func cloneTime(value *time.Time) *time.Time {
	if value == nil {
		return nil
	}
	clone := *value
	return &clone
}
