package http

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/application"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type roomServiceStub struct {
	createFn func(context.Context, application.RoomInput) (application.Room, error)
	updateFn func(context.Context, int64, application.RoomInput) (application.Room, error)
	getFn    func(context.Context, int64) (application.Room, error)
	listFn   func(context.Context) ([]application.Room, error)
	deleteFn func(context.Context, int64) error
}

func (s *roomServiceStub) CreateRoom(ctx context.Context, input application.RoomInput) (application.Room, error) {
	return s.createFn(ctx, input)
}

func (s *roomServiceStub) UpdateRoom(ctx context.Context, id int64, input application.RoomInput) (application.Room, error) {
	return s.updateFn(ctx, id, input)
}

func (s *roomServiceStub) GetRoom(ctx context.Context, id int64) (application.Room, error) {
	return s.getFn(ctx, id)
}

func (s *roomServiceStub) ListRooms(ctx context.Context) ([]application.Room, error) {
	return s.listFn(ctx)
}

func (s *roomServiceStub) DeleteRoom(ctx context.Context, id int64) error {
	return s.deleteFn(ctx, id)
}

type weekPlanServiceStub struct {
	createFn func(context.Context, application.WeekPlanInput) (application.WeekPlan, error)
	getFn    func(context.Context, int64) (application.WeekPlan, error)
}

func (s *weekPlanServiceStub) CreateWeekPlan(ctx context.Context, input application.WeekPlanInput) (application.WeekPlan, error) {
	return s.createFn(ctx, input)
}

func (s *weekPlanServiceStub) UpdateWeekPlan(context.Context, int64, application.WeekPlanInput) (application.WeekPlan, error) {
	return application.WeekPlan{}, application.ErrNotFound
}

func (s *weekPlanServiceStub) GetWeekPlan(ctx context.Context, id int64) (application.WeekPlan, error) {
	return s.getFn(ctx, id)
}

func (s *weekPlanServiceStub) ListWeekPlans(context.Context) ([]application.WeekPlan, error) {
	return nil, nil
}

func (s *weekPlanServiceStub) DeleteWeekPlan(context.Context, int64) error {
	return nil
}

type assignmentServiceStub struct {
	createFn func(context.Context, application.AssignmentInput) (application.Assignment, error)
	listFn   func(context.Context, application.AssignmentFilter) ([]application.Assignment, error)
}

func (s *assignmentServiceStub) CreateAssignment(ctx context.Context, input application.AssignmentInput) (application.Assignment, error) {
	return s.createFn(ctx, input)
}

func (s *assignmentServiceStub) UpdateAssignment(context.Context, int64, application.AssignmentInput) (application.Assignment, error) {
	return application.Assignment{}, application.ErrNotFound
}

func (s *assignmentServiceStub) GetAssignment(context.Context, int64) (application.Assignment, error) {
	return application.Assignment{}, application.ErrNotFound
}

func (s *assignmentServiceStub) ListAssignments(ctx context.Context, filter application.AssignmentFilter) ([]application.Assignment, error) {
	return s.listFn(ctx, filter)
}

func (s *assignmentServiceStub) DeleteAssignment(context.Context, int64) error {
	return nil
}

type blockerServiceStub struct {
	listFn func(context.Context, application.BlockerFilter) ([]application.Blocker, error)
}

func (s *blockerServiceStub) CreateBlocker(_ context.Context, input application.BlockerInput) (application.Blocker, error) {
	return application.Blocker{ID: 1, Name: input.Name, Start: input.Start, End: input.End, RoomID: input.RoomID}, nil
}

func (s *blockerServiceStub) UpdateBlocker(context.Context, int64, application.BlockerInput) (application.Blocker, error) {
	return application.Blocker{}, application.ErrNotFound
}

func (s *blockerServiceStub) GetBlocker(context.Context, int64) (application.Blocker, error) {
	return application.Blocker{}, application.ErrNotFound
}

func (s *blockerServiceStub) ListBlockers(ctx context.Context, filter application.BlockerFilter) ([]application.Blocker, error) {
	return s.listFn(ctx, filter)
}

func (s *blockerServiceStub) DeleteBlocker(context.Context, int64) error {
	return nil
}

type availabilityServiceStub struct {
	startsFn  func(context.Context, application.AvailabilityQuery) ([]application.StartTime, error)
	windowsFn func(context.Context, application.WindowQuery) ([]application.Window, error)
}

func (s *availabilityServiceStub) PossibleStartTimes(ctx context.Context, q application.AvailabilityQuery) ([]application.StartTime, error) {
	return s.startsFn(ctx, q)
}

func (s *availabilityServiceStub) OpenWindows(ctx context.Context, q application.WindowQuery) ([]application.Window, error) {
	return s.windowsFn(ctx, q)
}

type pingerStub struct {
	err error
}

func (p pingerStub) Ping(context.Context) error { return p.err }

var fixedTime = time.Date(2024, time.January, 8, 9, 0, 0, 0, time.UTC)
