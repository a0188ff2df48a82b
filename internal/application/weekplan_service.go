package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/melanietreitinger/mod-bookit-sub001/internal/weekplan"
)

// WeekPlanService manages week plans and their slots.
type WeekPlanService struct {
	plans  WeekPlanRepository
	logger *slog.Logger
}

// NewWeekPlanService constructs a week plan service.
func NewWeekPlanService(plans WeekPlanRepository, logger *slog.Logger) *WeekPlanService {
	return &WeekPlanService{plans: plans, logger: defaultLogger(logger)}
}

func (s *WeekPlanService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "WeekPlanService", operation, attrs...)
}

// CreateWeekPlan validates and stores a new plan.
func (s *WeekPlanService) CreateWeekPlan(ctx context.Context, input WeekPlanInput) (plan WeekPlan, err error) {
	if s == nil || s.plans == nil {
		return WeekPlan{}, fmt.Errorf("week plan repository not configured")
	}

	logger := s.loggerWith(ctx, "CreateWeekPlan", "name", input.Name)
	defer func() {
		logOutcome(ctx, logger, err, "week plan created", "week_plan_id", plan.ID, "slot_count", len(plan.Slots))
	}()

	plan, err = buildWeekPlan(input)
	if err != nil {
		return WeekPlan{}, err
	}
	plan, err = s.plans.CreateWeekPlan(ctx, plan)
	if err != nil {
		return WeekPlan{}, mapRepoError(err, "slots")
	}
	return plan, nil
}

// UpdateWeekPlan replaces name, description and all slots of a plan.
func (s *WeekPlanService) UpdateWeekPlan(ctx context.Context, id int64, input WeekPlanInput) (plan WeekPlan, err error) {
	if s == nil || s.plans == nil {
		return WeekPlan{}, fmt.Errorf("week plan repository not configured")
	}

	logger := s.loggerWith(ctx, "UpdateWeekPlan", "week_plan_id", id)
	defer func() { logOutcome(ctx, logger, err, "week plan updated", "slot_count", len(plan.Slots)) }()

	if _, err = s.plans.GetWeekPlan(ctx, id); err != nil {
		return WeekPlan{}, mapRepoError(err, "")
	}
	plan, err = buildWeekPlan(input)
	if err != nil {
		return WeekPlan{}, err
	}
	plan.ID = id
	plan, err = s.plans.UpdateWeekPlan(ctx, plan)
	if err != nil {
		return WeekPlan{}, mapRepoError(err, "slots")
	}
	return plan, nil
}

// GetWeekPlan returns a plan with its slots.
func (s *WeekPlanService) GetWeekPlan(ctx context.Context, id int64) (WeekPlan, error) {
	if s == nil || s.plans == nil {
		return WeekPlan{}, fmt.Errorf("week plan repository not configured")
	}
	plan, err := s.plans.GetWeekPlan(ctx, id)
	if err != nil {
		return WeekPlan{}, mapRepoError(err, "")
	}
	return plan, nil
}

// ListWeekPlans returns all plans ordered by name.
func (s *WeekPlanService) ListWeekPlans(ctx context.Context) (plans []WeekPlan, err error) {
	if s == nil || s.plans == nil {
		return nil, fmt.Errorf("week plan repository not configured")
	}

	logger := s.loggerWith(ctx, "ListWeekPlans")
	defer func() { logOutcome(ctx, logger, err, "week plans listed", "result_count", len(plans)) }()

	plans, err = s.plans.ListWeekPlans(ctx)
	return plans, mapRepoError(err, "")
}

// DeleteWeekPlan removes a plan and every assignment that uses it.
func (s *WeekPlanService) DeleteWeekPlan(ctx context.Context, id int64) (err error) {
	if s == nil || s.plans == nil {
		return fmt.Errorf("week plan repository not configured")
	}

	logger := s.loggerWith(ctx, "DeleteWeekPlan", "week_plan_id", id)
	defer func() { logOutcome(ctx, logger, err, "week plan deleted") }()

	return mapRepoError(s.plans.DeleteWeekPlan(ctx, id), "")
}

// buildWeekPlan validates input and converts its slots, either from the list
// or from the textual form.
func buildWeekPlan(input WeekPlanInput) (WeekPlan, error) {
	vErr := validateStruct(input)
	if strings.TrimSpace(input.Name) == "" {
		vErr.add("name", "name is required")
	}
	hasText := strings.TrimSpace(input.Text) != ""
	if hasText && len(input.Slots) > 0 {
		vErr.add("text", "text and slots are mutually exclusive")
	}
	if vErr.HasErrors() {
		return WeekPlan{}, vErr
	}

	plan := WeekPlan{
		Name:        strings.TrimSpace(input.Name),
		Description: strings.TrimSpace(input.Description),
	}

	if hasText {
		slots, err := weekplan.Parse(input.Text)
		if err != nil {
			var pErr *weekplan.ParseError
			if errors.As(err, &pErr) {
				return WeekPlan{}, fieldError("text", pErr.Error())
			}
			return WeekPlan{}, err
		}
		plan.Slots = slots
		return plan, nil
	}

	for i, in := range input.Slots {
		slot, err := slotFromInput(in)
		if err != nil {
			return WeekPlan{}, fieldError(fmt.Sprintf("slots[%d]", i), err.Error())
		}
		plan.Slots = append(plan.Slots, slot)
	}
	weekplan.SortSlots(plan.Slots)
	return plan, nil
}

func slotFromInput(in SlotInput) (weekplan.Slot, error) {
	day, err := weekplan.ParseWeekday(in.Weekday)
	if err != nil {
		return weekplan.Slot{}, err
	}
	start, err := weekplan.ParseClock(in.Start)
	if err != nil {
		return weekplan.Slot{}, err
	}
	end, err := weekplan.ParseClock(in.End)
	if err != nil {
		return weekplan.Slot{}, err
	}
	slot := weekplan.Slot{Weekday: day, Start: start, End: end}
	return slot, slot.Validate()
}
