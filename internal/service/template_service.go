package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"taskplanner/internal/model"
	"taskplanner/internal/recurrence"
	"taskplanner/internal/repository"
)

// TemplateInput carries the fields for a new task template.
type TemplateInput struct {
	Title       string
	Description string
	Priority    int
	Type        string
}

// PlanInput describes the recurrence attached to a template. A NONE type
// means the template repeats never and no plan row is created.
type PlanInput struct {
	RecurrenceType string
	Interval       int
	Days           string // CSV of Mon..Sun, WEEKLY only
	Start          *time.Time
	End            *time.Time
	IsHabit        bool
}

// TemplateService manages task templates and their recurring plans.
// Validation happens here, at creation time; the calculator assumes
// validated plans.
type TemplateService struct {
	store *repository.Store
	log   *slog.Logger
}

func NewTemplateService(store *repository.Store, log *slog.Logger) *TemplateService {
	return &TemplateService{store: store, log: log}
}

// CreateWithPlan creates a template, its plan, and the first occurrence so
// the schedule is live immediately. The first occurrence may fall on the
// plan's start date itself.
func (s *TemplateService) CreateWithPlan(ctx context.Context, userID uint, input TemplateInput, planInput *PlanInput, now time.Time) (*model.TaskTemplate, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}

	template := &model.TaskTemplate{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Type:        input.Type,
	}

	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		if err := tx.Templates.Create(ctx, template); err != nil {
			return err
		}
		if planInput == nil || planInput.RecurrenceType == model.RecurrenceNone {
			return nil
		}

		plan := &model.RecurringPlan{
			TaskTemplateID:     template.ID,
			RecurrenceType:     planInput.RecurrenceType,
			RecurrenceInterval: planInput.Interval,
			RecurrenceDays:     planInput.Days,
			RecurrenceStart:    planInput.Start,
			RecurrenceEnd:      planInput.End,
			Status:             model.PlanStatusActive,
			IsHabit:            planInput.IsHabit,
		}
		if _, err := recurrence.FromPlan(plan); err != nil {
			return fmt.Errorf("invalid recurrence: %w", err)
		}

		first, err := recurrence.Next(plan, nil, now)
		if err != nil {
			return fmt.Errorf("compute first occurrence: %w", err)
		}
		if first != nil {
			task := &model.Task{
				UserID:         userID,
				TaskTemplateID: &template.ID,
				Title:          template.Title,
				Description:    template.Description,
				Priority:       template.Priority,
				Type:           template.Type,
				Status:         model.TaskStatusActive,
				DueDate:        first,
			}
			if err := tx.Tasks.Create(ctx, task); err != nil {
				return err
			}
			plan.NextRunAt = first
			plan.LastGeneratedAt = &now
		}
		return tx.Plans.Create(ctx, plan)
	})
	if err != nil {
		return nil, err
	}
	return template, nil
}

// SetPlanStatus pauses or resumes a template's plan. Pausing suppresses all
// generation until resumed.
func (s *TemplateService) SetPlanStatus(ctx context.Context, userID, templateID uint, status string) error {
	if status != model.PlanStatusActive && status != model.PlanStatusPaused {
		return fmt.Errorf("invalid plan status %q", status)
	}
	if _, err := s.store.Templates.FindByID(ctx, userID, templateID); err != nil {
		return err
	}
	plan, err := s.store.Plans.FindByTemplateID(ctx, templateID)
	if err != nil {
		return err
	}
	plan.Status = status
	return s.store.Plans.Save(ctx, plan)
}

// Delete removes a template and everything hanging off it. The cascade is
// explicit and ordered: habit logs, generated tasks, plan, template.
func (s *TemplateService) Delete(ctx context.Context, userID, templateID uint) error {
	template, err := s.store.Templates.FindByID(ctx, userID, templateID)
	if err != nil {
		return err
	}
	return s.store.InTx(ctx, func(tx *repository.Store) error {
		if err := tx.HabitLogs.DeleteByTemplateID(ctx, templateID); err != nil {
			return err
		}
		if err := tx.Tasks.DeleteByTemplateID(ctx, templateID); err != nil {
			return err
		}
		if err := tx.Plans.DeleteByTemplateID(ctx, templateID); err != nil {
			return err
		}
		return tx.Templates.Delete(ctx, template)
	})
}

// HabitStats returns the DONE/MISSED/CANCELED tallies for a habit template.
func (s *TemplateService) HabitStats(ctx context.Context, userID, templateID uint) (*repository.HabitStats, error) {
	if _, err := s.store.Templates.FindByID(ctx, userID, templateID); err != nil {
		return nil, err
	}
	return s.store.HabitLogs.StatsByTemplate(ctx, userID, templateID)
}
