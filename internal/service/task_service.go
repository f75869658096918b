package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"gorm.io/gorm"

	"taskplanner/internal/model"
	"taskplanner/internal/recurrence"
	"taskplanner/internal/repository"
)

// User-facing transition messages.
const (
	msgTaskUpdated     = "Task updated successfully."
	msgTaskCompleted   = "Great job! Task completed."
	msgUndone          = "Completion undone."
	msgUndoneWithClean = "Completion undone. The next scheduled task has been removed."
)

// TaskInput carries the fields for creating a one-off task.
type TaskInput struct {
	Title       string
	Description string
	Priority    int
	Type        string
	StartDate   *time.Time
	DueDate     *time.Time
}

// TaskPatch carries a partial update; nil fields are left untouched.
type TaskPatch struct {
	Title       *string
	Description *string
	Status      *string
	Priority    *int
	Type        *string
	StartDate   *time.Time
	DueDate     *time.Time
}

// ProcessResult reports the outcome of a task transition: the transitioned
// task, the generated next occurrence when the owning plan produced one, and
// a user-facing message.
type ProcessResult struct {
	Message   string
	Task      *model.Task
	NewTask   *model.Task
	NextRunAt *time.Time
}

// TaskService drives the task lifecycle: completion, undo, and the missed
// transition used by the daily batch. Each transition runs as one
// transaction so task status, plan bookkeeping and habit history cannot
// diverge.
type TaskService struct {
	store *repository.Store
	log   *slog.Logger
}

func NewTaskService(store *repository.Store, log *slog.Logger) *TaskService {
	return &TaskService{store: store, log: log}
}

// CreateTask creates a one-off task owned by the user.
func (s *TaskService) CreateTask(ctx context.Context, userID uint, input TaskInput) (*model.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, fmt.Errorf("title is required")
	}
	task := &model.Task{
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Priority:    input.Priority,
		Type:        input.Type,
		StartDate:   input.StartDate,
		DueDate:     input.DueDate,
		Status:      model.TaskStatusActive,
	}
	if err := s.store.Tasks.Create(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

func (s *TaskService) GetTask(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	return s.store.Tasks.FindByID(ctx, userID, taskID)
}

func (s *TaskService) ListActive(ctx context.Context, userID uint) ([]model.Task, error) {
	return s.store.Tasks.ListActive(ctx, userID)
}

// UpdateTask applies a partial update and dispatches the lifecycle edges:
// a transition into COMPLETED triggers recurrence generation, a transition
// out of COMPLETED triggers the undo path. All other updates are plain
// field changes.
func (s *TaskService) UpdateTask(ctx context.Context, userID, taskID uint, patch TaskPatch, now time.Time) (*ProcessResult, error) {
	var result *ProcessResult
	err := s.store.InTx(ctx, func(tx *repository.Store) error {
		task, err := tx.Tasks.FindByID(ctx, userID, taskID)
		if err != nil {
			return err
		}

		oldStatus := task.Status
		applyPatch(task, patch)
		newStatus := task.Status

		message := msgTaskUpdated
		var generated *model.Task
		var nextRun *time.Time

		switch {
		case oldStatus != model.TaskStatusCompleted && newStatus == model.TaskStatusCompleted:
			res, err := s.processRecurring(ctx, tx, task, model.HabitLogDone, startOfDay(now), now)
			if err != nil {
				return err
			}
			if res != nil {
				message = res.Message
				generated = res.NewTask
				nextRun = res.NextRunAt
			} else {
				message = msgTaskCompleted
			}
		case oldStatus == model.TaskStatusCompleted && newStatus != model.TaskStatusCompleted:
			if msg, err := s.undoCompletion(ctx, tx, task); err != nil {
				return err
			} else if msg != "" {
				message = msg
			}
		}

		if err := tx.Tasks.Save(ctx, task); err != nil {
			return err
		}
		result = &ProcessResult{Message: message, Task: task, NewTask: generated, NextRunAt: nextRun}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// CompleteTask marks a task COMPLETED, generating the next occurrence when a
// recurring plan applies. Completing an already-COMPLETED task is a no-op
// update and never generates twice.
func (s *TaskService) CompleteTask(ctx context.Context, userID, taskID uint, now time.Time) (*ProcessResult, error) {
	status := model.TaskStatusCompleted
	return s.UpdateTask(ctx, userID, taskID, TaskPatch{Status: &status}, now)
}

// UndoComplete reverts a completion, removing the habit log entry and the
// generated future task and rolling the plan's bookkeeping back.
func (s *TaskService) UndoComplete(ctx context.Context, userID, taskID uint, now time.Time) (*ProcessResult, error) {
	status := model.TaskStatusActive
	return s.UpdateTask(ctx, userID, taskID, TaskPatch{Status: &status}, now)
}

// HandleMissed expires an overdue task: status CANCELED, habit history
// logged as MISSED against yesterday (the day the task was due, not the day
// the batch noticed), and the next occurrence generated. Runs inside the
// caller's transaction; only the daily batch calls this.
func (s *TaskService) HandleMissed(ctx context.Context, tx *repository.Store, task *model.Task, now time.Time) (*ProcessResult, error) {
	task.Status = model.TaskStatusCanceled
	task.UpdatedAt = now
	if err := tx.Tasks.Save(ctx, task); err != nil {
		return nil, err
	}

	yesterday := startOfDay(now).AddDate(0, 0, -1)
	res, err := s.processRecurring(ctx, tx, task, model.HabitLogMissed, yesterday, now)
	if err != nil {
		return nil, err
	}
	if res == nil {
		return &ProcessResult{Task: task}, nil
	}
	res.Task = task
	return res, nil
}

// processRecurring is the shared tail of Complete and Missed: habit log,
// next-occurrence generation, plan bookkeeping, user message. A task without
// a template, or a template without a plan, short-circuits to nil. That is
// the normal case for one-off work, not an error.
func (s *TaskService) processRecurring(ctx context.Context, tx *repository.Store, task *model.Task, logStatus string, logDate, now time.Time) (*ProcessResult, error) {
	if task.TaskTemplateID == nil {
		return nil, nil
	}

	plan, err := tx.Plans.FindByTemplateID(ctx, *task.TaskTemplateID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if plan.IsHabit {
		entry := &model.HabitLog{
			UserID:         task.UserID,
			TaskID:         task.ID,
			TaskTemplateID: *task.TaskTemplateID,
			LogDate:        logDate,
			Status:         logStatus,
		}
		if err := tx.HabitLogs.Create(ctx, entry); err != nil {
			return nil, err
		}
	}

	newTask, nextRun, err := s.generateNext(ctx, tx, plan, now)
	if err != nil {
		return nil, err
	}

	message := msgTaskCompleted
	if nextRun != nil {
		message = fmt.Sprintf("Great job! Next session scheduled for %s", formatDueDate(*nextRun))
	}
	return &ProcessResult{Message: message, NewTask: newTask, NextRunAt: nextRun}, nil
}

// generateNext materializes the plan's next occurrence from its template and
// advances the plan's bookkeeping. Returns nils when the plan is paused or
// has run its course.
func (s *TaskService) generateNext(ctx context.Context, tx *repository.Store, plan *model.RecurringPlan, now time.Time) (*model.Task, *time.Time, error) {
	if plan.Status != model.PlanStatusActive {
		return nil, nil, nil
	}

	next, err := recurrence.Next(plan, &now, now)
	if err != nil {
		return nil, nil, fmt.Errorf("compute next due date for plan %d: %w", plan.ID, err)
	}
	if next == nil {
		return nil, nil, nil
	}

	template, err := tx.Templates.Get(ctx, plan.TaskTemplateID)
	if err != nil {
		return nil, nil, fmt.Errorf("load template %d: %w", plan.TaskTemplateID, err)
	}

	newTask := &model.Task{
		UserID:         template.UserID,
		TaskTemplateID: &template.ID,
		Title:          template.Title,
		Description:    template.Description,
		Priority:       template.Priority,
		Type:           template.Type,
		Status:         model.TaskStatusActive,
		DueDate:        next,
	}
	if err := tx.Tasks.Create(ctx, newTask); err != nil {
		return nil, nil, err
	}

	plan.LastGeneratedAt = &now
	plan.NextRunAt = next
	if err := tx.Plans.Save(ctx, plan); err != nil {
		return nil, nil, err
	}
	return newTask, next, nil
}

// undoCompletion reverts the side effects of a completion: drop the habit
// log, delete the future task the completion generated (when it still
// exists), and roll the plan's schedule back to this task.
func (s *TaskService) undoCompletion(ctx context.Context, tx *repository.Store, task *model.Task) (string, error) {
	if task.TaskTemplateID == nil {
		return "", nil
	}

	plan, err := tx.Plans.FindByTemplateID(ctx, *task.TaskTemplateID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", nil
	}
	if err != nil {
		return "", err
	}

	if err := tx.HabitLogs.DeleteByTaskID(ctx, task.ID); err != nil {
		return "", err
	}

	// The generated occurrence is the newest ACTIVE task of the template
	// whose due date matches what the plan thinks the next run is. It may
	// have been removed already; undo still proceeds.
	futureDeleted := false
	if plan.NextRunAt != nil {
		future, err := tx.Tasks.FindLatestGenerated(ctx, *task.TaskTemplateID, model.TaskStatusActive, *plan.NextRunAt)
		switch {
		case err == nil:
			if err := tx.Tasks.Delete(ctx, future); err != nil {
				return "", err
			}
			futureDeleted = true
		case errors.Is(err, gorm.ErrRecordNotFound):
			// already gone
		default:
			return "", err
		}
	}

	plan.NextRunAt = task.DueDate
	createdAt := task.CreatedAt
	plan.LastGeneratedAt = &createdAt
	if err := tx.Plans.Save(ctx, plan); err != nil {
		return "", err
	}

	if futureDeleted {
		return msgUndoneWithClean, nil
	}
	return msgUndone, nil
}

func applyPatch(task *model.Task, patch TaskPatch) {
	if patch.Title != nil {
		task.Title = *patch.Title
	}
	if patch.Description != nil {
		task.Description = *patch.Description
	}
	if patch.Status != nil {
		task.Status = *patch.Status
	}
	if patch.Priority != nil {
		task.Priority = *patch.Priority
	}
	if patch.Type != nil {
		task.Type = *patch.Type
	}
	if patch.StartDate != nil {
		task.StartDate = patch.StartDate
	}
	if patch.DueDate != nil {
		task.DueDate = patch.DueDate
	}
}

// formatDueDate renders "2026-02-09(MON)" for user messages.
func formatDueDate(t time.Time) string {
	return strings.ToUpper(t.Format("2006-01-02(Mon)"))
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
