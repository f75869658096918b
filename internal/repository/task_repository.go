package repository

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"taskplanner/internal/model"
)

// TaskRepository handles persistence for tasks.
type TaskRepository struct {
	db *gorm.DB
}

func NewTaskRepository(db *gorm.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

func (r *TaskRepository) Create(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Create(task).Error; err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *TaskRepository) Save(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Save(task).Error; err != nil {
		return fmt.Errorf("save task: %w", err)
	}
	return nil
}

// FindByID scopes by user, so a task belonging to someone else surfaces as
// gorm.ErrRecordNotFound.
func (r *TaskRepository) FindByID(ctx context.Context, userID, taskID uint) (*model.Task, error) {
	var task model.Task
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, taskID).First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) ListActive(ctx context.Context, userID uint) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ?", userID, model.TaskStatusActive).
		Order("priority DESC, due_date ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// FindOverdue returns ACTIVE tasks due strictly before the given boundary.
func (r *TaskRepository) FindOverdue(ctx context.Context, userID uint, before time.Time) ([]model.Task, error) {
	var tasks []model.Task
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND status = ? AND due_date < ?", userID, model.TaskStatusActive, before).
		Order("priority DESC, due_date ASC").
		Find(&tasks).Error; err != nil {
		return nil, err
	}
	return tasks, nil
}

// UserIDsWithOverdue returns the distinct owners of ACTIVE tasks due before
// the boundary. Drives user selection for the daily batch.
func (r *TaskRepository) UserIDsWithOverdue(ctx context.Context, before time.Time) ([]uint, error) {
	var ids []uint
	if err := r.db.WithContext(ctx).Model(&model.Task{}).
		Distinct("user_id").
		Where("status = ? AND due_date < ?", model.TaskStatusActive, before).
		Order("user_id").
		Pluck("user_id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

// FindLatestGenerated locates the newest task of a template with the given
// status and due date: the occurrence a completion generated, used by undo.
func (r *TaskRepository) FindLatestGenerated(ctx context.Context, templateID uint, status string, dueDate time.Time) (*model.Task, error) {
	var task model.Task
	err := r.db.WithContext(ctx).
		Where("task_template_id = ? AND status = ? AND due_date = ?", templateID, status, dueDate).
		Order("created_at DESC").
		First(&task).Error
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *TaskRepository) Delete(ctx context.Context, task *model.Task) error {
	if err := r.db.WithContext(ctx).Delete(task).Error; err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	return nil
}

// DeleteByTemplateID removes every task generated from a template. Part of
// the explicit cascade when a template is deleted.
func (r *TaskRepository) DeleteByTemplateID(ctx context.Context, templateID uint) error {
	if err := r.db.WithContext(ctx).
		Where("task_template_id = ?", templateID).
		Delete(&model.Task{}).Error; err != nil {
		return fmt.Errorf("delete tasks by template: %w", err)
	}
	return nil
}

// DailyStats tallies a user's tasks for one calendar day.
type DailyStats struct {
	Active    int64 `json:"active"`
	Completed int64 `json:"completed"`
	Canceled  int64 `json:"canceled"`
	Total     int64 `json:"total"`
}

// DailyStats counts the user's tasks touching the given day: ACTIVE ones due
// that day, plus COMPLETED/CANCELED ones whose status changed that day.
// Batch-canceled tasks that already carry a MISSED habit log are excluded
// from the canceled column so the briefing does not double-report them.
func (r *TaskRepository) DailyStats(ctx context.Context, userID uint, day time.Time) (*DailyStats, error) {
	start := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, day.Location())
	end := start.AddDate(0, 0, 1)

	var stats DailyStats
	db := r.db.WithContext(ctx).Model(&model.Task{})

	if err := db.Session(&gorm.Session{}).
		Where("user_id = ? AND status = ? AND due_date >= ? AND due_date < ?",
			userID, model.TaskStatusActive, start, end).
		Count(&stats.Active).Error; err != nil {
		return nil, fmt.Errorf("count active: %w", err)
	}
	if err := db.Session(&gorm.Session{}).
		Where("user_id = ? AND status = ? AND updated_at >= ? AND updated_at < ?",
			userID, model.TaskStatusCompleted, start, end).
		Count(&stats.Completed).Error; err != nil {
		return nil, fmt.Errorf("count completed: %w", err)
	}
	if err := db.Session(&gorm.Session{}).
		Where("user_id = ? AND status = ? AND updated_at >= ? AND updated_at < ?",
			userID, model.TaskStatusCanceled, start, end).
		Where("id NOT IN (?)", r.db.Model(&model.HabitLog{}).
			Select("task_id").
			Where("status = ?", model.HabitLogMissed)).
		Count(&stats.Canceled).Error; err != nil {
		return nil, fmt.Errorf("count canceled: %w", err)
	}

	stats.Total = stats.Active + stats.Completed + stats.Canceled
	return &stats, nil
}
