package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"taskplanner/internal/model"
)

// HabitLogRepository handles the dated status history of habit plans.
type HabitLogRepository struct {
	db *gorm.DB
}

func NewHabitLogRepository(db *gorm.DB) *HabitLogRepository {
	return &HabitLogRepository{db: db}
}

func (r *HabitLogRepository) Create(ctx context.Context, entry *model.HabitLog) error {
	if err := r.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("create habit log: %w", err)
	}
	return nil
}

func (r *HabitLogRepository) FindByTaskID(ctx context.Context, taskID uint) (*model.HabitLog, error) {
	var entry model.HabitLog
	if err := r.db.WithContext(ctx).Where("task_id = ?", taskID).First(&entry).Error; err != nil {
		return nil, err
	}
	return &entry, nil
}

// DeleteByTaskID removes the log entry for a task. Used by undo; deleting a
// nonexistent entry is a no-op.
func (r *HabitLogRepository) DeleteByTaskID(ctx context.Context, taskID uint) error {
	if err := r.db.WithContext(ctx).
		Where("task_id = ?", taskID).
		Delete(&model.HabitLog{}).Error; err != nil {
		return fmt.Errorf("delete habit log by task: %w", err)
	}
	return nil
}

func (r *HabitLogRepository) DeleteByTemplateID(ctx context.Context, templateID uint) error {
	if err := r.db.WithContext(ctx).
		Where("task_template_id = ?", templateID).
		Delete(&model.HabitLog{}).Error; err != nil {
		return fmt.Errorf("delete habit logs by template: %w", err)
	}
	return nil
}

// HabitStats aggregates a template's habit history.
type HabitStats struct {
	Done     int64 `json:"done"`
	Missed   int64 `json:"missed"`
	Canceled int64 `json:"canceled"`
}

func (r *HabitLogRepository) StatsByTemplate(ctx context.Context, userID, templateID uint) (*HabitStats, error) {
	var stats HabitStats
	db := r.db.WithContext(ctx).Model(&model.HabitLog{}).
		Where("user_id = ? AND task_template_id = ?", userID, templateID)

	row := db.Select(
		"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS done, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS missed, "+
			"COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS canceled",
		model.HabitLogDone, model.HabitLogMissed, model.HabitLogCanceled).
		Row()
	if err := row.Scan(&stats.Done, &stats.Missed, &stats.Canceled); err != nil {
		return nil, fmt.Errorf("habit stats: %w", err)
	}
	return &stats, nil
}
