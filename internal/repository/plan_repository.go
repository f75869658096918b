package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"taskplanner/internal/model"
)

// PlanRepository handles persistence for recurring plans.
type PlanRepository struct {
	db *gorm.DB
}

func NewPlanRepository(db *gorm.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

func (r *PlanRepository) Create(ctx context.Context, plan *model.RecurringPlan) error {
	if err := r.db.WithContext(ctx).Create(plan).Error; err != nil {
		return fmt.Errorf("create plan: %w", err)
	}
	return nil
}

// FindByTemplateID returns gorm.ErrRecordNotFound when the template has no
// plan. For one-off templates that is the expected case, not a failure.
func (r *PlanRepository) FindByTemplateID(ctx context.Context, templateID uint) (*model.RecurringPlan, error) {
	var plan model.RecurringPlan
	if err := r.db.WithContext(ctx).Where("task_template_id = ?", templateID).First(&plan).Error; err != nil {
		return nil, err
	}
	return &plan, nil
}

func (r *PlanRepository) Save(ctx context.Context, plan *model.RecurringPlan) error {
	if err := r.db.WithContext(ctx).Save(plan).Error; err != nil {
		return fmt.Errorf("save plan: %w", err)
	}
	return nil
}

func (r *PlanRepository) DeleteByTemplateID(ctx context.Context, templateID uint) error {
	if err := r.db.WithContext(ctx).
		Where("task_template_id = ?", templateID).
		Delete(&model.RecurringPlan{}).Error; err != nil {
		return fmt.Errorf("delete plan by template: %w", err)
	}
	return nil
}
