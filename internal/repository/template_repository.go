package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"taskplanner/internal/model"
)

// TemplateRepository handles persistence for task templates.
type TemplateRepository struct {
	db *gorm.DB
}

func NewTemplateRepository(db *gorm.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

func (r *TemplateRepository) Create(ctx context.Context, template *model.TaskTemplate) error {
	if err := r.db.WithContext(ctx).Create(template).Error; err != nil {
		return fmt.Errorf("create template: %w", err)
	}
	return nil
}

func (r *TemplateRepository) FindByID(ctx context.Context, userID, templateID uint) (*model.TaskTemplate, error) {
	var template model.TaskTemplate
	if err := r.db.WithContext(ctx).Where("user_id = ? AND id = ?", userID, templateID).First(&template).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

// Get fetches a template without user scoping, for internal paths that
// already resolved ownership through the owning task or plan.
func (r *TemplateRepository) Get(ctx context.Context, templateID uint) (*model.TaskTemplate, error) {
	var template model.TaskTemplate
	if err := r.db.WithContext(ctx).First(&template, templateID).Error; err != nil {
		return nil, err
	}
	return &template, nil
}

func (r *TemplateRepository) ListByUser(ctx context.Context, userID uint) ([]model.TaskTemplate, error) {
	var templates []model.TaskTemplate
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&templates).Error; err != nil {
		return nil, err
	}
	return templates, nil
}

func (r *TemplateRepository) Delete(ctx context.Context, template *model.TaskTemplate) error {
	if err := r.db.WithContext(ctx).Delete(template).Error; err != nil {
		return fmt.Errorf("delete template: %w", err)
	}
	return nil
}
