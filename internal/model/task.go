package model

import "time"

// Task statuses. CANCELED marks a task expired by the daily batch, not a
// user-initiated deletion.
const (
	TaskStatusActive    = "ACTIVE"
	TaskStatusCompleted = "COMPLETED"
	TaskStatusCanceled  = "CANCELED"
)

// Task is one concrete occurrence: created directly (one-off) or generated
// from a template by the recurrence engine.
type Task struct {
	ID             uint  `gorm:"primaryKey"`
	UserID         uint  `gorm:"index"`
	TaskTemplateID *uint `gorm:"index"` // nil means a one-off task
	Title          string
	Description    string
	StartDate      *time.Time
	DueDate        *time.Time
	Priority       int
	Type           string
	Status         string `gorm:"default:ACTIVE"`
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// IsRecurring reports whether the task was generated from a template.
func (t *Task) IsRecurring() bool {
	return t.TaskTemplateID != nil
}
