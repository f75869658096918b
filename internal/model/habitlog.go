package model

import "time"

// Habit log statuses.
const (
	HabitLogDone     = "DONE"
	HabitLogMissed   = "MISSED"
	HabitLogCanceled = "CANCELED"
)

// HabitLog records one dated DONE/MISSED/CANCELED outcome for a habit-type
// plan. Rows are immutable; an undo deletes the row for its task.
type HabitLog struct {
	ID             uint      `gorm:"primaryKey"`
	UserID         uint      `gorm:"index"`
	TaskID         uint      `gorm:"uniqueIndex"`
	TaskTemplateID uint      `gorm:"index"`
	LogDate        time.Time `gorm:"index"` // calendar day, midnight
	Status         string
	Note           string
	CreatedAt      time.Time
}
