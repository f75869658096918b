package model

import "time"

// TaskTemplate is the blueprint a recurring plan generates tasks from. The
// descriptive fields are copied onto every generated occurrence.
type TaskTemplate struct {
	ID          uint `gorm:"primaryKey"`
	UserID      uint `gorm:"index"`
	Title       string
	Description string
	Priority    int
	Type        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
