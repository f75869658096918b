package model

import "time"

// Recurrence types.
const (
	RecurrenceNone    = "NONE"
	RecurrenceDaily   = "DAILY"
	RecurrenceWeekly  = "WEEKLY"
	RecurrenceMonthly = "MONTHLY"
)

// Plan statuses. PAUSED suppresses all generation.
const (
	PlanStatusActive = "ACTIVE"
	PlanStatusPaused = "PAUSED"
)

// RecurringPlan describes how often a task template repeats. One-to-one with
// its template. NextRunAt and LastGeneratedAt are bookkeeping maintained by
// the lifecycle code, never by the calculator.
type RecurringPlan struct {
	ID                 uint `gorm:"primaryKey"`
	TaskTemplateID     uint `gorm:"uniqueIndex"`
	RecurrenceType     string
	RecurrenceInterval int
	RecurrenceDays     string // CSV of Mon..Sun, meaningful for WEEKLY only
	RecurrenceStart    *time.Time
	RecurrenceEnd      *time.Time
	Status             string `gorm:"default:ACTIVE"`
	IsHabit            bool   `gorm:"default:false"`
	NextRunAt          *time.Time
	LastGeneratedAt    *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
