package model

import "time"

// Notification types.
const (
	NotificationSystemText    = "SYSTEM_TEXT"    // plain text content
	NotificationDailyBriefing = "DAILY_BRIEFING" // JSON briefing payload
	NotificationTaskReminder  = "TASK_REMINDER"  // JSON task details
)

// Notification is a stored message for one user. Content is plain text for
// SYSTEM_TEXT and a JSON document for the other types.
type Notification struct {
	ID          uint      `gorm:"primaryKey"`
	UserID      uint      `gorm:"index"`
	Title       string
	Content     string
	Type        string
	RedirectURL string
	Read        bool      `gorm:"default:false"`
	CreatedAt   time.Time `gorm:"index"`
}
