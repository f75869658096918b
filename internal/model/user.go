package model

import "time"

// User owns tasks, templates and notifications.
type User struct {
	ID             uint   `gorm:"primaryKey"`
	Username       string `gorm:"uniqueIndex"`
	Timezone       string // IANA name; empty means the deployment default
	TelegramChatID *int64 // nil disables push delivery for this user
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Location resolves the user's timezone, falling back to def when unset or
// unparseable.
func (u *User) Location(def *time.Location) *time.Location {
	if u.Timezone == "" {
		return def
	}
	loc, err := time.LoadLocation(u.Timezone)
	if err != nil {
		return def
	}
	return loc
}
