package service

import (
	"context"
	"log/slog"
	"time"

	"taskplanner/internal/model"
	"taskplanner/internal/repository"
)

// NotificationService exposes the stored-notification surface: creation for
// internal callers, and read/ack operations for the user-facing layer.
type NotificationService struct {
	store *repository.Store
	log   *slog.Logger
}

func NewNotificationService(store *repository.Store, log *slog.Logger) *NotificationService {
	return &NotificationService{store: store, log: log}
}

// Create stores a notification. Content is plain text for SYSTEM_TEXT and a
// JSON document for the structured types.
func (s *NotificationService) Create(ctx context.Context, userID uint, title, typ, content, redirectURL string) error {
	return s.store.Notifications.Create(ctx, &model.Notification{
		UserID:      userID,
		Title:       title,
		Type:        typ,
		Content:     content,
		RedirectURL: redirectURL,
	})
}

func (s *NotificationService) ListByUser(ctx context.Context, userID uint, limit, offset int) ([]model.Notification, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.store.Notifications.ListByUser(ctx, userID, limit, offset)
}

func (s *NotificationService) UnreadCount(ctx context.Context, userID uint) (int64, error) {
	return s.store.Notifications.UnreadCount(ctx, userID)
}

func (s *NotificationService) MarkRead(ctx context.Context, userID, notificationID uint) error {
	return s.store.Notifications.MarkRead(ctx, userID, notificationID)
}

func (s *NotificationService) MarkAllRead(ctx context.Context, userID uint) error {
	return s.store.Notifications.MarkAllRead(ctx, userID)
}

// DeleteOlderThan purges notifications past the retention window.
func (s *NotificationService) DeleteOlderThan(ctx context.Context, days int, now time.Time) (int64, error) {
	threshold := now.AddDate(0, 0, -days)
	removed, err := s.store.Notifications.DeleteOlderThan(ctx, threshold)
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		s.log.Info("purged old notifications", "removed", removed, "threshold", threshold)
	}
	return removed, nil
}
