package service

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"taskplanner/internal/model"
	"taskplanner/internal/repository"
)

const (
	briefingTitle      = "🌅 Your Daily Report"
	briefingLink       = "/tasks/todo"
	briefingActionLink = "/dashboard"
)

// DailyBriefing is the JSON payload stored in a DAILY_BRIEFING notification.
// Field names are a compatibility contract with downstream consumers.
type DailyBriefing struct {
	Date        string                 `json:"date"`
	DayOfWeek   string                 `json:"dayOfWeek"`
	MissedTasks []MissedTaskDetail     `json:"missedTasks"`
	Stats       *repository.DailyStats `json:"stats"`
	ActionLink  string                 `json:"actionLink"`
}

// MissedTaskDetail describes one expired task inside a briefing.
type MissedTaskDetail struct {
	ID          uint    `json:"id"`
	Title       string  `json:"title"`
	IsRecurring bool    `json:"isRecurring"`
	NextRunDate *string `json:"nextRunDate"` // null for one-time tasks
	TaskLink    string  `json:"taskLink"`
}

// BriefingPusher delivers a briefing over an out-of-band channel after the
// notification row is committed. Delivery is best-effort; the stored
// notification remains the source of truth.
type BriefingPusher interface {
	PushBriefing(ctx context.Context, user *model.User, briefing *DailyBriefing) error
}

// BatchService runs the daily morning routine: expire overdue tasks through
// the missed transition, store one idempotent briefing per user per day, and
// purge old notifications. An external timer owns the trigger and passes the
// reference time in.
type BatchService struct {
	store         *repository.Store
	tasks         *TaskService
	pusher        BriefingPusher // optional
	defaultLoc    *time.Location
	retentionDays int
	log           *slog.Logger
}

func NewBatchService(store *repository.Store, tasks *TaskService, pusher BriefingPusher, defaultLoc *time.Location, retentionDays int, log *slog.Logger) *BatchService {
	if defaultLoc == nil {
		defaultLoc = time.Local
	}
	return &BatchService{
		store:         store,
		tasks:         tasks,
		pusher:        pusher,
		defaultLoc:    defaultLoc,
		retentionDays: retentionDays,
		log:           log,
	}
}

// RunDailyBatch processes every user with overdue work as of ref. A failure
// for one user is logged and never aborts the others; the notification
// purge at the end is isolated the same way.
func (s *BatchService) RunDailyBatch(ctx context.Context, ref time.Time) error {
	s.log.Info("daily batch started", "ref", ref)

	// Any ACTIVE task due before ref makes its owner a candidate; the exact
	// per-user boundary (start of their local day) is applied inside the
	// user's own transaction.
	userIDs, err := s.store.Tasks.UserIDsWithOverdue(ctx, ref)
	if err != nil {
		return fmt.Errorf("find users with overdue tasks: %w", err)
	}
	s.log.Info("daily batch candidates", "users", len(userIDs))

	for _, userID := range userIDs {
		if err := s.processUser(ctx, userID, ref); err != nil {
			s.log.Error("daily batch: user processing failed", "user_id", userID, "error", err)
		}
	}

	if s.retentionDays > 0 {
		threshold := ref.AddDate(0, 0, -s.retentionDays)
		if removed, err := s.store.Notifications.DeleteOlderThan(ctx, threshold); err != nil {
			s.log.Error("daily batch: notification purge failed", "error", err)
		} else if removed > 0 {
			s.log.Info("daily batch: purged old notifications", "removed", removed)
		}
	}

	s.log.Info("daily batch completed")
	return nil
}

// processUser drives one user's morning routine in a single transaction:
// idempotency check, missed transitions, briefing creation. Nothing is
// marked sent unless everything commits, so a failed user is retried on the
// next cycle.
func (s *BatchService) processUser(ctx context.Context, userID uint, ref time.Time) error {
	user, err := s.store.Users.FindByID(ctx, userID)
	if err != nil {
		return fmt.Errorf("load user: %w", err)
	}

	localNow := ref.In(user.Location(s.defaultLoc))
	today := startOfDay(localNow)

	var briefing *DailyBriefing
	err = s.store.InTx(ctx, func(tx *repository.Store) error {
		exists, err := tx.Notifications.ExistsForDate(ctx, userID, model.NotificationDailyBriefing, today)
		if err != nil {
			return err
		}
		if exists {
			s.log.Info("daily batch: user already processed", "user_id", userID, "date", today.Format("2006-01-02"))
			return nil
		}

		overdue, err := tx.Tasks.FindOverdue(ctx, userID, today)
		if err != nil {
			return err
		}
		if len(overdue) == 0 {
			return nil
		}
		s.log.Info("daily batch: processing overdue tasks", "user_id", userID, "count", len(overdue))

		details := make([]MissedTaskDetail, 0, len(overdue))
		for i := range overdue {
			result, err := s.tasks.HandleMissed(ctx, tx, &overdue[i], localNow)
			if err != nil {
				return fmt.Errorf("mark task %d missed: %w", overdue[i].ID, err)
			}
			details = append(details, missedDetail(result))
		}

		stats, err := tx.Tasks.DailyStats(ctx, userID, today)
		if err != nil {
			return err
		}

		briefing = &DailyBriefing{
			Date:        today.Format("2006-01-02"),
			DayOfWeek:   strings.ToUpper(today.Weekday().String()),
			MissedTasks: details,
			Stats:       stats,
			ActionLink:  briefingActionLink,
		}
		payload, err := json.Marshal(briefing)
		if err != nil {
			// Rolls back the whole user so the briefing is retried next run.
			briefing = nil
			return fmt.Errorf("serialize briefing: %w", err)
		}

		return tx.Notifications.Create(ctx, &model.Notification{
			UserID:      userID,
			Title:       briefingTitle,
			Content:     string(payload),
			Type:        model.NotificationDailyBriefing,
			RedirectURL: briefingLink,
		})
	})
	if err != nil {
		return err
	}

	if briefing != nil && s.pusher != nil {
		if err := s.pusher.PushBriefing(ctx, user, briefing); err != nil {
			s.log.Error("daily batch: push delivery failed", "user_id", userID, "error", err)
		}
	}
	return nil
}

func missedDetail(result *ProcessResult) MissedTaskDetail {
	detail := MissedTaskDetail{
		ID:          result.Task.ID,
		Title:       result.Task.Title,
		IsRecurring: result.NewTask != nil,
		TaskLink:    fmt.Sprintf("/tasks/%d", result.Task.ID),
	}
	if result.NextRunAt != nil {
		date := result.NextRunAt.Format("2006-01-02")
		detail.NextRunDate = &date
	}
	return detail
}
