package service

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskplanner/internal/model"
	"taskplanner/internal/repository"
)

// 2026-02-13 is a Friday.
var testNow = time.Date(2026, 2, 13, 12, 0, 0, 0, time.UTC)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestStore(t *testing.T) *repository.Store {
	t.Helper()
	db, err := repository.NewDB(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	return repository.NewStore(db)
}

func seedUser(t *testing.T, store *repository.Store, username string) *model.User {
	t.Helper()
	user := &model.User{Username: username}
	require.NoError(t, store.Users.Create(context.Background(), user))
	return user
}

// seedRecurring creates a template, attaches the given plan to it, and
// materializes one ACTIVE task due at the given time.
func seedRecurring(t *testing.T, store *repository.Store, userID uint, plan *model.RecurringPlan, due time.Time) (*model.TaskTemplate, *model.Task) {
	t.Helper()
	ctx := context.Background()

	template := &model.TaskTemplate{UserID: userID, Title: "Morning run", Priority: 2, Type: "HABIT"}
	require.NoError(t, store.Templates.Create(ctx, template))

	plan.TaskTemplateID = template.ID
	if plan.Status == "" {
		plan.Status = model.PlanStatusActive
	}
	plan.NextRunAt = &due
	require.NoError(t, store.Plans.Create(ctx, plan))

	task := &model.Task{
		UserID:         userID,
		TaskTemplateID: &template.ID,
		Title:          template.Title,
		Priority:       template.Priority,
		Type:           template.Type,
		Status:         model.TaskStatusActive,
		DueDate:        &due,
	}
	require.NoError(t, store.Tasks.Create(ctx, task))
	return template, task
}

func assertSameInstant(t *testing.T, want time.Time, got *time.Time) {
	t.Helper()
	require.NotNil(t, got)
	assert.True(t, want.Equal(*got), "want %s, got %s", want, got)
}
