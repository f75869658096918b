package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskplanner/internal/model"
)

func TestCreateWithPlanSeedsFirstOccurrence(t *testing.T) {
	store := newTestStore(t)
	svc := NewTemplateService(store, testLogger())
	ctx := context.Background()
	user := seedUser(t, store, "ada")

	// Start date is today, an allowed weekday: the first occurrence is the
	// start date itself.
	start := time.Date(2026, 2, 13, 9, 0, 0, 0, time.UTC)
	template, err := svc.CreateWithPlan(ctx, user.ID, TemplateInput{Title: "Morning run", Type: "HABIT"}, &PlanInput{
		RecurrenceType: model.RecurrenceWeekly,
		Interval:       1,
		Days:           "Fri",
		Start:          &start,
		IsHabit:        true,
	}, testNow)
	require.NoError(t, err)

	plan, err := store.Plans.FindByTemplateID(ctx, template.ID)
	require.NoError(t, err)
	assertSameInstant(t, start, plan.NextRunAt)
	assertSameInstant(t, testNow, plan.LastGeneratedAt)
	assert.True(t, plan.IsHabit)

	active, err := store.Tasks.ListActive(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Morning run", active[0].Title)
	assertSameInstant(t, start, active[0].DueDate)
}

func TestCreateWithPlanRejectsInvalidRecurrence(t *testing.T) {
	store := newTestStore(t)
	svc := NewTemplateService(store, testLogger())
	ctx := context.Background()
	user := seedUser(t, store, "ada")

	_, err := svc.CreateWithPlan(ctx, user.ID, TemplateInput{Title: "Broken"}, &PlanInput{
		RecurrenceType: model.RecurrenceDaily,
		Interval:       0,
	}, testNow)
	require.Error(t, err)

	// The template creation rolled back with the plan.
	templates, err := store.Templates.ListByUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, templates)
}

func TestCreateWithoutPlan(t *testing.T) {
	store := newTestStore(t)
	svc := NewTemplateService(store, testLogger())
	ctx := context.Background()
	user := seedUser(t, store, "ada")

	template, err := svc.CreateWithPlan(ctx, user.ID, TemplateInput{Title: "Someday"}, nil, testNow)
	require.NoError(t, err)

	_, err = store.Plans.FindByTemplateID(ctx, template.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	active, err := store.Tasks.ListActive(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, active)
}

func TestSetPlanStatus(t *testing.T) {
	store := newTestStore(t)
	svc := NewTemplateService(store, testLogger())
	ctx := context.Background()
	user := seedUser(t, store, "ada")

	start := time.Date(2026, 2, 13, 9, 0, 0, 0, time.UTC)
	template, err := svc.CreateWithPlan(ctx, user.ID, TemplateInput{Title: "Stretch"}, &PlanInput{
		RecurrenceType: model.RecurrenceDaily,
		Interval:       1,
		Start:          &start,
	}, testNow)
	require.NoError(t, err)

	require.NoError(t, svc.SetPlanStatus(ctx, user.ID, template.ID, model.PlanStatusPaused))
	plan, err := store.Plans.FindByTemplateID(ctx, template.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PlanStatusPaused, plan.Status)

	assert.Error(t, svc.SetPlanStatus(ctx, user.ID, template.ID, "SUSPENDED"))
	assert.ErrorIs(t, svc.SetPlanStatus(ctx, user.ID, template.ID+99, model.PlanStatusActive), gorm.ErrRecordNotFound)
}

func TestDeleteCascades(t *testing.T) {
	store := newTestStore(t)
	svc := NewTemplateService(store, testLogger())
	tasks := NewTaskService(store, testLogger())
	ctx := context.Background()
	user := seedUser(t, store, "ada")

	start := time.Date(2026, 2, 13, 9, 0, 0, 0, time.UTC)
	template, err := svc.CreateWithPlan(ctx, user.ID, TemplateInput{Title: "Journal", Type: "HABIT"}, &PlanInput{
		RecurrenceType: model.RecurrenceDaily,
		Interval:       1,
		Start:          &start,
		IsHabit:        true,
	}, testNow)
	require.NoError(t, err)

	// Complete the seeded occurrence so a habit log and a generated task
	// exist before the cascade runs.
	active, err := store.Tasks.ListActive(ctx, user.ID)
	require.NoError(t, err)
	require.Len(t, active, 1)
	_, err = tasks.CompleteTask(ctx, user.ID, active[0].ID, testNow)
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, user.ID, template.ID))

	_, err = store.Templates.FindByID(ctx, user.ID, template.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	_, err = store.Plans.FindByTemplateID(ctx, template.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
	remaining, err := store.Tasks.ListActive(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, remaining)
	stats, err := store.HabitLogs.StatsByTemplate(ctx, user.ID, template.ID)
	require.NoError(t, err)
	assert.Zero(t, stats.Done+stats.Missed+stats.Canceled)
}

func TestDeleteRejectsForeignTemplate(t *testing.T) {
	store := newTestStore(t)
	svc := NewTemplateService(store, testLogger())
	ctx := context.Background()
	owner := seedUser(t, store, "owner")
	other := seedUser(t, store, "other")

	template, err := svc.CreateWithPlan(ctx, owner.ID, TemplateInput{Title: "Private"}, nil, testNow)
	require.NoError(t, err)

	err = svc.Delete(ctx, other.ID, template.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
