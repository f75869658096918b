package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"taskplanner/internal/model"
)

func TestNotificationCreateAndList(t *testing.T) {
	store := newTestStore(t)
	svc := NewNotificationService(store, testLogger())
	ctx := context.Background()
	user := seedUser(t, store, "ada")

	require.NoError(t, svc.Create(ctx, user.ID, "Welcome", model.NotificationSystemText, "Hello!", "/dashboard"))

	listed, err := svc.ListByUser(ctx, user.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, listed, 1)
	assert.Equal(t, "Welcome", listed[0].Title)
	assert.Equal(t, model.NotificationSystemText, listed[0].Type)
	assert.Equal(t, "/dashboard", listed[0].RedirectURL)
	assert.False(t, listed[0].Read)
}

func TestNotificationListDefaultsLimit(t *testing.T) {
	store := newTestStore(t)
	svc := NewNotificationService(store, testLogger())
	ctx := context.Background()
	user := seedUser(t, store, "ada")

	for i := 0; i < 25; i++ {
		require.NoError(t, svc.Create(ctx, user.ID, fmt.Sprintf("n%d", i), model.NotificationSystemText, "", ""))
	}

	// A non-positive limit falls back to the default page size of 20.
	listed, err := svc.ListByUser(ctx, user.ID, 0, 0)
	require.NoError(t, err)
	assert.Len(t, listed, 20)

	listed, err = svc.ListByUser(ctx, user.ID, -1, 0)
	require.NoError(t, err)
	assert.Len(t, listed, 20)

	listed, err = svc.ListByUser(ctx, user.ID, 20, 20)
	require.NoError(t, err)
	assert.Len(t, listed, 5)
}

func TestNotificationReadTracking(t *testing.T) {
	store := newTestStore(t)
	svc := NewNotificationService(store, testLogger())
	ctx := context.Background()
	user := seedUser(t, store, "ada")

	require.NoError(t, svc.Create(ctx, user.ID, "first", model.NotificationSystemText, "", ""))
	require.NoError(t, svc.Create(ctx, user.ID, "second", model.NotificationSystemText, "", ""))

	count, err := svc.UnreadCount(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)

	listed, err := svc.ListByUser(ctx, user.ID, 10, 0)
	require.NoError(t, err)
	require.NoError(t, svc.MarkRead(ctx, user.ID, listed[0].ID))
	count, err = svc.UnreadCount(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	// Marking someone else's notification fails without touching it.
	other := seedUser(t, store, "other")
	assert.ErrorIs(t, svc.MarkRead(ctx, other.ID, listed[1].ID), gorm.ErrRecordNotFound)

	require.NoError(t, svc.MarkAllRead(ctx, user.ID))
	count, err = svc.UnreadCount(ctx, user.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 0, count)
}

func TestNotificationDeleteOlderThan(t *testing.T) {
	store := newTestStore(t)
	svc := NewNotificationService(store, testLogger())
	ctx := context.Background()
	user := seedUser(t, store, "ada")

	require.NoError(t, store.Notifications.Create(ctx, &model.Notification{
		UserID:    user.ID,
		Title:     "ancient",
		Type:      model.NotificationSystemText,
		CreatedAt: testNow.AddDate(0, 0, -31),
	}))
	require.NoError(t, store.Notifications.Create(ctx, &model.Notification{
		UserID:    user.ID,
		Title:     "on the boundary",
		Type:      model.NotificationSystemText,
		CreatedAt: testNow.AddDate(0, 0, -30).Add(time.Hour),
	}))

	// The threshold is now minus the window: only rows strictly older go.
	removed, err := svc.DeleteOlderThan(ctx, 30, testNow)
	require.NoError(t, err)
	assert.EqualValues(t, 1, removed)

	remaining, err := svc.ListByUser(ctx, user.ID, 10, 0)
	require.NoError(t, err)
	require.Len(t, remaining, 1)
	assert.Equal(t, "on the boundary", remaining[0].Title)
}
