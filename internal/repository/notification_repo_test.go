package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/models"
)

func TestCreateIgnoreDuplicatesSkipsExistingKeys(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	keyA := models.OverdueDedupeKey(1, 10, day)
	keyB := models.OverdueDedupeKey(1, 20, day)

	first, err := repo.CreateIgnoreDuplicates(ctx, []models.Notification{
		{UserID: 10, GatePassID: 1, Type: models.NotificationOverdueReturn, DedupeKey: &keyA, Message: "overdue"},
		{UserID: 20, GatePassID: 1, Type: models.NotificationOverdueReturn, DedupeKey: &keyB, Message: "overdue"},
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, first)

	// Re-inserting the same keys is silently absorbed.
	again, err := repo.CreateIgnoreDuplicates(ctx, []models.Notification{
		{UserID: 10, GatePassID: 1, Type: models.NotificationOverdueReturn, DedupeKey: &keyA, Message: "overdue"},
		{UserID: 20, GatePassID: 1, Type: models.NotificationOverdueReturn, DedupeKey: &keyB, Message: "overdue"},
	})
	require.NoError(t, err)
	require.Zero(t, again)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	require.EqualValues(t, 2, count)
}

func TestCreateIgnoreDuplicatesAllowsNullKeys(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	// Rows without a dedupe key never conflict with each other.
	inserted, err := repo.CreateIgnoreDuplicates(ctx, []models.Notification{
		{UserID: 10, GatePassID: 1, Type: models.NotificationWardenApproval, Message: "one"},
		{UserID: 10, GatePassID: 1, Type: models.NotificationWardenApproval, Message: "two"},
	})
	require.NoError(t, err)
	require.EqualValues(t, 2, inserted)
}

func TestExistsOverdueForDay(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	day := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)

	exists, err := repo.ExistsOverdueForDay(ctx, 1, day)
	require.NoError(t, err)
	require.False(t, exists)

	notification := models.Notification{
		UserID:     10,
		GatePassID: 1,
		Type:       models.NotificationOverdueReturn,
		Message:    "overdue",
	}
	require.NoError(t, repo.Create(ctx, &notification))
	require.NoError(t, db.Model(&models.Notification{}).
		Where("id = ?", notification.ID).
		Update("created_at", day.Add(9*time.Hour)).Error)

	exists, err = repo.ExistsOverdueForDay(ctx, 1, day)
	require.NoError(t, err)
	require.True(t, exists)

	// The day boundary is exclusive at midnight of the next day.
	exists, err = repo.ExistsOverdueForDay(ctx, 1, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	require.False(t, exists)

	// A different pass or a non-overdue type does not count.
	exists, err = repo.ExistsOverdueForDay(ctx, 2, day)
	require.NoError(t, err)
	require.False(t, exists)
}

func TestListByUserClampsLimit(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	for i := 0; i < 60; i++ {
		require.NoError(t, repo.Create(ctx, &models.Notification{
			UserID:     10,
			GatePassID: 1,
			Type:       models.NotificationWardenApproval,
			Message:    "entry",
		}))
	}

	defaulted, err := repo.ListByUser(ctx, 10, 0, 0)
	require.NoError(t, err)
	require.Len(t, defaulted, 50)

	capped, err := repo.ListByUser(ctx, 10, 500, 0)
	require.NoError(t, err)
	require.Len(t, capped, 50)

	paged, err := repo.ListByUser(ctx, 10, 20, 50)
	require.NoError(t, err)
	require.Len(t, paged, 10)
}

func TestMarkReadScopesToOwner(t *testing.T) {
	db := newTestDB(t)
	repo := NewNotificationRepository(db)
	ctx := context.Background()

	notification := models.Notification{
		UserID:     10,
		GatePassID: 1,
		Type:       models.NotificationWardenApproval,
		Message:    "approved",
	}
	require.NoError(t, repo.Create(ctx, &notification))

	_, err := repo.MarkRead(ctx, notification.ID, 99)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)

	updated, err := repo.MarkRead(ctx, notification.ID, 10)
	require.NoError(t, err)
	require.True(t, updated.Read)
}
