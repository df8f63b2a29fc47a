package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/models"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/repository"
)

func TestAnnounceDeliversToSubscribers(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(repository.NewNotificationRepository(db), nil, "", nil, zerolog.Nop())

	stream, cleanup := svc.Subscribe(7)
	defer cleanup()

	svc.Announce([]models.Notification{
		{ID: 1, UserID: 7, GatePassID: 3, Type: models.NotificationWardenApproval, Message: "approved"},
		{ID: 2, UserID: 8, GatePassID: 3, Type: models.NotificationWardenApproval, Message: "approved"},
	})

	select {
	case received := <-stream:
		require.Equal(t, uint(7), received.UserID)
		require.Equal(t, "approved", received.Message)
	case <-time.After(time.Second):
		t.Fatal("expected a streamed notification")
	}

	// Nothing addressed to other users leaks into this subscription.
	select {
	case extra := <-stream:
		t.Fatalf("unexpected notification for user %d", extra.UserID)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestListAndMarkRead(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(repository.NewNotificationRepository(db), nil, "", nil, zerolog.Nop())
	ctx := context.Background()

	rows := []models.Notification{
		{UserID: 7, GatePassID: 1, Type: models.NotificationGatePassRequest, Message: "first"},
		{UserID: 7, GatePassID: 2, Type: models.NotificationWardenApproval, Message: "second"},
		{UserID: 9, GatePassID: 1, Type: models.NotificationGatePassRequest, Message: "other"},
	}
	require.NoError(t, db.Create(&rows).Error)

	listed, err := svc.List(ctx, 7, 10, 0)
	require.NoError(t, err)
	require.Len(t, listed, 2)

	updated, err := svc.MarkRead(ctx, rows[0].ID, 7)
	require.NoError(t, err)
	require.True(t, updated.Read)

	// Marking again is a no-op.
	again, err := svc.MarkRead(ctx, rows[0].ID, 7)
	require.NoError(t, err)
	require.True(t, again.Read)

	// A user cannot mark someone else's notification.
	_, err = svc.MarkRead(ctx, rows[2].ID, 7)
	require.Error(t, err)
}

func TestSubscribeCleanupClosesChannel(t *testing.T) {
	db := newTestDB(t)
	svc := NewNotificationService(repository.NewNotificationRepository(db), nil, "", nil, zerolog.Nop())

	stream, cleanup := svc.Subscribe(7)
	cleanup()

	_, open := <-stream
	require.False(t, open)
}
