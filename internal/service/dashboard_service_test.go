package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/models"
	"github.com/yuvaraj-dudukuru/gate-pass/internal/repository"
)

func newDashboardService(t *testing.T, db *gorm.DB, cache *redis.Client, now time.Time) DashboardService {
	t.Helper()

	passes := repository.NewGatePassRepository(db)
	students := repository.NewStudentRepository(db)
	users := repository.NewUserRepository(db)
	notifications := repository.NewNotificationRepository(db)

	sweeper := NewOverdueService(passes, notifications, users, nil, zerolog.Nop())
	sweeper.(*overdueService).now = func() time.Time { return now }

	svc := NewDashboardService(passes, students, users, notifications, sweeper, cache, time.Minute, zerolog.Nop())
	svc.(*dashboardService).now = func() time.Time { return now }
	return svc
}

func TestStudentDashboardCountsOwnPasses(t *testing.T) {
	db := newTestDB(t)
	student := createStudent(t, db, "ravi", "21HT104821", "9876543210", models.GenderMale)
	other := createStudent(t, db, "anita", "21HT103377", "9876501234", models.GenderFemale)

	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	createPass(t, db, student.ID, models.GatePassStatusPending, now.AddDate(0, 0, 3))
	createPass(t, db, student.ID, models.GatePassStatusWardenApproved, now.AddDate(0, 0, 3))
	createPass(t, db, student.ID, models.GatePassStatusWardenRejected, now.AddDate(0, 0, 3))
	createPass(t, db, other.ID, models.GatePassStatusPending, now.AddDate(0, 0, 3))

	svc := newDashboardService(t, db, nil, now)

	response, err := svc.ForActor(context.Background(), actorFor(student.User))
	require.NoError(t, err)
	require.Equal(t, string(models.RoleStudent), response.Role)
	require.NotNil(t, response.Student)
	require.Nil(t, response.Warden)
	require.EqualValues(t, 3, response.Student.TotalRequests)
	require.EqualValues(t, 1, response.Student.PendingRequests)
	require.EqualValues(t, 1, response.Student.ApprovedRequests)
	require.EqualValues(t, 1, response.Student.RejectedRequests)
	require.Len(t, response.Student.GatePasses, 3)
}

func TestWardenDashboardQueues(t *testing.T) {
	db := newTestDB(t)
	warden := createUser(t, db, "warden.m", models.RoleWarden, models.GenderMale)
	student := createStudent(t, db, "ravi", "21HT104821", "9876543210", models.GenderMale)

	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	createPass(t, db, student.ID, models.GatePassStatusPending, now.AddDate(0, 0, 3))
	createPass(t, db, student.ID, models.GatePassStatusSecurityApproved, now.AddDate(0, 0, 3))

	svc := newDashboardService(t, db, nil, now)

	response, err := svc.ForActor(context.Background(), actorFor(warden))
	require.NoError(t, err)
	require.NotNil(t, response.Warden)
	require.EqualValues(t, 1, response.Warden.TotalPending)
	require.EqualValues(t, 1, response.Warden.StudentsOut)
	require.Len(t, response.Warden.PendingRequests, 1)
}

func TestDashboardRunsSweepBeforeRendering(t *testing.T) {
	db := newTestDB(t)
	admin := createUser(t, db, "superadmin", models.RoleSuperAdmin, "")
	student := createStudent(t, db, "ravi", "21HT104821", "9876543210", models.GenderMale)

	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	createPass(t, db, student.ID, models.GatePassStatusSecurityApproved, now.AddDate(0, 0, -2))

	svc := newDashboardService(t, db, nil, now)

	response, err := svc.ForActor(context.Background(), actorFor(admin))
	require.NoError(t, err)
	require.NotNil(t, response.SuperAdmin)
	require.Equal(t, 2, response.AlertsSwept)
	require.Len(t, response.SuperAdmin.OverdueReturns, 1)
	// The sweep's own alert for the superadmin is part of the rendered feed.
	require.NotEmpty(t, response.SuperAdmin.Notifications)
}

func TestDashboardCachesWhenNothingSwept(t *testing.T) {
	mini, err := miniredis.Run()
	require.NoError(t, err)
	defer mini.Close()

	cache := redis.NewClient(&redis.Options{Addr: mini.Addr()})

	db := newTestDB(t)
	warden := createUser(t, db, "warden.m", models.RoleWarden, models.GenderMale)
	student := createStudent(t, db, "ravi", "21HT104821", "9876543210", models.GenderMale)

	now := time.Date(2026, 8, 29, 10, 0, 0, 0, time.UTC)
	createPass(t, db, student.ID, models.GatePassStatusPending, now.AddDate(0, 0, 3))

	svc := newDashboardService(t, db, cache, now)
	ctx := context.Background()

	first, err := svc.ForActor(ctx, actorFor(warden))
	require.NoError(t, err)
	require.EqualValues(t, 1, first.Warden.TotalPending)

	// A second pending pass appears, but the cached aggregate is still served.
	createPass(t, db, student.ID, models.GatePassStatusPending, now.AddDate(0, 0, 4))

	second, err := svc.ForActor(ctx, actorFor(warden))
	require.NoError(t, err)
	require.EqualValues(t, 1, second.Warden.TotalPending)

	mini.FastForward(2 * time.Minute)

	third, err := svc.ForActor(ctx, actorFor(warden))
	require.NoError(t, err)
	require.EqualValues(t, 2, third.Warden.TotalPending)
}
