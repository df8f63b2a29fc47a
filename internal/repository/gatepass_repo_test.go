package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/models"
)

func TestCreateWithVerificationLinksRows(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "ravi", "21HT104821", "9876543210")
	repo := NewGatePassRepository(db)

	outing := time.Now().Add(24 * time.Hour)
	pass := models.GatePass{
		StudentID:        student.ID,
		OutingAt:         outing,
		ExpectedReturnAt: outing.Add(48 * time.Hour),
		Status:           models.GatePassStatusPending,
	}
	verification := models.ParentVerification{
		ParentMobile: student.ParentMobile,
		Code:         "123456",
	}
	notifications := []models.Notification{
		{UserID: 42, Type: models.NotificationGatePassRequest, Message: "new request"},
	}

	require.NoError(t, repo.CreateWithVerification(context.Background(), &pass, &verification, notifications))
	require.NotZero(t, pass.ID)
	require.Equal(t, pass.ID, verification.GatePassID)

	var storedNotification models.Notification
	require.NoError(t, db.Where("user_id = ?", 42).First(&storedNotification).Error)
	require.Equal(t, pass.ID, storedNotification.GatePassID)

	loaded, err := repo.FindByID(context.Background(), pass.ID)
	require.NoError(t, err)
	require.Equal(t, student.StudentName, loaded.Student.StudentName)
	require.NotNil(t, loaded.Verification)
	require.Equal(t, "123456", loaded.Verification.Code)
}

func TestApplyTransitionPersistsAllRows(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "ravi", "21HT104821", "9876543210")
	repo := NewGatePassRepository(db)

	pass := seedPass(t, db, student.ID, models.GatePassStatusPending, time.Now().Add(48*time.Hour))
	pass.Status = models.GatePassStatusWardenApproved

	wardenID := uint(9)
	pass.WardenApprovalID = &wardenID

	entityID := pass.ID
	activity := &models.ActivityLog{
		ActorID:    wardenID,
		ActorRole:  models.RoleWarden,
		Action:     "gatepass.warden_approved",
		EntityType: "gatepass",
		EntityID:   &entityID,
	}
	notifications := []models.Notification{
		{UserID: student.UserID, GatePassID: pass.ID, Type: models.NotificationWardenApproval, Message: "approved"},
	}

	require.NoError(t, repo.ApplyTransition(context.Background(), &pass, notifications, activity))

	loaded, err := repo.FindByID(context.Background(), pass.ID)
	require.NoError(t, err)
	require.Equal(t, models.GatePassStatusWardenApproved, loaded.Status)
	require.NotNil(t, loaded.WardenApprovalID)

	var activityCount, notificationCount int64
	require.NoError(t, db.Model(&models.ActivityLog{}).Count(&activityCount).Error)
	require.NoError(t, db.Model(&models.Notification{}).Count(&notificationCount).Error)
	require.EqualValues(t, 1, activityCount)
	require.EqualValues(t, 1, notificationCount)
}

func TestFindByIDMissing(t *testing.T) {
	db := newTestDB(t)
	repo := NewGatePassRepository(db)

	_, err := repo.FindByID(context.Background(), 404)
	require.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestListOverdueSelectsOnlyElapsedSecurityApproved(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "ravi", "21HT104821", "9876543210")
	repo := NewGatePassRepository(db)

	today := time.Date(2026, 8, 29, 0, 0, 0, 0, time.UTC)
	overdue := seedPass(t, db, student.ID, models.GatePassStatusSecurityApproved, today.AddDate(0, 0, -2))
	seedPass(t, db, student.ID, models.GatePassStatusSecurityApproved, today.AddDate(0, 0, 2))
	seedPass(t, db, student.ID, models.GatePassStatusReturned, today.AddDate(0, 0, -2))
	seedPass(t, db, student.ID, models.GatePassStatusPending, today.AddDate(0, 0, -2))

	passes, err := repo.ListOverdue(context.Background(), today)
	require.NoError(t, err)
	require.Len(t, passes, 1)
	require.Equal(t, overdue.ID, passes[0].ID)
	require.Equal(t, student.StudentName, passes[0].Student.StudentName)
}

func TestStatusCountsGroupsByStatus(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "ravi", "21HT104821", "9876543210")
	other := seedStudent(t, db, "anita", "21HT103377", "9876501234")
	repo := NewGatePassRepository(db)

	due := time.Now().Add(48 * time.Hour)
	seedPass(t, db, student.ID, models.GatePassStatusPending, due)
	seedPass(t, db, student.ID, models.GatePassStatusPending, due)
	seedPass(t, db, student.ID, models.GatePassStatusReturned, due)
	seedPass(t, db, other.ID, models.GatePassStatusPending, due)

	all, err := repo.StatusCounts(context.Background(), nil)
	require.NoError(t, err)
	require.EqualValues(t, 3, all[models.GatePassStatusPending])
	require.EqualValues(t, 1, all[models.GatePassStatusReturned])

	studentID := student.ID
	scoped, err := repo.StatusCounts(context.Background(), &studentID)
	require.NoError(t, err)
	require.EqualValues(t, 2, scoped[models.GatePassStatusPending])

	total, err := repo.Count(context.Background())
	require.NoError(t, err)
	require.EqualValues(t, 4, total)
}

func TestListFilters(t *testing.T) {
	db := newTestDB(t)
	student := seedStudent(t, db, "ravi", "21HT104821", "9876543210")
	repo := NewGatePassRepository(db)

	base := time.Date(2026, 8, 1, 10, 0, 0, 0, time.UTC)
	early := seedPass(t, db, student.ID, models.GatePassStatusPending, base.AddDate(0, 0, 1))
	late := seedPass(t, db, student.ID, models.GatePassStatusReturned, base.AddDate(0, 0, 20))

	from := base.AddDate(0, 0, 10)
	byDate, err := repo.List(context.Background(), GatePassFilter{FromDate: &from})
	require.NoError(t, err)
	require.Len(t, byDate, 1)
	require.Equal(t, late.ID, byDate[0].ID)

	byStatus, err := repo.List(context.Background(), GatePassFilter{
		Statuses: []models.GatePassStatus{models.GatePassStatusPending},
	})
	require.NoError(t, err)
	require.Len(t, byStatus, 1)
	require.Equal(t, early.ID, byStatus[0].ID)

	limited, err := repo.List(context.Background(), GatePassFilter{Limit: 1})
	require.NoError(t, err)
	require.Len(t, limited, 1)
}
