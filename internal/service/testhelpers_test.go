package service

import (
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/models"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{TranslateError: true})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Student{},
		&models.GatePass{},
		&models.ParentVerification{},
		&models.Notification{},
		&models.ActivityLog{},
	))

	return db
}

func createUser(t *testing.T, db *gorm.DB, username string, role models.Role, gender models.Gender) models.User {
	t.Helper()

	user := models.User{Username: username, Role: role, Gender: gender, IsApproved: true}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func createStudent(t *testing.T, db *gorm.DB, username, hallTicket, parentMobile string, gender models.Gender) models.Student {
	t.Helper()

	user := createUser(t, db, username, models.RoleStudent, gender)
	student := models.Student{
		UserID:       user.ID,
		HallTicketNo: hallTicket,
		StudentName:  username,
		RoomNo:       "A-101",
		ParentName:   "Parent of " + username,
		ParentMobile: parentMobile,
	}
	require.NoError(t, db.Create(&student).Error)
	student.User = user
	return student
}

func createPass(t *testing.T, db *gorm.DB, studentID uint, status models.GatePassStatus, expectedReturn time.Time) models.GatePass {
	t.Helper()

	pass := models.GatePass{
		StudentID:        studentID,
		OutingAt:         expectedReturn.Add(-24 * time.Hour),
		ExpectedReturnAt: expectedReturn,
		Purpose:          "family visit",
		Status:           status,
	}
	require.NoError(t, db.Omit(clause.Associations).Create(&pass).Error)
	return pass
}

// captureAnnouncer records announced notifications for assertions.
type captureAnnouncer struct {
	mu        sync.Mutex
	announced []models.Notification
}

func (a *captureAnnouncer) Announce(notifications []models.Notification) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.announced = append(a.announced, notifications...)
}

func (a *captureAnnouncer) all() []models.Notification {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]models.Notification(nil), a.announced...)
}
