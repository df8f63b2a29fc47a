package repository

import (
	"fmt"
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

func seedStudent(t *testing.T, db *gorm.DB, username, hallTicket, parentMobile string) models.Student {
	t.Helper()

	user := models.User{Username: username, Role: models.RoleStudent, Gender: models.GenderMale, IsApproved: true}
	require.NoError(t, db.Create(&user).Error)

	student := models.Student{
		UserID:       user.ID,
		HallTicketNo: hallTicket,
		StudentName:  username,
		RoomNo:       "B-204",
		ParentName:   "Parent of " + username,
		ParentMobile: parentMobile,
	}
	require.NoError(t, db.Create(&student).Error)
	student.User = user
	return student
}

func seedPass(t *testing.T, db *gorm.DB, studentID uint, status models.GatePassStatus, expectedReturn time.Time) models.GatePass {
	t.Helper()

	pass := models.GatePass{
		StudentID:        studentID,
		OutingAt:         expectedReturn.Add(-24 * time.Hour),
		ExpectedReturnAt: expectedReturn,
		Status:           status,
	}
	require.NoError(t, db.Omit(clause.Associations).Create(&pass).Error)
	return pass
}
