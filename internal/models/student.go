package models

import "time"

// Student is the hostel profile owned by exactly one user account.
// Immutable after registration except by administrative edit.
type Student struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	UserID       uint      `gorm:"uniqueIndex;not null" json:"user_id"`
	HallTicketNo string    `gorm:"size:20;uniqueIndex;not null" json:"hall_ticket_no"`
	StudentName  string    `gorm:"size:100;not null" json:"student_name"`
	RoomNo       string    `gorm:"size:10;not null" json:"room_no"`
	ParentName   string    `gorm:"size:100;not null" json:"parent_name"`
	ParentMobile string    `gorm:"size:10;uniqueIndex;not null" json:"parent_mobile"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	User         User      `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"user"`
}
