package models

import (
	"fmt"
	"time"
)

// NotificationType tags the transition that produced a notification.
type NotificationType string

const (
	NotificationGatePassRequest  NotificationType = "gatepass_request"
	NotificationWardenApproval   NotificationType = "warden_approval"
	NotificationWardenRejection  NotificationType = "warden_rejection"
	NotificationSecurityApproval NotificationType = "security_approval"
	NotificationReturnRecorded   NotificationType = "return_recorded"
	NotificationOverdueReturn    NotificationType = "overdue_return"
	NotificationAdminApproval    NotificationType = "gatepass_approved"
	NotificationAdminRejection   NotificationType = "gatepass_rejected"
)

// Notification is an append-only message targeted at a single user. Only the
// read flag ever changes after creation.
type Notification struct {
	ID         uint             `gorm:"primaryKey" json:"id"`
	UserID     uint             `gorm:"not null;index" json:"user_id"`
	GatePassID uint             `gorm:"not null;index" json:"gatepass_id"`
	Type       NotificationType `gorm:"size:32;not null;index" json:"type"`
	Message    string           `gorm:"type:text" json:"message"`
	Read       bool             `gorm:"not null;default:false" json:"read"`
	DedupeKey  *string          `gorm:"size:64;uniqueIndex" json:"-"`
	CreatedAt  time.Time        `json:"created_at"`
}

// OverdueDedupeKey builds the uniqueness key that caps overdue alerts at one
// per pass, recipient and calendar day. The unique index on DedupeKey turns a
// concurrent double-sweep into a harmless constraint conflict.
func OverdueDedupeKey(gatepassID, userID uint, day time.Time) string {
	return fmt.Sprintf("overdue:%d:%d:%s", gatepassID, userID, day.Format("2006-01-02"))
}
