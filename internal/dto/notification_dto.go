package dto

import (
	"time"

	"github.com/yuvaraj-dudukuru/gate-pass/internal/models"
)

// NotificationResponse is the API shape of a notification.
type NotificationResponse struct {
	ID         uint                    `json:"id"`
	UserID     uint                    `json:"user_id"`
	GatePassID uint                    `json:"gatepass_id"`
	Type       models.NotificationType `json:"type"`
	Message    string                  `json:"message"`
	Read       bool                    `json:"read"`
	CreatedAt  time.Time               `json:"created_at"`
}

// NewNotificationResponse maps a notification model to its API shape.
func NewNotificationResponse(notification models.Notification) NotificationResponse {
	return NotificationResponse{
		ID:         notification.ID,
		UserID:     notification.UserID,
		GatePassID: notification.GatePassID,
		Type:       notification.Type,
		Message:    notification.Message,
		Read:       notification.Read,
		CreatedAt:  notification.CreatedAt,
	}
}

// NewNotificationResponseSlice maps a slice of notifications.
func NewNotificationResponseSlice(notifications []models.Notification) []NotificationResponse {
	responses := make([]NotificationResponse, 0, len(notifications))
	for _, notification := range notifications {
		responses = append(responses, NewNotificationResponse(notification))
	}
	return responses
}
