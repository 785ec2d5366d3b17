package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// NotificationResponse is the admin-audience notification view.
type NotificationResponse struct {
	ID          int64     `json:"id"`
	ComplaintID int64     `json:"complaint_id"`
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserNotificationResponse is the per-user notification view.
type UserNotificationResponse struct {
	ID          int64     `json:"id"`
	ComplaintID int64     `json:"complaint_id"`
	Type        string    `json:"type"`
	Message     string    `json:"message"`
	Read        bool      `json:"read"`
	CreatedAt   time.Time `json:"created_at"`
}

// FromNotifications maps admin notifications.
func FromNotifications(items []domain.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, NotificationResponse{
			ID:          n.ID,
			ComplaintID: n.ComplaintID,
			Type:        n.Type,
			Message:     n.Message,
			Read:        n.Read,
			CreatedAt:   n.CreatedAt,
		})
	}
	return out
}

// FromUserNotifications maps user notifications.
func FromUserNotifications(items []domain.UserNotification) []UserNotificationResponse {
	out := make([]UserNotificationResponse, 0, len(items))
	for _, n := range items {
		out = append(out, UserNotificationResponse{
			ID:          n.ID,
			ComplaintID: n.ComplaintID,
			Type:        n.Type,
			Message:     n.Message,
			Read:        n.Read,
			CreatedAt:   n.CreatedAt,
		})
	}
	return out
}
