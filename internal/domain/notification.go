package domain

import "time"

// Notification type tags.
const (
	NotificationStatusUpdate      = "STATUS_UPDATE"
	NotificationEscalatedResolved = "ESCALATED_RESOLVED"
	NotificationResolvedPending   = "RESOLVED_PENDING"
	NotificationEscalated         = "ESCALATED"
)

// Notification is an admin-audience side-channel message. Clients poll
// these; there is no push transport.
type Notification struct {
	ID          int64
	ComplaintID int64
	Type        string
	Message     string
	Read        bool
	CreatedAt   time.Time
}

// UserNotification is the per-user counterpart of Notification.
type UserNotification struct {
	ID          int64
	UserID      int64
	ComplaintID int64
	Type        string
	Message     string
	Read        bool
	CreatedAt   time.Time
}
