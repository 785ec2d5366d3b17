package events

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventComplaintCreated       EventType = "complaint_created"
	EventComplaintStatusChanged EventType = "complaint_status_changed"
	EventComplaintEscalated     EventType = "complaint_escalated"
	EventComplaintAssigned      EventType = "complaint_assigned"
	EventResolutionReported     EventType = "complaint_resolution_reported"
)

// Event represents a domain event emitted by services.
type Event struct {
	ID          string      `json:"id"`
	Type        EventType   `json:"type"`
	ComplaintID int64       `json:"complaint_id"`
	ActorID     *int64      `json:"actor_id,omitempty"`
	Timestamp   time.Time   `json:"timestamp"`
	Payload     interface{} `json:"payload"`
}

// ComplaintCreatedPayload payload.
type ComplaintCreatedPayload struct {
	Number   string `json:"number"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Priority string `json:"priority"`
}

// StatusChangedPayload payload. CreatorID and Anonymous travel with the
// event so the notification side can decide delivery without re-reading the
// complaint.
type StatusChangedPayload struct {
	Number    string                 `json:"number"`
	Title     string                 `json:"title"`
	OldStatus domain.ComplaintStatus `json:"old_status"`
	NewStatus domain.ComplaintStatus `json:"new_status"`
	Comment   string                 `json:"comment,omitempty"`
	CreatorID int64                  `json:"creator_id"`
	Anonymous bool                   `json:"anonymous"`
	Escalated bool                   `json:"escalated"`
}

// EscalatedPayload payload.
type EscalatedPayload struct {
	Number    string `json:"number"`
	Title     string `json:"title"`
	Priority  string `json:"priority"`
	CreatorID int64  `json:"creator_id"`
	Anonymous bool   `json:"anonymous"`
	Manual    bool   `json:"manual"`
}

// AssignedPayload payload.
type AssignedPayload struct {
	Number     string `json:"number"`
	AssigneeID *int64 `json:"assignee_id,omitempty"`
}

// ResolutionReportedPayload payload.
type ResolutionReportedPayload struct {
	Number        string `json:"number"`
	Title         string `json:"title"`
	ReporterName  string `json:"reporter_name"`
	RequestedNote string `json:"requested_note,omitempty"`
}
