package domain

import (
	"fmt"
	"strings"
	"time"
)

// ComplaintStatus enumerates lifecycle states for complaints.
type ComplaintStatus string

const (
	StatusNew         ComplaintStatus = "NEW"
	StatusUnderReview ComplaintStatus = "UNDER_REVIEW"
	StatusResolved    ComplaintStatus = "RESOLVED"
	StatusClosed      ComplaintStatus = "CLOSED"

	// Legacy values retained for backward compatibility. No transition
	// leads into or out of them.
	StatusOpen       ComplaintStatus = "OPEN"
	StatusInProgress ComplaintStatus = "IN_PROGRESS"
)

// ParseStatus normalizes a status string (case-insensitive).
func ParseStatus(raw string) (ComplaintStatus, error) {
	switch ComplaintStatus(strings.ToUpper(strings.TrimSpace(raw))) {
	case StatusNew:
		return StatusNew, nil
	case StatusUnderReview:
		return StatusUnderReview, nil
	case StatusResolved:
		return StatusResolved, nil
	case StatusClosed:
		return StatusClosed, nil
	case StatusOpen:
		return StatusOpen, nil
	case StatusInProgress:
		return StatusInProgress, nil
	}
	return "", fmt.Errorf("unknown complaint status: %s", raw)
}

// Priority values are free text; these four are special-cased by the
// escalation thresholds. Anything else behaves like LOW.
const (
	PriorityCritical = "CRITICAL"
	PriorityHigh     = "HIGH"
	PriorityMedium   = "MEDIUM"
	PriorityLow      = "LOW"
)

// Complaint is the aggregate for tracked grievances.
type Complaint struct {
	ID          int64
	Number      string
	Title       string
	Description string
	Status      ComplaintStatus
	Category    string
	Priority    string
	Anonymous   bool
	CreatedByID int64
	AssigneeID  *int64
	CreatedAt   time.Time
	UpdatedAt   *time.Time
	Escalated   bool
	EscalatedAt *time.Time
}
