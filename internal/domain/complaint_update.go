package domain

import "time"

// ComplaintUpdate is an immutable audit trail entry for one transition
// attempt on a complaint. Rows are only ever appended, or dropped en masse
// by the admin reset.
type ComplaintUpdate struct {
	ID          int64
	ComplaintID int64
	UpdatedByID *int64
	OldStatus   ComplaintStatus
	NewStatus   ComplaintStatus
	Comment     string
	UpdatedAt   time.Time
}
