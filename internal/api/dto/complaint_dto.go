package dto

import (
	"time"

	"github.com/spec-kit/complaint-service/internal/domain"
)

// CreateComplaintRequest payload.
type CreateComplaintRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Category    string `json:"category"`
	Priority    string `json:"priority"`
	Anonymous   bool   `json:"anonymous"`
}

// EditComplaintRequest carries optional metadata changes.
type EditComplaintRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Category    *string `json:"category"`
	Priority    *string `json:"priority"`
}

// UpdateStatusRequest drives one lifecycle transition. The optional assignee
// email rides along with the transition.
type UpdateStatusRequest struct {
	Status        string `json:"status"`
	Comment       string `json:"comment"`
	AssigneeEmail string `json:"assignee_email"`
}

// AssignRequest payload.
type AssignRequest struct {
	UserID int64 `json:"user_id"`
}

// ComplaintResponse is the full complaint view.
type ComplaintResponse struct {
	ID          int64                  `json:"id"`
	Number      string                 `json:"number"`
	Title       string                 `json:"title"`
	Description string                 `json:"description"`
	Status      domain.ComplaintStatus `json:"status"`
	Category    string                 `json:"category"`
	Priority    string                 `json:"priority"`
	Anonymous   bool                   `json:"anonymous"`
	CreatedByID int64                  `json:"created_by_id"`
	AssigneeID  *int64                 `json:"assignee_id,omitempty"`
	Escalated   bool                   `json:"escalated"`
	EscalatedAt *time.Time             `json:"escalated_at,omitempty"`
	CreatedAt   time.Time              `json:"created_at"`
	UpdatedAt   *time.Time             `json:"updated_at,omitempty"`
}

// ComplaintUpdateResponse is one audit trail entry.
type ComplaintUpdateResponse struct {
	ID          int64                  `json:"id"`
	ComplaintID int64                  `json:"complaint_id"`
	UpdatedByID *int64                 `json:"updated_by_id,omitempty"`
	OldStatus   domain.ComplaintStatus `json:"old_status"`
	NewStatus   domain.ComplaintStatus `json:"new_status"`
	Comment     string                 `json:"comment,omitempty"`
	UpdatedAt   time.Time              `json:"updated_at"`
}

// AttachmentResponse metadata.
type AttachmentResponse struct {
	ID          int64     `json:"id"`
	ComplaintID int64     `json:"complaint_id"`
	FileName    string    `json:"file_name"`
	ContentType string    `json:"content_type"`
	SizeBytes   int64     `json:"size_bytes"`
	CreatedAt   time.Time `json:"created_at"`
}

// FromComplaint maps the domain aggregate to its response view.
func FromComplaint(c *domain.Complaint) ComplaintResponse {
	return ComplaintResponse{
		ID:          c.ID,
		Number:      c.Number,
		Title:       c.Title,
		Description: c.Description,
		Status:      c.Status,
		Category:    c.Category,
		Priority:    c.Priority,
		Anonymous:   c.Anonymous,
		CreatedByID: c.CreatedByID,
		AssigneeID:  c.AssigneeID,
		Escalated:   c.Escalated,
		EscalatedAt: c.EscalatedAt,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

// FromComplaints maps a slice of complaints.
func FromComplaints(items []domain.Complaint) []ComplaintResponse {
	out := make([]ComplaintResponse, 0, len(items))
	for i := range items {
		out = append(out, FromComplaint(&items[i]))
	}
	return out
}

// FromComplaintUpdate maps one audit record.
func FromComplaintUpdate(u *domain.ComplaintUpdate) ComplaintUpdateResponse {
	return ComplaintUpdateResponse{
		ID:          u.ID,
		ComplaintID: u.ComplaintID,
		UpdatedByID: u.UpdatedByID,
		OldStatus:   u.OldStatus,
		NewStatus:   u.NewStatus,
		Comment:     u.Comment,
		UpdatedAt:   u.UpdatedAt,
	}
}

// FromComplaintUpdates maps a slice of audit records.
func FromComplaintUpdates(items []domain.ComplaintUpdate) []ComplaintUpdateResponse {
	out := make([]ComplaintUpdateResponse, 0, len(items))
	for i := range items {
		out = append(out, FromComplaintUpdate(&items[i]))
	}
	return out
}

// FromAttachment maps attachment metadata.
func FromAttachment(a *domain.Attachment) AttachmentResponse {
	return AttachmentResponse{
		ID:          a.ID,
		ComplaintID: a.ComplaintID,
		FileName:    a.FileName,
		ContentType: a.ContentType,
		SizeBytes:   a.SizeBytes,
		CreatedAt:   a.CreatedAt,
	}
}

// FromAttachments maps a slice of attachments.
func FromAttachments(items []domain.Attachment) []AttachmentResponse {
	out := make([]AttachmentResponse, 0, len(items))
	for i := range items {
		out = append(out, FromAttachment(&items[i]))
	}
	return out
}
