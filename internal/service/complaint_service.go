package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/storage"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// forwardEdge maps each status to the single defined next status. CLOSED is
// absent on purpose: it is terminal. The legacy OPEN and IN_PROGRESS values
// have no edges either; they are migration residue, not part of the flow.
var forwardEdge = map[domain.ComplaintStatus]domain.ComplaintStatus{
	domain.StatusNew:         domain.StatusUnderReview,
	domain.StatusUnderReview: domain.StatusResolved,
	domain.StatusResolved:    domain.StatusClosed,
}

// ComplaintService coordinates the complaint lifecycle: creation, the status
// state machine, assignment, and the audit trail each transition leaves
// behind.
type ComplaintService struct {
	complaints  repository.ComplaintRepository
	updates     repository.ComplaintUpdateRepository
	users       repository.UserRepository
	attachments repository.AttachmentRepository
	files       storage.FileStore
	numbers     *NumberGenerator
	dispatcher  events.Dispatcher
}

// ComplaintDependencies bundles collaborators for the complaint service.
type ComplaintDependencies struct {
	ComplaintRepo  repository.ComplaintRepository
	UpdateRepo     repository.ComplaintUpdateRepository
	UserRepo       repository.UserRepository
	AttachmentRepo repository.AttachmentRepository
	FileStore      storage.FileStore
	Numbers        *NumberGenerator
	Dispatcher     events.Dispatcher
}

// ComplaintCreateInput describes complaint creation payload.
type ComplaintCreateInput struct {
	Title       string
	Description string
	Category    string
	Priority    string
	Anonymous   bool
}

// ComplaintEditInput carries optional metadata changes.
type ComplaintEditInput struct {
	Title       *string
	Description *string
	Category    *string
	Priority    *string
}

// StatusUpdateInput is the transition request contract.
type StatusUpdateInput struct {
	Status        string
	Comment       string
	AssigneeEmail string
}

// NewComplaintService constructs the service.
func NewComplaintService(deps ComplaintDependencies) *ComplaintService {
	return &ComplaintService{
		complaints:  deps.ComplaintRepo,
		updates:     deps.UpdateRepo,
		users:       deps.UserRepo,
		attachments: deps.AttachmentRepo,
		files:       deps.FileStore,
		numbers:     deps.Numbers,
		dispatcher:  deps.Dispatcher,
	}
}

// Create registers a new complaint in status NEW, unescalated, with the next
// sequential number.
func (s *ComplaintService) Create(ctx context.Context, creator *domain.User, input ComplaintCreateInput) (*domain.Complaint, error) {
	title := strings.TrimSpace(input.Title)
	description := strings.TrimSpace(input.Description)
	if title == "" || description == "" || strings.TrimSpace(input.Category) == "" {
		return nil, apperrors.NewValidationError("title, description and category are required", nil)
	}

	number, err := s.numbers.Next(ctx)
	if err != nil {
		return nil, apperrors.MapError(err)
	}

	complaint := &domain.Complaint{
		Number:      number,
		Title:       title,
		Description: description,
		Status:      domain.StatusNew,
		Category:    strings.TrimSpace(input.Category),
		Priority:    input.Priority,
		Anonymous:   input.Anonymous,
		CreatedByID: creator.ID,
	}
	if complaint.Priority == "" {
		complaint.Priority = domain.PriorityMedium
	}

	if err := s.complaints.Create(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:        events.EventComplaintCreated,
		ComplaintID: complaint.ID,
		ActorID:     &creator.ID,
		Payload: events.ComplaintCreatedPayload{
			Number:   complaint.Number,
			Title:    complaint.Title,
			Category: complaint.Category,
			Priority: complaint.Priority,
		},
	})
	return complaint, nil
}

// GetByID fetches a single complaint.
func (s *ComplaintService) GetByID(ctx context.Context, id int64) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("complaint", map[string]any{"complaint_id": id})
		}
		return nil, apperrors.MapError(err)
	}
	return complaint, nil
}

// ListAll returns every complaint, newest first.
func (s *ComplaintService) ListAll(ctx context.Context) ([]domain.Complaint, error) {
	return s.complaints.ListAll(ctx)
}

// ListByCreator returns complaints submitted by the given user.
func (s *ComplaintService) ListByCreator(ctx context.Context, userID int64) ([]domain.Complaint, error) {
	return s.complaints.ListByCreator(ctx, userID)
}

// ListByAssignee returns complaints assigned to the given user.
func (s *ComplaintService) ListByAssignee(ctx context.Context, userID int64) ([]domain.Complaint, error) {
	return s.complaints.ListByAssignee(ctx, userID)
}

// IsOwner reports whether the user created the complaint.
func (s *ComplaintService) IsOwner(ctx context.Context, complaintID, userID int64) (bool, error) {
	complaint, err := s.GetByID(ctx, complaintID)
	if err != nil {
		return false, err
	}
	return complaint.CreatedByID == userID, nil
}

// Timeline returns the audit trail for a complaint, newest first.
func (s *ComplaintService) Timeline(ctx context.Context, complaintID int64) ([]domain.ComplaintUpdate, error) {
	if _, err := s.GetByID(ctx, complaintID); err != nil {
		return nil, err
	}
	return s.updates.ListByComplaint(ctx, complaintID)
}

// Edit applies partial metadata changes without touching the lifecycle.
func (s *ComplaintService) Edit(ctx context.Context, id int64, input ComplaintEditInput) (*domain.Complaint, error) {
	complaint, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if input.Title != nil {
		complaint.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		complaint.Description = strings.TrimSpace(*input.Description)
	}
	if input.Category != nil {
		complaint.Category = strings.TrimSpace(*input.Category)
	}
	if input.Priority != nil {
		complaint.Priority = *input.Priority
	}
	now := time.Now()
	complaint.UpdatedAt = &now
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}
	return complaint, nil
}

// Delete removes a single complaint and its owned rows.
func (s *ComplaintService) Delete(ctx context.Context, id int64) error {
	if err := s.complaints.Delete(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("complaint", map[string]any{"complaint_id": id})
		}
		return apperrors.MapError(err)
	}
	return nil
}

// UpdateStatus validates and applies one status transition. The hierarchy is
// strictly forward: NEW -> UNDER_REVIEW -> RESOLVED -> CLOSED. Requesting the
// current status is a comment-only update. Any attempt from CLOSED fails as a
// conflict. Exactly one audit record is appended for every attempt that
// changes state or carries a comment, before the transition is reported
// complete.
func (s *ComplaintService) UpdateStatus(ctx context.Context, id int64, input StatusUpdateInput, actor *domain.User) (*domain.Complaint, error) {
	complaint, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	newStatus, err := domain.ParseStatus(input.Status)
	if err != nil {
		return nil, apperrors.NewValidationError(err.Error(), nil)
	}
	oldStatus := complaint.Status

	if err := validateTransition(oldStatus, newStatus); err != nil {
		return nil, err
	}

	now := time.Now()
	complaint.Status = newStatus
	complaint.UpdatedAt = &now

	// Assignment rides along with the status update. An unknown assignee
	// email is skipped rather than failing the transition.
	if email := strings.TrimSpace(input.AssigneeEmail); email != "" {
		assignee, err := s.users.GetByEmail(ctx, email)
		if err == nil {
			complaint.AssigneeID = &assignee.ID
		} else if !errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.MapError(err)
		}
	}

	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	if oldStatus != newStatus || strings.TrimSpace(input.Comment) != "" {
		update := &domain.ComplaintUpdate{
			ComplaintID: complaint.ID,
			OldStatus:   oldStatus,
			NewStatus:   newStatus,
			Comment:     input.Comment,
		}
		if actor != nil {
			update.UpdatedByID = &actor.ID
		}
		if err := s.updates.Create(ctx, update); err != nil {
			return nil, apperrors.MapError(err)
		}
	}

	event := events.Event{
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: complaint.ID,
		Payload: events.StatusChangedPayload{
			Number:    complaint.Number,
			Title:     complaint.Title,
			OldStatus: oldStatus,
			NewStatus: newStatus,
			Comment:   input.Comment,
			CreatorID: complaint.CreatedByID,
			Anonymous: complaint.Anonymous,
			Escalated: complaint.Escalated,
		},
	}
	if actor != nil {
		event.ActorID = &actor.ID
	}
	s.publish(ctx, event)

	return complaint, nil
}

// Assign sets the complaint assignee to the given user.
func (s *ComplaintService) Assign(ctx context.Context, complaintID, userID int64) (*domain.Complaint, error) {
	complaint, err := s.GetByID(ctx, complaintID)
	if err != nil {
		return nil, err
	}
	assignee, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("user", map[string]any{"user_id": userID})
		}
		return nil, apperrors.MapError(err)
	}

	now := time.Now()
	complaint.AssigneeID = &assignee.ID
	complaint.UpdatedAt = &now
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	s.publish(ctx, events.Event{
		Type:        events.EventComplaintAssigned,
		ComplaintID: complaint.ID,
		Payload: events.AssignedPayload{
			Number:     complaint.Number,
			AssigneeID: complaint.AssigneeID,
		},
	})
	return complaint, nil
}

// ReportResolved lets staff flag a complaint as resolved without touching the
// lifecycle; an admin-facing notification asks for review.
func (s *ComplaintService) ReportResolved(ctx context.Context, complaintID int64, reporter *domain.User) error {
	complaint, err := s.GetByID(ctx, complaintID)
	if err != nil {
		return err
	}

	s.publish(ctx, events.Event{
		Type:        events.EventResolutionReported,
		ComplaintID: complaint.ID,
		ActorID:     &reporter.ID,
		Payload: events.ResolutionReportedPayload{
			Number:       complaint.Number,
			Title:        complaint.Title,
			ReporterName: reporter.Name,
		},
	})
	return nil
}

// AddAttachment stores the file bytes and records the attachment.
func (s *ComplaintService) AddAttachment(ctx context.Context, complaintID int64, fileName, contentType string, data []byte) (*domain.Attachment, error) {
	if _, err := s.GetByID(ctx, complaintID); err != nil {
		return nil, err
	}
	key, err := s.files.Save(fileName, data)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	attachment := &domain.Attachment{
		ComplaintID: complaintID,
		StorageKey:  key,
		FileName:    fileName,
		ContentType: contentType,
		SizeBytes:   int64(len(data)),
	}
	if err := s.attachments.Create(ctx, attachment); err != nil {
		return nil, apperrors.MapError(err)
	}
	return attachment, nil
}

// ListAttachments returns attachment metadata for a complaint.
func (s *ComplaintService) ListAttachments(ctx context.Context, complaintID int64) ([]domain.Attachment, error) {
	if _, err := s.GetByID(ctx, complaintID); err != nil {
		return nil, err
	}
	return s.attachments.ListByComplaint(ctx, complaintID)
}

func validateTransition(oldStatus, newStatus domain.ComplaintStatus) error {
	if oldStatus == domain.StatusClosed {
		return apperrors.NewConflict("complaint already CLOSED", map[string]any{"status": oldStatus})
	}
	if oldStatus == newStatus {
		return nil
	}
	if forwardEdge[oldStatus] == newStatus {
		return nil
	}
	return apperrors.NewValidationError(
		fmt.Sprintf("invalid status transition: cannot move from %s to %s; hierarchy is NEW -> UNDER_REVIEW -> RESOLVED -> CLOSED", oldStatus, newStatus),
		map[string]any{"old_status": oldStatus, "new_status": newStatus},
	)
}

func (s *ComplaintService) publish(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
