package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/repository"
	"github.com/spec-kit/complaint-service/internal/storage"
)

// ResetService wipes history, attachments and admin notifications, then
// renumbers every complaint back to a gap-free CMP-00001.. series in original
// creation order, resetting each to NEW with no assignee.
type ResetService struct {
	complaints    repository.ComplaintRepository
	updates       repository.ComplaintUpdateRepository
	notifications repository.NotificationRepository
	attachments   repository.AttachmentRepository
	files         storage.FileStore
	logger        *zap.Logger
}

// NewResetService constructs the service.
func NewResetService(
	complaints repository.ComplaintRepository,
	updates repository.ComplaintUpdateRepository,
	notifications repository.NotificationRepository,
	attachments repository.AttachmentRepository,
	files storage.FileStore,
	logger *zap.Logger,
) *ResetService {
	return &ResetService{
		complaints:    complaints,
		updates:       updates,
		notifications: notifications,
		attachments:   attachments,
		files:         files,
		logger:        logger,
	}
}

// Reset runs the administrative bulk reset. Renumbering happens in two
// phases: every complaint first gets a placeholder number derived from its
// internal id, committed fully, so the final sequential numbers cannot
// collide with not-yet-renumbered originals under the unique constraint.
func (s *ResetService) Reset(ctx context.Context) error {
	// 1. Attachments: files first, then their records.
	attachments, err := s.attachments.ListAll(ctx)
	if err != nil {
		return fmt.Errorf("list attachments: %w", err)
	}
	for _, attachment := range attachments {
		if err := s.files.Remove(attachment.StorageKey); err != nil {
			s.logger.Warn("could not remove attachment file",
				zap.String("storage_key", attachment.StorageKey), zap.Error(err))
		}
	}
	if err := s.attachments.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete attachments: %w", err)
	}

	// 2. Audit trail.
	if err := s.updates.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete complaint updates: %w", err)
	}

	// 3. Admin notifications.
	if err := s.notifications.DeleteAll(ctx); err != nil {
		return fmt.Errorf("delete notifications: %w", err)
	}

	// 4. Oldest first, so renumbering preserves creation order.
	complaints, err := s.complaints.ListOrderedByCreation(ctx)
	if err != nil {
		return fmt.Errorf("list complaints: %w", err)
	}

	// 5. Phase 1: placeholder numbers. T-{id} is unique and short enough
	// for the column constraint.
	for i := range complaints {
		placeholder := fmt.Sprintf("T-%d", complaints[i].ID)
		if err := s.complaints.UpdateNumber(ctx, complaints[i].ID, placeholder); err != nil {
			return fmt.Errorf("assign placeholder number %s: %w", placeholder, err)
		}
	}

	// 6. Phase 2: final sequential numbers, status reset, assignments
	// cleared.
	var counter int64 = 1
	for i := range complaints {
		complaint := &complaints[i]
		complaint.Number = FormatNumber(counter)
		complaint.Status = domain.StatusNew
		complaint.AssigneeID = nil
		counter++
		if err := s.complaints.Update(ctx, complaint); err != nil {
			return fmt.Errorf("reseed complaint %s: %w", complaint.Number, err)
		}
	}

	s.logger.Info("complaint data reset", zap.Int("complaints", len(complaints)))
	return nil
}
