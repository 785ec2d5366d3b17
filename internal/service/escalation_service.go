package service

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

// EscalationService flags overdue complaints based on priority thresholds.
// The sweep is idempotent per complaint: once escalated, a complaint is
// never picked up again.
type EscalationService struct {
	complaints repository.ComplaintRepository
	updates    repository.ComplaintUpdateRepository
	dispatcher events.Dispatcher
	logger     *zap.Logger
	workers    int
	now        func() time.Time
}

// NewEscalationService constructs the service. workers bounds the sweep
// fan-out; values below one fall back to a single worker.
func NewEscalationService(complaints repository.ComplaintRepository, updates repository.ComplaintUpdateRepository, dispatcher events.Dispatcher, logger *zap.Logger, workers int) *EscalationService {
	if workers < 1 {
		workers = 1
	}
	return &EscalationService{
		complaints: complaints,
		updates:    updates,
		dispatcher: dispatcher,
		logger:     logger,
		workers:    workers,
		now:        time.Now,
	}
}

// escalationDays returns the overdue threshold for a priority. Matching is
// case-insensitive; anything unrecognized behaves like LOW.
func escalationDays(priority string) int {
	switch strings.ToUpper(priority) {
	case domain.PriorityCritical:
		return 3
	case domain.PriorityHigh:
		return 7
	case domain.PriorityMedium:
		return 10
	default:
		return 15
	}
}

// Sweep walks every complaint and escalates the overdue ones. Per-complaint
// failures are logged and never abort the sweep. Returns the number of
// complaints newly escalated by this run.
func (s *EscalationService) Sweep(ctx context.Context) (int, error) {
	s.logger.Info("running escalation sweep")

	complaints, err := s.complaints.ListAll(ctx)
	if err != nil {
		return 0, err
	}

	var escalated int64
	jobs := make(chan domain.Complaint)
	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for complaint := range jobs {
				ok, err := s.Check(ctx, &complaint)
				if err != nil {
					// Most likely a concurrent conflicting write; the next
					// sweep retries anything still eligible.
					s.logger.Warn("could not escalate complaint",
						zap.String("number", complaint.Number), zap.Error(err))
					continue
				}
				if ok {
					atomic.AddInt64(&escalated, 1)
					s.logger.Info("escalated complaint",
						zap.String("number", complaint.Number),
						zap.String("priority", complaint.Priority))
				}
			}
		}()
	}
	for _, complaint := range complaints {
		jobs <- complaint
	}
	close(jobs)
	wg.Wait()

	s.logger.Info("escalation sweep complete", zap.Int64("escalated", escalated))
	return int(escalated), nil
}

// Check applies the sweep's eligibility and threshold logic to a single
// complaint and reports whether it escalated.
func (s *EscalationService) Check(ctx context.Context, complaint *domain.Complaint) (bool, error) {
	if complaint.Escalated ||
		complaint.Status == domain.StatusResolved ||
		complaint.Status == domain.StatusClosed {
		return false, nil
	}

	now := s.now()
	days := int(now.Sub(complaint.CreatedAt).Hours()) / 24
	if days < escalationDays(complaint.Priority) {
		return false, nil
	}

	complaint.Escalated = true
	escalatedAt := now
	complaint.EscalatedAt = &escalatedAt
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return false, err
	}

	if s.dispatcher != nil {
		_ = s.dispatcher.Publish(ctx, events.Event{
			ID:          uuid.NewString(),
			Type:        events.EventComplaintEscalated,
			ComplaintID: complaint.ID,
			Timestamp:   now,
			Payload: events.EscalatedPayload{
				Number:    complaint.Number,
				Title:     complaint.Title,
				Priority:  complaint.Priority,
				CreatorID: complaint.CreatedByID,
				Anonymous: complaint.Anonymous,
			},
		})
	}
	return true, nil
}

// Escalate is the explicit admin action, independent of the overdue sweep.
// It fails on an already-escalated complaint and appends one audit record
// with unchanged status values.
func (s *EscalationService) Escalate(ctx context.Context, id int64, actor *domain.User) (*domain.Complaint, error) {
	complaint, err := s.complaints.GetByID(ctx, id)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if complaint.Escalated {
		return nil, apperrors.NewConflict("complaint is already escalated", map[string]any{"complaint_id": id})
	}

	now := s.now()
	complaint.Escalated = true
	complaint.EscalatedAt = &now
	if err := s.complaints.Update(ctx, complaint); err != nil {
		return nil, apperrors.MapError(err)
	}

	update := &domain.ComplaintUpdate{
		ComplaintID: complaint.ID,
		OldStatus:   complaint.Status,
		NewStatus:   complaint.Status,
		Comment:     "Manual Escalation by Admin",
	}
	if actor != nil {
		update.UpdatedByID = &actor.ID
	}
	if err := s.updates.Create(ctx, update); err != nil {
		return nil, apperrors.MapError(err)
	}

	if s.dispatcher != nil {
		event := events.Event{
			ID:          uuid.NewString(),
			Type:        events.EventComplaintEscalated,
			ComplaintID: complaint.ID,
			Timestamp:   now,
			Payload: events.EscalatedPayload{
				Number:    complaint.Number,
				Title:     complaint.Title,
				Priority:  complaint.Priority,
				CreatorID: complaint.CreatedByID,
				Anonymous: complaint.Anonymous,
				Manual:    true,
			},
		}
		if actor != nil {
			event.ActorID = &actor.ID
		}
		_ = s.dispatcher.Publish(ctx, event)
	}

	return complaint, nil
}
