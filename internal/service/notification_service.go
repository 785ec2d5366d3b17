package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/mail"
	"github.com/spec-kit/complaint-service/internal/repository"
	apperrors "github.com/spec-kit/complaint-service/pkg/util"
)

const (
	adminUnreadKey     = "notif:unread:admin"
	userUnreadKeyFmt   = "notif:unread:user:%d"
	unreadCacheTTL     = 5 * time.Minute
	adminReviewMessage = "Escalated complaint '%s' (%s) has been RESOLVED. Please review and close."
)

// NotificationService turns domain events into persisted notification rows
// and best-effort emails, and serves the polled notification read model.
// Every failure on the write side is logged and swallowed: a committed state
// change is never affected by its side effects.
type NotificationService struct {
	dispatcher        events.Dispatcher
	notifications     repository.NotificationRepository
	userNotifications repository.UserNotificationRepository
	users             repository.UserRepository
	mailer            *mail.Mailer
	cache             *redis.Client
	logger            *zap.Logger
}

// NotificationDependencies bundles collaborators.
type NotificationDependencies struct {
	Dispatcher           events.Dispatcher
	NotificationRepo     repository.NotificationRepository
	UserNotificationRepo repository.UserNotificationRepository
	UserRepo             repository.UserRepository
	Mailer               *mail.Mailer
	Cache                *redis.Client
}

// NewNotificationService creates the service.
func NewNotificationService(deps NotificationDependencies, logger *zap.Logger) *NotificationService {
	return &NotificationService{
		dispatcher:        deps.Dispatcher,
		notifications:     deps.NotificationRepo,
		userNotifications: deps.UserNotificationRepo,
		users:             deps.UserRepo,
		mailer:            deps.Mailer,
		cache:             deps.Cache,
		logger:            logger,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventComplaintCreated, n.handleComplaintCreated)
	n.dispatcher.Subscribe(events.EventComplaintStatusChanged, n.handleStatusChanged)
	n.dispatcher.Subscribe(events.EventComplaintEscalated, n.handleEscalated)
	n.dispatcher.Subscribe(events.EventResolutionReported, n.handleResolutionReported)
}

func (n *NotificationService) handleComplaintCreated(_ context.Context, event events.Event) error {
	n.logger.Info("complaint created", zap.Int64("complaint_id", event.ComplaintID), zap.Any("payload", event.Payload))
	return nil
}

func (n *NotificationService) handleStatusChanged(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.StatusChangedPayload)
	if !ok {
		return nil
	}

	if payload.OldStatus != payload.NewStatus && !payload.Anonymous && payload.CreatorID != 0 {
		message := fmt.Sprintf("Your complaint '%s' status changed to %s",
			payload.Title, strings.ReplaceAll(string(payload.NewStatus), "_", " "))
		n.createUserNotification(ctx, &domain.UserNotification{
			UserID:      payload.CreatorID,
			ComplaintID: event.ComplaintID,
			Type:        domain.NotificationStatusUpdate,
			Message:     message,
		})

		if creator, err := n.users.GetByID(ctx, payload.CreatorID); err == nil {
			subject := "Status Update for " + payload.Number
			body := fmt.Sprintf(
				"Hello,\n\nYour complaint '%s' (%s) has been updated.\n\nStatus changed from: %s\nStatus changed to: %s\n\nPlease log in to view more details.\n",
				payload.Title, payload.Number, payload.OldStatus, payload.NewStatus)
			go n.mailer.Send(creator.Email, subject, body)
		} else {
			n.logger.Warn("could not resolve creator for status email",
				zap.Int64("user_id", payload.CreatorID), zap.Error(err))
		}
	}

	if payload.Escalated && payload.NewStatus == domain.StatusResolved {
		n.createAdminNotification(ctx, &domain.Notification{
			ComplaintID: event.ComplaintID,
			Type:        domain.NotificationEscalatedResolved,
			Message:     fmt.Sprintf(adminReviewMessage, payload.Title, payload.Number),
		})
	}
	return nil
}

func (n *NotificationService) handleEscalated(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.EscalatedPayload)
	if !ok {
		return nil
	}
	if payload.Anonymous || payload.CreatorID == 0 {
		return nil
	}

	n.createUserNotification(ctx, &domain.UserNotification{
		UserID:      payload.CreatorID,
		ComplaintID: event.ComplaintID,
		Type:        domain.NotificationEscalated,
		Message:     fmt.Sprintf("Your complaint '%s' has been escalated for faster resolution", payload.Title),
	})

	if creator, err := n.users.GetByID(ctx, payload.CreatorID); err == nil {
		subject := "Complaint Escalated - " + payload.Number
		body := fmt.Sprintf(
			"Hello,\n\nYour complaint '%s' (%s) has been ESCALATED.\n\nPriority: %s\nThis complaint exceeded the expected resolution time and was escalated for faster handling.\n",
			payload.Title, payload.Number, payload.Priority)
		go n.mailer.Send(creator.Email, subject, body)
	}
	return nil
}

func (n *NotificationService) handleResolutionReported(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.ResolutionReportedPayload)
	if !ok {
		return nil
	}
	n.createAdminNotification(ctx, &domain.Notification{
		ComplaintID: event.ComplaintID,
		Type:        domain.NotificationResolvedPending,
		Message: fmt.Sprintf("Staff %s reports complaint #%s (\"%s\") as resolved. Awaiting admin approval.",
			payload.ReporterName, payload.Number, payload.Title),
	})
	return nil
}

func (n *NotificationService) createAdminNotification(ctx context.Context, notification *domain.Notification) {
	if err := n.notifications.Create(ctx, notification); err != nil {
		n.logger.Error("failed to persist admin notification",
			zap.String("type", notification.Type), zap.Error(err))
		return
	}
	n.invalidate(ctx, adminUnreadKey)
}

func (n *NotificationService) createUserNotification(ctx context.Context, notification *domain.UserNotification) {
	if err := n.userNotifications.Create(ctx, notification); err != nil {
		n.logger.Error("failed to persist user notification",
			zap.String("type", notification.Type), zap.Error(err))
		return
	}
	n.invalidate(ctx, fmt.Sprintf(userUnreadKeyFmt, notification.UserID))
}

// ListAdmin returns admin notifications, newest first.
func (n *NotificationService) ListAdmin(ctx context.Context) ([]domain.Notification, error) {
	return n.notifications.List(ctx)
}

// AdminUnreadCount returns the unread admin notification count, served from
// the Redis cache when available.
func (n *NotificationService) AdminUnreadCount(ctx context.Context) (int64, error) {
	if count, ok := n.cachedCount(ctx, adminUnreadKey); ok {
		return count, nil
	}
	count, err := n.notifications.UnreadCount(ctx)
	if err != nil {
		return 0, err
	}
	n.storeCount(ctx, adminUnreadKey, count)
	return count, nil
}

// MarkAdminRead marks one admin notification as read.
func (n *NotificationService) MarkAdminRead(ctx context.Context, id int64) error {
	if err := n.notifications.MarkRead(ctx, id); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("notification", map[string]any{"notification_id": id})
		}
		return apperrors.MapError(err)
	}
	n.invalidate(ctx, adminUnreadKey)
	return nil
}

// MarkAllAdminRead marks every admin notification as read.
func (n *NotificationService) MarkAllAdminRead(ctx context.Context) error {
	if err := n.notifications.MarkAllRead(ctx); err != nil {
		return apperrors.MapError(err)
	}
	n.invalidate(ctx, adminUnreadKey)
	return nil
}

// ListForUser returns a user's notifications, newest first.
func (n *NotificationService) ListForUser(ctx context.Context, userID int64) ([]domain.UserNotification, error) {
	return n.userNotifications.ListByUser(ctx, userID)
}

// UserUnreadCount returns the unread count for one user.
func (n *NotificationService) UserUnreadCount(ctx context.Context, userID int64) (int64, error) {
	key := fmt.Sprintf(userUnreadKeyFmt, userID)
	if count, ok := n.cachedCount(ctx, key); ok {
		return count, nil
	}
	count, err := n.userNotifications.UnreadCountByUser(ctx, userID)
	if err != nil {
		return 0, err
	}
	n.storeCount(ctx, key, count)
	return count, nil
}

// MarkUserRead marks one of the user's notifications as read.
func (n *NotificationService) MarkUserRead(ctx context.Context, id, userID int64) error {
	if err := n.userNotifications.MarkRead(ctx, id, userID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.NewNotFound("notification", map[string]any{"notification_id": id})
		}
		return apperrors.MapError(err)
	}
	n.invalidate(ctx, fmt.Sprintf(userUnreadKeyFmt, userID))
	return nil
}

// MarkAllUserRead marks every notification of the user as read.
func (n *NotificationService) MarkAllUserRead(ctx context.Context, userID int64) error {
	if err := n.userNotifications.MarkAllRead(ctx, userID); err != nil {
		return apperrors.MapError(err)
	}
	n.invalidate(ctx, fmt.Sprintf(userUnreadKeyFmt, userID))
	return nil
}

func (n *NotificationService) cachedCount(ctx context.Context, key string) (int64, bool) {
	if n.cache == nil {
		return 0, false
	}
	val, err := n.cache.Get(ctx, key).Result()
	if err != nil {
		return 0, false
	}
	count, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false
	}
	return count, true
}

func (n *NotificationService) storeCount(ctx context.Context, key string, count int64) {
	if n.cache == nil {
		return
	}
	if err := n.cache.Set(ctx, key, strconv.FormatInt(count, 10), unreadCacheTTL).Err(); err != nil {
		n.logger.Debug("unread-count cache set failed", zap.String("key", key), zap.Error(err))
	}
}

func (n *NotificationService) invalidate(ctx context.Context, key string) {
	if n.cache == nil {
		return
	}
	if err := n.cache.Del(ctx, key).Err(); err != nil {
		n.logger.Debug("unread-count cache invalidation failed", zap.String("key", key), zap.Error(err))
	}
}
