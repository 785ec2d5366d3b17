package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/config"
	"github.com/spec-kit/complaint-service/internal/domain"
	"github.com/spec-kit/complaint-service/internal/events"
	"github.com/spec-kit/complaint-service/internal/mail"
)

type notificationFixture struct {
	svc               *NotificationService
	dispatcher        events.Dispatcher
	notifications     *memNotificationRepo
	userNotifications *memUserNotificationRepo
	users             *memUserRepo
}

func newNotificationFixture(t *testing.T) *notificationFixture {
	t.Helper()
	dispatcher := events.NewInMemoryDispatcher()
	notifications := newMemNotificationRepo()
	userNotifications := newMemUserNotificationRepo()
	users := newMemUserRepo()
	svc := NewNotificationService(NotificationDependencies{
		Dispatcher:           dispatcher,
		NotificationRepo:     notifications,
		UserNotificationRepo: userNotifications,
		UserRepo:             users,
		Mailer:               mail.NewMailer(config.MailConfig{}, zap.NewNop()),
		Cache:                nil,
	}, zap.NewNop())
	svc.RegisterHandlers()
	return &notificationFixture{
		svc:               svc,
		dispatcher:        dispatcher,
		notifications:     notifications,
		userNotifications: userNotifications,
		users:             users,
	}
}

func statusEvent(complaintID, creatorID int64, from, to domain.ComplaintStatus, anonymous, escalated bool) events.Event {
	return events.Event{
		ID:          "evt-1",
		Type:        events.EventComplaintStatusChanged,
		ComplaintID: complaintID,
		Timestamp:   time.Now(),
		Payload: events.StatusChangedPayload{
			Number:    "CMP-00001",
			Title:     "Broken lift",
			OldStatus: from,
			NewStatus: to,
			CreatorID: creatorID,
			Anonymous: anonymous,
			Escalated: escalated,
		},
	}
}

func TestStatusChangeNotifiesCreator(t *testing.T) {
	f := newNotificationFixture(t)
	creator := testUser(t, f.users, domain.RoleUser)

	err := f.dispatcher.Publish(context.Background(),
		statusEvent(10, creator.ID, domain.StatusNew, domain.StatusUnderReview, false, false))
	require.NoError(t, err)

	items, err := f.userNotifications.ListByUser(context.Background(), creator.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.NotificationStatusUpdate, items[0].Type)
	assert.Contains(t, items[0].Message, "Broken lift")
	assert.Contains(t, items[0].Message, "UNDER REVIEW")
}

func TestAnonymousStatusChangeStaysQuiet(t *testing.T) {
	f := newNotificationFixture(t)
	creator := testUser(t, f.users, domain.RoleUser)

	err := f.dispatcher.Publish(context.Background(),
		statusEvent(10, creator.ID, domain.StatusNew, domain.StatusUnderReview, true, false))
	require.NoError(t, err)

	items, err := f.userNotifications.ListByUser(context.Background(), creator.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestCommentOnlyEventDoesNotNotify(t *testing.T) {
	f := newNotificationFixture(t)
	creator := testUser(t, f.users, domain.RoleUser)

	err := f.dispatcher.Publish(context.Background(),
		statusEvent(10, creator.ID, domain.StatusNew, domain.StatusNew, false, false))
	require.NoError(t, err)

	items, err := f.userNotifications.ListByUser(context.Background(), creator.ID)
	require.NoError(t, err)
	assert.Empty(t, items)
}

func TestEscalatedResolutionAlertsAdmins(t *testing.T) {
	f := newNotificationFixture(t)
	creator := testUser(t, f.users, domain.RoleUser)

	err := f.dispatcher.Publish(context.Background(),
		statusEvent(10, creator.ID, domain.StatusUnderReview, domain.StatusResolved, false, true))
	require.NoError(t, err)

	items, err := f.notifications.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.NotificationEscalatedResolved, items[0].Type)
	assert.Contains(t, items[0].Message, "RESOLVED")
}

func TestResolutionReportCreatesAdminNotification(t *testing.T) {
	f := newNotificationFixture(t)

	err := f.dispatcher.Publish(context.Background(), events.Event{
		ID:          "evt-2",
		Type:        events.EventResolutionReported,
		ComplaintID: 10,
		Timestamp:   time.Now(),
		Payload: events.ResolutionReportedPayload{
			Number:       "CMP-00001",
			Title:        "Broken lift",
			ReporterName: "Sam Staff",
		},
	})
	require.NoError(t, err)

	items, err := f.notifications.List(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.NotificationResolvedPending, items[0].Type)
	assert.Contains(t, items[0].Message, "Sam Staff")
}

func TestEscalationEventNotifiesCreator(t *testing.T) {
	f := newNotificationFixture(t)
	creator := testUser(t, f.users, domain.RoleUser)

	err := f.dispatcher.Publish(context.Background(), events.Event{
		ID:          "evt-3",
		Type:        events.EventComplaintEscalated,
		ComplaintID: 10,
		Timestamp:   time.Now(),
		Payload: events.EscalatedPayload{
			Number:    "CMP-00001",
			Title:     "Broken lift",
			Priority:  domain.PriorityCritical,
			CreatorID: creator.ID,
		},
	})
	require.NoError(t, err)

	items, err := f.userNotifications.ListByUser(context.Background(), creator.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, domain.NotificationEscalated, items[0].Type)
}

func TestUnreadCountAndMarkRead(t *testing.T) {
	f := newNotificationFixture(t)
	creator := testUser(t, f.users, domain.RoleUser)

	for i := 0; i < 3; i++ {
		err := f.dispatcher.Publish(context.Background(),
			statusEvent(int64(i+1), creator.ID, domain.StatusNew, domain.StatusUnderReview, false, false))
		require.NoError(t, err)
	}

	count, err := f.svc.UserUnreadCount(context.Background(), creator.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)

	items, err := f.svc.ListForUser(context.Background(), creator.ID)
	require.NoError(t, err)
	require.Len(t, items, 3)

	require.NoError(t, f.svc.MarkUserRead(context.Background(), items[0].ID, creator.ID))
	count, err = f.svc.UserUnreadCount(context.Background(), creator.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	require.NoError(t, f.svc.MarkAllUserRead(context.Background(), creator.ID))
	count, err = f.svc.UserUnreadCount(context.Background(), creator.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestMarkReadIsScopedToOwner(t *testing.T) {
	f := newNotificationFixture(t)
	creator := testUser(t, f.users, domain.RoleUser)
	other := testUser(t, f.users, domain.RoleStaff)

	err := f.dispatcher.Publish(context.Background(),
		statusEvent(1, creator.ID, domain.StatusNew, domain.StatusUnderReview, false, false))
	require.NoError(t, err)

	items, err := f.svc.ListForUser(context.Background(), creator.ID)
	require.NoError(t, err)
	require.Len(t, items, 1)

	err = f.svc.MarkUserRead(context.Background(), items[0].ID, other.ID)
	require.Error(t, err)
}
