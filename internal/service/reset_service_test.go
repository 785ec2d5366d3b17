package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/complaint-service/internal/domain"
)

type resetFixture struct {
	svc           *ResetService
	complaints    *memComplaintRepo
	updates       *memUpdateRepo
	notifications *memNotificationRepo
	attachments   *memAttachmentRepo
	files         *memFileStore
}

func newResetFixture() *resetFixture {
	complaints := newMemComplaintRepo()
	updates := newMemUpdateRepo()
	notifications := newMemNotificationRepo()
	attachments := newMemAttachmentRepo()
	files := newMemFileStore()
	return &resetFixture{
		svc:           NewResetService(complaints, updates, notifications, attachments, files, zap.NewNop()),
		complaints:    complaints,
		updates:       updates,
		notifications: notifications,
		attachments:   attachments,
		files:         files,
	}
}

func (f *resetFixture) seed(t *testing.T, number string, status domain.ComplaintStatus, createdAt time.Time) *domain.Complaint {
	t.Helper()
	assignee := int64(7)
	complaint := &domain.Complaint{
		Number:      number,
		Title:       "t " + number,
		Description: "d",
		Status:      status,
		Category:    "OTHER",
		Priority:    domain.PriorityHigh,
		CreatedByID: 1,
		AssigneeID:  &assignee,
		CreatedAt:   createdAt,
	}
	require.NoError(t, f.complaints.Create(context.Background(), complaint))
	return complaint
}

func TestResetRenumbersInCreationOrder(t *testing.T) {
	f := newResetFixture()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	// Numbers deliberately out of order relative to creation time.
	oldest := f.seed(t, "CMP-00900", domain.StatusClosed, base)
	middle := f.seed(t, "CMP-00002", domain.StatusResolved, base.Add(time.Hour))
	newest := f.seed(t, "BROKEN-7", domain.StatusUnderReview, base.Add(2*time.Hour))

	require.NoError(t, f.svc.Reset(context.Background()))

	for i, id := range []int64{oldest.ID, middle.ID, newest.ID} {
		got, err := f.complaints.GetByID(context.Background(), id)
		require.NoError(t, err)
		assert.Equal(t, FormatNumber(int64(i+1)), got.Number)
		assert.Equal(t, domain.StatusNew, got.Status)
		assert.Nil(t, got.AssigneeID)
	}
}

// The final numbers collide with numbers other complaints still hold before
// renumbering; without the placeholder phase the unique constraint would
// reject the series.
func TestResetSurvivesNumberCollisions(t *testing.T) {
	f := newResetFixture()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)

	// Creation order is the reverse of the number order.
	f.seed(t, "CMP-00002", domain.StatusNew, base)
	f.seed(t, "CMP-00001", domain.StatusNew, base.Add(time.Minute))

	require.NoError(t, f.svc.Reset(context.Background()))

	all, err := f.complaints.ListOrderedByCreation(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "CMP-00001", all[0].Number)
	assert.Equal(t, "CMP-00002", all[1].Number)
}

func TestResetEmptiesHistoryAndStores(t *testing.T) {
	f := newResetFixture()
	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	complaint := f.seed(t, "CMP-00001", domain.StatusResolved, base)

	require.NoError(t, f.updates.Create(context.Background(), &domain.ComplaintUpdate{
		ComplaintID: complaint.ID,
		OldStatus:   domain.StatusNew,
		NewStatus:   domain.StatusUnderReview,
	}))
	require.NoError(t, f.notifications.Create(context.Background(), &domain.Notification{
		ComplaintID: complaint.ID,
		Type:        domain.NotificationResolvedPending,
		Message:     "m",
	}))
	key, err := f.files.Save("photo.jpg", []byte("bytes"))
	require.NoError(t, err)
	require.NoError(t, f.attachments.Create(context.Background(), &domain.Attachment{
		ComplaintID: complaint.ID,
		StorageKey:  key,
		FileName:    "photo.jpg",
	}))

	require.NoError(t, f.svc.Reset(context.Background()))

	assert.Empty(t, f.updates.all())
	notifications, err := f.notifications.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, notifications)
	attachments, err := f.attachments.ListAll(context.Background())
	require.NoError(t, err)
	assert.Empty(t, attachments)
	assert.Zero(t, f.files.count())

	// The complaints themselves survive the reset.
	all, err := f.complaints.ListAll(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestResetOnEmptyStore(t *testing.T) {
	f := newResetFixture()
	require.NoError(t, f.svc.Reset(context.Background()))
}
