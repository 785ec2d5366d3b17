package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/complaint-service/internal/domain"
)

func seedNumbered(t *testing.T, complaints *memComplaintRepo, number string) *domain.Complaint {
	t.Helper()
	complaint := &domain.Complaint{
		Number:      number,
		Title:       "t",
		Description: "d",
		Status:      domain.StatusNew,
		Category:    "OTHER",
		Priority:    domain.PriorityMedium,
		CreatedByID: 1,
		CreatedAt:   time.Now(),
	}
	require.NoError(t, complaints.Create(context.Background(), complaint))
	return complaint
}

func TestNextNumberEmptyStore(t *testing.T) {
	gen := NewNumberGenerator(newMemComplaintRepo())

	number, err := gen.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CMP-00001", number)
}

func TestNextNumberIncrementsHighest(t *testing.T) {
	complaints := newMemComplaintRepo()
	seedNumbered(t, complaints, "CMP-00007")
	seedNumbered(t, complaints, "CMP-00042")
	seedNumbered(t, complaints, "CMP-00013")
	gen := NewNumberGenerator(complaints)

	number, err := gen.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CMP-00043", number)
}

func TestNextNumberBrokenSuffixFallsBackToID(t *testing.T) {
	complaints := newMemComplaintRepo()
	broken := seedNumbered(t, complaints, "CMP-notanumber")
	gen := NewNumberGenerator(complaints)

	number, err := gen.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, FormatNumber(broken.ID+1), number)
}

func TestNextNumberForeignPrefixRestarts(t *testing.T) {
	complaints := newMemComplaintRepo()
	seedNumbered(t, complaints, "TICKET-99")
	gen := NewNumberGenerator(complaints)

	number, err := gen.Next(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "CMP-00001", number)
}

func TestFormatNumberPadding(t *testing.T) {
	assert.Equal(t, "CMP-00001", FormatNumber(1))
	assert.Equal(t, "CMP-00100", FormatNumber(100))
	assert.Equal(t, "CMP-123456", FormatNumber(123456))
}
