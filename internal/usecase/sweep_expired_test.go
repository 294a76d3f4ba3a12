package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/xavierca1/ligue-preliminaries/internal/entity"
)

func TestSweepExpiredUsesRetentionWindow(t *testing.T) {
	repo := new(MockPreliminaryLeadRepository)
	pub := new(MockEventPublisher)
	wantCutoff := fixedNow.Add(-13 * 24 * time.Hour)
	repo.On("DeleteOlderThan", mock.Anything, wantCutoff).Return(int64(3), nil)
	pub.On("Publish", mock.Anything, mock.Anything).Return(nil)

	uc := NewSweepExpiredUseCase(repo, pub, nil, 0)
	uc.Now = fixedClock

	out, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Equal(t, int64(3), out.Deleted)
	assert.True(t, out.Cutoff.Equal(wantCutoff))
	repo.AssertExpectations(t)
	pub.AssertExpectations(t)
}

func TestSweepExpiredNothingToDelete(t *testing.T) {
	repo := new(MockPreliminaryLeadRepository)
	pub := new(MockEventPublisher)
	repo.On("DeleteOlderThan", mock.Anything, mock.Anything).Return(int64(0), nil)

	uc := NewSweepExpiredUseCase(repo, pub, nil, 48*time.Hour)
	uc.Now = fixedClock

	out, err := uc.Execute(context.Background())

	require.NoError(t, err)
	assert.Zero(t, out.Deleted)
	assert.True(t, out.Cutoff.Equal(fixedNow.Add(-48*time.Hour)))
	pub.AssertNotCalled(t, "Publish", mock.Anything, mock.Anything)
}

func TestSweepExpiredStoreError(t *testing.T) {
	repo := new(MockPreliminaryLeadRepository)
	repo.On("DeleteOlderThan", mock.Anything, mock.Anything).Return(int64(0), fmt.Errorf("%w: %w", entity.ErrStoreUnavailable, context.DeadlineExceeded))

	uc := NewSweepExpiredUseCase(repo, nil, nil, 0)
	_, err := uc.Execute(context.Background())

	assert.ErrorIs(t, err, entity.ErrStoreUnavailable)
}
