package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/ligue-preliminaries/internal/entity"
	"github.com/xavierca1/ligue-preliminaries/internal/infra/queue"
)

// MockPreliminaryLeadRepository
type MockPreliminaryLeadRepository struct {
	mock.Mock
}

func (m *MockPreliminaryLeadRepository) Upsert(ctx context.Context, lead *entity.PreliminaryLead, now time.Time) (bool, error) {
	args := m.Called(ctx, lead, now)
	if args.Error(1) == nil && lead.ID == "" {
		lead.ID = "lead-123"
	}
	return args.Bool(0), args.Error(1)
}

func (m *MockPreliminaryLeadRepository) DeleteByKey(ctx context.Context, phone, landingURL string) (int64, error) {
	args := m.Called(ctx, phone, landingURL)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPreliminaryLeadRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockPreliminaryLeadRepository) FindByID(ctx context.Context, id string) (*entity.PreliminaryLead, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.PreliminaryLead), args.Error(1)
}

func (m *MockPreliminaryLeadRepository) ListRecent(ctx context.Context, limit int) ([]*entity.PreliminaryLead, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*entity.PreliminaryLead), args.Error(1)
}

// MockEventPublisher
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(ctx context.Context, event queue.LeadEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

var fixedNow = time.Date(2026, 10, 17, 12, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }
