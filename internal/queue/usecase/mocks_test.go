package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	queueDomain "github.com/brandwire/dispatch/internal/queue/domain"
	"github.com/brandwire/dispatch/internal/queue/repository"
)

// MockWorkItemRepository is a mock implementation of WorkItemRepository
type MockWorkItemRepository struct {
	mock.Mock
}

func (m *MockWorkItemRepository) Create(ctx context.Context, item *queueDomain.WorkItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockWorkItemRepository) GetByID(
	ctx context.Context,
	id uuid.UUID,
) (*queueDomain.WorkItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queueDomain.WorkItem), args.Error(1)
}

func (m *MockWorkItemRepository) List(
	ctx context.Context,
	filter repository.ListFilter,
) ([]*queueDomain.WorkItem, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*queueDomain.WorkItem), args.Error(1)
}

func (m *MockWorkItemRepository) GetQueued(
	ctx context.Context,
	limit int,
) ([]*queueDomain.WorkItem, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*queueDomain.WorkItem), args.Error(1)
}

func (m *MockWorkItemRepository) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockWorkItemRepository) MarkPosted(
	ctx context.Context,
	id uuid.UUID,
	externalRef, externalURL string,
) error {
	args := m.Called(ctx, id, externalRef, externalURL)
	return args.Error(0)
}

func (m *MockWorkItemRepository) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *MockWorkItemRepository) Requeue(ctx context.Context, id uuid.UUID, note string) error {
	args := m.Called(ctx, id, note)
	return args.Error(0)
}

func (m *MockWorkItemRepository) RequeueExpired(
	ctx context.Context,
	leaseBefore time.Time,
) (int64, error) {
	args := m.Called(ctx, leaseBefore)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockWorkItemRepository) Pause(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockWorkItemRepository) Resume(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockWorkItemRepository) Cancel(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
