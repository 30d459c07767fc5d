package usecase

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	catalogDomain "github.com/brandwire/dispatch/internal/catalog/domain"
	catalogUseCase "github.com/brandwire/dispatch/internal/catalog/usecase"
	dispatchDomain "github.com/brandwire/dispatch/internal/dispatch/domain"
	queueDomain "github.com/brandwire/dispatch/internal/queue/domain"
	ratelimitDomain "github.com/brandwire/dispatch/internal/ratelimit/domain"
)

// MockWorkItemStore is a mock implementation of WorkItemStore.
type MockWorkItemStore struct {
	mock.Mock
}

func (m *MockWorkItemStore) GetByID(ctx context.Context, id uuid.UUID) (*queueDomain.WorkItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queueDomain.WorkItem), args.Error(1)
}

func (m *MockWorkItemStore) GetQueued(ctx context.Context, limit int) ([]*queueDomain.WorkItem, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*queueDomain.WorkItem), args.Error(1)
}

func (m *MockWorkItemStore) Claim(ctx context.Context, id uuid.UUID) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}

func (m *MockWorkItemStore) MarkPosted(ctx context.Context, id uuid.UUID, externalRef, externalURL string) error {
	args := m.Called(ctx, id, externalRef, externalURL)
	return args.Error(0)
}

func (m *MockWorkItemStore) MarkFailed(ctx context.Context, id uuid.UUID, reason string) error {
	args := m.Called(ctx, id, reason)
	return args.Error(0)
}

func (m *MockWorkItemStore) Requeue(ctx context.Context, id uuid.UUID, note string) error {
	args := m.Called(ctx, id, note)
	return args.Error(0)
}

// MockAdmitter is a mock implementation of Admitter.
type MockAdmitter struct {
	mock.Mock
}

func (m *MockAdmitter) Admit(ctx context.Context, tenantID string) ratelimitDomain.Decision {
	args := m.Called(ctx, tenantID)
	return args.Get(0).(ratelimitDomain.Decision)
}

// MockConnectionResolver is a mock implementation of ConnectionResolver.
type MockConnectionResolver struct {
	mock.Mock
}

func (m *MockConnectionResolver) Resolve(
	ctx context.Context, tenantID, platform string, keywords []string,
) (*catalogDomain.Connection, error) {
	args := m.Called(ctx, tenantID, platform, keywords)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalogDomain.Connection), args.Error(1)
}

// MockToolResolver is a mock implementation of ToolResolver.
type MockToolResolver struct {
	mock.Mock
}

func (m *MockToolResolver) Resolve(
	ctx context.Context, tenantID string, spec catalogUseCase.ToolSpec,
) (string, error) {
	args := m.Called(ctx, tenantID, spec)
	return args.String(0), args.Error(1)
}

// MockExecutor is a mock implementation of Executor.
type MockExecutor struct {
	mock.Mock
}

func (m *MockExecutor) Execute(
	ctx context.Context, req catalogDomain.ExecuteRequest,
) (*dispatchDomain.ExecutionResult, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*dispatchDomain.ExecutionResult), args.Error(1)
}

// MockDispatchUseCase is a mock implementation of DispatchUseCase.
type MockDispatchUseCase struct {
	mock.Mock
}

func (m *MockDispatchUseCase) DispatchByID(ctx context.Context, id uuid.UUID) (*queueDomain.WorkItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*queueDomain.WorkItem), args.Error(1)
}

func (m *MockDispatchUseCase) DispatchClaimed(
	ctx context.Context, item *queueDomain.WorkItem,
) (dispatchDomain.Outcome, error) {
	args := m.Called(ctx, item)
	return args.Get(0).(dispatchDomain.Outcome), args.Error(1)
}
