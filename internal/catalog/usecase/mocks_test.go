package usecase

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/brandwire/dispatch/internal/catalog/domain"
)

// MockCatalogClient is a mock implementation of CatalogClient.
type MockCatalogClient struct {
	mock.Mock
}

func (m *MockCatalogClient) ListConnections(ctx context.Context, tenantID string) ([]domain.Connection, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Connection), args.Error(1)
}

func (m *MockCatalogClient) ListTools(ctx context.Context, tenantID string, toolkits []string) ([]domain.Tool, error) {
	args := m.Called(ctx, tenantID, toolkits)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Tool), args.Error(1)
}

func (m *MockCatalogClient) Execute(ctx context.Context, req domain.ExecuteRequest) (*domain.ExecuteResponse, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ExecuteResponse), args.Error(1)
}

func (m *MockCatalogClient) DeleteConnection(ctx context.Context, connectionID string) error {
	args := m.Called(ctx, connectionID)
	return args.Error(0)
}
