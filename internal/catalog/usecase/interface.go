package usecase

import (
	"context"

	"github.com/brandwire/dispatch/internal/catalog/domain"
)

// CatalogClient is the aggregator API surface the resolvers depend on.
type CatalogClient interface {
	ListConnections(ctx context.Context, tenantID string) ([]domain.Connection, error)
	ListTools(ctx context.Context, tenantID string, toolkits []string) ([]domain.Tool, error)
	Execute(ctx context.Context, req domain.ExecuteRequest) (*domain.ExecuteResponse, error)
	DeleteConnection(ctx context.Context, connectionID string) error
}

// ConnectionUseCase exposes the tenant connection operations behind the API.
type ConnectionUseCase interface {
	List(ctx context.Context, tenantID string) ([]domain.Connection, error)
	Disconnect(ctx context.Context, tenantID, connectionID string) error
}
