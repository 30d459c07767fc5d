package usecase

import (
	"context"
	"log/slog"

	"github.com/brandwire/dispatch/internal/catalog/domain"
	apperrors "github.com/brandwire/dispatch/internal/errors"
)

// connectionUseCase implements ConnectionUseCase on top of the aggregator
// client.
type connectionUseCase struct {
	client CatalogClient
	logger *slog.Logger
}

// NewConnectionUseCase creates a ConnectionUseCase.
func NewConnectionUseCase(client CatalogClient, logger *slog.Logger) ConnectionUseCase {
	return &connectionUseCase{client: client, logger: logger}
}

// List returns every connection the aggregator holds for the tenant.
func (u *connectionUseCase) List(ctx context.Context, tenantID string) ([]domain.Connection, error) {
	return u.client.ListConnections(ctx, tenantID)
}

// Disconnect removes one of the tenant's connections. The connection must
// belong to the tenant; deleting another tenant's connection id is a
// not-found, never a cross-tenant delete.
func (u *connectionUseCase) Disconnect(ctx context.Context, tenantID, connectionID string) error {
	connections, err := u.client.ListConnections(ctx, tenantID)
	if err != nil {
		return err
	}

	owned := false
	for _, conn := range connections {
		if conn.ID == connectionID {
			owned = true
			break
		}
	}
	if !owned {
		return apperrors.Wrapf(
			apperrors.ErrNotFound,
			"connection %s not found for tenant %s", connectionID, tenantID,
		)
	}

	if err := u.client.DeleteConnection(ctx, connectionID); err != nil {
		return err
	}

	u.logger.Info("connection disconnected",
		"tenant_id", tenantID,
		"connection_id", connectionID,
	)
	return nil
}
