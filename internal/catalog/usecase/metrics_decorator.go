package usecase

import (
	"context"
	"time"

	"github.com/brandwire/dispatch/internal/catalog/domain"
	"github.com/brandwire/dispatch/internal/metrics"
)

// connectionUseCaseWithMetrics decorates ConnectionUseCase with metrics instrumentation.
type connectionUseCaseWithMetrics struct {
	next    ConnectionUseCase
	metrics metrics.BusinessMetrics
}

// NewConnectionUseCaseWithMetrics wraps a ConnectionUseCase with metrics recording.
func NewConnectionUseCaseWithMetrics(useCase ConnectionUseCase, m metrics.BusinessMetrics) ConnectionUseCase {
	return &connectionUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

func (c *connectionUseCaseWithMetrics) List(ctx context.Context, tenantID string) ([]domain.Connection, error) {
	start := time.Now()
	connections, err := c.next.List(ctx, tenantID)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "catalog", "list_connections", status)
	c.metrics.RecordDuration(ctx, "catalog", "list_connections", time.Since(start), status)

	return connections, err
}

func (c *connectionUseCaseWithMetrics) Disconnect(ctx context.Context, tenantID, connectionID string) error {
	start := time.Now()
	err := c.next.Disconnect(ctx, tenantID, connectionID)

	status := "success"
	if err != nil {
		status = "error"
	}

	c.metrics.RecordOperation(ctx, "catalog", "disconnect", status)
	c.metrics.RecordDuration(ctx, "catalog", "disconnect", time.Since(start), status)

	return err
}
