package usecase

import (
	"context"
	"time"

	"github.com/brandwire/dispatch/internal/metrics"
	"github.com/brandwire/dispatch/internal/webhook/domain"
)

// webhookUseCaseWithMetrics decorates WebhookUseCase with metrics instrumentation.
type webhookUseCaseWithMetrics struct {
	next    WebhookUseCase
	metrics metrics.BusinessMetrics
}

// NewWebhookUseCaseWithMetrics wraps a WebhookUseCase with metrics recording.
func NewWebhookUseCaseWithMetrics(useCase WebhookUseCase, m metrics.BusinessMetrics) WebhookUseCase {
	return &webhookUseCaseWithMetrics{
		next:    useCase,
		metrics: m,
	}
}

// Ingest records metrics for event ingestion.
func (w *webhookUseCaseWithMetrics) Ingest(ctx context.Context, event domain.ConnectionEvent) error {
	start := time.Now()
	err := w.next.Ingest(ctx, event)

	status := "success"
	if err != nil {
		status = "error"
	}

	w.metrics.RecordOperation(ctx, "webhook", "ingest", status)
	w.metrics.RecordDuration(ctx, "webhook", "ingest", time.Since(start), status)

	return err
}

// Latest returns the most recent event for the tenant key.
func (w *webhookUseCaseWithMetrics) Latest(ctx context.Context, tenantKey string) (*domain.ConnectionEvent, error) {
	return w.next.Latest(ctx, tenantKey)
}
