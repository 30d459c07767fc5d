package usecase

import (
	"context"

	"github.com/brandwire/dispatch/internal/webhook/domain"
)

// EventCache stores the latest connection event per tenant key.
type EventCache interface {
	Set(ctx context.Context, tenantKey string, event domain.ConnectionEvent) error
	Get(ctx context.Context, tenantKey string) (*domain.ConnectionEvent, error)
}

// WebhookUseCase ingests connection-status events and serves client polls.
type WebhookUseCase interface {
	Ingest(ctx context.Context, event domain.ConnectionEvent) error
	Latest(ctx context.Context, tenantKey string) (*domain.ConnectionEvent, error)
}
