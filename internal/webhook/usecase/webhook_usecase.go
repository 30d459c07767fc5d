// Package usecase implements connection-event ingestion. Ingestion only
// updates the event cache; connection state itself lives upstream in the
// aggregator, so replaying or reordering deliveries is harmless.
package usecase

import (
	"context"
	"log/slog"

	apperrors "github.com/brandwire/dispatch/internal/errors"
	"github.com/brandwire/dispatch/internal/webhook/domain"
)

type webhookUseCase struct {
	cache  EventCache
	logger *slog.Logger
}

// NewWebhookUseCase creates a WebhookUseCase.
func NewWebhookUseCase(cache EventCache, logger *slog.Logger) WebhookUseCase {
	return &webhookUseCase{cache: cache, logger: logger}
}

// Ingest caches the event under its tenant key. Events without a tenant key
// are acknowledged without caching; there is nothing to poll them by.
func (u *webhookUseCase) Ingest(ctx context.Context, event domain.ConnectionEvent) error {
	tenantKey := event.TenantKey()
	if tenantKey == "" {
		u.logger.Warn("connection event without tenant key ignored",
			"event", event.Event,
			"connected_account_id", event.Payload.ConnectedAccountID,
		)
		return nil
	}

	if err := u.cache.Set(ctx, tenantKey, event); err != nil {
		return err
	}

	u.logger.Info("connection event ingested",
		"event", event.Event,
		"tenant_key", tenantKey,
		"status", event.Payload.Status,
	)
	return nil
}

// Latest returns the most recent event for the tenant key.
func (u *webhookUseCase) Latest(ctx context.Context, tenantKey string) (*domain.ConnectionEvent, error) {
	if tenantKey == "" {
		return nil, apperrors.Wrap(apperrors.ErrInvalidInput, "tenant key is required")
	}
	return u.cache.Get(ctx, tenantKey)
}
