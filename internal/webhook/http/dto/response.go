package dto

import (
	"time"

	"github.com/brandwire/dispatch/internal/webhook/domain"
)

// ConnectionEventResponse is the most recent event for a tenant key.
type ConnectionEventResponse struct {
	Event              string    `json:"event"`
	ConnectedAccountID string    `json:"connected_account_id"`
	IntegrationID      string    `json:"integration_id"`
	TenantKey          string    `json:"tenant_key"`
	Status             string    `json:"status"`
	Timestamp          time.Time `json:"timestamp"`
}

// MapEventToResponse converts a domain event to its API shape.
func MapEventToResponse(event *domain.ConnectionEvent) ConnectionEventResponse {
	return ConnectionEventResponse{
		Event:              event.Event,
		ConnectedAccountID: event.Payload.ConnectedAccountID,
		IntegrationID:      event.Payload.IntegrationID,
		TenantKey:          event.Payload.ClientUniqueUserID,
		Status:             event.Payload.Status,
		Timestamp:          event.Timestamp,
	}
}
