// Package dto provides data transfer objects for the webhook HTTP API.
package dto

import (
	"time"

	validation "github.com/jellydator/validation"

	"github.com/brandwire/dispatch/internal/webhook/domain"
)

// ConnectionStatusRequest is the aggregator's connection-status delivery.
type ConnectionStatusRequest struct {
	Event   string `json:"event"`
	Payload struct {
		ConnectedAccountID string `json:"connectedAccountId"`
		IntegrationID      string `json:"integrationId"`
		ClientUniqueUserID string `json:"clientUniqueUserId"`
		Status             string `json:"status"`
	} `json:"payload"`
	Timestamp time.Time `json:"timestamp"`
}

// Validate validates the request.
func (r ConnectionStatusRequest) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Event, validation.Required),
	)
}

// ToDomain converts the request to a domain event. Deliveries without a
// timestamp get the receive time so cache ordering stays meaningful.
func (r ConnectionStatusRequest) ToDomain() domain.ConnectionEvent {
	timestamp := r.Timestamp
	if timestamp.IsZero() {
		timestamp = time.Now().UTC()
	}
	return domain.ConnectionEvent{
		Event: r.Event,
		Payload: domain.ConnectionEventPayload{
			ConnectedAccountID: r.Payload.ConnectedAccountID,
			IntegrationID:      r.Payload.IntegrationID,
			ClientUniqueUserID: r.Payload.ClientUniqueUserID,
			Status:             r.Payload.Status,
		},
		Timestamp: timestamp,
	}
}
