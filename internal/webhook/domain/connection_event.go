// Package domain defines the connection-status events pushed by the
// aggregator after a tenant completes (or fails) an OAuth flow.
package domain

import "time"

// ConnectionEventPayload carries the aggregator's account identifiers.
type ConnectionEventPayload struct {
	ConnectedAccountID string `json:"connectedAccountId"`
	IntegrationID      string `json:"integrationId"`
	ClientUniqueUserID string `json:"clientUniqueUserId"`
	Status             string `json:"status"`
}

// ConnectionEvent is one webhook delivery. The clientUniqueUserId is the
// tenant key clients poll with after the OAuth redirect.
type ConnectionEvent struct {
	Event     string                 `json:"event"`
	Payload   ConnectionEventPayload `json:"payload"`
	Timestamp time.Time              `json:"timestamp"`
}

// TenantKey returns the key the event is cached under.
func (e *ConnectionEvent) TenantKey() string {
	return e.Payload.ClientUniqueUserID
}
