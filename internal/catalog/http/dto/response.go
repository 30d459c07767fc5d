// Package dto provides data transfer objects for the catalog HTTP API.
package dto

import (
	"github.com/brandwire/dispatch/internal/catalog/domain"
)

// ConnectionResponse is one tenant connection as exposed over the API. The
// platform label is derived from the connection's identification fields and
// is empty when no known platform matches.
type ConnectionResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	Platform      string `json:"platform,omitempty"`
	Integration   string `json:"integration,omitempty"`
	AppName       string `json:"app_name,omitempty"`
	IntegrationID string `json:"integration_id,omitempty"`
	Active        bool   `json:"active"`
}

// ListConnectionsResponse wraps a list of connection responses.
type ListConnectionsResponse struct {
	Data []ConnectionResponse `json:"data"`
}

// MapConnectionToResponse converts a domain connection to its API shape,
// classifying the platform with the given keyword sets.
func MapConnectionToResponse(conn *domain.Connection, keywordsByPlatform map[string][]string) ConnectionResponse {
	return ConnectionResponse{
		ID:            conn.ID,
		Status:        conn.Status,
		Platform:      ClassifyPlatform(conn, keywordsByPlatform),
		Integration:   conn.IntegrationSlug(),
		AppName:       conn.AppName,
		IntegrationID: conn.IntegrationID,
		Active:        conn.IsActive(),
	}
}

// MapConnectionsToListResponse converts a list of domain connections.
func MapConnectionsToListResponse(
	connections []domain.Connection, keywordsByPlatform map[string][]string,
) ListConnectionsResponse {
	responses := make([]ConnectionResponse, len(connections))
	for i := range connections {
		responses[i] = MapConnectionToResponse(&connections[i], keywordsByPlatform)
	}
	return ListConnectionsResponse{Data: responses}
}
