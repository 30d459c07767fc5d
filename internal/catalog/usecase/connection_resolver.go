// Package usecase implements catalog resolution: mapping a tenant plus a
// platform onto exactly one active connection and one executable tool.
package usecase

import (
	"context"
	"log/slog"
	"strings"

	"github.com/brandwire/dispatch/internal/catalog/domain"
	apperrors "github.com/brandwire/dispatch/internal/errors"
)

// ConnectionResolver finds the single active connection a tenant holds for
// a platform by keyword-matching the connection's identification fields.
type ConnectionResolver struct {
	client CatalogClient
	logger *slog.Logger
}

// NewConnectionResolver creates a ConnectionResolver.
func NewConnectionResolver(client CatalogClient, logger *slog.Logger) *ConnectionResolver {
	return &ConnectionResolver{client: client, logger: logger}
}

// Resolve returns the tenant's active connection for the platform. Inactive
// connections never match. Zero matches yields ErrNotConnected; more than
// one yields ErrConnectionConflict, since the dispatcher cannot pick an
// account on the tenant's behalf.
func (r *ConnectionResolver) Resolve(
	ctx context.Context, tenantID, platform string, keywords []string,
) (*domain.Connection, error) {
	connections, err := r.client.ListConnections(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	var matches []domain.Connection
	for _, conn := range connections {
		if !conn.IsActive() {
			continue
		}
		haystack := conn.Haystack()
		for _, keyword := range keywords {
			if strings.Contains(haystack, strings.ToLower(keyword)) {
				matches = append(matches, conn)
				break
			}
		}
	}

	switch len(matches) {
	case 0:
		return nil, apperrors.Wrapf(
			apperrors.ErrNotConnected,
			"no active %s connection for tenant %s", platform, tenantID,
		)
	case 1:
		match := matches[0]
		r.logger.Debug("resolved platform connection",
			"tenant_id", tenantID,
			"platform", platform,
			"connection_id", match.ID,
		)
		return &match, nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		return nil, apperrors.Wrapf(
			apperrors.ErrConnectionConflict,
			"tenant %s has %d active %s connections (%s), expected exactly one",
			tenantID, len(matches), platform, strings.Join(ids, ", "),
		)
	}
}
