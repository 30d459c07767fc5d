// Package http provides HTTP handlers for tenant connection operations.
package http

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brandwire/dispatch/internal/catalog/http/dto"
	catalogUseCase "github.com/brandwire/dispatch/internal/catalog/usecase"
	"github.com/brandwire/dispatch/internal/httputil"
)

// ConnectionHandler handles HTTP requests for tenant connections.
type ConnectionHandler struct {
	connectionUseCase  catalogUseCase.ConnectionUseCase
	keywordsByPlatform map[string][]string
	logger             *slog.Logger
}

// NewConnectionHandler creates a new connection handler. keywordsByPlatform
// drives the platform label on list responses.
func NewConnectionHandler(
	connectionUseCase catalogUseCase.ConnectionUseCase,
	keywordsByPlatform map[string][]string,
	logger *slog.Logger,
) *ConnectionHandler {
	return &ConnectionHandler{
		connectionUseCase:  connectionUseCase,
		keywordsByPlatform: keywordsByPlatform,
		logger:             logger,
	}
}

// ListHandler lists a tenant's connections with derived platform labels.
// GET /v1/tenants/:tenantID/connections
func (h *ConnectionHandler) ListHandler(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	connections, err := h.connectionUseCase.List(c.Request.Context(), tenantID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapConnectionsToListResponse(connections, h.keywordsByPlatform))
}

// DisconnectHandler removes one of the tenant's connections.
// DELETE /v1/tenants/:tenantID/connections/:connectionID
func (h *ConnectionHandler) DisconnectHandler(c *gin.Context) {
	tenantID, ok := h.tenantID(c)
	if !ok {
		return
	}

	connectionID := c.Param("connectionID")
	if connectionID == "" {
		httputil.HandleBadRequestGin(c, fmt.Errorf("connection id is required"), h.logger)
		return
	}

	if err := h.connectionUseCase.Disconnect(c.Request.Context(), tenantID, connectionID); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *ConnectionHandler) tenantID(c *gin.Context) (string, bool) {
	tenantID := c.Param("tenantID")
	if tenantID == "" {
		httputil.HandleBadRequestGin(c, fmt.Errorf("tenant id is required"), h.logger)
		return "", false
	}
	return tenantID, true
}
