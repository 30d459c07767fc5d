// Package http provides the posting budget read-back endpoint.
package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/brandwire/dispatch/internal/httputil"
	ratelimitUseCase "github.com/brandwire/dispatch/internal/ratelimit/usecase"
)

// RateLimitHandler handles HTTP requests for posting budget status.
type RateLimitHandler struct {
	rateLimitUseCase ratelimitUseCase.RateLimitUseCase
	logger           *slog.Logger
}

// NewRateLimitHandler creates a new rate limit handler.
func NewRateLimitHandler(
	rateLimitUseCase ratelimitUseCase.RateLimitUseCase,
	logger *slog.Logger,
) *RateLimitHandler {
	return &RateLimitHandler{
		rateLimitUseCase: rateLimitUseCase,
		logger:           logger,
	}
}

// StatusHandler returns the tenant's used/remaining posting budget per window.
// GET /v1/tenants/:tenantID/rate-limits
func (h *RateLimitHandler) StatusHandler(c *gin.Context) {
	tenantID := c.Param("tenantID")

	statuses, err := h.rateLimitUseCase.Status(c.Request.Context(), tenantID)
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": statuses})
}
