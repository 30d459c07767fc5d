// Package http provides HTTP handlers for webhook ingestion and
// connection-event polling.
package http

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/brandwire/dispatch/internal/errors"
	"github.com/brandwire/dispatch/internal/httputil"
	customValidation "github.com/brandwire/dispatch/internal/validation"
	"github.com/brandwire/dispatch/internal/webhook/http/dto"
	webhookUseCase "github.com/brandwire/dispatch/internal/webhook/usecase"
)

// signatureHeader carries the hex-encoded HMAC-SHA256 of the raw body.
const signatureHeader = "X-Webhook-Signature"

// WebhookHandler handles inbound connection-status webhooks and the
// polling endpoint clients hit after the OAuth redirect.
type WebhookHandler struct {
	webhookUseCase webhookUseCase.WebhookUseCase
	signingSecret  string
	logger         *slog.Logger
}

// NewWebhookHandler creates a webhook handler. An empty signing secret
// disables signature verification; unsigned deliveries are then accepted
// with a warning on every request.
func NewWebhookHandler(
	webhookUseCase webhookUseCase.WebhookUseCase,
	signingSecret string,
	logger *slog.Logger,
) *WebhookHandler {
	return &WebhookHandler{
		webhookUseCase: webhookUseCase,
		signingSecret:  signingSecret,
		logger:         logger,
	}
}

// IngestHandler accepts a connection-status event.
// POST /v1/webhooks/connection-status
func (h *WebhookHandler) IngestHandler(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		httputil.HandleBadRequestGin(c, err, h.logger)
		return
	}

	if !h.verifySignature(body, c.GetHeader(signatureHeader)) {
		httputil.HandleErrorGin(c,
			apperrors.Wrap(apperrors.ErrUnauthorized, "invalid webhook signature"), h.logger)
		return
	}

	var req dto.ConnectionStatusRequest
	if err := json.Unmarshal(body, &req); err != nil {
		httputil.HandleValidationErrorGin(c, err, h.logger)
		return
	}

	if err := req.Validate(); err != nil {
		httputil.HandleValidationErrorGin(c, customValidation.WrapValidationError(err), h.logger)
		return
	}

	if err := h.webhookUseCase.Ingest(c.Request.Context(), req.ToDomain()); err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "accepted"})
}

// LatestEventHandler returns the most recent event for a tenant key.
// GET /v1/connection-events/:tenantKey
func (h *WebhookHandler) LatestEventHandler(c *gin.Context) {
	event, err := h.webhookUseCase.Latest(c.Request.Context(), c.Param("tenantKey"))
	if err != nil {
		httputil.HandleErrorGin(c, err, h.logger)
		return
	}

	c.JSON(http.StatusOK, dto.MapEventToResponse(event))
}

// verifySignature checks the HMAC-SHA256 of the raw body against the
// signature header. Without a configured secret, every delivery passes and
// the gap is logged.
func (h *WebhookHandler) verifySignature(body []byte, signature string) bool {
	if h.signingSecret == "" {
		h.logger.Warn("webhook signing secret not configured, accepting unsigned delivery")
		return true
	}

	mac := hmac.New(sha256.New, []byte(h.signingSecret))
	mac.Write(body)
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
