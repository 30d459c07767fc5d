package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	apperrors "github.com/brandwire/dispatch/internal/errors"
	"github.com/brandwire/dispatch/internal/webhook/domain"
	"github.com/brandwire/dispatch/internal/webhook/http/dto"
)

// MockWebhookUseCase is a mock implementation of webhookUseCase.WebhookUseCase
type MockWebhookUseCase struct {
	mock.Mock
}

func (m *MockWebhookUseCase) Ingest(ctx context.Context, event domain.ConnectionEvent) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockWebhookUseCase) Latest(ctx context.Context, tenantKey string) (*domain.ConnectionEvent, error) {
	args := m.Called(ctx, tenantKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConnectionEvent), args.Error(1)
}

const testSecret = "webhook-secret"

func setupWebhookHandler(t *testing.T, secret string) (*WebhookHandler, *MockWebhookUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &MockWebhookUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return NewWebhookHandler(mockUseCase, secret, logger), mockUseCase
}

func sign(secret string, body []byte) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func eventBody(t *testing.T, tenantKey, status string) []byte {
	t.Helper()

	body, err := json.Marshal(map[string]interface{}{
		"event": "connection.status_changed",
		"payload": map[string]string{
			"connectedAccountId": "conn-1",
			"integrationId":      "int-1",
			"clientUniqueUserId": tenantKey,
			"status":             status,
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
	require.NoError(t, err)
	return body
}

func postWebhook(handler *WebhookHandler, body []byte, signature string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodPost, "/v1/webhooks/connection-status", bytes.NewReader(body))
	if signature != "" {
		c.Request.Header.Set(signatureHeader, signature)
	}
	handler.IngestHandler(c)
	return w
}

func TestWebhookHandler_IngestHandler(t *testing.T) {
	t.Run("ValidSignature", func(t *testing.T) {
		handler, mockUseCase := setupWebhookHandler(t, testSecret)
		body := eventBody(t, "tenant-1", "ACTIVE")

		mockUseCase.On("Ingest", mock.Anything, mock.MatchedBy(func(event domain.ConnectionEvent) bool {
			return event.TenantKey() == "tenant-1" && event.Payload.Status == "ACTIVE"
		})).Return(nil)

		w := postWebhook(handler, body, sign(testSecret, body))

		assert.Equal(t, http.StatusOK, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("InvalidSignature", func(t *testing.T) {
		handler, mockUseCase := setupWebhookHandler(t, testSecret)
		body := eventBody(t, "tenant-1", "ACTIVE")

		w := postWebhook(handler, body, sign("wrong-secret", body))

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockUseCase.AssertNotCalled(t, "Ingest")
	})

	t.Run("MissingSignature", func(t *testing.T) {
		handler, mockUseCase := setupWebhookHandler(t, testSecret)
		body := eventBody(t, "tenant-1", "ACTIVE")

		w := postWebhook(handler, body, "")

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockUseCase.AssertNotCalled(t, "Ingest")
	})

	t.Run("TamperedBodyRejected", func(t *testing.T) {
		handler, mockUseCase := setupWebhookHandler(t, testSecret)
		body := eventBody(t, "tenant-1", "ACTIVE")
		signature := sign(testSecret, body)

		tampered := bytes.Replace(body, []byte("ACTIVE"), []byte("FAILED"), 1)
		w := postWebhook(handler, tampered, signature)

		assert.Equal(t, http.StatusUnauthorized, w.Code)
		mockUseCase.AssertNotCalled(t, "Ingest")
	})

	t.Run("NoSecretAcceptsUnsigned", func(t *testing.T) {
		handler, mockUseCase := setupWebhookHandler(t, "")
		body := eventBody(t, "tenant-1", "ACTIVE")

		mockUseCase.On("Ingest", mock.Anything, mock.Anything).Return(nil)

		w := postWebhook(handler, body, "")

		assert.Equal(t, http.StatusOK, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		handler, mockUseCase := setupWebhookHandler(t, testSecret)
		body := []byte(`{not json`)

		w := postWebhook(handler, body, sign(testSecret, body))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Ingest")
	})

	t.Run("MissingEventField", func(t *testing.T) {
		handler, mockUseCase := setupWebhookHandler(t, testSecret)
		body := []byte(`{"payload": {"clientUniqueUserId": "tenant-1"}}`)

		w := postWebhook(handler, body, sign(testSecret, body))

		assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
		mockUseCase.AssertNotCalled(t, "Ingest")
	})
}

func TestWebhookHandler_LatestEventHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupWebhookHandler(t, testSecret)

		event := &domain.ConnectionEvent{
			Event: "connection.status_changed",
			Payload: domain.ConnectionEventPayload{
				ConnectedAccountID: "conn-1",
				ClientUniqueUserID: "tenant-1",
				Status:             "ACTIVE",
			},
			Timestamp: time.Now().UTC(),
		}
		mockUseCase.On("Latest", mock.Anything, "tenant-1").Return(event, nil)

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/v1/connection-events/tenant-1", nil)
		c.Params = gin.Params{{Key: "tenantKey", Value: "tenant-1"}}
		handler.LatestEventHandler(c)

		require.Equal(t, http.StatusOK, w.Code)

		var response dto.ConnectionEventResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		assert.Equal(t, "tenant-1", response.TenantKey)
		assert.Equal(t, "ACTIVE", response.Status)
	})

	t.Run("NotFound", func(t *testing.T) {
		handler, mockUseCase := setupWebhookHandler(t, testSecret)

		mockUseCase.On("Latest", mock.Anything, "tenant-1").
			Return(nil, apperrors.Wrap(apperrors.ErrNotFound, "no connection event for tenant-1"))

		w := httptest.NewRecorder()
		c, _ := gin.CreateTestContext(w)
		c.Request = httptest.NewRequest(http.MethodGet, "/v1/connection-events/tenant-1", nil)
		c.Params = gin.Params{{Key: "tenantKey", Value: "tenant-1"}}
		handler.LatestEventHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}
