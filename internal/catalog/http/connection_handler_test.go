package http

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	catalogDomain "github.com/brandwire/dispatch/internal/catalog/domain"
	"github.com/brandwire/dispatch/internal/catalog/http/dto"
	apperrors "github.com/brandwire/dispatch/internal/errors"
)

// MockConnectionUseCase is a mock implementation of catalogUseCase.ConnectionUseCase
type MockConnectionUseCase struct {
	mock.Mock
}

func (m *MockConnectionUseCase) List(ctx context.Context, tenantID string) ([]catalogDomain.Connection, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalogDomain.Connection), args.Error(1)
}

func (m *MockConnectionUseCase) Disconnect(ctx context.Context, tenantID, connectionID string) error {
	args := m.Called(ctx, tenantID, connectionID)
	return args.Error(0)
}

var testKeywords = map[string][]string{
	"reddit":   {"reddit"},
	"x":        {"twitter", "x-app"},
	"linkedin": {"linkedin"},
}

func setupConnectionHandler(t *testing.T) (*ConnectionHandler, *MockConnectionUseCase) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	mockUseCase := &MockConnectionUseCase{}
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	handler := NewConnectionHandler(mockUseCase, testKeywords, logger)
	return handler, mockUseCase
}

func createTestContext(method, target string, params gin.Params) (*gin.Context, *httptest.ResponseRecorder) {
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(method, target, nil)
	c.Params = params
	return c, w
}

func testConnection(id, status, raw string) catalogDomain.Connection {
	var conn catalogDomain.Connection
	conn.ID = id
	conn.Status = status
	conn.SetIntegrationRaw(json.RawMessage(raw))
	return conn
}

func TestConnectionHandler_ListHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupConnectionHandler(t)

		mockUseCase.On("List", mock.Anything, "tenant-1").Return([]catalogDomain.Connection{
			testConnection("conn-1", catalogDomain.ConnectionStatusActive, `"reddit"`),
			testConnection("conn-2", catalogDomain.ConnectionStatusFailed, `"twitter"`),
		}, nil)

		c, w := createTestContext(http.MethodGet, "/v1/tenants/tenant-1/connections",
			gin.Params{{Key: "tenantID", Value: "tenant-1"}})
		handler.ListHandler(c)

		require.Equal(t, http.StatusOK, w.Code)

		var response dto.ListConnectionsResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
		require.Len(t, response.Data, 2)
		assert.Equal(t, "reddit", response.Data[0].Platform)
		assert.True(t, response.Data[0].Active)
		assert.Equal(t, "x", response.Data[1].Platform)
		assert.False(t, response.Data[1].Active)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("MissingTenantID", func(t *testing.T) {
		handler, mockUseCase := setupConnectionHandler(t)

		c, w := createTestContext(http.MethodGet, "/v1/tenants//connections", nil)
		handler.ListHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUseCase.AssertNotCalled(t, "List")
	})

	t.Run("UpstreamUnavailable", func(t *testing.T) {
		handler, mockUseCase := setupConnectionHandler(t)

		mockUseCase.On("List", mock.Anything, "tenant-1").
			Return(nil, apperrors.Wrap(apperrors.ErrUpstreamUnavailable, "catalog request failed"))

		c, w := createTestContext(http.MethodGet, "/v1/tenants/tenant-1/connections",
			gin.Params{{Key: "tenantID", Value: "tenant-1"}})
		handler.ListHandler(c)

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestConnectionHandler_DisconnectHandler(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		handler, mockUseCase := setupConnectionHandler(t)

		mockUseCase.On("Disconnect", mock.Anything, "tenant-1", "conn-1").Return(nil)

		c, w := createTestContext(http.MethodDelete, "/v1/tenants/tenant-1/connections/conn-1",
			gin.Params{
				{Key: "tenantID", Value: "tenant-1"},
				{Key: "connectionID", Value: "conn-1"},
			})
		handler.DisconnectHandler(c)

		assert.Equal(t, http.StatusNoContent, w.Code)
		mockUseCase.AssertExpectations(t)
	})

	t.Run("NotFound", func(t *testing.T) {
		handler, mockUseCase := setupConnectionHandler(t)

		mockUseCase.On("Disconnect", mock.Anything, "tenant-1", "conn-x").
			Return(apperrors.Wrap(apperrors.ErrNotFound, "connection conn-x not found"))

		c, w := createTestContext(http.MethodDelete, "/v1/tenants/tenant-1/connections/conn-x",
			gin.Params{
				{Key: "tenantID", Value: "tenant-1"},
				{Key: "connectionID", Value: "conn-x"},
			})
		handler.DisconnectHandler(c)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("MissingConnectionID", func(t *testing.T) {
		handler, mockUseCase := setupConnectionHandler(t)

		c, w := createTestContext(http.MethodDelete, "/v1/tenants/tenant-1/connections/",
			gin.Params{{Key: "tenantID", Value: "tenant-1"}})
		handler.DisconnectHandler(c)

		assert.Equal(t, http.StatusBadRequest, w.Code)
		mockUseCase.AssertNotCalled(t, "Disconnect")
	})
}
