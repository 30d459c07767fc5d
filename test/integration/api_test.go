// Package integration provides end-to-end integration tests for the dispatch
// API. Tests the full pipeline against both PostgreSQL and MySQL databases
// with fake catalog and executor services.
package integration

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/brandwire/dispatch/internal/app"
	"github.com/brandwire/dispatch/internal/config"
	"github.com/brandwire/dispatch/internal/testutil"
)

const (
	testInternalSecret = "integration-internal-secret"
	testWebhookSecret  = "integration-webhook-secret"
	testExecutorSecret = "integration-executor-secret"
	testCatalogAPIKey  = "integration-catalog-key"
)

// integrationTestContext holds all dependencies and state for integration testing.
type integrationTestContext struct {
	container     *app.Container
	server        *httptest.Server
	executorCalls *atomic.Int64
	dbDriver      string
}

// makeRequest performs an HTTP request and returns the response and body.
func (ctx *integrationTestContext) makeRequest(
	t *testing.T,
	method, path string,
	body interface{},
	useAuth bool,
) (*http.Response, []byte) {
	t.Helper()

	var bodyReader io.Reader
	if body != nil {
		bodyBytes, err := json.Marshal(body)
		require.NoError(t, err, "failed to marshal request body")
		bodyReader = bytes.NewReader(bodyBytes)
	}

	req, err := http.NewRequest(method, ctx.server.URL+path, bodyReader)
	require.NoError(t, err, "failed to create request")

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if useAuth {
		req.Header.Set("Authorization", "Bearer "+testInternalSecret)
	}

	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Do(req)
	require.NoError(t, err, "failed to perform request")

	respBody, err := io.ReadAll(resp.Body)
	require.NoError(t, err, "failed to read response body")
	if closeErr := resp.Body.Close(); closeErr != nil {
		t.Logf("Warning: failed to close response body: %v", closeErr)
	}

	return resp, respBody
}

// fakeCatalogServer serves a single ACTIVE reddit connection for tenant-1 and
// the reddit post creation tool.
func fakeCatalogServer(t *testing.T) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/v3/connected_accounts", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, testCatalogAPIKey, r.Header.Get("x-api-key"))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items":[
			{
				"id": "conn-reddit-1",
				"status": "ACTIVE",
				"app_name": "reddit",
				"integration": {"slug": "reddit"}
			}
		]}`)
	})
	mux.HandleFunc("/v3/tools", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"items":[
			{"slug": "REDDIT_CREATE_REDDIT_POST", "toolkit": {"slug": "reddit"}},
			{"slug": "REDDIT_POST_COMMENT", "toolkit": {"slug": "reddit"}}
		]}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// fakeExecutorServer accepts dispatch requests and returns a posted reddit
// submission, counting how many posts actually went out.
func fakeExecutorServer(t *testing.T, calls *atomic.Int64) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/execute", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer "+testExecutorSecret, r.Header.Get("Authorization"))

		var req map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "REDDIT_CREATE_REDDIT_POST", req["tool"])
		assert.Equal(t, "conn-reddit-1", req["connection_id"])

		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{
			"successful": true,
			"data": {
				"id": "t3_abc123",
				"permalink": "/r/golang/comments/abc123/first_post/"
			}
		}`)
	})

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

// setupIntegrationTest initializes all components for integration testing.
func setupIntegrationTest(t *testing.T, dbDriver string) *integrationTestContext {
	t.Helper()

	gin.SetMode(gin.TestMode)

	// Setup database (runs migrations and truncates leftover data)
	var dsn string
	if dbDriver == "postgres" {
		db := testutil.SetupPostgresDB(t)
		testutil.TeardownDB(t, db)
		dsn = testutil.GetPostgresTestDSN()
	} else {
		db := testutil.SetupMySQLDB(t)
		testutil.TeardownDB(t, db)
		dsn = testutil.GetMySQLTestDSN()
	}

	catalogSrv := fakeCatalogServer(t)

	var executorCalls atomic.Int64
	executorSrv := fakeExecutorServer(t, &executorCalls)

	cfg := &config.Config{
		DBDriver:             dbDriver,
		DBConnectionString:   dsn,
		DBMaxOpenConnections: 10,
		DBMaxIdleConnections: 5,
		DBConnMaxLifetime:    time.Hour,
		ServerHost:           "localhost",
		ServerPort:           8080,
		LogLevel:             "error",

		InternalServiceSecret: testInternalSecret,
		WebhookSigningSecret:  testWebhookSecret,

		CatalogBaseURL: catalogSrv.URL,
		CatalogAPIKey:  testCatalogAPIKey,
		CatalogTimeout: 5 * time.Second,

		ExecutorBaseURL: executorSrv.URL,
		ExecutorSecret:  testExecutorSecret,
		ExecutorTimeout: 5 * time.Second,

		WorkerInterval:       time.Second,
		WorkerBatchSize:      10,
		SweepInterval:        time.Minute,
		PostingLeaseDuration: time.Minute,

		HourlyPostLimit: 10,
		DailyPostLimit:  1,

		WebhookRateLimitRequestsPerSec: 100,
		WebhookRateLimitBurst:          100,

		EventCacheTTL:      10 * time.Minute,
		EventCacheCapacity: 128,
	}

	container := app.NewContainer(cfg)
	t.Cleanup(func() {
		_ = container.Shutdown(t.Context())
	})

	httpSrv, err := container.HTTPServer()
	require.NoError(t, err, "failed to get HTTP server")

	handler := httpSrv.GetHandler()
	require.NotNil(t, handler, "handler should not be nil after SetupRouter")

	testServer := httptest.NewServer(handler)
	t.Cleanup(testServer.Close)

	return &integrationTestContext{
		container:     container,
		server:        testServer,
		executorCalls: &executorCalls,
		dbDriver:      dbDriver,
	}
}

// signWebhookBody computes the hex HMAC-SHA256 signature for a webhook body.
func signWebhookBody(body []byte) string {
	mac := hmac.New(sha256.New, []byte(testWebhookSecret))
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func runPipelineTests(t *testing.T, dbDriver string) {
	ctx := setupIntegrationTest(t, dbDriver)

	var firstItemID string

	t.Run("rejects requests without internal auth", func(t *testing.T) {
		resp, _ := ctx.makeRequest(t, http.MethodGet, "/v1/work-items", nil, false)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("creates a queued work item", func(t *testing.T) {
		body := map[string]interface{}{
			"tenant_id": "tenant-1",
			"platform":  "reddit",
			"subreddit": "r/golang",
			"title":     "First post",
			"kind":      "self",
			"text":      "hello from the pipeline",
		}
		resp, respBody := ctx.makeRequest(t, http.MethodPost, "/v1/work-items", body, true)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(respBody))

		var item map[string]interface{}
		require.NoError(t, json.Unmarshal(respBody, &item))
		assert.Equal(t, "queued", item["status"])
		assert.Equal(t, "tenant-1", item["tenant_id"])

		firstItemID, _ = item["id"].(string)
		require.NotEmpty(t, firstItemID)
	})

	t.Run("lists the tenant connections", func(t *testing.T) {
		resp, respBody := ctx.makeRequest(
			t, http.MethodGet, "/v1/tenants/tenant-1/connections", nil, true,
		)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(respBody))

		var listResponse struct {
			Data []map[string]interface{} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(respBody, &listResponse))
		require.Len(t, listResponse.Data, 1)
		assert.Equal(t, "conn-reddit-1", listResponse.Data[0]["id"])
		assert.Equal(t, "reddit", listResponse.Data[0]["platform"])
		assert.Equal(t, true, listResponse.Data[0]["active"])
	})

	t.Run("dispatches the first post through the executor", func(t *testing.T) {
		resp, respBody := ctx.makeRequest(
			t, http.MethodPost, "/v1/work-items/"+firstItemID+"/dispatch", nil, true,
		)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(respBody))

		var item map[string]interface{}
		require.NoError(t, json.Unmarshal(respBody, &item))
		assert.Equal(t, "posted", item["status"])
		assert.Equal(t, "t3_abc123", item["external_ref"])
		assert.Equal(t, "https://www.reddit.com/r/golang/comments/abc123/first_post/", item["external_url"])

		assert.Equal(t, int64(1), ctx.executorCalls.Load())
	})

	t.Run("denies the second post at admission and requeues it", func(t *testing.T) {
		body := map[string]interface{}{
			"tenant_id": "tenant-1",
			"platform":  "reddit",
			"subreddit": "r/golang",
			"title":     "Second post",
			"kind":      "self",
			"text":      "over the daily budget",
		}
		resp, respBody := ctx.makeRequest(t, http.MethodPost, "/v1/work-items", body, true)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(respBody))

		var item map[string]interface{}
		require.NoError(t, json.Unmarshal(respBody, &item))
		secondItemID, _ := item["id"].(string)
		require.NotEmpty(t, secondItemID)

		resp, respBody = ctx.makeRequest(
			t, http.MethodPost, "/v1/work-items/"+secondItemID+"/dispatch", nil, true,
		)
		assert.Equal(t, http.StatusTooManyRequests, resp.StatusCode, string(respBody))
		assert.Contains(t, string(respBody), "daily post limit reached")

		// The denied item goes back to queued with the denial note, and the
		// executor never saw it.
		resp, respBody = ctx.makeRequest(t, http.MethodGet, "/v1/work-items/"+secondItemID, nil, true)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(respBody))
		require.NoError(t, json.Unmarshal(respBody, &item))
		assert.Equal(t, "queued", item["status"])
		assert.Contains(t, item["last_error"], "daily post limit reached")

		assert.Equal(t, int64(1), ctx.executorCalls.Load())
	})

	t.Run("reports the consumed posting budget", func(t *testing.T) {
		resp, respBody := ctx.makeRequest(
			t, http.MethodGet, "/v1/tenants/tenant-1/rate-limits", nil, true,
		)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(respBody))

		var statusResponse struct {
			Data []struct {
				Bucket    string `json:"bucket"`
				Limit     int    `json:"limit"`
				Used      int    `json:"used"`
				Remaining int    `json:"remaining"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(respBody, &statusResponse))
		require.Len(t, statusResponse.Data, 2)

		for _, bucket := range statusResponse.Data {
			if bucket.Bucket == "daily" {
				assert.Equal(t, 1, bucket.Limit)
				assert.Equal(t, 0, bucket.Remaining)
			}
		}
	})

	t.Run("ingests a signed connection-status webhook", func(t *testing.T) {
		payload := map[string]interface{}{
			"event": "connection.status_changed",
			"payload": map[string]interface{}{
				"connectedAccountId": "conn-reddit-1",
				"integrationId":      "int-reddit",
				"clientUniqueUserId": "tenant-1",
				"status":             "ACTIVE",
			},
		}
		body, err := json.Marshal(payload)
		require.NoError(t, err)

		req, err := http.NewRequest(
			http.MethodPost, ctx.server.URL+"/v1/webhooks/connection-status", bytes.NewReader(body),
		)
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Webhook-Signature", signWebhookBody(body))

		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Do(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusOK, resp.StatusCode)

		// The latest event is readable back by tenant key.
		getResp, respBody := ctx.makeRequest(
			t, http.MethodGet, "/v1/connection-events/tenant-1", nil, true,
		)
		require.Equal(t, http.StatusOK, getResp.StatusCode, string(respBody))

		var event map[string]interface{}
		require.NoError(t, json.Unmarshal(respBody, &event))
		assert.Equal(t, "connection.status_changed", event["event"])
		assert.Equal(t, "ACTIVE", event["status"])
	})

	t.Run("rejects a tampered webhook", func(t *testing.T) {
		body := []byte(`{"event":"connection.status_changed","payload":{"clientUniqueUserId":"tenant-1"}}`)

		req, err := http.NewRequest(
			http.MethodPost, ctx.server.URL+"/v1/webhooks/connection-status", bytes.NewReader(body),
		)
		require.NoError(t, err)
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Webhook-Signature", signWebhookBody([]byte("different body")))

		client := &http.Client{Timeout: 10 * time.Second}
		resp, err := client.Do(req)
		require.NoError(t, err)
		defer func() { _ = resp.Body.Close() }()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("pause and resume transitions", func(t *testing.T) {
		body := map[string]interface{}{
			"tenant_id": "tenant-2",
			"platform":  "x",
			"text":      "pausable post",
		}
		resp, respBody := ctx.makeRequest(t, http.MethodPost, "/v1/work-items", body, true)
		require.Equal(t, http.StatusCreated, resp.StatusCode, string(respBody))

		var item map[string]interface{}
		require.NoError(t, json.Unmarshal(respBody, &item))
		itemID, _ := item["id"].(string)

		resp, respBody = ctx.makeRequest(t, http.MethodPost, "/v1/work-items/"+itemID+"/pause", nil, true)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(respBody))
		require.NoError(t, json.Unmarshal(respBody, &item))
		assert.Equal(t, "paused", item["status"])

		// Pausing a paused item is an invalid transition
		resp, _ = ctx.makeRequest(t, http.MethodPost, "/v1/work-items/"+itemID+"/pause", nil, true)
		assert.Equal(t, http.StatusConflict, resp.StatusCode)

		resp, respBody = ctx.makeRequest(t, http.MethodPost, "/v1/work-items/"+itemID+"/resume", nil, true)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(respBody))
		require.NoError(t, json.Unmarshal(respBody, &item))
		assert.Equal(t, "queued", item["status"])

		resp, respBody = ctx.makeRequest(t, http.MethodPost, "/v1/work-items/"+itemID+"/cancel", nil, true)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(respBody))
		require.NoError(t, json.Unmarshal(respBody, &item))
		assert.Equal(t, "cancelled", item["status"])
	})

	t.Run("lists work items filtered by tenant", func(t *testing.T) {
		resp, respBody := ctx.makeRequest(
			t, http.MethodGet, "/v1/work-items?tenant_id=tenant-1", nil, true,
		)
		require.Equal(t, http.StatusOK, resp.StatusCode, string(respBody))

		var listResponse struct {
			Data []map[string]interface{} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(respBody, &listResponse))
		assert.Len(t, listResponse.Data, 2)
		for _, item := range listResponse.Data {
			assert.Equal(t, "tenant-1", item["tenant_id"])
		}
	})
}

func TestDispatchPipelinePostgres(t *testing.T) {
	testutil.SkipIfNoPostgres(t)
	runPipelineTests(t, "postgres")
}

func TestDispatchPipelineMySQL(t *testing.T) {
	testutil.SkipIfNoMySQL(t)
	runPipelineTests(t, "mysql")
}
