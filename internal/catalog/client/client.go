// Package client implements the HTTP client for the aggregator's catalog
// API: tenant connections, tool listings, and tool execution.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/brandwire/dispatch/internal/catalog/domain"
	apperrors "github.com/brandwire/dispatch/internal/errors"
)

// Config holds the aggregator connection settings.
type Config struct {
	BaseURL string
	APIKey  string
	Timeout time.Duration
}

// Client talks to the aggregator's catalog API. Concurrent identical list
// calls are collapsed through singleflight so a worker batch resolving the
// same tenant does not fan out duplicate upstream requests.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	logger     *slog.Logger
	group      singleflight.Group
}

// NewClient creates a catalog client with a bounded request timeout.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// listEnvelope tolerates the aggregator's two list shapes: items under
// "items" or under "data".
type listEnvelope struct {
	Items json.RawMessage `json:"items"`
	Data  json.RawMessage `json:"data"`
}

func (e *listEnvelope) payload() json.RawMessage {
	if len(e.Items) > 0 {
		return e.Items
	}
	return e.Data
}

// ListConnections returns every connection the aggregator holds for the
// tenant, in any status.
func (c *Client) ListConnections(ctx context.Context, tenantID string) ([]domain.Connection, error) {
	key := "connections:" + tenantID
	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		endpoint := fmt.Sprintf("%s/v3/connected_accounts?user_ids=%s", c.baseURL, url.QueryEscape(tenantID))
		body, err := c.get(ctx, endpoint)
		if err != nil {
			return nil, err
		}

		connections, err := decodeConnectionList(body)
		if err != nil {
			return nil, fmt.Errorf("decode connections: %w", err)
		}
		return connections, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Connection), nil
}

// ListTools returns the tools available for the given toolkits.
func (c *Client) ListTools(ctx context.Context, tenantID string, toolkits []string) ([]domain.Tool, error) {
	sorted := append([]string(nil), toolkits...)
	sort.Strings(sorted)
	key := "tools:" + tenantID + ":" + strings.Join(sorted, ",")

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		endpoint := fmt.Sprintf(
			"%s/v3/tools?toolkit_slug=%s&user_id=%s",
			c.baseURL,
			url.QueryEscape(strings.Join(toolkits, ",")),
			url.QueryEscape(tenantID),
		)
		body, err := c.get(ctx, endpoint)
		if err != nil {
			return nil, err
		}

		tools, err := decodeToolList(body)
		if err != nil {
			return nil, fmt.Errorf("decode tools: %w", err)
		}
		return tools, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Tool), nil
}

// Execute runs a tool against the tenant's connection through the aggregator.
func (c *Client) Execute(ctx context.Context, req domain.ExecuteRequest) (*domain.ExecuteResponse, error) {
	payload, err := json.Marshal(map[string]interface{}{
		"user_id":              req.TenantID,
		"connected_account_id": req.ConnectionID,
		"arguments":            req.Arguments,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal execute request: %w", err)
	}

	endpoint := fmt.Sprintf("%s/v3/tools/execute/%s", c.baseURL, url.PathEscape(req.Tool))
	body, err := c.do(ctx, http.MethodPost, endpoint, payload)
	if err != nil {
		return nil, err
	}

	var response domain.ExecuteResponse
	if err := json.Unmarshal(body, &response); err != nil {
		return nil, fmt.Errorf("decode execute response: %w", err)
	}
	return &response, nil
}

// DeleteConnection removes a connection from the aggregator.
func (c *Client) DeleteConnection(ctx context.Context, connectionID string) error {
	endpoint := fmt.Sprintf("%s/v3/connected_accounts/%s", c.baseURL, url.PathEscape(connectionID))
	_, err := c.do(ctx, http.MethodDelete, endpoint, nil)
	return err
}

func (c *Client) get(ctx context.Context, endpoint string) ([]byte, error) {
	return c.do(ctx, http.MethodGet, endpoint, nil)
}

func (c *Client) do(ctx context.Context, method, endpoint string, payload []byte) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("x-api-key", c.apiKey)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, apperrors.Wrapf(apperrors.ErrUpstreamUnavailable, "catalog request failed: %v", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	responseBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode >= 500 {
		return nil, apperrors.Wrapf(
			apperrors.ErrUpstreamUnavailable,
			"catalog returned %d: %s", resp.StatusCode, truncateBody(responseBody),
		)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("catalog returned %d: %s", resp.StatusCode, truncateBody(responseBody))
	}
	return responseBody, nil
}

func decodeConnectionList(body []byte) ([]domain.Connection, error) {
	var envelope listEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.payload() != nil {
		body = envelope.payload()
	}

	var connections []domain.Connection
	if err := json.Unmarshal(body, &connections); err != nil {
		return nil, err
	}
	return connections, nil
}

func decodeToolList(body []byte) ([]domain.Tool, error) {
	var envelope listEnvelope
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.payload() != nil {
		body = envelope.payload()
	}

	var tools []domain.Tool
	if err := json.Unmarshal(body, &tools); err != nil {
		return nil, err
	}
	return tools, nil
}

func truncateBody(body []byte) string {
	const maxLen = 256
	s := strings.TrimSpace(string(body))
	if len(s) > maxLen {
		return s[:maxLen] + "..."
	}
	return s
}
