// Package executor implements the HTTP client for the companion
// action-execution service that performs the actual platform posting.
package executor

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"

	catalogDomain "github.com/brandwire/dispatch/internal/catalog/domain"
	dispatchDomain "github.com/brandwire/dispatch/internal/dispatch/domain"
	apperrors "github.com/brandwire/dispatch/internal/errors"
)

// Config holds the companion service connection settings.
type Config struct {
	BaseURL string
	Secret  string
	Timeout time.Duration
}

// Client posts dispatch requests to the companion service. Every call is
// bounded by the configured timeout so a hung upstream can never pin a work
// item in posting; the lease sweeper only covers process crashes.
type Client struct {
	baseURL    string
	secret     string
	timeout    time.Duration
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates an executor client.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 45 * time.Second
	}
	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		secret:     cfg.Secret,
		timeout:    timeout,
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// errorBody covers the error field spellings the companion service and the
// platforms behind it use.
type errorBody struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Reason  string `json:"reason"`
}

func (e *errorBody) reason() string {
	if e.Error != "" {
		return e.Error
	}
	if e.Message != "" {
		return e.Message
	}
	return e.Reason
}

// Execute posts one work item through the companion service. The returned
// error carries the failure reason verbatim where the upstream provided
// one; dial failures are classified as upstream-unavailable with a
// remediation hint.
func (c *Client) Execute(
	ctx context.Context, req catalogDomain.ExecuteRequest,
) (*dispatchDomain.ExecutionResult, error) {
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal dispatch request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(
		ctx, http.MethodPost, c.baseURL+"/execute", bytes.NewReader(payload),
	)
	if err != nil {
		return nil, fmt.Errorf("create dispatch request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if c.secret != "" {
		httpReq.Header.Set("Authorization", "Bearer "+c.secret)
	}

	start := time.Now()
	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, c.classifyTransportError(err, time.Since(start))
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read dispatch response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, errors.New(c.failureReason(resp.StatusCode, body))
	}

	decoded := decodeResponse(body)
	return &dispatchDomain.ExecutionResult{
		ExternalRef: dispatchDomain.ExtractExternalRef(decoded),
		Response:    decoded,
	}, nil
}

// classifyTransportError separates infrastructure failures, which an
// operator fixes, from timeouts, which count against the post itself.
func (c *Client) classifyTransportError(err error, elapsed time.Duration) error {
	if isTimeout(err) {
		return fmt.Errorf("dispatch timed out after %s", elapsed.Round(time.Second))
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) || strings.Contains(err.Error(), "connection refused") {
		return apperrors.Wrapf(
			apperrors.ErrUpstreamUnavailable,
			"cannot reach executor service at %s (%v); check that the service is running",
			c.baseURL, err,
		)
	}
	return fmt.Errorf("dispatch request failed: %w", err)
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

// failureReason extracts the upstream's own error text when the body
// parses, preserving it verbatim for the work item's failure reason.
func (c *Client) failureReason(status int, body []byte) string {
	var parsed errorBody
	if err := json.Unmarshal(body, &parsed); err == nil {
		if reason := parsed.reason(); reason != "" {
			return reason
		}
	}
	return fmt.Sprintf("HTTP %d", status)
}

// decodeResponse decodes the success body into a generic map, preserving
// numeric ids as json.Number so large platform ids keep their precision.
func decodeResponse(body []byte) map[string]interface{} {
	decoder := json.NewDecoder(bytes.NewReader(body))
	decoder.UseNumber()

	var decoded map[string]interface{}
	if err := decoder.Decode(&decoded); err != nil {
		return nil
	}
	return decoded
}
