// Package pathwayclient calls a running server's /generate-pathway endpoint with
// bounded retries.
package pathwayclient

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/jonathan/career-pathway/internal/logging"
	"github.com/jonathan/career-pathway/internal/types"
)

// Retry defaults.
const (
	DefaultMaxAttempts = 3
	DefaultBaseDelay   = time.Second
	DefaultTimeout     = 90 * time.Second
)

const pathwayPath = "/generate-pathway"

// maxErrorBody caps how much of a non-JSON error body is kept.
const maxErrorBody = 512

// APIError is a non-2xx answer from the server. Message is the server's "error"
// field when present.
type APIError struct {
	Status  int
	Message string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("server returned %d: %s", e.Status, e.Message)
}

// Retryable reports whether repeating the same request could succeed.
// Client errors other than 429 are final.
func (e *APIError) Retryable() bool {
	if e.Status == http.StatusTooManyRequests {
		return true
	}
	return e.Status < 400 || e.Status >= 500
}

// Options configures a Client.
type Options struct {
	BaseURL     string
	HTTPClient  *http.Client
	MaxAttempts int
	BaseDelay   time.Duration
	Logger      *logging.Logger
}

// Client generates pathways through the HTTP API.
type Client struct {
	endpoint    string
	httpClient  *http.Client
	maxAttempts int
	baseDelay   time.Duration
	logger      *logging.Logger
}

// New creates a Client for the server at opts.BaseURL.
func New(opts Options) (*Client, error) {
	base, err := url.Parse(strings.TrimSpace(opts.BaseURL))
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, fmt.Errorf("base URL must be absolute: %q", opts.BaseURL)
	}

	c := &Client{
		endpoint:    strings.TrimRight(base.String(), "/") + pathwayPath,
		httpClient:  opts.HTTPClient,
		maxAttempts: opts.MaxAttempts,
		baseDelay:   opts.BaseDelay,
		logger:      opts.Logger,
	}
	if c.httpClient == nil {
		c.httpClient = &http.Client{Timeout: DefaultTimeout}
	}
	if c.maxAttempts <= 0 {
		c.maxAttempts = DefaultMaxAttempts
	}
	if c.baseDelay <= 0 {
		c.baseDelay = DefaultBaseDelay
	}
	if c.logger == nil {
		c.logger = logging.Nop()
	}
	return c, nil
}

// Generate requests a pathway for career. Failed attempts are retried after
// baseDelay, 2*baseDelay, and so on. Cancelling ctx stops the in-flight request
// and prevents any further attempt; ctx.Err() is returned in that case.
func (c *Client) Generate(ctx context.Context, career string) (*types.Pathway, error) {
	body, err := json.Marshal(types.PathwayRequest{Career: career})
	if err != nil {
		return nil, fmt.Errorf("failed to encode request: %w", err)
	}

	var lastErr error
	for attempt := 0; attempt < c.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pathway, err := c.post(ctx, body)
		if err == nil {
			return pathway, nil
		}
		if ctx.Err() != nil {
			c.logger.Info("pathway request cancelled", "career", career)
			return nil, ctx.Err()
		}

		lastErr = err
		c.logger.Warn("pathway request failed", "attempt", attempt+1, "max_attempts", c.maxAttempts, "error", err)

		var apiErr *APIError
		if errors.As(err, &apiErr) && !apiErr.Retryable() {
			return nil, err
		}

		if attempt < c.maxAttempts-1 {
			backoff := c.baseDelay * time.Duration(1<<attempt)
			timer := time.NewTimer(backoff)
			select {
			case <-timer.C:
			case <-ctx.Done():
				timer.Stop()
				return nil, ctx.Err()
			}
		}
	}

	return nil, fmt.Errorf("pathway request failed after %d attempts: %w", c.maxAttempts, lastErr)
}

func (c *Client) post(ctx context.Context, body []byte) (*types.Pathway, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newAPIError(resp.StatusCode, data)
	}

	var pathway types.Pathway
	if err := json.Unmarshal(data, &pathway); err != nil {
		return nil, fmt.Errorf("failed to decode pathway: %w", err)
	}
	return &pathway, nil
}

func newAPIError(status int, data []byte) *APIError {
	var payload struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(data, &payload); err == nil && payload.Error != "" {
		return &APIError{Status: status, Message: payload.Error}
	}

	msg := strings.TrimSpace(string(data))
	if len(msg) > maxErrorBody {
		msg = msg[:maxErrorBody]
	}
	if msg == "" {
		msg = http.StatusText(status)
	}
	return &APIError{Status: status, Message: msg}
}
