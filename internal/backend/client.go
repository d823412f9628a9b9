// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jeranaias/profchat/internal/logging"
	"github.com/jeranaias/profchat/internal/model"
)

// DefaultBaseURL is used when no host is configured.
const DefaultBaseURL = "http://127.0.0.1:5000"

// RequestIDHeader carries a per-request UUID for log correlation.
const RequestIDHeader = "X-Request-ID"

const (
	professorsPath = "/professors"
	chatPath       = "/chat_with_professor"
	ingestPath     = "/scrape_and_upload_professor"
)

// =============================================================================
// CLIENT CONFIGURATION
// =============================================================================

// ClientConfig holds configuration options for the backend client.
type ClientConfig struct {
	// BaseURL is the service base URL (default: http://127.0.0.1:5000)
	BaseURL string

	// Timeout for directory and ingestion requests (default: 30s).
	// Streaming chat requests are bounded by their context only.
	Timeout time.Duration

	// RateLimit is the maximum requests per second (default: 5)
	RateLimit float64

	// Burst is the limiter burst size (default: 5)
	Burst int

	// Logger receives debug request logs. Nil disables them.
	Logger *zerolog.Logger
}

// DefaultConfig returns the default client configuration.
func DefaultConfig() *ClientConfig {
	return &ClientConfig{
		BaseURL:   DefaultBaseURL,
		Timeout:   30 * time.Second,
		RateLimit: 5,
		Burst:     5,
	}
}

// =============================================================================
// CLIENT
// =============================================================================

// Client handles communication with the professor chat service.
//
// The Client is safe for concurrent use.
type Client struct {
	config       *ClientConfig
	httpClient   *http.Client
	streamClient *http.Client
	limiter      *rate.Limiter
	log          zerolog.Logger

	mu      sync.RWMutex
	baseURL string
}

// NewClientWithConfig creates a new client with custom configuration.
func NewClientWithConfig(config *ClientConfig) *Client {
	if config == nil {
		config = DefaultConfig()
	}

	// Fill in defaults for any zero values
	if config.BaseURL == "" {
		config.BaseURL = DefaultBaseURL
	}
	config.BaseURL = strings.TrimRight(config.BaseURL, "/")
	if config.Timeout == 0 {
		config.Timeout = 30 * time.Second
	}
	if config.RateLimit <= 0 {
		config.RateLimit = 5
	}
	if config.Burst <= 0 {
		config.Burst = 5
	}

	log := zerolog.Nop()
	if config.Logger != nil {
		log = logging.For(*config.Logger, logging.Backend)
	}

	return &Client{
		config:       config,
		httpClient:   &http.Client{Timeout: config.Timeout},
		streamClient: &http.Client{},
		limiter:      rate.NewLimiter(rate.Limit(config.RateLimit), config.Burst),
		log:          log,
		baseURL:      config.BaseURL,
	}
}

// BaseURL returns the service base URL in use.
func (c *Client) BaseURL() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.baseURL
}

// SetBaseURL points later requests at a different host. Requests already
// in flight are unaffected. An empty url restores DefaultBaseURL.
func (c *Client) SetBaseURL(url string) {
	if url == "" {
		url = DefaultBaseURL
	}
	c.mu.Lock()
	c.baseURL = strings.TrimRight(url, "/")
	c.mu.Unlock()
}

// =============================================================================
// DIRECTORY
// =============================================================================

// Professors fetches the list of available personas, in server order.
func (c *Client) Professors(ctx context.Context) ([]string, error) {
	req, id, err := c.newRequest(ctx, http.MethodGet, professorsPath, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, c.httpClient, req, id)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, statusError("list professors", resp.Status, resp.StatusCode, id)
	}

	var result ProfessorsResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to decode professors", RequestID: id, Cause: err}
	}
	if result.Professors == nil {
		return nil, &ClientError{Type: ErrTypeInvalidResponse, Message: "response missing professors field", RequestID: id}
	}

	names := make([]string, len(*result.Professors))
	copy(names, *result.Professors)
	return names, nil
}

// =============================================================================
// INGESTION
// =============================================================================

// Ingest asks the service to scrape and add a professor. The response body
// is not consumed. A non-2xx status is returned as an ErrTypeHTTPStatus
// error together with a non-nil result.
func (c *Client) Ingest(ctx context.Context, in IngestRequest) (*IngestResult, error) {
	req, id, err := c.newRequest(ctx, http.MethodPost, ingestPath, in)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, c.httpClient, req, id)
	if err != nil {
		return nil, err
	}
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))
	resp.Body.Close()

	result := &IngestResult{StatusCode: resp.StatusCode, RequestID: id}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return result, statusError("ingest professor", resp.Status, resp.StatusCode, id)
	}
	return result, nil
}

// =============================================================================
// STREAMING CHAT
// =============================================================================

// ChatStream posts a chat request and returns the open streamed reply.
// The caller must Close the returned stream. A response with no body yields
// a stream whose Body is nil.
func (c *Client) ChatStream(ctx context.Context, in ChatRequest) (*ChatStream, error) {
	if in.History == nil {
		in.History = []model.WireTurn{}
	}

	req, id, err := c.newRequest(ctx, http.MethodPost, chatPath, in)
	if err != nil {
		return nil, err
	}

	resp, err := c.do(ctx, c.streamClient, req, id)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		resp.Body.Close()
		return nil, statusError("chat", resp.Status, resp.StatusCode, id)
	}

	cs := &ChatStream{
		ContentType: resp.Header.Get("Content-Type"),
		StatusCode:  resp.StatusCode,
		RequestID:   id,
		closer:      resp.Body,
	}
	if resp.Body != nil && resp.Body != http.NoBody {
		cs.Body = resp.Body
	}
	return cs, nil
}

// =============================================================================
// HELPERS
// =============================================================================

func (c *Client) newRequest(ctx context.Context, method, path string, payload any) (*http.Request, string, error) {
	id := uuid.NewString()

	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, id, &ClientError{Type: ErrTypeInvalidResponse, Message: "failed to marshal request", RequestID: id, Cause: err}
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL()+path, body)
	if err != nil {
		return nil, id, &ClientError{Type: ErrTypeConnection, Message: "failed to create request", RequestID: id, Cause: err}
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set(RequestIDHeader, id)
	return req, id, nil
}

func (c *Client) do(ctx context.Context, hc *http.Client, req *http.Request, id string) (*http.Response, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, transportError(err, id)
	}

	start := time.Now()
	resp, err := hc.Do(req)
	if err != nil {
		c.log.Debug().Err(err).Str("request_id", id).Str("path", req.URL.Path).Msg("request failed")
		return nil, transportError(err, id)
	}
	c.log.Debug().
		Str("request_id", id).
		Str("method", req.Method).
		Str("path", req.URL.Path).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(start)).
		Msg("request completed")
	return resp, nil
}
