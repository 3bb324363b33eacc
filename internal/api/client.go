// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jeranaias/perfburger-tui/internal/model"
)

// Configuration constants.
const (
	// DefaultBaseURL is where the backend listens in local development.
	DefaultBaseURL = "http://localhost:8000"

	// MaxResponseSize bounds how much of a response body is read.
	// SECURITY: Response size limit prevents memory exhaustion.
	MaxResponseSize = 4 * 1024 * 1024

	userAgent = "perfburger-tui/1.0"
)

// TokenStore is the credential holder the client reads from and writes to.
// *credentials.Store satisfies it.
type TokenStore interface {
	Token() string
	Save(token string, user model.User) error
	Clear() error
}

// Client talks to the PerfBurger backend. Create one with New and share it;
// it is safe for concurrent use.
type Client struct {
	baseURL    string
	httpClient *http.Client
	store      TokenStore
	limiter    *rate.Limiter
	log        zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// WithTimeout bounds each request. Zero leaves the transport defaults.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) { c.httpClient.Timeout = d }
}

// WithRateLimit throttles outgoing requests. rps <= 0 disables throttling.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *Client) {
		if rps <= 0 {
			c.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(rps), burst)
	}
}

// WithLogger sets the request logger.
func WithLogger(log zerolog.Logger) Option {
	return func(c *Client) { c.log = log.With().Str("component", "api").Logger() }
}

// New creates a client for baseURL that authenticates with store.
func New(baseURL string, store TokenStore, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{},
		store:      store,
		log:        zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// BaseURL returns the backend root the client was created with.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// IsAuthenticated reports whether requests currently carry a token.
func (c *Client) IsAuthenticated() bool {
	return c.store.Token() != ""
}

// =============================================================================
// REQUEST PLUMBING
// =============================================================================

// do sends one request and decodes a 2xx JSON body into out (if non-nil).
// Every failure is returned as *Error.
func (c *Client) do(ctx context.Context, method, path string, in, out any) error {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return normalize(0, nil, err)
		}
	}

	var body io.Reader
	if in != nil {
		data, err := json.Marshal(in)
		if err != nil {
			return newError(KindUnexpected, 0, "encode request", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return newError(KindUnexpected, 0, "build request", err)
	}
	c.setHeaders(req, in != nil)

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)
	if err != nil {
		c.log.Warn().Str("method", method).Str("path", path).Dur("duration", duration).Err(err).Msg("request failed")
		return normalize(0, nil, err)
	}
	defer resp.Body.Close()

	// SECURITY: Never log headers (bearer token) or bodies (customer data).
	c.log.Debug().Str("method", method).Str("path", path).Int("status", resp.StatusCode).Dur("duration", duration).Msg("api response")

	data, readErr := readResponse(resp)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := normalize(resp.StatusCode, data, nil)
		if apiErr.Kind == KindUnauthorized {
			c.handleUnauthorized()
		}
		return apiErr
	}
	if readErr != nil {
		return newError(KindUnexpected, resp.StatusCode, readErr.Error(), readErr)
	}
	if out == nil || len(data) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return newError(KindUnexpected, resp.StatusCode, "malformed response body", err)
	}
	return nil
}

// handleUnauthorized clears the session so no later request carries the
// rejected token.
func (c *Client) handleUnauthorized() {
	if c.store.Token() == "" {
		return
	}
	c.log.Info().Msg("backend rejected token; clearing session")
	if err := c.store.Clear(); err != nil {
		c.log.Error().Err(err).Msg("failed to clear credentials after 401")
	}
}

func (c *Client) setHeaders(req *http.Request, hasBody bool) {
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if token := c.store.Token(); token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
}

// readResponse reads a response body through the size limit.
func readResponse(resp *http.Response) ([]byte, error) {
	// SECURITY: Limit response size to prevent memory exhaustion
	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxResponseSize+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if int64(len(body)) > MaxResponseSize {
		return nil, fmt.Errorf("response exceeded maximum size of %d bytes", MaxResponseSize)
	}
	return body, nil
}
