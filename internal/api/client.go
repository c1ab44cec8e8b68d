// Package api is the HTTP client for the store backend's admin REST API.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/sethvargo/go-retry"
	"go.uber.org/zap"

	"github.com/craftline/shopadmin/internal/errs"
)

const (
	maxAttempts   = 3
	retryBackoff  = 2 * time.Second
	clientTimeout = 2 * time.Minute // uploads carry video payloads
)

// Error is a failure reported by the backend, carrying the server's message
// when one was available.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
	}
	return fmt.Sprintf("api: request failed (status %d)", e.Status)
}

// Is maps 401 responses to errs.ErrUnauthorized so callers can detect an
// expired or missing token without inspecting status codes.
func (e *Error) Is(target error) bool {
	return target == errs.ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// Client talks to the backend. All mutating calls attach the bearer token;
// transport failures and 5xx responses are retried up to maxAttempts with a
// fixed backoff before the final failure is surfaced.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *zap.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithToken sets the bearer token attached to authenticated calls.
func WithToken(tok string) Option { return func(c *Client) { c.token = tok } }

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithLogger sets the structured logger.
func WithLogger(log *zap.Logger) Option { return func(c *Client) { c.log = log } }

// New constructs a Client for the given base URL.
func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: clientTimeout},
		log:     zap.NewNop(),
	}
	for _, o := range opts {
		o(c)
	}
	return c
}

// SetToken updates the bearer token after login.
func (c *Client) SetToken(tok string) { c.token = tok }

// envelope is the backend's common response wrapper.
type envelope struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// doJSON sends a JSON request and decodes the response into out (may be nil).
func (c *Client) doJSON(ctx context.Context, method, path string, body any, out any) error {
	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		payload = b
	}
	return c.do(ctx, method, path, payload, "application/json", out)
}

// doMultipart sends a prebuilt multipart body and decodes the response.
func (c *Client) doMultipart(ctx context.Context, method, path string, body []byte, contentType string, out any) error {
	return c.do(ctx, method, path, body, contentType, out)
}

// do performs the request with bounded retry. The body is kept as bytes so
// every attempt replays it from the start.
func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string, out any) error {
	start := time.Now()
	backoff := retry.WithMaxRetries(maxAttempts-1, retry.NewConstant(retryBackoff))

	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		return c.attempt(ctx, method, path, body, contentType, out)
	})

	c.log.Debug("api call",
		zap.String("method", method),
		zap.String("path", path),
		zap.Duration("dur", time.Since(start)),
		zap.Error(err),
	)
	return err
}

func (c *Client) attempt(ctx context.Context, method, path string, body []byte, contentType string, out any) error {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if contentType != "" && body != nil {
		req.Header.Set("Content-Type", contentType)
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		// network errors are worth another attempt
		return retry.RetryableError(fmt.Errorf("request %s %s: %w", method, path, err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return retry.RetryableError(fmt.Errorf("read response: %w", err))
	}

	if resp.StatusCode >= 500 {
		return retry.RetryableError(apiError(resp.StatusCode, respBody))
	}
	if resp.StatusCode >= 400 {
		return apiError(resp.StatusCode, respBody)
	}

	// some endpoints report failure inside a 200
	var env envelope
	if json.Unmarshal(respBody, &env) == nil && env.Message != "" && !env.Success {
		return &Error{Status: resp.StatusCode, Message: env.Message}
	}

	if out != nil {
		if err := json.Unmarshal(respBody, out); err != nil {
			return fmt.Errorf("decode response: %w", err)
		}
	}
	return nil
}

func apiError(status int, body []byte) error {
	var env envelope
	_ = json.Unmarshal(body, &env)
	return &Error{Status: status, Message: env.Message}
}
