// Package platform is the typed HTTP client for the school platform API that
// this dashboard fronts. The platform owns all domain data (standards,
// students, exams, quizzes); the dashboard only reads rosters and issues
// create/assign operations through the contracts in this package.
//
// Every platform response uses the same envelope:
//
//	{ "statusCode": 200, "success": true, "message": "...", "data": { ... } }
//
// A response with success=false is a domain-level failure and surfaces as an
// *APIError carrying the server's message. Transport failures (connection
// errors, undecodable bodies) surface as ordinary wrapped errors. Callers
// show both to the user the same way: as a message string.
package platform

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

	"go.uber.org/zap"
)

// Client calls the platform API on behalf of the dashboard.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
	log     *zap.Logger
}

// New creates a platform client for the given base URL. token, when set, is
// sent as a bearer token on every request. The client deliberately sets no
// per-request timeout of its own; callers bound requests via ctx.
func New(baseURL, token string, logger *zap.Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		token:   token,
		http:    &http.Client{},
		log:     logger,
	}
}

// APIError is a platform response with success=false. The message is the
// server-provided, user-presentable explanation.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("platform request failed (status %d)", e.StatusCode)
}

// IsAPIError reports whether err is a domain-level platform failure (as
// opposed to a transport failure).
func IsAPIError(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr)
}

// envelope mirrors the platform's uniform response wrapper.
type envelope struct {
	StatusCode int             `json:"statusCode"`
	Success    bool            `json:"success"`
	Message    string          `json:"message"`
	Data       json.RawMessage `json:"data"`
}

// Pagination is the paging block the platform includes on listing responses.
type Pagination struct {
	CurrentPage int `json:"currentPage"`
	TotalPages  int `json:"totalPages"`
	TotalCount  int `json:"totalCount"`
	Limit       int `json:"limit"`
}

// call performs one request and decodes the envelope's data field into T.
func call[T any](ctx context.Context, c *Client, method, path string, query url.Values, body any) (T, error) {
	var zero T

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var reqBody io.Reader
	if body != nil {
		buf, err := json.Marshal(body)
		if err != nil {
			return zero, fmt.Errorf("platform: encode %s %s: %w", method, path, err)
		}
		reqBody = bytes.NewReader(buf)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return zero, fmt.Errorf("platform: build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return zero, fmt.Errorf("platform: %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return zero, fmt.Errorf("platform: read %s %s: %w", method, path, err)
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return zero, fmt.Errorf("platform: %s %s: status %d, undecodable body: %w", method, path, resp.StatusCode, err)
	}

	if !env.Success {
		c.log.Warn("platform call rejected",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", resp.StatusCode),
			zap.String("message", env.Message))
		return zero, &APIError{StatusCode: resp.StatusCode, Message: env.Message}
	}

	var out T
	if len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, &out); err != nil {
			return zero, fmt.Errorf("platform: decode %s %s data: %w", method, path, err)
		}
	}
	return out, nil
}
