// Package backend is the HTTP client layer for the remote
// Postgres-as-a-service backend. Tables are exposed REST-style under
// /rest/v1 and server functions under /functions/v1.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// AuthError indicates the backend rejected the API key or session.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("backend auth error: %s", e.Message)
}

// IsAuthError reports whether err (or any error in its chain) is an AuthError.
func IsAuthError(err error) bool {
	var authErr *AuthError
	return errors.As(err, &authErr)
}

// Client is a thin HTTP client for the backend REST API. It handles API-key
// authentication, JSON marshaling, and automatic retry with exponential
// backoff on HTTP 429.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
	maxRetries int
}

// NewClient creates a backend client. The baseURL is the backend root
// (e.g. https://suqjifkhmekcdflwowiw.example.co) and apiKey is the
// project's service key.
func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: 3,
	}
}

// Get performs a GET against a /rest/v1 table path with the given query
// parameters and unmarshals the JSON response into result.
func (c *Client) Get(
	ctx context.Context,
	path string,
	query url.Values,
	result interface{},
) error {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}
	return c.do(ctx, http.MethodGet, path, nil, result)
}

// Post performs a POST with a JSON body and unmarshals the JSON response.
func (c *Client) Post(
	ctx context.Context,
	path string,
	body interface{},
	result interface{},
) error {
	return c.do(ctx, http.MethodPost, path, body, result)
}

// Patch performs a PATCH with a JSON body against a filtered table path.
func (c *Client) Patch(
	ctx context.Context,
	path string,
	query url.Values,
	body interface{},
) error {
	if len(query) > 0 {
		path = path + "?" + query.Encode()
	}
	return c.do(ctx, http.MethodPatch, path, body, nil)
}

// do is the core HTTP method that builds the request, handles auth,
// rate limiting with exponential backoff, and JSON (de)serialization.
func (c *Client) do(
	ctx context.Context,
	method string,
	path string,
	body interface{},
	result interface{},
) error {
	reqURL := c.baseURL + path
	requestID := uuid.NewString()

	var bodyReader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request body: %w", err)
		}
		bodyReader = bytes.NewReader(data)
	}

	var lastErr error
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		// Rebuild the body reader on retries since it was consumed.
		if attempt > 0 && body != nil {
			data, _ := json.Marshal(body)
			bodyReader = bytes.NewReader(data)
		}

		req, err := http.NewRequestWithContext(ctx, method, reqURL, bodyReader)
		if err != nil {
			return fmt.Errorf("creating request: %w", err)
		}

		req.Header.Set("apikey", c.apiKey)
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
		req.Header.Set("Accept", "application/json")
		// Correlates client requests with backend logs across retries.
		req.Header.Set("X-Client-Request-Id", requestID)
		if body != nil {
			req.Header.Set("Content-Type", "application/json")
			// Ask the backend to echo inserted/updated rows back.
			req.Header.Set("Prefer", "return=representation")
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("executing request %s %s: %w", method, path, err)
		}

		respBody, readErr := io.ReadAll(resp.Body)
		resp.Body.Close()
		if readErr != nil {
			return fmt.Errorf("reading response body: %w", readErr)
		}

		if resp.StatusCode == http.StatusTooManyRequests {
			waitDuration := retryAfterDuration(resp, attempt)
			lastErr = fmt.Errorf("rate limited (429) on %s %s", method, path)

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(waitDuration):
				continue
			}
		}

		if resp.StatusCode == http.StatusUnauthorized ||
			resp.StatusCode == http.StatusForbidden {
			return &AuthError{
				Message: fmt.Sprintf(
					"status %d on %s %s: check the API key for %s",
					resp.StatusCode, method, path, c.baseURL,
				),
			}
		}

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			var apiErr ErrorResponse
			if json.Unmarshal(respBody, &apiErr) == nil && apiErr.Message != "" {
				return fmt.Errorf(
					"backend error (%d) on %s %s: %s",
					resp.StatusCode, method, path, apiErr.Message,
				)
			}
			return fmt.Errorf(
				"unexpected status %d on %s %s: %s",
				resp.StatusCode, method, path, string(respBody),
			)
		}

		// No content to parse (e.g. 204 from PATCH).
		if result == nil || resp.StatusCode == http.StatusNoContent {
			return nil
		}

		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf(
				"unmarshaling response from %s %s: %w", method, path, err,
			)
		}

		return nil
	}

	return fmt.Errorf("max retries (%d) exceeded: %w", c.maxRetries, lastErr)
}

// ErrorResponse is the backend's JSON error envelope.
type ErrorResponse struct {
	Message string `json:"message"`
	Code    string `json:"code"`
	Details string `json:"details"`
}

// retryAfterDuration reads the Retry-After header and computes a wait
// duration. Falls back to exponential backoff if the header is missing.
func retryAfterDuration(resp *http.Response, attempt int) time.Duration {
	if header := resp.Header.Get("Retry-After"); header != "" {
		if seconds, err := strconv.Atoi(header); err == nil {
			return time.Duration(seconds) * time.Second
		}
	}

	// Exponential backoff: 1s, 2s, 4s, ...
	backoff := time.Duration(1<<uint(attempt)) * time.Second
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	return backoff
}
