package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spindlefm/spindle/internal/shared"
	"golang.org/x/time/rate"
)

// TokenProvider resolves a valid access token for outgoing requests and
// renews it when the provider rejects one. Implemented by the auth Manager.
type TokenProvider interface {
	AccessToken(ctx context.Context) (string, error)
	Renew(ctx context.Context, stale string) (string, error)
	Clear(ctx context.Context) error
}

// Client is the authenticated HTTP client for the Spotify Web API.
//
// Every provider call goes through [Client.Do], which implements the
// refresh-and-retry-once contract in one place: a 401 triggers a single
// renewal through the [TokenProvider] and exactly one retry; a second 401
// clears the credential and surfaces [shared.ErrAuthExpired]. Requests are
// paced by a client-side rate limiter.
type Client struct {
	baseURL string
	http    *http.Client
	tokens  TokenProvider
	limiter *rate.Limiter
	logger  *log.Logger
}

// NewClient creates a Client resolving tokens through the given provider.
func NewClient(tokens TokenProvider, logger *log.Logger) *Client {
	return &Client{
		baseURL: spotifyBaseURL,
		http:    &http.Client{Timeout: 30 * time.Second},
		tokens:  tokens,
		limiter: rate.NewLimiter(rate.Limit(10), 5),
		logger:  logger,
	}
}

// Do performs an authenticated request against the API and decodes a JSON
// response into result when one is present. Returns the HTTP status code
// alongside any error so callers can map provider-specific statuses.
func (c *Client) Do(ctx context.Context, method, endpoint string, body any, result any) (int, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, err
	}

	token, err := c.tokens.AccessToken(ctx)
	if err != nil {
		return 0, err
	}

	status, payload, err := c.send(ctx, method, endpoint, body, token)
	if err != nil {
		return 0, err
	}

	if status == http.StatusUnauthorized {
		fresh, renewErr := c.tokens.Renew(ctx, token)
		if renewErr != nil {
			return status, fmt.Errorf("%w: %v", shared.ErrAuthExpired, renewErr)
		}

		c.logger.Debug("retrying request with renewed token", "method", method, "endpoint", endpoint)

		status, payload, err = c.send(ctx, method, endpoint, body, fresh)
		if err != nil {
			return 0, err
		}

		// Retry-once is exhausted: a second rejection means the whole
		// credential pair is no longer trusted.
		if status == http.StatusUnauthorized {
			if clearErr := c.tokens.Clear(ctx); clearErr != nil {
				c.logger.Warn("failed to clear rejected credential", "error", clearErr)
			}
			return status, shared.ErrAuthExpired
		}
	}

	if status < 200 || status >= 300 {
		return status, fmt.Errorf("%w: status %d: %s", shared.ErrAPIRequest, status, apiErrorMessage(payload))
	}

	if result != nil && status != http.StatusNoContent && len(payload) > 0 {
		if err := json.Unmarshal(payload, result); err != nil {
			return status, fmt.Errorf("failed to decode response: %w", err)
		}
	}

	return status, nil
}

// send issues one HTTP request with a bearer token and returns the status
// and raw body.
func (c *Client) send(ctx context.Context, method, endpoint string, body any, token string) (int, []byte, error) {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return 0, nil, fmt.Errorf("failed to marshal request body: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return 0, nil, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Authorization", "Bearer "+token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, fmt.Errorf("failed to read response: %w", err)
	}

	return resp.StatusCode, payload, nil
}

// apiErrorMessage extracts the provider's error message from a response body,
// falling back to the raw payload.
func apiErrorMessage(payload []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}

	if err := json.Unmarshal(payload, &parsed); err == nil && parsed.Error.Message != "" {
		return parsed.Error.Message
	}

	if len(payload) == 0 {
		return "empty response"
	}
	return string(payload)
}
