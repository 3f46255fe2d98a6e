package opensky

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const (
	// BaseURL is the public OpenSky REST API base URL
	BaseURL = "https://opensky-network.org/api"

	// DefaultTimeout for API requests
	DefaultTimeout = 10 * time.Second

	// DefaultMinRequestInterval is the minimum spacing between requests.
	// Anonymous users get a new snapshot at most every 10 seconds anyway.
	DefaultMinRequestInterval = 5 * time.Second

	// maxErrorBody bounds how much of an error response is kept
	maxErrorBody = 512
)

// Config contains configuration for the OpenSky client.
type Config struct {
	// BaseURL defaults to BaseURL; tests point it at an httptest server
	BaseURL string

	// Timeout bounds each HTTP request (default: 10 seconds)
	Timeout time.Duration

	// MinRequestInterval is the minimum time between requests.
	// 0 selects the default; a negative value disables limiting.
	MinRequestInterval time.Duration
}

// Client fetches global state snapshots from OpenSky.
type Client struct {
	baseURL     string
	httpClient  *http.Client
	rateLimiter *rate.Limiter
}

// NewClient creates a new OpenSky API client.
func NewClient(cfg Config) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = BaseURL
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MinRequestInterval == 0 {
		cfg.MinRequestInterval = DefaultMinRequestInterval
	}

	limit := rate.Inf
	if cfg.MinRequestInterval > 0 {
		limit = rate.Every(cfg.MinRequestInterval)
	}

	return &Client{
		baseURL: strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: rate.NewLimiter(limit, 1),
	}
}

// GetStates fetches the full global state snapshot from /states/all.
// A response without a "states" field is an empty snapshot, not an error.
func (c *Client) GetStates(ctx context.Context) ([]TelemetryRecord, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	url := c.baseURL + "/states/all"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch states: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, &RateLimitError{
			StatusCode: resp.StatusCode,
			RetryAfter: parseRetryAfter(resp.Header),
			Message:    "Rate limit exceeded",
			Headers:    extractRateLimitHeaders(resp.Header),
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, &StatusError{
			StatusCode: resp.StatusCode,
			Body:       strings.TrimSpace(string(body)),
		}
	}

	var apiResp statesResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}

	return convertStates(apiResp.States), nil
}

// Close cleanly shuts down the client.
// OpenSky has no persistent connection, so this only drops idle keep-alives.
func (c *Client) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
