package opensky

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"
)

// ErrMalformedResponse is wrapped by errors for bodies that are not a valid
// state snapshot.
var ErrMalformedResponse = errors.New("malformed states response")

// StatusError is returned when the API answers with a non-2xx status.
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("API returned status %d", e.StatusCode)
	}
	return fmt.Sprintf("API returned status %d: %s", e.StatusCode, e.Body)
}

// RateLimitError represents an HTTP 429 rate limit error with retry information.
type RateLimitError struct {
	StatusCode int
	RetryAfter time.Duration
	Message    string
	Headers    RateLimitHeaders
}

// RateLimitHeaders contains rate limit information from response headers.
type RateLimitHeaders struct {
	Limit     int       // X-Rate-Limit-Limit: Maximum requests allowed
	Remaining int       // X-Rate-Limit-Remaining: Requests remaining in current window
	Reset     time.Time // X-Rate-Limit-Reset: When the rate limit resets
}

func (e *RateLimitError) Error() string {
	if e.RetryAfter > 0 {
		return fmt.Sprintf("%s (retry after %v)", e.Message, e.RetryAfter)
	}
	return e.Message
}

// IsRateLimitError checks if an error is (or wraps) a rate limit error.
func IsRateLimitError(err error) (*RateLimitError, bool) {
	var rle *RateLimitError
	if errors.As(err, &rle) {
		return rle, true
	}
	return nil, false
}

// parseRetryAfter extracts the Retry-After header value.
// Supports both delay-seconds and HTTP-date formats; returns 0 if absent.
// OpenSky also sends X-Rate-Limit-Retry-After-Seconds, which is preferred.
func parseRetryAfter(headers http.Header) time.Duration {
	if s := headers.Get("X-Rate-Limit-Retry-After-Seconds"); s != "" {
		if seconds, err := strconv.Atoi(s); err == nil && seconds > 0 {
			return time.Duration(seconds) * time.Second
		}
	}

	retryAfter := headers.Get("Retry-After")
	if retryAfter == "" {
		return 0
	}

	if seconds, err := strconv.Atoi(retryAfter); err == nil && seconds > 0 {
		return time.Duration(seconds) * time.Second
	}

	if retryTime, err := http.ParseTime(retryAfter); err == nil {
		if d := time.Until(retryTime); d > 0 {
			return d
		}
	}

	return 0
}

// extractRateLimitHeaders reads the X-Rate-Limit-* (or X-RateLimit-*) headers.
// Missing counts are reported as -1.
func extractRateLimitHeaders(headers http.Header) RateLimitHeaders {
	rlh := RateLimitHeaders{
		Limit:     headerInt(headers, "X-Rate-Limit-Limit", "X-RateLimit-Limit"),
		Remaining: headerInt(headers, "X-Rate-Limit-Remaining", "X-RateLimit-Remaining"),
	}

	reset := headers.Get("X-Rate-Limit-Reset")
	if reset == "" {
		reset = headers.Get("X-RateLimit-Reset")
	}
	if reset != "" {
		if timestamp, err := strconv.ParseInt(reset, 10, 64); err == nil {
			rlh.Reset = time.Unix(timestamp, 0)
		}
	}

	return rlh
}

func headerInt(headers http.Header, names ...string) int {
	for _, name := range names {
		if v := headers.Get(name); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
	}
	return -1
}
