package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/andrescamacho/prun-ccc/internal/adapters/metrics"
	"github.com/andrescamacho/prun-ccc/internal/application/common"
	"github.com/andrescamacho/prun-ccc/internal/domain/shared"
	"github.com/andrescamacho/prun-ccc/internal/infrastructure/config"
)

const maxErrorBodyLength = 512

// ErrNotFound is returned when the remote resource does not exist
var ErrNotFound = errors.New("resource not found")

// StatusError is a non-retryable HTTP error response
type StatusError struct {
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("API error (status %d): %s", e.StatusCode, e.Body)
}

func (e *StatusError) Unwrap() error {
	if e.StatusCode == http.StatusNotFound {
		return ErrNotFound
	}
	return nil
}

// Client is a JSON-over-HTTP client with rate limiting, retries and a circuit breaker per endpoint
type Client struct {
	httpClient  *http.Client
	rateLimiter *rate.Limiter
	breakers    *BreakerSet
	maxRetries  int
	backoffBase time.Duration
	clock       shared.Clock
	metrics     metrics.APIMetricsRecorder
}

// NewClient creates a client from the API configuration.
// If clock is nil, uses RealClock. recorder may be nil.
func NewClient(cfg config.APIConfig, clock shared.Clock, recorder metrics.APIMetricsRecorder) *Client {
	if clock == nil {
		clock = shared.NewRealClock()
	}
	var onChange StateChangeFunc
	if recorder != nil {
		onChange = func(endpoint string, from, to CircuitState) {
			recorder.RecordCircuitTransition(endpoint, from.String(), to.String())
		}
	}
	settings := BreakerSettings{
		MaxFailures:  cfg.CircuitBreaker.MaxFailures,
		ResetTimeout: cfg.CircuitBreaker.ResetTimeout,
	}
	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		rateLimiter: rate.NewLimiter(rate.Limit(cfg.RateLimit.Requests), cfg.RateLimit.Burst),
		breakers:    NewBreakerSet(settings, clock, onChange),
		maxRetries:  cfg.Retry.MaxAttempts,
		backoffBase: cfg.Retry.BackoffBase,
		clock:       clock,
		metrics:     recorder,
	}
}

// Breakers exposes the per-endpoint circuit breakers
func (c *Client) Breakers() *BreakerSet {
	return c.breakers
}

// addJitter adds random jitter to a duration to avoid thundering herd
// Returns a duration between 50% and 150% of the original value
func addJitter(d time.Duration) time.Duration {
	jitter := 0.5 + rand.Float64() // 0.5 to 1.5
	return time.Duration(float64(d) * jitter)
}

// GetJSON fetches url and decodes the JSON body into result.
// endpoint is a low-cardinality label used for logs and metrics.
func (c *Client) GetJSON(ctx context.Context, endpoint, url string, result interface{}) error {
	// Client errors (4xx) say nothing about upstream health and do not trip the breaker
	breaker := c.breakers.For(endpoint)
	before := breaker.State()
	var clientErr error
	err := breaker.Call(func() error {
		err := c.request(ctx, endpoint, url, result)
		var statusErr *StatusError
		if errors.As(err, &statusErr) {
			clientErr = err
			return nil
		}
		return err
	})
	logger := common.LoggerFromContext(ctx)
	if after := breaker.State(); after != before {
		logger.Log("info", "circuit breaker state changed", map[string]interface{}{
			"endpoint": endpoint,
			"from":     before.String(),
			"to":       after.String(),
		})
	}
	if clientErr != nil {
		return clientErr
	}
	if errors.Is(err, ErrCircuitOpen) {
		logger.Log("warn", "request short-circuited", map[string]interface{}{
			"endpoint":       endpoint,
			"open_endpoints": c.breakers.Open(),
		})
	}
	return err
}

// request makes a GET request with rate limiting and exponential backoff retries
func (c *Client) request(ctx context.Context, endpoint, url string, result interface{}) error {
	logger := common.LoggerFromContext(ctx)
	var lastErr error

	// Attempt the request with exponential backoff + jitter retries
	for attempt := 0; attempt <= c.maxRetries; attempt++ {
		if attempt > 0 {
			backoffDelay := addJitter(c.backoffBase * time.Duration(1<<(attempt-1)))
			var retryable *retryableError
			if errors.As(lastErr, &retryable) && retryable.retryAfter > 0 {
				// Use server-provided Retry-After value without jitter
				backoffDelay = retryable.retryAfter
			}

			// Check for context cancellation before sleeping
			if ctx.Err() != nil {
				return fmt.Errorf("context cancelled: %w", ctx.Err())
			}

			logger.Log("debug", "retrying request", map[string]interface{}{
				"endpoint": endpoint,
				"attempt":  attempt,
				"delay":    backoffDelay.String(),
				"reason":   lastErr.Error(),
			})
			c.recordRetry(endpoint, lastErr)
			c.clock.Sleep(backoffDelay)
		}

		waitStart := time.Now()
		if err := c.rateLimiter.Wait(ctx); err != nil {
			return fmt.Errorf("rate limiter error: %w", err)
		}
		if c.metrics != nil {
			c.metrics.RecordRateLimitWait(endpoint, time.Since(waitStart).Seconds())
		}

		err := c.do(ctx, endpoint, url, result)
		if err == nil {
			return nil
		}

		var retryable *retryableError
		if !errors.As(err, &retryable) {
			return err
		}
		lastErr = err
	}

	return fmt.Errorf("max retries exceeded: %w", lastErr)
}

// do performs a single attempt. Retryable failures come back as *retryableError.
func (c *Client) do(ctx context.Context, endpoint, url string, result interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("context cancelled: %w", ctx.Err())
		}
		// Network error - retryable
		return &retryableError{message: fmt.Sprintf("network error: %v", err), reason: "network"}
	}
	defer resp.Body.Close()

	if c.metrics != nil {
		c.metrics.RecordAPIRequest(endpoint, resp.StatusCode, time.Since(start).Seconds())
	}

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &retryableError{message: fmt.Sprintf("failed to read response: %v", err), reason: "network"}
	}

	switch {
	case resp.StatusCode == http.StatusTooManyRequests:
		var retryAfter time.Duration
		if header := resp.Header.Get("Retry-After"); header != "" {
			if seconds, err := strconv.Atoi(header); err == nil {
				retryAfter = time.Duration(seconds) * time.Second
			}
		}
		return &retryableError{message: "rate limited (429)", reason: "rate_limited", retryAfter: retryAfter}

	case resp.StatusCode >= 500:
		return &retryableError{message: fmt.Sprintf("server error (%d)", resp.StatusCode), reason: "server_error"}

	case resp.StatusCode < 200 || resp.StatusCode >= 300:
		// 4xx and other non-2xx - NOT retryable
		return &StatusError{StatusCode: resp.StatusCode, Body: truncate(string(respBody), maxErrorBodyLength)}
	}

	if result != nil {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("failed to unmarshal response: %w", err)
		}
	}
	return nil
}

func (c *Client) recordRetry(endpoint string, err error) {
	if c.metrics == nil {
		return
	}
	reason := "unknown"
	var retryable *retryableError
	if errors.As(err, &retryable) {
		reason = retryable.reason
	}
	c.metrics.RecordAPIRetry(endpoint, reason)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// retryableError represents an error that should trigger a retry
type retryableError struct {
	message    string
	reason     string
	retryAfter time.Duration
}

func (e *retryableError) Error() string {
	return e.message
}
