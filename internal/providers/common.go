package providers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sony/gobreaker"
)

var (
	// ErrAPIKeyMissing is returned when a provider is used without its
	// required credential.
	ErrAPIKeyMissing = errors.New("provider api key not configured")

	// ErrUnavailable covers network failures, non-success responses,
	// undecodable payloads and an open circuit breaker.
	ErrUnavailable = errors.New("provider unavailable")
)

// backoff controls retry pacing between attempts.
type backoff struct {
	maxRetries int
	initial    time.Duration
	ceiling    time.Duration
}

// httpJSONClient wraps an HTTP client with retries, exponential backoff
// and a circuit breaker, decoding JSON bodies on success. Both outbound
// providers share this plumbing.
type httpJSONClient struct {
	client  *http.Client
	breaker *gobreaker.CircuitBreaker
	backoff backoff
}

func newHTTPJSONClient(client *http.Client, name string) *httpJSONClient {
	return &httpJSONClient{
		client: client,
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        name,
			MaxRequests: 5,
			Interval:    time.Minute,
			Timeout:     2 * time.Minute,
		}),
		backoff: backoff{
			maxRetries: 3,
			initial:    500 * time.Millisecond,
			ceiling:    5 * time.Second,
		},
	}
}

// getJSON fetches url and decodes the response body into out. Transient
// failures (network errors, 429, 5xx) are retried with exponential
// backoff until the retry budget runs out; client errors and an open
// breaker fail immediately. Every failure wraps ErrUnavailable.
func (c *httpJSONClient) getJSON(ctx context.Context, url string, out any) error {
	delay := c.backoff.initial

	for attempt := 0; ; attempt++ {
		if err := ctx.Err(); err != nil {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}

		retryable, err := c.attempt(ctx, url, out)
		if err == nil {
			return nil
		}
		if !retryable || attempt >= c.backoff.maxRetries {
			return err
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("%w: %v", ErrUnavailable, ctx.Err())
		case <-timer.C:
		}

		delay *= 2
		if delay > c.backoff.ceiling {
			delay = c.backoff.ceiling
		}
	}
}

// attempt performs a single guarded request. The bool reports whether
// the failure is worth retrying.
func (c *httpJSONClient) attempt(ctx context.Context, url string, out any) (bool, error) {
	_, err := c.breaker.Execute(func() (interface{}, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return nil, err
		}

		resp, err := c.client.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode >= 300 {
			return nil, &statusError{code: resp.StatusCode}
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return nil, fmt.Errorf("decode response: %v", err)
		}
		return nil, nil
	})
	if err == nil {
		return false, nil
	}

	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return false, fmt.Errorf("%w: circuit open: %v", ErrUnavailable, err)
	}

	var se *statusError
	if errors.As(err, &se) {
		return se.retryable(), fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	// Network or decode failure; network errors are worth another try.
	return true, fmt.Errorf("%w: %v", ErrUnavailable, err)
}

type statusError struct {
	code int
}

func (e *statusError) Error() string {
	return fmt.Sprintf("unexpected status %d", e.code)
}

func (e *statusError) retryable() bool {
	return e.code == http.StatusTooManyRequests || e.code >= 500
}
