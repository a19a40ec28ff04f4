package provider

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"token-pulse/internal/domain"

	"github.com/cenkalti/backoff/v4"
)

// StatusError is returned for non-2xx upstream responses.
type StatusError struct {
	Upstream   string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s API error %d: %s", e.Upstream, e.StatusCode, e.Body)
}

// retryPolicy builds a fresh backoff per request.
type retryPolicy func() backoff.BackOff

func defaultRetry() backoff.BackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 500 * time.Millisecond
	b.MaxElapsedTime = 10 * time.Second
	return b
}

func noRetry() backoff.BackOff {
	return &backoff.StopBackOff{}
}

// getWithRetry performs a rate-limited GET and retries transport errors, 429s
// and 5xx responses. Other 4xx responses fail immediately. Every failure is
// wrapped with domain.ErrFetchFailure.
func getWithRetry(ctx context.Context, client *http.Client, limiter *RateLimiter, retry retryPolicy, upstream, url, accept string) ([]byte, error) {
	var body []byte
	operation := func() error {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return backoff.Permanent(fmt.Errorf("rate limit wait: %w", err))
			}
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Accept", accept)

		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()

		if resp.StatusCode < 200 || resp.StatusCode > 299 {
			data, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
			statusErr := &StatusError{Upstream: upstream, StatusCode: resp.StatusCode, Body: string(data)}
			if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
				return statusErr
			}
			return backoff.Permanent(statusErr)
		}

		body, err = io.ReadAll(resp.Body)
		return err
	}

	if err := backoff.Retry(operation, backoff.WithContext(retry(), ctx)); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrFetchFailure, err)
	}
	return body, nil
}

// IsStatus reports whether err carries an upstream response with the given code.
func IsStatus(err error, code int) bool {
	var se *StatusError
	return errors.As(err, &se) && se.StatusCode == code
}
