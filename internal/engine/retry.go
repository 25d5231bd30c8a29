package engine

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v5"
)

// RetryConfig bounds a retried network operation.
type RetryConfig struct {
	MaxTries    uint
	InitialWait time.Duration
	MaxWait     time.Duration
	MaxElapsed  time.Duration
}

// DefaultRetryConfig is tuned for the innertube player and caption
// endpoints: throttling bursts there clear within a few seconds, and
// the whole retry window has to fit inside the per-source budget.
var DefaultRetryConfig = RetryConfig{
	MaxTries:    4,
	InitialWait: 750 * time.Millisecond,
	MaxWait:     8 * time.Second,
	MaxElapsed:  25 * time.Second,
}

// RetryDo runs fn with exponential backoff until it succeeds, fails
// with a non-retryable error, or rc's bounds run out. Only transient
// network failures and throttling statuses repeat; anything else
// aborts on first sight.
func RetryDo[T any](ctx context.Context, rc RetryConfig, fn func() (T, error)) (T, error) {
	operation := func() (T, error) {
		v, err := fn()
		if err != nil && !isRetryable(err) {
			var zero T
			return zero, backoff.Permanent(err)
		}
		return v, err
	}

	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = rc.InitialWait
	bo.MaxInterval = rc.MaxWait

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(bo),
		backoff.WithMaxTries(rc.MaxTries),
		backoff.WithMaxElapsedTime(rc.MaxElapsed))
}

// RetryHTTP sends a request through fn, retrying throttling and
// gateway statuses. Other statuses are handed back as-is for the
// caller to judge; the caller owns the response body.
func RetryHTTP(ctx context.Context, rc RetryConfig, fn func() (*http.Response, error)) (*http.Response, error) {
	return RetryDo(ctx, rc, func() (*http.Response, error) {
		resp, err := fn()
		if err != nil {
			return nil, err
		}
		if isRetryableStatus(resp.StatusCode) {
			resp.Body.Close()
			return nil, &httpStatusError{StatusCode: resp.StatusCode}
		}
		return resp, nil
	})
}

// httpStatusError marks a response whose status is worth retrying.
type httpStatusError struct {
	StatusCode int
}

func (e *httpStatusError) Error() string {
	return http.StatusText(e.StatusCode)
}

// isRetryable reports whether err is transient: a retryable HTTP
// status, a connection or DNS failure, or a network timeout.
func isRetryable(err error) bool {
	var httpErr *httpStatusError
	if errors.As(err, &httpErr) {
		return true
	}

	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return true
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return true
	}

	// net.Error includes OpError, so check last.
	var netErr net.Error
	if errors.As(err, &netErr) {
		return netErr.Timeout()
	}

	return false
}

// isRetryableStatus reports whether an HTTP status is worth retrying:
// throttling and the transient 5xx family.
func isRetryableStatus(code int) bool {
	switch code {
	case http.StatusTooManyRequests,
		http.StatusInternalServerError,
		http.StatusBadGateway,
		http.StatusServiceUnavailable,
		http.StatusGatewayTimeout:
		return true
	}
	return false
}
