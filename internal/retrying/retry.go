// Package retrying classifies download failures as retryable or not
// and runs a bounded, jittered backoff loop around a fetch attempt.
// Neither internal/opendata nor cmd/ecmwf calls it: internal/opendata
// never retries — every transport error it returns propagates to the
// caller unmodified.
package retrying

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// RetryableError classifies a failed attempt: whether it's worth
// trying again and, if so, what status code (0 for non-HTTP errors)
// drove that decision.
type RetryableError struct {
	Err         error
	StatusCode  int
	ShouldRetry bool
}

func (e *RetryableError) Error() string {
	if e.ShouldRetry {
		return fmt.Sprintf("retryable: %v (status: %d)", e.Err, e.StatusCode)
	}
	return fmt.Sprintf("non-retryable: %v (status: %d)", e.Err, e.StatusCode)
}

func (e *RetryableError) Unwrap() error { return e.Err }

var networkErrorSubstrings = []string{
	"timeout", "connection refused", "connection reset", "EOF", "broken pipe", "no such host",
}

// ClassifyRetryableError decides whether a failed fetch is worth
// retrying: 4xx other than 429 never is, 429 and 5xx always are, and a
// handful of transient network error strings are treated as retryable
// even without a status code (statusCode 0, e.g. a dial failure).
func ClassifyRetryableError(err error, statusCode int) *RetryableError {
	if err == nil {
		return nil
	}

	if statusCode >= 400 && statusCode < 500 && statusCode != 429 {
		return &RetryableError{Err: err, StatusCode: statusCode, ShouldRetry: false}
	}
	if statusCode == 429 || statusCode >= 500 {
		return &RetryableError{Err: err, StatusCode: statusCode, ShouldRetry: true}
	}
	if containsAny(err.Error(), networkErrorSubstrings) {
		return &RetryableError{Err: err, StatusCode: statusCode, ShouldRetry: true}
	}
	return &RetryableError{Err: err, StatusCode: statusCode, ShouldRetry: false}
}

func containsAny(s string, substrs []string) bool {
	for _, substr := range substrs {
		if strings.Contains(s, substr) {
			return true
		}
	}
	return false
}

// Backoff computes the jittered exponential delay before retry attempt
// n (n starting at 1).
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	jitter := time.Duration(rand.Int63n(int64(base/2) + 1))
	return base + jitter
}

// Do runs fn up to maxRetries+1 times, sleeping a jittered backoff
// between attempts, stopping early on a non-retryable error. statusOf
// extracts an HTTP status code from an error when one is known (return
// 0 when not applicable).
func Do(maxRetries int, fn func() error, statusOf func(error) int) error {
	var lastErr error
	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			time.Sleep(Backoff(attempt))
		}
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		status := 0
		if statusOf != nil {
			status = statusOf(err)
		}
		classified := ClassifyRetryableError(err, status)
		if classified != nil && !classified.ShouldRetry {
			return classified
		}
	}
	return lastErr
}
