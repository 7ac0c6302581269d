// ABOUTME: Retry utilities for storage writes with exponential backoff
// ABOUTME: Used by callers that choose to retry a failed journal save
package util

import (
	"math/rand/v2"
	"time"
)

// MaxBackoff caps a single retry delay
const MaxBackoff = 30 * time.Second

// CalculateBackoff returns exponential backoff with jitter.
// Base delay is doubled each attempt, with random jitter up to 25%.
func CalculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 || baseDelay <= 0 {
		return 0
	}
	if attempt > 30 {
		attempt = 30
	}
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	if backoff > MaxBackoff || backoff <= 0 {
		backoff = MaxBackoff
	}
	jitter := time.Duration(rand.Int64N(int64(backoff)/2+1)) - backoff/4
	return backoff + jitter
}

// RetryPolicy describes how many times to retry and how long to wait
type RetryPolicy struct {
	Attempts  int
	BaseDelay time.Duration
	// Retryable decides whether an error is worth another attempt.
	// Nil retries every error.
	Retryable func(error) bool
	// Sleep waits between attempts; nil uses time.Sleep.
	Sleep func(time.Duration)
}

// Retry runs fn until it succeeds, the error is not retryable, or the
// attempts are used up. It returns the last error.
func Retry(policy RetryPolicy, fn func() error) error {
	sleep := policy.Sleep
	if sleep == nil {
		sleep = time.Sleep
	}
	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			sleep(CalculateBackoff(policy.BaseDelay, attempt))
		}
		if err = fn(); err == nil {
			return nil
		}
		if policy.Retryable != nil && !policy.Retryable(err) {
			return err
		}
	}
	return err
}
