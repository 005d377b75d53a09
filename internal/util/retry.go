// ABOUTME: Retry utilities for API calls with exponential backoff
// ABOUTME: Shared by the embedding and chat calls when operators enable retries
package util

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/avast/retry-go/v4"
)

// CalculateBackoff returns exponential backoff with jitter
// Base delay is doubled each attempt, with random jitter up to 25%
func CalculateBackoff(baseDelay time.Duration, attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	// Cap attempt to avoid overflow in bit shift (max 30 for safety)
	if attempt > 30 {
		attempt = 30
	}
	// Exponential: 2^attempt * base
	backoff := baseDelay * time.Duration(1<<uint(attempt))
	// Cap at 30 seconds
	if backoff > 30*time.Second {
		backoff = 30 * time.Second
	}
	if backoff <= 0 {
		return 0
	}
	// Add jitter: -25% to +25% using auto-seeded math/rand/v2
	half := int64(backoff) / 2
	if half == 0 {
		return backoff
	}
	jitter := time.Duration(rand.Int64N(half)) - backoff/4
	return backoff + jitter
}

// Permanent marks err so Retry gives up immediately
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return retry.Unrecoverable(err)
}

// Retry runs fn once plus up to maxRetries more times, sleeping CalculateBackoff
// between attempts. It stops early on a Permanent error or a cancelled context
// and returns the last failure.
func Retry(ctx context.Context, maxRetries int, baseDelay time.Duration, fn func(ctx context.Context) error) error {
	if maxRetries < 0 {
		maxRetries = 0
	}

	return retry.Do(
		func() error { return fn(ctx) },
		retry.Context(ctx),
		retry.Attempts(uint(maxRetries)+1),
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			return CalculateBackoff(baseDelay, int(n)+1)
		}),
		retry.LastErrorOnly(true),
	)
}
