// Copyright 2026 The MotleyAI Authors
// SPDX-License-Identifier: Apache-2.0

package slides

import (
	"context"
	"math"
	"math/rand/v2"
	"time"
)

// BackoffConfig controls the retry schedule applied to every outbound
// call. Each context carries its own copy (children inherit the
// parent's values unless overridden), so different logical callers can
// apply different aggressiveness without touching shared state.
type BackoffConfig struct {
	// InitialWait is the delay before the first retry.
	InitialWait time.Duration `yaml:"initial_wait"`

	// Multiplier scales the wait for each subsequent retry:
	// InitialWait * Multiplier^attempt.
	Multiplier float64 `yaml:"multiplier"`

	// MaxAttempts is the total number of calls made before giving up,
	// including the first one.
	MaxAttempts int `yaml:"max_attempts"`

	// Jitter is the maximum random fraction added to each wait, in
	// [0, 1]. Zero disables jitter.
	Jitter float64 `yaml:"jitter"`
}

// withDefaults fills zero fields from the default schedule.
func (c BackoffConfig) withDefaults() BackoffConfig {
	defaults := DefaultSettings().Backoff
	if c.InitialWait <= 0 {
		c.InitialWait = defaults.InitialWait
	}
	if c.Multiplier < 1 {
		c.Multiplier = defaults.Multiplier
	}
	if c.MaxAttempts < 1 {
		c.MaxAttempts = defaults.MaxAttempts
	}
	if c.Jitter < 0 || c.Jitter > 1 {
		c.Jitter = defaults.Jitter
	}
	return c
}

// wait returns the delay before the retry following the given 0-based
// attempt.
func (c BackoffConfig) wait(attempt int) time.Duration {
	delay := float64(c.InitialWait) * math.Pow(c.Multiplier, float64(attempt))
	if c.Jitter > 0 {
		delay += delay * c.Jitter * rand.Float64()
	}
	return time.Duration(delay)
}

// execute runs op under the client's retry schedule. Transient
// failures (rate limits, 5xx, network timeouts) are retried with
// exponential backoff; anything else is surfaced immediately. Once the
// attempt budget is spent, the last transient failure is wrapped in a
// *RetriesExhaustedError.
//
// Backoff sleeps go through the injected clock and respect context
// cancellation; an in-flight call itself is treated as atomic.
func (c *Client) execute(ctx context.Context, operation string, op func(ctx context.Context) error) error {
	attempts := c.backoff.MaxAttempts
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		err := op(ctx)
		if err == nil {
			return nil
		}
		if !IsTransient(err) {
			return err
		}
		lastErr = err
		if attempt == attempts-1 {
			break
		}

		delay := c.backoff.wait(attempt)
		c.logger.Info("transient failure, backing off",
			"operation", operation,
			"attempt", attempt+1,
			"delay", delay,
			"error", err,
		)
		select {
		case <-c.clock.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return &RetriesExhaustedError{Attempts: attempts, Err: lastErr}
}
