package stt

import (
	"context"
	"time"

	. "voxgram/internal/logging"
)

// Retry policy: 3 attempts total, backoff doubling from 2s (2s, 4s),
// the whole loop bounded by an overall deadline.
const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 2 * time.Second
	defaultDeadline    = 5 * time.Minute
)

// Client wraps a Provider with bounded retry and an overall timeout.
// Transient failures are retried with exponential backoff; permanent
// failures are surfaced immediately without consuming the budget.
type Client struct {
	provider    Provider
	maxAttempts int
	baseDelay   time.Duration
	deadline    time.Duration

	// sleep is swapped out in tests to avoid real backoff waits.
	sleep func(ctx context.Context, d time.Duration) error
}

// NewClient creates a retrying transcription client around provider.
func NewClient(provider Provider) *Client {
	return &Client{
		provider:    provider,
		maxAttempts: defaultMaxAttempts,
		baseDelay:   defaultBaseDelay,
		deadline:    defaultDeadline,
		sleep:       sleepCtx,
	}
}

// Transcribe runs the provider with the retry policy. It returns the
// result together with the number of attempts actually made. After the
// budget is spent the terminal ExhaustedError wraps the last cause.
func (c *Client) Transcribe(ctx context.Context, filePath string) (*Result, int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.deadline)
	defer cancel()

	var lastErr error
	attempts := 0

	for attempt := 1; attempt <= c.maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			break
		}
		attempts = attempt

		result, err := c.provider.Transcribe(ctx, filePath)
		if err == nil {
			return result, attempt, nil
		}
		lastErr = err

		if !IsTransient(err) {
			L_error("stt: permanent failure", "provider", c.provider.Name(), "attempt", attempt, "error", err)
			return nil, attempt, err
		}

		L_warn("stt: transient failure",
			"provider", c.provider.Name(),
			"attempt", attempt,
			"maxAttempts", c.maxAttempts,
			"error", err,
		)

		if attempt == c.maxAttempts {
			return nil, attempt, &ExhaustedError{Attempts: attempt, Last: lastErr}
		}

		// 2s, 4s, 8s...
		delay := c.baseDelay << (attempt - 1)
		if err := c.sleep(ctx, delay); err != nil {
			// Overall deadline hit while backing off.
			return nil, attempt, &ExhaustedError{Attempts: attempt, Last: lastErr}
		}
	}

	if lastErr == nil {
		// Deadline expired before the first attempt.
		return nil, attempts, ctx.Err()
	}
	return nil, attempts, &ExhaustedError{Attempts: attempts, Last: lastErr}
}

// Name returns the wrapped provider's name.
func (c *Client) Name() string {
	return c.provider.Name()
}

// Close shuts down the wrapped provider.
func (c *Client) Close() error {
	return c.provider.Close()
}

// sleepCtx waits for d or until the context is done.
func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
