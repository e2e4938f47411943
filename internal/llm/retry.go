package llm

import (
	"context"
	"errors"
	"time"

	"github.com/Conceptual-Machines/podcast-automate/internal/logger"
	"github.com/cenkalti/backoff/v5"
)

const defaultRetryInterval = 500 * time.Millisecond

// RetryProvider retries failed provider calls with exponential backoff.
// Cancellation and deadline errors are never retried.
type RetryProvider struct {
	next            Provider
	maxAttempts     uint
	initialInterval time.Duration
}

// WithRetry wraps a provider. maxAttempts <= 1 returns the provider unchanged.
func WithRetry(next Provider, maxAttempts int) Provider {
	if maxAttempts <= 1 {
		return next
	}
	return &RetryProvider{
		next:            next,
		maxAttempts:     uint(maxAttempts),
		initialInterval: defaultRetryInterval,
	}
}

// Name returns the wrapped provider's name
func (r *RetryProvider) Name() string {
	return r.next.Name()
}

// Generate calls the wrapped provider until it succeeds or attempts run out
func (r *RetryProvider) Generate(ctx context.Context, request *GenerationRequest) (*GenerationResponse, error) {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = r.initialInterval

	attempt := 0
	operation := func() (*GenerationResponse, error) {
		attempt++
		resp, err := r.next.Generate(ctx, request)
		if err == nil {
			return resp, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return nil, backoff.Permanent(err)
		}
		return nil, err
	}

	notify := func(err error, wait time.Duration) {
		logger.Warn("🔁 Provider call failed, retrying", logger.Fields{
			"provider": r.next.Name(),
			"model":    request.Model,
			"attempt":  attempt,
			"wait_ms":  wait.Milliseconds(),
			"reason":   err.Error(),
		})
	}

	return backoff.Retry(ctx, operation,
		backoff.WithBackOff(b),
		backoff.WithMaxTries(r.maxAttempts),
		backoff.WithNotify(notify),
	)
}
