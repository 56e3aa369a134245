package provider

import (
	"context"
	"time"
)

// RetryConfig controls the backoff applied to transient quote failures.
type RetryConfig struct {
	MaxAttempts   int
	InitialDelay  time.Duration
	MaxDelay      time.Duration
	BackoffFactor float64
}

// DefaultRetryConfig returns the default retry configuration.
func DefaultRetryConfig() RetryConfig {
	return RetryConfig{
		MaxAttempts:   3,
		InitialDelay:  100 * time.Millisecond,
		MaxDelay:      5 * time.Second,
		BackoffFactor: 2.0,
	}
}

// RetryingProvider wraps a QuoteProvider with exponential-backoff
// retries. Order submission is deliberately not wrapped: a resubmitted
// order that actually reached the venue doubles the position.
type RetryingProvider struct {
	inner QuoteProvider
	cfg   RetryConfig
}

// WithRetry decorates a provider with retry behavior.
func WithRetry(inner QuoteProvider, cfg RetryConfig) *RetryingProvider {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}
	return &RetryingProvider{inner: inner, cfg: cfg}
}

func retry[T any](ctx context.Context, cfg RetryConfig, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error
	delay := cfg.InitialDelay

	for attempt := 0; attempt < cfg.MaxAttempts; attempt++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return zero, ctx.Err()
		}
		if attempt < cfg.MaxAttempts-1 {
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return zero, ctx.Err()
			}
			delay = time.Duration(float64(delay) * cfg.BackoffFactor)
			if delay > cfg.MaxDelay {
				delay = cfg.MaxDelay
			}
		}
	}
	return zero, lastErr
}

func (r *RetryingProvider) Chain(ctx context.Context, underlying string) (map[string]ChainQuote, error) {
	return retry(ctx, r.cfg, func() (map[string]ChainQuote, error) {
		return r.inner.Chain(ctx, underlying)
	})
}

func (r *RetryingProvider) Spot(ctx context.Context, underlying string) (float64, error) {
	return retry(ctx, r.cfg, func() (float64, error) {
		return r.inner.Spot(ctx, underlying)
	})
}

func (r *RetryingProvider) IndexLevel(ctx context.Context) (float64, error) {
	return retry(ctx, r.cfg, func() (float64, error) {
		return r.inner.IndexLevel(ctx)
	})
}

func (r *RetryingProvider) IndexHistory(ctx context.Context, days int) ([]float64, error) {
	return retry(ctx, r.cfg, func() ([]float64, error) {
		return r.inner.IndexHistory(ctx, days)
	})
}
