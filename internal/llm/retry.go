package llm

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"go.uber.org/zap"
	"google.golang.org/api/googleapi"
)

// RetryCompleter is a decorator that retries transient completion failures
// with exponential backoff and jitter.
type RetryCompleter struct {
	inner      Completer
	maxRetries int
	baseDelay  time.Duration
	logger     *zap.Logger
}

// NewRetryCompleter wraps inner. maxRetries is the number of additional
// attempts after the first failure; baseDelay doubles on each retry.
func NewRetryCompleter(inner Completer, maxRetries int, baseDelay time.Duration, logger *zap.Logger) *RetryCompleter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RetryCompleter{inner: inner, maxRetries: maxRetries, baseDelay: baseDelay, logger: logger}
}

// Complete implements Completer.
func (r *RetryCompleter) Complete(ctx context.Context, prompt, systemPrompt string, opts ...CallOption) (string, error) {
	out, err := r.inner.Complete(ctx, prompt, systemPrompt, opts...)
	if err == nil || !isRetryable(err) {
		return out, err
	}

	lastErr := err
	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		delay := r.backoffDelay(attempt)
		r.logger.Warn("retrying completion after transient error",
			zap.Int("attempt", attempt),
			zap.Int("max_retries", r.maxRetries),
			zap.Duration("delay", delay),
			zap.Error(lastErr),
		)

		select {
		case <-ctx.Done():
			return "", fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}

		out, err = r.inner.Complete(ctx, prompt, systemPrompt, opts...)
		if err == nil {
			return out, nil
		}
		if !isRetryable(err) {
			return "", err
		}
		lastErr = err
	}
	return "", lastErr
}

// backoffDelay computes baseDelay * 2^(attempt-1) with ±30% jitter.
func (r *RetryCompleter) backoffDelay(attempt int) time.Duration {
	delay := r.baseDelay
	for i := 1; i < attempt; i++ {
		delay *= 2
	}
	jitter := float64(delay) * 0.3
	return time.Duration(float64(delay) + (rand.Float64()*2-1)*jitter)
}

// isRetryable reports whether err is a transient provider failure.
func isRetryable(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) || errors.Is(err, ErrNoAPIKey) {
		return false
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == 429 || apiErr.Code >= 500
	}

	// Non-HTTP errors (network, DNS, empty candidates) are retryable.
	return true
}
