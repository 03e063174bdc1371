package llm

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"go.uber.org/zap"

	"github.com/gia-fashion/stylist-platform/pkg/logger"
	"github.com/gia-fashion/stylist-platform/pkg/metrics"
)

// Options bound each completion call.
type Options struct {
	// Timeout applies to every attempt separately.
	Timeout time.Duration
	// Retries is the number of extra attempts after a transient failure.
	Retries   uint64
	RetryWait time.Duration
}

// ResilientClient adds a per-attempt timeout and bounded retries to a Client.
type ResilientClient struct {
	next   Client
	opts   Options
	logger *logger.Logger
}

// WithResilience wraps next. Only transient upstream failures are retried.
func WithResilience(next Client, opts Options, log *logger.Logger) *ResilientClient {
	if log == nil {
		log = logger.NewNop()
	}
	return &ResilientClient{next: next, opts: opts, logger: log}
}

// Name returns the wrapped provider name.
func (c *ResilientClient) Name() string {
	return c.next.Name()
}

// Complete calls the wrapped client, retrying transient failures.
func (c *ResilientClient) Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error) {
	var (
		resp    *CompletionResponse
		attempt int
	)

	op := func() error {
		attempt++
		if attempt > 1 {
			metrics.CompletionRetriesTotal.WithLabelValues(c.Name()).Inc()
		}

		attemptCtx := ctx
		if c.opts.Timeout > 0 {
			var cancel context.CancelFunc
			attemptCtx, cancel = context.WithTimeout(ctx, c.opts.Timeout)
			defer cancel()
		}

		start := time.Now()
		r, err := c.next.Complete(attemptCtx, req)
		elapsed := time.Since(start).Seconds()
		if err != nil {
			metrics.RecordCompletion(c.Name(), "", "error", elapsed, 0, 0)
			c.logger.Warn("completion attempt failed",
				zap.String("provider", c.Name()),
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			if !retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}

		metrics.RecordCompletion(c.Name(), r.Model, "ok", elapsed, r.TokensIn, r.TokensOut)
		resp = r
		return nil
	}

	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(c.opts.RetryWait), c.opts.Retries),
		ctx,
	)
	if err := backoff.Retry(op, policy); err != nil {
		return nil, err
	}
	return resp, nil
}

func retryable(err error) bool {
	var up *UpstreamError
	return errors.As(err, &up) && up.Temporary()
}
