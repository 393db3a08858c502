package products

import (
	"context"
	"errors"
	"net"
	"time"

	"dairyfresh-fulfillment/internal/logx"
)

type counter interface {
	Inc()
}

// RetryConfig describes the retry behavior of RetryingCatalog.
type RetryConfig struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// RetryingCatalog decorates a Catalog with bounded exponential-backoff
// retries on transient failures.
type RetryingCatalog struct {
	next    Catalog
	logger  logx.Logger
	retries counter
	cfg     RetryConfig
}

// NewRetryingCatalog wraps next; returns nil when next is nil.
func NewRetryingCatalog(next Catalog, logger logx.Logger, retries counter, cfg RetryConfig) *RetryingCatalog {
	if next == nil {
		return nil
	}
	return &RetryingCatalog{next: next, logger: logger, retries: retries, cfg: cfg}
}

// Product fetches a product, retrying transient catalog failures.
func (g *RetryingCatalog) Product(ctx context.Context, id int64) (*Product, error) {
	var lastErr error
	for attempt := 1; attempt <= g.cfg.MaxAttempts; attempt++ {
		p, err := g.next.Product(ctx, id)
		if err == nil {
			return p, nil
		}
		lastErr = err

		if ctx.Err() != nil || attempt == g.cfg.MaxAttempts || !isRetryable(err) {
			break
		}

		delay := backoff(g.cfg.BaseDelay, g.cfg.MaxDelay, attempt)
		if g.retries != nil {
			g.retries.Inc()
		}
		g.logger.Warn("catalog gateway retry",
			logx.Int64("product_id", id),
			logx.Int("attempt", attempt),
			logx.Duration("delay", delay),
			logx.Err(err),
		)
		if !sleepWithContext(ctx, delay) {
			break
		}
	}
	return nil, lastErr
}

// isRetryable classifies transient failures: catalog 5xx answers, network
// timeouts and exceeded deadlines.
func isRetryable(err error) bool {
	if errors.Is(err, ErrUnavailable) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

// backoff computes the retry delay for an attempt.
func backoff(base, max time.Duration, attempt int) time.Duration {
	d := base << (attempt - 1)
	if d > max {
		return max
	}
	return d
}

func sleepWithContext(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return true
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
