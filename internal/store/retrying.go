package store

import (
	"context"
	"time"

	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/constants"
	"github.com/agentstation/toolhub/pkg/errors"
	"github.com/agentstation/toolhub/pkg/logging"
)

// Retrying retries failed reads with a doubling delay. Writes pass through
// once because increments are not idempotent.
type Retrying struct {
	inner    Store
	attempts int
	delay    time.Duration
}

var _ Store = (*Retrying)(nil)

// NewRetrying wraps inner. attempts counts the first try; values below one
// use MaxRetries. The delay doubles after each failure up to MaxRetryBackoff.
func NewRetrying(inner Store, attempts int, delay time.Duration) *Retrying {
	if attempts < 1 {
		attempts = constants.MaxRetries
	}
	if delay <= 0 {
		delay = constants.RetryBackoff
	}
	return &Retrying{inner: inner, attempts: attempts, delay: delay}
}

// retryable reports whether another attempt could succeed.
func retryable(err error) bool {
	switch {
	case err == nil:
		return false
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return false
	case errors.IsNotFound(err), errors.IsValidationError(err), errors.Is(err, errors.ErrClosed):
		return false
	}
	return true
}

func retry[T any](ctx context.Context, r *Retrying, op string, fn func() (T, error)) (T, error) {
	delay := r.delay
	var (
		out T
		err error
	)
	for attempt := 1; ; attempt++ {
		out, err = fn()
		if !retryable(err) || attempt >= r.attempts {
			return out, err
		}
		logging.FromContext(ctx).Warn().
			Err(err).
			Str("operation", op).
			Int("attempt", attempt).
			Dur("backoff", delay).
			Msg("store read failed, retrying")

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return out, errors.Join(err, ctx.Err())
		case <-timer.C:
		}
		delay = min(delay*2, constants.MaxRetryBackoff)
	}
}

// FetchAll implements Store.
func (r *Retrying) FetchAll(ctx context.Context, collection string) ([]catalog.Item, error) {
	return retry(ctx, r, "fetch_all", func() ([]catalog.Item, error) {
		return r.inner.FetchAll(ctx, collection)
	})
}

// FetchPage implements Store.
func (r *Retrying) FetchPage(ctx context.Context, collection string, pageSize int, cursor string) (Page, error) {
	return retry(ctx, r, "fetch_page", func() (Page, error) {
		return r.inner.FetchPage(ctx, collection, pageSize, cursor)
	})
}

// Count implements Store.
func (r *Retrying) Count(ctx context.Context, collection string) (int, error) {
	return retry(ctx, r, "count", func() (int, error) {
		return r.inner.Count(ctx, collection)
	})
}

// Get implements Store.
func (r *Retrying) Get(ctx context.Context, collection, id string) (catalog.Item, error) {
	return retry(ctx, r, "get", func() (catalog.Item, error) {
		return r.inner.Get(ctx, collection, id)
	})
}

// Put implements Store.
func (r *Retrying) Put(ctx context.Context, collection string, item catalog.Item) (catalog.Item, error) {
	return r.inner.Put(ctx, collection, item)
}

// Delete implements Store.
func (r *Retrying) Delete(ctx context.Context, collection, id string) error {
	return r.inner.Delete(ctx, collection, id)
}

// IncrementViews implements Store.
func (r *Retrying) IncrementViews(ctx context.Context, collection, id string) (catalog.Item, error) {
	return r.inner.IncrementViews(ctx, collection, id)
}

// IncrementClicks implements Store.
func (r *Retrying) IncrementClicks(ctx context.Context, collection, id string) (catalog.Item, error) {
	return r.inner.IncrementClicks(ctx, collection, id)
}

// Close implements Store.
func (r *Retrying) Close() error {
	return r.inner.Close()
}
