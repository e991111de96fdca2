package store

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/errors"
)

// flaky fails the first n reads with err, then delegates.
type flaky struct {
	Store
	failures int
	err      error
	calls    int
}

func (f *flaky) FetchAll(ctx context.Context, collection string) ([]catalog.Item, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, f.err
	}
	return f.Store.FetchAll(ctx, collection)
}

func (f *flaky) Get(ctx context.Context, collection, id string) (catalog.Item, error) {
	f.calls++
	return f.Store.Get(ctx, collection, id)
}

func newSeeded(t *testing.T, names ...string) *Memory {
	t.Helper()
	m, err := NewMemory()
	require.NoError(t, err)
	for _, n := range names {
		_, err := m.Put(context.Background(), catalog.CollectionTools, tool(n))
		require.NoError(t, err)
	}
	return m
}

func TestRetryingRecovers(t *testing.T) {
	inner := &flaky{Store: newSeeded(t, "a", "b"), failures: 2, err: errors.WrapStore("fetch", "tools", fmt.Errorf("timeout"))}
	r := NewRetrying(inner, 3, time.Millisecond)

	items, err := r.FetchAll(context.Background(), catalog.CollectionTools)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 3, inner.calls)
}

func TestRetryingGivesUp(t *testing.T) {
	inner := &flaky{Store: newSeeded(t), failures: 10, err: fmt.Errorf("connection reset")}
	r := NewRetrying(inner, 3, time.Millisecond)

	_, err := r.FetchAll(context.Background(), catalog.CollectionTools)
	require.Error(t, err)
	assert.Equal(t, 3, inner.calls)
}

func TestRetryingSkipsPermanentErrors(t *testing.T) {
	tests := []struct {
		name string
		err  error
	}{
		{"not found", errors.NewNotFoundError("tools", "x")},
		{"validation", errors.NewValidationError("collection", "x", "bad")},
		{"canceled", context.Canceled},
		{"closed", errors.WrapStore("fetch", "tools", errors.ErrClosed)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inner := &flaky{Store: newSeeded(t), failures: 10, err: tt.err}
			_, err := NewRetrying(inner, 5, time.Millisecond).FetchAll(context.Background(), catalog.CollectionTools)
			assert.ErrorIs(t, err, tt.err)
			assert.Equal(t, 1, inner.calls)
		})
	}
}

func TestRetryingStopsOnContextDone(t *testing.T) {
	inner := &flaky{Store: newSeeded(t), failures: 10, err: fmt.Errorf("slow")}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := NewRetrying(inner, 10, time.Second).FetchAll(ctx, catalog.CollectionTools)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), 500*time.Millisecond)
}

func TestRetryingDefaults(t *testing.T) {
	r := NewRetrying(newSeeded(t), 0, 0)
	assert.Equal(t, 3, r.attempts)
	assert.Positive(t, r.delay)
}

func TestCachedServesFromCache(t *testing.T) {
	inner := &flaky{Store: newSeeded(t, "a")}
	c := NewCached(inner, time.Minute)
	ctx := context.Background()

	first, err := c.FetchAll(ctx, catalog.CollectionTools)
	require.NoError(t, err)
	second, err := c.FetchAll(ctx, catalog.CollectionTools)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, inner.calls)

	// Mutating a returned snapshot leaves the cache alone.
	second[0].Categories[0] = "Changed"
	third, err := c.FetchAll(ctx, catalog.CollectionTools)
	require.NoError(t, err)
	assert.Equal(t, "Writing", third[0].Categories[0])

	stats := c.Stats()
	assert.EqualValues(t, 2, stats.Hits)
}

func TestCachedInvalidatesOnWrite(t *testing.T) {
	inner := &flaky{Store: newSeeded(t, "a")}
	c := NewCached(inner, time.Minute)
	ctx := context.Background()

	_, err := c.FetchAll(ctx, catalog.CollectionTools)
	require.NoError(t, err)
	_, err = c.Put(ctx, catalog.CollectionTools, tool("b"))
	require.NoError(t, err)

	items, err := c.FetchAll(ctx, catalog.CollectionTools)
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedExpires(t *testing.T) {
	inner := &flaky{Store: newSeeded(t, "a")}
	c := NewCached(inner, 20*time.Millisecond)
	ctx := context.Background()

	_, err := c.FetchAll(ctx, catalog.CollectionTools)
	require.NoError(t, err)
	time.Sleep(40 * time.Millisecond)
	_, err = c.FetchAll(ctx, catalog.CollectionTools)
	require.NoError(t, err)
	assert.Equal(t, 2, inner.calls)
}

func TestCachedDoesNotCacheErrors(t *testing.T) {
	inner := &flaky{Store: newSeeded(t, "a"), failures: 1, err: fmt.Errorf("boom")}
	c := NewCached(inner, time.Minute)

	_, err := c.FetchAll(context.Background(), catalog.CollectionTools)
	require.Error(t, err)
	items, err := c.FetchAll(context.Background(), catalog.CollectionTools)
	require.NoError(t, err)
	assert.Len(t, items, 1)
}

func TestCachedIncrementEvictsItem(t *testing.T) {
	inner := &flaky{Store: newSeeded(t, "a")}
	c := NewCached(inner, time.Minute)
	ctx := context.Background()

	all, err := c.FetchAll(ctx, catalog.CollectionTools)
	require.NoError(t, err)
	id := all[0].ID

	_, err = c.Get(ctx, catalog.CollectionTools, id)
	require.NoError(t, err)
	_, err = c.IncrementViews(ctx, catalog.CollectionTools, id)
	require.NoError(t, err)

	got, err := c.Get(ctx, catalog.CollectionTools, id)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got.Views)
}
