package browse

import (
	"context"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agentstation/toolhub/internal/store"
	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/errors"
	"github.com/agentstation/toolhub/pkg/query"
)

func snapshot() []catalog.Item {
	return []catalog.Item{
		{ID: "a", Name: "Alpha", Categories: []string{"Writing"}, Views: 10},
		{ID: "b", Name: "Beta", Categories: []string{"Image"}, Views: 50},
		{ID: "c", Name: "Gamma", Categories: []string{"Writing"}, Views: 30},
	}
}

func engineFetcher(calls *atomic.Int32) Fetcher {
	engine := query.New(query.DefaultConfig())
	return FetcherFunc(func(_ context.Context, req query.Request) (query.Result, error) {
		if calls != nil {
			calls.Add(1)
		}
		return engine.Search(snapshot(), req), nil
	})
}

func names(items []catalog.Item) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.Name
	}
	return out
}

func TestSessionLoadAndLoadMore(t *testing.T) {
	for _, paging := range []query.Paging{query.PagingOffset, query.PagingCursor} {
		t.Run(string(paging), func(t *testing.T) {
			s := NewSession(engineFetcher(nil), query.Request{PageSize: 2, Paging: paging})
			ctx := context.Background()
			assert.Equal(t, Idle, s.State())

			require.NoError(t, s.Load(ctx))
			v := s.View()
			assert.Equal(t, Loaded, v.State)
			assert.Equal(t, []string{"Alpha", "Beta"}, names(v.Items))
			assert.Equal(t, 3, v.Total)
			assert.True(t, v.HasMore)

			require.NoError(t, s.LoadMore(ctx))
			v = s.View()
			assert.Equal(t, Exhausted, v.State)
			assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, names(v.Items))

			// Exhausted sessions stay put.
			require.NoError(t, s.LoadMore(ctx))
			assert.Len(t, s.View().Items, 3)
		})
	}
}

func TestSessionLoadMoreFromIdleLoadsFirstPage(t *testing.T) {
	s := NewSession(engineFetcher(nil), query.Request{PageSize: 2})
	require.NoError(t, s.LoadMore(context.Background()))
	assert.Equal(t, []string{"Alpha", "Beta"}, names(s.View().Items))
}

func TestSessionSetRequestResets(t *testing.T) {
	s := NewSession(engineFetcher(nil), query.Request{PageSize: 2})
	ctx := context.Background()
	require.NoError(t, s.Load(ctx))

	s.SetRequest(query.Request{Filters: query.Filters{query.FacetCategory: {"Writing"}}, Sort: query.SortPopularity})
	assert.Equal(t, Idle, s.State())
	assert.Empty(t, s.View().Items)

	require.NoError(t, s.Load(ctx))
	v := s.View()
	assert.Equal(t, []string{"Gamma", "Alpha"}, names(v.Items))
	assert.Equal(t, Exhausted, v.State)
}

func TestSessionSearchLoadsFullMatchSet(t *testing.T) {
	s := NewSession(engineFetcher(nil), query.Request{PageSize: 1, SearchTerm: "a"})
	require.NoError(t, s.Load(context.Background()))
	v := s.View()
	assert.Len(t, v.Items, 3)
	assert.Equal(t, Exhausted, v.State)
}

func TestSessionBusyGuard(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	var calls atomic.Int32
	inner := engineFetcher(nil)
	fetcher := FetcherFunc(func(ctx context.Context, req query.Request) (query.Result, error) {
		calls.Add(1)
		close(started)
		<-release
		return inner.Fetch(ctx, req)
	})

	s := NewSession(fetcher, query.Request{PageSize: 2})
	done := make(chan error, 1)
	go func() { done <- s.Load(context.Background()) }()

	<-started
	assert.Equal(t, Loading, s.State())
	assert.ErrorIs(t, s.LoadMore(context.Background()), errors.ErrBusy)
	assert.ErrorIs(t, s.Load(context.Background()), errors.ErrBusy)

	close(release)
	require.NoError(t, <-done)
	assert.EqualValues(t, 1, calls.Load())
	assert.Equal(t, []string{"Alpha", "Beta"}, names(s.View().Items))
}

func TestSessionDropsStaleResponse(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{}, 1)
	inner := engineFetcher(nil)
	fetcher := FetcherFunc(func(ctx context.Context, req query.Request) (query.Result, error) {
		if req.SearchTerm == "slow" {
			started <- struct{}{}
			<-release
		}
		return inner.Fetch(ctx, req)
	})

	s := NewSession(fetcher, query.Request{SearchTerm: "slow"})
	done := make(chan error, 1)
	go func() { done <- s.Load(context.Background()) }()
	<-started

	s.SetRequest(query.Request{PageSize: 1})
	require.NoError(t, s.Load(context.Background()))
	close(release)
	require.NoError(t, <-done)

	v := s.View()
	assert.Equal(t, []string{"Alpha"}, names(v.Items))
	assert.Equal(t, Loaded, v.State)
}

func TestSessionFailureAndRetry(t *testing.T) {
	var fail atomic.Bool
	inner := engineFetcher(nil)
	fetcher := FetcherFunc(func(ctx context.Context, req query.Request) (query.Result, error) {
		if fail.Load() {
			return query.Result{}, errors.WrapStore("fetch", "tools", fmt.Errorf("network down"))
		}
		return inner.Fetch(ctx, req)
	})
	s := NewSession(fetcher, query.Request{PageSize: 2})
	ctx := context.Background()

	require.NoError(t, s.Load(ctx))
	fail.Store(true)
	err := s.LoadMore(ctx)
	require.Error(t, err)

	v := s.View()
	assert.Equal(t, Failed, v.State)
	assert.True(t, errors.IsUnavailable(v.Err))
	assert.Len(t, v.Items, 2, "accumulated items survive a failed load more")

	fail.Store(false)
	require.NoError(t, s.Retry(ctx))
	v = s.View()
	assert.Equal(t, Exhausted, v.State)
	assert.Nil(t, v.Err)
	assert.Equal(t, []string{"Alpha", "Beta", "Gamma"}, names(v.Items))

	// Retry outside Failed does nothing.
	require.NoError(t, s.Retry(ctx))
}

func TestSessionFirstLoadFailureRetries(t *testing.T) {
	var calls atomic.Int32
	var fail atomic.Bool
	fail.Store(true)
	inner := engineFetcher(&calls)
	fetcher := FetcherFunc(func(ctx context.Context, req query.Request) (query.Result, error) {
		if fail.Load() {
			return query.Result{}, fmt.Errorf("offline")
		}
		return inner.Fetch(ctx, req)
	})
	s := NewSession(fetcher, query.Request{PageSize: 5})

	require.Error(t, s.Load(context.Background()))
	assert.Equal(t, Failed, s.State())

	fail.Store(false)
	require.NoError(t, s.LoadMore(context.Background()))
	assert.Len(t, s.View().Items, 3)
	assert.EqualValues(t, 1, calls.Load())
}

func TestStoreFetcher(t *testing.T) {
	mem, err := store.NewMemory()
	require.NoError(t, err)
	ctx := context.Background()
	for _, n := range []string{"Alpha", "Beta"} {
		_, err := mem.Put(ctx, catalog.CollectionTools, catalog.Item{
			Name: n, Website: "https://example.com", Categories: []string{"Writing"}, PricingModel: catalog.PricingFree,
		})
		require.NoError(t, err)
	}

	f := StoreFetcher{Store: mem, Collection: catalog.CollectionTools, Engine: query.New(query.DefaultConfig())}
	res, err := f.Fetch(ctx, query.Request{Sort: query.SortName})
	require.NoError(t, err)
	assert.Equal(t, []string{"Alpha", "Beta"}, names(res.Items))

	_, err = StoreFetcher{Store: mem, Collection: "bogus", Engine: query.New(query.Config{})}.Fetch(ctx, query.Request{})
	assert.True(t, errors.IsValidationError(err))
}

func TestStateString(t *testing.T) {
	assert.Equal(t, "exhausted", Exhausted.String())
	assert.Equal(t, "failed", Failed.String())
}
