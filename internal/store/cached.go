package store

import (
	"context"
	"fmt"
	"time"

	"github.com/agentstation/toolhub/internal/cache"
	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/constants"
)

// Cached keeps reads from an inner Store in a TTL cache keyed by query
// shape. Writes evict the whole collection. Counter increments evict only
// the item itself, so lists may show view counts up to one TTL old.
type Cached struct {
	inner Store
	cache *cache.Cache
}

var _ Store = (*Cached)(nil)

// NewCached wraps inner. A non-positive ttl uses the default of five minutes.
func NewCached(inner Store, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = constants.CacheTTL
	}
	return &Cached{inner: inner, cache: cache.New(ttl, constants.CacheCleanupInterval)}
}

// Stats reports cache usage.
func (c *Cached) Stats() cache.Stats {
	return c.cache.GetStats()
}

// Invalidate drops everything cached for a collection.
func (c *Cached) Invalidate(collection string) {
	c.cache.DeletePrefix(collection + ":")
}

func key(collection, shape string, args ...any) string {
	return collection + ":" + shape + fmt.Sprint(args...)
}

// FetchAll implements Store. Callers get their own copies.
func (c *Cached) FetchAll(ctx context.Context, collection string) ([]catalog.Item, error) {
	k := key(collection, "all")
	if items, ok := cache.Get[[]catalog.Item](c.cache, k); ok {
		return cloneAll(items), nil
	}
	items, err := c.inner.FetchAll(ctx, collection)
	if err != nil {
		return nil, err
	}
	c.cache.Set(k, cloneAll(items))
	return items, nil
}

// FetchPage implements Store.
func (c *Cached) FetchPage(ctx context.Context, collection string, pageSize int, cursor string) (Page, error) {
	k := key(collection, "page", pageSize, "/", cursor)
	if p, ok := cache.Get[Page](c.cache, k); ok {
		p.Items = cloneAll(p.Items)
		return p, nil
	}
	p, err := c.inner.FetchPage(ctx, collection, pageSize, cursor)
	if err != nil {
		return Page{}, err
	}
	cached := p
	cached.Items = cloneAll(p.Items)
	c.cache.Set(k, cached)
	return p, nil
}

// Count implements Store.
func (c *Cached) Count(ctx context.Context, collection string) (int, error) {
	k := key(collection, "count")
	if n, ok := cache.Get[int](c.cache, k); ok {
		return n, nil
	}
	n, err := c.inner.Count(ctx, collection)
	if err != nil {
		return 0, err
	}
	c.cache.Set(k, n)
	return n, nil
}

// Get implements Store.
func (c *Cached) Get(ctx context.Context, collection, id string) (catalog.Item, error) {
	k := key(collection, "get/", id)
	if item, ok := cache.Get[catalog.Item](c.cache, k); ok {
		return item.Clone(), nil
	}
	item, err := c.inner.Get(ctx, collection, id)
	if err != nil {
		return catalog.Item{}, err
	}
	c.cache.Set(k, item.Clone())
	return item, nil
}

// Put implements Store.
func (c *Cached) Put(ctx context.Context, collection string, item catalog.Item) (catalog.Item, error) {
	stored, err := c.inner.Put(ctx, collection, item)
	if err == nil {
		c.Invalidate(collection)
	}
	return stored, err
}

// Delete implements Store.
func (c *Cached) Delete(ctx context.Context, collection, id string) error {
	err := c.inner.Delete(ctx, collection, id)
	if err == nil {
		c.Invalidate(collection)
	}
	return err
}

// IncrementViews implements Store.
func (c *Cached) IncrementViews(ctx context.Context, collection, id string) (catalog.Item, error) {
	item, err := c.inner.IncrementViews(ctx, collection, id)
	c.cache.Delete(key(collection, "get/", id))
	return item, err
}

// IncrementClicks implements Store.
func (c *Cached) IncrementClicks(ctx context.Context, collection, id string) (catalog.Item, error) {
	item, err := c.inner.IncrementClicks(ctx, collection, id)
	c.cache.Delete(key(collection, "get/", id))
	return item, err
}

// Close implements Store.
func (c *Cached) Close() error {
	c.cache.Clear()
	return c.inner.Close()
}

func cloneAll(items []catalog.Item) []catalog.Item {
	out := make([]catalog.Item, len(items))
	for i, it := range items {
		out[i] = it.Clone()
	}
	return out
}
