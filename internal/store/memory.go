package store

import (
	"context"
	"sync"

	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/errors"
)

// Memory is an in-process Store. Collections keep insertion order.
type Memory struct {
	opts *options

	mu          sync.RWMutex
	collections map[string]*catalog.Items
	closed      bool
}

var _ Store = (*Memory)(nil)

// NewMemory creates an empty in-memory store.
func NewMemory(opts ...Option) (*Memory, error) {
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	m := &Memory{opts: o, collections: make(map[string]*catalog.Items)}
	for _, name := range catalog.Collections() {
		m.collections[name] = catalog.NewItems()
	}
	return m, nil
}

func (m *Memory) collection(op, name string) (*catalog.Items, error) {
	if _, err := kindFor(name); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.closed {
		return nil, errors.WrapStore(op, name, errors.ErrClosed)
	}
	return m.collections[name], nil
}

// FetchAll implements Store.
func (m *Memory) FetchAll(ctx context.Context, collection string) ([]catalog.Item, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	items, err := m.collection("fetch", collection)
	if err != nil {
		return nil, err
	}
	return items.List(), nil
}

// FetchPage implements Store.
func (m *Memory) FetchPage(ctx context.Context, collection string, pageSize int, cursor string) (Page, error) {
	if err := ctx.Err(); err != nil {
		return Page{}, err
	}
	items, err := m.collection("fetch", collection)
	if err != nil {
		return Page{}, err
	}
	pageSize = pageSizeOrDefault(pageSize)
	window := items.After(cursor, pageSize)
	return newPage(window, pageSize), nil
}

// Count implements Store.
func (m *Memory) Count(ctx context.Context, collection string) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	items, err := m.collection("count", collection)
	if err != nil {
		return 0, err
	}
	return items.Len(), nil
}

// Get implements Store.
func (m *Memory) Get(ctx context.Context, collection, id string) (catalog.Item, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Item{}, err
	}
	items, err := m.collection("get", collection)
	if err != nil {
		return catalog.Item{}, err
	}
	item, ok := items.Get(id)
	if !ok {
		return catalog.Item{}, errors.NewNotFoundError(collection, id)
	}
	return item, nil
}

// Put implements Store.
func (m *Memory) Put(ctx context.Context, collection string, item catalog.Item) (catalog.Item, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Item{}, err
	}
	items, err := m.collection("put", collection)
	if err != nil {
		return catalog.Item{}, err
	}
	kind, _ := kindFor(collection)

	var existing *catalog.Item
	if item.ID != "" {
		if cur, ok := items.Get(item.ID); ok {
			existing = &cur
		}
	}
	stored := m.opts.prepare(kind, item, existing)
	if err := stored.Validate(); err != nil {
		return catalog.Item{}, err
	}
	if err := items.Set(stored); err != nil {
		return catalog.Item{}, err
	}
	return stored.Clone(), nil
}

// Delete implements Store.
func (m *Memory) Delete(ctx context.Context, collection, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	items, err := m.collection("delete", collection)
	if err != nil {
		return err
	}
	if !items.Delete(id) {
		return errors.NewNotFoundError(collection, id)
	}
	return nil
}

// IncrementViews implements Store.
func (m *Memory) IncrementViews(ctx context.Context, collection, id string) (catalog.Item, error) {
	return m.increment(ctx, collection, id, func(i *catalog.Item) { i.Views++ })
}

// IncrementClicks implements Store.
func (m *Memory) IncrementClicks(ctx context.Context, collection, id string) (catalog.Item, error) {
	return m.increment(ctx, collection, id, func(i *catalog.Item) { i.Clicks++ })
}

func (m *Memory) increment(ctx context.Context, collection, id string, fn func(*catalog.Item)) (catalog.Item, error) {
	if err := ctx.Err(); err != nil {
		return catalog.Item{}, err
	}
	items, err := m.collection("put", collection)
	if err != nil {
		return catalog.Item{}, err
	}
	item, ok := items.Update(id, fn)
	if !ok {
		return catalog.Item{}, errors.NewNotFoundError(collection, id)
	}
	return item, nil
}

// Close implements Store. Later calls fail with ErrClosed.
func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func newPage(items []catalog.Item, pageSize int) Page {
	p := Page{Items: items, HasMore: len(items) == pageSize}
	if len(items) > 0 {
		p.Cursor = items[len(items)-1].ID
	}
	return p
}
