// Package store is the data-access layer behind the query engine. It
// fetches whole collection snapshots, pages through collections by cursor,
// and owns writes and counter updates.
//
// Two backends exist: an in-memory store for tests and seeding, and a bbolt
// document store for persistence. The Cached and Retrying decorators wrap
// either one.
package store

import (
	"context"
	"time"

	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/constants"
	"github.com/agentstation/toolhub/pkg/errors"
)

// Page is one cursor page of a collection in storage order.
type Page struct {
	Items   []catalog.Item `json:"items"`
	Cursor  string         `json:"cursor,omitempty"` // ID of the last item; pass back to continue
	HasMore bool           `json:"hasMore"`          // true when the page came back full
}

// Store is the data-access collaborator used by the server and the CLI.
type Store interface {
	// FetchAll returns every item in the collection, in storage order.
	FetchAll(ctx context.Context, collection string) ([]catalog.Item, error)

	// FetchPage returns up to pageSize items after cursor. An empty cursor
	// starts at the beginning.
	FetchPage(ctx context.Context, collection string, pageSize int, cursor string) (Page, error)

	Count(ctx context.Context, collection string) (int, error)
	Get(ctx context.Context, collection, id string) (catalog.Item, error)

	// Put inserts or replaces an item and returns the stored version. New
	// items get an ID and CreatedAt. Replacing keeps CreatedAt and counters.
	Put(ctx context.Context, collection string, item catalog.Item) (catalog.Item, error)

	Delete(ctx context.Context, collection, id string) error
	IncrementViews(ctx context.Context, collection, id string) (catalog.Item, error)
	IncrementClicks(ctx context.Context, collection, id string) (catalog.Item, error)
	Close() error
}

// Option configures a backend.
type Option func(*options)

type options struct {
	now   func() time.Time
	idGen *catalog.IDGenerator
}

// WithClock overrides the clock used for timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithIDGenerator overrides the ID generator for new items.
func WithIDGenerator(gen *catalog.IDGenerator) Option {
	return func(o *options) { o.idGen = gen }
}

func buildOptions(opts []Option) (*options, error) {
	o := &options{now: func() time.Time { return time.Now().UTC() }}
	for _, opt := range opts {
		opt(o)
	}
	if o.idGen == nil {
		gen, err := catalog.NewIDGenerator(1)
		if err != nil {
			return nil, err
		}
		o.idGen = gen
	}
	return o, nil
}

// kindFor validates a collection name.
func kindFor(collection string) (catalog.Kind, error) {
	kind, ok := catalog.KindForCollection(collection)
	if !ok || collection != kind.Collection() {
		return "", errors.NewValidationError("collection", collection, "must be tools or guides")
	}
	return kind, nil
}

func pageSizeOrDefault(n int) int {
	if n <= 0 {
		return constants.DefaultPageSize
	}
	return n
}

// prepare stamps an item for writing. existing is the stored version, if any.
func (o *options) prepare(kind catalog.Kind, item catalog.Item, existing *catalog.Item) catalog.Item {
	item = item.Clone()
	item.Kind = kind
	now := o.now()
	if item.ID == "" {
		item.ID = o.idGen.Next()
	}
	if existing != nil {
		item.CreatedAt = existing.CreatedAt
		item.Views = existing.Views
		item.Clicks = existing.Clicks
	} else if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	item.Normalize()
	return item
}
