package store

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	bolt "go.etcd.io/bbolt"

	"github.com/agentstation/toolhub/pkg/catalog"
	"github.com/agentstation/toolhub/pkg/constants"
	"github.com/agentstation/toolhub/pkg/errors"
)

// Bolt is a Store backed by a bbolt file. Each collection is a bucket of
// JSON documents keyed by item ID, so pages follow key order.
type Bolt struct {
	opts *options
	path string

	mu     sync.RWMutex
	db     *bolt.DB
	closed bool
}

var _ Store = (*Bolt)(nil)

// OpenBolt opens or creates the database at path and makes sure every
// collection bucket exists.
func OpenBolt(path string, opts ...Option) (*Bolt, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return nil, errors.NewConfigError("store", "database path is required", nil)
	}
	o, err := buildOptions(opts)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(filepath.Dir(trimmed), constants.DirPermissions); err != nil {
		return nil, errors.WrapIO("mkdir", filepath.Dir(trimmed), err)
	}
	db, err := bolt.Open(trimmed, constants.SecureFilePermissions, &bolt.Options{Timeout: constants.BoltOpenTimeout})
	if err != nil {
		return nil, errors.WrapIO("open", trimmed, err)
	}
	err = db.Update(func(tx *bolt.Tx) error {
		for _, name := range catalog.Collections() {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, errors.WrapIO("init", trimmed, err)
	}
	return &Bolt{opts: o, path: trimmed, db: db}, nil
}

// DB exposes the underlying handle so other packages can keep their own
// buckets in the same file.
func (b *Bolt) DB() *bolt.DB {
	return b.db
}

// Path returns the database file path.
func (b *Bolt) Path() string {
	return b.path
}

// Close implements Store.
func (b *Bolt) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return nil
	}
	b.closed = true
	return b.db.Close()
}

func (b *Bolt) view(ctx context.Context, op, collection string, fn func(*bolt.Bucket) error) error {
	return b.tx(ctx, op, collection, false, fn)
}

func (b *Bolt) update(ctx context.Context, op, collection string, fn func(*bolt.Bucket) error) error {
	return b.tx(ctx, op, collection, true, fn)
}

func (b *Bolt) tx(ctx context.Context, op, collection string, writable bool, fn func(*bolt.Bucket) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := kindFor(collection); err != nil {
		return err
	}
	b.mu.RLock()
	defer b.mu.RUnlock()
	if b.closed {
		return errors.WrapStore(op, collection, errors.ErrClosed)
	}

	run := func(tx *bolt.Tx) error {
		bucket := tx.Bucket([]byte(collection))
		if bucket == nil {
			return fmt.Errorf("bucket %s missing", collection)
		}
		return fn(bucket)
	}
	var err error
	if writable {
		err = b.db.Update(run)
	} else {
		err = b.db.View(run)
	}
	if err == nil || errors.IsNotFound(err) || errors.IsValidationError(err) {
		return err
	}
	return errors.WrapStore(op, collection, err)
}

// FetchAll implements Store.
func (b *Bolt) FetchAll(ctx context.Context, collection string) ([]catalog.Item, error) {
	items := []catalog.Item{}
	err := b.view(ctx, "fetch", collection, func(bucket *bolt.Bucket) error {
		return bucket.ForEach(func(_, value []byte) error {
			item, err := decodeItem(value)
			if err != nil {
				return err
			}
			items = append(items, item)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FetchPage implements Store.
func (b *Bolt) FetchPage(ctx context.Context, collection string, pageSize int, cursor string) (Page, error) {
	pageSize = pageSizeOrDefault(pageSize)
	items := make([]catalog.Item, 0, pageSize)
	err := b.view(ctx, "fetch", collection, func(bucket *bolt.Bucket) error {
		c := bucket.Cursor()
		var k, v []byte
		if cursor == "" {
			k, v = c.First()
		} else {
			k, v = c.Seek([]byte(cursor))
			if k != nil && bytes.Equal(k, []byte(cursor)) {
				k, v = c.Next()
			}
		}
		for ; k != nil && len(items) < pageSize; k, v = c.Next() {
			item, err := decodeItem(v)
			if err != nil {
				return err
			}
			items = append(items, item)
		}
		return nil
	})
	if err != nil {
		return Page{}, err
	}
	return newPage(items, pageSize), nil
}

// Count implements Store.
func (b *Bolt) Count(ctx context.Context, collection string) (int, error) {
	var n int
	err := b.view(ctx, "count", collection, func(bucket *bolt.Bucket) error {
		n = bucket.Stats().KeyN
		return nil
	})
	return n, err
}

// Get implements Store.
func (b *Bolt) Get(ctx context.Context, collection, id string) (catalog.Item, error) {
	var item catalog.Item
	err := b.view(ctx, "get", collection, func(bucket *bolt.Bucket) error {
		var err error
		item, err = getItem(bucket, collection, id)
		return err
	})
	return item, err
}

// Put implements Store.
func (b *Bolt) Put(ctx context.Context, collection string, item catalog.Item) (catalog.Item, error) {
	kind, err := kindFor(collection)
	if err != nil {
		return catalog.Item{}, err
	}
	var stored catalog.Item
	err = b.update(ctx, "put", collection, func(bucket *bolt.Bucket) error {
		var existing *catalog.Item
		if item.ID != "" {
			if cur, err := getItem(bucket, collection, item.ID); err == nil {
				existing = &cur
			}
		}
		stored = b.opts.prepare(kind, item, existing)
		if err := stored.Validate(); err != nil {
			return err
		}
		return putItem(bucket, stored)
	})
	if err != nil {
		return catalog.Item{}, err
	}
	return stored, nil
}

// Delete implements Store.
func (b *Bolt) Delete(ctx context.Context, collection, id string) error {
	return b.update(ctx, "delete", collection, func(bucket *bolt.Bucket) error {
		if bucket.Get([]byte(id)) == nil {
			return errors.NewNotFoundError(collection, id)
		}
		return bucket.Delete([]byte(id))
	})
}

// IncrementViews implements Store.
func (b *Bolt) IncrementViews(ctx context.Context, collection, id string) (catalog.Item, error) {
	return b.increment(ctx, collection, id, func(i *catalog.Item) { i.Views++ })
}

// IncrementClicks implements Store.
func (b *Bolt) IncrementClicks(ctx context.Context, collection, id string) (catalog.Item, error) {
	return b.increment(ctx, collection, id, func(i *catalog.Item) { i.Clicks++ })
}

func (b *Bolt) increment(ctx context.Context, collection, id string, fn func(*catalog.Item)) (catalog.Item, error) {
	var item catalog.Item
	err := b.update(ctx, "put", collection, func(bucket *bolt.Bucket) error {
		var err error
		item, err = getItem(bucket, collection, id)
		if err != nil {
			return err
		}
		fn(&item)
		item.Normalize()
		return putItem(bucket, item)
	})
	return item, err
}

func getItem(bucket *bolt.Bucket, collection, id string) (catalog.Item, error) {
	value := bucket.Get([]byte(id))
	if value == nil {
		return catalog.Item{}, errors.NewNotFoundError(collection, id)
	}
	return decodeItem(value)
}

func putItem(bucket *bolt.Bucket, item catalog.Item) error {
	data, err := json.Marshal(item)
	if err != nil {
		return fmt.Errorf("encode item %s: %w", item.ID, err)
	}
	return bucket.Put([]byte(item.ID), data)
}

func decodeItem(value []byte) (catalog.Item, error) {
	var item catalog.Item
	if err := json.Unmarshal(value, &item); err != nil {
		return catalog.Item{}, fmt.Errorf("decode item: %w", err)
	}
	item.Normalize()
	return item, nil
}
