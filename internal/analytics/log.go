package analytics

import (
	"cmp"
	"context"
	"encoding/json"
	"fmt"
	"slices"
	"sync"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/agentstation/toolhub/pkg/errors"
)

// Log stores raw events and daily rollups.
type Log interface {
	Record(ctx context.Context, e Event) error
	// Range returns events with from <= timestamp < to, oldest first.
	Range(ctx context.Context, from, to time.Time) ([]Event, error)
	// Prune deletes events older than before and returns how many went.
	Prune(ctx context.Context, before time.Time) (int, error)

	SaveDaily(ctx context.Context, stats DailyStats) error
	// Daily returns rollups for dates in [from, to], oldest first.
	Daily(ctx context.Context, from, to string) ([]DailyStats, error)
}

// MemoryLog keeps everything in memory.
type MemoryLog struct {
	mu     sync.RWMutex
	events []Event
	daily  map[string]DailyStats
}

var _ Log = (*MemoryLog)(nil)

// NewMemoryLog creates an empty in-memory log.
func NewMemoryLog() *MemoryLog {
	return &MemoryLog{daily: map[string]DailyStats{}}
}

// Record implements Log.
func (m *MemoryLog) Record(_ context.Context, e Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, e)
	return nil
}

// Range implements Log.
func (m *MemoryLog) Range(_ context.Context, from, to time.Time) ([]Event, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []Event{}
	for _, e := range m.events {
		if !e.Timestamp.Before(from) && e.Timestamp.Before(to) {
			out = append(out, e)
		}
	}
	slices.SortStableFunc(out, func(a, b Event) int { return a.Timestamp.Compare(b.Timestamp) })
	return out, nil
}

// Prune implements Log.
func (m *MemoryLog) Prune(_ context.Context, before time.Time) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.events)
	m.events = slices.DeleteFunc(m.events, func(e Event) bool { return e.Timestamp.Before(before) })
	return n - len(m.events), nil
}

// SaveDaily implements Log.
func (m *MemoryLog) SaveDaily(_ context.Context, stats DailyStats) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.daily[stats.Date] = stats
	return nil
}

// Daily implements Log.
func (m *MemoryLog) Daily(_ context.Context, from, to string) ([]DailyStats, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := []DailyStats{}
	for date, s := range m.daily {
		if date >= from && date <= to {
			out = append(out, s)
		}
	}
	slices.SortFunc(out, func(a, b DailyStats) int { return cmp.Compare(a.Date, b.Date) })
	return out, nil
}

const (
	eventsBucket = "analytics_events"
	dailyBucket  = "analytics_daily"
	keyLayout    = "2006-01-02T15:04:05.000000000Z"
)

// BoltLog keeps events in a bbolt file, keyed by timestamp so ranges and
// pruning are cursor scans.
type BoltLog struct {
	db *bolt.DB
}

var _ Log = (*BoltLog)(nil)

// NewBoltLog creates the analytics buckets in db. The caller owns db.
func NewBoltLog(db *bolt.DB) (*BoltLog, error) {
	err := db.Update(func(tx *bolt.Tx) error {
		for _, name := range []string{eventsBucket, dailyBucket} {
			if _, err := tx.CreateBucketIfNotExists([]byte(name)); err != nil {
				return fmt.Errorf("create bucket %s: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapStore("init", eventsBucket, err)
	}
	return &BoltLog{db: db}, nil
}

func eventKey(e Event) []byte {
	return []byte(e.Timestamp.UTC().Format(keyLayout) + "/" + e.ID)
}

func timeKey(t time.Time) []byte {
	return []byte(t.UTC().Format(keyLayout))
}

// Record implements Log.
func (b *BoltLog) Record(ctx context.Context, e Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}
	err = b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(eventsBucket)).Put(eventKey(e), data)
	})
	return errors.WrapStore("put", eventsBucket, err)
}

// Range implements Log.
func (b *BoltLog) Range(ctx context.Context, from, to time.Time) ([]Event, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := []Event{}
	upper := timeKey(to)
	err := b.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(eventsBucket)).Cursor()
		for k, v := c.Seek(timeKey(from)); k != nil && string(k) < string(upper); k, v = c.Next() {
			var e Event
			if err := json.Unmarshal(v, &e); err != nil {
				return fmt.Errorf("decode event %s: %w", k, err)
			}
			out = append(out, e)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapStore("fetch", eventsBucket, err)
	}
	return out, nil
}

// Prune implements Log.
func (b *BoltLog) Prune(ctx context.Context, before time.Time) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	n := 0
	upper := timeKey(before)
	err := b.db.Update(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(eventsBucket)).Cursor()
		for k, _ := c.First(); k != nil && string(k) < string(upper); k, _ = c.First() {
			if err := c.Delete(); err != nil {
				return err
			}
			n++
		}
		return nil
	})
	if err != nil {
		return 0, errors.WrapStore("delete", eventsBucket, err)
	}
	return n, nil
}

// SaveDaily implements Log.
func (b *BoltLog) SaveDaily(ctx context.Context, stats DailyStats) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return fmt.Errorf("encode daily stats: %w", err)
	}
	err = b.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket([]byte(dailyBucket)).Put([]byte(stats.Date), data)
	})
	return errors.WrapStore("put", dailyBucket, err)
}

// Daily implements Log.
func (b *BoltLog) Daily(ctx context.Context, from, to string) ([]DailyStats, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := []DailyStats{}
	err := b.db.View(func(tx *bolt.Tx) error {
		c := tx.Bucket([]byte(dailyBucket)).Cursor()
		for k, v := c.Seek([]byte(from)); k != nil && string(k) <= to; k, v = c.Next() {
			var s DailyStats
			if err := json.Unmarshal(v, &s); err != nil {
				return fmt.Errorf("decode daily %s: %w", k, err)
			}
			out = append(out, s)
		}
		return nil
	})
	if err != nil {
		return nil, errors.WrapStore("fetch", dailyBucket, err)
	}
	return out, nil
}
