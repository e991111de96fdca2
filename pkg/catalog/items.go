package catalog

import (
	"fmt"
	"slices"
	"sync"

	"github.com/agentstation/toolhub/pkg/errors"
)

// Items is a concurrency-safe set of items that remembers insertion order.
type Items struct {
	mu    sync.RWMutex
	order []string
	items map[string]Item
}

// NewItems creates an Items set seeded with the given items, in order.
// Later duplicates replace earlier ones in place.
func NewItems(seed ...Item) *Items {
	s := &Items{items: make(map[string]Item, len(seed))}
	for _, item := range seed {
		s.set(item)
	}
	return s
}

// Get returns a copy of the item with the given id and whether it exists.
func (s *Items) Get(id string) (Item, bool) {
	s.mu.RLock()
	item, ok := s.items[id]
	s.mu.RUnlock()
	if !ok {
		return Item{}, false
	}
	return item.Clone(), true
}

// Set inserts or replaces an item. Replacing keeps its position.
func (s *Items) Set(item Item) error {
	if item.ID == "" {
		return errors.NewValidationError("id", item.ID, "is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.set(item)
	return nil
}

// Add inserts an item, returning an error if the ID is taken.
func (s *Items) Add(item Item) error {
	if item.ID == "" {
		return errors.NewValidationError("id", item.ID, "is required")
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.items[item.ID]; exists {
		return fmt.Errorf("item %s: %w", item.ID, errors.ErrAlreadyExists)
	}
	s.set(item)
	return nil
}

// Update applies fn to the stored item under the write lock.
func (s *Items) Update(id string, fn func(*Item)) (Item, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	item, ok := s.items[id]
	if !ok {
		return Item{}, false
	}
	fn(&item)
	item.Normalize()
	s.items[id] = item
	return item.Clone(), true
}

// Delete removes an item and reports whether it existed.
func (s *Items) Delete(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.items[id]; !ok {
		return false
	}
	delete(s.items, id)
	s.order = slices.DeleteFunc(s.order, func(v string) bool { return v == id })
	return true
}

// Len returns the number of items.
func (s *Items) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.order)
}

// List returns copies of all items in insertion order.
func (s *Items) List() []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Item, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.items[id].Clone())
	}
	return out
}

// After returns up to limit items following the item with the given id in
// insertion order. An empty id starts at the beginning. An unknown id yields
// nothing.
func (s *Items) After(id string, limit int) []Item {
	s.mu.RLock()
	defer s.mu.RUnlock()
	start := 0
	if id != "" {
		idx := slices.Index(s.order, id)
		if idx < 0 {
			return []Item{}
		}
		start = idx + 1
	}
	end := min(start+limit, len(s.order))
	out := make([]Item, 0, max(end-start, 0))
	for _, v := range s.order[start:end] {
		out = append(out, s.items[v].Clone())
	}
	return out
}

func (s *Items) set(item Item) {
	item = item.Clone()
	if _, exists := s.items[item.ID]; !exists {
		s.order = append(s.order, item.ID)
	}
	s.items[item.ID] = item
}
