// Package cache holds per-parent child collections for the lifetime of the
// process. It is never persisted: a restart starts empty and the first read
// for any parent falls through to the repository.
package cache

import (
	"container/list"
	"sync"
)

const DefaultCapacity = 128

// Cache maps a parent id to its cached child collection. Entries are evicted
// least-recently-used once capacity parents are held; eviction looks like a
// miss to the caller.
type Cache[T any] struct {
	mu       sync.Mutex
	capacity int
	entries  map[string]*list.Element
	order    *list.List
}

type entry[T any] struct {
	parentID string
	items    []T
}

func New[T any](capacity int) *Cache[T] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Cache[T]{
		capacity: capacity,
		entries:  make(map[string]*list.Element),
		order:    list.New(),
	}
}

// Get returns the cached collection for parentID, if present.
func (c *Cache[T]) Get(parentID string) ([]T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	el, ok := c.entries[parentID]
	if !ok {
		return nil, false
	}
	c.order.MoveToFront(el)
	items := el.Value.(*entry[T]).items
	out := make([]T, len(items))
	copy(out, items)
	return out, true
}

// Populate replaces any existing entry for parentID.
func (c *Cache[T]) Populate(parentID string, items []T) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := make([]T, len(items))
	copy(stored, items)

	if el, ok := c.entries[parentID]; ok {
		el.Value.(*entry[T]).items = stored
		c.order.MoveToFront(el)
		return
	}
	c.entries[parentID] = c.order.PushFront(&entry[T]{parentID: parentID, items: stored})
	for len(c.entries) > c.capacity {
		oldest := c.order.Back()
		c.order.Remove(oldest)
		delete(c.entries, oldest.Value.(*entry[T]).parentID)
	}
}

// Invalidate drops the entry for parentID. The next Get misses and falls
// through to the store.
func (c *Cache[T]) Invalidate(parentID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if el, ok := c.entries[parentID]; ok {
		c.order.Remove(el)
		delete(c.entries, parentID)
	}
}

// Reset drops every entry.
func (c *Cache[T]) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]*list.Element)
	c.order.Init()
}

// Len reports how many parents are currently cached.
func (c *Cache[T]) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}
