package cache

import (
	"container/list"
	"sync"
	"sync/atomic"
)

// LRU is a bounded least-recently-used cache.
//
// One mutex guards the recency list and the index together. Drop replaces the
// whole store atomically, so callers still holding the previous store finish
// against it without blocking on the new one.
type LRU[K comparable, V any] struct {
	capacity int
	store    atomic.Pointer[lruStore[K, V]]

	hits      atomic.Uint64
	misses    atomic.Uint64
	evictions atomic.Uint64
}

type lruStore[K comparable, V any] struct {
	mu    sync.Mutex
	order *list.List
	items map[K]*list.Element
}

type lruEntry[K comparable, V any] struct {
	key   K
	value V
}

// NewLRU creates an LRU holding at most capacity entries.
// A capacity <= 0 selects DefaultCapacity.
func NewLRU[K comparable, V any](capacity int) *LRU[K, V] {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	c := &LRU[K, V]{capacity: capacity}
	c.store.Store(newLRUStore[K, V](capacity))
	return c
}

func newLRUStore[K comparable, V any](capacity int) *lruStore[K, V] {
	return &lruStore[K, V]{
		order: list.New(),
		items: make(map[K]*list.Element, capacity),
	}
}

// Get returns the value stored under key and marks it most recently used.
func (c *LRU[K, V]) Get(key K) (V, bool) {
	s := c.store.Load()

	s.mu.Lock()
	el, ok := s.items[key]
	if ok {
		s.order.MoveToFront(el)
	}
	s.mu.Unlock()

	if !ok {
		c.misses.Add(1)
		var zero V
		return zero, false
	}
	c.hits.Add(1)
	return el.Value.(*lruEntry[K, V]).value, true
}

// Put stores value under key. An existing entry is replaced and refreshed;
// otherwise the least recently used entry is evicted when the cache is full.
func (c *LRU[K, V]) Put(key K, value V) {
	s := c.store.Load()

	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.items[key]; ok {
		el.Value.(*lruEntry[K, V]).value = value
		s.order.MoveToFront(el)
		return
	}

	s.items[key] = s.order.PushFront(&lruEntry[K, V]{key: key, value: value})
	for s.order.Len() > c.capacity {
		oldest := s.order.Back()
		s.order.Remove(oldest)
		delete(s.items, oldest.Value.(*lruEntry[K, V]).key)
		c.evictions.Add(1)
	}
}

// Len reports the number of entries currently stored.
func (c *LRU[K, V]) Len() int {
	s := c.store.Load()
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

// Capacity reports the maximum number of entries.
func (c *LRU[K, V]) Capacity() int {
	return c.capacity
}

// Drop discards every entry. Statistics are kept.
func (c *LRU[K, V]) Drop() {
	c.store.Store(newLRUStore[K, V](c.capacity))
}

// Stats returns a snapshot of the cache counters.
func (c *LRU[K, V]) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Evictions: c.evictions.Load(),
		Len:       c.Len(),
		Capacity:  c.capacity,
	}
}

var _ Cache[string, int] = (*LRU[string, int])(nil)
