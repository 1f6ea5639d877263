package cache

import "errors"

// DefaultCapacity is the number of entries an LRU holds when no positive
// capacity is given.
const DefaultCapacity = 256

// ErrNilCache indicates a nil cache was supplied where one is required.
var ErrNilCache = errors.New("cache: cache is nil")

// Cache is a bounded key/value store.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Values: stored values are shared between callers; callers must not
//   mutate a value after Put or after receiving it from Get.
// - Errors: Get never errors; it returns the zero value and false on miss.
type Cache[K comparable, V any] interface {
	// Get retrieves a value and marks it as most recently used.
	Get(key K) (V, bool)

	// Put stores a value, evicting the least recently used entry when full.
	Put(key K, value V)

	// Len reports the number of stored entries.
	Len() int

	// Drop discards every entry.
	Drop()
}

// Stats is a point-in-time snapshot of cache activity.
type Stats struct {
	Hits      uint64
	Misses    uint64
	Evictions uint64
	Len       int
	Capacity  int
}

// HitRatio returns Hits / (Hits + Misses), or 0 before any lookup.
func (s Stats) HitRatio() float64 {
	total := s.Hits + s.Misses
	if total == 0 {
		return 0
	}
	return float64(s.Hits) / float64(total)
}
