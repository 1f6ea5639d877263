// Package cache provides the bounded, least-recently-used store that holds
// computed quadrature node sets.
//
// It provides a generic Cache interface with an LRU implementation guarded by
// a single mutex, hit/miss/eviction statistics, and exact value keys for
// *big.Float interval endpoints.
package cache
