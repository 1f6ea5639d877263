package quad

import (
	"context"
	"math/big"
	"strconv"

	"golang.org/x/sync/singleflight"

	"github.com/jonwraymond/scicalc/cache"
	"github.com/jonwraymond/scicalc/observe"
	"github.com/jonwraymond/scicalc/quad/rule"
)

// nodeGuardBits is the extra precision node sets are generated and rescaled
// with, on top of the integrator's working precision.
const nodeGuardBits = 20

// Key identifies a node set: the rule that produced it, the working
// precision and degree it was built for and the interval it was mapped onto.
// Endpoints compare by value.
type Key struct {
	Method Method
	Bits   uint
	Degree int
	A, B   cache.FloatKey
}

// NodeCache holds node sets by Key. Cached sets are shared and read-only.
type NodeCache = cache.LRU[Key, []rule.Node]

// CacheStats is a snapshot of node cache activity.
type CacheStats = cache.Stats

// NewNodeCache returns an empty node cache holding at most capacity sets.
// A capacity <= 0 selects cache.DefaultCapacity.
func NewNodeCache(capacity int) *NodeCache {
	return cache.NewLRU[Key, []rule.Node](capacity)
}

var (
	minusOneKey = cache.KeyOf(big.NewFloat(-1))
	plusOneKey  = cache.KeyOf(big.NewFloat(1))
)

func canonicalKey(method Method, bits uint, degree int) Key {
	return Key{Method: method, Bits: bits, Degree: degree, A: minusOneKey, B: plusOneKey}
}

// generator produces the canonical node set of one degree.
type generator func(bits uint, degree int) []rule.Node

// nodeSource resolves node sets through a cache: exact key, then the
// canonical [-1, 1] set rescaled, then fresh generation.
type nodeSource struct {
	method   Method
	cache    *NodeCache
	generate generator
	group    singleflight.Group
	metrics  observe.Metrics
}

// nodes returns the node set for (bits, degree) mapped onto [a, b]. The
// returned slice may be shared with other callers and must not be modified.
func (s *nodeSource) nodes(ctx context.Context, meta observe.CallMeta, bits uint, degree int, a, b *big.Float) ([]rule.Node, error) {
	key := Key{Method: s.method, Bits: bits, Degree: degree, A: cache.KeyOf(a), B: cache.KeyOf(b)}
	if set, ok := s.cache.Get(key); ok {
		s.metrics.RecordCacheLookup(ctx, meta, observe.LookupExact)
		return set, nil
	}

	canon := canonicalKey(s.method, bits, degree)
	raw, ok := s.cache.Get(canon)
	if ok {
		s.metrics.RecordCacheLookup(ctx, meta, observe.LookupCanonical)
	} else {
		s.metrics.RecordCacheLookup(ctx, meta, observe.LookupMiss)
		raw = s.generateCanonical(bits, degree)
		s.cache.Put(canon, raw)
	}
	if key == canon {
		return raw, nil
	}

	set := rule.Clone(raw)
	if err := rule.Transform(bits+nodeGuardBits, set, a, b); err != nil {
		return nil, err
	}
	s.cache.Put(key, set)
	return set, nil
}

// generateCanonical builds the canonical set, collapsing concurrent requests
// for the same precision and degree into one generation.
func (s *nodeSource) generateCanonical(bits uint, degree int) []rule.Node {
	id := strconv.FormatUint(uint64(bits), 10) + "/" + strconv.Itoa(degree)
	v, _, _ := s.group.Do(id, func() (any, error) {
		return s.generate(bits+nodeGuardBits, degree), nil
	})
	return v.([]rule.Node)
}
