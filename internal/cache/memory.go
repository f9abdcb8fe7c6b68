package cache

import (
	"math"
	"sync"
	"time"

	"github.com/findora/search-api/internal/domain"
	"github.com/findora/search-api/pkg/log"
)

type entry struct {
	resp      *domain.SearchResponse
	expiresAt time.Time
}

// MemoryCache is an in-process TTL cache for search responses, bounded to
// maxSize entries. Expiration is enforced lazily on Get and opportunistically
// on Set when the bound is exceeded; there is no background sweeper.
//
// Eviction under capacity pressure removes the entry with the earliest
// expiration. With a uniform TTL and immutable entries that approximates
// oldest-inserted-first, not true LRU: a hot entry is not protected from
// eviction over a colder but newer one. That approximation is intentional.
//
// All methods are safe for concurrent use; a single mutex guards the store
// and the counters, and nothing blocks on I/O while holding it.
type MemoryCache struct {
	mu      sync.Mutex
	items   map[string]entry
	maxSize int
	ttl     time.Duration
	hits    uint64
	misses  uint64
}

// NewMemoryCache creates a cache holding at most maxSize entries, each live
// for ttl after insertion. A ttl of zero or less means entries are born
// expired; a maxSize of zero means nothing is ever retained. Neither is an
// error.
func NewMemoryCache(ttl time.Duration, maxSize int) *MemoryCache {
	if maxSize < 0 {
		maxSize = 0
	}
	return &MemoryCache{
		items:   make(map[string]entry, maxSize),
		maxSize: maxSize,
		ttl:     ttl,
	}
}

// Get returns the cached response for the given parameters. Absent and
// expired entries are both ordinary misses; an expired entry is removed on
// the way out.
func (c *MemoryCache) Get(params Params) (*domain.SearchResponse, bool) {
	key, err := DeriveKey(params)
	if err != nil {
		// Params are fixed, typed fields; this indicates a programming
		// error upstream. Treat as a miss rather than failing the request.
		l := log.L()
		l.Warn().Err(err).Msg("cache key derivation failed")
		c.mu.Lock()
		c.misses++
		c.mu.Unlock()
		return nil, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.items[key]
	if !ok {
		c.misses++
		return nil, false
	}
	if !e.expiresAt.After(time.Now()) {
		delete(c.items, key)
		c.misses++
		return nil, false
	}

	c.hits++
	return e.resp, true
}

// Set stores the response under the given parameters with expiration
// now+TTL, overwriting any previous entry. It never touches the hit/miss
// counters.
func (c *MemoryCache) Set(params Params, resp *domain.SearchResponse) {
	key, err := DeriveKey(params)
	if err != nil {
		l := log.L()
		l.Warn().Err(err).Msg("cache key derivation failed")
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.items[key] = entry{resp: resp, expiresAt: time.Now().Add(c.ttl)}
	if len(c.items) > c.maxSize {
		c.evict()
	}
}

// evict restores the size bound: expired entries go first, then whichever
// remaining entry expires soonest, until the store fits. Caller holds the
// lock.
func (c *MemoryCache) evict() {
	now := time.Now()
	for k, e := range c.items {
		if !e.expiresAt.After(now) {
			delete(c.items, k)
		}
	}

	for len(c.items) > c.maxSize {
		var oldestKey string
		var oldestExpiry time.Time
		for k, e := range c.items {
			if oldestKey == "" || e.expiresAt.Before(oldestExpiry) {
				oldestKey = k
				oldestExpiry = e.expiresAt
			}
		}
		delete(c.items, oldestKey)
	}
}

// Stats returns current size, configured bounds, and lifetime counters.
func (c *MemoryCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	var hitRate float64
	if total := c.hits + c.misses; total > 0 {
		hitRate = math.Round(float64(c.hits)/float64(total)*10000) / 10000
	}

	return Stats{
		Size:       len(c.items),
		MaxSize:    c.maxSize,
		TTLSeconds: c.ttl.Seconds(),
		Hits:       c.hits,
		Misses:     c.misses,
		HitRate:    hitRate,
	}
}

// Clear removes every entry. Hit/miss counters are preserved.
func (c *MemoryCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items = make(map[string]entry)
}

// ResetStats zeroes the hit/miss counters. Stored entries are preserved.
func (c *MemoryCache) ResetStats() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.hits = 0
	c.misses = 0
}
