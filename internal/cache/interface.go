package cache

import (
	"github.com/findora/search-api/internal/domain"
)

// SearchCache defines the interface for caching search results.
//
// Responses handed back by Get are shared between callers and must be
// treated as read-only.
type SearchCache interface {
	Get(params Params) (*domain.SearchResponse, bool)
	Set(params Params, resp *domain.SearchResponse)
	Stats() Stats
	Clear()
	ResetStats()
}

// Stats is a point-in-time snapshot of cache state and lifetime counters.
// Size is the raw stored count and may include entries that expired but
// have not been lazily purged yet.
type Stats struct {
	Size       int     `json:"size"`
	MaxSize    int     `json:"max_size"`
	TTLSeconds float64 `json:"ttl_seconds"`
	Hits       uint64  `json:"hits"`
	Misses     uint64  `json:"misses"`
	HitRate    float64 `json:"hit_rate"`
}
