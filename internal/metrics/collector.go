package metrics

import (
	"math"
	"strconv"
	"sync"
	"time"
)

// Collector keeps a human-readable snapshot of key metrics alongside the
// Prometheus registry. Prometheus counters are monotonic and cannot be read
// back cheaply, so the JSON endpoint is served from this mirror instead.
type Collector struct {
	mu sync.Mutex

	startTime time.Time

	totalRequests      int
	totalErrors        int
	totalLatencyMS     float64
	minLatencyMS       float64
	maxLatencyMS       float64
	requestsByStatus   map[int]int
	requestsByEndpoint map[string]int

	searchQueries     int
	searchCacheHits   int
	searchCacheMisses int

	esQueries int
	esErrors  int
}

// RequestStats summarizes HTTP traffic.
type RequestStats struct {
	Total      int            `json:"total"`
	Errors     int            `json:"errors"`
	ErrorRate  float64        `json:"error_rate"`
	ByStatus   map[int]int    `json:"by_status"`
	ByEndpoint map[string]int `json:"by_endpoint"`
}

// LatencyStats summarizes request latency in milliseconds.
type LatencyStats struct {
	Avg float64 `json:"avg"`
	Min float64 `json:"min"`
	Max float64 `json:"max"`
}

// SearchStats summarizes search traffic and cache effectiveness.
type SearchStats struct {
	TotalQueries int     `json:"total_queries"`
	CacheHits    int     `json:"cache_hits"`
	CacheMisses  int     `json:"cache_misses"`
	CacheHitRate float64 `json:"cache_hit_rate"`
}

// ElasticsearchStats summarizes backend query traffic.
type ElasticsearchStats struct {
	TotalQueries int     `json:"total_queries"`
	Errors       int     `json:"errors"`
	ErrorRate    float64 `json:"error_rate"`
}

// Snapshot is the payload of the JSON metrics endpoint.
type Snapshot struct {
	UptimeSeconds float64            `json:"uptime_seconds"`
	Requests      RequestStats       `json:"requests"`
	LatencyMS     LatencyStats       `json:"latency_ms"`
	Search        SearchStats        `json:"search"`
	Elasticsearch ElasticsearchStats `json:"elasticsearch"`
}

// NewCollector creates an empty collector.
func NewCollector() *Collector {
	return &Collector{
		startTime:          time.Now(),
		minLatencyMS:       math.Inf(1),
		requestsByStatus:   make(map[int]int),
		requestsByEndpoint: make(map[string]int),
	}
}

// RecordRequest records one completed HTTP request in both the Prometheus
// registry and the JSON mirror.
func (c *Collector) RecordRequest(endpoint string, statusCode int, latency time.Duration) {
	ObserveRequest(endpoint, strconv.Itoa(statusCode), latency)

	latencyMS := float64(latency.Microseconds()) / 1000.0

	c.mu.Lock()
	defer c.mu.Unlock()

	c.totalRequests++
	c.totalLatencyMS += latencyMS
	c.minLatencyMS = math.Min(c.minLatencyMS, latencyMS)
	c.maxLatencyMS = math.Max(c.maxLatencyMS, latencyMS)
	c.requestsByStatus[statusCode]++
	c.requestsByEndpoint[endpoint]++
	if statusCode >= 400 {
		c.totalErrors++
	}
}

// RecordSearchQuery records a search, labeled by cache outcome.
func (c *Collector) RecordSearchQuery(cacheHit bool) {
	IncSearchQuery(cacheHit)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.searchQueries++
	if cacheHit {
		c.searchCacheHits++
	} else {
		c.searchCacheMisses++
	}
}

// RecordElasticsearchQuery records one backend round trip.
func (c *Collector) RecordElasticsearchQuery(failed bool) {
	IncElasticsearchQuery(failed)

	c.mu.Lock()
	defer c.mu.Unlock()

	c.esQueries++
	if failed {
		c.esErrors++
	}
}

// UpdateCacheSize mirrors the cache size gauge.
func (c *Collector) UpdateCacheSize(size int) {
	SetCacheSize(size)
}

// Snapshot returns the current JSON metrics view.
func (c *Collector) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	var avgLatency float64
	if c.totalRequests > 0 {
		avgLatency = c.totalLatencyMS / float64(c.totalRequests)
	}
	minLatency := c.minLatencyMS
	if math.IsInf(minLatency, 1) {
		minLatency = 0
	}

	byStatus := make(map[int]int, len(c.requestsByStatus))
	for k, v := range c.requestsByStatus {
		byStatus[k] = v
	}
	byEndpoint := make(map[string]int, len(c.requestsByEndpoint))
	for k, v := range c.requestsByEndpoint {
		byEndpoint[k] = v
	}

	return Snapshot{
		UptimeSeconds: round2(time.Since(c.startTime).Seconds()),
		Requests: RequestStats{
			Total:      c.totalRequests,
			Errors:     c.totalErrors,
			ErrorRate:  ratio(c.totalErrors, c.totalRequests),
			ByStatus:   byStatus,
			ByEndpoint: byEndpoint,
		},
		LatencyMS: LatencyStats{
			Avg: round2(avgLatency),
			Min: round2(minLatency),
			Max: round2(c.maxLatencyMS),
		},
		Search: SearchStats{
			TotalQueries: c.searchQueries,
			CacheHits:    c.searchCacheHits,
			CacheMisses:  c.searchCacheMisses,
			CacheHitRate: ratio(c.searchCacheHits, c.searchCacheHits+c.searchCacheMisses),
		},
		Elasticsearch: ElasticsearchStats{
			TotalQueries: c.esQueries,
			Errors:       c.esErrors,
			ErrorRate:    ratio(c.esErrors, c.esQueries),
		},
	}
}

// Reset zeroes the JSON mirror. Prometheus counters are monotonic and are
// left untouched.
func (c *Collector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.startTime = time.Now()
	c.totalRequests = 0
	c.totalErrors = 0
	c.totalLatencyMS = 0
	c.minLatencyMS = math.Inf(1)
	c.maxLatencyMS = 0
	c.requestsByStatus = make(map[int]int)
	c.requestsByEndpoint = make(map[string]int)
	c.searchQueries = 0
	c.searchCacheHits = 0
	c.searchCacheMisses = 0
	c.esQueries = 0
	c.esErrors = 0
}

func ratio(part, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(part)/float64(total)*10000) / 10000
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
