package metrics

import (
	"testing"
	"time"
)

func TestCollectorRequestAccounting(t *testing.T) {
	c := NewCollector()

	c.RecordRequest("/api/v1/search", 200, 10*time.Millisecond)
	c.RecordRequest("/api/v1/search", 200, 30*time.Millisecond)
	c.RecordRequest("/api/v1/products", 404, 5*time.Millisecond)

	snap := c.Snapshot()
	if snap.Requests.Total != 3 {
		t.Errorf("total = %d, want 3", snap.Requests.Total)
	}
	if snap.Requests.Errors != 1 {
		t.Errorf("errors = %d, want 1", snap.Requests.Errors)
	}
	if snap.Requests.ByStatus[200] != 2 || snap.Requests.ByStatus[404] != 1 {
		t.Errorf("by_status = %v", snap.Requests.ByStatus)
	}
	if snap.Requests.ByEndpoint["/api/v1/search"] != 2 {
		t.Errorf("by_endpoint = %v", snap.Requests.ByEndpoint)
	}
	if snap.Requests.ErrorRate != 0.3333 {
		t.Errorf("error_rate = %v, want 0.3333", snap.Requests.ErrorRate)
	}

	if snap.LatencyMS.Min != 5 || snap.LatencyMS.Max != 30 {
		t.Errorf("latency min/max = %v/%v, want 5/30", snap.LatencyMS.Min, snap.LatencyMS.Max)
	}
	if snap.LatencyMS.Avg != 15 {
		t.Errorf("latency avg = %v, want 15", snap.LatencyMS.Avg)
	}
}

func TestCollectorSearchAccounting(t *testing.T) {
	c := NewCollector()

	c.RecordSearchQuery(true)
	c.RecordSearchQuery(true)
	c.RecordSearchQuery(true)
	c.RecordSearchQuery(false)

	snap := c.Snapshot()
	if snap.Search.TotalQueries != 4 {
		t.Errorf("total_queries = %d, want 4", snap.Search.TotalQueries)
	}
	if snap.Search.CacheHits != 3 || snap.Search.CacheMisses != 1 {
		t.Errorf("hits/misses = %d/%d, want 3/1", snap.Search.CacheHits, snap.Search.CacheMisses)
	}
	if snap.Search.CacheHitRate != 0.75 {
		t.Errorf("hit_rate = %v, want 0.75", snap.Search.CacheHitRate)
	}
}

func TestCollectorElasticsearchAccounting(t *testing.T) {
	c := NewCollector()

	c.RecordElasticsearchQuery(false)
	c.RecordElasticsearchQuery(true)

	snap := c.Snapshot()
	if snap.Elasticsearch.TotalQueries != 2 || snap.Elasticsearch.Errors != 1 {
		t.Errorf("es stats = %+v", snap.Elasticsearch)
	}
	if snap.Elasticsearch.ErrorRate != 0.5 {
		t.Errorf("error_rate = %v, want 0.5", snap.Elasticsearch.ErrorRate)
	}
}

func TestCollectorEmptySnapshot(t *testing.T) {
	c := NewCollector()

	snap := c.Snapshot()
	if snap.Requests.ErrorRate != 0 || snap.Search.CacheHitRate != 0 || snap.Elasticsearch.ErrorRate != 0 {
		t.Errorf("empty collector produced non-zero rates: %+v", snap)
	}
	if snap.LatencyMS.Min != 0 {
		t.Errorf("min latency = %v, want 0 with no requests", snap.LatencyMS.Min)
	}
}

func TestCollectorReset(t *testing.T) {
	c := NewCollector()

	c.RecordRequest("/api/v1/search", 200, time.Millisecond)
	c.RecordSearchQuery(true)
	c.RecordElasticsearchQuery(false)

	c.Reset()

	snap := c.Snapshot()
	if snap.Requests.Total != 0 || snap.Search.TotalQueries != 0 || snap.Elasticsearch.TotalQueries != 0 {
		t.Errorf("snapshot after reset = %+v", snap)
	}
}
