package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	requestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "findora",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"endpoint", "status_code"},
	)

	requestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "findora",
			Name:      "request_latency_seconds",
			Help:      "Request latency in seconds",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
		[]string{"endpoint"},
	)

	searchQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "findora",
			Name:      "search_queries_total",
			Help:      "Total number of search queries",
		},
		[]string{"cache_status"},
	)

	elasticsearchQueries = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "findora",
			Name:      "elasticsearch_queries_total",
			Help:      "Total number of Elasticsearch queries",
		},
		[]string{"status"},
	)

	cacheSize = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "findora",
			Name:      "cache_size",
			Help:      "Current number of items in the search result cache",
		},
	)

	uptimeSeconds = prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: "findora",
			Name:      "uptime_seconds",
			Help:      "Time since application start in seconds",
		},
		func() float64 { return time.Since(startTime).Seconds() },
	)
)

var startTime = time.Now()

func Init() {
	prometheus.MustRegister(requestTotal, requestLatency, searchQueries, elasticsearchQueries, cacheSize, uptimeSeconds)
}

func Handler() http.Handler {
	return promhttp.Handler()
}

func ObserveRequest(endpoint, code string, d time.Duration) {
	requestTotal.WithLabelValues(endpoint, code).Inc()
	requestLatency.WithLabelValues(endpoint).Observe(d.Seconds())
}

func IncSearchQuery(cacheHit bool) {
	status := "miss"
	if cacheHit {
		status = "hit"
	}
	searchQueries.WithLabelValues(status).Inc()
}

func IncElasticsearchQuery(failed bool) {
	status := "success"
	if failed {
		status = "error"
	}
	elasticsearchQueries.WithLabelValues(status).Inc()
}

func SetCacheSize(size int) {
	cacheSize.Set(float64(size))
}
