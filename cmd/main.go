package main

import (
	"context"
	"fmt"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/gin-gonic/gin"

	"github.com/findora/search-api/internal/cache"
	"github.com/findora/search-api/internal/config"
	"github.com/findora/search-api/internal/handler"
	"github.com/findora/search-api/internal/metrics"
	"github.com/findora/search-api/internal/ratelimit"
	"github.com/findora/search-api/internal/repository"
	"github.com/findora/search-api/internal/seed"
	"github.com/findora/search-api/internal/service"
	pkglog "github.com/findora/search-api/pkg/log"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		l := pkglog.L()
		l.Fatal().Err(err).Msg("failed to load config")
	}

	// Initialize structured logger
	pkglog.Init(pkglog.Config{
		Level:       cfg.Log.Level,
		Pretty:      cfg.Log.Level == "debug",
		ServiceName: "search-api",
	})
	logger := pkglog.L()

	// Initialize Elasticsearch client
	esClient, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Elasticsearch.Addresses,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to create elasticsearch client")
	}

	// Verify ES connection with retries, then make sure the index exists
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Elasticsearch.Timeout)
	defer cancel()

	if err := repository.WaitForCluster(ctx, esClient, 5, time.Second); err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to elasticsearch")
	}
	logger.Info().Strs("addresses", cfg.Elasticsearch.Addresses).Msg("elasticsearch connected")

	indexManager := repository.NewIndexManager(
		esClient,
		cfg.Elasticsearch.Index,
		cfg.Elasticsearch.Shards,
		cfg.Elasticsearch.Replicas,
	)
	if err := indexManager.EnsureIndex(ctx); err != nil {
		logger.Fatal().Err(err).Str(pkglog.FieldIndex, cfg.Elasticsearch.Index).Msg("failed to ensure index")
	}

	// Metrics
	metrics.Init()
	collector := metrics.NewCollector()

	// Result cache; a disabled cache is not constructed at all and the
	// services bypass caching entirely.
	var searchCache cache.SearchCache
	if cfg.Cache.Enabled {
		searchCache = cache.NewMemoryCache(cfg.Cache.TTL, cfg.Cache.MaxSize)
		logger.Info().
			Dur("ttl", cfg.Cache.TTL).
			Int("max_size", cfg.Cache.MaxSize).
			Msg("search result cache enabled")
	} else {
		logger.Info().Msg("search result cache disabled")
	}

	// Repositories and services
	searchRepo := repository.NewESSearchRepository(esClient, cfg.Elasticsearch.Index)
	productRepo := repository.NewESProductRepository(esClient, cfg.Elasticsearch.Index)
	searchService := service.NewSearchService(searchRepo, searchCache, collector, cfg.Elasticsearch.Index)
	indexingService := service.NewIndexingService(productRepo, searchCache, collector)

	if cfg.Seed.Enabled {
		if err := seed.Run(ctx, indexingService, indexManager); err != nil {
			logger.Warn().Err(err).Msg("seeding failed")
		}
	}

	// Rate limiting: Redis-backed when an address is configured, otherwise
	// process-local fixed windows.
	var searchLimitMW gin.HandlerFunc
	var defaultLimitMW gin.HandlerFunc
	if cfg.RateLimit.Enabled {
		var limiter ratelimit.Limiter
		if cfg.Redis.Address != "" {
			redisLimiter, err := ratelimit.NewRedisLimiter(cfg.Redis, cfg.RateLimit.Window)
			if err != nil {
				logger.Fatal().Err(err).Msg("failed to connect to redis")
			}
			defer redisLimiter.Close()
			limiter = redisLimiter
			logger.Info().Str("addr", cfg.Redis.Address).Msg("redis rate limiter enabled")
		} else {
			limiter = ratelimit.NewMemoryLimiter(cfg.RateLimit.Window)
		}
		defaultLimitMW = ratelimit.GinMiddleware(limiter, cfg.RateLimit.DefaultLimit)
		searchLimitMW = ratelimit.GinMiddleware(limiter, cfg.RateLimit.SearchLimit)
	}

	// Initialize HTTP handler
	httpHandler := handler.NewHandler(searchService, indexingService, indexManager, collector, defaultLimitMW, searchLimitMW)

	// Setup Gin router
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(pkglog.GinMiddleware(logger))
	r.Use(metrics.GinMiddleware(collector))

	// Register routes
	httpHandler.RegisterRoutes(r)

	// Start server
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	logger.Info().Str("addr", addr).Msg("search-api starting")
	if err := r.Run(addr); err != nil {
		logger.Fatal().Err(err).Msg("failed to start server")
	}
}
