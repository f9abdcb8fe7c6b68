package service

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/findora/search-api/internal/cache"
	"github.com/findora/search-api/internal/domain"
	"github.com/findora/search-api/internal/metrics"
	"github.com/findora/search-api/internal/repository"
	"github.com/findora/search-api/pkg/log"
)

const (
	defaultPage = 1
	defaultSize = 10
	maxSize     = 100
)

type searchServiceImpl struct {
	repo      repository.SearchRepository
	cache     cache.SearchCache
	collector *metrics.Collector
	index     string
	sf        singleflight.Group
}

// NewSearchService creates a new search service. A nil cache disables
// result caching entirely: the service goes straight to the repository and
// no hit/miss accounting happens at all.
func NewSearchService(repo repository.SearchRepository, searchCache cache.SearchCache, collector *metrics.Collector, index string) SearchService {
	return &searchServiceImpl{
		repo:      repo,
		cache:     searchCache,
		collector: collector,
		index:     index,
	}
}

// Search serves a query through the result cache: a hit returns the stored
// response without touching Elasticsearch; a miss runs the search and, only
// on success, stores the response. Concurrent misses for the same key are
// collapsed into one backend call.
func (s *searchServiceImpl) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error) {
	s.normalizeRequest(req)

	if s.cache == nil {
		resp, err := s.repo.Search(ctx, req)
		s.collector.RecordElasticsearchQuery(err != nil)
		return resp, err
	}

	params := s.cacheParams(req)
	key, err := cache.DeriveKey(params)
	if err != nil {
		// The cache treats this as a miss too; fall back to the query
		// text so deduplication still has a stable key.
		key = "q:" + req.Query
	}

	if cached, ok := s.cache.Get(params); ok {
		s.collector.RecordSearchQuery(true)
		l := log.Ctx(ctx)
		l.Debug().Str(log.FieldCacheKey, shortKey(key)).Msg("cache hit")
		return cached, nil
	}

	result, err, _ := s.sf.Do(key, func() (interface{}, error) {
		resp, err := s.repo.Search(ctx, req)
		s.collector.RecordElasticsearchQuery(err != nil)
		if err != nil {
			// A failed search never populates the cache.
			return nil, err
		}

		s.cache.Set(params, resp)
		s.collector.UpdateCacheSize(s.cache.Stats().Size)
		return resp, nil
	})
	if err != nil {
		return nil, err
	}

	s.collector.RecordSearchQuery(false)
	l := log.Ctx(ctx)
	l.Debug().Str(log.FieldCacheKey, shortKey(key)).Msg("cache miss")

	return result.(*domain.SearchResponse), nil
}

func (s *searchServiceImpl) CacheStats() (cache.Stats, bool) {
	if s.cache == nil {
		return cache.Stats{}, false
	}
	return s.cache.Stats(), true
}

func (s *searchServiceImpl) ClearCache() {
	if s.cache == nil {
		return
	}
	s.cache.Clear()
	s.collector.UpdateCacheSize(0)
}

func (s *searchServiceImpl) ResetCacheStats() {
	if s.cache == nil {
		return
	}
	s.cache.ResetStats()
}

func (s *searchServiceImpl) normalizeRequest(req *domain.SearchRequest) {
	if req.Page < 1 {
		req.Page = defaultPage
	}
	if req.Size <= 0 {
		req.Size = defaultSize
	}
	if req.Size > maxSize {
		req.Size = maxSize
	}
	if req.SortBy == "" {
		req.SortBy = domain.SortRelevance
	}
	if req.SortOrder == "" {
		req.SortOrder = domain.OrderDesc
	}
}

// cacheParams maps the normalized request onto the canonical key fields,
// including the target index so reconfiguring the index never serves stale
// results.
func (s *searchServiceImpl) cacheParams(req *domain.SearchRequest) cache.Params {
	return cache.Params{
		Query:      req.Query,
		Fuzzy:      req.FuzzyEnabled(),
		Page:       req.Page,
		Size:       req.Size,
		MinPrice:   req.MinPrice,
		MaxPrice:   req.MaxPrice,
		Category:   req.Category,
		Categories: req.Categories,
		SortBy:     req.SortBy,
		SortOrder:  req.SortOrder,
		Index:      s.index,
	}
}

func shortKey(key string) string {
	if len(key) > 16 {
		return key[:16]
	}
	return key
}
