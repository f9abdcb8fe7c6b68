package service

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/findora/search-api/internal/cache"
	"github.com/findora/search-api/internal/domain"
	"github.com/findora/search-api/internal/metrics"
	"github.com/findora/search-api/internal/repository"
	"github.com/findora/search-api/pkg/log"
)

type indexingServiceImpl struct {
	repo      repository.ProductRepository
	cache     cache.SearchCache
	collector *metrics.Collector
}

// NewIndexingService creates a new indexing service. The cache may be nil
// when result caching is disabled.
func NewIndexingService(repo repository.ProductRepository, searchCache cache.SearchCache, collector *metrics.Collector) IndexingService {
	return &indexingServiceImpl{
		repo:      repo,
		cache:     searchCache,
		collector: collector,
	}
}

func (s *indexingServiceImpl) Create(ctx context.Context, input *domain.ProductInput) (*domain.IndexResult, error) {
	product := &domain.Product{
		ID:          uuid.New().String(),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
	}

	result, err := s.repo.Index(ctx, product)
	s.collector.RecordElasticsearchQuery(err != nil)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	return result, nil
}

func (s *indexingServiceImpl) Update(ctx context.Context, id string, input *domain.ProductInput) (*domain.IndexResult, error) {
	product := &domain.Product{
		ID:          id,
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Category:    input.Category,
	}

	result, err := s.repo.Index(ctx, product)
	s.collector.RecordElasticsearchQuery(err != nil)
	if err != nil {
		return nil, err
	}

	s.invalidateCache(ctx)
	return result, nil
}

func (s *indexingServiceImpl) Get(ctx context.Context, id string) (*domain.Product, error) {
	product, err := s.repo.Get(ctx, id)
	s.collector.RecordElasticsearchQuery(err != nil && !errors.Is(err, repository.ErrProductNotFound))
	return product, err
}

func (s *indexingServiceImpl) Delete(ctx context.Context, id string) error {
	err := s.repo.Delete(ctx, id)
	s.collector.RecordElasticsearchQuery(err != nil && !errors.Is(err, repository.ErrProductNotFound))
	if err != nil {
		return err
	}

	s.invalidateCache(ctx)
	return nil
}

func (s *indexingServiceImpl) BulkIndex(ctx context.Context, products []domain.Product) (*domain.BulkResult, error) {
	result, err := s.repo.BulkIndex(ctx, products)
	s.collector.RecordElasticsearchQuery(err != nil)
	if err != nil {
		return nil, err
	}

	if result.SuccessCount > 0 {
		s.invalidateCache(ctx)
	}
	return result, nil
}

func (s *indexingServiceImpl) BulkDelete(ctx context.Context, ids []string) (*domain.BulkResult, error) {
	result, err := s.repo.BulkDelete(ctx, ids)
	s.collector.RecordElasticsearchQuery(err != nil)
	if err != nil {
		return nil, err
	}

	if result.SuccessCount > 0 {
		s.invalidateCache(ctx)
	}
	return result, nil
}

// invalidateCache drops cached search results after a successful write so a
// mutation is never masked for a full TTL.
func (s *indexingServiceImpl) invalidateCache(ctx context.Context) {
	if s.cache == nil {
		return
	}
	s.cache.Clear()
	s.collector.UpdateCacheSize(0)

	l := log.Ctx(ctx)
	l.Debug().Msg("search cache cleared after write")
}
