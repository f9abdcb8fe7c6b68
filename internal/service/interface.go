package service

import (
	"context"

	"github.com/findora/search-api/internal/cache"
	"github.com/findora/search-api/internal/domain"
)

// SearchService defines the interface for search business logic.
type SearchService interface {
	Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error)

	// Cache administration. CacheStats reports ok=false when the cache
	// is disabled; the mutating calls are no-ops in that case.
	CacheStats() (cache.Stats, bool)
	ClearCache()
	ResetCacheStats()
}

// IndexingService defines the interface for product write operations.
type IndexingService interface {
	Create(ctx context.Context, input *domain.ProductInput) (*domain.IndexResult, error)
	Update(ctx context.Context, id string, input *domain.ProductInput) (*domain.IndexResult, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	BulkIndex(ctx context.Context, products []domain.Product) (*domain.BulkResult, error)
	BulkDelete(ctx context.Context, ids []string) (*domain.BulkResult, error)
}
