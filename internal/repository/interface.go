package repository

import (
	"context"
	"errors"

	"github.com/findora/search-api/internal/domain"
)

// ErrBackendUnavailable wraps Elasticsearch transport and server failures so
// callers can map them to a distinct "search backend unavailable" condition.
var ErrBackendUnavailable = errors.New("search backend unavailable")

// ErrProductNotFound is returned when a document ID does not exist.
var ErrProductNotFound = errors.New("product not found")

// SearchRepository defines the interface for search operations against Elasticsearch.
type SearchRepository interface {
	Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error)
}

// ProductRepository defines document operations on the product index.
type ProductRepository interface {
	Index(ctx context.Context, product *domain.Product) (*domain.IndexResult, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
	Delete(ctx context.Context, id string) error
	BulkIndex(ctx context.Context, products []domain.Product) (*domain.BulkResult, error)
	BulkDelete(ctx context.Context, ids []string) (*domain.BulkResult, error)
}
