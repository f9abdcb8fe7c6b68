package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"

	"github.com/findora/search-api/internal/domain"
)

type esProductRepository struct {
	client *elasticsearch.Client
	index  string
}

// NewESProductRepository creates a new Elasticsearch-based product repository.
func NewESProductRepository(client *elasticsearch.Client, index string) ProductRepository {
	return &esProductRepository{
		client: client,
		index:  index,
	}
}

// productDoc is the indexed document body. The ID lives in the document
// metadata, not the source.
type productDoc struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
}

func toDoc(p *domain.Product) productDoc {
	return productDoc{
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Category:    p.Category,
	}
}

func (r *esProductRepository) Index(ctx context.Context, product *domain.Product) (*domain.IndexResult, error) {
	data, err := json.Marshal(toDoc(product))
	if err != nil {
		return nil, fmt.Errorf("failed to marshal product: %w", err)
	}

	res, err := r.client.Index(
		r.index,
		bytes.NewReader(data),
		r.client.Index.WithDocumentID(product.ID),
		r.client.Index.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, res.String())
	}

	var result struct {
		Result string `json:"result"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return &domain.IndexResult{
		ID:     product.ID,
		Result: result.Result,
		Index:  r.index,
	}, nil
}

func (r *esProductRepository) Get(ctx context.Context, id string) (*domain.Product, error) {
	res, err := r.client.Get(
		r.index,
		id,
		r.client.Get.WithContext(ctx),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return nil, ErrProductNotFound
	}
	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, res.String())
	}

	var result struct {
		ID     string          `json:"_id"`
		Source json.RawMessage `json:"_source"`
	}
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	var product domain.Product
	if err := json.Unmarshal(result.Source, &product); err != nil {
		return nil, fmt.Errorf("failed to unmarshal product: %w", err)
	}
	product.ID = result.ID

	return &product, nil
}

func (r *esProductRepository) Delete(ctx context.Context, id string) error {
	res, err := r.client.Delete(
		r.index,
		id,
		r.client.Delete.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer res.Body.Close()

	if res.StatusCode == http.StatusNotFound {
		return ErrProductNotFound
	}
	if res.IsError() {
		return fmt.Errorf("%w: %s", ErrBackendUnavailable, res.String())
	}

	return nil
}

func (r *esProductRepository) BulkIndex(ctx context.Context, products []domain.Product) (*domain.BulkResult, error) {
	if len(products) == 0 {
		return &domain.BulkResult{Errors: []domain.BulkError{}}, nil
	}

	items := make([]esutil.BulkIndexerItem, 0, len(products))
	for i := range products {
		p := products[i]
		data, err := json.Marshal(toDoc(&p))
		if err != nil {
			return nil, fmt.Errorf("failed to marshal product %s: %w", p.ID, err)
		}
		items = append(items, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: p.ID,
			Body:       bytes.NewReader(data),
		})
	}

	return r.runBulk(ctx, items)
}

func (r *esProductRepository) BulkDelete(ctx context.Context, ids []string) (*domain.BulkResult, error) {
	if len(ids) == 0 {
		return &domain.BulkResult{Errors: []domain.BulkError{}}, nil
	}

	items := make([]esutil.BulkIndexerItem, 0, len(ids))
	for _, id := range ids {
		items = append(items, esutil.BulkIndexerItem{
			Action:     "delete",
			DocumentID: id,
		})
	}

	return r.runBulk(ctx, items)
}

// runBulk feeds items through a BulkIndexer, collecting per-item failures
// instead of failing the whole batch.
func (r *esProductRepository) runBulk(ctx context.Context, items []esutil.BulkIndexerItem) (*domain.BulkResult, error) {
	var (
		mu     sync.Mutex
		result = domain.BulkResult{Errors: []domain.BulkError{}}
	)

	bi, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client: r.client,
		Index:  r.index,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create bulk indexer: %w", err)
	}

	for i := range items {
		item := items[i]
		item.OnSuccess = func(_ context.Context, _ esutil.BulkIndexerItem, _ esutil.BulkIndexerResponseItem) {
			mu.Lock()
			result.SuccessCount++
			mu.Unlock()
		}
		item.OnFailure = func(_ context.Context, it esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
			reason := res.Error.Reason
			if reason == "" && err != nil {
				reason = err.Error()
			}
			if reason == "" {
				reason = res.Result
			}
			mu.Lock()
			result.ErrorCount++
			result.Errors = append(result.Errors, domain.BulkError{
				ID:     it.DocumentID,
				Reason: reason,
			})
			mu.Unlock()
		}

		if err := bi.Add(ctx, item); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
		}
	}

	if err := bi.Close(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}

	return &result, nil
}
