package seed

import (
	"context"
	"fmt"

	"github.com/findora/search-api/internal/domain"
	"github.com/findora/search-api/internal/service"
	"github.com/findora/search-api/pkg/log"
)

// IndexRefresher makes freshly indexed documents visible to search.
// *repository.IndexManager satisfies it.
type IndexRefresher interface {
	Refresh(ctx context.Context) error
}

// SampleProducts is a small development catalog spanning several
// categories and price points.
var SampleProducts = []domain.Product{
	{ID: "1", Name: "iPhone 15 Pro", Description: "Apple's flagship smartphone with A17 Pro chip, titanium design, and advanced camera system", Price: 999.99, Category: "Electronics"},
	{ID: "2", Name: "iPhone 15", Description: "Apple smartphone with A16 Bionic chip and Dynamic Island", Price: 799.99, Category: "Electronics"},
	{ID: "3", Name: "Samsung Galaxy S24 Ultra", Description: "Samsung's premium Android phone with Snapdragon 8 Gen 3 and S Pen", Price: 1199.99, Category: "Electronics"},
	{ID: "4", Name: "Google Pixel 8 Pro", Description: "Google's flagship phone with Tensor G3 chip and best-in-class AI camera", Price: 899.99, Category: "Electronics"},
	{ID: "5", Name: "MacBook Pro 14", Description: "Apple laptop with M3 Pro chip and Liquid Retina XDR display", Price: 1999.99, Category: "Computers"},
	{ID: "6", Name: "Dell XPS 13", Description: "Compact Windows ultrabook with InfinityEdge display", Price: 1299.99, Category: "Computers"},
	{ID: "7", Name: "Sony WH-1000XM5", Description: "Industry-leading noise cancelling wireless headphones", Price: 399.99, Category: "Audio"},
	{ID: "8", Name: "AirPods Pro 2", Description: "Apple wireless earbuds with active noise cancellation and spatial audio", Price: 249.99, Category: "Audio"},
	{ID: "9", Name: "Kindle Paperwhite", Description: "Waterproof e-reader with adjustable warm light", Price: 149.99, Category: "Books"},
	{ID: "10", Name: "Dyson V15 Detect", Description: "Cordless vacuum with laser dust detection", Price: 749.99, Category: "Home"},
}

// Run bulk-indexes the sample catalog and refreshes the index so the data
// is immediately searchable.
func Run(ctx context.Context, indexing service.IndexingService, refresher IndexRefresher) error {
	result, err := indexing.BulkIndex(ctx, SampleProducts)
	if err != nil {
		return fmt.Errorf("failed to seed products: %w", err)
	}
	if result.ErrorCount > 0 {
		return fmt.Errorf("seeding finished with %d failed products", result.ErrorCount)
	}

	if err := refresher.Refresh(ctx); err != nil {
		return err
	}

	l := log.L()
	l.Info().Int("count", result.SuccessCount).Msg("sample products seeded")
	return nil
}
