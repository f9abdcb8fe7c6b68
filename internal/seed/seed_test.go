package seed

import (
	"context"
	"errors"
	"testing"

	"github.com/findora/search-api/internal/domain"
)

type fakeIndexing struct {
	bulkResult *domain.BulkResult
	bulkErr    error
	indexed    []domain.Product
}

func (f *fakeIndexing) Create(context.Context, *domain.ProductInput) (*domain.IndexResult, error) {
	return nil, errors.New("not used")
}

func (f *fakeIndexing) Update(context.Context, string, *domain.ProductInput) (*domain.IndexResult, error) {
	return nil, errors.New("not used")
}

func (f *fakeIndexing) Get(context.Context, string) (*domain.Product, error) {
	return nil, errors.New("not used")
}

func (f *fakeIndexing) Delete(context.Context, string) error { return errors.New("not used") }

func (f *fakeIndexing) BulkIndex(_ context.Context, products []domain.Product) (*domain.BulkResult, error) {
	f.indexed = products
	return f.bulkResult, f.bulkErr
}

func (f *fakeIndexing) BulkDelete(context.Context, []string) (*domain.BulkResult, error) {
	return nil, errors.New("not used")
}

type fakeRefresher struct {
	called bool
	err    error
}

func (f *fakeRefresher) Refresh(context.Context) error {
	f.called = true
	return f.err
}

func TestRun(t *testing.T) {
	indexing := &fakeIndexing{bulkResult: &domain.BulkResult{SuccessCount: len(SampleProducts)}}
	refresher := &fakeRefresher{}

	if err := Run(context.Background(), indexing, refresher); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(indexing.indexed) != len(SampleProducts) {
		t.Errorf("indexed %d products, want %d", len(indexing.indexed), len(SampleProducts))
	}
	if !refresher.called {
		t.Error("index was not refreshed after seeding")
	}
}

func TestRunBulkFailure(t *testing.T) {
	indexing := &fakeIndexing{bulkErr: errors.New("bulk unavailable")}
	refresher := &fakeRefresher{}

	if err := Run(context.Background(), indexing, refresher); err == nil {
		t.Fatal("Run() returned nil for a failed bulk index")
	}
	if refresher.called {
		t.Error("index refreshed despite failed seeding")
	}
}

func TestRunPartialFailure(t *testing.T) {
	indexing := &fakeIndexing{bulkResult: &domain.BulkResult{
		SuccessCount: 8,
		ErrorCount:   2,
		Errors:       []domain.BulkError{{ID: "3", Reason: "mapping conflict"}, {ID: "7", Reason: "mapping conflict"}},
	}}

	if err := Run(context.Background(), indexing, &fakeRefresher{}); err == nil {
		t.Fatal("Run() returned nil despite failed products")
	}
}
