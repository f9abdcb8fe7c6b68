package repository

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/findora/search-api/internal/domain"
)

func floatPtr(v float64) *float64 { return &v }

func baseRequest() *domain.SearchRequest {
	return &domain.SearchRequest{
		Query:     "laptop",
		Page:      1,
		Size:      10,
		SortBy:    domain.SortRelevance,
		SortOrder: domain.OrderDesc,
	}
}

func TestBuildQueryNoFilters(t *testing.T) {
	q := buildQuery(baseRequest())

	mm, ok := q["multi_match"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected bare multi_match, got %v", q)
	}
	if mm["query"] != "laptop" {
		t.Errorf("query = %v, want laptop", mm["query"])
	}
	if mm["fuzziness"] != "AUTO" {
		t.Errorf("fuzziness = %v, want AUTO (default fuzzy)", mm["fuzziness"])
	}
	if !reflect.DeepEqual(mm["fields"], []string{"name^2", "description"}) {
		t.Errorf("fields = %v", mm["fields"])
	}
}

func TestBuildQueryFuzzyDisabled(t *testing.T) {
	req := baseRequest()
	f := false
	req.Fuzzy = &f

	q := buildQuery(req)
	mm := q["multi_match"].(map[string]interface{})
	if _, ok := mm["fuzziness"]; ok {
		t.Error("fuzziness present with fuzzy disabled")
	}
}

func TestBuildQueryWithFilters(t *testing.T) {
	req := baseRequest()
	req.MinPrice = floatPtr(100)
	req.MaxPrice = floatPtr(500)
	req.Category = "Electronics"

	q := buildQuery(req)
	b, ok := q["bool"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected bool query with filters, got %v", q)
	}
	filters := b["filter"].([]map[string]interface{})
	if len(filters) != 2 {
		t.Fatalf("filter count = %d, want 2", len(filters))
	}

	priceRange := filters[0]["range"].(map[string]interface{})["price"].(map[string]interface{})
	if priceRange["gte"] != 100.0 || priceRange["lte"] != 500.0 {
		t.Errorf("price range = %v", priceRange)
	}

	term := filters[1]["term"].(map[string]interface{})
	if term["category"] != "Electronics" {
		t.Errorf("term filter = %v", term)
	}
}

func TestBuildFiltersHalfOpenRange(t *testing.T) {
	req := baseRequest()
	req.MinPrice = floatPtr(50)

	filters := buildFilters(req)
	if len(filters) != 1 {
		t.Fatalf("filter count = %d, want 1", len(filters))
	}
	priceRange := filters[0]["range"].(map[string]interface{})["price"].(map[string]interface{})
	if _, ok := priceRange["lte"]; ok {
		t.Error("lte present for unset max_price")
	}
	if priceRange["gte"] != 50.0 {
		t.Errorf("gte = %v, want 50", priceRange["gte"])
	}
}

func TestBuildFiltersCategoriesPrecedence(t *testing.T) {
	req := baseRequest()
	req.Category = "Electronics"
	req.Categories = []string{"Audio", "Computers"}

	filters := buildFilters(req)
	if len(filters) != 1 {
		t.Fatalf("filter count = %d, want 1", len(filters))
	}
	terms, ok := filters[0]["terms"]
	if !ok {
		t.Fatalf("expected terms filter, got %v", filters[0])
	}
	if !reflect.DeepEqual(terms.(map[string]interface{})["category"], []string{"Audio", "Computers"}) {
		t.Errorf("terms = %v", terms)
	}
}

func TestBuildSort(t *testing.T) {
	tests := []struct {
		name     string
		sortBy   string
		order    string
		wantNil  bool
		wantField string
	}{
		{"Relevance", domain.SortRelevance, domain.OrderDesc, true, ""},
		{"Price", domain.SortPrice, domain.OrderAsc, false, "price"},
		{"Name", domain.SortName, domain.OrderDesc, false, "name.keyword"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := baseRequest()
			req.SortBy = tt.sortBy
			req.SortOrder = tt.order

			sort := buildSort(req)
			if tt.wantNil {
				if sort != nil {
					t.Fatalf("sort = %v, want nil for relevance", sort)
				}
				return
			}
			if len(sort) != 1 {
				t.Fatalf("sort clause count = %d, want 1", len(sort))
			}
			clause, ok := sort[0][tt.wantField].(map[string]interface{})
			if !ok {
				t.Fatalf("missing %s clause: %v", tt.wantField, sort[0])
			}
			if clause["order"] != tt.order {
				t.Errorf("order = %v, want %v", clause["order"], tt.order)
			}
		})
	}
}

func TestBuildSearchBodyPagination(t *testing.T) {
	req := baseRequest()
	req.Page = 3
	req.Size = 20

	body := buildSearchBody(req)
	if body["from"] != 40 {
		t.Errorf("from = %v, want 40", body["from"])
	}
	if body["size"] != 20 {
		t.Errorf("size = %v, want 20", body["size"])
	}
	if _, ok := body["sort"]; ok {
		t.Error("sort present for relevance ranking")
	}
	if _, ok := body["highlight"]; !ok {
		t.Error("highlight missing")
	}
}

func TestParseSearchResponse(t *testing.T) {
	raw := `{
		"took": 12,
		"hits": {
			"total": {"value": 25},
			"hits": [
				{
					"_id": "p1",
					"_score": 1.5,
					"_source": {"name": "Laptop", "description": "A laptop", "price": 999.99, "category": "Computers"},
					"highlight": {"name": ["<em>Laptop</em>"]}
				},
				{
					"_id": "p2",
					"_score": null,
					"_source": {"name": "Laptop Stand", "description": "A stand", "price": 29.99}
				}
			]
		}
	}`

	var res esSearchResponse
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	req := baseRequest()
	req.Page = 2
	resp := parseSearchResponse(req, &res)

	if resp.Total != 25 {
		t.Errorf("Total = %d, want 25", resp.Total)
	}
	if resp.TookMS != 12 {
		t.Errorf("TookMS = %d, want 12", resp.TookMS)
	}
	if resp.TotalPages != 3 || !resp.HasNext || !resp.HasPrevious {
		t.Errorf("pagination = %d/%v/%v", resp.TotalPages, resp.HasNext, resp.HasPrevious)
	}

	if len(resp.Results) != 2 {
		t.Fatalf("result count = %d, want 2", len(resp.Results))
	}
	first := resp.Results[0]
	if first.ID != "p1" || first.Score != 1.5 || first.Name != "Laptop" {
		t.Errorf("first result = %+v", first)
	}
	if first.Highlights["name"][0] != "<em>Laptop</em>" {
		t.Errorf("highlights = %v", first.Highlights)
	}

	// Null score under field sort decodes to zero.
	if resp.Results[1].Score != 0 {
		t.Errorf("null score = %v, want 0", resp.Results[1].Score)
	}
}
