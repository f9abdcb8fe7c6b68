package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"github.com/elastic/go-elasticsearch/v8"

	"github.com/findora/search-api/internal/domain"
)

type esSearchRepository struct {
	client *elasticsearch.Client
	index  string
}

// NewESSearchRepository creates a new Elasticsearch-based search repository.
func NewESSearchRepository(client *elasticsearch.Client, index string) SearchRepository {
	return &esSearchRepository{
		client: client,
		index:  index,
	}
}

func (r *esSearchRepository) Search(ctx context.Context, req *domain.SearchRequest) (*domain.SearchResponse, error) {
	body := buildSearchBody(req)

	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal query: %w", err)
	}

	res, err := r.client.Search(
		r.client.Search.WithContext(ctx),
		r.client.Search.WithIndex(r.index),
		r.client.Search.WithBody(bytes.NewReader(data)),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrBackendUnavailable, err)
	}
	defer res.Body.Close()

	if res.IsError() {
		return nil, fmt.Errorf("%w: %s", ErrBackendUnavailable, res.String())
	}

	var result esSearchResponse
	if err := json.NewDecoder(res.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	return parseSearchResponse(req, &result), nil
}

// buildSearchBody assembles the full request body: query, pagination,
// highlighting, and sort when not ranking by relevance.
func buildSearchBody(req *domain.SearchRequest) map[string]interface{} {
	body := map[string]interface{}{
		"from":      (req.Page - 1) * req.Size,
		"size":      req.Size,
		"query":     buildQuery(req),
		"highlight": buildHighlight(),
	}
	if sort := buildSort(req); sort != nil {
		body["sort"] = sort
	}
	return body
}

// buildQuery produces a multi_match over name (boosted) and description,
// wrapped in a bool query when price or category filters apply.
func buildQuery(req *domain.SearchRequest) map[string]interface{} {
	multiMatch := map[string]interface{}{
		"query":  req.Query,
		"fields": []string{"name^2", "description"},
		"type":   "best_fields",
	}
	if req.FuzzyEnabled() {
		multiMatch["fuzziness"] = "AUTO"
	}

	filters := buildFilters(req)
	if len(filters) > 0 {
		return map[string]interface{}{
			"bool": map[string]interface{}{
				"must":   map[string]interface{}{"multi_match": multiMatch},
				"filter": filters,
			},
		}
	}

	return map[string]interface{}{"multi_match": multiMatch}
}

func buildFilters(req *domain.SearchRequest) []map[string]interface{} {
	var filters []map[string]interface{}

	if req.MinPrice != nil || req.MaxPrice != nil {
		priceRange := map[string]interface{}{}
		if req.MinPrice != nil {
			priceRange["gte"] = *req.MinPrice
		}
		if req.MaxPrice != nil {
			priceRange["lte"] = *req.MaxPrice
		}
		filters = append(filters, map[string]interface{}{
			"range": map[string]interface{}{"price": priceRange},
		})
	}

	// Multi-category filter (OR logic) takes precedence over single category.
	if len(req.Categories) > 0 {
		filters = append(filters, map[string]interface{}{
			"terms": map[string]interface{}{"category": req.Categories},
		})
	} else if req.Category != "" {
		filters = append(filters, map[string]interface{}{
			"term": map[string]interface{}{"category": req.Category},
		})
	}

	return filters
}

// buildSort returns nil for relevance ranking; Elasticsearch then applies
// its default score ordering.
func buildSort(req *domain.SearchRequest) []map[string]interface{} {
	order := req.SortOrder
	if order == "" {
		order = domain.OrderDesc
	}

	switch req.SortBy {
	case domain.SortPrice:
		return []map[string]interface{}{
			{"price": map[string]interface{}{"order": order}},
		}
	case domain.SortName:
		// Text fields sort on the keyword subfield.
		return []map[string]interface{}{
			{"name.keyword": map[string]interface{}{"order": order}},
		}
	}
	return nil
}

func buildHighlight() map[string]interface{} {
	return map[string]interface{}{
		"fields": map[string]interface{}{
			"name":        map[string]interface{}{},
			"description": map[string]interface{}{},
		},
		"pre_tags":  []string{"<em>"},
		"post_tags": []string{"</em>"},
	}
}

func parseSearchResponse(req *domain.SearchRequest, res *esSearchResponse) *domain.SearchResponse {
	results := make([]domain.SearchResult, 0, len(res.Hits.Hits))
	for _, hit := range res.Hits.Hits {
		var product domain.Product
		if err := json.Unmarshal(hit.Source, &product); err != nil {
			continue
		}
		product.ID = hit.ID

		// Under field sort _score comes back null.
		var score float64
		if hit.Score != nil {
			score = *hit.Score
		}

		results = append(results, domain.SearchResult{
			Product:    product,
			Score:      score,
			Highlights: hit.Highlight,
		})
	}

	resp := &domain.SearchResponse{
		Query:   req.Query,
		Results: results,
		TookMS:  res.Took,
	}
	resp.Paginate(req.Page, req.Size, res.Hits.Total.Value)
	return resp
}

// esSearchResponse is the generic Elasticsearch search response structure.
type esSearchResponse struct {
	Took int `json:"took"`
	Hits struct {
		Total struct {
			Value int `json:"value"`
		} `json:"total"`
		Hits []struct {
			ID        string              `json:"_id"`
			Score     *float64            `json:"_score"`
			Source    json.RawMessage     `json:"_source"`
			Highlight map[string][]string `json:"highlight"`
		} `json:"hits"`
	} `json:"hits"`
}
