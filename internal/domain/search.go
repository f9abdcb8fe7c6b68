package domain

// Sort fields accepted by the search endpoint.
const (
	SortRelevance = "relevance"
	SortPrice     = "price"
	SortName      = "name"
)

// Sort orders.
const (
	OrderAsc  = "asc"
	OrderDesc = "desc"
)

// SearchRequest is the search query bound from URL parameters.
// Fuzzy defaults to true and is a pointer so "absent" and "false"
// can be told apart during binding.
type SearchRequest struct {
	Query      string   `form:"q" binding:"required"`
	Fuzzy      *bool    `form:"fuzzy"`
	Page       int      `form:"page"`
	Size       int      `form:"size"`
	MinPrice   *float64 `form:"min_price"`
	MaxPrice   *float64 `form:"max_price"`
	Category   string   `form:"category"`
	Categories []string `form:"categories"`
	SortBy     string   `form:"sort_by"`
	SortOrder  string   `form:"sort_order"`
}

// FuzzyEnabled reports whether fuzzy matching applies (default true).
func (r *SearchRequest) FuzzyEnabled() bool {
	return r.Fuzzy == nil || *r.Fuzzy
}

// SearchResult is a single hit: the product plus relevance metadata.
type SearchResult struct {
	Product
	Score      float64             `json:"score"`
	Highlights map[string][]string `json:"highlights,omitempty"`
}

// SearchResponse is a page of search results with pagination metadata.
type SearchResponse struct {
	Query       string         `json:"query"`
	Total       int            `json:"total"`
	Page        int            `json:"page"`
	Size        int            `json:"size"`
	TotalPages  int            `json:"total_pages"`
	HasNext     bool           `json:"has_next"`
	HasPrevious bool           `json:"has_previous"`
	Results     []SearchResult `json:"results"`
	TookMS      int            `json:"took_ms"`
}

// Paginate fills the page-derived fields from the hit total.
func (r *SearchResponse) Paginate(page, size, total int) {
	r.Total = total
	r.Page = page
	r.Size = size
	if total > 0 {
		r.TotalPages = (total + size - 1) / size
	}
	r.HasNext = page < r.TotalPages
	r.HasPrevious = page > 1
}
