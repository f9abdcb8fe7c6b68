package domain

// Product is a catalog document stored in Elasticsearch.
type Product struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Category    string  `json:"category,omitempty"`
}

// ProductInput is the create/update payload. The document ID is assigned
// by the server (create) or taken from the URL (update).
type ProductInput struct {
	Name        string  `json:"name" binding:"required"`
	Description string  `json:"description" binding:"required"`
	Price       float64 `json:"price" binding:"required,gt=0"`
	Category    string  `json:"category"`
}

// IndexResult reports the outcome of a single-document index operation.
type IndexResult struct {
	ID     string `json:"id"`
	Result string `json:"result"` // "created" | "updated"
	Index  string `json:"index"`
}

// BulkError describes one failed item in a bulk operation.
type BulkError struct {
	ID     string `json:"id"`
	Reason string `json:"reason"`
}

// BulkResult aggregates the outcome of a bulk index/delete.
type BulkResult struct {
	SuccessCount int         `json:"success_count"`
	ErrorCount   int         `json:"error_count"`
	Errors       []BulkError `json:"errors"`
}
