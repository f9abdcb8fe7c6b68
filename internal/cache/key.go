package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
)

// Params captures every search input that affects the result set. Two
// requests that are the same query must derive the same key no matter how
// they were constructed, so optional fields are pointers/slices with
// omitempty: an unset filter never appears in the serialized form.
type Params struct {
	Query      string   `json:"q"`
	Fuzzy      bool     `json:"fuzzy"`
	Page       int      `json:"page"`
	Size       int      `json:"size"`
	MinPrice   *float64 `json:"min_price,omitempty"`
	MaxPrice   *float64 `json:"max_price,omitempty"`
	Category   string   `json:"category,omitempty"`
	Categories []string `json:"categories,omitempty"`
	SortBy     string   `json:"sort_by"`
	SortOrder  string   `json:"sort_order"`
	Index      string   `json:"index"`
}

// DeriveKey hashes the canonical serialization of the parameters.
// json.Marshal writes struct fields in declaration order, so the output is
// deterministic and preserves value types (numbers, booleans, strings,
// arrays stay distinct even when they stringify alike).
func DeriveKey(p Params) (string, error) {
	raw, err := json.Marshal(p)
	if err != nil {
		return "", fmt.Errorf("failed to serialize cache params: %w", err)
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:]), nil
}
