package cache

import (
	"testing"
)

func floatPtr(v float64) *float64 { return &v }

func baseParams() Params {
	return Params{
		Query:     "laptop",
		Fuzzy:     true,
		Page:      1,
		Size:      10,
		SortBy:    "relevance",
		SortOrder: "desc",
		Index:     "products",
	}
}

func TestDeriveKeyDeterminism(t *testing.T) {
	p1 := baseParams()

	// Same values assigned in a different order must hash identically.
	var p2 Params
	p2.Index = "products"
	p2.SortOrder = "desc"
	p2.SortBy = "relevance"
	p2.Size = 10
	p2.Page = 1
	p2.Fuzzy = true
	p2.Query = "laptop"

	k1, err := DeriveKey(p1)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	k2, err := DeriveKey(p2)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}
	if k1 != k2 {
		t.Errorf("keys differ for identical params: %s != %s", k1, k2)
	}

	if len(k1) != 64 {
		t.Errorf("key length = %d, want 64 hex chars", len(k1))
	}
}

func TestDeriveKeyDiscrimination(t *testing.T) {
	base := baseParams()
	baseKey, err := DeriveKey(base)
	if err != nil {
		t.Fatalf("DeriveKey: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Params)
	}{
		{"Query", func(p *Params) { p.Query = "phone" }},
		{"Fuzzy", func(p *Params) { p.Fuzzy = false }},
		{"Page", func(p *Params) { p.Page = 2 }},
		{"Size", func(p *Params) { p.Size = 20 }},
		{"MinPrice", func(p *Params) { p.MinPrice = floatPtr(10) }},
		{"MaxPrice", func(p *Params) { p.MaxPrice = floatPtr(500) }},
		{"Category", func(p *Params) { p.Category = "Electronics" }},
		{"Categories", func(p *Params) { p.Categories = []string{"Electronics", "Audio"} }},
		{"SortBy", func(p *Params) { p.SortBy = "price" }},
		{"SortOrder", func(p *Params) { p.SortOrder = "asc" }},
		{"Index", func(p *Params) { p.Index = "products-v2" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := baseParams()
			tt.mutate(&p)

			k, err := DeriveKey(p)
			if err != nil {
				t.Fatalf("DeriveKey: %v", err)
			}
			if k == baseKey {
				t.Errorf("key unchanged after mutating %s", tt.name)
			}
		})
	}
}

func TestDeriveKeyTypePreservation(t *testing.T) {
	// A numeric filter and a string field that stringify alike must not
	// collide: min_price=1 is not category="1".
	p1 := baseParams()
	p1.MinPrice = floatPtr(1)

	p2 := baseParams()
	p2.Category = "1"

	k1, _ := DeriveKey(p1)
	k2, _ := DeriveKey(p2)
	if k1 == k2 {
		t.Error("numeric and string parameters collided")
	}
}

func TestDeriveKeyAbsentOptionalFields(t *testing.T) {
	// Unset optional filters are omitted from the serialization, so a nil
	// slice and a never-assigned slice are the same query.
	p1 := baseParams()
	p1.Categories = nil

	p2 := baseParams()

	k1, _ := DeriveKey(p1)
	k2, _ := DeriveKey(p2)
	if k1 != k2 {
		t.Error("nil and unset optional fields produced different keys")
	}
}
