package domain

import "testing"

func TestPaginate(t *testing.T) {
	tests := []struct {
		name        string
		page        int
		size        int
		total       int
		wantPages   int
		wantNext    bool
		wantPrev    bool
	}{
		{"NoResults", 1, 10, 0, 0, false, false},
		{"SinglePage", 1, 10, 7, 1, false, false},
		{"ExactFit", 1, 10, 10, 1, false, false},
		{"FirstOfMany", 1, 10, 25, 3, true, false},
		{"MiddlePage", 2, 10, 25, 3, true, true},
		{"LastPage", 3, 10, 25, 3, false, true},
		{"PageBeyondEnd", 5, 10, 25, 3, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var resp SearchResponse
			resp.Paginate(tt.page, tt.size, tt.total)

			if resp.TotalPages != tt.wantPages {
				t.Errorf("TotalPages = %d, want %d", resp.TotalPages, tt.wantPages)
			}
			if resp.HasNext != tt.wantNext {
				t.Errorf("HasNext = %v, want %v", resp.HasNext, tt.wantNext)
			}
			if resp.HasPrevious != tt.wantPrev {
				t.Errorf("HasPrevious = %v, want %v", resp.HasPrevious, tt.wantPrev)
			}
		})
	}
}

func TestFuzzyEnabled(t *testing.T) {
	f := false
	tr := true

	tests := []struct {
		name string
		req  SearchRequest
		want bool
	}{
		{"Default", SearchRequest{}, true},
		{"ExplicitTrue", SearchRequest{Fuzzy: &tr}, true},
		{"ExplicitFalse", SearchRequest{Fuzzy: &f}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.req.FuzzyEnabled(); got != tt.want {
				t.Errorf("FuzzyEnabled() = %v, want %v", got, tt.want)
			}
		})
	}
}
