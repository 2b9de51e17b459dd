package params

import (
	"net/url"
	"testing"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query      string
		wantLimit  int
		wantPage   int
		wantOffset int
	}{
		{"", 24, 1, 0},
		{"limit=10&page=3", 10, 3, 20},
		{"limit=500", 100, 1, 0},
		{"limit=-5&page=0", 24, 1, 0},
		{"limit=abc&page=xyz", 24, 1, 0},
	}

	for _, tt := range tests {
		q, err := url.ParseQuery(tt.query)
		if err != nil {
			t.Fatal(err)
		}

		p := ParsePagination(q)
		if p.Limit != tt.wantLimit || p.Page != tt.wantPage || p.Offset != tt.wantOffset {
			t.Errorf("ParsePagination(%q) = limit %d page %d offset %d, want %d %d %d",
				tt.query, p.Limit, p.Page, p.Offset, tt.wantLimit, tt.wantPage, tt.wantOffset)
		}
	}
}

func TestComputeMeta(t *testing.T) {
	p := Pagination{Limit: 10, Page: 2}
	p.ComputeMeta(25)

	if p.TotalPages != 3 {
		t.Errorf("TotalPages = %d, want 3", p.TotalPages)
	}
	if !p.HasPrev {
		t.Error("HasPrev = false on page 2")
	}
	if !p.HasNext {
		t.Error("HasNext = false with 25 rows and 20 seen")
	}

	p = Pagination{Limit: 10, Page: 1}
	p.ComputeMeta(0)
	if p.TotalPages != 0 || p.HasNext || p.HasPrev {
		t.Errorf("empty result pagination = %+v", p)
	}
}
