package pagination

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
)

func parseFrom(t *testing.T, rawQuery string) Params {
	t.Helper()
	gin.SetMode(gin.TestMode)
	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest("GET", "/?"+rawQuery, nil)
	return Parse(c)
}

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
	}{
		{"defaults", "", DefaultPage, DefaultLimit},
		{"explicit", "page=3&limit=50", 3, 50},
		{"zero page clamps", "page=0&limit=10", DefaultPage, 10},
		{"negative limit falls back", "page=2&limit=-5", 2, DefaultLimit},
		{"limit capped", "limit=9999", DefaultPage, MaxLimit},
		{"garbage ignored", "page=x&limit=y", DefaultPage, DefaultLimit},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := parseFrom(t, tt.query)
			if p.Page != tt.wantPage || p.Limit != tt.wantLimit {
				t.Errorf("got page=%d limit=%d, want page=%d limit=%d", p.Page, p.Limit, tt.wantPage, tt.wantLimit)
			}
			if p.Offset != (p.Page-1)*p.Limit {
				t.Errorf("offset = %d, want %d", p.Offset, (p.Page-1)*p.Limit)
			}
		})
	}
}

func TestBounds(t *testing.T) {
	tests := []struct {
		name           string
		page, limit    int
		total          int
		wantLo, wantHi int
	}{
		{"first page", 1, 10, 25, 0, 10},
		{"middle page", 2, 10, 25, 10, 20},
		{"short last page", 3, 10, 25, 20, 25},
		{"past the end", 5, 10, 25, 25, 25},
		{"empty set", 1, 10, 0, 0, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Params{Page: tt.page, Limit: tt.limit, Offset: (tt.page - 1) * tt.limit}
			lo, hi := p.Bounds(tt.total)
			if lo != tt.wantLo || hi != tt.wantHi {
				t.Errorf("Bounds(%d) = %d..%d, want %d..%d", tt.total, lo, hi, tt.wantLo, tt.wantHi)
			}
		})
	}
}
