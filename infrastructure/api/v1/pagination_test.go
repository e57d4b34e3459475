package v1

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePagination(t *testing.T) {
	tests := []struct {
		query      string
		wantNumber int
		wantLimit  int
		wantOffset int
	}{
		{"", 1, DefaultPageSize, 0},
		{"?page=3&page_size=10", 3, 10, 20},
		{"?page=0&page_size=-4", 1, DefaultPageSize, 0},
		{"?page=two&page_size=lots", 1, DefaultPageSize, 0},
		{"?page_size=5000", 1, MaxPageSize, 0},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			p := ParsePagination(httptest.NewRequest("GET", "/entities"+tt.query, nil))
			assert.Equal(t, tt.wantNumber, p.Number())
			assert.Equal(t, tt.wantLimit, p.Limit())
			assert.Equal(t, tt.wantOffset, p.Offset())
		})
	}
}

func TestPage_Meta(t *testing.T) {
	p := ParsePagination(httptest.NewRequest("GET", "/entities?page=2&page_size=10", nil))

	meta := p.Meta(21)

	assert.Equal(t, 2, meta["page"])
	assert.Equal(t, 10, meta["page_size"])
	assert.Equal(t, int64(21), meta["total_count"])
	assert.Equal(t, int64(3), meta["total_pages"])
	assert.Equal(t, int64(0), Page{number: 1, size: 20}.Meta(0)["total_pages"])
}
