package practice

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestListFilter_Window(t *testing.T) {
	tests := []struct {
		name      string
		filter    ListFilter
		wantPage  int
		wantLimit int
	}{
		{"defaults", ListFilter{}, 1, DefaultLimit},
		{"negative page", ListFilter{Page: -3, Limit: 5}, 1, 5},
		{"limit capped", ListFilter{Page: 2, Limit: 1000}, 2, MaxLimit},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, limit := tt.filter.Window()
			assert.Equal(t, tt.wantPage, page)
			assert.Equal(t, tt.wantLimit, limit)
		})
	}
}

func TestNewPage_TotalPages(t *testing.T) {
	f := ListFilter{Page: 3, Limit: 2}
	p := NewPage([]int{5}, 5, f)
	assert.Equal(t, 3, p.TotalPages)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 4, f.Offset())

	empty := NewPage[int](nil, 0, ListFilter{})
	assert.NotNil(t, empty.Items)
	assert.Equal(t, 0, empty.TotalPages)
}
