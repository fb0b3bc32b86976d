package dto

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageRequest(t *testing.T) {
	tests := []struct {
		name         string
		page, limit  int
		defaultLimit int
		want         PageRequest
	}{
		{name: "defaults_posts", want: PageRequest{Page: 1, Limit: 20}, defaultLimit: DefaultPostLimit},
		{name: "defaults_activities", want: PageRequest{Page: 1, Limit: 50}, defaultLimit: DefaultActivityLimit},
		{name: "limit_capped", page: 2, limit: 500, defaultLimit: DefaultPostLimit, want: PageRequest{Page: 2, Limit: 100}},
		{name: "negative_page_floored", page: -3, limit: 10, defaultLimit: DefaultPostLimit, want: PageRequest{Page: 1, Limit: 10}},
		{name: "negative_limit_floored", page: 1, limit: -10, defaultLimit: DefaultPostLimit, want: PageRequest{Page: 1, Limit: 1}},
		{name: "huge_page_capped", page: math.MaxInt, limit: 20, defaultLimit: DefaultPostLimit, want: PageRequest{Page: MaxPage, Limit: 20}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NewPageRequest(tt.page, tt.limit, tt.defaultLimit))
		})
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(PageRequest{Page: 2, Limit: 20}, 25)
	assert.Equal(t, int64(2), p.TotalPages)
	assert.False(t, p.HasNext)
	assert.True(t, p.HasPrev)

	first := NewPagination(PageRequest{Page: 1, Limit: 20}, 25)
	assert.True(t, first.HasNext)
	assert.False(t, first.HasPrev)

	empty := NewPagination(PageRequest{Page: 1, Limit: 20}, 0)
	assert.Zero(t, empty.TotalPages)
	assert.False(t, empty.HasNext)
}

func TestOffset(t *testing.T) {
	assert.Equal(t, 20, PageRequest{Page: 2, Limit: 20}.Offset())
	assert.Equal(t, 0, PageRequest{Page: 1, Limit: 50}.Offset())

	for _, limit := range []int{1, 20, MaxLimit} {
		assert.GreaterOrEqual(t, NewPageRequest(math.MaxInt, limit, DefaultPostLimit).Offset(), 0, "limit %d", limit)
	}
}
