package post

import (
	"math"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPageRequest(t *testing.T) {
	tests := []struct {
		name      string
		page      string
		limit     string
		wantPage  int64
		wantLimit int64
		wantSkip  int64
	}{
		{"defaults", "", "", 1, 10, 0},
		{"explicit", "3", "10", 3, 10, 20},
		{"page only", "2", "", 2, 10, 10},
		{"non-numeric page resets both", "abc", "5", 1, 10, 0},
		{"zero limit resets both", "4", "0", 1, 10, 0},
		{"negative page resets both", "-1", "5", 1, 10, 0},
		{"overflow resets both", "9223372036854775807", "100", 1, 10, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := NewPageRequest(tt.page, tt.limit, "", 10)
			assert.Equal(t, tt.wantPage, req.Page)
			assert.Equal(t, tt.wantLimit, req.Limit)
			assert.Equal(t, tt.wantSkip, req.Skip())
		})
	}
}

func TestNewPageRequest_PerPageFallback(t *testing.T) {
	req := NewPageRequest("", "", "  go  ", 0)
	assert.Equal(t, int64(DefaultPostsPerPage), req.Limit)
	assert.Equal(t, "go", req.Search)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, int64(3), TotalPages(25, 10))
	assert.Equal(t, int64(2), TotalPages(20, 10))
	assert.Equal(t, int64(0), TotalPages(0, 10))
	assert.Equal(t, int64(1), TotalPages(1, 10))
}

func TestTotalPages_HugeLimit(t *testing.T) {
	req := NewPageRequest("1", strconv.FormatInt(math.MaxInt64, 10), "", DefaultPostsPerPage)

	assert.Equal(t, int64(math.MaxInt64), req.Limit)
	assert.Equal(t, int64(1), TotalPages(25, req.Limit))
	assert.Equal(t, int64(1), TotalPages(math.MaxInt64, math.MaxInt64))
	assert.Equal(t, int64(2), TotalPages(math.MaxInt64, math.MaxInt64-1))
}
