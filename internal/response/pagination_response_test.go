package response

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name              string
		page, size, count int
		total             int64
		wantPages         int64
		wantFrom, wantTo  int
		wantMore          bool
	}{
		{"first page", 1, 10, 10, 25, 3, 1, 10, true},
		{"last partial page", 3, 10, 5, 25, 3, 21, 25, false},
		{"empty", 1, 10, 0, 0, 0, 0, 0, false},
		{"past the end", 4, 10, 0, 25, 3, 0, 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.size, tt.total, tt.count)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantFrom, p.From)
			assert.Equal(t, tt.wantTo, p.To)
			assert.Equal(t, tt.wantMore, p.HasMore)
			assert.Equal(t, tt.total, p.TotalItems)
		})
	}
}
