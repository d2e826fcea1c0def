package pagination

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTotalPages(t *testing.T) {
	tests := []struct {
		name     string
		count    int
		pageSize int
		expected int
	}{
		{"exact multiple", 9, 3, 3},
		{"partial last page", 7, 3, 3},
		{"single item", 1, 3, 1},
		{"empty set still has one page", 0, 3, 1},
		{"page size one", 5, 1, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, New(tt.count, tt.pageSize).TotalPages())
		})
	}
}

func TestPage(t *testing.T) {
	p := New(7, 3)

	tests := []struct {
		name           string
		raw            string
		expectedNumber int
		expectedOffset int
		expectedLimit  int
		expectedErr    error
	}{
		{"absent defaults to first page", "", 1, 0, 3, nil},
		{"explicit first page", "1", 1, 0, 3, nil},
		{"middle page", "2", 2, 3, 3, nil},
		{"last partial page", "3", 3, 6, 1, nil},
		{"not an integer", "abc", 0, 0, 0, ErrNotAnInteger},
		{"float is not an integer", "1.5", 0, 0, 0, ErrNotAnInteger},
		{"zero is out of range", "0", 0, 0, 0, ErrEmptyPage},
		{"negative is out of range", "-2", 0, 0, 0, ErrEmptyPage},
		{"past the end", "10", 0, 0, 0, ErrEmptyPage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page, err := p.Page(tt.raw)
			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				// The error still exposes the page count for fallbacks.
				assert.Equal(t, 3, page.TotalPages)
				return
			}
			assert.NoError(t, err)
			assert.Equal(t, tt.expectedNumber, page.Number)
			assert.Equal(t, tt.expectedOffset, page.Offset)
			assert.Equal(t, tt.expectedLimit, page.Limit)
			assert.Equal(t, 3, page.TotalPages)
		})
	}
}

func TestPageNeverExceedsPageSize(t *testing.T) {
	for count := 0; count <= 20; count++ {
		p := New(count, 4)
		for n := 1; n <= p.TotalPages(); n++ {
			page, err := p.PageNumber(n)
			assert.NoError(t, err)
			assert.LessOrEqual(t, page.Limit, 4)
			assert.GreaterOrEqual(t, page.Limit, 0)
		}
	}
}

func TestResolveFallbacks(t *testing.T) {
	p := New(7, 3)

	t.Run("non-integer falls back to first page", func(t *testing.T) {
		page := p.Resolve("abc")
		assert.Equal(t, 1, page.Number)
		assert.Equal(t, 0, page.Offset)
	})

	t.Run("out of range falls back to last page", func(t *testing.T) {
		page := p.Resolve("10")
		assert.Equal(t, 3, page.Number)
		assert.Equal(t, 6, page.Offset)
		assert.Equal(t, 1, page.Limit)
	})

	t.Run("valid page resolves as requested", func(t *testing.T) {
		page := p.Resolve("2")
		assert.Equal(t, 2, page.Number)
	})
}

func TestEmptySetSinglePage(t *testing.T) {
	p := New(0, 3)

	page, err := p.Page("")
	assert.NoError(t, err)
	assert.Equal(t, 1, page.Number)
	assert.Equal(t, 0, page.Limit)
	assert.Equal(t, 1, page.TotalPages)
	assert.False(t, page.HasNext())
	assert.False(t, page.HasPrev())
}

func TestDeterminism(t *testing.T) {
	p := New(100, 7)
	first := p.Resolve("5")
	for i := 0; i < 10; i++ {
		assert.Equal(t, first, p.Resolve("5"))
	}
}
