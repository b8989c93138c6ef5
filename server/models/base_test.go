package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePaging(t *testing.T) {
	page, pageSize := normalizePaging(0, 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, DEFAULT_PAGE_SIZE, pageSize)

	page, pageSize = normalizePaging(-3, 500)
	assert.Equal(t, 1, page)
	assert.Equal(t, MAX_PAGE_SIZE, pageSize, "page_size above the cap should be clamped")

	page, pageSize = normalizePaging(7, 25)
	assert.Equal(t, 7, page)
	assert.Equal(t, 25, pageSize)
}

func TestNewPaging(t *testing.T) {
	paging := newPaging(1, 10, 25)
	assert.Equal(t, int64(25), paging.Count)
	assert.Equal(t, 3, paging.TotalPages, "25 records at page_size=10 should span 3 pages")
	assert.True(t, paging.HasNext())
	assert.False(t, paging.HasPrevious())

	paging = newPaging(4, 10, 25)
	assert.False(t, paging.HasNext(), "a page past the end has no next link")
	assert.True(t, paging.HasPrevious())

	paging = newPaging(1, 10, 0)
	assert.Equal(t, 1, paging.TotalPages, "an empty collection still has one page")
}
