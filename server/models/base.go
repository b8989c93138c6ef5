package models

import (
	"math"
	"time"

	"gorm.io/gorm"
)

const (
	DEFAULT_PAGE_SIZE = 10
	MAX_PAGE_SIZE     = 100
)

type BaseModel struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Paging describes the slice of a collection returned by a list query,
// pre-pagination count included.
type Paging struct {
	Count      int64
	Page       int
	PageSize   int
	TotalPages int
}

func (p *Paging) HasNext() bool {
	return p.Page < p.TotalPages
}

func (p *Paging) HasPrevious() bool {
	return p.Page > 1
}

// ---------------------------------------------------------------------------------//
// Scopes
// --------------------------------------------------------------------------------//

func paginate(page, pageSize int) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		page, pageSize = normalizePaging(page, pageSize)

		offset := (page - 1) * pageSize
		return db.Offset(offset).Limit(pageSize)
	}
}

// ---------------------------------------------------------------------------------//
// Helper functions
// --------------------------------------------------------------------------------//

// normalizePaging clamps out-of-range paging params instead of rejecting them:
// page < 1 becomes 1, page_size <= 0 falls back to the default, and anything
// above MAX_PAGE_SIZE is capped.
func normalizePaging(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}

	switch {
	case pageSize > MAX_PAGE_SIZE:
		pageSize = MAX_PAGE_SIZE
	case pageSize <= 0:
		pageSize = DEFAULT_PAGE_SIZE
	}

	return page, pageSize
}

func newPaging(page, pageSize int, total int64) *Paging {
	page, pageSize = normalizePaging(page, pageSize)

	paging := &Paging{Count: total, Page: page, PageSize: pageSize}

	paging.TotalPages = int(math.Ceil(float64(total) / float64(pageSize)))
	if paging.TotalPages == 0 {
		paging.TotalPages = 1
	}

	return paging
}
