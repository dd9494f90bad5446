package store

import "fmt"

// Page size bounds for offset pagination.
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// OffsetParams selects a window of an ordered result set.
type OffsetParams struct {
	Limit  int // rows per page, 1..MaxPageSize
	Offset int // rows to skip
}

// Check reports params outside 1..MaxPageSize rows or with a negative
// offset. Params are never adjusted; defaults belong to the caller.
func (p OffsetParams) Check() error {
	if p.Limit < 1 || p.Limit > MaxPageSize {
		return ErrInvalidPage.WithMessage(fmt.Sprintf("page limit must be between 1 and %d, got %d", MaxPageSize, p.Limit))
	}
	if p.Offset < 0 {
		return ErrInvalidPage.WithMessage(fmt.Sprintf("page offset must not be negative, got %d", p.Offset))
	}
	return nil
}

// OffsetPage is one page of an offset-paginated listing.
type OffsetPage[T any] struct {
	Items      []T  `json:"items"`
	Offset     int  `json:"offset"`
	Limit      int  `json:"limit"`
	NextOffset int  `json:"next_offset"`
	LastPage   bool `json:"last_page"`
}

// NewOffsetPage builds the page returned for params. A page shorter than
// the limit is the last one; NextOffset advances by the rows actually
// returned.
func NewOffsetPage[T any](items []T, params OffsetParams) *OffsetPage[T] {
	if items == nil {
		items = []T{}
	}
	return &OffsetPage[T]{
		Items:      items,
		Offset:     params.Offset,
		Limit:      params.Limit,
		NextOffset: params.Offset + len(items),
		LastPage:   len(items) < params.Limit,
	}
}
