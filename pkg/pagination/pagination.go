package pagination

import (
	"errors"
	"fmt"
)

const (
	// DefaultPerPage is the page size of the receipts table
	DefaultPerPage = 10
	// MaxPerPage caps page sizes requested over the API
	MaxPerPage = 100
)

// ErrPageOutOfRange is returned when a page outside [1, TotalPages] is requested
var ErrPageOutOfRange = errors.New("page out of range")

// Pagination represents pagination parameters
type Pagination struct {
	CurrentPage int   `json:"current_page"`
	PerPage     int   `json:"per_page"`
	Total       int64 `json:"total"`
	TotalPages  int   `json:"total_pages"`
	HasNext     bool  `json:"has_next"`
	HasPrev     bool  `json:"has_prev"`
	From        int   `json:"from"`
	To          int   `json:"to"`
}

// PaginationParams represents input parameters for pagination
type PaginationParams struct {
	Page    int `form:"page" json:"page"`
	PerPage int `form:"per_page" json:"per_page"`
}

// DefaultPagination returns default pagination values
func DefaultPagination() *PaginationParams {
	return &PaginationParams{
		Page:    1,
		PerPage: DefaultPerPage,
	}
}

// Validate ensures the page size is within valid ranges.
// The page itself is left alone; Paginate decides whether it exists.
func (p *PaginationParams) Validate() {
	if p.PerPage < 1 {
		p.PerPage = DefaultPerPage
	}
	if p.PerPage > MaxPerPage {
		p.PerPage = MaxPerPage
	}
}

// Offset calculates the offset of the first item of the page
func (p *PaginationParams) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// CheckRange returns ErrPageOutOfRange unless p.Page exists for total items.
// Page 1 of an empty collection is valid.
func (p *PaginationParams) CheckRange(total int64) error {
	totalPages := TotalPages(total, p.PerPage)
	if p.Page < 1 || (p.Page > totalPages && !(totalPages == 0 && p.Page == 1)) {
		return fmt.Errorf("%w: page %d of %d", ErrPageOutOfRange, p.Page, totalPages)
	}
	return nil
}

// TotalPages returns ceil(total / perPage)
func TotalPages(total int64, perPage int) int {
	if perPage < 1 || total <= 0 {
		return 0
	}
	return int((total + int64(perPage) - 1) / int64(perPage))
}

// Clamp moves page into [1, totalPages]. With no pages, page 1 is returned.
func Clamp(page, totalPages int) int {
	if page > totalPages {
		page = totalPages
	}
	if page < 1 {
		page = 1
	}
	return page
}

// NewPagination creates a new Pagination response
func NewPagination(page, perPage int, total int64) *Pagination {
	totalPages := TotalPages(total, perPage)

	p := &Pagination{
		CurrentPage: page,
		PerPage:     perPage,
		Total:       total,
		TotalPages:  totalPages,
		HasNext:     page < totalPages,
		HasPrev:     page > 1,
	}

	if total > 0 {
		p.From = (page-1)*perPage + 1
		p.To = min(page*perPage, int(total))
	}

	return p
}

// PaginatedResult represents a paginated result with items and pagination info
type PaginatedResult[T any] struct {
	Items      []T         `json:"items"`
	Pagination *Pagination `json:"pagination"`
}

// NewPaginatedResult creates a new paginated result
func NewPaginatedResult[T any](items []T, pagination *Pagination) *PaginatedResult[T] {
	return &PaginatedResult[T]{
		Items:      items,
		Pagination: pagination,
	}
}

// Paginate slices an in-memory collection. Pages are 1-based; a page outside
// [1, TotalPages] returns ErrPageOutOfRange, except that page 1 of an empty
// collection is valid and empty.
func Paginate[T any](items []T, params PaginationParams) (*PaginatedResult[T], error) {
	params.Validate()

	total := int64(len(items))
	if err := params.CheckRange(total); err != nil {
		return nil, err
	}

	start := params.Offset()
	end := min(start+params.PerPage, len(items))

	page := make([]T, 0, end-start)
	page = append(page, items[start:end]...)

	return NewPaginatedResult(page, NewPagination(params.Page, params.PerPage, total)), nil
}
