// Package listing filters and pages receipt collections held in memory.
package listing

import (
	"strings"

	"github.com/sangkips/receiptflow/internal/client"
	"github.com/sangkips/receiptflow/internal/domain/enum"
	"github.com/sangkips/receiptflow/pkg/pagination"
)

// Query is a search term plus an optional status. An empty Status or
// enum.StatusAll matches every status.
type Query struct {
	Search string
	Status string
}

// Filter describes which fields of T are searched and how its status is read.
// A nil Status makes the status part of a Query ignored.
type Filter[T any] struct {
	Fields func(T) []string
	Status func(T) enum.ReceiptStatus
}

// Match reports whether item satisfies q. The search is a case-insensitive
// substring test against any field; a blank search matches everything.
func (f Filter[T]) Match(item T, q Query) bool {
	return f.matchStatus(item, q.Status) && f.matchSearch(item, q.Search)
}

func (f Filter[T]) matchSearch(item T, search string) bool {
	needle := strings.ToLower(strings.TrimSpace(search))
	if needle == "" {
		return true
	}
	for _, field := range f.Fields(item) {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func (f Filter[T]) matchStatus(item T, status string) bool {
	status = strings.ToLower(strings.TrimSpace(status))
	if f.Status == nil || status == "" || status == enum.StatusAll {
		return true
	}
	return f.Status(item).String() == status
}

// Apply returns the matching items in their original order
func (f Filter[T]) Apply(items []T, q Query) []T {
	out := make([]T, 0, len(items))
	for _, item := range items {
		if f.Match(item, q) {
			out = append(out, item)
		}
	}
	return out
}

// Page is one page of a filtered collection
type Page[T any] struct {
	Items      []T
	Total      int
	Filtered   int
	Pagination *pagination.Pagination
}

// Paginate filters items and returns the requested 1-based page. Pages outside
// [1, page count] fail with pagination.ErrPageOutOfRange; page 1 of an empty
// result is an empty page.
func (f Filter[T]) Paginate(items []T, q Query, page, perPage int) (*Page[T], error) {
	filtered := f.Apply(items, q)

	result, err := pagination.Paginate(filtered, pagination.PaginationParams{Page: page, PerPage: perPage})
	if err != nil {
		return nil, err
	}

	return &Page[T]{
		Items:      result.Items,
		Total:      len(items),
		Filtered:   len(filtered),
		Pagination: result.Pagination,
	}, nil
}

// Dashboard searches receipt id, order id, customer name and email, and honours
// the status filter.
var Dashboard = Filter[client.Receipt]{
	Fields: func(r client.Receipt) []string {
		return []string{r.Identifier(), r.OrderID, r.CustomerName, r.CustomerEmail}
	},
	Status: func(r client.Receipt) enum.ReceiptStatus { return r.Status },
}

// Storefront searches order id, customer name and email only
var Storefront = Filter[client.Receipt]{
	Fields: func(r client.Receipt) []string {
		return []string{r.OrderID, r.CustomerName, r.CustomerEmail}
	},
}
