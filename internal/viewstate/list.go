package viewstate

import (
	"github.com/sangkips/receiptflow/internal/client"
	"github.com/sangkips/receiptflow/internal/listing"
	"github.com/sangkips/receiptflow/pkg/pagination"
)

// ReceiptList is the searchable, paged receipts table
type ReceiptList struct {
	Filter  listing.Filter[client.Receipt]
	All     []client.Receipt
	Query   listing.Query
	Page    int
	PerPage int
}

// NewReceiptList starts an empty table on page 1
func NewReceiptList(filter listing.Filter[client.Receipt], perPage int) ReceiptList {
	if perPage < 1 {
		perPage = pagination.DefaultPerPage
	}
	return ReceiptList{Filter: filter, Page: 1, PerPage: perPage}
}

// Load replaces the data wholesale and keeps the page within range
func (l ReceiptList) Load(receipts []client.Receipt) ReceiptList {
	l.All = append([]client.Receipt(nil), receipts...)
	l.Page = pagination.Clamp(l.Page, l.PageCount())
	return l
}

// SetSearch changes the search term and returns to page 1
func (l ReceiptList) SetSearch(search string) ReceiptList {
	l.Query.Search = search
	l.Page = 1
	return l
}

// SetStatus changes the status filter and returns to page 1
func (l ReceiptList) SetStatus(status string) ReceiptList {
	l.Query.Status = status
	l.Page = 1
	return l
}

// GoTo moves to page, clamped into [1, PageCount]
func (l ReceiptList) GoTo(page int) ReceiptList {
	l.Page = pagination.Clamp(page, l.PageCount())
	return l
}

func (l ReceiptList) Next() ReceiptList { return l.GoTo(l.Page + 1) }

func (l ReceiptList) Prev() ReceiptList { return l.GoTo(l.Page - 1) }

// Remove drops a receipt after it was deleted
func (l ReceiptList) Remove(id int64) ReceiptList {
	kept := make([]client.Receipt, 0, len(l.All))
	for _, r := range l.All {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	l.All = kept
	l.Page = pagination.Clamp(l.Page, l.PageCount())
	return l
}

// Filtered returns every receipt matching the query, e.g. for export
func (l ReceiptList) Filtered() []client.Receipt {
	return l.Filter.Apply(l.All, l.Query)
}

// PageCount is the number of pages of the filtered set
func (l ReceiptList) PageCount() int {
	return pagination.TotalPages(int64(len(l.Filtered())), l.PerPage)
}

// View returns the current page. The page is kept in range by every
// transition, so paging cannot fail here.
func (l ReceiptList) View() *listing.Page[client.Receipt] {
	page, err := l.Filter.Paginate(l.All, l.Query, l.Page, l.PerPage)
	if err != nil {
		page, _ = l.Filter.Paginate(l.All, l.Query, pagination.Clamp(l.Page, l.PageCount()), l.PerPage)
	}
	return page
}
