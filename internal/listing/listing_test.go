package listing

import (
	"fmt"
	"testing"

	"github.com/sangkips/receiptflow/internal/client"
	"github.com/sangkips/receiptflow/internal/domain/enum"
	"github.com/sangkips/receiptflow/internal/mockdata"
	"github.com/sangkips/receiptflow/pkg/pagination"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func orderIDs(receipts []client.Receipt) []string {
	ids := make([]string, len(receipts))
	for i, r := range receipts {
		ids[i] = r.OrderID
	}
	return ids
}

func TestDashboard_SearchByOrderID(t *testing.T) {
	got := Dashboard.Apply(mockdata.Receipts(), Query{Search: "ord-2024-003"})
	assert.Equal(t, []string{"ORD-2024-003"}, orderIDs(got))

	got = Dashboard.Apply(mockdata.Receipts(), Query{Search: "ORD-2024-003"})
	assert.Equal(t, []string{"ORD-2024-003"}, orderIDs(got))
}

func TestDashboard_SearchFields(t *testing.T) {
	receipts := mockdata.Receipts()

	assert.Equal(t, []string{"ORD-2024-007"}, orderIDs(Dashboard.Apply(receipts, Query{Search: "rcp-007"})))
	assert.Equal(t, []string{"ORD-2024-004"}, orderIDs(Dashboard.Apply(receipts, Query{Search: "EMILY"})))
	assert.Equal(t, []string{"ORD-2024-003", "ORD-2024-010"}, orderIDs(Dashboard.Apply(receipts, Query{Search: "startup"})))
	assert.Len(t, Dashboard.Apply(receipts, Query{Search: "   "}), 10)
	assert.Empty(t, Dashboard.Apply(receipts, Query{Search: "nobody"}))
}

func TestDashboard_StatusFilter(t *testing.T) {
	receipts := mockdata.Receipts()

	stored := Dashboard.Apply(receipts, Query{Status: "stored"})
	assert.Equal(t, []string{"ORD-2024-001", "ORD-2024-002", "ORD-2024-004", "ORD-2024-006", "ORD-2024-007"}, orderIDs(stored))
	for _, r := range stored {
		assert.Equal(t, enum.ReceiptStatusStored, r.Status)
	}

	assert.Len(t, Dashboard.Apply(receipts, Query{Status: enum.StatusAll}), 10)
	assert.Equal(t, []string{"ORD-2024-002"}, orderIDs(Dashboard.Apply(receipts, Query{Search: "sarah", Status: "stored"})))
	assert.Empty(t, Dashboard.Apply(receipts, Query{Search: "sarah", Status: "failed"}))
}

func TestStorefront_IgnoresIDAndStatus(t *testing.T) {
	receipts := mockdata.Receipts()

	assert.Empty(t, Storefront.Apply(receipts, Query{Search: "RCP-001"}))
	assert.Len(t, Storefront.Apply(receipts, Query{Status: "failed"}), 10)
}

func numbered(n int) []client.Receipt {
	out := make([]client.Receipt, n)
	for i := range out {
		out[i] = client.Receipt{ID: int64(i + 1), OrderID: fmt.Sprintf("ORD-%02d", i+1)}
	}
	return out
}

func TestPaginate_BoundaryPolicy(t *testing.T) {
	items := numbered(23)

	p1, err := Dashboard.Paginate(items, Query{}, 1, pagination.DefaultPerPage)
	require.NoError(t, err)
	assert.Len(t, p1.Items, 10)
	assert.Equal(t, 23, p1.Filtered)
	assert.Equal(t, 3, p1.Pagination.TotalPages)
	assert.Equal(t, "ORD-01", p1.Items[0].OrderID)

	p3, err := Dashboard.Paginate(items, Query{}, 3, pagination.DefaultPerPage)
	require.NoError(t, err)
	assert.Len(t, p3.Items, 3)
	assert.Equal(t, 21, p3.Pagination.From)
	assert.Equal(t, 23, p3.Pagination.To)
	assert.False(t, p3.Pagination.HasNext)

	for _, page := range []int{0, 4, -1} {
		_, err := Dashboard.Paginate(items, Query{}, page, pagination.DefaultPerPage)
		assert.ErrorIs(t, err, pagination.ErrPageOutOfRange, "page %d", page)
	}
}

func TestPaginate_CountsAfterFilter(t *testing.T) {
	page, err := Dashboard.Paginate(mockdata.Receipts(), Query{Status: "sent"}, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 10, page.Total)
	assert.Equal(t, 2, page.Filtered)
	assert.Len(t, page.Items, 2)

	empty, err := Dashboard.Paginate(mockdata.Receipts(), Query{Search: "nobody"}, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, empty.Items)
	assert.Equal(t, 0, empty.Pagination.TotalPages)

	_, err = Dashboard.Paginate(mockdata.Receipts(), Query{Search: "nobody"}, 2, 10)
	assert.ErrorIs(t, err, pagination.ErrPageOutOfRange)
}
