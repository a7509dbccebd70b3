package service

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sangkips/receiptflow/internal/domain/entity"
	"github.com/sangkips/receiptflow/internal/domain/enum"
	"github.com/sangkips/receiptflow/internal/export"
	"github.com/sangkips/receiptflow/internal/infrastructure/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedDashboard(t *testing.T) *memory.ReceiptRepository {
	t.Helper()
	now := time.Date(2026, 5, 10, 15, 0, 0, 0, time.UTC)
	created := []time.Time{now.Add(-time.Hour), now.Add(-2 * time.Hour), now.AddDate(0, 0, -3)}
	statuses := []enum.ReceiptStatus{enum.ReceiptStatusStored, enum.ReceiptStatusSent, enum.ReceiptStatusFailed}

	repo := memory.NewReceiptRepository()
	for i, orderID := range []string{"ORD-1", "ORD-2", "ORD-3"} {
		require.NoError(t, repo.Create(context.Background(), &entity.Receipt{
			OrderID:       orderID,
			CustomerName:  "Customer " + orderID,
			CustomerEmail: strings.ToLower(orderID) + "@example.com",
			PaymentMethod: "Card",
			Total:         int64(1000 * (i + 1)),
			Status:        statuses[i],
			PDFSize:       1024 * 1024 * 3 / 2,
			CreatedAt:     created[i],
		}))
	}
	return repo
}

func TestDashboardService_GetStats(t *testing.T) {
	repo := seedDashboard(t)
	svc := NewDashboardService(repo).WithClock(func() time.Time {
		return time.Date(2026, 5, 10, 18, 30, 0, 0, time.UTC)
	})

	stats, err := svc.GetStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), stats.TotalReceipts)
	assert.Equal(t, int64(2), stats.TodayReceipts)
	assert.Equal(t, int64(2), stats.EmailsSent)
	assert.Equal(t, "1.50", stats.StorageUsedMB.StringFixed(2))
}

func TestDashboardService_ExportCSV(t *testing.T) {
	repo := seedDashboard(t)
	svc := NewDashboardService(repo).WithClock(func() time.Time {
		return time.Date(2026, 5, 10, 18, 30, 0, 0, time.UTC)
	})

	var buf bytes.Buffer
	name, err := svc.Export(context.Background(), &buf, ExportInput{Format: export.FormatCSV, Status: "stored"})
	require.NoError(t, err)
	assert.Equal(t, "receipts-export-2026-05-10.csv", name)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, strings.Join(export.Header, ","), lines[0])
	assert.True(t, strings.HasPrefix(lines[1], "1,ORD-1,Customer ORD-1,ord-1@example.com,10.00,stored,"))
}

func TestDashboardService_ExportRejectsUnknownStatus(t *testing.T) {
	svc := NewDashboardService(memory.NewReceiptRepository())
	var buf bytes.Buffer
	_, err := svc.Export(context.Background(), &buf, ExportInput{Format: export.FormatCSV, Status: "lost"})
	require.Error(t, err)
	assert.Zero(t, buf.Len())
}

func TestReceiptView(t *testing.T) {
	r := &entity.Receipt{
		ID:            7,
		OrderID:       "ORD-7",
		PaymentMethod: "PayPal",
		Subtotal:      1999,
		Total:         2199,
		Status:        enum.ReceiptStatusSent,
		Items:         []entity.ReceiptItem{{ID: 3, ProductName: "Pen", Quantity: 2, UnitPrice: 999}},
	}

	view := ReceiptView(r)
	assert.Equal(t, "7", view.Identifier())
	assert.Equal(t, enum.PaymentPayPal, view.PaymentMethod)
	assert.Equal(t, "21.99", view.Total.StringFixed(2))
	require.Len(t, view.Items, 1)
	assert.Equal(t, "3", view.Items[0].ID)
	assert.Equal(t, "19.98", view.Items[0].LineTotal().StringFixed(2))
}
