package service

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/sangkips/receiptflow/internal/client"
	"github.com/sangkips/receiptflow/internal/domain/entity"
	"github.com/sangkips/receiptflow/internal/domain/enum"
	"github.com/sangkips/receiptflow/internal/domain/repository"
	"github.com/sangkips/receiptflow/internal/export"
	"github.com/sangkips/receiptflow/internal/listing"
	"github.com/sangkips/receiptflow/pkg/money"
	"github.com/shopspring/decimal"
)

const bytesPerMB = 1024 * 1024

// DashboardService serves the admin stats cards and exports
type DashboardService struct {
	receiptRepo repository.ReceiptRepository
	now         func() time.Time
}

// NewDashboardService creates a new dashboard service
func NewDashboardService(receiptRepo repository.ReceiptRepository) *DashboardService {
	return &DashboardService{receiptRepo: receiptRepo, now: time.Now}
}

// WithClock replaces the clock, for tests
func (s *DashboardService) WithClock(now func() time.Time) *DashboardService {
	s.now = now
	return s
}

// Stats holds the dashboard counters
type Stats struct {
	TotalReceipts int64
	TodayReceipts int64
	EmailsSent    int64
	StorageUsedMB decimal.Decimal
}

// GetStats counts receipts; "today" is the current local calendar day
func (s *DashboardService) GetStats(ctx context.Context) (*Stats, error) {
	now := s.now()
	dayStart := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	st, err := s.receiptRepo.Stats(ctx, dayStart)
	if err != nil {
		return nil, fmt.Errorf("failed to compute stats: %w", err)
	}

	return &Stats{
		TotalReceipts: st.Total,
		TodayReceipts: st.Today,
		EmailsSent:    st.EmailsSent,
		StorageUsedMB: money.Round(decimal.NewFromInt(st.StorageBytes).Div(decimal.NewFromInt(bytesPerMB))),
	}, nil
}

// ExportInput selects what is exported
type ExportInput struct {
	Format export.Format
	Search string
	Status string
}

// Export writes the filtered receipts and returns the suggested file name
func (s *DashboardService) Export(ctx context.Context, w io.Writer, input ExportInput) (string, error) {
	if _, err := ParseStatusFilter(input.Status); err != nil {
		return "", err
	}

	receipts, err := s.receiptRepo.List(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list receipts: %w", err)
	}

	views := make([]client.Receipt, len(receipts))
	for i := range receipts {
		views[i] = ReceiptView(&receipts[i])
	}
	views = listing.Dashboard.Apply(views, listing.Query{Search: input.Search, Status: input.Status})

	if err := export.Write(w, input.Format, views); err != nil {
		return "", fmt.Errorf("failed to export receipts: %w", err)
	}
	return export.FileName(s.now(), input.Format), nil
}

// ReceiptView converts a stored receipt into the view shared with the clients
func ReceiptView(r *entity.Receipt) client.Receipt {
	items := make([]client.Item, len(r.Items))
	for i, it := range r.Items {
		items[i] = client.Item{
			ID:          strconv.FormatInt(it.ID, 10),
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   money.FromCents(it.UnitPrice),
		}
	}
	totals := r.Totals()
	return client.Receipt{
		ID:            r.ID,
		OrderID:       r.OrderID,
		ReceiptNumber: r.ReceiptNumber,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		BusinessStore: r.BusinessStore,
		PaymentMethod: enum.PaymentMethod(r.PaymentMethod),
		Items:         items,
		Subtotal:      totals.Subtotal,
		TaxPercent:    totals.TaxPercent,
		Tax:           totals.Tax,
		Discount:      totals.Discount,
		Total:         totals.Total,
		Status:        r.Status,
		PDFURL:        r.PDFURL,
		StorageID:     r.StorageID,
		CreatedAt:     r.CreatedAt,
	}
}
