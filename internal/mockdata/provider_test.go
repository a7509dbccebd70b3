package mockdata

import (
	"context"
	"testing"
	"time"

	"github.com/sangkips/receiptflow/internal/client"
	"github.com/sangkips/receiptflow/internal/domain/enum"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func order(id string) client.CreateRequest {
	return client.CreateRequest{
		OrderID:       id,
		CustomerName:  "A",
		CustomerEmail: "a@b.com",
		BusinessStore: "S",
		PaymentMethod: enum.PaymentCreditCard,
		Items:         []client.CreateItem{{ProductName: "X", Quantity: 2, UnitPrice: decimal.NewFromInt(50)}},
		TaxPercent:    decimal.NewFromInt(8),
		Discount:      decimal.NewFromInt(5),
	}
}

func TestReceipts_AmountsAreConsistent(t *testing.T) {
	receipts := Receipts()
	require.Len(t, receipts, 10)
	assert.Equal(t, "RCP-001", receipts[0].DisplayID)
	assert.Equal(t, "RCP-010", receipts[9].DisplayID)

	for _, r := range receipts {
		sum := decimal.Zero
		for _, it := range r.Items {
			sum = sum.Add(it.LineTotal())
		}
		assert.True(t, sum.Equal(r.Subtotal), r.DisplayID)
		assert.True(t, r.Subtotal.Add(r.Tax).Sub(r.Discount).Equal(r.Total), r.DisplayID)
	}
}

func TestComputeStats(t *testing.T) {
	now := time.Date(2024, 1, 15, 12, 0, 0, 0, time.Local)
	stats := ComputeStats(Receipts(), now)

	assert.Equal(t, 10, stats.TotalReceipts)
	assert.Equal(t, 4, stats.TodayReceipts)
	assert.Equal(t, 7, stats.EmailsSent)
	assert.Equal(t, "2.25", stats.StorageUsed())
}

func TestProvider_StatsUsesClock(t *testing.T) {
	p := New(WithoutLatency(), WithClock(func() time.Time {
		return time.Date(2024, 1, 14, 23, 59, 0, 0, time.Local)
	}))

	stats, err := p.Stats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.TodayReceipts)
}

func TestProvider_LatencyHonoursCancellation(t *testing.T) {
	p := New()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := p.ListReceipts(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), DefaultDelays.Fetch)
}

func TestProvider_LatencyIsApplied(t *testing.T) {
	p := New(WithDelays(Delays{Fetch: 30 * time.Millisecond}), WithJitter(10*time.Millisecond))

	start := time.Now()
	receipts, err := p.ListReceipts(context.Background())
	require.NoError(t, err)
	assert.Len(t, receipts, 10)
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}

func TestProvider_GenerateWalksWorkflow(t *testing.T) {
	created := time.Date(2024, 2, 1, 9, 0, 0, 0, time.UTC)
	p := New(WithoutLatency(), WithClock(func() time.Time { return created }))

	var seen []enum.ReceiptStatus
	r, err := p.GenerateReceipt(context.Background(), order("ORD-2024-011"), func(s enum.ReceiptStatus) {
		seen = append(seen, s)
	})
	require.NoError(t, err)

	assert.Equal(t, []enum.ReceiptStatus{
		enum.ReceiptStatusProcessing,
		enum.ReceiptStatusGenerated,
		enum.ReceiptStatusSent,
		enum.ReceiptStatusStored,
	}, seen)
	assert.Equal(t, int64(11), r.ID)
	assert.Equal(t, "RCP-011", r.DisplayID)
	assert.Equal(t, "https://example.com/receipts/rcp-011.pdf", r.PDFURL)
	assert.Equal(t, "receipts/rcp-011", r.StorageID)
	assert.Equal(t, "103.00", r.Total.StringFixed(2))
	assert.Equal(t, created, r.CreatedAt)
	assert.NotEmpty(t, r.ReceiptNumber)

	all, err := p.ListReceipts(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "RCP-011", all[0].DisplayID)
	assert.Len(t, all, 11)
}

func TestProvider_DuplicateOrderID(t *testing.T) {
	p := New(WithoutLatency())

	_, err := p.GenerateReceipt(context.Background(), order("ORD-2024-001"), nil)
	require.Error(t, err)
	assert.True(t, client.IsKind(err, client.KindDuplicateOrderID))
	assert.Equal(t, client.MsgDuplicateOrderID, err.Error())
}

func TestProvider_FailedOrderIsReprocessed(t *testing.T) {
	p := New(WithoutLatency())

	r, err := p.GenerateReceipt(context.Background(), order("ORD-2024-005"), nil)
	require.NoError(t, err)
	assert.Equal(t, int64(5), r.ID)
	assert.Equal(t, enum.ReceiptStatusStored, r.Status)

	all, err := p.ListReceipts(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 10)
}

func TestProvider_CancelMarksFailed(t *testing.T) {
	p := New(WithoutLatency())
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var last enum.ReceiptStatus
	_, err := p.GenerateReceipt(ctx, order("ORD-2024-012"), func(s enum.ReceiptStatus) {
		last = s
		if s == enum.ReceiptStatusProcessing {
			cancel()
		}
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, enum.ReceiptStatusFailed, last)

	r, err := p.GetReceipt(context.Background(), 11)
	require.NoError(t, err)
	assert.Equal(t, enum.ReceiptStatusFailed, r.Status)
	assert.Empty(t, r.PDFURL)
}

func TestProvider_CreateReceiptUsesStorefrontRate(t *testing.T) {
	p := New(WithoutLatency())

	req := order("ORD-1")
	req.PaymentMethod = enum.PaymentCard
	created, err := p.CreateReceipt(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "ORD-1", created.OrderID)
	assert.NotEmpty(t, created.PDFURL)

	r, err := p.GetReceipt(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, "100.00", r.Subtotal.StringFixed(2))
	assert.Equal(t, "10.00", r.Tax.StringFixed(2))
	assert.Equal(t, "110.00", r.Total.StringFixed(2))
}

func TestProvider_InvalidAmounts(t *testing.T) {
	p := New(WithoutLatency())

	req := order("ORD-2024-013")
	req.Discount = decimal.NewFromInt(1000)
	_, err := p.GenerateReceipt(context.Background(), req, nil)
	assert.True(t, client.IsKind(err, client.KindValidation))
}

func TestProvider_DeleteAndGet(t *testing.T) {
	p := New(WithoutLatency())
	ctx := context.Background()

	require.NoError(t, p.DeleteReceipt(ctx, 3))
	_, err := p.GetReceipt(ctx, 3)
	assert.True(t, client.IsKind(err, client.KindNotFound))

	err = p.DeleteReceipt(ctx, 3)
	assert.True(t, client.IsKind(err, client.KindNotFound))

	all, err := p.ListReceipts(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 9)
}

func TestProvider_ResendEmail(t *testing.T) {
	p := New(WithoutLatency())
	ctx := context.Background()

	err := p.ResendEmail(ctx, 5)
	assert.True(t, client.IsKind(err, client.KindValidation))

	require.NoError(t, p.ResendEmail(ctx, 1))

	// RCP-010 is generated without a PDF in the dataset
	err = p.ResendEmail(ctx, 10)
	assert.Error(t, err)
}

func TestProvider_Settings(t *testing.T) {
	p := New(WithoutLatency())
	ctx := context.Background()

	s, err := p.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings, *s)

	s.Name = "Acme"
	_, err = p.UpdateSettings(ctx, *s)
	require.NoError(t, err)

	got, err := p.Settings(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Acme", got.Name)

	err = p.SendTestEmail(ctx, "  ")
	assert.Equal(t, "Validation error: Please enter an email address", err.Error())
	assert.NoError(t, p.SendTestEmail(ctx, "ops@receiptflow.com"))
}
