package response

import (
	"github.com/sangkips/receiptflow/internal/application/service"
	"github.com/sangkips/receiptflow/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// CreatedReceiptResponse is returned by the payment-success webhook.
// The PDF key is capitalised as storefront clients expect.
type CreatedReceiptResponse struct {
	ID            int64  `json:"id"`
	OrderID       string `json:"order_id"`
	ReceiptNumber string `json:"receipt_number"`
	PdfURL        string `json:"Pdf_Url"`
}

// NewCreatedReceiptResponse converts a stored receipt
func NewCreatedReceiptResponse(r *entity.Receipt) CreatedReceiptResponse {
	return CreatedReceiptResponse{
		ID:            r.ID,
		OrderID:       r.OrderID,
		ReceiptNumber: r.ReceiptNumber,
		PdfURL:        r.PDFURL,
	}
}

// LoginResponse carries the admin access token
type LoginResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	ExpiresIn   int64  `json:"expires_in"`
	Email       string `json:"email"`
}

// NewLoginResponse converts the login output; ExpiresIn is in seconds
func NewLoginResponse(out *service.LoginOutput) LoginResponse {
	return LoginResponse{
		AccessToken: out.AccessToken,
		TokenType:   "Bearer",
		ExpiresIn:   int64(out.ExpiresIn.Seconds()),
		Email:       out.Email,
	}
}

// StatsResponse holds the dashboard cards
type StatsResponse struct {
	TotalReceipts int64           `json:"total_receipts"`
	TodayReceipts int64           `json:"today_receipts"`
	EmailsSent    int64           `json:"emails_sent"`
	StorageUsedMB decimal.Decimal `json:"storage_used_mb"`
}

// NewStatsResponse converts the dashboard stats
func NewStatsResponse(s *service.Stats) StatsResponse {
	return StatsResponse{
		TotalReceipts: s.TotalReceipts,
		TodayReceipts: s.TodayReceipts,
		EmailsSent:    s.EmailsSent,
		StorageUsedMB: s.StorageUsedMB,
	}
}
