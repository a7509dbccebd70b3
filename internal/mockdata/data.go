package mockdata

import (
	"fmt"
	"strings"
	"time"

	"github.com/sangkips/receiptflow/internal/client"
	"github.com/sangkips/receiptflow/internal/domain/enum"
	"github.com/shopspring/decimal"
)

// DefaultSettings is the issuer block the dashboard starts with
var DefaultSettings = client.BusinessSettings{
	Name:    "ReceiptFlow Inc.",
	Address: "123 Business Street, Suite 100",
	City:    "San Francisco, CA 94102",
	Country: "United States",
	Phone:   "+1 (555) 123-4567",
	Email:   "billing@receiptflow.com",
	LogoURL: "https://via.placeholder.com/200x60?text=ReceiptFlow",
	TaxID:   "US-123456789",
}

type seedItem struct {
	name  string
	qty   int
	price string
}

type seed struct {
	id       int64
	order    string
	name     string
	email    string
	items    []seedItem
	subtotal string
	tax      string
	discount string
	total    string
	payment  enum.PaymentMethod
	status   enum.ReceiptStatus
	created  string
	pdf      bool
	stored   bool
}

var seeds = []seed{
	{1, "ORD-2024-001", "John Smith", "john.smith@email.com",
		[]seedItem{{"Premium Widget", 2, "49.99"}, {"Basic Gadget", 1, "29.99"}},
		"129.97", "10.40", "0", "140.37", enum.PaymentCreditCard, enum.ReceiptStatusStored, "2024-01-15T10:30:00", true, true},
	{2, "ORD-2024-002", "Sarah Johnson", "sarah.j@company.com",
		[]seedItem{{"Enterprise License", 1, "299.00"}},
		"299.00", "23.92", "30.00", "292.92", enum.PaymentPayPal, enum.ReceiptStatusStored, "2024-01-15T14:22:00", true, true},
	{3, "ORD-2024-003", "Mike Chen", "mike.chen@startup.io",
		[]seedItem{{"Pro Plan Monthly", 1, "79.00"}, {"Extra Storage 50GB", 2, "9.99"}},
		"98.98", "7.92", "0", "106.90", enum.PaymentCreditCard, enum.ReceiptStatusSent, "2024-01-14T09:15:00", true, false},
	{4, "ORD-2024-004", "Emily Davis", "emily.d@gmail.com",
		[]seedItem{{"Wireless Headphones", 1, "149.99"}, {"Carrying Case", 1, "24.99"}, {"Extended Warranty", 1, "19.99"}},
		"194.97", "15.60", "20.00", "190.57", enum.PaymentBankTransfer, enum.ReceiptStatusStored, "2024-01-14T16:45:00", true, true},
	{5, "ORD-2024-005", "Alex Thompson", "alex.t@techcorp.com",
		[]seedItem{{"Developer Tools Suite", 1, "499.00"}},
		"499.00", "39.92", "50.00", "488.92", enum.PaymentCreditCard, enum.ReceiptStatusFailed, "2024-01-13T11:30:00", false, false},
	{6, "ORD-2024-006", "Lisa Wong", "lisa.wong@design.co",
		[]seedItem{{"Design Templates Pack", 1, "39.99"}, {"Icon Library", 1, "19.99"}},
		"59.98", "4.80", "0", "64.78", enum.PaymentPayPal, enum.ReceiptStatusStored, "2024-01-13T08:20:00", true, true},
	{7, "ORD-2024-007", "James Wilson", "j.wilson@enterprise.net",
		[]seedItem{{"Team License (10 seats)", 1, "899.00"}, {"Priority Support", 1, "199.00"}},
		"1098.00", "87.84", "100.00", "1085.84", enum.PaymentBankTransfer, enum.ReceiptStatusStored, "2024-01-12T15:10:00", true, true},
	{8, "ORD-2024-008", "Maria Garcia", "maria.g@freelance.com",
		[]seedItem{{"Freelancer Plan", 1, "29.00"}},
		"29.00", "2.32", "0", "31.32", enum.PaymentCreditCard, enum.ReceiptStatusSent, "2024-01-12T12:00:00", true, false},
	{9, "ORD-2024-009", "Robert Brown", "r.brown@agency.com",
		[]seedItem{{"Agency Bundle", 1, "599.00"}, {"White Label Add-on", 1, "149.00"}, {"API Access", 1, "99.00"}},
		"847.00", "67.76", "85.00", "829.76", enum.PaymentPayPal, enum.ReceiptStatusProcessing, "2024-01-15T17:30:00", false, false},
	{10, "ORD-2024-010", "Jennifer Lee", "jen.lee@startup.co",
		[]seedItem{{"Starter Kit", 1, "99.00"}, {"Onboarding Session", 2, "49.00"}},
		"197.00", "15.76", "0", "212.76", enum.PaymentCreditCard, enum.ReceiptStatusGenerated, "2024-01-15T18:45:00", false, false},
}

// DisplayID formats a numeric id as RCP-001
func DisplayID(id int64) string {
	return fmt.Sprintf("RCP-%03d", id)
}

func pdfURL(displayID string) string {
	return fmt.Sprintf("https://example.com/receipts/%s.pdf", strings.ToLower(displayID))
}

func storageID(displayID string) string {
	return "receipts/" + strings.ToLower(displayID)
}

// Receipts returns a fresh copy of the sample dataset. Timestamps are in local
// time, as the dashboard shows them.
func Receipts() []client.Receipt {
	out := make([]client.Receipt, len(seeds))
	for i, s := range seeds {
		created, err := time.ParseInLocation("2006-01-02T15:04:05", s.created, time.Local)
		if err != nil {
			panic(err)
		}

		r := client.Receipt{
			ID:            s.id,
			DisplayID:     DisplayID(s.id),
			OrderID:       s.order,
			CustomerName:  s.name,
			CustomerEmail: s.email,
			PaymentMethod: s.payment,
			Subtotal:      decimal.RequireFromString(s.subtotal),
			TaxPercent:    decimal.NewFromInt(8),
			Tax:           decimal.RequireFromString(s.tax),
			Discount:      decimal.RequireFromString(s.discount),
			Total:         decimal.RequireFromString(s.total),
			Status:        s.status,
			CreatedAt:     created,
		}
		for j, it := range s.items {
			r.Items = append(r.Items, client.Item{
				ID:          fmt.Sprint(j + 1),
				ProductName: it.name,
				Quantity:    it.qty,
				UnitPrice:   decimal.RequireFromString(it.price),
			})
		}
		if s.pdf {
			r.PDFURL = pdfURL(r.DisplayID)
		}
		if s.stored {
			r.StorageID = storageID(r.DisplayID)
		}
		out[i] = r
	}
	return out
}
