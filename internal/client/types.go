package client

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/sangkips/receiptflow/internal/domain/enum"
	"github.com/sangkips/receiptflow/internal/validation"
	"github.com/shopspring/decimal"
)

// Item is one line of a receipt
type Item struct {
	ID          string
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// LineTotal is quantity x unit price
func (i Item) LineTotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Receipt is the canonical receipt view used by every front end, whatever
// source produced it.
type Receipt struct {
	ID            int64
	DisplayID     string
	OrderID       string
	ReceiptNumber string
	CustomerName  string
	CustomerEmail string
	BusinessStore string
	PaymentMethod enum.PaymentMethod
	Items         []Item
	Subtotal      decimal.Decimal
	TaxPercent    decimal.Decimal
	Tax           decimal.Decimal
	Discount      decimal.Decimal
	Total         decimal.Decimal
	Status        enum.ReceiptStatus
	PDFURL        string
	StorageID     string
	CreatedAt     time.Time
}

// Identifier is the id shown to users: RCP-001 style when present, else numeric
func (r Receipt) Identifier() string {
	if r.DisplayID != "" {
		return r.DisplayID
	}
	return strconv.FormatInt(r.ID, 10)
}

// CreatedReceipt is the result of a create call
type CreatedReceipt struct {
	ID            int64
	OrderID       string
	ReceiptNumber string
	PDFURL        string
}

// CreateItem is one item of a create request
type CreateItem struct {
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// CreateRequest is a validated order submitted for a receipt
type CreateRequest struct {
	OrderID       string
	CustomerName  string
	CustomerEmail string
	BusinessStore string
	PaymentMethod enum.PaymentMethod
	Items         []CreateItem
	TaxPercent    decimal.Decimal
	Discount      decimal.Decimal
}

// NewCreateRequest builds a request from a validated payload
func NewCreateRequest(p *validation.Payload) CreateRequest {
	items := make([]CreateItem, len(p.Items))
	for i, it := range p.Items {
		items[i] = CreateItem{ProductName: it.ProductName, Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	return CreateRequest{
		OrderID:       p.OrderID,
		CustomerName:  p.CustomerName,
		CustomerEmail: p.CustomerEmail,
		BusinessStore: p.BusinessStore,
		PaymentMethod: p.PaymentMethod,
		Items:         items,
		TaxPercent:    p.TaxPercent,
		Discount:      p.Discount,
	}
}

// Stats aggregates the receipt collection for the dashboard
type Stats struct {
	TotalReceipts int             `json:"total_receipts"`
	TodayReceipts int             `json:"today_receipts"`
	EmailsSent    int             `json:"emails_sent"`
	StorageUsedMB decimal.Decimal `json:"storage_used_mb"`
}

// StorageUsed renders the storage estimate with two decimals, e.g. "2.70"
func (s Stats) StorageUsed() string {
	return s.StorageUsedMB.StringFixed(2)
}

// BusinessSettings is the issuer block printed on receipts
type BusinessSettings struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
	LogoURL string `json:"logo_url"`
	TaxID   string `json:"tax_id"`
}

// Wire shapes. The create response capitalises Pdf_Url while the receipt
// listing uses pdf_url; both are decoded as-is and normalised right away.

type createItemWire struct {
	ProductName string      `json:"product_name"`
	Quantity    int         `json:"quantity"`
	UnitPrice   json.Number `json:"unit_price"`
}

type createRequestWire struct {
	OrderID       string           `json:"order_id"`
	CustomerName  string           `json:"customer_name"`
	CustomerEmail string           `json:"customer_email"`
	BusinessStore string           `json:"business_store"`
	PaymentMethod string           `json:"payment_method"`
	Items         []createItemWire `json:"items"`
	TaxPercentage json.Number      `json:"tax_percentage,omitempty"`
	Discount      json.Number      `json:"discount,omitempty"`
}

type createResponseWire struct {
	ID            int64  `json:"id"`
	OrderID       string `json:"order_id"`
	ReceiptNumber string `json:"receipt_number"`
	PdfURL        string `json:"Pdf_Url"`
}

type receiptItemWire struct {
	ID          json.Number `json:"id"`
	ProductName string      `json:"product_name"`
	Quantity    int         `json:"quantity"`
	UnitPrice   json.Number `json:"unit_price"`
}

type receiptWire struct {
	ID            int64               `json:"id"`
	OrderID       string              `json:"order_id"`
	ReceiptNumber string              `json:"receipt_number"`
	CustomerName  string              `json:"customer_name"`
	CustomerEmail string              `json:"customer_email"`
	BusinessStore string              `json:"business_store"`
	PaymentMethod string              `json:"payment_method"`
	Subtotal      json.Number         `json:"subtotal"`
	TaxPercentage json.Number         `json:"tax_percentage"`
	Tax           json.Number         `json:"tax"`
	Discount      json.Number         `json:"discount"`
	Total         json.Number         `json:"total"`
	Status        *enum.ReceiptStatus `json:"status"`
	PdfURL        string              `json:"pdf_url"`
	StorageID     string              `json:"storage_id"`
	CreatedAt     string              `json:"created_at"`
	Items         []receiptItemWire   `json:"items"`
}

// encodeCreateRequest builds the webhook body. Tax and discount are only sent to
// the admin endpoint; the webhook always applies the server's configured rate.
func encodeCreateRequest(r CreateRequest, adjustments bool) createRequestWire {
	items := make([]createItemWire, len(r.Items))
	for i, it := range r.Items {
		items[i] = createItemWire{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   json.Number(it.UnitPrice.String()),
		}
	}
	w := createRequestWire{
		OrderID:       r.OrderID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		BusinessStore: r.BusinessStore,
		PaymentMethod: string(r.PaymentMethod),
		Items:         items,
	}
	if adjustments {
		w.TaxPercentage = json.Number(r.TaxPercent.String())
		w.Discount = json.Number(r.Discount.String())
	}
	return w
}

func (w createResponseWire) normalize() *CreatedReceipt {
	return &CreatedReceipt{
		ID:            w.ID,
		OrderID:       w.OrderID,
		ReceiptNumber: w.ReceiptNumber,
		PDFURL:        w.PdfURL,
	}
}

func (w receiptWire) normalize() (Receipt, error) {
	r := Receipt{
		ID:            w.ID,
		OrderID:       w.OrderID,
		ReceiptNumber: w.ReceiptNumber,
		CustomerName:  w.CustomerName,
		CustomerEmail: w.CustomerEmail,
		BusinessStore: w.BusinessStore,
		PaymentMethod: enum.PaymentMethod(w.PaymentMethod),
		PDFURL:        w.PdfURL,
		StorageID:     w.StorageID,
	}

	var err error
	amounts := []struct {
		dst *decimal.Decimal
		src json.Number
	}{
		{&r.Subtotal, w.Subtotal},
		{&r.TaxPercent, w.TaxPercentage},
		{&r.Tax, w.Tax},
		{&r.Discount, w.Discount},
		{&r.Total, w.Total},
	}
	for _, a := range amounts {
		if *a.dst, err = parseNumber(a.src); err != nil {
			return Receipt{}, fmt.Errorf("receipt %d: %w", w.ID, err)
		}
	}

	switch {
	case w.Status != nil:
		r.Status = *w.Status
	case w.PdfURL != "":
		r.Status = enum.ReceiptStatusStored
	default:
		r.Status = enum.ReceiptStatusProcessing
	}

	if w.CreatedAt != "" {
		if r.CreatedAt, err = parseTimestamp(w.CreatedAt); err != nil {
			return Receipt{}, fmt.Errorf("receipt %d: %w", w.ID, err)
		}
	}

	r.Items = make([]Item, len(w.Items))
	for i, it := range w.Items {
		price, err := parseNumber(it.UnitPrice)
		if err != nil {
			return Receipt{}, fmt.Errorf("receipt %d item %d: %w", w.ID, i, err)
		}
		r.Items[i] = Item{ID: it.ID.String(), ProductName: it.ProductName, Quantity: it.Quantity, UnitPrice: price}
	}
	return r, nil
}

func parseNumber(n json.Number) (decimal.Decimal, error) {
	if n == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(n.String())
}

var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999",
}

// parseTimestamp accepts RFC 3339 and the zone-less ISO form some backends emit
func parseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognised timestamp %q", s)
}
