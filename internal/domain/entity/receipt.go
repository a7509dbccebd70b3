package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/sangkips/receiptflow/internal/domain/enum"
	"github.com/sangkips/receiptflow/pkg/money"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Receipt is a receipt issued for a paid order. Amounts are stored in cents.
type Receipt struct {
	ID            int64              `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID       string             `gorm:"size:100;not null;uniqueIndex" json:"order_id"`
	ReceiptNumber string             `gorm:"size:50;not null;uniqueIndex" json:"receipt_number"`
	CustomerName  string             `gorm:"size:200;not null" json:"customer_name"`
	CustomerEmail string             `gorm:"size:255;not null;index" json:"customer_email"`
	BusinessStore string             `gorm:"size:200" json:"business_store"`
	PaymentMethod string             `gorm:"size:50;not null" json:"payment_method"`
	Subtotal      int64              `gorm:"not null;default:0" json:"subtotal"`
	TaxPercent    decimal.Decimal    `gorm:"type:numeric(5,2);not null;default:0" json:"tax_percentage"`
	Tax           int64              `gorm:"not null;default:0" json:"tax"`
	Discount      int64              `gorm:"not null;default:0" json:"discount"`
	Total         int64              `gorm:"not null;default:0" json:"total"`
	Status        enum.ReceiptStatus `gorm:"not null;default:0;index" json:"status"`
	PDFURL        string             `gorm:"column:pdf_url;size:500" json:"pdf_url"`
	StorageID     string             `gorm:"size:255" json:"storage_id"`
	PDFSize       int64              `gorm:"column:pdf_size;not null;default:0" json:"-"`
	FailureReason string             `gorm:"size:500" json:"failure_reason,omitempty"`
	CreatedAt     time.Time          `json:"created_at"`
	UpdatedAt     time.Time          `json:"updated_at"`

	Items []ReceiptItem `gorm:"foreignKey:ReceiptID;constraint:OnDelete:CASCADE" json:"items"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (r Receipt) MarshalJSON() ([]byte, error) {
	type Alias Receipt
	return json.Marshal(&struct {
		Alias
		Subtotal   float64 `json:"subtotal"`
		TaxPercent float64 `json:"tax_percentage"`
		Tax        float64 `json:"tax"`
		Discount   float64 `json:"discount"`
		Total      float64 `json:"total"`
	}{
		Alias:      Alias(r),
		Subtotal:   float64(r.Subtotal) / 100,
		TaxPercent: r.TaxPercent.InexactFloat64(),
		Tax:        float64(r.Tax) / 100,
		Discount:   float64(r.Discount) / 100,
		Total:      float64(r.Total) / 100,
	})
}

// BeforeCreate assigns a receipt number when none was set
func (r *Receipt) BeforeCreate(tx *gorm.DB) error {
	if r.ReceiptNumber == "" {
		r.ReceiptNumber = NewReceiptNumber()
	}
	return nil
}

// TableName returns the table name for the Receipt model
func (Receipt) TableName() string {
	return "receipts"
}

// NewReceiptNumber returns a fresh receipt number
func NewReceiptNumber() string {
	return uuid.New().String()
}

// Totals returns the stored amounts as decimals
func (r *Receipt) Totals() money.Totals {
	return money.Totals{
		Subtotal:   money.FromCents(r.Subtotal),
		TaxPercent: r.TaxPercent,
		Tax:        money.FromCents(r.Tax),
		Discount:   money.FromCents(r.Discount),
		Total:      money.FromCents(r.Total),
	}
}

// SetTotals stores computed amounts as cents
func (r *Receipt) SetTotals(t money.Totals) {
	r.Subtotal = money.ToCents(t.Subtotal)
	r.TaxPercent = t.TaxPercent
	r.Tax = money.ToCents(t.Tax)
	r.Discount = money.ToCents(t.Discount)
	r.Total = money.ToCents(t.Total)
}

// ReceiptItem is one purchased line of a receipt
type ReceiptItem struct {
	ID          int64  `gorm:"primaryKey;autoIncrement" json:"id"`
	ReceiptID   int64  `gorm:"not null;index" json:"-"`
	Position    int    `gorm:"not null;default:0" json:"-"`
	ProductName string `gorm:"size:200;not null" json:"product_name"`
	Quantity    int    `gorm:"not null" json:"quantity"`
	UnitPrice   int64  `gorm:"not null" json:"unit_price"`
	Total       int64  `gorm:"not null" json:"total"`
}

// MarshalJSON custom marshaler to convert cents to decimal for API responses
func (i ReceiptItem) MarshalJSON() ([]byte, error) {
	type Alias ReceiptItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		Total     float64 `json:"total"`
	}{
		Alias:     Alias(i),
		UnitPrice: float64(i.UnitPrice) / 100,
		Total:     float64(i.Total) / 100,
	})
}

// TableName returns the table name for the ReceiptItem model
func (ReceiptItem) TableName() string {
	return "receipt_items"
}

// Lines converts the items for the calculator
func (r *Receipt) Lines() []money.Line {
	lines := make([]money.Line, len(r.Items))
	for i, it := range r.Items {
		lines[i] = money.Line{Quantity: it.Quantity, UnitPrice: money.FromCents(it.UnitPrice)}
	}
	return lines
}
