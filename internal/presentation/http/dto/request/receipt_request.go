package request

import (
	"encoding/json"

	"github.com/sangkips/receiptflow/internal/validation"
)

// ReceiptItemRequest is one purchased line. Numbers may arrive as JSON numbers
// or numeric strings.
type ReceiptItemRequest struct {
	ProductName string      `json:"product_name"`
	Quantity    json.Number `json:"quantity"`
	UnitPrice   json.Number `json:"unit_price"`
}

// PaymentSuccessRequest is the body of the payment-success webhook
type PaymentSuccessRequest struct {
	OrderID       string               `json:"order_id"`
	CustomerName  string               `json:"customer_name"`
	CustomerEmail string               `json:"customer_email"`
	BusinessStore string               `json:"business_store"`
	PaymentMethod string               `json:"payment_method"`
	Items         []ReceiptItemRequest `json:"items"`
}

// ToForm converts the body into raw form values for validation
func (r *PaymentSuccessRequest) ToForm() validation.Form {
	items := make([]validation.ItemForm, len(r.Items))
	for i, it := range r.Items {
		items[i] = validation.ItemForm{
			ProductName: it.ProductName,
			Quantity:    it.Quantity.String(),
			UnitPrice:   it.UnitPrice.String(),
		}
	}
	return validation.Form{
		OrderID:       r.OrderID,
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		BusinessStore: r.BusinessStore,
		PaymentMethod: r.PaymentMethod,
		Items:         items,
	}
}

// GenerateReceiptRequest is the admin form, which adds tax and discount
type GenerateReceiptRequest struct {
	PaymentSuccessRequest
	TaxPercentage json.Number `json:"tax_percentage"`
	Discount      json.Number `json:"discount"`
}

// ToForm converts the body into raw form values for validation
func (r *GenerateReceiptRequest) ToForm() validation.Form {
	form := r.PaymentSuccessRequest.ToForm()
	form.TaxPercentage = r.TaxPercentage.String()
	form.Discount = r.Discount.String()
	return form
}

// ListReceiptsQuery holds the admin table query string
type ListReceiptsQuery struct {
	Search  string `form:"search"`
	Status  string `form:"status"`
	Page    int    `form:"page"`
	PerPage int    `form:"per_page"`
}

// ExportQuery selects the export format and filter
type ExportQuery struct {
	Format string `form:"format"`
	Search string `form:"search"`
	Status string `form:"status"`
}
