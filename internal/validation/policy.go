// Package validation turns raw receipt form values into a typed payload or a map
// of field errors. Every rule is evaluated; invalid input is reported, never panicked on.
//
// The storefront and the dashboard apply different strictness and are kept as two
// explicit policies rather than one merged rule set.
package validation

import (
	"github.com/sangkips/receiptflow/internal/domain/enum"
	"github.com/sangkips/receiptflow/pkg/money"
	"github.com/shopspring/decimal"
)

// Strictness selects how the item list is judged
type Strictness string

const (
	// AllItems requires every row to be a valid item
	AllItems Strictness = "all-items"
	// AnyItem requires at least one row with a name and a positive price
	AnyItem Strictness = "any-item"
)

// Limits holds maximum field lengths in characters; zero disables a check
type Limits struct {
	OrderID      int
	CustomerName int
	Email        int
	Store        int
	ProductName  int
}

// ColumnLimits are the sizes of the receipt columns
var ColumnLimits = Limits{
	OrderID:      100,
	CustomerName: 200,
	Email:        255,
	Store:        200,
	ProductName:  200,
}

// Messages are the user-facing texts for each rule
type Messages struct {
	OrderIDRequired  string
	OrderIDTooLong   string
	NameRequired     string
	NameTooLong      string
	EmailRequired    string
	EmailInvalid     string
	EmailTooLong     string
	StoreRequired    string
	StoreTooLong     string
	PaymentRequired  string
	PaymentInvalid   string
	ItemsRequired    string
	ItemNameRequired string
	ItemNameTooLong  string
	QuantityInvalid  string
	PriceInvalid     string
	TaxInvalid       string
	DiscountInvalid  string
}

// Policy is one validator configuration
type Policy struct {
	Name           string
	Strictness     Strictness
	PaymentMethods enum.PaymentCatalogue
	RequireStore   bool
	Limits         Limits
	// AdjustableTax accepts a tax percentage and a discount from the form;
	// otherwise FixedTaxPercent applies with no discount.
	AdjustableTax   bool
	FixedTaxPercent decimal.Decimal
	Messages        Messages
}

// StorefrontPolicy validates the public generate form: every item must be valid
var StorefrontPolicy = Policy{
	Name:           "storefront",
	Strictness:     AllItems,
	PaymentMethods: enum.StorefrontPaymentMethods,
	RequireStore:   true,
	Limits:         ColumnLimits,
	FixedTaxPercent: decimal.NewFromInt(money.StorefrontTaxPercent),
	Messages: Messages{
		OrderIDRequired:  "Order ID is required",
		OrderIDTooLong:   "Order ID too long",
		NameRequired:     "Customer name is required",
		NameTooLong:      "Name too long",
		EmailRequired:    "Invalid email address",
		EmailInvalid:     "Invalid email address",
		EmailTooLong:     "Email too long",
		StoreRequired:    "Business store is required",
		StoreTooLong:     "Store name too long",
		PaymentRequired:  "Payment method is required",
		PaymentInvalid:   "Invalid payment method",
		ItemsRequired:    "At least one item is required",
		ItemNameRequired: "Product name is required",
		ItemNameTooLong:  "Product name too long",
		QuantityInvalid:  "Quantity must be at least 1",
		PriceInvalid:     "Price must be greater than 0",
	},
}

// DashboardPolicy validates the admin generate form: one valid item is enough
var DashboardPolicy = Policy{
	Name:           "dashboard",
	Strictness:     AnyItem,
	PaymentMethods: enum.DashboardPaymentMethods,
	Limits: Limits{
		Email: 255,
	},
	AdjustableTax: true,
	Messages: Messages{
		OrderIDRequired: "Order ID is required",
		OrderIDTooLong:  "Order ID too long",
		NameRequired:    "Customer name is required",
		NameTooLong:     "Name too long",
		EmailRequired:   "Email is required",
		EmailInvalid:    "Invalid email format",
		EmailTooLong:    "Email too long",
		StoreTooLong:    "Store name too long",
		PaymentRequired: "Payment method is required",
		PaymentInvalid:  "Invalid payment method",
		ItemsRequired:   "At least one valid item is required",
		ItemNameTooLong: "Product name too long",
		TaxInvalid:      "Tax percentage must be between 0 and 100",
		DiscountInvalid: "Discount must be a non-negative amount",
	},
}
