package validation

import (
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storefrontForm() Form {
	return Form{
		OrderID:       "ORD-1",
		CustomerName:  "A",
		CustomerEmail: "a@b.com",
		BusinessStore: "S",
		PaymentMethod: "Card",
		Items:         []ItemForm{{ProductName: "X", Quantity: "2", UnitPrice: "50"}},
	}
}

func TestStorefront_AcceptsCompleteOrder(t *testing.T) {
	payload, errs := StorefrontPolicy.Validate(storefrontForm())
	require.Empty(t, errs)
	require.NotNil(t, payload)

	totals, err := payload.Totals()
	require.NoError(t, err)
	assert.Equal(t, "100.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "10.00", totals.Tax.StringFixed(2))
	assert.Equal(t, "110.00", totals.Total.StringFixed(2))
}

func TestStorefront_RejectsEmptyCustomerName(t *testing.T) {
	f := storefrontForm()
	f.CustomerName = "   "

	payload, errs := StorefrontPolicy.Validate(f)
	assert.Nil(t, payload)
	assert.Equal(t, Errors{FieldCustomerName: "Customer name is required"}, errs)
}

func TestStorefront_RejectsMalformedEmail(t *testing.T) {
	f := storefrontForm()
	f.CustomerEmail = "not-an-email"

	_, errs := StorefrontPolicy.Validate(f)
	assert.Equal(t, "Invalid email address", errs[FieldCustomerEmail])
}

func TestStorefront_ReportsEveryRule(t *testing.T) {
	f := Form{
		OrderID:       strings.Repeat("x", 101),
		CustomerEmail: "",
		PaymentMethod: "Credit Card",
		Items: []ItemForm{
			{ProductName: "", Quantity: "0", UnitPrice: "0"},
			{ProductName: "Y", Quantity: "1.5", UnitPrice: "abc"},
		},
	}

	_, errs := StorefrontPolicy.Validate(f)
	assert.Equal(t, Errors{
		FieldOrderID:                 "Order ID too long",
		FieldCustomerName:            "Customer name is required",
		FieldCustomerEmail:           "Invalid email address",
		FieldBusinessStore:           "Business store is required",
		FieldPaymentMethod:           "Invalid payment method",
		ItemField(0, "product_name"): "Product name is required",
		ItemField(0, "quantity"):     "Quantity must be at least 1",
		ItemField(0, "unit_price"):   "Price must be greater than 0",
		ItemField(1, "quantity"):     "Quantity must be at least 1",
		ItemField(1, "unit_price"):   "Price must be greater than 0",
	}, errs)
}

func TestStorefront_RequiresItems(t *testing.T) {
	f := storefrontForm()
	f.Items = nil

	_, errs := StorefrontPolicy.Validate(f)
	assert.Equal(t, "At least one item is required", errs[FieldItems])
}

func TestStorefront_TrimsValues(t *testing.T) {
	f := storefrontForm()
	f.OrderID = "  ORD-9 "
	f.Items[0].ProductName = " Widget "
	f.Items[0].Quantity = "3.0"

	payload, errs := StorefrontPolicy.Validate(f)
	require.Empty(t, errs)
	assert.Equal(t, "ORD-9", payload.OrderID)
	assert.Equal(t, "Widget", payload.Items[0].ProductName)
	assert.Equal(t, 3, payload.Items[0].Quantity)
	assert.True(t, payload.TaxPercent.Equal(decimal.NewFromInt(10)))
	assert.True(t, payload.Discount.IsZero())
}

func dashboardForm() Form {
	return Form{
		OrderID:       "ORD-2024-011",
		CustomerName:  "Jane Roe",
		CustomerEmail: "jane@roe.dev",
		PaymentMethod: "PayPal",
		Items: []ItemForm{
			{ProductName: "", Quantity: "1", UnitPrice: "0"},
			{ProductName: "Plan", Quantity: "2", UnitPrice: "19.99"},
		},
		TaxPercentage: "8",
		Discount:      "",
	}
}

func TestDashboard_AnyItemDropsBlankRows(t *testing.T) {
	payload, errs := DashboardPolicy.Validate(dashboardForm())
	require.Empty(t, errs)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "Plan", payload.Items[0].ProductName)

	totals, err := payload.Totals()
	require.NoError(t, err)
	assert.Equal(t, "39.98", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "3.20", totals.Tax.StringFixed(2))
	assert.Equal(t, "43.18", totals.Total.StringFixed(2))
}

func TestDashboard_NeedsOnePricedItem(t *testing.T) {
	f := dashboardForm()
	f.Items = []ItemForm{{ProductName: "Free sample", Quantity: "1", UnitPrice: "0"}}

	_, errs := DashboardPolicy.Validate(f)
	assert.Equal(t, "At least one valid item is required", errs[FieldItems])
}

func TestDashboard_StoreIsOptional(t *testing.T) {
	_, errs := DashboardPolicy.Validate(dashboardForm())
	assert.NotContains(t, errs, FieldBusinessStore)
}

func TestDashboard_TaxAndDiscount(t *testing.T) {
	f := dashboardForm()
	f.TaxPercentage = "101"
	f.Discount = "-5"
	f.CustomerEmail = ""
	f.PaymentMethod = "Card"

	_, errs := DashboardPolicy.Validate(f)
	assert.Equal(t, Errors{
		FieldTaxPercentage: "Tax percentage must be between 0 and 100",
		FieldDiscount:      "Discount must be a non-negative amount",
		FieldCustomerEmail: "Email is required",
		FieldPaymentMethod: "Invalid payment method",
	}, errs)
}

func TestDashboard_DiscountParsed(t *testing.T) {
	f := dashboardForm()
	f.Discount = "5.50"

	payload, errs := DashboardPolicy.Validate(f)
	require.Empty(t, errs)
	assert.Equal(t, "5.50", payload.Discount.StringFixed(2))
	assert.Equal(t, "8", payload.TaxPercent.String())
}

func TestDashboard_ColumnLimits(t *testing.T) {
	policy := DashboardPolicy
	policy.Limits = ColumnLimits

	f := dashboardForm()
	f.OrderID = strings.Repeat("x", 101)
	f.CustomerName = strings.Repeat("n", 201)
	f.BusinessStore = strings.Repeat("s", 201)
	f.Items = []ItemForm{
		{ProductName: strings.Repeat("p", 201), Quantity: "1", UnitPrice: "5"},
		{ProductName: "Plan", Quantity: "1", UnitPrice: "5"},
	}

	_, errs := policy.Validate(f)
	assert.Equal(t, Errors{
		FieldOrderID:                 "Order ID too long",
		FieldCustomerName:            "Name too long",
		FieldBusinessStore:           "Store name too long",
		ItemField(0, "product_name"): "Product name too long",
	}, errs)

	_, errs = DashboardPolicy.Validate(f)
	assert.Empty(t, errs)
}

func TestParseQuantity(t *testing.T) {
	tests := []struct {
		raw  string
		want int
		ok   bool
	}{
		{raw: "2", want: 2, ok: true},
		{raw: " 2", want: 2, ok: true},
		{raw: "2.0", want: 2, ok: true},
		{raw: "1.5"},
		{raw: "0"},
		{raw: ""},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParseQuantity(tt.raw)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}
