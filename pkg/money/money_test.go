package money

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func TestCalculate_StorefrontExample(t *testing.T) {
	totals, err := Calculate([]Line{{Quantity: 2, UnitPrice: d("50")}}, decimal.NewFromInt(StorefrontTaxPercent), decimal.Zero)
	require.NoError(t, err)

	assert.True(t, totals.Subtotal.Equal(d("100")), "subtotal %s", totals.Subtotal)
	assert.True(t, totals.Tax.Equal(d("10")), "tax %s", totals.Tax)
	assert.True(t, totals.Total.Equal(d("110")), "total %s", totals.Total)
}

func TestCalculate_DashboardReceipts(t *testing.T) {
	tests := []struct {
		name     string
		lines    []Line
		discount string
		subtotal string
		tax      string
		total    string
	}{
		{
			name:     "RCP-001",
			lines:    []Line{{2, d("49.99")}, {1, d("29.99")}},
			discount: "0",
			subtotal: "129.97", tax: "10.40", total: "140.37",
		},
		{
			name:     "RCP-002 with discount",
			lines:    []Line{{1, d("299.00")}},
			discount: "30",
			subtotal: "299.00", tax: "23.92", total: "292.92",
		},
		{
			name:     "RCP-003 rounds tax half-up",
			lines:    []Line{{1, d("79.00")}, {2, d("9.99")}},
			discount: "0",
			subtotal: "98.98", tax: "7.92", total: "106.90",
		},
		{
			name:     "RCP-009",
			lines:    []Line{{1, d("599")}, {1, d("149")}, {1, d("99")}},
			discount: "85",
			subtotal: "847.00", tax: "67.76", total: "829.76",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			totals, err := Calculate(tt.lines, decimal.NewFromInt(DashboardTaxPercent), d(tt.discount))
			require.NoError(t, err)
			assert.Equal(t, tt.subtotal, Fixed(totals.Subtotal))
			assert.Equal(t, tt.tax, Fixed(totals.Tax))
			assert.Equal(t, tt.total, Fixed(totals.Total))
		})
	}
}

func TestCalculate_InvariantHoldsExactly(t *testing.T) {
	lines := []Line{{3, d("0.335")}, {7, d("1.005")}, {1, d("12.345")}}
	totals, err := Calculate(lines, d("7.5"), d("0.015"))
	require.NoError(t, err)

	var sum decimal.Decimal
	for _, l := range lines {
		sum = sum.Add(LineTotal(l))
	}
	assert.True(t, totals.Subtotal.Equal(sum))
	assert.True(t, totals.Total.Equal(totals.Subtotal.Add(totals.Tax).Sub(totals.Discount)))
	assert.Equal(t, "0.02", Fixed(totals.Discount))
}

func TestRound_HalfUp(t *testing.T) {
	assert.Equal(t, "1.01", Fixed(Round(d("1.005"))))
	assert.Equal(t, "1.00", Fixed(Round(d("1.0049"))))
	assert.Equal(t, "2.50", Fixed(Round(d("2.495"))))
}

func TestCalculate_Errors(t *testing.T) {
	ten := decimal.NewFromInt(10)

	_, err := Calculate(nil, ten, decimal.Zero)
	assert.ErrorIs(t, err, ErrNoItems)

	_, err = Calculate([]Line{{0, d("1")}}, ten, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidQuantity)

	_, err = Calculate([]Line{{1, d("-1")}}, ten, decimal.Zero)
	assert.ErrorIs(t, err, ErrNegativePrice)

	_, err = Calculate([]Line{{1, d("1")}}, d("101"), decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidRate)

	_, err = Calculate([]Line{{1, d("1")}}, ten, d("-1"))
	assert.ErrorIs(t, err, ErrNegativeDiscount)

	_, err = Calculate([]Line{{1, d("10")}}, ten, d("11.01"))
	assert.ErrorIs(t, err, ErrDiscountExceedsTotal)
}

func TestCalculate_ZeroPriceAllowed(t *testing.T) {
	totals, err := Calculate([]Line{{1, decimal.Zero}}, decimal.NewFromInt(10), decimal.Zero)
	require.NoError(t, err)
	assert.True(t, totals.Total.IsZero())
}

func TestCents(t *testing.T) {
	assert.Equal(t, int64(14037), ToCents(d("140.37")))
	assert.Equal(t, int64(101), ToCents(d("1.005")))
	assert.Equal(t, "140.37", Fixed(FromCents(14037)))
}

func TestFormat(t *testing.T) {
	assert.Equal(t, "₦0.50", Format(d("0.5"), "₦"))
	assert.Equal(t, "₦1,234.50", Format(d("1234.5"), "₦"))
	assert.Equal(t, "$1,085.84", Format(d("1085.84"), "$"))
	assert.Equal(t, "-$1,000,000.00", Format(d("-1000000"), "$"))
	assert.Equal(t, "999.99", Format(d("999.99"), ""))
}
