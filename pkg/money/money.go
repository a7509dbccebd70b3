// Package money computes receipt amounts with decimal arithmetic.
//
// Every amount is rounded half-up to cents at the point it is produced: each line
// total, the tax and the discount. The subtotal is the exact sum of the rounded lines
// and the total is subtotal + tax - discount with no further rounding, so the
// invariant total == subtotal + tax - discount holds exactly.
package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	// StorefrontTaxPercent is the fixed tax rate applied by the storefront
	StorefrontTaxPercent = 10
	// DashboardTaxPercent is the default tax rate offered by the dashboard form
	DashboardTaxPercent = 8

	centsPlaces = 2
)

var (
	ErrNoItems              = errors.New("at least one item is required")
	ErrInvalidQuantity      = errors.New("quantity must be a whole number of at least 1")
	ErrNegativePrice        = errors.New("unit price cannot be negative")
	ErrNegativeDiscount     = errors.New("discount cannot be negative")
	ErrInvalidRate          = errors.New("tax percentage must be between 0 and 100")
	ErrDiscountExceedsTotal = errors.New("discount cannot exceed subtotal plus tax")
)

var hundred = decimal.NewFromInt(100)

// Line is one priced entry of a receipt
type Line struct {
	Quantity  int
	UnitPrice decimal.Decimal
}

// Totals holds the computed amounts of a receipt
type Totals struct {
	Subtotal   decimal.Decimal `json:"subtotal"`
	TaxPercent decimal.Decimal `json:"tax_percentage"`
	Tax        decimal.Decimal `json:"tax"`
	Discount   decimal.Decimal `json:"discount"`
	Total      decimal.Decimal `json:"total"`
}

// Round rounds half-up to cents. Amounts are never negative here, so half away
// from zero (decimal's rule) is half-up.
func Round(d decimal.Decimal) decimal.Decimal {
	return d.Round(centsPlaces)
}

// LineTotal returns quantity x unit price rounded to cents
func LineTotal(l Line) decimal.Decimal {
	return Round(l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity))))
}

// Subtotal sums the rounded line totals
func Subtotal(lines []Line) (decimal.Decimal, error) {
	if len(lines) == 0 {
		return decimal.Zero, ErrNoItems
	}

	sum := decimal.Zero
	for _, l := range lines {
		if l.Quantity < 1 {
			return decimal.Zero, ErrInvalidQuantity
		}
		if l.UnitPrice.IsNegative() {
			return decimal.Zero, ErrNegativePrice
		}
		sum = sum.Add(LineTotal(l))
	}
	return sum, nil
}

// Tax returns subtotal x percent / 100 rounded to cents
func Tax(subtotal, percent decimal.Decimal) (decimal.Decimal, error) {
	if percent.IsNegative() || percent.GreaterThan(hundred) {
		return decimal.Zero, ErrInvalidRate
	}
	return Round(subtotal.Mul(percent).Div(hundred)), nil
}

// Calculate computes subtotal, tax and total for the given lines
func Calculate(lines []Line, taxPercent, discount decimal.Decimal) (Totals, error) {
	subtotal, err := Subtotal(lines)
	if err != nil {
		return Totals{}, err
	}

	tax, err := Tax(subtotal, taxPercent)
	if err != nil {
		return Totals{}, err
	}

	if discount.IsNegative() {
		return Totals{}, ErrNegativeDiscount
	}
	discount = Round(discount)

	gross := subtotal.Add(tax)
	if discount.GreaterThan(gross) {
		return Totals{}, ErrDiscountExceedsTotal
	}

	return Totals{
		Subtotal:   subtotal,
		TaxPercent: taxPercent,
		Tax:        tax,
		Discount:   discount,
		Total:      gross.Sub(discount),
	}, nil
}

// ToCents converts an amount to integer cents for storage
func ToCents(d decimal.Decimal) int64 {
	return Round(d).Shift(centsPlaces).IntPart()
}

// FromCents converts stored cents back to an amount
func FromCents(cents int64) decimal.Decimal {
	return decimal.New(cents, -centsPlaces)
}

// Fixed renders an amount with exactly two decimals, e.g. "140.37"
func Fixed(d decimal.Decimal) string {
	return d.StringFixed(centsPlaces)
}

// Format renders an amount with a currency symbol and thousands separators,
// e.g. Format(d, "₦") == "₦1,234.50".
func Format(d decimal.Decimal, symbol string) string {
	s := Fixed(d)

	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart, frac, _ := strings.Cut(s, ".")

	var b strings.Builder
	b.Grow(len(s) + len(intPart)/3 + len(symbol) + 1)
	if neg {
		b.WriteByte('-')
	}
	b.WriteString(symbol)

	rem := len(intPart) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(intPart[:rem])
	for i := rem; i < len(intPart); i += 3 {
		b.WriteByte(',')
		b.WriteString(intPart[i : i+3])
	}
	b.WriteByte('.')
	b.WriteString(frac)

	return b.String()
}
