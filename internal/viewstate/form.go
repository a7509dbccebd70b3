// Package viewstate holds the state of each front-end screen as plain values.
// Every transition returns a new value and leaves the receiver untouched.
package viewstate

import (
	"strconv"

	"github.com/sangkips/receiptflow/internal/validation"
	"github.com/sangkips/receiptflow/pkg/money"
	"github.com/shopspring/decimal"
)

// Field names a scalar input of the generate form
type Field string

const (
	FieldOrderID       Field = validation.FieldOrderID
	FieldCustomerName  Field = validation.FieldCustomerName
	FieldCustomerEmail Field = validation.FieldCustomerEmail
	FieldBusinessStore Field = validation.FieldBusinessStore
	FieldPaymentMethod Field = validation.FieldPaymentMethod
	FieldTaxPercentage Field = validation.FieldTaxPercentage
	FieldDiscount      Field = validation.FieldDiscount
)

// ItemRow is one editable item line
type ItemRow struct {
	ProductName string
	Quantity    string
	UnitPrice   string
}

func blankRow() ItemRow {
	return ItemRow{Quantity: "1"}
}

// GenerateForm is the receipt generation form
type GenerateForm struct {
	Policy validation.Policy
	Values map[Field]string
	Items  []ItemRow
	Errors validation.Errors
}

// NewGenerateForm returns an empty form with a single item row. Forms with an
// adjustable tax start at the dashboard default rate and no discount.
func NewGenerateForm(policy validation.Policy) GenerateForm {
	values := map[Field]string{}
	if policy.AdjustableTax {
		values[FieldTaxPercentage] = strconv.Itoa(money.DashboardTaxPercent)
		values[FieldDiscount] = "0"
	}
	return GenerateForm{
		Policy: policy,
		Values: values,
		Items:  []ItemRow{blankRow()},
	}
}

func (f GenerateForm) clone() GenerateForm {
	values := make(map[Field]string, len(f.Values))
	for k, v := range f.Values {
		values[k] = v
	}
	var errs validation.Errors
	if f.Errors != nil {
		errs = make(validation.Errors, len(f.Errors))
		for k, v := range f.Errors {
			errs[k] = v
		}
	}
	f.Values = values
	f.Errors = errs
	f.Items = append([]ItemRow(nil), f.Items...)
	return f
}

// Get returns the current value of a field
func (f GenerateForm) Get(field Field) string {
	return f.Values[field]
}

// Set changes one field and clears its error
func (f GenerateForm) Set(field Field, value string) GenerateForm {
	next := f.clone()
	next.Values[field] = value
	delete(next.Errors, string(field))
	return next
}

// AddItem appends an empty row
func (f GenerateForm) AddItem() GenerateForm {
	next := f.clone()
	next.Items = append(next.Items, blankRow())
	return next
}

// RemoveItem drops row i. The last remaining row is never removed.
func (f GenerateForm) RemoveItem(i int) GenerateForm {
	if len(f.Items) <= 1 || i < 0 || i >= len(f.Items) {
		return f
	}
	next := f.clone()
	next.Items = append(next.Items[:i], next.Items[i+1:]...)
	return next
}

// UpdateItem replaces row i
func (f GenerateForm) UpdateItem(i int, row ItemRow) GenerateForm {
	if i < 0 || i >= len(f.Items) {
		return f
	}
	next := f.clone()
	next.Items[i] = row
	return next
}

// Reset returns a fresh form with the same policy
func (f GenerateForm) Reset() GenerateForm {
	return NewGenerateForm(f.Policy)
}

// Form converts the state into validator input
func (f GenerateForm) Form() validation.Form {
	items := make([]validation.ItemForm, len(f.Items))
	for i, row := range f.Items {
		items[i] = validation.ItemForm{ProductName: row.ProductName, Quantity: row.Quantity, UnitPrice: row.UnitPrice}
	}
	return validation.Form{
		OrderID:       f.Values[FieldOrderID],
		CustomerName:  f.Values[FieldCustomerName],
		CustomerEmail: f.Values[FieldCustomerEmail],
		BusinessStore: f.Values[FieldBusinessStore],
		PaymentMethod: f.Values[FieldPaymentMethod],
		Items:         items,
		TaxPercentage: f.Values[FieldTaxPercentage],
		Discount:      f.Values[FieldDiscount],
	}
}

// Submit validates the form. The returned state carries the field errors; the
// payload is nil unless the form is valid.
func (f GenerateForm) Submit() (GenerateForm, *validation.Payload) {
	payload, errs := f.Policy.Validate(f.Form())
	next := f.clone()
	next.Errors = errs
	return next, payload
}

// Totals is the live summary shown beside the form. Rows that do not parse yet
// count as zero, an unparsable tax rate as zero and a bad discount as none.
func (f GenerateForm) Totals() money.Totals {
	subtotal := decimal.Zero
	for _, row := range f.Items {
		qty, ok := validation.ParseQuantity(row.Quantity)
		if !ok {
			continue
		}
		price, ok := validation.ParseAmount(row.UnitPrice)
		if !ok || price.IsNegative() {
			continue
		}
		subtotal = subtotal.Add(money.LineTotal(money.Line{Quantity: qty, UnitPrice: price}))
	}

	percent := f.Policy.FixedTaxPercent
	discount := decimal.Zero
	if f.Policy.AdjustableTax {
		percent = parseOrZero(f.Values[FieldTaxPercentage])
		discount = money.Round(parseOrZero(f.Values[FieldDiscount]))
	}

	tax, err := money.Tax(subtotal, percent)
	if err != nil {
		tax = decimal.Zero
	}
	if discount.IsNegative() {
		discount = decimal.Zero
	}

	return money.Totals{
		Subtotal:   subtotal,
		TaxPercent: percent,
		Tax:        tax,
		Discount:   discount,
		Total:      subtotal.Add(tax).Sub(discount),
	}
}

func parseOrZero(s string) decimal.Decimal {
	d, ok := validation.ParseAmount(s)
	if !ok {
		return decimal.Zero
	}
	return d
}
