package validation

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/go-playground/validator/v10"
	"github.com/sangkips/receiptflow/internal/domain/enum"
	"github.com/sangkips/receiptflow/pkg/money"
	"github.com/shopspring/decimal"
)

// Field keys used in Errors
const (
	FieldOrderID       = "order_id"
	FieldCustomerName  = "customer_name"
	FieldCustomerEmail = "customer_email"
	FieldBusinessStore = "business_store"
	FieldPaymentMethod = "payment_method"
	FieldItems         = "items"
	FieldTaxPercentage = "tax_percentage"
	FieldDiscount      = "discount"
)

var validate = validator.New()

// ItemForm is one raw item row as typed by the user
type ItemForm struct {
	ProductName string
	Quantity    string
	UnitPrice   string
}

// Form holds raw form values
type Form struct {
	OrderID       string
	CustomerName  string
	CustomerEmail string
	BusinessStore string
	PaymentMethod string
	Items         []ItemForm
	TaxPercentage string
	Discount      string
}

// Item is a validated line item
type Item struct {
	ProductName string
	Quantity    int
	UnitPrice   decimal.Decimal
}

// Payload is a validated, trimmed receipt request
type Payload struct {
	OrderID       string
	CustomerName  string
	CustomerEmail string
	BusinessStore string
	PaymentMethod enum.PaymentMethod
	Items         []Item
	TaxPercent    decimal.Decimal
	Discount      decimal.Decimal
}

// Lines converts the payload items for the calculator
func (p *Payload) Lines() []money.Line {
	lines := make([]money.Line, len(p.Items))
	for i, it := range p.Items {
		lines[i] = money.Line{Quantity: it.Quantity, UnitPrice: it.UnitPrice}
	}
	return lines
}

// Totals computes the payload amounts
func (p *Payload) Totals() (money.Totals, error) {
	return money.Calculate(p.Lines(), p.TaxPercent, p.Discount)
}

// Errors maps a field key to its message
type Errors map[string]string

// ItemField returns the key of a field inside item row i, e.g. "items[0].quantity"
func ItemField(i int, name string) string {
	return fmt.Sprintf("%s[%d].%s", FieldItems, i, name)
}

// Validate checks the form against the policy. It returns the payload when the
// form is valid, otherwise nil and every failing field.
func (p Policy) Validate(f Form) (*Payload, Errors) {
	errs := Errors{}
	m := p.Messages

	payload := &Payload{
		OrderID:       strings.TrimSpace(f.OrderID),
		CustomerName:  strings.TrimSpace(f.CustomerName),
		CustomerEmail: strings.TrimSpace(f.CustomerEmail),
		BusinessStore: strings.TrimSpace(f.BusinessStore),
		PaymentMethod: enum.PaymentMethod(strings.TrimSpace(f.PaymentMethod)),
	}

	p.checkText(errs, FieldOrderID, payload.OrderID, p.Limits.OrderID, m.OrderIDRequired, m.OrderIDTooLong)
	p.checkText(errs, FieldCustomerName, payload.CustomerName, p.Limits.CustomerName, m.NameRequired, m.NameTooLong)
	if p.RequireStore {
		p.checkText(errs, FieldBusinessStore, payload.BusinessStore, p.Limits.Store, m.StoreRequired, m.StoreTooLong)
	} else if tooLong(payload.BusinessStore, p.Limits.Store) {
		errs[FieldBusinessStore] = m.StoreTooLong
	}

	switch {
	case payload.CustomerEmail == "":
		errs[FieldCustomerEmail] = m.EmailRequired
	case validate.Var(payload.CustomerEmail, "email") != nil:
		errs[FieldCustomerEmail] = m.EmailInvalid
	case tooLong(payload.CustomerEmail, p.Limits.Email):
		errs[FieldCustomerEmail] = m.EmailTooLong
	}

	switch {
	case payload.PaymentMethod == "":
		errs[FieldPaymentMethod] = m.PaymentRequired
	case !p.PaymentMethods.Contains(payload.PaymentMethod):
		errs[FieldPaymentMethod] = m.PaymentInvalid
	}

	if p.Strictness == AnyItem {
		payload.Items = p.anyItem(errs, f.Items)
	} else {
		payload.Items = p.allItems(errs, f.Items)
	}

	if p.AdjustableTax {
		payload.TaxPercent, payload.Discount = p.taxAndDiscount(errs, f.TaxPercentage, f.Discount)
	} else {
		payload.TaxPercent, payload.Discount = p.FixedTaxPercent, decimal.Zero
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return payload, nil
}

func (p Policy) checkText(errs Errors, field, value string, limit int, required, long string) {
	if value == "" {
		errs[field] = required
		return
	}
	if tooLong(value, limit) {
		errs[field] = long
	}
}

func tooLong(value string, limit int) bool {
	return limit > 0 && utf8.RuneCountInString(value) > limit
}

// allItems validates every row and reports each failing row field
func (p Policy) allItems(errs Errors, rows []ItemForm) []Item {
	m := p.Messages
	if len(rows) == 0 {
		errs[FieldItems] = m.ItemsRequired
		return nil
	}

	items := make([]Item, 0, len(rows))
	for i, row := range rows {
		name := strings.TrimSpace(row.ProductName)
		if name == "" {
			errs[ItemField(i, "product_name")] = m.ItemNameRequired
		} else if tooLong(name, p.Limits.ProductName) {
			errs[ItemField(i, "product_name")] = m.ItemNameTooLong
		}

		qty, qtyOK := ParseQuantity(row.Quantity)
		if !qtyOK {
			errs[ItemField(i, "quantity")] = m.QuantityInvalid
		}

		price, priceOK := ParseAmount(row.UnitPrice)
		if !priceOK || !price.IsPositive() {
			errs[ItemField(i, "unit_price")] = m.PriceInvalid
		}

		items = append(items, Item{ProductName: name, Quantity: qty, UnitPrice: price})
	}
	return items
}

// anyItem keeps the rows that have a name and parse cleanly, and requires at
// least one of them to carry a positive price. Blank rows are dropped.
func (p Policy) anyItem(errs Errors, rows []ItemForm) []Item {
	items := make([]Item, 0, len(rows))
	hasValid := false

	for i, row := range rows {
		name := strings.TrimSpace(row.ProductName)
		if name == "" {
			continue
		}
		if tooLong(name, p.Limits.ProductName) {
			errs[ItemField(i, "product_name")] = p.Messages.ItemNameTooLong
			continue
		}
		qty, qtyOK := ParseQuantity(row.Quantity)
		price, priceOK := ParseAmount(row.UnitPrice)
		if !qtyOK || !priceOK || price.IsNegative() {
			continue
		}
		if price.IsPositive() {
			hasValid = true
		}
		items = append(items, Item{ProductName: name, Quantity: qty, UnitPrice: price})
	}

	if !hasValid {
		errs[FieldItems] = p.Messages.ItemsRequired
	}
	return items
}

func (p Policy) taxAndDiscount(errs Errors, rawTax, rawDiscount string) (decimal.Decimal, decimal.Decimal) {
	tax, ok := ParseAmount(rawTax)
	if !ok || tax.IsNegative() || tax.GreaterThan(decimal.NewFromInt(100)) {
		errs[FieldTaxPercentage] = p.Messages.TaxInvalid
		tax = decimal.Zero
	}

	discount := decimal.Zero
	if strings.TrimSpace(rawDiscount) != "" {
		var ok bool
		discount, ok = ParseAmount(rawDiscount)
		if !ok || discount.IsNegative() {
			errs[FieldDiscount] = p.Messages.DiscountInvalid
			discount = decimal.Zero
		}
	}
	return tax, discount
}

// ParseQuantity accepts whole numbers >= 1, including "2.0" and padded input
func ParseQuantity(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	if n, err := strconv.Atoi(raw); err == nil {
		return n, n >= 1
	}
	d, err := decimal.NewFromString(raw)
	if err != nil || !d.IsInteger() || d.LessThan(decimal.NewFromInt(1)) {
		return 0, false
	}
	return int(d.IntPart()), true
}

// ParseAmount parses a decimal amount, ignoring surrounding spaces
func ParseAmount(raw string) (decimal.Decimal, bool) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
