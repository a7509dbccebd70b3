package enum

// PaymentMethod is the label of how an order was paid.
// The storefront and the dashboard accept different, disjoint catalogues.
type PaymentMethod string

// Storefront payment methods
const (
	PaymentCard           PaymentMethod = "Card"
	PaymentTransfer       PaymentMethod = "Transfer"
	PaymentCryptoCurrency PaymentMethod = "Crypto-Currency"
)

// Dashboard payment methods
const (
	PaymentCreditCard   PaymentMethod = "Credit Card"
	PaymentPayPal       PaymentMethod = "PayPal"
	PaymentBankTransfer PaymentMethod = "Bank Transfer"
)

// PaymentCatalogue is an ordered set of accepted payment methods
type PaymentCatalogue []PaymentMethod

var (
	StorefrontPaymentMethods = PaymentCatalogue{PaymentCard, PaymentTransfer, PaymentCryptoCurrency}
	DashboardPaymentMethods  = PaymentCatalogue{PaymentCreditCard, PaymentPayPal, PaymentBankTransfer}
)

// Contains reports whether m is part of the catalogue (exact match)
func (c PaymentCatalogue) Contains(m PaymentMethod) bool {
	for _, p := range c {
		if p == m {
			return true
		}
	}
	return false
}

// Strings returns the catalogue as plain strings, e.g. for flag help
func (c PaymentCatalogue) Strings() []string {
	out := make([]string, len(c))
	for i, p := range c {
		out[i] = string(p)
	}
	return out
}
