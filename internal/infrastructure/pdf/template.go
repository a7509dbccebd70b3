package pdf

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"

	"github.com/sangkips/receiptflow/internal/domain/entity"
	"github.com/sangkips/receiptflow/pkg/money"
)

// Document is everything printed on one receipt
type Document struct {
	Business *entity.BusinessSettings
	Receipt  *entity.Receipt
	Currency string
}

type lineView struct {
	ProductName string
	Quantity    int
	UnitPrice   string
	Total       string
}

type documentView struct {
	Business      *entity.BusinessSettings
	ReceiptNumber string
	OrderID       string
	Date          string
	CustomerName  string
	CustomerEmail string
	BusinessStore string
	PaymentMethod string
	Lines         []lineView
	Subtotal      string
	TaxLabel      string
	Tax           string
	Discount      string
	HasDiscount   bool
	Total         string
}

func newDocumentView(doc Document) documentView {
	r := doc.Receipt
	totals := r.Totals()
	format := func(cents int64) string { return money.Format(money.FromCents(cents), doc.Currency) }

	lines := make([]lineView, len(r.Items))
	for i, it := range r.Items {
		lines[i] = lineView{
			ProductName: it.ProductName,
			Quantity:    it.Quantity,
			UnitPrice:   format(it.UnitPrice),
			Total:       format(it.Total),
		}
	}

	return documentView{
		Business:      doc.Business,
		ReceiptNumber: r.ReceiptNumber,
		OrderID:       r.OrderID,
		Date:          r.CreatedAt.Format("January 2, 2006 15:04"),
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		BusinessStore: r.BusinessStore,
		PaymentMethod: r.PaymentMethod,
		Lines:         lines,
		Subtotal:      format(r.Subtotal),
		TaxLabel:      "Tax (" + strconv.FormatFloat(totals.TaxPercent.InexactFloat64(), 'f', -1, 64) + "%)",
		Tax:           format(r.Tax),
		Discount:      format(r.Discount),
		HasDiscount:   r.Discount > 0,
		Total:         format(r.Total),
	}
}

var receiptTemplate = template.Must(template.New("receipt").Parse(receiptHTML))

// HTML renders the receipt page that is printed to PDF
func HTML(doc Document) (string, error) {
	if doc.Receipt == nil || doc.Business == nil {
		return "", fmt.Errorf("pdf: receipt and business settings are required")
	}
	var buf bytes.Buffer
	if err := receiptTemplate.Execute(&buf, newDocumentView(doc)); err != nil {
		return "", fmt.Errorf("pdf: failed to render receipt template: %w", err)
	}
	return buf.String(), nil
}

const receiptHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<title>Receipt {{.ReceiptNumber}}</title>
<style>
  body { font-family: 'Segoe UI', Tahoma, Geneva, Verdana, sans-serif; color: #1a1a2e; margin: 40px; }
  .header { display: flex; justify-content: space-between; border-bottom: 2px solid #667eea; padding-bottom: 16px; }
  .header img { max-height: 60px; }
  .muted { color: #718096; font-size: 13px; }
  table { width: 100%; border-collapse: collapse; margin-top: 24px; }
  th, td { padding: 8px; border-bottom: 1px solid #e2e8f0; text-align: left; }
  td.num, th.num { text-align: right; }
  .totals { margin-top: 16px; width: 40%; margin-left: auto; }
  .totals td { border: none; }
  .grand { font-weight: 700; font-size: 18px; border-top: 2px solid #1a1a2e; }
</style>
</head>
<body>
<div class="header">
  <div>
    {{if .Business.LogoURL}}<img src="{{.Business.LogoURL}}" alt="{{.Business.Name}}">{{end}}
    <h2>{{.Business.Name}}</h2>
    <div class="muted">{{.Business.Address}}<br>{{.Business.City}}, {{.Business.Country}}</div>
    <div class="muted">{{.Business.Phone}} | {{.Business.Email}}</div>
    {{if .Business.TaxID}}<div class="muted">Tax ID: {{.Business.TaxID}}</div>{{end}}
  </div>
  <div>
    <h1>RECEIPT</h1>
    <div class="muted">Receipt #{{.ReceiptNumber}}</div>
    <div class="muted">Order {{.OrderID}}</div>
    <div class="muted">{{.Date}}</div>
  </div>
</div>

<p><strong>Billed to:</strong> {{.CustomerName}} &lt;{{.CustomerEmail}}&gt;<br>
{{if .BusinessStore}}<strong>Store:</strong> {{.BusinessStore}}<br>{{end}}
<strong>Payment method:</strong> {{.PaymentMethod}}</p>

<table>
  <thead><tr><th>Item</th><th class="num">Qty</th><th class="num">Unit price</th><th class="num">Amount</th></tr></thead>
  <tbody>
  {{range .Lines}}<tr><td>{{.ProductName}}</td><td class="num">{{.Quantity}}</td><td class="num">{{.UnitPrice}}</td><td class="num">{{.Total}}</td></tr>
  {{end}}</tbody>
</table>

<table class="totals">
  <tr><td>Subtotal</td><td class="num">{{.Subtotal}}</td></tr>
  <tr><td>{{.TaxLabel}}</td><td class="num">{{.Tax}}</td></tr>
  {{if .HasDiscount}}<tr><td>Discount</td><td class="num">-{{.Discount}}</td></tr>{{end}}
  <tr class="grand"><td>Total</td><td class="num">{{.Total}}</td></tr>
</table>

<p class="muted">Thank you for your purchase.</p>
</body>
</html>
`
