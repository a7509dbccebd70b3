package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/sangkips/receiptflow/internal/client"
	"github.com/sangkips/receiptflow/internal/domain/enum"
	"github.com/sangkips/receiptflow/internal/export"
	"github.com/sangkips/receiptflow/internal/listing"
	"github.com/sangkips/receiptflow/internal/validation"
	"github.com/sangkips/receiptflow/pkg/money"
)

const currency = "$"

var (
	primaryColor = lipgloss.Color("#667eea")
	mutedColor   = lipgloss.Color("#718096")
	successColor = lipgloss.Color("#38a169")
	warningColor = lipgloss.Color("#d69e2e")
	dangerColor  = lipgloss.Color("#e53e3e")

	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(primaryColor)
	labelStyle   = lipgloss.NewStyle().Foreground(mutedColor).Width(16)
	mutedStyle   = lipgloss.NewStyle().Foreground(mutedColor)
	successStyle = lipgloss.NewStyle().Foreground(successColor)
	errorStyle   = lipgloss.NewStyle().Foreground(dangerColor)
	headerStyle  = lipgloss.NewStyle().Bold(true).Foreground(primaryColor).Padding(0, 1)
	cellStyle    = lipgloss.NewStyle().Padding(0, 1)
)

func statusStyle(s enum.ReceiptStatus) lipgloss.Style {
	switch s {
	case enum.ReceiptStatusStored, enum.ReceiptStatusSent:
		return successStyle
	case enum.ReceiptStatusFailed:
		return errorStyle
	case enum.ReceiptStatusProcessing:
		return lipgloss.NewStyle().Foreground(warningColor)
	}
	return lipgloss.NewStyle().Foreground(primaryColor)
}

// receiptTable renders one page of receipts. The dashboard view adds the
// status column.
func receiptTable(receipts []client.Receipt, withStatus bool) string {
	headers := []string{"ID", "Order ID", "Customer", "Email", "Total", "Date"}
	if withStatus {
		headers = append(headers, "Status")
	}

	rows := make([][]string, 0, len(receipts))
	for _, r := range receipts {
		row := []string{
			r.Identifier(),
			r.OrderID,
			r.CustomerName,
			r.CustomerEmail,
			money.Format(r.Total, currency),
			r.CreatedAt.Format(export.DateLayout),
		}
		if withStatus {
			row = append(row, r.Status.String())
		}
		rows = append(rows, row)
	}

	statusCol := len(headers) - 1
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(mutedStyle).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if withStatus && col == statusCol && row >= 0 && row < len(receipts) {
				return statusStyle(receipts[row].Status).Padding(0, 1)
			}
			return cellStyle
		})
	return t.String()
}

func pageFooter(page *listing.Page[client.Receipt]) string {
	p := page.Pagination
	return mutedStyle.Render(fmt.Sprintf("Page %d of %d · %d of %d receipts",
		p.CurrentPage, max(p.TotalPages, 1), page.Filtered, page.Total))
}

func field(label, value string) string {
	return labelStyle.Render(label) + value
}

// receiptDetail renders a single receipt with its items and totals
func receiptDetail(r *client.Receipt) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Receipt "+r.Identifier()) + "\n")
	b.WriteString(field("Order ID", r.OrderID) + "\n")
	if r.ReceiptNumber != "" {
		b.WriteString(field("Receipt number", r.ReceiptNumber) + "\n")
	}
	b.WriteString(field("Customer", r.CustomerName) + "\n")
	b.WriteString(field("Email", r.CustomerEmail) + "\n")
	if r.BusinessStore != "" {
		b.WriteString(field("Store", r.BusinessStore) + "\n")
	}
	b.WriteString(field("Payment", string(r.PaymentMethod)) + "\n")
	b.WriteString(field("Status", statusStyle(r.Status).Render(r.Status.Label())) + "\n")
	b.WriteString(field("Date", r.CreatedAt.Format(export.DateLayout)) + "\n")
	if r.PDFURL != "" {
		b.WriteString(field("PDF", r.PDFURL) + "\n")
	}

	rows := make([][]string, len(r.Items))
	for i, it := range r.Items {
		rows[i] = []string{
			it.ProductName,
			fmt.Sprint(it.Quantity),
			money.Format(it.UnitPrice, currency),
			money.Format(it.LineTotal(), currency),
		}
	}
	items := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(mutedStyle).
		Headers("Item", "Qty", "Unit price", "Total").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		})
	b.WriteString(items.String() + "\n")
	b.WriteString(totalsBlock(money.Totals{
		Subtotal:   r.Subtotal,
		TaxPercent: r.TaxPercent,
		Tax:        r.Tax,
		Discount:   r.Discount,
		Total:      r.Total,
	}))
	return b.String()
}

func totalsBlock(t money.Totals) string {
	var b strings.Builder
	b.WriteString(field("Subtotal", money.Format(t.Subtotal, currency)) + "\n")
	b.WriteString(field("Tax ("+t.TaxPercent.String()+"%)", money.Format(t.Tax, currency)) + "\n")
	if t.Discount.IsPositive() {
		b.WriteString(field("Discount", "-"+money.Format(t.Discount, currency)) + "\n")
	}
	b.WriteString(field("Total", titleStyle.Render(money.Format(t.Total, currency))) + "\n")
	return b.String()
}

// validationErrors lists field errors in a stable order
func validationErrors(errs validation.Errors) string {
	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	for _, k := range keys {
		b.WriteString(errorStyle.Render(fmt.Sprintf("  %s: %s", k, errs[k])) + "\n")
	}
	return b.String()
}

func settingsBlock(s *client.BusinessSettings) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Business settings") + "\n")
	b.WriteString(field("Name", s.Name) + "\n")
	b.WriteString(field("Address", s.Address) + "\n")
	b.WriteString(field("City", s.City) + "\n")
	b.WriteString(field("Country", s.Country) + "\n")
	b.WriteString(field("Phone", s.Phone) + "\n")
	b.WriteString(field("Email", s.Email) + "\n")
	b.WriteString(field("Logo URL", s.LogoURL) + "\n")
	b.WriteString(field("Tax ID", s.TaxID) + "\n")
	return b.String()
}

func statsBlock(s *client.Stats) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Dashboard") + "\n")
	b.WriteString(field("Total receipts", fmt.Sprint(s.TotalReceipts)) + "\n")
	b.WriteString(field("Today", fmt.Sprint(s.TodayReceipts)) + "\n")
	b.WriteString(field("Emails sent", fmt.Sprint(s.EmailsSent)) + "\n")
	b.WriteString(field("Storage used", s.StorageUsed()+" MB") + "\n")
	return b.String()
}
