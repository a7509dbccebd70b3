// Package export writes receipt tables as CSV or XLSX files.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"time"

	"github.com/sangkips/receiptflow/internal/client"
	"github.com/sangkips/receiptflow/pkg/money"
)

const (
	DateLayout     = "2006-01-02 15:04"
	fileDateLayout = "2006-01-02"
)

// Format selects the file type
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts csv or xlsx
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatCSV, FormatXLSX:
		return Format(s), nil
	}
	return "", fmt.Errorf("unsupported export format %q", s)
}

// ContentType is the MIME type of the format
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Header is the first row of every export
var Header = []string{"Receipt ID", "Order ID", "Customer", "Email", "Total", "Status", "Date"}

// FileName returns receipts-export-<yyyy-MM-dd>.<format>
func FileName(now time.Time, f Format) string {
	return fmt.Sprintf("receipts-export-%s.%s", now.Format(fileDateLayout), f)
}

// Row renders one receipt in Header order
func Row(r client.Receipt) []string {
	return []string{
		r.Identifier(),
		r.OrderID,
		r.CustomerName,
		r.CustomerEmail,
		money.Fixed(r.Total),
		r.Status.String(),
		r.CreatedAt.Format(DateLayout),
	}
}

// CSV writes the header and one row per receipt
func CSV(w io.Writer, receipts []client.Receipt) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, r := range receipts {
		if err := cw.Write(Row(r)); err != nil {
			return fmt.Errorf("failed to write csv row %s: %w", r.Identifier(), err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Write dispatches on format
func Write(w io.Writer, f Format, receipts []client.Receipt) error {
	if f == FormatXLSX {
		return XLSX(w, receipts)
	}
	return CSV(w, receipts)
}
