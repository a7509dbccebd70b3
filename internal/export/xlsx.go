package export

import (
	"fmt"
	"io"

	"github.com/sangkips/receiptflow/internal/client"
	"github.com/xuri/excelize/v2"
)

const sheetName = "Receipts"

// XLSX writes the same table as CSV into a single-sheet workbook. Totals are
// stored as numbers so they can be summed.
func XLSX(w io.Writer, receipts []client.Receipt) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	header := make([]interface{}, len(Header))
	for i, h := range Header {
		header[i] = h
	}
	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	if err := f.SetCellStyle(sheetName, "A1", "G1", bold); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, r := range receipts {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		total, _ := r.Total.Round(2).Float64()
		row := []interface{}{
			r.Identifier(),
			r.OrderID,
			r.CustomerName,
			r.CustomerEmail,
			total,
			r.Status.String(),
			r.CreatedAt.Format(DateLayout),
		}
		if err := f.SetSheetRow(sheetName, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %s: %w", r.Identifier(), err)
		}
	}

	if err := f.SetColWidth(sheetName, "A", "G", 20); err != nil {
		return fmt.Errorf("failed to size columns: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
