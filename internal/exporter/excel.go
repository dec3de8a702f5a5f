package exporter

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"ecocal/pkg/contracts/domain"
)

const excelSheet = "Calendar"

var excelHeaders = []string{
	"Date", "Time", "Title", "Impact", "Category",
	"Country", "Currency", "Actual", "Previous", "Forecast", "Source",
}

// WriteExcel renders the snapshot as a single-sheet XLSX workbook with
// one row per event, in snapshot order.
func WriteExcel(path string, snap *domain.Snapshot) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", excelSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for col, header := range excelHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("header cell: %w", err)
		}
		if err := f.SetCellValue(excelSheet, cell, header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for row, e := range snap.Events {
		values := []string{
			e.Date, e.Time, e.Title, string(e.Impact), string(e.Category),
			e.Country, e.Currency, e.Actual, e.Previous, e.Forecast, e.Source,
		}
		for col, v := range values {
			cell, err := excelize.CoordinatesToCellName(col+1, row+2)
			if err != nil {
				return fmt.Errorf("data cell: %w", err)
			}
			if err := f.SetCellValue(excelSheet, cell, v); err != nil {
				return fmt.Errorf("write row %d: %w", row+2, err)
			}
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save workbook: %w", err)
	}
	return nil
}
