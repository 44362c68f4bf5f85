// Package report serializes analysis results into a downloadable workbook.
// The exporter is a pure transformation: it returns an in-memory byte
// buffer and performs no I/O of its own.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/CIRA18-HUB/sales-dashboard/internal/analytics"
	"github.com/CIRA18-HUB/sales-dashboard/internal/models"
)

const (
	SheetFilteredData   = "Filtered Data"
	SheetNewProducts    = "New Products"
	SheetRegionSummary  = "Region Summary"
	SheetProductSummary = "Product Summary"
)

var recordHeader = []any{
	"customer", "region", "ship_month", "applicant",
	"product_code", "product_name", "display_name", "packaging",
	"unit_price", "quantity", "revenue",
}

// Build produces the four-sheet report for a filtered record set and its
// new-product subset. Every input row appears unmodified in the Filtered
// Data sheet; the summary sheets carry the regional and product rollups.
func Build(records, newRecords []models.SalesRecord) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeRecordSheet(f, SheetFilteredData, records); err != nil {
		return nil, err
	}
	if err := writeRecordSheet(f, SheetNewProducts, newRecords); err != nil {
		return nil, err
	}
	if err := writeRegionSheet(f, analytics.RegionalRollup(records)); err != nil {
		return nil, err
	}
	if err := writeProductSheet(f, analytics.ProductRollup(records)); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeRecordSheet(f *excelize.File, sheet string, records []models.SalesRecord) error {
	if err := ensureSheet(f, sheet); err != nil {
		return err
	}
	if err := setRow(f, sheet, 1, recordHeader); err != nil {
		return err
	}
	for i, r := range records {
		shipMonth := r.ShipMonthRaw
		if r.ShipMonthValid {
			shipMonth = r.Month()
		}
		row := []any{
			r.Customer, r.Region, shipMonth, r.Applicant,
			r.ProductCode, r.ProductName, r.DisplayName, string(r.Packaging),
			r.UnitPrice, r.Quantity, r.Revenue,
		}
		if err := setRow(f, sheet, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeRegionSheet(f *excelize.File, rollups []models.RegionRollup) error {
	if err := ensureSheet(f, SheetRegionSummary); err != nil {
		return err
	}
	header := []any{"region", "revenue", "customer_count", "product_count", "quantity"}
	if err := setRow(f, SheetRegionSummary, 1, header); err != nil {
		return err
	}
	for i, r := range rollups {
		row := []any{r.Region, r.Revenue, r.CustomerCount, r.ProductCount, r.Quantity}
		if err := setRow(f, SheetRegionSummary, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

func writeProductSheet(f *excelize.File, rollups []models.ProductRollup) error {
	if err := ensureSheet(f, SheetProductSummary); err != nil {
		return err
	}
	header := []any{"product_code", "product_name", "revenue", "buyer_count", "quantity"}
	if err := setRow(f, SheetProductSummary, 1, header); err != nil {
		return err
	}
	for i, p := range rollups {
		row := []any{p.ProductCode, p.DisplayName, p.Revenue, p.BuyerCount, p.Quantity}
		if err := setRow(f, SheetProductSummary, i+2, row); err != nil {
			return err
		}
	}
	return nil
}

// ensureSheet creates the named sheet, reusing the workbook's default
// first sheet for the first call.
func ensureSheet(f *excelize.File, sheet string) error {
	sheets := f.GetSheetList()
	if len(sheets) == 1 && sheets[0] == "Sheet1" {
		if err := f.SetSheetName("Sheet1", sheet); err != nil {
			return fmt.Errorf("rename default sheet: %w", err)
		}
		return nil
	}
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("create sheet %q: %w", sheet, err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, row, err)
	}
	return nil
}
