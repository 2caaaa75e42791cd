package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/roastcalc/internal/pricing"
)

const (
	resultsSheet = "Results"
	summarySheet = "Summary"
)

// WriteXLSX writes results to a workbook with a Results sheet (one row per
// bean, numeric cells) and a Summary sheet.
func WriteXLSX(w io.Writer, results []pricing.BeanResult, summary pricing.Summary) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", resultsSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	for col, header := range Headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		if err := f.SetCellValue(resultsSheet, cell, header); err != nil {
			return fmt.Errorf("write header: %w", err)
		}
	}

	for row, r := range results {
		breakeven := any(r.BreakevenUnits)
		if r.BreakevenUnits >= pricing.UnreachableBreakeven {
			breakeven = "never"
		}
		data := []any{
			r.BeanName,
			r.SellableUnits,
			r.CostPerBag,
			r.RetailPrice,
			r.WholesalePrice,
			r.FeePerBag,
			r.ProfitPerBag,
			breakeven,
			margin(r),
		}
		for col, value := range data {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(resultsSheet, cell, value); err != nil {
				return fmt.Errorf("write row %d: %w", row+1, err)
			}
		}
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(Headers), 1)
	if err := f.SetCellStyle(resultsSheet, "A1", lastHeader, bold); err != nil {
		return fmt.Errorf("style header: %w", err)
	}

	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create summary sheet: %w", err)
	}
	summaryRows := [][]any{
		{"Total investment", summary.TotalInvestment},
		{"Expected profit", summary.TotalProfit},
		{"Return rate (%)", summary.ReturnRatePct},
	}
	for i, kv := range summaryRows {
		if err := f.SetSheetRow(summarySheet, fmt.Sprintf("A%d", i+1), &kv); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	}
	if err := f.SetCellStyle(summarySheet, "A1", "A3", bold); err != nil {
		return fmt.Errorf("style summary: %w", err)
	}

	f.SetActiveSheet(0)

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
