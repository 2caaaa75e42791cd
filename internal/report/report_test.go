package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/Simplici0/roastcalc/internal/pricing"
)

func sampleResults() ([]pricing.BeanResult, pricing.Summary) {
	results := []pricing.BeanResult{
		pricing.NewBeanResult(pricing.SimulationResult{
			BeanID: "bean-1", SellableUnits: 40, CostPerBag: 1250, RetailPrice: 4170, WholesalePrice: 2500,
			ProfitPerBag: 2920, BreakevenUnits: 12, IsSafeMargin: true,
		}, "Ethiopia"),
		pricing.NewBeanResult(pricing.SimulationResult{
			BeanID: "bean-2", SellableUnits: 40, CostPerBag: 25, RetailPrice: 30, WholesalePrice: 30,
			FeePerBag: 1, ProfitPerBag: -99996, BreakevenUnits: pricing.UnreachableBreakeven,
		}, ""),
	}
	summary := pricing.Summary{TotalInvestment: 51000, TotalProfit: 116800, ReturnRatePct: 229.0196}
	return results, summary
}

func TestYenAndBreakeven(t *testing.T) {
	if got := Yen(1234567); got != "¥1,234,567" {
		t.Fatalf("Yen = %q", got)
	}
	if got := Yen(-2500); got != "-¥2,500" {
		t.Fatalf("Yen = %q", got)
	}
	if got := Breakeven(1200); got != "1,200 bags" {
		t.Fatalf("Breakeven = %q", got)
	}
	if got := Breakeven(pricing.UnreachableBreakeven); got != "never" {
		t.Fatalf("Breakeven = %q", got)
	}
}

func TestWriteTable(t *testing.T) {
	results, summary := sampleResults()

	var buf bytes.Buffer
	if err := WriteTable(&buf, results, summary); err != nil {
		t.Fatalf("WriteTable: %v", err)
	}

	out := buf.String()
	for _, want := range []string{"Break-even", "Ethiopia", "¥4,170", "12 bags", "Unnamed Bean", "never", "loss", "¥116,800", "229.0%"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected output to contain %q, got:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines != 5 {
		t.Fatalf("expected header, 2 rows, blank line and summary; got %d lines:\n%s", lines, out)
	}
}

func TestWriteXLSX(t *testing.T) {
	results, summary := sampleResults()

	var buf bytes.Buffer
	if err := WriteXLSX(&buf, results, summary); err != nil {
		t.Fatalf("WriteXLSX: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	cells := map[string]string{
		"A1": "Bean",
		"A2": "Ethiopia",
		"D2": "4170",
		"H2": "12",
		"I2": "ok",
		"A3": "Unnamed Bean",
		"H3": "never",
		"I3": "loss",
	}
	for cell, want := range cells {
		got, err := f.GetCellValue(resultsSheet, cell)
		if err != nil {
			t.Fatalf("read %s: %v", cell, err)
		}
		if got != want {
			t.Fatalf("%s = %q, want %q", cell, got, want)
		}
	}

	got, err := f.GetCellValue(summarySheet, "B2")
	if err != nil || got != "116800" {
		t.Fatalf("summary B2 = %q, %v", got, err)
	}
}

func TestWriteFeeSchedule(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteFeeSchedule(&buf, pricing.FeeSchedule(), 1000, 4); err != nil {
		t.Fatalf("WriteFeeSchedule returned error: %v", err)
	}
	out := buf.String()

	for _, want := range []string{"Fee on ¥1,000", "BASE_STANDARD", "6.6%", "¥106", "4% (custom)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("fee schedule missing %q:\n%s", want, out)
		}
	}
	if lines := strings.Count(out, "\n"); lines != len(pricing.FeeSchedule())+1 {
		t.Fatalf("expected %d lines, got %d", len(pricing.FeeSchedule())+1, lines)
	}

	buf.Reset()
	if err := WriteFeeSchedule(&buf, pricing.FeeSchedule(), -1, 0); err != nil {
		t.Fatalf("WriteFeeSchedule returned error: %v", err)
	}
	if strings.Contains(buf.String(), "Fee on") {
		t.Fatalf("fee column should be omitted without a price")
	}
}

func TestWriteDiscount(t *testing.T) {
	q := pricing.DiscountQuote{
		BagG: 200, DiscountPct: 10, FinalPrice: 7510, BagCost: 2500,
		Profit: 5010, CostRatePct: 33.288, Badge: pricing.BadgeSafe,
	}
	curve := []pricing.CurvePoint{{DiscountPct: 0, Profit: 5840}, {DiscountPct: 5, Profit: 5430.5}}

	var buf bytes.Buffer
	if err := WriteDiscount(&buf, q, curve); err != nil {
		t.Fatalf("WriteDiscount returned error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"200g bag at 10% off", "price ¥7,510", "profit ¥5,010", "cost rate 33.3%", "safe", "¥5,430"} {
		if !strings.Contains(out, want) {
			t.Fatalf("discount output missing %q:\n%s", want, out)
		}
	}
}
