// Package report renders simulation results as a text table or an xlsx
// workbook.
package report

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/Simplici0/roastcalc/internal/pricing"
)

// Headers are the ProfitTable columns, shared by every renderer.
var Headers = []string{
	"Bean", "Bags", "Cost/Bag", "Retail", "Wholesale", "Fee", "Profit/Bag", "Break-even", "Margin",
}

// Row is one ProfitTable line formatted for display.
type Row struct {
	Bean       string
	Bags       string
	CostPerBag string
	Retail     string
	Wholesale  string
	Fee        string
	Profit     string
	Breakeven  string
	Margin     string
}

func (r Row) cells() []string {
	return []string{r.Bean, r.Bags, r.CostPerBag, r.Retail, r.Wholesale, r.Fee, r.Profit, r.Breakeven, r.Margin}
}

// Yen formats an amount as ¥1,234.
func Yen(v int64) string {
	if v < 0 {
		return "-¥" + humanize.Comma(-v)
	}
	return "¥" + humanize.Comma(v)
}

// Breakeven formats a break-even count, showing the unreachable sentinel as "never".
func Breakeven(units int64) string {
	if units >= pricing.UnreachableBreakeven {
		return "never"
	}
	return humanize.Comma(units) + " bags"
}

func margin(r pricing.BeanResult) string {
	switch {
	case !r.IsSafeMargin:
		return "loss"
	case r.BreakevenAtRisk:
		return "at risk"
	default:
		return "ok"
	}
}

// FormatRow formats one result.
func FormatRow(r pricing.BeanResult) Row {
	return Row{
		Bean:       r.BeanName,
		Bags:       humanize.Comma(r.SellableUnits),
		CostPerBag: Yen(r.CostPerBag),
		Retail:     Yen(r.RetailPrice),
		Wholesale:  Yen(r.WholesalePrice),
		Fee:        Yen(r.FeePerBag),
		Profit:     Yen(r.ProfitPerBag),
		Breakeven:  Breakeven(r.BreakevenUnits),
		Margin:     margin(r),
	}
}

// WriteTable writes results and their summary as an aligned text table.
func WriteTable(w io.Writer, results []pricing.BeanResult, summary pricing.Summary) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)

	if _, err := fmt.Fprintln(tw, strings.Join(Headers, "\t")+"\t"); err != nil {
		return fmt.Errorf("write table header: %w", err)
	}
	for _, r := range results {
		if _, err := fmt.Fprintln(tw, strings.Join(FormatRow(r).cells(), "\t")+"\t"); err != nil {
			return fmt.Errorf("write table row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush table: %w", err)
	}

	_, err := fmt.Fprintf(w, "\nTotal investment: %s  Expected profit: %s  Return: %s%%\n",
		Yen(summary.TotalInvestment), Yen(summary.TotalProfit), humanize.FormatFloat("#,###.#", summary.ReturnRatePct))
	if err != nil {
		return fmt.Errorf("write summary: %w", err)
	}
	return nil
}
