package report

import (
	"fmt"
	"io"
	"math"
	"text/tabwriter"

	"github.com/dustin/go-humanize"

	"github.com/Simplici0/roastcalc/internal/pricing"
)

// WriteFeeSchedule lists every fee row. When price is not negative each row
// also shows the fee charged on it.
func WriteFeeSchedule(w io.Writer, entries []pricing.FeeScheduleEntry, price int64, customFeeRate float64) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	header := "Sale type\tSelector\tRate\tFixed\t"
	if price >= 0 {
		header += "Fee on " + Yen(price) + "\t"
	}
	if _, err := fmt.Fprintln(tw, header); err != nil {
		return fmt.Errorf("write fee header: %w", err)
	}

	for _, e := range entries {
		rate := fmt.Sprintf("%g%%", e.RatePercent)
		if e.Custom {
			rate = fmt.Sprintf("%g%% (custom)", customFeeRate)
		}
		line := fmt.Sprintf("%s\t%s\t%s\t%s\t", e.SaleType, e.Selector, rate, Yen(int64(e.FixedFee)))
		if price >= 0 {
			line += Yen(pricing.CalculateFee(price, e.Settings(customFeeRate))) + "\t"
		}
		if _, err := fmt.Fprintln(tw, line); err != nil {
			return fmt.Errorf("write fee row: %w", err)
		}
	}

	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush fee table: %w", err)
	}
	return nil
}

// WriteDiscount writes a discount quote followed by its profit curve.
func WriteDiscount(w io.Writer, q pricing.DiscountQuote, curve []pricing.CurvePoint) error {
	_, err := fmt.Fprintf(w,
		"%sg bag at %g%% off: price %s, cost %s, fee %s, shipping %s, profit %s (cost rate %s%%, %s)\n\n",
		humanize.Comma(int64(q.BagG)),
		q.DiscountPct,
		Yen(q.FinalPrice),
		Yen(int64(math.Round(q.BagCost))),
		Yen(q.Fee),
		Yen(q.Shipping),
		Yen(pricing.FloorProfit(q.Profit)),
		humanize.FormatFloat("#.#", q.CostRatePct),
		q.Badge,
	)
	if err != nil {
		return fmt.Errorf("write discount quote: %w", err)
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	if _, err := fmt.Fprintln(tw, "Discount\tProfit/Bag\t"); err != nil {
		return fmt.Errorf("write curve header: %w", err)
	}
	for _, p := range curve {
		if _, err := fmt.Fprintf(tw, "%g%%\t%s\t\n", p.DiscountPct, Yen(pricing.FloorProfit(p.Profit))); err != nil {
			return fmt.Errorf("write curve row: %w", err)
		}
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("flush curve: %w", err)
	}
	return nil
}
