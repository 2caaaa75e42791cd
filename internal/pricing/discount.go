package pricing

import "math"

// Badge classifies a discounted offer.
type Badge string

const (
	BadgeSafe    Badge = "safe"
	BadgeWarning Badge = "warning"
	BadgeDanger  Badge = "danger"
)

const (
	// MaxDiscountPct bounds the discount curve.
	MaxDiscountPct = 50
	// DiscountStepPct is the spacing between points of the discount curve.
	DiscountStepPct = 5

	MinBagG  = 100
	MaxBagG  = 1000
	BagStepG = 100
)

// DiscountQuote is the outcome of selling a larger bag at a discount.
type DiscountQuote struct {
	BagG        float64 `json:"bagG"`
	DiscountPct float64 `json:"discountPct"`
	FinalPrice  int64   `json:"finalPrice"`
	BagCost     float64 `json:"bagCost"`
	Fee         int64   `json:"fee"`
	Shipping    int64   `json:"shipping"`
	Profit      float64 `json:"profit"`
	CostRatePct float64 `json:"costRatePct"`
	Badge       Badge   `json:"badge"`
}

// CurvePoint is the profit of one bag at a given discount.
type CurvePoint struct {
	DiscountPct float64 `json:"discount"`
	Profit      float64 `json:"profit"`
}

// bagPricing scales per-gram retail price and cost from the base bag size.
type bagPricing struct {
	scaledPrice float64
	bagCost     float64
	shipping    int64
	fs          FeeSettings
}

func newBagPricing(res SimulationResult, gs GlobalSettings, fs FeeSettings, bagG float64) bagPricing {
	pricePerG := float64(res.RetailPrice) / gs.SalesUnitG
	costPerG := float64(res.CostPerBag) / gs.SalesUnitG
	return bagPricing{
		scaledPrice: pricePerG * bagG,
		bagCost:     costPerG * bagG,
		shipping:    ShippingPerBag(fs),
		fs:          fs,
	}
}

func (p bagPricing) at(discountPct float64) (price, fee int64, profit float64) {
	price = ceilToTen(p.scaledPrice * (1 - discountPct/100))
	fee = CalculateFee(price, p.fs)
	profit = float64(price) - p.bagCost - float64(fee) - float64(p.shipping)
	return price, fee, profit
}

// SimulateDiscount prices a bag of bagG grams at discountPct off the scaled
// retail price. Profit is gross: fees and shipping are not tax-adjusted here.
func SimulateDiscount(res SimulationResult, bean Bean, gs GlobalSettings, fs FeeSettings, bagG, discountPct float64) DiscountQuote {
	p := newBagPricing(res, gs, fs, bagG)
	price, fee, profit := p.at(discountPct)

	costRate := 100.0
	if price > 0 {
		costRate = p.bagCost / float64(price) * 100
	}

	return DiscountQuote{
		BagG:        bagG,
		DiscountPct: discountPct,
		FinalPrice:  price,
		BagCost:     p.bagCost,
		Fee:         fee,
		Shipping:    p.shipping,
		Profit:      profit,
		CostRatePct: costRate,
		Badge:       classify(profit, costRate, bean.TargetRateWholesale),
	}
}

// DiscountCurve returns profit per bag for discounts 0, 5, ... 50 percent.
func DiscountCurve(res SimulationResult, gs GlobalSettings, fs FeeSettings, bagG float64) []CurvePoint {
	p := newBagPricing(res, gs, fs, bagG)
	points := make([]CurvePoint, 0, MaxDiscountPct/DiscountStepPct+1)
	for d := 0; d <= MaxDiscountPct; d += DiscountStepPct {
		_, _, profit := p.at(float64(d))
		points = append(points, CurvePoint{DiscountPct: float64(d), Profit: profit})
	}
	return points
}

func classify(profit, costRate, wholesaleTarget float64) Badge {
	switch {
	case profit <= 0:
		return BadgeDanger
	case costRate <= wholesaleTarget:
		return BadgeSafe
	default:
		return BadgeWarning
	}
}

// FloorProfit truncates a fractional profit for display.
func FloorProfit(profit float64) int64 {
	return int64(math.Floor(profit))
}
