package marketprice

import (
	"math"
	"sort"
)

// Median returns the median of values; for an even count it is the mean of
// the two middle values. ok is false for an empty slice. values is not modified.
func Median(values []float64) (median float64, ok bool) {
	if len(values) == 0 {
		return 0, false
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 != 0 {
		return sorted[mid], true
	}
	return (sorted[mid-1] + sorted[mid]) / 2, true
}

// RecommendedPrice is the median per-100 g unit price of products, rounded
// half up to whole yen.
func RecommendedPrice(products []Product) (int64, bool) {
	prices := make([]float64, 0, len(products))
	for _, p := range products {
		prices = append(prices, p.UnitPrice)
	}
	m, ok := Median(prices)
	if !ok {
		return 0, false
	}
	return int64(math.Floor(m + 0.5)), true
}
