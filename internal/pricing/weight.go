package pricing

// RoastedWeight returns the sellable roasted weight in grams.
//
// Losses compound: handpick loss applies to the weight left after roasting.
// Rates outside 0-100 are not rejected here.
func RoastedWeight(rawWeightKg, roastLossRate, handpickLossRate float64) float64 {
	rawWeightG := rawWeightKg * 1000
	afterRoast := rawWeightG * (1 - roastLossRate/100)
	return afterRoast * (1 - handpickLossRate/100)
}
