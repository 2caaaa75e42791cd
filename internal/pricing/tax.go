package pricing

import "math"

// ToBase converts a tax-inclusive amount into the amount the business keeps.
// A taxable entity strips consumption tax, rounding to the nearest unit. For an
// exempt entity the base amount is what was actually paid.
func ToBase(amountIncTax int64, taxRate float64, taxable bool) int64 {
	if !taxable {
		return amountIncTax
	}
	return roundHalfUp(float64(amountIncTax) / (1 + taxRate/100))
}

// GrossUp adds consumption tax back onto a base amount when the entity is taxable.
func GrossUp(base, taxRate float64, taxable bool) float64 {
	if !taxable {
		return base
	}
	return base * (1 + taxRate/100)
}

// roundHalfUp rounds .5 towards +Inf, which is what shelf-price maths expects
// for negative values too (-2.5 becomes -2).
func roundHalfUp(v float64) int64 {
	return int64(math.Floor(v + 0.5))
}

// ceilToTen quantizes a price up to the next multiple of 10.
func ceilToTen(v float64) int64 {
	return int64(math.Ceil(v/10) * 10)
}
