package pricing

import "math"

// UnitPrice returns the per-kg purchase price derived from the canonical pair,
// or 0 for a bean without weight.
func (b Bean) UnitPrice() float64 {
	if b.PurchaseWeightKg > 0 {
		return float64(b.PurchasePrice) / b.PurchaseWeightKg
	}
	return 0
}

// Mode returns the price input mode, defaulting to the total price.
func (b Bean) Mode() PriceInputMode {
	if b.PriceInputMode == "" {
		return PriceModeTotal
	}
	return b.PriceInputMode
}

// DisplayPrice returns the figure shown in the price field for the current mode.
func (b Bean) DisplayPrice() float64 {
	if b.Mode() == PriceModeTotal {
		return float64(b.PurchasePrice)
	}
	if b.EnteredUnitPrice != nil {
		return *b.EnteredUnitPrice
	}
	return 0
}

// SetPriceInputMode switches the input mode. Switching to per-kg seeds the
// cached unit price from the current total.
func (b *Bean) SetPriceInputMode(mode PriceInputMode) {
	if mode == PriceModePerKg {
		unit := math.Floor(b.UnitPrice() + 0.5)
		b.EnteredUnitPrice = &unit
	}
	b.PriceInputMode = mode
}

// SetEnteredPrice applies a price typed in the current mode. In per-kg mode
// the total is recomputed from the weight.
func (b *Bean) SetEnteredPrice(v float64) {
	if b.Mode() == PriceModeTotal {
		b.PurchasePrice = roundHalfUp(v)
		return
	}
	unit := v
	b.EnteredUnitPrice = &unit
	b.PurchasePrice = roundHalfUp(v * b.PurchaseWeightKg)
}

// SetWeight changes the purchase weight. In per-kg mode the unit price is held
// and the total follows the weight.
func (b *Bean) SetWeight(kg float64) {
	if b.Mode() == PriceModeTotal {
		b.PurchaseWeightKg = kg
		return
	}
	unit := b.UnitPrice()
	if b.EnteredUnitPrice != nil {
		unit = *b.EnteredUnitPrice
	}
	b.PurchaseWeightKg = kg
	b.EnteredUnitPrice = &unit
	b.PurchasePrice = roundHalfUp(unit * kg)
}
