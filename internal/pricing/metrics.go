package pricing

import "math"

// UnreachableBreakeven is reported when every sold bag loses money, so the
// batch investment can never be recovered.
const UnreachableBreakeven int64 = 999999

// ComputeMetrics derives cost, prices, profit and break-even for one bean.
//
// It returns false when the batch does not yield a single sellable bag; that is
// the only case without a result. The function is pure: degenerate settings
// (zero target rate, negative losses) produce numeric fallout, not errors, so
// callers validate at their boundary.
//
// Consumption tax uses GlobalSettings.TaxRate for purchases, sales and fees
// alike, even though fee providers may bill tax at a different rate.
func ComputeMetrics(bean Bean, gs GlobalSettings, fs FeeSettings) (*SimulationResult, bool) {
	roastedWeightG := RoastedWeight(bean.PurchaseWeightKg, gs.RoastLossRate, gs.HandpickLossRate)

	units := math.Floor(roastedWeightG / gs.SalesUnitG)
	if !(units > 0) || math.IsInf(units, 1) {
		return nil, false
	}
	sellableUnits := int64(units)

	taxable := gs.IsTaxableEntity

	purchasePriceBase := ToBase(bean.PurchasePrice, gs.TaxRate, taxable)
	utilityCostBase := ToBase(gs.UtilityCostPerRoast, gs.TaxRate, taxable)
	packagingCostBase := ToBase(gs.PackagingCost, gs.TaxRate, taxable)

	// Divide the batch first, then add packaging, then round up.
	batchCostBase := purchasePriceBase + utilityCostBase
	costPerBag := int64(math.Ceil(float64(batchCostBase)/float64(sellableUnits) + float64(packagingCostBase)))

	retailPrice := targetPrice(costPerBag, bean.TargetRateRetail, gs)
	wholesalePrice := targetPrice(costPerBag, bean.TargetRateWholesale, gs)

	feePerBag := CalculateFee(retailPrice, fs)
	shipping := ShippingPerBag(fs)

	var profitPerBag, contributionPerBag, investmentTotal int64
	if taxable {
		revenueBase := ToBase(retailPrice, gs.TaxRate, true)
		feeBase := ToBase(feePerBag, gs.TaxRate, true)
		shippingBase := ToBase(shipping, gs.TaxRate, true)

		profitPerBag = revenueBase - feeBase - shippingBase - costPerBag
		contributionPerBag = revenueBase - feeBase - shippingBase - packagingCostBase
		investmentTotal = purchasePriceBase + utilityCostBase
	} else {
		profitPerBag = retailPrice - feePerBag - shipping - costPerBag
		contributionPerBag = retailPrice - feePerBag - shipping - gs.PackagingCost
		investmentTotal = bean.PurchasePrice + gs.UtilityCostPerRoast
	}

	breakevenUnits := UnreachableBreakeven
	if contributionPerBag > 0 {
		breakevenUnits = int64(math.Ceil(float64(investmentTotal) / float64(contributionPerBag)))
	}

	return &SimulationResult{
		BeanID:         bean.ID,
		RoastedWeightG: roastedWeightG,
		SellableUnits:  sellableUnits,
		CostPerBag:     costPerBag,
		RetailPrice:    retailPrice,
		WholesalePrice: wholesalePrice,
		ProfitPerBag:   profitPerBag,
		FeePerBag:      feePerBag,
		BreakevenUnits: breakevenUnits,
		IsSafeMargin:   profitPerBag > 0,
	}, true
}

// targetPrice turns a cost and a target cost rate into a shelf price. Taxable
// entities price on base amounts and add tax afterwards.
func targetPrice(costPerBag int64, targetRate float64, gs GlobalSettings) int64 {
	base := float64(costPerBag) / (targetRate / 100)
	return ceilToTen(GrossUp(base, gs.TaxRate, gs.IsTaxableEntity))
}
