package pricing

import "fmt"

const (
	// DefaultBeanCount is the number of bean slots a new workspace starts with.
	DefaultBeanCount = 5

	defaultTargetRateRetail    = 30
	defaultTargetRateWholesale = 50
)

// DefaultGlobalSettings returns the settings of a fresh workspace: 100 g bags,
// 8% reduced consumption tax, 20% roast loss and a tax-exempt business.
func DefaultGlobalSettings() GlobalSettings {
	return GlobalSettings{
		SalesUnitG:    100,
		TaxRate:       8,
		RoastLossRate: 20,
	}
}

// DefaultFeeSettings returns cash sales in store.
func DefaultFeeSettings() FeeSettings {
	return FeeSettings{
		SaleType:      SaleInStore,
		PaymentMethod: PaymentCash,
		PlatformType:  PlatformBaseStandard,
		CustomFeeRate: 3.24,
	}
}

// NewBean returns an empty bean slot with default target rates.
func NewBean(n int) Bean {
	return Bean{
		ID:                  fmt.Sprintf("bean-%d", n),
		Name:                fmt.Sprintf("Bean %d", n),
		PriceInputMode:      PriceModeTotal,
		TargetRateRetail:    defaultTargetRateRetail,
		TargetRateWholesale: defaultTargetRateWholesale,
	}
}

// DefaultBeans returns the initial bean slots bean-1 to bean-5.
func DefaultBeans() []Bean {
	beans := make([]Bean, 0, DefaultBeanCount)
	for i := 1; i <= DefaultBeanCount; i++ {
		beans = append(beans, NewBean(i))
	}
	return beans
}

// DefaultRecipe returns the sample two-origin blend.
func DefaultRecipe() BlendRecipe {
	return BlendRecipe{
		ID:   "blend-1",
		Name: "My Signature Blend",
		Ingredients: []BlendIngredient{
			{ID: "i-1", Name: "Brazil Santos", PricePerKg: 1500, Ratio: 50},
			{ID: "i-2", Name: "Columbia Supremo", PricePerKg: 1800, Ratio: 50},
		},
		TotalBatchWeightKg:  10,
		TargetRateRetail:    defaultTargetRateRetail,
		TargetRateWholesale: defaultTargetRateWholesale,
	}
}
