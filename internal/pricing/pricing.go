package pricing

// SaleType selects which fee schedule applies to a sale.
type SaleType string

const (
	SaleOnline  SaleType = "ONLINE"
	SaleInStore SaleType = "IN_STORE"
)

// PlatformType selects an online shop platform plan.
type PlatformType string

const (
	PlatformBaseStandard    PlatformType = "BASE_STANDARD"
	PlatformBaseGrowth      PlatformType = "BASE_GROWTH"
	PlatformStoresFree      PlatformType = "STORES_FREE"
	PlatformStoresStandard  PlatformType = "STORES_STANDARD"
	PlatformShopifyBasic    PlatformType = "SHOPIFY_BASIC"
	PlatformShopifyStandard PlatformType = "SHOPIFY_STANDARD"
	PlatformShopifyAdvanced PlatformType = "SHOPIFY_ADVANCED"
	PlatformCustom          PlatformType = "CUSTOM"
)

// PaymentMethod selects an in-store payment provider.
type PaymentMethod string

const (
	PaymentCash        PaymentMethod = "CASH"
	PaymentCreditCard  PaymentMethod = "CREDIT_CARD"
	PaymentPayPay      PaymentMethod = "PAYPAY"
	PaymentQUICPay     PaymentMethod = "QUICPAY"
	PaymentTransportIC PaymentMethod = "TRANSPORT_IC"
	PaymentCustom      PaymentMethod = "CUSTOM"
)

// PriceInputMode records how the purchase price was entered.
type PriceInputMode string

const (
	PriceModeTotal PriceInputMode = "active_total"
	PriceModePerKg PriceInputMode = "active_per_kg"
)

// Bean represents a purchased lot of green coffee.
//
// PurchasePrice is always the tax-inclusive total. EnteredUnitPrice only caches
// the per-kg figure typed by the user; PurchasePrice/PurchaseWeightKg is the
// authoritative pair.
type Bean struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	PurchasePrice    int64          `json:"purchasePrice"`
	PurchaseWeightKg float64        `json:"purchaseWeightKg"`
	PriceInputMode   PriceInputMode `json:"priceInputMode,omitempty"`
	EnteredUnitPrice *float64       `json:"enteredUnitPrice,omitempty"`

	TargetRateRetail    float64 `json:"targetRateRetail"`
	TargetRateWholesale float64 `json:"targetRateWholesale"`
}

// BlendIngredient is one component of a blend.
type BlendIngredient struct {
	ID         string  `json:"id"`
	Name       string  `json:"name"`
	PricePerKg float64 `json:"pricePerKg"`
	Ratio      float64 `json:"ratio"`
}

// BlendRecipe is a weighted mix of ingredients simulated as a single batch.
type BlendRecipe struct {
	ID                  string            `json:"id"`
	Name                string            `json:"name"`
	Ingredients         []BlendIngredient `json:"ingredients"`
	TotalBatchWeightKg  float64           `json:"totalBatchWeightKg"`
	TargetRateRetail    float64           `json:"targetRateRetail"`
	TargetRateWholesale float64           `json:"targetRateWholesale"`
}

// GlobalSettings holds the roastery-wide parameters shared by every simulation.
type GlobalSettings struct {
	SalesUnitG          float64 `json:"salesUnitG"`
	TaxRate             float64 `json:"taxRate"`
	RoastLossRate       float64 `json:"roastLossRate"`
	HandpickLossRate    float64 `json:"handpickLossRate"`
	UtilityCostPerRoast int64   `json:"utilityCostPerRoast"`
	PackagingCost       int64   `json:"packagingCost"`
	IsTaxableEntity     bool    `json:"isTaxableEntity"`
}

// FeeSettings describes the sales channel. PlatformType and ShippingCost only
// matter for online sales, PaymentMethod only for in-store sales.
type FeeSettings struct {
	SaleType      SaleType      `json:"saleType"`
	PlatformType  PlatformType  `json:"platformType"`
	ShippingCost  int64         `json:"shippingCost"`
	PaymentMethod PaymentMethod `json:"paymentMethod"`
	CustomFeeRate float64       `json:"customFeeRate"`
}

// SimulationResult contains the derived per-bag economics of one bean.
type SimulationResult struct {
	BeanID         string  `json:"beanId"`
	RoastedWeightG float64 `json:"roastedWeightG"`
	SellableUnits  int64   `json:"sellableUnits"`

	CostPerBag int64 `json:"costPerBag"`

	RetailPrice    int64 `json:"retailPrice"`
	WholesalePrice int64 `json:"wholesalePrice"`

	ProfitPerBag   int64 `json:"profitPerBag"`
	FeePerBag      int64 `json:"feePerBag"`
	BreakevenUnits int64 `json:"breakevenUnits"`

	IsSafeMargin bool `json:"isSafeMargin"`
}
