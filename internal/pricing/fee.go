package pricing

import "math"

// FeeRule is a percentage fee (as a fraction) plus a fixed amount per transaction.
type FeeRule struct {
	Rate     float64
	FixedFee float64
}

var inStoreFees = map[PaymentMethod]FeeRule{
	PaymentCash:        {Rate: 0},
	PaymentPayPay:      {Rate: 0.0198},
	PaymentCreditCard:  {Rate: 0.0324},
	PaymentQUICPay:     {Rate: 0.0324},
	PaymentTransportIC: {Rate: 0.0324},
}

var onlineFees = map[PlatformType]FeeRule{
	PlatformBaseStandard:    {Rate: 0.066, FixedFee: 40},
	PlatformBaseGrowth:      {Rate: 0.029},
	PlatformStoresFree:      {Rate: 0.05},
	PlatformStoresStandard:  {Rate: 0.036},
	PlatformShopifyBasic:    {Rate: 0.034},
	PlatformShopifyStandard: {Rate: 0.033},
	PlatformShopifyAdvanced: {Rate: 0.032},
}

// ResolveFeeRule returns the fee rule for the channel. CUSTOM and any selector
// missing from the schedule fall back to CustomFeeRate.
func ResolveFeeRule(fs FeeSettings) FeeRule {
	if fs.SaleType == SaleInStore {
		if rule, ok := inStoreFees[fs.PaymentMethod]; ok {
			return rule
		}
		return FeeRule{Rate: fs.CustomFeeRate / 100}
	}

	if rule, ok := onlineFees[fs.PlatformType]; ok {
		return rule
	}
	return FeeRule{Rate: fs.CustomFeeRate / 100}
}

// CalculateFee returns the transaction fee charged on a gross price, floored.
func CalculateFee(price int64, fs FeeSettings) int64 {
	rule := ResolveFeeRule(fs)
	if rule.Rate == 0 && rule.FixedFee == 0 {
		return 0
	}
	return int64(math.Floor(float64(price)*rule.Rate + rule.FixedFee))
}

// ShippingPerBag returns the shipping cost borne per bag. Only online sales ship.
func ShippingPerBag(fs FeeSettings) int64 {
	if fs.SaleType == SaleOnline {
		return fs.ShippingCost
	}
	return 0
}

// FeeScheduleEntry describes one row of the fee schedule for display.
type FeeScheduleEntry struct {
	SaleType    SaleType `json:"saleType"`
	Selector    string   `json:"selector"`
	RatePercent float64  `json:"ratePercent"`
	FixedFee    float64  `json:"fixedFee"`
	Custom      bool     `json:"custom"`
}

// FeeSchedule returns the fee table in display order.
func FeeSchedule() []FeeScheduleEntry {
	payments := []PaymentMethod{PaymentCash, PaymentCreditCard, PaymentPayPay, PaymentQUICPay, PaymentTransportIC}
	platforms := []PlatformType{
		PlatformBaseStandard, PlatformBaseGrowth,
		PlatformStoresFree, PlatformStoresStandard,
		PlatformShopifyBasic, PlatformShopifyStandard, PlatformShopifyAdvanced,
	}

	entries := make([]FeeScheduleEntry, 0, len(payments)+len(platforms)+2)
	for _, pm := range payments {
		rule := inStoreFees[pm]
		entries = append(entries, FeeScheduleEntry{
			SaleType:    SaleInStore,
			Selector:    string(pm),
			RatePercent: ratePercent(rule.Rate),
			FixedFee:    rule.FixedFee,
		})
	}
	entries = append(entries, FeeScheduleEntry{SaleType: SaleInStore, Selector: string(PaymentCustom), Custom: true})

	for _, pt := range platforms {
		rule := onlineFees[pt]
		entries = append(entries, FeeScheduleEntry{
			SaleType:    SaleOnline,
			Selector:    string(pt),
			RatePercent: ratePercent(rule.Rate),
			FixedFee:    rule.FixedFee,
		})
	}
	entries = append(entries, FeeScheduleEntry{SaleType: SaleOnline, Selector: string(PlatformCustom), Custom: true})

	return entries
}

// Settings returns fee settings that select this row. customFeeRate only
// matters for CUSTOM rows.
func (e FeeScheduleEntry) Settings(customFeeRate float64) FeeSettings {
	fs := FeeSettings{SaleType: e.SaleType, CustomFeeRate: customFeeRate}
	if e.SaleType == SaleInStore {
		fs.PaymentMethod = PaymentMethod(e.Selector)
	} else {
		fs.PlatformType = PlatformType(e.Selector)
	}
	return fs
}

func ratePercent(rate float64) float64 {
	return math.Round(rate*10000) / 100
}
