package pricing

import "testing"

func TestCalculateFee(t *testing.T) {
	tests := []struct {
		name  string
		price int64
		fs    FeeSettings
		want  int64
	}{
		{"cash", 1000, FeeSettings{SaleType: SaleInStore, PaymentMethod: PaymentCash}, 0},
		{"paypay", 1000, FeeSettings{SaleType: SaleInStore, PaymentMethod: PaymentPayPay}, 19},
		{"credit card", 1000, FeeSettings{SaleType: SaleInStore, PaymentMethod: PaymentCreditCard}, 32},
		{"quicpay", 4170, FeeSettings{SaleType: SaleInStore, PaymentMethod: PaymentQUICPay}, 135},
		{"transport ic", 4170, FeeSettings{SaleType: SaleInStore, PaymentMethod: PaymentTransportIC}, 135},
		{"in-store custom", 1000, FeeSettings{SaleType: SaleInStore, PaymentMethod: PaymentCustom, CustomFeeRate: 3.24}, 32},
		{"in-store unresolved", 1000, FeeSettings{SaleType: SaleInStore, PaymentMethod: "VOUCHER", CustomFeeRate: 10}, 100},
		{"base standard", 1000, FeeSettings{SaleType: SaleOnline, PlatformType: PlatformBaseStandard}, 106},
		{"base standard 4170", 4170, FeeSettings{SaleType: SaleOnline, PlatformType: PlatformBaseStandard}, 315},
		{"base growth", 1000, FeeSettings{SaleType: SaleOnline, PlatformType: PlatformBaseGrowth}, 29},
		{"stores free", 1000, FeeSettings{SaleType: SaleOnline, PlatformType: PlatformStoresFree}, 50},
		{"stores standard", 4170, FeeSettings{SaleType: SaleOnline, PlatformType: PlatformStoresStandard}, 150},
		{"shopify basic", 4170, FeeSettings{SaleType: SaleOnline, PlatformType: PlatformShopifyBasic}, 141},
		{"shopify standard", 4170, FeeSettings{SaleType: SaleOnline, PlatformType: PlatformShopifyStandard}, 137},
		{"shopify advanced", 4170, FeeSettings{SaleType: SaleOnline, PlatformType: PlatformShopifyAdvanced}, 133},
		{"online custom", 1000, FeeSettings{SaleType: SaleOnline, PlatformType: PlatformCustom, CustomFeeRate: 12.5}, 125},
		{"online ignores payment method", 1000, FeeSettings{SaleType: SaleOnline, PlatformType: PlatformStoresFree, PaymentMethod: PaymentCash}, 50},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CalculateFee(tt.price, tt.fs); got != tt.want {
				t.Fatalf("CalculateFee(%d) = %d, want %d", tt.price, got, tt.want)
			}
		})
	}
}

func TestShippingPerBag(t *testing.T) {
	if got := ShippingPerBag(FeeSettings{SaleType: SaleOnline, ShippingCost: 520}); got != 520 {
		t.Fatalf("online shipping = %d, want 520", got)
	}
	if got := ShippingPerBag(FeeSettings{SaleType: SaleInStore, ShippingCost: 520}); got != 0 {
		t.Fatalf("in-store shipping = %d, want 0", got)
	}
}

func TestFeeSchedule(t *testing.T) {
	entries := FeeSchedule()
	if len(entries) != 14 {
		t.Fatalf("expected 14 schedule rows, got %d", len(entries))
	}

	byKey := make(map[string]FeeScheduleEntry, len(entries))
	for _, e := range entries {
		byKey[string(e.SaleType)+"/"+e.Selector] = e
	}

	base := byKey["ONLINE/BASE_STANDARD"]
	if base.RatePercent != 6.6 || base.FixedFee != 40 {
		t.Fatalf("unexpected BASE_STANDARD row: %+v", base)
	}
	if pp := byKey["IN_STORE/PAYPAY"]; pp.RatePercent != 1.98 {
		t.Fatalf("unexpected PAYPAY row: %+v", pp)
	}
	if c := byKey["IN_STORE/CUSTOM"]; !c.Custom {
		t.Fatalf("expected custom row for in-store: %+v", c)
	}
	if entries[0].Selector != string(PaymentCash) {
		t.Fatalf("expected CASH first, got %s", entries[0].Selector)
	}
}

func TestFeeScheduleEntrySettings(t *testing.T) {
	for _, e := range FeeSchedule() {
		rule := ResolveFeeRule(e.Settings(4.5))
		if e.Custom {
			if rule.Rate != 0.045 || rule.FixedFee != 0 {
				t.Fatalf("%s/%s: custom row should use the custom rate, got %+v", e.SaleType, e.Selector, rule)
			}
			continue
		}
		if ratePercent(rule.Rate) != e.RatePercent || rule.FixedFee != e.FixedFee {
			t.Fatalf("%s/%s: settings resolve to %+v, row says %v%% + %v", e.SaleType, e.Selector, rule, e.RatePercent, e.FixedFee)
		}
	}
}
