package main

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/Simplici0/roastcalc/internal/pricing"
)

func beanFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "name", Usage: "Bean name"},
		&cli.Int64Flag{Name: "price", Usage: "Purchase price incl. tax (total, or per kg with --per-kg)", Required: true},
		&cli.Float64Flag{Name: "weight", Usage: "Purchase weight in kg", Required: true},
		&cli.BoolFlag{Name: "per-kg", Usage: "Treat --price as a price per kg"},
		&cli.Float64Flag{Name: "retail", Usage: "Target cost rate for retail, in percent", Value: 30},
		&cli.Float64Flag{Name: "wholesale", Usage: "Target cost rate for wholesale, in percent", Value: 50},
	}
}

func settingsFlags() []cli.Flag {
	gs := pricing.DefaultGlobalSettings()
	fs := pricing.DefaultFeeSettings()

	return []cli.Flag{
		&cli.Float64Flag{Name: "unit-g", Usage: "Sales unit in grams", Value: gs.SalesUnitG, EnvVars: []string{"ROASTCALC_UNIT_G"}},
		&cli.Float64Flag{Name: "tax-rate", Usage: "Consumption tax rate, in percent", Value: gs.TaxRate, EnvVars: []string{"ROASTCALC_TAX_RATE"}},
		&cli.Float64Flag{Name: "roast-loss", Usage: "Roast loss, in percent", Value: gs.RoastLossRate, EnvVars: []string{"ROASTCALC_ROAST_LOSS"}},
		&cli.Float64Flag{Name: "handpick-loss", Usage: "Hand-pick loss, in percent", Value: gs.HandpickLossRate, EnvVars: []string{"ROASTCALC_HANDPICK_LOSS"}},
		&cli.Int64Flag{Name: "utility", Usage: "Utility cost per roast incl. tax", Value: gs.UtilityCostPerRoast, EnvVars: []string{"ROASTCALC_UTILITY"}},
		&cli.Int64Flag{Name: "packaging", Usage: "Packaging cost per bag incl. tax", Value: gs.PackagingCost, EnvVars: []string{"ROASTCALC_PACKAGING"}},
		&cli.BoolFlag{Name: "taxable", Usage: "Price as a taxable business", Value: gs.IsTaxableEntity, EnvVars: []string{"ROASTCALC_TAXABLE"}},
		&cli.StringFlag{Name: "sale-type", Usage: "IN_STORE or ONLINE", Value: string(fs.SaleType), EnvVars: []string{"ROASTCALC_SALE_TYPE"}},
		&cli.StringFlag{Name: "platform", Usage: "Online platform plan", Value: string(fs.PlatformType), EnvVars: []string{"ROASTCALC_PLATFORM"}},
		&cli.StringFlag{Name: "payment", Usage: "In-store payment method", Value: string(fs.PaymentMethod), EnvVars: []string{"ROASTCALC_PAYMENT"}},
		&cli.Float64Flag{Name: "custom-fee", Usage: "Fee rate for CUSTOM, in percent", Value: fs.CustomFeeRate, EnvVars: []string{"ROASTCALC_CUSTOM_FEE"}},
		&cli.Int64Flag{Name: "shipping", Usage: "Shipping cost per online order", Value: fs.ShippingCost, EnvVars: []string{"ROASTCALC_SHIPPING"}},
	}
}

// settingsFromFlags builds and validates the settings shared by every pricing
// command.
func settingsFromFlags(c *cli.Context) (pricing.GlobalSettings, pricing.FeeSettings, error) {
	gs := pricing.GlobalSettings{
		SalesUnitG:          c.Float64("unit-g"),
		TaxRate:             c.Float64("tax-rate"),
		RoastLossRate:       c.Float64("roast-loss"),
		HandpickLossRate:    c.Float64("handpick-loss"),
		UtilityCostPerRoast: c.Int64("utility"),
		PackagingCost:       c.Int64("packaging"),
		IsTaxableEntity:     c.Bool("taxable"),
	}
	fs := pricing.FeeSettings{
		SaleType:      pricing.SaleType(strings.ToUpper(c.String("sale-type"))),
		PlatformType:  pricing.PlatformType(strings.ToUpper(c.String("platform"))),
		PaymentMethod: pricing.PaymentMethod(strings.ToUpper(c.String("payment"))),
		CustomFeeRate: c.Float64("custom-fee"),
		ShippingCost:  c.Int64("shipping"),
	}

	if err := pricing.ValidateGlobalSettings(gs); err != nil {
		return gs, fs, fmt.Errorf("invalid settings: %w", err)
	}
	if err := pricing.ValidateFeeSettings(fs); err != nil {
		return gs, fs, fmt.Errorf("invalid fee settings: %w", err)
	}
	return gs, fs, nil
}

func beanFromFlags(c *cli.Context) (pricing.Bean, error) {
	bean := pricing.Bean{
		ID:                  "cli",
		Name:                c.String("name"),
		PurchaseWeightKg:    c.Float64("weight"),
		PriceInputMode:      pricing.PriceModeTotal,
		TargetRateRetail:    c.Float64("retail"),
		TargetRateWholesale: c.Float64("wholesale"),
	}
	if c.Bool("per-kg") {
		bean.SetPriceInputMode(pricing.PriceModePerKg)
	}
	bean.SetEnteredPrice(float64(c.Int64("price")))

	if err := pricing.ValidateBean(bean); err != nil {
		return bean, fmt.Errorf("invalid bean: %w", err)
	}
	return bean, nil
}
