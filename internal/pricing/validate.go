package pricing

import (
	"errors"
	"fmt"
	"math"
)

var (
	ErrNonPositiveSalesUnit  = errors.New("sales unit must be greater than 0 g")
	ErrNonPositiveTargetRate = errors.New("target cost rate must be greater than 0")
	ErrRateOutOfRange        = errors.New("rate out of range")
	ErrNegativeAmount        = errors.New("amount must not be negative")
	ErrInvalidNumber         = errors.New("value must be a finite number")
	ErrUnknownSaleType       = errors.New("unknown sale type")
	ErrUnknownPlatform       = errors.New("unknown platform type")
	ErrUnknownPaymentMethod  = errors.New("unknown payment method")
	ErrUnknownPriceMode      = errors.New("unknown price input mode")
	ErrInvalidBagSize        = errors.New("bag size must be 100 to 1000 g in steps of 100")
)

// ValidationError ties a sentinel error to the offending field.
type ValidationError struct {
	Err     error
	Field   string
	Details string
}

func (e *ValidationError) Error() string {
	msg := e.Err.Error()
	if e.Field != "" {
		msg = e.Field + ": " + msg
	}
	if e.Details != "" {
		msg = fmt.Sprintf("%s (%s)", msg, e.Details)
	}
	return msg
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

func invalid(err error, field, details string) error {
	return &ValidationError{Err: err, Field: field, Details: details}
}

// ValidateGlobalSettings rejects settings that would make the engine divide by
// zero or produce negative weights.
func ValidateGlobalSettings(gs GlobalSettings) error {
	if err := finite("salesUnitG", gs.SalesUnitG); err != nil {
		return err
	}
	if gs.SalesUnitG <= 0 {
		return invalid(ErrNonPositiveSalesUnit, "salesUnitG", fmt.Sprintf("got %g", gs.SalesUnitG))
	}
	if err := percent("taxRate", gs.TaxRate, true); err != nil {
		return err
	}
	if err := percent("roastLossRate", gs.RoastLossRate, false); err != nil {
		return err
	}
	if err := percent("handpickLossRate", gs.HandpickLossRate, false); err != nil {
		return err
	}
	if err := nonNegative("utilityCostPerRoast", gs.UtilityCostPerRoast); err != nil {
		return err
	}
	return nonNegative("packagingCost", gs.PackagingCost)
}

// ValidateFeeSettings checks enum values and the custom fee rate.
func ValidateFeeSettings(fs FeeSettings) error {
	switch fs.SaleType {
	case SaleOnline, SaleInStore:
	default:
		return invalid(ErrUnknownSaleType, "saleType", string(fs.SaleType))
	}

	if fs.PlatformType != "" && fs.PlatformType != PlatformCustom {
		if _, ok := onlineFees[fs.PlatformType]; !ok {
			return invalid(ErrUnknownPlatform, "platformType", string(fs.PlatformType))
		}
	}
	if fs.PaymentMethod != "" && fs.PaymentMethod != PaymentCustom {
		if _, ok := inStoreFees[fs.PaymentMethod]; !ok {
			return invalid(ErrUnknownPaymentMethod, "paymentMethod", string(fs.PaymentMethod))
		}
	}

	if err := percent("customFeeRate", fs.CustomFeeRate, true); err != nil {
		return err
	}
	return nonNegative("shippingCost", fs.ShippingCost)
}

// ValidateBean checks purchase figures and target rates.
func ValidateBean(b Bean) error {
	if err := nonNegative("purchasePrice", b.PurchasePrice); err != nil {
		return err
	}
	if err := finite("purchaseWeightKg", b.PurchaseWeightKg); err != nil {
		return err
	}
	if b.PurchaseWeightKg < 0 {
		return invalid(ErrNegativeAmount, "purchaseWeightKg", fmt.Sprintf("got %g", b.PurchaseWeightKg))
	}
	switch b.PriceInputMode {
	case "", PriceModeTotal, PriceModePerKg:
	default:
		return invalid(ErrUnknownPriceMode, "priceInputMode", string(b.PriceInputMode))
	}
	if err := targetRate("targetRateRetail", b.TargetRateRetail); err != nil {
		return err
	}
	return targetRate("targetRateWholesale", b.TargetRateWholesale)
}

// ValidateRecipe checks batch weight, ingredient prices and ratios. Ratios
// that do not sum to 100 are allowed; see RatioTotal.
func ValidateRecipe(r BlendRecipe) error {
	if err := finite("totalBatchWeightKg", r.TotalBatchWeightKg); err != nil {
		return err
	}
	if r.TotalBatchWeightKg < 0 {
		return invalid(ErrNegativeAmount, "totalBatchWeightKg", fmt.Sprintf("got %g", r.TotalBatchWeightKg))
	}
	for i, ing := range r.Ingredients {
		field := fmt.Sprintf("ingredients[%d]", i)
		if err := finite(field+".pricePerKg", ing.PricePerKg); err != nil {
			return err
		}
		if ing.PricePerKg < 0 {
			return invalid(ErrNegativeAmount, field+".pricePerKg", fmt.Sprintf("got %g", ing.PricePerKg))
		}
		if err := percent(field+".ratio", ing.Ratio, true); err != nil {
			return err
		}
	}
	if err := targetRate("targetRateRetail", r.TargetRateRetail); err != nil {
		return err
	}
	return targetRate("targetRateWholesale", r.TargetRateWholesale)
}

// ValidateInputs validates everything ComputeMetrics needs.
func ValidateInputs(b Bean, gs GlobalSettings, fs FeeSettings) error {
	if err := ValidateBean(b); err != nil {
		return err
	}
	if err := ValidateGlobalSettings(gs); err != nil {
		return err
	}
	return ValidateFeeSettings(fs)
}

// ValidateDiscount checks the bag size and discount of a discount simulation.
func ValidateDiscount(bagG, discountPct float64) error {
	if err := finite("bagG", bagG); err != nil {
		return err
	}
	if bagG < MinBagG || bagG > MaxBagG || math.Mod(bagG, BagStepG) != 0 {
		return invalid(ErrInvalidBagSize, "bagG", fmt.Sprintf("got %g", bagG))
	}
	if err := finite("discount", discountPct); err != nil {
		return err
	}
	if discountPct < 0 || discountPct > MaxDiscountPct {
		return invalid(ErrRateOutOfRange, "discount", fmt.Sprintf("got %g", discountPct))
	}
	return nil
}

func finite(field string, v float64) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return invalid(ErrInvalidNumber, field, "")
	}
	return nil
}

// percent accepts [0,100]; loss rates exclude 100 because nothing would be left.
func percent(field string, v float64, allowHundred bool) error {
	if err := finite(field, v); err != nil {
		return err
	}
	if v < 0 || v > 100 || (!allowHundred && v == 100) {
		return invalid(ErrRateOutOfRange, field, fmt.Sprintf("got %g", v))
	}
	return nil
}

func targetRate(field string, v float64) error {
	if err := finite(field, v); err != nil {
		return err
	}
	if v <= 0 {
		return invalid(ErrNonPositiveTargetRate, field, fmt.Sprintf("got %g", v))
	}
	if v > 100 {
		return invalid(ErrRateOutOfRange, field, fmt.Sprintf("got %g", v))
	}
	return nil
}

func nonNegative(field string, v int64) error {
	if v < 0 {
		return invalid(ErrNegativeAmount, field, fmt.Sprintf("got %d", v))
	}
	return nil
}
