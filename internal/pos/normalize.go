package pos

import "math"

// Normalize converts a line item's total value into the settlement
// currency (whole UZS) at the given UZS-per-USD rate. The USD→UZS
// conversion is truncated exactly once, at the end, so repeated
// recomputation never drifts.
func Normalize(item LineItem, rate float64) (int64, error) {
	return NormalizeAmount(item.UnitPriceMinor*int64(item.Quantity), item.Currency, rate)
}

// NormalizeAmount converts a bare minor-unit amount. Checkout uses it on
// frozen order items, where no LineItem exists anymore.
func NormalizeAmount(amountMinor int64, currency Currency, rate float64) (int64, error) {
	switch currency {
	case UZS:
		return amountMinor, nil
	case USD:
		if err := CheckRate(rate); err != nil {
			return 0, err
		}
		// amountMinor is cents; one truncation only
		return int64(float64(amountMinor) * rate / 100.0), nil
	default:
		return 0, &ValidationError{Message: "unknown currency: " + string(currency)}
	}
}

// CheckRate rejects rates that cannot be used for settlement.
func CheckRate(rate float64) error {
	if rate <= 0 || math.IsNaN(rate) || math.IsInf(rate, 0) {
		return ErrInvalidRate
	}
	return nil
}
