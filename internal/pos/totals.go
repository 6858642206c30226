package pos

// Totals is the derived money summary of a cart. It is recomputed on
// every mutation and only ever persisted once, when a draft order is
// completed.
type Totals struct {
	SubtotalUZS int64   `json:"subtotal_uzs"` // before discounts
	DiscountUZS int64   `json:"discount_uzs"` // subtotal − final, the "savings" figure
	FinalUZS    int64   `json:"final_uzs"`    // payable amount
	TotalUSD    float64 `json:"total_usd"`    // USD-native items only, display value
	Rate        float64 `json:"rate"`         // UZS per 1 USD used for settlement
}

// ComputeTotals folds the cart into settlement currency at the given
// rate. Discounts are per-line price overrides evaluated against the
// injected clock; the order-level discount figure is purely derived.
// The function is pure: calling it twice on an unchanged cart and rate
// yields identical totals.
func ComputeTotals(c *Cart, rate float64, clock Clock) (Totals, error) {
	if err := CheckRate(rate); err != nil {
		return Totals{}, err
	}
	if clock == nil {
		clock = SystemClock
	}
	now := clock.Now()

	t := Totals{Rate: rate}
	for _, li := range c.Items() {
		original, err := NormalizeAmount(li.UnitPriceMinor*int64(li.Quantity), li.Currency, rate)
		if err != nil {
			return Totals{}, err
		}
		effUnit := li.EffectiveUnitMinor(now)
		effective, err := NormalizeAmount(effUnit*int64(li.Quantity), li.Currency, rate)
		if err != nil {
			return Totals{}, err
		}

		t.SubtotalUZS += original
		t.FinalUZS += effective

		if li.Currency == USD {
			t.TotalUSD += float64(effUnit*int64(li.Quantity)) / 100.0
		}
	}
	t.DiscountUZS = t.SubtotalUZS - t.FinalUZS
	return t, nil
}
