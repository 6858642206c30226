package pos

import (
	"fmt"
	"time"
)

// Currency of a single line item. Settlement always happens in UZS,
// USD prices are converted at the session exchange rate.
type Currency string

const (
	UZS Currency = "UZS"
	USD Currency = "USD"
)

// DefaultRate is the fallback UZS-per-USD rate used whenever no live rate
// is available or the configured rate is unusable.
const DefaultRate = 12800.0

// Discount is an optional product-level price override: a percentage off
// the original price until ExpiresAt. An expired discount behaves exactly
// like no discount at all.
type Discount struct {
	Percent   int       `json:"percent"`
	ExpiresAt time.Time `json:"expires_at"`
}

// ActiveAt reports whether the discount applies at the given instant.
// Percent outside 1–99 never applies.
func (d *Discount) ActiveAt(now time.Time) bool {
	if d == nil {
		return false
	}
	if d.Percent < 1 || d.Percent > 99 {
		return false
	}
	return now.Before(d.ExpiresAt)
}

// Apply returns the discounted amount in minor units. Integer arithmetic,
// remainder dropped: 10000 at 20% -> 8000.
func (d *Discount) Apply(amountMinor int64) int64 {
	return amountMinor - amountMinor*int64(d.Percent)/100
}

// LineItem is one product entry in a cart: native currency price, quantity
// and the stock bound known at the time the item was added.
type LineItem struct {
	ProductID      string    `json:"product_id"`
	Name           string    `json:"name"`
	UnitPriceMinor int64     `json:"unit_price_minor"` // UZS: whole soʻm, USD: cents
	Currency       Currency  `json:"currency"`
	Quantity       int       `json:"quantity"`
	StockLimit     int       `json:"stock_limit"`
	Discount       *Discount `json:"discount,omitempty"`
}

// EffectiveUnitMinor is the unit price after applying an unexpired
// discount, in the item's native minor units.
func (li LineItem) EffectiveUnitMinor(now time.Time) int64 {
	if li.Discount.ActiveAt(now) {
		return li.Discount.Apply(li.UnitPriceMinor)
	}
	return li.UnitPriceMinor
}

// FormatUZS renders a whole-soʻm amount with thousands separators,
// the way the thermal printer expects it: 1234567 -> "1 234 567".
func FormatUZS(amount int64) string {
	neg := amount < 0
	if neg {
		amount = -amount
	}
	s := fmt.Sprintf("%d", amount)
	var out []byte
	for i, c := range []byte(s) {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ' ')
		}
		out = append(out, c)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}

// FormatUSD renders cents as dollars: 500 -> "$5.00".
func FormatUSD(cents int64) string {
	neg := ""
	if cents < 0 {
		neg = "-"
		cents = -cents
	}
	return fmt.Sprintf("%s$%d.%02d", neg, cents/100, cents%100)
}
