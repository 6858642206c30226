package pos

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"
)

// receiptWidth matches a 58mm thermal printer at the font the registers use.
const receiptWidth = 42

// ReceiptItem is one finalized order line as stored at checkout time.
// Prices are the frozen historical ones, never live product prices, so a
// receipt stays accurate after the product changes. A nil price means the
// capture is missing and the line renders a placeholder instead of
// aborting the whole receipt.
type ReceiptItem struct {
	Name               string
	Quantity           int
	Currency           Currency
	UnitPriceMinor     *int64 // frozen sale price
	OriginalPriceMinor *int64 // frozen pre-discount price, equal to sale price when undiscounted
}

// Receipt is the data a finalized order hands to the renderer.
type Receipt struct {
	StoreName   string
	OrderNumber string
	CashierName string
	CreatedAt   time.Time
	Items       []ReceiptItem
	SubtotalUZS int64
	DiscountUZS int64
	TotalUZS    int64
	TotalUSD    float64
	Rate        float64 // UZS per 1 USD frozen at checkout
}

// RenderReceipt formats a finalized order into the fixed-width text
// layout the thermal printer consumes. Pure function of its input.
func RenderReceipt(r Receipt) string {
	var b strings.Builder
	rule := strings.Repeat("-", receiptWidth)

	store := r.StoreName
	if store == "" {
		store = "VEGAS CRM"
	}
	b.WriteString(center(store) + "\n")
	b.WriteString(rule + "\n")
	b.WriteString(padRow("Receipt", "#"+r.OrderNumber) + "\n")
	if r.CashierName != "" {
		b.WriteString(padRow("Cashier", r.CashierName) + "\n")
	}
	b.WriteString(padRow("Date", r.CreatedAt.Format("2006-01-02 15:04")) + "\n")
	b.WriteString(rule + "\n")

	for _, it := range r.Items {
		b.WriteString(truncate(it.Name) + "\n")
		b.WriteString(renderLine(it, r.Rate))
	}

	b.WriteString(rule + "\n")
	b.WriteString(padRow("SUBTOTAL", FormatUZS(r.SubtotalUZS)) + "\n")
	if r.DiscountUZS != 0 {
		b.WriteString(padRow("DISCOUNT", "-"+FormatUZS(r.DiscountUZS)) + "\n")
	}
	b.WriteString(padRow("TOTAL", FormatUZS(r.TotalUZS)+" UZS") + "\n")
	if r.TotalUSD != 0 {
		b.WriteString(padRow("of which USD items", fmt.Sprintf("$%.2f", r.TotalUSD)) + "\n")
		b.WriteString(padRow("Rate", "1 USD = "+FormatUZS(int64(r.Rate))+" UZS") + "\n")
	}
	b.WriteString(rule + "\n")
	b.WriteString(center("Thank you!") + "\n")
	return b.String()
}

// renderLine prints "qty x unit" with the UZS line total right-aligned,
// plus a savings line when the frozen prices show an applied discount.
func renderLine(it ReceiptItem, rate float64) string {
	if it.UnitPriceMinor == nil {
		return padRow(fmt.Sprintf("  %d x ?", it.Quantity), "(price not captured)") + "\n"
	}
	unit := *it.UnitPriceMinor

	var left, right string
	switch it.Currency {
	case USD:
		if CheckRate(rate) != nil {
			return padRow(fmt.Sprintf("  %d x %s", it.Quantity, FormatUSD(unit)), "(rate not captured)") + "\n"
		}
		total, _ := NormalizeAmount(unit*int64(it.Quantity), USD, rate)
		left = fmt.Sprintf("  %d x %s", it.Quantity, FormatUSD(unit))
		right = FormatUZS(total)
	default:
		left = fmt.Sprintf("  %d x %s", it.Quantity, FormatUZS(unit))
		right = FormatUZS(unit * int64(it.Quantity))
	}
	out := padRow(left, right) + "\n"

	if it.OriginalPriceMinor != nil && *it.OriginalPriceMinor > unit {
		savedMinor := (*it.OriginalPriceMinor - unit) * int64(it.Quantity)
		saved, err := NormalizeAmount(savedMinor, it.Currency, rate)
		if err == nil && saved > 0 {
			out += padRow("  you saved", "-"+FormatUZS(saved)) + "\n"
		}
	}
	return out
}

// Widths are measured in runes: product names carry Uzbek ʻ and
// Cyrillic, and the printer advances one cell per character, not per
// byte.

func center(s string) string {
	s = truncate(s)
	pad := (receiptWidth - utf8.RuneCountInString(s)) / 2
	return strings.Repeat(" ", pad) + s
}

func truncate(s string) string {
	if utf8.RuneCountInString(s) <= receiptWidth {
		return s
	}
	runes := []rune(s)
	return string(runes[:receiptWidth-3]) + "..."
}

func padRow(left, right string) string {
	gap := receiptWidth - utf8.RuneCountInString(left) - utf8.RuneCountInString(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}
