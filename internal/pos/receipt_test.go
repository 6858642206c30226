package pos

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func int64p(v int64) *int64 { return &v }

func sampleReceipt() Receipt {
	return Receipt{
		OrderNumber: "000123",
		CashierName: "Aziza",
		CreatedAt:   time.Date(2026, 8, 31, 14, 2, 0, 0, time.UTC),
		Items: []ReceiptItem{
			{Name: "Coca-Cola 1.5L", Quantity: 2, Currency: UZS, UnitPriceMinor: int64p(10000), OriginalPriceMinor: int64p(10000)},
			{Name: "Power Bank 10000mAh", Quantity: 1, Currency: USD, UnitPriceMinor: int64p(500), OriginalPriceMinor: int64p(500)},
		},
		SubtotalUZS: 84000,
		DiscountUZS: 0,
		TotalUZS:    84000,
		TotalUSD:    5,
		Rate:        12800,
	}
}

func TestRenderReceiptBasicLayout(t *testing.T) {
	out := RenderReceipt(sampleReceipt())

	assert.Contains(t, out, "VEGAS CRM")
	assert.Contains(t, out, "#000123")
	assert.Contains(t, out, "Coca-Cola 1.5L")
	assert.Contains(t, out, "2 x 10 000")
	assert.Contains(t, out, "20 000")
	assert.Contains(t, out, "1 x $5.00")
	assert.Contains(t, out, "64 000")
	assert.Contains(t, out, "84 000 UZS")
	assert.Contains(t, out, "1 USD = 12 800 UZS")

	// every line fits the thermal printer
	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.LessOrEqual(t, len(line), receiptWidth, "line too wide: %q", line)
	}
}

func TestRenderReceiptShowsSavings(t *testing.T) {
	r := sampleReceipt()
	r.Items = []ReceiptItem{
		{Name: "Coca-Cola 1.5L", Quantity: 1, Currency: UZS, UnitPriceMinor: int64p(8000), OriginalPriceMinor: int64p(10000)},
	}
	r.SubtotalUZS, r.DiscountUZS, r.TotalUZS, r.TotalUSD = 10000, 2000, 8000, 0

	out := RenderReceipt(r)
	assert.Contains(t, out, "you saved")
	assert.Contains(t, out, "-2 000")
	assert.Contains(t, out, "DISCOUNT")
	assert.NotContains(t, out, "USD items")
}

func TestRenderReceiptFailsClosedOnMissingPrice(t *testing.T) {
	r := sampleReceipt()
	r.Items = append(r.Items, ReceiptItem{Name: "Mystery Item", Quantity: 1, Currency: UZS})

	out := RenderReceipt(r)
	assert.Contains(t, out, "Mystery Item")
	assert.Contains(t, out, "(price not captured)")
	// the rest of the receipt still renders
	assert.Contains(t, out, "TOTAL")
	assert.Contains(t, out, "Thank you!")
}

func TestRenderReceiptUsesFrozenPricesOnly(t *testing.T) {
	// the renderer only ever sees captured values; a later product price
	// change is invisible to it by construction, so identical input must
	// produce identical output
	r := sampleReceipt()
	first := RenderReceipt(r)
	second := RenderReceipt(r)
	require.Equal(t, first, second)
}

func TestRenderReceiptMultibyteNames(t *testing.T) {
	r := sampleReceipt()
	r.StoreName = "Doʻkon «Вегас»"
	r.Items = []ReceiptItem{
		// longer than the printer width once truncated to runes
		{Name: "Koʻylak erkaklar uchun katta oʻlchamdagi klassik oq", Quantity: 1, Currency: UZS, UnitPriceMinor: int64p(120000), OriginalPriceMinor: int64p(120000)},
		{Name: "Футболка хлопковая", Quantity: 2, Currency: UZS, UnitPriceMinor: int64p(45000), OriginalPriceMinor: int64p(45000)},
	}
	r.SubtotalUZS, r.TotalUZS, r.TotalUSD = 210000, 210000, 0

	out := RenderReceipt(r)
	require.True(t, utf8.ValidString(out), "truncation must not split a rune")

	for _, line := range strings.Split(strings.TrimRight(out, "\n"), "\n") {
		assert.LessOrEqual(t, utf8.RuneCountInString(line), receiptWidth, "line too wide: %q", line)
	}

	// right-aligned amounts still land on the last column despite
	// multibyte names elsewhere on the receipt
	for _, line := range strings.Split(out, "\n") {
		if strings.Contains(line, "TOTAL") || strings.Contains(line, "x 45 000") {
			assert.Equal(t, receiptWidth, utf8.RuneCountInString(line), "misaligned row: %q", line)
		}
	}
}

func TestTruncateKeepsRunesIntact(t *testing.T) {
	long := strings.Repeat("ʻ", receiptWidth+5)
	got := truncate(long)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, receiptWidth, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))
}

func TestRenderReceiptMissingRateOnUSDLine(t *testing.T) {
	r := sampleReceipt()
	r.Rate = 0
	r.TotalUSD = 0 // hide the rate footer, the line itself must carry the placeholder

	out := RenderReceipt(r)
	assert.Contains(t, out, "(rate not captured)")
	assert.Contains(t, out, "Thank you!")
}
