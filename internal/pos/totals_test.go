package pos

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 8, 31, 12, 0, 0, 0, time.UTC)

func fixedClock() Clock { return ClockFunc(func() time.Time { return testNow }) }

func TestNormalizeUZS(t *testing.T) {
	got, err := Normalize(cola(2), DefaultRate)
	require.NoError(t, err)
	assert.Equal(t, int64(20000), got)
}

func TestNormalizeUSD(t *testing.T) {
	// unitPrice * quantity * rate, truncated once at the end
	got, err := Normalize(powerbank(1), 12800)
	require.NoError(t, err)
	assert.Equal(t, int64(64000), got)

	got, err = Normalize(powerbank(3), 12650.55)
	require.NoError(t, err)
	// 15.00 USD * 12650.55 = 189758.25 -> truncated
	assert.Equal(t, int64(189758), got)
}

func TestNormalizeRejectsBadRate(t *testing.T) {
	for _, rate := range []float64{0, -1, -12800} {
		_, err := Normalize(powerbank(1), rate)
		assert.ErrorIs(t, err, ErrInvalidRate)
	}
	// a bad rate never matters for UZS-native lines
	_, err := ComputeTotals(NewCart(), 0, fixedClock())
	assert.ErrorIs(t, err, ErrInvalidRate)
}

func TestComputeTotalsMixedCurrencies(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddItem(cola(2)))     // 2 x 10 000 UZS
	require.NoError(t, c.AddItem(powerbank(1))) // 1 x $5.00

	totals, err := ComputeTotals(c, 12800, fixedClock())
	require.NoError(t, err)

	assert.Equal(t, int64(84000), totals.SubtotalUZS) // 20 000 + 64 000
	assert.Equal(t, int64(0), totals.DiscountUZS)
	assert.Equal(t, int64(84000), totals.FinalUZS)
	assert.Equal(t, 5.0, totals.TotalUSD)
}

func TestComputeTotalsIsIdempotent(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddItem(cola(3)))
	require.NoError(t, c.AddItem(powerbank(2)))

	first, err := ComputeTotals(c, 12731.17, fixedClock())
	require.NoError(t, err)
	second, err := ComputeTotals(c, 12731.17, fixedClock())
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDiscountAppliedPerLine(t *testing.T) {
	item := cola(1)
	item.Discount = &Discount{Percent: 20, ExpiresAt: testNow.Add(24 * time.Hour)}

	c := NewCart()
	require.NoError(t, c.AddItem(item))

	totals, err := ComputeTotals(c, DefaultRate, fixedClock())
	require.NoError(t, err)

	// original price 10 000, displayed price 8 000, savings 2 000
	assert.Equal(t, int64(10000), totals.SubtotalUZS)
	assert.Equal(t, int64(8000), totals.FinalUZS)
	assert.Equal(t, int64(2000), totals.DiscountUZS)
}

func TestExpiredDiscountIsIgnored(t *testing.T) {
	item := cola(1)
	item.Discount = &Discount{Percent: 20, ExpiresAt: testNow.Add(-time.Minute)}

	c := NewCart()
	require.NoError(t, c.AddItem(item))

	totals, err := ComputeTotals(c, DefaultRate, fixedClock())
	require.NoError(t, err)
	assert.Equal(t, int64(10000), totals.FinalUZS)
	assert.Equal(t, int64(0), totals.DiscountUZS)
}

func TestDiscountOutOfRangeNeverApplies(t *testing.T) {
	for _, pct := range []int{0, 100, -5, 250} {
		d := &Discount{Percent: pct, ExpiresAt: testNow.Add(time.Hour)}
		assert.False(t, d.ActiveAt(testNow), "percent %d", pct)
	}
	var nilDiscount *Discount
	assert.False(t, nilDiscount.ActiveAt(testNow))
}

func TestDiscountedUSDLine(t *testing.T) {
	item := powerbank(2)
	item.Discount = &Discount{Percent: 10, ExpiresAt: testNow.Add(time.Hour)}

	c := NewCart()
	require.NoError(t, c.AddItem(item))

	totals, err := ComputeTotals(c, 12800, fixedClock())
	require.NoError(t, err)

	// $5.00 -> $4.50 per unit, 2 units
	assert.Equal(t, int64(128000), totals.SubtotalUZS)
	assert.Equal(t, int64(115200), totals.FinalUZS)
	assert.Equal(t, int64(12800), totals.DiscountUZS)
	assert.Equal(t, 9.0, totals.TotalUSD)
}

func TestFormatUZS(t *testing.T) {
	assert.Equal(t, "0", FormatUZS(0))
	assert.Equal(t, "950", FormatUZS(950))
	assert.Equal(t, "12 800", FormatUZS(12800))
	assert.Equal(t, "1 234 567", FormatUZS(1234567))
	assert.Equal(t, "-20 000", FormatUZS(-20000))
}

func TestFormatUSD(t *testing.T) {
	assert.Equal(t, "$5.00", FormatUSD(500))
	assert.Equal(t, "$0.07", FormatUSD(7))
	assert.Equal(t, "-$1.25", FormatUSD(-125))
}
