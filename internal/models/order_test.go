package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"vegas_crm_backend/internal/pos"
)

func TestOrderTransitions(t *testing.T) {
	assert.True(t, CanTransition(StatusDraft, StatusCompleted))
	assert.True(t, CanTransition(StatusDraft, StatusCancelled))
	assert.True(t, CanTransition(StatusCompleted, StatusFullyRefunded))
	assert.True(t, CanTransition(StatusCompleted, StatusPartiallyRefunded))

	// one-directional: nothing ever returns to draft
	for _, from := range []string{StatusCompleted, StatusCancelled, StatusFullyRefunded, StatusPartiallyRefunded} {
		assert.False(t, CanTransition(from, StatusDraft), "from %s", from)
	}
	assert.False(t, CanTransition(StatusCancelled, StatusCompleted))
	assert.False(t, CanTransition(StatusFullyRefunded, StatusCompleted))
	assert.False(t, CanTransition(StatusDraft, StatusFullyRefunded))
}

func TestRoleAtLeast(t *testing.T) {
	assert.True(t, RoleAtLeast(RoleOwner, RoleAdmin))
	assert.True(t, RoleAtLeast(RoleAdmin, RoleSeller))
	assert.True(t, RoleAtLeast(RoleSeller, RoleSeller))
	assert.False(t, RoleAtLeast(RoleCashier, RoleSeller))
	assert.False(t, RoleAtLeast("", RoleCashier))
	assert.False(t, RoleAtLeast("superuser", RoleCashier)) // unknown role grants nothing
}

func TestProductActiveDiscount(t *testing.T) {
	p := Product{PriceMinor: 10000, Currency: pos.UZS}
	assert.Nil(t, p.ActiveDiscount())

	pct := 20
	exp := time.Now().Add(time.Hour)
	p.DiscountPercent = &pct
	p.DiscountExpiresAt = &exp

	d := p.ActiveDiscount()
	if assert.NotNil(t, d) {
		assert.Equal(t, 20, d.Percent)
		assert.Equal(t, int64(8000), d.Apply(p.PriceMinor))
	}
}

func TestOrderReceiptMapping(t *testing.T) {
	price := int64(8000)
	orig := int64(10000)
	o := Order{
		Number:      "000042",
		SellerName:  "Bek",
		SubtotalUZS: 10000,
		DiscountUZS: 2000,
		TotalUZS:    8000,
		Rate:        12800,
		Items: []OrderItem{
			{ProductID: "p1", Name: "Coca-Cola 1.5L", Quantity: 1, Currency: pos.UZS, PriceMinor: &price, OriginalPriceMinor: &orig},
		},
	}

	r := o.Receipt()
	assert.Equal(t, "000042", r.OrderNumber)
	assert.Len(t, r.Items, 1)
	assert.Equal(t, &price, r.Items[0].UnitPriceMinor)
	assert.Equal(t, int64(8000), r.TotalUZS)
}
