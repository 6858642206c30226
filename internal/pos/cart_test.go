package pos

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cola(qty int) LineItem {
	return LineItem{
		ProductID:      "p-cola",
		Name:           "Coca-Cola 1.5L",
		UnitPriceMinor: 10000,
		Currency:       UZS,
		Quantity:       qty,
		StockLimit:     10,
	}
}

func powerbank(qty int) LineItem {
	return LineItem{
		ProductID:      "p-bank",
		Name:           "Power Bank 10000mAh",
		UnitPriceMinor: 500, // $5.00
		Currency:       USD,
		Quantity:       qty,
		StockLimit:     3,
	}
}

func TestAddItemMergesQuantities(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddItem(cola(2)))
	require.NoError(t, c.AddItem(cola(3)))

	li, ok := c.Get("p-cola")
	require.True(t, ok)
	assert.Equal(t, 5, li.Quantity)
	assert.Equal(t, 1, c.Len())
}

func TestAddItemBeyondStockLeavesCartUnchanged(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddItem(cola(8)))

	err := c.AddItem(cola(3)) // 11 > stock limit of 10
	var stockErr *StockExceededError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, 11, stockErr.Requested)
	assert.Equal(t, 10, stockErr.Available)

	// no partial application
	li, _ := c.Get("p-cola")
	assert.Equal(t, 8, li.Quantity)
}

func TestAddItemRejectsNonPositiveQuantity(t *testing.T) {
	c := NewCart()
	var vErr *ValidationError
	assert.ErrorAs(t, c.AddItem(cola(0)), &vErr)
	assert.ErrorAs(t, c.AddItem(cola(-2)), &vErr)
	assert.True(t, c.IsEmpty())
}

func TestDecreaseItemRemovesLineAtZero(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddItem(cola(1)))

	c.DecreaseItem("p-cola")

	_, ok := c.Get("p-cola")
	assert.False(t, ok)
	assert.True(t, c.IsEmpty())

	// decreasing an absent product is a no-op
	c.DecreaseItem("p-cola")
	assert.True(t, c.IsEmpty())
}

func TestRemoveItemIsUnconditional(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddItem(cola(4)))
	c.RemoveItem("p-cola")
	assert.True(t, c.IsEmpty())
	c.RemoveItem("p-missing") // no-op
}

func TestSetQuantity(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddItem(cola(2)))

	var vErr *ValidationError
	assert.ErrorAs(t, c.SetQuantity("p-cola", -1), &vErr)

	require.NoError(t, c.SetQuantity("p-cola", 7))
	li, _ := c.Get("p-cola")
	assert.Equal(t, 7, li.Quantity)

	var stockErr *StockExceededError
	assert.ErrorAs(t, c.SetQuantity("p-cola", 11), &stockErr)

	// zero quantity is removal
	require.NoError(t, c.SetQuantity("p-cola", 0))
	assert.True(t, c.IsEmpty())
}

func TestInsertionOrderIsDisplayOrder(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddItem(cola(1)))
	require.NoError(t, c.AddItem(powerbank(1)))
	require.NoError(t, c.AddItem(cola(1))) // merge must not reorder

	items := c.Items()
	require.Len(t, items, 2)
	assert.Equal(t, "p-cola", items[0].ProductID)
	assert.Equal(t, "p-bank", items[1].ProductID)
}

func TestValidateReportsStaleStock(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddItem(cola(5)))
	require.NoError(t, c.AddItem(powerbank(2)))

	// another register sold most of the cola in the meantime
	c.SetStockLimit("p-cola", 3)

	issues := c.Validate()
	require.Len(t, issues, 1)
	assert.Equal(t, "p-cola", issues[0].ProductID)
	assert.Contains(t, issues[0].Message, "requested 5")
	assert.Contains(t, issues[0].Message, "available 3")
}

func TestRemoveKeepsIndexConsistent(t *testing.T) {
	c := NewCart()
	require.NoError(t, c.AddItem(cola(1)))
	require.NoError(t, c.AddItem(powerbank(1)))
	third := cola(1)
	third.ProductID = "p-third"
	require.NoError(t, c.AddItem(third))

	c.RemoveItem("p-cola")

	li, ok := c.Get("p-third")
	require.True(t, ok)
	assert.Equal(t, "p-third", li.ProductID)
	assert.Equal(t, 2, c.Len())
}
