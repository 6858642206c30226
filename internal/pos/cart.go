package pos

// Cart is the draft-order aggregate for a single POS session: an ordered
// productID → LineItem mapping where insertion order is display order and
// no two entries share a productID. It is single-owner state, never shared
// between sessions, so there is no locking here; stock is re-validated
// against the authoritative store at checkout time.
type Cart struct {
	items []LineItem
	index map[string]int
}

func NewCart() *Cart {
	return &Cart{index: make(map[string]int)}
}

// CartFromItems rebuilds a cart from stored line items (e.g. the Redis
// copy of a seller's draft). Duplicate productIDs are merged in order.
func CartFromItems(items []LineItem) *Cart {
	c := NewCart()
	for _, li := range items {
		if i, ok := c.index[li.ProductID]; ok {
			c.items[i].Quantity += li.Quantity
			continue
		}
		c.index[li.ProductID] = len(c.items)
		c.items = append(c.items, li)
	}
	return c
}

// AddItem inserts a new line item, or increases the quantity of an
// existing one. If the resulting quantity would exceed the item's stock
// limit the cart is left completely unchanged and a StockExceededError
// is returned.
func (c *Cart) AddItem(item LineItem) error {
	if item.Quantity <= 0 {
		return &ValidationError{ProductID: item.ProductID, Message: "quantity must be positive"}
	}

	if i, ok := c.index[item.ProductID]; ok {
		next := c.items[i].Quantity + item.Quantity
		if next > item.StockLimit {
			return &StockExceededError{
				ProductID: item.ProductID,
				Name:      item.Name,
				Requested: next,
				Available: item.StockLimit,
			}
		}
		// refresh price/discount/stock info, keep position
		item.Quantity = next
		c.items[i] = item
		return nil
	}

	if item.Quantity > item.StockLimit {
		return &StockExceededError{
			ProductID: item.ProductID,
			Name:      item.Name,
			Requested: item.Quantity,
			Available: item.StockLimit,
		}
	}

	c.index[item.ProductID] = len(c.items)
	c.items = append(c.items, item)
	return nil
}

// DecreaseItem lowers a line's quantity by one; at zero the line is
// removed entirely. Unknown products are a no-op.
func (c *Cart) DecreaseItem(productID string) {
	i, ok := c.index[productID]
	if !ok {
		return
	}
	c.items[i].Quantity--
	if c.items[i].Quantity <= 0 {
		c.remove(i)
	}
}

// RemoveItem drops a line unconditionally; no-op if absent.
func (c *Cart) RemoveItem(productID string) {
	if i, ok := c.index[productID]; ok {
		c.remove(i)
	}
}

// SetQuantity sets an absolute quantity. Negative quantities are
// rejected, zero is equivalent to removal.
func (c *Cart) SetQuantity(productID string, qty int) error {
	if qty < 0 {
		return &ValidationError{ProductID: productID, Message: "quantity cannot be negative"}
	}
	i, ok := c.index[productID]
	if !ok {
		return &ValidationError{ProductID: productID, Message: "product is not in the cart"}
	}
	if qty == 0 {
		c.remove(i)
		return nil
	}
	if qty > c.items[i].StockLimit {
		return &StockExceededError{
			ProductID: productID,
			Name:      c.items[i].Name,
			Requested: qty,
			Available: c.items[i].StockLimit,
		}
	}
	c.items[i].Quantity = qty
	return nil
}

// SetStockLimit refreshes the stock bound for a line after re-reading the
// authoritative store (stock may have moved under a concurrent sale).
func (c *Cart) SetStockLimit(productID string, limit int) {
	if i, ok := c.index[productID]; ok {
		c.items[i].StockLimit = limit
	}
}

// Issue is one per-item validation failure, suitable for returning to the
// UI so the seller can fix the offending line instead of getting a
// generic error.
type Issue struct {
	ProductID string `json:"product_id"`
	Message   string `json:"message"`
}

// Validate re-checks every line against its current stock limit. Used to
// block checkout when stock changed after items were added.
func (c *Cart) Validate() []Issue {
	var issues []Issue
	for _, li := range c.items {
		if li.Quantity > li.StockLimit {
			issues = append(issues, Issue{
				ProductID: li.ProductID,
				Message: (&StockExceededError{
					ProductID: li.ProductID,
					Name:      li.Name,
					Requested: li.Quantity,
					Available: li.StockLimit,
				}).Error(),
			})
		}
	}
	return issues
}

// Items returns the line items in display order. The slice is a copy.
func (c *Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c *Cart) Len() int { return len(c.items) }

func (c *Cart) IsEmpty() bool { return len(c.items) == 0 }

// Get returns the line for a product, if present.
func (c *Cart) Get(productID string) (LineItem, bool) {
	if i, ok := c.index[productID]; ok {
		return c.items[i], true
	}
	return LineItem{}, false
}

func (c *Cart) Clear() {
	c.items = nil
	c.index = make(map[string]int)
}

func (c *Cart) remove(i int) {
	delete(c.index, c.items[i].ProductID)
	c.items = append(c.items[:i], c.items[i+1:]...)
	for j := i; j < len(c.items); j++ {
		c.index[c.items[j].ProductID] = j
	}
}
