package models

import (
	"time"

	"github.com/gocql/gocql"

	"vegas_crm_backend/internal/pos"
)

// Order statuses. Transitions are one-directional: an order never goes
// back to draft.
const (
	StatusDraft             = "draft"
	StatusCompleted         = "completed"
	StatusCancelled         = "cancelled"
	StatusFullyRefunded     = "fully_refunded"
	StatusPartiallyRefunded = "partially_refunded"
)

var transitions = map[string][]string{
	StatusDraft:     {StatusCompleted, StatusCancelled},
	StatusCompleted: {StatusFullyRefunded, StatusPartiallyRefunded},
}

// CanTransition reports whether from → to is a legal status change.
func CanTransition(from, to string) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

type Order struct {
	ID          gocql.UUID  `json:"id"`
	Number      string      `json:"number"`
	SellerID    string      `json:"seller_id"`
	SellerName  string      `json:"seller_name"`
	Status      string      `json:"status"`
	SubtotalUZS int64       `json:"subtotal_uzs"`
	DiscountUZS int64       `json:"discount_uzs"`
	TotalUZS    int64       `json:"total_uzs"`
	TotalUSD    float64     `json:"total_usd"`
	Rate        float64     `json:"rate"`
	Items       []OrderItem `json:"items"`
	CreatedAt   time.Time   `json:"created_at"`
	CompletedAt *time.Time  `json:"completed_at,omitempty"`
}

// OrderItem carries the prices frozen at checkout time. Receipts are
// rendered from these, never from live product rows, so they stay
// accurate after the product's price or discount changes.
type OrderItem struct {
	ProductID          string       `json:"product_id"`
	Name               string       `json:"name"`
	Quantity           int          `json:"quantity"`
	Currency           pos.Currency `json:"currency"`
	PriceMinor         *int64       `json:"price_minor"`          // frozen sale price
	OriginalPriceMinor *int64       `json:"original_price_minor"` // frozen pre-discount price
}

// Receipt maps a finalized order onto the renderer's input.
func (o Order) Receipt() pos.Receipt {
	items := make([]pos.ReceiptItem, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, pos.ReceiptItem{
			Name:               it.Name,
			Quantity:           it.Quantity,
			Currency:           it.Currency,
			UnitPriceMinor:     it.PriceMinor,
			OriginalPriceMinor: it.OriginalPriceMinor,
		})
	}
	return pos.Receipt{
		OrderNumber: o.Number,
		CashierName: o.SellerName,
		CreatedAt:   o.CreatedAt,
		Items:       items,
		SubtotalUZS: o.SubtotalUZS,
		DiscountUZS: o.DiscountUZS,
		TotalUZS:    o.TotalUZS,
		TotalUSD:    o.TotalUSD,
		Rate:        o.Rate,
	}
}

type Refund struct {
	ID        gocql.UUID `json:"id"`
	OrderID   gocql.UUID `json:"order_id"`
	AmountUZS int64      `json:"amount_uzs"`
	Reason    string     `json:"reason"`
	Partial   bool       `json:"partial"`
	CreatedBy string     `json:"created_by"`
	CreatedAt time.Time  `json:"created_at"`
}
