package models

import (
	"time"

	"github.com/gocql/gocql"

	"vegas_crm_backend/internal/pos"
)

type Product struct {
	ID                gocql.UUID   `json:"id"`
	Name              string       `json:"name"`
	Barcode           string       `json:"barcode"`
	PriceMinor        int64        `json:"price_minor"` // UZS: whole soʻm, USD: cents
	Currency          pos.Currency `json:"currency"`
	Stock             int          `json:"stock"`
	LowStockThreshold int          `json:"low_stock_threshold"`
	CategoryID        gocql.UUID   `json:"category_id"`
	ImageURLs         []string     `json:"image_urls"`
	DiscountPercent   *int         `json:"discount_percent,omitempty"`
	DiscountExpiresAt *time.Time   `json:"discount_expires_at,omitempty"`
	IsActive          bool         `json:"is_active"`
	CreatedAt         time.Time    `json:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at"`
}

// ActiveDiscount maps the stored discount columns onto the POS discount
// value; nil when no discount is set.
func (p Product) ActiveDiscount() *pos.Discount {
	if p.DiscountPercent == nil || p.DiscountExpiresAt == nil {
		return nil
	}
	return &pos.Discount{Percent: *p.DiscountPercent, ExpiresAt: *p.DiscountExpiresAt}
}

// LineItem builds the cart line for adding qty units of this product.
func (p Product) LineItem(qty int) pos.LineItem {
	return pos.LineItem{
		ProductID:      p.ID.String(),
		Name:           p.Name,
		UnitPriceMinor: p.PriceMinor,
		Currency:       p.Currency,
		Quantity:       qty,
		StockLimit:     p.Stock,
		Discount:       p.ActiveDiscount(),
	}
}
