package order

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"vegas_crm_backend/internal/database"
	"vegas_crm_backend/internal/exchange"
	"vegas_crm_backend/internal/models"
	"vegas_crm_backend/internal/pos"
)

// fetchOrder reads one order row, items included.
func fetchOrder(orderID gocql.UUID) (*models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, err
	}

	var (
		o           models.Order
		itemsJSON   string
		completedAt time.Time
	)
	err = session.Query(`SELECT order_id, number, seller_id, seller_name, status, subtotal_uzs, discount_uzs, total_uzs, total_usd, rate, items, created_at, completed_at
		FROM orders WHERE order_id = ?`, orderID).Scan(
		&o.ID, &o.Number, &o.SellerID, &o.SellerName, &o.Status, &o.SubtotalUZS, &o.DiscountUZS,
		&o.TotalUZS, &o.TotalUSD, &o.Rate, &itemsJSON, &o.CreatedAt, &completedAt)
	if err != nil {
		return nil, err
	}

	if itemsJSON != "" {
		if err := json.Unmarshal([]byte(itemsJSON), &o.Items); err != nil {
			return nil, err
		}
	}
	if !completedAt.IsZero() {
		o.CompletedAt = &completedAt
	}
	return &o, nil
}

//
// 📋 GET /api/orders?status=&seller=&limit=
//
func GetOrders(c *gin.Context) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database unavailable"})
		return
	}

	statusFilter := c.Query("status")
	sellerFilter := c.Query("seller")

	iter := session.Query(`SELECT order_id, number, seller_id, seller_name, status, subtotal_uzs, discount_uzs, total_uzs, total_usd, rate, items, created_at, completed_at
		FROM orders`).Iter()

	orders := []models.Order{}
	var (
		o           models.Order
		itemsJSON   string
		completedAt time.Time
	)
	for iter.Scan(&o.ID, &o.Number, &o.SellerID, &o.SellerName, &o.Status, &o.SubtotalUZS,
		&o.DiscountUZS, &o.TotalUZS, &o.TotalUSD, &o.Rate, &itemsJSON, &o.CreatedAt, &completedAt) {
		if statusFilter != "" && o.Status != statusFilter {
			continue
		}
		if sellerFilter != "" && o.SellerID != sellerFilter {
			continue
		}

		order := o
		order.Items = nil
		order.CompletedAt = nil
		if itemsJSON != "" {
			json.Unmarshal([]byte(itemsJSON), &order.Items)
		}
		if !completedAt.IsZero() {
			ts := completedAt
			order.CompletedAt = &ts
		}
		orders = append(orders, order)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Order read error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"orders": orders, "count": len(orders)})
}

//
// 🔍 GET /api/orders/:id
//
// Draft totals are advisory: they were computed at checkout-time rate
// and get refreshed here so the screen never shows a stale figure. Once
// the order leaves draft its stored totals are the record.
//
func GetOrder(c *gin.Context) {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	order, err := fetchOrder(orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if order.Status == models.StatusDraft {
		refreshDraftTotals(c, order)
	}

	c.JSON(http.StatusOK, order)
}

// refreshDraftTotals reprices a draft at the current session rate. Unit
// prices stay frozen from checkout; only the currency conversion moves.
func refreshDraftTotals(c *gin.Context, o *models.Order) {
	rate := exchange.GetCurrentRate(c.Request.Context())

	var subtotal, final int64
	var usd float64
	for _, it := range o.Items {
		if it.PriceMinor == nil || it.OriginalPriceMinor == nil {
			return // frozen prices missing, keep the stored totals
		}
		orig, err := pos.NormalizeAmount(*it.OriginalPriceMinor*int64(it.Quantity), it.Currency, rate)
		if err != nil {
			return
		}
		eff, err := pos.NormalizeAmount(*it.PriceMinor*int64(it.Quantity), it.Currency, rate)
		if err != nil {
			return
		}
		subtotal += orig
		final += eff
		if it.Currency == pos.USD {
			usd += float64(*it.PriceMinor*int64(it.Quantity)) / 100.0
		}
	}

	o.SubtotalUZS = subtotal
	o.TotalUZS = final
	o.DiscountUZS = subtotal - final
	o.TotalUSD = usd
	o.Rate = rate
}

//
// 📆 GET /api/orders/daily?date=2026-08-31
//
// End-of-day summary for the owner: completed sales, refunds, the cash
// drawer figure.
//
func GetDailySummary(c *gin.Context) {
	day := c.Query("date")
	var dayStart time.Time
	if day == "" {
		now := time.Now()
		dayStart = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	} else {
		parsed, err := time.Parse("2006-01-02", day)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid date, expected YYYY-MM-DD"})
			return
		}
		dayStart = parsed
	}
	dayEnd := dayStart.Add(24 * time.Hour)

	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database unavailable"})
		return
	}

	iter := session.Query(`SELECT status, total_uzs, total_usd, created_at FROM orders`).Iter()

	var (
		status             string
		totalUZS           int64
		totalUSD           float64
		createdAt          time.Time
		salesUZS           int64
		salesUSD           float64
		completed, drafted int
		cancelled          int
		refunded           int
	)
	for iter.Scan(&status, &totalUZS, &totalUSD, &createdAt) {
		if createdAt.Before(dayStart) || !createdAt.Before(dayEnd) {
			continue
		}
		switch status {
		case models.StatusCompleted, models.StatusPartiallyRefunded:
			completed++
			salesUZS += totalUZS
			salesUSD += totalUSD
		case models.StatusDraft:
			drafted++
		case models.StatusCancelled:
			cancelled++
		case models.StatusFullyRefunded:
			refunded++
		}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Order read error"})
		return
	}

	refundedUZS := sumRefunds(session, dayStart, dayEnd)

	c.JSON(http.StatusOK, gin.H{
		"date":             dayStart.Format("2006-01-02"),
		"completed_orders": completed,
		"draft_orders":     drafted,
		"cancelled_orders": cancelled,
		"refunded_orders":  refunded,
		"sales_uzs":        salesUZS,
		"sales_usd":        salesUSD,
		"refunded_uzs":     refundedUZS,
		"net_uzs":          salesUZS - refundedUZS,
	})
}

func sumRefunds(session *gocql.Session, from, to time.Time) int64 {
	iter := session.Query(`SELECT amount_uzs, created_at FROM refunds`).Iter()
	var (
		amount    int64
		createdAt time.Time
		total     int64
	)
	for iter.Scan(&amount, &createdAt) {
		if createdAt.Before(from) || !createdAt.Before(to) {
			continue
		}
		total += amount
	}
	iter.Close()
	return total
}
