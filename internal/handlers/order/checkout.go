package order

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"vegas_crm_backend/internal/cache"
	"vegas_crm_backend/internal/database"
	"vegas_crm_backend/internal/exchange"
	cartstore "vegas_crm_backend/internal/handlers/cart"
	"vegas_crm_backend/internal/models"
	"vegas_crm_backend/internal/pos"
	"vegas_crm_backend/internal/services"
	"vegas_crm_backend/internal/utils"
)

//
// 🧾 POST /api/orders/checkout
//
// Turns the seller's cart into a draft order. This is where prices are
// frozen: the order items carry the effective and pre-discount unit
// prices as they stood at this moment, and later product edits never
// touch them. Stock is decremented here too — the authoritative check
// against live ScyllaDB rows, since the limits baked into the cart may
// be stale by the time the seller hits "checkout".
//
func Checkout(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	ctx := context.Background()
	cart := cartstore.LoadCart(ctx, userID)
	if cart.IsEmpty() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Cart is empty"})
		return
	}

	// authoritative stock check — first sale to commit wins
	cartstore.RefreshStockLimits(cart)
	if issues := cart.Validate(); len(issues) > 0 {
		cartstore.SaveCart(ctx, userID, cart)
		c.JSON(http.StatusConflict, gin.H{
			"error":  "Stock changed, please review the cart",
			"issues": issues,
		})
		return
	}

	rate := exchange.GetCurrentRate(ctx)
	totals, err := pos.ComputeTotals(cart, rate, pos.SystemClock)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Totals computation error: " + err.Error()})
		return
	}

	user, err := cache.GetUserFromCache(userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unknown user"})
		return
	}

	now := time.Now()
	items := make([]models.OrderItem, 0, cart.Len())
	for _, li := range cart.Items() {
		unit := li.EffectiveUnitMinor(now)
		original := li.UnitPriceMinor
		items = append(items, models.OrderItem{
			ProductID:          li.ProductID,
			Name:               li.Name,
			Quantity:           li.Quantity,
			Currency:           li.Currency,
			PriceMinor:         &unit,
			OriginalPriceMinor: &original,
		})
	}

	order := models.Order{
		ID:          gocql.TimeUUID(),
		Number:      nextOrderNumber(ctx),
		SellerID:    userID,
		SellerName:  user.Name,
		Status:      models.StatusDraft,
		SubtotalUZS: totals.SubtotalUZS,
		DiscountUZS: totals.DiscountUZS,
		TotalUZS:    totals.FinalUZS,
		TotalUSD:    totals.TotalUSD,
		Rate:        totals.Rate,
		Items:       items,
		CreatedAt:   now,
	}

	if err := insertOrder(order); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Order creation error"})
		return
	}

	// decrement stock line by line, each with a sale movement
	for _, li := range cart.Items() {
		pid, err := gocql.ParseUUID(li.ProductID)
		if err != nil {
			continue
		}
		product, err := cache.FetchProduct(pid)
		if err != nil {
			log.Printf("⚠️ Stock decrement skipped, product %s unreadable: %v", li.ProductID, err)
			continue
		}
		orderID := order.ID
		if err := services.ApplyStockChange(product, product.Stock-li.Quantity, "sale",
			"Order "+order.Number, &orderID, userID); err != nil {
			log.Printf("❌ Stock decrement error (product %s): %v", li.ProductID, err)
		}
	}

	database.Redis.Del(ctx, "cart:"+userID)
	utils.PublishEvent("order_created", gin.H{
		"order_id":  order.ID.String(),
		"number":    order.Number,
		"seller":    order.SellerName,
		"total_uzs": order.TotalUZS,
	})

	c.JSON(http.StatusCreated, order)
}

// nextOrderNumber hands out sequential receipt numbers via Redis. The
// counter survives restarts; if Redis is briefly away we fall back to a
// time-derived number rather than refusing the sale.
func nextOrderNumber(ctx context.Context) string {
	seq, err := database.Redis.Incr(ctx, "order:seq").Result()
	if err != nil {
		return fmt.Sprintf("T%d", time.Now().Unix())
	}
	return fmt.Sprintf("%06d", seq)
}

func insertOrder(o models.Order) error {
	session, err := database.GetOrdersSession()
	if err != nil {
		return err
	}

	itemsJSON, err := json.Marshal(o.Items)
	if err != nil {
		return err
	}

	return session.Query(`INSERT INTO orders (order_id, number, seller_id, seller_name, status, subtotal_uzs, discount_uzs, total_uzs, total_usd, rate, items, created_at, completed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		o.ID, o.Number, o.SellerID, o.SellerName, o.Status, o.SubtotalUZS, o.DiscountUZS,
		o.TotalUZS, o.TotalUSD, o.Rate, string(itemsJSON), o.CreatedAt, o.CompletedAt).Exec()
}
