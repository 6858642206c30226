package order

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"vegas_crm_backend/internal/cache"
	"vegas_crm_backend/internal/database"
	"vegas_crm_backend/internal/models"
	"vegas_crm_backend/internal/services"
	"vegas_crm_backend/internal/utils"
)

//
// 🔄 PATCH /api/orders/:id/status
//
// The one write path for the order lifecycle. Legal moves only:
// draft → completed | cancelled, completed → fully_refunded |
// partially_refunded. Totals are persisted exactly once, on the
// draft → completed edge, at the rate in effect at that moment —
// after that the order is a historical record and nothing recomputes
// it.
//
func UpdateOrderStatus(c *gin.Context) {
	orderID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order ID"})
		return
	}

	var input struct {
		Status    string `json:"status" binding:"required"`
		Reason    string `json:"reason"`
		AmountUZS int64  `json:"amount_uzs"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	order, err := fetchOrder(orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
		return
	}

	if !models.CanTransition(order.Status, input.Status) {
		c.JSON(http.StatusConflict, gin.H{
			"error": "Cannot move order from '" + order.Status + "' to '" + input.Status + "'",
		})
		return
	}

	// refunds are a manager decision, not a register action
	if input.Status == models.StatusFullyRefunded || input.Status == models.StatusPartiallyRefunded {
		if !models.RoleAtLeast(c.GetString("role"), models.RoleAdmin) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Refunds require admin rights"})
			return
		}
	}

	switch input.Status {
	case models.StatusCompleted:
		completeOrder(c, order)
	case models.StatusCancelled:
		cancelOrder(c, order, input.Reason)
	case models.StatusFullyRefunded:
		refundOrder(c, order, order.TotalUZS, input.Reason, false)
	case models.StatusPartiallyRefunded:
		if input.AmountUZS <= 0 || input.AmountUZS >= order.TotalUZS {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Partial refund amount must be between 1 and the order total"})
			return
		}
		refundOrder(c, order, input.AmountUZS, input.Reason, true)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown status: " + input.Status})
	}
}

// completeOrder settles the sale: totals are repriced one last time at
// the current rate and written down for good.
func completeOrder(c *gin.Context, o *models.Order) {
	refreshDraftTotals(c, o)

	now := time.Now()
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database unavailable"})
		return
	}

	err = session.Query(`UPDATE orders SET status = ?, subtotal_uzs = ?, discount_uzs = ?, total_uzs = ?, total_usd = ?, rate = ?, completed_at = ? WHERE order_id = ?`,
		models.StatusCompleted, o.SubtotalUZS, o.DiscountUZS, o.TotalUZS, o.TotalUSD, o.Rate, now, o.ID).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Order update error"})
		return
	}

	o.Status = models.StatusCompleted
	o.CompletedAt = &now

	utils.PublishEvent("order_status", gin.H{
		"order_id":  o.ID.String(),
		"number":    o.Number,
		"status":    o.Status,
		"total_uzs": o.TotalUZS,
	})
	c.JSON(http.StatusOK, o)
}

// cancelOrder abandons a draft and puts its stock back on the shelf.
func cancelOrder(c *gin.Context, o *models.Order, reason string) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database unavailable"})
		return
	}

	if err := session.Query(`UPDATE orders SET status = ? WHERE order_id = ?`,
		models.StatusCancelled, o.ID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Order update error"})
		return
	}

	restoreStock(o, reason, c.GetString("user_id"))

	o.Status = models.StatusCancelled
	utils.PublishEvent("order_status", gin.H{
		"order_id": o.ID.String(),
		"number":   o.Number,
		"status":   o.Status,
	})
	c.JSON(http.StatusOK, o)
}

// refundOrder records the refund and, for a full refund, restocks the
// returned items. A partial refund is money-only: the goods the
// customer kept stay sold.
func refundOrder(c *gin.Context, o *models.Order, amountUZS int64, reason string, partial bool) {
	session, err := database.GetOrdersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database unavailable"})
		return
	}

	newStatus := models.StatusFullyRefunded
	if partial {
		newStatus = models.StatusPartiallyRefunded
	}

	refund := models.Refund{
		ID:        gocql.TimeUUID(),
		OrderID:   o.ID,
		AmountUZS: amountUZS,
		Reason:    reason,
		Partial:   partial,
		CreatedBy: c.GetString("user_id"),
		CreatedAt: time.Now(),
	}
	err = session.Query(`INSERT INTO refunds (refund_id, order_id, amount_uzs, reason, partial, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		refund.ID, refund.OrderID, refund.AmountUZS, refund.Reason, refund.Partial,
		refund.CreatedBy, refund.CreatedAt).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Refund record error"})
		return
	}

	if err := session.Query(`UPDATE orders SET status = ? WHERE order_id = ?`,
		newStatus, o.ID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Order update error"})
		return
	}

	if !partial {
		restoreStock(o, "Refund of order "+o.Number, c.GetString("user_id"))
	}

	o.Status = newStatus
	utils.PublishEvent("order_status", gin.H{
		"order_id":   o.ID.String(),
		"number":     o.Number,
		"status":     o.Status,
		"amount_uzs": amountUZS,
	})
	c.JSON(http.StatusOK, gin.H{"order": o, "refund": refund})
}

// restoreStock puts every item of the order back, one return movement
// per line.
func restoreStock(o *models.Order, reason string, userID string) {
	if reason == "" {
		reason = "Order " + o.Number + " cancelled"
	}
	for _, it := range o.Items {
		pid, err := gocql.ParseUUID(it.ProductID)
		if err != nil {
			continue
		}
		product, err := cache.FetchProduct(pid)
		if err != nil {
			log.Printf("⚠️ Stock restore skipped, product %s unreadable: %v", it.ProductID, err)
			continue
		}
		orderID := o.ID
		if err := services.ApplyStockChange(product, product.Stock+it.Quantity, "return",
			reason, &orderID, userID); err != nil {
			log.Printf("❌ Stock restore error (product %s): %v", it.ProductID, err)
		}
	}
}
