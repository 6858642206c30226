package product

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"vegas_crm_backend/internal/cache"
	"vegas_crm_backend/internal/database"
	"vegas_crm_backend/internal/models"
	"vegas_crm_backend/internal/services"
)

//
// 📦 PATCH /api/products/:id/stock
//
// Manual stock changes: deliveries ("restock") and corrections
// ("adjustment"). Sales and returns never come through here, they move
// stock on the order paths.
//
func UpdateStock(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var input struct {
		Stock  *int   `json:"stock" binding:"required"`
		Type   string `json:"type"`
		Reason string `json:"reason"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	if *input.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock cannot be negative"})
		return
	}
	if input.Type == "" {
		input.Type = "adjustment"
	}
	if input.Type != "restock" && input.Type != "adjustment" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Type must be 'restock' or 'adjustment'"})
		return
	}

	product, err := cache.FetchProduct(productID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	if err := services.ApplyStockChange(product, *input.Stock, input.Type, input.Reason, nil, c.GetString("user_id")); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Stock update error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"product_id": productID.String(),
		"prev_stock": product.Stock,
		"stock":      *input.Stock,
		"type":       input.Type,
	})
}

//
// 📜 GET /api/products/:id/movements
//
func GetStockMovements(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database unavailable"})
		return
	}

	iter := session.Query(`SELECT movement_id, product_id, type, quantity, prev_stock, new_stock, reason, order_id, user_id, created_at
		FROM stock_movements WHERE product_id = ? ALLOW FILTERING`, productID).Iter()

	movements := []models.StockMovement{}
	var (
		m       models.StockMovement
		orderID gocql.UUID
	)
	for iter.Scan(&m.ID, &m.ProductID, &m.Type, &m.Quantity, &m.PrevStock, &m.NewStock,
		&m.Reason, &orderID, &m.UserID, &m.CreatedAt) {
		move := m
		move.OrderID = nil
		if orderID != (gocql.UUID{}) {
			oid := orderID
			move.OrderID = &oid
		}
		movements = append(movements, move)
		orderID = gocql.UUID{}
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Movement read error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"movements": movements, "count": len(movements)})
}

//
// 🚨 GET /api/stock/alerts
//
// Unresolved low-stock and out-of-stock alerts for the owner dashboard.
//
func GetStockAlerts(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database unavailable"})
		return
	}

	iter := session.Query(`SELECT alert_id, product_id, product_name, current_stock, threshold_stock, alert_type, is_resolved, created_at
		FROM stock_alerts`).Iter()

	alerts := []models.StockAlert{}
	var a models.StockAlert
	for iter.Scan(&a.ID, &a.ProductID, &a.ProductName, &a.CurrentStock, &a.ThresholdStock,
		&a.AlertType, &a.IsResolved, &a.CreatedAt) {
		if a.IsResolved {
			continue
		}
		alerts = append(alerts, a)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Alert read error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"alerts": alerts, "count": len(alerts)})
}

//
// ✅ PATCH /api/stock/alerts/:id/resolve
//
func ResolveStockAlert(c *gin.Context) {
	alertID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid alert ID"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database unavailable"})
		return
	}

	if err := session.Query(`UPDATE stock_alerts SET is_resolved = true WHERE alert_id = ?`, alertID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Alert update error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Alert resolved"})
}
