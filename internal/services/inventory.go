package services

import (
	"log"
	"os"
	"time"

	"github.com/gocql/gocql"

	"vegas_crm_backend/internal/cache"
	"vegas_crm_backend/internal/database"
	"vegas_crm_backend/internal/models"
	"vegas_crm_backend/internal/utils"
)

// ApplyStockChange writes the new stock level for a product and records
// the movement in the audit trail. Every stock change in the system —
// sales, returns, restocks, manual adjustments — goes through here, so
// the movements table is a complete history.
func ApplyStockChange(product *models.Product, newStock int, movementType, reason string, orderID *gocql.UUID, userID string) error {
	session, err := database.GetProductsSession()
	if err != nil {
		return err
	}

	now := time.Now()
	if err := database.UpdateProductStock(newStock, now, product.ID); err != nil {
		return err
	}

	movement := models.StockMovement{
		ID:        gocql.TimeUUID(),
		ProductID: product.ID,
		Type:      movementType,
		Quantity:  newStock - product.Stock,
		PrevStock: product.Stock,
		NewStock:  newStock,
		Reason:    reason,
		OrderID:   orderID,
		UserID:    userID,
		CreatedAt: now,
	}
	err = session.Query(`INSERT INTO stock_movements (movement_id, product_id, type, quantity, prev_stock, new_stock, reason, order_id, user_id, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		movement.ID, movement.ProductID, movement.Type, movement.Quantity, movement.PrevStock,
		movement.NewStock, movement.Reason, movement.OrderID, movement.UserID, movement.CreatedAt).Exec()
	if err != nil {
		// the stock write already landed; log the audit gap loudly
		log.Printf("❌ Stock movement insert error (product %s): %v", product.ID, err)
	}

	cache.InvalidateProductCache(product.ID.String())
	utils.PublishEvent("stock_changed", map[string]interface{}{
		"product_id": product.ID.String(),
		"name":       product.Name,
		"stock":      newStock,
		"type":       movementType,
	})

	checkLowStock(session, product, newStock)
	return nil
}

// checkLowStock raises an alert (and emails the owner) when stock
// crosses the product's threshold downward.
func checkLowStock(session *gocql.Session, product *models.Product, newStock int) {
	if product.LowStockThreshold <= 0 || newStock > product.LowStockThreshold {
		return
	}
	// only alert on the crossing, not on every sale below the line
	if product.Stock <= product.LowStockThreshold && newStock != 0 {
		return
	}

	alertType := "low_stock"
	if newStock == 0 {
		alertType = "out_of_stock"
	}

	alert := models.StockAlert{
		ID:             gocql.TimeUUID(),
		ProductID:      product.ID,
		ProductName:    product.Name,
		CurrentStock:   newStock,
		ThresholdStock: product.LowStockThreshold,
		AlertType:      alertType,
		CreatedAt:      time.Now(),
	}
	err := session.Query(`INSERT INTO stock_alerts (alert_id, product_id, product_name, current_stock, threshold_stock, alert_type, is_resolved, created_at)
		VALUES (?, ?, ?, ?, ?, ?, false, ?)`,
		alert.ID, alert.ProductID, alert.ProductName, alert.CurrentStock,
		alert.ThresholdStock, alert.AlertType, alert.CreatedAt).Exec()
	if err != nil {
		log.Printf("❌ Stock alert insert error: %v", err)
		return
	}

	utils.PublishEvent("low_stock", alert)

	if ownerEmail := os.Getenv("OWNER_ALERT_EMAIL"); ownerEmail != "" {
		go func() {
			if err := utils.SendLowStockAlertEmail(ownerEmail, alert); err != nil {
				log.Printf("⚠️ Low stock email error: %v", err)
			}
		}()
	}
}
