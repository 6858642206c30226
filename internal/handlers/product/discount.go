package product

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"vegas_crm_backend/internal/cache"
	"vegas_crm_backend/internal/database"
	"vegas_crm_backend/internal/services"
	"vegas_crm_backend/internal/utils"
)

//
// 🏷️ PUT /api/products/:id/discount
//
// Sets a timed percentage discount. Open carts pick it up on the next
// add or refresh; orders already checked out keep their frozen prices.
//
func SetDiscount(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var input struct {
		Percent   int       `json:"percent" binding:"required"`
		ExpiresAt time.Time `json:"expires_at" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	if input.Percent < 1 || input.Percent > 99 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Discount percent must be between 1 and 99"})
		return
	}
	if !input.ExpiresAt.After(time.Now()) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Expiry must be in the future"})
		return
	}

	product, err := cache.FetchProduct(productID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database unavailable"})
		return
	}

	err = session.Query(`UPDATE products SET discount_percent = ?, discount_expires_at = ?, updated_at = ? WHERE product_id = ?`,
		input.Percent, input.ExpiresAt, time.Now(), productID).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Discount update error"})
		return
	}

	cache.InvalidateProductCache(productID.String())
	utils.PublishEvent("discount_set", gin.H{
		"product_id": productID.String(),
		"name":       product.Name,
		"percent":    input.Percent,
		"expires_at": input.ExpiresAt,
	})

	product.DiscountPercent = &input.Percent
	product.DiscountExpiresAt = &input.ExpiresAt
	services.IndexProduct(*product)

	c.JSON(http.StatusOK, product)
}

//
// 🚫 DELETE /api/products/:id/discount
//
func ClearDiscount(c *gin.Context) {
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

	err = session.Query(`UPDATE products SET discount_percent = 0, discount_expires_at = ?, updated_at = ? WHERE product_id = ?`,
		time.Time{}, time.Now(), productID).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Discount update error"})
		return
	}

	cache.InvalidateProductCache(productID.String())
	c.JSON(http.StatusOK, gin.H{"message": "Discount removed"})
}
