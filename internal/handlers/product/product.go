package product

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"vegas_crm_backend/internal/cache"
	"vegas_crm_backend/internal/database"
	"vegas_crm_backend/internal/models"
	"vegas_crm_backend/internal/pos"
	"vegas_crm_backend/internal/services"
)

const allProductsCacheTTL = 5 * time.Minute

//
// 📦 GET /api/products
//
// The full catalog, cached as one blob: the register front-end pulls
// this on startup and after every cache invalidation.
//
func GetProducts(c *gin.Context) {
	ctx := context.Background()

	if data, err := database.Redis.Get(ctx, "products:all").Result(); err == nil {
		c.Data(http.StatusOK, "application/json", []byte(data))
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database unavailable"})
		return
	}

	iter := session.Query(`SELECT product_id, name, barcode, price_minor, currency, stock, low_stock_threshold,
		category_id, image_urls, discount_percent, discount_expires_at, is_active, created_at, updated_at
		FROM products`).Iter()

	products := []models.Product{}
	var (
		p               models.Product
		currency        string
		discountPercent int
		discountExpires time.Time
	)
	for iter.Scan(&p.ID, &p.Name, &p.Barcode, &p.PriceMinor, &currency, &p.Stock, &p.LowStockThreshold,
		&p.CategoryID, &p.ImageURLs, &discountPercent, &discountExpires, &p.IsActive, &p.CreatedAt, &p.UpdatedAt) {
		prod := p
		prod.Currency = pos.Currency(currency)
		prod.DiscountPercent = nil
		prod.DiscountExpiresAt = nil
		if discountPercent > 0 && !discountExpires.IsZero() {
			pct, exp := discountPercent, discountExpires
			prod.DiscountPercent = &pct
			prod.DiscountExpiresAt = &exp
		}
		products = append(products, prod)
		p.ImageURLs = nil
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Product read error"})
		return
	}

	payload, _ := json.Marshal(gin.H{"products": products, "count": len(products)})
	database.Redis.Set(ctx, "products:all", payload, allProductsCacheTTL)

	c.Data(http.StatusOK, "application/json", payload)
}

//
// 🔍 GET /api/products/:id
//
func GetProduct(c *gin.Context) {
	product, err := cache.GetProductFromCache(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	c.JSON(http.StatusOK, product)
}

//
// ➕ POST /api/products
//
func CreateProduct(c *gin.Context) {
	var input struct {
		Name              string `json:"name" binding:"required"`
		Barcode           string `json:"barcode"`
		PriceMinor        int64  `json:"price_minor" binding:"required"`
		Currency          string `json:"currency" binding:"required"`
		Stock             int    `json:"stock"`
		LowStockThreshold int    `json:"low_stock_threshold"`
		CategoryID        string `json:"category_id"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	if input.Currency != string(pos.UZS) && input.Currency != string(pos.USD) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Currency must be UZS or USD"})
		return
	}
	if input.PriceMinor <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be positive"})
		return
	}
	if input.Stock < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Stock cannot be negative"})
		return
	}

	var categoryID gocql.UUID
	if input.CategoryID != "" {
		var err error
		categoryID, err = gocql.ParseUUID(input.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return
		}
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database unavailable"})
		return
	}

	now := time.Now()
	product := models.Product{
		ID:                gocql.TimeUUID(),
		Name:              input.Name,
		Barcode:           input.Barcode,
		PriceMinor:        input.PriceMinor,
		Currency:          pos.Currency(input.Currency),
		Stock:             input.Stock,
		LowStockThreshold: input.LowStockThreshold,
		CategoryID:        categoryID,
		IsActive:          true,
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = session.Query(`INSERT INTO products (product_id, name, barcode, price_minor, currency, stock, low_stock_threshold,
		category_id, image_urls, discount_percent, discount_expires_at, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, 0, ?, true, ?, ?)`,
		product.ID, product.Name, product.Barcode, product.PriceMinor, string(product.Currency),
		product.Stock, product.LowStockThreshold, product.CategoryID, []string{}, time.Time{},
		product.CreatedAt, product.UpdatedAt).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Product creation error"})
		return
	}

	cache.InvalidateProductCache(product.ID.String())
	services.IndexProduct(product)

	c.JSON(http.StatusCreated, product)
}

//
// ✏️ PUT /api/products/:id
//
func UpdateProduct(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	product, err := cache.FetchProduct(productID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	var input struct {
		Name              *string `json:"name"`
		Barcode           *string `json:"barcode"`
		PriceMinor        *int64  `json:"price_minor"`
		Currency          *string `json:"currency"`
		LowStockThreshold *int    `json:"low_stock_threshold"`
		CategoryID        *string `json:"category_id"`
		IsActive          *bool   `json:"is_active"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	if input.Name != nil {
		product.Name = *input.Name
	}
	if input.Barcode != nil {
		product.Barcode = *input.Barcode
	}
	if input.PriceMinor != nil {
		if *input.PriceMinor <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Price must be positive"})
			return
		}
		product.PriceMinor = *input.PriceMinor
	}
	if input.Currency != nil {
		if *input.Currency != string(pos.UZS) && *input.Currency != string(pos.USD) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Currency must be UZS or USD"})
			return
		}
		product.Currency = pos.Currency(*input.Currency)
	}
	if input.LowStockThreshold != nil {
		product.LowStockThreshold = *input.LowStockThreshold
	}
	if input.CategoryID != nil {
		categoryID, err := gocql.ParseUUID(*input.CategoryID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
			return
		}
		product.CategoryID = categoryID
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	product.UpdatedAt = time.Now()

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database unavailable"})
		return
	}

	err = session.Query(`UPDATE products SET name = ?, barcode = ?, price_minor = ?, currency = ?, low_stock_threshold = ?,
		category_id = ?, is_active = ?, updated_at = ? WHERE product_id = ?`,
		product.Name, product.Barcode, product.PriceMinor, string(product.Currency),
		product.LowStockThreshold, product.CategoryID, product.IsActive, product.UpdatedAt, product.ID).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Product update error"})
		return
	}

	cache.InvalidateProductCache(product.ID.String())
	if product.IsActive {
		services.IndexProduct(*product)
	} else {
		services.RemoveProductFromIndex(product.ID.String())
	}

	c.JSON(http.StatusOK, product)
}

//
// 🗑️ DELETE /api/products/:id
//
// Soft delete: the row stays for the order history, it just stops
// being sellable.
//
func DeleteProduct(c *gin.Context) {
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

	err = session.Query(`UPDATE products SET is_active = false, updated_at = ? WHERE product_id = ?`,
		time.Now(), productID).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Product delete error"})
		return
	}

	cache.InvalidateProductCache(productID.String())
	services.RemoveProductFromIndex(productID.String())

	c.JSON(http.StatusOK, gin.H{"message": "Product deactivated"})
}
