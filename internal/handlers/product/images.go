package product

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"vegas_crm_backend/internal/cache"
	"vegas_crm_backend/internal/database"
	"vegas_crm_backend/internal/services"
)

//
// 📤 POST /api/products/:id/images
//
func UploadImage(c *gin.Context) {
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

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing image file"})
		return
	}
	if file.Size > 10<<20 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Image too large (max 10 MB)"})
		return
	}

	url, err := services.UploadProductImage(productID.String(), file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Upload error"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database unavailable"})
		return
	}

	urls := append(product.ImageURLs, url)
	err = session.Query(`UPDATE products SET image_urls = ?, updated_at = ? WHERE product_id = ?`,
		urls, time.Now(), productID).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Product update error"})
		return
	}

	cache.InvalidateProductCache(productID.String())
	c.JSON(http.StatusOK, gin.H{"url": url, "image_urls": urls})
}

//
// 🗑️ DELETE /api/products/:id/images
//
func DeleteImage(c *gin.Context) {
	productID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
		return
	}

	var input struct {
		URL string `json:"url" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	product, err := cache.FetchProduct(productID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}

	urls := make([]string, 0, len(product.ImageURLs))
	found := false
	for _, u := range product.ImageURLs {
		if u == input.URL {
			found = true
			continue
		}
		urls = append(urls, u)
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not attached to this product"})
		return
	}

	if err := services.RemoveProductImage(input.URL); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Storage delete error"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database unavailable"})
		return
	}

	err = session.Query(`UPDATE products SET image_urls = ?, updated_at = ? WHERE product_id = ?`,
		urls, time.Now(), productID).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Product update error"})
		return
	}

	cache.InvalidateProductCache(productID.String())
	c.JSON(http.StatusOK, gin.H{"image_urls": urls})
}
