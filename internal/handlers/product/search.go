package product

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vegas_crm_backend/internal/services"
)

//
// 🔎 GET /api/products/search?q=
//
// Full-text search over name and barcode for the register's search box.
// Backed by Elasticsearch; exact barcode hits rank first so a scanner
// misread can be fixed by typing the code.
//
func Search(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing search query"})
		return
	}

	results, err := services.SearchProducts(query)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Search error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"results": results, "count": len(results)})
}
