package product

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"vegas_crm_backend/internal/database"
	"vegas_crm_backend/internal/models"
)

//
// 📁 GET /api/categories
//
func GetCategories(c *gin.Context) {
	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database unavailable"})
		return
	}

	iter := session.Query(`SELECT category_id, name, created_at, updated_at FROM categories`).Iter()

	categories := []models.Category{}
	var cat models.Category
	for iter.Scan(&cat.ID, &cat.Name, &cat.CreatedAt, &cat.UpdatedAt) {
		categories = append(categories, cat)
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Category read error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"categories": categories})
}

//
// ➕ POST /api/categories
//
func CreateCategory(c *gin.Context) {
	var input struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database unavailable"})
		return
	}

	now := time.Now()
	cat := models.Category{
		ID:        gocql.TimeUUID(),
		Name:      input.Name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err = session.Query(`INSERT INTO categories (category_id, name, created_at, updated_at) VALUES (?, ?, ?, ?)`,
		cat.ID, cat.Name, cat.CreatedAt, cat.UpdatedAt).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Category creation error"})
		return
	}

	c.JSON(http.StatusCreated, cat)
}

//
// ✏️ PUT /api/categories/:id
//
func UpdateCategory(c *gin.Context) {
	categoryID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	var input struct {
		Name string `json:"name" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database unavailable"})
		return
	}

	err = session.Query(`UPDATE categories SET name = ?, updated_at = ? WHERE category_id = ?`,
		input.Name, time.Now(), categoryID).Exec()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Category update error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category updated"})
}

//
// 🗑️ DELETE /api/categories/:id
//
func DeleteCategory(c *gin.Context) {
	categoryID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid category ID"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database unavailable"})
		return
	}

	if err := session.Query(`DELETE FROM categories WHERE category_id = ?`, categoryID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Category delete error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Category deleted"})
}
