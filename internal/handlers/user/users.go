package user

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"vegas_crm_backend/internal/cache"
	"vegas_crm_backend/internal/database"
	"vegas_crm_backend/internal/models"
)

//
// 👥 GET /api/users
//
func GetUsers(c *gin.Context) {
	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database unavailable"})
		return
	}

	iter := session.Query(`SELECT user_id, email, name, role, provider, is_active FROM users`).Iter()

	users := []models.User{}
	var (
		uid                         gocql.UUID
		email, name, role, provider string
		isActive                    bool
	)
	for iter.Scan(&uid, &email, &name, &role, &provider, &isActive) {
		users = append(users, models.User{
			ID:       uid.String(),
			Email:    email,
			Name:     name,
			Role:     role,
			Provider: provider,
			IsActive: isActive,
		})
	}
	if err := iter.Close(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User read error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"users": users, "count": len(users)})
}

//
// 🎖️ PATCH /api/users/:id/role
//
// Owner-only. Nobody can change their own role, and the owner role is
// never granted here — ownership transfers happen outside the app.
//
func UpdateUserRole(c *gin.Context) {
	targetID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if targetID.String() == c.GetString("user_id") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot change your own role"})
		return
	}

	var input struct {
		Role string `json:"role" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	if !models.ValidRole(input.Role) || input.Role == models.RoleOwner {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role must be admin, seller or cashier"})
		return
	}

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database unavailable"})
		return
	}

	if err := session.Query(`UPDATE users SET role = ? WHERE user_id = ?`, input.Role, targetID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Role update error"})
		return
	}

	cache.InvalidateUserCache(targetID.String())
	c.JSON(http.StatusOK, gin.H{"user_id": targetID.String(), "role": input.Role})
}

//
// 🔒 PATCH /api/users/:id/deactivate
//
// Deactivation instead of deletion: the user's past sales keep their
// seller attribution. A deactivated user fails login and every
// authenticated request as soon as their cache entry expires.
//
func DeactivateUser(c *gin.Context) {
	targetID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	if targetID.String() == c.GetString("user_id") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "You cannot deactivate yourself"})
		return
	}

	setActive(c, targetID, false)
}

//
// 🔓 PATCH /api/users/:id/activate
//
func ActivateUser(c *gin.Context) {
	targetID, err := gocql.ParseUUID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user ID"})
		return
	}

	setActive(c, targetID, true)
}

func setActive(c *gin.Context, targetID gocql.UUID, active bool) {
	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database unavailable"})
		return
	}

	target, err := cache.GetUserFromCache(targetID.String())
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	if target.Role == models.RoleOwner {
		c.JSON(http.StatusForbidden, gin.H{"error": "The owner account cannot be deactivated"})
		return
	}

	if err := session.Query(`UPDATE users SET is_active = ? WHERE user_id = ?`, active, targetID).Exec(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User update error"})
		return
	}

	cache.InvalidateUserCache(targetID.String())
	c.JSON(http.StatusOK, gin.H{"user_id": targetID.String(), "is_active": active})
}
