package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"vegas_crm_backend/internal/models"
)

// RequireRole lets a request through only when the JWT role is at least
// the required one (owner > admin > seller > cashier).
func RequireRole(required string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString("role")
		if !models.RoleAtLeast(role, required) {
			c.JSON(http.StatusForbidden, gin.H{"error": "Insufficient role for this action"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireOwner guards the owner-only endpoints (role changes, user
// deactivation).
func RequireOwner(c *gin.Context) {
	if c.GetString("role") != models.RoleOwner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Owner access required"})
		c.Abort()
		return
	}
	c.Next()
}

// RequireAdmin guards the admin dashboard endpoints.
func RequireAdmin(c *gin.Context) {
	RequireRole(models.RoleAdmin)(c)
}
