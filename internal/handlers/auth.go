package handlers

import (
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"vegas_crm_backend/internal/cache"
	"vegas_crm_backend/internal/database"
	"vegas_crm_backend/internal/models"
	"vegas_crm_backend/internal/utils"
)

// Register creates a staff account. Only admins reach this endpoint;
// the register itself never self-registers.
func Register(c *gin.Context) {
	var input struct {
		Name     string `json:"name" binding:"required"`
		Email    string `json:"email" binding:"required,email"`
		Password string `json:"password" binding:"required,min=8"`
		Role     string `json:"role" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data: " + err.Error()})
		return
	}

	if !models.ValidRole(input.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown role: " + input.Role})
		return
	}
	// only the owner can mint another owner
	if input.Role == models.RoleOwner && c.GetString("role") != models.RoleOwner {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the owner can create owner accounts"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
		return
	}

	if _, err := database.UserIDByEmail(email); err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "An account with this email already exists"})
		return
	}

	hash, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Password hashing error"})
		return
	}

	userID := gocql.TimeUUID()
	now := time.Now()

	if err := session.Query(`INSERT INTO users (user_id, email, password, name, role, provider, is_active, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		userID, email, hash, input.Name, input.Role, "local", true, now, now).Exec(); err != nil {
		log.Printf("❌ User creation error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "User creation error"})
		return
	}

	if err := session.Query("INSERT INTO users_by_email (email, user_id) VALUES (?, ?)", email, userID).Exec(); err != nil {
		log.Printf("⚠️ users_by_email index error: %v", err)
	}

	log.Printf("✅ Staff account created: %s (%s)", email, input.Role)
	c.JSON(http.StatusCreated, gin.H{
		"user_id": userID.String(),
		"email":   email,
		"role":    input.Role,
	})
}

// Login checks the password and hands back a JWT with the role claim.
func Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))

	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
		return
	}

	userID, err := database.UserIDByEmail(email)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	var (
		storedHash, name, role string
		isActive               bool
	)
	if err := session.Query("SELECT password, name, role, is_active FROM users WHERE user_id = ?", userID).
		Scan(&storedHash, &name, &role, &isActive); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	if !isActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "This account has been deactivated"})
		return
	}

	ok, err := utils.VerifyPassword(input.Password, storedHash)
	if err != nil || !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid email or password"})
		return
	}

	user := models.User{ID: userID.String(), Email: email, Name: name, Role: role}
	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": token,
		"user":  user,
	})
}

// Me returns the authenticated staff profile.
func Me(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	user, err := cache.GetUserFromCache(userID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, user)
}
