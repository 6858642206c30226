package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/markbates/goth/gothic"

	"vegas_crm_backend/internal/config"
	"vegas_crm_backend/internal/database"
	"vegas_crm_backend/internal/models"
	"vegas_crm_backend/internal/utils"
)

type ctxKey string

const ProviderKey ctxKey = "provider"

func BeginAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No provider specified"})
		return
	}

	c.Request = c.Request.WithContext(
		context.WithValue(c.Request.Context(), ProviderKey, provider),
	)

	gothic.BeginAuthHandler(c.Writer, c.Request)
}

// CallbackAuth completes the OAuth dance. Google sign-in is only an
// alternative front door: the email must already belong to a staff
// account, it never creates one.
func CallbackAuth(c *gin.Context) {
	provider := c.Param("provider")
	if provider == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No provider specified"})
		return
	}

	c.Request = c.Request.WithContext(
		context.WithValue(c.Request.Context(), ProviderKey, provider),
	)

	gothUser, err := gothic.CompleteUserAuth(c.Writer, c.Request)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	issueStaffToken(c, strings.ToLower(gothUser.Email))
}

// GoogleTokenSignIn is the tablet flow: the register app does the
// Google sign-in natively and posts the resulting ID token here. Same
// staff-only rule as the browser callback.
func GoogleTokenSignIn(c *gin.Context) {
	var body struct {
		IDToken string `json:"id_token"`
	}
	if err := c.ShouldBindJSON(&body); err != nil || body.IDToken == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing id_token"})
		return
	}

	resp, err := http.Get("https://oauth2.googleapis.com/tokeninfo?id_token=" + url.QueryEscape(body.IDToken))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Google verification error"})
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Google token"})
		return
	}

	var payload struct {
		Email    string `json:"email"`
		Audience string `json:"aud"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Google response decode error"})
		return
	}

	if payload.Audience == "" || payload.Audience != config.GoogleOAuthConfig.ClientID {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized client ID"})
		return
	}

	issueStaffToken(c, strings.ToLower(payload.Email))
}

// issueStaffToken turns a verified Google email into a JWT, provided a
// live staff account carries that email.
func issueStaffToken(c *gin.Context, email string) {
	session, err := database.GetUsersSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database connection error"})
		return
	}

	userID, err := database.UserIDByEmail(email)
	if err != nil {
		c.JSON(http.StatusForbidden, gin.H{"error": "No staff account for this Google identity"})
		return
	}

	var (
		name, role string
		isActive   bool
	)
	if err := session.Query("SELECT name, role, is_active FROM users WHERE user_id = ?", userID).
		Scan(&name, &role, &isActive); err != nil || !isActive {
		c.JSON(http.StatusForbidden, gin.H{"error": "This account has been deactivated"})
		return
	}

	user := models.User{ID: userID.String(), Email: email, Name: name, Role: role}
	token, err := utils.GenerateJWT(user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Token generation error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token, "user": user})
}
