package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/sessions"
	"github.com/markbates/goth"
	"github.com/markbates/goth/gothic"
	"github.com/markbates/goth/providers/google"

	"vegas_crm_backend/internal/config"
	"vegas_crm_backend/internal/database"
	"vegas_crm_backend/internal/exchange"
	"vegas_crm_backend/internal/routes"
)

func main() {
	config.Load()

	database.ConnectDatabases()

	warmupRedisCache()
	warmupExchangeRate()

	initOAuthProviders()

	r := gin.Default()
	r.Use(corsConfig())
	routes.RegisterRoutes(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Println("🚀 Vegas CRM server listening on port", port)
	r.Run(":" + port)
}

func corsConfig() gin.HandlerFunc {
	origins := os.Getenv("CORS_ORIGINS")
	if origins == "" {
		origins = "http://localhost:3000"
	}
	return cors.New(cors.Config{
		AllowOrigins:     strings.Split(origins, ","),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}

func initOAuthProviders() {
	sessionSecret := os.Getenv("SESSION_SECRET")
	if sessionSecret == "" {
		log.Println("⚠️ SESSION_SECRET missing, OAuth sign-in disabled")
		return
	}

	store := sessions.NewCookieStore([]byte(sessionSecret))
	store.MaxAge(86400 * 30)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 30,
		HttpOnly: true,
		Secure:   os.Getenv("GIN_MODE") == "release",
		SameSite: http.SameSiteLaxMode,
	}
	gothic.Store = store

	gothic.GetProviderName = func(req *http.Request) (string, error) {
		if provider := req.URL.Query().Get("provider"); provider != "" {
			return provider, nil
		}
		if provider := req.FormValue("provider"); provider != "" {
			return provider, nil
		}
		return "", errors.New("provider not found")
	}

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	googleClientID := os.Getenv("GOOGLE_CLIENT_ID")
	googleClientSecret := os.Getenv("GOOGLE_CLIENT_SECRET")
	if googleClientID == "" || googleClientSecret == "" {
		log.Println("⚠️ No OAuth provider configured")
		return
	}

	goth.UseProviders(google.New(
		googleClientID,
		googleClientSecret,
		baseURL+"/api/auth/google/callback",
	))
	log.Println("✅ Google OAuth enabled")
}

// warmupRedisCache pings Redis so the first sale does not pay the
// connection cost.
func warmupRedisCache() {
	ctx := context.Background()
	if err := database.Redis.Ping(ctx).Err(); err == nil {
		log.Println("✅ Redis cache warmed up")
	}
}

// warmupExchangeRate fetches today's rate at startup; the register
// then works off the session rate even if CBU goes quiet later.
func warmupExchangeRate() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	rate := exchange.GetCurrentRate(ctx)
	log.Printf("✅ Exchange rate for this session: %.2f UZS/USD", rate)
}
