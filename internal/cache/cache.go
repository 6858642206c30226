package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gocql/gocql"
	"github.com/google/uuid"

	"vegas_crm_backend/internal/database"
	"vegas_crm_backend/internal/models"
	"vegas_crm_backend/internal/pos"
)

const (
	UserCacheTTL    = 5 * time.Minute
	ProductCacheTTL = 10 * time.Minute
)

// GetUserFromCache reads a user from Redis, falling back to ScyllaDB.
func GetUserFromCache(userID string) (*models.User, error) {
	ctx := context.Background()
	key := "user:" + userID

	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var user models.User
		if json.Unmarshal([]byte(data), &user) == nil {
			return &user, nil
		}
	}

	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, err
	}

	var (
		email, name, role, provider string
		isActive                    bool
	)
	err = session.Query(`SELECT email, name, role, provider, is_active FROM users WHERE user_id = ?`,
		gocql.UUID(uid)).Scan(&email, &name, &role, &provider, &isActive)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:       userID,
		Email:    email,
		Name:     name,
		Role:     role,
		Provider: provider,
		IsActive: isActive,
	}

	jsonData, _ := json.Marshal(user)
	database.Redis.Set(ctx, key, jsonData, UserCacheTTL)

	return user, nil
}

func InvalidateUserCache(userID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "user:"+userID)
}

// GetProductFromCache reads a product from Redis, falling back to
// ScyllaDB. Cart-add hits this on every scan at the register.
func GetProductFromCache(productID string) (*models.Product, error) {
	ctx := context.Background()
	key := "product:" + productID

	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var p models.Product
		if json.Unmarshal([]byte(data), &p) == nil {
			return &p, nil
		}
	}

	pid, err := uuid.Parse(productID)
	if err != nil {
		return nil, err
	}

	p, err := FetchProduct(gocql.UUID(pid))
	if err != nil {
		return nil, err
	}

	jsonData, _ := json.Marshal(p)
	database.Redis.Set(ctx, key, jsonData, ProductCacheTTL)

	return p, nil
}

func InvalidateProductCache(productID string) {
	ctx := context.Background()
	database.Redis.Del(ctx, "product:"+productID)
	database.Redis.Del(ctx, "products:all")
}

// FetchProduct reads one product row straight from ScyllaDB, bypassing
// the cache. Checkout uses this for the authoritative stock check.
func FetchProduct(productID gocql.UUID) (*models.Product, error) {
	query, err := database.ProductByIDQuery(productID)
	if err != nil {
		return nil, err
	}

	var (
		p               models.Product
		currency        string
		discountPercent int
		discountExpires time.Time
	)
	err = query.Scan(
		&p.ID, &p.Name, &p.Barcode, &p.PriceMinor, &currency, &p.Stock, &p.LowStockThreshold,
		&p.CategoryID, &p.ImageURLs, &discountPercent, &discountExpires, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}

	p.Currency = pos.Currency(currency)
	if discountPercent > 0 && !discountExpires.IsZero() {
		p.DiscountPercent = &discountPercent
		p.DiscountExpiresAt = &discountExpires
	}
	return &p, nil
}
