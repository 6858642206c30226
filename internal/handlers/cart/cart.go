package cart

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"

	"vegas_crm_backend/internal/cache"
	"vegas_crm_backend/internal/database"
	"vegas_crm_backend/internal/exchange"
	"vegas_crm_backend/internal/pos"
)

const cartTTL = 30 * 24 * time.Hour

func cartKey(userID string) string { return "cart:" + userID }

// LoadCart rebuilds the seller's draft cart from its Redis copy. A
// missing key is just an empty cart.
func LoadCart(ctx context.Context, userID string) *pos.Cart {
	data, err := database.Redis.Get(ctx, cartKey(userID)).Result()
	if err != nil || data == "" {
		return pos.NewCart()
	}

	var items []pos.LineItem
	if err := json.Unmarshal([]byte(data), &items); err != nil {
		return pos.NewCart()
	}
	return pos.CartFromItems(items)
}

func SaveCart(ctx context.Context, userID string, c *pos.Cart) {
	jsonData, _ := json.Marshal(c.Items())
	database.Redis.Set(ctx, cartKey(userID), jsonData, cartTTL)
}

// respond returns the canonical cart payload: items plus totals at the
// current session rate, recomputed on every mutation.
func respond(c *gin.Context, status int, cart *pos.Cart) {
	rate := exchange.GetCurrentRate(context.Background())
	totals, err := pos.ComputeTotals(cart, rate, pos.SystemClock)
	if err != nil {
		// the rate layer always falls back, so this is a cart bug
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Totals computation error: " + err.Error()})
		return
	}

	c.JSON(status, gin.H{
		"items":  cart.Items(),
		"totals": totals,
	})
}

// writeCartError maps the POS error taxonomy onto HTTP statuses.
func writeCartError(c *gin.Context, err error) {
	var stockErr *pos.StockExceededError
	if errors.As(err, &stockErr) {
		c.JSON(http.StatusConflict, gin.H{
			"error":      stockErr.Error(),
			"product_id": stockErr.ProductID,
			"requested":  stockErr.Requested,
			"available":  stockErr.Available,
		})
		return
	}
	var vErr *pos.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Error(), "product_id": vErr.ProductID})
		return
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}

//
// 🟢 GET /api/cart
//
func GetCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	respond(c, http.StatusOK, LoadCart(context.Background(), userID))
}

//
// 🟢 POST /api/cart/add
//
func AddToCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var input struct {
		ProductID string `json:"productId" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}
	if input.Quantity == 0 {
		input.Quantity = 1 // a barcode scan adds one unit
	}
	if input.Quantity < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid quantity"})
		return
	}

	product, err := cache.GetProductFromCache(input.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
		return
	}
	if !product.IsActive {
		c.JSON(http.StatusNotFound, gin.H{"error": "Product is no longer sold"})
		return
	}

	ctx := context.Background()
	cart := LoadCart(ctx, userID)

	if err := cart.AddItem(product.LineItem(input.Quantity)); err != nil {
		writeCartError(c, err)
		return
	}

	SaveCart(ctx, userID, cart)
	respond(c, http.StatusOK, cart)
}

//
// 🟡 POST /api/cart/decrease/:productId
//
func DecreaseItem(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	ctx := context.Background()
	cart := LoadCart(ctx, userID)
	cart.DecreaseItem(c.Param("productId"))

	SaveCart(ctx, userID, cart)
	respond(c, http.StatusOK, cart)
}

//
// 🟡 PATCH /api/cart/quantity
//
func SetQuantity(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	var input struct {
		ProductID string `json:"productId" binding:"required"`
		Quantity  *int   `json:"quantity" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	ctx := context.Background()
	cart := LoadCart(ctx, userID)

	if err := cart.SetQuantity(input.ProductID, *input.Quantity); err != nil {
		writeCartError(c, err)
		return
	}

	SaveCart(ctx, userID, cart)
	respond(c, http.StatusOK, cart)
}

//
// ❌ DELETE /api/cart/:productId
//
func RemoveFromCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	ctx := context.Background()
	cart := LoadCart(ctx, userID)
	cart.RemoveItem(c.Param("productId"))

	SaveCart(ctx, userID, cart)
	respond(c, http.StatusOK, cart)
}

//
// 🧹 DELETE /api/cart/clear
//
func ClearCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	if err := database.Redis.Del(context.Background(), cartKey(userID)).Err(); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cart clear error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Cart cleared"})
}

//
// 💰 GET /api/cart/totals
//
// Just the money summary, recomputed at the current session rate. The
// register polls this while the seller scans.
//
func GetTotals(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	cart := LoadCart(context.Background(), userID)
	rate := exchange.GetCurrentRate(context.Background())
	totals, err := pos.ComputeTotals(cart, rate, pos.SystemClock)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Totals computation error: " + err.Error()})
		return
	}

	c.JSON(http.StatusOK, totals)
}

//
// 🔎 POST /api/cart/validate
//
// Re-reads authoritative stock for every line (stock may have moved
// under a concurrent sale) and reports per-item issues instead of a
// generic failure.
func ValidateCart(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
		return
	}

	ctx := context.Background()
	cart := LoadCart(ctx, userID)

	RefreshStockLimits(cart)

	issues := cart.Validate()
	SaveCart(ctx, userID, cart) // keep the refreshed limits

	c.JSON(http.StatusOK, gin.H{
		"valid":  len(issues) == 0,
		"issues": issues,
	})
}

// RefreshStockLimits pulls current stock for every cart line, bypassing
// the product cache. Checkout shares this with cart validation.
func RefreshStockLimits(cart *pos.Cart) {
	for _, li := range cart.Items() {
		id, err := gocql.ParseUUID(li.ProductID)
		if err != nil {
			cart.SetStockLimit(li.ProductID, 0)
			continue
		}
		stock, _, active, err := database.ProductStock(id)
		if err != nil || !active {
			cart.SetStockLimit(li.ProductID, 0) // gone products fail validation
			continue
		}
		cart.SetStockLimit(li.ProductID, stock)
	}
}
