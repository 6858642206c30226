package routes

import (
	"github.com/gin-gonic/gin"

	"vegas_crm_backend/internal/handlers"
	"vegas_crm_backend/internal/handlers/cart"
	"vegas_crm_backend/internal/handlers/order"
	"vegas_crm_backend/internal/handlers/product"
	"vegas_crm_backend/internal/handlers/user"
	"vegas_crm_backend/internal/handlers/ws"
	"vegas_crm_backend/internal/middleware"
	"vegas_crm_backend/internal/models"
)

func RegisterRoutes(r *gin.Engine) {
	api := r.Group("/api")
	api.Use(middleware.APIRateLimit())

	// Auth
	api.POST("/auth/login", middleware.LoginRateLimit(), handlers.Login)
	api.GET("/auth/:provider", handlers.BeginAuth)
	api.GET("/auth/:provider/callback", handlers.CallbackAuth)
	api.POST("/auth/google/token", handlers.GoogleTokenSignIn)

	authed := api.Group("")
	authed.Use(middleware.AuthRequired())

	authed.GET("/auth/me", handlers.Me)
	authed.POST("/auth/register", middleware.RequireAdmin, handlers.Register)

	// Exchange rate
	authed.GET("/exchange", handlers.GetExchangeRate)
	authed.POST("/exchange/refresh", middleware.RequireAdmin, handlers.RefreshExchangeRate)
	authed.PUT("/exchange/override", middleware.RequireAdmin, handlers.SetExchangeRateOverride)
	authed.DELETE("/exchange/override", middleware.RequireAdmin, handlers.ClearExchangeRateOverride)

	// Catalog
	authed.GET("/products", product.GetProducts)
	authed.GET("/products/search", product.Search)
	authed.GET("/products/:id", product.GetProduct)
	authed.POST("/products", middleware.RequireAdmin, product.CreateProduct)
	authed.PUT("/products/:id", middleware.RequireAdmin, product.UpdateProduct)
	authed.DELETE("/products/:id", middleware.RequireAdmin, product.DeleteProduct)
	authed.PUT("/products/:id/discount", middleware.RequireAdmin, product.SetDiscount)
	authed.DELETE("/products/:id/discount", middleware.RequireAdmin, product.ClearDiscount)
	authed.POST("/products/:id/images", middleware.RequireAdmin, product.UploadImage)
	authed.DELETE("/products/:id/images", middleware.RequireAdmin, product.DeleteImage)

	// Inventory
	authed.PATCH("/products/:id/stock", middleware.RequireRole(models.RoleSeller), product.UpdateStock)
	authed.GET("/products/:id/movements", middleware.RequireAdmin, product.GetStockMovements)
	authed.GET("/stock/alerts", middleware.RequireAdmin, product.GetStockAlerts)
	authed.PATCH("/stock/alerts/:id/resolve", middleware.RequireAdmin, product.ResolveStockAlert)

	// Categories
	authed.GET("/categories", product.GetCategories)
	authed.POST("/categories", middleware.RequireAdmin, product.CreateCategory)
	authed.PUT("/categories/:id", middleware.RequireAdmin, product.UpdateCategory)
	authed.DELETE("/categories/:id", middleware.RequireAdmin, product.DeleteCategory)

	// Cart — one draft cart per signed-in register
	authed.GET("/cart", cart.GetCart)
	authed.GET("/cart/totals", cart.GetTotals)
	authed.POST("/cart/add", middleware.CartRateLimit(), cart.AddToCart)
	authed.POST("/cart/decrease/:productId", cart.DecreaseItem)
	authed.PATCH("/cart/quantity", cart.SetQuantity)
	authed.POST("/cart/validate", cart.ValidateCart)
	authed.DELETE("/cart/clear", cart.ClearCart)
	authed.DELETE("/cart/:productId", cart.RemoveFromCart)

	// Orders
	authed.POST("/orders/checkout", middleware.RequireRole(models.RoleCashier), order.Checkout)
	authed.GET("/orders", order.GetOrders)
	authed.GET("/orders/daily", middleware.RequireAdmin, order.GetDailySummary)
	authed.GET("/orders/:id", order.GetOrder)
	authed.PATCH("/orders/:id/status", order.UpdateOrderStatus)
	authed.GET("/orders/:id/receipt", order.GetReceipt)
	authed.GET("/orders/:id/receipt/pdf", order.GetReceiptPDF)
	authed.GET("/orders/:id/receipt/qr", order.GetReceiptQR)
	authed.POST("/orders/:id/receipt/email", order.EmailReceipt)

	// Staff
	authed.GET("/users", middleware.RequireAdmin, user.GetUsers)
	authed.PATCH("/users/:id/role", middleware.RequireOwner, user.UpdateUserRole)
	authed.PATCH("/users/:id/deactivate", middleware.RequireAdmin, user.DeactivateUser)
	authed.PATCH("/users/:id/activate", middleware.RequireAdmin, user.ActivateUser)

	// Live dashboard feed
	authed.GET("/ws/notifications", ws.Notifications)
}
