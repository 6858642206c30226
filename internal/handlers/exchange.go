package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"vegas_crm_backend/internal/database"
	"vegas_crm_backend/internal/exchange"
	"vegas_crm_backend/internal/pos"
	"vegas_crm_backend/internal/utils"
)

// GetExchangeRate reports the rate the registers are currently settling
// USD lines at, and where it came from.
func GetExchangeRate(c *gin.Context) {
	ctx := context.Background()

	source := "live"
	if database.Redis != nil {
		if val, err := database.Redis.Get(ctx, "exchange:override").Float64(); err == nil && pos.CheckRate(val) == nil {
			source = "override"
		}
	}

	rate := exchange.GetCurrentRate(ctx)
	if rate == pos.DefaultRate && source != "override" {
		source = "default"
	}

	c.JSON(http.StatusOK, gin.H{
		"rate":   rate,
		"source": source,
	})
}

// SetExchangeRateOverride pins a manual rate (admin only). A bad value
// surfaces as a 400 here instead of silently poisoning every total.
func SetExchangeRateOverride(c *gin.Context) {
	var input struct {
		Rate float64 `json:"rate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid data"})
		return
	}

	if err := exchange.SetOverride(context.Background(), input.Rate); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	utils.PublishEvent("rate_changed", gin.H{"rate": input.Rate, "source": "override"})
	c.JSON(http.StatusOK, gin.H{"message": "Exchange rate override set", "rate": input.Rate})
}

// ClearExchangeRateOverride returns settlement to the fetched rate.
func ClearExchangeRateOverride(c *gin.Context) {
	if err := exchange.ClearOverride(context.Background()); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Cannot clear rate override"})
		return
	}
	exchange.ResetSession()

	rate := exchange.GetCurrentRate(context.Background())
	utils.PublishEvent("rate_changed", gin.H{"rate": rate, "source": "live"})
	c.JSON(http.StatusOK, gin.H{"message": "Exchange rate override cleared", "rate": rate})
}

// RefreshExchangeRate drops the session cache and re-fetches.
func RefreshExchangeRate(c *gin.Context) {
	exchange.ResetSession()
	if database.Redis != nil {
		database.Redis.Del(context.Background(), "exchange:rate")
	}
	rate := exchange.GetCurrentRate(context.Background())
	c.JSON(http.StatusOK, gin.H{"rate": rate})
}
