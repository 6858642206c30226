package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"strconv"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"vegas_crm_backend/internal/database"
	"vegas_crm_backend/internal/pos"
)

// The UZS/USD rate is fetched from the central bank once per process
// session and cached for the process lifetime. A manual override set by
// an admin (stored in Redis) wins over the fetched rate. Every failure
// path falls back to pos.DefaultRate — a bad rate feed must never take
// the registers down.

const (
	overrideKey = "exchange:override"
	cacheKey    = "exchange:rate"
	cacheTTL    = 12 * time.Hour
)

var (
	mu      sync.Mutex
	session float64 // rate fetched for this process session, 0 = not yet
	sfg     singleflight.Group
	client  = &http.Client{Timeout: 10 * time.Second}
)

// GetCurrentRate returns the UZS-per-USD rate to use for settlement.
// It never fails; when no usable rate can be found it returns
// pos.DefaultRate.
func GetCurrentRate(ctx context.Context) float64 {
	// 1. admin override
	if database.Redis != nil {
		if val, err := database.Redis.Get(ctx, overrideKey).Float64(); err == nil {
			if pos.CheckRate(val) == nil {
				return val
			}
			log.Printf("⚠️ Ignoring unusable rate override: %v", val)
		}
	}

	// 2. session cache
	mu.Lock()
	cached := session
	mu.Unlock()
	if cached != 0 {
		return cached
	}

	// 3. fetch once, even under concurrent first requests
	v, err, _ := sfg.Do("rate", func() (interface{}, error) {
		return fetchRate(ctx)
	})
	if err != nil {
		log.Printf("⚠️ Rate fetch failed, falling back to default %v: %v", pos.DefaultRate, err)
		return pos.DefaultRate
	}

	rate := v.(float64)
	mu.Lock()
	session = rate
	mu.Unlock()
	return rate
}

// SetOverride stores a manual rate set from the admin dashboard.
func SetOverride(ctx context.Context, rate float64) error {
	if err := pos.CheckRate(rate); err != nil {
		return err
	}
	return database.Redis.Set(ctx, overrideKey, rate, 0).Err()
}

// ClearOverride returns settlement to the fetched rate.
func ClearOverride(ctx context.Context) error {
	return database.Redis.Del(ctx, overrideKey).Err()
}

// ResetSession drops the session-cached rate (used by tests and by the
// admin "refresh rate" action).
func ResetSession() {
	mu.Lock()
	session = 0
	mu.Unlock()
}

func fetchRate(ctx context.Context) (float64, error) {
	// Redis copy survives process restarts within the TTL
	if database.Redis != nil {
		if val, err := database.Redis.Get(ctx, cacheKey).Float64(); err == nil && pos.CheckRate(val) == nil {
			return val, nil
		}
	}

	url := os.Getenv("RATE_SOURCE_URL")
	if url == "" {
		url = "https://cbu.uz/uz/arkhiv-kursov-valyut/json/USD/"
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return 0, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return 0, fmt.Errorf("rate source returned %d", resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return 0, err
	}

	rate, err := ParseCBURate(body)
	if err != nil {
		return 0, err
	}

	if database.Redis != nil {
		if err := database.Redis.Set(ctx, cacheKey, rate, cacheTTL).Err(); err != nil {
			log.Printf("⚠️ Cannot cache exchange rate: %v", err)
		}
	}
	log.Printf("✅ Exchange rate fetched: 1 USD = %v UZS", rate)
	return rate, nil
}

// ParseCBURate extracts the UZS/USD rate from the central bank JSON feed
// ([{"Ccy":"USD","Rate":"12800.13",...}]).
func ParseCBURate(body []byte) (float64, error) {
	var entries []struct {
		Ccy  string `json:"Ccy"`
		Rate string `json:"Rate"`
	}
	if err := json.Unmarshal(body, &entries); err != nil {
		return 0, fmt.Errorf("rate feed decode error: %w", err)
	}

	for _, e := range entries {
		if e.Ccy != "" && e.Ccy != "USD" {
			continue
		}
		rate, err := strconv.ParseFloat(e.Rate, 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", pos.ErrInvalidRate, e.Rate)
		}
		if err := pos.CheckRate(rate); err != nil {
			return 0, err
		}
		return rate, nil
	}
	return 0, fmt.Errorf("%w: no USD entry in rate feed", pos.ErrInvalidRate)
}
