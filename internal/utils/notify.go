package utils

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"vegas_crm_backend/internal/database"
)

// EventsChannel is the Redis pub/sub channel the WebSocket hub fans out
// to connected dashboard sessions.
const EventsChannel = "vegas:events"

// Event is one live notification: an order changed, stock moved, a
// product ran low. Delivery is best-effort fire-and-forget; a dropped
// event only means a dashboard refreshes a moment later.
type Event struct {
	Type      string      `json:"type"` // "order_created", "order_status", "stock_changed", "low_stock"
	Payload   interface{} `json:"payload"`
	CreatedAt time.Time   `json:"created_at"`
}

// PublishEvent pushes one event to all live dashboard sessions. Errors
// are logged, never propagated: a sale must not fail because a
// notification did.
func PublishEvent(eventType string, payload interface{}) {
	if database.Redis == nil {
		return
	}

	data, err := json.Marshal(Event{Type: eventType, Payload: payload, CreatedAt: time.Now()})
	if err != nil {
		log.Printf("⚠️ Event encode error: %v", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := database.Redis.Publish(ctx, EventsChannel, data).Err(); err != nil {
		log.Printf("⚠️ Event publish error (%s): %v", eventType, err)
	}
}
