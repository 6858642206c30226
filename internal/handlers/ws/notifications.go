package ws

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"vegas_crm_backend/internal/database"
	"vegas_crm_backend/internal/utils"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	// the browser front-end runs on another origin in development;
	// authentication happens via the JWT middleware before the upgrade
	CheckOrigin: func(r *http.Request) bool { return true },
}

var (
	clientsMu sync.Mutex
	clients   = map[*websocket.Conn]chan []byte{}

	hubOnce sync.Once
)

//
// 🔌 GET /api/ws/notifications
//
// Live dashboard feed. Every event published on the Redis channel —
// orders, stock moves, rate changes — is fanned out to all connected
// sessions. One Redis subscription serves all sockets.
//
func Notifications(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Printf("⚠️ WebSocket upgrade error: %v", err)
		return
	}

	hubOnce.Do(startHub)

	send := make(chan []byte, 32)
	clientsMu.Lock()
	clients[conn] = send
	live := len(clients)
	clientsMu.Unlock()
	log.Printf("🔌 Dashboard connected (%s), %d live", c.GetString("email"), live)

	go writeLoop(conn, send)
	readLoop(conn)
}

// startHub subscribes to the events channel once and keeps forwarding
// for the life of the process.
func startHub() {
	sub := database.Redis.Subscribe(context.Background(), utils.EventsChannel)
	go func() {
		for msg := range sub.Channel() {
			broadcast([]byte(msg.Payload))
		}
	}()
}

func broadcast(payload []byte) {
	clientsMu.Lock()
	defer clientsMu.Unlock()
	for conn, send := range clients {
		select {
		case send <- payload:
		default:
			// slow consumer, drop it rather than block the hub
			delete(clients, conn)
			close(send)
			conn.Close()
		}
	}
}

func writeLoop(conn *websocket.Conn, send chan []byte) {
	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case payload, ok := <-send:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.TextMessage, payload); err != nil {
				dropClient(conn)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				dropClient(conn)
				return
			}
		}
	}
}

// readLoop drains the connection so pings/pongs and close frames are
// processed; the feed is one-way, inbound messages are discarded.
func readLoop(conn *websocket.Conn) {
	conn.SetReadLimit(512)
	conn.SetReadDeadline(time.Now().Add(90 * time.Second))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(90 * time.Second))
		return nil
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			dropClient(conn)
			return
		}
	}
}

func dropClient(conn *websocket.Conn) {
	clientsMu.Lock()
	if send, ok := clients[conn]; ok {
		delete(clients, conn)
		close(send)
	}
	clientsMu.Unlock()
	conn.Close()
}
