// Package notify pushes live events to connected websocket clients.
package notify

import (
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

const (
	EventNotification = "notification"
	EventMessage      = "message"
	EventConnected    = "connected"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
	sendBuffer     = 16
)

// Event is the JSON frame written to a client.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

// Publisher delivers an event to every live connection of a user. Delivery is
// best effort and never blocks the caller.
type Publisher interface {
	Publish(userID int64, ev Event)
}

// Nop discards every event.
type Nop struct{}

func (Nop) Publish(int64, Event) {}

type client struct {
	conn *websocket.Conn
	send chan Event
}

// Hub tracks websocket connections per user.
type Hub struct {
	mu       sync.RWMutex
	clients  map[int64]map[*client]struct{}
	upgrader websocket.Upgrader
}

// NewHub accepts connections from the listed origins. An empty list allows
// any origin.
func NewHub(allowedOrigins []string) *Hub {
	h := &Hub{clients: make(map[int64]map[*client]struct{})}
	h.upgrader = websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if origin == allowed {
					return true
				}
			}
			return false
		},
	}
	return h
}

func (h *Hub) Publish(userID int64, ev Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.clients[userID] {
		select {
		case c.send <- ev:
		default:
			logger.Error("Dropping websocket event for slow client",
				zap.Int64("user_id", userID), zap.String("type", ev.Type))
		}
	}
}

// Connections returns the number of open connections for userID.
func (h *Hub) Connections(userID int64) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// ServeWS upgrades the request and blocks until the connection closes.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID int64) error {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return err
	}

	c := &client{conn: conn, send: make(chan Event, sendBuffer)}
	c.send <- Event{Type: EventConnected}
	h.add(userID, c)
	logger.Info("WebSocket connected", zap.Int64("user_id", userID))

	done := make(chan struct{})
	go c.writePump(done)
	c.readPump()

	h.remove(userID, c)
	close(done)
	conn.Close()
	logger.Info("WebSocket closed", zap.Int64("user_id", userID))
	return nil
}

func (h *Hub) add(userID int64, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.clients[userID] == nil {
		h.clients[userID] = make(map[*client]struct{})
	}
	h.clients[userID][c] = struct{}{}
}

func (h *Hub) remove(userID int64, c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if conns, ok := h.clients[userID]; ok {
		delete(conns, c)
		if len(conns) == 0 {
			delete(h.clients, userID)
		}
	}
}

// readPump consumes client frames so pongs and close frames are processed.
func (c *client) readPump() {
	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("WebSocket read failed", zap.Error(err))
			}
			return
		}
	}
}

// writePump is the only goroutine writing to the connection.
func (c *client) writePump(done <-chan struct{}) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case ev := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteJSON(ev); err != nil {
				c.conn.Close()
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				c.conn.Close()
				return
			}
		case <-done:
			return
		}
	}
}
