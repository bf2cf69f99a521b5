package notification

import (
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

const (
	EventRentalCreated     = "rental_created"
	EventItemReviewSaved   = "item_review_saved"
	EventTrustScoreUpdated = "trust_score_updated"

	writeWait = 10 * time.Second
)

type Event struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// client serialises writes; gorilla connections allow one concurrent writer.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(messageType int, data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(messageType, data)
}

func (c *client) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteJSON(v)
}

// Hub keeps at most one live connection per user. A newer connection replaces the old one.
type Hub struct {
	clients map[int64]*client
	mutex   sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{clients: make(map[int64]*client)}
}

func (h *Hub) Register(userID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if old, ok := h.clients[userID]; ok && old.conn != conn {
		_ = old.conn.Close()
	}
	h.clients[userID] = &client{conn: conn}
}

// Unregister drops conn if it is still the user's current connection.
func (h *Hub) Unregister(userID int64, conn *websocket.Conn) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if cur, ok := h.clients[userID]; ok && cur.conn == conn {
		_ = cur.conn.Close()
		delete(h.clients, userID)
	}
}

func (h *Hub) get(userID int64) *client {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return h.clients[userID]
}

// Publish delivers an event to userID if they are online. Delivery is best effort.
func (h *Hub) Publish(userID int64, eventType string, payload any) bool {
	c := h.get(userID)
	if c == nil {
		return false
	}
	if err := c.writeJSON(Event{Type: eventType, Payload: payload}); err != nil {
		log.Printf("notify_failed user_id=%d type=%s error=%q", userID, eventType, err.Error())
		h.Unregister(userID, c.conn)
		return false
	}
	return true
}

func (h *Hub) OnlineCount() int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients)
}

func (h *Hub) Close() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for userID, c := range h.clients {
		_ = c.conn.Close()
		delete(h.clients, userID)
	}
}
