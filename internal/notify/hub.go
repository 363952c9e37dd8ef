package notify

import (
	"sync"

	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"
)

// Event is a frame pushed to a connected client.
type Event struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Hub tracks one live websocket connection per user. Delivery is
// best-effort; the notification row is the source of truth.
type Hub struct {
	mu    sync.RWMutex
	conns map[int]*websocket.Conn
}

func NewHub() *Hub {
	return &Hub{conns: make(map[int]*websocket.Conn)}
}

// Register stores the connection for the user, replacing any previous one.
func (h *Hub) Register(userID int, conn *websocket.Conn) {
	h.mu.Lock()
	old := h.conns[userID]
	h.conns[userID] = conn
	h.mu.Unlock()

	if old != nil {
		old.Close()
	}
	log.WithField("user_id", userID).Debug("websocket connected")
}

// Unregister drops the connection if it is still the current one.
func (h *Hub) Unregister(userID int, conn *websocket.Conn) {
	h.mu.Lock()
	if h.conns[userID] == conn {
		delete(h.conns, userID)
	}
	h.mu.Unlock()
	log.WithField("user_id", userID).Debug("websocket disconnected")
}

// Push sends an event to the user's connection if one exists. Returns false
// when the user is not connected or the write failed.
func (h *Hub) Push(userID int, event Event) bool {
	// Full lock: gorilla connections allow only one concurrent writer.
	h.mu.Lock()
	defer h.mu.Unlock()

	conn := h.conns[userID]
	if conn == nil {
		return false
	}
	if err := conn.WriteJSON(event); err != nil {
		log.WithError(err).WithField("user_id", userID).Debug("websocket push failed")
		return false
	}
	return true
}
