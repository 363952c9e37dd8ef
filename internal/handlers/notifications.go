package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	log "github.com/sirupsen/logrus"

	"github.com/nathyb/qa-forum/backend/internal/notify"
)

type NotificationHandler struct {
	dispatcher *notify.Dispatcher
	hub        *notify.Hub
	upgrader   websocket.Upgrader
}

func NewNotificationHandler(dispatcher *notify.Dispatcher, hub *notify.Hub) *NotificationHandler {
	return &NotificationHandler{
		dispatcher: dispatcher,
		hub:        hub,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true // CORS is enforced at the router; ws origin left open
			},
		},
	}
}

// List returns the caller's notifications, newest first
func (h *NotificationHandler) List(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	notifications, err := h.dispatcher.List(userID)
	if err != nil {
		log.WithError(err).Error("failed to fetch notifications")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch notifications"})
		return
	}

	responses := make([]gin.H, 0, len(notifications))
	for _, n := range notifications {
		senderUsername := ""
		if n.Sender != nil {
			senderUsername = n.Sender.Username
		}
		responses = append(responses, gin.H{
			"notification_id": n.ID,
			"user_id":         n.UserID,
			"sender_id":       n.SenderID,
			"sender_username": senderUsername,
			"type":            n.Type,
			"content":         n.Content,
			"reference_id":    n.ReferenceID,
			"is_read":         n.IsRead,
			"created_at":      n.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, responses)
}

// UnreadCount returns the caller's unread notification count
func (h *NotificationHandler) UnreadCount(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	count, err := h.dispatcher.UnreadCount(userID)
	if err != nil {
		log.WithError(err).Error("failed to fetch unread count")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch unread count"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"count": count})
}

// MarkRead marks one of the caller's notifications read
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	notificationID, err := strconv.Atoi(c.Param("notificationId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid notification ID"})
		return
	}

	if err := h.dispatcher.MarkRead(notificationID, userID); err != nil {
		log.WithError(err).Error("failed to mark notification as read")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark notification as read"})
		return
	}

	h.dispatcher.PushUnreadCount(userID)

	c.JSON(http.StatusOK, gin.H{"message": "Notification marked as read"})
}

// MarkAllRead marks every notification of the caller read
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	if err := h.dispatcher.MarkAllRead(userID); err != nil {
		log.WithError(err).Error("failed to mark all notifications as read")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to mark all notifications as read"})
		return
	}

	h.dispatcher.PushUnreadCount(userID)

	c.JSON(http.StatusOK, gin.H{"message": "All notifications marked as read"})
}

// WebSocket upgrades the connection and streams notification events to the
// caller until the client disconnects.
func (h *NotificationHandler) WebSocket(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.WithError(err).Warn("websocket upgrade failed")
		return
	}
	defer conn.Close()

	h.hub.Register(userID, conn)
	defer h.hub.Unregister(userID, conn)

	h.dispatcher.PushUnreadCount(userID)

	// Drain client frames until the connection drops; the server only pushes.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
