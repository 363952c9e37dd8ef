// Package notify creates durable notification records as a side effect of
// content events and serves the recipient's read side. Dispatch is
// fire-and-forget: a failure here is logged and must never fail the
// triggering action.
package notify

import (
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/nathyb/qa-forum/backend/internal/models"
)

type Dispatcher struct {
	db  *gorm.DB
	hub *Hub
}

// NewDispatcher builds a dispatcher on the given datastore handle. hub may
// be nil, in which case no live frames are pushed.
func NewDispatcher(db *gorm.DB, hub *Hub) *Dispatcher {
	return &Dispatcher{db: db, hub: hub}
}

// create inserts the notification row and pushes it to the recipient's
// websocket if connected. Returns 0 when the insert failed.
func (d *Dispatcher) create(recipientID int, senderID *int, typ models.NotificationType, content string, referenceID *string) int {
	n := models.Notification{
		UserID:      recipientID,
		SenderID:    senderID,
		Type:        typ,
		Content:     content,
		ReferenceID: referenceID,
	}

	if err := d.db.Create(&n).Error; err != nil {
		log.WithError(err).WithFields(log.Fields{
			"recipient_id": recipientID,
			"type":         typ,
		}).Error("failed to create notification")
		return 0
	}

	if d.hub != nil {
		d.hub.Push(recipientID, Event{Type: "notification", Data: n})
		if count, err := d.UnreadCount(recipientID); err == nil {
			d.hub.Push(recipientID, Event{Type: "unread_count", Data: map[string]int64{"count": count}})
		}
	}

	return n.ID
}

// NotifyNewAnswer tells the question owner someone answered. Skipped when
// the answerer is the owner.
func (d *Dispatcher) NotifyNewAnswer(questionOwnerID, answererID int, questionID string) int {
	if questionOwnerID == answererID {
		return 0
	}
	return d.create(questionOwnerID, &answererID, models.NotificationAnswer, "answered your question", &questionID)
}

// NotifyUpvote tells the content owner someone liked their answer or reply.
// The vote engine guarantees this fires only for a brand-new approving vote.
func (d *Dispatcher) NotifyUpvote(recipientID, senderID int, referenceID string) int {
	if recipientID == senderID {
		return 0
	}
	return d.create(recipientID, &senderID, models.NotificationUpvote, "upvoted your post", &referenceID)
}

// NotifyNewComment exists as a taxonomy member; no HTTP call site uses it.
func (d *Dispatcher) NotifyNewComment(recipientID, commenterID int, referenceID string) int {
	if recipientID == commenterID {
		return 0
	}
	return d.create(recipientID, &commenterID, models.NotificationComment, "commented on your post", &referenceID)
}

// NotifyMention exists as a taxonomy member; no HTTP call site uses it.
func (d *Dispatcher) NotifyMention(recipientID, mentionerID int, referenceID string) int {
	if recipientID == mentionerID {
		return 0
	}
	return d.create(recipientID, &mentionerID, models.NotificationMention, "mentioned you in a post", &referenceID)
}

// NotifySystem creates a sender-less system notification.
func (d *Dispatcher) NotifySystem(recipientID int, content string, referenceID *string) int {
	return d.create(recipientID, nil, models.NotificationSystem, content, referenceID)
}

// List returns the user's notifications, newest first, with the sender
// preloaded for the username.
func (d *Dispatcher) List(userID int) ([]models.Notification, error) {
	var notifications []models.Notification
	err := d.db.Where("user_id = ?", userID).
		Preload("Sender").
		Order("created_at desc, id desc").
		Find(&notifications).Error
	return notifications, err
}

func (d *Dispatcher) UnreadCount(userID int) (int64, error) {
	var count int64
	err := d.db.Model(&models.Notification{}).
		Where("user_id = ? AND is_read = ?", userID, false).
		Count(&count).Error
	return count, err
}

// MarkRead flips the read flag. Scoped to the requesting user: a row owned
// by someone else is silently untouched.
func (d *Dispatcher) MarkRead(notificationID, userID int) error {
	return d.db.Model(&models.Notification{}).
		Where("id = ? AND user_id = ?", notificationID, userID).
		Update("is_read", true).Error
}

func (d *Dispatcher) MarkAllRead(userID int) error {
	return d.db.Model(&models.Notification{}).
		Where("user_id = ?", userID).
		Update("is_read", true).Error
}

// PushUnreadCount re-sends the unread counter to a connected client, used
// after mark-read so other tabs converge.
func (d *Dispatcher) PushUnreadCount(userID int) {
	if d.hub == nil {
		return
	}
	count, err := d.UnreadCount(userID)
	if err != nil {
		log.WithError(err).WithField("user_id", userID).Debug("unread count push skipped")
		return
	}
	d.hub.Push(userID, Event{Type: "unread_count", Data: map[string]int64{"count": count}})
}
