package models

import "time"

type NotificationType string

const (
	NotificationAnswer  NotificationType = "answer"
	NotificationComment NotificationType = "comment"
	NotificationUpvote  NotificationType = "upvote"
	NotificationMention NotificationType = "mention"
	NotificationSystem  NotificationType = "system"
)

// Notification - "sender performed action on recipient's content".
// SenderID is nil for system notifications. Mutated only by the recipient
// marking it read.
type Notification struct {
	ID          int              `gorm:"primaryKey" json:"notification_id"`
	UserID      int              `gorm:"index;not null" json:"user_id"` // recipient
	SenderID    *int             `gorm:"index" json:"sender_id"`
	Sender      *User            `gorm:"foreignKey:SenderID" json:"-"`
	Type        NotificationType `gorm:"size:20;not null" json:"type"`
	Content     string           `gorm:"not null" json:"content"`
	ReferenceID *string          `gorm:"size:36" json:"reference_id"`
	IsRead      bool             `gorm:"default:false" json:"is_read"`
	CreatedAt   time.Time        `json:"created_at"`
}
