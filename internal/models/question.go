package models

import "time"

// Question is keyed by a serial id internally and a UUID string publicly.
type Question struct {
	ID          int       `gorm:"primaryKey" json:"id"`
	QuestionID  string    `gorm:"size:36;uniqueIndex;not null" json:"questionid"`
	UserID      int       `json:"userid"`
	User        User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"not null" json:"description"`
	Tag         string    `json:"tag"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
