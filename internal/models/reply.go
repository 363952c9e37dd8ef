package models

import "time"

type Reply struct {
	ID        int       `gorm:"primaryKey" json:"replyid"`
	UserID    int       `json:"userid"`
	User      User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	AnswerID  int       `gorm:"index;not null" json:"answerid"`
	Reply     string    `gorm:"not null" json:"reply"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
