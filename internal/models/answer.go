package models

import "time"

type Answer struct {
	ID         int       `gorm:"primaryKey" json:"answerid"`
	UserID     int       `json:"userid"`
	User       User      `gorm:"foreignKey:UserID" json:"user,omitempty"`
	QuestionID string    `gorm:"size:36;index;not null" json:"questionid"`
	Answer     string    `gorm:"not null" json:"answer"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
