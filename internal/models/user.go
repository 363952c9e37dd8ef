package models

import "time"

type User struct {
	ID             int    `gorm:"primaryKey" json:"userid"`
	Username       string `gorm:"unique;not null" json:"username"`
	Firstname      string `json:"firstname"`
	Lastname       string `json:"lastname"`
	Email          string `gorm:"unique;not null" json:"email"`
	Password       string `gorm:"not null" json:"-"`
	Bio            string `json:"bio"`
	ProfilePicture string `json:"profilePicture"` // URL under /uploads

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
