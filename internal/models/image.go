package models

import "time"

type Image struct {
	ID           int       `gorm:"primaryKey" json:"imageid"`
	UserID       int       `gorm:"index;not null" json:"userid"`
	Filename     string    `gorm:"not null" json:"filename"`
	OriginalName string    `json:"originalname"`
	MimeType     string    `json:"mimetype"`
	Size         int64     `json:"size"`
	URL          string    `json:"url"`
	CreatedAt    time.Time `json:"created_at"`
}
