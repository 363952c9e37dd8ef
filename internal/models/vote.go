package models

import "time"

// AnswerVote - at most one row per (answer, user), enforced by the
// composite unique index.
type AnswerVote struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	AnswerID  int       `gorm:"uniqueIndex:uq_answer_votes_user;not null" json:"answer_id"`
	UserID    int       `gorm:"uniqueIndex:uq_answer_votes_user;not null" json:"user_id"`
	VoteType  string    `gorm:"size:10;not null" json:"vote_type"` // "like" or "dislike"
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ReplyVote - same protocol as AnswerVote, on replies.
type ReplyVote struct {
	ID        int       `gorm:"primaryKey" json:"id"`
	ReplyID   int       `gorm:"uniqueIndex:uq_reply_votes_user;not null" json:"reply_id"`
	UserID    int       `gorm:"uniqueIndex:uq_reply_votes_user;not null" json:"user_id"`
	VoteType  string    `gorm:"size:10;not null" json:"vote_type"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
