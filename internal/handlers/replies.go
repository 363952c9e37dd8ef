package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/nathyb/qa-forum/backend/internal/models"
	"github.com/nathyb/qa-forum/backend/internal/vote"
)

type ReplyHandler struct {
	db     *gorm.DB
	engine *vote.Engine
}

func NewReplyHandler(db *gorm.DB, engine *vote.Engine) *ReplyHandler {
	return &ReplyHandler{db: db, engine: engine}
}

// PostReply creates a reply on an answer
func (h *ReplyHandler) PostReply(c *gin.Context) {
	var input struct {
		Reply    string `json:"reply" binding:"required"`
		AnswerID int    `json:"answerid" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Please provide all required values"})
		return
	}

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "User not authenticated"})
		return
	}

	var answer models.Answer
	if err := h.db.First(&answer, input.AnswerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Answer not found"})
		return
	}

	reply := models.Reply{
		UserID:   userID,
		AnswerID: answer.ID,
		Reply:    input.Reply,
	}

	if err := h.db.Create(&reply).Error; err != nil {
		log.WithError(err).Error("failed to create reply")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Something went wrong try again later"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"msg": "Reply posted successfully",
		"data": gin.H{
			"replyid":    reply.ID,
			"reply":      reply.Reply,
			"userid":     reply.UserID,
			"answerid":   reply.AnswerID,
			"created_at": reply.CreatedAt,
		},
	})
}

// GetReplies returns all replies for an answer, oldest first, each with
// vote aggregates and the caller's current vote.
func (h *ReplyHandler) GetReplies(c *gin.Context) {
	answerID := c.Param("answerId")
	userID, _ := extractUserID(c)

	var replies []models.Reply
	if err := h.db.Preload("User").Where("answer_id = ?", answerID).Order("created_at asc").Find(&replies).Error; err != nil {
		log.WithError(err).Error("failed to fetch replies")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Error fetching replies"})
		return
	}

	responses := make([]gin.H, 0, len(replies))
	for _, r := range replies {
		counts, userVote, err := h.engine.Votes(vote.Target{Type: vote.TargetReply, ID: r.ID}, userID)
		if err != nil {
			log.WithError(err).WithField("reply_id", r.ID).Error("failed to fetch reply votes")
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "Error fetching replies"})
			return
		}
		responses = append(responses, gin.H{
			"replyid":    r.ID,
			"reply":      r.Reply,
			"userid":     r.UserID,
			"username":   r.User.Username,
			"likes":      counts.Likes,
			"dislikes":   counts.Dislikes,
			"user_vote":  userVote,
			"created_at": r.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": responses})
}

// UpdateReply edits a reply (owner only)
func (h *ReplyHandler) UpdateReply(c *gin.Context) {
	replyID, err := strconv.Atoi(c.Param("replyId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid reply ID"})
		return
	}

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "User not authenticated"})
		return
	}

	var input struct {
		Reply string `json:"reply" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Please provide the updated content"})
		return
	}

	var reply models.Reply
	if err := h.db.First(&reply, replyID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Reply not found"})
		return
	}

	if reply.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"msg": "You don't have permission to edit this reply"})
		return
	}

	reply.Reply = input.Reply
	if err := h.db.Save(&reply).Error; err != nil {
		log.WithError(err).Error("failed to update reply")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Something went wrong, try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Reply updated successfully"})
}
