package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"github.com/nathyb/qa-forum/backend/internal/vote"
)

type VoteHandler struct {
	engine *vote.Engine
}

func NewVoteHandler(engine *vote.Engine) *VoteHandler {
	return &VoteHandler{engine: engine}
}

func voteMessage(action vote.Action) string {
	switch action {
	case vote.VoteRemoved:
		return "Vote removed"
	case vote.VoteChanged:
		return "Vote updated"
	default:
		return "Vote recorded successfully"
	}
}

func (h *VoteHandler) apply(c *gin.Context, targetType vote.TargetType, paramName string) {
	targetID, err := strconv.Atoi(c.Param(paramName))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Missing required parameters"})
		return
	}

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "User not authenticated"})
		return
	}

	var input struct {
		VoteType string `json:"voteType" binding:"required,oneof=like dislike"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "voteType must be like or dislike"})
		return
	}

	result, err := h.engine.Apply(vote.Target{Type: targetType, ID: targetID}, userID, vote.Kind(input.VoteType))
	if err != nil {
		switch {
		case errors.Is(err, vote.ErrInvalidInput):
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Missing required parameters"})
		case errors.Is(err, vote.ErrTargetNotFound):
			c.JSON(http.StatusNotFound, gin.H{"msg": "Target not found"})
		default:
			log.WithError(err).WithFields(log.Fields{
				"target_type": targetType,
				"target_id":   targetID,
			}).Error("failed to process vote")
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "Error processing vote"})
		}
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  voteMessage(result.Action),
		"votes":    result.Counts,
		"userVote": result.UserVote,
	})
}

// VoteAnswer applies the caller's vote to an answer
func (h *VoteHandler) VoteAnswer(c *gin.Context) {
	h.apply(c, vote.TargetAnswer, "answerId")
}

// VoteReply applies the caller's vote to a reply
func (h *VoteHandler) VoteReply(c *gin.Context) {
	h.apply(c, vote.TargetReply, "replyId")
}

// GetAnswerVotes returns aggregates and the caller's vote for an answer
func (h *VoteHandler) GetAnswerVotes(c *gin.Context) {
	answerID, err := strconv.Atoi(c.Param("answerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Missing required parameters"})
		return
	}

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "User not authenticated"})
		return
	}

	counts, userVote, err := h.engine.Votes(vote.Target{Type: vote.TargetAnswer, ID: answerID}, userID)
	if err != nil {
		log.WithError(err).WithField("answer_id", answerID).Error("failed to fetch votes")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Error fetching votes"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"votes":    counts,
		"userVote": userVote,
	})
}
