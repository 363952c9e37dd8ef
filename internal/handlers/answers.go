package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/nathyb/qa-forum/backend/internal/models"
	"github.com/nathyb/qa-forum/backend/internal/notify"
	"github.com/nathyb/qa-forum/backend/internal/vote"
)

type AnswerHandler struct {
	db         *gorm.DB
	engine     *vote.Engine
	dispatcher *notify.Dispatcher
}

func NewAnswerHandler(db *gorm.DB, engine *vote.Engine, dispatcher *notify.Dispatcher) *AnswerHandler {
	return &AnswerHandler{db: db, engine: engine, dispatcher: dispatcher}
}

// PostAnswer creates an answer and notifies the question owner. The
// notification is a best-effort step after the insert commits; it never
// fails the request.
func (h *AnswerHandler) PostAnswer(c *gin.Context) {
	var input struct {
		Answer     string `json:"answer" binding:"required"`
		QuestionID string `json:"questionid" binding:"required"`
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

	var question models.Question
	if err := h.db.Where("question_id = ?", input.QuestionID).First(&question).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Question not found"})
		return
	}

	answer := models.Answer{
		UserID:     userID,
		QuestionID: question.QuestionID,
		Answer:     input.Answer,
	}

	if err := h.db.Create(&answer).Error; err != nil {
		log.WithError(err).Error("failed to create answer")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Something went wrong try again later"})
		return
	}

	h.dispatcher.NotifyNewAnswer(question.UserID, userID, question.QuestionID)

	c.JSON(http.StatusCreated, gin.H{"msg": "Answer posted successfully"})
}

// GetAnswers returns all answers for a question, newest first, each with
// vote aggregates and the caller's current vote.
func (h *AnswerHandler) GetAnswers(c *gin.Context) {
	questionID := c.Param("questionId")
	userID, _ := extractUserID(c)

	var answers []models.Answer
	if err := h.db.Preload("User").Where("question_id = ?", questionID).Order("id desc").Find(&answers).Error; err != nil {
		log.WithError(err).Error("failed to fetch answers")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Error fetching answers"})
		return
	}

	responses := make([]gin.H, 0, len(answers))
	for _, a := range answers {
		counts, userVote, err := h.engine.Votes(vote.Target{Type: vote.TargetAnswer, ID: a.ID}, userID)
		if err != nil {
			log.WithError(err).WithField("answer_id", a.ID).Error("failed to fetch answer votes")
			c.JSON(http.StatusInternalServerError, gin.H{"msg": "Error fetching answers"})
			return
		}
		responses = append(responses, gin.H{
			"answerid":   a.ID,
			"answer":     a.Answer,
			"userid":     a.UserID,
			"username":   a.User.Username,
			"likes":      counts.Likes,
			"dislikes":   counts.Dislikes,
			"user_vote":  userVote,
			"created_at": a.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": responses})
}

// UpdateAnswer edits an answer (owner only)
func (h *AnswerHandler) UpdateAnswer(c *gin.Context) {
	answerID, err := strconv.Atoi(c.Param("answerId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Invalid answer ID"})
		return
	}

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "User not authenticated"})
		return
	}

	var input struct {
		Answer string `json:"answer" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Please provide the updated content"})
		return
	}

	var answer models.Answer
	if err := h.db.First(&answer, answerID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Answer not found"})
		return
	}

	if answer.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"msg": "You don't have permission to edit this answer"})
		return
	}

	answer.Answer = input.Answer
	if err := h.db.Save(&answer).Error; err != nil {
		log.WithError(err).Error("failed to update answer")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Something went wrong, try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Answer updated successfully"})
}
