package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/nathyb/qa-forum/backend/internal/models"
)

type QuestionHandler struct {
	db *gorm.DB
}

func NewQuestionHandler(db *gorm.DB) *QuestionHandler {
	return &QuestionHandler{db: db}
}

// PostQuestion creates a question with a server-assigned public UUID
func (h *QuestionHandler) PostQuestion(c *gin.Context) {
	var input struct {
		Tag         string `json:"tag" binding:"required"`
		Title       string `json:"title" binding:"required"`
		Description string `json:"description" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Please provide all required inputs"})
		return
	}

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "User not authenticated"})
		return
	}

	question := models.Question{
		QuestionID:  uuid.NewString(),
		UserID:      userID,
		Title:       input.Title,
		Description: input.Description,
		Tag:         input.Tag,
	}

	if err := h.db.Create(&question).Error; err != nil {
		log.WithError(err).Error("failed to create question")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Something went wrong, try again later"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"msg": "question posted successfully", "questionid": question.QuestionID})
}

// AllQuestions returns every question, newest first, with the author's username
func (h *QuestionHandler) AllQuestions(c *gin.Context) {
	var questions []models.Question

	if err := h.db.Preload("User").Order("id desc").Find(&questions).Error; err != nil {
		log.WithError(err).Error("failed to fetch questions")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Something went wrong, try again later"})
		return
	}

	responses := make([]gin.H, 0, len(questions))
	for _, q := range questions {
		responses = append(responses, gin.H{
			"id":          q.ID,
			"questionid":  q.QuestionID,
			"title":       q.Title,
			"description": q.Description,
			"tag":         q.Tag,
			"username":    q.User.Username,
			"created_at":  q.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, gin.H{"data": responses})
}

// GetQuestion returns a single question by its public UUID
func (h *QuestionHandler) GetQuestion(c *gin.Context) {
	questionID := c.Param("questionid")

	var question models.Question
	if err := h.db.Preload("User").Where("question_id = ?", questionID).First(&question).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Question not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"id":          question.ID,
		"questionid":  question.QuestionID,
		"userid":      question.UserID,
		"title":       question.Title,
		"description": question.Description,
		"tag":         question.Tag,
		"username":    question.User.Username,
		"created_at":  question.CreatedAt,
	}})
}

// UpdateQuestion updates a question's description (owner only)
func (h *QuestionHandler) UpdateQuestion(c *gin.Context) {
	questionID := c.Param("questionid")

	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "User not authenticated"})
		return
	}

	var input struct {
		Description string `json:"description" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "Please provide the updated content"})
		return
	}

	var question models.Question
	if err := h.db.Where("question_id = ?", questionID).First(&question).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "Question not found"})
		return
	}

	if question.UserID != userID {
		c.JSON(http.StatusForbidden, gin.H{"msg": "You can only edit your own questions"})
		return
	}

	question.Description = input.Description
	if err := h.db.Save(&question).Error; err != nil {
		log.WithError(err).Error("failed to update question")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Something went wrong, try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"msg": "Question updated successfully"})
}
