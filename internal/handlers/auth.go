package handlers

import (
	"math"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/nathyb/qa-forum/backend/internal/models"
)

type AuthHandler struct {
	db     *gorm.DB
	secret string
}

func NewAuthHandler(db *gorm.DB, secret string) *AuthHandler {
	return &AuthHandler{db: db, secret: secret}
}

// Register handles user registration
func (h *AuthHandler) Register(c *gin.Context) {
	var input struct {
		Username  string `json:"username" binding:"required"`
		Firstname string `json:"firstname" binding:"required"`
		Lastname  string `json:"lastname" binding:"required"`
		Email     string `json:"email" binding:"required,email"`
		Password  string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "please provide all required fields"})
		return
	}

	if len(input.Password) < 8 {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "password must be at least 8 characters"})
		return
	}

	var existingUser models.User
	if err := h.db.Where("username = ? OR email = ?", input.Username, input.Email).First(&existingUser).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "user already registered"})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "something went wrong, try again later"})
		return
	}

	user := models.User{
		Username:  input.Username,
		Firstname: input.Firstname,
		Lastname:  input.Lastname,
		Email:     input.Email,
		Password:  string(hashedPassword),
	}

	if err := h.db.Create(&user).Error; err != nil {
		log.WithError(err).Error("failed to create user")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "something went wrong, try again later"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"msg": "user created"})
}

// Login handles user login
func (h *AuthHandler) Login(c *gin.Context) {
	var input struct {
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "please provide all required fields"})
		return
	}

	var user models.User
	if err := h.db.Where("email = ?", input.Email).First(&user).Error; err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid credential"})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid credential"})
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(48 * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString([]byte(h.secret))
	if err != nil {
		log.WithError(err).Error("failed to sign token")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "something went wrong, try again later"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"msg":      "user login successful",
		"token":    tokenString,
		"username": user.Username,
	})
}

// Check confirms the token is valid and echoes the caller's identity.
func (h *AuthHandler) Check(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Unauthorized"})
		return
	}

	username, _ := c.Get("username")
	c.JSON(http.StatusOK, gin.H{"msg": "valid user", "username": username, "userid": userID})
}

// GetProfile returns the authenticated user's profile
func (h *AuthHandler) GetProfile(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Unauthorized"})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"userId":         user.ID,
		"username":       user.Username,
		"email":          user.Email,
		"firstname":      user.Firstname,
		"lastname":       user.Lastname,
		"profilePicture": user.ProfilePicture,
		"bio":            user.Bio,
	})
}

// UpdateProfile updates the authenticated user's profile fields. The
// profile picture is a URL previously obtained from the upload endpoint.
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Unauthorized"})
		return
	}

	var input struct {
		Username       string `json:"username"`
		Email          string `json:"email"`
		Bio            string `json:"bio"`
		Firstname      string `json:"firstname"`
		Lastname       string `json:"lastname"`
		ProfilePicture string `json:"profilePicture"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"msg": err.Error()})
		return
	}

	if input.Email != "" {
		var existingUser models.User
		if err := h.db.Where("email = ? AND id != ?", input.Email, userID).First(&existingUser).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"msg": "Email already in use"})
			return
		}
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
		return
	}

	if input.Username != "" {
		user.Username = input.Username
	}
	if input.Email != "" {
		user.Email = input.Email
	}
	if input.Bio != "" {
		user.Bio = input.Bio
	}
	if input.Firstname != "" {
		user.Firstname = input.Firstname
	}
	if input.Lastname != "" {
		user.Lastname = input.Lastname
	}
	if input.ProfilePicture != "" {
		user.ProfilePicture = input.ProfilePicture
	}

	if err := h.db.Save(&user).Error; err != nil {
		log.WithError(err).Error("failed to update profile")
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "Server error"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"msg": "Profile updated successfully",
		"user": gin.H{
			"userId":         user.ID,
			"username":       user.Username,
			"email":          user.Email,
			"firstname":      user.Firstname,
			"lastname":       user.Lastname,
			"profilePicture": user.ProfilePicture,
			"bio":            user.Bio,
		},
	})
}

// GetStats returns activity counts and profile completion for the caller.
func (h *AuthHandler) GetStats(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"msg": "Unauthorized"})
		return
	}

	var user models.User
	if err := h.db.First(&user, userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"msg": "User not found"})
		return
	}

	var questionCount, answerCount int64
	h.db.Model(&models.Question{}).Where("user_id = ?", userID).Count(&questionCount)
	h.db.Model(&models.Answer{}).Where("user_id = ?", userID).Count(&answerCount)

	profileFields := []string{user.Username, user.Email, user.Firstname, user.Lastname, user.ProfilePicture, user.Bio}
	filled := 0
	for _, f := range profileFields {
		if f != "" {
			filled++
		}
	}
	profileCompletion := int(math.Round(float64(filled) / float64(len(profileFields)) * 100))

	c.JSON(http.StatusOK, gin.H{
		"questionsCount":    questionCount,
		"answersCount":      answerCount,
		"profileCompletion": profileCompletion,
		"activityScore":     questionCount*10 + answerCount*5,
	})
}
