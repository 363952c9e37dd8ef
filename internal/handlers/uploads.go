package handlers

import (
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/nathyb/qa-forum/backend/internal/config"
	"github.com/nathyb/qa-forum/backend/internal/models"
)

var allowedImageExts = map[string]bool{
	".jpg":  true,
	".jpeg": true,
	".png":  true,
	".gif":  true,
}

type UploadHandler struct {
	db  *gorm.DB
	cfg *config.Config
}

func NewUploadHandler(db *gorm.DB, cfg *config.Config) *UploadHandler {
	return &UploadHandler{db: db, cfg: cfg}
}

// UploadImage stores a multipart image under the upload dir with a UUID
// name and records it in the images table.
func (h *UploadHandler) UploadImage(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}

	if file.Size > h.cfg.MaxUploadSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	contentType := file.Header.Get("Content-Type")
	if !allowedImageExts[ext] || !strings.HasPrefix(contentType, "image/") {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Not an image! Please upload only images."})
		return
	}

	if err := os.MkdirAll(h.cfg.UploadDir, 0o755); err != nil {
		log.WithError(err).Error("failed to create upload directory")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error uploading image"})
		return
	}

	filename := uuid.NewString() + ext
	dst := filepath.Join(h.cfg.UploadDir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		log.WithError(err).Error("failed to save uploaded file")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error uploading image"})
		return
	}

	image := models.Image{
		UserID:       userID,
		Filename:     filename,
		OriginalName: file.Filename,
		MimeType:     contentType,
		Size:         file.Size,
		URL:          "/uploads/" + filename,
	}

	if err := h.db.Create(&image).Error; err != nil {
		// Keep storage and the table consistent: drop the orphaned file.
		if rmErr := os.Remove(dst); rmErr != nil {
			log.WithError(rmErr).Warn("failed to remove orphaned upload")
		}
		log.WithError(err).Error("failed to record uploaded image")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error uploading image"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": image.URL})
}

// GetUserImages returns the caller's uploaded images, newest first
func (h *UploadHandler) GetUserImages(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var images []models.Image
	if err := h.db.Where("user_id = ?", userID).Order("created_at desc").Find(&images).Error; err != nil {
		log.WithError(err).Error("failed to fetch images")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching images"})
		return
	}

	c.JSON(http.StatusOK, images)
}

// DeleteImage removes one of the caller's images and its file
func (h *UploadHandler) DeleteImage(c *gin.Context) {
	userID, ok := extractUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	imageID, err := strconv.Atoi(c.Param("imageId"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid image ID"})
		return
	}

	var image models.Image
	if err := h.db.Where("id = ? AND user_id = ?", imageID, userID).First(&image).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Image not found"})
		return
	}

	if err := h.db.Delete(&image).Error; err != nil {
		log.WithError(err).Error("failed to delete image record")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error deleting image"})
		return
	}

	if err := os.Remove(filepath.Join(h.cfg.UploadDir, image.Filename)); err != nil {
		log.WithError(err).Warn("failed to delete image file")
	}

	c.JSON(http.StatusOK, gin.H{"message": "Image deleted successfully"})
}
