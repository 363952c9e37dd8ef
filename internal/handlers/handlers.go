package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/nathyb/qa-forum/backend/internal/config"
	"github.com/nathyb/qa-forum/backend/internal/notify"
	"github.com/nathyb/qa-forum/backend/internal/vote"
)

// Handler combines all handler types
type Handler struct {
	Auth         *AuthHandler
	Question     *QuestionHandler
	Answer       *AnswerHandler
	Reply        *ReplyHandler
	Vote         *VoteHandler
	Notification *NotificationHandler
	Upload       *UploadHandler
}

// NewHandler creates a unified handler with all sub-handlers
func NewHandler(db *gorm.DB, engine *vote.Engine, dispatcher *notify.Dispatcher, hub *notify.Hub, cfg *config.Config) *Handler {
	return &Handler{
		Auth:         NewAuthHandler(db, cfg.JWTSecret),
		Question:     NewQuestionHandler(db),
		Answer:       NewAnswerHandler(db, engine, dispatcher),
		Reply:        NewReplyHandler(db, engine),
		Vote:         NewVoteHandler(engine),
		Notification: NewNotificationHandler(dispatcher, hub),
		Upload:       NewUploadHandler(db, cfg),
	}
}

func extractUserID(c *gin.Context) (int, bool) {
	raw, exists := c.Get("user_id")
	if !exists {
		return 0, false
	}
	switch v := raw.(type) {
	case int:
		return v, true
	case uint:
		return int(v), true
	case float64:
		return int(v), true
	default:
		return 0, false
	}
}
