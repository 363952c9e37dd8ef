package server

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nathyb/qa-forum/backend/internal/config"
	"github.com/nathyb/qa-forum/backend/internal/database"
	"github.com/nathyb/qa-forum/backend/internal/handlers"
	"github.com/nathyb/qa-forum/backend/internal/middleware"
	"github.com/nathyb/qa-forum/backend/internal/notify"
	"github.com/nathyb/qa-forum/backend/internal/vote"
)

type Server struct {
	cfg     *config.Config
	db      database.Service
	handler *handlers.Handler
}

// NewServer wires the datastore, vote engine, dispatcher and handlers and
// returns a configured HTTP server.
func NewServer(cfg *config.Config, db database.Service) *http.Server {
	gormDB := db.GetDB()

	hub := notify.NewHub()
	dispatcher := notify.NewDispatcher(gormDB, hub)
	engine := vote.NewEngine(gormDB, dispatcher)

	handler := handlers.NewHandler(gormDB, engine, dispatcher, hub, cfg)

	newServer := &Server{
		cfg:     cfg,
		db:      db,
		handler: handler,
	}

	router := newServer.RegisterRoutes()

	return &http.Server{
		Addr:         "0.0.0.0:" + cfg.Port,
		Handler:      router,
		IdleTimeout:  time.Minute,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}
}

// RegisterRoutes sets up all application routes
func (s *Server) RegisterRoutes() *gin.Engine {
	r := gin.Default()

	// CORS configuration
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Accept", "Authorization", "Content-Type", "X-Requested-With"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * 3600,
	}))

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.db.Health())
	})

	// Uploaded images are served statically
	r.Static("/uploads", s.cfg.UploadDir)

	auth := middleware.AuthMiddleware(s.cfg.JWTSecret)

	api := r.Group("/api")
	{
		// User routes
		users := api.Group("/users")
		{
			users.POST("/register", s.handler.Auth.Register)
			users.POST("/login", s.handler.Auth.Login)
			users.GET("/check", auth, s.handler.Auth.Check)
			users.GET("/profile", auth, s.handler.Auth.GetProfile)
			users.PUT("/profile", auth, s.handler.Auth.UpdateProfile)
			users.GET("/stats", auth, s.handler.Auth.GetStats)
		}

		// Question routes
		questions := api.Group("/questions", auth)
		{
			questions.GET("/all_questions", s.handler.Question.AllQuestions)
			questions.POST("/post", s.handler.Question.PostQuestion)
			questions.GET("/:questionid", s.handler.Question.GetQuestion)
			questions.PUT("/:questionid", s.handler.Question.UpdateQuestion)
		}

		// Answer routes (votes included)
		answers := api.Group("/answers", auth)
		{
			answers.GET("/all-answers/:questionId", s.handler.Answer.GetAnswers)
			answers.POST("/postanswers", s.handler.Answer.PostAnswer)
			answers.PUT("/:answerId", s.handler.Answer.UpdateAnswer)
			answers.POST("/:answerId/vote", s.handler.Vote.VoteAnswer)
			answers.GET("/:answerId/votes", s.handler.Vote.GetAnswerVotes)
		}

		// Reply routes
		replies := api.Group("/replies", auth)
		{
			replies.POST("/postreply", s.handler.Reply.PostReply)
			replies.GET("/all-replies/:answerId", s.handler.Reply.GetReplies)
			replies.POST("/:replyId/vote", s.handler.Vote.VoteReply)
			replies.PUT("/:replyId", s.handler.Reply.UpdateReply)
		}

		// Notification routes
		notifications := api.Group("/notifications", auth)
		{
			notifications.GET("", s.handler.Notification.List)
			notifications.GET("/unread", s.handler.Notification.UnreadCount)
			notifications.PUT("/:notificationId/read", s.handler.Notification.MarkRead)
			notifications.PUT("/mark-all-read", s.handler.Notification.MarkAllRead)
			notifications.GET("/ws", s.handler.Notification.WebSocket)
		}

		// Upload routes
		api.POST("/upload-image", auth, s.handler.Upload.UploadImage)
		api.GET("/images", auth, s.handler.Upload.GetUserImages)
		api.DELETE("/images/:imageId", auth, s.handler.Upload.DeleteImage)
	}

	return r
}
