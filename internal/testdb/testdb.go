// Package testdb spins up throwaway PostgreSQL containers for tests that
// need a real datastore (the vote constraints only mean something on a real
// unique index).
package testdb

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/testcontainers/testcontainers-go"
	tcpostgres "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/nathyb/qa-forum/backend/internal/models"
)

// New starts a PostgreSQL container, migrates the schema and returns a GORM
// handle. The container is terminated when the test finishes. Skipped in
// -short mode.
func New(t *testing.T) *gorm.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	ctx := context.Background()

	container, err := tcpostgres.Run(ctx, "postgres:16-alpine",
		tcpostgres.WithDatabase("forum_test"),
		tcpostgres.WithUsername("forum"),
		tcpostgres.WithPassword("forum"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}
	t.Cleanup(func() {
		if err := container.Terminate(context.Background()); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}

	err = db.AutoMigrate(
		&models.User{},
		&models.Question{},
		&models.Answer{},
		&models.Reply{},
		&models.AnswerVote{},
		&models.ReplyVote{},
		&models.Notification{},
		&models.Image{},
	)
	if err != nil {
		t.Fatalf("failed to migrate schema: %v", err)
	}

	return db
}

// CreateUser inserts a user and returns it.
func CreateUser(t *testing.T, db *gorm.DB, username string) models.User {
	t.Helper()

	user := models.User{
		Username:  username,
		Firstname: "Test",
		Lastname:  "User",
		Email:     username + "@example.com",
		Password:  "not-a-real-hash",
	}
	if err := db.Create(&user).Error; err != nil {
		t.Fatalf("failed to create test user: %v", err)
	}
	return user
}

// CreateQuestion inserts a question owned by the given user.
func CreateQuestion(t *testing.T, db *gorm.DB, userID int) models.Question {
	t.Helper()

	question := models.Question{
		QuestionID:  uuid.NewString(),
		UserID:      userID,
		Title:       "How do I test this?",
		Description: "Looking for a way to test the vote protocol.",
		Tag:         "testing",
	}
	if err := db.Create(&question).Error; err != nil {
		t.Fatalf("failed to create test question: %v", err)
	}
	return question
}

// CreateAnswer inserts an answer owned by the given user.
func CreateAnswer(t *testing.T, db *gorm.DB, userID int, questionID string) models.Answer {
	t.Helper()

	answer := models.Answer{
		UserID:     userID,
		QuestionID: questionID,
		Answer:     "You write a test for it.",
	}
	if err := db.Create(&answer).Error; err != nil {
		t.Fatalf("failed to create test answer: %v", err)
	}
	return answer
}

// CreateReply inserts a reply owned by the given user.
func CreateReply(t *testing.T, db *gorm.DB, userID, answerID int) models.Reply {
	t.Helper()

	reply := models.Reply{
		UserID:   userID,
		AnswerID: answerID,
		Reply:    "Thanks, that helped.",
	}
	if err := db.Create(&reply).Error; err != nil {
		t.Fatalf("failed to create test reply: %v", err)
	}
	return reply
}
