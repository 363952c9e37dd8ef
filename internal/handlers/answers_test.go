package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nathyb/qa-forum/backend/internal/handlers"
	"github.com/nathyb/qa-forum/backend/internal/models"
	"github.com/nathyb/qa-forum/backend/internal/notify"
	"github.com/nathyb/qa-forum/backend/internal/testdb"
	"github.com/nathyb/qa-forum/backend/internal/vote"
)

func answerRouter(db *gorm.DB, userID int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	dispatcher := notify.NewDispatcher(db, nil)
	engine := vote.NewEngine(db, dispatcher)
	h := handlers.NewAnswerHandler(db, engine, dispatcher)

	r := gin.New()
	r.POST("/api/answers/postanswers", authAs(userID), h.PostAnswer)
	r.GET("/api/answers/all-answers/:questionId", authAs(userID), h.GetAnswers)
	return r
}

func TestPostAnswerNotifiesQuestionOwner(t *testing.T) {
	db := testdb.New(t)
	owner := testdb.CreateUser(t, db, "asker")
	answerer := testdb.CreateUser(t, db, "answerer")
	question := testdb.CreateQuestion(t, db, owner.ID)

	r := answerRouter(db, answerer.ID)
	body := `{"answer":"Use a composite unique index.","questionid":"` + question.QuestionID + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/answers/postanswers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var notifications []models.Notification
	require.NoError(t, db.Where("user_id = ?", owner.ID).Find(&notifications).Error)
	require.Len(t, notifications, 1)
	assert.Equal(t, models.NotificationAnswer, notifications[0].Type)
	require.NotNil(t, notifications[0].SenderID)
	assert.Equal(t, answerer.ID, *notifications[0].SenderID)
	require.NotNil(t, notifications[0].ReferenceID)
	assert.Equal(t, question.QuestionID, *notifications[0].ReferenceID)
}

func TestPostAnswerOwnQuestionNoNotification(t *testing.T) {
	db := testdb.New(t)
	owner := testdb.CreateUser(t, db, "asker")
	question := testdb.CreateQuestion(t, db, owner.ID)

	r := answerRouter(db, owner.ID)
	body := `{"answer":"Answering my own question.","questionid":"` + question.QuestionID + `"}`
	req := httptest.NewRequest(http.MethodPost, "/api/answers/postanswers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Notification{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPostAnswerUnknownQuestion(t *testing.T) {
	db := testdb.New(t)
	user := testdb.CreateUser(t, db, "answerer")

	r := answerRouter(db, user.ID)
	body := `{"answer":"Into the void.","questionid":"00000000-0000-0000-0000-000000000000"}`
	req := httptest.NewRequest(http.MethodPost, "/api/answers/postanswers", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAnswersIncludesVoteState(t *testing.T) {
	db := testdb.New(t)
	owner := testdb.CreateUser(t, db, "asker")
	voter := testdb.CreateUser(t, db, "voter")
	question := testdb.CreateQuestion(t, db, owner.ID)
	answer := testdb.CreateAnswer(t, db, owner.ID, question.QuestionID)

	require.NoError(t, db.Create(&models.AnswerVote{
		AnswerID: answer.ID,
		UserID:   voter.ID,
		VoteType: "like",
	}).Error)

	r := answerRouter(db, voter.ID)
	req := httptest.NewRequest(http.MethodGet, "/api/answers/all-answers/"+question.QuestionID, nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Data []struct {
			AnswerID int     `json:"answerid"`
			Likes    int64   `json:"likes"`
			Dislikes int64   `json:"dislikes"`
			UserVote *string `json:"user_vote"`
			Username string  `json:"username"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Data, 1)
	assert.Equal(t, answer.ID, body.Data[0].AnswerID)
	assert.Equal(t, int64(1), body.Data[0].Likes)
	require.NotNil(t, body.Data[0].UserVote)
	assert.Equal(t, "like", *body.Data[0].UserVote)
	assert.Equal(t, "asker", body.Data[0].Username)
}
