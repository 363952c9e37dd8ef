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
	"github.com/nathyb/qa-forum/backend/internal/middleware"
	"github.com/nathyb/qa-forum/backend/internal/testdb"
)

const authTestSecret = "test-secret"

func authRouter(db *gorm.DB) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := handlers.NewAuthHandler(db, authTestSecret)

	r := gin.New()
	r.POST("/api/users/register", h.Register)
	r.POST("/api/users/login", h.Login)
	r.GET("/api/users/check", middleware.AuthMiddleware(authTestSecret), h.Check)
	return r
}

func postJSON(t *testing.T, r *gin.Engine, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const registerBody = `{
	"username": "alice",
	"firstname": "Alice",
	"lastname": "Smith",
	"email": "alice@example.com",
	"password": "hunter2hunter2"
}`

func TestRegisterLoginRoundTrip(t *testing.T) {
	db := testdb.New(t)
	r := authRouter(db)

	w := postJSON(t, r, "/api/users/register", registerBody)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/users/login", `{"email":"alice@example.com","password":"hunter2hunter2"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Token    string `json:"token"`
		Username string `json:"username"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.NotEmpty(t, body.Token)
	assert.Equal(t, "alice", body.Username)

	// The issued token passes the auth middleware.
	req := httptest.NewRequest(http.MethodGet, "/api/users/check", nil)
	req.Header.Set("Authorization", "Bearer "+body.Token)
	cw := httptest.NewRecorder()
	r.ServeHTTP(cw, req)
	assert.Equal(t, http.StatusOK, cw.Code)
}

func TestRegisterValidation(t *testing.T) {
	db := testdb.New(t)
	r := authRouter(db)

	tests := []struct {
		name string
		body string
	}{
		{"missing fields", `{"username":"bob"}`},
		{"bad email", `{"username":"bob","firstname":"Bob","lastname":"Jones","email":"not-an-email","password":"hunter2hunter2"}`},
		{"short password", `{"username":"bob","firstname":"Bob","lastname":"Jones","email":"bob@example.com","password":"short"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := postJSON(t, r, "/api/users/register", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestRegisterDuplicate(t *testing.T) {
	db := testdb.New(t)
	r := authRouter(db)

	w := postJSON(t, r, "/api/users/register", registerBody)
	require.Equal(t, http.StatusCreated, w.Code)

	w = postJSON(t, r, "/api/users/register", registerBody)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestLoginBadCredentials(t *testing.T) {
	db := testdb.New(t)
	r := authRouter(db)

	w := postJSON(t, r, "/api/users/register", registerBody)
	require.Equal(t, http.StatusCreated, w.Code)

	// Wrong password and unknown email report the same failure.
	w = postJSON(t, r, "/api/users/login", `{"email":"alice@example.com","password":"wrong-password"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = postJSON(t, r, "/api/users/login", `{"email":"nobody@example.com","password":"hunter2hunter2"}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
