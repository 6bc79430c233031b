package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"mobox/internal/config"
	"mobox/internal/controller"
	"mobox/internal/models"
	"mobox/internal/repository"
	"mobox/internal/session"
	"mobox/internal/store"
)

func setupRouter(t *testing.T) (*gin.Engine, *store.Store, *session.Session) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Movie{}, &models.Favorite{}))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	st := store.New(db, logger)
	repo := repository.NewAppRepository(st)
	sess := session.New()

	cfg := &config.Config{
		GoEnv:             "test",
		SearchDebounce:    30 * time.Millisecond,
		HomeLinger:        50 * time.Millisecond,
		AuthRatePerSecond: 1000,
		AuthRateBurst:     1000,
	}

	home := controller.NewHomeController(repo, sess, cfg.HomeLinger, logger)
	t.Cleanup(home.Close)

	router := NewRouter(&Deps{
		Cfg:     cfg,
		Repo:    repo,
		Session: sess,
		Home:    home,
		Logger:  logger,
	})
	return router, st, sess
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, path, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRegisterThenLogin(t *testing.T) {
	router, _, sess := setupRouter(t)

	w := doJSON(t, router, "POST", "/auth/register", gin.H{
		"name":             "Ana",
		"last_name":        "García",
		"email":            "ana@example.com",
		"password":         "Secret1",
		"confirm_password": "Secret1",
	})
	assert.Equal(t, http.StatusCreated, w.Code)

	w = doJSON(t, router, "POST", "/auth/login", gin.H{
		"email":    "ana@example.com",
		"password": "Secret1",
	})
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, sess.User())
	assert.Equal(t, "Ana", sess.User().Name)

	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEmpty(t, resp["session_id"])
}

func TestRegister_DuplicateEmailConflicts(t *testing.T) {
	router, _, _ := setupRouter(t)

	body := gin.H{
		"name":             "Ana",
		"last_name":        "García",
		"email":            "ana@example.com",
		"password":         "Secret1",
		"confirm_password": "Secret1",
	}
	assert.Equal(t, http.StatusCreated, doJSON(t, router, "POST", "/auth/register", body).Code)
	assert.Equal(t, http.StatusConflict, doJSON(t, router, "POST", "/auth/register", body).Code)
}

func TestLogin_BadCredentialsUnauthorized(t *testing.T) {
	router, _, sess := setupRouter(t)

	w := doJSON(t, router, "POST", "/auth/login", gin.H{
		"email":    "nobody@example.com",
		"password": "Secret1",
	})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Nil(t, sess.User())
}

func TestFavorites_RequireSession(t *testing.T) {
	router, _, _ := setupRouter(t)

	req, _ := http.NewRequest("GET", "/favorites", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestFavoriteToggleFlow(t *testing.T) {
	router, st, sess := setupRouter(t)

	ctx := context.Background()
	user := &models.User{Name: "Ana", LastName: "García", Email: "ana@example.com", PasswordHash: "Secret1"}
	require.NoError(t, st.InsertUser(ctx, user))
	movie := &models.Movie{Title: "Inception", IsPopular: true}
	require.NoError(t, st.InsertMovie(ctx, movie))
	sess.Set(user)

	// first toggle adds
	w := doJSON(t, router, "POST", "/movies/1/favorite", gin.H{})
	require.Equal(t, http.StatusOK, w.Code)
	var resp map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, true, resp["is_favorite"])

	// second toggle needs confirmation before removing
	w = doJSON(t, router, "POST", "/movies/1/favorite", gin.H{})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, "POST", "/movies/1/favorite", gin.H{"confirm": true})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, false, resp["is_favorite"])
}

func TestSearchEndpoint(t *testing.T) {
	router, st, _ := setupRouter(t)

	movie := &models.Movie{Title: "Inception", IsPopular: true}
	require.NoError(t, st.InsertMovie(context.Background(), movie))

	w := doJSON(t, router, "GET", "/search?q=ncep", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Phase  string         `json:"phase"`
		Movies []models.Movie `json:"movies"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Phase)
	require.Len(t, resp.Movies, 1)
	assert.Equal(t, "Inception", resp.Movies[0].Title)

	w = doJSON(t, router, "GET", "/search?q=zzz", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "no_results", resp.Phase)
}
