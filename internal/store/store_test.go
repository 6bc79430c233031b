package store

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"mobox/internal/models"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	// a single connection keeps every query on the same in-memory database
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Movie{}, &models.Favorite{}))

	return New(db, slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func seedUser(t *testing.T, s *Store, email string) *models.User {
	t.Helper()
	user := &models.User{Name: "Ana", LastName: "García", Email: email, PasswordHash: "Secret1"}
	require.NoError(t, s.InsertUser(context.Background(), user))
	return user
}

func seedMovie(t *testing.T, s *Store, title string, popular bool) *models.Movie {
	t.Helper()
	movie := &models.Movie{Title: title, Description: "d", PosterURL: "p", Genre: "g", IsPopular: popular}
	require.NoError(t, s.InsertMovie(context.Background(), movie))
	return movie
}

func TestInsertUser_DuplicateEmailIsNoOp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	original := seedUser(t, s, "a@x.com")

	dup := &models.User{Name: "Other", LastName: "Person", Email: "a@x.com", PasswordHash: "Different1"}
	require.NoError(t, s.InsertUser(ctx, dup))

	var count int64
	require.NoError(t, s.db.Model(&models.User{}).Where("email = ?", "a@x.com").Count(&count).Error)
	assert.Equal(t, int64(1), count)

	stored, err := s.GetUserByEmail(ctx, "a@x.com")
	require.NoError(t, err)
	require.NotNil(t, stored)
	assert.Equal(t, original.Name, stored.Name)
	assert.Equal(t, original.PasswordHash, stored.PasswordHash)
}

func TestGetUserByEmail_AbsentIsNilNotError(t *testing.T) {
	s := newTestStore(t)

	user, err := s.GetUserByEmail(context.Background(), "nobody@x.com")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestGetMovieByID_AbsentIsNilNotError(t *testing.T) {
	s := newTestStore(t)

	movie, err := s.GetMovieByID(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, movie)
}

func TestAddFavorite_IdempotentPair(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, s, "a@x.com")
	movie := seedMovie(t, s, "Inception", true)

	require.NoError(t, s.AddFavorite(ctx, user.ID, movie.ID))
	require.NoError(t, s.AddFavorite(ctx, user.ID, movie.ID))

	var count int64
	require.NoError(t, s.db.Model(&models.Favorite{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestRemoveFavorite_AbsentPairIsNoOp(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, s, "a@x.com")
	movie := seedMovie(t, s, "Inception", true)
	require.NoError(t, s.AddFavorite(ctx, user.ID, movie.ID))

	// a pair that was never added
	require.NoError(t, s.RemoveFavorite(ctx, user.ID+100, movie.ID))

	var count int64
	require.NoError(t, s.db.Model(&models.Favorite{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestDeleteUser_CascadesFavorites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	user := seedUser(t, s, "a@x.com")
	m1 := seedMovie(t, s, "Inception", true)
	m2 := seedMovie(t, s, "Joker", true)
	require.NoError(t, s.AddFavorite(ctx, user.ID, m1.ID))
	require.NoError(t, s.AddFavorite(ctx, user.ID, m2.ID))

	require.NoError(t, s.DeleteUser(ctx, user.ID))

	var count int64
	require.NoError(t, s.db.Model(&models.Favorite{}).Where("user_id = ?", user.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestDeleteMovie_CascadesFavorites(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	u1 := seedUser(t, s, "a@x.com")
	u2 := seedUser(t, s, "b@x.com")
	movie := seedMovie(t, s, "Inception", true)
	require.NoError(t, s.AddFavorite(ctx, u1.ID, movie.ID))
	require.NoError(t, s.AddFavorite(ctx, u2.ID, movie.ID))

	require.NoError(t, s.DeleteMovie(ctx, movie.ID))

	var count int64
	require.NoError(t, s.db.Model(&models.Favorite{}).Where("movie_id = ?", movie.ID).Count(&count).Error)
	assert.Equal(t, int64(0), count)
}

func TestGetAllMoviesList(t *testing.T) {
	s := newTestStore(t)

	movies, err := s.GetAllMoviesList(context.Background())
	require.NoError(t, err)
	assert.Empty(t, movies)

	seedMovie(t, s, "Inception", true)
	seedMovie(t, s, "Joker", false)

	movies, err = s.GetAllMoviesList(context.Background())
	require.NoError(t, err)
	assert.Len(t, movies, 2)
}
