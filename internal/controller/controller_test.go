package controller

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"mobox/internal/models"
	"mobox/internal/repository"
	"mobox/internal/store"
)

const stateTimeout = 2 * time.Second

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newTestRepo(t *testing.T) (repository.AppRepository, *store.Store) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open("file::memory:?_pragma=foreign_keys(1)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Movie{}, &models.Favorite{}))

	st := store.New(db, discardLogger())
	return repository.NewAppRepository(st), st
}

func insertUser(t *testing.T, st *store.Store, email, password string) *models.User {
	t.Helper()
	user := &models.User{Name: "Ana", LastName: "García", Email: email, PasswordHash: password}
	require.NoError(t, st.InsertUser(context.Background(), user))
	return user
}

func insertMovie(t *testing.T, st *store.Store, title string, popular bool) *models.Movie {
	t.Helper()
	movie := &models.Movie{Title: title, Description: "d", PosterURL: "p", Genre: "g", IsPopular: popular}
	require.NoError(t, st.InsertMovie(context.Background(), movie))
	return movie
}

// waitFor reads states until one satisfies the predicate, failing the test
// if none arrives in time.
func waitFor[S any](t *testing.T, ch <-chan S, pred func(S) bool, what string) S {
	t.Helper()
	deadline := time.After(stateTimeout)
	for {
		select {
		case s, ok := <-ch:
			if !ok {
				t.Fatalf("state channel closed while waiting for %s", what)
			}
			if pred(s) {
				return s
			}
		case <-deadline:
			t.Fatalf("timed out waiting for %s", what)
			panic("unreachable")
		}
	}
}
