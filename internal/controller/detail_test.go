package controller

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mobox/internal/session"
)

func TestDetail_RequiresLoggedInUser(t *testing.T) {
	repo, _ := newTestRepo(t)

	c := NewMovieDetailController(repo, session.New(), 1, discardLogger())
	defer c.Close()

	state := c.State()
	assert.Equal(t, PhaseError, state.Phase)
	assert.NotEmpty(t, state.ErrorMessage)
}

func TestDetail_LoadsMovie(t *testing.T) {
	repo, st := newTestRepo(t)
	user := insertUser(t, st, "ana@example.com", "Secret1")
	movie := insertMovie(t, st, "Inception", true)

	sess := session.New()
	sess.Set(user)

	c := NewMovieDetailController(repo, sess, movie.ID, discardLogger())
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	state := waitFor(t, c.Watch(ctx), func(s MovieDetailState) bool {
		return s.Phase == PhaseSuccess
	}, "movie detail load")
	require.NotNil(t, state.Movie)
	assert.Equal(t, "Inception", state.Movie.Title)
}

func TestDetail_UnknownMovieIsError(t *testing.T) {
	repo, st := newTestRepo(t)
	user := insertUser(t, st, "ana@example.com", "Secret1")

	sess := session.New()
	sess.Set(user)

	c := NewMovieDetailController(repo, sess, 999, discardLogger())
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	state := waitFor(t, c.Watch(ctx), func(s MovieDetailState) bool {
		return s.Phase == PhaseError
	}, "movie not found")
	assert.Equal(t, "Movie not found", state.ErrorMessage)
}

func TestDetail_SimilarShelfExcludesCurrentAndCapsAtSix(t *testing.T) {
	repo, st := newTestRepo(t)
	user := insertUser(t, st, "ana@example.com", "Secret1")

	current := insertMovie(t, st, "Current", true)
	for i := 0; i < 8; i++ {
		insertMovie(t, st, fmt.Sprintf("Other %d", i), false)
	}

	sess := session.New()
	sess.Set(user)

	c := NewMovieDetailController(repo, sess, current.ID, discardLogger())
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	state := waitFor(t, c.Watch(ctx), func(s MovieDetailState) bool {
		return len(s.SimilarMovies) == similarShelfSize
	}, "similar shelf")

	for _, m := range state.SimilarMovies {
		assert.NotEqual(t, current.ID, m.ID)
	}
}

func TestDetail_FavoriteToggleObservesLiveQuery(t *testing.T) {
	repo, st := newTestRepo(t)
	user := insertUser(t, st, "ana@example.com", "Secret1")
	movie := insertMovie(t, st, "Inception", true)

	sess := session.New()
	sess.Set(user)

	c := NewMovieDetailController(repo, sess, movie.ID, discardLogger())
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	states := c.Watch(ctx)

	waitFor(t, states, func(s MovieDetailState) bool {
		return s.Phase == PhaseSuccess
	}, "movie detail load")

	// not favorited yet, so the click adds directly
	c.OnFavoriteClick(context.Background())
	waitFor(t, states, func(s MovieDetailState) bool {
		return s.IsFavorite && !s.IsLoadingFavorite
	}, "favorite flag after add")

	// favorited: the click only raises the confirmation dialog
	c.OnFavoriteClick(context.Background())
	state := c.State()
	assert.True(t, state.ShowRemoveDialog)
	assert.True(t, state.IsFavorite, "dialog alone must not remove")

	// dismissing keeps the favorite
	c.DismissRemoveDialog()
	assert.False(t, c.State().ShowRemoveDialog)
	assert.True(t, c.State().IsFavorite)

	// confirming actually removes, and the live query flips the flag back
	c.OnFavoriteClick(context.Background())
	c.ConfirmRemoveFavorite(context.Background())
	waitFor(t, states, func(s MovieDetailState) bool {
		return !s.IsFavorite && !s.ShowRemoveDialog
	}, "favorite flag after remove")
}

func TestDetail_DoubleAddKeepsSingleRow(t *testing.T) {
	repo, st := newTestRepo(t)
	user := insertUser(t, st, "ana@example.com", "Secret1")
	movie := insertMovie(t, st, "Inception", true)

	sess := session.New()
	sess.Set(user)

	c := NewMovieDetailController(repo, sess, movie.ID, discardLogger())
	defer c.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	states := c.Watch(ctx)

	c.OnFavoriteClick(context.Background())
	waitFor(t, states, func(s MovieDetailState) bool {
		return s.IsFavorite
	}, "favorite flag after add")

	// a second direct add through the repository is a silent no-op
	require.NoError(t, repo.AddFavorite(context.Background(), user.ID, movie.ID))

	em := <-repo.FavoriteMovies(ctx, user.ID)
	require.NoError(t, em.Err)
	assert.Len(t, em.Value, 1)
}
