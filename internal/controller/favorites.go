package controller

import (
	"context"
	"log/slog"
	"sync"

	"mobox/internal/models"
	"mobox/internal/repository"
	"mobox/internal/session"
)

// FavoritesState is the favorites screen's published state.
type FavoritesState struct {
	Phase        Phase          `json:"phase"`
	Movies       []models.Movie `json:"movies,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
}

// FavoritesController keeps one live subscription on the session user's
// favorite movies and maps the emissions to Empty or Success.
type FavoritesController struct {
	repo   repository.AppRepository
	logger *slog.Logger
	userID int64
	state  *stateValue[FavoritesState]

	ctx    context.Context
	cancel context.CancelFunc

	mu        sync.Mutex
	subCancel context.CancelFunc
}

func NewFavoritesController(repo repository.AppRepository, sess *session.Session, logger *slog.Logger) *FavoritesController {
	ctx, cancel := context.WithCancel(context.Background())

	c := &FavoritesController{
		repo:   repo,
		logger: logger,
		state:  newStateValue(FavoritesState{Phase: PhaseLoading}),
		ctx:    ctx,
		cancel: cancel,
	}

	user := sess.User()
	if user == nil {
		c.state.set(FavoritesState{
			Phase:        PhaseError,
			ErrorMessage: "No user is logged in to see favorites.",
		})
		return c
	}
	c.userID = user.ID

	c.subscribe()
	return c
}

func (c *FavoritesController) State() FavoritesState {
	return c.state.get()
}

func (c *FavoritesController) Watch(ctx context.Context) <-chan FavoritesState {
	return c.state.watch(ctx)
}

// Refresh is the explicit retry affordance: tear the subscription down and
// start a fresh one, re-entering Loading.
func (c *FavoritesController) Refresh() {
	if c.userID == 0 {
		return
	}
	c.state.update(func(s FavoritesState) FavoritesState {
		s.Phase = PhaseLoading
		s.ErrorMessage = ""
		return s
	})
	c.subscribe()
}

func (c *FavoritesController) subscribe() {
	c.mu.Lock()
	if c.subCancel != nil {
		c.subCancel()
	}
	subCtx, cancel := context.WithCancel(c.ctx)
	c.subCancel = cancel
	c.mu.Unlock()

	ch := c.repo.FavoriteMovies(subCtx, c.userID)
	go func() {
		for em := range ch {
			if em.Err != nil {
				c.logger.Error("favorites emission failed", "user_id", c.userID, "error", em.Err)
				c.state.update(func(s FavoritesState) FavoritesState {
					s.Phase = PhaseError
					s.ErrorMessage = ErrConnection
					return s
				})
				continue
			}

			movies := em.Value
			c.state.update(func(s FavoritesState) FavoritesState {
				if len(movies) == 0 {
					s.Phase = PhaseEmpty
					s.Movies = nil
				} else {
					s.Phase = PhaseSuccess
					s.Movies = movies
				}
				s.ErrorMessage = ""
				return s
			})
		}
	}()
}

// Remove un-favorites a movie from the list. The published list itself only
// changes when the live query re-emits.
func (c *FavoritesController) Remove(ctx context.Context, movieID int64) {
	if c.userID == 0 {
		c.logger.Warn("remove favorite without a logged-in user", "movie_id", movieID)
		return
	}
	if err := c.repo.RemoveFavorite(ctx, c.userID, movieID); err != nil {
		c.logger.Error("remove favorite failed", "movie_id", movieID, "error", err)
	}
}

// Close cancels the live subscription.
func (c *FavoritesController) Close() {
	c.cancel()
}
