package controller

import (
	"context"
	"log/slog"

	"mobox/internal/models"
	"mobox/internal/repository"
	"mobox/internal/session"
)

const similarShelfSize = 6

// MovieDetailState is the detail screen's published state. IsFavorite is
// only ever written from the live query's emissions; the toggle commands
// never flip it optimistically.
type MovieDetailState struct {
	Phase        Phase          `json:"phase"`
	Movie        *models.Movie  `json:"movie,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`

	IsFavorite        bool           `json:"is_favorite"`
	IsLoadingFavorite bool           `json:"is_loading_favorite"`
	SimilarMovies     []models.Movie `json:"similar_movies,omitempty"`
	ShowRemoveDialog  bool           `json:"show_remove_dialog"`
}

type MovieDetailController struct {
	repo    repository.AppRepository
	logger  *slog.Logger
	movieID int64
	userID  int64
	state   *stateValue[MovieDetailState]

	ctx    context.Context
	cancel context.CancelFunc
}

// NewMovieDetailController builds the detail screen for one movie. Without a
// logged-in user the controller lands in a terminal Error state and starts
// no subscriptions.
func NewMovieDetailController(repo repository.AppRepository, sess *session.Session, movieID int64, logger *slog.Logger) *MovieDetailController {
	ctx, cancel := context.WithCancel(context.Background())

	c := &MovieDetailController{
		repo:    repo,
		logger:  logger,
		movieID: movieID,
		state:   newStateValue(MovieDetailState{Phase: PhaseLoading}),
		ctx:     ctx,
		cancel:  cancel,
	}

	user := sess.User()
	if user == nil {
		c.state.update(func(s MovieDetailState) MovieDetailState {
			s.Phase = PhaseError
			s.ErrorMessage = "No user is logged in. Sign in to see details."
			return s
		})
		return c
	}
	c.userID = user.ID

	go c.loadMovie()
	go c.watchFavorite()
	go c.watchSimilar()
	return c
}

func (c *MovieDetailController) State() MovieDetailState {
	return c.state.get()
}

func (c *MovieDetailController) Watch(ctx context.Context) <-chan MovieDetailState {
	return c.state.watch(ctx)
}

// Reload re-runs the one-shot movie lookup, the retry affordance for the
// detail header.
func (c *MovieDetailController) Reload() {
	if c.userID == 0 {
		return
	}
	go c.loadMovie()
}

func (c *MovieDetailController) loadMovie() {
	c.state.update(func(s MovieDetailState) MovieDetailState {
		s.Phase = PhaseLoading
		s.ErrorMessage = ""
		return s
	})

	movie, err := c.repo.GetMovieByID(c.ctx, c.movieID)
	if err != nil {
		if c.ctx.Err() != nil {
			return
		}
		c.logger.Error("movie lookup failed", "movie_id", c.movieID, "error", err)
		c.state.update(func(s MovieDetailState) MovieDetailState {
			s.Phase = PhaseError
			s.ErrorMessage = ErrConnection
			return s
		})
		return
	}
	if movie == nil {
		c.state.update(func(s MovieDetailState) MovieDetailState {
			s.Phase = PhaseError
			s.ErrorMessage = "Movie not found"
			return s
		})
		return
	}

	c.state.update(func(s MovieDetailState) MovieDetailState {
		s.Phase = PhaseSuccess
		s.Movie = movie
		s.ErrorMessage = ""
		return s
	})
}

func (c *MovieDetailController) watchFavorite() {
	for em := range c.repo.IsFavorite(c.ctx, c.userID, c.movieID) {
		if em.Err != nil {
			c.logger.Error("favorite check failed", "movie_id", c.movieID, "error", em.Err)
			continue
		}
		favorite := em.Value
		c.state.update(func(s MovieDetailState) MovieDetailState {
			s.IsFavorite = favorite
			return s
		})
	}
}

// watchSimilar keeps the "similar movies" shelf current: everything except
// the current movie, truncated. No content-based similarity.
func (c *MovieDetailController) watchSimilar() {
	for em := range c.repo.AllMovies(c.ctx) {
		if em.Err != nil {
			c.logger.Error("similar movies failed", "movie_id", c.movieID, "error", em.Err)
			continue
		}

		similar := make([]models.Movie, 0, similarShelfSize)
		for _, m := range em.Value {
			if m.ID == c.movieID {
				continue
			}
			similar = append(similar, m)
			if len(similar) == similarShelfSize {
				break
			}
		}
		c.state.update(func(s MovieDetailState) MovieDetailState {
			s.SimilarMovies = similar
			return s
		})
	}
}

// OnFavoriteClick adds directly when not favorited; when already favorited it
// only raises the confirmation dialog and removes nothing yet.
func (c *MovieDetailController) OnFavoriteClick(ctx context.Context) {
	if c.userID == 0 {
		c.logger.Warn("favorite click without a logged-in user", "movie_id", c.movieID)
		return
	}

	if c.state.get().IsFavorite {
		c.state.update(func(s MovieDetailState) MovieDetailState {
			s.ShowRemoveDialog = true
			return s
		})
		return
	}
	c.addToFavorites(ctx)
}

// ConfirmRemoveFavorite is the dialog's confirm action.
func (c *MovieDetailController) ConfirmRemoveFavorite(ctx context.Context) {
	c.removeFromFavorites(ctx)
	c.DismissRemoveDialog()
}

func (c *MovieDetailController) DismissRemoveDialog() {
	c.state.update(func(s MovieDetailState) MovieDetailState {
		s.ShowRemoveDialog = false
		return s
	})
}

func (c *MovieDetailController) addToFavorites(ctx context.Context) {
	c.state.update(func(s MovieDetailState) MovieDetailState {
		s.IsLoadingFavorite = true
		return s
	})

	// IsFavorite is left alone here; the live query is the only writer.
	if err := c.repo.AddFavorite(ctx, c.userID, c.movieID); err != nil {
		c.logger.Error("add favorite failed", "movie_id", c.movieID, "error", err)
	}

	c.state.update(func(s MovieDetailState) MovieDetailState {
		s.IsLoadingFavorite = false
		return s
	})
}

func (c *MovieDetailController) removeFromFavorites(ctx context.Context) {
	c.state.update(func(s MovieDetailState) MovieDetailState {
		s.IsLoadingFavorite = true
		return s
	})

	if err := c.repo.RemoveFavorite(ctx, c.userID, c.movieID); err != nil {
		c.logger.Error("remove favorite failed", "movie_id", c.movieID, "error", err)
	}

	c.state.update(func(s MovieDetailState) MovieDetailState {
		s.IsLoadingFavorite = false
		return s
	})
}

// Close cancels the live subscriptions.
func (c *MovieDetailController) Close() {
	c.cancel()
}
