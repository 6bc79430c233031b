package api

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"mobox/internal/controller"
)

// settleTimeout bounds how long a handler waits for a controller to leave
// its Loading phase before answering with whatever state it has.
const settleTimeout = 3 * time.Second

type CatalogHandler struct {
	deps *Deps
}

func NewCatalogHandler(deps *Deps) *CatalogHandler {
	return &CatalogHandler{deps: deps}
}

// Home renders the two shelves plus the greeting user. Watching the home
// controller here is what lazily starts its live queries.
func (h *CatalogHandler) Home(c *gin.Context) {
	ctx := c.Request.Context()

	popularCh := h.deps.Home.WatchPopular(ctx)
	allCh := h.deps.Home.WatchAll(ctx)

	// First emission is the current value; give the freshly started live
	// queries a beat to push the real list before responding.
	popular := latestList(popularCh)
	all := latestList(allCh)

	resp := gin.H{
		"popular_movies": popular,
		"all_movies":     all,
	}
	if user := h.deps.Home.CurrentUser(); user != nil {
		resp["greeting"] = user.Name
	}
	c.JSON(http.StatusOK, resp)
}

func latestList[T any](ch <-chan []T) []T {
	var latest []T
	settle := time.After(200 * time.Millisecond)
	for {
		select {
		case v, ok := <-ch:
			if !ok {
				return latest
			}
			latest = v
		case <-settle:
			return latest
		}
	}
}

// Search runs one keystroke through the debounce pipeline and waits for the
// resulting state.
func (h *CatalogHandler) Search(c *gin.Context) {
	query := c.Query("q")
	if strings.TrimSpace(query) == "" {
		c.JSON(http.StatusOK, gin.H{"phase": controller.PhaseEmpty.String()})
		return
	}

	ctrl := controller.NewSearchController(h.deps.Repo, h.deps.Cfg.SearchDebounce, h.deps.Logger)
	defer ctrl.Close()

	watchCtx := c.Request.Context()
	states := ctrl.Watch(watchCtx)
	ctrl.OnQueryChange(query)

	deadline := time.After(settleTimeout)
	for {
		select {
		case state := <-states:
			switch state.Phase {
			case controller.PhaseSuccess, controller.PhaseNoResults:
				c.JSON(http.StatusOK, gin.H{
					"phase":  state.Phase.String(),
					"movies": state.Movies,
				})
				return
			case controller.PhaseError:
				c.JSON(http.StatusInternalServerError, gin.H{
					"phase": state.Phase.String(),
					"error": state.ErrorMessage,
				})
				return
			}
		case <-deadline:
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "search did not settle"})
			return
		}
	}
}

// MovieDetail builds the detail screen for one movie and reports its settled
// state, similar shelf and favorite flag included.
func (h *CatalogHandler) MovieDetail(c *gin.Context) {
	movieID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return
	}

	ctrl := controller.NewMovieDetailController(h.deps.Repo, h.deps.Session, movieID, h.deps.Logger)
	defer ctrl.Close()

	state, ok := settleDetail(c, ctrl)
	if !ok {
		return
	}

	if state.Phase == controller.PhaseError {
		status := http.StatusInternalServerError
		if state.ErrorMessage == "Movie not found" {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"phase": state.Phase.String(), "error": state.ErrorMessage})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"phase":          state.Phase.String(),
		"movie":          state.Movie,
		"is_favorite":    state.IsFavorite,
		"similar_movies": state.SimilarMovies,
	})
}

// SimilarMovies answers with just the similar shelf for a movie.
func (h *CatalogHandler) SimilarMovies(c *gin.Context) {
	movieID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid movie id"})
		return
	}

	ctrl := controller.NewMovieDetailController(h.deps.Repo, h.deps.Session, movieID, h.deps.Logger)
	defer ctrl.Close()

	state, ok := settleDetail(c, ctrl)
	if !ok {
		return
	}
	if state.Phase == controller.PhaseError {
		status := http.StatusInternalServerError
		if state.ErrorMessage == "Movie not found" {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": state.ErrorMessage})
		return
	}
	c.JSON(http.StatusOK, gin.H{"similar_movies": state.SimilarMovies})
}

// settleDetail waits until the detail controller has left Loading, then
// drains briefly so the concurrent favorite/similar emissions are included.
func settleDetail(c *gin.Context, ctrl *controller.MovieDetailController) (controller.MovieDetailState, bool) {
	states := ctrl.Watch(c.Request.Context())
	deadline := time.After(settleTimeout)

	for {
		select {
		case state := <-states:
			if state.Phase == controller.PhaseLoading {
				continue
			}
			return drainDetail(states, state), true
		case <-deadline:
			c.JSON(http.StatusGatewayTimeout, gin.H{"error": "movie detail did not settle"})
			return controller.MovieDetailState{}, false
		}
	}
}

func drainDetail(states <-chan controller.MovieDetailState, latest controller.MovieDetailState) controller.MovieDetailState {
	settle := time.After(200 * time.Millisecond)
	for {
		select {
		case state, ok := <-states:
			if !ok {
				return latest
			}
			latest = state
		case <-settle:
			return latest
		}
	}
}
