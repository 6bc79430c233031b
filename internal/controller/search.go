package controller

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"mobox/internal/models"
	"mobox/internal/repository"
)

// SearchState is the search screen's published state.
type SearchState struct {
	Query        string         `json:"query"`
	Phase        Phase          `json:"phase"`
	Movies       []models.Movie `json:"movies,omitempty"`
	ErrorMessage string         `json:"error_message,omitempty"`
	IsSearching  bool           `json:"is_searching"`
}

// SearchController debounces keystrokes and drives a live substring search.
// Only the last keystroke inside the debounce window reaches the store, and
// a query identical to the previous one (after trimming) is not re-run.
type SearchController struct {
	repo     repository.AppRepository
	logger   *slog.Logger
	debounce time.Duration
	state    *stateValue[SearchState]

	input  chan string
	ctx    context.Context
	cancel context.CancelFunc
}

func NewSearchController(repo repository.AppRepository, debounce time.Duration, logger *slog.Logger) *SearchController {
	ctx, cancel := context.WithCancel(context.Background())

	c := &SearchController{
		repo:     repo,
		logger:   logger,
		debounce: debounce,
		state:    newStateValue(SearchState{Phase: PhaseEmpty}),
		input:    make(chan string, 16),
		ctx:      ctx,
		cancel:   cancel,
	}
	go c.run()
	return c
}

func (c *SearchController) State() SearchState {
	return c.state.get()
}

func (c *SearchController) Watch(ctx context.Context) <-chan SearchState {
	return c.state.watch(ctx)
}

// OnQueryChange feeds one keystroke into the debounce pipeline.
func (c *SearchController) OnQueryChange(query string) {
	c.state.update(func(s SearchState) SearchState {
		s.Query = query
		s.IsSearching = strings.TrimSpace(query) != ""
		return s
	})

	select {
	case c.input <- query:
	case <-c.ctx.Done():
	}
}

// ClearSearch resets the screen to its initial state.
func (c *SearchController) ClearSearch() {
	c.state.set(SearchState{Phase: PhaseEmpty})
	select {
	case c.input <- "":
	case <-c.ctx.Done():
	}
}

// Close stops the debounce loop and any active live search.
func (c *SearchController) Close() {
	c.cancel()
}

// run is the debounce loop: buffer keystrokes, let only the last one within
// the idle window through, and skip it entirely when the trimmed text is
// unchanged from the previous search.
func (c *SearchController) run() {
	var (
		pending    string
		hasPending bool
		lastRan    string
		ranOnce    bool
		timer      *time.Timer
		timerC     <-chan time.Time
		liveCancel context.CancelFunc
	)

	defer func() {
		if liveCancel != nil {
			liveCancel()
		}
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case q := <-c.input:
			pending = q
			hasPending = true
			if timer == nil {
				timer = time.NewTimer(c.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(c.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil
			if !hasPending {
				continue
			}
			hasPending = false

			normalized := strings.TrimSpace(pending)
			if ranOnce && normalized == lastRan {
				continue
			}
			lastRan = normalized
			ranOnce = true

			if liveCancel != nil {
				liveCancel()
				liveCancel = nil
			}

			if normalized == "" {
				c.state.update(func(s SearchState) SearchState {
					s.Phase = PhaseEmpty
					s.Movies = nil
					s.ErrorMessage = ""
					s.IsSearching = false
					return s
				})
				continue
			}

			liveCtx, cancel := context.WithCancel(c.ctx)
			liveCancel = cancel
			c.startSearch(liveCtx, normalized)

		case <-c.ctx.Done():
			return
		}
	}
}

func (c *SearchController) startSearch(ctx context.Context, query string) {
	c.state.update(func(s SearchState) SearchState {
		s.Phase = PhaseLoading
		s.ErrorMessage = ""
		return s
	})

	ch := c.repo.SearchMovies(ctx, query)
	go func() {
		for em := range ch {
			if em.Err != nil {
				c.logger.Error("search failed", "query", query, "error", em.Err)
				c.state.update(func(s SearchState) SearchState {
					s.Phase = PhaseError
					s.ErrorMessage = ErrConnection
					s.IsSearching = false
					return s
				})
				continue
			}

			movies := em.Value
			c.state.update(func(s SearchState) SearchState {
				if len(movies) == 0 {
					s.Phase = PhaseNoResults
					s.Movies = nil
				} else {
					s.Phase = PhaseSuccess
					s.Movies = movies
				}
				s.ErrorMessage = ""
				s.IsSearching = false
				return s
			})
		}
	}()
}
