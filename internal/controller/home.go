package controller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"mobox/internal/models"
	"mobox/internal/repository"
	"mobox/internal/session"
	"mobox/internal/store"
)

// HomeController exposes the two catalog shelves as independent observable
// lists. Each shelf's live query starts on the first watcher and keeps
// running for a linger window after the last watcher detaches, so a quick
// screen teardown/rebuild does not re-query the store.
type HomeController struct {
	session *session.Session

	ctx    context.Context
	cancel context.CancelFunc

	popular *homeFeed
	all     *homeFeed
}

func NewHomeController(repo repository.AppRepository, sess *session.Session, linger time.Duration, logger *slog.Logger) *HomeController {
	ctx, cancel := context.WithCancel(context.Background())

	c := &HomeController{
		session: sess,
		ctx:     ctx,
		cancel:  cancel,
	}
	c.popular = newHomeFeed(ctx, repo.PopularMovies, linger, logger)
	c.all = newHomeFeed(ctx, repo.AllMovies, linger, logger)
	return c
}

// CurrentUser is read for the greeting header.
func (c *HomeController) CurrentUser() *models.User {
	return c.session.User()
}

func (c *HomeController) WatchPopular(ctx context.Context) <-chan []models.Movie {
	return c.popular.state.watch(ctx)
}

func (c *HomeController) PopularMovies() []models.Movie {
	return c.popular.state.get()
}

func (c *HomeController) WatchAll(ctx context.Context) <-chan []models.Movie {
	return c.all.state.watch(ctx)
}

func (c *HomeController) AllMovies() []models.Movie {
	return c.all.state.get()
}

// Close cancels both live subscriptions.
func (c *HomeController) Close() {
	c.cancel()
}

// homeFeed is one lazily-subscribed movie list.
type homeFeed struct {
	state     *stateValue[[]models.Movie]
	subscribe func(context.Context) <-chan store.Emission[[]models.Movie]
	linger    time.Duration
	parent    context.Context
	logger    *slog.Logger

	mu        sync.Mutex
	active    int
	running   bool
	subCancel context.CancelFunc
	stopTimer *time.Timer
}

func newHomeFeed(parent context.Context, subscribe func(context.Context) <-chan store.Emission[[]models.Movie], linger time.Duration, logger *slog.Logger) *homeFeed {
	f := &homeFeed{
		state:     newStateValue([]models.Movie{}),
		subscribe: subscribe,
		linger:    linger,
		parent:    parent,
		logger:    logger,
	}
	f.state.onAttach = f.attach
	f.state.onDetach = f.detach
	return f
}

func (f *homeFeed) attach(active int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.active = active
	if f.stopTimer != nil {
		f.stopTimer.Stop()
		f.stopTimer = nil
	}
	if f.running {
		return
	}

	subCtx, cancel := context.WithCancel(f.parent)
	f.subCancel = cancel
	f.running = true

	ch := f.subscribe(subCtx)
	go func() {
		for em := range ch {
			if em.Err != nil {
				f.logger.Error("home feed emission failed", "error", em.Err)
				continue
			}
			f.state.set(em.Value)
		}
	}()
}

func (f *homeFeed) detach(active int) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.active = active
	if active > 0 || !f.running {
		return
	}
	f.stopTimer = time.AfterFunc(f.linger, f.maybeStop)
}

// maybeStop fires after the linger window; a watcher that reattached in the
// meantime keeps the subscription alive.
func (f *homeFeed) maybeStop() {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.active > 0 || !f.running {
		return
	}
	f.subCancel()
	f.running = false
	f.stopTimer = nil
}
