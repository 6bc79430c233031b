// Package controller holds the per-screen reactive state machines. Each
// controller publishes a single state value, mutated only by the controller
// itself (commands and live-query emissions) and observed by any number of
// watchers. Closing a controller cancels all of its live subscriptions.
package controller

import (
	"context"
	"sync"
)

// Phase is the shared per-screen lifecycle: every screen state carries one
// and consumers are expected to switch over it exhaustively.
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseEmpty
	PhaseSuccess
	PhaseNoResults
	PhaseError
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseEmpty:
		return "empty"
	case PhaseSuccess:
		return "success"
	case PhaseNoResults:
		return "no_results"
	case PhaseError:
		return "error"
	default:
		return "unknown"
	}
}

// ErrConnection is the generic user-facing message every controller maps
// unexpected storage failures to.
const ErrConnection = "Connection error. Try again."

// stateValue is a single-writer published state slot with multi-watcher
// fan-out. Watchers always converge on the latest value: a watcher that
// falls behind loses intermediate states, never the final one.
type stateValue[S any] struct {
	mu       sync.Mutex
	current  S
	watchers map[chan S]struct{}

	// optional lifecycle hooks, used by controllers with lazy subscriptions
	onAttach func(active int)
	onDetach func(active int)
}

func newStateValue[S any](initial S) *stateValue[S] {
	return &stateValue[S]{
		current:  initial,
		watchers: make(map[chan S]struct{}),
	}
}

func (v *stateValue[S]) get() S {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.current
}

// set publishes a new state to every watcher without ever blocking the
// writer. A full watcher buffer drops its oldest entry first.
func (v *stateValue[S]) set(s S) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.current = s
	for ch := range v.watchers {
		select {
		case ch <- s:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
}

// update applies a copy-and-modify transition under the write lock.
func (v *stateValue[S]) update(f func(S) S) {
	v.mu.Lock()
	v.current = f(v.current)
	s := v.current
	for ch := range v.watchers {
		select {
		case ch <- s:
		default:
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- s:
			default:
			}
		}
	}
	v.mu.Unlock()
}

// watch returns a channel that delivers the current state immediately and
// every later transition until ctx is cancelled.
func (v *stateValue[S]) watch(ctx context.Context) <-chan S {
	ch := make(chan S, 8)

	v.mu.Lock()
	v.watchers[ch] = struct{}{}
	ch <- v.current
	active := len(v.watchers)
	attach := v.onAttach
	v.mu.Unlock()

	if attach != nil {
		attach(active)
	}

	go func() {
		<-ctx.Done()
		v.mu.Lock()
		delete(v.watchers, ch)
		active := len(v.watchers)
		detach := v.onDetach
		v.mu.Unlock()

		if detach != nil {
			detach(active)
		}
	}()

	return ch
}
