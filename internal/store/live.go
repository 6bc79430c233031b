package store

import (
	"context"
	"log/slog"
)

// Emission is one re-evaluation of a live query: the full current result set,
// or the error that re-evaluation hit.
type Emission[T any] struct {
	Value T
	Err   error
}

// newLive runs a query once immediately and again after every write to one of
// the watched tables, emitting the full result each time. The returned channel
// closes when ctx is cancelled; no values are produced after that. Each call
// is an independent subscription with its own initial emission.
func newLive[T any](ctx context.Context, n *Notifier, logger *slog.Logger, run func(context.Context) (T, error), tables ...string) <-chan Emission[T] {
	out := make(chan Emission[T])

	l := n.listen(tables...)

	go func() {
		defer close(out)
		defer n.drop(l)

		for {
			value, err := run(ctx)
			if err != nil && ctx.Err() != nil {
				return
			}
			if err != nil {
				logger.Error("live query failed", "tables", tables, "error", err)
			}

			select {
			case out <- Emission[T]{Value: value, Err: err}:
			case <-ctx.Done():
				return
			}

			select {
			case <-l.signal:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}
