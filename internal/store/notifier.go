package store

import "sync"

// Table names the notifier keys on. Every write path reports the tables it
// touched; every live query registers the tables it reads.
const (
	TableUsers     = "users"
	TableMovies    = "movies"
	TableFavorites = "favorites"
)

// Notifier fans table-change signals out to live-query listeners.
// Each listener gets a one-slot signal channel so bursts of writes coalesce
// into a single re-run instead of queueing up behind a slow consumer.
type Notifier struct {
	mu        sync.Mutex
	listeners map[*tableListener]struct{}
}

type tableListener struct {
	tables map[string]struct{}
	signal chan struct{}
}

func NewNotifier() *Notifier {
	return &Notifier{
		listeners: make(map[*tableListener]struct{}),
	}
}

// listen registers interest in the given tables. The caller must drop the
// listener when done, otherwise it leaks in the registry.
func (n *Notifier) listen(tables ...string) *tableListener {
	l := &tableListener{
		tables: make(map[string]struct{}, len(tables)),
		signal: make(chan struct{}, 1),
	}
	for _, t := range tables {
		l.tables[t] = struct{}{}
	}

	n.mu.Lock()
	n.listeners[l] = struct{}{}
	n.mu.Unlock()
	return l
}

func (n *Notifier) drop(l *tableListener) {
	n.mu.Lock()
	delete(n.listeners, l)
	n.mu.Unlock()
}

// Notify signals every listener watching at least one of the changed tables.
// Never blocks: a listener whose signal slot is already full has a re-run
// pending anyway and will pick up this change too.
func (n *Notifier) Notify(tables ...string) {
	n.mu.Lock()
	defer n.mu.Unlock()

	for l := range n.listeners {
		if !l.watchesAny(tables) {
			continue
		}
		select {
		case l.signal <- struct{}{}:
		default:
		}
	}
}

func (l *tableListener) watchesAny(tables []string) bool {
	for _, t := range tables {
		if _, ok := l.tables[t]; ok {
			return true
		}
	}
	return false
}
