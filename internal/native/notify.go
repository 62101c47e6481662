package native

import (
	"errors"
	"log/slog"
	"path/filepath"
	"sync"

	"github.com/rjeczalik/notify"

	"github.com/prettymuchbryce/hierwatch/internal/pathutil"
	"github.com/prettymuchbryce/hierwatch/internal/watch"
)

const watchEventsBufferSize = 25

// notifyWatch is one recursive watch and the goroutine forwarding its events.
type notifyWatch struct {
	events chan notify.EventInfo
	done   chan struct{}
}

// NotifyBackend watches hierarchies with the OS's recursive facilities
// (FSEvents, ReadDirectoryChangesW) through rjeczalik/notify. On Linux the
// library emulates recursion over inotify.
type NotifyBackend struct {
	mu      sync.Mutex
	watches map[string]*notifyWatch
	events  chan string
	closed  bool
}

// NewNotify creates a NotifyBackend.
func NewNotify() *NotifyBackend {
	return &NotifyBackend{
		watches: make(map[string]*notifyWatch),
		events:  make(chan string, eventsBufferSize),
	}
}

// StartWatching creates one recursive watch per hierarchy.
func (b *NotifyBackend) StartWatching(hierarchies []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.closed {
		return &watch.PathsError{Paths: hierarchies, Err: errors.New("backend is closed")}
	}

	var failed []string
	var errs []error
	for _, root := range hierarchies {
		if _, exists := b.watches[root]; exists {
			continue
		}

		w := &notifyWatch{
			events: make(chan notify.EventInfo, watchEventsBufferSize),
			done:   make(chan struct{}),
		}
		if err := notify.Watch(filepath.Join(root, "..."), w.events, notify.All); err != nil {
			failed = append(failed, root)
			errs = append(errs, err)
			continue
		}

		b.watches[root] = w
		go b.forward(w)
		slog.Debug("watching hierarchy", "path", root)
	}

	if len(failed) > 0 {
		return &watch.PathsError{Paths: failed, Err: errors.Join(errs...)}
	}
	return nil
}

// StopWatching stops the recursive watch of each hierarchy.
func (b *NotifyBackend) StopWatching(hierarchies []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, root := range hierarchies {
		b.stop(root)
	}
	return nil
}

// Events delivers changed paths.
func (b *NotifyBackend) Events() <-chan string {
	return b.events
}

// WatchCount returns the number of recursive watches.
func (b *NotifyBackend) WatchCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.watches)
}

// Close stops every watch. Later starts fail.
func (b *NotifyBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	for root := range b.watches {
		b.stop(root)
	}
	b.closed = true
	return nil
}

// stop must be called with mu held.
func (b *NotifyBackend) stop(root string) {
	w, exists := b.watches[root]
	if !exists {
		return
	}
	notify.Stop(w.events)
	close(w.done)
	delete(b.watches, root)
}

func (b *NotifyBackend) forward(w *notifyWatch) {
	for {
		select {
		case <-w.done:
			return
		case ei := <-w.events:
			select {
			case b.events <- pathutil.Clean(ei.Path()):
			default:
				slog.Warn("dropping change event, consumer is behind", "path", ei.Path())
			}
		}
	}
}
