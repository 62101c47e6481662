package watcher

import (
	"context"
	"log/slog"
	"sort"
	"time"
)

// Watcher collects changed paths from a native backend and hands them to a
// callback once no new change arrived for the debounce delay.
type Watcher struct {
	events <-chan string

	// Debounce delay for triggering a rescan after events
	debounceDelay time.Duration

	// onChange receives the paths collected since the last call, sorted.
	onChange func(paths []string)

	pending      map[string]struct{}
	timer        *time.Timer
	debounceChan chan struct{}

	// Closed when the watcher is stopping to unblock the timer goroutine
	done chan struct{}
}

// New creates a Watcher reading from events.
func New(events <-chan string, debounce time.Duration, onChange func(paths []string)) *Watcher {
	w := &Watcher{
		events:        events,
		debounceDelay: debounce,
		onChange:      onChange,
		pending:       make(map[string]struct{}),
		debounceChan:  make(chan struct{}),
		done:          make(chan struct{}),
	}

	// Create timer (initially stopped)
	w.timer = time.AfterFunc(time.Hour, func() {
		select {
		case w.debounceChan <- struct{}{}:
		case <-w.done:
		}
	})
	w.timer.Stop()

	return w
}

// Run delivers debounced changes until the context is cancelled or the
// events channel is closed.
func (w *Watcher) Run(ctx context.Context) error {
	slog.Info("watcher started", "debounce", w.debounceDelay)
	defer w.stop()

	for {
		// A fired timer takes priority over new events, so a burst that keeps
		// arriving cannot postpone a due rescan indefinitely.
		select {
		case <-w.debounceChan:
			w.flush()
			continue
		default:
		}

		select {
		case <-ctx.Done():
			slog.Info("watcher stopping")
			return nil

		case path, ok := <-w.events:
			if !ok {
				slog.Info("event channel closed, watcher stopping")
				return nil
			}
			w.schedule(path)

		case <-w.debounceChan:
			w.flush()
		}
	}
}

// schedule records path and restarts the debounce timer.
func (w *Watcher) schedule(path string) {
	slog.Debug("scheduling rescan", "path", path)
	w.pending[path] = struct{}{}
	w.timer.Reset(w.debounceDelay)
}

// flush hands the pending paths to the callback.
func (w *Watcher) flush() {
	if len(w.pending) == 0 {
		return
	}

	paths := make([]string, 0, len(w.pending))
	for p := range w.pending {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	w.pending = make(map[string]struct{})

	w.onChange(paths)
}

// stop signals the timer goroutine and stops the timer.
func (w *Watcher) stop() {
	close(w.done)
	w.timer.Stop()
}
