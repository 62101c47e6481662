package native

import (
	"log/slog"
	"sort"
	"sync"
)

// DryRunBackend records start/stop calls without touching the OS.
// It never fails.
type DryRunBackend struct {
	mu      sync.Mutex
	watched map[string]struct{}
	starts  int
	stops   int
	events  chan string
}

// NewDryRun creates a DryRunBackend.
func NewDryRun() *DryRunBackend {
	return &DryRunBackend{
		watched: make(map[string]struct{}),
		events:  make(chan string),
	}
}

// StartWatching records the hierarchies as watched.
func (d *DryRunBackend) StartWatching(hierarchies []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.starts++
	for _, h := range hierarchies {
		slog.Info("would start watching", "path", h)
		d.watched[h] = struct{}{}
	}
	return nil
}

// StopWatching records the hierarchies as no longer watched.
func (d *DryRunBackend) StopWatching(hierarchies []string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stops++
	for _, h := range hierarchies {
		slog.Info("would stop watching", "path", h)
		delete(d.watched, h)
	}
	return nil
}

// Events never delivers anything.
func (d *DryRunBackend) Events() <-chan string {
	return d.events
}

// Close forgets every hierarchy.
func (d *DryRunBackend) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.watched = make(map[string]struct{})
	return nil
}

// Watched returns the sorted hierarchies recorded as watched.
func (d *DryRunBackend) Watched() []string {
	d.mu.Lock()
	defer d.mu.Unlock()

	out := make([]string, 0, len(d.watched))
	for h := range d.watched {
		out = append(out, h)
	}
	sort.Strings(out)
	return out
}

// Calls returns how many start and stop calls were made.
func (d *DryRunBackend) Calls() (starts, stops int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.starts, d.stops
}
