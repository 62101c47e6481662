package daemon

import (
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/prettymuchbryce/hierwatch/internal/config"
	"github.com/prettymuchbryce/hierwatch/internal/ipc"
	"github.com/prettymuchbryce/hierwatch/internal/state"
	"github.com/prettymuchbryce/hierwatch/internal/tracker"
	"github.com/prettymuchbryce/hierwatch/internal/watch"
)

// HandleBuild reloads the configuration and runs a build. A changed backend
// restarts watching from scratch. A build whose recomputation failed returns
// its status together with the error.
func (c *Controller) HandleBuild() (ipc.BuildStatus, error) {
	cfg, err := config.LoadWithFs(c.configPath, c.fs)
	if err != nil {
		return ipc.BuildStatus{}, fmt.Errorf("failed to load config: %w", err)
	}

	c.mu.Lock()

	if c.watcher == nil {
		c.cfg = cfg
		c.mu.Unlock()
		return ipc.BuildStatus{}, errors.New("daemon is disabled")
	}

	backendChanged := cfg.Daemon.Backend != c.cfg.Daemon.Backend || cfg.Daemon.Debounce != c.cfg.Daemon.Debounce
	c.cfg = cfg

	if backendChanged {
		slog.Info("watch settings changed, restarting", "backend", cfg.Daemon.Backend, "debounce", cfg.Daemon.Debounce)
		stopped := c.stopWatching()
		err := c.startWatching()
		if err == nil {
			err = c.runBuild()
		}
		status := c.lastBuildStatus()
		c.mu.Unlock()
		<-stopped
		return buildOutcome(status, err)
	}
	defer c.mu.Unlock()

	if err := c.tracker.SetLocations(cfg.Locations); err != nil {
		return ipc.BuildStatus{}, fmt.Errorf("invalid locations: %w", err)
	}

	err = c.runBuild()
	return buildOutcome(c.lastBuildStatus(), err)
}

// buildOutcome pairs a build status with the error that failed the build.
func buildOutcome(status ipc.BuildStatus, err error) (ipc.BuildStatus, error) {
	if err == nil {
		return status, nil
	}
	if status.Number == 0 {
		return status, err
	}
	return status, fmt.Errorf("build %d failed: %w", status.Number, err)
}

// runBuild runs a build against the controller's registry, records the
// outcome and returns the build error. The registry keeps what succeeded and
// recovers on the next recomputation. Must be called with mu held.
func (c *Controller) runBuild() error {
	started := time.Now()
	result := build(c.registry, c.tracker, c.cfg.Roots)

	rec := state.BuildRecord{
		StartedAt:   started,
		Duration:    time.Since(started),
		Roots:       result.roots,
		Hierarchies: c.registry.WatchedHierarchies(),
	}
	if result.err != nil {
		rec.Error = result.err.Error()
		slog.Error("build finished with errors", "error", result.err)
	}

	number, err := c.state.RecordBuild(rec)
	if err != nil {
		slog.Warn("failed to persist build", "error", err)
	}
	slog.Info("build finished", "build", number, "hierarchies", len(rec.Hierarchies), "duration", rec.Duration)
	return result.err
}

// buildResult is what one build leaves behind.
type buildResult struct {
	// roots declared for the build, as the registry normalised them.
	roots []string

	// required directories after the scan, before root substitution.
	required []string

	err error
}

// build declares the roots, rescans the tracked locations and finishes the
// build. Every step runs even if an earlier one failed.
func build(registry *watch.Registry, t *tracker.Tracker, roots []string) buildResult {
	var errs []error

	if err := registry.UpdateRootProjectDirectories(roots); err != nil {
		errs = append(errs, err)
	}
	result := buildResult{roots: registry.CurrentRoots()}

	removed, added := t.Scan()
	if err := registry.Changed(removed, added); err != nil {
		errs = append(errs, err)
	}
	result.required = registry.RequiredDirectories()

	if err := registry.BuildFinished(); err != nil {
		errs = append(errs, err)
	}

	result.err = joinDistinct(errs)
	return result
}

// joinDistinct joins errs, skipping errors whose message repeats an earlier
// one. The same hierarchy failing in several recomputations of one build is
// reported once.
func joinDistinct(errs []error) error {
	seen := make(map[string]struct{}, len(errs))
	var distinct []error
	for _, err := range errs {
		msg := err.Error()
		if _, ok := seen[msg]; ok {
			continue
		}
		seen[msg] = struct{}{}
		distinct = append(distinct, err)
	}
	return errors.Join(distinct...)
}

// lastBuildStatus converts the last recorded build for IPC.
// Must be called with mu held.
func (c *Controller) lastBuildStatus() ipc.BuildStatus {
	rec := c.state.LastBuild()
	if rec == nil {
		return ipc.BuildStatus{}
	}
	return ipc.BuildStatus{
		Number:      rec.Number,
		StartedAt:   rec.StartedAt,
		Duration:    rec.Duration,
		Roots:       rec.Roots,
		Hierarchies: rec.Hierarchies,
		Error:       rec.Error,
	}
}
