package daemon

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/prettymuchbryce/hierwatch/internal/config"
	"github.com/prettymuchbryce/hierwatch/internal/ipc"
	"github.com/prettymuchbryce/hierwatch/internal/native"
	"github.com/prettymuchbryce/hierwatch/internal/state"
	"github.com/prettymuchbryce/hierwatch/internal/tracker"
	"github.com/prettymuchbryce/hierwatch/internal/watch"
	"github.com/prettymuchbryce/hierwatch/internal/watcher"

	"github.com/coreos/go-systemd/v22/daemon"
	"github.com/spf13/afero"
)

// Controller manages the daemon lifecycle and implements ipc.Handler.
// It is the single owner of the registry: IPC requests and debounced change
// events both go through mu.
type Controller struct {
	mu sync.Mutex

	configPath string
	fs         afero.Fs
	state      *state.State
	cfg        *config.Config

	// newBackend creates the native backend. Replaced in tests.
	newBackend func(kind string, fs afero.Fs) (native.Backend, error)

	// Set while enabled.
	backend  native.Backend
	registry *watch.Registry
	tracker  *tracker.Tracker

	watcher            *watcher.Watcher
	stopWatcher        context.CancelFunc
	chanWatcherStopped chan struct{}
}

// NewController creates a new daemon controller.
func NewController(configPath string, fs afero.Fs, st *state.State, cfg *config.Config) *Controller {
	return &Controller{
		configPath: configPath,
		fs:         fs,
		state:      st,
		cfg:        cfg,
		newBackend: native.New,
	}
}

// Start enables watching: it runs a first build and starts reacting to changes.
func (c *Controller) Start() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.startWatching(); err != nil {
		return err
	}
	// A failed first build is recorded; watching continues with what succeeded.
	c.runBuild()
	return nil
}

// Stop disables watching and waits for the change loop to finish.
func (c *Controller) Stop() {
	c.mu.Lock()
	stopped := c.stopWatching()
	c.mu.Unlock()

	<-stopped
}

// startWatching creates the backend, registry and tracker and starts the
// change loop. Callers run the first build. Must be called with mu held.
func (c *Controller) startWatching() error {
	if c.watcher != nil {
		return nil
	}

	backend, err := c.newBackend(c.cfg.Daemon.Backend, c.fs)
	if err != nil {
		return fmt.Errorf("failed to create watch backend: %w", err)
	}

	t, err := tracker.New(c.fs, c.cfg.Locations)
	if err != nil {
		backend.Close()
		return fmt.Errorf("invalid locations: %w", err)
	}

	c.backend = backend
	c.tracker = t
	c.registry = watch.NewRegistry(backend)

	var w *watcher.Watcher
	w = watcher.New(backend.Events(), c.cfg.Daemon.Debounce, func(paths []string) {
		c.handleChanges(w, paths)
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	c.watcher = w
	c.stopWatcher = cancel
	c.chanWatcherStopped = done

	go func() {
		defer close(done)
		if err := w.Run(ctx); err != nil {
			slog.Error("watcher error", "error", err)
		}
	}()

	slog.Info("watching started", "backend", c.cfg.Daemon.Backend)
	return nil
}

// stopWatching cancels the change loop and releases every watch. It returns a
// channel closed once the loop has exited; callers wait on it after
// releasing mu. Must be called with mu held.
func (c *Controller) stopWatching() <-chan struct{} {
	if c.watcher == nil {
		closed := make(chan struct{})
		close(closed)
		return closed
	}

	done := c.chanWatcherStopped
	c.stopWatcher()

	if err := c.backend.Close(); err != nil {
		slog.Warn("failed to close watch backend", "error", err)
	}

	c.watcher = nil
	c.stopWatcher = nil
	c.chanWatcherStopped = nil
	c.backend = nil
	c.registry = nil
	c.tracker = nil

	return done
}

// handleChanges rescans the tracked locations after changes were observed
// and updates the registry. Changes from a watcher that has since been
// replaced are ignored.
func (c *Controller) handleChanges(w *watcher.Watcher, paths []string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.watcher != w {
		return
	}

	slog.Debug("changes observed", "paths", len(paths))
	removed, added := c.tracker.Scan()
	if len(removed) == 0 && len(added) == 0 {
		return
	}

	if err := c.registry.Changed(removed, added); err != nil {
		slog.Error("failed to update watched hierarchies", "error", err)
	}
}

// Run loads config and runs the daemon until context is cancelled.
func Run(ctx context.Context, configPath string, fs afero.Fs, setupLogging func(string)) error {
	cfg, err := config.LoadWithFs(configPath, fs)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	setupLogging(cfg.Logging.Level)

	// Load persistent state
	st, err := state.Load()
	if err != nil {
		slog.Warn("failed to load state, starting fresh", "error", err)
		st, _ = state.LoadFrom("")
	}

	slog.Info("loaded config", "roots", len(cfg.Roots), "locations", len(cfg.Locations), "debounce", cfg.Daemon.Debounce, "backend", cfg.Daemon.Backend)

	// Warn if nothing is configured, but continue running for a later build
	if cfg.IsEmpty() {
		slog.Warn("no roots or locations found in config", "path", configPath)
	}

	controller := NewController(configPath, fs, st, cfg)

	if err := controller.Start(); err != nil {
		return fmt.Errorf("failed to start watching: %w", err)
	}

	// Start IPC server
	ipcServer, err := ipc.NewServer(controller)
	if err != nil {
		controller.Stop()
		return fmt.Errorf("failed to create IPC server: %w", err)
	}

	// Notify systemd that we're ready (no-op on non-systemd systems)
	daemon.SdNotify(false, daemon.SdNotifyReady)
	slog.Info("daemon ready")

	// Run IPC server (blocks until context cancelled)
	if err := ipcServer.Serve(ctx); err != nil {
		slog.Error("IPC server error", "error", err)
	}

	// Notify systemd that we're stopping (no-op on non-systemd systems)
	daemon.SdNotify(false, daemon.SdNotifyStopping)

	controller.Stop()

	return nil
}
