package daemon

import "log/slog"

// HandleEnable starts watching if not running.
func (c *Controller) HandleEnable() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.watcher != nil {
		return
	}

	if err := c.startWatching(); err != nil {
		slog.Error("failed to start watching", "error", err)
		return
	}
	c.runBuild()
	slog.Info("daemon enabled", "hierarchies", c.registry.WatchCount())
}
