package daemon

import "log/slog"

// HandleDisable stops watching and releases every watch.
func (c *Controller) HandleDisable() {
	c.mu.Lock()
	if c.watcher == nil {
		c.mu.Unlock()
		return
	}
	stopped := c.stopWatching()
	c.mu.Unlock()

	<-stopped
	slog.Info("daemon disabled")
}
