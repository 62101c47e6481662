package daemon

import "github.com/prettymuchbryce/hierwatch/internal/ipc"

// HandleStatus returns the current daemon status.
func (c *Controller) HandleStatus() ipc.StatusData {
	c.mu.Lock()
	defer c.mu.Unlock()

	status := ipc.StatusData{
		ConfigPath:  c.configPath,
		ConfigValid: true,
		Enabled:     c.watcher != nil,
		Backend:     c.cfg.Daemon.Backend,
	}

	if c.registry != nil {
		status.WatchCount = c.registry.WatchCount()
		status.Hierarchies = c.registry.WatchedHierarchies()
		status.CurrentRoots = c.registry.CurrentRoots()
		status.PreviousRoots = c.registry.PreviousRoots()
		status.TrackedCount = c.registry.TrackedCount()
	}

	if c.state.LastBuild() != nil {
		last := c.lastBuildStatus()
		status.LastBuild = &last
	}

	return status
}
