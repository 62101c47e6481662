package ipc

import "time"

// Empty is used for RPC methods that don't need arguments or return values.
type Empty struct{}

// StatusData is returned by Daemon.Status.
type StatusData struct {
	ConfigPath  string `json:"config_path"`
	ConfigValid bool   `json:"config_valid"`
	ConfigError string `json:"config_error,omitempty"`
	LogPath     string `json:"log_path,omitempty"`
	Enabled     bool   `json:"enabled"`
	Backend     string `json:"backend"`

	// WatchCount is the number of watched hierarchies.
	WatchCount    int      `json:"watch_count"`
	Hierarchies   []string `json:"hierarchies"`
	CurrentRoots  []string `json:"current_roots"`
	PreviousRoots []string `json:"previous_roots"`
	TrackedCount  int      `json:"tracked_count"`

	LastBuild *BuildStatus `json:"last_build,omitempty"`
}

// BuildStatus describes a finished build. It is returned by Daemon.Build.
type BuildStatus struct {
	Number      int           `json:"number"`
	StartedAt   time.Time     `json:"started_at"`
	Duration    time.Duration `json:"duration"`
	Roots       []string      `json:"roots"`
	Hierarchies []string      `json:"hierarchies"`
	Error       string        `json:"error,omitempty"`
}
