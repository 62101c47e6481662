package config

import (
	"fmt"
	"time"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/prettymuchbryce/hierwatch/internal/pathutil"
)

// Config represents the top-level configuration.
type Config struct {
	// Roots are the root project directories declared at the start of each build.
	Roots PathList `yaml:"roots"`

	// Locations are the files, directories and globs whose state is tracked.
	Locations PathList      `yaml:"locations"`
	Daemon    DaemonConfig  `yaml:"daemon"`
	Logging   LoggingConfig `yaml:"logging"`
}

// DaemonConfig represents daemon-specific configuration.
type DaemonConfig struct {
	Debounce time.Duration `yaml:"debounce"`

	// Backend names the native watch facility: fsnotify, notify or dryrun.
	Backend string `yaml:"backend"`
}

// LoggingConfig represents logging configuration.
type LoggingConfig struct {
	Level string `yaml:"level"`
}

// DefaultDaemonConfig returns the default daemon configuration.
func DefaultDaemonConfig() DaemonConfig {
	return DaemonConfig{
		Debounce: 500 * time.Millisecond,
		Backend:  "fsnotify",
	}
}

// DefaultLoggingConfig returns the default logging configuration.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level: "warn",
	}
}

// Load reads and parses a configuration file using the real filesystem.
func Load(path string) (*Config, error) {
	return LoadWithFs(path, afero.NewOsFs())
}

// LoadWithFs reads and parses a configuration file using the provided filesystem.
func LoadWithFs(path string, afs afero.Fs) (*Config, error) {
	expanded := pathutil.ExpandTilde(path)

	data, err := afero.ReadFile(afs, expanded)
	if err != nil {
		return nil, err
	}

	// Start with defaults
	config := &Config{
		Daemon:  DefaultDaemonConfig(),
		Logging: DefaultLoggingConfig(),
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, err
	}
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", expanded, err)
	}

	return config, nil
}

var backends = map[string]bool{"fsnotify": true, "notify": true, "dryrun": true}

func (c *Config) validate() error {
	if !backends[c.Daemon.Backend] {
		return fmt.Errorf("unknown daemon backend %q (want fsnotify, notify or dryrun)", c.Daemon.Backend)
	}
	if c.Daemon.Debounce < 0 {
		return fmt.Errorf("daemon debounce must not be negative, got %s", c.Daemon.Debounce)
	}
	return nil
}
