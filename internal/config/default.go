package config

import (
	_ "embed"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/prettymuchbryce/hierwatch/internal/pathutil"
	"github.com/spf13/afero"
)

//go:embed config-example.yaml
var defaultConfigContent string

// EnsureDefaultConfig creates the default config file on the OS filesystem if
// it doesn't exist. Returns the expanded path.
func EnsureDefaultConfig(configPath string) (string, error) {
	return EnsureDefaultConfigWithFs(configPath, afero.NewOsFs())
}

// EnsureDefaultConfigWithFs is EnsureDefaultConfig on the given filesystem.
func EnsureDefaultConfigWithFs(configPath string, fs afero.Fs) (string, error) {
	expanded := pathutil.ExpandTilde(configPath)

	exists, err := afero.Exists(fs, expanded)
	if err != nil {
		return "", fmt.Errorf("failed to check config %s: %w", expanded, err)
	}
	if exists {
		return expanded, nil
	}

	dir := filepath.Dir(expanded)
	if err := fs.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create config directory %s: %w", dir, err)
	}

	if err := afero.WriteFile(fs, expanded, []byte(defaultConfigContent), 0644); err != nil {
		return "", fmt.Errorf("failed to create default config %s: %w", expanded, err)
	}

	slog.Info("created default config", "path", expanded)
	return expanded, nil
}

// IsEmpty reports whether the config has nothing to watch.
func (c *Config) IsEmpty() bool {
	return len(c.Roots) == 0 && len(c.Locations) == 0
}

// IsDefaultConfig checks if the file at the given path matches the default config.
func IsDefaultConfig(path string) bool {
	content, err := afero.ReadFile(afero.NewOsFs(), path)
	if err != nil {
		return false
	}
	return string(content) == defaultConfigContent
}
