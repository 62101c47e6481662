package pathutil

import (
	"os"
	"path/filepath"
	"testing"
)

func TestExpandTilde(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot get home directory")
	}

	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"just tilde", "~", home},
		{"tilde with path", "~/src/app", filepath.Join(home, "src", "app")},
		{"tilde slash", "~/", home},
		{"other user unchanged", "~bob/src", "~bob/src"},
		{"tilde not at start unchanged", "/src/~/app", "/src/~/app"},
		{"relative path unchanged", "src/app", "src/app"},
		{"empty string unchanged", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExpandTilde(tt.input); got != tt.expected {
				t.Errorf("ExpandTilde(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}

func TestAppPaths(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("APPDATA", t.TempDir())

	dir, err := AppDir()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if filepath.Base(dir) != "hierwatch" {
		t.Errorf("expected app dir to end in hierwatch, got %s", dir)
	}

	configPath, _ := DefaultConfigPath()
	statePath, _ := StatePath()
	if filepath.Dir(configPath) != dir || filepath.Dir(statePath) != dir {
		t.Errorf("expected config and state in %s, got %s and %s", dir, configPath, statePath)
	}
}
