//go:build integration

package testutil

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"text/template"
	"time"

	"github.com/spf13/afero"

	"github.com/prettymuchbryce/hierwatch/daemon"
	"github.com/prettymuchbryce/hierwatch/internal/config"
	"github.com/prettymuchbryce/hierwatch/internal/state"
)

// FileEntry describes a file or directory to create.
type FileEntry struct {
	Path    string // relative path using forward slashes (e.g., "app/main.go")
	IsDir   bool   // true for directories
	Content string // file content
}

// TestCase is a complete data-driven integration test.
type TestCase struct {
	Name    string        // test name (used for t.Run)
	Config  string        // YAML config with {{.TmpDir}} template variable
	Before  []FileEntry   // files/dirs to create BEFORE the daemon starts
	Initial []string      // hierarchies expected after the first build (relative, forward slashes)
	Trigger []FileEntry   // files/dirs to create AFTER the daemon starts
	Expect  []string      // hierarchies expected once the changes were handled
	Timeout time.Duration // how long to wait for expected state (default: 2s)
}

// Harness manages the test environment.
type Harness struct {
	t          *testing.T
	tmpDir     string
	controller *daemon.Controller
}

// Run executes a single test case.
func Run(t *testing.T, tc TestCase) {
	t.Helper()

	h := &Harness{
		t:      t,
		tmpDir: t.TempDir(),
	}

	h.createEntries(tc.Before)
	h.startDaemon(tc.Config)
	defer h.controller.Stop()

	if tc.Initial != nil {
		h.waitForHierarchies(tc.Initial, tc.Timeout)
	}

	h.createEntries(tc.Trigger)
	h.waitForHierarchies(tc.Expect, tc.Timeout)
}

// RunTable executes multiple test cases as subtests.
func RunTable(t *testing.T, cases []TestCase) {
	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			Run(t, tc)
		})
	}
}

// createEntries creates files and directories from FileEntry specs.
func (h *Harness) createEntries(entries []FileEntry) {
	h.t.Helper()

	for _, e := range entries {
		// Convert forward slashes to OS-specific separator for Windows compatibility
		path := filepath.Join(h.tmpDir, filepath.FromSlash(e.Path))

		if e.IsDir {
			if err := os.MkdirAll(path, 0755); err != nil {
				h.t.Fatalf("failed to create directory %s: %v", e.Path, err)
			}
			continue
		}

		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			h.t.Fatalf("failed to create parent directory for %s: %v", e.Path, err)
		}
		if err := os.WriteFile(path, []byte(e.Content), 0644); err != nil {
			h.t.Fatalf("failed to create file %s: %v", e.Path, err)
		}
	}
}

// startDaemon renders the config template and starts a controller on the
// real filesystem.
func (h *Harness) startDaemon(configTemplate string) {
	h.t.Helper()

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))

	// Render config template with helper functions
	tmpl, err := template.New("config").Funcs(template.FuncMap{
		// join creates OS-native paths: {{join .TmpDir "app" "cmd"}}
		"join": filepath.Join,
	}).Parse(configTemplate)
	if err != nil {
		h.t.Fatalf("failed to parse config template: %v", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, map[string]string{
		"TmpDir": h.tmpDir,
	}); err != nil {
		h.t.Fatalf("failed to execute config template: %v", err)
	}

	configPath := filepath.Join(h.tmpDir, "config.yaml")
	if err := os.WriteFile(configPath, buf.Bytes(), 0644); err != nil {
		h.t.Fatalf("failed to write config file: %v", err)
	}

	fs := afero.NewOsFs()
	cfg, err := config.LoadWithFs(configPath, fs)
	if err != nil {
		h.t.Fatalf("failed to load config: %v", err)
	}
	st, _ := state.LoadFrom("")

	h.controller = daemon.NewController(configPath, fs, st, cfg)
	if err := h.controller.Start(); err != nil {
		h.t.Fatalf("daemon failed to start: %v", err)
	}
}

// waitForHierarchies polls the daemon status until the watched hierarchies
// match expect.
func (h *Harness) waitForHierarchies(expect []string, timeout time.Duration) {
	h.t.Helper()

	if timeout == 0 {
		timeout = 2 * time.Second
	}

	want := make([]string, len(expect))
	for i, p := range expect {
		want[i] = filepath.Join(h.tmpDir, filepath.FromSlash(p))
	}

	var got []string
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		got = h.controller.HandleStatus().Hierarchies
		if strings.Join(got, "\n") == strings.Join(want, "\n") {
			return
		}
		time.Sleep(20 * time.Millisecond)
	}

	h.t.Errorf("expected hierarchies %v, got %v", want, got)
}
