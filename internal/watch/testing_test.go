package watch

import (
	"path/filepath"
	"runtime"
)

// mockWatcher records StartWatching/StopWatching calls for testing.
type mockWatcher struct {
	started [][]string
	stopped [][]string

	// startErr and stopErr are returned from the next calls when set.
	startErr error
	stopErr  error

	// calls records "start" and "stop" in call order.
	calls []string
}

func newMockWatcher() *mockWatcher {
	return &mockWatcher{}
}

func (m *mockWatcher) StartWatching(hierarchies []string) error {
	m.calls = append(m.calls, "start")
	m.started = append(m.started, append([]string(nil), hierarchies...))
	return m.startErr
}

func (m *mockWatcher) StopWatching(hierarchies []string) error {
	m.calls = append(m.calls, "stop")
	m.stopped = append(m.stopped, append([]string(nil), hierarchies...))
	return m.stopErr
}

func (m *mockWatcher) callCount() int {
	return len(m.calls)
}

func (m *mockWatcher) reset() {
	m.started = nil
	m.stopped = nil
	m.calls = nil
}

func (m *mockWatcher) hasStarted(path string) bool {
	for _, batch := range m.started {
		for _, p := range batch {
			if p == path {
				return true
			}
		}
	}
	return false
}

func (m *mockWatcher) hasStopped(path string) bool {
	for _, batch := range m.stopped {
		for _, p := range batch {
			if p == path {
				return true
			}
		}
	}
	return false
}

// testPath creates a cross-platform absolute path for testing.
// On Unix: testPath("a", "b") returns "/a/b"
// On Windows: testPath("a", "b") returns "c:\\a\\b" (folded, as the registry stores it)
func testPath(parts ...string) string {
	if runtime.GOOS == "windows" {
		return "c:\\" + filepath.Join(parts...)
	}
	return filepath.Join(append([]string{"/"}, parts...)...)
}

func dir(parts ...string) Snapshot {
	return Snapshot{Path: testPath(parts...), Type: Directory}
}

func file(parts ...string) Snapshot {
	return Snapshot{Path: testPath(parts...), Type: RegularFile}
}

func missing(parts ...string) Snapshot {
	return Snapshot{Path: testPath(parts...), Type: Missing}
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
