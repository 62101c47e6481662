package testutil

import (
	"path/filepath"
	"runtime"
)

// Path joins parts into a path that is absolute on the host OS when the first
// part is "/". Windows has no single root, so "/" becomes the C: drive root:
//
//	Path("/", "src", "app") // "/src/app" on Unix, "C:\src\app" on Windows
//
// Any other first part produces a relative path.
func Path(parts ...string) string {
	if len(parts) == 0 {
		return ""
	}
	if parts[0] != "/" || !IsWindows() {
		return filepath.Join(parts...)
	}
	return `C:\` + filepath.Join(parts[1:]...)
}

// IsWindows reports whether tests run on Windows, where Unix-style absolute
// paths in fixtures are not absolute.
func IsWindows() bool {
	return runtime.GOOS == "windows"
}
