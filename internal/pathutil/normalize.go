package pathutil

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ErrNotAbsolute is returned by Normalize for relative or empty paths.
var ErrNotAbsolute = errors.New("path is not absolute")

// caseInsensitive reports whether paths on this host compare without case.
// Only Windows is folded; macOS volumes may be either, so they are left as-is.
var caseInsensitive = runtime.GOOS == "windows"

// Clean returns the canonical form of a path: cleaned by filepath.Clean
// (which also drops trailing separators) and case folded on hosts whose
// filesystems compare case-insensitively.
func Clean(path string) string {
	cleaned := filepath.Clean(path)
	if caseInsensitive {
		cleaned = strings.ToLower(cleaned)
	}
	return cleaned
}

// Normalize validates that path is absolute and returns its canonical form.
func Normalize(path string) (string, error) {
	if path == "" || !filepath.IsAbs(path) {
		return "", fmt.Errorf("%w: %q", ErrNotAbsolute, path)
	}
	return Clean(path), nil
}

// WithSeparator returns path with exactly one trailing separator.
// Filesystem roots such as "/" or `C:\` already end in one.
func WithSeparator(path string) string {
	if strings.HasSuffix(path, string(os.PathSeparator)) {
		return path
	}
	return path + string(os.PathSeparator)
}

// IsAncestor reports whether descendant lies strictly below ancestor.
// Both paths are expected to be canonical.
func IsAncestor(ancestor, descendant string) bool {
	if ancestor == descendant {
		return false
	}
	return strings.HasPrefix(descendant, WithSeparator(ancestor))
}
