package watch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/prettymuchbryce/hierwatch/internal/pathutil"
)

// ErrInvalidPath is returned for paths that are not absolute. Nothing is
// mutated and the native watcher is not called.
var ErrInvalidPath = errors.New("invalid path")

// StartError is returned when the native watcher could not start watching
// some hierarchies. Those hierarchies are not recorded as watched.
type StartError struct {
	Paths []string
	Err   error
}

func (e *StartError) Error() string {
	return fmt.Sprintf("failed to start watching %s: %v", strings.Join(e.Paths, ", "), e.Err)
}

func (e *StartError) Unwrap() error {
	return e.Err
}

// StopError is returned when the native watcher could not stop watching
// some hierarchies. Those hierarchies stay recorded as watched.
type StopError struct {
	Paths []string
	Err   error
}

func (e *StopError) Error() string {
	return fmt.Sprintf("failed to stop watching %s: %v", strings.Join(e.Paths, ", "), e.Err)
}

func (e *StopError) Unwrap() error {
	return e.Err
}

func normalizePath(path string) (string, error) {
	normalized, err := pathutil.Normalize(path)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidPath, err)
	}
	return normalized, nil
}

// failedPaths returns the subset of attempted that err reports as failed.
func failedPaths(err error, attempted []string) map[string]struct{} {
	failed := make(map[string]struct{})
	if err == nil {
		return failed
	}

	var pathsErr *PathsError
	if !errors.As(err, &pathsErr) {
		for _, p := range attempted {
			failed[p] = struct{}{}
		}
		return failed
	}

	reported := make(map[string]struct{}, len(pathsErr.Paths))
	for _, p := range pathsErr.Paths {
		reported[pathutil.Clean(p)] = struct{}{}
	}
	for _, p := range attempted {
		if _, ok := reported[p]; ok {
			failed[p] = struct{}{}
		}
	}
	if len(failed) == 0 {
		// The error names none of the attempted paths; assume none succeeded.
		for _, p := range attempted {
			failed[p] = struct{}{}
		}
	}
	return failed
}
