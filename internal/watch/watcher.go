package watch

import (
	"fmt"
	"strings"
)

// Watcher is the native facility that watches directory hierarchies.
// Watching a hierarchy observes everything below it.
//
// Both calls are synchronous. When only some hierarchies fail, implementations
// return a *PathsError naming exactly those; any other error is taken to mean
// the whole batch failed.
type Watcher interface {
	StartWatching(hierarchies []string) error
	StopWatching(hierarchies []string) error
}

// PathsError reports the hierarchies a Watcher call failed for.
type PathsError struct {
	Paths []string
	Err   error
}

func (e *PathsError) Error() string {
	return fmt.Sprintf("%s: %v", strings.Join(e.Paths, ", "), e.Err)
}

func (e *PathsError) Unwrap() error {
	return e.Err
}
