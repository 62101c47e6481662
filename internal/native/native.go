package native

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/prettymuchbryce/hierwatch/internal/watch"
)

// Backend is a native watch facility the registry can drive.
type Backend interface {
	watch.Watcher

	// Events delivers the paths of changed locations under watched hierarchies.
	Events() <-chan string

	// Close stops every watch and releases the underlying OS resources.
	Close() error
}

const (
	KindFsnotify = "fsnotify"
	KindNotify   = "notify"
	KindDryRun   = "dryrun"
)

// New creates the backend named by kind. The filesystem is only used by
// backends that emulate hierarchical watches by walking directories.
func New(kind string, fs afero.Fs) (Backend, error) {
	switch kind {
	case "", KindFsnotify:
		return NewFsnotify(fs)
	case KindNotify:
		return NewNotify(), nil
	case KindDryRun:
		return NewDryRun(), nil
	default:
		return nil, fmt.Errorf("unknown watch backend: %q", kind)
	}
}
