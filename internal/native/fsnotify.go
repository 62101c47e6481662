package native

import (
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/prettymuchbryce/hierwatch/internal/pathutil"
	"github.com/prettymuchbryce/hierwatch/internal/watch"
)

const eventsBufferSize = 100

// fsnotifyWatcher is the interface for fsnotify operations, allowing mocking in tests.
type fsnotifyWatcher interface {
	Add(name string) error
	Remove(name string) error
}

// FsnotifyBackend emulates hierarchical watches on top of fsnotify, which
// only watches single directories. Starting a hierarchy adds every directory
// below it; directories created later are added as their events arrive.
type FsnotifyBackend struct {
	mu sync.Mutex

	// fs is used to walk hierarchies and stat created paths.
	fs afero.Fs

	// fsWatcher is the underlying fsnotify watcher.
	// Note: fsnotify auto-removes watches on delete (all platforms), but not on rename for Windows.
	fsWatcher fsnotifyWatcher

	// closer closes the real fsnotify watcher. Nil in tests.
	closer func() error

	// hierarchies maps each watched hierarchy to the directories watched for it.
	hierarchies map[string]map[string]struct{}

	events chan string
	done   chan struct{}
}

// NewFsnotify creates an FsnotifyBackend and starts its event loop.
func NewFsnotify(fs afero.Fs) (*FsnotifyBackend, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	b := newFsnotifyBackend(fs, fsw)
	b.closer = fsw.Close
	go b.eventLoop(fsw.Events, fsw.Errors)
	return b, nil
}

func newFsnotifyBackend(fs afero.Fs, fsWatcher fsnotifyWatcher) *FsnotifyBackend {
	return &FsnotifyBackend{
		fs:          fs,
		fsWatcher:   fsWatcher,
		hierarchies: make(map[string]map[string]struct{}),
		events:      make(chan string, eventsBufferSize),
		done:        make(chan struct{}),
	}
}

// StartWatching adds every directory of each hierarchy. A hierarchy whose
// root cannot be watched fails as a whole; subdirectories that cannot be
// added are logged and skipped.
func (b *FsnotifyBackend) StartWatching(hierarchies []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var failed []string
	var errs []error
	for _, root := range hierarchies {
		if err := b.addHierarchy(root); err != nil {
			failed = append(failed, root)
			errs = append(errs, err)
		}
	}

	if len(failed) > 0 {
		return &watch.PathsError{Paths: failed, Err: errors.Join(errs...)}
	}
	return nil
}

// StopWatching removes every directory watched for each hierarchy.
// Watches the OS already dropped (for example because the directory was
// deleted) are not treated as failures.
func (b *FsnotifyBackend) StopWatching(hierarchies []string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	var failed []string
	var errs []error
	for _, root := range hierarchies {
		if err := b.removeHierarchy(root); err != nil {
			failed = append(failed, root)
			errs = append(errs, err)
		}
	}

	if len(failed) > 0 {
		return &watch.PathsError{Paths: failed, Err: errors.Join(errs...)}
	}
	return nil
}

// Events delivers changed paths.
func (b *FsnotifyBackend) Events() <-chan string {
	return b.events
}

// Close stops all watches and the event loop.
func (b *FsnotifyBackend) Close() error {
	b.mu.Lock()
	select {
	case <-b.done:
		b.mu.Unlock()
		return nil
	default:
	}
	close(b.done)
	b.hierarchies = make(map[string]map[string]struct{})
	b.mu.Unlock()

	if b.closer != nil {
		return b.closer()
	}
	return nil
}

// WatchCount returns the number of directories fsnotify is watching.
func (b *FsnotifyBackend) WatchCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	count := 0
	for _, dirs := range b.hierarchies {
		count += len(dirs)
	}
	return count
}

// addHierarchy walks root and adds a watch for every directory below it.
// Must be called with mu held.
func (b *FsnotifyBackend) addHierarchy(root string) error {
	if _, exists := b.hierarchies[root]; exists {
		return nil
	}

	info, err := b.fs.Stat(root)
	if err != nil {
		return err
	}
	if !info.IsDir() {
		return &os.PathError{Op: "watch", Path: root, Err: errors.New("not a directory")}
	}

	if err := b.fsWatcher.Add(root); err != nil {
		return err
	}

	dirs := map[string]struct{}{root: {}}
	b.hierarchies[root] = dirs
	b.addSubdirectories(root, dirs)

	slog.Debug("watching hierarchy", "path", root, "directories", len(dirs))
	return nil
}

// addSubdirectories adds watches to all subdirectories under path and records
// them in dirs by canonical path. Used when a hierarchy is started or when new
// directories are created under one. Must be called with mu held.
func (b *FsnotifyBackend) addSubdirectories(path string, dirs map[string]struct{}) {
	err := afero.Walk(b.fs, path, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			slog.Warn("failed to read directory when adding subdirectory", "path", p, "error", err)
			return filepath.SkipDir
		}
		if !info.IsDir() || p == path {
			return nil
		}
		key := pathutil.Clean(p)
		if _, watched := dirs[key]; watched {
			return nil
		}
		if err := b.fsWatcher.Add(p); err != nil {
			slog.Warn("fswatcher failed to add subdirectory watch", "path", p, "error", err)
			return filepath.SkipDir
		}
		dirs[key] = struct{}{}
		return nil
	})
	if err != nil {
		slog.Warn("failed to walk hierarchy", "path", path, "error", err)
	}
}

// removeHierarchy removes every watch added for root. Must be called with mu held.
func (b *FsnotifyBackend) removeHierarchy(root string) error {
	dirs, exists := b.hierarchies[root]
	if !exists {
		return nil
	}

	var rootErr error
	for _, d := range sortedDirs(dirs) {
		if err := b.fsWatcher.Remove(d); err != nil && !errors.Is(err, fsnotify.ErrNonExistentWatch) {
			if d == root {
				rootErr = err
			} else {
				slog.Warn("fswatcher failed to remove watch", "path", d, "error", err)
			}
		}
	}

	if rootErr != nil {
		// Keep only the root so a later stop can retry it.
		b.hierarchies[root] = map[string]struct{}{root: {}}
		return rootErr
	}

	delete(b.hierarchies, root)
	return nil
}

// eventLoop forwards fsnotify events until Close is called.
func (b *FsnotifyBackend) eventLoop(events <-chan fsnotify.Event, errs <-chan error) {
	for {
		select {
		case <-b.done:
			return
		case event, ok := <-events:
			if !ok {
				return
			}
			b.ProcessEvent(event)
		case err, ok := <-errs:
			if !ok {
				return
			}
			slog.Error("watcher error", "error", err)
		}
	}
}

// ProcessEvent updates the watched directories for an fsnotify event and
// forwards the changed path.
// Created directories inside a watched hierarchy are added; removed or
// renamed directories are dropped.
func (b *FsnotifyBackend) ProcessEvent(event fsnotify.Event) {
	// Hierarchies and watched directories are keyed by canonical path; the
	// event name keeps the on-disk case for filesystem calls.
	name := filepath.Clean(event.Name)
	path := pathutil.Clean(name)
	slog.Debug("ProcessEvent", "path", path, "op", event.Op)

	b.mu.Lock()
	root, dirs, ok := b.hierarchyFor(path)
	if ok {
		switch {
		case event.Op&fsnotify.Create != 0:
			if info, err := b.fs.Stat(name); err == nil && info.IsDir() {
				if _, watched := dirs[path]; !watched {
					if err := b.fsWatcher.Add(name); err != nil {
						slog.Warn("fswatcher failed to add created directory", "path", name, "error", err)
					} else {
						dirs[path] = struct{}{}
						b.addSubdirectories(name, dirs)
					}
				}
			}
		case event.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
			if path != root {
				b.dropSubtree(path, dirs)
			}
		}
	}
	b.mu.Unlock()

	select {
	case b.events <- path:
	case <-b.done:
	default:
		slog.Warn("dropping change event, consumer is behind", "path", path)
	}
}

// hierarchyFor returns the watched hierarchy containing path.
// Must be called with mu held.
func (b *FsnotifyBackend) hierarchyFor(path string) (string, map[string]struct{}, bool) {
	for root, dirs := range b.hierarchies {
		if path == root || pathutil.IsAncestor(root, path) {
			return root, dirs, true
		}
	}
	return "", nil, false
}

// dropSubtree forgets path and every watched directory below it.
// Must be called with mu held.
func (b *FsnotifyBackend) dropSubtree(path string, dirs map[string]struct{}) {
	prefix := path + string(filepath.Separator)
	for d := range dirs {
		if d == path || strings.HasPrefix(d, prefix) {
			// fsnotify removes watches for deleted directories itself; this
			// covers renames on Windows.
			b.fsWatcher.Remove(d)
			delete(dirs, d)
		}
	}
}

func sortedDirs(dirs map[string]struct{}) []string {
	out := make([]string, 0, len(dirs))
	for d := range dirs {
		out = append(out, d)
	}
	// Deepest first, so children go before their parents.
	sort.Sort(sort.Reverse(sort.StringSlice(out)))
	return out
}
