package tracker

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/djherbis/times"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"

	"github.com/prettymuchbryce/hierwatch/internal/watch"
)

// scanConcurrency bounds how many locations are read at once.
const scanConcurrency = 4

// Tracker holds snapshots of the configured locations and reports which of
// them changed between scans. Locations are absolute paths or doublestar
// globs such as ~/src/app/**/*.go.
//
// A Tracker is not safe for concurrent use.
type Tracker struct {
	fs        afero.Fs
	locations []string
	entries   map[string]entry
}

// entry is a recorded snapshot plus the metadata used to detect changes.
type entry struct {
	snapshot watch.Snapshot
	size     int64
	modTime  time.Time

	// changeTime is the inode change time, when the filesystem exposes one.
	// It catches metadata changes that leave size and mtime alone.
	changeTime time.Time
}

func (e entry) changed(other entry) bool {
	return e.snapshot != other.snapshot ||
		e.size != other.size ||
		!e.modTime.Equal(other.modTime) ||
		!e.changeTime.Equal(other.changeTime)
}

// New creates a Tracker for the given locations. Nothing is read until Scan.
func New(fs afero.Fs, locations []string) (*Tracker, error) {
	t := &Tracker{
		fs:      fs,
		entries: make(map[string]entry),
	}
	if err := t.SetLocations(locations); err != nil {
		return nil, err
	}
	return t, nil
}

// SetLocations replaces the tracked locations. Snapshots of locations that
// are no longer configured are reported as removed by the next Scan.
func (t *Tracker) SetLocations(locations []string) error {
	cleaned := make([]string, 0, len(locations))
	for _, loc := range locations {
		if !filepath.IsAbs(loc) {
			return fmt.Errorf("location must be absolute: %q", loc)
		}
		if IsGlob(loc) && !doublestar.ValidatePathPattern(loc) {
			return fmt.Errorf("invalid glob pattern: %q", loc)
		}
		cleaned = append(cleaned, filepath.Clean(loc))
	}
	t.locations = cleaned
	return nil
}

// Locations returns the configured locations.
func (t *Tracker) Locations() []string {
	return append([]string(nil), t.locations...)
}

// Scan re-reads every location and returns the snapshots that disappeared or
// changed since the last scan (removed) and the ones that appeared or changed
// (added). A changed location is reported in both.
func (t *Tracker) Scan() (removed, added []watch.Snapshot) {
	current := t.readLocations()

	for _, path := range sortedPaths(t.entries) {
		old := t.entries[path]
		now, ok := current[path]
		if !ok || old.changed(now) {
			removed = append(removed, old.snapshot)
		}
	}
	for _, path := range sortedPaths(current) {
		now := current[path]
		old, ok := t.entries[path]
		if !ok || old.changed(now) {
			added = append(added, now.snapshot)
		}
	}

	t.entries = current
	slog.Debug("scanned locations", "locations", len(t.locations), "snapshots", len(current), "removed", len(removed), "added", len(added))
	return removed, added
}

// Snapshots returns every snapshot recorded by the last scan, sorted by path.
func (t *Tracker) Snapshots() []watch.Snapshot {
	out := make([]watch.Snapshot, 0, len(t.entries))
	for _, path := range sortedPaths(t.entries) {
		out = append(out, t.entries[path].snapshot)
	}
	return out
}

// Len returns the number of snapshots recorded by the last scan.
func (t *Tracker) Len() int {
	return len(t.entries)
}

// readLocations reads every location concurrently and merges the results.
func (t *Tracker) readLocations() map[string]entry {
	perLocation := make([]map[string]entry, len(t.locations))

	var g errgroup.Group
	g.SetLimit(scanConcurrency)
	for i, loc := range t.locations {
		g.Go(func() error {
			found := make(map[string]entry)
			if IsGlob(loc) {
				t.expandGlob(loc, found)
			} else {
				found[loc] = t.snapshotOf(loc)
			}
			perLocation[i] = found
			return nil
		})
	}
	// Read failures are logged per path, never returned.
	_ = g.Wait()

	current := make(map[string]entry)
	for _, found := range perLocation {
		for path, e := range found {
			current[path] = e
		}
	}
	return current
}

// expandGlob records the static base directory of pattern and every path
// below it that matches.
func (t *Tracker) expandGlob(pattern string, into map[string]entry) {
	base := GlobBase(pattern)

	baseEntry := t.snapshotOf(base)
	into[base] = baseEntry
	if baseEntry.snapshot.Type != watch.Directory {
		return
	}

	err := afero.Walk(t.fs, base, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			slog.Warn("failed to read location", "path", path, "error", err)
			if info != nil && info.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}
		if path == base {
			return nil
		}

		matched, err := doublestar.PathMatch(pattern, path)
		if err != nil {
			return err
		}
		if matched {
			into[path] = t.entryFor(path, info)
		}
		return nil
	})
	if err != nil {
		slog.Warn("failed to expand glob", "pattern", pattern, "error", err)
	}
}

// snapshotOf records a single location, which may not exist.
func (t *Tracker) snapshotOf(path string) entry {
	info, err := t.lstat(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to stat location", "path", path, "error", err)
		}
		return entry{snapshot: watch.Snapshot{Path: path, Type: watch.Missing}}
	}
	return t.entryFor(path, info)
}

// entryFor builds an entry from info obtained without following symlinks.
func (t *Tracker) entryFor(path string, info os.FileInfo) entry {
	if info.Mode()&os.ModeSymlink != 0 {
		return t.symlinkEntry(path)
	}
	return entry{
		snapshot:   watch.Snapshot{Path: path, Type: fileType(info)},
		size:       info.Size(),
		modTime:    info.ModTime(),
		changeTime: t.changeTime(path, times.Lstat),
	}
}

// changeTime returns the inode change time of path on the OS filesystem.
// Other filesystems have no change time and get the zero value.
func (t *Tracker) changeTime(path string, stat func(string) (times.Timespec, error)) time.Time {
	if _, ok := t.fs.(*afero.OsFs); !ok {
		return time.Time{}
	}
	ts, err := stat(path)
	if err != nil || !ts.HasChangeTime() {
		return time.Time{}
	}
	return ts.ChangeTime()
}

// symlinkEntry records path with the type and location of its target.
// A dangling link is recorded as missing at its target.
func (t *Tracker) symlinkEntry(path string) entry {
	snapshot := watch.Snapshot{Path: path, Type: watch.Missing}

	target, err := t.readlink(path)
	if err != nil {
		slog.Warn("failed to read symlink", "path", path, "error", err)
		return entry{snapshot: snapshot}
	}
	if !filepath.IsAbs(target) {
		target = filepath.Join(filepath.Dir(path), target)
	}
	snapshot.ResolvedPath = filepath.Clean(target)
	snapshot.ResolvedType = watch.Missing

	info, err := t.fs.Stat(path)
	if err != nil {
		return entry{snapshot: snapshot}
	}
	snapshot.Type = fileType(info)
	snapshot.ResolvedType = snapshot.Type
	return entry{
		snapshot:   snapshot,
		size:       info.Size(),
		modTime:    info.ModTime(),
		changeTime: t.changeTime(path, times.Stat),
	}
}

func (t *Tracker) lstat(path string) (os.FileInfo, error) {
	if lstater, ok := t.fs.(afero.Lstater); ok {
		info, _, err := lstater.LstatIfPossible(path)
		return info, err
	}
	return t.fs.Stat(path)
}

func (t *Tracker) readlink(path string) (string, error) {
	if reader, ok := t.fs.(afero.LinkReader); ok {
		return reader.ReadlinkIfPossible(path)
	}
	return "", &os.PathError{Op: "readlink", Path: path, Err: afero.ErrNoReadlink}
}

// IsGlob reports whether location contains glob metacharacters.
func IsGlob(location string) bool {
	return strings.ContainsAny(location, "*?[{")
}

// GlobBase returns the directory portion of pattern before its first
// metacharacter.
func GlobBase(pattern string) string {
	base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
	return filepath.Clean(filepath.FromSlash(base))
}

func fileType(info os.FileInfo) watch.FileType {
	if info.IsDir() {
		return watch.Directory
	}
	return watch.RegularFile
}

func sortedPaths(entries map[string]entry) []string {
	paths := make([]string, 0, len(entries))
	for p := range entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}
