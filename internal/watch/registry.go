package watch

import (
	"log/slog"
	"sort"
)

// Registry decides which directory hierarchies to hand to a native Watcher.
//
// It prefers watching root project directories over directories nested inside
// them: roots are unlikely to be deleted, and builds of the same project then
// need almost no watch changes. The roots declared during a build are
// remembered for the next build, but only while something inside them is still
// watched, so an unused root can be released (and deleted, which Windows does
// not allow for watched directories).
//
// Lifecycle of root directories:
//   - During a build, UpdateRootProjectDirectories declares the current roots.
//   - Recomputation watches current roots, then previous-build roots, in place
//     of the directories inside them.
//   - BuildFinished moves the current roots to the previous generation, stops
//     watching roots with nothing left inside, and forgets unwatched roots.
//
// A Registry is not safe for concurrent use. All methods must be called by a
// single owner, one at a time.
type Registry struct {
	// watcher is the native facility receiving start/stop calls.
	watcher Watcher

	// tracked maps a snapshot identity to the directories it needs watched.
	// A directory is required while at least one identity references it.
	tracked map[string]map[string]struct{}

	// watched is the set of hierarchies the watcher currently watches.
	// It is always reduced: no member is below another.
	watched map[string]struct{}

	// currentRoots are the roots declared for the build in progress.
	currentRoots *RootSet

	// previousRoots are roots from earlier builds that are still watched.
	previousRoots *RootSet
}

// NewRegistry creates a Registry that drives the given watcher.
func NewRegistry(watcher Watcher) *Registry {
	return &Registry{
		watcher:       watcher,
		tracked:       make(map[string]map[string]struct{}),
		watched:       make(map[string]struct{}),
		currentRoots:  NewRootSet(),
		previousRoots: NewRootSet(),
	}
}

// Changed updates the tracked requirements after the file-state cache dropped
// removed and recorded added, then recomputes the watched hierarchies.
// All paths are validated before anything is changed.
func (r *Registry) Changed(removed, added []Snapshot) error {
	removedIDs := make([]string, 0, len(removed))
	for _, s := range removed {
		id, err := normalizePath(s.Identity())
		if err != nil {
			return err
		}
		removedIDs = append(removedIDs, id)
	}

	addedDirs := make(map[string][]string, len(added))
	addedIDs := make([]string, 0, len(added))
	for _, s := range added {
		normalized, err := normalizeSnapshot(s)
		if err != nil {
			return err
		}
		id := normalized.Identity()
		if _, seen := addedDirs[id]; !seen {
			addedIDs = append(addedIDs, id)
		}
		addedDirs[id] = append(addedDirs[id], DirectoriesToWatch(normalized)...)
	}

	for _, id := range removedIDs {
		delete(r.tracked, id)
	}
	for _, id := range addedIDs {
		dirs, ok := r.tracked[id]
		if !ok {
			dirs = make(map[string]struct{})
			r.tracked[id] = dirs
		}
		for _, d := range addedDirs[id] {
			dirs[d] = struct{}{}
		}
	}

	slog.Debug("tracked snapshots changed", "removed", len(removedIDs), "added", len(addedIDs), "tracked", len(r.tracked))
	return r.updateWatchedHierarchies()
}

// BuildFinished ends the current build. Its roots become previous-build roots,
// roots with nothing left to watch inside are released, and previous-build
// roots that are not themselves watched are forgotten.
func (r *Registry) BuildFinished() error {
	r.previousRoots.AddAll(r.currentRoots)
	r.currentRoots.Clear()

	err := r.updateWatchedHierarchies()

	// Prune against what is actually watched, even if recomputation failed.
	r.previousRoots.RemoveIf(func(root RootDirectory) bool {
		_, ok := r.watched[root.Path]
		return !ok
	})

	slog.Debug("build finished", "previousRoots", r.previousRoots.Paths())
	return err
}

// UpdateRootProjectDirectories declares the root project directories of the
// build in progress, replacing any earlier declaration for this build.
func (r *Registry) UpdateRootProjectDirectories(directories []string) error {
	normalized := make([]string, 0, len(directories))
	for _, d := range directories {
		n, err := normalizePath(d)
		if err != nil {
			return err
		}
		normalized = append(normalized, n)
	}

	r.currentRoots.Declare(normalized)
	slog.Info("now considering root directories to watch", "roots", r.currentRoots.Paths())

	r.previousRoots.RemoveAll(r.currentRoots)

	return r.updateWatchedHierarchies()
}

// updateWatchedHierarchies recomputes the hierarchies to watch and issues the
// minimal stop/start calls. Stops happen before starts. Only successful calls
// are applied to the watched set; a failed stop aborts before any start.
func (r *Registry) updateWatchedHierarchies() error {
	desired := make(map[string]struct{})
	for _, d := range ResolveRootsToWatch(r.substitutedDirectories()) {
		desired[d] = struct{}{}
	}

	toRemove := difference(r.watched, desired)
	toAdd := difference(desired, r.watched)

	if len(desired) == 0 && len(r.watched) > 0 {
		slog.Info("not watching anything anymore")
	}

	if len(toRemove) == 0 && len(toAdd) == 0 {
		return nil
	}

	if len(toRemove) > 0 {
		err := r.watcher.StopWatching(toRemove)
		failed := failedPaths(err, toRemove)
		for _, p := range toRemove {
			if _, ok := failed[p]; !ok {
				delete(r.watched, p)
			}
		}
		if err != nil {
			slog.Error("failed to stop watching hierarchies", "paths", sortedKeys(failed), "error", err)
			return &StopError{Paths: sortedKeys(failed), Err: err}
		}
	}

	if len(toAdd) > 0 {
		err := r.watcher.StartWatching(toAdd)
		failed := failedPaths(err, toAdd)
		for _, p := range toAdd {
			if _, ok := failed[p]; !ok {
				r.watched[p] = struct{}{}
			}
		}
		if err != nil {
			slog.Error("failed to start watching hierarchies", "paths", sortedKeys(failed), "error", err)
			return &StartError{Paths: sortedKeys(failed), Err: err}
		}
	}

	slog.Info("watching directory hierarchies to track changes", "count", len(r.watched))
	return nil
}

// substitutedDirectories returns every required directory, replaced by the
// current-build root containing it, else the previous-build root, if any.
func (r *Registry) substitutedDirectories() []string {
	substituted := make(map[string]struct{})
	for _, dirs := range r.tracked {
		for d := range dirs {
			if root, ok := r.currentRoots.Contains(d); ok {
				substituted[root.Path] = struct{}{}
			} else if root, ok := r.previousRoots.Contains(d); ok {
				substituted[root.Path] = struct{}{}
			} else {
				substituted[d] = struct{}{}
			}
		}
	}
	return sortedKeys(substituted)
}

// WatchedHierarchies returns the sorted hierarchies currently watched.
func (r *Registry) WatchedHierarchies() []string {
	return sortedKeys(r.watched)
}

// WatchCount returns the number of hierarchies currently watched.
func (r *Registry) WatchCount() int {
	return len(r.watched)
}

// CurrentRoots returns the sorted roots declared for the build in progress.
func (r *Registry) CurrentRoots() []string {
	return r.currentRoots.Paths()
}

// PreviousRoots returns the sorted roots retained from earlier builds.
func (r *Registry) PreviousRoots() []string {
	return r.previousRoots.Paths()
}

// RequiredDirectories returns the sorted directories tracked snapshots need
// watched, before root substitution.
func (r *Registry) RequiredDirectories() []string {
	required := make(map[string]struct{})
	for _, dirs := range r.tracked {
		for d := range dirs {
			required[d] = struct{}{}
		}
	}
	return sortedKeys(required)
}

// TrackedCount returns the number of tracked snapshot identities.
func (r *Registry) TrackedCount() int {
	return len(r.tracked)
}

func normalizeSnapshot(s Snapshot) (Snapshot, error) {
	p, err := normalizePath(s.Path)
	if err != nil {
		return Snapshot{}, err
	}
	s.Path = p
	if s.ResolvedPath != "" {
		resolved, err := normalizePath(s.ResolvedPath)
		if err != nil {
			return Snapshot{}, err
		}
		s.ResolvedPath = resolved
	}
	return s, nil
}

// difference returns the sorted members of a that are not in b.
func difference(a, b map[string]struct{}) []string {
	var out []string
	for k := range a {
		if _, ok := b[k]; !ok {
			out = append(out, k)
		}
	}
	sort.Strings(out)
	return out
}

func sortedKeys(m map[string]struct{}) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
