package watch

import (
	"sort"
	"strings"

	"github.com/prettymuchbryce/hierwatch/internal/pathutil"
)

// RootDirectory is a directory preferred as a watch target over any directory
// nested inside it. Two root directories are equal iff their prefixes are.
type RootDirectory struct {
	Path   string
	prefix string
}

// NewRootDirectory creates a RootDirectory for an already canonical path.
func NewRootDirectory(path string) RootDirectory {
	return RootDirectory{
		Path:   path,
		prefix: pathutil.WithSeparator(path),
	}
}

// Contains reports whether candidate lies below the root directory.
// The root directory itself is not contained.
func (r RootDirectory) Contains(candidate string) bool {
	return strings.HasPrefix(candidate, r.prefix)
}

// RootSet is one generation of root directories, keyed by prefix.
type RootSet struct {
	roots map[string]RootDirectory
}

// NewRootSet creates an empty RootSet.
func NewRootSet() *RootSet {
	return &RootSet{roots: make(map[string]RootDirectory)}
}

// Declare replaces the set with the reduced form of paths, so no declared
// root is nested inside another.
func (s *RootSet) Declare(paths []string) {
	s.Clear()
	for _, p := range ResolveRootsToWatch(paths) {
		s.Add(NewRootDirectory(p))
	}
}

// Add inserts a root directory. Adding an equal root is a no-op.
func (s *RootSet) Add(r RootDirectory) {
	s.roots[r.prefix] = r
}

// AddAll inserts every root of other.
func (s *RootSet) AddAll(other *RootSet) {
	for prefix, r := range other.roots {
		s.roots[prefix] = r
	}
}

// RemoveAll removes every root that is also in other.
func (s *RootSet) RemoveAll(other *RootSet) {
	for prefix := range other.roots {
		delete(s.roots, prefix)
	}
}

// RemoveIf removes every root for which drop returns true.
func (s *RootSet) RemoveIf(drop func(RootDirectory) bool) {
	for prefix, r := range s.roots {
		if drop(r) {
			delete(s.roots, prefix)
		}
	}
}

// Clear empties the set.
func (s *RootSet) Clear() {
	s.roots = make(map[string]RootDirectory)
}

// Len returns the number of roots.
func (s *RootSet) Len() int {
	return len(s.roots)
}

// Contains returns the root containing candidate. Roots are checked in
// prefix order, so the result does not depend on map iteration.
func (s *RootSet) Contains(candidate string) (RootDirectory, bool) {
	for _, prefix := range s.prefixes() {
		r := s.roots[prefix]
		if r.Contains(candidate) {
			return r, true
		}
	}
	return RootDirectory{}, false
}

// Paths returns the sorted root directory paths.
func (s *RootSet) Paths() []string {
	paths := make([]string, 0, len(s.roots))
	for _, r := range s.roots {
		paths = append(paths, r.Path)
	}
	sort.Strings(paths)
	return paths
}

func (s *RootSet) prefixes() []string {
	prefixes := make([]string, 0, len(s.roots))
	for prefix := range s.roots {
		prefixes = append(prefixes, prefix)
	}
	sort.Strings(prefixes)
	return prefixes
}
