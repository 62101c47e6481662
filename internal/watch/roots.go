package watch

import (
	"path/filepath"
	"sort"

	"github.com/prettymuchbryce/hierwatch/internal/pathutil"
)

// ResolveRootsToWatch reduces a set of directories to the minimal set of
// hierarchies covering all of them: any path with an ancestor in the set is
// dropped. The result is sorted, so equal inputs always produce equal outputs.
func ResolveRootsToWatch(paths []string) []string {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[pathutil.Clean(p)] = struct{}{}
	}

	roots := make([]string, 0, len(set))
	for p := range set {
		if !hasAncestorIn(set, p) {
			roots = append(roots, p)
		}
	}
	sort.Strings(roots)
	return roots
}

// hasAncestorIn walks up from path and reports whether any ancestor is in set.
// Walking parents avoids mistaking siblings like /a and /a-b for ancestors.
func hasAncestorIn(set map[string]struct{}, path string) bool {
	current := path
	for {
		parent := filepath.Dir(current)
		if parent == current {
			return false
		}
		if _, ok := set[parent]; ok {
			return true
		}
		current = parent
	}
}
