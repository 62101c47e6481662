package watch

import "path/filepath"

// DirectoriesToWatch returns the directories that must be watched to observe
// changes to the snapshot's location. A directory is watched itself; files and
// missing locations are observed through their parent. When the location was
// reached through a symlink, the directory required for the link target is
// included as well, since changes there do not surface under the link.
func DirectoriesToWatch(s Snapshot) []string {
	dirs := []string{requiredDirectory(s.Path, s.Type)}

	if s.ResolvedPath != "" && s.ResolvedPath != s.Path {
		target := requiredDirectory(s.ResolvedPath, s.ResolvedType)
		if target != dirs[0] {
			dirs = append(dirs, target)
		}
	}

	return dirs
}

func requiredDirectory(path string, t FileType) string {
	if t == Directory {
		return path
	}
	return filepath.Dir(path)
}
