package watch

import "fmt"

// FileType is the kind of filesystem location a snapshot represents.
type FileType int

const (
	Missing FileType = iota
	RegularFile
	Directory
)

func (t FileType) String() string {
	switch t {
	case Missing:
		return "missing"
	case RegularFile:
		return "file"
	case Directory:
		return "directory"
	default:
		return fmt.Sprintf("FileType(%d)", int(t))
	}
}

// Snapshot is the registry's view of one tracked filesystem location.
type Snapshot struct {
	// Absolute path of the location. Also its identity.
	Path string

	Type FileType

	// Real location when Path was reached through a symlink, empty otherwise.
	ResolvedPath string

	// Type of the symlink target. Only meaningful when ResolvedPath is set.
	ResolvedType FileType
}

// Identity is the key the registry tracks this snapshot's requirements under.
func (s Snapshot) Identity() string {
	return s.Path
}
