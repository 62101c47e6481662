package watch

import "testing"

func TestDirectoriesToWatch(t *testing.T) {
	tests := []struct {
		name     string
		snapshot Snapshot
		expected []string
	}{
		{
			name:     "directory watches itself",
			snapshot: dir("proj", "src"),
			expected: []string{testPath("proj", "src")},
		},
		{
			name:     "file watches parent",
			snapshot: file("proj", "src", "main.go"),
			expected: []string{testPath("proj", "src")},
		},
		{
			name:     "missing watches parent",
			snapshot: missing("proj", "build", "out.jar"),
			expected: []string{testPath("proj", "build")},
		},
		{
			name: "symlinked file adds target directory",
			snapshot: Snapshot{
				Path:         testPath("proj", "link.txt"),
				Type:         RegularFile,
				ResolvedPath: testPath("shared", "data", "real.txt"),
				ResolvedType: RegularFile,
			},
			expected: []string{testPath("proj"), testPath("shared", "data")},
		},
		{
			name: "symlinked directory adds target",
			snapshot: Snapshot{
				Path:         testPath("proj", "vendor"),
				Type:         Directory,
				ResolvedPath: testPath("cache", "vendor"),
				ResolvedType: Directory,
			},
			expected: []string{testPath("proj", "vendor"), testPath("cache", "vendor")},
		},
		{
			name: "symlink into the same directory is deduplicated",
			snapshot: Snapshot{
				Path:         testPath("proj", "a.txt"),
				Type:         RegularFile,
				ResolvedPath: testPath("proj", "b.txt"),
				ResolvedType: RegularFile,
			},
			expected: []string{testPath("proj")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DirectoriesToWatch(tt.snapshot)
			if !equalStrings(got, tt.expected) {
				t.Errorf("DirectoriesToWatch(%+v) = %v, want %v", tt.snapshot, got, tt.expected)
			}
		})
	}
}

func TestFileType_String(t *testing.T) {
	if Directory.String() != "directory" || RegularFile.String() != "file" || Missing.String() != "missing" {
		t.Errorf("unexpected names: %s %s %s", Directory, RegularFile, Missing)
	}
}
