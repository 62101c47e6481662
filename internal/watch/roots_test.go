package watch

import (
	"runtime"
	"testing"
)

func TestResolveRootsToWatch(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected []string
	}{
		{
			name:     "empty",
			input:    nil,
			expected: []string{},
		},
		{
			name:     "single path",
			input:    []string{testPath("a")},
			expected: []string{testPath("a")},
		},
		{
			name:     "descendant dropped",
			input:    []string{testPath("a", "b", "c"), testPath("a")},
			expected: []string{testPath("a")},
		},
		{
			name:     "siblings kept",
			input:    []string{testPath("a", "b"), testPath("a", "c")},
			expected: []string{testPath("a", "b"), testPath("a", "c")},
		},
		{
			name:     "shared name prefix is not ancestry",
			input:    []string{testPath("a"), testPath("a-b"), testPath("ab", "c")},
			expected: []string{testPath("a"), testPath("a-b"), testPath("ab", "c")},
		},
		{
			name:     "duplicates collapse",
			input:    []string{testPath("a", "b"), testPath("a", "b")},
			expected: []string{testPath("a", "b")},
		},
		{
			name:     "nested chains reduce to outermost",
			input:    []string{testPath("x", "y", "z"), testPath("x", "y"), testPath("q"), testPath("q", "r")},
			expected: []string{testPath("q"), testPath("x", "y")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveRootsToWatch(tt.input)
			if !equalStrings(got, tt.expected) {
				t.Errorf("ResolveRootsToWatch(%v) = %v, want %v", tt.input, got, tt.expected)
			}
		})
	}
}

func TestResolveRootsToWatch_TrailingSeparators(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}

	got := ResolveRootsToWatch([]string{"/a/", "/a/b/", "/c//"})
	expected := []string{"/a", "/c"}
	if !equalStrings(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestResolveRootsToWatch_FilesystemRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("unix paths")
	}

	got := ResolveRootsToWatch([]string{"/a/b", "/", "/c"})
	if !equalStrings(got, []string{"/"}) {
		t.Errorf("expected only the filesystem root, got %v", got)
	}
}

func TestResolveRootsToWatch_OrderIndependent(t *testing.T) {
	a := []string{testPath("p", "q"), testPath("m"), testPath("p"), testPath("m", "n", "o"), testPath("z")}
	b := []string{testPath("z"), testPath("m", "n", "o"), testPath("p"), testPath("m"), testPath("p", "q")}

	for i := 0; i < 20; i++ {
		if got1, got2 := ResolveRootsToWatch(a), ResolveRootsToWatch(b); !equalStrings(got1, got2) {
			t.Fatalf("results differ for equal sets: %v vs %v", got1, got2)
		}
	}
}

func TestResolveRootsToWatch_OutputIsReduced(t *testing.T) {
	input := []string{
		testPath("a"), testPath("a", "b"), testPath("b", "c"), testPath("b", "c", "d"),
		testPath("b", "e"), testPath("f", "g", "h"),
	}
	got := ResolveRootsToWatch(input)
	if again := ResolveRootsToWatch(got); !equalStrings(got, again) {
		t.Errorf("reducing a reduced set changed it: %v -> %v", got, again)
	}
}
