package watch

import "testing"

func TestRootDirectory_Contains(t *testing.T) {
	root := NewRootDirectory(testPath("proj"))

	if !root.Contains(testPath("proj", "src")) {
		t.Error("expected child to be contained")
	}
	if !root.Contains(testPath("proj", "src", "main")) {
		t.Error("expected grandchild to be contained")
	}
	if root.Contains(testPath("proj")) {
		t.Error("root should not contain itself")
	}
	if root.Contains(testPath("project")) {
		t.Error("name sharing a prefix should not be contained")
	}
}

func TestRootSet_DeclareReduces(t *testing.T) {
	s := NewRootSet()
	s.Declare([]string{testPath("a", "b"), testPath("a"), testPath("c")})

	expected := []string{testPath("a"), testPath("c")}
	if got := s.Paths(); !equalStrings(got, expected) {
		t.Errorf("expected %v, got %v", expected, got)
	}
}

func TestRootSet_DeclareReplaces(t *testing.T) {
	s := NewRootSet()
	s.Declare([]string{testPath("a")})
	s.Declare([]string{testPath("b")})

	if got := s.Paths(); !equalStrings(got, []string{testPath("b")}) {
		t.Errorf("expected only the second declaration, got %v", got)
	}
}

func TestRootSet_DeduplicatesByPrefix(t *testing.T) {
	s := NewRootSet()
	s.Add(NewRootDirectory(testPath("a")))
	s.Add(NewRootDirectory(testPath("a")))

	if s.Len() != 1 {
		t.Errorf("expected 1 root, got %d", s.Len())
	}
}

func TestRootSet_Contains(t *testing.T) {
	s := NewRootSet()
	s.Declare([]string{testPath("a"), testPath("b")})

	root, ok := s.Contains(testPath("b", "x"))
	if !ok || root.Path != testPath("b") {
		t.Errorf("expected root %s, got %v (ok=%v)", testPath("b"), root.Path, ok)
	}

	if _, ok := s.Contains(testPath("c", "x")); ok {
		t.Error("expected no root for unrelated path")
	}
}

func TestRootSet_ContainsIsDeterministicForNestedRoots(t *testing.T) {
	// Nested roots only arise by merging generations.
	s := NewRootSet()
	s.Add(NewRootDirectory(testPath("a", "b")))
	s.Add(NewRootDirectory(testPath("a")))

	for i := 0; i < 20; i++ {
		root, ok := s.Contains(testPath("a", "b", "c"))
		if !ok || root.Path != testPath("a") {
			t.Fatalf("expected outermost root %s, got %s", testPath("a"), root.Path)
		}
	}
}

func TestRootSet_AddAllRemoveAllRemoveIf(t *testing.T) {
	current := NewRootSet()
	current.Declare([]string{testPath("a"), testPath("b")})

	previous := NewRootSet()
	previous.Declare([]string{testPath("b"), testPath("c")})

	previous.AddAll(current)
	if got := previous.Paths(); !equalStrings(got, []string{testPath("a"), testPath("b"), testPath("c")}) {
		t.Errorf("unexpected union: %v", got)
	}

	previous.RemoveAll(current)
	if got := previous.Paths(); !equalStrings(got, []string{testPath("c")}) {
		t.Errorf("unexpected difference: %v", got)
	}

	previous.RemoveIf(func(r RootDirectory) bool { return r.Path == testPath("c") })
	if previous.Len() != 0 {
		t.Errorf("expected empty set, got %v", previous.Paths())
	}
}
