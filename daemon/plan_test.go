package daemon

import (
	"testing"

	"github.com/spf13/afero"

	"github.com/prettymuchbryce/hierwatch/internal/config"
)

func TestPlan(t *testing.T) {
	fs := afero.NewMemMapFs()
	fs.MkdirAll(testPath("src", "app", "cmd"), 0755)
	afero.WriteFile(fs, testPath("src", "app", "cmd", "main.go"), []byte("package main"), 0644)

	notes := testPath("notes", "todo.txt")
	cfg := &config.Config{
		Roots:     config.PathList{appRoot},
		Locations: config.PathList{appGlob, notes},
	}

	b, err := Plan(cfg, fs)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{testPath("notes"), appRoot}
	if !equal(b.Hierarchies, want) {
		t.Errorf("expected %v, got %v", want, b.Hierarchies)
	}
	if !equal(b.Roots, []string{appRoot}) || !equal(b.PreviousRoots, []string{appRoot}) {
		t.Errorf("expected %s as declared and retained root, got roots=%v previous=%v", appRoot, b.Roots, b.PreviousRoots)
	}
	if b.Error != "" {
		t.Errorf("unexpected build error: %s", b.Error)
	}

	wantRequired := []string{testPath("notes"), appRoot, testPath("src", "app", "cmd")}
	if !equal(b.Required, wantRequired) {
		t.Errorf("expected required %v, got %v", wantRequired, b.Required)
	}
}

func TestPlan_InvalidLocation(t *testing.T) {
	cfg := &config.Config{Locations: config.PathList{testPath("src", "[a")}}
	if _, err := Plan(cfg, afero.NewMemMapFs()); err == nil {
		t.Error("expected error for invalid glob")
	}
}
