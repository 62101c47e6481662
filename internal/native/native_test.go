package native

import (
	"testing"

	"github.com/spf13/afero"
)

func TestNew_UnknownKind(t *testing.T) {
	if _, err := New("inotify2", afero.NewMemMapFs()); err == nil {
		t.Error("expected error for unknown backend")
	}
}

func TestNew_DryRun(t *testing.T) {
	b, err := New(KindDryRun, afero.NewMemMapFs())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := b.(*DryRunBackend); !ok {
		t.Errorf("expected DryRunBackend, got %T", b)
	}
}

func TestDryRun_RecordsCalls(t *testing.T) {
	d := NewDryRun()

	d.StartWatching([]string{testPath("b"), testPath("a")})
	d.StopWatching([]string{testPath("b")})

	got := d.Watched()
	if len(got) != 1 || got[0] != testPath("a") {
		t.Errorf("expected only %s, got %v", testPath("a"), got)
	}
	if starts, stops := d.Calls(); starts != 1 || stops != 1 {
		t.Errorf("expected 1 start and 1 stop, got %d and %d", starts, stops)
	}
}
