package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/prettymuchbryce/hierwatch/internal/testutil"
)

func TestReportBuild_LabelsRoots(t *testing.T) {
	var buf bytes.Buffer
	r := NewStructuredWithWriter(&buf, false)

	app := testutil.Path("/", "src", "app")
	lib := testutil.Path("/", "src", "lib")
	other := testutil.Path("/", "tmp", "other")

	r.ReportBuild(BuildReport{
		Number:        4,
		Roots:         []string{app},
		PreviousRoots: []string{lib},
		Hierarchies:   []string{app, lib, other},
	})

	out := buf.String()
	for _, want := range []string{"Build #4", app + " (root)", lib + " (previous root)", other} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
	if strings.Contains(out, other+" (") {
		t.Errorf("expected %s to have no role, got:\n%s", other, out)
	}
}

func TestReportBuild_VerboseShowsRequiredDirectories(t *testing.T) {
	var buf bytes.Buffer
	r := NewStructuredWithWriter(&buf, true)

	app := testutil.Path("/", "src", "app")
	r.ReportBuild(BuildReport{
		Roots:       []string{app},
		Hierarchies: []string{app},
		Required:    []string{testutil.Path("/", "src", "app", "cmd")},
	})

	if !strings.Contains(buf.String(), "cmd") {
		t.Errorf("expected required directory in verbose output, got:\n%s", buf.String())
	}
}

func TestReportBuild_ShowsUnwatchedAndError(t *testing.T) {
	var buf bytes.Buffer
	r := NewStructuredWithWriter(&buf, false)

	denied := testutil.Path("/", "denied")
	r.ReportBuild(BuildReport{
		StartedAt: time.Date(2024, 1, 2, 3, 4, 5, 0, time.Local),
		Required:  []string{denied},
		Error:     "failed to start watching",
	})

	out := buf.String()
	for _, want := range []string{"unwatched:", denied, "failed to start watching", "Not watching anything", "2024-01-02 03:04:05"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, out)
		}
	}
}
