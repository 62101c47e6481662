package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/itchyny/timefmt-go"
	"github.com/xlab/treeprint"

	"github.com/prettymuchbryce/hierwatch/internal/pathutil"
)

// Styles for the structured reporter
var (
	buildStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")) // Cyan
	pathStyle   = lipgloss.NewStyle().Bold(true)
	passStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("2")) // Green
	failStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("1")) // Red
	rootStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("3")) // Yellow
	detailStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8")) // Gray
)

const (
	passIcon = "✓"
	failIcon = "✗"
)

// TimeFormat is the strftime layout used for build timestamps.
const TimeFormat = "%Y-%m-%d %H:%M:%S"

// StructuredReporter outputs a tree of watched hierarchies.
type StructuredReporter struct {
	w       io.Writer
	verbose bool
}

// NewStructured creates a new StructuredReporter.
func NewStructured(verbose bool) *StructuredReporter {
	return &StructuredReporter{
		w:       os.Stdout,
		verbose: verbose,
	}
}

// NewStructuredWithWriter creates a StructuredReporter writing to a custom writer.
func NewStructuredWithWriter(w io.Writer, verbose bool) *StructuredReporter {
	return &StructuredReporter{
		w:       w,
		verbose: verbose,
	}
}

// ReportBuild prints the build header and one tree per watched hierarchy.
func (r *StructuredReporter) ReportBuild(b BuildReport) {
	header := "━━━ Build ━━━"
	if b.Number > 0 {
		header = fmt.Sprintf("━━━ Build #%d ━━━", b.Number)
	}
	fmt.Fprintf(r.w, "\n%s\n", buildStyle.Render(header))

	if !b.StartedAt.IsZero() {
		fmt.Fprintf(r.w, "%s\n", detailStyle.Render(fmt.Sprintf("  started %s, took %s",
			timefmt.Format(b.StartedAt, TimeFormat), b.Duration.Round(time.Millisecond))))
	}

	if b.Error != "" {
		fmt.Fprintf(r.w, "%s %s\n", failStyle.Render(failIcon), failStyle.Render(b.Error))
	}

	if len(b.Hierarchies) == 0 {
		fmt.Fprintf(r.w, "%s\n", detailStyle.Render("  Not watching anything."))
	}

	for _, h := range b.Hierarchies {
		r.printHierarchy(h, b)
	}

	if unwatched := uncovered(b.Required, b.Hierarchies); len(unwatched) > 0 {
		tree := treeprint.NewWithRoot(failStyle.Render("unwatched:"))
		for _, d := range unwatched {
			tree.AddNode(fmt.Sprintf("%s %s", failStyle.Render(failIcon), d))
		}
		fmt.Fprint(r.w, tree.String())
	}
}

// printHierarchy outputs a watched hierarchy with its role and, in verbose
// mode, the required directories it covers.
func (r *StructuredReporter) printHierarchy(h string, b BuildReport) {
	label := fmt.Sprintf("%s %s", passStyle.Render(passIcon), pathStyle.Render(h))
	switch {
	case contains(b.Roots, h):
		label += " " + rootStyle.Render("(root)")
	case contains(b.PreviousRoots, h):
		label += " " + rootStyle.Render("(previous root)")
	}

	tree := treeprint.NewWithRoot(label)
	if r.verbose {
		for _, d := range b.Required {
			if d == h {
				continue
			}
			if pathutil.IsAncestor(h, d) {
				rel, err := filepath.Rel(h, d)
				if err != nil {
					rel = d
				}
				tree.AddNode(detailStyle.Render(rel))
			}
		}
	}
	fmt.Fprint(r.w, tree.String())
}

// uncovered returns the required directories no hierarchy contains.
func uncovered(required, hierarchies []string) []string {
	var out []string
	for _, d := range required {
		covered := false
		for _, h := range hierarchies {
			if d == h || pathutil.IsAncestor(h, d) {
				covered = true
				break
			}
		}
		if !covered {
			out = append(out, d)
		}
	}
	return out
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
