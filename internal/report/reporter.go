package report

import "time"

// Reporter renders the outcome of a build.
// Implementations can format output as tree-style text, JSON, etc.
type Reporter interface {
	// ReportBuild renders one finished build.
	ReportBuild(b BuildReport)
}

// BuildReport describes the registry after a build.
type BuildReport struct {
	Number    int
	StartedAt time.Time
	Duration  time.Duration

	// Roots are the root project directories declared for the build.
	Roots []string

	// PreviousRoots are roots retained from earlier builds.
	PreviousRoots []string

	// Hierarchies are the watched hierarchies.
	Hierarchies []string

	// Required are the directories tracked locations need watched, before
	// they were replaced by roots. Only rendered in verbose mode.
	Required []string

	// Error is the message of a failed build, empty on success.
	Error string
}

// NullReporter is a no-op reporter for when reporting is disabled.
type NullReporter struct{}

func (NullReporter) ReportBuild(b BuildReport) {}
