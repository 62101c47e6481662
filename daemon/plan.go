package daemon

import (
	"fmt"
	"time"

	"github.com/spf13/afero"

	"github.com/prettymuchbryce/hierwatch/internal/config"
	"github.com/prettymuchbryce/hierwatch/internal/native"
	"github.com/prettymuchbryce/hierwatch/internal/report"
	"github.com/prettymuchbryce/hierwatch/internal/tracker"
	"github.com/prettymuchbryce/hierwatch/internal/watch"
)

// Plan runs a single build against the dry-run backend and reports which
// hierarchies the daemon would watch. Nothing is watched.
func Plan(cfg *config.Config, fs afero.Fs) (report.BuildReport, error) {
	t, err := tracker.New(fs, cfg.Locations)
	if err != nil {
		return report.BuildReport{}, fmt.Errorf("invalid locations: %w", err)
	}

	backend := native.NewDryRun()
	defer backend.Close()
	registry := watch.NewRegistry(backend)

	started := time.Now()
	result := build(registry, t, cfg.Roots)

	b := report.BuildReport{
		StartedAt:     started,
		Duration:      time.Since(started),
		Roots:         result.roots,
		PreviousRoots: registry.PreviousRoots(),
		Hierarchies:   backend.Watched(),
		Required:      result.required,
	}
	if result.err != nil {
		b.Error = result.err.Error()
	}
	return b, nil
}
