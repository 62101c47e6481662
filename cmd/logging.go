package cmd

import (
	"log/slog"
	"os"

	"github.com/charmbracelet/log"
)

// SetupLogging installs charmbracelet/log as the slog handler.
// Unknown level names fall back to info.
func SetupLogging(levelStr string) {
	level, err := log.ParseLevel(levelStr)
	if err != nil {
		level = log.InfoLevel
	}

	logger := log.NewWithOptions(os.Stderr, log.Options{
		Level:           level,
		ReportTimestamp: true,
		Prefix:          "hierwatch",
	})

	slog.SetDefault(slog.New(logger))
	if err != nil && levelStr != "" {
		slog.Warn("unknown log level, using info", "level", levelStr)
	}
}
