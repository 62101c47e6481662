package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/prettymuchbryce/hierwatch/daemon"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var daemonCmd = &cobra.Command{
	Use:    "daemon",
	Hidden: true,
	Short:  "Watch the hierarchies needed to track configured locations",
	Long: `Run builds and keep the directory hierarchies the tracked locations need
watched, until SIGINT or SIGTERM.

The daemon runs a build on startup and whenever "hierwatch build" is called.
Between builds, change events are debounced and rescan the tracked locations.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		configPath, err := resolveConfigPath(cmd)
		if err != nil {
			return err
		}

		setupLogging := SetupLogging
		if cmd.Flags().Changed("log-level") {
			setupLogging = func(string) { SetupLogging(logLevelFlag) }
		}
		return daemon.Run(ctx, configPath, afero.NewOsFs(), setupLogging)
	},
}

func init() {
	rootCmd.AddCommand(daemonCmd)
}
