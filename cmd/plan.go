package cmd

import (
	"fmt"

	"github.com/prettymuchbryce/hierwatch/daemon"
	"github.com/prettymuchbryce/hierwatch/internal/config"
	"github.com/prettymuchbryce/hierwatch/internal/report"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

var planVerbose bool

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Show which directory hierarchies a build would watch, without watching anything",
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := resolveConfigPath(cmd)
		if err != nil {
			return err
		}

		cfg, err := config.Load(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		applyConfigLogLevel(cmd, cfg.Logging.Level)

		if cfg.IsEmpty() {
			fmt.Printf("No roots or locations found in config: %s\n", configPath)
			return nil
		}

		b, err := daemon.Plan(cfg, afero.NewOsFs())
		if err != nil {
			return err
		}

		report.NewStructured(planVerbose).ReportBuild(b)
		return nil
	},
}

func init() {
	planCmd.Flags().BoolVarP(&planVerbose, "verbose", "v", false, "show the directories each hierarchy covers")
	rootCmd.AddCommand(planCmd)
}
