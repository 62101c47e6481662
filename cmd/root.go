package cmd

import (
	"os"

	"github.com/prettymuchbryce/hierwatch/internal/config"
	"github.com/prettymuchbryce/hierwatch/internal/pathutil"
	"github.com/spf13/cobra"
)

var (
	configFlag   string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "hierwatch",
	Short: "hierwatch - Keep a minimal, stable set of directory hierarchies watched across builds",
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		SetupLogging(logLevelFlag)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", pathutil.MustDefaultConfigPath(), "path to config file")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "warn", "log level for the CLI (debug, info, warn, error)")
}

// resolveConfigPath returns the config path to use. An explicit --config is
// only tilde-expanded; the default location gets the example config written
// on first use.
func resolveConfigPath(cmd *cobra.Command) (string, error) {
	if cmd.Flags().Changed("config") {
		return pathutil.ExpandTilde(configFlag), nil
	}
	return config.EnsureDefaultConfig(configFlag)
}

// applyConfigLogLevel switches to the configured log level unless --log-level
// was given explicitly.
func applyConfigLogLevel(cmd *cobra.Command, level string) {
	if !cmd.Flags().Changed("log-level") {
		SetupLogging(level)
	}
}

func SetVersion(v string) {
	rootCmd.Version = v
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
