package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/prettymuchbryce/hierwatch/internal/ipc"
	"github.com/prettymuchbryce/hierwatch/internal/report"
	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Reload the configuration and run a new build in the daemon",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := ipc.Connect()
		if err != nil {
			return nil
		}
		defer client.Close()

		result, err := client.Build()
		if err != nil {
			return fmt.Errorf("%w (run hierwatch status for the watched hierarchies)", err)
		}
		return printBuild(os.Stdout, result)
	},
}

func init() {
	rootCmd.AddCommand(buildCmd)
}

// printBuild renders a build result and returns an error if the build failed,
// so the command exits non-zero.
func printBuild(w io.Writer, result *ipc.BuildStatus) error {
	report.NewStructuredWithWriter(w, false).ReportBuild(report.BuildReport{
		Number:      result.Number,
		StartedAt:   result.StartedAt,
		Duration:    result.Duration,
		Roots:       result.Roots,
		Hierarchies: result.Hierarchies,
		Error:       result.Error,
	})
	if result.Error != "" {
		return fmt.Errorf("build %d failed: %s", result.Number, result.Error)
	}
	return nil
}
