package cmd

import (
	"fmt"

	"github.com/prettymuchbryce/hierwatch/internal/ipc"
	"github.com/spf13/cobra"
)

var enableCmd = &cobra.Command{
	Use:   "enable",
	Short: "Re-acquire watches and run a build after disable",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := ipc.Connect()
		if err != nil {
			return nil
		}
		defer client.Close()

		if err := client.Enable(); err != nil {
			return fmt.Errorf("failed to enable daemon: %w", err)
		}

		status, err := client.Status()
		if err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}

		fmt.Printf("Watching %s\n", pluralize(status.WatchCount, "hierarchy", "hierarchies"))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(enableCmd)
}

func pluralize(n int, singular, plural string) string {
	if n == 1 {
		return fmt.Sprintf("1 %s", singular)
	}
	return fmt.Sprintf("%d %s", n, plural)
}
