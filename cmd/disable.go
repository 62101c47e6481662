package cmd

import (
	"fmt"

	"github.com/prettymuchbryce/hierwatch/internal/ipc"
	"github.com/spf13/cobra"
)

var disableCmd = &cobra.Command{
	Use:   "disable",
	Short: "Release every native watch until enabled again",
	Long: `Release every native watch held by the daemon. Watched directories can
then be deleted, including on Windows. Roots and tracked state are rebuilt by
"hierwatch enable".`,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := ipc.Connect()
		if err != nil {
			return nil
		}
		defer client.Close()

		if err := client.Disable(); err != nil {
			return fmt.Errorf("failed to disable daemon: %w", err)
		}

		fmt.Println("Released all watches")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(disableCmd)
}
