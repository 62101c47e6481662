package cmd

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/itchyny/timefmt-go"
	"github.com/prettymuchbryce/hierwatch/internal/config"
	"github.com/prettymuchbryce/hierwatch/internal/ipc"
	"github.com/prettymuchbryce/hierwatch/internal/report"
	"github.com/spf13/cobra"
)

var (
	dimStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	highlightStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4")).Bold(true)
	boldStyle      = lipgloss.NewStyle().Bold(true)
	labelStyle     = lipgloss.NewStyle().Width(12)
	boxStyle       = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("2")).
			Padding(0, 4)
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Print status information (running, watched hierarchies, last build)",
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := ipc.Connect()
		if err != nil {
			return nil
		}
		defer client.Close()

		status, err := client.Status()
		if err != nil {
			return fmt.Errorf("failed to get status: %w", err)
		}

		// Show welcome box at top if using default config
		if config.IsDefaultConfig(status.ConfigPath) {
			welcome := "👋 Welcome to hierwatch\n\n" + "1. Get started by adding roots and locations to the config file at the path below.\n" +
				"2. Run a build with " + highlightStyle.Render("hierwatch build") + " after making changes."
			fmt.Println(boxStyle.Render(welcome))
		}

		var statusValue string
		if status.Enabled {
			statusValue = "🟢 running"
		} else {
			statusValue = "🔴 disabled (run " + boldStyle.Render("hierwatch enable") + " to resume)"
		}

		var watchingValue string
		if status.Enabled && status.WatchCount > 0 {
			watchingValue = fmt.Sprintf("%s (%s)",
				pluralize(status.WatchCount, "hierarchy", "hierarchies"),
				pluralize(status.TrackedCount, "tracked location", "tracked locations"))
		} else {
			watchingValue = dimStyle.Render("none")
		}

		var buildValue string
		if b := status.LastBuild; b != nil {
			buildValue = fmt.Sprintf("#%d %s", b.Number, dimStyle.Render(fmt.Sprintf("(%s, %s, took %s)",
				timefmt.Format(b.StartedAt, report.TimeFormat),
				formatTimeAgo(b.StartedAt),
				formatDuration(b.Duration),
			)))
			if b.Error != "" {
				buildValue += "\n  ⚠️ " + b.Error
			}
		} else {
			buildValue = dimStyle.Render("none")
		}

		fmt.Println(labelStyle.Render("status") + statusValue)
		fmt.Println(labelStyle.Render("config") + dimStyle.Render(status.ConfigPath))
		fmt.Println(labelStyle.Render("backend") + status.Backend)
		fmt.Println(labelStyle.Render("last build") + buildValue)
		fmt.Println(labelStyle.Render("watching") + watchingValue)

		if status.Enabled && status.WatchCount > 0 {
			var number int
			if status.LastBuild != nil {
				number = status.LastBuild.Number
			}
			report.NewStructured(false).ReportBuild(report.BuildReport{
				Number:        number,
				Roots:         status.CurrentRoots,
				PreviousRoots: status.PreviousRoots,
				Hierarchies:   status.Hierarchies,
			})
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// formatTimeAgo formats a time as a human-readable relative time.
func formatTimeAgo(t time.Time) string {
	d := time.Since(t)
	switch {
	case d < time.Minute:
		return "just now"
	case d < time.Hour:
		mins := int(d.Minutes())
		if mins == 1 {
			return "1 min ago"
		}
		return fmt.Sprintf("%d mins ago", mins)
	case d < 24*time.Hour:
		hours := int(d.Hours())
		if hours == 1 {
			return "1 hour ago"
		}
		return fmt.Sprintf("%d hours ago", hours)
	default:
		days := int(d.Hours() / 24)
		if days == 1 {
			return "1 day ago"
		}
		return fmt.Sprintf("%d days ago", days)
	}
}

// formatDuration formats a duration in a human-readable way.
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Millisecond:
		return fmt.Sprintf("%dµs", d.Microseconds())
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return fmt.Sprintf("%.1fm", d.Minutes())
	}
}
