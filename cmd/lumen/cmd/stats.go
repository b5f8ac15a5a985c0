package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/corey/lumen/internal/adapters/socket"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show launch statistics",
	RunE:  runStats,
}

func runStats(cmd *cobra.Command, args []string) error {
	client := socket.NewClient(socket.SocketPath())
	if !client.Ping() {
		return fmt.Errorf("daemon not running. Start with: lumen daemon start")
	}

	result, err := client.Stats()
	if err != nil {
		return err
	}

	fmt.Print(formatStats(result))
	return nil
}

func formatStats(r *socket.StatsResult) string {
	var b strings.Builder
	fmt.Fprintf(&b, "entries:  %d\n", r.Entries)
	fmt.Fprintf(&b, "launches: %d\n", r.Launches)
	fmt.Fprintf(&b, "uptime:   %s\n", r.Uptime)
	if len(r.Top) > 0 {
		b.WriteString("\nmost launched:\n")
		for _, row := range r.Top {
			fmt.Fprintf(&b, "  %4d  %-30s %s\n", row.LaunchCount, row.Name, row.LastLaunch)
		}
	}
	return b.String()
}
