package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/corey/lumen/internal/adapters/socket"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Re-run application discovery",
	Long:  "Reconciles the index against the installed applications: new apps appear, uninstalled apps are evicted, launch counts survive.",
	RunE:  runRefresh,
}

func runRefresh(cmd *cobra.Command, args []string) error {
	client := socket.NewClient(socket.SocketPath())
	if !client.Ping() {
		return fmt.Errorf("daemon not running. Start with: lumen daemon start")
	}

	result, err := client.Refresh()
	if err != nil {
		return err
	}

	fmt.Printf("index refreshed: %d entries\n", result.Entries)
	return nil
}
