package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	boltstore "github.com/corey/lumen/internal/adapters/bbolt"
	"github.com/corey/lumen/internal/adapters/socket"
	"github.com/corey/lumen/internal/app"
	"github.com/corey/lumen/internal/config"
)

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Wipe all learned usage statistics",
	Long:  "Deletes every launch count and timestamp. The application index itself is rebuilt from discovery and is unaffected.",
	RunE:  runReset,
}

func runReset(cmd *cobra.Command, args []string) error {
	if socket.NewClient(socket.SocketPath()).Ping() {
		return fmt.Errorf("stop the daemon first: lumen daemon stop")
	}

	dataDir, err := config.DataDir()
	if err != nil {
		return err
	}
	storage, err := boltstore.NewStore(filepath.Join(dataDir, app.UsageDBFile))
	if err != nil {
		return err
	}
	defer storage.Close()

	if err := storage.Wipe(); err != nil {
		return err
	}

	fmt.Println("usage statistics wiped")
	return nil
}
