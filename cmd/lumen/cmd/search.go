package cmd

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	boltstore "github.com/corey/lumen/internal/adapters/bbolt"
	"github.com/corey/lumen/internal/adapters/discovery"
	"github.com/corey/lumen/internal/adapters/socket"
	"github.com/corey/lumen/internal/app"
	"github.com/corey/lumen/internal/config"
	"github.com/corey/lumen/internal/domain/rank"
	"github.com/corey/lumen/internal/domain/store"
)

var searchAll bool

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run one ranked search and print the results",
	Long: "Ranks installed applications against the query the same way the\n" +
		"interactive session does. With no query, prints the usage-ordered\n" +
		"default list. Goes through the daemon when one is running.",
	Args: cobra.MaximumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().BoolVar(&searchAll, "all", false, "print the full ordering, not just top-K")
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := ""
	if len(args) > 0 {
		query = args[0]
	}

	client := socket.NewClient(socket.SocketPath())
	if client.Ping() {
		return searchViaDaemon(client, query)
	}
	return searchLocally(query)
}

func searchViaDaemon(client *socket.Client, query string) error {
	act, err := client.Activate()
	if err != nil {
		return err
	}
	rows := act.Results
	if query != "" {
		res, err := client.Query(act.SessionID, query)
		if err != nil {
			return err
		}
		rows = res.Results
	}
	defer client.Cancel(act.SessionID)

	for _, row := range rows {
		fmt.Printf("%8.2f  %s  %s\n", row.Score, highlight(row.Name, row.Positions), row.ID)
	}
	return nil
}

// searchLocally builds the index in-process for a one-shot query.
// Read path only — usage counts are not mutated.
func searchLocally(query string) error {
	cfgPath := configPath
	if cfgPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return err
		}
		cfgPath = p
	}
	cfgFile, err := config.Load(cfgPath)
	if err != nil {
		return err
	}
	rankCfg, err := cfgFile.RankingConfig()
	if err != nil {
		return err
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

	snap, err := storage.LoadSnapshot()
	if err != nil {
		return err
	}

	scanner := discovery.NewScanner(cfgFile.ApplicationDirs, cfgFile.Applications)
	discovered, err := scanner.Discover()
	if err != nil {
		return err
	}

	st := store.New()
	st.Load(discovered, snap)

	results := rank.New(rankCfg).Rank(query, st.All(), time.Now())
	if !searchAll {
		results = rank.Truncate(results, rankCfg.TopK)
	}

	for _, r := range results {
		fmt.Printf("%8.2f  %s  %s\n", r.Score, highlight(r.Name, r.Positions), r.ID)
	}
	return nil
}

// highlight brackets the matched runes: "Chromium" + [0 1 2] → "[Chr]omium".
func highlight(name string, positions []int) string {
	if len(positions) == 0 {
		return name
	}
	matched := make(map[int]bool, len(positions))
	for _, p := range positions {
		matched[p] = true
	}

	var b strings.Builder
	inRun := false
	for i, r := range []rune(name) {
		switch {
		case matched[i] && !inRun:
			b.WriteByte('[')
			inRun = true
		case !matched[i] && inRun:
			b.WriteByte(']')
			inRun = false
		}
		b.WriteRune(r)
	}
	if inRun {
		b.WriteByte(']')
	}
	return b.String()
}
