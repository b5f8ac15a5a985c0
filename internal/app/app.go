// Package app wires adapters to domain logic and manages the daemon
// lifecycle: create, start, stop. Discovery populates the entry store at
// startup, the watcher triggers debounced refreshes, and the socket
// server drives the search session.
package app

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"time"

	boltstore "github.com/corey/lumen/internal/adapters/bbolt"
	"github.com/corey/lumen/internal/adapters/discovery"
	"github.com/corey/lumen/internal/adapters/launch"
	"github.com/corey/lumen/internal/adapters/socket"
	"github.com/corey/lumen/internal/config"
	"github.com/corey/lumen/internal/domain/learner"
	"github.com/corey/lumen/internal/domain/rank"
	"github.com/corey/lumen/internal/domain/session"
	"github.com/corey/lumen/internal/domain/store"
	"github.com/corey/lumen/internal/ports"
)

// UsageDBFile is the bbolt database filename within the data directory.
const UsageDBFile = "usage.db"

// Options configures App construction.
type Options struct {
	// ConfigPath overrides the default config file location.
	ConfigPath string

	// DataDir overrides the default usage database location.
	DataDir string
}

// App owns every component of a running launcher daemon.
type App struct {
	cfgFile *config.File
	rankCfg ports.Config

	storage *boltstore.Store
	scanner *discovery.Scanner
	watcher ports.Watcher

	store   *store.Store
	engine  *rank.Engine
	learner *learner.Learner
	session *session.Session
	server  *socket.Server
}

// New creates a fully wired app: config, bbolt storage, discovery
// scanner, engine, learner, session, and socket server.
func New(opts Options) (*App, error) {
	cfgPath := opts.ConfigPath
	if cfgPath == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		cfgPath = p
	}
	cfgFile, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	rankCfg, err := cfgFile.RankingConfig()
	if err != nil {
		return nil, err
	}

	dataDir := opts.DataDir
	if dataDir == "" {
		d, err := config.DataDir()
		if err != nil {
			return nil, err
		}
		dataDir = d
	}
	storage, err := boltstore.NewStore(filepath.Join(dataDir, UsageDBFile))
	if err != nil {
		return nil, err
	}

	st := store.New()
	engine := rank.New(rankCfg)
	lrn := learner.New(st, storage, launch.NewOpener(), learner.WithWarnf(warnf))
	sess := session.New(st, engine, lrn, rankCfg)

	a := &App{
		cfgFile: cfgFile,
		rankCfg: rankCfg,
		storage: storage,
		scanner: discovery.NewScanner(cfgFile.ApplicationDirs, cfgFile.Applications),
		store:   st,
		engine:  engine,
		learner: lrn,
		session: sess,
	}
	a.server = socket.NewServer(sess, socket.SocketPath(), a)
	return a, nil
}

// Start loads the index and begins serving: persisted usage snapshot
// merged with a fresh discovery pass, socket listener up, application
// directories watched for changes.
func (a *App) Start() error {
	snap, err := a.storage.LoadSnapshot()
	if err != nil {
		warnf("usage snapshot unreadable, starting cold: %v", err)
		snap = nil
	}

	discovered, err := a.scanner.Discover()
	if err != nil {
		// DiscoveryEmpty included: the launcher still responds, with an
		// empty list, and a later refresh can recover.
		warnf("discovery: %v", err)
	}
	a.store.Load(discovered, snap)

	if err := a.server.Start(); err != nil {
		return err
	}

	w, err := discovery.NewWatcher()
	if err != nil {
		warnf("watcher unavailable, refresh is manual only: %v", err)
	} else {
		a.watcher = w
		if err := w.Watch(a.cfgFile.ApplicationDirs, func() {
			if _, err := a.Refresh(); err != nil {
				warnf("refresh: %v", err)
			}
		}); err != nil {
			warnf("watch: %v", err)
		}
	}
	return nil
}

// Stop shuts everything down in reverse order and flushes a final
// snapshot so nothing recorded in-memory is lost.
func (a *App) Stop() error {
	if a.watcher != nil {
		a.watcher.Stop()
	}
	if a.server != nil {
		a.server.Stop()
	}
	if err := a.storage.SaveSnapshot(a.store.Snapshot()); err != nil {
		warnf("final snapshot not persisted: %v", err)
	}
	return a.storage.Close()
}

// Server exposes the socket server (for the daemon command's shutdown
// channel).
func (a *App) Server() *socket.Server { return a.server }

// Session exposes the search session (for in-process frontends).
func (a *App) Session() *session.Session { return a.session }

// Refresh re-runs discovery and reconciles the store: new apps appear
// with zero counts, uninstalled apps are evicted, surviving counts are
// kept. The pruned snapshot is persisted so stale entries leave disk too.
func (a *App) Refresh() (socket.RefreshResult, error) {
	discovered, err := a.scanner.Discover()
	if err != nil {
		return socket.RefreshResult{}, err
	}
	a.store.Reconcile(discovered)

	if err := a.storage.SaveSnapshot(a.store.Snapshot()); err != nil {
		warnf("usage snapshot not persisted: %v", err)
	}
	return socket.RefreshResult{Entries: a.store.Len()}, nil
}

// StatsSnapshot reports entry counts and the most-launched applications.
func (a *App) StatsSnapshot() socket.StatsResult {
	entries := a.store.All()

	var launches uint64
	launched := make([]store.Entry, 0, len(entries))
	for _, e := range entries {
		launches += uint64(e.LaunchCount)
		if e.LaunchCount > 0 {
			launched = append(launched, e)
		}
	}

	sort.Slice(launched, func(i, j int) bool {
		if launched[i].LaunchCount != launched[j].LaunchCount {
			return launched[i].LaunchCount > launched[j].LaunchCount
		}
		return launched[i].Name < launched[j].Name
	})
	if len(launched) > 10 {
		launched = launched[:10]
	}

	top := make([]socket.StatsRow, len(launched))
	for i, e := range launched {
		row := socket.StatsRow{Name: e.Name, LaunchCount: e.LaunchCount}
		if e.LastLaunchedAt != nil {
			row.LastLaunch = e.LastLaunchedAt.Format(time.RFC3339)
		}
		top[i] = row
	}

	return socket.StatsResult{
		Entries:  len(entries),
		Launches: launches,
		Top:      top,
	}
}

func warnf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, "warning: "+format+"\n", args...)
}
