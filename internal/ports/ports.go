// Package ports defines the interfaces (contracts) that adapters must implement.
// These are the boundaries of the hexagonal architecture. Domain logic depends
// only on these interfaces, never on concrete implementations.
package ports

import (
	"errors"
	"time"
)

// Sentinel errors shared across the core. None of these are fatal to the
// interactive loop: callers degrade to stale or unranked data and keep going.
var (
	// ErrNotFound means a launch was recorded against an unknown identifier.
	// Usually a stale UI selection racing an index refresh. Recovered by
	// ignoring the event.
	ErrNotFound = errors.New("entry not found")

	// ErrDiscoveryEmpty means discovery returned zero applications.
	// Surfaced to the UI as an empty state, not a halt.
	ErrDiscoveryEmpty = errors.New("discovery returned no applications")

	// ErrSessionIdle means a query or selection arrived while no session
	// was active.
	ErrSessionIdle = errors.New("session is idle")
)

// DiscoveredApp is one launchable application as reported by discovery.
type DiscoveredApp struct {
	// ID is the stable unique key (filesystem path or bundle identifier).
	ID string

	// Name is the human-readable display name, used as the match subject.
	Name string
}

// Discovery enumerates the applications installed on the machine.
// May be re-invoked at any time to refresh the index; the store reconciles
// the new listing against its current entries.
type Discovery interface {
	// Discover returns every currently installed launchable application.
	// Returns ErrDiscoveryEmpty if nothing was found.
	Discover() ([]DiscoveredApp, error)
}

// UsageStat is the persisted usage record for one entry.
type UsageStat struct {
	LaunchCount    uint32     `json:"launch_count"`
	LastLaunchedAt *time.Time `json:"last_launched_at,omitempty"`
}

// UsageSnapshot maps entry identifier to its usage statistics.
// This is the unit of persistence: written after every launch, read at load.
type UsageSnapshot struct {
	Stats map[string]UsageStat `json:"stats"`
}

// UsageStorage persists usage snapshots to durable storage.
//
// Crash safety: SaveSnapshot must be transactional. A crash mid-write must
// not corrupt previously committed data. The write-through cadence in the
// learner guarantees at most one in-flight launch is ever lost.
type UsageStorage interface {
	// SaveSnapshot persists the full usage snapshot, overwriting prior state.
	SaveSnapshot(snap *UsageSnapshot) error

	// LoadSnapshot retrieves the persisted snapshot.
	// Returns nil, nil if no snapshot exists (fresh install).
	LoadSnapshot() (*UsageSnapshot, error)
}

// Launcher starts an application. The core only records that the launch was
// requested; process-spawning semantics belong to the adapter.
type Launcher interface {
	Launch(id string) error
}

// Watcher monitors the application directories for changes and triggers an
// index refresh. The adapter debounces rapid events (installers touch many
// files per install). Only one Watch call should be active at a time.
type Watcher interface {
	// Watch starts monitoring the given directories. onChange is called
	// once per debounced change burst. The callback may be invoked from
	// any goroutine.
	Watch(dirs []string, onChange func()) error

	// Stop ends monitoring and releases all resources. After Stop returns,
	// no further onChange calls will fire. Safe to call multiple times.
	Stop() error
}
