// Package store implements the canonical in-memory entry set.
// It owns every Entry record and all usage statistics. Mutation goes
// through exactly three doors: Load (initial merge with the persisted
// snapshot), Reconcile (refresh against a fresh discovery listing) and
// RecordLaunch (increment + timestamp). Everything else reads snapshots.
package store

import (
	"sort"
	"sync"
	"time"

	"github.com/corey/lumen/internal/ports"
)

// Entry is one launchable application record. Value type: callers receive
// copies and can never mutate store state through them.
type Entry struct {
	// ID is the stable unique key, immutable once created.
	ID string

	// Name is the display name, used as the fuzzy match subject.
	Name string

	// LaunchCount is monotonically non-decreasing, bumped per launch.
	LaunchCount uint32

	// LastLaunchedAt is nil until the first launch.
	LastLaunchedAt *time.Time
}

// Store holds all entries, keyed by identifier.
//
// The interactive path is single-threaded, but persistence flushes and
// watcher-driven refreshes run off it, so access is guarded by a RWMutex.
type Store struct {
	mu      sync.RWMutex
	gen     uint64
	entries map[string]*Entry
}

// New creates an empty store.
func New() *Store {
	return &Store{entries: make(map[string]*Entry)}
}

// Load initializes the store from a discovery listing merged with a
// persisted usage snapshot. Entries present in discovery but absent from
// the snapshot start at zero; snapshot entries absent from discovery are
// dropped as stale. Load is for startup — refreshing a live store goes
// through Reconcile, which reads the current counts under the same lock
// that swaps the entry set.
func (s *Store) Load(discovered []ports.DiscoveredApp, snap *ports.UsageSnapshot) {
	fresh := make(map[string]*Entry, len(discovered))
	for _, d := range discovered {
		if d.ID == "" {
			continue
		}
		e := &Entry{ID: d.ID, Name: d.Name}
		if snap != nil {
			if stat, ok := snap.Stats[d.ID]; ok {
				e.LaunchCount = stat.LaunchCount
				// A timestamp without a count is a pre-migration artifact;
				// drop it so count and timestamp stay coupled.
				if stat.LaunchCount > 0 && stat.LastLaunchedAt != nil {
					t := *stat.LastLaunchedAt
					e.LastLaunchedAt = &t
				}
			}
		}
		fresh[d.ID] = e
	}

	s.mu.Lock()
	s.entries = fresh
	s.gen++
	s.mu.Unlock()
}

// Reconcile swaps in a fresh discovery listing while keeping the usage
// statistics of surviving entries. The read of the current counts and the
// swap happen under one lock: a launch recorded concurrently lands either
// before or after the swap, never inside it, so it is never lost. New
// entries start at zero; entries absent from the listing are evicted.
func (s *Store) Reconcile(discovered []ports.DiscoveredApp) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fresh := make(map[string]*Entry, len(discovered))
	for _, d := range discovered {
		if d.ID == "" {
			continue
		}
		e := &Entry{ID: d.ID, Name: d.Name}
		if old, ok := s.entries[d.ID]; ok {
			e.LaunchCount = old.LaunchCount
			if old.LastLaunchedAt != nil {
				t := *old.LastLaunchedAt
				e.LastLaunchedAt = &t
			}
		}
		fresh[d.ID] = e
	}
	s.entries = fresh
	s.gen++
}

// Generation identifies the current entry set. It is bumped whenever the
// set is swapped (Load, Reconcile), never by RecordLaunch, so cached
// derivations of the set can detect that they have gone stale.
func (s *Store) Generation() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.gen
}

// All returns a copy of every entry, sorted by identifier for a stable
// iteration order. Called once per query pass by the ranking engine.
func (s *Store) All() []Entry {
	s.mu.RLock()
	out := make([]Entry, 0, len(s.entries))
	for _, e := range s.entries {
		out = append(out, *e)
	}
	s.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Get returns a copy of the entry with the given identifier.
func (s *Store) Get(id string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.entries[id]
	if !ok {
		return Entry{}, false
	}
	return *e, true
}

// Len returns the number of entries.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

// RecordLaunch atomically increments the entry's launch count and stamps
// the launch time. Returns ports.ErrNotFound (store unchanged) if the
// identifier is unknown — a stale selection racing an index refresh.
func (s *Store) RecordLaunch(id string, at time.Time) (Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return Entry{}, ports.ErrNotFound
	}
	e.LaunchCount++
	t := at
	e.LastLaunchedAt = &t
	return *e, nil
}

// Snapshot serializes current usage statistics for persistence.
// Zero-count entries are included so a round-trip reproduces the store
// exactly; the snapshot stays small (one record per installed app).
func (s *Store) Snapshot() *ports.UsageSnapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := &ports.UsageSnapshot{Stats: make(map[string]ports.UsageStat, len(s.entries))}
	for id, e := range s.entries {
		stat := ports.UsageStat{LaunchCount: e.LaunchCount}
		if e.LastLaunchedAt != nil {
			t := *e.LastLaunchedAt
			stat.LastLaunchedAt = &t
		}
		snap.Stats[id] = stat
	}
	return snap
}
