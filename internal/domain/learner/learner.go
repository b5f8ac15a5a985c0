// Package learner is the single mutation entry point for usage statistics.
// Every user-confirmed launch flows through OnLaunch: record in the store,
// persist write-through, then hand the identifier to the launch adapter.
//
// Persistence is write-through on every launch so at most one in-flight
// launch's statistics can ever be lost on process termination. A failed
// write is a warning, never a block: in-memory state stays authoritative
// until the next successful flush.
package learner

import (
	"fmt"
	"time"

	"github.com/corey/lumen/internal/domain/store"
	"github.com/corey/lumen/internal/ports"
)

// Learner applies launch events to the entry store and persists them.
// Thread safety: OnLaunch calls are serialized by construction (one launch
// confirmation at a time); the learner adds no locking of its own.
type Learner struct {
	store    *store.Store
	storage  ports.UsageStorage // nil disables persistence
	launcher ports.Launcher     // nil disables process spawning (tests)

	now   func() time.Time
	warnf func(format string, args ...any)
}

// Option configures a Learner.
type Option func(*Learner)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(l *Learner) { l.now = now }
}

// WithWarnf overrides where persistence warnings go.
func WithWarnf(warnf func(format string, args ...any)) Option {
	return func(l *Learner) { l.warnf = warnf }
}

// New creates a learner. storage and launcher may be nil.
func New(st *store.Store, storage ports.UsageStorage, launcher ports.Launcher, opts ...Option) *Learner {
	l := &Learner{
		store:    st,
		storage:  storage,
		launcher: launcher,
		now:      time.Now,
		warnf:    func(string, ...any) {},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// OnLaunch records one user-confirmed launch. Invoked exactly once per
// Enter/click selection, never on mere highlight. Launching the same entry
// twice in separate events increments the count twice; rapid repeats are
// not deduplicated.
//
// Returns ports.ErrNotFound (wrapped, store unchanged) for an unknown
// identifier — the stale-selection race after an index refresh.
func (l *Learner) OnLaunch(id string) error {
	if _, err := l.store.RecordLaunch(id, l.now()); err != nil {
		return fmt.Errorf("record launch %q: %w", id, err)
	}

	if l.storage != nil {
		if err := l.storage.SaveSnapshot(l.store.Snapshot()); err != nil {
			l.warnf("usage snapshot not persisted: %v", err)
		}
	}

	if l.launcher != nil {
		if err := l.launcher.Launch(id); err != nil {
			return fmt.Errorf("launch %q: %w", id, err)
		}
	}
	return nil
}
