// Package session owns the per-keystroke orchestration surface exposed to
// UI frontends. It is an explicit state machine:
//
//	Idle → Activate → Active → (Select | Cancel) → Idle
//
// Every query mutation in Active runs a fresh synchronous rank; each
// mutation supersedes any previous result wholesale (discarded, never
// merged). Calls are synchronous and sequential by construction, so the
// engine is never invoked concurrently with itself.
package session

import (
	"time"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/corey/lumen/internal/domain/learner"
	"github.com/corey/lumen/internal/domain/rank"
	"github.com/corey/lumen/internal/domain/store"
	"github.com/corey/lumen/internal/ports"
)

// State is the session lifecycle state.
type State int

const (
	// Idle: no query buffer exists. Entered on dismissal or before first
	// activation.
	Idle State = iota

	// Active: a query buffer exists and every mutation re-ranks.
	Active
)

// String returns the state name.
func (s State) String() string {
	if s == Active {
		return "active"
	}
	return "idle"
}

// matchCacheSize bounds the per-session memo of query → matched ids.
// A launcher query rarely exceeds a couple dozen keystrokes per session.
const matchCacheSize = 64

// Session drives ranking for one launcher invocation. Not safe for
// concurrent use: the UI boundary serializes events into it, matching the
// one-keyboard interaction model.
type Session struct {
	store   *store.Store
	engine  *rank.Engine
	learner *learner.Learner

	topK int
	now  func() time.Time

	state   State
	query   string
	gen     uint64 // bumped per mutation; stamps the current results
	results []rank.Ranked

	// matches memoizes the full (untruncated) matched id set per query
	// string. When a new query extends the old one by typing, the old
	// match set bounds the scan: a candidate matching "chro" necessarily
	// matched "chr". Cleared on Activate, and invalidated whenever the
	// store's entry set moves underneath — a memo taken before a refresh
	// has never seen the newly installed entries.
	matches  *lru.Cache[string, []string]
	indexGen uint64 // store generation the memo was built against
}

// Option configures a Session.
type Option func(*Session)

// WithClock overrides the time source used for recency scoring.
func WithClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New creates an idle session. cfg supplies the top-K truncation limit.
func New(st *store.Store, engine *rank.Engine, lrn *learner.Learner, cfg ports.Config, opts ...Option) *Session {
	cfg = cfg.Normalize()
	cache, _ := lru.New[string, []string](matchCacheSize) // only errors on size <= 0
	s := &Session{
		store:   st,
		engine:  engine,
		learner: lrn,
		topK:    cfg.TopK,
		now:     time.Now,
		matches: cache,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns the current lifecycle state.
func (s *Session) State() State { return s.state }

// Query returns the live query string ("" when idle).
func (s *Session) Query() string { return s.query }

// Generation returns the mutation counter. A result set stamped with an
// older generation has been superseded and must be discarded by the UI.
func (s *Session) Generation() uint64 { return s.gen }

// Results returns the current top-K ranked list ("most likely next
// launch" default list right after activation).
func (s *Session) Results() []rank.Ranked { return s.results }

// Activate transitions Idle → Active with an empty query buffer and
// returns the usage-ordered default list. Re-activating an active session
// resets the buffer (launcher re-invoked).
func (s *Session) Activate() []rank.Ranked {
	s.state = Active
	s.query = ""
	s.matches.Purge()
	s.indexGen = s.store.Generation()
	return s.rerank()
}

// SetQuery replaces the query buffer (one keystroke's insertion or
// deletion lands here) and re-ranks synchronously. Returns
// ports.ErrSessionIdle when no session is active.
func (s *Session) SetQuery(q string) ([]rank.Ranked, error) {
	if s.state != Active {
		return nil, ports.ErrSessionIdle
	}
	s.query = q
	return s.rerankSeeded(), nil
}

// Select confirms the highlighted entry: the learner records and launches
// it, then the session dismisses to Idle. The stale-selection NotFound
// error is returned for the UI to surface (typically by triggering a
// refresh); the session still dismisses.
func (s *Session) Select(id string) error {
	if s.state != Active {
		return ports.ErrSessionIdle
	}
	err := s.learner.OnLaunch(id)
	s.dismiss()
	return err
}

// Cancel dismisses to Idle without involving the learner (escape key).
func (s *Session) Cancel() {
	s.dismiss()
}

func (s *Session) dismiss() {
	s.state = Idle
	s.query = ""
	s.results = nil
	s.gen++
}

// rerank runs a full rank over the whole store.
func (s *Session) rerank() []rank.Ranked {
	return s.finish(s.engine.Rank(s.query, s.store.All(), s.now()))
}

// rerankSeeded narrows the candidate set when the new query extends a
// memoized one, then ranks. Falls back to a full pass otherwise, or when
// the store's entry set changed since the memo was taken — entries added
// by a mid-session refresh were never matched against the old queries.
func (s *Session) rerankSeeded() []rank.Ranked {
	if g := s.store.Generation(); g != s.indexGen {
		s.matches.Purge()
		s.indexGen = g
		return s.rerank()
	}

	seed := s.seedFor()
	if seed == nil {
		return s.rerank()
	}

	candidates := make([]store.Entry, 0, len(seed))
	for _, id := range seed {
		if e, ok := s.store.Get(id); ok {
			candidates = append(candidates, e)
		}
	}
	return s.finish(s.engine.Rank(s.query, candidates, s.now()))
}

// seedFor returns a memoized match set that provably contains every match
// of the current query, or nil. The longest memoized strict prefix wins;
// a memo key that is a prefix of the query matches a superset of it
// (subsequence matching is monotone in the query).
func (s *Session) seedFor() []string {
	if s.query == "" {
		return nil
	}
	for p := s.query[:len(s.query)-1]; ; p = p[:len(p)-1] {
		if p == "" {
			return nil
		}
		if ids, ok := s.matches.Get(p); ok {
			return ids
		}
	}
}

func (s *Session) finish(full []rank.Ranked) []rank.Ranked {
	ids := make([]string, len(full))
	for i, r := range full {
		ids[i] = r.ID
	}
	s.matches.Add(s.query, ids)

	s.gen++
	s.results = rank.Truncate(full, s.topK)
	return s.results
}
