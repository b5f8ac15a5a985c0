// Package rank blends fuzzy match scores with learned usage statistics
// into a total order over entries. One pass per entry, no sub-scans, so a
// full rank runs comfortably inside a frame on every keystroke.
package rank

import (
	"math"
	"sort"
	"time"

	"github.com/corey/lumen/internal/domain/fuzzy"
	"github.com/corey/lumen/internal/domain/store"
	"github.com/corey/lumen/internal/ports"
)

// Ranked is one entry in a ranked list, best first. Ephemeral: regenerated
// from scratch on every query mutation.
type Ranked struct {
	ID    string
	Name  string
	Score float64

	// Positions are the matched rune indices in Name, for UI highlighting.
	// Empty for an empty query.
	Positions []int
}

// Engine scores and orders entries for a query. Stateless apart from the
// injected configuration; safe to share across sessions.
type Engine struct {
	cfg ports.Config
}

// New creates an engine with the given configuration (normalized).
func New(cfg ports.Config) *Engine {
	return &Engine{cfg: cfg.Normalize()}
}

// Config returns the engine's effective configuration.
func (e *Engine) Config() ports.Config {
	return e.cfg
}

// Rank produces the full ordering of entries matching query, best first.
// Non-matching entries are excluded, never merely scored low. The order is
// fully deterministic: blended score descending, then display name, then
// identifier. Truncation to top-K is the caller's concern.
func (e *Engine) Rank(query string, entries []store.Entry, now time.Time) []Ranked {
	out := make([]Ranked, 0, len(entries))
	for _, ent := range entries {
		m := fuzzy.Find(query, ent.Name)
		if m == nil {
			continue
		}
		score := e.cfg.WFuzzy*m.Score + e.cfg.WUsage*e.UsageScore(ent.LaunchCount, ent.LastLaunchedAt, now)
		out = append(out, Ranked{ID: ent.ID, Name: ent.Name, Score: score, Positions: m.Positions})
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// UsageScore derives the learned ranking contribution from launch
// frequency and recency:
//
//	log2(1+count) + 2^(-elapsed/halfLife)
//
// Log frequency gives diminishing returns; the exponential recency boost
// decays with a configurable half-life. The form is additive so an entry
// that is both more frequent and at least as recent strictly outranks the
// other, all else equal. Never-launched entries score zero.
func (e *Engine) UsageScore(count uint32, last *time.Time, now time.Time) float64 {
	if count == 0 {
		return 0
	}
	score := math.Log2(1 + float64(count))
	if last != nil {
		elapsed := now.Sub(*last)
		if elapsed < 0 {
			elapsed = 0 // clock skew; treat as just launched
		}
		score += math.Exp2(-float64(elapsed) / float64(e.cfg.RecencyHalfLife))
	}
	return score
}

// Truncate returns at most k elements of list. k <= 0 means no limit.
func Truncate(list []Ranked, k int) []Ranked {
	if k <= 0 || len(list) <= k {
		return list
	}
	return list[:k]
}
