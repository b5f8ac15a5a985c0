// Package fuzzy implements case-insensitive subsequence matching with
// positional scoring. Match is a pure function: no state, no allocation
// beyond the result, one pass over the candidate.
//
// Scoring weight order, strongest first:
//  1. contiguous runs of matched characters
//  2. matches starting at a word boundary
//  3. shorter candidate overall (prefer more specific names)
//  4. earlier match start within the candidate
//
// The tiers are spaced so a lower tier can never overturn a higher one for
// realistic name lengths (< ~80 runes).
package fuzzy

import "unicode"

// Bonus and penalty constants. RunBonus applies per matched rune that
// immediately follows the previous matched rune; BoundaryBonus per matched
// rune sitting at a word boundary. LengthPenalty and StartPenalty are the
// tie-breakers — kept below a single BoundaryBonus for candidates up to
// 80 runes.
const (
	CharBase      = 10.0
	RunBonus      = 16.0
	BoundaryBonus = 8.0
	LengthPenalty = 0.1
	StartPenalty  = 0.01
)

// Match is the result of matching a query against one candidate.
// Ephemeral: produced per (query, entry) pair, never persisted.
type Match struct {
	// Score is the intrinsic fuzzy score, higher is better.
	Score float64

	// Positions are the matched rune indices in the candidate,
	// strictly increasing. For UI highlighting only.
	Positions []int
}

// Find matches query against candidate as a case-insensitive subsequence:
// every query rune must appear in the candidate in order, not necessarily
// contiguous. Returns nil if the query is not a subsequence — such
// candidates are excluded from ranking entirely, not scored low.
//
// The empty query matches every candidate with a neutral zero score, so an
// empty search box degrades to a usage-ordered default list.
func Find(query, candidate string) *Match {
	if query == "" {
		return &Match{}
	}

	q := []rune(query)
	c := []rune(candidate)
	if len(q) > len(c) {
		return nil
	}

	positions := make([]int, 0, len(q))
	score := CharBase * float64(len(q))
	qi := 0
	prevMatched := -2 // sentinel: never adjacent to index 0

	for ci, r := range c {
		if qi >= len(q) {
			break
		}
		if !runesEqualFold(q[qi], r) {
			continue
		}
		if ci == prevMatched+1 {
			score += RunBonus
		}
		if isBoundary(c, ci) {
			score += BoundaryBonus
		}
		positions = append(positions, ci)
		prevMatched = ci
		qi++
	}

	if qi != len(q) {
		return nil
	}

	score -= LengthPenalty * float64(len(c))
	score -= StartPenalty * float64(positions[0])

	return &Match{Score: score, Positions: positions}
}

// isBoundary reports whether index i starts a word: start of string,
// preceded by a separator, or a lower-to-upper case transition.
func isBoundary(c []rune, i int) bool {
	if i == 0 {
		return true
	}
	prev := c[i-1]
	if isSeparator(prev) {
		return true
	}
	return unicode.IsLower(prev) && unicode.IsUpper(c[i])
}

func isSeparator(r rune) bool {
	switch r {
	case ' ', '-', '_', '.', '/', '(':
		return true
	}
	return false
}

// runesEqualFold compares two runes case-insensitively.
func runesEqualFold(a, b rune) bool {
	if a == b {
		return true
	}
	return unicode.ToLower(a) == unicode.ToLower(b)
}
