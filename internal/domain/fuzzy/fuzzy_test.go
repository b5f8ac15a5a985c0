package fuzzy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFind_Subsequence(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		candidate string
		matched   bool
	}{
		{"exact", "firefox", "Firefox", true},
		{"prefix", "fire", "Firefox", true},
		{"scattered", "ffx", "Firefox", true},
		{"case insensitive", "FIREFOX", "firefox", true},
		{"out of order", "xf", "Firefox", false},
		{"missing rune", "fz", "Firefox", false},
		{"longer than candidate", "firefoxx", "Firefox", false},
		{"single rune", "f", "Firefox", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := Find(tt.query, tt.candidate)
			if tt.matched {
				assert.NotNil(t, m)
			} else {
				assert.Nil(t, m)
			}
		})
	}
}

func TestFind_EmptyQueryMatchesEverything(t *testing.T) {
	for _, candidate := range []string{"Firefox", "a", ""} {
		m := Find("", candidate)
		require.NotNil(t, m, "empty query must match %q", candidate)
		assert.Zero(t, m.Score, "empty query score is neutral")
		assert.Empty(t, m.Positions)
	}
}

func TestFind_Positions(t *testing.T) {
	m := Find("ffx", "Firefox")
	require.NotNil(t, m)
	assert.Equal(t, []int{0, 4, 6}, m.Positions)

	m = Find("chrome", "Google Chrome")
	require.NotNil(t, m)
	assert.Equal(t, []int{7, 8, 9, 10, 11, 12}, m.Positions)
}

func TestFind_ContiguousBeatsScattered(t *testing.T) {
	contiguous := Find("abc", "xabc")
	scattered := Find("abc", "a b c")
	require.NotNil(t, contiguous)
	require.NotNil(t, scattered)
	assert.Greater(t, contiguous.Score, scattered.Score,
		"a contiguous run outweighs scattered boundary matches")
}

func TestFind_BoundaryBeatsMidWord(t *testing.T) {
	boundary := Find("c", "ab cd")
	midWord := Find("c", "abxcd")
	require.NotNil(t, boundary)
	require.NotNil(t, midWord)
	assert.Greater(t, boundary.Score, midWord.Score)
}

func TestFind_CaseTransitionIsBoundary(t *testing.T) {
	transition := Find("s", "OpenShot")
	midWord := Find("s", "openshot")
	require.NotNil(t, transition)
	require.NotNil(t, midWord)
	assert.Greater(t, transition.Score, midWord.Score,
		"lower-to-upper transition counts as a word start")
}

func TestFind_ShorterCandidatePreferred(t *testing.T) {
	short := Find("go", "Go")
	long := Find("go", "Gopher")
	require.NotNil(t, short)
	require.NotNil(t, long)
	assert.Greater(t, short.Score, long.Score)
}

func TestFind_EarlierStartPreferred(t *testing.T) {
	early := Find("go", "xgox")
	late := Find("go", "xxgo")
	require.NotNil(t, early)
	require.NotNil(t, late)
	assert.Greater(t, early.Score, late.Score)
}

// Prefix matches at a word boundary dominate interior scatter.
func TestFind_ChrScenario(t *testing.T) {
	chromium := Find("chr", "Chromium")
	chrome := Find("chr", "Google Chrome")
	charades := Find("chr", "Charades")

	require.NotNil(t, chromium)
	require.NotNil(t, chrome)
	require.NotNil(t, charades)

	assert.Greater(t, chromium.Score, charades.Score)
	assert.Greater(t, chrome.Score, charades.Score)
	// Both fully contiguous at a boundary; the shorter name wins.
	assert.Greater(t, chromium.Score, chrome.Score)
}

func TestFind_Unicode(t *testing.T) {
	m := Find("amt", "Améthyste")
	require.NotNil(t, m)
	assert.Equal(t, []int{0, 1, 3}, m.Positions, "positions are rune indices, not byte offsets")
}

func TestFind_Pure(t *testing.T) {
	a := Find("fire", "Firefox")
	b := Find("fire", "Firefox")
	require.NotNil(t, a)
	assert.Equal(t, a, b, "same inputs, same result")
}
