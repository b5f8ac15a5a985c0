package discovery

import (
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWatcher_OneRefreshPerBurst(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher()
	require.NoError(t, err)
	t.Cleanup(func() { w.Stop() })
	w.debounce = 100 * time.Millisecond

	var mu sync.Mutex
	calls := 0
	require.NoError(t, w.Watch([]string{dir}, func() {
		mu.Lock()
		calls++
		mu.Unlock()
	}))

	// An installer touching many files in quick succession.
	for i := 0; i < 5; i++ {
		name := filepath.Join(dir, "part"+strconv.Itoa(i)+".desktop")
		require.NoError(t, os.WriteFile(name, nil, 0644))
	}

	assert.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return calls >= 1
	}, 2*time.Second, 10*time.Millisecond)

	// Wait well past the window: the burst must coalesce into exactly
	// one callback, with no trailing tick from a reset timer.
	time.Sleep(300 * time.Millisecond)
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 1, calls, "one refresh per debounced burst")
}

func TestWatcher_StopIsIdempotent(t *testing.T) {
	w, err := NewWatcher()
	require.NoError(t, err)
	require.NoError(t, w.Watch([]string{t.TempDir()}, func() {}))
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
}
