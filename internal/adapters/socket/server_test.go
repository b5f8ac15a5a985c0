package socket

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/lumen/internal/domain/learner"
	"github.com/corey/lumen/internal/domain/rank"
	"github.com/corey/lumen/internal/domain/session"
	"github.com/corey/lumen/internal/domain/store"
	"github.com/corey/lumen/internal/ports"
)

type fakeLauncher struct {
	launched []string
}

func (f *fakeLauncher) Launch(id string) error {
	f.launched = append(f.launched, id)
	return nil
}

type fakeQueries struct {
	refreshed int
}

func (f *fakeQueries) StatsSnapshot() StatsResult {
	return StatsResult{Entries: 3, Launches: 7}
}

func (f *fakeQueries) Refresh() (RefreshResult, error) {
	f.refreshed++
	return RefreshResult{Entries: 4}, nil
}

func startServer(t *testing.T) (*Client, *Server, *fakeLauncher, *fakeQueries) {
	t.Helper()

	st := store.New()
	st.Load([]ports.DiscoveredApp{
		{ID: "/apps/chromium", Name: "Chromium"},
		{ID: "/apps/slack", Name: "Slack"},
		{ID: "/apps/firefox", Name: "Firefox"},
	}, nil)

	cfg := ports.DefaultConfig()
	launcher := &fakeLauncher{}
	sess := session.New(st, rank.New(cfg), learner.New(st, nil, launcher), cfg)

	queries := &fakeQueries{}
	sockPath := filepath.Join(t.TempDir(), "lumen.sock")
	srv := NewServer(sess, sockPath, queries)
	require.NoError(t, srv.Start())
	t.Cleanup(func() { srv.Stop() })

	return NewClient(sockPath), srv, launcher, queries
}

func TestServer_ActivateQuerySelect(t *testing.T) {
	client, _, launcher, _ := startServer(t)

	act, err := client.Activate()
	require.NoError(t, err)
	assert.NotEmpty(t, act.SessionID)
	assert.Len(t, act.Results, 3, "activation shows the default list")

	res, err := client.Query(act.SessionID, "chr")
	require.NoError(t, err)
	require.Len(t, res.Results, 1)
	assert.Equal(t, "/apps/chromium", res.Results[0].ID)
	assert.Equal(t, []int{0, 1, 2}, res.Results[0].Positions)

	require.NoError(t, client.Select(act.SessionID, "/apps/chromium"))
	assert.Equal(t, []string{"/apps/chromium"}, launcher.launched)
}

func TestServer_CancelDoesNotLaunch(t *testing.T) {
	client, _, launcher, _ := startServer(t)

	act, err := client.Activate()
	require.NoError(t, err)
	require.NoError(t, client.Cancel(act.SessionID))
	assert.Empty(t, launcher.launched)
}

func TestServer_StaleSessionRejected(t *testing.T) {
	client, _, _, _ := startServer(t)

	_, err := client.Activate()
	require.NoError(t, err)

	_, err = client.Query("bogus-session", "x")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stale session")
}

func TestServer_ActivateSupersedesPriorSession(t *testing.T) {
	client, _, _, _ := startServer(t)

	first, err := client.Activate()
	require.NoError(t, err)
	second, err := client.Activate()
	require.NoError(t, err)
	require.NotEqual(t, first.SessionID, second.SessionID)

	_, err = client.Query(first.SessionID, "x")
	assert.Error(t, err, "re-invocation invalidates the old session id")
}

func TestServer_StatsAndRefresh(t *testing.T) {
	client, _, _, queries := startServer(t)

	stats, err := client.Stats()
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Entries)
	assert.Equal(t, uint64(7), stats.Launches)
	assert.NotEmpty(t, stats.Uptime)

	res, err := client.Refresh()
	require.NoError(t, err)
	assert.Equal(t, 4, res.Entries)
	assert.Equal(t, 1, queries.refreshed)
}

func TestServer_ShutdownClosesChannel(t *testing.T) {
	client, srv, _, _ := startServer(t)

	require.NoError(t, client.Shutdown())
	select {
	case <-srv.ShutdownCh():
	case <-time.After(2 * time.Second):
		t.Fatal("shutdown channel never closed")
	}
}

func TestServer_SecondBindFails(t *testing.T) {
	_, srv, _, _ := startServer(t)

	dup := NewServer(nil, srv.Addr(), nil)
	err := dup.Start()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already running")
}

func TestServer_PingAndStop(t *testing.T) {
	client, srv, _, _ := startServer(t)

	assert.True(t, client.Ping())
	require.NoError(t, srv.Stop())
	assert.False(t, client.Ping())
}
