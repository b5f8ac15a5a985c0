package discovery

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corey/lumen/internal/ports"
)

func TestDiscover_DesktopEntries(t *testing.T) {
	dir := t.TempDir()
	writeDesktop(t, dir, "firefox.desktop", "Firefox Web Browser")
	writeDesktop(t, dir, "code.desktop", "Visual Studio Code")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "README.txt"), []byte("not an app"), 0644))

	apps, err := NewScanner([]string{dir}, nil).Discover()
	require.NoError(t, err)
	require.Len(t, apps, 2)

	byID := indexByID(apps)
	assert.Equal(t, "Firefox Web Browser", byID[filepath.Join(dir, "firefox.desktop")].Name)
	assert.Equal(t, "Visual Studio Code", byID[filepath.Join(dir, "code.desktop")].Name)
}

func TestDiscover_DesktopNameFallsBackToStem(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mystery.desktop")
	require.NoError(t, os.WriteFile(path, []byte("[Desktop Entry]\nExec=/bin/mystery\n"), 0644))

	apps, err := NewScanner([]string{dir}, nil).Discover()
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "mystery", apps[0].Name)
}

func TestDiscover_AppBundles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Safari.app", "Contents"), 0755))
	// A stray .app *file* is not a bundle.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Fake.app"), nil, 0644))

	apps, err := NewScanner([]string{dir}, nil).Discover()
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "Safari", apps[0].Name)
	assert.Equal(t, filepath.Join(dir, "Safari.app"), apps[0].ID)
}

func TestDiscover_ExplicitApplications(t *testing.T) {
	dir := t.TempDir()
	extra := filepath.Join(dir, "special.desktop")
	require.NoError(t, os.WriteFile(extra, []byte("[Desktop Entry]\nName=Special\n"), 0644))

	apps, err := NewScanner(nil, []string{extra}).Discover()
	require.NoError(t, err)
	require.Len(t, apps, 1)
	assert.Equal(t, "Special", apps[0].Name)
}

func TestDiscover_DeduplicatesAcrossSources(t *testing.T) {
	dir := t.TempDir()
	writeDesktop(t, dir, "firefox.desktop", "Firefox")

	scanner := NewScanner([]string{dir, dir}, []string{filepath.Join(dir, "firefox.desktop")})
	apps, err := scanner.Discover()
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}

func TestDiscover_MissingDirsSkipped(t *testing.T) {
	dir := t.TempDir()
	writeDesktop(t, dir, "app.desktop", "App")

	apps, err := NewScanner([]string{"/nonexistent/apps", dir}, nil).Discover()
	require.NoError(t, err)
	assert.Len(t, apps, 1)
}

func TestDiscover_Empty(t *testing.T) {
	_, err := NewScanner([]string{t.TempDir()}, nil).Discover()
	assert.ErrorIs(t, err, ports.ErrDiscoveryEmpty)
}

func TestDesktopName_OnlyDesktopEntrySection(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "app.desktop")
	content := "[Desktop Action new-window]\nName=New Window\n[Desktop Entry]\nName=Real Name\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	assert.Equal(t, "Real Name", desktopName(path),
		"Name= keys in action sections are ignored")
}

func writeDesktop(t *testing.T, dir, file, name string) {
	t.Helper()
	content := "[Desktop Entry]\nName=" + name + "\nExec=/bin/true\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, file), []byte(content), 0644))
}

func indexByID(apps []ports.DiscoveredApp) map[string]ports.DiscoveredApp {
	m := make(map[string]ports.DiscoveredApp, len(apps))
	for _, a := range apps {
		m[a.ID] = a
	}
	return m
}
