// Package discovery enumerates installed applications by scanning the
// configured application directories. Linux looks for .desktop entries,
// macOS for .app bundles; explicitly configured application paths are
// always included. The scanner is re-invocable: the store reconciles each
// fresh listing against its current entries.
package discovery

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/corey/lumen/internal/ports"
)

// Scanner implements ports.Discovery over the local filesystem.
type Scanner struct {
	dirs   []string
	extras []string // explicit application paths from config
}

// NewScanner creates a scanner over the given application directories and
// explicit application paths.
func NewScanner(dirs, extras []string) *Scanner {
	return &Scanner{dirs: dirs, extras: extras}
}

// Discover returns every launchable application found in the configured
// directories. Missing directories are skipped silently (not every machine
// has ~/Applications). Returns ports.ErrDiscoveryEmpty when nothing was
// found anywhere — an empty-state condition, not a halt.
func (s *Scanner) Discover() ([]ports.DiscoveredApp, error) {
	seen := make(map[string]bool)
	var apps []ports.DiscoveredApp

	add := func(app ports.DiscoveredApp, ok bool) {
		if ok && !seen[app.ID] {
			seen[app.ID] = true
			apps = append(apps, app)
		}
	}

	for _, dir := range s.dirs {
		entries, err := os.ReadDir(dir)
		if err != nil {
			continue
		}
		for _, ent := range entries {
			path := filepath.Join(dir, ent.Name())
			app, ok := s.readApp(path, ent.IsDir())
			add(app, ok)
		}
	}

	for _, path := range s.extras {
		info, err := os.Stat(path)
		if err != nil {
			continue
		}
		app, ok := s.readApp(path, info.IsDir())
		add(app, ok)
	}

	if len(apps) == 0 {
		return nil, ports.ErrDiscoveryEmpty
	}
	return apps, nil
}

// readApp interprets one directory entry as a launchable application.
func (s *Scanner) readApp(path string, isDir bool) (ports.DiscoveredApp, bool) {
	name := filepath.Base(path)
	switch {
	case strings.HasSuffix(name, ".app") && isDir:
		// macOS bundles are directories; the stem is the display name.
		return ports.DiscoveredApp{ID: path, Name: strings.TrimSuffix(name, ".app")}, true

	case strings.HasSuffix(name, ".desktop") && !isDir:
		display := desktopName(path)
		if display == "" {
			display = strings.TrimSuffix(name, ".desktop")
		}
		return ports.DiscoveredApp{ID: path, Name: display}, true
	}
	return ports.DiscoveredApp{}, false
}

// desktopName extracts the Name= value from a freedesktop .desktop file.
// Returns "" if the file is unreadable or has no Name key; the caller
// falls back to the filename stem.
func desktopName(path string) string {
	f, err := os.Open(path)
	if err != nil {
		return ""
	}
	defer f.Close()

	inDesktopEntry := false
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "[") {
			inDesktopEntry = line == "[Desktop Entry]"
			continue
		}
		if inDesktopEntry && strings.HasPrefix(line, "Name=") {
			return strings.TrimPrefix(line, "Name=")
		}
	}
	return ""
}
