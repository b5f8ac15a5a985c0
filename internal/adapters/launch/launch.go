// Package launch starts applications via the platform opener. The core
// only records that a launch was requested; the child process is detached
// and never waited on.
package launch

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Opener implements ports.Launcher with the OS open command.
type Opener struct {
	goos string
}

// NewOpener creates a launcher for the current platform.
func NewOpener() *Opener {
	return &Opener{goos: runtime.GOOS}
}

// Launch starts the application identified by id (a filesystem path).
// Start, not Run: the launcher must stay responsive while the app boots.
func (o *Opener) Launch(id string) error {
	var cmd *exec.Cmd
	switch o.goos {
	case "darwin":
		cmd = exec.Command("open", id)
	case "linux":
		if strings.HasSuffix(id, ".desktop") {
			// gio launch honors the desktop entry's Exec/Terminal keys;
			// xdg-open on a .desktop path would open it as a document.
			cmd = exec.Command("gio", "launch", id)
		} else {
			cmd = exec.Command("xdg-open", id)
		}
	default:
		return fmt.Errorf("unsupported platform %s", o.goos)
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start %q: %w", id, err)
	}
	// Reap the child in the background to avoid zombies.
	go func() { _ = cmd.Wait() }()
	return nil
}
