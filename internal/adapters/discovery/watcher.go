package discovery

import (
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// debounceWindow coalesces event bursts: installers and updaters touch
// many files per application in quick succession.
const debounceWindow = 2 * time.Second

// Watcher implements ports.Watcher using fsnotify. It watches the
// application directories (non-recursive — launchable entries live at the
// top level) and fires one onChange per debounced burst.
type Watcher struct {
	fw       *fsnotify.Watcher
	done     chan struct{}
	debounce time.Duration

	mu      sync.Mutex
	stopped bool
}

// NewWatcher creates a new application-directory watcher.
func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{fw: fw, done: make(chan struct{}), debounce: debounceWindow}, nil
}

// Watch starts monitoring the given directories. Directories that don't
// exist are skipped. onChange may be invoked from any goroutine.
func (w *Watcher) Watch(dirs []string, onChange func()) error {
	added := 0
	for _, dir := range dirs {
		if err := w.fw.Add(dir); err == nil {
			added++
		}
	}
	if added == 0 {
		// Nothing watchable; behave as a no-op watcher.
		return nil
	}

	go w.loop(onChange)
	return nil
}

func (w *Watcher) loop(onChange func()) {
	var timer *time.Timer
	var timerC <-chan time.Time

	for {
		select {
		case <-w.done:
			if timer != nil {
				timer.Stop()
			}
			return
		case _, ok := <-w.fw.Events:
			if !ok {
				return
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
				timerC = timer.C
			} else {
				if !timer.Stop() {
					// Drain a tick that fired while this event was in
					// flight, or Reset would deliver a second onChange.
					select {
					case <-timerC:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
		case _, ok := <-w.fw.Errors:
			if !ok {
				return
			}
			// Watch errors are transient (unmounts, permission flaps);
			// the next successful event still triggers a refresh.
		case <-timerC:
			timer = nil
			timerC = nil
			onChange()
		}
	}
}

// Stop ends monitoring and releases resources. Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.stopped {
		return nil
	}
	w.stopped = true
	close(w.done)
	return w.fw.Close()
}
