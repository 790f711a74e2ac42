package editor

import (
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher reports external modifications to the session's backing file.
// Events are debounced and delivered on the channel returned by Start; the
// frontend decides whether to reload (clean buffer) or warn (dirty buffer).
type Watcher struct {
	watcher *fsnotify.Watcher
	path    string
	done    chan struct{}
}

// WatchEvent is one debounced external change to the watched file.
type WatchEvent struct {
	Path    string
	Removed bool
}

// NewWatcher watches the directory containing path, since editors that save
// via rename replace the file node itself.
func NewWatcher(path string) (*Watcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		w.Close()
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		w.Close()
		return nil, err
	}
	return &Watcher{watcher: w, path: abs, done: make(chan struct{})}, nil
}

// Start begins delivering events. The channel is closed when the watcher is
// closed.
func (w *Watcher) Start() <-chan WatchEvent {
	out := make(chan WatchEvent, 1)

	go func() {
		defer close(out)

		// Debounce: collect events and emit after a quiet period.
		debounce := time.NewTimer(100 * time.Millisecond)
		debounce.Stop()
		var pending *WatchEvent

		for {
			select {
			case event, ok := <-w.watcher.Events:
				if !ok {
					return
				}
				if event.Name != w.path {
					continue
				}
				ev := WatchEvent{Path: w.path}
				if event.Op&(fsnotify.Remove|fsnotify.Rename) != 0 {
					if _, err := os.Stat(w.path); err != nil {
						ev.Removed = true
					}
				} else if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
					continue
				}
				pending = &ev
				debounce.Reset(100 * time.Millisecond)

			case <-debounce.C:
				if pending != nil {
					select {
					case out <- *pending:
					default:
					}
					pending = nil
				}

			case _, ok := <-w.watcher.Errors:
				if !ok {
					return
				}

			case <-w.done:
				return
			}
		}
	}()

	return out
}

func (w *Watcher) Close() {
	close(w.done)
	w.watcher.Close()
}
