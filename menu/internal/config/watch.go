package config

import (
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the Watcher waits after a change event before
// it schedules a reload, so the editor has time to finish writing the file.
const DefaultDebounce = 500 * time.Millisecond

// Dispatcher runs callbacks on the apply thread. Post must not run fn on the
// calling goroutine; it reports false if fn will never run.
type Dispatcher interface {
	Post(fn func()) bool
}

// Watcher reloads the config file when it changes on disk. Reloads are posted
// to a Dispatcher and never run on the watcher's own goroutine.
type Watcher struct {
	manager  *Manager
	apply    Dispatcher
	debounce time.Duration

	mu   sync.Mutex
	path string
	fsw  *fsnotify.Watcher
	stop chan struct{}
	done chan struct{}
}

// WatchOption configures a Watcher.
type WatchOption func(*Watcher)

// WithDebounce sets the delay between a change event and the reload it
// schedules (default DefaultDebounce).
func WithDebounce(d time.Duration) WatchOption {
	return func(w *Watcher) { w.debounce = d }
}

// NewWatcher returns an unarmed Watcher. Call EnableAutoReloading to start it
// and Close to release it.
func NewWatcher(m *Manager, d Dispatcher, opts ...WatchOption) *Watcher {
	w := &Watcher{
		manager:  m,
		apply:    d,
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// EnableAutoReloading watches the directory containing path (not recursively)
// and reloads path each time it is written or re-created. Calling it again
// releases the previous registration before the new one is installed.
//
// The directory is watched rather than the file so that editors which save by
// writing a new file and renaming it over the old one keep being noticed.
// Only Write and Create events naming the config file itself schedule a
// reload. Other entries in the directory, including the backups Manager.Backup
// writes next to it, and Remove, Rename or Chmod events are ignored.
func (w *Watcher) EnableAutoReloading(path string) error {
	abs, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("config: resolve %q: %w", path, err)
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	w.release()

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config: create file watcher: %w", err)
	}
	dir := filepath.Dir(abs)
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("config: watch %q: %w", dir, err)
	}

	w.path = abs
	w.fsw = fsw
	w.stop = make(chan struct{})
	w.done = make(chan struct{})
	go w.run(fsw, abs, w.stop, w.done)

	slog.Info("config: watching for changes", "path", abs)
	return nil
}

// Path returns the file being watched, or "" when the Watcher is not armed.
func (w *Watcher) Path() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.path
}

// Close releases the watch registration. Reloads that were already posted to
// the Dispatcher still run. Close is idempotent.
//
// Close waits for the event goroutine, which may itself be waiting for room
// in the Dispatcher's queue. Do not call Close, or EnableAutoReloading on an
// armed Watcher, from a callback running on the Dispatcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.release()
}

// release tears down the current registration and waits for its event loop
// to exit. Callers must hold w.mu.
func (w *Watcher) release() error {
	if w.fsw == nil {
		return nil
	}
	close(w.stop)
	err := w.fsw.Close()
	<-w.done

	slog.Debug("config: stopped watching", "path", w.path)
	w.fsw, w.stop, w.done, w.path = nil, nil, nil, ""
	if err != nil {
		return fmt.Errorf("config: close file watcher: %w", err)
	}
	return nil
}

// run is the event loop for one registration. Each relevant event waits out
// the debounce window here and then posts its own reload; events are not
// coalesced.
func (w *Watcher) run(fsw *fsnotify.Watcher, path string, stop, done chan struct{}) {
	defer close(done)

	for {
		select {
		case <-stop:
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != path {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.manager.stats.Inc(MetricChangeEvents, "Config file change events seen by the watcher.")

			select {
			case <-time.After(w.debounce):
			case <-stop:
				return
			}

			slog.Info("config: config file changed, attempting reload", "path", path, "op", event.Op.String())
			if !w.apply.Post(func() { w.manager.Reload(path) }) {
				slog.Warn("config: apply thread has stopped, reload dropped", "path", path)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			slog.Error("config: watcher error", "err", err)
		}
	}
}
