package policy

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"btlinkd/internal/logging"
)

// debounceWindow coalesces rapid successive file events so the store does not
// react to partial writes from editors or scripted updates.
const debounceWindow = time.Second

// Watcher reloads the store when the policy file changes on disk.
type Watcher struct {
	store    *Store
	logger   *slog.Logger
	debounce time.Duration
	onReload func(err error)

	mu      sync.Mutex
	running bool
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewWatcher constructs a watcher for the store's policy file. onReload, when
// non-nil, is invoked after every reload attempt with its outcome; the journal
// hook uses it to record reload and rollback events.
func NewWatcher(store *Store, logger *slog.Logger, onReload func(err error)) *Watcher {
	return &Watcher{
		store:    store,
		logger:   logging.NewComponentLogger(logger, "policy-watcher"),
		debounce: debounceWindow,
		onReload: onReload,
	}
}

// Start launches the watch loop. The watcher observes the parent directory of
// the policy file so atomic rename-replace writes are still seen.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.running {
		return errors.New("policy watcher already running")
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fs watcher: %w", err)
	}

	dir := filepath.Dir(w.store.Path())
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return fmt.Errorf("watch %s: %w", dir, err)
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.cancel = cancel
	w.done = make(chan struct{})
	w.running = true

	go w.loop(runCtx, fsw)
	return nil
}

// Stop cancels the watch loop and waits for it to exit.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	cancel := w.cancel
	done := w.done
	w.running = false
	w.cancel = nil
	w.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	<-done
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher) {
	defer close(w.done)
	defer fsw.Close()

	target := filepath.Clean(w.store.Path())

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			w.reload()

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Error("policy watch error", logging.Error(err))
		}
	}
}

func (w *Watcher) reload() {
	err := w.store.Reload()
	if err != nil {
		w.logger.Error("policy reload failed, rolled back to previous policy",
			logging.String("path", w.store.Path()),
			logging.Error(err),
		)
	} else {
		p := w.store.Get()
		w.logger.Info("policy reloaded",
			logging.String("path", w.store.Path()),
			logging.Duration("inactivity_timeout", p.IdleTimeout),
			logging.Bool("auto_connect", p.AutoConnect),
			logging.String(logging.FieldDevice, p.DeviceAddress),
		)
	}
	if w.onReload != nil {
		w.onReload(err)
	}
}
