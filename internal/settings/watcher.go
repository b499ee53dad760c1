// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package settings

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// =============================================================================
// SETTINGS WATCHER
// =============================================================================

// Watcher reloads the store when the settings file changes on disk and
// notifies a callback with the new settings. Editors typically write through
// a temp file and rename, so both Write and Create count as changes and
// events are debounced before reloading.
type Watcher struct {
	store    *Store
	onChange func(Settings)
	logger   *zap.Logger
	debounce time.Duration

	watcher *fsnotify.Watcher
	mu      sync.Mutex
	pending time.Time
	ctx     context.Context
	cancel  context.CancelFunc
}

// NewWatcher creates a watcher for the store's file. onChange may be nil.
func NewWatcher(store *Store, onChange func(Settings), logger *zap.Logger) (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Watcher{
		store:    store,
		onChange: onChange,
		logger:   logger,
		debounce: 250 * time.Millisecond,
		watcher:  fw,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Watch starts watching. The parent directory is watched rather than the
// file itself so rename-based saves keep being observed.
func (w *Watcher) Watch() error {
	if err := w.watcher.Add(filepath.Dir(w.store.Path())); err != nil {
		return err
	}

	go w.processEvents()
	go w.processPending()

	return nil
}

// processEvents marks the file pending on relevant events
func (w *Watcher) processEvents() {
	name := filepath.Base(w.store.Path())

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != name {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				w.mu.Lock()
				w.pending = time.Now()
				w.mu.Unlock()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("settings watcher error", zap.Error(err))
		}
	}
}

// processPending reloads once the debounce window has passed
func (w *Watcher) processPending() {
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for {
		select {
		case <-w.ctx.Done():
			return

		case <-ticker.C:
			w.mu.Lock()
			due := !w.pending.IsZero() && time.Since(w.pending) >= w.debounce
			if due {
				w.pending = time.Time{}
			}
			w.mu.Unlock()

			if !due {
				continue
			}

			if err := w.store.Reload(); err != nil {
				w.logger.Warn("settings reload failed", zap.Error(err))
				continue
			}
			w.logger.Info("settings reloaded", zap.String("path", w.store.Path()))
			if w.onChange != nil {
				w.onChange(w.store.Current())
			}
		}
	}
}

// Close stops watching and releases resources
func (w *Watcher) Close() error {
	w.cancel()
	if w.watcher != nil {
		return w.watcher.Close()
	}
	return nil
}
