// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2025 Mufeed Ali

// Package watch pushes library files to an environment whenever they are
// saved.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"smctl/internal/library"
	"smctl/internal/logger"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events editors produce for one save.
const DefaultDebounce = 500 * time.Millisecond

// minTick bounds how often pending files are checked.
const minTick = 10 * time.Millisecond

// SyncFunc handles one settled file. Errors are logged and do not stop the watcher.
type SyncFunc func(ctx context.Context, path string) error

// Watcher watches one directory for changed library files.
type Watcher struct {
	dir      string
	debounce time.Duration
	sync     SyncFunc
	fs       *fsnotify.Watcher
	pending  map[string]time.Time
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long a file must be quiet before it is synced. Zero
// syncs on the next check.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// New starts watching dir. Call Run to process events and Close when done.
func New(dir string, sync SyncFunc, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}

	w := &Watcher{
		dir:      dir,
		debounce: DefaultDebounce,
		sync:     sync,
		fs:       fsw,
		pending:  make(map[string]time.Time),
	}
	for _, opt := range opts {
		opt(w)
	}
	logger.Info("Watching directory", "dir", dir, "debounce", w.debounce)
	return w, nil
}

// Close stops the underlying watcher.
func (w *Watcher) Close() error {
	return w.fs.Close()
}

// Run processes events until ctx is cancelled or the watcher is closed.
// Syncs run one at a time on the calling goroutine.
func (w *Watcher) Run(ctx context.Context) error {
	tick := time.NewTicker(max(w.debounce/5, minTick))
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fs.Events:
			if !ok {
				return nil
			}
			w.handleEvent(ev)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return nil
			}
			logger.Error("Watcher error", "dir", w.dir, "error", err)

		case now := <-tick.C:
			w.flush(ctx, now)
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) {
	if !isLibraryFile(ev.Name) {
		return
	}
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}
	logger.Debug("Library file changed", "path", ev.Name, "op", ev.Op.String())
	w.pending[ev.Name] = time.Now()
}

// flush syncs every file that has been quiet for the debounce period.
func (w *Watcher) flush(ctx context.Context, now time.Time) {
	var ready []string
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounce {
			ready = append(ready, path)
		}
	}
	sort.Strings(ready)
	for _, path := range ready {
		delete(w.pending, path)
		if err := w.sync(ctx, path); err != nil {
			logger.Error("Sync failed", "path", path, "error", err)
		}
	}
}

// isLibraryFile skips non-library files and compare snapshots.
func isLibraryFile(path string) bool {
	base := filepath.Base(path)
	return strings.HasSuffix(base, library.Ext) &&
		!strings.HasPrefix(base, ".") &&
		!strings.HasPrefix(base, "remote_compare_")
}
