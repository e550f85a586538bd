// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package mention

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/jeranaias/composer-tui/internal/entity"
	"github.com/jeranaias/composer-tui/internal/logging"
)

// =============================================================================
// SEED FILE WATCHER
// =============================================================================

// DefaultDebounce is how long the watcher waits for writes to settle.
const DefaultDebounce = 200 * time.Millisecond

// ApplyFunc receives a freshly loaded and sanitized candidate set.
type ApplyFunc func(ctx context.Context, entities []entity.Entity) error

// Watcher reloads a seed file whenever it changes on disk.
//
// The parent directory is watched rather than the file so editors that save
// by renaming a temp file over the original are still seen.
type Watcher struct {
	path      string
	sanitizer *entity.Sanitizer
	apply     ApplyFunc
	debounce  time.Duration
	logger    *slog.Logger

	watcher *fsnotify.Watcher
	mu      sync.Mutex
	timer   *time.Timer
	ctx     context.Context
	cancel  context.CancelFunc
	done    chan struct{}
}

// NewWatcher creates a watcher for the seed file at path.
func NewWatcher(path string, sanitizer *entity.Sanitizer, apply ApplyFunc, debounce time.Duration, logger *slog.Logger) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve seed path: %w", err)
	}
	if sanitizer == nil {
		sanitizer = entity.NewSanitizer(nil)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if logger == nil {
		logger = logging.Discard()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	return &Watcher{
		path:      abs,
		sanitizer: sanitizer,
		apply:     apply,
		debounce:  debounce,
		logger:    logger,
		watcher:   fw,
		done:      make(chan struct{}),
	}, nil
}

// Reload loads, sanitizes and applies the seed file once.
func (w *Watcher) Reload(ctx context.Context) error {
	raw, err := entity.LoadFile(w.path)
	if err != nil {
		return err
	}
	entities, err := w.sanitizer.SanitizeAll(raw)
	if err != nil {
		return fmt.Errorf("sanitize %s: %w", w.path, err)
	}
	if err := w.apply(ctx, entities); err != nil {
		return fmt.Errorf("apply %s: %w", w.path, err)
	}
	w.logger.Info("SEED_RELOADED", "path", w.path, "entities", len(entities))
	return nil
}

// Watch starts watching until ctx is cancelled or Close is called.
// Calls after the first are no-ops.
func (w *Watcher) Watch(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.cancel != nil {
		return nil
	}

	if err := w.watcher.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", filepath.Dir(w.path), err)
	}
	w.ctx, w.cancel = context.WithCancel(ctx)

	go w.processEvents()
	return nil
}

func (w *Watcher) processEvents() {
	defer close(w.done)

	for {
		select {
		case <-w.ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				w.schedule()
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warn("WATCH_ERROR", "path", w.path, "error", err)
		}
	}
}

// schedule restarts the debounce timer.
func (w *Watcher) schedule() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, func() {
		if w.ctx.Err() != nil {
			return
		}
		if err := w.Reload(w.ctx); err != nil {
			w.logger.Warn("SEED_RELOAD_FAILED", "path", w.path, "error", err)
		}
	})
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	w.mu.Lock()
	if w.timer != nil {
		w.timer.Stop()
	}
	started := w.cancel != nil
	if started {
		w.cancel()
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	if started {
		<-w.done
	}
	return err
}
