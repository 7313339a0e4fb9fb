package index

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/docsite/internal/storage"
)

// DefaultDebounce is the quiet period after the last source change before a
// rebuild starts.
const DefaultDebounce = 250 * time.Millisecond

// RebuildFunc regenerates the whole index.
type RebuildFunc func(ctx context.Context)

// Watch starts an fsnotify watcher on the docs root and runs rebuild after
// each burst of .md changes, until ctx is cancelled. Rebuilds are always
// full; events only decide when one happens.
func Watch(ctx context.Context, root string, debounce time.Duration, logger *slog.Logger, rebuild RebuildFunc) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	var timer *time.Timer
	var fire <-chan time.Time

	schedule := func() {
		if timer == nil {
			timer = time.NewTimer(debounce)
			fire = timer.C
			return
		}
		timer.Reset(debounce)
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-fire:
			timer, fire = nil, nil
			logger.Debug("watcher: rebuilding index")
			rebuild(ctx)

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !isSource(ev.Name) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("watcher: change",
				slog.String("path", ev.Name),
				slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// isSource reports whether name is a documentation source the builder would
// enumerate.
func isSource(name string) bool {
	base := filepath.Base(name)
	return strings.HasSuffix(base, storage.Ext) && storage.ValidateSlug(strings.TrimSuffix(base, storage.Ext)) == nil
}
