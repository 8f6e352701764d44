package importer

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// Watcher re-imports a CSV export whenever it changes on disk. Rows already
// stored fail their unique constraint and count as skipped, so re-importing
// an appended file only picks up the new rows.
type Watcher struct {
	importer *Importer
	path     string
	debounce time.Duration
	logger   *zap.Logger
	ready    chan struct{}
}

// NewWatcher builds a watcher over the CSV at path.
func NewWatcher(imp *Importer, path string, logger *zap.Logger) *Watcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Watcher{
		importer: imp,
		path:     filepath.Clean(path),
		debounce: 500 * time.Millisecond,
		logger:   logger.Named("watcher"),
		ready:    make(chan struct{}),
	}
}

// Ready is closed once the filesystem watch is established.
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx is cancelled. The parent directory is watched
// rather than the file itself so replace-by-rename edits keep working.
func (w *Watcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(filepath.Dir(w.path)); err != nil {
		return err
	}
	close(w.ready)
	w.logger.Info("watching", zap.String("path", w.path))

	var timer *time.Timer
	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			// Debounce editor write bursts.
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			res, err := w.importer.ImportFile(ctx, w.path)
			if err != nil {
				w.logger.Error("re-import failed", zap.Error(err))
				continue
			}
			w.logger.Info("re-imported",
				zap.Int("imported", res.Imported), zap.Int("skipped", res.Skipped))

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", zap.Error(err))
		}
	}
}
