package indexer

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"hr-rag-bot/internal/contextutil"
	"hr-rag-bot/internal/library"
)

// DefaultQuietPeriod is how long a PDF must go without events before it is
// re-ingested. Copies and editors emit several writes per save.
const DefaultQuietPeriod = 2 * time.Second

// Watch re-ingests PDFs created or written in the configured folder and drops
// removed or renamed ones from the index, until ctx is done. Events are
// handled one at a time on the calling goroutine.
func (p *Pipeline) Watch(ctx context.Context, quiet time.Duration) error {
	logger := contextutil.LoggerFromContext(ctx)

	if quiet <= 0 {
		quiet = DefaultQuietPeriod
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	if err := watcher.Add(p.opts.Folder); err != nil {
		return fmt.Errorf("failed to watch %s: %w", p.opts.Folder, err)
	}
	logger.InfoContext(ctx, "watching folder", "folder", p.opts.Folder, "quiet_period", quiet)

	tick := quiet / 4
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	pending := make(map[string]time.Time)

	for {
		select {
		case <-ctx.Done():
			logger.InfoContext(ctx, "stopped watching folder", "folder", p.opts.Folder)
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !library.IsPDF(event.Name) {
				continue
			}
			logger.DebugContext(ctx, "watcher event", "event", event.String())

			switch {
			case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
				pending[event.Name] = time.Now()
			case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
				delete(pending, event.Name)
				if err := p.RemoveSource(ctx, filepath.Base(event.Name)); err != nil {
					logger.ErrorContext(ctx, "failed to remove document", "source", filepath.Base(event.Name), "error", err)
				}
			}

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.ErrorContext(ctx, "watcher error", "error", err)

		case now := <-ticker.C:
			for _, path := range settled(pending, now, quiet) {
				delete(pending, path)
				stats, err := p.IngestPath(ctx, path, false)
				if err != nil {
					logger.ErrorContext(ctx, "failed to ingest file", "path", path, "error", err)
					continue
				}
				logger.InfoContext(ctx, "re-ingested file", "path", path, "stats", stats)
			}
		}
	}
}

// settled returns the pending paths with no event for at least quiet, sorted.
func settled(pending map[string]time.Time, now time.Time, quiet time.Duration) []string {
	var ready []string
	for path, last := range pending {
		if now.Sub(last) >= quiet {
			ready = append(ready, path)
		}
	}
	sort.Strings(ready)
	return ready
}
