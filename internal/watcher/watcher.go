package watcher

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/semaphore"

	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/storage"
)

type implWatcher struct {
	dir     string
	limit   int
	handler EventHandler
	logger  logger.Logger
	fs      *fsnotify.Watcher
	slots   *semaphore.Weighted
	settle  time.Duration
	wg      sync.WaitGroup
}

// Start monitors the inbox for new recordings until ctx is done.
func (w *implWatcher) Start(ctx context.Context) error {
	w.logger.Info(ctx, "Inbox watcher started (max concurrent: %d). Monitoring: %s", w.limit, w.dir)
	defer w.wg.Wait()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info(ctx, "Inbox watcher stopping, waiting for ongoing ingestion")
			return ctx.Err()

		case event, ok := <-w.fs.Events:
			if !ok {
				return fmt.Errorf("inbox events channel closed")
			}
			if !event.Has(fsnotify.Create) {
				continue
			}
			if !storage.IsAllowed(event.Name) {
				w.logger.Debug(ctx, "Ignoring non-audio file: %s", event.Name)
				continue
			}

			w.logger.Info(ctx, "New recording detected: %s", event.Name)
			if err := w.slots.Acquire(ctx, 1); err != nil {
				return err
			}
			w.wg.Add(1)
			go w.ingest(ctx, event.Name)

		case err, ok := <-w.fs.Errors:
			if !ok {
				return fmt.Errorf("inbox errors channel closed")
			}
			w.logger.Error(ctx, "Inbox watcher error: %v", err)
		}
	}
}

func (w *implWatcher) ingest(ctx context.Context, path string) {
	defer w.wg.Done()
	defer w.slots.Release(1)

	select {
	case <-time.After(w.settle):
	case <-ctx.Done():
		return
	}
	if err := w.handler(ctx, path); err != nil {
		w.logger.Error(ctx, "Failed to ingest %s: %v", path, err)
	}
}

// Stop closes the underlying file watcher.
func (w *implWatcher) Stop() error {
	return w.fs.Close()
}
