package watcher

import (
	"fmt"
	"time"

	"github.com/fsnotify/fsnotify"
	"golang.org/x/sync/semaphore"

	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
)

// settleDelay gives a writer time to finish before the file is read.
const settleDelay = 500 * time.Millisecond

// New watches cfg.Dir and hands every new recording to handler, running at
// most cfg.MaxConcurrent handlers at once.
func New(cfg config.InboxConfig, handler EventHandler, log logger.Logger) (Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create inbox watcher: %w", err)
	}
	if err := fw.Add(cfg.Dir); err != nil {
		fw.Close()
		return nil, fmt.Errorf("watch inbox %s: %w", cfg.Dir, err)
	}

	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 2
	}

	return &implWatcher{
		dir:     cfg.Dir,
		limit:   cfg.MaxConcurrent,
		handler: handler,
		logger:  log,
		fs:      fw,
		slots:   semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		settle:  settleDelay,
	}, nil
}
