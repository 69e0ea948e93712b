package watcher

import (
	"context"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
)

// Watcher defines the interface for file system monitoring
type Watcher interface {
	Start(ctx context.Context) error
	Stop() error
}

// EventHandler is a function that handles file events
type EventHandler func(ctx context.Context, filePath string) error

// Ingester attaches a recording to a meeting on behalf of its host.
type Ingester interface {
	IngestAudio(ctx context.Context, meetingID int64, filename string, data []byte) (domain.AudioObject, error)
}
