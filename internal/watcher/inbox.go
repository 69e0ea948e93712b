package watcher

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
)

// NewInboxHandler attaches files named "<meetingID>_<anything>.<ext>" to
// their meeting and removes them once stored. Files that fail stay in place.
func NewInboxHandler(ingester Ingester, log logger.Logger) EventHandler {
	return func(ctx context.Context, filePath string) error {
		name := filepath.Base(filePath)
		meetingID, err := parseMeetingID(name)
		if err != nil {
			return err
		}

		data, err := os.ReadFile(filePath)
		if err != nil {
			return fmt.Errorf("read recording: %w", err)
		}

		obj, err := ingester.IngestAudio(ctx, meetingID, name, data)
		if err != nil {
			return fmt.Errorf("ingest into meeting %d: %w", meetingID, err)
		}
		log.Info(ctx, "Attached %s to meeting %d as %s", name, meetingID, obj.Key)

		if err := os.Remove(filePath); err != nil {
			log.Warn(ctx, "Failed to remove ingested file %s: %v", filePath, err)
		}
		return nil
	}
}

func parseMeetingID(name string) (int64, error) {
	prefix, _, ok := strings.Cut(name, "_")
	if !ok {
		return 0, fmt.Errorf("%s: expected <meetingID>_<name>", name)
	}
	id, err := strconv.ParseInt(prefix, 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%s: invalid meeting id %q", name, prefix)
	}
	return id, nil
}
