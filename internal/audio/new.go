package audio

import (
	"golang.org/x/sync/semaphore"

	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/pkg/executor"
)

type implTranscoder struct {
	cfg      config.AudioConfig
	executor executor.Executor
	slots    *semaphore.Weighted
	logger   logger.Logger
}

// New creates a Transcoder running at most cfg.MaxConcurrent ffmpeg processes.
func New(cfg config.AudioConfig, exec executor.Executor, log logger.Logger) Transcoder {
	if cfg.FFmpegPath == "" {
		cfg.FFmpegPath = "ffmpeg"
	}
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 1
	}
	return &implTranscoder{
		cfg:      cfg,
		executor: exec,
		slots:    semaphore.NewWeighted(int64(cfg.MaxConcurrent)),
		logger:   log,
	}
}
