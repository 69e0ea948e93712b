package audio

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// ffmpegArgs converts whatever arrives on stdin to 16kHz mono PCM WAV on
// stdout, the format the speech-to-text service handles best.
var ffmpegArgs = []string{
	"-hide_banner",
	"-loglevel", "error",
	"-i", "pipe:0",
	"-vn",          // No video
	"-ar", "16000", // 16kHz sample rate
	"-ac", "1", // Mono
	"-c:a", "pcm_s16le",
	"-f", "wav",
	"pipe:1",
}

// Normalize transcodes non-WAV recordings to WAV through ffmpeg.
func (t *implTranscoder) Normalize(ctx context.Context, filename string, data []byte) (string, []byte, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if !t.cfg.Transcode || ext == ".wav" {
		return filename, data, nil
	}

	if err := t.slots.Acquire(ctx, 1); err != nil {
		return "", nil, fmt.Errorf("wait for transcode slot: %w", err)
	}
	defer t.slots.Release(1)

	start := time.Now()
	t.logger.Info(ctx, "Transcoding %s (%d bytes) to WAV", filename, len(data))

	out, err := t.executor.ExecuteWithInput(ctx, data, t.cfg.FFmpegPath, ffmpegArgs...)
	if err != nil {
		return "", nil, fmt.Errorf("ffmpeg transcode %s: %w", filename, err)
	}
	if len(out) == 0 {
		return "", nil, fmt.Errorf("ffmpeg transcode %s: empty output", filename)
	}

	wavName := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename)) + ".wav"
	t.logger.Info(ctx, "Transcoded %s -> %s (%d bytes) in %s", filename, wavName, len(out), time.Since(start))
	return wavName, out, nil
}

func (t *implTranscoder) Check(ctx context.Context) error {
	if !t.cfg.Transcode {
		return nil
	}
	out, err := t.executor.Execute(ctx, t.cfg.FFmpegPath, "-version")
	if err != nil {
		return fmt.Errorf("ffmpeg unavailable: %w", err)
	}
	if first, _, _ := strings.Cut(out, "\n"); first != "" {
		t.logger.Info(ctx, "Using %s", strings.TrimSpace(first))
	}
	return nil
}
