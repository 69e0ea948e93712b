package audio

import "context"

// Transcoder normalizes uploaded recordings before they are stored.
type Transcoder interface {
	// Normalize returns the file name and bytes to store. WAV input, or any
	// input while transcoding is disabled, is returned unchanged.
	Normalize(ctx context.Context, filename string, data []byte) (string, []byte, error)
	// Check verifies ffmpeg can be run. It is a no-op while transcoding is disabled.
	Check(ctx context.Context) error
}
