package stt

import "context"

// Client calls the remote speech-to-text service.
type Client interface {
	// Transcribe asks the service to transcribe the audio behind audioURL and
	// returns its raw full_text. Failures come back as domain.RemoteServiceError.
	Transcribe(ctx context.Context, audioURL string) (string, error)
}
