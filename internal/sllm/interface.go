package sllm

import (
	"context"

	"github.com/nguyentantai21042004/minutes-flow/internal/summary"
)

// Client asks a summarization backend to turn a transcript into a summary
// payload carrying full_summary/summary and full_tasks/tasks.
type Client interface {
	// Summarize sends the plain transcript and the meeting's domain tag.
	// Failures come back as domain.RemoteServiceError.
	Summarize(ctx context.Context, transcript, domain string) (summary.Payload, error)
}
