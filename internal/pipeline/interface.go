package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
	"github.com/nguyentantai21042004/minutes-flow/internal/render"
	"github.com/nguyentantai21042004/minutes-flow/internal/summary"
	"github.com/nguyentantai21042004/minutes-flow/internal/transcript"
)

// Pipeline drives a meeting from recorded audio to finished minutes.
// Mutations that take an actorID are owner-only and are checked before
// anything is written.
type Pipeline interface {
	AttachAudio(ctx context.Context, actorID string, meetingID int64, filename string, data []byte) (domain.AudioObject, error)
	// IngestAudio attaches audio on behalf of the meeting's host.
	IngestAudio(ctx context.Context, meetingID int64, filename string, data []byte) (domain.AudioObject, error)
	LinkAudio(ctx context.Context, actorID string, meetingID int64, key, originalName string, ttl time.Duration) (domain.AudioObject, error)
	AudioURL(ctx context.Context, actorID string, meetingID int64) (string, error)
	OpenAudio(ctx context.Context, actorID string, meetingID int64) (io.ReadCloser, domain.AudioObject, error)

	PrepareTranscript(ctx context.Context, meetingID int64) (transcript.Result, error)
	PrepareSummary(ctx context.Context, meetingID int64) (summary.Result, error)

	Transcript(ctx context.Context, meetingID int64) (transcript.Result, error)
	SaveTranscript(ctx context.Context, actorID string, meetingID int64, in TranscriptInput) error
	SaveMinutes(ctx context.Context, actorID string, meetingID int64, body string) error
	SaveTasks(ctx context.Context, actorID string, meetingID int64, items []TaskInput) ([]domain.Task, error)

	View(ctx context.Context, meetingID int64) (render.MeetingView, error)
	Document(ctx context.Context, meetingID int64, format render.Format) (Document, error)
}

// TranscriptInput is a manual transcript edit. Segments win over Text.
type TranscriptInput struct {
	Segments []transcript.Segment
	Text     string
}

// TaskInput is one row of the manual task editor.
type TaskInput struct {
	AssigneeID  string
	Assignee    string
	Description string
	Due         string
}

// Document is a rendered minutes file ready for download.
type Document struct {
	Filename    string
	ContentType string
	Data        []byte
}
