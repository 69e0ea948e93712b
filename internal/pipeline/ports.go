package pipeline

import (
	"context"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
)

// MeetingRepository persists meetings and everything they own.
type MeetingRepository interface {
	GetMeeting(ctx context.Context, id int64) (domain.Meeting, error)
	ListAttendees(ctx context.Context, meetingID int64) ([]domain.Attendee, error)
	ListTasks(ctx context.Context, meetingID int64) ([]domain.Task, error)
	LinkAudio(ctx context.Context, meetingID int64, key string) error
	UpdateStatus(ctx context.Context, meetingID int64, status domain.Status, stage domain.Stage, reason string) error
	SaveTranscript(ctx context.Context, meetingID int64, transcript string) error
	// SaveSummary stores the summary and replaces the task set atomically.
	SaveSummary(ctx context.Context, meetingID int64, summary string, tasks []domain.Task) error
	SaveNotes(ctx context.Context, meetingID int64, notes string) error
	ReplaceTasks(ctx context.Context, meetingID int64, tasks []domain.Task) error
}

type UserRepository interface {
	GetUser(ctx context.Context, id string) (*domain.User, error)
}

type EventPublisher interface {
	Publish(ctx context.Context, event domain.Event) error
}

// DocumentCache holds rendered documents keyed by the content they were
// rendered from.
type DocumentCache interface {
	Get(ctx context.Context, format string, content []byte) ([]byte, bool)
	Set(ctx context.Context, format string, content, data []byte) error
}
