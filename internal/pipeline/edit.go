package pipeline

import (
	"context"
	"strings"

	"github.com/pkg/errors"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
	"github.com/nguyentantai21042004/minutes-flow/internal/summary"
	"github.com/nguyentantai21042004/minutes-flow/internal/transcript"
)

func (p *implPipeline) SaveMinutes(ctx context.Context, actorID string, meetingID int64, body string) error {
	ctx, span := tracer.Start(ctx, "Pipeline.SaveMinutes")
	defer span.End()

	m, err := p.Meetings.GetMeeting(ctx, meetingID)
	if err != nil {
		return err
	}
	if err := requireOwner(m, actorID, "save minutes"); err != nil {
		return err
	}
	if err := p.Meetings.SaveNotes(ctx, meetingID, strings.TrimSpace(body)); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "save minutes")
	}
	return nil
}

// SaveTranscript replaces the transcript with a manual edit. A segment list
// is stored in its JSON form so speakers survive.
func (p *implPipeline) SaveTranscript(ctx context.Context, actorID string, meetingID int64, in TranscriptInput) error {
	ctx, span := tracer.Start(ctx, "Pipeline.SaveTranscript")
	defer span.End()

	m, err := p.Meetings.GetMeeting(ctx, meetingID)
	if err != nil {
		return err
	}
	if err := requireOwner(m, actorID, "save transcript"); err != nil {
		return err
	}

	text := strings.TrimSpace(in.Text)
	if len(in.Segments) > 0 {
		encoded, err := transcript.Encode(in.Segments)
		if err != nil {
			return domain.ValidationError{Code: "invalid_transcript", Message: err.Error()}
		}
		text = encoded
	}
	if text == "" {
		return domain.ErrEmptyTranscript
	}

	if err := p.Meetings.SaveTranscript(ctx, meetingID, text); err != nil {
		span.RecordError(err)
		return errors.Wrap(err, "save transcript")
	}
	p.publish(ctx, domain.Event{MeetingID: meetingID, Status: domain.StatusTranscribed})
	return nil
}

// SaveTasks replaces the task set with the editor's rows. Rows with every
// field blank are skipped.
func (p *implPipeline) SaveTasks(ctx context.Context, actorID string, meetingID int64, items []TaskInput) ([]domain.Task, error) {
	ctx, span := tracer.Start(ctx, "Pipeline.SaveTasks")
	defer span.End()

	m, err := p.Meetings.GetMeeting(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if err := requireOwner(m, actorID, "save tasks"); err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(items))
	for _, item := range items {
		task, ok := p.taskFromInput(ctx, m, item)
		if ok {
			tasks = append(tasks, task)
		}
	}

	if err := p.Meetings.ReplaceTasks(ctx, meetingID, tasks); err != nil {
		span.RecordError(err)
		return nil, errors.Wrap(err, "replace tasks")
	}
	return tasks, nil
}

func (p *implPipeline) taskFromInput(ctx context.Context, m domain.Meeting, in TaskInput) (domain.Task, bool) {
	in.AssigneeID = strings.TrimSpace(in.AssigneeID)
	in.Assignee = strings.TrimSpace(in.Assignee)
	in.Description = strings.TrimSpace(in.Description)
	in.Due = strings.TrimSpace(in.Due)
	if in.AssigneeID == "" && in.Assignee == "" && in.Description == "" && in.Due == "" {
		return domain.Task{}, false
	}

	task := domain.Task{
		Description:  in.Description,
		AssigneeText: in.Assignee,
	}
	if in.AssigneeID != "" && p.Users != nil {
		user, err := p.Users.GetUser(ctx, in.AssigneeID)
		switch {
		case err == nil:
			task.Assignee = user
		case !errors.Is(err, domain.ErrNotFound):
			p.logger.Warn(ctx, "Assignee %s lookup failed: %v", in.AssigneeID, err)
		}
	}
	if task.Assignee == nil {
		task.Assignee = p.Extractor.ResolveAssignee(ctx, in.Assignee, m.Host)
	}
	if !summary.IsNoDue(in.Due) {
		task.DueText = in.Due
		task.DueDate = summary.ParseDue(in.Due)
	}
	return task, true
}
