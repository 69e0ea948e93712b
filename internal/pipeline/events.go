package pipeline

import (
	"context"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
)

// transition persists a status change and announces it. Publishing is best
// effort.
func (p *implPipeline) transition(ctx context.Context, meetingID int64, status domain.Status) error {
	if err := p.Meetings.UpdateStatus(ctx, meetingID, status, "", ""); err != nil {
		return err
	}
	p.publish(ctx, domain.Event{MeetingID: meetingID, Status: status})
	return nil
}

// fail marks the meeting failed at stage. It runs detached from ctx so a
// disconnected caller still leaves the failure recorded.
func (p *implPipeline) fail(ctx context.Context, meetingID int64, stage domain.Stage, cause error) {
	ctx = context.WithoutCancel(ctx)
	reason := cause.Error()
	if err := p.Meetings.UpdateStatus(ctx, meetingID, domain.StatusFailed, stage, reason); err != nil {
		p.logger.Error(ctx, "Failed to record %s failure for meeting %d: %v", stage, meetingID, err)
	}
	p.publish(ctx, domain.Event{MeetingID: meetingID, Status: domain.StatusFailed, Stage: stage, Message: reason})
}

func (p *implPipeline) publish(ctx context.Context, event domain.Event) {
	if p.Events == nil {
		return
	}
	if event.At.IsZero() {
		event.At = p.now()
	}
	if err := p.Events.Publish(ctx, event); err != nil {
		p.logger.Warn(ctx, "Failed to publish %s event for meeting %d: %v", event.Status, event.MeetingID, err)
	}
}
