package pipeline

import (
	"context"
	"encoding/json"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/nguyentantai21042004/minutes-flow/internal/render"
)

func (p *implPipeline) View(ctx context.Context, meetingID int64) (render.MeetingView, error) {
	m, err := p.Meetings.GetMeeting(ctx, meetingID)
	if err != nil {
		return render.MeetingView{}, err
	}
	attendees, err := p.Meetings.ListAttendees(ctx, meetingID)
	if err != nil {
		return render.MeetingView{}, errors.Wrap(err, "list attendees")
	}
	tasks, err := p.Meetings.ListTasks(ctx, meetingID)
	if err != nil {
		return render.MeetingView{}, errors.Wrap(err, "list tasks")
	}
	return render.NewView(m, attendees, tasks), nil
}

// Document renders the minutes, reusing a cached rendering of an identical
// view.
func (p *implPipeline) Document(ctx context.Context, meetingID int64, format render.Format) (Document, error) {
	ctx, span := tracer.Start(ctx, "Pipeline.Document")
	defer span.End()
	span.SetAttributes(attribute.Int64("meeting.id", meetingID), attribute.String("format", string(format)))

	view, err := p.View(ctx, meetingID)
	if err != nil {
		span.RecordError(err)
		return Document{}, err
	}

	doc := Document{
		Filename:    render.Filename(meetingID, format),
		ContentType: format.ContentType(),
	}

	content, err := json.Marshal(view)
	if err != nil {
		return Document{}, errors.Wrap(err, "fingerprint view")
	}
	if p.Cache != nil {
		if data, ok := p.Cache.Get(ctx, string(format), content); ok {
			doc.Data = data
			return doc, nil
		}
	}

	data, err := p.Renderer.Render(ctx, view, format)
	if err != nil {
		span.RecordError(err)
		return Document{}, err
	}
	if p.Cache != nil {
		if err := p.Cache.Set(ctx, string(format), content, data); err != nil {
			p.logger.Warn(ctx, "Failed to cache %s for meeting %d: %v", format, meetingID, err)
		}
	}

	doc.Data = data
	return doc, nil
}
