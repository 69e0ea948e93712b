package pipeline

import (
	"context"
	"io"
	"time"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
	"github.com/nguyentantai21042004/minutes-flow/internal/storage"
)

func (p *implPipeline) AttachAudio(ctx context.Context, actorID string, meetingID int64, filename string, data []byte) (domain.AudioObject, error) {
	ctx, span := tracer.Start(ctx, "Pipeline.AttachAudio")
	defer span.End()
	span.SetAttributes(attribute.Int64("meeting.id", meetingID))

	m, err := p.Meetings.GetMeeting(ctx, meetingID)
	if err != nil {
		span.RecordError(err)
		return domain.AudioObject{}, err
	}
	if err := requireOwner(m, actorID, "attach audio"); err != nil {
		return domain.AudioObject{}, err
	}
	return p.attach(ctx, meetingID, filename, data)
}

func (p *implPipeline) IngestAudio(ctx context.Context, meetingID int64, filename string, data []byte) (domain.AudioObject, error) {
	ctx, span := tracer.Start(ctx, "Pipeline.IngestAudio")
	defer span.End()
	span.SetAttributes(attribute.Int64("meeting.id", meetingID))

	if _, err := p.Meetings.GetMeeting(ctx, meetingID); err != nil {
		span.RecordError(err)
		return domain.AudioObject{}, err
	}
	return p.attach(ctx, meetingID, filename, data)
}

func (p *implPipeline) attach(ctx context.Context, meetingID int64, filename string, data []byte) (domain.AudioObject, error) {
	if _, _, err := storage.ContentType(filename); err != nil {
		return domain.AudioObject{}, err
	}

	if p.Transcoder != nil {
		name, wav, err := p.Transcoder.Normalize(ctx, filename, data)
		if err != nil {
			return domain.AudioObject{}, errors.Wrap(err, "transcode upload")
		}
		filename, data = name, wav
	}

	obj, err := p.Store.Put(ctx, data, filename, 0)
	if err != nil {
		return domain.AudioObject{}, err
	}
	if err := p.Meetings.LinkAudio(ctx, meetingID, obj.Key); err != nil {
		return domain.AudioObject{}, errors.Wrap(err, "link audio")
	}

	p.logger.Info(ctx, "Meeting %d recorded: %s (%d bytes)", meetingID, obj.Key, len(data))
	p.publish(ctx, domain.Event{MeetingID: meetingID, Status: domain.StatusRecorded})
	return obj, nil
}

// LinkAudio attaches an object already in storage, re-issuing its expiry.
func (p *implPipeline) LinkAudio(ctx context.Context, actorID string, meetingID int64, key, originalName string, ttl time.Duration) (domain.AudioObject, error) {
	ctx, span := tracer.Start(ctx, "Pipeline.LinkAudio")
	defer span.End()

	m, err := p.Meetings.GetMeeting(ctx, meetingID)
	if err != nil {
		return domain.AudioObject{}, err
	}
	if err := requireOwner(m, actorID, "link audio"); err != nil {
		return domain.AudioObject{}, err
	}

	obj, err := p.Store.Register(ctx, key, originalName, ttl)
	if err != nil {
		span.RecordError(err)
		return domain.AudioObject{}, err
	}
	if err := p.Meetings.LinkAudio(ctx, meetingID, obj.Key); err != nil {
		return domain.AudioObject{}, errors.Wrap(err, "link audio")
	}

	p.publish(ctx, domain.Event{MeetingID: meetingID, Status: domain.StatusRecorded})
	return obj, nil
}

func (p *implPipeline) AudioURL(ctx context.Context, actorID string, meetingID int64) (string, error) {
	ctx, span := tracer.Start(ctx, "Pipeline.AudioURL")
	defer span.End()

	m, err := p.viewableAudio(ctx, actorID, meetingID)
	if err != nil {
		return "", err
	}
	url, err := p.Store.URLFor(ctx, m.AudioKey)
	if errors.Is(err, domain.ErrNotFound) {
		return "", domain.ErrMissingAudio
	}
	return url, err
}

func (p *implPipeline) OpenAudio(ctx context.Context, actorID string, meetingID int64) (io.ReadCloser, domain.AudioObject, error) {
	ctx, span := tracer.Start(ctx, "Pipeline.OpenAudio")
	defer span.End()

	m, err := p.viewableAudio(ctx, actorID, meetingID)
	if err != nil {
		return nil, domain.AudioObject{}, err
	}
	rc, obj, err := p.Store.Open(ctx, m.AudioKey)
	if errors.Is(err, domain.ErrNotFound) {
		return nil, domain.AudioObject{}, domain.ErrMissingAudio
	}
	return rc, obj, err
}

func (p *implPipeline) viewableAudio(ctx context.Context, actorID string, meetingID int64) (domain.Meeting, error) {
	m, err := p.Meetings.GetMeeting(ctx, meetingID)
	if err != nil {
		return domain.Meeting{}, err
	}
	ok, err := p.canView(ctx, m, actorID)
	if err != nil {
		return domain.Meeting{}, errors.Wrap(err, "check view permission")
	}
	if !ok {
		return domain.Meeting{}, domain.PermissionError{Action: "view audio"}
	}
	if !m.HasAudio() {
		return domain.Meeting{}, domain.ErrMissingAudio
	}
	return m, nil
}
