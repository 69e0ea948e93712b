package pipeline

import (
	"context"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
	"github.com/nguyentantai21042004/minutes-flow/internal/transcript"
)

// PrepareTranscript transcribes the linked recording once. A meeting that
// already has a transcript is returned as is without any remote call, and
// concurrent calls for the same meeting share one transcription.
//
// The shared work is detached from every caller's cancellation; a caller
// that goes away only stops waiting. The STT client timeout still bounds it.
func (p *implPipeline) PrepareTranscript(ctx context.Context, meetingID int64) (transcript.Result, error) {
	shared := context.WithoutCancel(ctx)
	ch := p.flights.DoChan("transcript:"+strconv.FormatInt(meetingID, 10), func() (any, error) {
		return p.prepareTranscript(shared, meetingID)
	})

	select {
	case <-ctx.Done():
		return transcript.Result{}, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return transcript.Result{}, res.Err
		}
		return res.Val.(transcript.Result), nil
	}
}

func (p *implPipeline) prepareTranscript(ctx context.Context, meetingID int64) (transcript.Result, error) {
	ctx, span := tracer.Start(ctx, "Pipeline.PrepareTranscript")
	defer span.End()
	span.SetAttributes(attribute.Int64("meeting.id", meetingID))

	m, err := p.Meetings.GetMeeting(ctx, meetingID)
	if err != nil {
		span.RecordError(err)
		return transcript.Result{}, err
	}
	if strings.TrimSpace(m.Transcript) != "" {
		return transcript.Normalize(m.Transcript), nil
	}
	if !m.HasAudio() {
		return transcript.Result{}, domain.ErrMissingAudio
	}

	url, err := p.Store.URLFor(ctx, m.AudioKey)
	if errors.Is(err, domain.ErrNotFound) {
		return transcript.Result{}, domain.ErrMissingAudio
	}
	if err != nil {
		span.RecordError(err)
		return transcript.Result{}, errors.Wrap(err, "resolve audio url")
	}

	if err := p.transition(ctx, meetingID, domain.StatusTranscribing); err != nil {
		return transcript.Result{}, errors.Wrap(err, "mark transcribing")
	}

	p.logger.Info(ctx, "Transcribing meeting %d", meetingID)
	text, err := p.STT.Transcribe(ctx, url)
	if err != nil {
		span.RecordError(err)
		p.fail(ctx, meetingID, domain.StageTranscribe, err)
		return transcript.Result{}, err
	}

	result := transcript.Normalize(text)
	if err := p.Meetings.SaveTranscript(ctx, meetingID, result.Plain); err != nil {
		err = errors.Wrap(err, "save transcript")
		span.RecordError(err)
		p.fail(ctx, meetingID, domain.StageTranscribe, err)
		return transcript.Result{}, err
	}

	p.logger.Info(ctx, "Meeting %d transcribed: %d segments, %d speakers", meetingID, len(result.Segments), len(result.Speakers))
	p.publish(ctx, domain.Event{MeetingID: meetingID, Status: domain.StatusTranscribed})
	return result, nil
}

func (p *implPipeline) Transcript(ctx context.Context, meetingID int64) (transcript.Result, error) {
	m, err := p.Meetings.GetMeeting(ctx, meetingID)
	if err != nil {
		return transcript.Result{}, err
	}
	return transcript.Normalize(m.Transcript), nil
}
