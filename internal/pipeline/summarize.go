package pipeline

import (
	"context"
	"strings"

	"github.com/pkg/errors"
	"go.opentelemetry.io/otel/attribute"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
	"github.com/nguyentantai21042004/minutes-flow/internal/summary"
	"github.com/nguyentantai21042004/minutes-flow/internal/transcript"
)

// PrepareSummary summarizes the stored transcript and replaces the task set.
// It may be re-run on a finalized or failed meeting.
func (p *implPipeline) PrepareSummary(ctx context.Context, meetingID int64) (summary.Result, error) {
	ctx, span := tracer.Start(ctx, "Pipeline.PrepareSummary")
	defer span.End()
	span.SetAttributes(attribute.Int64("meeting.id", meetingID))

	m, err := p.Meetings.GetMeeting(ctx, meetingID)
	if err != nil {
		span.RecordError(err)
		return summary.Result{}, err
	}

	plain := transcript.Normalize(m.Transcript).Plain
	if strings.TrimSpace(plain) == "" {
		return summary.Result{}, domain.ErrEmptyTranscript
	}

	if err := p.transition(ctx, meetingID, domain.StatusSummarizing); err != nil {
		return summary.Result{}, errors.Wrap(err, "mark summarizing")
	}

	p.logger.Info(ctx, "Summarizing meeting %d (%d chars, domain %q)", meetingID, len(plain), m.Domain)
	payload, err := p.SLLM.Summarize(ctx, plain, m.Domain)
	if err != nil {
		span.RecordError(err)
		p.fail(ctx, meetingID, domain.StageSummarize, err)
		return summary.Result{}, err
	}

	result := p.Extractor.Extract(ctx, payload)
	if err := p.Meetings.SaveSummary(ctx, meetingID, result.Summary, result.Tasks); err != nil {
		err = errors.Wrap(err, "save summary")
		span.RecordError(err)
		p.fail(ctx, meetingID, domain.StageSummarize, err)
		return summary.Result{}, err
	}

	p.logger.Info(ctx, "Meeting %d finalized: %d agendas, %d tasks", meetingID, len(result.Agendas), len(result.Tasks))
	p.publish(ctx, domain.Event{MeetingID: meetingID, Status: domain.StatusFinalized})
	return result, nil
}
