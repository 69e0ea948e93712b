package sllm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
	"github.com/nguyentantai21042004/minutes-flow/internal/summary"
)

var tracer = otel.Tracer("minutes/sllm")

const defaultFailure = "SLLM 호출 중 오류가 발생했습니다."

type request struct {
	Transcript string   `json:"transcript"`
	Domain     []string `json:"domain"`
}

func (c *implRemote) Summarize(ctx context.Context, transcript, tag string) (summary.Payload, error) {
	ctx, span := tracer.Start(ctx, "sllm.Summarize")
	defer span.End()

	domains := CanonicalDomain(tag)
	span.SetAttributes(attribute.StringSlice("sllm.domain", domains))

	body, err := json.Marshal(request{Transcript: transcript, Domain: domains})
	if err != nil {
		return nil, fmt.Errorf("encode sllm request: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/inference", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build sllm request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.RemoteServiceError{
			Stage:   domain.StageSummarize,
			Message: fmt.Sprintf("SLLM 호출 중 통신 오류가 발생했습니다: %v", err),
		}
	}
	defer res.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", res.StatusCode))

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, domain.RemoteServiceError{
			Stage:      domain.StageSummarize,
			StatusCode: res.StatusCode,
			Message:    fmt.Sprintf("SLLM 응답을 읽지 못했습니다: %v", err),
		}
	}

	payload, err := interpret(res.StatusCode, raw)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		c.logger.Warn(ctx, "SLLM failed with status %d: %v", res.StatusCode, err)
		return nil, err
	}
	c.logger.Debug(ctx, "SLLM returned %d payload keys", len(payload))
	return payload, nil
}

// interpret applies the response envelope rules: the payload is "data", or
// the whole object when "data" is absent or empty. A non-200 status, an
// explicit success=false or an empty payload is a failure.
func interpret(status int, raw []byte) (summary.Payload, error) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		envelope = nil
	}

	payload := summary.Payload(envelope)
	if data, ok := envelope["data"]; ok {
		var inner map[string]json.RawMessage
		if json.Unmarshal(data, &inner) == nil && len(inner) > 0 {
			payload = inner
		}
	}

	explicitFailure := false
	if v, ok := envelope["success"]; ok {
		var b bool
		explicitFailure = json.Unmarshal(v, &b) == nil && !b
	}

	if status == http.StatusOK && !explicitFailure && len(payload) > 0 {
		return payload, nil
	}

	return nil, domain.RemoteServiceError{
		Stage:      domain.StageSummarize,
		StatusCode: status,
		Message:    failureMessage(envelope, payload, raw),
	}
}

// failureMessage looks for an upstream message in the envelope, then its
// detail object, then the payload, and finally falls back to the body.
func failureMessage(envelope, payload map[string]json.RawMessage, raw []byte) string {
	if msg := messageIn(envelope); msg != "" {
		return msg
	}
	if detail, ok := envelope["detail"]; ok {
		var inner map[string]json.RawMessage
		if json.Unmarshal(detail, &inner) == nil {
			if msg := messageIn(inner); msg != "" {
				return msg
			}
		}
	}
	if msg := messageIn(payload); msg != "" {
		return msg
	}
	if preview := string(truncate(raw, 1000)); preview != "" {
		return preview
	}
	return defaultFailure
}

func messageIn(m map[string]json.RawMessage) string {
	for _, key := range []string{"message", "error"} {
		var s string
		if v, ok := m[key]; ok && json.Unmarshal(v, &s) == nil && s != "" {
			return s
		}
	}
	return ""
}

func truncate(b []byte, n int) []rune {
	r := []rune(string(bytes.TrimSpace(b)))
	if len(r) > n {
		r = r[:n]
	}
	return r
}
