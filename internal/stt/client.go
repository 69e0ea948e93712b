package stt

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
)

var tracer = otel.Tracer("minutes/stt")

const defaultFailure = "전사 처리 중 오류가 발생했습니다."

type request struct {
	AudioURL string `json:"audio_url"`
}

type response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Error   string `json:"error"`
	Data    struct {
		FullText string `json:"full_text"`
	} `json:"data"`
}

func (c *implClient) Transcribe(ctx context.Context, audioURL string) (string, error) {
	ctx, span := tracer.Start(ctx, "stt.Transcribe")
	defer span.End()

	body, err := json.Marshal(request{AudioURL: audioURL})
	if err != nil {
		return "", fmt.Errorf("encode stt request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/stt", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("build stt request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	res, err := c.http.Do(req)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return "", domain.RemoteServiceError{
			Stage:   domain.StageTranscribe,
			Message: fmt.Sprintf("STT 호출 중 통신 오류가 발생했습니다: %v", err),
		}
	}
	defer res.Body.Close()
	span.SetAttributes(attribute.Int("http.status_code", res.StatusCode))

	raw, err := io.ReadAll(res.Body)
	if err != nil {
		return "", domain.RemoteServiceError{
			Stage:      domain.StageTranscribe,
			StatusCode: res.StatusCode,
			Message:    fmt.Sprintf("STT 응답을 읽지 못했습니다: %v", err),
		}
	}
	c.logger.Debug(ctx, "STT response status=%d body=%s", res.StatusCode, preview(raw, 300))

	var parsed response
	decodeErr := json.Unmarshal(raw, &parsed)

	if res.StatusCode != http.StatusOK || decodeErr != nil || !parsed.Success {
		msg := parsed.Message
		if msg == "" {
			msg = parsed.Error
		}
		if msg == "" {
			msg = defaultFailure
		}
		span.SetStatus(codes.Error, msg)
		c.logger.Warn(ctx, "STT failed with status %d: %s", res.StatusCode, msg)
		return "", domain.RemoteServiceError{
			Stage:      domain.StageTranscribe,
			StatusCode: res.StatusCode,
			Message:    msg,
		}
	}

	return parsed.Data.FullText, nil
}

func preview(b []byte, n int) string {
	r := []rune(string(b))
	if len(r) > n {
		r = r[:n]
	}
	return string(r)
}
