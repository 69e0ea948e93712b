package sllm

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"google.golang.org/genai"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/summary"
)

const minutesPrompt = `당신은 회의록 작성 전문가입니다. 아래 회의 전문을 분석하여 JSON 하나만 출력하세요.

형식:
{
  "full_summary": {
    "agendas": [
      {"agenda": "안건 제목", "agenda_description": "안건 설명", "summary": {"agenda_summary": "안건 요약"}}
    ]
  },
  "full_tasks": [
    {"description": "할 일", "assignee": "담당자 이름", "due": "YYYY-MM-DD 또는 빈 문자열"}
  ]
}

규칙:
- 전문에 나온 안건을 순서대로 모두 포함합니다.
- 담당자는 전문에 등장한 이름 그대로 적습니다. 알 수 없으면 빈 문자열입니다.
- 기한이 명확하지 않으면 due를 빈 문자열로 둡니다.
%s
회의 전문:
---
%s
---`

// generateFunc sends one prompt with one API key.
type generateFunc func(ctx context.Context, apiKey, model, prompt string) (string, error)

type implGemini struct {
	mu         sync.Mutex
	apiKeys    []string
	currentKey int
	model      string
	generate   generateFunc
	logger     logger.Logger
}

// NewGemini creates a Client backed by Gemini that rotates through apiKeys
// when one is rate limited.
func NewGemini(model string, apiKeys []string, timeout time.Duration, log logger.Logger) Client {
	if model == "" {
		model = "gemini-2.5-flash"
	}
	httpClient := &http.Client{Timeout: timeout}
	return &implGemini{
		apiKeys: apiKeys,
		model:   model,
		logger:  log,
		generate: func(ctx context.Context, apiKey, model, prompt string) (string, error) {
			return callGemini(ctx, httpClient, apiKey, model, prompt)
		},
	}
}

func (g *implGemini) Summarize(ctx context.Context, transcript, tag string) (summary.Payload, error) {
	ctx, span := tracer.Start(ctx, "sllm.Gemini.Summarize")
	defer span.End()
	span.SetAttributes(attribute.String("gemini.model", g.model))

	if len(g.apiKeys) == 0 {
		return nil, domain.RemoteServiceError{Stage: domain.StageSummarize, Message: "no Gemini API keys configured"}
	}

	domainHint := ""
	if domains := CanonicalDomain(tag); len(domains) > 0 {
		domainHint = fmt.Sprintf("- 회의 분야: %s\n", strings.Join(domains, ", "))
	}
	prompt := fmt.Sprintf(minutesPrompt, domainHint, transcript)

	text, err := g.generateWithRotation(ctx, prompt)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, domain.RemoteServiceError{Stage: domain.StageSummarize, Message: err.Error()}
	}

	payload := decodePayload(text)
	if len(payload) == 0 {
		return nil, domain.RemoteServiceError{Stage: domain.StageSummarize, Message: "empty response from Gemini"}
	}
	return payload, nil
}

// generateWithRotation tries every key at most once, moving on when the
// current one hits a 429 / quota error.
func (g *implGemini) generateWithRotation(ctx context.Context, prompt string) (string, error) {
	var lastErr error

	for range len(g.apiKeys) {
		idx, key := g.key()

		text, err := g.generate(ctx, key, g.model, prompt)
		if err != nil {
			if isRateLimited(err) {
				g.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
				g.rotateKey(idx)
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}
		return text, nil
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (g *implGemini) key() (int, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentKey, g.apiKeys[g.currentKey]
}

// rotateKey advances past idx unless another request already did.
func (g *implGemini) rotateKey(idx int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.currentKey == idx {
		g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
	}
}

func isRateLimited(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func callGemini(ctx context.Context, httpClient *http.Client, apiKey, model, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     apiKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: httpClient,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), &genai.GenerateContentConfig{
		ResponseMIMEType: "application/json",
	})
	if err != nil {
		return "", err
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text strings.Builder
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text.WriteString(part.Text)
			}
		}
		return text.String(), nil
	}
	return "", fmt.Errorf("empty response from Gemini")
}

// decodePayload reads the model's answer as a JSON object. Anything else is
// kept as a prose summary.
func decodePayload(text string) summary.Payload {
	text = summary.StripFence(strings.TrimSpace(text))
	if text == "" {
		return nil
	}

	var payload summary.Payload
	if err := json.Unmarshal([]byte(text), &payload); err == nil && len(payload) > 0 {
		return payload
	}

	prose, _ := json.Marshal(text)
	return summary.Payload{"summary": prose}
}
