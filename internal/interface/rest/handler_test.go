package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
	"github.com/nguyentantai21042004/minutes-flow/internal/interface/rest/middleware"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/pipeline"
	"github.com/nguyentantai21042004/minutes-flow/internal/render"
	"github.com/nguyentantai21042004/minutes-flow/internal/summary"
	"github.com/nguyentantai21042004/minutes-flow/internal/transcript"
)

// --- mocks ---

type mockPipeline struct {
	err error

	actor      string
	meetingID  int64
	filename   string
	data       []byte
	minutes    string
	tasks      []pipeline.TaskInput
	transcript pipeline.TranscriptInput
	format     render.Format
}

func (m *mockPipeline) AttachAudio(ctx context.Context, actorID string, meetingID int64, filename string, data []byte) (domain.AudioObject, error) {
	m.actor, m.meetingID, m.filename, m.data = actorID, meetingID, filename, data
	return domain.AudioObject{Key: "records/x.wav", OriginalName: filename}, m.err
}

func (m *mockPipeline) IngestAudio(ctx context.Context, meetingID int64, filename string, data []byte) (domain.AudioObject, error) {
	return domain.AudioObject{}, m.err
}

func (m *mockPipeline) LinkAudio(ctx context.Context, actorID string, meetingID int64, key, originalName string, ttl time.Duration) (domain.AudioObject, error) {
	m.actor, m.meetingID, m.filename = actorID, meetingID, originalName
	return domain.AudioObject{Key: key, OriginalName: originalName}, m.err
}

func (m *mockPipeline) AudioURL(ctx context.Context, actorID string, meetingID int64) (string, error) {
	m.actor = actorID
	return "https://blob.test/records/x.wav?sig=1", m.err
}

func (m *mockPipeline) OpenAudio(ctx context.Context, actorID string, meetingID int64) (io.ReadCloser, domain.AudioObject, error) {
	if m.err != nil {
		return nil, domain.AudioObject{}, m.err
	}
	return io.NopCloser(strings.NewReader("RIFF")), domain.AudioObject{Key: "records/x.wav", OriginalName: "회의 녹음.wav", ContentType: "audio/wav"}, nil
}

func (m *mockPipeline) PrepareTranscript(ctx context.Context, meetingID int64) (transcript.Result, error) {
	if m.err != nil {
		return transcript.Result{}, m.err
	}
	return transcript.Normalize("A: hi\nB: hello"), nil
}

func (m *mockPipeline) PrepareSummary(ctx context.Context, meetingID int64) (summary.Result, error) {
	if m.err != nil {
		return summary.Result{}, m.err
	}
	return summary.Result{Summary: "요약", Tasks: []domain.Task{{Description: "write report", AssigneeText: "Kim (Eng)"}}}, nil
}

func (m *mockPipeline) Transcript(ctx context.Context, meetingID int64) (transcript.Result, error) {
	return transcript.Normalize("A: hi"), m.err
}

func (m *mockPipeline) SaveTranscript(ctx context.Context, actorID string, meetingID int64, in pipeline.TranscriptInput) error {
	m.actor, m.transcript = actorID, in
	return m.err
}

func (m *mockPipeline) SaveMinutes(ctx context.Context, actorID string, meetingID int64, body string) error {
	m.actor, m.minutes = actorID, body
	return m.err
}

func (m *mockPipeline) SaveTasks(ctx context.Context, actorID string, meetingID int64, items []pipeline.TaskInput) ([]domain.Task, error) {
	m.actor, m.tasks = actorID, items
	return nil, m.err
}

func (m *mockPipeline) View(ctx context.Context, meetingID int64) (render.MeetingView, error) {
	return render.MeetingView{MeetingID: meetingID, Title: "주간 회의"}, m.err
}

func (m *mockPipeline) Document(ctx context.Context, meetingID int64, format render.Format) (pipeline.Document, error) {
	m.format = format
	if m.err != nil {
		return pipeline.Document{}, m.err
	}
	return pipeline.Document{
		Filename:    render.Filename(meetingID, format),
		ContentType: format.ContentType(),
		Data:        []byte("%PDF-1.3"),
	}, nil
}

func newTestServer(p *mockPipeline) *echo.Echo {
	e := echo.New()
	e.Use(middleware.IdentifyActor)
	NewHandler(p, nil, logger.Nop()).RegisterRoutes(e)
	return e
}

func do(e *echo.Echo, method, target, body, actor string) *httptest.ResponseRecorder {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if actor != "" {
		req.Header.Set(middleware.ActorHeader, actor)
	}
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)
	return res
}

// --- tests ---

func TestUploadAudio(t *testing.T) {
	p := &mockPipeline{}
	e := newTestServer(p)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	fw, err := mw.CreateFormFile("file", "clip.wav")
	if err != nil {
		t.Fatal(err)
	}
	fw.Write([]byte("RIFF"))
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/meetings/3/audio", &body)
	req.Header.Set(echo.HeaderContentType, mw.FormDataContentType())
	req.Header.Set(middleware.ActorHeader, "u-host")
	res := httptest.NewRecorder()
	e.ServeHTTP(res, req)

	if res.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", res.Code, res.Body)
	}
	if p.actor != "u-host" || p.meetingID != 3 || p.filename != "clip.wav" || string(p.data) != "RIFF" {
		t.Errorf("pipeline got actor=%q id=%d name=%q data=%q", p.actor, p.meetingID, p.filename, p.data)
	}

	var got audioResponse
	if err := json.Unmarshal(res.Body.Bytes(), &got); err != nil || got.Key != "records/x.wav" {
		t.Errorf("response = %s (%v)", res.Body, err)
	}
}

func TestUploadAudioWithoutFile(t *testing.T) {
	e := newTestServer(&mockPipeline{})
	res := do(e, http.MethodPost, "/meetings/3/audio", `{}`, "u-host")
	if res.Code != http.StatusBadRequest {
		t.Errorf("expected 400 got %d", res.Code)
	}
}

func TestErrorStatuses(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		method string
		target string
		body   string
		status int
	}{
		{"unsupported media", domain.ValidationError{Code: "unsupported_media_type", Message: "unsupported file type \".txt\""}, http.MethodPost, "/meetings/1/audio/link", `{"key":"a.txt"}`, http.StatusUnsupportedMediaType},
		{"missing audio", domain.ErrMissingAudio, http.MethodPost, "/meetings/1/transcript/prepare", "", http.StatusNotFound},
		{"remote failure", domain.RemoteServiceError{Stage: domain.StageTranscribe, Message: "전사 실패"}, http.MethodPost, "/meetings/1/transcript/prepare", "", http.StatusBadGateway},
		{"empty transcript", domain.ErrEmptyTranscript, http.MethodPost, "/meetings/1/summary/prepare", "", http.StatusBadRequest},
		{"not owner", domain.PermissionError{Action: "save minutes"}, http.MethodPut, "/meetings/1/minutes", `{"content":"x"}`, http.StatusForbidden},
		{"meeting not found", domain.ErrMeetingNotFound, http.MethodGet, "/meetings/1/minutes", "", http.StatusNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestServer(&mockPipeline{err: tt.err})
			res := do(e, tt.method, tt.target, tt.body, "u-1")
			if res.Code != tt.status {
				t.Fatalf("expected %d got %d: %s", tt.status, res.Code, res.Body)
			}
			var body map[string]string
			if err := json.Unmarshal(res.Body.Bytes(), &body); err != nil {
				t.Fatal(err)
			}
			if body["error"] != tt.err.Error() {
				t.Errorf("error = %q, want %q", body["error"], tt.err.Error())
			}
		})
	}
}

func TestInvalidMeetingID(t *testing.T) {
	e := newTestServer(&mockPipeline{})
	for _, target := range []string{"/meetings/abc/minutes", "/meetings/0/minutes"} {
		if res := do(e, http.MethodGet, target, "", ""); res.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400 got %d", target, res.Code)
		}
	}
}

func TestPrepareTranscriptResponse(t *testing.T) {
	e := newTestServer(&mockPipeline{})
	res := do(e, http.MethodPost, "/meetings/1/transcript/prepare", "", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}
	var got transcript.Result
	if err := json.Unmarshal(res.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if len(got.Segments) != 2 || got.Speakers[0] != "A" || got.Speakers[1] != "B" {
		t.Errorf("response = %+v", got)
	}
}

func TestPrepareSummaryResponse(t *testing.T) {
	e := newTestServer(&mockPipeline{})
	res := do(e, http.MethodPost, "/meetings/1/summary/prepare", "", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}
	var got summaryResponse
	if err := json.Unmarshal(res.Body.Bytes(), &got); err != nil {
		t.Fatal(err)
	}
	if got.Summary != "요약" || len(got.Tasks) != 1 || got.Tasks[0].Who != "Kim (Eng)" || got.Tasks[0].When != "직접입력" {
		t.Errorf("response = %+v", got)
	}
	if got.Agendas == nil {
		t.Error("agendas should be an empty list, not null")
	}
}

func TestSaveTasksAliases(t *testing.T) {
	p := &mockPipeline{}
	e := newTestServer(p)

	body := `{"tasks": [
		{"who": "Kim (Eng)", "what": "write report", "when": "2024.12.20"},
		{"assignee": "Lee", "assignee_id": 7, "description": "book room", "due_text": "*"},
		{"who": "", "what": "", "when": ""}
	]}`
	res := do(e, http.MethodPut, "/meetings/2/tasks", body, "u-host")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", res.Code, res.Body)
	}

	want := []pipeline.TaskInput{
		{Assignee: "Kim (Eng)", Description: "write report", Due: "2024.12.20"},
		{AssigneeID: "7", Assignee: "Lee", Description: "book room", Due: "*"},
		{},
	}
	if len(p.tasks) != len(want) {
		t.Fatalf("tasks = %+v", p.tasks)
	}
	for i := range want {
		if p.tasks[i] != want[i] {
			t.Errorf("task %d = %+v, want %+v", i, p.tasks[i], want[i])
		}
	}

	res = do(e, http.MethodPut, "/meetings/2/tasks", `[{"what": "bare list"}]`, "u-host")
	if res.Code != http.StatusOK || len(p.tasks) != 1 || p.tasks[0].Description != "bare list" {
		t.Errorf("bare list: code=%d tasks=%+v", res.Code, p.tasks)
	}

	if res := do(e, http.MethodPut, "/meetings/2/tasks", `"nope"`, "u-host"); res.Code != http.StatusBadRequest {
		t.Errorf("malformed body: expected 400 got %d", res.Code)
	}
}

func TestSaveTranscriptBody(t *testing.T) {
	p := &mockPipeline{}
	e := newTestServer(p)

	res := do(e, http.MethodPut, "/meetings/4/transcript", `{"transcript_structured": [{"A": "hi"}, {"B": "hello"}]}`, "u-host")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", res.Code, res.Body)
	}
	if len(p.transcript.Segments) != 2 || p.transcript.Segments[1].Speaker != "B" {
		t.Errorf("segments = %+v", p.transcript.Segments)
	}

	res = do(e, http.MethodPut, "/meetings/4/transcript", `{"transcript_text": "A: edited"}`, "u-host")
	if res.Code != http.StatusOK || p.transcript.Text != "A: edited" || len(p.transcript.Segments) != 0 {
		t.Errorf("text save: code=%d input=%+v", res.Code, p.transcript)
	}

	res = do(e, http.MethodPut, "/meetings/4/transcript", `{"transcript_structured": "free text"}`, "u-host")
	if res.Code != http.StatusBadRequest {
		t.Errorf("non-list structured: expected 400 got %d", res.Code)
	}
}

func TestSaveMinutesPassesActor(t *testing.T) {
	p := &mockPipeline{}
	e := newTestServer(p)

	res := do(e, http.MethodPut, "/meetings/5/minutes", `{"content": "<p>본문</p>"}`, "u-host")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}
	if p.actor != "u-host" || p.minutes != "<p>본문</p>" {
		t.Errorf("pipeline got actor=%q minutes=%q", p.actor, p.minutes)
	}
}

func TestDownloadMinutes(t *testing.T) {
	p := &mockPipeline{}
	e := newTestServer(p)

	res := do(e, http.MethodGet, "/meetings/6/minutes/download?format=DOCX", "", "")
	if res.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", res.Code)
	}
	if p.format != render.FormatDOCX {
		t.Errorf("format = %q", p.format)
	}
	if got := res.Header().Get(echo.HeaderContentDisposition); got != `attachment; filename="meeting_6_minutes.docx"` {
		t.Errorf("Content-Disposition = %q", got)
	}

	res = do(e, http.MethodGet, "/meetings/6/minutes/download", "", "")
	if res.Code != http.StatusOK || p.format != render.FormatPDF {
		t.Errorf("default format: code=%d format=%q", res.Code, p.format)
	}
	if got := res.Header().Get(echo.HeaderContentType); got != "application/pdf" {
		t.Errorf("Content-Type = %q", got)
	}

	if res := do(e, http.MethodGet, "/meetings/6/minutes/download?format=odt", "", ""); res.Code != http.StatusBadRequest {
		t.Errorf("bad format: expected 400 got %d", res.Code)
	}
}

func TestAudioRedirectAndDownload(t *testing.T) {
	p := &mockPipeline{}
	e := newTestServer(p)

	res := do(e, http.MethodGet, "/meetings/7/audio", "", "u-att")
	if res.Code != http.StatusFound || res.Header().Get("Location") != "https://blob.test/records/x.wav?sig=1" {
		t.Errorf("redirect: code=%d location=%q", res.Code, res.Header().Get("Location"))
	}
	if p.actor != "u-att" {
		t.Errorf("actor = %q", p.actor)
	}

	res = do(e, http.MethodGet, "/meetings/7/audio/download", "", "u-att")
	if res.Code != http.StatusOK || res.Body.String() != "RIFF" {
		t.Fatalf("download: code=%d body=%q", res.Code, res.Body)
	}
	want := `attachment; filename*=UTF-8''%ED%9A%8C%EC%9D%98%20%EB%85%B9%EC%9D%8C.wav; filename="meeting_audio.wav"`
	if got := res.Header().Get(echo.HeaderContentDisposition); got != want {
		t.Errorf("Content-Disposition = %q, want %q", got, want)
	}
}

func TestHealth(t *testing.T) {
	e := newTestServer(&mockPipeline{})
	if res := do(e, http.MethodGet, "/healthz", "", ""); res.Code != http.StatusOK {
		t.Errorf("expected 200 got %d", res.Code)
	}
}
