package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
	"github.com/nguyentantai21042004/minutes-flow/internal/interface/rest/middleware"
	"github.com/nguyentantai21042004/minutes-flow/internal/interface/rest/presenter"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/pipeline"
	"github.com/nguyentantai21042004/minutes-flow/internal/render"
	"github.com/nguyentantai21042004/minutes-flow/internal/transcript"
)

// Subscriber streams status events of one meeting until ctx is done.
type Subscriber interface {
	Subscribe(ctx context.Context, meetingID int64) (<-chan domain.Event, error)
}

type Handler struct {
	pipeline pipeline.Pipeline
	signal   Subscriber
	logger   logger.Logger
}

func NewHandler(p pipeline.Pipeline, signal Subscriber, log logger.Logger) *Handler {
	return &Handler{
		pipeline: p,
		signal:   signal,
		logger:   log,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.handleHealth)

	g := e.Group("/meetings/:id")
	g.POST("/audio", h.handleUploadAudio)
	g.POST("/audio/link", h.handleLinkAudio)
	g.GET("/audio", h.handleAudioURL)
	g.GET("/audio/download", h.handleAudioDownload)
	g.POST("/transcript/prepare", h.handlePrepareTranscript)
	g.GET("/transcript", h.handleTranscript)
	g.PUT("/transcript", h.handleSaveTranscript)
	g.POST("/summary/prepare", h.handlePrepareSummary)
	g.GET("/minutes", h.handleMinutes)
	g.PUT("/minutes", h.handleSaveMinutes)
	g.GET("/minutes/download", h.handleDownloadMinutes)
	g.PUT("/tasks", h.handleSaveTasks)
	if h.signal != nil {
		g.GET("/events", h.handleEvents)
	}
}

func (h *Handler) handleHealth(c echo.Context) error {
	return presenter.OK(c, echo.Map{"status": "ok"})
}

type audioResponse struct {
	Key          string    `json:"key"`
	OriginalName string    `json:"original_name"`
	ContentType  string    `json:"content_type,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func newAudioResponse(obj domain.AudioObject) audioResponse {
	return audioResponse{
		Key:          obj.Key,
		OriginalName: obj.OriginalName,
		ContentType:  obj.ContentType,
		ExpiresAt:    obj.ExpiresAt,
	}
}

func (h *Handler) handleUploadAudio(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := meetingID(c)
	if err != nil {
		return presenter.Error(c, err)
	}

	fh, err := c.FormFile("file")
	if err != nil {
		return presenter.BadRequestMessage(c, "multipart field \"file\" is required")
	}
	f, err := fh.Open()
	if err != nil {
		return presenter.Error(c, err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return presenter.Error(c, err)
	}

	obj, err := h.pipeline.AttachAudio(ctx, middleware.ActorID(ctx), id, fh.Filename, data)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, newAudioResponse(obj))
}

type linkRequest struct {
	Key          string `json:"key"`
	OriginalName string `json:"original_name"`
	TTLSeconds   int64  `json:"ttl_seconds"`
}

func (h *Handler) handleLinkAudio(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := meetingID(c)
	if err != nil {
		return presenter.Error(c, err)
	}

	var req linkRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequestMessage(c, "invalid request body")
	}
	if strings.TrimSpace(req.Key) == "" {
		return presenter.BadRequestMessage(c, "key is required")
	}

	ttl := time.Duration(req.TTLSeconds) * time.Second
	obj, err := h.pipeline.LinkAudio(ctx, middleware.ActorID(ctx), id, req.Key, req.OriginalName, ttl)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, newAudioResponse(obj))
}

func (h *Handler) handleAudioURL(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := meetingID(c)
	if err != nil {
		return presenter.Error(c, err)
	}

	target, err := h.pipeline.AudioURL(ctx, middleware.ActorID(ctx), id)
	if err != nil {
		return presenter.Error(c, err)
	}
	return c.Redirect(http.StatusFound, target)
}

func (h *Handler) handleAudioDownload(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := meetingID(c)
	if err != nil {
		return presenter.Error(c, err)
	}

	rc, obj, err := h.pipeline.OpenAudio(ctx, middleware.ActorID(ctx), id)
	if err != nil {
		return presenter.Error(c, err)
	}
	defer rc.Close()

	name := obj.OriginalName
	if name == "" {
		name = fmt.Sprintf("meeting_%d.wav", id)
	}
	contentType := obj.ContentType
	if contentType == "" {
		contentType = "audio/wav"
	}

	c.Response().Header().Set(echo.HeaderContentDisposition,
		fmt.Sprintf(`attachment; filename*=UTF-8''%s; filename="meeting_audio.wav"`, url.PathEscape(name)))
	return c.Stream(http.StatusOK, contentType, rc)
}

func (h *Handler) handlePrepareTranscript(c echo.Context) error {
	id, err := meetingID(c)
	if err != nil {
		return presenter.Error(c, err)
	}

	result, err := h.pipeline.PrepareTranscript(c.Request().Context(), id)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, result)
}

func (h *Handler) handleTranscript(c echo.Context) error {
	id, err := meetingID(c)
	if err != nil {
		return presenter.Error(c, err)
	}

	result, err := h.pipeline.Transcript(c.Request().Context(), id)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, result)
}

type transcriptRequest struct {
	Structured json.RawMessage `json:"transcript_structured"`
	Text       string          `json:"transcript_text"`
}

func (h *Handler) handleSaveTranscript(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := meetingID(c)
	if err != nil {
		return presenter.Error(c, err)
	}

	var req transcriptRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequestMessage(c, "invalid request body")
	}

	in := pipeline.TranscriptInput{Text: req.Text}
	if raw := strings.TrimSpace(string(req.Structured)); raw != "" && raw != "null" {
		parsed := transcript.Normalize(raw)
		if !parsed.Structured {
			return presenter.BadRequestMessage(c, "transcript_structured must be a list of {speaker: text} objects")
		}
		in.Segments = parsed.Segments
	}

	if err := h.pipeline.SaveTranscript(ctx, middleware.ActorID(ctx), id, in); err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

type summaryResponse struct {
	Summary string               `json:"summary"`
	Agendas []domain.AgendaItem  `json:"agendas"`
	Tasks   []domain.TaskDisplay `json:"tasks"`
}

func (h *Handler) handlePrepareSummary(c echo.Context) error {
	id, err := meetingID(c)
	if err != nil {
		return presenter.Error(c, err)
	}

	result, err := h.pipeline.PrepareSummary(c.Request().Context(), id)
	if err != nil {
		return presenter.Error(c, err)
	}

	res := summaryResponse{
		Summary: result.Summary,
		Agendas: result.Agendas,
		Tasks:   make([]domain.TaskDisplay, 0, len(result.Tasks)),
	}
	if res.Agendas == nil {
		res.Agendas = []domain.AgendaItem{}
	}
	for _, t := range result.Tasks {
		res.Tasks = append(res.Tasks, t.Display())
	}
	return presenter.OK(c, res)
}

func (h *Handler) handleMinutes(c echo.Context) error {
	id, err := meetingID(c)
	if err != nil {
		return presenter.Error(c, err)
	}

	view, err := h.pipeline.View(c.Request().Context(), id)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, view)
}

type minutesRequest struct {
	Content string `json:"content"`
}

func (h *Handler) handleSaveMinutes(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := meetingID(c)
	if err != nil {
		return presenter.Error(c, err)
	}

	var req minutesRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequestMessage(c, "invalid request body")
	}

	if err := h.pipeline.SaveMinutes(ctx, middleware.ActorID(ctx), id, req.Content); err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"status": "ok"})
}

func (h *Handler) handleDownloadMinutes(c echo.Context) error {
	id, err := meetingID(c)
	if err != nil {
		return presenter.Error(c, err)
	}

	format := render.FormatPDF
	if q := c.QueryParam("format"); q != "" {
		if format, err = render.ParseFormat(q); err != nil {
			return presenter.Error(c, err)
		}
	}

	doc, err := h.pipeline.Document(c.Request().Context(), id, format)
	if err != nil {
		return presenter.Error(c, err)
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, doc.Filename))
	return c.Blob(http.StatusOK, doc.ContentType, doc.Data)
}

func (h *Handler) handleSaveTasks(c echo.Context) error {
	ctx := c.Request().Context()
	id, err := meetingID(c)
	if err != nil {
		return presenter.Error(c, err)
	}

	raw, err := io.ReadAll(c.Request().Body)
	if err != nil {
		return presenter.BadRequestMessage(c, "invalid request body")
	}
	items, err := decodeTaskRows(raw)
	if err != nil {
		return presenter.BadRequestMessage(c, err.Error())
	}

	tasks, err := h.pipeline.SaveTasks(ctx, middleware.ActorID(ctx), id, items)
	if err != nil {
		return presenter.Error(c, err)
	}

	displays := make([]domain.TaskDisplay, 0, len(tasks))
	for _, t := range tasks {
		displays = append(displays, t.Display())
	}
	return presenter.OK(c, echo.Map{"status": "ok", "tasks": displays})
}

func meetingID(c echo.Context) (int64, error) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, domain.ValidationError{Code: "invalid_meeting_id", Message: "invalid meeting id"}
	}
	return id, nil
}
