package pipeline

import (
	"time"

	"go.opentelemetry.io/otel"
	"golang.org/x/sync/singleflight"

	"github.com/nguyentantai21042004/minutes-flow/internal/audio"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
	"github.com/nguyentantai21042004/minutes-flow/internal/render"
	"github.com/nguyentantai21042004/minutes-flow/internal/sllm"
	"github.com/nguyentantai21042004/minutes-flow/internal/storage"
	"github.com/nguyentantai21042004/minutes-flow/internal/stt"
	"github.com/nguyentantai21042004/minutes-flow/internal/summary"
)

var tracer = otel.Tracer("minutes/pipeline")

// Deps are the collaborators of a Pipeline. Transcoder, Cache and Events
// are optional.
type Deps struct {
	Meetings   MeetingRepository
	Users      UserRepository
	Store      storage.Store
	Transcoder audio.Transcoder
	STT        stt.Client
	SLLM       sllm.Client
	Extractor  summary.Extractor
	Renderer   render.Renderer
	Cache      DocumentCache
	Events     EventPublisher
}

type implPipeline struct {
	Deps
	flights singleflight.Group
	logger  logger.Logger
	now     func() time.Time
}

// New creates a new Pipeline instance
func New(deps Deps, log logger.Logger) Pipeline {
	return &implPipeline{
		Deps:   deps,
		logger: log,
		now:    time.Now,
	}
}
