package render

import (
	"context"
	"fmt"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
)

type implRenderer struct {
	cfg    config.RendererConfig
	logger logger.Logger
}

// New creates a Renderer. Init must have run for documents to carry the
// configured TTF font; without it PDFs fall back to a core font.
func New(cfg config.RendererConfig, log logger.Logger) Renderer {
	return &implRenderer{cfg: cfg, logger: log}
}

func (r *implRenderer) Render(ctx context.Context, view MeetingView, format Format) ([]byte, error) {
	start := time.Now()

	var (
		out []byte
		err error
	)
	switch format {
	case FormatPDF:
		out, err = renderPDF(view)
	case FormatDOCX:
		out, err = renderDOCX(view, r.cfg.FontName)
	default:
		_, err = ParseFormat(string(format))
	}
	if err != nil {
		return nil, fmt.Errorf("render %s: %w", format, err)
	}

	r.logger.Debug(ctx, "Rendered meeting %d as %s (%d bytes) in %s", view.MeetingID, format, len(out), time.Since(start))
	return out, nil
}
