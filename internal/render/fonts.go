package render

import (
	"fmt"
	"os"
	"sync"

	"github.com/nguyentantai21042004/minutes-flow/internal/config"
)

type fontFace struct {
	name string
	data []byte
}

var (
	fontMu     sync.RWMutex
	registered *fontFace
)

// Init registers the document font once at process start. Calling it again
// with a name that is already registered does nothing. An empty font path
// leaves PDFs on the built-in core font, which cannot draw Hangul.
func Init(cfg config.RendererConfig) error {
	fontMu.Lock()
	defer fontMu.Unlock()

	if registered != nil && registered.name == cfg.FontName {
		return nil
	}
	if cfg.FontPath == "" {
		return nil
	}

	data, err := os.ReadFile(cfg.FontPath)
	if err != nil {
		return fmt.Errorf("font file not found: %w", err)
	}
	registered = &fontFace{name: cfg.FontName, data: data}
	return nil
}

func currentFont() *fontFace {
	fontMu.RLock()
	defer fontMu.RUnlock()
	return registered
}
