package sllm

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/config"
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
)

type implRemote struct {
	baseURL string
	http    *http.Client
	logger  logger.Logger
}

// NewRemote creates a Client for the inference service at baseURL.
func NewRemote(baseURL string, timeout time.Duration, log logger.Logger) Client {
	return &implRemote{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  log,
	}
}

// New picks the backend named in cfg.
func New(cfg config.SLLMConfig, log logger.Logger) (Client, error) {
	switch cfg.Backend {
	case config.SLLMBackendRemote, "":
		return NewRemote(cfg.BaseURL, cfg.Timeout, log), nil
	case config.SLLMBackendGemini:
		return NewGemini(cfg.Gemini.Model, cfg.Gemini.APIKeys, cfg.Timeout, log), nil
	default:
		return nil, fmt.Errorf("unknown sllm backend %q", cfg.Backend)
	}
}
