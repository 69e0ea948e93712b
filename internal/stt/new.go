package stt

import (
	"net/http"
	"strings"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
)

type implClient struct {
	baseURL string
	http    *http.Client
	logger  logger.Logger
}

// New creates a Client for the service at baseURL. The timeout bounds one
// whole transcription call.
func New(baseURL string, timeout time.Duration, log logger.Logger) Client {
	return &implClient{
		baseURL: strings.TrimRight(baseURL, "/"),
		http:    &http.Client{Timeout: timeout},
		logger:  log,
	}
}
