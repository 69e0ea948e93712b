package summary

import (
	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
)

type implExtractor struct {
	users  UserDirectory
	logger logger.Logger
}

// New creates an Extractor resolving assignees through users.
func New(users UserDirectory, log logger.Logger) Extractor {
	return &implExtractor{
		users:  users,
		logger: log,
	}
}
