package storage

import (
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/nguyentantai21042004/minutes-flow/internal/logger"
)

type implStore struct {
	registry Registry
	blob     Blob
	opts     Options
	urls     *cache.Cache
	logger   logger.Logger
	now      func() time.Time
}

// New creates a Store. Presigned URLs are cached for half their lifetime.
func New(registry Registry, blob Blob, opts Options, log logger.Logger) Store {
	if opts.UploadTTL <= 0 {
		opts.UploadTTL = 48 * time.Hour
	}
	if opts.LinkTTL <= 0 {
		opts.LinkTTL = 30 * 24 * time.Hour
	}
	if opts.PresignTTL <= 0 {
		opts.PresignTTL = 10 * time.Minute
	}

	return &implStore{
		registry: registry,
		blob:     blob,
		opts:     opts,
		urls:     cache.New(opts.PresignTTL/2, opts.PresignTTL),
		logger:   log,
		now:      time.Now,
	}
}
