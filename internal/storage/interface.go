package storage

import (
	"context"
	"io"
	"time"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
)

// Store manages transient audio blobs: upload, presigned retrieval and
// deletion once they expire.
type Store interface {
	Put(ctx context.Context, data []byte, filename string, ttl time.Duration) (domain.AudioObject, error)
	Register(ctx context.Context, key, originalName string, ttl time.Duration) (domain.AudioObject, error)
	URLFor(ctx context.Context, key string) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, domain.AudioObject, error)
	SweepExpired(ctx context.Context) (int, error)
}

// Registry is the durable record of which blobs exist and when they expire.
type Registry interface {
	CreateAudio(ctx context.Context, obj domain.AudioObject) error
	// UpsertAudio replaces the expiry of an existing key or inserts it.
	UpsertAudio(ctx context.Context, obj domain.AudioObject) error
	GetAudio(ctx context.Context, key string) (domain.AudioObject, error)
	ListExpiredAudio(ctx context.Context, before time.Time) ([]domain.AudioObject, error)
	// DeleteAudio removes the record only if it still expires before the
	// given instant, clearing meeting references. It reports whether a row went.
	DeleteAudio(ctx context.Context, key string, expiredBefore time.Time) (bool, error)
}

// Blob is the object storage backend.
type Blob interface {
	Put(ctx context.Context, key, contentType string, data []byte) error
	PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error)
	Open(ctx context.Context, key string) (io.ReadCloser, error)
	Remove(ctx context.Context, key string) error
	URL(key string) string
}

// Options tune key naming and lifetimes.
type Options struct {
	KeyPrefix  string
	UploadTTL  time.Duration
	LinkTTL    time.Duration
	PresignTTL time.Duration
}
