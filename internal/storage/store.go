package storage

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
)

// Put uploads data under a fresh key and registers it to expire after ttl.
// A non-positive ttl uses the upload default.
func (s *implStore) Put(ctx context.Context, data []byte, filename string, ttl time.Duration) (domain.AudioObject, error) {
	ext, contentType, err := ContentType(filename)
	if err != nil {
		return domain.AudioObject{}, err
	}
	if len(data) == 0 {
		return domain.AudioObject{}, domain.ValidationError{Code: "empty_upload", Message: "uploaded file is empty"}
	}
	if ttl <= 0 {
		ttl = s.opts.UploadTTL
	}

	key := s.opts.KeyPrefix + uuid.NewString() + "." + ext
	if err := s.blob.Put(ctx, key, contentType, data); err != nil {
		return domain.AudioObject{}, fmt.Errorf("upload %s: %w", key, err)
	}

	now := s.now()
	obj := domain.AudioObject{
		Key:          key,
		OriginalName: filepath.Base(filename),
		ContentType:  contentType,
		URL:          s.blob.URL(key),
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}

	if err := s.registry.CreateAudio(ctx, obj); err != nil {
		// Without a registry row the reaper would never find the blob.
		if rmErr := s.blob.Remove(ctx, key); rmErr != nil {
			s.logger.Warn(ctx, "Failed to remove orphaned blob %s: %v", key, rmErr)
		}
		return domain.AudioObject{}, fmt.Errorf("register %s: %w", key, err)
	}

	s.logger.Info(ctx, "Stored %s as %s (%d bytes, expires %s)", obj.OriginalName, key, len(data), obj.ExpiresAt.Format(time.RFC3339))
	return obj, nil
}

// Register links a key that already exists in the bucket and issues it a
// new expiry. A non-positive ttl uses the link default.
func (s *implStore) Register(ctx context.Context, key, originalName string, ttl time.Duration) (domain.AudioObject, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return domain.AudioObject{}, domain.ValidationError{Code: "missing_key", Message: "storage key is required"}
	}
	if ttl <= 0 {
		ttl = s.opts.LinkTTL
	}

	contentType := "application/octet-stream"
	if _, ct, err := ContentType(key); err == nil {
		contentType = ct
	}
	if originalName == "" {
		originalName = filepath.Base(key)
	}

	now := s.now()
	obj := domain.AudioObject{
		Key:          key,
		OriginalName: originalName,
		ContentType:  contentType,
		URL:          s.blob.URL(key),
		CreatedAt:    now,
		ExpiresAt:    now.Add(ttl),
	}
	if err := s.registry.UpsertAudio(ctx, obj); err != nil {
		return domain.AudioObject{}, fmt.Errorf("register %s: %w", key, err)
	}
	s.urls.Delete(key)
	return obj, nil
}

// URLFor issues a presigned GET for key. The registry is the source of
// truth: a key it does not know, or one already past expiry, is not found
// even if the blob still exists.
func (s *implStore) URLFor(ctx context.Context, key string) (string, error) {
	obj, err := s.registry.GetAudio(ctx, key)
	if err != nil {
		return "", err
	}
	if obj.Expired(s.now()) {
		s.urls.Delete(key)
		return "", domain.ErrAudioNotFound
	}

	if cached, ok := s.urls.Get(key); ok {
		return cached.(string), nil
	}

	url, err := s.blob.PresignGet(ctx, key, s.opts.PresignTTL)
	if err != nil {
		return "", fmt.Errorf("presign %s: %w", key, err)
	}
	s.urls.Set(key, url, cache.DefaultExpiration)
	return url, nil
}

// Open streams a registered blob.
func (s *implStore) Open(ctx context.Context, key string) (io.ReadCloser, domain.AudioObject, error) {
	obj, err := s.registry.GetAudio(ctx, key)
	if err != nil {
		return nil, domain.AudioObject{}, err
	}
	rc, err := s.blob.Open(ctx, key)
	if err != nil {
		return nil, domain.AudioObject{}, err
	}
	return rc, obj, nil
}

// SweepExpired deletes every object that had expired when the sweep began.
// The expired set is snapshotted first, so objects created or renewed while
// the sweep runs are left alone. The registry row goes first and only under
// the same expiry condition; the blob is removed only once its row is gone.
// A failure on one object is logged and the sweep moves on.
func (s *implStore) SweepExpired(ctx context.Context) (int, error) {
	start := s.now()

	expired, err := s.registry.ListExpiredAudio(ctx, start)
	if err != nil {
		return 0, fmt.Errorf("list expired audio: %w", err)
	}
	if len(expired) == 0 {
		s.logger.Debug(ctx, "Sweep found no expired audio")
		return 0, nil
	}

	deleted := 0
	for _, obj := range expired {
		if err := ctx.Err(); err != nil {
			return deleted, err
		}

		ok, err := s.registry.DeleteAudio(ctx, obj.Key, start)
		if err != nil {
			s.logger.Warn(ctx, "Sweep failed to delete record %s: %v", obj.Key, err)
			continue
		}
		if !ok {
			s.logger.Debug(ctx, "Sweep skipping renewed %s", obj.Key)
			continue
		}
		s.urls.Delete(obj.Key)

		if err := s.blob.Remove(ctx, obj.Key); err != nil {
			s.logger.Warn(ctx, "Sweep failed to remove blob %s: %v", obj.Key, err)
			// Put the row back so the next sweep retries the blob.
			if restoreErr := s.registry.CreateAudio(ctx, obj); restoreErr != nil {
				s.logger.Error(ctx, "Blob %s is orphaned: %v", obj.Key, restoreErr)
			}
			continue
		}
		deleted++
	}

	s.logger.Info(ctx, "Sweep removed %d of %d expired audio objects", deleted, len(expired))
	return deleted, nil
}
