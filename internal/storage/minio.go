package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/url"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"github.com/nguyentantai21042004/minutes-flow/internal/domain"
)

// MinioOptions configures an S3-compatible bucket.
type MinioOptions struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	Region    string
	UseSSL    bool
}

type minioBlob struct {
	client *minio.Client
	opts   MinioOptions
}

// NewMinioBlob connects to an S3-compatible endpoint.
func NewMinioBlob(opts MinioOptions) (Blob, error) {
	client, err := minio.New(opts.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(opts.AccessKey, opts.SecretKey, ""),
		Secure: opts.UseSSL,
		Region: opts.Region,
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}
	return &minioBlob{client: client, opts: opts}, nil
}

// EnsureBucket creates the bucket when it does not exist yet.
func EnsureBucket(ctx context.Context, b Blob) error {
	mb, ok := b.(*minioBlob)
	if !ok {
		return nil
	}
	exists, err := mb.client.BucketExists(ctx, mb.opts.Bucket)
	if err != nil {
		return fmt.Errorf("check bucket %s: %w", mb.opts.Bucket, err)
	}
	if exists {
		return nil
	}
	if err := mb.client.MakeBucket(ctx, mb.opts.Bucket, minio.MakeBucketOptions{Region: mb.opts.Region}); err != nil {
		return fmt.Errorf("create bucket %s: %w", mb.opts.Bucket, err)
	}
	return nil
}

func (b *minioBlob) Put(ctx context.Context, key, contentType string, data []byte) error {
	_, err := b.client.PutObject(ctx, b.opts.Bucket, key, bytes.NewReader(data), int64(len(data)), minio.PutObjectOptions{
		ContentType: contentType,
	})
	return err
}

func (b *minioBlob) PresignGet(ctx context.Context, key string, ttl time.Duration) (string, error) {
	u, err := b.client.PresignedGetObject(ctx, b.opts.Bucket, key, ttl, url.Values{})
	if err != nil {
		return "", err
	}
	return u.String(), nil
}

func (b *minioBlob) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	obj, err := b.client.GetObject(ctx, b.opts.Bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, mapMinioError(err)
	}
	// GetObject is lazy; Stat surfaces a missing key before streaming starts.
	if _, err := obj.Stat(); err != nil {
		obj.Close()
		return nil, mapMinioError(err)
	}
	return obj, nil
}

func (b *minioBlob) Remove(ctx context.Context, key string) error {
	err := b.client.RemoveObject(ctx, b.opts.Bucket, key, minio.RemoveObjectOptions{})
	if err != nil && minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return nil
	}
	return err
}

// URL is the canonical, unsigned location of key.
func (b *minioBlob) URL(key string) string {
	scheme := "http"
	if b.opts.UseSSL {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s/%s/%s", scheme, b.opts.Endpoint, b.opts.Bucket, key)
}

func mapMinioError(err error) error {
	if minio.ToErrorResponse(err).Code == "NoSuchKey" {
		return domain.ErrAudioNotFound
	}
	return err
}
