// Package cache keeps rendered minutes documents in memcached.
package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bradfitz/gomemcache/memcache"
	"github.com/zeebo/xxh3"
)

const keyPrefix = "minutes:doc:"

type DocumentCache struct {
	mc       *memcache.Client
	lifetime time.Duration
}

func NewDocumentCache(mc *memcache.Client, lifetime time.Duration) *DocumentCache {
	return &DocumentCache{mc: mc, lifetime: lifetime}
}

// Fingerprint names a rendered document by the content it was rendered from,
// so an edited meeting never hits a stale entry.
func Fingerprint(format string, content []byte) string {
	return fmt.Sprintf("%s%s:%016x", keyPrefix, format, xxh3.Hash(content))
}

// Get looks up the document rendered as format from content. Any memcached
// failure is a miss.
func (c *DocumentCache) Get(ctx context.Context, format string, content []byte) ([]byte, bool) {
	if c == nil || c.mc == nil {
		return nil, false
	}
	item, err := c.mc.Get(Fingerprint(format, content))
	if err != nil {
		return nil, false
	}
	return item.Value, true
}

func (c *DocumentCache) Set(ctx context.Context, format string, content, data []byte) error {
	if c == nil || c.mc == nil {
		return nil
	}
	err := c.mc.Set(&memcache.Item{
		Key:        Fingerprint(format, content),
		Value:      data,
		Expiration: int32(c.lifetime / time.Second),
	})
	if errors.Is(err, memcache.ErrNoServers) {
		return nil
	}
	return err
}
