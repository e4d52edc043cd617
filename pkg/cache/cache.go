package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto"
	"github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/marshaler"
	"github.com/eko/gocache/lib/v4/store"
	ristrettostore "github.com/eko/gocache/store/ristretto/v4"
	"github.com/rs/zerolog/log"
)

// Cache is an in-process, msgpack-marshaled cache. A nil *Cache is valid and never hits.
type Cache struct {
	marshal *marshaler.Marshaler
	ttl     time.Duration
}

// New builds a ristretto backed cache whose entries expire after ttl.
func New(ttl time.Duration) (*Cache, error) {
	client, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 1e6,
		MaxCost:     1 << 27,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create ristretto cache: %w", err)
	}
	manager := cache.New[any](ristrettostore.NewRistretto(client))
	return &Cache{marshal: marshaler.New(manager), ttl: ttl}, nil
}

// Get decodes the entry under key into out and reports whether it was found.
func (c *Cache) Get(ctx context.Context, key string, out any) bool {
	if c == nil {
		return false
	}
	if _, err := c.marshal.Get(ctx, key, out); err != nil {
		return false
	}
	return true
}

// Set stores value under key. Failures are logged and otherwise ignored.
func (c *Cache) Set(ctx context.Context, key string, value any, tags ...string) {
	if c == nil {
		return
	}
	opts := []store.Option{store.WithExpiration(c.ttl)}
	if len(tags) > 0 {
		opts = append(opts, store.WithTags(tags))
	}
	if err := c.marshal.Set(ctx, key, value, opts...); err != nil {
		log.Warn().Err(err).Str("key", key).Msg("cache set failed")
	}
}

// Invalidate drops every entry carrying one of the tags.
func (c *Cache) Invalidate(ctx context.Context, tags ...string) {
	if c == nil || len(tags) == 0 {
		return
	}
	if err := c.marshal.Invalidate(ctx, store.WithInvalidateTags(tags)); err != nil {
		log.Warn().Err(err).Strs("tags", tags).Msg("cache invalidate failed")
	}
}
