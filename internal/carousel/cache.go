package carousel

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/mxkvch/valentine/internal/logger"
)

const listingKey = "valentine:carousel:listing"

// ListingCache keeps the computed image index in Redis for a short TTL so a
// busy carousel does not relist the bucket on every request. A nil cache is
// valid and always misses.
type ListingCache struct {
	client *redis.Client
	ttl    time.Duration
	log    logger.Logger
}

func NewListingCache(client *redis.Client, ttl time.Duration, log logger.Logger) *ListingCache {
	return &ListingCache{client: client, ttl: ttl, log: log}
}

// Get returns the cached index, or ok=false on a miss. Redis errors degrade
// to a miss; the bucket listing is the source of truth.
func (c *ListingCache) Get(ctx context.Context) (map[string]string, bool) {
	if c == nil || c.client == nil {
		return nil, false
	}

	raw, err := c.client.Get(ctx, listingKey).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("carousel listing cache read failed", logger.Error(err))
		}
		return nil, false
	}

	var index map[string]string
	if err := json.Unmarshal(raw, &index); err != nil {
		c.log.Warn("carousel listing cache holds invalid payload", logger.Error(err))
		return nil, false
	}
	return index, true
}

// Set stores the index with the configured TTL. Failures are logged, never
// surfaced: caching is an optimization.
func (c *ListingCache) Set(ctx context.Context, index map[string]string) {
	if c == nil || c.client == nil {
		return
	}

	raw, err := json.Marshal(index)
	if err != nil {
		c.log.Warn("carousel listing cache encode failed", logger.Error(err))
		return
	}
	if err := c.client.Set(ctx, listingKey, raw, c.ttl).Err(); err != nil {
		c.log.Warn("carousel listing cache write failed", logger.Error(err))
	}
}
