package search

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "concierge:search:"

// CachedProvider answers repeated queries from Redis. Redis being unreachable
// only costs the cache: lookups and writes that fail fall through to next.
type CachedProvider struct {
	next Provider
	rdb  redis.Cmdable
	ttl  time.Duration
}

var _ Provider = &CachedProvider{}

func NewCachedProvider(next Provider, rdb redis.Cmdable, ttl time.Duration) *CachedProvider {
	return &CachedProvider{next: next, rdb: rdb, ttl: ttl}
}

func (c *CachedProvider) Search(ctx context.Context, query string, maxResults int) ([]Result, error) {
	if c.rdb == nil {
		return c.next.Search(ctx, query, maxResults)
	}

	key := cacheKey(query, maxResults)
	if val, err := c.rdb.Get(ctx, key).Result(); err == nil && val != "" {
		var cached []Result
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			return cached, nil
		}
	} else if err != nil && !errors.Is(err, redis.Nil) && ctx.Err() != nil {
		return nil, ctx.Err()
	}

	results, err := c.next.Search(ctx, query, maxResults)
	if err != nil {
		return nil, err
	}
	if len(results) > 0 {
		if payload, err := json.Marshal(results); err == nil {
			_ = c.rdb.Set(ctx, key, payload, c.ttl).Err()
		}
	}
	return results, nil
}

func cacheKey(query string, maxResults int) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%d|%s", maxResults, strings.ToLower(strings.TrimSpace(query)))))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}
