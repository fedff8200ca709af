package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/itinera/console/internal/itinera"
)

const tagCacheKey = "itinera:tags"

// TagCache serves the tag taxonomy from redis, falling through to the
// upstream on miss or on cache trouble. The taxonomy is global, so one key
// serves every session; a fresh token is still required for the upstream
// fetch itself.
type TagCache struct {
	rdb      *redis.Client
	upstream Upstream
	ttl      time.Duration
	logger   *slog.Logger
}

func NewTagCache(rdb *redis.Client, upstream Upstream, ttl time.Duration, logger *slog.Logger) *TagCache {
	return &TagCache{rdb: rdb, upstream: upstream, ttl: ttl, logger: logger}
}

func (c *TagCache) List(ctx context.Context, token string) ([]itinera.Tag, error) {
	if data, err := c.rdb.Get(ctx, tagCacheKey).Bytes(); err == nil {
		var tags []itinera.Tag
		if json.Unmarshal(data, &tags) == nil {
			return tags, nil
		}
	} else if err != redis.Nil {
		c.logger.Warn("tag cache read failed", "error", err)
	}

	tags, err := c.upstream.Tags(ctx, token)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(tags); err == nil {
		if err := c.rdb.Set(ctx, tagCacheKey, data, c.ttl).Err(); err != nil {
			c.logger.Warn("tag cache write failed", "error", err)
		}
	}
	return tags, nil
}
