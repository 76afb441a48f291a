package server

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taletrail/trailgen/internal/game"
)

const (
	templateCacheKey = "trailgen:templates"
	templateCacheTTL = 5 * time.Minute
)

// TemplateCache is a read-through Redis cache in front of the template
// catalog. With a nil client it degrades to plain store reads, so the
// server runs fine without Redis. Cache failures are logged and treated
// as misses; the store stays the source of truth.
type TemplateCache struct {
	rdb    *redis.Client
	logger *slog.Logger
}

func NewTemplateCache(rdb *redis.Client, logger *slog.Logger) *TemplateCache {
	return &TemplateCache{rdb: rdb, logger: logger}
}

func (c *TemplateCache) List(ctx context.Context, store Store) ([]game.Template, error) {
	if c.rdb != nil {
		raw, err := c.rdb.Get(ctx, templateCacheKey).Bytes()
		if err == nil {
			var templates []game.Template
			if err := json.Unmarshal(raw, &templates); err == nil {
				return templates, nil
			}
		} else if err != redis.Nil {
			c.logger.Warn("template cache read failed", "error", err)
		}
	}

	templates, err := store.ListTemplates(ctx)
	if err != nil {
		return nil, err
	}

	if c.rdb != nil {
		raw, err := json.Marshal(templates)
		if err == nil {
			if err := c.rdb.Set(ctx, templateCacheKey, raw, templateCacheTTL).Err(); err != nil {
				c.logger.Warn("template cache write failed", "error", err)
			}
		}
	}
	return templates, nil
}

// Invalidate drops the cached catalog after any admin write.
func (c *TemplateCache) Invalidate(ctx context.Context) {
	if c.rdb == nil {
		return
	}
	if err := c.rdb.Del(ctx, templateCacheKey).Err(); err != nil {
		c.logger.Warn("template cache invalidation failed", "error", err)
	}
}
