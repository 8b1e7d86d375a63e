package service

import (
	"context"
	"encoding/json"
	"time"

	"digistore/internal/cache"
)

const (
	catalogCachePrefix = "catalog:"
	catalogCacheTTL    = 10 * time.Minute
)

// cachedJSON returns the cached value for key or loads, caches and returns it.
// Redis failures degrade to a direct load.
func cachedJSON[T any](ctx context.Context, c *cache.Client, key string, load func() (T, error)) (T, error) {
	if data, _ := c.Get(ctx, key); data != nil {
		var cached T
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
	}

	value, err := load()
	if err != nil {
		return value, err
	}

	if payload, err := json.Marshal(value); err == nil {
		_ = c.Set(ctx, key, payload, catalogCacheTTL)
	}
	return value, nil
}

// invalidateCatalog drops every cached category and product view.
func invalidateCatalog(ctx context.Context, c *cache.Client) {
	_ = c.DeletePrefix(ctx, catalogCachePrefix)
}
