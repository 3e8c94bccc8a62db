// Package cache provides the read-through cache used by the catalog, address and dashboard endpoints.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/config"
)

// Cache stores JSON-encodable values under string keys.
type Cache interface {
	// Get decodes the value stored at key into dst and reports whether it was found.
	Get(ctx context.Context, key string, dst interface{}) (bool, error)
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	// DeletePrefix removes every key beginning with prefix.
	DeletePrefix(ctx context.Context, prefix string) error
}

// Key prefixes
const (
	PrefixProducts  = "products:"
	PrefixDashboard = "dashboard:"
	PrefixAddress   = "address:"
	PrefixBanners   = "banners:"
)

// New returns a Redis cache when enabled, otherwise an in-process one.
func New(settings config.RedisSettings) (Cache, error) {
	if !settings.Enabled {
		return NewMemoryCache(), nil
	}
	return NewRedisCache(settings)
}

// Remember returns the cached value for key or loads, stores and returns it.
// Cache failures degrade to calling load.
func Remember(ctx context.Context, c Cache, key string, ttl time.Duration, dst interface{}, load func() (interface{}, error)) error {
	if found, err := c.Get(ctx, key, dst); err == nil && found {
		return nil
	}

	value, err := load()
	if err != nil {
		return err
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode cache value: %w", err)
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return fmt.Errorf("failed to decode cache value: %w", err)
	}

	_ = c.Set(ctx, key, value, ttl)
	return nil
}
