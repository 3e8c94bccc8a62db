package cache

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/InfinityZero3000/John-Henry-Website-sub003/config"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stats struct {
	Orders  int    `json:"orders"`
	Revenue string `json:"revenue"`
}

func exerciseCache(t *testing.T, c Cache) {
	ctx := context.Background()

	var got stats
	found, err := c.Get(ctx, "dashboard:stats", &got)
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, c.Set(ctx, "dashboard:stats", stats{Orders: 3, Revenue: "1500000"}, time.Minute))
	found, err = c.Get(ctx, "dashboard:stats", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, stats{Orders: 3, Revenue: "1500000"}, got)

	require.NoError(t, c.Set(ctx, "products:a", 1, time.Minute))
	require.NoError(t, c.Set(ctx, "products:b", 2, time.Minute))
	require.NoError(t, c.DeletePrefix(ctx, "products:"))

	var n int
	found, _ = c.Get(ctx, "products:a", &n)
	assert.False(t, found)
	found, _ = c.Get(ctx, "dashboard:stats", &got)
	assert.True(t, found, "other prefixes survive")

	require.NoError(t, c.Delete(ctx, "dashboard:stats"))
	found, _ = c.Get(ctx, "dashboard:stats", &got)
	assert.False(t, found)
}

func TestMemoryCache(t *testing.T) {
	exerciseCache(t, NewMemoryCache())
}

func TestMemoryCache_Expiry(t *testing.T) {
	c := NewMemoryCache()
	now := time.Now()
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(context.Background(), "k", "v", time.Second))
	now = now.Add(2 * time.Second)

	var v string
	found, err := c.Get(context.Background(), "k", &v)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisCache(t *testing.T) {
	srv := miniredis.RunT(t)

	c, err := New(config.RedisSettings{Enabled: true, Addr: srv.Addr(), Prefix: "jhf:"})
	require.NoError(t, err)
	exerciseCache(t, c)

	require.NoError(t, c.Set(context.Background(), "x", 1, time.Minute))
	assert.True(t, srv.Exists("jhf:x"), "keys are namespaced")
}

func TestNewRedisCache_Unreachable(t *testing.T) {
	_, err := NewRedisCache(config.RedisSettings{Enabled: true, Addr: "127.0.0.1:1"})
	require.Error(t, err)
}

func TestRemember(t *testing.T) {
	c := NewMemoryCache()
	calls := 0
	load := func() (interface{}, error) {
		calls++
		return stats{Orders: calls}, nil
	}

	var first, second stats
	require.NoError(t, Remember(context.Background(), c, "k", time.Minute, &first, load))
	require.NoError(t, Remember(context.Background(), c, "k", time.Minute, &second, load))
	assert.Equal(t, 1, calls)
	assert.Equal(t, first, second)

	err := Remember(context.Background(), c, "other", time.Minute, &first, func() (interface{}, error) {
		return nil, errors.New("boom")
	})
	assert.EqualError(t, err, "boom")
}
