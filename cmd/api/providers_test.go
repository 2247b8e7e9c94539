package main

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appreport "github.com/xiebiao/techbookstore/internal/application/report"
	"github.com/xiebiao/techbookstore/internal/infrastructure/config"
	"github.com/xiebiao/techbookstore/pkg/cache"
	"github.com/xiebiao/techbookstore/pkg/mq"
)

func TestProvideReportCache(t *testing.T) {
	srv := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	cfg := &config.Config{Cache: config.CacheConfig{Enabled: false, Backend: "redis", MemorySize: 16, Sales: time.Minute}}

	t.Run("关闭缓存", func(t *testing.T) {
		c, err := provideReportCache(cfg, client, zerolog.Nop())
		require.NoError(t, err)
		assert.IsType(t, cache.Noop{}, c)
	})

	t.Run("只用内存", func(t *testing.T) {
		cfg.Cache.Enabled, cfg.Cache.Backend = true, "memory"
		c, err := provideReportCache(cfg, client, zerolog.Nop())
		require.NoError(t, err)
		assert.IsType(t, &cache.MemoryCache{}, c)
	})

	t.Run("Redis带降级", func(t *testing.T) {
		cfg.Cache.Enabled, cfg.Cache.Backend = true, "redis"
		c, err := provideReportCache(cfg, client, zerolog.Nop())
		require.NoError(t, err)
		require.IsType(t, &cache.Fallback{}, c)

		ctx := context.Background()
		require.NoError(t, c.Set(ctx, "dashboard:kpis", map[string]int{"orders": 3}, 0))
		assert.Len(t, srv.Keys(), 1, "同时写入Redis")

		srv.Close()
		var got map[string]int
		hit, err := c.Get(ctx, "dashboard:kpis", &got)
		require.NoError(t, err)
		assert.True(t, hit, "Redis不可用时读内存")
		assert.Equal(t, 3, got["orders"])
	})
}

func TestProvideReportTTL(t *testing.T) {
	ttl := provideReportTTL(&config.Config{Cache: config.CacheConfig{Sales: 2 * time.Minute}})
	def := appreport.DefaultTTL()
	assert.Equal(t, 2*time.Minute, ttl.Sales)
	assert.Equal(t, def.Dashboard, ttl.Dashboard)
	assert.Equal(t, def.Custom, ttl.Custom)
}

func TestProvidePublisher_Disabled(t *testing.T) {
	p, cleanup, err := providePublisher(&config.Config{}, zerolog.Nop())
	require.NoError(t, err)
	defer cleanup()
	assert.IsType(t, mq.NopPublisher{}, p)
}
