package cache

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/xiebiao/techbookstore/pkg/circuitbreaker"
)

type salesSummary struct {
	Revenue string `json:"revenue"`
	Orders  int    `json:"orders"`
}

func newMemory(t *testing.T) *MemoryCache {
	t.Helper()
	m, err := NewMemoryCache(16, time.Minute)
	require.NoError(t, err)
	return m
}

func TestKey(t *testing.T) {
	assert.Equal(t, "sales:2024-01-01:2024-01-31", Key("sales", "2024-01-01", "2024-01-31"))
	assert.Equal(t, "ranking:-:10", Key("ranking", "", "10"))
}

func TestMemoryCache_SetGet(t *testing.T) {
	ctx := context.Background()
	m := newMemory(t)

	require.NoError(t, m.Set(ctx, "sales:1", salesSummary{Revenue: "3000", Orders: 1}, 0))

	var got salesSummary
	hit, err := m.Get(ctx, "sales:1", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 1, got.Orders)

	hit, err = m.Get(ctx, "sales:missing", &got)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryCache_Expiry(t *testing.T) {
	ctx := context.Background()
	m := newMemory(t)
	now := time.Now()
	m.now = func() time.Time { return now }

	require.NoError(t, m.Set(ctx, "dashboard:kpis", salesSummary{Orders: 2}, time.Minute))

	now = now.Add(61 * time.Second)
	var got salesSummary
	hit, err := m.Get(ctx, "dashboard:kpis", &got)
	require.NoError(t, err)
	assert.False(t, hit)
	assert.Zero(t, m.Len(), "过期条目读取时被清理")
}

func TestMemoryCache_LRUEviction(t *testing.T) {
	ctx := context.Background()
	m, err := NewMemoryCache(2, time.Minute)
	require.NoError(t, err)

	require.NoError(t, m.Set(ctx, "a", 1, 0))
	require.NoError(t, m.Set(ctx, "b", 2, 0))
	var v int
	_, _ = m.Get(ctx, "a", &v) // a最近使用
	require.NoError(t, m.Set(ctx, "c", 3, 0))

	hit, _ := m.Get(ctx, "b", &v)
	assert.False(t, hit)
	hit, _ = m.Get(ctx, "a", &v)
	assert.True(t, hit)
}

func TestMemoryCache_DeletePrefix(t *testing.T) {
	ctx := context.Background()
	m := newMemory(t)
	for _, k := range []string{"sales:1", "sales:2", "inventory:1"} {
		require.NoError(t, m.Set(ctx, k, 1, 0))
	}

	require.NoError(t, m.DeletePrefix(ctx, "sales:"))

	var v int
	hit, _ := m.Get(ctx, "sales:1", &v)
	assert.False(t, hit)
	hit, _ = m.Get(ctx, "inventory:1", &v)
	assert.True(t, hit)
}

func TestMemoryCache_NotSerializable(t *testing.T) {
	err := newMemory(t).Set(context.Background(), "bad", make(chan int), 0)
	assert.ErrorIs(t, err, ErrNotSerializable)
}

func TestRemember(t *testing.T) {
	ctx := context.Background()
	m := newMemory(t)
	calls := 0
	load := func(context.Context) (salesSummary, error) {
		calls++
		return salesSummary{Revenue: "9000", Orders: 3}, nil
	}

	first, err := Remember(ctx, m, "sales", "sales:k", time.Minute, load)
	require.NoError(t, err)
	second, err := Remember(ctx, m, "sales", "sales:k", time.Minute, load)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 1, calls, "第二次应命中缓存")
}

func TestRemember_LoadErrorNotCached(t *testing.T) {
	ctx := context.Background()
	m := newMemory(t)
	errLoad := errors.New("db down")

	_, err := Remember(ctx, m, "sales", "sales:k", time.Minute, func(context.Context) (int, error) {
		return 0, errLoad
	})
	assert.ErrorIs(t, err, errLoad)
	assert.Zero(t, m.Len())
}

func TestRemember_NilCache(t *testing.T) {
	v, err := Remember(context.Background(), nil, "sales", "k", time.Minute, func(context.Context) (int, error) {
		return 7, nil
	})
	require.NoError(t, err)
	assert.Equal(t, 7, v)
}

// brokenCache 模拟Redis不可用
type brokenCache struct {
	mu    sync.Mutex
	calls int
}

var errRedisDown = errors.New("dial tcp 127.0.0.1:6379: connect: connection refused")

func (b *brokenCache) hit() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.calls++
	return errRedisDown
}

func (b *brokenCache) Get(context.Context, string, interface{}) (bool, error) { return false, b.hit() }

func (b *brokenCache) Set(context.Context, string, interface{}, time.Duration) error { return b.hit() }

func (b *brokenCache) Delete(context.Context, ...string) error { return b.hit() }

func (b *brokenCache) DeletePrefix(context.Context, string) error { return b.hit() }

func TestFallback_DegradesToSecondary(t *testing.T) {
	ctx := context.Background()
	primary := &brokenCache{}
	secondary := newMemory(t)
	breaker := NewBreaker("report-cache-test", zerolog.Nop())
	f := NewFallback(primary, secondary, breaker, zerolog.Nop())

	require.NoError(t, f.Set(ctx, "sales:1", salesSummary{Orders: 4}, time.Minute))

	var got salesSummary
	hit, err := f.Get(ctx, "sales:1", &got)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, 4, got.Orders)

	// 连续失败后熔断，后续请求不再访问主缓存
	_, _ = f.Get(ctx, "sales:1", &got)
	assert.Equal(t, circuitbreaker.StateOpen, breaker.State())

	before := primary.calls
	_, _ = f.Get(ctx, "sales:1", &got)
	assert.Equal(t, before, primary.calls)
}

func TestFallback_PrimaryHealthy(t *testing.T) {
	ctx := context.Background()
	primary := newMemory(t)
	secondary := newMemory(t)
	f := NewFallback(primary, secondary, NewBreaker("report-cache-ok", zerolog.Nop()), zerolog.Nop())

	require.NoError(t, f.Set(ctx, "inventory:1", 10, 0))
	var v int
	hit, err := primary.Get(ctx, "inventory:1", &v)
	require.NoError(t, err)
	assert.True(t, hit)

	require.NoError(t, f.DeletePrefix(ctx, "inventory:"))
	hit, _ = primary.Get(ctx, "inventory:1", &v)
	assert.False(t, hit)
	hit, _ = secondary.Get(ctx, "inventory:1", &v)
	assert.False(t, hit)
}
