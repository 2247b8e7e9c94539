// Package cache 报表缓存
//
// Cache是报表服务唯一的缓存依赖，值以JSON保存并带过期时间。
// 实现：MemoryCache（进程内LRU）、Redis实现（见persistence/redis）、
// Fallback（Redis为主，熔断时降级到MemoryCache）。
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/xiebiao/techbookstore/pkg/metrics"
)

// Cache 键值缓存（key → JSON值 + 过期时间）
type Cache interface {
	// Get 读取并反序列化到dest，未命中返回false且无错误
	Get(ctx context.Context, key string, dest interface{}) (bool, error)
	// Set 序列化value写入，ttl<=0表示使用实现的默认过期时间
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	// Delete 删除指定键
	Delete(ctx context.Context, keys ...string) error
	// DeletePrefix 删除所有以prefix开头的键
	DeletePrefix(ctx context.Context, prefix string) error
}

// ErrNotSerializable 值无法JSON序列化
var ErrNotSerializable = errors.New("cache: value is not serializable")

// Key 拼接缓存键：Key("sales", "2024-01-01", "2024-01-31") → "sales:2024-01-01:2024-01-31"
// 空片段以"-"占位，保证不同参数不会拼出同一个键
func Key(parts ...string) string {
	normalized := make([]string, len(parts))
	for i, p := range parts {
		if p == "" {
			p = "-"
		}
		normalized[i] = p
	}
	return strings.Join(normalized, ":")
}

// Remember 读穿缓存：命中直接返回，未命中调用load并写回
// 缓存读写失败只记日志，不影响结果
func Remember[T any](ctx context.Context, c Cache, report, key string, ttl time.Duration, load func(ctx context.Context) (T, error)) (T, error) {
	var cached T
	if c != nil {
		hit, err := c.Get(ctx, key, &cached)
		if err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("读取报表缓存失败")
		}
		if hit {
			metrics.CacheHit(report)
			return cached, nil
		}
		metrics.CacheMiss(report)
	}

	start := time.Now()
	value, err := load(ctx)
	if err != nil {
		var zero T
		return zero, err
	}
	metrics.ObserveReportBuild(report, time.Since(start))

	if c != nil {
		if err := c.Set(ctx, key, value, ttl); err != nil {
			log.Ctx(ctx).Warn().Err(err).Str("key", key).Msg("写入报表缓存失败")
		}
	}
	return value, nil
}

func encode(value interface{}) ([]byte, error) {
	b, err := json.Marshal(value)
	if err != nil {
		return nil, errors.Join(ErrNotSerializable, err)
	}
	return b, nil
}
