package redis

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/xiebiao/techbookstore/pkg/cache"
	apperrors "github.com/xiebiao/techbookstore/pkg/errors"
)

// DefaultKeyPrefix 报表缓存键前缀
const DefaultKeyPrefix = "techbookstore:report:"

const scanBatch = 200

// ReportCache 基于Redis的cache.Cache实现，值为JSON字符串
type ReportCache struct {
	client     redis.UniversalClient
	prefix     string
	defaultTTL time.Duration
}

var _ cache.Cache = (*ReportCache)(nil)

// NewReportCache prefix为空时使用DefaultKeyPrefix
func NewReportCache(client redis.UniversalClient, prefix string, defaultTTL time.Duration) *ReportCache {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	if defaultTTL <= 0 {
		defaultTTL = 10 * time.Minute
	}
	return &ReportCache{client: client, prefix: prefix, defaultTTL: defaultTTL}
}

func (c *ReportCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.New(apperrors.ErrCodeRedisError, "读取缓存失败").WithCause(err)
	}
	if err := json.Unmarshal(data, dest); err != nil {
		// 结构变化后的旧数据按未命中处理
		_ = c.client.Del(ctx, c.prefix+key).Err()
		return false, nil
	}
	return true, nil
}

func (c *ReportCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return errors.Join(cache.ErrNotSerializable, err)
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if err := c.client.Set(ctx, c.prefix+key, data, ttl).Err(); err != nil {
		return apperrors.New(apperrors.ErrCodeRedisError, "写入缓存失败").WithCause(err)
	}
	return nil
}

func (c *ReportCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = c.prefix + k
	}
	if err := c.client.Del(ctx, full...).Err(); err != nil {
		return apperrors.New(apperrors.ErrCodeRedisError, "删除缓存失败").WithCause(err)
	}
	return nil
}

// DeletePrefix SCAN分批删除，不使用KEYS阻塞服务端
func (c *ReportCache) DeletePrefix(ctx context.Context, prefix string) error {
	pattern := escapeGlob(c.prefix+prefix) + "*"
	var cursor uint64
	for {
		keys, next, err := c.client.Scan(ctx, cursor, pattern, scanBatch).Result()
		if err != nil {
			return apperrors.New(apperrors.ErrCodeRedisError, "扫描缓存失败").WithCause(err)
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return apperrors.New(apperrors.ErrCodeRedisError, "删除缓存失败").WithCause(err)
			}
		}
		if next == 0 {
			return nil
		}
		cursor = next
	}
}

var globEscaper = strings.NewReplacer(`\`, `\\`, "*", `\*`, "?", `\?`, "[", `\[`, "]", `\]`)

func escapeGlob(s string) string {
	return globEscaper.Replace(s)
}
