package cache

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/xiebiao/techbookstore/pkg/circuitbreaker"
	"github.com/xiebiao/techbookstore/pkg/metrics"
)

// Fallback 主缓存（Redis）由熔断器保护，主缓存出错或熔断时读写降级到备用缓存
//
// 写操作同时写入备用缓存，降级后备用缓存中已有近期数据；
// 删除操作两边都执行，避免降级期间读到已失效的报表。
type Fallback struct {
	primary   Cache
	secondary Cache
	breaker   *circuitbreaker.CircuitBreaker
	logger    zerolog.Logger
}

// NewFallback 创建降级缓存
func NewFallback(primary, secondary Cache, breaker *circuitbreaker.CircuitBreaker, logger zerolog.Logger) *Fallback {
	return &Fallback{
		primary:   primary,
		secondary: secondary,
		breaker:   breaker,
		logger:    logger,
	}
}

// NewBreaker 报表缓存使用的熔断器：连续失败3次打开，30秒后半开探测
func NewBreaker(name string, logger zerolog.Logger) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(circuitbreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(c circuitbreaker.Counts) bool {
			return c.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			metrics.SetCircuitBreakerState(name, int(to))
			logger.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).Msg("缓存熔断器状态变化")
		},
	})
}

func (f *Fallback) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	var hit bool
	err := f.guard(func() error {
		var err error
		hit, err = f.primary.Get(ctx, key, dest)
		return err
	})
	if err == nil {
		return hit, nil
	}
	return f.secondary.Get(ctx, key, dest)
}

func (f *Fallback) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if err := f.secondary.Set(ctx, key, value, ttl); err != nil {
		return err
	}
	_ = f.guard(func() error { return f.primary.Set(ctx, key, value, ttl) })
	return nil
}

func (f *Fallback) Delete(ctx context.Context, keys ...string) error {
	err := f.secondary.Delete(ctx, keys...)
	_ = f.guard(func() error { return f.primary.Delete(ctx, keys...) })
	return err
}

func (f *Fallback) DeletePrefix(ctx context.Context, prefix string) error {
	err := f.secondary.DeletePrefix(ctx, prefix)
	_ = f.guard(func() error { return f.primary.DeletePrefix(ctx, prefix) })
	return err
}

// guard 在熔断器保护下访问主缓存，失败时记录指标
func (f *Fallback) guard(op func() error) error {
	err := f.breaker.Execute(op)
	switch {
	case err == nil:
		metrics.CircuitBreakerRequest(f.breaker.Name(), "success")
	case errors.Is(err, circuitbreaker.ErrOpenState):
		metrics.CircuitBreakerRequest(f.breaker.Name(), "rejected")
	default:
		metrics.CircuitBreakerRequest(f.breaker.Name(), "failure")
		metrics.CacheError("redis")
		f.logger.Warn().Err(err).Msg("Redis缓存访问失败，降级到内存缓存")
	}
	return err
}
