// Package report 报表服务：从分析仓储读取交易历史，聚合后经注入的缓存返回
package report

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/xiebiao/techbookstore/internal/domain/report"
	"github.com/xiebiao/techbookstore/pkg/cache"
	"github.com/xiebiao/techbookstore/pkg/mq"
)

const tracerName = "techbookstore/application/report"

// 缓存键前缀，cmd/worker 按前缀淘汰
const (
	PrefixSales      = "report:sales"
	PrefixInventory  = "report:inventory"
	PrefixCustomers  = "report:customers"
	PrefixTechTrends = "report:tech-trends"
	PrefixDashboard  = "report:dashboard"
	PrefixCustom     = "report:custom"
)

// TTL 各类报表的缓存时间
type TTL struct {
	Sales      time.Duration
	Inventory  time.Duration
	Customers  time.Duration
	TechTrends time.Duration
	Dashboard  time.Duration
	Custom     time.Duration
}

// DefaultTTL 默认缓存时间
func DefaultTTL() TTL {
	return TTL{
		Sales:      10 * time.Minute,
		Inventory:  5 * time.Minute,
		Customers:  15 * time.Minute,
		TechTrends: 30 * time.Minute,
		Dashboard:  time.Minute,
		Custom:     24 * time.Hour,
	}
}

// Service 报表服务
type Service struct {
	analytics report.AnalyticsRepository
	reports   report.Repository
	cache     cache.Cache
	exporter  report.Exporter
	publisher mq.Publisher
	ttl       TTL
	logger    zerolog.Logger
	now       func() time.Time
}

// NewService 创建报表服务，c为nil时不缓存
func NewService(
	analytics report.AnalyticsRepository,
	reports report.Repository,
	c cache.Cache,
	exporter report.Exporter,
	publisher mq.Publisher,
	ttl TTL,
	logger zerolog.Logger,
) *Service {
	if c == nil {
		c = cache.Noop{}
	}
	return &Service{
		analytics: analytics,
		reports:   reports,
		cache:     c,
		exporter:  exporter,
		publisher: publisher,
		ttl:       ttl,
		logger:    logger.With().Str("usecase", "report").Logger(),
		now:       time.Now,
	}
}

// Invalidator 按数据变化淘汰报表缓存，API进程与worker共用
type Invalidator struct {
	cache  cache.Cache
	logger zerolog.Logger
}

// NewInvalidator 只依赖缓存，不需要数据库
func NewInvalidator(c cache.Cache, logger zerolog.Logger) *Invalidator {
	if c == nil {
		c = cache.Noop{}
	}
	return &Invalidator{cache: c, logger: logger}
}

// InvalidateOrders 订单变化后淘汰依赖订单的报表
func (v *Invalidator) InvalidateOrders(ctx context.Context) error {
	return v.evict(ctx, PrefixSales, PrefixCustomers, PrefixTechTrends, PrefixDashboard, PrefixCustom)
}

// InvalidateInventory 库存变化后淘汰库存类报表
func (v *Invalidator) InvalidateInventory(ctx context.Context) error {
	return v.evict(ctx, PrefixInventory, PrefixDashboard)
}

func (v *Invalidator) evict(ctx context.Context, prefixes ...string) error {
	for _, p := range prefixes {
		if err := v.cache.DeletePrefix(ctx, p+":"); err != nil {
			return err
		}
	}
	v.logger.Debug().Strs("prefixes", prefixes).Msg("报表缓存已淘汰")
	return nil
}

func (s *Service) InvalidateOrders(ctx context.Context) error {
	return NewInvalidator(s.cache, s.logger).InvalidateOrders(ctx)
}

func (s *Service) InvalidateInventory(ctx context.Context) error {
	return NewInvalidator(s.cache, s.logger).InvalidateInventory(ctx)
}

func normalizeCategory(c string) string {
	return strings.ToUpper(strings.TrimSpace(c))
}
