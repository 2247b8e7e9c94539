package report

import (
	"context"
	"strconv"

	"github.com/xiebiao/techbookstore/internal/domain/report"
	"github.com/xiebiao/techbookstore/pkg/cache"
)

const (
	defaultTrendDays = 90
	maxTrendDays     = 365
)

func trendDays(days int) (int, error) {
	if days == 0 {
		return defaultTrendDays, nil
	}
	if days < 1 || days > maxTrendDays {
		return 0, report.ErrInvalidParams.WithMessage("days必须在1到365之间")
	}
	return days, nil
}

// TechTrends 技术分类趋势（最近days天，默认90）
func (s *Service) TechTrends(ctx context.Context, days int) (*report.TechTrendReport, error) {
	days, err := trendDays(days)
	if err != nil {
		return nil, err
	}
	rep, err := s.techTrends(ctx, days)
	if err != nil {
		return nil, err
	}
	return &rep, nil
}

func (s *Service) techTrends(ctx context.Context, days int) (report.TechTrendReport, error) {
	r := report.LastDays(days, s.now())
	key := cache.Key(PrefixTechTrends, r.EndString(), strconv.Itoa(days))
	return cache.Remember(ctx, s.cache, "tech_trends", key, s.ttl.TechTrends, func(ctx context.Context) (report.TechTrendReport, error) {
		lines, err := s.analytics.SalesLines(ctx, r.From(), r.To())
		if err != nil {
			return report.TechTrendReport{}, err
		}
		return report.BuildTechTrends(r, lines), nil
	})
}

// CategoryTrend 单个分类的日销售序列
func (s *Service) CategoryTrend(ctx context.Context, category string, days int) (*report.CategoryTrend, error) {
	category = normalizeCategory(category)
	if category == "" {
		return nil, report.ErrInvalidParams.WithMessage("category不能为空")
	}
	days, err := trendDays(days)
	if err != nil {
		return nil, err
	}
	r := report.LastDays(days, s.now())
	key := cache.Key(PrefixTechTrends, "category", category, r.EndString(), strconv.Itoa(days))
	trend, err := cache.Remember(ctx, s.cache, "tech_trends_category", key, s.ttl.TechTrends, func(ctx context.Context) (report.CategoryTrend, error) {
		lines, err := s.analytics.SalesLines(ctx, r.From(), r.To())
		if err != nil {
			return report.CategoryTrend{}, err
		}
		return report.BuildCategoryTrend(r, lines, category), nil
	})
	if err != nil {
		return nil, err
	}
	return &trend, nil
}
